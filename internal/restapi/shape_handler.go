package restapi

import (
	"errors"
	"net/http"

	"buswatch.transitkit.org/internal/models"
	"buswatch.transitkit.org/internal/routedb"
	"buswatch.transitkit.org/internal/utils"
)

type shapeEntry struct {
	RouteID         string `json:"routeId"`
	EncodedPolyline string `json:"encodedPolyline"`
	Length          int    `json:"length"`
}

func (api *RestAPI) shapeHandler(w http.ResponseWriter, r *http.Request) {
	routeID := utils.ExtractIDFromParams(r, "routeId")
	if err := utils.ValidateID(routeID); err != nil {
		api.validationErrorResponse(w, r, map[string][]string{"routeId": {err.Error()}})
		return
	}

	ctx := r.Context()

	encoded, err := api.RouteDB.Queries.GetEncodedShape(ctx, routeID)
	if errors.Is(err, routedb.ErrNotFound) {
		api.sendNotFound(w, r)
		return
	}
	if err != nil {
		api.serverErrorResponse(w, r, err)
		return
	}

	points, err := api.RouteDB.Queries.GetShape(ctx, routeID)
	if err != nil {
		api.serverErrorResponse(w, r, err)
		return
	}

	entry := shapeEntry{
		RouteID:         routeID,
		EncodedPolyline: encoded,
		Length:          len(points),
	}
	api.sendResponse(w, r, models.NewEntryResponse(entry))
}
