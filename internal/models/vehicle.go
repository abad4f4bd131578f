package models

// VehicleStatusEntry is the API view of one live vehicle: the resolved
// report, its trust label, and any kinematic signals derived from it.
// ETA fields are omitted entirely when speed is zero; a placeholder is the
// caller's concern, never "0 min".
type VehicleStatusEntry struct {
	DriverID       string         `json:"driverId,omitempty"`
	DriverName     string         `json:"driverName,omitempty"`
	BusNumber      string         `json:"busNumber,omitempty"`
	RouteID        string         `json:"routeId,omitempty"`
	RouteName      string         `json:"routeName,omitempty"`
	Status         Classification `json:"status"`
	Position       *Coordinate    `json:"position,omitempty"`
	LastUpdateTime int64          `json:"lastUpdateTime,omitempty"`
	SpeedMps       float64        `json:"speedMps"`
	SpeedText      string         `json:"speedText,omitempty"`
	HeadingCompass string         `json:"headingCompass,omitempty"`
	ETASeconds     int            `json:"etaSeconds,omitempty"`
	ETAText        string         `json:"etaText,omitempty"`
	DistanceText   string         `json:"distanceText,omitempty"`
	Direction      Direction      `json:"direction,omitempty"`
}
