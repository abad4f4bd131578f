package traffic

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"log/slog"

	"buswatch.transitkit.org/internal/logging"
	"buswatch.transitkit.org/internal/models"
)

// DefaultRequestTimeout bounds the single outbound call to the routing
// provider. A timeout is a provider failure, not an error surfaced to
// callers.
const DefaultRequestTimeout = 5 * time.Second

// MatrixClient calls a distance-matrix style routing API: origin and
// destination coordinate pairs in, distance/duration/duration-in-traffic
// out.
type MatrixClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *slog.Logger
}

func NewMatrixClient(baseURL, apiKey string, logger *slog.Logger) *MatrixClient {
	return &MatrixClient{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: DefaultRequestTimeout,
		},
		logger: logger,
	}
}

type matrixResponse struct {
	Status string `json:"status"`
	Rows   []struct {
		Elements []struct {
			Status   string `json:"status"`
			Distance struct {
				Text  string  `json:"text"`
				Value float64 `json:"value"`
			} `json:"distance"`
			Duration struct {
				Text  string `json:"text"`
				Value int    `json:"value"`
			} `json:"duration"`
			DurationInTraffic *struct {
				Text  string `json:"text"`
				Value int    `json:"value"`
			} `json:"duration_in_traffic"`
		} `json:"elements"`
	} `json:"rows"`
}

// Route makes one attempt against the provider. Missing credentials,
// transport failures, non-2xx responses, non-OK provider statuses, and
// absent route elements all come back as errors for the caller to absorb.
func (c *MatrixClient) Route(ctx context.Context, origin, destination models.Coordinate, departure time.Time) (RouteEstimate, error) {
	if c.apiKey == "" {
		return RouteEstimate{}, errors.New("no routing API key configured")
	}

	params := url.Values{}
	params.Set("origins", fmt.Sprintf("%f,%f", origin.Lat, origin.Lon))
	params.Set("destinations", fmt.Sprintf("%f,%f", destination.Lat, destination.Lon))
	params.Set("key", c.apiKey)
	params.Set("units", "metric")
	params.Set("mode", "driving")
	params.Set("traffic_model", "best_guess")
	params.Set("departure_time", fmt.Sprintf("%d", departure.Unix()))

	req, err := http.NewRequestWithContext(ctx, "GET", c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return RouteEstimate{}, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return RouteEstimate{}, err
	}
	defer logging.SafeCloseWithLogging(resp.Body, c.logger, "matrix_response_body")

	if resp.StatusCode != http.StatusOK {
		return RouteEstimate{}, fmt.Errorf("routing provider returned HTTP %d", resp.StatusCode)
	}

	var body matrixResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return RouteEstimate{}, err
	}

	if body.Status != "OK" {
		return RouteEstimate{}, fmt.Errorf("routing provider status %q", body.Status)
	}
	if len(body.Rows) == 0 || len(body.Rows[0].Elements) == 0 {
		return RouteEstimate{}, errors.New("routing provider returned no elements")
	}

	element := body.Rows[0].Elements[0]
	if element.Status != "OK" {
		return RouteEstimate{}, fmt.Errorf("no route found: %s", element.Status)
	}

	estimate := RouteEstimate{
		DistanceMeters:  element.Distance.Value,
		DurationSeconds: element.Duration.Value,
	}
	if element.DurationInTraffic != nil {
		estimate.DurationInTrafficSeconds = element.DurationInTraffic.Value
		estimate.HasTrafficDuration = true
	}

	return estimate, nil
}
