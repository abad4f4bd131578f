package models

// PositionReport is one vehicle's latest known state as published by the
// live feed. The feed overwrites it on every update; this service only
// reads it. Timestamp and LastSeen are epoch milliseconds.
type PositionReport struct {
	DriverID         string  `json:"driverId"`
	DriverName       string  `json:"driverName,omitempty"`
	BusNumber        string  `json:"busNumber,omitempty"`
	RouteID          string  `json:"routeId,omitempty"`
	RouteName        string  `json:"routeName,omitempty"`
	Latitude         float64 `json:"latitude"`
	Longitude        float64 `json:"longitude"`
	Speed            float64 `json:"speed,omitempty"`
	Heading          float64 `json:"heading,omitempty"`
	Accuracy         float64 `json:"accuracy,omitempty"`
	IsOnDuty         bool    `json:"isOnDuty"`
	IsOnline         bool    `json:"isOnline"`
	Timestamp        int64   `json:"timestamp"`
	LastSeen         int64   `json:"lastSeen,omitempty"`
	Heartbeat        int64   `json:"heartbeat,omitempty"`
	ConnectionStatus string  `json:"connectionStatus,omitempty"`
	UpdateCount      int64   `json:"updateCount,omitempty"`
}

// LiveFeedSnapshot maps vehicle key (driver id) to its current report.
// A snapshot is an immutable view: resolution only ever reads it.
type LiveFeedSnapshot map[string]PositionReport
