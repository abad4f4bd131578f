package models

// DriverStatus is the closed set of trust labels attached to a live report.
// Staleness does not discard a report; it only downgrades the label.
type DriverStatus int

const (
	StatusNotAssigned DriverStatus = iota
	StatusOffDuty
	StatusOnBreak
	StatusStale
	StatusAvailable
)

func (s DriverStatus) String() string {
	switch s {
	case StatusNotAssigned:
		return "not-assigned"
	case StatusOffDuty:
		return "off-duty"
	case StatusOnBreak:
		return "on-break"
	case StatusStale:
		return "stale"
	case StatusAvailable:
		return "available"
	default:
		return "unknown"
	}
}

// MarshalText renders the status as its wire label so JSON consumers see
// "available" rather than an integer.
func (s DriverStatus) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Classification pairs a trust label with its human-readable message.
type Classification struct {
	Status  DriverStatus `json:"status"`
	Message string       `json:"message"`
}

// Trusted reports whether kinematic signals may be derived from the
// underlying report. Stale data still carries a last-known position but is
// not usable for speed or ETA math.
func (c Classification) Trusted() bool {
	return c.Status == StatusAvailable
}
