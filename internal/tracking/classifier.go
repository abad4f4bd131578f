package tracking

import (
	"time"

	"buswatch.transitkit.org/internal/models"
)

// StaleAfter is the trust window for report timestamps. A report aged
// exactly StaleAfter is already stale: age < 10min is Available,
// age >= 10min is Stale.
const StaleAfter = 10 * time.Minute

// Classify assigns a trust label to a report. Rules run in order: missing
// report, off duty, offline, stale, available. Staleness never discards
// the report; callers should still show the last-known position flagged as
// outdated.
func Classify(report *models.PositionReport, now time.Time) models.Classification {
	if report == nil {
		return models.Classification{
			Status:  models.StatusNotAssigned,
			Message: "No driver is currently assigned to this bus",
		}
	}

	if !report.IsOnDuty {
		return models.Classification{
			Status:  models.StatusOffDuty,
			Message: "Driver is off duty",
		}
	}

	if !report.IsOnline {
		return models.Classification{
			Status:  models.StatusOnBreak,
			Message: "Driver is on break",
		}
	}

	age := now.UnixMilli() - report.Timestamp
	if age >= StaleAfter.Milliseconds() {
		return models.Classification{
			Status:  models.StatusStale,
			Message: "Bus data is outdated. Driver may be offline.",
		}
	}

	return models.Classification{
		Status:  models.StatusAvailable,
		Message: "Driver is available",
	}
}
