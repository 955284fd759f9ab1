package attendance

import (
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/calendar"
)

type Status string

const (
	StatusPresent Status = "present"
	StatusAbsent  Status = "absent"
	StatusLate    Status = "late"
	StatusHalfDay Status = "half-day"
)

var validStatuses = []string{
	string(StatusPresent),
	string(StatusAbsent),
	string(StatusLate),
	string(StatusHalfDay),
}

func (s Status) IsValid() bool {
	switch s {
	case StatusPresent, StatusAbsent, StatusLate, StatusHalfDay:
		return true
	}
	return false
}

// Policy holds the wall-clock thresholds used by Classify.
type Policy struct {
	// LateAfter is the offset from midnight after which a check-in is late.
	LateAfter time.Duration
	// HalfDayThreshold is the minimum worked duration that avoids a half-day.
	HalfDayThreshold time.Duration
}

// DefaultPolicy: late strictly after 09:30:00, half-day under 4 hours.
func DefaultPolicy() Policy {
	return Policy{
		LateAfter:        9*time.Hour + 30*time.Minute,
		HalfDayThreshold: 4 * time.Hour,
	}
}

// Classify derives a status from the check-in and optional check-out times.
// It never returns StatusAbsent.
func Classify(p Policy, checkIn time.Time, checkOut *time.Time) Status {
	status := StatusPresent
	if calendar.TimeOfDay(checkIn) > p.LateAfter {
		status = StatusLate
	}

	if checkOut != nil && checkOut.Sub(checkIn) < p.HalfDayThreshold {
		status = StatusHalfDay
	}

	return status
}
