package attendance

import (
	"context"
	"time"
)

// Filter selects records for Find. Zero values mean "no restriction".
type Filter struct {
	EmployeeIDs []string
	Status      *Status
	From        *time.Time // inclusive, compared by calendar day
	To          *time.Time // inclusive, compared by calendar day
	Ascending   bool       // default is newest day first
}

// RecordRepository owns attendance records and enforces one record per
// employee per day.
type RecordRepository interface {
	// CheckIn stores rec, or fills check-in and status on an existing record
	// for the same key that has no check-in yet. Returns ErrAlreadyCheckedIn
	// when the key already carries a check-in.
	CheckIn(ctx context.Context, rec Record) (Record, error)

	// CheckOut locks the record for (employeeID, day) and applies mutate to it.
	// Returns ErrNoCheckInFound when no record exists. Nothing is persisted
	// when mutate fails.
	CheckOut(ctx context.Context, employeeID string, day time.Time, mutate func(*Record) error) (Record, error)

	// GetForDay returns nil, nil when the employee has no record that day.
	GetForDay(ctx context.Context, employeeID string, day time.Time) (*Record, error)

	Find(ctx context.Context, filter Filter) ([]Record, error)
}
