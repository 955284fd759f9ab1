package attendance

import (
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/calendar"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Record is the single attendance entry of one employee on one calendar day.
// (EmployeeID, Day) is unique.
type Record struct {
	ID         string
	EmployeeID string
	Day        time.Time
	CheckIn    *time.Time
	CheckOut   *time.Time
	Status     Status
	TotalHours decimal.Decimal
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// NewRecord opens the record for the day containing now.
func NewRecord(employeeID string, now time.Time, policy Policy) Record {
	checkIn := now
	return Record{
		ID:         uuid.Must(uuid.NewV7()).String(),
		EmployeeID: employeeID,
		Day:        calendar.StartOfDay(now),
		CheckIn:    &checkIn,
		Status:     Classify(policy, now, nil),
		TotalHours: decimal.Zero,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// ApplyCheckOut closes the record at now. The record is left untouched on error.
func (r *Record) ApplyCheckOut(now time.Time, policy Policy) error {
	if r.CheckIn == nil {
		return ErrNoCheckInFound
	}
	if r.CheckOut != nil {
		return ErrAlreadyCheckedOut
	}
	if now.Before(*r.CheckIn) {
		return ErrCheckOutBeforeCheckIn
	}

	checkOut := now
	r.CheckOut = &checkOut
	r.TotalHours = TotalHours(r.CheckIn, r.CheckOut)
	r.Status = Classify(policy, *r.CheckIn, r.CheckOut)
	r.UpdatedAt = now
	return nil
}

// HasCheckedIn reports whether the check-in transition already happened.
func (r Record) HasCheckedIn() bool {
	return r.CheckIn != nil
}

// TotalHours is the worked duration in hours rounded to two decimals, or zero
// unless both timestamps are present.
func TotalHours(checkIn, checkOut *time.Time) decimal.Decimal {
	if checkIn == nil || checkOut == nil {
		return decimal.Zero
	}
	nanos := decimal.NewFromInt(checkOut.Sub(*checkIn).Nanoseconds())
	return nanos.Div(decimal.NewFromInt(int64(time.Hour))).Round(2)
}
