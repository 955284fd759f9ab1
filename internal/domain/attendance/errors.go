package attendance

import "errors"

// Attendance domain errors
var (
	ErrAlreadyCheckedIn      = errors.New("already checked in today")
	ErrAlreadyCheckedOut     = errors.New("already checked out today")
	ErrNoCheckInFound        = errors.New("no check-in record found for today")
	ErrCheckOutBeforeCheckIn = errors.New("check-out time is before check-in time")
)
