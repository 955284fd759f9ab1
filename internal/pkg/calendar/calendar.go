package calendar

import "time"

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04:05"
)

// Clock is the time source injected into services.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock. A nil Location means time.Local.
type SystemClock struct {
	Location *time.Location
}

func (c SystemClock) Now() time.Time {
	if c.Location == nil {
		return time.Now()
	}
	return time.Now().In(c.Location)
}

// FixedClock always returns the same instant.
type FixedClock struct {
	T time.Time
}

func (c FixedClock) Now() time.Time {
	return c.T
}

// StartOfDay returns t with the time set to 00:00:00.000 in t's location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// EndOfDay returns t with the time set to 23:59:59.999 in t's location.
func EndOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, int(999*time.Millisecond), t.Location())
}

// MonthRange returns the first and last instant of a calendar month.
// A nil month or year falls back to the month or year of now.
func MonthRange(month, year *int, now time.Time) (time.Time, time.Time) {
	m := int(now.Month())
	if month != nil {
		m = *month
	}
	y := now.Year()
	if year != nil {
		y = *year
	}

	first := time.Date(y, time.Month(m), 1, 0, 0, 0, 0, now.Location())
	last := first.AddDate(0, 1, -1)
	return StartOfDay(first), EndOfDay(last)
}

// DaysBetween lists every calendar day from from to to, both inclusive.
func DaysBetween(from, to time.Time) []time.Time {
	start := StartOfDay(from)
	end := StartOfDay(to)

	var days []time.Time
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}

// DayCount is len(DaysBetween(from, to)) without building the slice. Dates
// are compared in UTC so DST shifts in from's location do not skew the count.
func DayCount(from, to time.Time) int {
	fy, fm, fd := from.Date()
	ty, tm, td := to.In(from.Location()).Date()
	start := time.Date(fy, fm, fd, 0, 0, 0, 0, time.UTC)
	end := time.Date(ty, tm, td, 0, 0, 0, 0, time.UTC)
	if end.Before(start) {
		return 0
	}
	// Unix seconds, since time.Duration saturates past ~292 years.
	return int((end.Unix()-start.Unix())/86400) + 1
}

// TimeOfDay is the wall-clock time elapsed since midnight, computed from the
// clock fields so that DST transitions do not shift it.
func TimeOfDay(t time.Time) time.Duration {
	h, m, s := t.Clock()
	return time.Duration(h)*time.Hour +
		time.Duration(m)*time.Minute +
		time.Duration(s)*time.Second +
		time.Duration(t.Nanosecond())
}

// SameDay reports whether a and b fall on the same calendar day in a's location.
func SameDay(a, b time.Time) bool {
	return StartOfDay(a).Equal(StartOfDay(b.In(a.Location())))
}

// ParseDate parses a YYYY-MM-DD string as a day in loc.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(DateLayout, s, loc)
}

// ParseClock parses HH:MM:SS (or HH:MM) into an offset from midnight.
func ParseClock(s string) (time.Duration, error) {
	t, err := time.Parse(TimeLayout, s)
	if err != nil {
		var err2 error
		t, err2 = time.Parse("15:04", s)
		if err2 != nil {
			return 0, err
		}
	}
	return TimeOfDay(t), nil
}
