package attendance

import "github.com/shopspring/decimal"

// StatusCounts tallies records per stored status.
type StatusCounts struct {
	Present int `json:"present"`
	Absent  int `json:"absent"`
	Late    int `json:"late"`
	HalfDay int `json:"half_day"`
}

func (c *StatusCounts) Add(s Status) {
	switch s {
	case StatusPresent:
		c.Present++
	case StatusAbsent:
		c.Absent++
	case StatusLate:
		c.Late++
	case StatusHalfDay:
		c.HalfDay++
	}
}

func (c StatusCounts) Total() int {
	return c.Present + c.Absent + c.Late + c.HalfDay
}

// Tally folds records into status counts and the sum of their hours. The sum
// is rounded once, after accumulation.
func Tally(records []Record) (StatusCounts, decimal.Decimal) {
	var counts StatusCounts
	sum := decimal.Zero
	for _, r := range records {
		counts.Add(r.Status)
		sum = sum.Add(r.TotalHours)
	}
	return counts, sum.Round(2)
}
