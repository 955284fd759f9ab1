package attendance

import (
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/calendar"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/validator"
)

// ========================================
// QUERY DTOs
// ========================================

// MonthQuery selects a calendar month. Missing fields default to the current month/year.
type MonthQuery struct {
	Month *int `json:"month,omitempty"`
	Year  *int `json:"year,omitempty"`
}

func (q *MonthQuery) Validate() error {
	var errs validator.ValidationErrors

	if q.Month != nil && !validator.IsValidMonth(*q.Month) {
		errs = append(errs, validator.ValidationError{
			Field:   "month",
			Message: "month must be between 1 and 12",
		})
	}

	if q.Year != nil && !validator.IsValidYear(*q.Year) {
		errs = append(errs, validator.ValidationError{
			Field:   "year",
			Message: "year must be between 1970 and 9999",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// AttendanceFilter is the manager-side record query.
type AttendanceFilter struct {
	StartDate    *string `json:"start_date,omitempty"` // YYYY-MM-DD
	EndDate      *string `json:"end_date,omitempty"`   // YYYY-MM-DD
	Status       *string `json:"status,omitempty"`
	Department   *string `json:"department,omitempty"`
	EmployeeCode *string `json:"employee_code,omitempty"`
}

func (f *AttendanceFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.Status != nil && !validator.IsInSlice(*f.Status, validStatuses) {
		errs = append(errs, validator.ValidationError{
			Field:   "status",
			Message: "status must be one of: " + strings.Join(validStatuses, ", "),
		})
	}

	errs = append(errs, validateDateRange(f.StartDate, f.EndDate)...)

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ExportFilter is the query behind the tabular export.
type ExportFilter struct {
	StartDate    *string `json:"start_date,omitempty"`
	EndDate      *string `json:"end_date,omitempty"`
	EmployeeCode *string `json:"employee_code,omitempty"`
}

func (f *ExportFilter) Validate() error {
	errs := validateDateRange(f.StartDate, f.EndDate)
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// DateRangeQuery is an inclusive day range, e.g. for trend reports.
type DateRangeQuery struct {
	StartDate *string `json:"start_date,omitempty"`
	EndDate   *string `json:"end_date,omitempty"`
}

func (q *DateRangeQuery) Validate() error {
	errs := validateDateRange(q.StartDate, q.EndDate)
	if len(errs) > 0 {
		return errs
	}
	return nil
}

func validateDateRange(start, end *string) validator.ValidationErrors {
	var errs validator.ValidationErrors

	var startDate, endDate time.Time
	var startOK, endOK bool

	if start != nil {
		if startDate, startOK = validator.IsValidDate(*start); !startOK {
			errs = append(errs, validator.ValidationError{
				Field:   "start_date",
				Message: "start_date must be in YYYY-MM-DD format",
			})
		}
	}

	if end != nil {
		if endDate, endOK = validator.IsValidDate(*end); !endOK {
			errs = append(errs, validator.ValidationError{
				Field:   "end_date",
				Message: "end_date must be in YYYY-MM-DD format",
			})
		}
	}

	if startOK && endOK && startDate.After(endDate) {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: "end_date must not be before start_date",
		})
	}

	return errs
}

// ParseDay parses an optional YYYY-MM-DD value in loc. Callers validate first.
func ParseDay(s *string, loc *time.Location) (*time.Time, error) {
	if s == nil {
		return nil, nil
	}
	day, err := calendar.ParseDate(*s, loc)
	if err != nil {
		return nil, validator.ValidationErrors{{Field: "date", Message: fmt.Sprintf("invalid date %q", *s)}}
	}
	return &day, nil
}

// ========================================
// RESPONSE DTOs
// ========================================

type RecordResponse struct {
	ID           string  `json:"id"`
	EmployeeID   string  `json:"employee_id"`
	EmployeeCode string  `json:"employee_code,omitempty"`
	EmployeeName string  `json:"employee_name,omitempty"`
	Department   string  `json:"department,omitempty"`
	Date         string  `json:"date"`
	CheckInTime  *string `json:"check_in_time"`
	CheckOutTime *string `json:"check_out_time"`
	Status       Status  `json:"status"`
	TotalHours   float64 `json:"total_hours"`
}

// timePtrToString safely converts a *time.Time to a string.
func timePtrToString(t *time.Time) *string {
	if t == nil {
		return nil
	}
	format := t.Format(time.RFC3339)
	return &format
}

// ToRecordResponse projects a record, enriched with roster data when known.
func ToRecordResponse(r Record, emp *employee.Employee) RecordResponse {
	resp := RecordResponse{
		ID:           r.ID,
		EmployeeID:   r.EmployeeID,
		Date:         r.Day.Format(calendar.DateLayout),
		CheckInTime:  timePtrToString(r.CheckIn),
		CheckOutTime: timePtrToString(r.CheckOut),
		Status:       r.Status,
		TotalHours:   r.TotalHours.InexactFloat64(),
	}
	if emp != nil {
		resp.EmployeeCode = emp.EmployeeCode
		resp.EmployeeName = emp.FullName
		resp.Department = emp.Department
	}
	return resp
}

// ToRecordResponses maps records using a roster index; unknown employees are left bare.
func ToRecordResponses(records []Record, roster map[string]employee.Employee) []RecordResponse {
	responses := make([]RecordResponse, 0, len(records))
	for _, r := range records {
		var emp *employee.Employee
		if e, ok := roster[r.EmployeeID]; ok {
			emp = &e
		}
		responses = append(responses, ToRecordResponse(r, emp))
	}
	return responses
}

type ListAttendanceResponse struct {
	Count       int              `json:"count"`
	Attendances []RecordResponse `json:"attendances"`
}

type EmployeeAttendanceResponse struct {
	Employee    employee.EmployeeResponse `json:"employee"`
	Count       int                       `json:"count"`
	Attendances []RecordResponse          `json:"attendances"`
}

// PersonalSummary is one employee's month folded into status counts and hours.
type PersonalSummary struct {
	Month int `json:"month"`
	Year  int `json:"year"`
	StatusCounts
	TotalHours float64 `json:"total_hours"`
}

type EmployeeDashboardResponse struct {
	TodayStatus  *RecordResponse  `json:"today_status"`
	MonthlyStats PersonalSummary  `json:"monthly_stats"`
	Last7Days    []RecordResponse `json:"last_7_days"`
}
