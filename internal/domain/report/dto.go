package report

import (
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/validator"
)

// ========================================
// QUERY DTOs
// ========================================

// DayQuery selects a single calendar day; nil means today.
type DayQuery struct {
	Date *string `json:"date,omitempty"`
}

func (q *DayQuery) Validate() error {
	if q.Date == nil {
		return nil
	}
	if _, ok := validator.IsValidDate(*q.Date); !ok {
		return validator.ValidationErrors{{
			Field:   "date",
			Message: "date must be in YYYY-MM-DD format",
		}}
	}
	return nil
}

type ExportFormat string

const (
	FormatCSV  ExportFormat = "csv"
	FormatXLSX ExportFormat = "xlsx"
)

func (f ExportFormat) IsValid() bool {
	return f == FormatCSV || f == FormatXLSX
}

// ========================================
// SNAPSHOT
// ========================================

// Snapshot is the organization's attendance for one day. Absent is derived
// from the roster: employees neither present nor on a half day.
type Snapshot struct {
	Date           string                      `json:"date"`
	TotalEmployees int                         `json:"total_employees"`
	Present        int                         `json:"present"` // on time + late
	OnTime         int                         `json:"on_time"`
	Late           int                         `json:"late"`
	HalfDay        int                         `json:"half_day"`
	Absent         int                         `json:"absent"`
	LateArrivals   []attendance.RecordResponse `json:"late_arrivals"`
	Unmarked       []employee.EmployeeResponse `json:"unmarked"`
	Departments    []DepartmentCount           `json:"departments"` // employees who showed up, half days included
}

type TrendPoint struct {
	Date    string `json:"date"`
	Present int    `json:"present"`
	Late    int    `json:"late"`
}

type TrendResponse struct {
	StartDate string       `json:"start_date"`
	EndDate   string       `json:"end_date"`
	Points    []TrendPoint `json:"points"`
}

// DepartmentCount is the number of employees present in one department.
type DepartmentCount struct {
	Department string `json:"department"`
	Count      int    `json:"count"`
}

type DepartmentSummary struct {
	Department string `json:"department"`
	attendance.StatusCounts
}

// OrgSummary folds every record of a month across the organization.
type OrgSummary struct {
	Month       int                     `json:"month"`
	Year        int                     `json:"year"`
	Overall     attendance.StatusCounts `json:"overall"`
	TotalHours  float64                 `json:"total_hours"`
	Departments []DepartmentSummary     `json:"departments"`
}

// ========================================
// EXPORT
// ========================================

// ExportRow is a record flattened for tabular output. Times are local
// time-of-day strings, "N/A" when missing.
type ExportRow struct {
	EmployeeCode string `json:"employee_code"`
	EmployeeName string `json:"employee_name"`
	Department   string `json:"department"`
	Date         string `json:"date"`
	CheckIn      string `json:"check_in"`
	CheckOut     string `json:"check_out"`
	Status       string `json:"status"`
	TotalHours   string `json:"total_hours"`
}

var exportHeader = []string{
	"Employee ID", "Name", "Department", "Date", "Check In", "Check Out", "Status", "Total Hours",
}

// ExportHeader returns the column titles matching ExportRow.Values.
func ExportHeader() []string {
	header := make([]string, len(exportHeader))
	copy(header, exportHeader)
	return header
}

func (r ExportRow) Values() []string {
	return []string{
		r.EmployeeCode,
		r.EmployeeName,
		r.Department,
		r.Date,
		r.CheckIn,
		r.CheckOut,
		r.Status,
		r.TotalHours,
	}
}

// ========================================
// TODAY / DASHBOARD
// ========================================

type TodayStatusAllResponse struct {
	Date           string                      `json:"date"`
	TotalEmployees int                         `json:"total_employees"`
	CheckedIn      int                         `json:"checked_in"`
	NotCheckedIn   int                         `json:"not_checked_in"`
	Present        []attendance.RecordResponse `json:"present"`
	NotMarked      []employee.EmployeeResponse `json:"not_marked"`
}

type ManagerDashboardResponse struct {
	TotalEmployees  int                         `json:"total_employees"`
	Today           Snapshot                    `json:"today"`
	LateArrivals    []attendance.RecordResponse `json:"late_arrivals"`
	AbsentEmployees []employee.EmployeeResponse `json:"absent_employees"`
	WeeklyTrend     []TrendPoint                `json:"weekly_trend"`
	DepartmentStats []DepartmentCount           `json:"department_stats"`
}
