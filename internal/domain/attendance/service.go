package attendance

import (
	"context"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/employee"
)

// Service covers check-in/out and the per-employee views of attendance.
type Service interface {
	// CheckIn opens today's record for the caller
	CheckIn(ctx context.Context, caller employee.Identity) (RecordResponse, error)

	// CheckOut closes today's record for the caller
	CheckOut(ctx context.Context, caller employee.Identity) (RecordResponse, error)

	// MyHistory lists the caller's records in a month, newest first
	MyHistory(ctx context.Context, caller employee.Identity, q MonthQuery) (ListAttendanceResponse, error)

	// MySummary folds the caller's month into counts and total hours
	MySummary(ctx context.Context, caller employee.Identity, q MonthQuery) (PersonalSummary, error)

	// TodayStatus returns nil when the caller has not checked in today
	TodayStatus(ctx context.Context, caller employee.Identity) (*RecordResponse, error)

	EmployeeDashboard(ctx context.Context, caller employee.Identity) (EmployeeDashboardResponse, error)

	// ListAttendance filters records across the organization (manager)
	ListAttendance(ctx context.Context, filter AttendanceFilter) (ListAttendanceResponse, error)

	// EmployeeAttendance lists one employee's month (manager)
	EmployeeAttendance(ctx context.Context, employeeID string, q MonthQuery) (EmployeeAttendanceResponse, error)
}
