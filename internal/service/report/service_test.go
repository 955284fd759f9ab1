package report

import (
	"context"
	"testing"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/report"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/calendar"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/validator"
	"github.com/cmlabs-hris/attendance-backend-go/internal/repository/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testRoster = []employee.Employee{
	{ID: "e-1", EmployeeCode: "EMP001", FullName: "Alice", Department: "Engineering", Role: employee.RoleEmployee},
	{ID: "e-2", EmployeeCode: "EMP002", FullName: "Bob", Department: "Sales", Role: employee.RoleEmployee},
	{ID: "e-3", EmployeeCode: "EMP003", FullName: "Cara", Department: "Engineering", Role: employee.RoleEmployee},
	{ID: "e-4", EmployeeCode: "EMP004", FullName: "Dan", Department: "Marketing", Role: employee.RoleEmployee},
	{ID: "e-5", EmployeeCode: "EMP005", FullName: "Eve", Department: "Sales", Role: employee.RoleEmployee},
	{ID: "m-1", EmployeeCode: "MGR001", FullName: "Maya", Department: "Management", Role: employee.RoleManager},
}

func at(day, h, m int) time.Time {
	return time.Date(2024, 3, day, h, m, 0, 0, time.Local)
}

type fixture struct {
	svc     report.Service
	records attendance.RecordRepository
}

func newFixture(t *testing.T, now time.Time) fixture {
	t.Helper()
	records := memory.NewAttendanceRepository()
	return fixture{
		svc:     NewReportService(records, memory.NewRosterRepository(testRoster), calendar.FixedClock{T: now}),
		records: records,
	}
}

// record stores a check-in and, when out is non-zero, a check-out.
func (f fixture) record(t *testing.T, id string, in, out time.Time) {
	t.Helper()
	ctx := context.Background()
	policy := attendance.DefaultPolicy()

	_, err := f.records.CheckIn(ctx, attendance.NewRecord(id, in, policy))
	require.NoError(t, err)
	if out.IsZero() {
		return
	}
	_, err = f.records.CheckOut(ctx, id, in, func(r *attendance.Record) error {
		return r.ApplyCheckOut(out, policy)
	})
	require.NoError(t, err)
}

func strPtr(v string) *string { return &v }
func intPtr(v int) *int       { return &v }

func TestDailySnapshot(t *testing.T) {
	f := newFixture(t, at(4, 18, 0))
	f.record(t, "e-1", at(4, 9, 0), time.Time{})
	f.record(t, "e-2", at(4, 9, 15), time.Time{})
	f.record(t, "e-3", at(4, 9, 45), time.Time{})

	snap, err := f.svc.DailySnapshot(context.Background(), report.DayQuery{})
	require.NoError(t, err)

	assert.Equal(t, "2024-03-04", snap.Date)
	assert.Equal(t, 5, snap.TotalEmployees)
	assert.Equal(t, 3, snap.Present)
	assert.Equal(t, 2, snap.OnTime)
	assert.Equal(t, 1, snap.Late)
	assert.Equal(t, 2, snap.Absent)

	require.Len(t, snap.LateArrivals, 1)
	assert.Equal(t, "EMP003", snap.LateArrivals[0].EmployeeCode)

	require.Len(t, snap.Unmarked, 2)
	assert.Equal(t, "EMP004", snap.Unmarked[0].EmployeeCode)
	assert.Equal(t, "EMP005", snap.Unmarked[1].EmployeeCode)

	assert.Equal(t, []report.DepartmentCount{
		{Department: "Engineering", Count: 2},
		{Department: "Sales", Count: 1},
	}, snap.Departments)
}

func TestDailySnapshot_HalfDayAndExplicitAbsence(t *testing.T) {
	f := newFixture(t, at(4, 18, 0))
	f.record(t, "e-1", at(4, 9, 0), at(4, 11, 0)) // half-day
	f.record(t, "e-2", at(4, 9, 0), at(4, 17, 0))

	store := f.records.(interface{ Put(attendance.Record) })
	store.Put(attendance.Record{ID: "x", EmployeeID: "e-3", Day: at(4, 0, 0), Status: attendance.StatusAbsent})

	snap, err := f.svc.DailySnapshot(context.Background(), report.DayQuery{Date: strPtr("2024-03-04")})
	require.NoError(t, err)

	assert.Equal(t, 1, snap.Present)
	assert.Equal(t, 1, snap.HalfDay)
	assert.Equal(t, 4, snap.Absent) // everyone but e-2: the half day, e-3 explicitly, e-4 and e-5 by omission
	assert.Len(t, snap.Unmarked, 2)
}

func TestDailySnapshot_AbsentIsRosterMinusPresent(t *testing.T) {
	f := newFixture(t, at(4, 18, 0))
	f.record(t, "e-1", at(4, 9, 0), at(4, 11, 0)) // half-day
	f.record(t, "e-2", at(4, 9, 0), time.Time{})

	snap, err := f.svc.DailySnapshot(context.Background(), report.DayQuery{})
	require.NoError(t, err)

	assert.Equal(t, 5, snap.TotalEmployees)
	assert.Equal(t, 1, snap.Present)
	assert.Equal(t, 1, snap.HalfDay)
	assert.Equal(t, snap.TotalEmployees-snap.Present, snap.Absent)
}

func TestDailySnapshot_InvalidDate(t *testing.T) {
	f := newFixture(t, at(4, 18, 0))

	_, err := f.svc.DailySnapshot(context.Background(), report.DayQuery{Date: strPtr("04-03-2024")})
	var verrs validator.ValidationErrors
	assert.ErrorAs(t, err, &verrs)
}

func TestDailySnapshot_IgnoresManagers(t *testing.T) {
	f := newFixture(t, at(4, 18, 0))
	f.record(t, "m-1", at(4, 8, 0), time.Time{})

	snap, err := f.svc.DailySnapshot(context.Background(), report.DayQuery{})
	require.NoError(t, err)
	assert.Equal(t, 0, snap.Present)
	assert.Equal(t, 5, snap.Absent)
}

func TestTrend(t *testing.T) {
	f := newFixture(t, at(7, 12, 0))
	f.record(t, "e-1", at(4, 9, 0), time.Time{})
	f.record(t, "e-2", at(4, 9, 50), time.Time{})
	f.record(t, "e-1", at(6, 9, 0), time.Time{})

	resp, err := f.svc.Trend(context.Background(), attendance.DateRangeQuery{
		StartDate: strPtr("2024-03-03"),
		EndDate:   strPtr("2024-03-06"),
	})
	require.NoError(t, err)

	assert.Equal(t, []report.TrendPoint{
		{Date: "2024-03-03"},
		{Date: "2024-03-04", Present: 2, Late: 1},
		{Date: "2024-03-05"},
		{Date: "2024-03-06", Present: 1},
	}, resp.Points)
}

func TestTrend_DefaultsToLastSevenDays(t *testing.T) {
	f := newFixture(t, at(10, 12, 0))

	resp, err := f.svc.Trend(context.Background(), attendance.DateRangeQuery{})
	require.NoError(t, err)
	assert.Equal(t, "2024-03-04", resp.StartDate)
	assert.Equal(t, "2024-03-10", resp.EndDate)
	assert.Len(t, resp.Points, 7)
}

func TestTrend_RangeTooLong(t *testing.T) {
	f := newFixture(t, at(10, 12, 0))

	_, err := f.svc.Trend(context.Background(), attendance.DateRangeQuery{
		StartDate: strPtr("2020-01-01"),
		EndDate:   strPtr("2024-01-01"),
	})
	var verrs validator.ValidationErrors
	assert.ErrorAs(t, err, &verrs)

	_, err = f.svc.Trend(context.Background(), attendance.DateRangeQuery{
		StartDate: strPtr("1970-01-01"),
		EndDate:   strPtr("9999-12-31"),
	})
	assert.ErrorAs(t, err, &verrs)
}

func TestOrgSummary(t *testing.T) {
	f := newFixture(t, at(20, 12, 0))
	f.record(t, "e-1", at(4, 9, 0), at(4, 17, 0))
	f.record(t, "e-3", at(4, 9, 40), at(4, 17, 0))
	f.record(t, "e-2", at(5, 9, 0), at(5, 10, 0))
	f.record(t, "e-2", at(6, 9, 0), at(6, 17, 30))

	sum, err := f.svc.OrgSummary(context.Background(), attendance.MonthQuery{})
	require.NoError(t, err)

	assert.Equal(t, 3, sum.Month)
	assert.Equal(t, attendance.StatusCounts{Present: 2, Late: 1, HalfDay: 1}, sum.Overall)
	assert.Equal(t, 24.83, sum.TotalHours)
	assert.Equal(t, []report.DepartmentSummary{
		{Department: "Engineering", StatusCounts: attendance.StatusCounts{Present: 1, Late: 1}},
		{Department: "Sales", StatusCounts: attendance.StatusCounts{Present: 1, HalfDay: 1}},
	}, sum.Departments)

	empty, err := f.svc.OrgSummary(context.Background(), attendance.MonthQuery{Month: intPtr(1)})
	require.NoError(t, err)
	assert.Zero(t, empty.Overall.Total())
	assert.Empty(t, empty.Departments)
}

func TestExportRows(t *testing.T) {
	f := newFixture(t, at(20, 12, 0))
	f.record(t, "e-1", at(4, 9, 0), at(4, 17, 20))
	f.record(t, "e-2", at(5, 9, 45), time.Time{})

	ctx := context.Background()
	rows, err := f.svc.ExportRows(ctx, attendance.ExportFilter{})
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, report.ExportRow{
		EmployeeCode: "EMP002",
		EmployeeName: "Bob",
		Department:   "Sales",
		Date:         "2024-03-05",
		CheckIn:      "09:45:00",
		CheckOut:     "N/A",
		Status:       "late",
		TotalHours:   "0.00",
	}, rows[0])
	assert.Equal(t, "17:20:00", rows[1].CheckOut)
	assert.Equal(t, "8.33", rows[1].TotalHours)

	again, err := f.svc.ExportRows(ctx, attendance.ExportFilter{})
	require.NoError(t, err)
	assert.Equal(t, rows, again)

	byCode, err := f.svc.ExportRows(ctx, attendance.ExportFilter{EmployeeCode: strPtr("EMP001")})
	require.NoError(t, err)
	require.Len(t, byCode, 1)
	assert.Equal(t, "EMP001", byCode[0].EmployeeCode)

	unknown, err := f.svc.ExportRows(ctx, attendance.ExportFilter{EmployeeCode: strPtr("EMP999")})
	require.NoError(t, err)
	assert.Empty(t, unknown)

	ranged, err := f.svc.ExportRows(ctx, attendance.ExportFilter{StartDate: strPtr("2024-03-05")})
	require.NoError(t, err)
	assert.Len(t, ranged, 1)
}

func TestTodayStatusAll(t *testing.T) {
	f := newFixture(t, at(4, 12, 0))
	f.record(t, "e-1", at(4, 9, 0), time.Time{})
	f.record(t, "e-4", at(4, 10, 0), time.Time{})
	f.record(t, "e-4", at(3, 9, 0), time.Time{}) // yesterday

	resp, err := f.svc.TodayStatusAll(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 5, resp.TotalEmployees)
	assert.Equal(t, 2, resp.CheckedIn)
	assert.Equal(t, 3, resp.NotCheckedIn)
	assert.Len(t, resp.Present, 2)
	require.Len(t, resp.NotMarked, 3)
	assert.Equal(t, "EMP002", resp.NotMarked[0].EmployeeCode)
}

func TestTodayStatusAll_StoredAbsence(t *testing.T) {
	f := newFixture(t, at(4, 12, 0))
	store := f.records.(interface{ Put(attendance.Record) })
	store.Put(attendance.Record{ID: "x", EmployeeID: "e-3", Day: at(4, 0, 0), Status: attendance.StatusAbsent})

	resp, err := f.svc.TodayStatusAll(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 5, resp.TotalEmployees)
	assert.Equal(t, 0, resp.CheckedIn)
	assert.Equal(t, 5, resp.NotCheckedIn)
	assert.Len(t, resp.NotMarked, resp.NotCheckedIn)
	assert.Equal(t, resp.TotalEmployees, resp.CheckedIn+resp.NotCheckedIn)
	assert.Empty(t, resp.Present)
}

func TestManagerDashboard(t *testing.T) {
	f := newFixture(t, at(10, 12, 0))
	f.record(t, "e-1", at(10, 9, 0), time.Time{})
	f.record(t, "e-2", at(10, 9, 50), time.Time{})
	f.record(t, "e-3", at(8, 9, 0), time.Time{})

	dash, err := f.svc.ManagerDashboard(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 5, dash.TotalEmployees)
	assert.Equal(t, 2, dash.Today.Present)
	require.Len(t, dash.LateArrivals, 1)
	assert.Equal(t, "EMP002", dash.LateArrivals[0].EmployeeCode)
	assert.Len(t, dash.AbsentEmployees, 3)
	require.Len(t, dash.WeeklyTrend, 7)
	assert.Equal(t, "2024-03-04", dash.WeeklyTrend[0].Date)
	assert.Equal(t, 1, dash.WeeklyTrend[4].Present)
	assert.Equal(t, 2, dash.WeeklyTrend[6].Present)
	assert.Len(t, dash.DepartmentStats, 2)
}
