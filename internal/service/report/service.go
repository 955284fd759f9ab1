package report

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/report"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/calendar"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/validator"
	"golang.org/x/sync/errgroup"
)

const (
	notAvailable      = "N/A"
	unassignedDept    = "Unassigned"
	defaultTrendDays  = 7
	maxTrendRangeDays = 366
)

type ReportServiceImpl struct {
	records attendance.RecordRepository
	roster  employee.RosterRepository
	clock   calendar.Clock
}

// NewReportService builds the organization aggregator. The absence universe
// is every roster member with the employee role.
func NewReportService(records attendance.RecordRepository, roster employee.RosterRepository, clock calendar.Clock) report.Service {
	return &ReportServiceImpl{
		records: records,
		roster:  roster,
		clock:   clock,
	}
}

// DailySnapshot implements report.Service.
func (s *ReportServiceImpl) DailySnapshot(ctx context.Context, q report.DayQuery) (report.Snapshot, error) {
	day, err := s.resolveDay(q)
	if err != nil {
		return report.Snapshot{}, err
	}
	return s.snapshot(ctx, day)
}

// Trend implements report.Service.
func (s *ReportServiceImpl) Trend(ctx context.Context, q attendance.DateRangeQuery) (report.TrendResponse, error) {
	if err := q.Validate(); err != nil {
		return report.TrendResponse{}, err
	}

	loc := s.location()
	today := calendar.StartOfDay(s.clock.Now())
	from := today.AddDate(0, 0, -(defaultTrendDays - 1))
	to := today

	start, err := attendance.ParseDay(q.StartDate, loc)
	if err != nil {
		return report.TrendResponse{}, err
	}
	end, err := attendance.ParseDay(q.EndDate, loc)
	if err != nil {
		return report.TrendResponse{}, err
	}

	switch {
	case start != nil && end != nil:
		from, to = *start, *end
	case start != nil:
		from = *start
		to = from.AddDate(0, 0, defaultTrendDays-1)
	case end != nil:
		to = *end
		from = to.AddDate(0, 0, -(defaultTrendDays - 1))
	}

	if calendar.DayCount(from, to) > maxTrendRangeDays {
		return report.TrendResponse{}, validator.ValidationErrors{{
			Field:   "end_date",
			Message: fmt.Sprintf("date range must not exceed %d days", maxTrendRangeDays),
		}}
	}

	points, err := s.trend(ctx, from, to)
	if err != nil {
		return report.TrendResponse{}, err
	}

	return report.TrendResponse{
		StartDate: from.Format(calendar.DateLayout),
		EndDate:   to.Format(calendar.DateLayout),
		Points:    points,
	}, nil
}

// DepartmentBreakdown implements report.Service.
func (s *ReportServiceImpl) DepartmentBreakdown(ctx context.Context, q report.DayQuery) ([]report.DepartmentCount, error) {
	snap, err := s.DailySnapshot(ctx, q)
	if err != nil {
		return nil, err
	}
	return snap.Departments, nil
}

// OrgSummary implements report.Service.
func (s *ReportServiceImpl) OrgSummary(ctx context.Context, q attendance.MonthQuery) (report.OrgSummary, error) {
	if err := q.Validate(); err != nil {
		return report.OrgSummary{}, err
	}

	start, end := calendar.MonthRange(q.Month, q.Year, s.clock.Now())

	roster, err := s.roster.ListRoster(ctx, nil)
	if err != nil {
		return report.OrgSummary{}, fmt.Errorf("failed to list roster: %w", err)
	}
	records, err := s.records.Find(ctx, attendance.Filter{From: &start, To: &end})
	if err != nil {
		return report.OrgSummary{}, fmt.Errorf("failed to find attendances: %w", err)
	}

	index := employee.IndexByID(roster)
	byDept := make(map[string]*attendance.StatusCounts)
	for _, rec := range records {
		dept := departmentOf(index, rec.EmployeeID)
		counts, ok := byDept[dept]
		if !ok {
			counts = &attendance.StatusCounts{}
			byDept[dept] = counts
		}
		counts.Add(rec.Status)
	}

	departments := make([]report.DepartmentSummary, 0, len(byDept))
	for dept, counts := range byDept {
		departments = append(departments, report.DepartmentSummary{Department: dept, StatusCounts: *counts})
	}
	sort.Slice(departments, func(i, j int) bool {
		return departments[i].Department < departments[j].Department
	})

	overall, hours := attendance.Tally(records)

	return report.OrgSummary{
		Month:       int(start.Month()),
		Year:        start.Year(),
		Overall:     overall,
		TotalHours:  hours.InexactFloat64(),
		Departments: departments,
	}, nil
}

// ExportRows implements report.Service.
func (s *ReportServiceImpl) ExportRows(ctx context.Context, f attendance.ExportFilter) ([]report.ExportRow, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}

	loc := s.location()
	filter := attendance.Filter{}

	var err error
	if filter.From, err = attendance.ParseDay(f.StartDate, loc); err != nil {
		return nil, err
	}
	if filter.To, err = attendance.ParseDay(f.EndDate, loc); err != nil {
		return nil, err
	}

	roster, err := s.roster.ListRoster(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list roster: %w", err)
	}
	index := employee.IndexByID(roster)

	if f.EmployeeCode != nil {
		emp, err := s.roster.GetByCode(ctx, *f.EmployeeCode)
		if err != nil {
			// An unknown code simply exports nothing.
			return []report.ExportRow{}, nil
		}
		filter.EmployeeIDs = []string{emp.ID}
	}

	records, err := s.records.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to find attendances: %w", err)
	}

	rows := make([]report.ExportRow, 0, len(records))
	for _, rec := range records {
		emp := index[rec.EmployeeID]
		rows = append(rows, report.ExportRow{
			EmployeeCode: emp.EmployeeCode,
			EmployeeName: emp.FullName,
			Department:   emp.Department,
			Date:         rec.Day.Format(calendar.DateLayout),
			CheckIn:      timeOfDay(rec.CheckIn, loc),
			CheckOut:     timeOfDay(rec.CheckOut, loc),
			Status:       string(rec.Status),
			TotalHours:   rec.TotalHours.StringFixed(2),
		})
	}

	return rows, nil
}

// TodayStatusAll implements report.Service.
func (s *ReportServiceImpl) TodayStatusAll(ctx context.Context) (report.TodayStatusAllResponse, error) {
	today := calendar.StartOfDay(s.clock.Now())

	roster, records, err := s.dayData(ctx, today)
	if err != nil {
		return report.TodayStatusAllResponse{}, err
	}

	index := employee.IndexByID(roster)
	var checkedIn []attendance.Record
	for _, rec := range records {
		if rec.HasCheckedIn() {
			checkedIn = append(checkedIn, rec)
		}
	}

	// A stored absent record is not a check-in, so that employee is listed too.
	notCheckedIn := unmarked(roster, checkedIn)

	return report.TodayStatusAllResponse{
		Date:           today.Format(calendar.DateLayout),
		TotalEmployees: len(roster),
		CheckedIn:      len(checkedIn),
		NotCheckedIn:   len(notCheckedIn),
		Present:        attendance.ToRecordResponses(checkedIn, index),
		NotMarked:      notCheckedIn,
	}, nil
}

// ManagerDashboard implements report.Service.
func (s *ReportServiceImpl) ManagerDashboard(ctx context.Context) (report.ManagerDashboardResponse, error) {
	today := calendar.StartOfDay(s.clock.Now())

	var (
		snap  report.Snapshot
		trend []report.TrendPoint
	)

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		snap, err = s.snapshot(gCtx, today)
		return err
	})

	g.Go(func() error {
		var err error
		trend, err = s.trend(gCtx, today.AddDate(0, 0, -(defaultTrendDays-1)), today)
		return err
	})

	if err := g.Wait(); err != nil {
		return report.ManagerDashboardResponse{}, fmt.Errorf("failed to build manager dashboard: %w", err)
	}

	return report.ManagerDashboardResponse{
		TotalEmployees:  snap.TotalEmployees,
		Today:           snap,
		LateArrivals:    snap.LateArrivals,
		AbsentEmployees: snap.Unmarked,
		WeeklyTrend:     trend,
		DepartmentStats: snap.Departments,
	}, nil
}

// snapshot folds one day's records against the employee roster. Present
// counts on-time and late arrivals and absent is the rest of the roster, so a
// half day also counts as absent. HalfDay is reported alongside.
func (s *ReportServiceImpl) snapshot(ctx context.Context, day time.Time) (report.Snapshot, error) {
	roster, records, err := s.dayData(ctx, day)
	if err != nil {
		return report.Snapshot{}, err
	}

	index := employee.IndexByID(roster)
	snap := report.Snapshot{
		Date:           day.Format(calendar.DateLayout),
		TotalEmployees: len(roster),
	}

	var late []attendance.Record
	perDept := make(map[string]int)
	for _, rec := range records {
		switch rec.Status {
		case attendance.StatusPresent:
			snap.OnTime++
		case attendance.StatusLate:
			snap.Late++
			late = append(late, rec)
		case attendance.StatusHalfDay:
			snap.HalfDay++
		default:
			continue
		}
		perDept[departmentOf(index, rec.EmployeeID)]++
	}
	snap.Present = snap.OnTime + snap.Late
	snap.Absent = snap.TotalEmployees - snap.Present

	sort.SliceStable(late, func(i, j int) bool {
		a, b := late[i].CheckIn, late[j].CheckIn
		return a != nil && (b == nil || a.Before(*b))
	})
	snap.LateArrivals = attendance.ToRecordResponses(late, index)
	snap.Unmarked = unmarked(roster, records)
	snap.Departments = departmentCounts(perDept)

	return snap, nil
}

func (s *ReportServiceImpl) trend(ctx context.Context, from, to time.Time) ([]report.TrendPoint, error) {
	roster, err := s.roster.ListRoster(ctx, ptr(employee.RoleEmployee))
	if err != nil {
		return nil, fmt.Errorf("failed to list roster: %w", err)
	}
	index := employee.IndexByID(roster)

	start, end := calendar.StartOfDay(from), calendar.EndOfDay(to)
	records, err := s.records.Find(ctx, attendance.Filter{From: &start, To: &end, Ascending: true})
	if err != nil {
		return nil, fmt.Errorf("failed to find attendances: %w", err)
	}

	byDay := make(map[string]*report.TrendPoint)
	for _, rec := range records {
		if _, ok := index[rec.EmployeeID]; !ok {
			continue
		}
		key := rec.Day.Format(calendar.DateLayout)
		point, ok := byDay[key]
		if !ok {
			point = &report.TrendPoint{Date: key}
			byDay[key] = point
		}
		switch rec.Status {
		case attendance.StatusPresent:
			point.Present++
		case attendance.StatusLate:
			point.Present++
			point.Late++
		}
	}

	days := calendar.DaysBetween(from, to)
	points := make([]report.TrendPoint, 0, len(days))
	for _, day := range days {
		key := day.Format(calendar.DateLayout)
		if point, ok := byDay[key]; ok {
			points = append(points, *point)
			continue
		}
		points = append(points, report.TrendPoint{Date: key})
	}
	return points, nil
}

// dayData returns the employee roster and the records of its members on day.
func (s *ReportServiceImpl) dayData(ctx context.Context, day time.Time) ([]employee.Employee, []attendance.Record, error) {
	roster, err := s.roster.ListRoster(ctx, ptr(employee.RoleEmployee))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list roster: %w", err)
	}

	start, end := calendar.StartOfDay(day), calendar.EndOfDay(day)
	all, err := s.records.Find(ctx, attendance.Filter{From: &start, To: &end})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to find attendances: %w", err)
	}

	index := employee.IndexByID(roster)
	records := make([]attendance.Record, 0, len(all))
	for _, rec := range all {
		if _, ok := index[rec.EmployeeID]; ok {
			records = append(records, rec)
		}
	}
	return roster, records, nil
}

func (s *ReportServiceImpl) resolveDay(q report.DayQuery) (time.Time, error) {
	if err := q.Validate(); err != nil {
		return time.Time{}, err
	}
	day, err := attendance.ParseDay(q.Date, s.location())
	if err != nil {
		return time.Time{}, err
	}
	if day == nil {
		return calendar.StartOfDay(s.clock.Now()), nil
	}
	return *day, nil
}

func (s *ReportServiceImpl) location() *time.Location {
	return s.clock.Now().Location()
}

func unmarked(roster []employee.Employee, records []attendance.Record) []employee.EmployeeResponse {
	marked := make(map[string]bool, len(records))
	for _, rec := range records {
		marked[rec.EmployeeID] = true
	}

	result := make([]employee.EmployeeResponse, 0)
	for _, e := range roster {
		if !marked[e.ID] {
			result = append(result, employee.ToResponse(e))
		}
	}
	return result
}

func departmentCounts(perDept map[string]int) []report.DepartmentCount {
	counts := make([]report.DepartmentCount, 0, len(perDept))
	for dept, n := range perDept {
		counts = append(counts, report.DepartmentCount{Department: dept, Count: n})
	}
	sort.Slice(counts, func(i, j int) bool {
		return counts[i].Department < counts[j].Department
	})
	return counts
}

func departmentOf(index map[string]employee.Employee, employeeID string) string {
	if e, ok := index[employeeID]; ok && e.Department != "" {
		return e.Department
	}
	return unassignedDept
}

func timeOfDay(t *time.Time, loc *time.Location) string {
	if t == nil {
		return notAvailable
	}
	return t.In(loc).Format(calendar.TimeLayout)
}

func ptr[T any](v T) *T {
	return &v
}
