package attendance

import (
	"context"
	"fmt"
	"strings"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/calendar"
	"golang.org/x/sync/errgroup"
)

type AttendanceServiceImpl struct {
	records attendance.RecordRepository
	roster  employee.RosterRepository
	clock   calendar.Clock
	policy  attendance.Policy
}

func NewAttendanceService(
	records attendance.RecordRepository,
	roster employee.RosterRepository,
	clock calendar.Clock,
	policy attendance.Policy,
) attendance.Service {
	return &AttendanceServiceImpl{
		records: records,
		roster:  roster,
		clock:   clock,
		policy:  policy,
	}
}

// CheckIn implements attendance.Service.
func (s *AttendanceServiceImpl) CheckIn(ctx context.Context, caller employee.Identity) (attendance.RecordResponse, error) {
	emp, err := s.roster.GetByID(ctx, caller.EmployeeID)
	if err != nil {
		return attendance.RecordResponse{}, err
	}

	now := s.clock.Now()
	saved, err := s.records.CheckIn(ctx, attendance.NewRecord(emp.ID, now, s.policy))
	if err != nil {
		return attendance.RecordResponse{}, err
	}

	return attendance.ToRecordResponse(saved, &emp), nil
}

// CheckOut implements attendance.Service.
func (s *AttendanceServiceImpl) CheckOut(ctx context.Context, caller employee.Identity) (attendance.RecordResponse, error) {
	emp, err := s.roster.GetByID(ctx, caller.EmployeeID)
	if err != nil {
		return attendance.RecordResponse{}, err
	}

	now := s.clock.Now()
	saved, err := s.records.CheckOut(ctx, emp.ID, calendar.StartOfDay(now), func(r *attendance.Record) error {
		return r.ApplyCheckOut(now, s.policy)
	})
	if err != nil {
		return attendance.RecordResponse{}, err
	}

	return attendance.ToRecordResponse(saved, &emp), nil
}

// MyHistory implements attendance.Service.
func (s *AttendanceServiceImpl) MyHistory(ctx context.Context, caller employee.Identity, q attendance.MonthQuery) (attendance.ListAttendanceResponse, error) {
	if err := q.Validate(); err != nil {
		return attendance.ListAttendanceResponse{}, err
	}

	emp, err := s.roster.GetByID(ctx, caller.EmployeeID)
	if err != nil {
		return attendance.ListAttendanceResponse{}, err
	}

	records, err := s.monthOf(ctx, emp.ID, q)
	if err != nil {
		return attendance.ListAttendanceResponse{}, err
	}

	return listResponse(records, employee.IndexByID([]employee.Employee{emp})), nil
}

// MySummary implements attendance.Service.
func (s *AttendanceServiceImpl) MySummary(ctx context.Context, caller employee.Identity, q attendance.MonthQuery) (attendance.PersonalSummary, error) {
	if err := q.Validate(); err != nil {
		return attendance.PersonalSummary{}, err
	}
	return s.summary(ctx, caller.EmployeeID, q)
}

// TodayStatus implements attendance.Service.
func (s *AttendanceServiceImpl) TodayStatus(ctx context.Context, caller employee.Identity) (*attendance.RecordResponse, error) {
	emp, err := s.roster.GetByID(ctx, caller.EmployeeID)
	if err != nil {
		return nil, err
	}
	return s.today(ctx, emp)
}

// EmployeeDashboard implements attendance.Service.
func (s *AttendanceServiceImpl) EmployeeDashboard(ctx context.Context, caller employee.Identity) (attendance.EmployeeDashboardResponse, error) {
	emp, err := s.roster.GetByID(ctx, caller.EmployeeID)
	if err != nil {
		return attendance.EmployeeDashboardResponse{}, err
	}

	now := s.clock.Now()
	var (
		today   *attendance.RecordResponse
		monthly attendance.PersonalSummary
		recent  []attendance.Record
	)

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		today, err = s.today(gCtx, emp)
		return err
	})

	g.Go(func() error {
		var err error
		monthly, err = s.summary(gCtx, emp.ID, attendance.MonthQuery{})
		return err
	})

	// Last 7 days, today included
	g.Go(func() error {
		from := calendar.StartOfDay(now.AddDate(0, 0, -6))
		to := calendar.EndOfDay(now)
		var err error
		recent, err = s.records.Find(gCtx, attendance.Filter{
			EmployeeIDs: []string{emp.ID},
			From:        &from,
			To:          &to,
		})
		return err
	})

	if err := g.Wait(); err != nil {
		return attendance.EmployeeDashboardResponse{}, fmt.Errorf("failed to build employee dashboard: %w", err)
	}

	return attendance.EmployeeDashboardResponse{
		TodayStatus:  today,
		MonthlyStats: monthly,
		Last7Days:    attendance.ToRecordResponses(recent, employee.IndexByID([]employee.Employee{emp})),
	}, nil
}

// ListAttendance implements attendance.Service.
func (s *AttendanceServiceImpl) ListAttendance(ctx context.Context, f attendance.AttendanceFilter) (attendance.ListAttendanceResponse, error) {
	if err := f.Validate(); err != nil {
		return attendance.ListAttendanceResponse{}, err
	}

	loc := s.clock.Now().Location()
	filter := attendance.Filter{}

	var err error
	if filter.From, err = attendance.ParseDay(f.StartDate, loc); err != nil {
		return attendance.ListAttendanceResponse{}, err
	}
	if filter.To, err = attendance.ParseDay(f.EndDate, loc); err != nil {
		return attendance.ListAttendanceResponse{}, err
	}
	if f.Status != nil {
		status := attendance.Status(*f.Status)
		filter.Status = &status
	}

	roster, err := s.roster.ListRoster(ctx, nil)
	if err != nil {
		return attendance.ListAttendanceResponse{}, fmt.Errorf("failed to list roster: %w", err)
	}

	// Employee code and department narrow the record set together. A filter
	// that matches nobody yields an empty list, not an error.
	if f.EmployeeCode != nil || f.Department != nil {
		ids := matchEmployees(roster, f.EmployeeCode, f.Department)
		if len(ids) == 0 {
			return attendance.ListAttendanceResponse{Attendances: []attendance.RecordResponse{}}, nil
		}
		filter.EmployeeIDs = ids
	}

	records, err := s.records.Find(ctx, filter)
	if err != nil {
		return attendance.ListAttendanceResponse{}, fmt.Errorf("failed to find attendances: %w", err)
	}

	return listResponse(records, employee.IndexByID(roster)), nil
}

// EmployeeAttendance implements attendance.Service.
func (s *AttendanceServiceImpl) EmployeeAttendance(ctx context.Context, employeeID string, q attendance.MonthQuery) (attendance.EmployeeAttendanceResponse, error) {
	if err := q.Validate(); err != nil {
		return attendance.EmployeeAttendanceResponse{}, err
	}

	emp, err := s.roster.GetByID(ctx, employeeID)
	if err != nil {
		return attendance.EmployeeAttendanceResponse{}, err
	}

	records, err := s.monthOf(ctx, emp.ID, q)
	if err != nil {
		return attendance.EmployeeAttendanceResponse{}, err
	}

	list := listResponse(records, employee.IndexByID([]employee.Employee{emp}))
	return attendance.EmployeeAttendanceResponse{
		Employee:    employee.ToResponse(emp),
		Count:       list.Count,
		Attendances: list.Attendances,
	}, nil
}

func (s *AttendanceServiceImpl) monthOf(ctx context.Context, employeeID string, q attendance.MonthQuery) ([]attendance.Record, error) {
	start, end := calendar.MonthRange(q.Month, q.Year, s.clock.Now())
	records, err := s.records.Find(ctx, attendance.Filter{
		EmployeeIDs: []string{employeeID},
		From:        &start,
		To:          &end,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to find attendances: %w", err)
	}
	return records, nil
}

func (s *AttendanceServiceImpl) summary(ctx context.Context, employeeID string, q attendance.MonthQuery) (attendance.PersonalSummary, error) {
	records, err := s.monthOf(ctx, employeeID, q)
	if err != nil {
		return attendance.PersonalSummary{}, err
	}

	start, _ := calendar.MonthRange(q.Month, q.Year, s.clock.Now())
	counts, hours := attendance.Tally(records)

	return attendance.PersonalSummary{
		Month:        int(start.Month()),
		Year:         start.Year(),
		StatusCounts: counts,
		TotalHours:   hours.InexactFloat64(),
	}, nil
}

func (s *AttendanceServiceImpl) today(ctx context.Context, emp employee.Employee) (*attendance.RecordResponse, error) {
	rec, err := s.records.GetForDay(ctx, emp.ID, s.clock.Now())
	if err != nil {
		return nil, fmt.Errorf("failed to get today's attendance: %w", err)
	}
	if rec == nil {
		return nil, nil
	}
	resp := attendance.ToRecordResponse(*rec, &emp)
	return &resp, nil
}

func matchEmployees(roster []employee.Employee, code, department *string) []string {
	var ids []string
	for _, e := range roster {
		if code != nil && e.EmployeeCode != strings.TrimSpace(*code) {
			continue
		}
		if department != nil && !strings.EqualFold(e.Department, strings.TrimSpace(*department)) {
			continue
		}
		ids = append(ids, e.ID)
	}
	return ids
}

func listResponse(records []attendance.Record, roster map[string]employee.Employee) attendance.ListAttendanceResponse {
	responses := attendance.ToRecordResponses(records, roster)
	return attendance.ListAttendanceResponse{
		Count:       len(responses),
		Attendances: responses,
	}
}
