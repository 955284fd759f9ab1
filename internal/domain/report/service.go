package report

import (
	"context"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
)

// Service computes read-only organization aggregates. Nothing it returns is persisted.
type Service interface {
	DailySnapshot(ctx context.Context, q DayQuery) (Snapshot, error)
	Trend(ctx context.Context, q attendance.DateRangeQuery) (TrendResponse, error)
	DepartmentBreakdown(ctx context.Context, q DayQuery) ([]DepartmentCount, error)
	OrgSummary(ctx context.Context, q attendance.MonthQuery) (OrgSummary, error)

	// ExportRows projects records for tabular output without formatting them
	ExportRows(ctx context.Context, filter attendance.ExportFilter) ([]ExportRow, error)

	TodayStatusAll(ctx context.Context) (TodayStatusAllResponse, error)
	ManagerDashboard(ctx context.Context) (ManagerDashboardResponse, error)
}
