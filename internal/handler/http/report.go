package http

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/report"
	"github.com/cmlabs-hris/attendance-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/export"
)

type ReportHandler interface {
	Summary(w http.ResponseWriter, r *http.Request)
	Export(w http.ResponseWriter, r *http.Request)
	TodayStatus(w http.ResponseWriter, r *http.Request)
	Daily(w http.ResponseWriter, r *http.Request)
	Trend(w http.ResponseWriter, r *http.Request)
	Departments(w http.ResponseWriter, r *http.Request)
	ManagerDashboard(w http.ResponseWriter, r *http.Request)
}

type reportHandlerImpl struct {
	reportService report.Service
}

func NewReportHandler(reportService report.Service) ReportHandler {
	return &reportHandlerImpl{
		reportService: reportService,
	}
}

// Summary implements ReportHandler.
func (h *reportHandlerImpl) Summary(w http.ResponseWriter, r *http.Request) {
	q, err := parseMonthQuery(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.reportService.OrgSummary(r.Context(), q)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Export implements ReportHandler.
func (h *reportHandlerImpl) Export(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter := attendance.ExportFilter{}

	if startDate := query.Get("start_date"); startDate != "" {
		filter.StartDate = &startDate
	}
	if endDate := query.Get("end_date"); endDate != "" {
		filter.EndDate = &endDate
	}
	if code := query.Get("employee_code"); code != "" {
		filter.EmployeeCode = &code
	}

	format := report.FormatCSV
	if f := query.Get("format"); f != "" {
		format = report.ExportFormat(strings.ToLower(f))
	}
	if !format.IsValid() {
		response.HandleError(w, report.ErrUnsupportedFormat)
		return
	}

	rows, err := h.reportService.ExportRows(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	values := make([][]string, 0, len(rows))
	for _, row := range rows {
		values = append(values, row.Values())
	}

	filename := fmt.Sprintf("attendance-export-%s.%s", time.Now().Format("2006-01-02"), format)

	var render func(io.Writer) error
	contentType := export.ContentTypeCSV
	switch format {
	case report.FormatXLSX:
		contentType = export.ContentTypeXLSX
		render = func(out io.Writer) error {
			return export.WriteXLSX(out, "Attendance", report.ExportHeader(), values)
		}
	default:
		render = func(out io.Writer) error {
			return export.WriteCSV(out, report.ExportHeader(), values)
		}
	}

	if err := response.Attachment(w, contentType, filename, render); err != nil {
		slog.Error("Export render error", "error", err, "format", format)
		response.InternalServerError(w, "Failed to render export")
		return
	}
}

// TodayStatus implements ReportHandler.
func (h *reportHandlerImpl) TodayStatus(w http.ResponseWriter, r *http.Request) {
	result, err := h.reportService.TodayStatusAll(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Daily implements ReportHandler.
func (h *reportHandlerImpl) Daily(w http.ResponseWriter, r *http.Request) {
	result, err := h.reportService.DailySnapshot(r.Context(), parseDayQuery(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Trend implements ReportHandler.
func (h *reportHandlerImpl) Trend(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	q := attendance.DateRangeQuery{}

	if startDate := query.Get("start_date"); startDate != "" {
		q.StartDate = &startDate
	}
	if endDate := query.Get("end_date"); endDate != "" {
		q.EndDate = &endDate
	}

	result, err := h.reportService.Trend(r.Context(), q)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Departments implements ReportHandler.
func (h *reportHandlerImpl) Departments(w http.ResponseWriter, r *http.Request) {
	result, err := h.reportService.DepartmentBreakdown(r.Context(), parseDayQuery(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// ManagerDashboard implements ReportHandler.
func (h *reportHandlerImpl) ManagerDashboard(w http.ResponseWriter, r *http.Request) {
	result, err := h.reportService.ManagerDashboard(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func parseDayQuery(r *http.Request) report.DayQuery {
	q := report.DayQuery{}
	if date := r.URL.Query().Get("date"); date != "" {
		q.Date = &date
	}
	return q
}
