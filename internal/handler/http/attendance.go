package http

import (
	"net/http"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/attendance-backend-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/attendance-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/validator"
	"github.com/go-chi/chi/v5"
)

type AttendanceHandler interface {
	CheckIn(w http.ResponseWriter, r *http.Request)
	CheckOut(w http.ResponseWriter, r *http.Request)
	MyHistory(w http.ResponseWriter, r *http.Request)
	MySummary(w http.ResponseWriter, r *http.Request)
	Today(w http.ResponseWriter, r *http.Request)
	EmployeeDashboard(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	EmployeeAttendance(w http.ResponseWriter, r *http.Request)
}

type attendanceHandlerImpl struct {
	attendanceService attendance.Service
}

func NewAttendanceHandler(attendanceService attendance.Service) AttendanceHandler {
	return &attendanceHandlerImpl{
		attendanceService: attendanceService,
	}
}

// CheckIn implements AttendanceHandler.
func (h *attendanceHandlerImpl) CheckIn(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.IdentityFrom(r.Context())
	if !ok {
		response.HandleError(w, auth.ErrInvalidToken)
		return
	}

	result, err := h.attendanceService.CheckIn(r.Context(), caller)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Checked in successfully", result)
}

// CheckOut implements AttendanceHandler.
func (h *attendanceHandlerImpl) CheckOut(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.IdentityFrom(r.Context())
	if !ok {
		response.HandleError(w, auth.ErrInvalidToken)
		return
	}

	result, err := h.attendanceService.CheckOut(r.Context(), caller)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Checked out successfully", result)
}

// MyHistory implements AttendanceHandler.
func (h *attendanceHandlerImpl) MyHistory(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.IdentityFrom(r.Context())
	if !ok {
		response.HandleError(w, auth.ErrInvalidToken)
		return
	}

	q, err := parseMonthQuery(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.attendanceService.MyHistory(r.Context(), caller, q)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// MySummary implements AttendanceHandler.
func (h *attendanceHandlerImpl) MySummary(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.IdentityFrom(r.Context())
	if !ok {
		response.HandleError(w, auth.ErrInvalidToken)
		return
	}

	q, err := parseMonthQuery(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.attendanceService.MySummary(r.Context(), caller, q)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Today implements AttendanceHandler.
func (h *attendanceHandlerImpl) Today(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.IdentityFrom(r.Context())
	if !ok {
		response.HandleError(w, auth.ErrInvalidToken)
		return
	}

	result, err := h.attendanceService.TodayStatus(r.Context(), caller)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	if result == nil {
		response.SuccessWithMessage(w, "Not checked in today", nil)
		return
	}
	response.Success(w, result)
}

// EmployeeDashboard implements AttendanceHandler.
func (h *attendanceHandlerImpl) EmployeeDashboard(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.IdentityFrom(r.Context())
	if !ok {
		response.HandleError(w, auth.ErrInvalidToken)
		return
	}

	result, err := h.attendanceService.EmployeeDashboard(r.Context(), caller)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// List implements AttendanceHandler.
func (h *attendanceHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter := attendance.AttendanceFilter{}

	// Date range filters
	if startDate := query.Get("start_date"); startDate != "" {
		filter.StartDate = &startDate
	}
	if endDate := query.Get("end_date"); endDate != "" {
		filter.EndDate = &endDate
	}

	if status := query.Get("status"); status != "" {
		filter.Status = &status
	}
	if department := query.Get("department"); department != "" {
		filter.Department = &department
	}
	if code := query.Get("employee_code"); code != "" {
		filter.EmployeeCode = &code
	}

	result, err := h.attendanceService.ListAttendance(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// EmployeeAttendance implements AttendanceHandler.
func (h *attendanceHandlerImpl) EmployeeAttendance(w http.ResponseWriter, r *http.Request) {
	employeeID := chi.URLParam(r, "id")
	if validator.IsEmpty(employeeID) {
		response.BadRequest(w, "Employee id is required", nil)
		return
	}

	q, err := parseMonthQuery(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.attendanceService.EmployeeAttendance(r.Context(), employeeID, q)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// parseMonthQuery reads optional month and year query parameters.
func parseMonthQuery(r *http.Request) (attendance.MonthQuery, error) {
	var (
		q    attendance.MonthQuery
		errs validator.ValidationErrors
		ok   bool
	)

	if q.Month, ok = validator.ParseOptionalInt(r.URL.Query().Get("month")); !ok {
		errs = append(errs, validator.ValidationError{Field: "month", Message: "month must be a number"})
	}
	if q.Year, ok = validator.ParseOptionalInt(r.URL.Query().Get("year")); !ok {
		errs = append(errs, validator.ValidationError{Field: "year", Message: "year must be a number"})
	}

	if len(errs) > 0 {
		return attendance.MonthQuery{}, errs
	}
	return q, nil
}
