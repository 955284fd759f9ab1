package http

import (
	"log/slog"
	"os"

	"github.com/cmlabs-hris/attendance-backend-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

// RouterOptions carries the environment-dependent parts of the router.
type RouterOptions struct {
	AllowedOrigins []string
	Env            string
	Version        string
	LogLevel       slog.Level
}

type Handlers struct {
	Auth       AuthHandler
	Attendance AttendanceHandler
	Report     ReportHandler
}

func NewRouter(JWTService jwt.Service, h Handlers, opts RouterOptions) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(opts.Env != "production")
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "attendance-cmlabs"),
		slog.String("version", opts.Version),
		slog.String("env", opts.Env),
	)

	allowedOrigins := opts.AllowedOrigins
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"http://localhost:3000"}
	}

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Content-Disposition"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  opts.LogLevel,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api/v1", func(r chi.Router) {

		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", h.Auth.Login)
			r.Post("/refresh", h.Auth.RefreshToken)

			r.Group(func(r chi.Router) {
				r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
				r.Use(middleware.AuthRequired(JWTService))
				r.Post("/logout", h.Auth.Logout)
			})
		})

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired(JWTService))

			// Employee only
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireEmployee)
				r.Post("/attendance/check-in", h.Attendance.CheckIn)
				r.Post("/attendance/check-out", h.Attendance.CheckOut)
				r.Get("/attendance/my-history", h.Attendance.MyHistory)
				r.Get("/attendance/my-summary", h.Attendance.MySummary)
				r.Get("/attendance/today", h.Attendance.Today)
				r.Get("/dashboard/employee", h.Attendance.EmployeeDashboard)
			})

			// Manager only
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireManager)
				r.Get("/attendance/all", h.Attendance.List)
				r.Get("/attendance/employee/{id}", h.Attendance.EmployeeAttendance)
				r.Get("/attendance/summary", h.Report.Summary)
				r.Get("/attendance/export", h.Report.Export)
				r.Get("/attendance/today-status", h.Report.TodayStatus)

				r.Route("/reports", func(r chi.Router) {
					r.Get("/daily", h.Report.Daily)
					r.Get("/trend", h.Report.Trend)
					r.Get("/departments", h.Report.Departments)
				})

				r.Get("/dashboard/manager", h.Report.ManagerDashboard)
			})
		})
	})
	return r
}
