package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/config"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/employee"
	appHTTP "github.com/cmlabs-hris/attendance-backend-go/internal/handler/http"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/calendar"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/cron"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/attendance-backend-go/internal/repository/memory"
	"github.com/cmlabs-hris/attendance-backend-go/internal/repository/postgresql"
	attendanceService "github.com/cmlabs-hris/attendance-backend-go/internal/service/attendance"
	serviceAuth "github.com/cmlabs-hris/attendance-backend-go/internal/service/auth"
	reportService "github.com/cmlabs-hris/attendance-backend-go/internal/service/report"
)

const version = "v1.0.0"

func main() {
	if err := run(); err != nil {
		slog.Error("Server exited", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	})).With(slog.String("app", "attendance-cmlabs")))

	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	records, roster, closeStore, err := openStore(ctx, cfg, loc)
	if err != nil {
		return err
	}
	defer closeStore()

	clock := calendar.SystemClock{Location: loc}

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration, cfg.JWT.RefreshExpiration)
	authService := serviceAuth.NewAuthService(roster, JWTService)
	attendanceSvc := attendanceService.NewAttendanceService(records, roster, clock, cfg.Policy())
	reportSvc := reportService.NewReportService(records, roster, clock)

	router := appHTTP.NewRouter(JWTService, appHTTP.Handlers{
		Auth:       appHTTP.NewAuthHandler(authService),
		Attendance: appHTTP.NewAttendanceHandler(attendanceSvc),
		Report:     appHTTP.NewReportHandler(reportSvc),
	}, appHTTP.RouterOptions{
		AllowedOrigins: cfg.App.AllowedOrigins,
		Env:            cfg.App.Env,
		Version:        version,
		LogLevel:       cfg.SlogLevel(),
	})

	scheduler := cron.NewScheduler()
	cron.NewTokenJobs(JWTService, nil).RegisterJobs(scheduler)
	scheduler.Start(ctx)
	defer scheduler.Stop()

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("Server running", "addr", server.Addr, "storage", cfg.Storage.Driver, "timezone", loc.String())
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
	}

	slog.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// openStore wires the configured storage driver. The returned func releases it.
func openStore(ctx context.Context, cfg *config.Config, loc *time.Location) (attendance.RecordRepository, employee.RosterRepository, func(), error) {
	switch cfg.Storage.Driver {
	case config.StorageDriverMemory:
		roster, err := memory.LoadRoster(cfg.Storage.RosterFile)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("load roster: %w", err)
		}
		slog.Warn("Using in-memory attendance store; records are lost on restart")
		return memory.NewAttendanceRepository(), roster, func() {}, nil

	default:
		db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL(), database.PoolOptions{
			MaxConns: cfg.Database.MaxConns,
			MinConns: cfg.Database.MinConns,
		})
		if err != nil {
			return nil, nil, nil, fmt.Errorf("connect database: %w", err)
		}
		if err := postgresql.EnsureSchema(ctx, db); err != nil {
			db.Close()
			return nil, nil, nil, err
		}

		employeeRepo := postgresql.NewEmployeeRepository(db)
		if cfg.Storage.RosterFile != "" {
			data, err := os.ReadFile(cfg.Storage.RosterFile)
			if err != nil {
				db.Close()
				return nil, nil, nil, fmt.Errorf("read roster: %w", err)
			}
			employees, err := memory.ParseRoster(data)
			if err != nil {
				db.Close()
				return nil, nil, nil, fmt.Errorf("parse roster: %w", err)
			}
			if err := employeeRepo.ImportRoster(ctx, employees); err != nil {
				db.Close()
				return nil, nil, nil, err
			}
			slog.Info("Roster imported", "employees", len(employees))
		}

		return postgresql.NewAttendanceRepository(db, loc), employeeRepo, db.Close, nil
	}
}
