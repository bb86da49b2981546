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

	"github.com/cmlabs-hris/leave-attendance-backend/internal/config"
	appHTTP "github.com/cmlabs-hris/leave-attendance-backend/internal/handler/http"
	"github.com/cmlabs-hris/leave-attendance-backend/internal/pkg/clock"
	"github.com/cmlabs-hris/leave-attendance-backend/internal/pkg/cron"
	"github.com/cmlabs-hris/leave-attendance-backend/internal/pkg/database"
	"github.com/cmlabs-hris/leave-attendance-backend/internal/pkg/email"
	"github.com/cmlabs-hris/leave-attendance-backend/internal/pkg/jwt"
	"github.com/cmlabs-hris/leave-attendance-backend/internal/pkg/storage"
	"github.com/cmlabs-hris/leave-attendance-backend/internal/repository/postgresql"
	attendanceService "github.com/cmlabs-hris/leave-attendance-backend/internal/service/attendance"
	serviceAuth "github.com/cmlabs-hris/leave-attendance-backend/internal/service/auth"
	"github.com/cmlabs-hris/leave-attendance-backend/internal/service/expiry"
	fileService "github.com/cmlabs-hris/leave-attendance-backend/internal/service/file"
	hourService "github.com/cmlabs-hris/leave-attendance-backend/internal/service/hour"
	leaveService "github.com/cmlabs-hris/leave-attendance-backend/internal/service/leave"
	statsService "github.com/cmlabs-hris/leave-attendance-backend/internal/service/stats"
	userService "github.com/cmlabs-hris/leave-attendance-backend/internal/service/user"
	"github.com/cmlabs-hris/leave-attendance-backend/migrations"
)

const version = "v1.0.0"

func main() {
	if err := run(); err != nil {
		slog.Error("Server exited with error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel(),
	})).With(slog.String("app", "leave-attendance")))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL())
	if err != nil {
		return fmt.Errorf("error connecting to database: %w", err)
	}
	defer db.Close()

	if cfg.Database.AutoMigrate {
		if err := migrations.Apply(ctx, db); err != nil {
			return err
		}
	}

	clk := clock.New()
	transactor := postgresql.NewTransactor(db)

	userRepo := postgresql.NewUserRepository(db)
	departmentRepo := postgresql.NewDepartmentRepository(db)
	leaveRequestRepo := postgresql.NewLeaveRequestRepository(db)
	hourRequestRepo := postgresql.NewHourRequestRepository(db)
	attendanceRepo := postgresql.NewAttendanceRepository(db)

	JWTService, err := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)
	if err != nil {
		return err
	}

	emailSvc, err := email.NewEmailService(cfg.SMTP)
	if err != nil {
		return fmt.Errorf("error initializing email service: %w", err)
	}

	localStorage, err := storage.NewLocalStorage(cfg.Storage.BasePath, cfg.Storage.BaseURL)
	if err != nil {
		return fmt.Errorf("error initializing storage: %w", err)
	}
	fileSvc := fileService.NewFileService(localStorage)

	authSvc := serviceAuth.NewAuthService(userRepo, JWTService)
	passwordSvc := serviceAuth.NewPasswordService(userRepo, JWTService, emailSvc, cfg.App.FrontendURL)
	userSvc := userService.NewUserService(userRepo, departmentRepo, fileSvc, passwordSvc, clk)
	leaveSvc := leaveService.NewLeaveService(
		transactor,
		leaveRequestRepo,
		userRepo,
		leaveService.NewRequestValidator(leaveRequestRepo, clk),
	)
	hourSvc := hourService.NewHourService(
		transactor,
		hourRequestRepo,
		userRepo,
		hourService.NewRequestValidator(hourRequestRepo, clk),
		clk,
	)
	// Processor order sets status priority: leave, then permission, then present.
	attendanceSvc := attendanceService.NewAttendanceService(
		attendanceRepo,
		clk,
		attendanceService.NewLeaveProcessor(leaveRequestRepo, attendanceRepo),
		attendanceService.NewPermissionProcessor(hourRequestRepo, attendanceRepo),
		attendanceService.NewDefaultProcessor(userRepo, attendanceRepo),
	)
	statsSvc := statsService.NewStatsService(leaveRequestRepo, hourRequestRepo)
	sweeper := expiry.NewPendingRequestProcessor(leaveRequestRepo, hourRequestRepo, clk, cfg.Cron.PendingRequestMaxAge)

	scheduler := cron.NewScheduler()
	if err := cron.NewLeaveAttendanceJobs(
		attendanceSvc,
		sweeper,
		cfg.Cron.PendingSweepSchedule,
	).RegisterJobs(scheduler); err != nil {
		return fmt.Errorf("error registering cron jobs: %w", err)
	}
	scheduler.Start()
	defer scheduler.Stop()

	router := appHTTP.NewRouter(
		appHTTP.RouterOptions{
			AllowedOrigins: cfg.App.CORSAllowedOrigins,
			Env:            cfg.App.Env,
			Version:        version,
			UploadsDir:     cfg.Storage.BasePath,
		},
		JWTService,
		appHTTP.Handlers{
			Auth:       appHTTP.NewAuthHandler(authSvc),
			Password:   appHTTP.NewPasswordHandler(passwordSvc),
			User:       appHTTP.NewUserHandler(userSvc),
			Leave:      appHTTP.NewLeaveHandler(leaveSvc),
			Hour:       appHTTP.NewHourHandler(hourSvc),
			Attendance: appHTTP.NewAttendanceHandler(attendanceSvc),
			Stats:      appHTTP.NewStatsHandler(statsSvc),
		},
	)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("Server running", "addr", server.Addr, "env", cfg.App.Env)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}

	slog.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
