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

	"github.com/cmlabs-hris/timeclock-backend-go/internal/config"
	appHTTP "github.com/cmlabs-hris/timeclock-backend-go/internal/handler/http"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/clock"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/cron"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/telemetry"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/repository/postgresql"
	attendanceService "github.com/cmlabs-hris/timeclock-backend-go/internal/service/attendance"
	serviceAuth "github.com/cmlabs-hris/timeclock-backend-go/internal/service/auth"
	employeeService "github.com/cmlabs-hris/timeclock-backend-go/internal/service/employee"
	punctualityService "github.com/cmlabs-hris/timeclock-backend-go/internal/service/punctuality"
	scheduleService "github.com/cmlabs-hris/timeclock-backend-go/internal/service/schedule"
	"github.com/go-chi/httplog/v3"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

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

	logFormat := httplog.SchemaECS.Concise(cfg.App.Env != "production")
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:       cfg.LogLevel(),
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "timeclock"),
		slog.String("env", cfg.App.Env),
	)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTelemetry := telemetry.Setup(ctx, telemetry.Config{
		ServiceName: cfg.Telemetry.ServiceName,
		Endpoint:    cfg.Telemetry.Endpoint,
		Insecure:    cfg.Telemetry.Insecure,
	})
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTelemetry(ctx); err != nil {
			slog.Warn("Telemetry shutdown error", "error", err)
		}
	}()

	db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL())
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer db.Close()

	if err := db.EnsureSchema(ctx); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}

	loc, err := cfg.Location()
	if err != nil {
		return err
	}
	clk := clock.New(loc)

	transactor := postgresql.NewTransactor(db)
	employeeRepo := postgresql.NewEmployeeRepository(db)
	scheduleRepo := postgresql.NewScheduleRepository(db)
	eventRepo := postgresql.NewEventRepository(db)
	justificationRepo := postgresql.NewJustificationRepository(db)
	JWTRepository := postgresql.NewJWTRepository(db)

	JWTService, err := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration, cfg.JWT.RefreshExpiration, cfg.JWT.SecureCookie)
	if err != nil {
		return fmt.Errorf("jwt service: %w", err)
	}

	authService := serviceAuth.NewAuthService(transactor, employeeRepo, JWTService, JWTRepository)
	employeeSvc := employeeService.NewEmployeeService(transactor, employeeRepo, employeeService.Options{
		BootstrapPassword:   cfg.Bootstrap.AdminPassword,
		AllowPublicRegister: cfg.App.AllowPublicRegister,
	})
	scheduleSvc := scheduleService.NewScheduleService(scheduleRepo)
	attendanceSvc := attendanceService.NewAttendanceService(
		transactor,
		clk,
		eventRepo,
		justificationRepo,
		employeeRepo,
		scheduleRepo,
	)
	punctualitySvc := punctualityService.NewPunctualityService(eventRepo, scheduleRepo)

	router := appHTTP.NewRouter(
		appHTTP.RouterOptions{
			Logger:         logger,
			AllowedOrigins: cfg.App.CORSAllowedOrigins,
		},
		JWTService,
		appHTTP.NewAuthHandler(JWTService, authService, employeeSvc),
		appHTTP.NewEmployeeHandler(employeeSvc),
		appHTTP.NewScheduleHandler(scheduleSvc),
		appHTTP.NewAttendanceHandler(attendanceSvc),
		appHTTP.NewPunctualityHandler(punctualitySvc),
	)

	scheduler := cron.NewScheduler(ctx)
	cron.NewTokenJobs(JWTRepository, clk, cfg.App.TokenPurgeInterval).RegisterJobs(scheduler)
	scheduler.Start()
	defer scheduler.Stop()

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      otelhttp.NewHandler(router, cfg.Telemetry.ServiceName),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("Server running", "addr", server.Addr, "timezone", loc.String())
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

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	slog.Info("Server stopped")
	return nil
}
