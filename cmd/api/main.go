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

	"github.com/ktv-ledger/ktv-backend-go/internal/config"
	appHTTP "github.com/ktv-ledger/ktv-backend-go/internal/handler/http"
	"github.com/ktv-ledger/ktv-backend-go/internal/handler/http/middleware"
	"github.com/ktv-ledger/ktv-backend-go/internal/pkg/cache"
	"github.com/ktv-ledger/ktv-backend-go/internal/pkg/cron"
	"github.com/ktv-ledger/ktv-backend-go/internal/pkg/database"
	"github.com/ktv-ledger/ktv-backend-go/internal/pkg/jwt"
	"github.com/ktv-ledger/ktv-backend-go/internal/pkg/logging"
	"github.com/ktv-ledger/ktv-backend-go/internal/pkg/metrics"
	"github.com/ktv-ledger/ktv-backend-go/internal/repository/postgresql"
	attendanceService "github.com/ktv-ledger/ktv-backend-go/internal/service/attendance"
	serviceAuth "github.com/ktv-ledger/ktv-backend-go/internal/service/auth"
	employeeService "github.com/ktv-ledger/ktv-backend-go/internal/service/employee"
	reportService "github.com/ktv-ledger/ktv-backend-go/internal/service/report"
	rulesetService "github.com/ktv-ledger/ktv-backend-go/internal/service/ruleset"
	salaryService "github.com/ktv-ledger/ktv-backend-go/internal/service/salary"
	userService "github.com/ktv-ledger/ktv-backend-go/internal/service/user"
)

func main() {
	if err := run(); err != nil {
		slog.Error("Server stopped with error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}
	logging.Setup(cfg.App.Env, cfg.App.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL())
	if err != nil {
		return fmt.Errorf("error connecting to database: %w", err)
	}
	defer db.Close()

	var ruleCache cache.Cache = cache.NoopCache{}
	if cfg.Redis.Addr != "" {
		redisCache, err := cache.NewRedisCache(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, "ktv")
		if err != nil {
			slog.Warn("Redis unavailable, rule sets will not be cached", "error", err)
		} else {
			defer redisCache.Close()
			ruleCache = redisCache
		}
	}

	userRepo := postgresql.NewUserRepository(db)
	employeeRepo := postgresql.NewEmployeeRepository(db)
	attendanceRepo := postgresql.NewAttendanceRepository(db)
	ruleSetRepo := postgresql.NewRuleSetRepository(db)

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)
	resolver := rulesetService.NewResolver(ruleSetRepo, ruleCache, cfg.Redis.TTL)

	authSvc := serviceAuth.NewAuthService(userRepo, JWTService)
	userSvc := userService.NewUserService(userRepo)
	ruleSetSvc := rulesetService.NewService(ruleSetRepo, resolver)
	employeeSvc := employeeService.NewEmployeeService(employeeRepo, ruleSetRepo, resolver)
	attendanceSvc := attendanceService.NewAttendanceService(attendanceRepo, employeeRepo, resolver)
	settlementSvc := salaryService.NewSettlementService(employeeRepo, attendanceRepo, resolver, cfg.Location())
	reportSvc := reportService.NewReportService(attendanceRepo, resolver)

	m := metrics.New()

	scheduler := cron.NewScheduler()
	cron.NewSettlementJobs(settlementSvc, m, cfg.Cron.SettlementSnapshotInterval).RegisterJobs(scheduler)
	scheduler.Start()
	defer scheduler.Stop()

	loginLimiter, err := middleware.RateLimit(cfg.RateLimit.Login)
	if err != nil {
		return err
	}

	router := appHTTP.NewRouter(cfg.App, JWTService, m, loginLimiter, appHTTP.Handlers{
		Auth:       appHTTP.NewAuthHandler(authSvc, userSvc),
		User:       appHTTP.NewUserHandler(userSvc),
		Employee:   appHTTP.NewEmployeeHandler(employeeSvc),
		Attendance: appHTTP.NewAttendanceHandler(attendanceSvc),
		RuleSet:    appHTTP.NewRuleSetHandler(ruleSetSvc),
		Settlement: appHTTP.NewSettlementHandler(settlementSvc),
		Report:     appHTTP.NewReportHandler(reportSvc),
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Server running", "addr", srv.Addr, "env", cfg.App.Env, "timezone", cfg.App.Timezone)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}

	slog.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
