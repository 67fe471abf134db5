package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"github.com/odyssey-erp/owner-console/internal/app"
	"github.com/odyssey-erp/owner-console/internal/directory"
	"github.com/odyssey-erp/owner-console/internal/employees"
	"github.com/odyssey-erp/owner-console/internal/observability"
	"github.com/odyssey-erp/owner-console/internal/platform/cache"
	"github.com/odyssey-erp/owner-console/internal/shared"
	"github.com/odyssey-erp/owner-console/internal/view"
	"github.com/odyssey-erp/owner-console/jobs"
	"github.com/odyssey-erp/owner-console/report"
)

const sessionCookie = "console_session"

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, stop); err != nil {
		slog.Default().Error("console stopped", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(ctx context.Context, stop context.CancelFunc) error {
	cfg, err := app.LoadConfig()
	if err != nil {
		return err
	}

	logger := app.NewLogger(cfg)

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		return err
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	sessionManager := shared.NewSessionManager(redisClient, sessionCookie, cfg.SessionTTL, cfg.IsProduction())
	csrfManager := shared.NewCSRFManager(cfg.CSRFSecret)

	templates, err := view.NewEngine(cfg.AppLocale)
	if err != nil {
		return err
	}

	metrics := observability.NewMetrics()

	dirClient := directory.NewClient(cfg.DirectoryURL, cfg.DirectoryToken, cfg.DirectoryTimeout, directory.WithObserver(metrics))
	if err := dirClient.Ping(ctx); err != nil {
		logger.Warn("directory ping", slog.Any("error", err))
	}
	companyCache := directory.NewCompanyCache(dirClient, redisClient, cfg.CompanyCacheTTL, logger)

	employeeService := employees.NewService(dirClient, companyCache)
	employeeHandler := employees.NewHandler(logger, employeeService, templates, csrfManager)

	readiness := map[string]app.ReadinessCheck{
		"redis":     cache.Pinger(redisClient),
		"directory": dirClient.Ping,
	}
	if cfg.GotenbergURL != "" {
		pdfClient := report.NewClient(cfg.GotenbergURL, 0)
		employeeHandler.WithExporter(pdfClient)
		readiness["gotenberg"] = pdfClient.Ping
	}

	queueOpts := cache.QueueOpts(cfg.RedisAddr)
	inspector := asynq.NewInspector(queueOpts)
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}()
	jobClient := jobs.NewClient(queueOpts)
	defer func() {
		if err := jobClient.Close(); err != nil {
			logger.Warn("job client close", slog.Any("error", err))
		}
	}()
	jobHandler := jobs.NewHandler(inspector, jobClient, logger)

	router := app.NewRouter(app.RouterParams{
		Logger:           logger,
		Config:           cfg,
		Templates:        templates,
		SessionManager:   sessionManager,
		CSRFManager:      csrfManager,
		EmployeesHandler: employeeHandler,
		JobHandler:       jobHandler,
		Metrics:          metrics,
		Readiness:        readiness,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
