package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/carewell/carebook-backend/internal/bookings"
	"github.com/carewell/carebook-backend/internal/cron"
	"github.com/carewell/carebook-backend/internal/customers"
	"github.com/carewell/carebook-backend/internal/ledger"
	"github.com/carewell/carebook-backend/internal/legacy"
	"github.com/carewell/carebook-backend/pkg/config"
	"github.com/carewell/carebook-backend/pkg/db"
	"github.com/carewell/carebook-backend/pkg/logger"
	"github.com/carewell/carebook-backend/pkg/metrics"
	"github.com/carewell/carebook-backend/pkg/migrate"
	"github.com/carewell/carebook-backend/pkg/redis"
	"github.com/carewell/carebook-backend/pkg/sheetstore"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "worker"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "worker",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx = logg.WithField(ctx, "env", cfg.App.Env)

	jobMetrics := metrics.NewJobMetrics(prometheus.DefaultRegisterer)

	customerRepo := customers.NewRepository(dbClient.DB())
	bookingRepo := bookings.NewRepository(dbClient.DB())
	ledgerRepo := ledger.NewRepository(dbClient.DB())

	registry := cron.NewRegistry()

	auditJob, err := cron.NewBalanceAuditJob(customerRepo, ledgerRepo, logg, jobMetrics)
	if err != nil {
		logg.Error(ctx, "failed to create balance audit job", err)
		os.Exit(1)
	}
	auditLock, err := cron.NewRedisLock(redisClient, redisClient.JobLockKey(cron.BalanceAuditJobName), cfg.Worker.JobLockTTL)
	if err != nil {
		logg.Error(ctx, "failed to create balance audit lock", err)
		os.Exit(1)
	}
	registry.Register(cron.Entry{Job: auditJob, Every: cfg.Worker.BalanceAuditEvery, Lock: auditLock})

	if cfg.SheetStore.Enabled() {
		sheetClient, err := sheetstore.NewClient(ctx, cfg.SheetStore, logg)
		if err != nil {
			logg.Error(ctx, "failed to create sheetstore client", err)
			os.Exit(1)
		}
		importer, err := legacy.NewImporter(sheetClient, customerRepo, bookingRepo, ledgerRepo, logg)
		if err != nil {
			logg.Error(ctx, "failed to create legacy importer", err)
			os.Exit(1)
		}
		syncJob, err := cron.NewSheetSyncJob(importer, logg)
		if err != nil {
			logg.Error(ctx, "failed to create sheet sync job", err)
			os.Exit(1)
		}
		syncLock, err := cron.NewRedisLock(redisClient, redisClient.JobLockKey(cron.SheetSyncJobName), cfg.Worker.JobLockTTL)
		if err != nil {
			logg.Error(ctx, "failed to create sheet sync lock", err)
			os.Exit(1)
		}
		registry.Register(cron.Entry{Job: syncJob, Every: cfg.Worker.SheetSyncEvery, Lock: syncLock})
	} else {
		logg.Info(ctx, "sheetstore not configured; legacy sync disabled")
	}

	service, err := cron.NewService(cron.ServiceParams{
		Logger:   logg,
		Registry: registry,
		Metrics:  jobMetrics,
	})
	if err != nil {
		logg.Error(ctx, "failed to create worker scheduler", err)
		os.Exit(1)
	}

	metricsServer := &http.Server{
		Addr:    ":" + cfg.Worker.MetricsPort,
		Handler: metricsMux(),
	}
	go func() {
		if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(ctx, "metrics server stopped unexpectedly", err)
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Worker.ShutdownGracePeriod)
		defer cancel()
		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "metrics server shutdown failed", err)
		}
	}()

	logg.Info(ctx, "starting worker")
	if err := service.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logg.Error(ctx, "worker stopped unexpectedly", err)
		os.Exit(1)
	}

	logg.Info(ctx, "worker shutting down gracefully")
}

func metricsMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	return mux
}
