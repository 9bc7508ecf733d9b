package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Jcpastelariagourmet/jcpastelariagourmet-sub000/internal/coupons"
	"github.com/Jcpastelariagourmet/jcpastelariagourmet-sub000/internal/cron"
	"github.com/Jcpastelariagourmet/jcpastelariagourmet-sub000/internal/orders"
	"github.com/Jcpastelariagourmet/jcpastelariagourmet-sub000/pkg/config"
	"github.com/Jcpastelariagourmet/jcpastelariagourmet-sub000/pkg/db"
	"github.com/Jcpastelariagourmet/jcpastelariagourmet-sub000/pkg/logger"
	"github.com/Jcpastelariagourmet/jcpastelariagourmet-sub000/pkg/metrics"
	"github.com/Jcpastelariagourmet/jcpastelariagourmet-sub000/pkg/migrate"
	"github.com/Jcpastelariagourmet/jcpastelariagourmet-sub000/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "cron-worker"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "cron-worker",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbClient, err := db.New(ctx, cfg.DB, cfg.FeatureFlags.UseSQLite, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
		logg.Error(ctx, "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(ctx, cfg.Redis, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	registry := prometheus.NewRegistry()
	m := metrics.NewStorefrontMetrics(registry)

	lock, err := cron.NewRedisLock(redisClient, redisClient.LockKey("maintenance:"+cfg.App.Env), cfg.Maintenance.LockTTL)
	if err != nil {
		logg.Error(ctx, "failed to create maintenance lock", err)
		os.Exit(1)
	}
	orderExpiry, err := cron.NewPendingOrderExpiry(orders.NewRepository(dbClient.DB()), cfg.Maintenance.PendingOrderTTL, logg)
	if err != nil {
		logg.Error(ctx, "failed to create order expiry job", err)
		os.Exit(1)
	}
	couponExpiry, err := cron.NewCouponExpiry(coupons.NewRepository(dbClient.DB()), logg)
	if err != nil {
		logg.Error(ctx, "failed to create coupon expiry job", err)
		os.Exit(1)
	}

	service, err := cron.NewService(cron.ServiceParams{
		Logger:   logg,
		Lock:     lock,
		Metrics:  m,
		Interval: cfg.Maintenance.Interval,
		Jobs:     []cron.Job{orderExpiry, couponExpiry},
	})
	if err != nil {
		logg.Error(ctx, "failed to create cron service", err)
		os.Exit(1)
	}

	metricsServer := &http.Server{
		Addr:              ":" + cfg.App.Port,
		Handler:           promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(ctx, "metrics server stopped", err)
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = metricsServer.Shutdown(shutdownCtx)
	}()

	ctx = logg.WithFields(ctx, map[string]any{
		"env":      cfg.App.Env,
		"interval": cfg.Maintenance.Interval.String(),
	})
	logg.Info(ctx, "starting cron worker")

	if err := service.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logg.Error(ctx, "cron worker stopped unexpectedly", err)
		os.Exit(1)
	}
	logg.Info(ctx, "cron worker shutting down gracefully")
}
