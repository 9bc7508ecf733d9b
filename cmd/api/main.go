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
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/multierr"

	"github.com/Jcpastelariagourmet/jcpastelariagourmet-sub000/api/routes"
	"github.com/Jcpastelariagourmet/jcpastelariagourmet-sub000/internal/cart"
	"github.com/Jcpastelariagourmet/jcpastelariagourmet-sub000/internal/catalog"
	"github.com/Jcpastelariagourmet/jcpastelariagourmet-sub000/internal/coupons"
	"github.com/Jcpastelariagourmet/jcpastelariagourmet-sub000/internal/loyalty"
	"github.com/Jcpastelariagourmet/jcpastelariagourmet-sub000/internal/orders"
	"github.com/Jcpastelariagourmet/jcpastelariagourmet-sub000/pkg/config"
	"github.com/Jcpastelariagourmet/jcpastelariagourmet-sub000/pkg/db"
	"github.com/Jcpastelariagourmet/jcpastelariagourmet-sub000/pkg/logger"
	"github.com/Jcpastelariagourmet/jcpastelariagourmet-sub000/pkg/metrics"
	"github.com/Jcpastelariagourmet/jcpastelariagourmet-sub000/pkg/migrate"
	"github.com/Jcpastelariagourmet/jcpastelariagourmet-sub000/pkg/redis"
)

const shutdownTimeout = 15 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logg); err != nil {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logg *logger.Logger) (err error) {
	dbClient, err := db.New(ctx, cfg.DB, cfg.FeatureFlags.UseSQLite, logg)
	if err != nil {
		return err
	}
	defer func() { err = multierr.Append(err, dbClient.Close()) }()

	if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
		return err
	}

	redisClient, err := redis.New(ctx, cfg.Redis, logg)
	if err != nil {
		return err
	}
	defer func() { err = multierr.Append(err, redisClient.Close()) }()

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.NewStorefrontMetrics(registry)

	catalogService, err := catalog.NewService(
		catalog.NewRepository(dbClient.DB()),
		catalog.NewRedisCache(redisClient, cfg.Catalog.CacheTTL),
		m, logg,
	)
	if err != nil {
		return err
	}

	couponRepo := coupons.NewRepository(dbClient.DB())
	validator, err := coupons.NewValidator(couponRepo, cfg.Coupons, m, logg)
	if err != nil {
		return err
	}

	cartService, err := cart.NewService(
		cart.NewRedisStore(redisClient, cfg.Cart.SnapshotTTL),
		catalogService, validator, cfg.Cart, m, logg,
	)
	if err != nil {
		return err
	}

	loyaltyService, err := loyalty.NewService(loyalty.NewRepository(dbClient.DB()), logg)
	if err != nil {
		return err
	}

	ordersService, err := orders.NewService(orders.Deps{
		Repo:    orders.NewRepository(dbClient.DB()),
		Tx:      dbClient,
		Carts:   cartService,
		Coupons: couponRepo,
		Loyalty: loyaltyService,
		Numbers: orders.NewNumberGenerator(redisClient),
		Metrics: m,
		Logger:  logg,
	})
	if err != nil {
		return err
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx = logg.WithFields(ctx, map[string]any{
		"env":     cfg.App.Env,
		"addr":    addr,
		"dialect": dbClient.Dialect(),
	})

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(
			cfg, logg, dbClient, redisClient, redisClient, registry,
			catalogService, cartService, ordersService, loyaltyService,
		),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logg.Info(ctx, "starting api server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		return err
	case <-ctx.Done():
	}

	logg.Info(ctx, "shutting down api server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
