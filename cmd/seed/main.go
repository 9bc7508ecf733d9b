package main

import (
	"context"
	"flag"
	"os"

	"github.com/joho/godotenv"

	"github.com/Jcpastelariagourmet/jcpastelariagourmet-sub000/internal/seed"
	"github.com/Jcpastelariagourmet/jcpastelariagourmet-sub000/pkg/config"
	"github.com/Jcpastelariagourmet/jcpastelariagourmet-sub000/pkg/db"
	"github.com/Jcpastelariagourmet/jcpastelariagourmet-sub000/pkg/logger"
	"github.com/Jcpastelariagourmet/jcpastelariagourmet-sub000/pkg/migrate"
	pkgredis "github.com/Jcpastelariagourmet/jcpastelariagourmet-sub000/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "seed"})
	_ = godotenv.Load()

	file := flag.String("file", "", "menu fixture (JSON); the bundled menu is used when empty")
	flag.Parse()

	ctx := context.Background()
	cfg, err := config.Load()
	if err != nil {
		logg.Error(ctx, "failed to load config", err)
		os.Exit(1)
	}
	logg = logger.New(logger.Options{
		ServiceName: "seed",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
	})

	fixture, err := loadFixture(*file)
	if err != nil {
		logg.Error(ctx, "failed to load fixture", err)
		os.Exit(1)
	}

	dbClient, err := db.New(ctx, cfg.DB, cfg.FeatureFlags.UseSQLite, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer dbClient.Close()

	if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
		logg.Error(ctx, "failed to run dev migrations", err)
		os.Exit(1)
	}

	summary, err := seed.Apply(ctx, dbClient, fixture)
	if err != nil {
		logg.Error(ctx, "seed failed", err)
		os.Exit(1)
	}

	ctx = logg.WithFields(ctx, map[string]any{
		"categories": summary.Categories,
		"products":   summary.Products,
		"coupons":    summary.Coupons,
	})
	logg.Info(ctx, "seed applied")

	// Cached catalog pages would otherwise serve the old menu until they expire.
	if redisClient, err := pkgredis.New(ctx, cfg.Redis, logg); err != nil {
		logg.Warn(ctx, "redis unavailable, catalog cache not flushed")
	} else {
		defer redisClient.Close()
		if n, err := redisClient.DelPattern(ctx, redisClient.CatalogKey("*")); err != nil {
			logg.Error(ctx, "failed to flush catalog cache", err)
		} else {
			logg.Info(logg.WithField(ctx, "keys", n), "catalog cache flushed")
		}
	}
}

func loadFixture(path string) (*seed.Fixture, error) {
	if path == "" {
		return seed.Default()
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return seed.Load(f)
}
