package migrate

import (
	"context"
	"fmt"

	"github.com/Jcpastelariagourmet/jcpastelariagourmet-sub000/pkg/config"
	"github.com/Jcpastelariagourmet/jcpastelariagourmet-sub000/pkg/db"
	"github.com/Jcpastelariagourmet/jcpastelariagourmet-sub000/pkg/db/models"
	"github.com/Jcpastelariagourmet/jcpastelariagourmet-sub000/pkg/logger"
)

// MaybeRunDev brings the schema up to date outside production when
// JC_AUTO_MIGRATE is set. Postgres runs the embedded goose migrations;
// sqlite has no jsonb or numeric types, so it is migrated from the gorm models.
func MaybeRunDev(ctx context.Context, cfg *config.Config, logg *logger.Logger, client *db.Client) error {
	if cfg.App.IsProd() || !cfg.FeatureFlags.AutoMigrate {
		return nil
	}

	ctx = logg.WithFields(ctx, map[string]any{
		"env":     cfg.App.Env,
		"dialect": client.Dialect(),
	})

	if client.Dialect() == "sqlite" {
		logg.Info(ctx, "migrate.automigrate.start")
		if err := client.DB().WithContext(ctx).AutoMigrate(models.All()...); err != nil {
			return fmt.Errorf("automigrate sqlite: %w", err)
		}
		logg.Info(ctx, "migrate.automigrate.done")
		return nil
	}

	sqlDB, err := client.SQL()
	if err != nil {
		return fmt.Errorf("extracting sql.DB: %w", err)
	}
	logg.Info(ctx, "migrate.goose.start")
	if err := UpEmbedded(ctx, sqlDB); err != nil {
		return err
	}
	logg.Info(ctx, "migrate.goose.done")
	return nil
}
