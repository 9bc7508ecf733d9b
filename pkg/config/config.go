package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/shopspring/decimal"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	FeatureFlags FeatureFlagsConfig
	Cart         CartConfig
	Catalog      CatalogConfig
	Coupons      CouponsConfig
	Idempotency  IdempotencyConfig
	Maintenance  MaintenanceConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(cfg.FeatureFlags.UseSQLite); err != nil {
		return nil, err
	}
	if err := cfg.Cart.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"JC_APP_ENV" required:"true"`
	Port         string `envconfig:"JC_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"JC_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"JC_LOG_WARN_STACK" default:"false"`
	CORSOrigins  string `envconfig:"JC_CORS_ALLOWED_ORIGINS" default:"*"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// AllowedOrigins splits the comma separated CORS origin list.
func (a AppConfig) AllowedOrigins() []string {
	out := []string{}
	for _, origin := range strings.Split(a.CORSOrigins, ",") {
		if trimmed := strings.TrimSpace(origin); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

type DBConfig struct {
	DSN    string `envconfig:"JC_DB_DSN"`
	Driver string `envconfig:"JC_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"JC_DB_HOST"`
	LegacyPort     int    `envconfig:"JC_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"JC_DB_USER"`
	LegacyPassword string `envconfig:"JC_DB_PASSWORD"`
	LegacyName     string `envconfig:"JC_DB_NAME"`
	LegacySSLMode  string `envconfig:"JC_DB_SSLMODE" default:"disable"`

	SQLitePath string `envconfig:"JC_DB_SQLITE_PATH" default:"file:jc.db?cache=shared"`

	MaxOpenConns    int           `envconfig:"JC_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"JC_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"JC_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"JC_DB_CONN_MAX_IDLE_TIME" default:"10m"`
	SlowQuery       time.Duration `envconfig:"JC_DB_SLOW_QUERY" default:"500ms"`
}

type RedisConfig struct {
	URL          string        `envconfig:"JC_REDIS_URL" required:"true"`
	Address      string        `envconfig:"JC_REDIS_ADDR"`
	Password     string        `envconfig:"JC_REDIS_PASSWORD"`
	DB           int           `envconfig:"JC_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"JC_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"JC_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"JC_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"JC_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"JC_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"JC_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"JC_AUTO_MIGRATE" default:"false"`
}

// CartConfig holds the delivery policy and snapshot persistence settings.
type CartConfig struct {
	FreeDeliveryThreshold decimal.Decimal `envconfig:"JC_CART_FREE_DELIVERY_THRESHOLD" default:"50.00"`
	FlatDeliveryFee       decimal.Decimal `envconfig:"JC_CART_FLAT_DELIVERY_FEE" default:"8.90"`
	SnapshotTTL           time.Duration   `envconfig:"JC_CART_SNAPSHOT_TTL" default:"720h"`
	PersistAttempts       uint64          `envconfig:"JC_CART_PERSIST_ATTEMPTS" default:"3"`
	PersistBaseDelay      time.Duration   `envconfig:"JC_CART_PERSIST_BASE_DELAY" default:"50ms"`
}

func (c CartConfig) validate() error {
	if c.FreeDeliveryThreshold.IsNegative() {
		return fmt.Errorf("%s must not be negative", EnvFreeDeliveryThreshold)
	}
	if c.FlatDeliveryFee.IsNegative() {
		return fmt.Errorf("%s must not be negative", EnvFlatDeliveryFee)
	}
	return nil
}

type CatalogConfig struct {
	CacheTTL time.Duration `envconfig:"JC_CATALOG_CACHE_TTL" default:"5m"`
}

type CouponsConfig struct {
	BreakerMaxRequests  uint32        `envconfig:"JC_COUPONS_BREAKER_MAX_REQUESTS" default:"1"`
	BreakerInterval     time.Duration `envconfig:"JC_COUPONS_BREAKER_INTERVAL" default:"60s"`
	BreakerTimeout      time.Duration `envconfig:"JC_COUPONS_BREAKER_TIMEOUT" default:"30s"`
	BreakerFailureRatio float64       `envconfig:"JC_COUPONS_BREAKER_FAILURE_RATIO" default:"0.6"`
	BreakerMinRequests  uint32        `envconfig:"JC_COUPONS_BREAKER_MIN_REQUESTS" default:"5"`
}

type IdempotencyConfig struct {
	CheckoutTTL time.Duration `envconfig:"JC_IDEMPOTENCY_CHECKOUT_TTL" default:"24h"`
}

// MaintenanceConfig drives the cron worker.
type MaintenanceConfig struct {
	Interval        time.Duration `envconfig:"JC_MAINTENANCE_INTERVAL" default:"15m"`
	LockTTL         time.Duration `envconfig:"JC_MAINTENANCE_LOCK_TTL" default:"10m"`
	PendingOrderTTL time.Duration `envconfig:"JC_MAINTENANCE_PENDING_ORDER_TTL" default:"6h"`
}

func (db *DBConfig) ensureDSN(useSQLite bool) error {
	if db.DSN != "" || useSQLite {
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
