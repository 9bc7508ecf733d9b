package config

const (
	EnvPrefix = "JC"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvAppEnv   = "JC_APP_ENV"
	EnvPort     = "JC_APP_PORT"
	EnvLogLevel = "JC_LOG_LEVEL"

	EnvDBDSN  = "JC_DB_DSN"
	EnvDBHost = "JC_DB_HOST"
	EnvDBUser = "JC_DB_USER"
	EnvDBName = "JC_DB_NAME"

	EnvRedisURL = "JC_REDIS_URL"

	EnvUseSQLite   = "JC_USE_SQLITE"
	EnvAutoMigrate = "JC_AUTO_MIGRATE"

	EnvFreeDeliveryThreshold = "JC_CART_FREE_DELIVERY_THRESHOLD"
	EnvFlatDeliveryFee       = "JC_CART_FLAT_DELIVERY_FEE"
	EnvCartSnapshotTTL       = "JC_CART_SNAPSHOT_TTL"
	EnvCatalogCacheTTL       = "JC_CATALOG_CACHE_TTL"
)

// legacyDBEnvVars must all be present when JC_DB_DSN is empty.
var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
