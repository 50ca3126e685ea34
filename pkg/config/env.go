package config

const EnvPrefix = "TVSHOP"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	DBDriverPostgres = "postgres"
	DBDriverSQLite   = "sqlite"
)

const (
	EnvAppEnv   = "TVSHOP_APP_ENV"
	EnvPort     = "TVSHOP_APP_PORT"
	EnvLogLevel = "TVSHOP_LOG_LEVEL"

	EnvDBDSN    = "TVSHOP_DB_DSN"
	EnvDBDriver = "TVSHOP_DB_DRIVER"
	EnvDBHost   = "TVSHOP_DB_HOST"
	EnvDBPort   = "TVSHOP_DB_PORT"
	EnvDBUser   = "TVSHOP_DB_USER"
	EnvDBName   = "TVSHOP_DB_NAME"

	EnvRedisURL = "TVSHOP_REDIS_URL"

	EnvJWTSecret  = "TVSHOP_JWT_SECRET"
	EnvJWTIssuer  = "TVSHOP_JWT_ISSUER"
	EnvJWTExpMins = "TVSHOP_JWT_EXPIRATION_MINUTES"

	EnvCartSessionTTL = "TVSHOP_CART_SESSION_TTL"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
