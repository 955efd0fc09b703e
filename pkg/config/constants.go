package config

const (
	// EnvPrefix is the envconfig prefix shared by every tillpoint variable.
	EnvPrefix = "TILLPOINT"

	AppEnvDev  = "development"
	AppEnvProd = "production"

	EnvAppEnv   = "TILLPOINT_APP_ENV"
	EnvPort     = "TILLPOINT_APP_PORT"
	EnvLogLevel = "TILLPOINT_LOG_LEVEL"

	EnvDBDSN      = "TILLPOINT_DB_DSN"
	EnvDBHost     = "TILLPOINT_DB_HOST"
	EnvDBPort     = "TILLPOINT_DB_PORT"
	EnvDBUser     = "TILLPOINT_DB_USER"
	EnvDBPassword = "TILLPOINT_DB_PASSWORD"
	EnvDBName     = "TILLPOINT_DB_NAME"

	EnvRedisURL = "TILLPOINT_REDIS_URL"

	EnvJWTSecret  = "TILLPOINT_JWT_SECRET"
	EnvJWTIssuer  = "TILLPOINT_JWT_ISSUER"
	EnvJWTExpMins = "TILLPOINT_JWT_EXPIRATION_MINUTES"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
