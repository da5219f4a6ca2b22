package config

// EnvPrefix namespaces every CareBook environment variable.
const EnvPrefix = "CAREBOOK"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvAppEnv   = "CAREBOOK_APP_ENV"
	EnvPort     = "CAREBOOK_APP_PORT"
	EnvLogLevel = "CAREBOOK_LOG_LEVEL"

	EnvDBDSN  = "CAREBOOK_DB_DSN"
	EnvDBHost = "CAREBOOK_DB_HOST"
	EnvDBUser = "CAREBOOK_DB_USER"
	EnvDBName = "CAREBOOK_DB_NAME"

	EnvRedisURL = "CAREBOOK_REDIS_URL"

	EnvJWTSecret              = "CAREBOOK_JWT_SECRET"
	EnvJWTIssuer              = "CAREBOOK_JWT_ISSUER"
	EnvJWTExpMins             = "CAREBOOK_JWT_EXPIRATION_MINUTES"
	EnvRefreshTokenTTLMinutes = "CAREBOOK_REFRESH_TOKEN_TTL_MINUTES"

	EnvSheetStoreBaseURL = "CAREBOOK_SHEETSTORE_BASE_URL"
	EnvSheetStoreAPIKey  = "CAREBOOK_SHEETSTORE_API_KEY"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
