package config

// EnvPrefix is empty because every variable carries the full KASUWA_
// prefix in its envconfig tag.
const EnvPrefix = ""

const (
	AppEnvDev  = "development"
	AppEnvProd = "production"
)

const (
	EnvAppEnv                 = "KASUWA_APP_ENV"
	EnvPort                   = "KASUWA_APP_PORT"
	EnvLogLevel               = "KASUWA_LOG_LEVEL"
	EnvDBDSN                  = "KASUWA_DB_DSN"
	EnvDBHost                 = "KASUWA_DB_HOST"
	EnvDBPort                 = "KASUWA_DB_PORT"
	EnvDBUser                 = "KASUWA_DB_USER"
	EnvDBPassword             = "KASUWA_DB_PASSWORD"
	EnvDBName                 = "KASUWA_DB_NAME"
	EnvDBSSLMode              = "KASUWA_DB_SSLMODE"
	EnvRedisURL               = "KASUWA_REDIS_URL"
	EnvJWTSecret              = "KASUWA_JWT_SECRET"
	EnvJWTIssuer              = "KASUWA_JWT_ISSUER"
	EnvJWTExpMins             = "KASUWA_JWT_EXPIRATION_MINUTES"
	EnvRefreshTokenTTLMinutes = "KASUWA_REFRESH_TOKEN_TTL_MINUTES"
	EnvMediaDir               = "KASUWA_MEDIA_DIR"
)

// legacyDBEnvVars are the discrete connection variables accepted when
// KASUWA_DB_DSN is not set.
var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

// requiredEnvVars must be set and non-empty for the process to boot.
var requiredEnvVars = []string{EnvAppEnv, EnvPort, EnvRedisURL, EnvJWTSecret, EnvJWTIssuer}
