package config

const EnvPrefix = "BHARATSHAALA"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvAppEnv  = "BHARATSHAALA_APP_ENV"
	EnvPort    = "BHARATSHAALA_APP_PORT"
	EnvDBDSN   = "BHARATSHAALA_DB_DSN"
	EnvDBHost  = "BHARATSHAALA_DB_HOST"
	EnvDBUser  = "BHARATSHAALA_DB_USER"
	EnvDBName  = "BHARATSHAALA_DB_NAME"
	EnvDBPort  = "BHARATSHAALA_DB_PORT"
	EnvDBPass  = "BHARATSHAALA_DB_PASSWORD"
	EnvDBSSL   = "BHARATSHAALA_DB_SSLMODE"
	EnvTestDSN = "BHARATSHAALA_TEST_DB_DSN"

	EnvRedisURL  = "BHARATSHAALA_REDIS_URL"
	EnvJWTSecret = "BHARATSHAALA_JWT_SECRET"
	EnvJWTIssuer = "BHARATSHAALA_JWT_ISSUER"
	EnvJWTExp    = "BHARATSHAALA_JWT_EXPIRATION_MINUTES"

	EnvRazorpayKeyID     = "BHARATSHAALA_RAZORPAY_KEY_ID"
	EnvRazorpayKeySecret = "BHARATSHAALA_RAZORPAY_KEY_SECRET"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
