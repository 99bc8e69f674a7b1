package config

const EnvPrefix = "FOODORDER"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvAppEnv                 = "FOODORDER_APP_ENV"
	EnvPort                   = "FOODORDER_APP_PORT"
	EnvDBDSN                  = "FOODORDER_DB_DSN"
	EnvDBHost                 = "FOODORDER_DB_HOST"
	EnvDBUser                 = "FOODORDER_DB_USER"
	EnvDBName                 = "FOODORDER_DB_NAME"
	EnvRedisURL               = "FOODORDER_REDIS_URL"
	EnvJWTSecret              = "FOODORDER_JWT_SECRET"
	EnvJWTIssuer              = "FOODORDER_JWT_ISSUER"
	EnvJWTExpMins             = "FOODORDER_JWT_EXPIRATION_MINUTES"
	EnvRefreshTokenTTLMinutes = "FOODORDER_REFRESH_TOKEN_TTL_MINUTES"
	EnvUseSQLite              = "FOODORDER_USE_SQLITE"
	EnvPubSubOrderEventsTopic = "FOODORDER_PUBSUB_ORDER_EVENTS_TOPIC"
	EnvGCPProjectID           = "FOODORDER_GCP_PROJECT_ID"
)

var dbPartEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
