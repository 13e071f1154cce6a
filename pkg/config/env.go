package config

const EnvPrefix = "HOMIO"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvAppEnv   = "HOMIO_APP_ENV"
	EnvPort     = "HOMIO_APP_PORT"
	EnvLogLevel = "HOMIO_LOG_LEVEL"

	EnvDBDSN  = "HOMIO_DB_DSN"
	EnvDBHost = "HOMIO_DB_HOST"
	EnvDBPort = "HOMIO_DB_PORT"
	EnvDBUser = "HOMIO_DB_USER"
	EnvDBPass = "HOMIO_DB_PASSWORD"
	EnvDBName = "HOMIO_DB_NAME"

	EnvRedisURL = "HOMIO_REDIS_URL"

	EnvJWTSecret     = "HOMIO_JWT_SECRET"
	EnvJWTIssuer     = "HOMIO_JWT_ISSUER"
	EnvJWTExpMins    = "HOMIO_JWT_EXPIRATION_MINUTES"
	EnvSessionTTLMin = "HOMIO_SESSION_TTL_MINUTES"

	EnvGCPProjectID          = "HOMIO_GCP_PROJECT_ID"
	EnvPubSubConnectionTopic = "HOMIO_PUBSUB_CONNECTION_TOPIC"
	EnvPubSubConnectionSub   = "HOMIO_PUBSUB_CONNECTION_SUBSCRIPTION"

	EnvAWSRegion       = "HOMIO_AWS_REGION"
	EnvSESFromAddress  = "HOMIO_SES_FROM_ADDRESS"
	EnvS3PhotoBucket   = "HOMIO_S3_PHOTO_BUCKET"
	EnvS3UploadExpiry  = "HOMIO_S3_UPLOAD_URL_EXPIRY"
	EnvFeedMaxPageSize = "HOMIO_FEED_MAX_PAGE_SIZE"
	EnvDigestTimezone  = "HOMIO_DIGEST_TIMEZONE"
)

// discreteDBEnvVars must all be set when HOMIO_DB_DSN is empty.
var discreteDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
