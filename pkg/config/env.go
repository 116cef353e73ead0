package config

const (
	EnvBackendBaseURL = "BACKEND_BASE_URL"
	EnvBackendTimeout = "BACKEND_TIMEOUT"

	EnvPort     = "PORT"
	EnvLogLevel = "LOG_LEVEL"

	EnvSessionBackend    = "SESSION_BACKEND"
	EnvSessionTTL        = "SESSION_TTL"
	EnvSessionSecret     = "SESSION_SECRET"
	EnvSessionCookieName = "SESSION_COOKIE_NAME"
	EnvSessionSecure     = "SESSION_SECURE"

	EnvMongoURI          = "MONGO_URI"
	EnvMongoDatabaseName = "MONGO_DATABASE_NAME"
	EnvMongoConnTimeout  = "MONGO_CONN_TIMEOUT"

	EnvRedisAddr     = "REDIS_ADDR"
	EnvRedisPassword = "REDIS_PASSWORD"
	EnvRedisDB       = "REDIS_DB"
	EnvRedisPoolSize = "REDIS_POOL_SIZE"

	EnvTimeZone    = "CAMPUS_TIMEZONE"
	EnvMinLeadDays = "MIN_LEAD_DAYS"

	EnvViewFetchRows   = "VIEW_FETCH_ROWS"
	EnvDefaultPageSize = "DEFAULT_PAGE_SIZE"
	EnvMaxPageSize     = "MAX_PAGE_SIZE"

	EnvRateLimitRequests = "RATE_LIMIT_REQUESTS"
	EnvRateLimitWindow   = "RATE_LIMIT_WINDOW"

	EnvRequestTimeout  = "REQUEST_TIMEOUT"
	EnvIdempotencyTTL  = "IDEMPOTENCY_TTL"
	EnvMaxRequestSize  = "MAX_REQUEST_SIZE"
	EnvMaxUploadSize   = "MAX_UPLOAD_SIZE"
	EnvDeleteIntentTTL = "DELETE_INTENT_TTL"

	EnvReadTimeout     = "READ_TIMEOUT"
	EnvWriteTimeout    = "WRITE_TIMEOUT"
	EnvIdleTimeout     = "IDLE_TIMEOUT"
	EnvShutdownTimeout = "SHUTDOWN_TIMEOUT"

	EnvAuditEnabled  = "AUDIT_ENABLED"
	EnvAuditTopic    = "AUDIT_TOPIC"
	EnvAuditDLQTopic = "AUDIT_DLQ_TOPIC"
)
