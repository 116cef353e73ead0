package config

import "time"

const (
	DefaultBackendBaseURL = "http://localhost:3000/api"
	DefaultBackendTimeout = 10 * time.Second

	DefaultPort = "8080"

	SessionBackendMemory = "memory"
	SessionBackendMongo  = "mongo"
	SessionBackendRedis  = "redis"

	DefaultSessionBackend    = SessionBackendMemory
	DefaultSessionTTL        = 12 * time.Hour
	DefaultSessionCookieName = "sarpras_session"
	DefaultSessionSecure     = true

	DefaultMongoURI          = "mongodb://localhost:27017"
	DefaultMongoDatabaseName = "sarpras"
	DefaultMongoConnTimeout  = 10 * time.Second

	DefaultRedisAddr     = "localhost:6379"
	DefaultRedisDB       = 0
	DefaultRedisPoolSize = 10

	DefaultTimeZone    = "Asia/Jakarta"
	DefaultMinLeadDays = 2

	DefaultViewFetchRows   = 1000
	DefaultPageSize        = 10
	DefaultPaginationLimit = 100

	DefaultRateLimitRequests = 120
	DefaultRateLimitWindow   = 1 * time.Minute

	DefaultRequestTimeout  = 30 * time.Second
	DefaultIdempotencyTTL  = 10 * time.Minute
	DefaultMaxRequestSize  = 1 * 1024 * 1024  // 1MB
	DefaultMaxUploadSize   = 10 * 1024 * 1024 // 10MB
	DefaultDeleteIntentTTL = 2 * time.Minute

	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 60 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second

	DefaultAuditEnabled  = false
	DefaultAuditTopic    = "sarpras.audit"
	DefaultAuditDLQTopic = "sarpras.audit.dlq"
)
