package config

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"net/url"
	"os"
	"regexp"
	"strconv"
	"time"

	"sarpras/pkg/logger"

	"github.com/joho/godotenv"
)

type Config struct {
	BackendBaseURL string
	BackendTimeout time.Duration

	Port string

	SessionBackend    string
	SessionTTL        time.Duration
	SessionSecret     string
	SessionCookieName string
	SessionSecure     bool

	MongoURI          string
	MongoDatabaseName string
	MongoConnTimeout  time.Duration

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RedisPoolSize int

	TimeZone    string
	Location    *time.Location
	MinLeadDays int

	ViewFetchRows   int
	DefaultPageSize int
	MaxPageSize     int

	RateLimitRequests int
	RateLimitWindow   time.Duration

	RequestTimeout  time.Duration
	IdempotencyTTL  time.Duration
	MaxRequestSize  int
	MaxUploadSize   int
	DeleteIntentTTL time.Duration

	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration

	AuditEnabled  bool
	AuditTopic    string
	AuditDLQTopic string

	Log *logger.Logger
}

func Load(serviceName string) *Config {
	// a missing .env is normal outside local development
	_ = godotenv.Load()

	cfg := &Config{
		BackendBaseURL: getEnvStr(EnvBackendBaseURL, DefaultBackendBaseURL),
		BackendTimeout: getEnvDuration(EnvBackendTimeout, DefaultBackendTimeout),

		Port: getEnvStr(EnvPort, DefaultPort),

		SessionBackend:    getEnvStr(EnvSessionBackend, DefaultSessionBackend),
		SessionTTL:        getEnvDuration(EnvSessionTTL, DefaultSessionTTL),
		SessionSecret:     getEnvStr(EnvSessionSecret, ""),
		SessionCookieName: getEnvStr(EnvSessionCookieName, DefaultSessionCookieName),
		SessionSecure:     getEnvBool(EnvSessionSecure, DefaultSessionSecure),

		MongoURI:          getEnvStr(EnvMongoURI, DefaultMongoURI),
		MongoDatabaseName: getEnvStr(EnvMongoDatabaseName, DefaultMongoDatabaseName),
		MongoConnTimeout:  getEnvDuration(EnvMongoConnTimeout, DefaultMongoConnTimeout),

		RedisAddr:     getEnvStr(EnvRedisAddr, DefaultRedisAddr),
		RedisPassword: getEnvStr(EnvRedisPassword, ""),
		RedisDB:       getEnvNum(EnvRedisDB, DefaultRedisDB),
		RedisPoolSize: getEnvNum(EnvRedisPoolSize, DefaultRedisPoolSize),

		TimeZone:    getEnvStr(EnvTimeZone, DefaultTimeZone),
		MinLeadDays: getEnvNum(EnvMinLeadDays, DefaultMinLeadDays),

		ViewFetchRows:   getEnvNum(EnvViewFetchRows, DefaultViewFetchRows),
		DefaultPageSize: getEnvNum(EnvDefaultPageSize, DefaultPageSize),
		MaxPageSize:     getEnvNum(EnvMaxPageSize, DefaultPaginationLimit),

		RateLimitRequests: getEnvNum(EnvRateLimitRequests, DefaultRateLimitRequests),
		RateLimitWindow:   getEnvDuration(EnvRateLimitWindow, DefaultRateLimitWindow),

		RequestTimeout:  getEnvDuration(EnvRequestTimeout, DefaultRequestTimeout),
		IdempotencyTTL:  getEnvDuration(EnvIdempotencyTTL, DefaultIdempotencyTTL),
		MaxRequestSize:  getEnvNum(EnvMaxRequestSize, DefaultMaxRequestSize),
		MaxUploadSize:   getEnvNum(EnvMaxUploadSize, DefaultMaxUploadSize),
		DeleteIntentTTL: getEnvDuration(EnvDeleteIntentTTL, DefaultDeleteIntentTTL),

		ReadTimeout:     getEnvDuration(EnvReadTimeout, DefaultReadTimeout),
		WriteTimeout:    getEnvDuration(EnvWriteTimeout, DefaultWriteTimeout),
		IdleTimeout:     getEnvDuration(EnvIdleTimeout, DefaultIdleTimeout),
		ShutdownTimeout: getEnvDuration(EnvShutdownTimeout, DefaultShutdownTimeout),

		AuditEnabled:  getEnvBool(EnvAuditEnabled, DefaultAuditEnabled),
		AuditTopic:    getEnvStr(EnvAuditTopic, DefaultAuditTopic),
		AuditDLQTopic: getEnvStr(EnvAuditDLQTopic, DefaultAuditDLQTopic),

		Log: logger.New(logger.Config{
			Level:     getEnvStr(EnvLogLevel, logger.INFO),
			Format:    logger.JSON,
			AddSource: true,
			Service:   serviceName,
		}),
	}

	if cfg.SessionSecret == "" {
		secret, err := GenerateSecret()
		if err != nil {
			cfg.Log.Fatal("Failed to generate session secret", "error", err)
		}
		cfg.SessionSecret = secret
		cfg.Log.Warn("SESSION_SECRET not set, using an ephemeral key; sessions will not survive a restart")
	}

	if err := cfg.Validate(); err != nil {
		cfg.Log.Fatal(err.Error())
	}
	cfg.LogConfiguration()
	return cfg
}

func (cfg *Config) Validate() error {
	var errors []string

	if port, err := strconv.Atoi(cfg.Port); err != nil || port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("Port must be between 1 and 65535, got: %s", cfg.Port))
	}

	if u, err := url.Parse(cfg.BackendBaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		errors = append(errors, fmt.Sprintf("BackendBaseURL must be an absolute URL, got: %s", cfg.BackendBaseURL))
	}
	if cfg.BackendTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("BackendTimeout must be positive, got: %s", cfg.BackendTimeout))
	}

	switch cfg.SessionBackend {
	case SessionBackendMemory:
	case SessionBackendMongo:
		if !regexp.MustCompile(`^mongodb(\+srv)?://`).MatchString(cfg.MongoURI) {
			errors = append(errors, fmt.Sprintf("MongoURI must start with 'mongodb://' or 'mongodb+srv://', got: %s", redactMongoURI(cfg.MongoURI)))
		}
		if cfg.MongoDatabaseName == "" {
			errors = append(errors, "MongoDatabaseName cannot be empty")
		}
		if cfg.MongoConnTimeout <= 0 {
			errors = append(errors, fmt.Sprintf("MongoConnTimeout must be positive, got: %s", cfg.MongoConnTimeout))
		}
	case SessionBackendRedis:
		if cfg.RedisAddr == "" {
			errors = append(errors, "RedisAddr cannot be empty")
		}
		if cfg.RedisDB < 0 {
			errors = append(errors, fmt.Sprintf("RedisDB cannot be negative, got: %d", cfg.RedisDB))
		}
	default:
		errors = append(errors, fmt.Sprintf("SessionBackend must be one of [memory, mongo, redis], got: %s", cfg.SessionBackend))
	}

	if cfg.SessionTTL <= 0 {
		errors = append(errors, fmt.Sprintf("SessionTTL must be positive, got: %s", cfg.SessionTTL))
	}
	if key, err := base64.StdEncoding.DecodeString(cfg.SessionSecret); err != nil || len(key) != 32 {
		errors = append(errors, "SessionSecret must be a base64 encoded 32 byte key")
	}
	if cfg.SessionCookieName == "" {
		errors = append(errors, "SessionCookieName cannot be empty")
	}

	if loc, err := time.LoadLocation(cfg.TimeZone); err != nil {
		errors = append(errors, fmt.Sprintf("TimeZone must be a valid IANA zone, got: %s", cfg.TimeZone))
	} else {
		cfg.Location = loc
	}
	if cfg.MinLeadDays < 0 {
		errors = append(errors, fmt.Sprintf("MinLeadDays cannot be negative, got: %d", cfg.MinLeadDays))
	}

	if cfg.ViewFetchRows <= 0 {
		errors = append(errors, fmt.Sprintf("ViewFetchRows must be positive, got: %d", cfg.ViewFetchRows))
	}
	if cfg.DefaultPageSize <= 0 {
		errors = append(errors, fmt.Sprintf("DefaultPageSize must be positive, got: %d", cfg.DefaultPageSize))
	}
	if cfg.MaxPageSize < cfg.DefaultPageSize {
		errors = append(errors, fmt.Sprintf("MaxPageSize (%d) must be >= DefaultPageSize (%d)", cfg.MaxPageSize, cfg.DefaultPageSize))
	}

	if cfg.RateLimitRequests <= 0 {
		errors = append(errors, fmt.Sprintf("RateLimitRequests must be positive, got: %d", cfg.RateLimitRequests))
	}
	if cfg.RateLimitWindow <= 0 {
		errors = append(errors, fmt.Sprintf("RateLimitWindow must be positive, got: %s", cfg.RateLimitWindow))
	}
	if cfg.RequestTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("RequestTimeout must be positive, got: %s", cfg.RequestTimeout))
	}
	if cfg.IdempotencyTTL <= 0 {
		errors = append(errors, fmt.Sprintf("IdempotencyTTL must be positive, got: %s", cfg.IdempotencyTTL))
	}
	if cfg.MaxRequestSize <= 0 {
		errors = append(errors, fmt.Sprintf("MaxRequestSize must be positive, got: %d", cfg.MaxRequestSize))
	}
	if cfg.MaxUploadSize < cfg.MaxRequestSize {
		errors = append(errors, fmt.Sprintf("MaxUploadSize (%d) must be >= MaxRequestSize (%d)", cfg.MaxUploadSize, cfg.MaxRequestSize))
	}
	if cfg.DeleteIntentTTL <= 0 {
		errors = append(errors, fmt.Sprintf("DeleteIntentTTL must be positive, got: %s", cfg.DeleteIntentTTL))
	}

	if cfg.ReadTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("ReadTimeout must be positive, got: %s", cfg.ReadTimeout))
	}
	if cfg.WriteTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("WriteTimeout must be positive, got: %s", cfg.WriteTimeout))
	}
	if cfg.IdleTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("IdleTimeout must be positive, got: %s", cfg.IdleTimeout))
	}
	if cfg.ShutdownTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("ShutdownTimeout must be positive, got: %s", cfg.ShutdownTimeout))
	}

	if cfg.AuditEnabled && cfg.AuditTopic == "" {
		errors = append(errors, "AuditTopic cannot be empty when auditing is enabled")
	}

	if len(errors) > 0 {
		errMsg := "Configuration validation failed:\n"
		for i, err := range errors {
			errMsg += fmt.Sprintf("  %d. %s\n", i+1, err)
		}
		return fmt.Errorf("%s", errMsg)
	}

	return nil
}

func (cfg *Config) LogConfiguration() {
	cfg.Log.Info("Configuration loaded successfully",
		"backend_base_url", cfg.BackendBaseURL,
		"backend_timeout", cfg.BackendTimeout,
		"port", cfg.Port,
		"session_backend", cfg.SessionBackend,
		"session_ttl", cfg.SessionTTL,
		"session_cookie_name", cfg.SessionCookieName,
		"session_secure", cfg.SessionSecure,
		"mongo_uri", redactMongoURI(cfg.MongoURI),
		"mongo_database", cfg.MongoDatabaseName,
		"redis_addr", cfg.RedisAddr,
		"redis_password_set", cfg.RedisPassword != "",
		"redis_db", cfg.RedisDB,
		"timezone", cfg.TimeZone,
		"min_lead_days", cfg.MinLeadDays,
		"view_fetch_rows", cfg.ViewFetchRows,
		"default_page_size", cfg.DefaultPageSize,
		"max_page_size", cfg.MaxPageSize,
		"rate_limit_requests", cfg.RateLimitRequests,
		"rate_limit_window", cfg.RateLimitWindow,
		"request_timeout", cfg.RequestTimeout,
		"idempotency_ttl", cfg.IdempotencyTTL,
		"max_request_size", cfg.MaxRequestSize,
		"max_upload_size", cfg.MaxUploadSize,
		"delete_intent_ttl", cfg.DeleteIntentTTL,
		"read_timeout", cfg.ReadTimeout,
		"write_timeout", cfg.WriteTimeout,
		"idle_timeout", cfg.IdleTimeout,
		"shutdown_timeout", cfg.ShutdownTimeout,
		"audit_enabled", cfg.AuditEnabled,
		"audit_topic", cfg.AuditTopic,
	)
}

// GenerateSecret returns a fresh base64 encoded 32 byte key.
func GenerateSecret() (string, error) {
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(key), nil
}

func redactMongoURI(uri string) string {
	credentialRegex := regexp.MustCompile(`(mongodb(\+srv)?://)[^:]+:[^@]+@`)
	return credentialRegex.ReplaceAllString(uri, "${1}***:***@")
}

func getEnvStr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvNum(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}

// NormalizePageSize clamps a requested page size into [1, max], falling back to def.
func NormalizePageSize(size, def, max int) int {
	if size <= 0 {
		return def
	}
	if size > max {
		return max
	}
	return size
}

func NormalizePageIndex(page int) int {
	return max(0, page)
}
