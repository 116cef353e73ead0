package main

import (
	"context"

	"sarpras/internal/audit"
	"sarpras/internal/availability"
	"sarpras/internal/dashboard/core"
	"sarpras/internal/dashboard/flows"
	"sarpras/internal/dashboard/handler"
	"sarpras/internal/dashboard/service"
	"sarpras/internal/dashboard/validator"
	"sarpras/internal/session"
	"sarpras/pkg/app"
	"sarpras/pkg/client"
	"sarpras/pkg/config"
	"sarpras/pkg/kafka"
	kafka_config "sarpras/pkg/kafka/config"
	kafka_middleware "sarpras/pkg/kafka/middleware"
	"sarpras/pkg/metrics"
	"sarpras/pkg/middleware"
	"sarpras/pkg/sealer"
)

const ServiceName = "sarpras-dashboard"

func main() {
	cfg := config.Load(ServiceName)

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		cfg.Log.Fatal("Invalid configuration", "error", err)
	}

	// Log all configuration values
	cfg.LogConfiguration()

	cfg.Log.Info("Starting dashboard service", "backend", cfg.BackendBaseURL)

	m := metrics.New()
	infra := client.NewClient()
	opts := app.Options{Metrics: m}

	store := initSessionStore(cfg, infra, &opts)
	opts.Sessions = store
	opts.OnShutdown = append(opts.OnShutdown, func(ctx context.Context) {
		infra.GracefulShutdown(ctx, cfg.Log)
	})

	seal, err := sealer.New(cfg.SessionSecret)
	if err != nil {
		cfg.Log.Fatal("Failed to create sealer", "error", err)
	}
	sessions := session.NewManager(store, seal, session.Options{
		CookieName: cfg.SessionCookieName,
		TTL:        cfg.SessionTTL,
		Secure:     cfg.SessionSecure,
		Log:        cfg.Log,
		Recorder:   m,
	})

	publisher := initAudit(cfg, m)
	opts.OnShutdown = append(opts.OnShutdown, func(context.Context) {
		if err := publisher.Close(); err != nil {
			cfg.Log.Warn("Failed to close audit publisher", "error", err)
		}
	})

	dashboardService := service.NewDashboardService(service.Dependencies{
		Config:    cfg,
		Client:    client.NewHttpClient(cfg.BackendBaseURL, cfg.BackendTimeout).WithObserver(m),
		Sessions:  sessions,
		Sealer:    seal,
		Checker:   availability.NewChecker(cfg.Location, cfg.MinLeadDays),
		Validator: validator.New(cfg.Log),
		Engine:    core.NewEngine(flows.All()...).WithRecorder(m),
		Audit:     publisher,
	})

	serverApp := app.NewApplication()
	serverApp.SetApp(cfg, handler.NewDashboardHandler(dashboardService, sessions, cfg), opts)
	serverApp.Run()
}

func initSessionStore(cfg *config.Config, infra *client.Client, opts *app.Options) session.Store {
	switch cfg.SessionBackend {
	case config.SessionBackendMongo:
		infra.SetMongo(cfg.Log, cfg.MongoURI, cfg.MongoConnTimeout)
		cfg.Log.Info("Session store initialized", "backend", "mongo", "database", cfg.MongoDatabaseName)
		return session.NewMongoStore(infra.Mongo, cfg.MongoDatabaseName)
	case config.SessionBackendRedis:
		infra.SetRedis(cfg.Log, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cfg.RedisPoolSize)
		opts.Idempotency = middleware.NewRedisIdempotencyStore(infra.Redis, cfg.IdempotencyTTL, cfg.Log)
		cfg.Log.Info("Session store initialized", "backend", "redis", "addr", cfg.RedisAddr)
		return session.NewRedisStore(infra.Redis)
	default:
		cfg.Log.Warn("Using in-memory session store; sessions are lost on restart")
		return session.NewMemoryStore()
	}
}

// initAudit returns a no-op publisher when auditing is off. A broken Kafka
// configuration is fatal only when auditing was asked for.
func initAudit(cfg *config.Config, m *metrics.Metrics) audit.Publisher {
	if !cfg.AuditEnabled {
		return audit.Noop()
	}

	kafkaCfg, err := kafka_config.Load()
	if err != nil {
		cfg.Log.Fatal("Invalid Kafka configuration", "error", err)
	}
	kafkaCfg.LogConfiguration(cfg.Log)

	producer, err := kafka.NewProducer(kafkaCfg, cfg.Log, cfg.AuditTopic, cfg.AuditDLQTopic)
	if err != nil {
		cfg.Log.Fatal("Failed to create audit producer", "error", err)
	}
	if kafkaCfg.EnableMiddleware {
		producer.Use(kafka_middleware.LoggingProducerMiddleware(cfg.Log))
		producer.Use(kafka_middleware.MetricsProducerMiddleware(m))
	}

	cfg.Log.Info("Audit publisher initialized", "topic", cfg.AuditTopic)
	return audit.NewKafkaPublisher(producer)
}
