package testutil

import (
	"context"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"sarpras/internal/availability"
	"sarpras/internal/dashboard/handler"
	"sarpras/internal/dashboard/service"
	"sarpras/internal/dashboard/validator"
	mongoMigration "sarpras/internal/migrations/mongo"
	"sarpras/internal/session"
	"sarpras/pkg/app"
	"sarpras/pkg/config"
	"sarpras/pkg/logger"
	"sarpras/pkg/metrics"
	"sarpras/pkg/sealer"
	"sarpras/test/testutil"
)

const DefaultHealthCheckTimeout = 10 * time.Second

type TestEnv struct {
	MongoURI     string
	DatabaseName string
}

func NewTestEnv() *TestEnv {
	return &TestEnv{
		MongoURI:     getEnv("TEST_MONGO_URI", DefaultMongoURI),
		DatabaseName: getEnv("TEST_DB_NAME", DefaultDatabaseName),
	}
}

// Stack is a running dashboard wired to Mongo sessions and a fake campus
// backend.
type Stack struct {
	Mongo   *MongoHelper
	Backend *testutil.FakeBackend
	Client  *Client
	Config  *config.Config
}

// Setup migrates a fresh database and serves the whole application,
// middleware chain included, on an httptest server.
func (e *TestEnv) Setup(t *testing.T) *Stack {
	t.Helper()

	mongo := NewMongoHelper(t, e.MongoURI, e.DatabaseName)
	mongo.DropDatabase(t)
	t.Cleanup(func() {
		mongo.DropDatabase(t)
		mongo.Close(t)
	})

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := mongoMigration.RunMigration(ctx, mongo.Client, e.DatabaseName); err != nil {
		t.Fatalf("migration failed: %v", err)
	}

	fb := testutil.NewFakeBackend(t)
	cfg := stackConfig(t, fb.URL, e.DatabaseName)

	seal, err := sealer.New(cfg.SessionSecret)
	if err != nil {
		t.Fatalf("failed to create sealer: %v", err)
	}
	store := session.NewMongoStore(mongo.Client, e.DatabaseName)
	m := metrics.New()
	sessions := session.NewManager(store, seal, session.Options{
		CookieName: cfg.SessionCookieName,
		TTL:        cfg.SessionTTL,
		Log:        cfg.Log,
		Recorder:   m,
	})

	svc := service.NewDashboardService(service.Dependencies{
		Config:    cfg,
		Client:    fb.HttpClient().WithObserver(m),
		Sessions:  sessions,
		Sealer:    seal,
		Checker:   availability.NewChecker(cfg.Location, cfg.MinLeadDays),
		Validator: validator.New(cfg.Log),
	})

	application := app.NewApplication()
	application.SetApp(cfg, handler.NewDashboardHandler(svc, sessions, cfg), app.Options{
		Sessions: store,
		Metrics:  m,
	})
	server := httptest.NewServer(application.Handler())
	t.Cleanup(server.Close)

	client := NewClient(t, server.URL)
	client.WaitForHealthy(t, DefaultHealthCheckTimeout)

	return &Stack{Mongo: mongo, Backend: fb, Client: client, Config: cfg}
}

func stackConfig(t *testing.T, backendURL, dbName string) *config.Config {
	t.Helper()
	secret, err := config.GenerateSecret()
	if err != nil {
		t.Fatalf("failed to generate session secret: %v", err)
	}
	return &config.Config{
		BackendBaseURL:    backendURL,
		BackendTimeout:    5 * time.Second,
		Port:              "0",
		SessionBackend:    config.SessionBackendMongo,
		SessionTTL:        time.Hour,
		SessionSecret:     secret,
		SessionCookieName: "sarpras_session",
		MongoDatabaseName: dbName,
		Location:          time.UTC,
		MinLeadDays:       availability.DefaultMinLeadDays,
		ViewFetchRows:     100,
		DefaultPageSize:   10,
		MaxPageSize:       100,
		RateLimitRequests: 1000,
		RateLimitWindow:   time.Minute,
		RequestTimeout:    10 * time.Second,
		IdempotencyTTL:    time.Minute,
		MaxRequestSize:    1 << 20,
		MaxUploadSize:     5 << 20,
		DeleteIntentTTL:   time.Minute,
		Log:               logger.Discard(),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
