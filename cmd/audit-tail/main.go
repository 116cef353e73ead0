package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"sarpras/internal/audit"
	"sarpras/pkg/config"
	"sarpras/pkg/kafka"
	kafka_config "sarpras/pkg/kafka/config"
	kafka_middleware "sarpras/pkg/kafka/middleware"
	"sarpras/pkg/metrics"
)

const ServiceName = "sarpras-audit-tail"

// audit-tail follows the dashboard's audit topic and writes every event to
// the structured log.
func main() {
	cfg := config.Load(ServiceName)

	kafkaCfg, err := kafka_config.Load()
	if err != nil {
		cfg.Log.Fatal("Invalid Kafka configuration", "error", err)
	}
	kafkaCfg.LogConfiguration(cfg.Log)

	consumer, err := kafka.NewConsumer(
		kafkaCfg,
		cfg.Log,
		cfg.AuditTopic,
		kafkaCfg.ConsumerGroupID,
		cfg.AuditDLQTopic,
		audit.TailHandler(cfg.Log),
	)
	if err != nil {
		cfg.Log.Fatal("Failed to create audit consumer", "error", err)
	}
	defer func() {
		if err := consumer.Close(); err != nil {
			cfg.Log.Error("Failed to close audit consumer", "error", err)
		}
	}()

	m := metrics.New()
	if kafkaCfg.EnableMiddleware {
		consumer.Use(kafka_middleware.LoggingConsumerMiddleware(cfg.Log))
		consumer.Use(kafka_middleware.MetricsConsumerMiddleware(m))
	}

	go func() {
		mux := http.NewServeMux()
		mux.Handle("/metrics", m.Handler())
		srv := &http.Server{Addr: ":" + cfg.Port, Handler: mux, ReadHeaderTimeout: cfg.ReadTimeout}
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			cfg.Log.Error("Metrics server failed", "error", err)
		}
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
	go func() {
		sig := <-shutdown
		cfg.Log.Info("Shutdown signal received", "signal", sig)
		cancel()
	}()

	cfg.Log.Info("Audit tail started", "topic", cfg.AuditTopic, "group", kafkaCfg.ConsumerGroupID)
	if err := consumer.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		cfg.Log.Error("Audit consumer stopped", "error", err)
	}
}
