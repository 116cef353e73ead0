package kafka_middleware

import (
	"context"
	"time"

	"sarpras/pkg/kafka"
)

// Recorder is implemented by metrics.Metrics.
type Recorder interface {
	KafkaPublished(topic string, elapsed time.Duration, err error)
	KafkaConsumed(topic string, elapsed time.Duration, err error)
}

func MetricsProducerMiddleware(rec Recorder) kafka.ProducerMiddleware {
	return func(ctx context.Context, msg kafka.Message, next func(ctx context.Context, msg kafka.Message) error) error {
		start := time.Now()
		err := next(ctx, msg)
		rec.KafkaPublished(msg.Topic, time.Since(start), err)
		return err
	}
}

func MetricsConsumerMiddleware(rec Recorder) kafka.ConsumerMiddleware {
	return func(ctx context.Context, msg kafka.Message, next kafka.MessageHandler) error {
		start := time.Now()
		err := next(ctx, msg)
		rec.KafkaConsumed(msg.Topic, time.Since(start), err)
		return err
	}
}
