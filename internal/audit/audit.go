package audit

import (
	"context"
	"fmt"
	"time"

	"sarpras/pkg/kafka"
	"sarpras/pkg/logger"
)

const (
	EventType     = "sarpras.mutation"
	SchemaVersion = "1"
	Source        = "sarpras-dashboard"
)

type Action string

const (
	ActionCreate Action = "CREATE"
	ActionUpdate Action = "UPDATE"
	ActionDelete Action = "DELETE"
	ActionStatus Action = "STATUS"
	ActionLogin  Action = "LOGIN"
	ActionLogout Action = "LOGOUT"
)

// Event records one successful mutation made through the dashboard.
type Event struct {
	Action    Action    `json:"action"`
	Resource  string    `json:"resource"`
	RecordIDs []string  `json:"record_ids,omitempty"`
	ActorID   string    `json:"actor_id"`
	ActorRole string    `json:"actor_role"`
	Message   string    `json:"message,omitempty"`
	RequestID string    `json:"request_id,omitempty"`
	At        time.Time `json:"at"`
}

type Publisher interface {
	Publish(ctx context.Context, e Event) error
	Close() error
}

type sender interface {
	Publish(ctx context.Context, msg kafka.Message) error
	Close() error
}

type kafkaPublisher struct {
	producer sender
}

// NewKafkaPublisher keys events by resource so one resource's history stays ordered.
func NewKafkaPublisher(p *kafka.Producer) Publisher {
	return &kafkaPublisher{producer: p}
}

func (k *kafkaPublisher) Publish(ctx context.Context, e Event) error {
	if e.At.IsZero() {
		e.At = time.Now().UTC()
	}
	msg, err := kafka.NewMessage().
		WithKey(e.Resource).
		WithValue(e).
		WithEventType(EventType).
		WithCorrelationID(e.RequestID).
		WithSchemaVersion(SchemaVersion).
		WithSource(Source).
		Build()
	if err != nil {
		return fmt.Errorf("failed to build audit message: %w", err)
	}
	return k.producer.Publish(ctx, msg)
}

func (k *kafkaPublisher) Close() error { return k.producer.Close() }

type noopPublisher struct{}

// Noop drops every event. Used when auditing is disabled.
func Noop() Publisher { return noopPublisher{} }

func (noopPublisher) Publish(context.Context, Event) error { return nil }
func (noopPublisher) Close() error                         { return nil }

// TailHandler logs each audit event it consumes.
func TailHandler(log *logger.Logger) kafka.MessageHandler {
	return func(ctx context.Context, msg kafka.Message) error {
		if msg.GetEventType() != EventType {
			log.Debug("skipping foreign event", "event_type", msg.GetEventType(), "offset", msg.Offset)
			return nil
		}
		var e Event
		if err := msg.DecodeValue(&e); err != nil {
			return kafka.NewPermanentError("undecodable audit event", err)
		}
		log.Info("audit",
			"event_id", msg.GetEventID(),
			"action", e.Action,
			"resource", e.Resource,
			"record_ids", e.RecordIDs,
			"actor_id", e.ActorID,
			"actor_role", e.ActorRole,
			"request_id", e.RequestID,
			"at", e.At,
		)
		return nil
	}
}
