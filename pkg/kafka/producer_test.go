package kafka

import (
	"context"
	"errors"
	"sync"
	"testing"

	"sarpras/pkg/logger"

	"github.com/segmentio/kafka-go"
)

type fakeWriter struct {
	mu     sync.Mutex
	err    error
	wrote  []kafka.Message
	closed bool
}

func (w *fakeWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.err != nil {
		return w.err
	}
	w.wrote = append(w.wrote, msgs...)
	return nil
}

func (w *fakeWriter) Close() error {
	w.closed = true
	return nil
}

func header(m kafka.Message, key string) string {
	for _, h := range m.Headers {
		if h.Key == key {
			return string(h.Value)
		}
	}
	return ""
}

func buildMessage(t *testing.T) Message {
	t.Helper()
	msg, err := NewMessage().
		WithKey("peminjaman:p1").
		WithValue(map[string]string{"action": "create"}).
		WithEventType("peminjaman.created").
		Build()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	return msg
}

func TestProducer_Publish(t *testing.T) {
	w := &fakeWriter{}
	p := &Producer{writer: w, topic: "sarpras.audit"}

	var seen []string
	p.Use(func(ctx context.Context, msg Message, next func(context.Context, Message) error) error {
		seen = append(seen, msg.Topic)
		return next(ctx, msg)
	})

	if err := p.Publish(context.Background(), buildMessage(t)); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(w.wrote) != 1 {
		t.Fatalf("expected 1 message written, got %d", len(w.wrote))
	}
	if string(w.wrote[0].Key) != "peminjaman:p1" {
		t.Errorf("expected key peminjaman:p1, got %s", w.wrote[0].Key)
	}
	if header(w.wrote[0], HeaderEventType) != "peminjaman.created" {
		t.Errorf("expected event type header, got %q", header(w.wrote[0], HeaderEventType))
	}
	if header(w.wrote[0], HeaderEventID) == "" {
		t.Error("expected generated event id")
	}
	if len(seen) != 1 || seen[0] != "sarpras.audit" {
		t.Errorf("expected middleware to see topic sarpras.audit, got %v", seen)
	}
}

func TestProducer_RejectsInvalidMessages(t *testing.T) {
	p := &Producer{writer: &fakeWriter{}, topic: "t"}

	if err := p.Publish(context.Background(), Message{Value: []byte("x")}); !errors.Is(err, ErrEmptyKey) {
		t.Errorf("expected ErrEmptyKey, got %v", err)
	}
	if err := p.Publish(context.Background(), Message{Key: "k"}); !errors.Is(err, ErrEmptyValue) {
		t.Errorf("expected ErrEmptyValue, got %v", err)
	}
}

func TestProducer_FailedPublishGoesToDLQ(t *testing.T) {
	cause := errors.New("leader not available")
	dlq := &fakeWriter{}
	p := &Producer{writer: &fakeWriter{err: cause}, dlqWriter: dlq, topic: "sarpras.audit"}

	msg := buildMessage(t)
	err := p.Publish(context.Background(), msg)
	if !errors.Is(err, cause) {
		t.Fatalf("expected original error, got %v", err)
	}
	if len(dlq.wrote) != 1 {
		t.Fatalf("expected 1 DLQ message, got %d", len(dlq.wrote))
	}
	if header(dlq.wrote[0], HeaderOriginalTopic) != "sarpras.audit" {
		t.Errorf("expected original topic header, got %q", header(dlq.wrote[0], HeaderOriginalTopic))
	}
	if _, leaked := msg.Headers[HeaderDLQError]; leaked {
		t.Error("expected DLQ headers not to leak into the caller's message")
	}
}

func TestProducer_Closed(t *testing.T) {
	w := &fakeWriter{}
	p := &Producer{writer: w, topic: "t"}
	if err := p.Close(); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !w.closed {
		t.Error("expected writer to be closed")
	}
	if err := p.Publish(context.Background(), buildMessage(t)); !errors.Is(err, ErrProducerClosed) {
		t.Errorf("expected ErrProducerClosed, got %v", err)
	}
	if err := p.Close(); err != nil {
		t.Errorf("expected second close to be a no-op, got %v", err)
	}
}

func TestMessageBuilder_EncodingFailure(t *testing.T) {
	_, err := NewMessage().WithKey("k").WithValue(make(chan int)).Build()
	if err == nil {
		t.Error("expected an encoding error")
	}
}

func TestMessage_RetryCount(t *testing.T) {
	var m Message
	for i := 0; i < 12; i++ {
		m.IncrementRetryCount()
	}
	if got := m.GetRetryCount(); got != 12 {
		t.Errorf("expected 12, got %d", got)
	}
}

func TestNewProducer_Validation(t *testing.T) {
	if _, err := NewProducer(nil, logger.Discard(), "t", ""); err == nil {
		t.Error("expected error for nil config")
	}
}
