package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// CollectionName holds one document per session. A TTL index on expires_at
// lets MongoDB reap them.
const CollectionName = "Sessions"

const mongoOpTimeout = 5 * time.Second

type mongoStore struct {
	client     *mongo.Client
	collection *mongo.Collection
	now        func() time.Time
}

func NewMongoStore(client *mongo.Client, database string) Store {
	return &mongoStore{
		client:     client,
		collection: client.Database(database).Collection(CollectionName),
		now:        time.Now,
	}
}

func withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if deadline, ok := ctx.Deadline(); ok && time.Until(deadline) < timeout {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, timeout)
}

func (m *mongoStore) Create(ctx context.Context, s *Session) error {
	ctx, cancel := withTimeout(ctx, mongoOpTimeout)
	defer cancel()

	doc := *s
	doc.CreatedAt = doc.CreatedAt.UTC().Truncate(time.Millisecond)
	doc.ExpiresAt = doc.ExpiresAt.UTC().Truncate(time.Millisecond)
	if _, err := m.collection.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	return nil
}

func (m *mongoStore) Get(ctx context.Context, id string) (*Session, error) {
	ctx, cancel := withTimeout(ctx, mongoOpTimeout)
	defer cancel()

	var s Session
	err := m.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&s)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find session: %w", err)
	}
	// the TTL monitor runs about once a minute
	if s.Expired(m.now()) {
		return nil, ErrExpired
	}
	return &s, nil
}

func (m *mongoStore) Delete(ctx context.Context, id string) error {
	ctx, cancel := withTimeout(ctx, mongoOpTimeout)
	defer cancel()

	if _, err := m.collection.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

func (m *mongoStore) Ping(ctx context.Context) error {
	ctx, cancel := withTimeout(ctx, 2*time.Second)
	defer cancel()
	return m.client.Ping(ctx, readpref.Primary())
}
