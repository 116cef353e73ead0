package session

import (
	"context"
	"errors"
	"time"

	"sarpras/pkg/model"
)

var (
	ErrNotFound = errors.New("session not found")
	ErrExpired  = errors.New("session expired")
)

// Session is the only state the dashboard keeps: the backend token and the
// user it belongs to.
type Session struct {
	ID        string     `json:"id" bson:"_id"`
	Token     string     `json:"token" bson:"token"`
	User      model.User `json:"user" bson:"user"`
	CreatedAt time.Time  `json:"created_at" bson:"created_at"`
	ExpiresAt time.Time  `json:"expires_at" bson:"expires_at"`
}

func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

type Store interface {
	Create(ctx context.Context, s *Session) error
	Get(ctx context.Context, id string) (*Session, error)
	Delete(ctx context.Context, id string) error
	Ping(ctx context.Context) error
}
