package session

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	apperrors "sarpras/pkg/errors"
	httputil "sarpras/pkg/http"
	"sarpras/pkg/logger"
	"sarpras/pkg/model"
	"sarpras/pkg/sealer"

	"github.com/google/uuid"
	"github.com/julienschmidt/httprouter"
)

// Recorder is implemented by metrics.Metrics.
type Recorder interface {
	SessionCreated()
	SessionRevoked()
}

type Options struct {
	CookieName string
	TTL        time.Duration
	Secure     bool
	Log        *logger.Logger
	Recorder   Recorder
}

// Manager binds sessions to browser cookies. The cookie carries the session
// id sealed with the server key, never the backend token.
type Manager struct {
	store  Store
	sealer *sealer.Sealer
	opts   Options
	now    func() time.Time
}

func NewManager(store Store, s *sealer.Sealer, opts Options) *Manager {
	if opts.Log == nil {
		opts.Log = logger.Discard()
	}
	return &Manager{store: store, sealer: s, opts: opts, now: time.Now}
}

func (m *Manager) Store() Store { return m.store }

func (m *Manager) CookieName() string { return m.opts.CookieName }

// Start stores a new session for a successful login and sets its cookie.
func (m *Manager) Start(ctx context.Context, w http.ResponseWriter, res model.LoginResult) (*Session, error) {
	now := m.now()
	user := res.User
	user.Password = ""

	s := &Session{
		ID:        uuid.NewString(),
		Token:     res.Token,
		User:      user,
		CreatedAt: now,
		ExpiresAt: now.Add(m.opts.TTL),
	}
	if err := m.store.Create(ctx, s); err != nil {
		return nil, err
	}

	value, err := m.sealer.Seal(s.ID)
	if err != nil {
		return nil, err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     m.opts.CookieName,
		Value:    value,
		Path:     "/",
		Expires:  s.ExpiresAt,
		HttpOnly: true,
		Secure:   m.opts.Secure,
		SameSite: http.SameSiteLaxMode,
	})

	if m.opts.Recorder != nil {
		m.opts.Recorder.SessionCreated()
	}
	m.opts.Log.Info("session started", "session_id", s.ID, "user_id", user.ID, "role", user.Role)
	return s, nil
}

// ID opens the session cookie of r without touching the store.
func (m *Manager) ID(r *http.Request) (string, bool) {
	c, err := r.Cookie(m.opts.CookieName)
	if err != nil || c.Value == "" {
		return "", false
	}
	var id string
	if err := m.sealer.Open(c.Value, &id); err != nil || id == "" {
		return "", false
	}
	return id, true
}

func (m *Manager) Load(ctx context.Context, r *http.Request) (*Session, error) {
	id, ok := m.ID(r)
	if !ok {
		return nil, ErrNotFound
	}
	return m.store.Get(ctx, id)
}

// End deletes the session and clears its cookie.
func (m *Manager) End(ctx context.Context, w http.ResponseWriter, id string) error {
	m.ClearCookie(w)
	if id == "" {
		return nil
	}
	return m.store.Delete(ctx, id)
}

func (m *Manager) ClearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     m.opts.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.opts.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// Revoker returns the callback the backend client runs on a 401. Calling it
// more than once deletes the session only once.
func (m *Manager) Revoker(id string) func() {
	var once sync.Once
	return func() {
		once.Do(func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := m.store.Delete(ctx, id); err != nil {
				m.opts.Log.Error("failed to revoke session", "session_id", id, "error", err)
				return
			}
			if m.opts.Recorder != nil {
				m.opts.Recorder.SessionRevoked()
			}
			m.opts.Log.Info("session revoked by backend", "session_id", id)
		})
	}
}

type contextKey struct{}

func WithSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, contextKey{}, s)
}

func FromContext(ctx context.Context) (*Session, bool) {
	s, ok := ctx.Value(contextKey{}).(*Session)
	return s, ok && s != nil
}

// Authenticate rejects requests without a live session with 401 and the
// sign-in redirect, clearing any stale cookie.
func (m *Manager) Authenticate(next httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		s, err := m.Load(r.Context(), r)
		if err != nil {
			if !errors.Is(err, ErrNotFound) && !errors.Is(err, ErrExpired) {
				m.opts.Log.Error("session lookup failed", "error", err)
				_ = httputil.WriteError(w, apperrors.Unavailable("session store"))
				return
			}
			m.ClearCookie(w)
			_ = httputil.WriteError(w, apperrors.Unauthorized("Silakan masuk terlebih dahulu"))
			return
		}
		next(w, r.WithContext(WithSession(r.Context(), s)), ps)
	}
}
