package client

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"sarpras/pkg/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBackend(t *testing.T, handler http.HandlerFunc) *HttpClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewHttpClient(srv.URL, 5*time.Second)
}

func TestHttpClient_Headers(t *testing.T) {
	var gotAuth, gotCache string
	c := newTestBackend(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotCache = r.Header.Get("Cache-Control")
		_, _ = io.WriteString(w, `{"content":{"entries":[],"totalData":0}}`)
	})

	_, err := NewResource[model.Gedung](c.WithToken("tok-1", nil), PathGedung).List(context.Background(), 1, 10)
	require.NoError(t, err)
	assert.Equal(t, "Bearer tok-1", gotAuth)
	assert.Equal(t, "no-cache", gotCache)

	_, err = NewResource[model.Gedung](c, PathGedung).List(context.Background(), 1, 10)
	require.NoError(t, err)
	assert.Empty(t, gotAuth, "expected no Authorization header without a token")
}

func TestHttpClient_UnauthorizedRunsCallback(t *testing.T) {
	c := newTestBackend(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = io.WriteString(w, `{"message":"token expired"}`)
	})

	var calls atomic.Int32
	sc := c.WithToken("stale", func() { calls.Add(1) })

	_, err := NewResource[model.Alat](sc, PathAlat).Get(context.Background(), "a1")
	assert.ErrorIs(t, err, ErrUnauthorized)
	_, err = NewResource[model.Alat](sc, PathAlat).Get(context.Background(), "a1")
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.Equal(t, int32(2), calls.Load())
}

func TestHttpClient_APIErrorMessage(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        string
		wantMessage string
		wantRetry   bool
	}{
		{name: "structured message", status: http.StatusBadRequest, body: `{"message":"Tanggal bentrok"}`, wantMessage: "Tanggal bentrok"},
		{name: "not json", status: http.StatusInternalServerError, body: `<html>oops</html>`, wantMessage: genericErrorMessage},
		{name: "empty object", status: http.StatusConflict, body: `{}`, wantMessage: genericErrorMessage},
		{name: "unavailable", status: http.StatusServiceUnavailable, body: `{"message":"down"}`, wantMessage: "down", wantRetry: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestBackend(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			})

			_, err := NewResource[model.Ruangan](c, PathRuangan).Create(context.Background(), map[string]string{"nama": "A"})
			var apiErr *APIError
			require.True(t, errors.As(err, &apiErr), "expected *APIError, got %T", err)
			assert.Equal(t, tt.status, apiErr.Status)
			assert.Equal(t, tt.wantMessage, apiErr.Message)
			assert.Equal(t, tt.wantRetry, Retryable(err))
		})
	}
}

func TestHttpClient_TransportErrorIsRetryable(t *testing.T) {
	c := NewHttpClient("http://127.0.0.1:1", time.Second)
	_, err := NewResource[model.Shift](c, PathShift).List(context.Background(), 1, 10)

	var tErr *TransportError
	require.True(t, errors.As(err, &tErr), "expected *TransportError, got %T", err)
	assert.True(t, Retryable(err))
}

func TestHttpClient_ContextCancellation(t *testing.T) {
	release := make(chan struct{})
	c := newTestBackend(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	})
	defer close(release)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewResource[model.Shift](c, PathShift).List(ctx, 1, 10)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

type recordingObserver struct {
	routes []string
	status []int
}

func (o *recordingObserver) ObserveBackendCall(method, route string, status int, elapsed time.Duration) {
	o.routes = append(o.routes, method+" "+route)
	o.status = append(o.status, status)
}

func TestHttpClient_Observer(t *testing.T) {
	c := newTestBackend(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"content":{"id":"p1"}}`)
	})
	obs := &recordingObserver{}

	_, err := NewResource[model.Peminjaman](c.WithObserver(obs), PathPeminjaman).Get(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, []string{"GET /peminjaman"}, obs.routes)
	assert.Equal(t, []int{http.StatusOK}, obs.status)
}

func TestRouteLabel(t *testing.T) {
	tests := map[string]string{
		"/peminjaman":                      "/peminjaman",
		"/peminjaman/abc/statusPeminjaman": "/peminjaman",
		"/users?page=1&rows=10":            "/users",
		"/":                                "/",
		"":                                 "/",
	}
	for in, want := range tests {
		if got := RouteLabel(in); got != want {
			t.Errorf("RouteLabel(%q): expected %q, got %q", in, want, got)
		}
	}
}

func TestHttpClient_PostMultipart(t *testing.T) {
	c := newTestBackend(t, func(w http.ResponseWriter, r *http.Request) {
		require.True(t, strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data"))
		f, h, err := r.FormFile("file")
		require.NoError(t, err)
		defer f.Close()
		data, _ := io.ReadAll(f)
		assert.Equal(t, "surat.pdf", h.Filename)
		assert.Equal(t, "%PDF-1.4", string(data))
		_, _ = io.WriteString(w, `{"content":{"secure_url":"https://cdn.example/surat.pdf"}}`)
	})

	url, err := NewBackend(c).Upload(context.Background(), "surat.pdf", strings.NewReader("%PDF-1.4"))
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example/surat.pdf", url)
}
