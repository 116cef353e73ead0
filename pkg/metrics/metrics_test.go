package metrics

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserveBackendCall(t *testing.T) {
	m := New()
	m.ObserveBackendCall(http.MethodGet, "/peminjaman", 200, 20*time.Millisecond)
	m.ObserveBackendCall(http.MethodGet, "/peminjaman", 200, 10*time.Millisecond)
	m.ObserveBackendCall(http.MethodGet, "/peminjaman", 0, time.Second)

	if got := testutil.ToFloat64(m.backendCalls.WithLabelValues("GET", "/peminjaman", "200")); got != 2 {
		t.Errorf("expected 2 successful calls, got %v", got)
	}
	if got := testutil.ToFloat64(m.backendCalls.WithLabelValues("GET", "/peminjaman", "error")); got != 1 {
		t.Errorf("expected 1 transport failure, got %v", got)
	}
}

func TestFlowRun(t *testing.T) {
	m := New()
	m.FlowRun("create_peminjaman", nil)
	m.FlowRun("create_peminjaman", errors.New("boom"))
	m.FlowRun("create_peminjaman", errors.New("boom"))

	if got := testutil.ToFloat64(m.flowRuns.WithLabelValues("create_peminjaman", "failure")); got != 2 {
		t.Errorf("expected 2 failures, got %v", got)
	}
}

func TestNew_IndependentRegistries(t *testing.T) {
	a, b := New(), New()
	a.SessionCreated()
	if got := testutil.ToFloat64(b.sessions); got != 0 {
		t.Errorf("expected registries to be independent, got %v", got)
	}
}

func TestHandler(t *testing.T) {
	m := New()
	m.SessionRevoked()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	body, _ := io.ReadAll(rec.Body)
	if !strings.Contains(string(body), "sarpras_sessions_revoked_total 1") {
		t.Errorf("expected revoked counter in exposition, got:\n%s", body)
	}
}
