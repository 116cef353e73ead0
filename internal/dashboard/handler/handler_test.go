package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sarpras/internal/availability"
	"sarpras/internal/dashboard/service"
	"sarpras/internal/dashboard/validator"
	"sarpras/internal/export"
	"sarpras/internal/session"
	"sarpras/internal/tableview"
	"sarpras/pkg/client"
	"sarpras/pkg/config"
	httputil "sarpras/pkg/http"
	"sarpras/pkg/logger"
	"sarpras/pkg/model"
	"sarpras/pkg/sealer"
	"sarpras/test/testutil"
)

// mockDashboardService panics on any method a test did not stub.
type mockDashboardService struct {
	service.DashboardService
	listFunc func(ctx context.Context, sess *session.Session, resource string, page, rows int) (*service.ListResult, error)
	viewFunc func(ctx context.Context, sess *session.Session, resource string, q tableview.Query) (*service.ViewResult, error)
}

func (m *mockDashboardService) List(ctx context.Context, sess *session.Session, resource string, page, rows int) (*service.ListResult, error) {
	return m.listFunc(ctx, sess, resource, page, rows)
}

func (m *mockDashboardService) View(ctx context.Context, sess *session.Session, resource string, q tableview.Query) (*service.ViewResult, error) {
	return m.viewFunc(ctx, sess, resource, q)
}

func testConfig() *config.Config {
	return &config.Config{
		Log:               logger.Discard(),
		Location:          time.UTC,
		DefaultPageSize:   10,
		MaxPageSize:       100,
		ViewFetchRows:     100,
		MaxUploadSize:     1 << 20,
		DeleteIntentTTL:   time.Minute,
		SessionCookieName: "sarpras_session",
		SessionTTL:        time.Hour,
	}
}

func newManager(t *testing.T, store session.Store) (*session.Manager, *sealer.Sealer) {
	t.Helper()
	secret, err := config.GenerateSecret()
	require.NoError(t, err)
	s, err := sealer.New(secret)
	require.NoError(t, err)
	return session.NewManager(store, s, session.Options{CookieName: "sarpras_session", TTL: time.Hour}), s
}

// withSession runs h as if Authenticate had already accepted the request.
func withSession(h httprouter.Handle, sess *session.Session) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		h(w, r.WithContext(session.WithSession(r.Context(), sess)), ps)
	}
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) httputil.ErrorResponse {
	t.Helper()
	var resp httputil.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestList_QueryParameters(t *testing.T) {
	var gotPage, gotRows int
	mock := &mockDashboardService{
		listFunc: func(_ context.Context, _ *session.Session, _ string, page, rows int) (*service.ListResult, error) {
			gotPage, gotRows = page, rows
			return &service.ListResult{Entries: []model.Gedung{}, Page: page, Rows: rows}, nil
		},
	}
	manager, _ := newManager(t, session.NewMemoryStore())
	h := NewDashboardHandler(mock, manager, testConfig())
	sess := &session.Session{ID: "s-1", User: model.User{ID: "u-1", Role: model.RoleAdmin}}

	tests := []struct {
		name     string
		query    string
		wantCode int
		wantPage int
		wantRows int
	}{
		{name: "defaults", query: "", wantCode: http.StatusOK, wantPage: 1, wantRows: 10},
		{name: "explicit", query: "page=3&rows=25", wantCode: http.StatusOK, wantPage: 3, wantRows: 25},
		{name: "zero page", query: "page=0", wantCode: http.StatusOK, wantPage: 1, wantRows: 10},
		{name: "rows capped", query: "rows=5000", wantCode: http.StatusOK, wantPage: 1, wantRows: 100},
		{name: "invalid page", query: "page=abc", wantCode: http.StatusBadRequest},
		{name: "invalid rows", query: "rows=1.5", wantCode: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotPage, gotRows = 0, 0
			req := httptest.NewRequest(http.MethodGet, "/api/v1/resources/gedung?"+tt.query, nil)
			rec := httptest.NewRecorder()
			withSession(h.List, sess)(rec, req, httprouter.Params{{Key: "resource", Value: "gedung"}})

			assert.Equal(t, tt.wantCode, rec.Code)
			if tt.wantCode == http.StatusOK {
				assert.Equal(t, tt.wantPage, gotPage)
				assert.Equal(t, tt.wantRows, gotRows)
			}
		})
	}
}

func TestView_ParsesFiltersAndPage(t *testing.T) {
	var got tableview.Query
	mock := &mockDashboardService{
		viewFunc: func(_ context.Context, _ *session.Session, resource string, q tableview.Query) (*service.ViewResult, error) {
			got = q
			return &service.ViewResult{Resource: resource}, nil
		},
	}
	manager, _ := newManager(t, session.NewMemoryStore())
	h := NewDashboardHandler(mock, manager, testConfig())
	sess := &session.Session{ID: "s-1"}
	params := httprouter.Params{{Key: "resource", Value: "ruangan"}}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/views/ruangan?jenis=LAB&gedung=All&search=lab&page=2&size=5", nil)
	rec := httptest.NewRecorder()
	withSession(h.View, sess)(rec, req, params)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, map[tableview.Field]string{tableview.FieldJenis: "LAB"}, got.Filters)
	assert.Equal(t, "lab", got.Search)
	assert.Equal(t, 2, got.Page)
	assert.Equal(t, 5, got.Size)

	req = httptest.NewRequest(http.MethodGet, "/api/v1/views/ruangan?warna=merah", nil)
	rec = httptest.NewRecorder()
	withSession(h.View, sess)(rec, req, params)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestParseIDs(t *testing.T) {
	ids, err := parseIDs(`["a","b"]`)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, ids)

	ids, err = parseIDs("a,b")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, ids)

	_, err = parseIDs(`["a"`)
	assert.Error(t, err)
	_, err = parseIDs("  ")
	assert.Error(t, err)
}

type failingStore struct {
	session.Store
}

func (failingStore) Ping(context.Context) error { return errors.New("connection refused") }

func TestHealthHandler(t *testing.T) {
	router := httprouter.New()
	NewHealthHandler(session.NewMemoryStore(), logger.Discard()).RegisterRoutes(router)

	for _, path := range []string{"/health", "/ready"} {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, rec.Code, path)
	}

	rec := httptest.NewRecorder()
	NewHealthHandler(failingStore{}, logger.Discard()).Ready(rec, httptest.NewRequest(http.MethodGet, "/ready", nil), nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), `"sessions":"error"`)
}

// app wires the real service against the fake campus backend.
type app struct {
	router *httprouter.Router
	fb     *testutil.FakeBackend
	cookie *http.Cookie
}

func newApp(t *testing.T) *app {
	t.Helper()
	fb := testutil.NewFakeBackend(t)
	cfg := testConfig()
	store := session.NewMemoryStore()
	manager, s := newManager(t, store)

	svc := service.NewDashboardService(service.Dependencies{
		Config:    cfg,
		Client:    fb.HttpClient(),
		Sessions:  manager,
		Sealer:    s,
		Checker:   availability.NewChecker(time.UTC, availability.DefaultMinLeadDays),
		Validator: validator.New(cfg.Log),
	})

	router := httprouter.New()
	NewDashboardHandler(svc, manager, cfg).RegisterRoutes(router)
	return &app{router: router, fb: fb}
}

func (a *app) do(t *testing.T, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	if a.cookie != nil {
		req.AddCookie(a.cookie)
	}
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	return rec
}

func (a *app) login(t *testing.T) {
	t.Helper()
	rec := a.do(t, http.MethodPost, "/api/v1/auth/login", model.LoginRequest{
		Email:    a.fb.User.Email,
		Password: testutil.DefaultPassword,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	for _, c := range rec.Result().Cookies() {
		if c.Name == "sarpras_session" {
			a.cookie = c
		}
	}
	require.NotNil(t, a.cookie, "login did not set the session cookie")
	assert.True(t, a.cookie.HttpOnly)
}

func TestAuth_LoginMeLogout(t *testing.T) {
	a := newApp(t)

	rec := a.do(t, http.MethodGet, "/api/v1/auth/me", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "/sign-in", decodeError(t, rec).Details["redirect"])

	rec = a.do(t, http.MethodPost, "/api/v1/auth/login", model.LoginRequest{Email: a.fb.User.Email, Password: "salah"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	a.login(t)
	rec = a.do(t, http.MethodGet, "/api/v1/auth/me", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), a.fb.User.Email)
	assert.NotContains(t, rec.Body.String(), a.fb.Token, "the backend token never reaches the browser")

	rec = a.do(t, http.MethodPost, "/api/v1/auth/logout", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = a.do(t, http.MethodGet, "/api/v1/auth/me", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestResources_CreateThenDeleteWithConfirmation(t *testing.T) {
	a := newApp(t)
	a.login(t)

	rec := a.do(t, http.MethodPost, "/api/v1/resources/gedung", map[string]any{"nama": "Gedung Rektorat", "kode": "gr"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), "Data berhasil ditambahkan")

	ids := url.QueryEscape(`["gedung-1"]`)
	rec = a.do(t, http.MethodDelete, "/api/v1/resources/gedung?ids="+ids, nil)
	assert.Equal(t, http.StatusPreconditionRequired, rec.Code)

	rec = a.do(t, http.MethodPost, "/api/v1/resources/gedung/delete-intents", DeleteIntentRequest{IDs: []string{"gedung-1"}})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var intent struct {
		Data service.DeleteIntent `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &intent))
	require.NotEmpty(t, intent.Data.Token)

	rec = a.do(t, http.MethodDelete, "/api/v1/resources/gedung?ids="+ids+"&confirm="+url.QueryEscape(intent.Data.Token), nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	_, exists := a.fb.Item(client.PathGedung, "gedung-1")
	assert.False(t, exists)
}

func TestResources_BackendUnauthorizedEndsSession(t *testing.T) {
	a := newApp(t)
	a.login(t)
	a.fb.Fail(http.MethodGet, client.PathAlat, http.StatusUnauthorized)

	rec := a.do(t, http.MethodGet, "/api/v1/resources/alat", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "/sign-in", decodeError(t, rec).Details["redirect"])

	rec = a.do(t, http.MethodGet, "/api/v1/auth/me", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestViewXLSX(t *testing.T) {
	a := newApp(t)
	a.login(t)
	a.fb.Seed(t, client.PathAlat,
		model.Alat{ID: "a-1", Nama: "Proyektor", Jumlah: 2, StatusAset: model.StatusTersedia},
		model.Alat{ID: "a-2", Nama: "Kamera", Jumlah: 1, StatusAset: model.StatusTidakTersedia},
	)

	rec := a.do(t, http.MethodGet, "/api/v1/views/alat/xlsx?statusAset=TERSEDIA", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, export.ContentTypeXLSX, rec.Header().Get("Content-Type"))
	assert.True(t, strings.HasPrefix(rec.Header().Get("Content-Disposition"), `attachment; filename="alat_`))
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("PK")), "xlsx is a zip archive")
}

func TestExportPassthrough(t *testing.T) {
	a := newApp(t)
	a.login(t)

	rec := a.do(t, http.MethodGet, "/api/v1/exports/ruangan/pdf", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "ruangan.pdf")
}

func TestAvailability_BadDate(t *testing.T) {
	a := newApp(t)
	a.login(t)

	rec := a.do(t, http.MethodGet, "/api/v1/availability/alat/a-1?date=besok", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestFlows(t *testing.T) {
	a := newApp(t)
	a.login(t)

	rec := a.do(t, http.MethodGet, "/api/v1/flows", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "create_peminjaman")

	rec = a.do(t, http.MethodPost, "/api/v1/flows/execute", ExecuteFlowRequest{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = a.do(t, http.MethodPost, "/api/v1/flows/execute", ExecuteFlowRequest{Flow: "launch_rocket"})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = a.do(t, http.MethodPost, "/api/v1/flows/execute", ExecuteFlowRequest{
		Flow:  "create_peminjaman",
		Input: map[string]any{"jenisAset": "alat"},
	})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Empty(t, a.fb.Calls(http.MethodPost)[1:], "only the login reached the backend")
}
