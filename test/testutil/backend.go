package testutil

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"sarpras/pkg/client"
	"sarpras/pkg/model"
)

const (
	DefaultToken    = "token-123"
	DefaultPassword = "rahasia123"
)

// Call is one request the fake campus backend received.
type Call struct {
	Method string
	Path   string
	Query  string
	Auth   string
	Body   []byte
}

// DecodeBody unmarshals the recorded request body.
func (c Call) DecodeBody(t *testing.T, target any) {
	t.Helper()
	if err := json.Unmarshal(c.Body, target); err != nil {
		t.Fatalf("failed to decode %s %s body: %v", c.Method, c.Path, err)
	}
}

// FakeBackend is an in-memory campus REST backend speaking the same
// envelopes as the real one.
type FakeBackend struct {
	*httptest.Server

	Token string
	User  model.User

	mu       sync.Mutex
	order    map[string][]string
	items    map[string]map[string]any
	calls    []Call
	failures map[string]int
	nextID   int
}

func NewFakeBackend(t *testing.T) *FakeBackend {
	t.Helper()
	f := &FakeBackend{
		Token:    DefaultToken,
		User:     model.User{ID: "u-1", Nama: "Admin Sarpras", Email: "admin@kampus.ac.id", Role: model.RoleAdmin},
		order:    map[string][]string{},
		items:    map[string]map[string]any{},
		failures: map[string]int{},
	}
	f.Server = httptest.NewServer(http.HandlerFunc(f.serve))
	t.Cleanup(f.Server.Close)
	return f
}

func (f *FakeBackend) HttpClient() *client.HttpClient {
	return client.NewHttpClient(f.URL, 5*time.Second)
}

// Backend returns a typed client already carrying the fake's token.
func (f *FakeBackend) Backend() *client.Backend {
	return client.NewBackend(f.HttpClient().WithToken(f.Token, nil))
}

// Seed stores items under a collection path such as "/alat". Every item
// needs an id.
func (f *FakeBackend) Seed(t *testing.T, path string, items ...any) {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, item := range items {
		obj := normalize(t, item)
		id, _ := obj["id"].(string)
		if id == "" {
			t.Fatalf("seeded %s item has no id", path)
		}
		f.put(path, id, obj)
	}
}

// Fail makes every method request to path answer with status.
func (f *FakeBackend) Fail(method, path string, status int) {
	f.mu.Lock()
	f.failures[method+" "+path] = status
	f.mu.Unlock()
}

// Calls returns the recorded requests, optionally filtered by method.
func (f *FakeBackend) Calls(method string) []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []Call
	for _, c := range f.calls {
		if method == "" || c.Method == method {
			out = append(out, c)
		}
	}
	return out
}

// Item returns the stored item at path/id as a generic map.
func (f *FakeBackend) Item(path, id string) (map[string]any, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	item, ok := f.items[path+"/"+id]
	return item, ok
}

func normalize(t *testing.T, v any) map[string]any {
	t.Helper()
	raw, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("failed to encode fixture: %v", err)
	}
	obj := map[string]any{}
	if err := json.Unmarshal(raw, &obj); err != nil {
		t.Fatalf("failed to decode fixture: %v", err)
	}
	return obj
}

func (f *FakeBackend) put(path, id string, obj map[string]any) {
	key := path + "/" + id
	if _, exists := f.items[key]; !exists {
		f.order[path] = append(f.order[path], id)
	}
	f.items[key] = obj
}

func (f *FakeBackend) remove(path, id string) bool {
	key := path + "/" + id
	if _, ok := f.items[key]; !ok {
		return false
	}
	delete(f.items, key)
	ids := f.order[path]
	for i, v := range ids {
		if v == id {
			f.order[path] = append(ids[:i], ids[i+1:]...)
			break
		}
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func message(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]any{"message": msg})
}

func (f *FakeBackend) serve(w http.ResponseWriter, r *http.Request) {
	var body []byte
	if !strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/") {
		body, _ = io.ReadAll(r.Body)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, Call{
		Method: r.Method,
		Path:   r.URL.Path,
		Query:  r.URL.RawQuery,
		Auth:   r.Header.Get("Authorization"),
		Body:   body,
	})

	if status, ok := f.failures[r.Method+" "+r.URL.Path]; ok {
		message(w, status, "injected failure")
		return
	}

	if r.URL.Path == "/auth/login" && r.Method == http.MethodPost {
		f.login(w, body)
		return
	}
	if f.Token != "" && r.Header.Get("Authorization") != "Bearer "+f.Token {
		message(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	segments := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	collection := "/" + segments[0]

	switch {
	case r.URL.Path == "/upload" && r.Method == http.MethodPost:
		f.upload(w, r)
	case len(segments) == 3 && segments[1] == "export" && r.Method == http.MethodGet:
		f.export(w, collection, segments[2])
	case len(segments) == 3 && strings.HasPrefix(segments[2], "status") && r.Method == http.MethodPut:
		f.changeStatus(w, collection, segments[1], body)
	case len(segments) == 2 && r.Method == http.MethodGet:
		f.get(w, collection, segments[1])
	case len(segments) == 2 && r.Method == http.MethodPut:
		f.update(w, collection, segments[1], body)
	case len(segments) == 1 && r.Method == http.MethodGet:
		f.list(w, r, collection)
	case len(segments) == 1 && r.Method == http.MethodPost:
		f.create(w, collection, body)
	case len(segments) == 1 && r.Method == http.MethodDelete:
		f.delete(w, r, collection)
	default:
		message(w, http.StatusNotFound, "Route tidak ditemukan")
	}
}

func (f *FakeBackend) login(w http.ResponseWriter, body []byte) {
	var req model.LoginRequest
	if err := json.Unmarshal(body, &req); err != nil || req.Email != f.User.Email || req.Password != DefaultPassword {
		message(w, http.StatusBadRequest, "Email atau password salah")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"content": map[string]any{"token": f.Token, "user": f.User},
	})
}

func (f *FakeBackend) list(w http.ResponseWriter, r *http.Request, path string) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	rows, _ := strconv.Atoi(r.URL.Query().Get("rows"))
	if page < 1 {
		page = 1
	}
	ids := f.order[path]
	if rows < 1 {
		rows = len(ids)
	}

	entries := []map[string]any{}
	for i := (page - 1) * rows; i < len(ids) && i < page*rows; i++ {
		entries = append(entries, f.items[path+"/"+ids[i]])
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"content": map[string]any{"entries": entries, "totalData": len(ids)},
	})
}

func (f *FakeBackend) get(w http.ResponseWriter, path, id string) {
	item, ok := f.items[path+"/"+id]
	if !ok {
		message(w, http.StatusNotFound, "Data tidak ditemukan")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"content": item})
}

func (f *FakeBackend) create(w http.ResponseWriter, path string, body []byte) {
	obj := map[string]any{}
	if err := json.Unmarshal(body, &obj); err != nil {
		message(w, http.StatusBadRequest, "Body tidak valid")
		return
	}
	f.nextID++
	id := fmt.Sprintf("%s-%d", strings.TrimPrefix(path, "/"), f.nextID)
	obj["id"] = id
	if _, ok := obj["statusPengajuan"]; !ok {
		obj["statusPengajuan"] = string(model.PengajuanPending)
	}
	f.put(path, id, obj)
	writeJSON(w, http.StatusCreated, map[string]any{"message": "Data berhasil ditambahkan", "content": obj})
}

func (f *FakeBackend) update(w http.ResponseWriter, path, id string, body []byte) {
	item, ok := f.items[path+"/"+id]
	if !ok {
		message(w, http.StatusNotFound, "Data tidak ditemukan")
		return
	}
	patch := map[string]any{}
	if err := json.Unmarshal(body, &patch); err != nil {
		message(w, http.StatusBadRequest, "Body tidak valid")
		return
	}
	for k, v := range patch {
		item[k] = v
	}
	item["id"] = id
	writeJSON(w, http.StatusOK, map[string]any{"message": "Data berhasil diperbarui", "content": item})
}

func (f *FakeBackend) changeStatus(w http.ResponseWriter, path, id string, body []byte) {
	item, ok := f.items[path+"/"+id]
	if !ok {
		message(w, http.StatusNotFound, "Data tidak ditemukan")
		return
	}
	var change model.StatusChange
	if err := json.Unmarshal(body, &change); err != nil {
		message(w, http.StatusBadRequest, "Body tidak valid")
		return
	}
	item["statusPengajuan"] = string(change.StatusPengajuan)
	item["deskripsiPenolakan"] = change.DeskripsiPenolakan
	writeJSON(w, http.StatusOK, map[string]any{"message": "Status berhasil diperbarui", "content": item})
}

func (f *FakeBackend) delete(w http.ResponseWriter, r *http.Request, path string) {
	var ids []string
	if err := json.Unmarshal([]byte(r.URL.Query().Get("ids")), &ids); err != nil || len(ids) == 0 {
		message(w, http.StatusBadRequest, "ids tidak valid")
		return
	}
	removed := 0
	for _, id := range ids {
		if f.remove(path, id) {
			removed++
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message": fmt.Sprintf("%d data berhasil dihapus", removed),
		"content": map[string]any{"count": removed},
	})
}

func (f *FakeBackend) upload(w http.ResponseWriter, r *http.Request) {
	file, header, err := r.FormFile("file")
	if err != nil {
		message(w, http.StatusBadRequest, "file wajib diisi")
		return
	}
	defer file.Close()
	writeJSON(w, http.StatusOK, map[string]any{
		"content": map[string]any{"secure_url": "https://cdn.kampus.test/" + header.Filename},
	})
}

func (f *FakeBackend) export(w http.ResponseWriter, path, format string) {
	switch format {
	case "pdf":
		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Disposition", `attachment; filename="`+strings.TrimPrefix(path, "/")+`.pdf"`)
		_, _ = io.WriteString(w, "%PDF-1.4 fake")
	case "excel":
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		_, _ = io.WriteString(w, "PK fake")
	default:
		message(w, http.StatusNotFound, "Format tidak dikenal")
	}
}
