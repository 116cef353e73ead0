package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"testing"

	"sarpras/pkg/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResource_List(t *testing.T) {
	var gotQuery string
	c := newTestBackend(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/jurusan", r.URL.Path)
		gotQuery = r.URL.RawQuery
		_, _ = io.WriteString(w, `{"content":{"entries":[{"id":"j1","nama":"Informatika"}],"totalData":31}}`)
	})

	page, err := NewBackend(c).Jurusan.List(context.Background(), 2, 10)
	require.NoError(t, err)
	assert.Equal(t, "page=2&rows=10", gotQuery)
	assert.Equal(t, 31, page.TotalData)
	require.Len(t, page.Entries, 1)
	assert.Equal(t, "Informatika", page.Entries[0].Nama)
}

func TestResource_AllWalksPages(t *testing.T) {
	calls := 0
	c := newTestBackend(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		page := r.URL.Query().Get("page")
		switch page {
		case "1":
			_, _ = io.WriteString(w, `{"content":{"entries":[{"id":"a"},{"id":"b"}],"totalData":3}}`)
		case "2":
			_, _ = io.WriteString(w, `{"content":{"entries":[{"id":"c"}],"totalData":3}}`)
		default:
			t.Errorf("unexpected page %s", page)
		}
	})

	all, err := NewBackend(c).Gedung.All(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "c", all[2].ID)
	assert.Equal(t, 2, calls)
}

func TestResource_AllKeepsWalkingWhenBackendCapsRows(t *testing.T) {
	calls := 0
	c := newTestBackend(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		assert.Equal(t, "1000", r.URL.Query().Get("rows"))
		switch r.URL.Query().Get("page") {
		case "1":
			_, _ = io.WriteString(w, `{"content":{"entries":[{"id":"p1"},{"id":"p2"}],"totalData":5}}`)
		case "2":
			_, _ = io.WriteString(w, `{"content":{"entries":[{"id":"p3"},{"id":"p4"}],"totalData":5}}`)
		case "3":
			_, _ = io.WriteString(w, `{"content":{"entries":[{"id":"p5"}],"totalData":5}}`)
		default:
			_, _ = io.WriteString(w, `{"content":{"entries":[],"totalData":5}}`)
		}
	})

	all, err := NewBackend(c).Peminjaman.All(context.Background(), 1000)
	require.NoError(t, err)
	require.Len(t, all, 5)
	assert.Equal(t, "p5", all[4].ID)
	assert.Equal(t, 3, calls)
}

func TestResource_AllStopsOnEmptyPage(t *testing.T) {
	calls := 0
	c := newTestBackend(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		if r.URL.Query().Get("page") == "1" {
			_, _ = io.WriteString(w, `{"content":{"entries":[{"id":"p1"}],"totalData":4}}`)
			return
		}
		_, _ = io.WriteString(w, `{"content":{"entries":[],"totalData":4}}`)
	})

	all, err := NewBackend(c).Peminjaman.All(context.Background(), 1000)
	require.NoError(t, err)
	assert.Len(t, all, 1)
	assert.Equal(t, 2, calls)
}

func TestResource_Get(t *testing.T) {
	c := newTestBackend(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/penyewaan/s%201", r.URL.EscapedPath())
		_, _ = io.WriteString(w, `{"content":{"id":"s 1","totalBiaya":150000,"idLab":"lab-1"}}`)
	})

	got, err := NewBackend(c).Penyewaan.Get(context.Background(), "s 1")
	require.NoError(t, err)
	assert.Equal(t, int64(150000), got.TotalBiaya)
	assert.Equal(t, "lab-1", got.IDLab)
}

func TestResource_DeleteEncodesIDsAsJSON(t *testing.T) {
	c := newTestBackend(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		var ids []string
		require.NoError(t, json.Unmarshal([]byte(r.URL.Query().Get("ids")), &ids))
		assert.Equal(t, []string{"u1", "u2"}, ids)
		_, _ = fmt.Fprintf(w, `{"message":"%d data dihapus"}`, len(ids))
	})

	res, err := NewBackend(c).Users.Delete(context.Background(), []string{"u1", "u2"})
	require.NoError(t, err)
	assert.Equal(t, "2 data dihapus", res.Message)
}

func TestResource_CreateReturnsMutationResult(t *testing.T) {
	c := newTestBackend(t, func(w http.ResponseWriter, r *http.Request) {
		var body model.Gedung
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "Gedung A", body.Nama)
		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"message":"Berhasil","content":{"id":"g1","nama":"Gedung A"}}`)
	})

	res, err := NewBackend(c).Gedung.Create(context.Background(), model.Gedung{Nama: "Gedung A"})
	require.NoError(t, err)
	assert.Equal(t, "Berhasil", res.Message)

	var created model.Gedung
	require.NoError(t, res.Decode(&created))
	assert.Equal(t, "g1", created.ID)
}

func TestBackend_ChangeStatus(t *testing.T) {
	c := newTestBackend(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/perbaikan/r1/statusPerbaikan", r.URL.Path)
		var body model.StatusChange
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, model.PengajuanRejected, body.StatusPengajuan)
		assert.Equal(t, "Foto kurang jelas", body.DeskripsiPenolakan)
		_, _ = io.WriteString(w, `{"message":"Status diperbarui"}`)
	})

	b := NewBackend(c)
	res, err := b.ChangeStatus(context.Background(), PathPerbaikan, "r1", model.StatusChange{
		StatusPengajuan:    model.PengajuanRejected,
		DeskripsiPenolakan: "Foto kurang jelas",
	})
	require.NoError(t, err)
	assert.Equal(t, "Status diperbarui", res.Message)

	_, err = b.ChangeStatus(context.Background(), PathGedung, "g1", model.StatusChange{})
	assert.Error(t, err)
}

func TestBackend_Login(t *testing.T) {
	c := newTestBackend(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/login", r.URL.Path)
		assert.Empty(t, r.Header.Get("Authorization"))
		_, _ = io.WriteString(w, `{"content":{"token":"jwt","user":{"id":"u1","nama":"Sari","role":"ADMIN"}}}`)
	})

	res, err := NewBackend(c).Login(context.Background(), model.LoginRequest{Email: "sari@kampus.ac.id", Password: "rahasia"})
	require.NoError(t, err)
	assert.Equal(t, "jwt", res.Token)
	assert.Equal(t, model.RoleAdmin, res.User.Role)
}

func TestBackend_Export(t *testing.T) {
	c := newTestBackend(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/alat/export/excel", r.URL.Path)
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		_, _ = w.Write([]byte("PK\x03\x04"))
	})

	b := NewBackend(c)
	blob, err := b.Export(context.Background(), PathAlat, ExportExcel)
	require.NoError(t, err)
	assert.Equal(t, "alat.xlsx", blob.Filename)
	assert.Equal(t, []byte("PK\x03\x04"), blob.Data)

	_, err = b.Export(context.Background(), PathAlat, ExportFormat("csv"))
	assert.Error(t, err)
}
