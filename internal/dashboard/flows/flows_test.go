package flows

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sarpras/internal/availability"
	"sarpras/internal/dashboard/core"
	"sarpras/internal/dashboard/validator"
	"sarpras/pkg/client"
	apperrors "sarpras/pkg/errors"
	"sarpras/pkg/logger"
	"sarpras/pkg/model"
	"sarpras/test/testutil"
)

var today = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

func day(d int) model.Date {
	return model.NewDate(time.Date(2025, 3, d, 0, 0, 0, 0, time.UTC))
}

func seedCatalog(t *testing.T, fb *testutil.FakeBackend) {
	t.Helper()
	fb.Seed(t, client.PathShift, model.Shift{ID: "s-1", Nama: "Pagi", JamMulai: "07:00", JamSelesai: "12:00"})
	fb.Seed(t, client.PathAlat,
		model.Alat{ID: "a-1", Nama: "Proyektor", Jumlah: 3, Harga: 50000, StatusAset: model.StatusTersedia},
		model.Alat{ID: "a-2", Nama: "Kamera", Jumlah: 1, Harga: 75000, StatusAset: model.StatusSedangDipinjam},
	)
	fb.Seed(t, client.PathRuangan,
		model.Ruangan{ID: "r-1", Nama: "Aula Utama", Jenis: model.RuanganUmum, Harga: 100000, StatusAset: model.StatusTersedia, IDGedung: "g-1"},
		model.Ruangan{ID: "r-2", Nama: "Lab Jaringan", Jenis: model.RuanganLab, Harga: 80000, StatusAset: model.StatusTersedia, IDGedung: "g-1"},
	)
	fb.Seed(t, client.PathFasilitas,
		model.Fasilitas{ID: "f-1", Nama: "Sound System", Jumlah: 2, Harga: 5000, IDRuangan: "r-1"},
		model.Fasilitas{ID: "f-2", Nama: "Kursi Lab", Jumlah: 30, Harga: 1000, IDRuangan: "r-2"},
	)
}

func run(t *testing.T, fb *testutil.FakeBackend, flow string, input map[string]any) (*core.FlowContext, error) {
	t.Helper()
	engine := core.NewEngine(All()...)
	checker := availability.NewChecker(time.UTC, availability.DefaultMinLeadDays,
		availability.WithClock(func() time.Time { return today }))
	fc := core.NewFlowContext(context.Background(), input, core.Deps{
		Backend:   fb.Backend(),
		Checker:   checker,
		Validator: validator.New(logger.Discard()),
		Actor:     fb.User,
		FetchRows: 50,
		PageRows:  10,
	})
	return fc, engine.Run(flow, fc)
}

func appError(t *testing.T, err error) *apperrors.AppError {
	t.Helper()
	var appErr *apperrors.AppError
	require.True(t, errors.As(err, &appErr), "expected an AppError, got %v", err)
	return appErr
}

func borrowTool(start, end string, qty int) map[string]any {
	return map[string]any{
		"jenisAset":      "alat",
		"aset":           []any{map[string]any{"id": "a-1", "jumlah": qty}},
		"kegiatan":       "Seminar nasional",
		"tanggalMulai":   start,
		"tanggalSelesai": end,
		"idShift":        "s-1",
	}
}

func TestCreatePeminjaman_Submits(t *testing.T) {
	fb := testutil.NewFakeBackend(t)
	seedCatalog(t, fb)

	fc, err := run(t, fb, CreatePeminjaman, borrowTool("2025-03-05", "2025-03-06", 2))
	require.NoError(t, err)

	posts := fb.Calls(http.MethodPost)
	require.Len(t, posts, 1)
	assert.Equal(t, client.PathPeminjaman, posts[0].Path)

	var sent model.Peminjaman
	posts[0].DecodeBody(t, &sent)
	assert.Equal(t, "a-1", sent.IDAlat)
	assert.Empty(t, sent.IDRuanganUmum)
	assert.Equal(t, 2, sent.Jumlah)
	assert.Equal(t, fb.User.ID, sent.IDPeminjam)
	assert.Equal(t, "Seminar nasional", sent.Kegiatan)

	assert.Equal(t, "Data berhasil ditambahkan", fc.Output[OutMessage])
	assert.Equal(t, []string{"peminjaman-1"}, fc.Output[OutIDs])
	assert.Equal(t, 1, fc.Output[OutTotal])
	assert.Len(t, fc.Output[OutRefreshed], 1)
}

func TestCreatePeminjaman_Conflicts(t *testing.T) {
	tests := []struct {
		name       string
		existing   []any
		start, end string
		wantDay    string
		wantReason availability.Reason
	}{
		{
			name:       "inside lead time",
			start:      "2025-03-02",
			end:        "2025-03-04",
			wantDay:    "2025-03-02",
			wantReason: availability.ReasonLeadTime,
		},
		{
			name: "overlaps a pending borrowing",
			existing: []any{model.Peminjaman{Booking: model.Booking{
				ID: "p-9", AssetLink: model.AssetLink{IDAlat: "a-1"},
				TanggalMulai: day(6), TanggalSelesai: day(8), StatusPengajuan: model.PengajuanPending,
			}}},
			start:      "2025-03-05",
			end:        "2025-03-07",
			wantDay:    "2025-03-06",
			wantReason: availability.ReasonBorrowed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fb := testutil.NewFakeBackend(t)
			seedCatalog(t, fb)
			if len(tt.existing) > 0 {
				fb.Seed(t, client.PathPeminjaman, tt.existing...)
			}

			_, err := run(t, fb, CreatePeminjaman, borrowTool(tt.start, tt.end, 1))
			appErr := appError(t, err)
			assert.Equal(t, http.StatusConflict, appErr.HTTPStatus)
			assert.Equal(t, tt.wantDay, appErr.Details["day"])
			assert.Equal(t, string(tt.wantReason), appErr.Details["reason"])
			assert.Empty(t, fb.Calls(http.MethodPost))
		})
	}
}

func TestCreatePeminjaman_RejectedRecordDoesNotBlock(t *testing.T) {
	fb := testutil.NewFakeBackend(t)
	seedCatalog(t, fb)
	fb.Seed(t, client.PathPenyewaan, model.Penyewaan{Booking: model.Booking{
		ID: "s-9", AssetLink: model.AssetLink{IDAlat: "a-1"},
		TanggalMulai: day(5), TanggalSelesai: day(5), StatusPengajuan: model.PengajuanRejected,
	}})

	_, err := run(t, fb, CreatePeminjaman, borrowTool("2025-03-05", "2025-03-05", 1))
	require.NoError(t, err)
}

func TestCreatePeminjaman_ValidationBeforeAnyRequest(t *testing.T) {
	fb := testutil.NewFakeBackend(t)

	input := borrowTool("2025-03-07", "2025-03-05", 1)
	input["kegiatan"] = ""
	_, err := run(t, fb, CreatePeminjaman, input)

	appErr := appError(t, err)
	assert.Equal(t, http.StatusUnprocessableEntity, appErr.HTTPStatus)
	assert.Contains(t, appErr.Details, "kegiatan")
	assert.Contains(t, appErr.Details, "tanggalSelesai")
	assert.Empty(t, fb.Calls(""))
}

func TestCreatePeminjaman_RangeTooLong(t *testing.T) {
	fb := testutil.NewFakeBackend(t)
	seedCatalog(t, fb)

	_, err := run(t, fb, CreatePeminjaman, borrowTool("2025-03-05", "9999-12-31", 1))

	appErr := appError(t, err)
	assert.Equal(t, http.StatusUnprocessableEntity, appErr.HTTPStatus)
	assert.Contains(t, appErr.Details, "tanggalSelesai")
	assert.Empty(t, fb.Calls(""))

	// exactly MaxRangeDays is still accepted
	last := time.Date(2025, 3, 5, 0, 0, 0, 0, time.UTC).AddDate(0, 0, availability.MaxRangeDays-1)
	_, err = run(t, fb, CreatePeminjaman, borrowTool("2025-03-05", last.Format(time.DateOnly), 1))
	require.NoError(t, err)
}

func TestCreatePeminjaman_SelectionRules(t *testing.T) {
	tests := []struct {
		name  string
		input map[string]any
		field string
	}{
		{
			name:  "quantity above stock",
			input: borrowTool("2025-03-05", "2025-03-05", 4),
			field: "aset[0]",
		},
		{
			name: "asset not TERSEDIA",
			input: map[string]any{
				"jenisAset": "alat", "aset": []any{map[string]any{"id": "a-2", "jumlah": 1}},
				"kegiatan": "Dokumentasi", "tanggalMulai": "2025-03-05", "tanggalSelesai": "2025-03-05", "idShift": "s-1",
			},
			field: "aset[0]",
		},
		{
			name: "lab chosen as general room",
			input: map[string]any{
				"jenisAset": "ruangan_umum", "aset": []any{map[string]any{"id": "r-2"}},
				"kegiatan": "Rapat", "tanggalMulai": "2025-03-05", "tanggalSelesai": "2025-03-05", "idShift": "s-1",
			},
			field: "aset[0]",
		},
		{
			name: "facility of another room",
			input: map[string]any{
				"jenisAset": "ruangan_umum",
				"aset": []any{map[string]any{"id": "r-1", "fasilitas": []any{
					map[string]any{"idFasilitas": "f-2", "jumlah": 1},
				}}},
				"kegiatan": "Rapat", "tanggalMulai": "2025-03-05", "tanggalSelesai": "2025-03-05", "idShift": "s-1",
			},
			field: "aset[0].fasilitas[0]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fb := testutil.NewFakeBackend(t)
			seedCatalog(t, fb)

			_, err := run(t, fb, CreatePeminjaman, tt.input)
			appErr := appError(t, err)
			assert.Equal(t, http.StatusUnprocessableEntity, appErr.HTTPStatus)
			assert.Contains(t, appErr.Details, tt.field)
			assert.Empty(t, fb.Calls(http.MethodPost))
		})
	}
}

func TestCreatePeminjaman_UnknownAsset(t *testing.T) {
	fb := testutil.NewFakeBackend(t)
	seedCatalog(t, fb)

	input := borrowTool("2025-03-05", "2025-03-05", 1)
	input["aset"] = []any{map[string]any{"id": "missing", "jumlah": 1}}
	_, err := run(t, fb, CreatePeminjaman, input)

	assert.Equal(t, http.StatusNotFound, apperrors.AsAppError(err).HTTPStatus)
}

func TestUpdatePeminjaman_ExcludesItself(t *testing.T) {
	fb := testutil.NewFakeBackend(t)
	seedCatalog(t, fb)
	fb.Seed(t, client.PathAlat, model.Alat{ID: "a-1", Nama: "Proyektor", Jumlah: 3, StatusAset: model.StatusSedangDipinjam})
	fb.Seed(t, client.PathPeminjaman, model.Peminjaman{Booking: model.Booking{
		ID: "p-1", AssetLink: model.AssetLink{IDAlat: "a-1"}, IDPeminjam: "u-7",
		TanggalMulai: day(5), TanggalSelesai: day(6), StatusPengajuan: model.PengajuanApproved,
	}})

	input := borrowTool("2025-03-06", "2025-03-07", 1)
	input["id"] = "p-1"
	_, err := run(t, fb, UpdatePeminjaman, input)
	require.NoError(t, err)

	puts := fb.Calls(http.MethodPut)
	require.Len(t, puts, 1)
	assert.Equal(t, "/peminjaman/p-1", puts[0].Path)

	var sent model.Peminjaman
	puts[0].DecodeBody(t, &sent)
	assert.Equal(t, "u-7", sent.IDPeminjam, "the original requester is kept")
}

func TestUpdatePeminjaman_RequiresID(t *testing.T) {
	fb := testutil.NewFakeBackend(t)
	_, err := run(t, fb, UpdatePeminjaman, borrowTool("2025-03-06", "2025-03-07", 1))
	appErr := appError(t, err)
	assert.Contains(t, appErr.Details, "id")
}

func TestCreatePenyewaan_ComputesCost(t *testing.T) {
	fb := testutil.NewFakeBackend(t)
	seedCatalog(t, fb)

	fc, err := run(t, fb, CreatePenyewaan, map[string]any{
		"jenisAset": "ruangan_umum",
		"aset": []any{map[string]any{"id": "r-1", "fasilitas": []any{
			map[string]any{"idFasilitas": "f-1", "jumlah": 2},
		}}},
		"kegiatan":       "Wisuda",
		"tanggalMulai":   "2025-03-10",
		"tanggalSelesai": "2025-03-12",
		"idShift":        "s-1",
		"namaInstansi":   "PT Maju Jaya",
	})
	require.NoError(t, err)

	want := int64((100000 + 2*5000) * 3)
	assert.Equal(t, want, fc.Output[OutTotalBiaya])

	posts := fb.Calls(http.MethodPost)
	require.Len(t, posts, 1)
	var sent model.Penyewaan
	posts[0].DecodeBody(t, &sent)
	assert.Equal(t, "r-1", sent.IDRuanganUmum)
	assert.Equal(t, want, sent.TotalBiaya)
	assert.Equal(t, "PT Maju Jaya", sent.NamaInstansi)
	require.Len(t, sent.Fasilitas, 1)
	assert.Equal(t, 2, sent.Fasilitas[0].Jumlah)
}

func TestCreatePenyewaan_RequiresInstitution(t *testing.T) {
	fb := testutil.NewFakeBackend(t)
	_, err := run(t, fb, CreatePenyewaan, borrowTool("2025-03-05", "2025-03-05", 1))
	appErr := appError(t, err)
	assert.Contains(t, appErr.Details, "namaInstansi")
}

func TestCreatePengembalian(t *testing.T) {
	tests := []struct {
		name       string
		status     model.StatusPengajuan
		date       string
		wantStatus int
	}{
		{"approved", model.PengajuanApproved, "2025-03-06", 0},
		{"pending", model.PengajuanPending, "2025-03-06", http.StatusConflict},
		{"before start", model.PengajuanApproved, "2025-03-04", http.StatusUnprocessableEntity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fb := testutil.NewFakeBackend(t)
			fb.Seed(t, client.PathPeminjaman, model.Peminjaman{Booking: model.Booking{
				ID: "p-1", AssetLink: model.AssetLink{IDAlat: "a-1"},
				TanggalMulai: day(5), TanggalSelesai: day(6), StatusPengajuan: tt.status,
			}})

			_, err := run(t, fb, CreatePengembalian, map[string]any{
				"idPeminjaman":        "p-1",
				"tanggalPengembalian": tt.date,
				"kondisi":             "baik",
				"denda":               0,
			})
			if tt.wantStatus == 0 {
				require.NoError(t, err)
				posts := fb.Calls(http.MethodPost)
				require.Len(t, posts, 1)
				assert.Equal(t, client.PathPengembalian, posts[0].Path)
				return
			}
			assert.Equal(t, tt.wantStatus, appError(t, err).HTTPStatus)
			assert.Empty(t, fb.Calls(http.MethodPost))
		})
	}
}

func TestCreatePengembalian_InputRules(t *testing.T) {
	tests := []struct {
		name  string
		input map[string]any
		field string
	}{
		{
			name:  "no source",
			input: map[string]any{"tanggalPengembalian": "2025-03-06", "kondisi": "BAIK"},
			field: "idPeminjaman",
		},
		{
			name:  "two sources",
			input: map[string]any{"idPeminjaman": "p-1", "idPenyewaan": "s-1", "tanggalPengembalian": "2025-03-06", "kondisi": "BAIK"},
			field: "idPeminjaman",
		},
		{
			name:  "negative penalty",
			input: map[string]any{"idPeminjaman": "p-1", "tanggalPengembalian": "2025-03-06", "kondisi": "BAIK", "denda": -1},
			field: "denda",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fb := testutil.NewFakeBackend(t)
			_, err := run(t, fb, CreatePengembalian, tt.input)
			appErr := appError(t, err)
			assert.Contains(t, appErr.Details, tt.field)
			assert.Empty(t, fb.Calls(""))
		})
	}
}

func TestSubmission_PartialFailureCarriesSubmittedIDs(t *testing.T) {
	var sub submission
	sub.add(&client.MutationResult{Message: "ok", Content: []byte(`{"id":"p-1"}`)}, "")
	err := sub.fail(&client.APIError{Status: http.StatusBadRequest, Message: "tanggal bentrok"})

	appErr := appError(t, err)
	assert.Equal(t, http.StatusBadRequest, appErr.HTTPStatus)
	assert.Equal(t, []string{"p-1"}, appErr.Details["submitted"])
}

func TestAll_Names(t *testing.T) {
	engine := core.NewEngine(All()...)
	for _, name := range []string{
		CreatePeminjaman, UpdatePeminjaman, CreatePenyewaan,
		UpdatePenyewaan, CreatePengembalian, UpdatePengembalian,
	} {
		assert.True(t, engine.Has(name), name)
	}
}
