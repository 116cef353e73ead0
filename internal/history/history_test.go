package history

import (
	"testing"
	"time"

	"sarpras/internal/tableview"
	"sarpras/pkg/model"
)

func mustDate(s string) model.Date {
	d, ok := model.ParseDate(s)
	if !ok {
		panic(s)
	}
	return d
}

func fixedNow() time.Time { return time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC) }

func TestAggregate_OrderRepairRentalBorrow(t *testing.T) {
	agg := NewAggregator(fixedNow)

	borrow := model.Peminjaman{Booking: model.Booking{ID: "b1", IDPeminjam: "u1", TanggalMulai: mustDate("2024-01-01")}}
	rental := model.Penyewaan{Booking: model.Booking{ID: "r1", IDPeminjam: "u1", TanggalMulai: mustDate("2024-03-01")}, TotalBiaya: 250000}
	repair := model.Perbaikan{ID: "p1", IDPelapor: "u1", Kerusakan: "AC bocor"}

	got := agg.Aggregate("u1", []model.Peminjaman{borrow}, []model.Penyewaan{rental}, []model.Perbaikan{repair})

	want := []Kind{KindRepair, KindRental, KindBorrow}
	if len(got) != len(want) {
		t.Fatalf("expected %d entries, got %d", len(want), len(got))
	}
	for i, k := range want {
		if got[i].Kind != k {
			t.Errorf("position %d: expected %s, got %s", i, k, got[i].Kind)
		}
	}
	if got[1].TotalCost == nil || *got[1].TotalCost != 250000 {
		t.Errorf("expected rental cost 250000, got %v", got[1].TotalCost)
	}
	if got[2].TotalCost != nil {
		t.Error("expected no cost on a borrowing")
	}
}

func TestAggregate_OnlyOwnRecords(t *testing.T) {
	agg := NewAggregator(fixedNow)

	borrows := []model.Peminjaman{
		{Booking: model.Booking{ID: "mine", IDPeminjam: "u1"}},
		{Booking: model.Booking{ID: "theirs", IDPeminjam: "u2"}},
	}
	repairs := []model.Perbaikan{{ID: "p2", IDPelapor: "u2"}}

	got := agg.Aggregate("u1", borrows, nil, repairs)
	if len(got) != 1 || got[0].ID != "mine" {
		t.Errorf("expected only own borrowing, got %+v", got)
	}
	if len(agg.Aggregate("", borrows, nil, repairs)) != 0 {
		t.Error("expected nothing for an anonymous user")
	}
}

func TestAggregate_StableForEqualKeys(t *testing.T) {
	agg := NewAggregator(fixedNow)
	same := mustDate("2024-02-02")

	borrows := []model.Peminjaman{
		{Booking: model.Booking{ID: "a", IDPeminjam: "u", TanggalMulai: same}},
		{Booking: model.Booking{ID: "b", IDPeminjam: "u", TanggalMulai: same}},
		{Booking: model.Booking{ID: "c", IDPeminjam: "u"}},
	}

	got := agg.Aggregate("u", borrows, nil, nil)
	if got[0].ID != "a" || got[1].ID != "b" || got[2].ID != "c" {
		t.Errorf("expected a, b, c; got %s, %s, %s", got[0].ID, got[1].ID, got[2].ID)
	}
}

func TestAggregate_ResolvesAssetRelation(t *testing.T) {
	agg := NewAggregator(fixedNow)
	lab := &model.Ruangan{Nama: "Lab Jaringan", StatusAset: model.StatusSedangDipinjam, Jurusan: &model.Jurusan{Nama: "Teknik Informatika"}}

	b := model.Peminjaman{Booking: model.Booking{
		ID: "b1", IDPeminjam: "u", Kegiatan: "Praktikum",
		AssetLink:       model.AssetLink{IDLab: "l1", Lab: lab},
		StatusPengajuan: model.PengajuanApproved,
	}}

	got := agg.Aggregate("u", []model.Peminjaman{b}, nil, nil)[0]
	if got.AssetName != "Lab Jaringan" || got.AssetStatus != model.StatusSedangDipinjam || got.Department != "Teknik Informatika" {
		t.Errorf("unexpected entry %+v", got)
	}
	if got.AssetKind != model.KindLab {
		t.Errorf("expected lab, got %q", got.AssetKind)
	}
}

func TestSchema_FiltersByKind(t *testing.T) {
	entries := []Entry{{Kind: KindBorrow, Purpose: "Seminar"}, {Kind: KindRepair, Purpose: "Kipas rusak"}}

	page := Schema.Apply(entries, tableview.Query{Filters: map[tableview.Field]string{tableview.FieldKind: string(KindRepair)}})
	if page.Total != 1 || page.Items[0].Kind != KindRepair {
		t.Errorf("expected only the repair, got %+v", page.Items)
	}
}
