package history

import (
	"slices"
	"time"

	"sarpras/internal/tableview"
	"sarpras/pkg/model"
)

type Kind string

const (
	KindBorrow Kind = "peminjaman"
	KindRental Kind = "penyewaan"
	KindRepair Kind = "perbaikan"
)

func (k Kind) Valid() bool {
	switch k {
	case KindBorrow, KindRental, KindRepair:
		return true
	}
	return false
}

// Entry is one row of a user's history feed.
type Entry struct {
	Kind             Kind                  `json:"kind"`
	ID               string                `json:"id"`
	Requester        string                `json:"requester"`
	Purpose          string                `json:"purpose"`
	Start            model.Date            `json:"start"`
	End              model.Date            `json:"end"`
	AssetKind        model.AssetKind       `json:"assetKind,omitempty"`
	AssetName        string                `json:"assetName"`
	AssetStatus      model.StatusAset      `json:"assetStatus"`
	SubmissionStatus model.StatusPengajuan `json:"submissionStatus"`
	Department       string                `json:"department"`
	TotalCost        *int64                `json:"totalCost,omitempty"`

	at time.Time
}

type Aggregator struct {
	now func() time.Time
}

func NewAggregator(now func() time.Time) *Aggregator {
	if now == nil {
		now = time.Now
	}
	return &Aggregator{now: now}
}

// Aggregate merges userID's borrowings, rentals and repairs, newest first.
// Repairs carry no dates and sort as the current moment.
func (a *Aggregator) Aggregate(userID string, borrowings []model.Peminjaman, rentals []model.Penyewaan, repairs []model.Perbaikan) []Entry {
	now := a.now()
	out := make([]Entry, 0, len(borrowings)+len(rentals)+len(repairs))

	for _, b := range borrowings {
		if !b.OwnedBy(userID) {
			continue
		}
		out = append(out, fromBooking(KindBorrow, b.Booking))
	}
	for _, r := range rentals {
		if !r.OwnedBy(userID) {
			continue
		}
		e := fromBooking(KindRental, r.Booking)
		cost := r.TotalBiaya
		e.TotalCost = &cost
		out = append(out, e)
	}
	for _, p := range repairs {
		if userID == "" || p.IDPelapor != userID {
			continue
		}
		out = append(out, Entry{
			Kind:             KindRepair,
			ID:               p.ID,
			Requester:        p.ReporterName(),
			Purpose:          p.Kerusakan,
			AssetKind:        p.Kind(),
			AssetName:        p.AssetName(),
			AssetStatus:      p.AssetStatus(),
			SubmissionStatus: p.StatusPengajuan,
			Department:       p.Department(),
			at:               now,
		})
	}

	slices.SortStableFunc(out, func(x, y Entry) int {
		return y.at.Compare(x.at)
	})
	return out
}

func fromBooking(kind Kind, b model.Booking) Entry {
	e := Entry{
		Kind:             kind,
		ID:               b.ID,
		Requester:        b.RequesterName(),
		Purpose:          b.Kegiatan,
		Start:            b.TanggalMulai,
		End:              b.TanggalSelesai,
		AssetKind:        b.Kind(),
		AssetName:        b.AssetName(),
		AssetStatus:      b.AssetStatus(),
		SubmissionStatus: b.StatusPengajuan,
		Department:       b.Department(),
	}
	if b.TanggalMulai.Valid {
		e.at = b.TanggalMulai.Time
	}
	return e
}

// Schema is the table view over a history feed.
var Schema = tableview.NewSchema[Entry]("history").
	Text(tableview.FieldKind, "Jenis", func(e Entry) string { return string(e.Kind) }).
	Text(tableview.FieldPeminjam, "Pemohon", func(e Entry) string { return e.Requester }).
	Text(tableview.FieldKegiatan, "Keperluan", func(e Entry) string { return e.Purpose }).
	Text(tableview.FieldAset, "Aset", func(e Entry) string { return e.AssetName }).
	Text(tableview.FieldJurusan, "Jurusan", func(e Entry) string { return e.Department }).
	Text(tableview.FieldTanggalMulai, "Tanggal Mulai", func(e Entry) string { return dateString(e.Start) }).
	Text(tableview.FieldTanggalSelesai, "Tanggal Selesai", func(e Entry) string { return dateString(e.End) }).
	Text(tableview.FieldStatusAset, "Status Aset", func(e Entry) string { return string(e.AssetStatus) }).
	Text(tableview.FieldStatusPengajuan, "Status Pengajuan", func(e Entry) string { return string(e.SubmissionStatus) }).
	Number(tableview.FieldTotalBiaya, "Total Biaya", func(e Entry) int64 {
		if e.TotalCost == nil {
			return 0
		}
		return *e.TotalCost
	}).
	Search(tableview.FieldPeminjam, tableview.FieldKegiatan, tableview.FieldAset, tableview.FieldJurusan,
		tableview.FieldStatusAset, tableview.FieldStatusPengajuan)

func dateString(d model.Date) string {
	if !d.Valid {
		return ""
	}
	return d.Format(time.DateOnly)
}
