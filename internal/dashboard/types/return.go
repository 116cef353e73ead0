package types

import (
	"strings"
	"time"

	"sarpras/pkg/model"
	"sarpras/pkg/sanitizer"
)

// ReturnInput defines the input of the return flows. Exactly one of
// IDPeminjaman and IDPenyewaan names the booking being closed.
type ReturnInput struct {
	ID                  string        `json:"id,omitempty"`
	IDPeminjaman        string        `json:"idPeminjaman,omitempty" validate:"required_without=IDPenyewaan,excluded_with=IDPenyewaan"`
	IDPenyewaan         string        `json:"idPenyewaan,omitempty" validate:"required_without=IDPeminjaman"`
	TanggalPengembalian string        `json:"tanggalPengembalian" validate:"required,date_only"`
	Kondisi             model.Kondisi `json:"kondisi" validate:"required,oneof=BAIK RUSAK_RINGAN RUSAK_BERAT HILANG"`
	Denda               int64         `json:"denda" validate:"min=0"`
	Bukti               string        `json:"bukti,omitempty" validate:"omitempty,url"`
	Keterangan          string        `json:"keterangan,omitempty" validate:"max=500"`
}

func FromMapReturn(input map[string]any) (*ReturnInput, error) {
	in, err := decode[ReturnInput](input)
	if err != nil {
		return nil, err
	}
	in.ID = strings.TrimSpace(in.ID)
	in.IDPeminjaman = strings.TrimSpace(in.IDPeminjaman)
	in.IDPenyewaan = strings.TrimSpace(in.IDPenyewaan)
	in.TanggalPengembalian = strings.TrimSpace(in.TanggalPengembalian)
	in.Kondisi = model.Kondisi(strings.ToUpper(strings.TrimSpace(string(in.Kondisi))))
	in.Bukti = sanitizer.NormalizeURL(in.Bukti)
	in.Keterangan = sanitizer.TrimAndNormalize(in.Keterangan)
	return in, nil
}

func (i *ReturnInput) ToMap() map[string]any { return toMap(i) }

func (i *ReturnInput) Date() time.Time {
	t, _ := time.Parse(time.DateOnly, i.TanggalPengembalian)
	return t
}

func (i *ReturnInput) Body() model.Pengembalian {
	return model.Pengembalian{
		IDPeminjaman:        i.IDPeminjaman,
		IDPenyewaan:         i.IDPenyewaan,
		TanggalPengembalian: model.NewDate(i.Date()),
		Kondisi:             i.Kondisi,
		Denda:               i.Denda,
		Bukti:               i.Bukti,
		Keterangan:          i.Keterangan,
	}
}
