package types

import (
	"strings"
	"time"

	"sarpras/pkg/model"
	"sarpras/pkg/sanitizer"
)

// AssetRequest is one asset picked in the wizard. Rooms ignore Jumlah.
type AssetRequest struct {
	ID        string                `json:"id" validate:"required"`
	Jumlah    int                   `json:"jumlah,omitempty" validate:"omitempty,min=1"`
	Fasilitas []model.FasilitasItem `json:"fasilitas,omitempty" validate:"omitempty,max=20,dive"`
}

// BookingInput defines the input of the borrowing and rental flows.
// ID is only read by the update flows.
type BookingInput struct {
	ID               string          `json:"id,omitempty"`
	JenisAset        model.AssetKind `json:"jenisAset" validate:"required,oneof=ruangan_umum lab alat"`
	Aset             []AssetRequest  `json:"aset" validate:"required,min=1,max=20,dive"`
	Kegiatan         string          `json:"kegiatan" validate:"required,min=3,max=255"`
	TanggalMulai     string          `json:"tanggalMulai" validate:"required,date_only"`
	TanggalSelesai   string          `json:"tanggalSelesai" validate:"required,date_only"`
	IDShift          string          `json:"idShift" validate:"required"`
	DokumenPendukung string          `json:"dokumenPendukung,omitempty" validate:"omitempty,url"`

	// Rentals only
	NamaInstansi    string `json:"namaInstansi,omitempty" validate:"omitempty,min=2,max=150"`
	BuktiPembayaran string `json:"buktiPembayaran,omitempty" validate:"omitempty,url"`
}

func FromMapBooking(input map[string]any) (*BookingInput, error) {
	in, err := decode[BookingInput](input)
	if err != nil {
		return nil, err
	}
	in.sanitize()
	return in, nil
}

func (i *BookingInput) ToMap() map[string]any { return toMap(i) }

func (i *BookingInput) sanitize() {
	i.ID = strings.TrimSpace(i.ID)
	i.JenisAset = model.AssetKind(strings.ToLower(strings.TrimSpace(string(i.JenisAset))))
	i.Kegiatan = sanitizer.TrimAndNormalize(i.Kegiatan)
	i.TanggalMulai = strings.TrimSpace(i.TanggalMulai)
	i.TanggalSelesai = strings.TrimSpace(i.TanggalSelesai)
	i.IDShift = strings.TrimSpace(i.IDShift)
	i.DokumenPendukung = sanitizer.NormalizeURL(i.DokumenPendukung)
	i.NamaInstansi = sanitizer.NormalizeName(i.NamaInstansi)
	i.BuktiPembayaran = sanitizer.NormalizeURL(i.BuktiPembayaran)
	for n := range i.Aset {
		i.Aset[n].ID = strings.TrimSpace(i.Aset[n].ID)
		for f := range i.Aset[n].Fasilitas {
			i.Aset[n].Fasilitas[f].IDFasilitas = strings.TrimSpace(i.Aset[n].Fasilitas[f].IDFasilitas)
		}
	}
}

// Range parses the requested dates. It is only meaningful after validation.
func (i *BookingInput) Range() (start, end time.Time) {
	start, _ = time.Parse(time.DateOnly, i.TanggalMulai)
	end, _ = time.Parse(time.DateOnly, i.TanggalSelesai)
	return start, end
}

// Body builds the booking fields every record of this submission shares.
func (i *BookingInput) Body() model.Booking {
	start, end := i.Range()
	return model.Booking{
		Kegiatan:         i.Kegiatan,
		TanggalMulai:     model.NewDate(start),
		TanggalSelesai:   model.NewDate(end),
		IDShift:          i.IDShift,
		DokumenPendukung: i.DokumenPendukung,
	}
}
