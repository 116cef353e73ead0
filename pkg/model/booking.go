package model

// Booking carries the fields borrowings and rentals share.
type Booking struct {
	ID string `json:"id,omitempty"`
	AssetLink
	IDPeminjam         string          `json:"idPeminjam,omitempty"`
	Peminjam           *User           `json:"peminjam,omitempty"`
	Kegiatan           string          `json:"kegiatan"`
	TanggalMulai       Date            `json:"tanggalMulai"`
	TanggalSelesai     Date            `json:"tanggalSelesai"`
	IDShift            string          `json:"idShift,omitempty"`
	Shift              *Shift          `json:"shift,omitempty"`
	Jumlah             int             `json:"jumlah,omitempty"`
	Fasilitas          []FasilitasItem `json:"fasilitas,omitempty"`
	DokumenPendukung   string          `json:"dokumenPendukung,omitempty"`
	StatusPengajuan    StatusPengajuan `json:"statusPengajuan,omitempty"`
	DeskripsiPenolakan string          `json:"deskripsiPenolakan,omitempty"`
}

func (b Booking) RecordID() string           { return b.ID }
func (b Booking) Link() AssetLink            { return b.AssetLink }
func (b Booking) Status() StatusPengajuan    { return b.StatusPengajuan }
func (b Booking) Range() (start, end Date)   { return b.TanggalMulai, b.TanggalSelesai }
func (b Booking) OwnedBy(userID string) bool { return userID != "" && b.IDPeminjam == userID }
func (b Booking) RequesterName() string {
	if b.Peminjam == nil {
		return ""
	}
	return b.Peminjam.Nama
}

type Peminjaman struct {
	Booking
}

type Penyewaan struct {
	Booking
	NamaInstansi    string `json:"namaInstansi,omitempty"`
	TotalBiaya      int64  `json:"totalBiaya"`
	BuktiPembayaran string `json:"buktiPembayaran,omitempty"`
}

type Pengembalian struct {
	ID                  string      `json:"id,omitempty"`
	IDPeminjaman        string      `json:"idPeminjaman,omitempty"`
	Peminjaman          *Peminjaman `json:"peminjaman,omitempty"`
	IDPenyewaan         string      `json:"idPenyewaan,omitempty"`
	Penyewaan           *Penyewaan  `json:"penyewaan,omitempty"`
	TanggalPengembalian Date        `json:"tanggalPengembalian"`
	Kondisi             Kondisi     `json:"kondisi"`
	Denda               int64       `json:"denda"`
	Bukti               string      `json:"bukti,omitempty"`
	Keterangan          string      `json:"keterangan,omitempty"`
}

// Source returns the borrowing or rental this return closes.
func (p Pengembalian) Source() *Booking {
	switch {
	case p.Peminjaman != nil:
		return &p.Peminjaman.Booking
	case p.Penyewaan != nil:
		return &p.Penyewaan.Booking
	}
	return nil
}

type Perbaikan struct {
	ID string `json:"id,omitempty"`
	AssetLink
	IDPelapor          string          `json:"idPelapor,omitempty"`
	Pelapor            *User           `json:"pelapor,omitempty"`
	Kerusakan          string          `json:"kerusakan" validate:"required,min=3,max=500"`
	Foto               string          `json:"foto,omitempty" validate:"omitempty,url"`
	StatusPengajuan    StatusPengajuan `json:"statusPengajuan,omitempty"`
	DeskripsiPenolakan string          `json:"deskripsiPenolakan,omitempty"`
}

func (p Perbaikan) ReporterName() string {
	if p.Pelapor == nil {
		return ""
	}
	return p.Pelapor.Nama
}

// StatusChange is the body of the per-resource status routes.
type StatusChange struct {
	StatusPengajuan    StatusPengajuan `json:"statusPengajuan" validate:"required,oneof=PENDING APPROVED REJECTED"`
	DeskripsiPenolakan string          `json:"deskripsiPenolakan,omitempty" validate:"required_if=StatusPengajuan REJECTED,max=500"`
}
