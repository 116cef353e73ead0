package model

type Ruangan struct {
	ID         string       `json:"id,omitempty"`
	Nama       string       `json:"nama" validate:"required,min=2,max=100"`
	Kode       string       `json:"kode,omitempty" validate:"omitempty,max=20"`
	Jenis      JenisRuangan `json:"jenis" validate:"required,oneof=UMUM LAB"`
	Lantai     int          `json:"lantai" validate:"min=0"`
	Kapasitas  int          `json:"kapasitas" validate:"min=0"`
	Harga      int64        `json:"harga" validate:"min=0"`
	Deskripsi  string       `json:"deskripsi,omitempty"`
	Foto       string       `json:"foto,omitempty" validate:"omitempty,url"`
	StatusAset StatusAset   `json:"statusAset" validate:"required,oneof=TERSEDIA TIDAK_TERSEDIA SEDANG_DIPERBAIKI SEDANG_DIPINJAM SEDANG_DISEWA"`
	IDGedung   string       `json:"idGedung" validate:"required"`
	Gedung     *Gedung      `json:"gedung,omitempty"`
	IDJurusan  string       `json:"idJurusan,omitempty"`
	Jurusan    *Jurusan     `json:"jurusan,omitempty"`
}

type Alat struct {
	ID         string     `json:"id,omitempty"`
	Nama       string     `json:"nama" validate:"required,min=2,max=100"`
	Kode       string     `json:"kode,omitempty" validate:"omitempty,max=20"`
	Jumlah     int        `json:"jumlah" validate:"min=0"`
	Harga      int64      `json:"harga" validate:"min=0"`
	Foto       string     `json:"foto,omitempty" validate:"omitempty,url"`
	StatusAset StatusAset `json:"statusAset" validate:"required,oneof=TERSEDIA TIDAK_TERSEDIA SEDANG_DIPERBAIKI SEDANG_DIPINJAM SEDANG_DISEWA"`
	IDLab      string     `json:"idLab,omitempty"`
	Lab        *Ruangan   `json:"lab,omitempty"`
}

// Department resolves through the lab the tool belongs to.
func (a *Alat) Department() string {
	if a == nil || a.Lab == nil || a.Lab.Jurusan == nil {
		return ""
	}
	return a.Lab.Jurusan.Nama
}

type Fasilitas struct {
	ID         string     `json:"id,omitempty"`
	Nama       string     `json:"nama" validate:"required,min=2,max=100"`
	Jumlah     int        `json:"jumlah" validate:"min=0"`
	Harga      int64      `json:"harga" validate:"min=0"`
	StatusAset StatusAset `json:"statusAset,omitempty" validate:"omitempty,oneof=TERSEDIA TIDAK_TERSEDIA SEDANG_DIPERBAIKI SEDANG_DIPINJAM SEDANG_DISEWA"`
	IDRuangan  string     `json:"idRuangan,omitempty"`
	Ruangan    *Ruangan   `json:"ruangan,omitempty"`
}

// FasilitasItem is one facility line requested alongside a room booking.
type FasilitasItem struct {
	IDFasilitas string     `json:"idFasilitas" validate:"required"`
	Jumlah      int        `json:"jumlah" validate:"required,min=1"`
	Fasilitas   *Fasilitas `json:"fasilitas,omitempty"`
}
