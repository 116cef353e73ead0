package model

// StatusAset is the availability state the backend keeps for an asset.
type StatusAset string

const (
	StatusTersedia         StatusAset = "TERSEDIA"
	StatusTidakTersedia    StatusAset = "TIDAK_TERSEDIA"
	StatusSedangDiperbaiki StatusAset = "SEDANG_DIPERBAIKI"
	StatusSedangDipinjam   StatusAset = "SEDANG_DIPINJAM"
	StatusSedangDisewa     StatusAset = "SEDANG_DISEWA"
)

// Selectable reports whether a wizard may offer the asset for a new booking.
func (s StatusAset) Selectable() bool {
	return s == StatusTersedia
}

// StatusPengajuan is the approval state of a borrowing, rental or repair.
type StatusPengajuan string

const (
	PengajuanPending  StatusPengajuan = "PENDING"
	PengajuanApproved StatusPengajuan = "APPROVED"
	PengajuanRejected StatusPengajuan = "REJECTED"
)

func (s StatusPengajuan) Valid() bool {
	switch s {
	case PengajuanPending, PengajuanApproved, PengajuanRejected:
		return true
	}
	return false
}

type Role string

const (
	RoleSuperAdmin Role = "SUPERADMIN"
	RoleAdmin      Role = "ADMIN"
	RoleUser       Role = "USER"
)

func (r Role) IsAdmin() bool {
	return r == RoleSuperAdmin || r == RoleAdmin
}

type JenisRuangan string

const (
	RuanganUmum JenisRuangan = "UMUM"
	RuanganLab  JenisRuangan = "LAB"
)

type Kondisi string

const (
	KondisiBaik        Kondisi = "BAIK"
	KondisiRusakRingan Kondisi = "RUSAK_RINGAN"
	KondisiRusakBerat  Kondisi = "RUSAK_BERAT"
	KondisiHilang      Kondisi = "HILANG"
)
