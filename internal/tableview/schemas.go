package tableview

import (
	"time"

	"sarpras/pkg/model"
)

const dateLayout = time.DateOnly

func formatDate(d model.Date) string {
	if !d.Valid {
		return ""
	}
	return d.Format(dateLayout)
}

func jurusanName(j *model.Jurusan) string {
	if j == nil {
		return ""
	}
	return j.Nama
}

func gedungName(g *model.Gedung) string {
	if g == nil {
		return ""
	}
	return g.Nama
}

func ruanganName(r *model.Ruangan) string {
	if r == nil {
		return ""
	}
	return r.Nama
}

func shiftName(s *model.Shift) string {
	if s == nil {
		return ""
	}
	return s.Nama
}

func userName(u *model.User) string {
	if u == nil {
		return ""
	}
	return u.Nama
}

var Users = NewSchema[model.User]("users").
	Text(FieldNama, "Nama", func(u model.User) string { return u.Nama }).
	Text(FieldEmail, "Email", func(u model.User) string { return u.Email }).
	Text(FieldNoHP, "No HP", func(u model.User) string { return u.NoHP }).
	Text(FieldRole, "Role", func(u model.User) string { return string(u.Role) }).
	Text(FieldJurusan, "Jurusan", func(u model.User) string { return jurusanName(u.Jurusan) }).
	Search(FieldNama, FieldEmail, FieldNoHP, FieldRole, FieldJurusan)

var Jurusan = NewSchema[model.Jurusan]("jurusan").
	Text(FieldNama, "Nama", func(j model.Jurusan) string { return j.Nama }).
	Text(FieldKode, "Kode", func(j model.Jurusan) string { return j.Kode }).
	Search(FieldNama, FieldKode)

var Gedung = NewSchema[model.Gedung]("gedung").
	Text(FieldNama, "Nama", func(g model.Gedung) string { return g.Nama }).
	Text(FieldKode, "Kode", func(g model.Gedung) string { return g.Kode }).
	Number(FieldJumlahLantai, "Jumlah Lantai", func(g model.Gedung) int64 { return int64(g.JumlahLantai) }).
	Search(FieldNama, FieldKode, FieldJumlahLantai)

var Shift = NewSchema[model.Shift]("shift").
	Text(FieldNama, "Nama", func(s model.Shift) string { return s.Nama }).
	Text(FieldJamMulai, "Jam Mulai", func(s model.Shift) string { return s.JamMulai }).
	Text(FieldJamSelesai, "Jam Selesai", func(s model.Shift) string { return s.JamSelesai }).
	Search(FieldNama, FieldJamMulai, FieldJamSelesai)

var Ruangan = NewSchema[model.Ruangan]("ruangan").
	Text(FieldNama, "Nama", func(r model.Ruangan) string { return r.Nama }).
	Text(FieldKode, "Kode", func(r model.Ruangan) string { return r.Kode }).
	Text(FieldJenis, "Jenis", func(r model.Ruangan) string { return string(r.Jenis) }).
	Text(FieldGedung, "Gedung", func(r model.Ruangan) string { return gedungName(r.Gedung) }).
	Number(FieldLantai, "Lantai", func(r model.Ruangan) int64 { return int64(r.Lantai) }).
	Number(FieldKapasitas, "Kapasitas", func(r model.Ruangan) int64 { return int64(r.Kapasitas) }).
	Text(FieldJurusan, "Jurusan", func(r model.Ruangan) string { return jurusanName(r.Jurusan) }).
	Number(FieldHarga, "Harga", func(r model.Ruangan) int64 { return r.Harga }).
	Text(FieldStatusAset, "Status", func(r model.Ruangan) string { return string(r.StatusAset) }).
	Search(FieldNama, FieldKode, FieldGedung, FieldLantai, FieldJurusan, FieldHarga, FieldStatusAset)

var Alat = NewSchema[model.Alat]("alat").
	Text(FieldNama, "Nama", func(a model.Alat) string { return a.Nama }).
	Text(FieldKode, "Kode", func(a model.Alat) string { return a.Kode }).
	Text(FieldLab, "Lab", func(a model.Alat) string { return ruanganName(a.Lab) }).
	Text(FieldJurusan, "Jurusan", func(a model.Alat) string { return a.Department() }).
	Number(FieldJumlah, "Jumlah", func(a model.Alat) int64 { return int64(a.Jumlah) }).
	Number(FieldHarga, "Harga", func(a model.Alat) int64 { return a.Harga }).
	Text(FieldStatusAset, "Status", func(a model.Alat) string { return string(a.StatusAset) }).
	Search(FieldNama, FieldKode, FieldLab, FieldJurusan, FieldJumlah, FieldHarga, FieldStatusAset)

var Fasilitas = NewSchema[model.Fasilitas]("fasilitas").
	Text(FieldNama, "Nama", func(f model.Fasilitas) string { return f.Nama }).
	Text(FieldRuangan, "Ruangan", func(f model.Fasilitas) string { return ruanganName(f.Ruangan) }).
	Number(FieldJumlah, "Jumlah", func(f model.Fasilitas) int64 { return int64(f.Jumlah) }).
	Number(FieldHarga, "Harga", func(f model.Fasilitas) int64 { return f.Harga }).
	Text(FieldStatusAset, "Status", func(f model.Fasilitas) string { return string(f.StatusAset) }).
	Search(FieldNama, FieldRuangan, FieldJumlah, FieldHarga)

var Peminjaman = NewSchema[model.Peminjaman]("peminjaman").
	Text(FieldPeminjam, "Peminjam", func(p model.Peminjaman) string { return p.RequesterName() }).
	Text(FieldKegiatan, "Kegiatan", func(p model.Peminjaman) string { return p.Kegiatan }).
	Text(FieldJenisAset, "Jenis Aset", func(p model.Peminjaman) string { return string(p.Kind()) }).
	Text(FieldAset, "Aset", func(p model.Peminjaman) string { return p.AssetName() }).
	Text(FieldJurusan, "Jurusan", func(p model.Peminjaman) string { return p.Department() }).
	Text(FieldGedung, "Gedung", func(p model.Peminjaman) string { return p.Building() }).
	Text(FieldShift, "Shift", func(p model.Peminjaman) string { return shiftName(p.Shift) }).
	Text(FieldTanggalMulai, "Tanggal Mulai", func(p model.Peminjaman) string { return formatDate(p.TanggalMulai) }).
	Text(FieldTanggalSelesai, "Tanggal Selesai", func(p model.Peminjaman) string { return formatDate(p.TanggalSelesai) }).
	Number(FieldJumlah, "Jumlah", func(p model.Peminjaman) int64 { return int64(p.Jumlah) }).
	Text(FieldStatusAset, "Status Aset", func(p model.Peminjaman) string { return string(p.AssetStatus()) }).
	Text(FieldStatusPengajuan, "Status Pengajuan", func(p model.Peminjaman) string { return string(p.StatusPengajuan) }).
	Search(FieldPeminjam, FieldKegiatan, FieldAset, FieldJurusan, FieldGedung, FieldShift, FieldStatusPengajuan)

var Penyewaan = NewSchema[model.Penyewaan]("penyewaan").
	Text(FieldPeminjam, "Penyewa", func(p model.Penyewaan) string { return p.RequesterName() }).
	Text(FieldInstansi, "Instansi", func(p model.Penyewaan) string { return p.NamaInstansi }).
	Text(FieldKegiatan, "Kegiatan", func(p model.Penyewaan) string { return p.Kegiatan }).
	Text(FieldJenisAset, "Jenis Aset", func(p model.Penyewaan) string { return string(p.Kind()) }).
	Text(FieldAset, "Aset", func(p model.Penyewaan) string { return p.AssetName() }).
	Text(FieldJurusan, "Jurusan", func(p model.Penyewaan) string { return p.Department() }).
	Text(FieldGedung, "Gedung", func(p model.Penyewaan) string { return p.Building() }).
	Text(FieldShift, "Shift", func(p model.Penyewaan) string { return shiftName(p.Shift) }).
	Text(FieldTanggalMulai, "Tanggal Mulai", func(p model.Penyewaan) string { return formatDate(p.TanggalMulai) }).
	Text(FieldTanggalSelesai, "Tanggal Selesai", func(p model.Penyewaan) string { return formatDate(p.TanggalSelesai) }).
	Number(FieldTotalBiaya, "Total Biaya", func(p model.Penyewaan) int64 { return p.TotalBiaya }).
	Text(FieldStatusAset, "Status Aset", func(p model.Penyewaan) string { return string(p.AssetStatus()) }).
	Text(FieldStatusPengajuan, "Status Pengajuan", func(p model.Penyewaan) string { return string(p.StatusPengajuan) }).
	Search(FieldPeminjam, FieldInstansi, FieldKegiatan, FieldAset, FieldJurusan, FieldGedung, FieldShift, FieldTotalBiaya, FieldStatusPengajuan)

var Pengembalian = NewSchema[model.Pengembalian]("pengembalian").
	Text(FieldSumber, "Sumber", func(p model.Pengembalian) string { return returnSource(p) }).
	Text(FieldPeminjam, "Peminjam", func(p model.Pengembalian) string {
		if b := p.Source(); b != nil {
			return b.RequesterName()
		}
		return ""
	}).
	Text(FieldAset, "Aset", func(p model.Pengembalian) string {
		if b := p.Source(); b != nil {
			return b.AssetName()
		}
		return ""
	}).
	Text(FieldTanggalKembali, "Tanggal Pengembalian", func(p model.Pengembalian) string { return formatDate(p.TanggalPengembalian) }).
	Text(FieldKondisi, "Kondisi", func(p model.Pengembalian) string { return string(p.Kondisi) }).
	Number(FieldDenda, "Denda", func(p model.Pengembalian) int64 { return p.Denda }).
	Search(FieldPeminjam, FieldAset, FieldKondisi, FieldDenda)

func returnSource(p model.Pengembalian) string {
	switch {
	case p.IDPeminjaman != "":
		return "peminjaman"
	case p.IDPenyewaan != "":
		return "penyewaan"
	}
	return ""
}

var Perbaikan = NewSchema[model.Perbaikan]("perbaikan").
	Text(FieldPelapor, "Pelapor", func(p model.Perbaikan) string { return userName(p.Pelapor) }).
	Text(FieldJenisAset, "Jenis Aset", func(p model.Perbaikan) string { return string(p.Kind()) }).
	Text(FieldAset, "Aset", func(p model.Perbaikan) string { return p.AssetName() }).
	Text(FieldJurusan, "Jurusan", func(p model.Perbaikan) string { return p.Department() }).
	Text(FieldKerusakan, "Kerusakan", func(p model.Perbaikan) string { return p.Kerusakan }).
	Text(FieldStatusAset, "Status Aset", func(p model.Perbaikan) string { return string(p.AssetStatus()) }).
	Text(FieldStatusPengajuan, "Status Pengajuan", func(p model.Perbaikan) string { return string(p.StatusPengajuan) }).
	Search(FieldPelapor, FieldAset, FieldJurusan, FieldKerusakan, FieldStatusPengajuan)
