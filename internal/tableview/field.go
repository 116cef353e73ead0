package tableview

// Field identifies a filterable or searchable column. The set is closed;
// ParseField rejects anything else.
type Field string

const (
	FieldNama            Field = "nama"
	FieldKode            Field = "kode"
	FieldEmail           Field = "email"
	FieldNoHP            Field = "noHp"
	FieldRole            Field = "role"
	FieldJurusan         Field = "jurusan"
	FieldGedung          Field = "gedung"
	FieldLantai          Field = "lantai"
	FieldJumlahLantai    Field = "jumlahLantai"
	FieldJenis           Field = "jenis"
	FieldKapasitas       Field = "kapasitas"
	FieldLab             Field = "lab"
	FieldRuangan         Field = "ruangan"
	FieldJamMulai        Field = "jamMulai"
	FieldJamSelesai      Field = "jamSelesai"
	FieldHarga           Field = "harga"
	FieldJumlah          Field = "jumlah"
	FieldStatusAset      Field = "statusAset"
	FieldStatusPengajuan Field = "statusPengajuan"
	FieldPeminjam        Field = "peminjam"
	FieldAset            Field = "aset"
	FieldJenisAset       Field = "jenisAset"
	FieldKegiatan        Field = "kegiatan"
	FieldShift           Field = "shift"
	FieldTanggalMulai    Field = "tanggalMulai"
	FieldTanggalSelesai  Field = "tanggalSelesai"
	FieldInstansi        Field = "namaInstansi"
	FieldTotalBiaya      Field = "totalBiaya"
	FieldTanggalKembali  Field = "tanggalPengembalian"
	FieldKondisi         Field = "kondisi"
	FieldDenda           Field = "denda"
	FieldSumber          Field = "sumber"
	FieldKerusakan       Field = "kerusakan"
	FieldPelapor         Field = "pelapor"
	FieldKind            Field = "kind"
)

var knownFields = map[Field]struct{}{}

func init() {
	for _, f := range []Field{
		FieldNama, FieldKode, FieldEmail, FieldNoHP, FieldRole, FieldJurusan, FieldGedung,
		FieldLantai, FieldJumlahLantai, FieldJenis, FieldKapasitas, FieldLab, FieldRuangan,
		FieldJamMulai, FieldJamSelesai, FieldHarga, FieldJumlah, FieldStatusAset,
		FieldStatusPengajuan, FieldPeminjam, FieldAset, FieldJenisAset, FieldKegiatan, FieldShift,
		FieldTanggalMulai, FieldTanggalSelesai, FieldInstansi, FieldTotalBiaya, FieldTanggalKembali,
		FieldKondisi, FieldDenda, FieldSumber, FieldKerusakan, FieldPelapor, FieldKind,
	} {
		knownFields[f] = struct{}{}
	}
}

func ParseField(s string) (Field, bool) {
	f := Field(s)
	_, ok := knownFields[f]
	return f, ok
}
