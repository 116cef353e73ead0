package testutil

import "sarpras/pkg/model"

type RuanganBuilder struct {
	r model.Ruangan
}

func NewRuanganBuilder(id string) *RuanganBuilder {
	return &RuanganBuilder{
		r: model.Ruangan{
			ID:         id,
			Nama:       "Ruang Seminar",
			Kode:       "RS1",
			Jenis:      model.RuanganUmum,
			Lantai:     1,
			Kapasitas:  40,
			Harga:      150000,
			StatusAset: model.StatusTersedia,
			IDGedung:   "gedung-1",
		},
	}
}

func (b *RuanganBuilder) WithNama(nama string) *RuanganBuilder {
	b.r.Nama = nama
	return b
}

func (b *RuanganBuilder) WithJenis(jenis model.JenisRuangan) *RuanganBuilder {
	b.r.Jenis = jenis
	return b
}

func (b *RuanganBuilder) WithLantai(lantai int) *RuanganBuilder {
	b.r.Lantai = lantai
	return b
}

func (b *RuanganBuilder) WithStatus(status model.StatusAset) *RuanganBuilder {
	b.r.StatusAset = status
	return b
}

func (b *RuanganBuilder) Build() model.Ruangan {
	return b.r
}
