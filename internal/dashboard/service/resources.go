package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"sarpras/internal/dashboard/validator"
	"sarpras/internal/export"
	"sarpras/internal/tableview"
	"sarpras/pkg/client"
	apperrors "sarpras/pkg/errors"
	"sarpras/pkg/model"
	"sarpras/pkg/sanitizer"
)

// resource is one backend collection with its table schema, erased so the
// handlers can route by name.
type resource interface {
	Name() string
	Path() string
	ViaFlow() bool
	Fields() []tableview.Field

	list(ctx context.Context, b *client.Backend, page, rows int) (any, int, error)
	get(ctx context.Context, b *client.Backend, id string) (any, error)
	create(ctx context.Context, b *client.Backend, v *validator.Validator, body []byte) (*client.MutationResult, error)
	update(ctx context.Context, b *client.Backend, v *validator.Validator, id string, body []byte) (*client.MutationResult, error)
	remove(ctx context.Context, b *client.Backend, ids []string) (*client.MutationResult, error)
	view(ctx context.Context, b *client.Backend, fetchRows int, q tableview.Query) (any, error)
	table(ctx context.Context, b *client.Backend, fetchRows int, q tableview.Query) (export.Table, error)
}

// entity binds a backend collection to its schema. check adds rules the
// struct tags cannot express. Collections with viaFlow set are written by
// their wizard flows only, so raw create and update are refused.
type entity[T any] struct {
	name     string
	pick     func(*client.Backend) *client.Resource[T]
	schema   *tableview.Schema[T]
	sanitize func(*T)
	check    func(item *T, creating bool) validator.ValidationErrors
	viaFlow  bool
}

func (e *entity[T]) Name() string              { return e.name }
func (e *entity[T]) Path() string              { return "/" + e.name }
func (e *entity[T]) ViaFlow() bool             { return e.viaFlow }
func (e *entity[T]) Fields() []tableview.Field { return e.schema.Fields() }

func (e *entity[T]) list(ctx context.Context, b *client.Backend, page, rows int) (any, int, error) {
	p, err := e.pick(b).List(ctx, page, rows)
	if err != nil {
		return nil, 0, err
	}
	entries := p.Entries
	if entries == nil {
		entries = []T{}
	}
	return entries, p.TotalData, nil
}

func (e *entity[T]) get(ctx context.Context, b *client.Backend, id string) (any, error) {
	return e.pick(b).Get(ctx, id)
}

func (e *entity[T]) decode(v *validator.Validator, body []byte, creating bool) (*T, error) {
	item := new(T)
	if err := json.Unmarshal(body, item); err != nil {
		return nil, apperrors.InvalidInput("Invalid request body")
	}
	if e.sanitize != nil {
		e.sanitize(item)
	}

	var verrs validator.ValidationErrors
	if err := v.Struct(item); err != nil && !errors.As(err, &verrs) {
		return nil, err
	}
	if e.check != nil {
		verrs = append(verrs, e.check(item, creating)...)
	}
	if len(verrs) > 0 {
		return nil, apperrors.Validation(e.name+" validation failed", verrs.Details())
	}
	return item, nil
}

func (e *entity[T]) refuseRawWrite(verb string) error {
	return apperrors.InvalidInput(fmt.Sprintf("%s records are written through the %s_%s flow", e.name, verb, e.name)).
		WithDetails(map[string]any{"flow": verb + "_" + e.name})
}

func (e *entity[T]) create(ctx context.Context, b *client.Backend, v *validator.Validator, body []byte) (*client.MutationResult, error) {
	if e.viaFlow {
		return nil, e.refuseRawWrite("create")
	}
	item, err := e.decode(v, body, true)
	if err != nil {
		return nil, err
	}
	return e.pick(b).Create(ctx, item)
}

func (e *entity[T]) update(ctx context.Context, b *client.Backend, v *validator.Validator, id string, body []byte) (*client.MutationResult, error) {
	if e.viaFlow {
		return nil, e.refuseRawWrite("update")
	}
	item, err := e.decode(v, body, false)
	if err != nil {
		return nil, err
	}
	return e.pick(b).Update(ctx, id, item)
}

func (e *entity[T]) remove(ctx context.Context, b *client.Backend, ids []string) (*client.MutationResult, error) {
	return e.pick(b).Delete(ctx, ids)
}

func (e *entity[T]) filtered(ctx context.Context, b *client.Backend, fetchRows int, q tableview.Query) ([]T, error) {
	if err := e.schema.Check(q); err != nil {
		return nil, apperrors.InvalidInput(err.Error())
	}
	items, err := e.pick(b).All(ctx, fetchRows)
	if err != nil {
		return nil, err
	}
	return e.schema.Filter(items, q), nil
}

func (e *entity[T]) view(ctx context.Context, b *client.Backend, fetchRows int, q tableview.Query) (any, error) {
	items, err := e.filtered(ctx, b, fetchRows, q)
	if err != nil {
		return nil, err
	}
	return tableview.Paginate(items, q.Page, q.Size), nil
}

func (e *entity[T]) table(ctx context.Context, b *client.Backend, fetchRows int, q tableview.Query) (export.Table, error) {
	items, err := e.filtered(ctx, b, fetchRows, q)
	if err != nil {
		return export.Table{}, err
	}
	return export.FromSchema(e.schema, items), nil
}

type registry map[string]resource

func (r registry) lookup(name string) (resource, error) {
	res, ok := r[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, apperrors.NotFound(fmt.Sprintf("resource %q", name))
	}
	return res, nil
}

func (r registry) names() []string {
	out := make([]string, 0, len(r))
	for name := range r {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

func newRegistry() registry {
	r := registry{}
	add := func(res resource) { r[res.Name()] = res }

	add(&entity[model.User]{
		name:   "users",
		pick:   func(b *client.Backend) *client.Resource[model.User] { return b.Users },
		schema: tableview.Users,
		sanitize: func(u *model.User) {
			u.Nama = sanitizer.NormalizeName(u.Nama)
			u.Email = sanitizer.NormalizeEmail(u.Email)
			u.NoHP = sanitizer.NormalizePhone(u.NoHP)
			u.Role = model.Role(strings.ToUpper(strings.TrimSpace(string(u.Role))))
			u.IDJurusan = strings.TrimSpace(u.IDJurusan)
			u.Jurusan = nil
		},
		check: func(u *model.User, creating bool) validator.ValidationErrors {
			if creating && u.Password == "" {
				return validator.ValidationErrors{{Field: "password", Message: "password is required"}}
			}
			return nil
		},
	})
	add(&entity[model.Jurusan]{
		name:   "jurusan",
		pick:   func(b *client.Backend) *client.Resource[model.Jurusan] { return b.Jurusan },
		schema: tableview.Jurusan,
		sanitize: func(j *model.Jurusan) {
			j.Nama = sanitizer.NormalizeName(j.Nama)
			j.Kode = sanitizer.NormalizeCode(j.Kode)
		},
	})
	add(&entity[model.Gedung]{
		name:   "gedung",
		pick:   func(b *client.Backend) *client.Resource[model.Gedung] { return b.Gedung },
		schema: tableview.Gedung,
		sanitize: func(g *model.Gedung) {
			g.Nama = sanitizer.NormalizeName(g.Nama)
			g.Kode = sanitizer.NormalizeCode(g.Kode)
			g.JumlahLantai = sanitizer.NonNegative(g.JumlahLantai)
		},
	})
	add(&entity[model.Shift]{
		name:   "shift",
		pick:   func(b *client.Backend) *client.Resource[model.Shift] { return b.Shift },
		schema: tableview.Shift,
		sanitize: func(s *model.Shift) {
			s.Nama = sanitizer.NormalizeName(s.Nama)
			s.JamMulai = strings.TrimSpace(s.JamMulai)
			s.JamSelesai = strings.TrimSpace(s.JamSelesai)
		},
	})
	add(&entity[model.Alat]{
		name:   "alat",
		pick:   func(b *client.Backend) *client.Resource[model.Alat] { return b.Alat },
		schema: tableview.Alat,
		sanitize: func(a *model.Alat) {
			a.Nama = sanitizer.NormalizeName(a.Nama)
			a.Kode = sanitizer.NormalizeCode(a.Kode)
			a.Foto = sanitizer.NormalizeURL(a.Foto)
			a.StatusAset = upperStatus(a.StatusAset)
			a.IDLab = strings.TrimSpace(a.IDLab)
			a.Lab = nil
		},
	})
	add(&entity[model.Ruangan]{
		name:   "ruangan",
		pick:   func(b *client.Backend) *client.Resource[model.Ruangan] { return b.Ruangan },
		schema: tableview.Ruangan,
		sanitize: func(r *model.Ruangan) {
			r.Nama = sanitizer.NormalizeName(r.Nama)
			r.Kode = sanitizer.NormalizeCode(r.Kode)
			r.Jenis = model.JenisRuangan(strings.ToUpper(strings.TrimSpace(string(r.Jenis))))
			r.Foto = sanitizer.NormalizeURL(r.Foto)
			r.StatusAset = upperStatus(r.StatusAset)
			r.IDGedung = strings.TrimSpace(r.IDGedung)
			r.IDJurusan = strings.TrimSpace(r.IDJurusan)
			r.Gedung, r.Jurusan = nil, nil
		},
		check: func(r *model.Ruangan, _ bool) validator.ValidationErrors {
			if r.Jenis == model.RuanganLab && r.IDJurusan == "" {
				return validator.ValidationErrors{{Field: "idJurusan", Message: "a lab belongs to a jurusan"}}
			}
			return nil
		},
	})
	add(&entity[model.Fasilitas]{
		name:   "fasilitas",
		pick:   func(b *client.Backend) *client.Resource[model.Fasilitas] { return b.Fasilitas },
		schema: tableview.Fasilitas,
		sanitize: func(f *model.Fasilitas) {
			f.Nama = sanitizer.NormalizeName(f.Nama)
			f.StatusAset = upperStatus(f.StatusAset)
			f.IDRuangan = strings.TrimSpace(f.IDRuangan)
			f.Ruangan = nil
		},
	})
	add(&entity[model.Peminjaman]{
		name:    "peminjaman",
		pick:    func(b *client.Backend) *client.Resource[model.Peminjaman] { return b.Peminjaman },
		schema:  tableview.Peminjaman,
		viaFlow: true,
	})
	add(&entity[model.Penyewaan]{
		name:    "penyewaan",
		pick:    func(b *client.Backend) *client.Resource[model.Penyewaan] { return b.Penyewaan },
		schema:  tableview.Penyewaan,
		viaFlow: true,
	})
	add(&entity[model.Pengembalian]{
		name:    "pengembalian",
		pick:    func(b *client.Backend) *client.Resource[model.Pengembalian] { return b.Pengembalian },
		schema:  tableview.Pengembalian,
		viaFlow: true,
	})
	add(&entity[model.Perbaikan]{
		name:   "perbaikan",
		pick:   func(b *client.Backend) *client.Resource[model.Perbaikan] { return b.Perbaikan },
		schema: tableview.Perbaikan,
		sanitize: func(p *model.Perbaikan) {
			p.Kerusakan = sanitizer.TrimAndNormalize(p.Kerusakan)
			p.Foto = sanitizer.NormalizeURL(p.Foto)
			p.IDPelapor = strings.TrimSpace(p.IDPelapor)
			p.AssetLink = model.AssetLink{
				IDRuanganUmum: strings.TrimSpace(p.IDRuanganUmum),
				IDLab:         strings.TrimSpace(p.IDLab),
				IDAlat:        strings.TrimSpace(p.IDAlat),
			}
			p.Pelapor = nil
		},
		check: func(p *model.Perbaikan, _ bool) validator.ValidationErrors {
			set := 0
			for _, id := range [...]string{p.IDRuanganUmum, p.IDLab, p.IDAlat} {
				if id != "" {
					set++
				}
			}
			if set != 1 {
				return validator.ValidationErrors{{Field: "aset", Message: "exactly one of idRuanganUmum, idLab and idAlat is required"}}
			}
			return nil
		},
	})
	return r
}

func upperStatus(s model.StatusAset) model.StatusAset {
	return model.StatusAset(strings.ToUpper(strings.TrimSpace(string(s))))
}
