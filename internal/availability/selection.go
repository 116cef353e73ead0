package availability

import (
	"fmt"

	"sarpras/pkg/model"
)

type FacilityLine struct {
	FacilityID string `json:"idFasilitas"`
	Name       string `json:"nama"`
	Quantity   int    `json:"jumlah"`
	UnitPrice  int64  `json:"harga"`
}

type Line struct {
	AssetID    string         `json:"assetId"`
	Name       string         `json:"nama"`
	Quantity   int            `json:"jumlah"`
	UnitPrice  int64          `json:"harga"`
	Facilities []FacilityLine `json:"fasilitas,omitempty"`
}

// Selection is the set of assets chosen in one wizard submission. It lives
// for a single request and is never stored.
type Selection struct {
	kind  model.AssetKind
	lines []Line
	held  map[string]bool
}

func NewSelection(kind model.AssetKind) (*Selection, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
	return &Selection{kind: kind}, nil
}

func (s *Selection) Kind() model.AssetKind { return s.kind }

func (s *Selection) Len() int { return len(s.lines) }

func (s *Selection) Lines() []Line {
	out := make([]Line, len(s.lines))
	copy(out, s.lines)
	return out
}

func (s *Selection) AssetIDs() []string {
	ids := make([]string, len(s.lines))
	for i, l := range s.lines {
		ids[i] = l.AssetID
	}
	return ids
}

// Hold marks an asset the edited record already occupies. Its own booking
// is what makes it unavailable, so the status check is skipped for it.
func (s *Selection) Hold(assetID string) {
	if s.held == nil {
		s.held = map[string]bool{}
	}
	s.held[assetID] = true
}

func (s *Selection) index(assetID string) int {
	for i, l := range s.lines {
		if l.AssetID == assetID {
			return i
		}
	}
	return -1
}

// AddRoom selects a general or lab room. Rooms are booked whole.
func (s *Selection) AddRoom(r *model.Ruangan) error {
	if s.kind == model.KindAlat {
		return ErrKindMismatch
	}
	want := model.RuanganUmum
	if s.kind == model.KindLab {
		want = model.RuanganLab
	}
	if r.Jenis != "" && r.Jenis != want {
		return fmt.Errorf("%w: %s is %s", ErrKindMismatch, r.Nama, r.Jenis)
	}
	return s.add(r.ID, r.Nama, r.StatusAset, 1, 1, r.Harga)
}

// AddTool selects qty units of a tool, bounded by its jumlah.
func (s *Selection) AddTool(a *model.Alat, qty int) error {
	if s.kind != model.KindAlat {
		return ErrKindMismatch
	}
	return s.add(a.ID, a.Nama, a.StatusAset, qty, a.Jumlah, a.Harga)
}

func (s *Selection) add(id, name string, status model.StatusAset, qty, available int, price int64) error {
	if !status.Selectable() && !s.held[id] {
		return fmt.Errorf("%w: %s is %s", ErrNotSelectable, name, status)
	}
	if s.index(id) >= 0 {
		return fmt.Errorf("%w: %s", ErrDuplicate, name)
	}
	if qty < 1 || qty > available {
		return fmt.Errorf("%w: %s requested %d of %d", ErrQuantity, name, qty, available)
	}
	s.lines = append(s.lines, Line{AssetID: id, Name: name, Quantity: qty, UnitPrice: price})
	return nil
}

// AddFacility attaches qty units of f to an already selected room.
func (s *Selection) AddFacility(assetID string, f *model.Fasilitas, qty int) error {
	i := s.index(assetID)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrNotSelected, assetID)
	}
	if s.kind == model.KindAlat {
		return ErrKindMismatch
	}
	if f.StatusAset != "" && !f.StatusAset.Selectable() {
		return fmt.Errorf("%w: %s is %s", ErrNotSelectable, f.Nama, f.StatusAset)
	}
	if qty < 1 || qty > f.Jumlah {
		return fmt.Errorf("%w: %s requested %d of %d", ErrQuantity, f.Nama, qty, f.Jumlah)
	}
	for _, fl := range s.lines[i].Facilities {
		if fl.FacilityID == f.ID {
			return fmt.Errorf("%w: %s", ErrDuplicate, f.Nama)
		}
	}
	s.lines[i].Facilities = append(s.lines[i].Facilities, FacilityLine{
		FacilityID: f.ID,
		Name:       f.Nama,
		Quantity:   qty,
		UnitPrice:  f.Harga,
	})
	return nil
}

func (s *Selection) Remove(assetID string) {
	if i := s.index(assetID); i >= 0 {
		s.lines = append(s.lines[:i], s.lines[i+1:]...)
	}
}

// TotalCost estimates a rental over days inclusive days. The backend's figure
// is authoritative.
func (s *Selection) TotalCost(days int) int64 {
	if days <= 0 {
		return 0
	}
	var total int64
	for _, l := range s.lines {
		total += l.Cost(days)
	}
	return total
}

// Cost is the estimate for this line alone.
func (l Line) Cost(days int) int64 {
	if days <= 0 {
		return 0
	}
	total := l.UnitPrice * int64(l.Quantity)
	for _, f := range l.Facilities {
		total += f.UnitPrice * int64(f.Quantity)
	}
	return total * int64(days)
}

// Apply writes line into a booking body: the asset link, quantity and facility items.
func (l Line) Apply(kind model.AssetKind, b *model.Booking) {
	b.AssetLink.Set(kind, l.AssetID)
	b.Jumlah = l.Quantity
	b.Fasilitas = nil
	for _, f := range l.Facilities {
		b.Fasilitas = append(b.Fasilitas, model.FasilitasItem{IDFasilitas: f.FacilityID, Jumlah: f.Quantity})
	}
}
