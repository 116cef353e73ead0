package model

// AssetKind names which of the three asset relations a record points at.
type AssetKind string

const (
	KindRuanganUmum AssetKind = "ruangan_umum"
	KindLab         AssetKind = "lab"
	KindAlat        AssetKind = "alat"
)

func (k AssetKind) Valid() bool {
	switch k {
	case KindRuanganUmum, KindLab, KindAlat:
		return true
	}
	return false
}

// AssetLink holds the three mutually exclusive asset foreign keys shared by
// borrowings, rentals and repairs, with their resolved relations.
type AssetLink struct {
	IDRuanganUmum string   `json:"idRuanganUmum,omitempty"`
	IDLab         string   `json:"idLab,omitempty"`
	IDAlat        string   `json:"idAlat,omitempty"`
	RuanganUmum   *Ruangan `json:"ruanganUmum,omitempty"`
	Lab           *Ruangan `json:"lab,omitempty"`
	Alat          *Alat    `json:"alat,omitempty"`
}

// Matches is true when exactly one of the three keys equals assetID.
func (l AssetLink) Matches(assetID string) bool {
	if assetID == "" {
		return false
	}
	n := 0
	for _, id := range [...]string{l.IDRuanganUmum, l.IDLab, l.IDAlat} {
		if id == assetID {
			n++
		}
	}
	return n == 1
}

// Set points the link at a single asset, clearing the other keys.
func (l *AssetLink) Set(kind AssetKind, id string) {
	*l = AssetLink{}
	switch kind {
	case KindRuanganUmum:
		l.IDRuanganUmum = id
	case KindLab:
		l.IDLab = id
	case KindAlat:
		l.IDAlat = id
	}
}

func (l AssetLink) Kind() AssetKind {
	switch {
	case l.IDRuanganUmum != "":
		return KindRuanganUmum
	case l.IDLab != "":
		return KindLab
	case l.IDAlat != "":
		return KindAlat
	}
	return ""
}

func (l AssetLink) AssetID() string {
	switch l.Kind() {
	case KindRuanganUmum:
		return l.IDRuanganUmum
	case KindLab:
		return l.IDLab
	case KindAlat:
		return l.IDAlat
	}
	return ""
}

func (l AssetLink) AssetName() string {
	switch {
	case l.RuanganUmum != nil:
		return l.RuanganUmum.Nama
	case l.Lab != nil:
		return l.Lab.Nama
	case l.Alat != nil:
		return l.Alat.Nama
	}
	return ""
}

func (l AssetLink) AssetStatus() StatusAset {
	switch {
	case l.RuanganUmum != nil:
		return l.RuanganUmum.StatusAset
	case l.Lab != nil:
		return l.Lab.StatusAset
	case l.Alat != nil:
		return l.Alat.StatusAset
	}
	return ""
}

func (l AssetLink) Department() string {
	switch {
	case l.RuanganUmum != nil && l.RuanganUmum.Jurusan != nil:
		return l.RuanganUmum.Jurusan.Nama
	case l.Lab != nil && l.Lab.Jurusan != nil:
		return l.Lab.Jurusan.Nama
	case l.Alat != nil:
		return l.Alat.Department()
	}
	return ""
}

func (l AssetLink) Building() string {
	switch {
	case l.RuanganUmum != nil && l.RuanganUmum.Gedung != nil:
		return l.RuanganUmum.Gedung.Nama
	case l.Lab != nil && l.Lab.Gedung != nil:
		return l.Lab.Gedung.Nama
	}
	return ""
}
