package client

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"sarpras/pkg/model"
)

// Backend paths, one per entity.
const (
	PathUsers        = "/users"
	PathJurusan      = "/jurusan"
	PathGedung       = "/gedung"
	PathShift        = "/shift"
	PathAlat         = "/alat"
	PathRuangan      = "/ruangan"
	PathFasilitas    = "/fasilitas"
	PathPeminjaman   = "/peminjaman"
	PathPenyewaan    = "/penyewaan"
	PathPengembalian = "/pengembalian"
	PathPerbaikan    = "/perbaikan"
)

// statusRoutes maps resources with an approval workflow to their status segment.
var statusRoutes = map[string]string{
	PathPeminjaman: "statusPeminjaman",
	PathPenyewaan:  "statusPenyewaan",
	PathPerbaikan:  "statusPerbaikan",
}

type Backend struct {
	http *HttpClient

	Users        *Resource[model.User]
	Jurusan      *Resource[model.Jurusan]
	Gedung       *Resource[model.Gedung]
	Shift        *Resource[model.Shift]
	Alat         *Resource[model.Alat]
	Ruangan      *Resource[model.Ruangan]
	Fasilitas    *Resource[model.Fasilitas]
	Peminjaman   *Resource[model.Peminjaman]
	Penyewaan    *Resource[model.Penyewaan]
	Pengembalian *Resource[model.Pengembalian]
	Perbaikan    *Resource[model.Perbaikan]
}

func NewBackend(c *HttpClient) *Backend {
	return &Backend{
		http:         c,
		Users:        NewResource[model.User](c, PathUsers),
		Jurusan:      NewResource[model.Jurusan](c, PathJurusan),
		Gedung:       NewResource[model.Gedung](c, PathGedung),
		Shift:        NewResource[model.Shift](c, PathShift),
		Alat:         NewResource[model.Alat](c, PathAlat),
		Ruangan:      NewResource[model.Ruangan](c, PathRuangan),
		Fasilitas:    NewResource[model.Fasilitas](c, PathFasilitas),
		Peminjaman:   NewResource[model.Peminjaman](c, PathPeminjaman),
		Penyewaan:    NewResource[model.Penyewaan](c, PathPenyewaan),
		Pengembalian: NewResource[model.Pengembalian](c, PathPengembalian),
		Perbaikan:    NewResource[model.Perbaikan](c, PathPerbaikan),
	}
}

// Login exchanges credentials for a token. It never carries a token itself.
func (b *Backend) Login(ctx context.Context, req model.LoginRequest) (*model.LoginResult, error) {
	resp, err := b.http.POST(ctx, "/auth/login", req)
	if err != nil {
		return nil, err
	}
	var env singleEnvelope[model.LoginResult]
	if err := resp.DecodeJSON(&env); err != nil {
		return nil, fmt.Errorf("failed to decode login response: %w", err)
	}
	if env.Content.Token == "" {
		return nil, fmt.Errorf("login response carried no token")
	}
	return &env.Content, nil
}

// ChangeStatus hits the dedicated status route of resourcePath.
func (b *Backend) ChangeStatus(ctx context.Context, resourcePath, id string, body model.StatusChange) (*MutationResult, error) {
	segment, ok := statusRoutes[resourcePath]
	if !ok {
		return nil, fmt.Errorf("%s has no status route", resourcePath)
	}
	resp, err := b.http.PUT(ctx, resourcePath+"/"+url.PathEscape(id)+"/"+segment, body)
	if err != nil {
		return nil, err
	}
	return decodeMutation(resp)
}

func HasStatusRoute(resourcePath string) bool {
	_, ok := statusRoutes[resourcePath]
	return ok
}

// Upload forwards one file and returns its hosted URL.
func (b *Backend) Upload(ctx context.Context, filename string, file io.Reader) (string, error) {
	resp, err := b.http.PostMultipart(ctx, "/upload", "file", filename, file)
	if err != nil {
		return "", err
	}
	var env singleEnvelope[struct {
		SecureURL string `json:"secure_url"`
	}]
	if err := resp.DecodeJSON(&env); err != nil {
		return "", fmt.Errorf("failed to decode upload response: %w", err)
	}
	if env.Content.SecureURL == "" {
		return "", fmt.Errorf("upload response carried no secure_url")
	}
	return env.Content.SecureURL, nil
}

type ExportFormat string

const (
	ExportPDF   ExportFormat = "pdf"
	ExportExcel ExportFormat = "excel"
)

// Blob is a binary backend export.
type Blob struct {
	ContentType string
	Filename    string
	Data        []byte
}

func (b *Backend) Export(ctx context.Context, resourcePath string, format ExportFormat) (*Blob, error) {
	if format != ExportPDF && format != ExportExcel {
		return nil, fmt.Errorf("unsupported export format %q", format)
	}
	resp, err := b.http.GET(ctx, resourcePath+"/export/"+string(format), nil)
	if err != nil {
		return nil, err
	}

	blob := &Blob{
		ContentType: resp.Header.Get("Content-Type"),
		Filename:    exportFilename(resp.Header, resourcePath, format),
		Data:        resp.Body,
	}
	if blob.ContentType == "" {
		blob.ContentType = http.DetectContentType(blob.Data)
	}
	return blob, nil
}

func exportFilename(h http.Header, resourcePath string, format ExportFormat) string {
	if cd := h.Get("Content-Disposition"); cd != "" {
		if _, name, ok := strings.Cut(cd, "filename="); ok {
			return strings.Trim(name, `"`)
		}
	}
	ext := "pdf"
	if format == ExportExcel {
		ext = "xlsx"
	}
	return strings.TrimPrefix(resourcePath, "/") + "." + ext
}
