package handler

import (
	"bytes"
	"errors"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"

	"sarpras/internal/export"
	"sarpras/internal/tableview"
	apperrors "sarpras/pkg/errors"
	httputil "sarpras/pkg/http"
)

type UploadResponse struct {
	URL string `json:"url"`
}

// viewQuery reads filters, search and the 0-based page of a table view.
func (h *DashboardHandler) viewQuery(r *http.Request) (tableview.Query, error) {
	page, size, err := httputil.ExtractPageSize(r, h.cfg.DefaultPageSize, h.cfg.MaxPageSize)
	if err != nil {
		return tableview.Query{}, err
	}
	fs, err := tableview.FromValues(r.URL.Query(), size)
	if err != nil {
		if errors.Is(err, tableview.ErrUnknownField) {
			return tableview.Query{}, apperrors.InvalidInput(err.Error())
		}
		return tableview.Query{}, err
	}
	fs.SetPage(page)
	return fs.Query(), nil
}

func (h *DashboardHandler) parseDay(r *http.Request, name string, fallback time.Time) (time.Time, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback, nil
	}
	loc := h.cfg.Location
	if loc == nil {
		loc = time.UTC
	}
	t, err := time.ParseInLocation(time.DateOnly, raw, loc)
	if err != nil {
		return time.Time{}, apperrors.InvalidInput("invalid " + name + " parameter, must be YYYY-MM-DD: " + raw)
	}
	return t, nil
}

func (h *DashboardHandler) View(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	sess, ok := h.current(w, r, "View")
	if !ok {
		return
	}
	q, err := h.viewQuery(r)
	if err != nil {
		h.writeError(w, "View", err)
		return
	}

	res, err := h.service.View(r.Context(), sess, ps.ByName("resource"), q)
	if err != nil {
		h.writeError(w, "View", err)
		return
	}
	h.writeSuccess(w, "View", res)
}

// ViewXLSX exports the filtered view, every page, as a spreadsheet.
func (h *DashboardHandler) ViewXLSX(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	sess, ok := h.current(w, r, "ViewXLSX")
	if !ok {
		return
	}
	q, err := h.viewQuery(r)
	if err != nil {
		h.writeError(w, "ViewXLSX", err)
		return
	}

	table, err := h.service.ViewTable(r.Context(), sess, ps.ByName("resource"), q)
	if err != nil {
		h.writeError(w, "ViewXLSX", err)
		return
	}

	var buf bytes.Buffer
	if err := export.WriteXLSX(&buf, table); err != nil {
		h.writeError(w, "ViewXLSX", apperrors.Internal("Failed to build spreadsheet", err))
		return
	}
	if err := httputil.WriteBlob(w, export.ContentTypeXLSX, table.Filename(h.now()), buf.Bytes()); err != nil {
		h.log.Error("failed to write blob response", "handler", "ViewXLSX", "operation", "WriteBlob", "error", err)
	}
}

func (h *DashboardHandler) Export(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	sess, ok := h.current(w, r, "Export")
	if !ok {
		return
	}
	blob, err := h.service.Export(r.Context(), sess, ps.ByName("resource"), ps.ByName("format"))
	if err != nil {
		h.writeError(w, "Export", err)
		return
	}
	if err := httputil.WriteBlob(w, blob.ContentType, blob.Filename, blob.Data); err != nil {
		h.log.Error("failed to write blob response", "handler", "Export", "operation", "WriteBlob", "error", err)
	}
}

func (h *DashboardHandler) Availability(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	sess, ok := h.current(w, r, "Availability")
	if !ok {
		return
	}
	date, err := h.parseDay(r, "date", h.now())
	if err != nil {
		h.writeError(w, "Availability", err)
		return
	}

	res, err := h.service.Availability(r.Context(), sess, ps.ByName("kind"), ps.ByName("id"), date)
	if err != nil {
		h.writeError(w, "Availability", err)
		return
	}
	h.writeSuccess(w, "Availability", res)
}

// Calendar defaults to the coming 30 days.
func (h *DashboardHandler) Calendar(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	sess, ok := h.current(w, r, "Calendar")
	if !ok {
		return
	}
	from, err := h.parseDay(r, "from", h.now())
	if err != nil {
		h.writeError(w, "Calendar", err)
		return
	}
	to, err := h.parseDay(r, "to", from.AddDate(0, 0, 30))
	if err != nil {
		h.writeError(w, "Calendar", err)
		return
	}

	res, err := h.service.Calendar(r.Context(), sess, ps.ByName("kind"), ps.ByName("id"), from, to)
	if err != nil {
		h.writeError(w, "Calendar", err)
		return
	}
	h.writeSuccess(w, "Calendar", res)
}

func (h *DashboardHandler) History(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	sess, ok := h.current(w, r, "History")
	if !ok {
		return
	}
	q, err := h.viewQuery(r)
	if err != nil {
		h.writeError(w, "History", err)
		return
	}

	page, err := h.service.History(r.Context(), sess, q)
	if err != nil {
		h.writeError(w, "History", err)
		return
	}
	if err := httputil.WritePaginated(w, page.Items, page.Total, page.Page, page.Size); err != nil {
		h.log.Error("failed to write paginated response", "handler", "History", "operation", "WritePaginated", "error", err)
	}
}

func (h *DashboardHandler) Upload(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	sess, ok := h.current(w, r, "Upload")
	if !ok {
		return
	}
	if err := r.ParseMultipartForm(int64(h.cfg.MaxUploadSize)); err != nil {
		h.writeError(w, "Upload", apperrors.InvalidInput("Invalid multipart body"))
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		h.writeError(w, "Upload", apperrors.InvalidInput("file is required"))
		return
	}
	defer file.Close()

	url, err := h.service.Upload(r.Context(), sess, header.Filename, file)
	if err != nil {
		h.writeError(w, "Upload", err)
		return
	}
	if err := httputil.WriteJSON(w, http.StatusCreated, httputil.SuccessResponse{Data: UploadResponse{URL: url}}); err != nil {
		h.log.Error("failed to write JSON response", "handler", "Upload", "operation", "WriteJSON", "error", err)
	}
}
