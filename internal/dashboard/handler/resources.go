package handler

import (
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"

	apperrors "sarpras/pkg/errors"
	httputil "sarpras/pkg/http"
)

type DeleteIntentRequest struct {
	IDs []string `json:"ids"`
}

func (h *DashboardHandler) Resources(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	h.writeSuccess(w, "Resources", h.service.Resources())
}

func (h *DashboardHandler) List(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	sess, ok := h.current(w, r, "List")
	if !ok {
		return
	}
	page, rows, err := httputil.ExtractPageRows(r, h.cfg.DefaultPageSize, h.cfg.MaxPageSize)
	if err != nil {
		h.writeError(w, "List", err)
		return
	}

	res, err := h.service.List(r.Context(), sess, ps.ByName("resource"), page, rows)
	if err != nil {
		h.writeError(w, "List", err)
		return
	}

	if err := httputil.WritePaginated(w, res.Entries, res.Total, res.Page, res.Rows); err != nil {
		h.log.Error("failed to write paginated response", "handler", "List", "operation", "WritePaginated", "error", err)
	}
}

func (h *DashboardHandler) Get(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	sess, ok := h.current(w, r, "Get")
	if !ok {
		return
	}
	item, err := h.service.Get(r.Context(), sess, ps.ByName("resource"), ps.ByName("id"))
	if err != nil {
		h.writeError(w, "Get", err)
		return
	}
	h.writeSuccess(w, "Get", item)
}

func (h *DashboardHandler) Create(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	sess, ok := h.current(w, r, "Create")
	if !ok {
		return
	}
	body, err := readBody(r)
	if err != nil {
		h.writeError(w, "Create", err)
		return
	}

	out, err := h.service.Create(r.Context(), sess, ps.ByName("resource"), body)
	if err != nil {
		h.writeError(w, "Create", err)
		return
	}
	h.writeMutation(w, "Create", http.StatusCreated, out)
}

func (h *DashboardHandler) Update(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	sess, ok := h.current(w, r, "Update")
	if !ok {
		return
	}
	body, err := readBody(r)
	if err != nil {
		h.writeError(w, "Update", err)
		return
	}

	out, err := h.service.Update(r.Context(), sess, ps.ByName("resource"), ps.ByName("id"), body)
	if err != nil {
		h.writeError(w, "Update", err)
		return
	}
	h.writeMutation(w, "Update", http.StatusOK, out)
}

// DeleteIntent is the first delete confirmation. The returned token must
// accompany the DELETE for the same ids.
func (h *DashboardHandler) DeleteIntent(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	sess, ok := h.current(w, r, "DeleteIntent")
	if !ok {
		return
	}
	var req DeleteIntentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, "DeleteIntent", apperrors.InvalidInput("Invalid request body"))
		return
	}

	intent, err := h.service.DeleteIntent(r.Context(), sess, ps.ByName("resource"), req.IDs)
	if err != nil {
		h.writeError(w, "DeleteIntent", err)
		return
	}
	if err := httputil.WriteJSON(w, http.StatusCreated, httputil.SuccessResponse{Data: intent}); err != nil {
		h.log.Error("failed to write JSON response", "handler", "DeleteIntent", "operation", "WriteJSON", "error", err)
	}
}

func (h *DashboardHandler) Delete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	sess, ok := h.current(w, r, "Delete")
	if !ok {
		return
	}
	query := r.URL.Query()
	ids, err := parseIDs(query.Get("ids"))
	if err != nil {
		h.writeError(w, "Delete", err)
		return
	}
	confirm := query.Get("confirm")
	if confirm == "" {
		confirm = r.Header.Get("X-Confirm-Delete")
	}

	out, err := h.service.Delete(r.Context(), sess, ps.ByName("resource"), ids, confirm)
	if err != nil {
		h.writeError(w, "Delete", err)
		return
	}
	h.writeMutation(w, "Delete", http.StatusOK, out)
}

func (h *DashboardHandler) ChangeStatus(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	sess, ok := h.current(w, r, "ChangeStatus")
	if !ok {
		return
	}
	body, err := readBody(r)
	if err != nil {
		h.writeError(w, "ChangeStatus", err)
		return
	}

	out, err := h.service.ChangeStatus(r.Context(), sess, ps.ByName("resource"), ps.ByName("id"), body)
	if err != nil {
		h.writeError(w, "ChangeStatus", err)
		return
	}
	h.writeMutation(w, "ChangeStatus", http.StatusOK, out)
}
