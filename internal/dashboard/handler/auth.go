package handler

import (
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"

	apperrors "sarpras/pkg/errors"
	httputil "sarpras/pkg/http"
	"sarpras/pkg/model"
)

type LoginResponse struct {
	User      model.User `json:"user"`
	ExpiresAt string     `json:"expiresAt"`
}

func (h *DashboardHandler) Login(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req model.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, "Login", apperrors.InvalidInput("Invalid request body"))
		return
	}

	res, err := h.service.Login(r.Context(), req)
	if err != nil {
		h.writeError(w, "Login", err)
		return
	}

	sess, err := h.sessions.Start(r.Context(), w, *res)
	if err != nil {
		h.log.Error("Failed to start session", "user_id", res.User.ID, "error", err)
		h.writeError(w, "Login", apperrors.Unavailable("session store"))
		return
	}

	h.writeSuccess(w, "Login", LoginResponse{
		User:      sess.User,
		ExpiresAt: sess.ExpiresAt.UTC().Format(http.TimeFormat),
	})
}

// Logout always clears the cookie, even without a live session.
func (h *DashboardHandler) Logout(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	sess, err := h.sessions.Load(r.Context(), r)
	if err != nil {
		h.sessions.ClearCookie(w)
		httputil.WriteNoContent(w)
		return
	}

	h.service.Logout(r.Context(), sess)
	if err := h.sessions.End(r.Context(), w, sess.ID); err != nil {
		h.log.Warn("Failed to delete session", "session_id", sess.ID, "error", err)
	}
	httputil.WriteNoContent(w)
}

func (h *DashboardHandler) Me(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	sess, ok := h.current(w, r, "Me")
	if !ok {
		return
	}
	h.writeSuccess(w, "Me", sess.User)
}
