package handler

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/julienschmidt/httprouter"

	"sarpras/internal/dashboard/service"
	"sarpras/internal/session"
	"sarpras/pkg/config"
	apperrors "sarpras/pkg/errors"
	httputil "sarpras/pkg/http"
	"sarpras/pkg/logger"
)

type DashboardHandler struct {
	service  service.DashboardService
	sessions *session.Manager
	cfg      *config.Config
	log      *logger.Logger
	now      func() time.Time
}

func NewDashboardHandler(svc service.DashboardService, sessions *session.Manager, cfg *config.Config) *DashboardHandler {
	return &DashboardHandler{
		service:  svc,
		sessions: sessions,
		cfg:      cfg,
		log:      cfg.Log,
		now:      time.Now,
	}
}

func (h *DashboardHandler) writeError(w http.ResponseWriter, handler string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handler, "operation", "WriteError", "error", writeErr)
	}
}

func (h *DashboardHandler) writeSuccess(w http.ResponseWriter, handler string, data any) {
	if err := httputil.WriteSuccess(w, data); err != nil {
		h.log.Error("failed to write success response", "handler", handler, "operation", "WriteSuccess", "error", err)
	}
}

func (h *DashboardHandler) writeMutation(w http.ResponseWriter, handler string, status int, out *service.MutationOutcome) {
	if err := httputil.WriteMutation(w, status, out.Message, out); err != nil {
		h.log.Error("failed to write mutation response", "handler", handler, "operation", "WriteMutation", "error", err)
	}
}

// current is the session Authenticate put on the request.
func (h *DashboardHandler) current(w http.ResponseWriter, r *http.Request, handler string) (*session.Session, bool) {
	sess, ok := session.FromContext(r.Context())
	if !ok {
		h.writeError(w, handler, apperrors.Unauthorized("Silakan masuk terlebih dahulu"))
		return nil, false
	}
	return sess, true
}

func readBody(r *http.Request) ([]byte, error) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, apperrors.InvalidInput("Invalid request body")
	}
	if len(strings.TrimSpace(string(body))) == 0 {
		return nil, apperrors.InvalidInput("Request body is required")
	}
	return body, nil
}

// parseIDs accepts ids as a JSON array or a comma separated list.
func parseIDs(raw string) ([]string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, apperrors.InvalidInput("ids parameter is required")
	}
	if strings.HasPrefix(raw, "[") {
		var ids []string
		if err := json.Unmarshal([]byte(raw), &ids); err != nil {
			return nil, apperrors.InvalidInput("invalid ids parameter: " + raw)
		}
		return ids, nil
	}
	return strings.Split(raw, ","), nil
}

func (h *DashboardHandler) RegisterRoutes(router *httprouter.Router) {
	auth := h.sessions.Authenticate

	router.POST("/api/v1/auth/login", h.Login)
	router.POST("/api/v1/auth/logout", h.Logout)
	router.GET("/api/v1/auth/me", auth(h.Me))

	router.GET("/api/v1/resources", auth(h.Resources))
	router.GET("/api/v1/resources/:resource", auth(h.List))
	router.GET("/api/v1/resources/:resource/:id", auth(h.Get))
	router.POST("/api/v1/resources/:resource", auth(h.Create))
	router.PUT("/api/v1/resources/:resource/:id", auth(h.Update))
	router.POST("/api/v1/resources/:resource/delete-intents", auth(h.DeleteIntent))
	router.DELETE("/api/v1/resources/:resource", auth(h.Delete))
	router.PUT("/api/v1/resources/:resource/:id/status", auth(h.ChangeStatus))

	router.GET("/api/v1/views/:resource", auth(h.View))
	router.GET("/api/v1/views/:resource/xlsx", auth(h.ViewXLSX))
	router.GET("/api/v1/exports/:resource/:format", auth(h.Export))

	router.GET("/api/v1/availability/:kind/:id", auth(h.Availability))
	router.GET("/api/v1/availability/:kind/:id/calendar", auth(h.Calendar))
	router.GET("/api/v1/history", auth(h.History))

	router.POST("/api/v1/uploads", auth(h.Upload))

	router.GET("/api/v1/flows", auth(h.ListFlows))
	router.POST("/api/v1/flows/execute", auth(h.ExecuteFlow))
}
