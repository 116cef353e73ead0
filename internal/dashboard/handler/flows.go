package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/julienschmidt/httprouter"

	"sarpras/internal/dashboard/core"
	"sarpras/internal/dashboard/flows"
	apperrors "sarpras/pkg/errors"
	httputil "sarpras/pkg/http"
)

type ExecuteFlowRequest struct {
	Flow  string         `json:"flow"`
	Input map[string]any `json:"input"`
}

type ExecuteFlowResponse struct {
	Success bool           `json:"success"`
	Message string         `json:"message,omitempty"`
	Output  map[string]any `json:"output,omitempty"`
}

type ListFlowsResponse struct {
	Flows []core.FlowInfo `json:"flows"`
}

func (h *DashboardHandler) ListFlows(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	h.writeSuccess(w, "ListFlows", ListFlowsResponse{Flows: h.service.Flows()})
}

func (h *DashboardHandler) ExecuteFlow(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	sess, ok := h.current(w, r, "ExecuteFlow")
	if !ok {
		return
	}

	var req ExecuteFlowRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, "ExecuteFlow", apperrors.InvalidInput("invalid request payload"))
		return
	}
	req.Flow = strings.TrimSpace(req.Flow)
	if req.Flow == "" {
		h.writeError(w, "ExecuteFlow", apperrors.InvalidInput("flow name is required"))
		return
	}
	if req.Input == nil {
		req.Input = make(map[string]any)
	}

	h.log.Info("executing flow", "flow", req.Flow, "user_id", sess.User.ID)

	output, err := h.service.ExecuteFlow(r.Context(), sess, req.Flow, req.Input)
	if err != nil {
		h.writeError(w, "ExecuteFlow", err)
		return
	}

	status := http.StatusOK
	if strings.HasPrefix(req.Flow, "create_") {
		status = http.StatusCreated
	}
	message, _ := output[flows.OutMessage].(string)
	if err := httputil.WriteJSON(w, status, ExecuteFlowResponse{Success: true, Message: message, Output: output}); err != nil {
		h.log.Error("failed to write JSON response", "handler", "ExecuteFlow", "operation", "WriteJSON", "error", err)
	}
}
