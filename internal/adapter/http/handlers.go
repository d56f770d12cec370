// Package http exposes the agent's convenience entry points over a thin
// chi-based API. Transport is glue; all behavior lives in the service layer.
package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/growthframe/agentcore/internal/domain/pipeline"
	"github.com/growthframe/agentcore/internal/service"
)

const bodyLimit = 1 << 20 // 1 MiB

// Handlers holds the services the API delegates to.
type Handlers struct {
	Agent     *service.AgentService
	Lifecycle *service.Controller
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("failed to write JSON response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// readJSON decodes a JSON request body with a size limit.
func readJSON[T any](w http.ResponseWriter, r *http.Request) (T, bool) {
	var v T
	r.Body = http.MaxBytesReader(w, r.Body, bodyLimit)
	if err := json.NewDecoder(r.Body).Decode(&v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return v, false
	}
	return v, true
}

// Health reports the lifecycle state.
func (h *Handlers) Health(w http.ResponseWriter, _ *http.Request) {
	state := h.Lifecycle.State()
	status := http.StatusOK
	if state != service.StateRunning {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, map[string]string{"state": string(state)})
}

type messageRequest struct {
	BusinessID string `json:"business_id"`
	UserID     string `json:"user_id"`
	Channel    string `json:"channel"`
	Text       string `json:"text"`
}

// HandleMessage runs an inbound message through the pipeline.
func (h *Handlers) HandleMessage(w http.ResponseWriter, r *http.Request) {
	req, ok := readJSON[messageRequest](w, r)
	if !ok {
		return
	}
	if req.BusinessID == "" || req.Text == "" {
		writeError(w, http.StatusBadRequest, "business_id and text are required")
		return
	}

	resp := h.Agent.HandleMessage(r.Context(), req.BusinessID, req.UserID, req.Channel, req.Text)
	writeResponse(w, resp)
}

type contentRequest struct {
	BusinessID  string            `json:"business_id"`
	ContentType string            `json:"content_type"`
	Topic       string            `json:"topic"`
	Params      map[string]string `json:"params,omitempty"`
}

// GenerateContent runs a content request through the pipeline.
func (h *Handlers) GenerateContent(w http.ResponseWriter, r *http.Request) {
	req, ok := readJSON[contentRequest](w, r)
	if !ok {
		return
	}
	if req.BusinessID == "" || req.ContentType == "" {
		writeError(w, http.StatusBadRequest, "business_id and content_type are required")
		return
	}

	resp := h.Agent.GenerateContent(r.Context(), req.BusinessID, req.ContentType, req.Topic, req.Params)
	writeResponse(w, resp)
}

type chatRequest struct {
	BusinessID string `json:"business_id"`
	UserID     string `json:"user_id"`
	Text       string `json:"text"`
}

// Chat runs a conversational turn through the pipeline.
func (h *Handlers) Chat(w http.ResponseWriter, r *http.Request) {
	req, ok := readJSON[chatRequest](w, r)
	if !ok {
		return
	}
	if req.BusinessID == "" || req.Text == "" {
		writeError(w, http.StatusBadRequest, "business_id and text are required")
		return
	}

	resp := h.Agent.Chat(r.Context(), req.BusinessID, req.UserID, req.Text)
	writeResponse(w, resp)
}

// GetRecommendations queries the recommendation engine directly.
func (h *Handlers) GetRecommendations(w http.ResponseWriter, r *http.Request) {
	businessID := r.URL.Query().Get("business_id")
	if businessID == "" {
		writeError(w, http.StatusBadRequest, "business_id is required")
		return
	}

	recs, err := h.Agent.GetRecommendations(r.Context(), businessID, nil)
	if err != nil {
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, recs)
}

type executeRecommendationRequest struct {
	BusinessID     string                  `json:"business_id"`
	Recommendation pipeline.Recommendation `json:"recommendation"`
	Parameters     map[string]any          `json:"parameters,omitempty"`
}

// ExecuteRecommendation runs one recommendation as an action.
func (h *Handlers) ExecuteRecommendation(w http.ResponseWriter, r *http.Request) {
	req, ok := readJSON[executeRecommendationRequest](w, r)
	if !ok {
		return
	}
	if req.BusinessID == "" || req.Recommendation.Type == "" {
		writeError(w, http.StatusBadRequest, "business_id and recommendation.type are required")
		return
	}

	res := h.Agent.ExecuteRecommendation(r.Context(), req.BusinessID, req.Recommendation, req.Parameters)
	writeJSON(w, http.StatusOK, res)
}

// GenerateInsights returns analysis-derived insights for a business.
func (h *Handlers) GenerateInsights(w http.ResponseWriter, r *http.Request) {
	businessID := r.URL.Query().Get("business_id")
	if businessID == "" {
		writeError(w, http.StatusBadRequest, "business_id is required")
		return
	}

	insights, err := h.Agent.GenerateInsights(r.Context(), businessID, r.URL.Query().Get("timeframe"))
	if err != nil {
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"insights": insights})
}

func writeResponse(w http.ResponseWriter, resp *pipeline.AgentResponse) {
	status := http.StatusOK
	if !resp.Success {
		status = http.StatusUnprocessableEntity
	}
	writeJSON(w, status, resp)
}
