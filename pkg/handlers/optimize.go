package handlers

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/sql-ball/sqlball-engine/pkg/models"
	"github.com/sql-ball/sqlball-engine/pkg/services"
)

// OptimizeHandler handles query optimization and pattern discovery.
type OptimizeHandler struct {
	service services.OptimizeService
	logger  *zap.Logger
}

// NewOptimizeHandler creates a new OptimizeHandler.
func NewOptimizeHandler(service services.OptimizeService, logger *zap.Logger) *OptimizeHandler {
	return &OptimizeHandler{service: service, logger: logger}
}

// RegisterRoutes registers the optimize handler's routes on the given mux.
func (h *OptimizeHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/optimize", h.Optimize)
	mux.HandleFunc("POST /api/patterns", h.Patterns)
	mux.HandleFunc("GET /api/suggestions/{query_type}", h.Suggestions)
	mux.HandleFunc("POST /api/explain", h.Explain)
}

// Optimize handles POST /api/optimize requests.
func (h *OptimizeHandler) Optimize(w http.ResponseWriter, r *http.Request) {
	var req models.OptimizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid_request", "invalid request body")
		return
	}

	resp, err := h.service.Optimize(r.Context(), &req)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	if err := WriteJSON(w, http.StatusOK, resp); err != nil {
		h.logger.Error("Failed to encode optimize response", zap.Error(err))
	}
}

// Patterns handles POST /api/patterns requests.
func (h *OptimizeHandler) Patterns(w http.ResponseWriter, r *http.Request) {
	var req models.PatternRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid_request", "invalid request body")
		return
	}
	if req.Table == "" {
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid_request", "table is required")
		return
	}

	resp := h.service.DiscoverPatterns(&req)
	if err := WriteJSON(w, http.StatusOK, resp); err != nil {
		h.logger.Error("Failed to encode patterns response", zap.Error(err))
	}
}

// Suggestions handles GET /api/suggestions/{query_type} requests.
func (h *OptimizeHandler) Suggestions(w http.ResponseWriter, r *http.Request) {
	queryType := r.PathValue("query_type")

	suggestions, err := h.service.Suggestions(queryType)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	response := map[string]any{
		"query_type":  queryType,
		"suggestions": suggestions,
	}
	if err := WriteJSON(w, http.StatusOK, response); err != nil {
		h.logger.Error("Failed to encode suggestions response", zap.Error(err))
	}
}

// Explain handles POST /api/explain requests.
func (h *OptimizeHandler) Explain(w http.ResponseWriter, r *http.Request) {
	var req models.ExecuteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid_request", "invalid request body")
		return
	}
	if req.SQL == "" {
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid_request", "sql is required")
		return
	}

	resp := h.service.ExplainPlan(req.SQL)
	if err := WriteJSON(w, http.StatusOK, resp); err != nil {
		h.logger.Error("Failed to encode explain response", zap.Error(err))
	}
}
