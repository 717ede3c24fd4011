package handlers

import (
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/sql-ball/sqlball-engine/pkg/services"
)

// DashboardHandler serves aggregated statistics and chart data.
type DashboardHandler struct {
	service services.DashboardService
	logger  *zap.Logger
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(service services.DashboardService, logger *zap.Logger) *DashboardHandler {
	return &DashboardHandler{service: service, logger: logger}
}

// RegisterRoutes registers the dashboard handler's routes on the given mux.
func (h *DashboardHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/dashboard", h.Dashboard)
	mux.HandleFunc("GET /api/dashboard/matches", h.Matches)
	mux.HandleFunc("GET /api/dashboard/stats", h.Stats)
	mux.HandleFunc("GET /api/dashboard/charts/{chart_type}", h.Chart)
}

// Dashboard handles GET /api/dashboard requests. Returns stats, recent
// matches, and every chart in one payload. Accepts an optional league
// query parameter restricting the view to one division.
func (h *DashboardHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	resp, err := h.service.Complete(r.Context(), r.URL.Query().Get("league"))
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	if err := WriteJSON(w, http.StatusOK, resp); err != nil {
		h.logger.Error("Failed to encode dashboard response", zap.Error(err))
	}
}

// Matches handles GET /api/dashboard/matches requests. Accepts optional
// limit and league query parameters.
func (h *DashboardHandler) Matches(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			_ = ErrorResponse(w, http.StatusBadRequest, "invalid_request", "limit must be a non-negative integer")
			return
		}
		limit = parsed
	}

	matches, err := h.service.Matches(r.Context(), limit, r.URL.Query().Get("league"))
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	response := map[string]any{
		"matches": matches,
		"count":   len(matches),
	}
	if err := WriteJSON(w, http.StatusOK, response); err != nil {
		h.logger.Error("Failed to encode matches response", zap.Error(err))
	}
}

// Stats handles GET /api/dashboard/stats requests.
func (h *DashboardHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.Stats(r.Context(), r.URL.Query().Get("league"))
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	if err := WriteJSON(w, http.StatusOK, stats); err != nil {
		h.logger.Error("Failed to encode stats response", zap.Error(err))
	}
}

// Chart handles GET /api/dashboard/charts/{chart_type} requests.
func (h *DashboardHandler) Chart(w http.ResponseWriter, r *http.Request) {
	chart, err := h.service.Chart(r.Context(), r.PathValue("chart_type"), r.URL.Query().Get("league"))
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	if err := WriteJSON(w, http.StatusOK, chart); err != nil {
		h.logger.Error("Failed to encode chart response", zap.Error(err))
	}
}
