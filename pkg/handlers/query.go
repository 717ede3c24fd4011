package handlers

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/sql-ball/sqlball-engine/pkg/models"
	"github.com/sql-ball/sqlball-engine/pkg/schema"
	"github.com/sql-ball/sqlball-engine/pkg/services"
)

// QueryHandler handles natural language query endpoints.
type QueryHandler struct {
	service services.QueryService
	logger  *zap.Logger
}

// NewQueryHandler creates a new QueryHandler.
func NewQueryHandler(service services.QueryService, logger *zap.Logger) *QueryHandler {
	return &QueryHandler{service: service, logger: logger}
}

// RegisterRoutes registers the query handler's routes on the given mux.
func (h *QueryHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/query", h.Query)
	mux.HandleFunc("POST /api/validate", h.Validate)
	mux.HandleFunc("GET /api/schema", h.Schema)
	mux.HandleFunc("GET /api/examples", h.Examples)
}

// Query handles POST /api/query requests. The question is converted to
// SQL, repaired, and executed against the football database.
func (h *QueryHandler) Query(w http.ResponseWriter, r *http.Request) {
	var req models.QueryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid_request", "invalid request body")
		return
	}

	resp, err := h.service.Process(r.Context(), &req)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	if err := WriteJSON(w, http.StatusOK, resp); err != nil {
		h.logger.Error("Failed to encode query response", zap.Error(err))
	}
}

// Validate handles POST /api/validate requests. Findings are advisory
// and never block later execution.
func (h *QueryHandler) Validate(w http.ResponseWriter, r *http.Request) {
	var req models.ValidateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid_request", "invalid request body")
		return
	}
	if req.SQL == "" {
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid_request", "sql is required")
		return
	}

	resp := h.service.Validate(req.SQL)
	if err := WriteJSON(w, http.StatusOK, resp); err != nil {
		h.logger.Error("Failed to encode validate response", zap.Error(err))
	}
}

// Schema handles GET /api/schema requests.
func (h *QueryHandler) Schema(w http.ResponseWriter, r *http.Request) {
	if err := WriteJSON(w, http.StatusOK, schema.GetInfo()); err != nil {
		h.logger.Error("Failed to encode schema response", zap.Error(err))
	}
}

// Examples handles GET /api/examples requests.
func (h *QueryHandler) Examples(w http.ResponseWriter, r *http.Request) {
	response := map[string][]models.ExampleCategory{"examples": exampleQueries}
	if err := WriteJSON(w, http.StatusOK, response); err != nil {
		h.logger.Error("Failed to encode examples response", zap.Error(err))
	}
}

var exampleQueries = []models.ExampleCategory{
	{
		Category: "Top Performers",
		Queries: []string{
			"Who are the top 5 scorers this season?",
			"Which goalkeeper has the most clean sheets?",
			"Show me players with the most assists",
		},
	},
	{
		Category: "Team Analysis",
		Queries: []string{
			"Which team has scored the most goals?",
			"Show Arsenal's home record",
			"Compare Manchester clubs' performance",
		},
	},
	{
		Category: "Statistical Analysis",
		Queries: []string{
			"Which players are overperforming their xG?",
			"Find matches with the highest total goals",
			"Show teams with best defensive record",
		},
	},
	{
		Category: "Player Search",
		Queries: []string{
			"Find all strikers who scored more than 10 goals",
			"Which midfielders have the best form?",
			"Show players who played every match",
		},
	},
	{
		Category: "Pattern Discovery",
		Queries: []string{
			"Which teams score most in the second half?",
			"Find players who score against big six teams",
			"Show home vs away performance differences",
		},
	},
}
