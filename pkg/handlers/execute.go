package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/sql-ball/sqlball-engine/pkg/logging"
	"github.com/sql-ball/sqlball-engine/pkg/models"
	"github.com/sql-ball/sqlball-engine/pkg/services"
	sqlrepair "github.com/sql-ball/sqlball-engine/pkg/sql"
)

// ExecuteHandler handles direct SQL execution.
type ExecuteHandler struct {
	executor services.Executor
	pipeline *sqlrepair.Pipeline
	logger   *zap.Logger
}

// NewExecuteHandler creates a new ExecuteHandler.
func NewExecuteHandler(executor services.Executor, pipeline *sqlrepair.Pipeline, logger *zap.Logger) *ExecuteHandler {
	return &ExecuteHandler{executor: executor, pipeline: pipeline, logger: logger}
}

// RegisterRoutes registers the execute handler's routes on the given mux.
func (h *ExecuteHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/execute", h.Execute)
}

// Execute handles POST /api/execute requests. The statement is repaired
// first, then rejected unless it is a single SELECT.
func (h *ExecuteHandler) Execute(w http.ResponseWriter, r *http.Request) {
	var req models.ExecuteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid_request", "invalid request body")
		return
	}
	if req.SQL == "" {
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid_request", "sql is required")
		return
	}

	repaired := h.pipeline.Repair(req.SQL, "")
	if err := sqlrepair.EnsureSelectOnly(repaired); err != nil {
		h.logger.Warn("Rejected non-SELECT statement",
			zap.String("sql", logging.SanitizeQuery(repaired)))
		writeServiceError(w, h.logger, err)
		return
	}

	start := time.Now()
	result, err := h.executor.Run(r.Context(), repaired)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	resp := &models.ExecuteResponse{
		Results:         result.Rows,
		ExecutionTimeMs: float64(time.Since(start).Milliseconds()),
		RowsAffected:    result.RowCount,
	}
	if err := WriteJSON(w, http.StatusOK, resp); err != nil {
		h.logger.Error("Failed to encode execute response", zap.Error(err))
	}
}
