package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/sql-ball/sqlball-engine/pkg/apperrors"
	"github.com/sql-ball/sqlball-engine/pkg/database"
	"github.com/sql-ball/sqlball-engine/pkg/llm"
)

// ErrorResponse writes a JSON error response and returns any encoding error.
func ErrorResponse(w http.ResponseWriter, statusCode int, errorCode, message string) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	return json.NewEncoder(w).Encode(map[string]string{
		"error":   errorCode,
		"message": message,
	})
}

// WriteJSON writes a JSON response and returns any encoding error.
func WriteJSON(w http.ResponseWriter, statusCode int, data interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	if statusCode != http.StatusOK {
		w.WriteHeader(statusCode)
	}
	return json.NewEncoder(w).Encode(data)
}

// writeServiceError maps service-layer errors onto HTTP status codes and
// writes the corresponding error response.
func writeServiceError(w http.ResponseWriter, logger *zap.Logger, err error) {
	var queryErr *database.QueryError
	var llmErr *llm.Error

	switch {
	case errors.Is(err, apperrors.ErrMissingAPIKey):
		_ = ErrorResponse(w, http.StatusUnauthorized, "missing_api_key", err.Error())
	case errors.Is(err, apperrors.ErrForbiddenStatement):
		_ = ErrorResponse(w, http.StatusForbidden, "forbidden_statement", err.Error())
	case errors.Is(err, apperrors.ErrUnknownChartType):
		_ = ErrorResponse(w, http.StatusBadRequest, "unknown_chart_type", err.Error())
	case errors.Is(err, apperrors.ErrUnknownQueryType):
		_ = ErrorResponse(w, http.StatusNotFound, "unknown_query_type", err.Error())
	case errors.As(err, &queryErr):
		_ = ErrorResponse(w, queryErr.StatusCode, "query_error", queryErr.Message)
	case errors.As(err, &llmErr):
		if llmErr.Type == llm.ErrorTypeAuth {
			_ = ErrorResponse(w, http.StatusUnauthorized, "llm_auth_error", llmErr.Message)
			return
		}
		_ = ErrorResponse(w, http.StatusBadGateway, "llm_error", llmErr.Message)
	default:
		if logger != nil {
			logger.Error("Unhandled service error", zap.Error(err))
		}
		_ = ErrorResponse(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}
