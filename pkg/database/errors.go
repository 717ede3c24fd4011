package database

import (
	"errors"
	"net/http"
	"strings"
)

// QueryError is an execution failure classified for HTTP responses.
type QueryError struct {
	Message    string // Caller-safe description
	StatusCode int    // Suggested HTTP status
	Cause      error
}

func (e *QueryError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *QueryError) Unwrap() error {
	return e.Cause
}

// ClassifyQueryError maps a database error to a caller-facing QueryError.
// Missing relations and syntax errors are the caller's fault (400);
// permission failures map to 403; everything else is a server error.
func ClassifyQueryError(err error) *QueryError {
	if err == nil {
		return nil
	}

	var qe *QueryError
	if errors.As(err, &qe) {
		return qe
	}

	lower := strings.ToLower(err.Error())

	switch {
	case strings.Contains(lower, "does not exist"):
		return &QueryError{
			Message:    "table or column does not exist",
			StatusCode: http.StatusBadRequest,
			Cause:      err,
		}
	case strings.Contains(lower, "syntax error"):
		return &QueryError{
			Message:    "SQL syntax error",
			StatusCode: http.StatusBadRequest,
			Cause:      err,
		}
	case strings.Contains(lower, "permission denied"):
		return &QueryError{
			Message:    "database permission denied",
			StatusCode: http.StatusForbidden,
			Cause:      err,
		}
	case strings.Contains(lower, "deadline exceeded") || strings.Contains(lower, "timeout"):
		return &QueryError{
			Message:    "query execution timed out",
			StatusCode: http.StatusGatewayTimeout,
			Cause:      err,
		}
	default:
		return &QueryError{
			Message:    "query execution failed",
			StatusCode: http.StatusInternalServerError,
			Cause:      err,
		}
	}
}

// HasConflictingSeasons reports whether the statement still carries more
// than one season predicate. A row cannot match two seasons, so an
// execution failure on such a statement is the statement's fault.
func HasConflictingSeasons(sqlText string) bool {
	return strings.Count(strings.ToLower(sqlText), "season =") > 1
}
