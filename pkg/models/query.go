// Package models defines the request and response types of the HTTP API.
package models

// QueryRequest asks for a natural language question to be converted to
// SQL and executed.
type QueryRequest struct {
	Question           string `json:"question"`
	Season             string `json:"season,omitempty"`
	IncludeExplanation bool   `json:"include_explanation"`
	Limit              int    `json:"limit,omitempty"`
	APIKey             string `json:"api_key,omitempty"`
}

// QueryResponse carries the generated SQL and its results.
type QueryResponse struct {
	SQL             string            `json:"sql"`
	Explanation     string            `json:"explanation,omitempty"`
	Results         []map[string]any  `json:"results"`
	ExecutionTimeMs float64           `json:"execution_time_ms"`
	Optimizations   []string          `json:"optimizations,omitempty"`
	MappingsUsed    map[string]string `json:"mappings_used,omitempty"`
}

// ExecuteRequest runs a caller-provided SQL statement.
type ExecuteRequest struct {
	SQL string `json:"sql"`
}

// ExecuteResponse carries the results of a direct execution.
type ExecuteResponse struct {
	Results         []map[string]any `json:"results"`
	ExecutionTimeMs float64          `json:"execution_time_ms"`
	RowsAffected    int              `json:"rows_affected"`
}

// ValidateRequest asks for advisory validation of a SQL statement.
type ValidateRequest struct {
	SQL string `json:"sql"`
}

// ValidateResponse reports advisory findings. Valid is false only when
// warnings are present; findings never block execution elsewhere.
type ValidateResponse struct {
	Valid         bool     `json:"valid"`
	StatementType string   `json:"statement_type"`
	Warnings      []string `json:"warnings,omitempty"`
	RepairedSQL   string   `json:"repaired_sql"`
}

// ExampleCategory groups example questions shown to new users.
type ExampleCategory struct {
	Category string   `json:"category"`
	Queries  []string `json:"queries"`
}
