package models

// OptimizeRequest asks for a performance review of a SQL statement.
type OptimizeRequest struct {
	SQL     string `json:"sql"`
	Context string `json:"context,omitempty"`
	APIKey  string `json:"api_key,omitempty"`
}

// OptimizeResponse carries the rewritten query and advice.
type OptimizeResponse struct {
	OriginalSQL         string         `json:"original_sql"`
	OptimizedSQL        string         `json:"optimized_sql"`
	Explanation         string         `json:"explanation"`
	Suggestions         []string       `json:"suggestions"`
	PerformanceEstimate map[string]any `json:"performance_estimate,omitempty"`
}

// PatternRequest asks for canned pattern-discovery queries over a table.
type PatternRequest struct {
	Table       string `json:"table"`
	Column      string `json:"column,omitempty"`
	PatternType string `json:"pattern_type"`
}

// Pattern describes one discovered pattern.
type Pattern struct {
	Type        string  `json:"type"`
	Description string  `json:"description"`
	Confidence  float64 `json:"confidence"`
}

// PatternResponse carries discovered patterns and the SQL to explore them.
type PatternResponse struct {
	Patterns       []Pattern `json:"patterns"`
	SQLQueries     []string  `json:"sql_queries"`
	Visualizations []string  `json:"visualizations,omitempty"`
}

// ExplainResponse narrates a query execution plan in simple terms.
type ExplainResponse struct {
	Explanation []string       `json:"explanation"`
	Estimate    map[string]any `json:"estimate,omitempty"`
}
