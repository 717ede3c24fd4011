package sql

import "regexp"

// ClauseSpan locates a named SQL clause keyword within a query string. Spans
// are transient: the reordering and predicate passes compute them, use them,
// and discard them.
type ClauseSpan struct {
	Start int
	End   int
}

// clauseKind pairs a clause name with its case-insensitive keyword pattern.
type clauseKind struct {
	name    string
	pattern *regexp.Regexp
}

var (
	clauseWhere   = clauseKind{"WHERE", regexp.MustCompile(`(?i)\bWHERE\b`)}
	clauseGroupBy = clauseKind{"GROUP BY", regexp.MustCompile(`(?i)\bGROUP\s+BY\b`)}
	clauseHaving  = clauseKind{"HAVING", regexp.MustCompile(`(?i)\bHAVING\b`)}
	clauseOrderBy = clauseKind{"ORDER BY", regexp.MustCompile(`(?i)\bORDER\s+BY\b`)}
	clauseLimit   = clauseKind{"LIMIT", regexp.MustCompile(`(?i)\bLIMIT\b`)}
)

// FindClause returns the span of the first occurrence of the named clause
// keyword, or nil if absent. Recognized names: WHERE, GROUP BY, HAVING,
// ORDER BY, LIMIT.
func FindClause(s, name string) *ClauseSpan {
	for _, c := range []clauseKind{clauseWhere, clauseGroupBy, clauseHaving, clauseOrderBy, clauseLimit} {
		if c.name == name {
			return spanOf(c, s)
		}
	}
	return nil
}

func spanOf(c clauseKind, s string) *ClauseSpan {
	loc := c.pattern.FindStringIndex(s)
	if loc == nil {
		return nil
	}
	return &ClauseSpan{Start: loc[0], End: loc[1]}
}

// earliestClause returns the span of whichever listed clause appears first
// in the string, or nil if none are present.
func earliestClause(s string, kinds ...clauseKind) *ClauseSpan {
	var best *ClauseSpan
	for _, c := range kinds {
		span := spanOf(c, s)
		if span == nil {
			continue
		}
		if best == nil || span.Start < best.Start {
			best = span
		}
	}
	return best
}
