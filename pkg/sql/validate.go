package sql

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	trailingUnderscoreToken = regexp.MustCompile(`[A-Za-z0-9]_\s*;?\s*$`)
	truncatedBeforeKeyword  = regexp.MustCompile(`(?i)[A-Za-z0-9]_\s+(FROM|WHERE|GROUP\s+BY|ORDER\s+BY|HAVING|LIMIT|AND|OR)\b`)
	danglingEquals          = regexp.MustCompile(`=\s*;?\s*$`)
	trailingAnd             = regexp.MustCompile(`(?i)\b(AND|OR)\s*;?\s*$`)
)

// Validate inspects a repaired statement for residual structural problems.
// It never mutates and never fails: findings are advisory warnings, and the
// caller may still choose to execute the statement.
func Validate(s string) []string {
	var warnings []string

	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return []string{"statement is empty"}
	}

	if !strings.HasPrefix(strings.ToUpper(trimmed), "SELECT") {
		warnings = append(warnings, "statement does not begin with SELECT")
	}

	open := strings.Count(trimmed, "(")
	closed := strings.Count(trimmed, ")")
	if open != closed {
		warnings = append(warnings, fmt.Sprintf("unbalanced parentheses: %d open, %d close", open, closed))
	}

	if trailingUnderscoreToken.MatchString(trimmed) {
		warnings = append(warnings, "statement ends with a truncated identifier")
	}
	if truncatedBeforeKeyword.MatchString(trimmed) {
		warnings = append(warnings, "truncated identifier before keyword")
	}
	if danglingEquals.MatchString(trimmed) {
		warnings = append(warnings, "dangling = with no right-hand side")
	}
	if trailingAnd.MatchString(trimmed) {
		warnings = append(warnings, "trailing AND/OR with no operand")
	}

	return warnings
}
