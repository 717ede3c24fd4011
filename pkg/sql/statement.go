package sql

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/sql-ball/sqlball-engine/pkg/apperrors"
)

// StatementType represents the type of SQL statement.
type StatementType string

const (
	StatementSelect  StatementType = "SELECT"
	StatementInsert  StatementType = "INSERT"
	StatementUpdate  StatementType = "UPDATE"
	StatementDelete  StatementType = "DELETE"
	StatementDDL     StatementType = "DDL" // CREATE, ALTER, DROP, TRUNCATE
	StatementUnknown StatementType = "UNKNOWN"
)

// modifyingCTEPattern matches CTEs that contain data-modifying operations.
// Example: WITH deleted AS (DELETE FROM ...) SELECT * FROM deleted
var modifyingCTEPattern = regexp.MustCompile(`(?i)\bAS\s*\(\s*(INSERT|UPDATE|DELETE)\b`)

// DetectStatementType determines the statement type from the first keyword.
// WITH is treated as SELECT unless the CTE body modifies data.
func DetectStatementType(sqlText string) StatementType {
	normalized := strings.ToUpper(strings.TrimSpace(sqlText))

	switch {
	case strings.HasPrefix(normalized, "SELECT"):
		return StatementSelect

	case strings.HasPrefix(normalized, "WITH"):
		if modifyingCTEPattern.MatchString(sqlText) {
			return StatementUnknown
		}
		return StatementSelect

	case strings.HasPrefix(normalized, "INSERT"):
		return StatementInsert

	case strings.HasPrefix(normalized, "UPDATE"):
		return StatementUpdate

	case strings.HasPrefix(normalized, "DELETE"):
		return StatementDelete

	case strings.HasPrefix(normalized, "CREATE"),
		strings.HasPrefix(normalized, "ALTER"),
		strings.HasPrefix(normalized, "DROP"),
		strings.HasPrefix(normalized, "TRUNCATE"):
		return StatementDDL

	default:
		return StatementUnknown
	}
}

// EnsureSelectOnly enforces the security contract: only SELECT statements
// may reach the query executor. This check is independent of the repair
// pipeline's advisory validation and is always fatal.
func EnsureSelectOnly(sqlText string) error {
	if t := DetectStatementType(sqlText); t != StatementSelect {
		return fmt.Errorf("%w: %s statements are not allowed", apperrors.ErrForbiddenStatement, t)
	}
	return nil
}
