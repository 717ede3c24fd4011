package database

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/sql-ball/sqlball-engine/pkg/logging"
)

// Result holds the outcome of a query execution.
type Result struct {
	Columns  []string         `json:"columns"`
	Rows     []map[string]any `json:"rows"`
	RowCount int              `json:"row_count"`
}

// Executor runs SQL against the analytics database and returns generic
// row maps. Statement screening happens upstream; the executor assumes it
// is handed a single SELECT.
type Executor struct {
	db      *DB
	maxRows int
	timeout time.Duration
	logger  *zap.Logger
}

// NewExecutor creates an executor. maxRows of 0 disables the row cap.
func NewExecutor(db *DB, maxRows int, timeout time.Duration, logger *zap.Logger) *Executor {
	return &Executor{
		db:      db,
		maxRows: maxRows,
		timeout: timeout,
		logger:  logger.Named("executor"),
	}
}

// Run executes the query and collects all rows as column-name maps.
func (e *Executor) Run(ctx context.Context, sqlQuery string) (*Result, error) {
	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	start := time.Now()

	rows, err := e.db.Query(ctx, sqlQuery)
	if err != nil {
		e.logger.Warn("query failed",
			zap.String("sql", logging.SanitizeQuery(sqlQuery)),
			zap.Error(err))
		qe := ClassifyQueryError(err)
		if qe.StatusCode == http.StatusInternalServerError && HasConflictingSeasons(sqlQuery) {
			qe = &QueryError{
				Message:    "query contains conflicting season conditions",
				StatusCode: http.StatusBadRequest,
				Cause:      err,
			}
		}
		return nil, qe
	}
	defer rows.Close()

	fieldDescs := rows.FieldDescriptions()
	columns := make([]string, len(fieldDescs))
	for i, fd := range fieldDescs {
		columns[i] = string(fd.Name)
	}

	resultRows := make([]map[string]any, 0)
	for rows.Next() {
		if e.maxRows > 0 && len(resultRows) >= e.maxRows {
			break
		}

		values, err := rows.Values()
		if err != nil {
			return nil, fmt.Errorf("failed to read row values: %w", err)
		}

		rowMap := make(map[string]any, len(columns))
		for i, col := range columns {
			rowMap[col] = values[i]
		}
		resultRows = append(resultRows, rowMap)
	}

	if err := rows.Err(); err != nil {
		return nil, ClassifyQueryError(err)
	}

	e.logger.Debug("query executed",
		zap.Int("rows", len(resultRows)),
		zap.Duration("elapsed", time.Since(start)))

	return &Result{
		Columns:  columns,
		Rows:     resultRows,
		RowCount: len(resultRows),
	}, nil
}
