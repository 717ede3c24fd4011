package services

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/sql-ball/sqlball-engine/pkg/apperrors"
	"github.com/sql-ball/sqlball-engine/pkg/football"
	"github.com/sql-ball/sqlball-engine/pkg/llm"
	"github.com/sql-ball/sqlball-engine/pkg/models"
	"github.com/sql-ball/sqlball-engine/pkg/prompts"
	sqlrepair "github.com/sql-ball/sqlball-engine/pkg/sql"
)

// OptimizeService analyses SQL for performance improvements and serves
// pattern-discovery queries.
type OptimizeService interface {
	// Optimize asks the LLM for a faster version of the query. Failures
	// degrade to returning the original with static suggestions.
	Optimize(ctx context.Context, req *models.OptimizeRequest) (*models.OptimizeResponse, error)

	// DiscoverPatterns returns canned analysis queries for a table.
	DiscoverPatterns(req *models.PatternRequest) *models.PatternResponse

	// Suggestions returns optimization advice for a query category.
	Suggestions(queryType string) ([]string, error)

	// ExplainPlan narrates the structure of a query in simple terms.
	ExplainPlan(sqlText string) *models.ExplainResponse
}

type optimizeService struct {
	mapper *football.TermMapper
	client llm.LLMClient
	logger *zap.Logger
}

// NewOptimizeService creates the optimization service.
func NewOptimizeService(mapper *football.TermMapper, client llm.LLMClient, logger *zap.Logger) OptimizeService {
	return &optimizeService{
		mapper: mapper,
		client: client,
		logger: logger.Named("optimize"),
	}
}

func (s *optimizeService) Optimize(ctx context.Context, req *models.OptimizeRequest) (*models.OptimizeResponse, error) {
	sqlText := strings.TrimSpace(req.SQL)
	if sqlText == "" {
		return nil, fmt.Errorf("sql is required")
	}

	suggestions := s.mapper.SuggestOptimizations(sqlText)

	client := s.client
	if req.APIKey != "" {
		client = client.WithAPIKey(req.APIKey)
	}
	if !client.HasCredential() {
		return nil, apperrors.ErrMissingAPIKey
	}

	resp := &models.OptimizeResponse{
		OriginalSQL:  sqlText,
		OptimizedSQL: sqlText,
		Suggestions:  suggestions,
	}

	prompt := prompts.BuildOptimizationPrompt(sqlText, suggestions)
	answer, err := client.GenerateResponse(ctx, prompt, "", 0)
	if err != nil {
		s.logger.Warn("optimization generation failed", zap.Error(err))
		resp.Explanation = "Optimization unavailable, returning the original query."
		return resp, nil
	}

	resp.Explanation = strings.TrimSpace(answer)
	if extracted := extractSelectBlock(answer); extracted != "" {
		resp.OptimizedSQL = sqlrepair.EnsureTerminated(sqlrepair.StripFences(extracted))
	}
	return resp, nil
}

// extractSelectBlock pulls the first SELECT statement out of free-form LLM
// prose. Returns "" when no statement is found.
func extractSelectBlock(answer string) string {
	upper := strings.ToUpper(answer)
	start := strings.Index(upper, "SELECT")
	if start < 0 {
		return ""
	}

	rest := answer[start:]
	if end := strings.Index(rest, ";"); end >= 0 {
		return rest[:end+1]
	}

	// No terminator: take up to the first blank line
	if end := strings.Index(rest, "\n\n"); end >= 0 {
		return rest[:end]
	}
	return rest
}

func (s *optimizeService) DiscoverPatterns(req *models.PatternRequest) *models.PatternResponse {
	resp := &models.PatternResponse{
		Patterns:   []models.Pattern{},
		SQLQueries: []string{},
	}

	switch req.PatternType {
	case "anomaly":
		switch req.Table {
		case "matches":
			resp.Patterns = append(resp.Patterns, models.Pattern{
				Type:        "anomaly",
				Description: "Matches where actual goals significantly exceeded xG",
				Confidence:  0.85,
			})
			resp.SQLQueries = append(resp.SQLQueries, strings.TrimSpace(`
SELECT home_team, away_team, home_score, away_score,
       home_xg, away_xg,
       (home_score - home_xg) AS home_overperformance,
       (away_score - away_xg) AS away_overperformance
FROM matches
WHERE ABS(home_score - home_xg) > 2
   OR ABS(away_score - away_xg) > 2
ORDER BY gameweek DESC
LIMIT 10`))
		case "player_stats":
			resp.Patterns = append(resp.Patterns, models.Pattern{
				Type:        "anomaly",
				Description: "Players scoring well above the per-gameweek average",
				Confidence:  0.78,
			})
			resp.SQLQueries = append(resp.SQLQueries, strings.TrimSpace(`
SELECT p.web_name, ps.total_points, ps.goals_scored,
       AVG(ps.total_points) OVER (PARTITION BY ps.player_id) AS avg_points
FROM player_stats ps
JOIN players p ON ps.player_id = p.player_id
WHERE ps.season = '2024-2025'
ORDER BY ps.total_points DESC
LIMIT 10`))
		}
	case "trend":
		if req.Table == "matches" {
			resp.Patterns = append(resp.Patterns, models.Pattern{
				Type:        "trend",
				Description: "Goal scoring trends across gameweeks",
				Confidence:  0.92,
			})
			resp.SQLQueries = append(resp.SQLQueries, strings.TrimSpace(`
SELECT gameweek,
       AVG(home_score + away_score) AS avg_total_goals,
       AVG(home_xg + away_xg) AS avg_total_xg
FROM matches
WHERE season = '2024-2025'
GROUP BY gameweek
ORDER BY gameweek`))
		}
	case "correlation":
		resp.Patterns = append(resp.Patterns, models.Pattern{
			Type:        "correlation",
			Description: "Correlation between expected goals and goals scored",
			Confidence:  0.67,
		})
		resp.SQLQueries = append(resp.SQLQueries, strings.TrimSpace(`
SELECT
    CASE
        WHEN home_xg > 2.0 THEN 'High (>2.0)'
        WHEN home_xg > 1.0 THEN 'Medium (1.0-2.0)'
        ELSE 'Low (<1.0)'
    END AS xg_range,
    AVG(home_score) AS avg_goals,
    COUNT(*) AS match_count
FROM matches
WHERE home_xg IS NOT NULL
  AND season = '2024-2025'
GROUP BY xg_range
ORDER BY avg_goals DESC`))
	}

	if len(resp.Patterns) > 0 {
		resp.Visualizations = []string{"bar_chart", "line_graph"}
	}
	return resp
}

var suggestionsMap = map[string][]string{
	"aggregation": {
		"Use GROUP BY with aggregate functions (SUM, AVG, COUNT)",
		"Consider adding HAVING clause for filtering grouped results",
		"Use window functions for running totals or rankings",
	},
	"join": {
		"Ensure join columns are indexed",
		"Join smaller tables first",
		"Use INNER JOIN when possible instead of LEFT JOIN",
		"Consider denormalizing frequently joined data",
	},
	"filtering": {
		"Add indexes on WHERE clause columns",
		"Use IN() instead of multiple OR conditions",
		"Place most selective filters first",
		"Consider using EXISTS instead of IN for subqueries",
	},
	"sorting": {
		"Create composite indexes for ORDER BY columns",
		"Limit results before sorting when possible",
		"Consider using LIMIT with ORDER BY",
		"Avoid sorting on calculated fields",
	},
}

func (s *optimizeService) Suggestions(queryType string) ([]string, error) {
	suggestions, ok := suggestionsMap[queryType]
	if !ok {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrUnknownQueryType, queryType)
	}
	return suggestions, nil
}

func (s *optimizeService) ExplainPlan(sqlText string) *models.ExplainResponse {
	upper := strings.ToUpper(sqlText)
	var parts []string

	if strings.Contains(upper, "SELECT") {
		if strings.Contains(sqlText, "*") {
			parts = append(parts, "Selecting all columns (consider specifying only needed columns)")
		} else {
			parts = append(parts, "Selecting specific columns (good practice)")
		}
	}
	if n := strings.Count(upper, "JOIN"); n > 0 {
		parts = append(parts, fmt.Sprintf("Joining %d table(s)", n))
	}
	if strings.Contains(upper, "WHERE") {
		parts = append(parts, "Filtering results with WHERE clause")
	}
	if strings.Contains(upper, "GROUP BY") {
		parts = append(parts, "Grouping results for aggregation")
	}
	if strings.Contains(upper, "ORDER BY") {
		parts = append(parts, "Sorting results")
	}
	if strings.Contains(upper, "LIMIT") {
		parts = append(parts, "Limiting result set size")
	}

	speed := "Fast"
	if strings.Count(upper, "JOIN") > 2 {
		speed = "Moderate"
	}
	if strings.Contains(sqlText, "*") && strings.Contains(upper, "JOIN") {
		speed = "Slow"
	}

	return &models.ExplainResponse{
		Explanation: parts,
		Estimate: map[string]any{
			"estimated_speed": speed,
			"tips": []string{
				"Add indexes on JOIN and WHERE columns",
				"Use EXPLAIN ANALYZE for detailed performance metrics",
				"Consider caching frequently run queries",
			},
		},
	}
}
