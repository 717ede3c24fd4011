package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sql-ball/sqlball-engine/pkg/apperrors"
	"github.com/sql-ball/sqlball-engine/pkg/football"
	"github.com/sql-ball/sqlball-engine/pkg/llm"
	"github.com/sql-ball/sqlball-engine/pkg/models"
)

func newTestOptimizeService(client llm.LLMClient) OptimizeService {
	return NewOptimizeService(football.NewTermMapper(), client, zap.NewNop())
}

func TestOptimize_ExtractsRewrittenQuery(t *testing.T) {
	client := llm.NewMockLLMClient()
	client.GenerateResponseFunc = func(ctx context.Context, prompt, system string, temperature float64) (string, error) {
		return "Here is a faster version:\n\nSELECT home_team, away_team FROM matches WHERE season = '2024-2025';\n\nIt avoids SELECT *.", nil
	}
	svc := newTestOptimizeService(client)

	resp, err := svc.Optimize(context.Background(), &models.OptimizeRequest{
		SQL: "SELECT * FROM matches",
	})
	require.NoError(t, err)

	assert.Equal(t, "SELECT * FROM matches", resp.OriginalSQL)
	assert.Equal(t, "SELECT home_team, away_team FROM matches WHERE season = '2024-2025';", resp.OptimizedSQL)
	assert.Contains(t, resp.Suggestions, "Consider selecting only needed columns instead of SELECT *")
	assert.NotEmpty(t, resp.Explanation)
}

func TestOptimize_LLMFailureReturnsOriginal(t *testing.T) {
	client := llm.NewMockLLMClient()
	client.GenerateResponseFunc = func(ctx context.Context, prompt, system string, temperature float64) (string, error) {
		return "", errors.New("503 service unavailable")
	}
	svc := newTestOptimizeService(client)

	resp, err := svc.Optimize(context.Background(), &models.OptimizeRequest{
		SQL: "SELECT * FROM matches",
	})
	require.NoError(t, err)
	assert.Equal(t, "SELECT * FROM matches", resp.OptimizedSQL)
	assert.NotEmpty(t, resp.Suggestions)
}

func TestOptimize_MissingCredential(t *testing.T) {
	client := llm.NewMockLLMClient()
	client.Credential = false
	svc := newTestOptimizeService(client)

	_, err := svc.Optimize(context.Background(), &models.OptimizeRequest{SQL: "SELECT 1"})
	assert.ErrorIs(t, err, apperrors.ErrMissingAPIKey)
}

func TestOptimize_EmptySQL(t *testing.T) {
	svc := newTestOptimizeService(llm.NewMockLLMClient())

	_, err := svc.Optimize(context.Background(), &models.OptimizeRequest{SQL: "  "})
	assert.Error(t, err)
}

func TestDiscoverPatterns(t *testing.T) {
	svc := newTestOptimizeService(llm.NewMockLLMClient())

	tests := []struct {
		name      string
		req       models.PatternRequest
		wantEmpty bool
	}{
		{"match anomalies", models.PatternRequest{Table: "matches", PatternType: "anomaly"}, false},
		{"player anomalies", models.PatternRequest{Table: "player_stats", PatternType: "anomaly"}, false},
		{"match trends", models.PatternRequest{Table: "matches", PatternType: "trend"}, false},
		{"correlation", models.PatternRequest{Table: "matches", PatternType: "correlation"}, false},
		{"unknown table", models.PatternRequest{Table: "nothing", PatternType: "anomaly"}, true},
		{"unknown type", models.PatternRequest{Table: "matches", PatternType: "weird"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := svc.DiscoverPatterns(&tt.req)
			if tt.wantEmpty {
				assert.Empty(t, resp.Patterns)
				assert.Empty(t, resp.Visualizations)
			} else {
				require.NotEmpty(t, resp.Patterns)
				assert.Len(t, resp.SQLQueries, len(resp.Patterns))
				assert.NotEmpty(t, resp.Visualizations)
			}
		})
	}
}

func TestSuggestions(t *testing.T) {
	svc := newTestOptimizeService(llm.NewMockLLMClient())

	for _, queryType := range []string{"aggregation", "join", "filtering", "sorting"} {
		suggestions, err := svc.Suggestions(queryType)
		require.NoError(t, err, queryType)
		assert.NotEmpty(t, suggestions, queryType)
	}

	_, err := svc.Suggestions("nonsense")
	assert.ErrorIs(t, err, apperrors.ErrUnknownQueryType)
}

func TestExplainPlan(t *testing.T) {
	svc := newTestOptimizeService(llm.NewMockLLMClient())

	resp := svc.ExplainPlan("SELECT * FROM matches m JOIN teams t ON m.home_team = t.name WHERE m.season = '2024-2025' ORDER BY m.gameweek LIMIT 10")

	assert.Contains(t, resp.Explanation, "Selecting all columns (consider specifying only needed columns)")
	assert.Contains(t, resp.Explanation, "Joining 1 table(s)")
	assert.Contains(t, resp.Explanation, "Filtering results with WHERE clause")
	assert.Equal(t, "Slow", resp.Estimate["estimated_speed"])
}
