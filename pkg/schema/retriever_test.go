package schema

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sql-ball/sqlball-engine/pkg/llm"
)

func TestLoadCorpus(t *testing.T) {
	docs, err := LoadCorpus()
	require.NoError(t, err)
	require.NotEmpty(t, docs)

	byID := make(map[string]Document)
	for _, d := range docs {
		assert.NotEmpty(t, d.ID)
		assert.NotEmpty(t, d.Text)
		byID[d.ID] = d
	}

	assert.Contains(t, byID, "matches_table")
	assert.Equal(t, "position = 'FWD'", byID["position_striker"].QueryPattern)

	// The goalkeeper code must match the terminology mapper's fragments.
	assert.Contains(t, byID["players_table"].Text, "GK, DEF, MID, FWD")
	assert.NotContains(t, byID["players_table"].Text, "GKP")

	assert.Contains(t, byID["matches_table"].Columns, "div")
}

func TestKeywordSearch_FindsRelevantDocuments(t *testing.T) {
	docs, err := LoadCorpus()
	require.NoError(t, err)

	r := NewRetriever(docs, nil, zap.NewNop())

	results := r.Search(context.Background(), "who are the top strikers this season", 3)
	require.NotEmpty(t, results)
	assert.LessOrEqual(t, len(results), 3)

	ids := make([]string, 0, len(results))
	for _, res := range results {
		ids = append(ids, res.ID)
	}
	assert.Contains(t, ids, "position_striker")
}

func TestKeywordSearch_PluralFormsMatch(t *testing.T) {
	docs := []Document{
		{ID: "clean_sheet", Text: "clean sheet means no goals conceded", Aliases: []string{"shutout"}},
		{ID: "xg", Text: "expected goals measures chance quality"},
	}
	r := NewRetriever(docs, nil, zap.NewNop())

	// "sheets" should still match the "sheet" document
	results := r.Search(context.Background(), "most clean sheets", 1)
	require.Len(t, results, 1)
	assert.Equal(t, "clean_sheet", results[0].ID)
}

func TestSearch_EmptyQuestion(t *testing.T) {
	docs, err := LoadCorpus()
	require.NoError(t, err)

	r := NewRetriever(docs, nil, zap.NewNop())
	assert.Empty(t, r.Search(context.Background(), "", 3))
	assert.Empty(t, r.Search(context.Background(), "top scorers", 0))
}

func TestEmbeddingSearch_RanksBySimilarity(t *testing.T) {
	docs := []Document{
		{ID: "a", Text: "matches table"},
		{ID: "b", Text: "players table"},
	}

	// Deterministic fake embeddings: doc a points along x, doc b along y.
	vectors := map[string][]float32{
		"matches table": {1, 0},
		"players table": {0, 1},
	}
	client := llm.NewMockLLMClient()
	client.CreateEmbeddingFunc = func(ctx context.Context, input string) ([]float32, error) {
		if v, ok := vectors[input]; ok {
			return v, nil
		}
		return []float32{0.9, 0.1}, nil // query leans toward doc a
	}

	r := NewRetriever(docs, client, zap.NewNop())
	r.Initialize(context.Background())

	results := r.Search(context.Background(), "show me match results", 2)
	require.Len(t, results, 2)
	assert.Equal(t, "a", results[0].ID)
	assert.Greater(t, results[0].Score, results[1].Score)
}

func TestEmbeddingFailure_FallsBackToKeywords(t *testing.T) {
	docs := []Document{
		{ID: "matches_table", Text: "matches table contains match results"},
	}
	client := llm.NewMockLLMClient()
	client.CreateEmbeddingFunc = func(ctx context.Context, input string) ([]float32, error) {
		return nil, errors.New("503 service unavailable")
	}

	r := NewRetriever(docs, client, zap.NewNop())
	r.Initialize(context.Background())

	results := r.Search(context.Background(), "match results", 1)
	require.Len(t, results, 1)
	assert.Equal(t, "matches_table", results[0].ID)
}

func TestCosineSimilarity(t *testing.T) {
	assert.InDelta(t, 1.0, cosineSimilarity([]float32{1, 0}, []float32{1, 0}), 1e-9)
	assert.InDelta(t, 0.0, cosineSimilarity([]float32{1, 0}, []float32{0, 1}), 1e-9)
	assert.Equal(t, 0.0, cosineSimilarity([]float32{1}, []float32{1, 2}))
	assert.Equal(t, 0.0, cosineSimilarity(nil, nil))
}

func TestGetInfo(t *testing.T) {
	info := GetInfo()
	assert.Len(t, info.Tables, 5)
	assert.Len(t, info.Relationships, 3)
	assert.Equal(t, []string{"2024-2025", "2025-2026"}, info.Seasons)
}
