package schema

import (
	"context"
	"math"
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/jinzhu/inflection"
	"go.uber.org/zap"

	"github.com/sql-ball/sqlball-engine/pkg/llm"
)

// SearchResult is a corpus document with its relevance score. Higher is
// more relevant regardless of which search mode produced it.
type SearchResult struct {
	Document
	Score float64 `json:"score"`
}

// Retriever selects the schema documents most relevant to a question.
// When an embedding client is available it builds vectors for the corpus
// and ranks by cosine similarity; otherwise it falls back to keyword
// overlap. Search never fails: any embedding error downgrades that call
// to keyword mode.
type Retriever struct {
	docs   []Document
	client llm.LLMClient
	logger *zap.Logger

	mu         sync.RWMutex
	embeddings [][]float32
}

// NewRetriever creates a retriever over the given corpus. The client may
// be nil, which pins the retriever to keyword mode.
func NewRetriever(docs []Document, client llm.LLMClient, logger *zap.Logger) *Retriever {
	return &Retriever{
		docs:   docs,
		client: client,
		logger: logger.Named("retriever"),
	}
}

// Initialize builds embedding vectors for the corpus. Failures are logged
// and leave the retriever in keyword mode; they are not fatal because the
// keyword fallback still produces usable context.
func (r *Retriever) Initialize(ctx context.Context) {
	if r.client == nil || !r.client.HasCredential() {
		r.logger.Info("no embedding client, retriever in keyword mode")
		return
	}

	vectors := make([][]float32, len(r.docs))
	for i, doc := range r.docs {
		vec, err := r.client.CreateEmbedding(ctx, doc.Text)
		if err != nil {
			r.logger.Warn("corpus embedding failed, falling back to keyword search",
				zap.String("doc", doc.ID),
				zap.Error(err))
			return
		}
		vectors[i] = vec
	}

	r.mu.Lock()
	r.embeddings = vectors
	r.mu.Unlock()

	r.logger.Info("schema corpus embedded", zap.Int("documents", len(r.docs)))
}

// Search returns the n most relevant documents for the question.
func (r *Retriever) Search(ctx context.Context, question string, n int) []SearchResult {
	if n <= 0 || len(r.docs) == 0 {
		return nil
	}

	r.mu.RLock()
	vectors := r.embeddings
	r.mu.RUnlock()

	if vectors != nil && r.client != nil {
		queryVec, err := r.client.CreateEmbedding(ctx, question)
		if err == nil {
			return r.rankBySimilarity(queryVec, vectors, n)
		}
		r.logger.Warn("query embedding failed, using keyword search", zap.Error(err))
	}

	return r.rankByKeywords(question, n)
}

func (r *Retriever) rankBySimilarity(queryVec []float32, vectors [][]float32, n int) []SearchResult {
	results := make([]SearchResult, 0, len(r.docs))
	for i, doc := range r.docs {
		results = append(results, SearchResult{
			Document: doc,
			Score:    cosineSimilarity(queryVec, vectors[i]),
		})
	}
	return topN(results, n)
}

var tokenPattern = regexp.MustCompile(`[a-z0-9_]+`)

func (r *Retriever) rankByKeywords(question string, n int) []SearchResult {
	terms := expandTokens(tokenPattern.FindAllString(strings.ToLower(question), -1))
	if len(terms) == 0 {
		return nil
	}

	results := make([]SearchResult, 0, len(r.docs))
	for _, doc := range r.docs {
		score := keywordScore(doc, terms, strings.ToLower(question))
		if score > 0 {
			results = append(results, SearchResult{Document: doc, Score: score})
		}
	}
	return topN(results, n)
}

// expandTokens adds singular and plural forms of each token so "scorers"
// still matches a document that says "scorer".
func expandTokens(tokens []string) map[string]struct{} {
	terms := make(map[string]struct{}, len(tokens)*3)
	for _, tok := range tokens {
		terms[tok] = struct{}{}
		terms[inflection.Singular(tok)] = struct{}{}
		terms[inflection.Plural(tok)] = struct{}{}
	}
	return terms
}

func keywordScore(doc Document, terms map[string]struct{}, question string) float64 {
	score := 0.0

	for _, tok := range tokenPattern.FindAllString(strings.ToLower(doc.Text), -1) {
		if _, ok := terms[tok]; ok {
			score++
		}
	}

	// Alias phrase matches are strong signals
	for _, alias := range doc.Aliases {
		if strings.Contains(question, strings.ToLower(alias)) {
			score += 2
		}
	}

	return score
}

func topN(results []SearchResult, n int) []SearchResult {
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	if len(results) > n {
		results = results[:n]
	}
	return results
}

func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
