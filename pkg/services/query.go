// Package services implements the application logic behind the HTTP API:
// query orchestration, optimization, and dashboard aggregation.
package services

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/sql-ball/sqlball-engine/pkg/apperrors"
	"github.com/sql-ball/sqlball-engine/pkg/config"
	"github.com/sql-ball/sqlball-engine/pkg/database"
	"github.com/sql-ball/sqlball-engine/pkg/football"
	"github.com/sql-ball/sqlball-engine/pkg/llm"
	"github.com/sql-ball/sqlball-engine/pkg/logging"
	"github.com/sql-ball/sqlball-engine/pkg/models"
	"github.com/sql-ball/sqlball-engine/pkg/prompts"
	"github.com/sql-ball/sqlball-engine/pkg/retry"
	"github.com/sql-ball/sqlball-engine/pkg/schema"
	sqlrepair "github.com/sql-ball/sqlball-engine/pkg/sql"
)

// Executor runs a vetted SQL statement against the analytics database.
type Executor interface {
	Run(ctx context.Context, sqlQuery string) (*database.Result, error)
}

// QueryService converts natural language questions into executed SQL.
type QueryService interface {
	// Process runs the full pipeline: terminology mapping, context
	// retrieval, generation, repair, screening, execution, explanation.
	Process(ctx context.Context, req *models.QueryRequest) (*models.QueryResponse, error)

	// Validate repairs a statement and reports advisory findings without
	// executing anything.
	Validate(sqlText string) *models.ValidateResponse
}

type queryService struct {
	mapper    *football.TermMapper
	retriever *schema.Retriever
	client    llm.LLMClient
	executor  Executor
	pipeline  *sqlrepair.Pipeline
	cfg       config.QueryConfig
	logger    *zap.Logger
}

// NewQueryService creates the query orchestrator.
func NewQueryService(
	mapper *football.TermMapper,
	retriever *schema.Retriever,
	client llm.LLMClient,
	executor Executor,
	pipeline *sqlrepair.Pipeline,
	cfg config.QueryConfig,
	logger *zap.Logger,
) QueryService {
	return &queryService{
		mapper:    mapper,
		retriever: retriever,
		client:    client,
		executor:  executor,
		pipeline:  pipeline,
		cfg:       cfg,
		logger:    logger.Named("query"),
	}
}

const explanationFallback = "This query searches the football database based on your question."

func (s *queryService) Process(ctx context.Context, req *models.QueryRequest) (*models.QueryResponse, error) {
	start := time.Now()

	question := strings.TrimSpace(req.Question)
	if question == "" {
		return nil, fmt.Errorf("question is required")
	}

	season := req.Season
	if season == "" {
		season = s.cfg.DefaultSeason
	}
	// The season value is interpolated into SQL text during repair, so it
	// gets the same screening as any other literal.
	if check := sqlrepair.CheckLiteral("season", season); check != nil {
		s.logger.Warn("rejected season parameter",
			zap.String("fingerprint", check.Fingerprint))
		return nil, fmt.Errorf("invalid season parameter")
	}

	client := s.client
	if req.APIKey != "" {
		client = client.WithAPIKey(req.APIKey)
	}
	if !client.HasCredential() {
		return nil, apperrors.ErrMissingAPIKey
	}

	_, mappings := s.mapper.MapQuery(question)
	hints := s.mapper.GetContextHints(question)

	snippets := s.retriever.Search(ctx, question, s.cfg.ContextSnippets)
	contextDocs := make([]string, 0, len(snippets))
	for _, snip := range snippets {
		contextDocs = append(contextDocs, snip.Text)
	}

	raw := s.generateSQL(ctx, client, question, mappings, contextDocs, season)
	repaired := s.pipeline.Repair(raw, season)

	if hints.NeedsSeason {
		repaired = sqlrepair.EnsureSeasonFilter(repaired, season)
		repaired = sqlrepair.ForceSeason(repaired, season)
	}

	limit := req.Limit
	if limit == 0 {
		limit = hints.DefaultLimit
	}
	repaired = sqlrepair.ApplyLimit(repaired, limit)

	if err := sqlrepair.EnsureSelectOnly(repaired); err != nil {
		s.logger.Warn("rejected generated statement",
			zap.String("sql", logging.SanitizeQuery(repaired)))
		return nil, err
	}

	result, err := s.executor.Run(ctx, repaired)
	if err != nil {
		return nil, err
	}

	resp := &models.QueryResponse{
		SQL:           repaired,
		Results:       result.Rows,
		Optimizations: s.mapper.SuggestOptimizations(repaired),
		MappingsUsed:  mappings,
	}

	if req.IncludeExplanation {
		resp.Explanation = s.explain(ctx, client, question, repaired, mappings)
	}

	resp.ExecutionTimeMs = roundMs(time.Since(start))
	return resp, nil
}

// generateSQL asks the LLM for a query, retrying transient failures. A
// permanent failure degrades to a canned query so the caller still gets a
// usable answer.
func (s *queryService) generateSQL(
	ctx context.Context,
	client llm.LLMClient,
	question string,
	mappings map[string]string,
	contextDocs []string,
	season string,
) string {
	prompt := prompts.BuildSQLGenerationPrompt(question, mappings, contextDocs, season)

	raw, err := retry.DoWithResult(ctx, retry.LLMConfig(), func() (string, error) {
		return client.GenerateResponse(ctx, prompt, prompts.SQLGenerationSystem, 0)
	})
	if err != nil || strings.TrimSpace(raw) == "" {
		s.logger.Warn("SQL generation failed, using fallback query",
			zap.Error(err))
		return fallbackSQL(question, season)
	}
	return raw
}

// Canned queries used when generation fails, keyed by question substrings.
// Each template takes the season as its only argument.
var fallbackTemplates = []struct {
	keyword  string
	template string
}{
	{
		keyword: "home record",
		template: "SELECT home_team, COUNT(*) AS played, " +
			"SUM(CASE WHEN home_score > away_score THEN 1 ELSE 0 END) AS wins, " +
			"SUM(CASE WHEN home_score = away_score THEN 1 ELSE 0 END) AS draws, " +
			"SUM(CASE WHEN home_score < away_score THEN 1 ELSE 0 END) AS losses " +
			"FROM matches WHERE season = '%s' GROUP BY home_team ORDER BY wins DESC LIMIT 10",
	},
	{
		keyword: "scorer",
		template: "SELECT p.web_name, SUM(ps.goals_scored) AS goals " +
			"FROM players p JOIN player_stats ps ON p.player_id = ps.player_id " +
			"WHERE ps.season = '%s' GROUP BY p.web_name ORDER BY goals DESC LIMIT 10",
	},
	{
		keyword: "assist",
		template: "SELECT p.web_name, SUM(ps.assists) AS assists " +
			"FROM players p JOIN player_stats ps ON p.player_id = ps.player_id " +
			"WHERE ps.season = '%s' GROUP BY p.web_name ORDER BY assists DESC LIMIT 10",
	},
	{
		keyword: "clean sheet",
		template: "SELECT away_team AS team, COUNT(*) AS clean_sheets " +
			"FROM matches WHERE season = '%s' AND home_score = 0 " +
			"GROUP BY away_team ORDER BY clean_sheets DESC LIMIT 10",
	},
}

func fallbackSQL(question, season string) string {
	lower := strings.ToLower(question)
	for _, entry := range fallbackTemplates {
		if strings.Contains(lower, entry.keyword) {
			return fmt.Sprintf(entry.template, season)
		}
	}
	return fmt.Sprintf("SELECT * FROM matches WHERE season = '%s' LIMIT 10", season)
}

func (s *queryService) explain(ctx context.Context, client llm.LLMClient, question, sqlText string, mappings map[string]string) string {
	prompt := prompts.BuildExplanationPrompt(question, sqlText, mappings)

	explanation, err := client.GenerateResponse(ctx, prompt, "", 0.3)
	if err != nil || strings.TrimSpace(explanation) == "" {
		s.logger.Debug("explanation generation failed", zap.Error(err))
		return explanationFallback
	}
	return strings.TrimSpace(explanation)
}

func (s *queryService) Validate(sqlText string) *models.ValidateResponse {
	repaired := s.pipeline.Repair(sqlText, "")
	warnings := sqlrepair.Validate(repaired)

	return &models.ValidateResponse{
		Valid:         len(warnings) == 0,
		StatementType: string(sqlrepair.DetectStatementType(repaired)),
		Warnings:      warnings,
		RepairedSQL:   repaired,
	}
}

func roundMs(d time.Duration) float64 {
	return math.Round(float64(d.Microseconds())/10) / 100
}
