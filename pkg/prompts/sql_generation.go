// Package prompts builds the LLM prompts used for SQL generation,
// explanation, and optimization.
package prompts

import (
	"fmt"
	"sort"
	"strings"
)

// SQLGenerationSystem is the system message for the SQL generator. The
// clause-order rules exist because models routinely emit WHERE after
// GROUP BY on this schema.
const SQLGenerationSystem = `You are an expert SQL query generator for a football (soccer) analytics database.

Database Schema:
- teams: id, code, name, short_name, season, elo, strength
- players: id, player_id, web_name, position (GK/DEF/MID/FWD), team_code, season
- matches: id, gameweek, home_team, away_team, home_score, away_score, home_xg, away_xg, season
- player_stats: id, player_id, gameweek, total_points, goals_scored, assists, season
- player_match_stats: id, player_id, gameweek, minutes_played, goals, assists, xg, season

Available seasons: '2024-2025', '2025-2026'

Rules:
1. Always use proper table and column names
2. Include season filter unless querying across seasons
3. Use appropriate JOINs when combining tables
4. Add LIMIT clause for large result sets
5. Use team names exactly as stored (e.g., 'Man City' not 'Manchester City')
6. Position values are: 'GK', 'DEF', 'MID', 'FWD'
7. CRITICAL: SQL clause order MUST be: SELECT, FROM, JOIN, WHERE, GROUP BY, HAVING, ORDER BY, LIMIT
8. NEVER put WHERE after GROUP BY - WHERE must come BEFORE GROUP BY
9. When using aggregates (SUM, COUNT, AVG), GROUP BY is required for non-aggregate columns

Generate only the SQL query, no explanations.`

// BuildSQLGenerationPrompt creates the user prompt for SQL generation.
// It carries the question plus per-request context: terminology mappings,
// retrieved schema snippets, and the season to scope to.
func BuildSQLGenerationPrompt(question string, mappings map[string]string, schemaContext []string, season string) string {
	var prompt strings.Builder

	if len(mappings) > 0 {
		prompt.WriteString("Football terminology mappings:\n")
		keys := make([]string, 0, len(mappings))
		for k := range mappings {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			prompt.WriteString(fmt.Sprintf("- %s: %s\n", k, mappings[k]))
		}
		prompt.WriteString("\n")
	}

	if len(schemaContext) > 0 {
		prompt.WriteString("Relevant schema context:\n")
		for _, snippet := range schemaContext {
			prompt.WriteString(snippet)
			prompt.WriteString("\n")
		}
		prompt.WriteString("\n")
	}

	if season != "" {
		prompt.WriteString(fmt.Sprintf("Scope results to season '%s' unless the question spans seasons.\n\n", season))
	}

	prompt.WriteString("Question: ")
	prompt.WriteString(question)

	return prompt.String()
}

// BuildExplanationPrompt creates the prompt for a beginner-friendly
// explanation of a generated query.
func BuildExplanationPrompt(question, sql string, mappings map[string]string) string {
	var prompt strings.Builder

	prompt.WriteString("Explain this SQL query in simple terms for someone learning SQL:\n\n")
	prompt.WriteString(fmt.Sprintf("Question: %s\n", question))
	prompt.WriteString(fmt.Sprintf("SQL: %s\n\n", sql))

	if len(mappings) > 0 {
		prompt.WriteString("Football terms used:\n")
		keys := make([]string, 0, len(mappings))
		for k := range mappings {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			prompt.WriteString(fmt.Sprintf("- %s: %s\n", k, mappings[k]))
		}
		prompt.WriteString("\n")
	}

	prompt.WriteString("Provide a brief, beginner-friendly explanation of what the query does and how it works.")

	return prompt.String()
}

// BuildOptimizationPrompt creates the prompt for query optimization.
func BuildOptimizationPrompt(sql string, suggestions []string) string {
	var prompt strings.Builder

	prompt.WriteString("Optimize this SQL query for better performance:\n\n")
	prompt.WriteString(fmt.Sprintf("Original SQL: %s\n\n", sql))

	if len(suggestions) > 0 {
		prompt.WriteString("Current suggestions:\n")
		for _, s := range suggestions {
			prompt.WriteString(fmt.Sprintf("- %s\n", s))
		}
		prompt.WriteString("\n")
	}

	prompt.WriteString("Provide an optimized version of the query and explain the improvements.")

	return prompt.String()
}
