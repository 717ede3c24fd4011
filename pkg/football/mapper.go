// Package football maps domain vocabulary found in a question to SQL
// fragments used as generation hints: positions, team groups, statistical
// concepts, time windows, ranking metrics, and aggregation functions.
package football

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

// TermMapper performs stateless dictionary lookups over the fixed vocabulary
// tables in terms.go. Matching is substring and case-insensitive; multiple
// categories may match one question and all matches are returned.
type TermMapper struct{}

// NewTermMapper creates a terminology mapper.
func NewTermMapper() *TermMapper {
	return &TermMapper{}
}

// MapQuery returns the unmodified question and a map from matched-term keys
// (prefixed with their category) to SQL fragment hints.
func (m *TermMapper) MapQuery(question string) (string, map[string]string) {
	lower := strings.ToLower(question)
	mappings := make(map[string]string)

	for term, fragment := range positionTerms {
		if strings.Contains(lower, term) {
			mappings["position_"+term] = fragment
		}
	}

	for group, teams := range teamGroups {
		if strings.Contains(lower, group) {
			mappings["team_group_"+group] = "team IN ('" + strings.Join(teams, "', '") + "')"
		}
	}

	for concept, fragment := range conceptTerms {
		if strings.Contains(lower, concept) {
			mappings["concept_"+concept] = fragment
		}
	}

	for period, fragment := range timePeriodTerms {
		if strings.Contains(lower, period) {
			mappings["time_"+period] = fragment
		}
	}

	for metric, fragment := range metricTerms {
		if strings.Contains(lower, metric) {
			mappings["metric_"+metric] = fragment
		}
	}

	for agg, fn := range aggregationTerms {
		if strings.Contains(lower, agg) {
			mappings["agg_"+agg] = fn
		}
	}

	return question, mappings
}

// ExtractTeamNames returns the database team names mentioned in the
// question, expanding the long-form aliases (Manchester United, Manchester
// City, Nottingham Forest) to their stored forms.
func (m *TermMapper) ExtractTeamNames(question string) []string {
	lower := strings.ToLower(question)

	seen := make(map[string]struct{})
	var found []string
	add := func(team string) {
		if _, ok := seen[team]; !ok {
			seen[team] = struct{}{}
			found = append(found, team)
		}
	}

	for _, team := range knownTeams {
		if strings.Contains(lower, strings.ToLower(team)) {
			add(team)
		}
	}
	for alias, team := range teamAliases {
		if strings.Contains(lower, alias) {
			add(team)
		}
	}

	return found
}

// ExtractPlayerNames returns capitalized words longer than three characters
// that are not interrogatives or SQL keywords. This is a heuristic for
// possible player-name tokens, not a roster lookup.
func (m *TermMapper) ExtractPlayerNames(question string) []string {
	var names []string
	for _, word := range strings.Fields(question) {
		word = strings.Trim(word, ".,?!'\"")
		if len(word) <= 3 {
			continue
		}
		runes := []rune(word)
		if !unicode.IsUpper(runes[0]) {
			continue
		}
		if _, stopped := nameStoplist[strings.ToLower(word)]; stopped {
			continue
		}
		names = append(names, word)
	}
	return names
}

// ContextHints carries per-question processing hints derived from phrasing.
type ContextHints struct {
	NeedsSeason    bool   // whether a season filter should be auto-applied
	SeasonFilter   string // explicit season when the question is about current data
	DefaultLimit   int    // default result-size cap
	OrderDirection string // "DESC" for superlative questions, else "ASC"
	NeedsGrouping  bool   // question implies aggregation
	Gameweek       int    // explicit gameweek number, 0 if absent
}

var gameweekPattern = regexp.MustCompile(`gameweek (\d+)`)

// GetContextHints derives processing hints from question phrasing.
func (m *TermMapper) GetContextHints(question string) ContextHints {
	lower := strings.ToLower(question)

	hints := ContextHints{
		// Most queries benefit from a season filter.
		NeedsSeason:    true,
		DefaultLimit:   10,
		OrderDirection: "ASC",
	}

	for _, word := range []string{"top", "best", "most", "highest"} {
		if strings.Contains(lower, word) {
			hints.OrderDirection = "DESC"
			break
		}
	}

	for _, word := range []string{"current", "now", "today", "this"} {
		if strings.Contains(lower, word) {
			hints.SeasonFilter = "2024-2025"
			break
		}
	}

	for _, word := range []string{"total", "sum", "average", "count"} {
		if strings.Contains(lower, word) {
			hints.NeedsGrouping = true
			break
		}
	}

	if match := gameweekPattern.FindStringSubmatch(lower); match != nil {
		if gw, err := strconv.Atoi(match[1]); err == nil {
			hints.Gameweek = gw
		}
	}

	return hints
}

// SuggestOptimizations returns advisory performance suggestions for a SQL
// statement, from a static rule list.
func (m *TermMapper) SuggestOptimizations(sqlText string) []string {
	upper := strings.ToUpper(sqlText)
	var suggestions []string

	if strings.Contains(upper, "SELECT *") {
		suggestions = append(suggestions, "Consider selecting only needed columns instead of SELECT *")
	}
	if strings.Contains(sqlText, "FROM matches") && !strings.Contains(upper, "WHERE") {
		suggestions = append(suggestions, "Add a WHERE clause to filter matches (e.g., by season or gameweek)")
	}
	if strings.Contains(upper, "JOIN") {
		suggestions = append(suggestions, "Ensure foreign key columns are indexed for faster JOINs")
	}
	if strings.Contains(upper, "DISTINCT") {
		suggestions = append(suggestions, "Consider if GROUP BY would be more efficient than DISTINCT")
	}
	if strings.Contains(upper, " OR ") {
		suggestions = append(suggestions, "Consider using IN() instead of multiple OR conditions")
	}

	return suggestions
}
