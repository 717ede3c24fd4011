// Package sql provides heuristic repair and validation for LLM-generated SQL.
//
// The repair pipeline is a fixed sequence of pure text transformations. It is
// deliberately not a parser: each pass targets a known failure mode of the
// generator (markdown fences, double-quoted literals, truncated expressions,
// conflicting season predicates, WHERE after GROUP BY) and leaves anything it
// does not recognize untouched.
package sql

import (
	"regexp"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

// Pipeline applies the ordered repair passes to raw generator output.
// All passes are pure string transformations; the pipeline holds no state
// beyond its logger and is safe for concurrent use.
type Pipeline struct {
	logger *zap.Logger
}

// NewPipeline creates a repair pipeline.
func NewPipeline(logger *zap.Logger) *Pipeline {
	return &Pipeline{logger: logger.Named("sqlrepair")}
}

// Repair runs the full pass sequence over raw SQL and returns a single
// semicolon-terminated statement. The season argument is the requested
// scoping value; every season predicate in the output is forced to it.
//
// Validation findings are advisory: they are logged but the repaired text is
// always returned, leaving the execution decision to the caller.
func (p *Pipeline) Repair(raw string, season string) string {
	repaired := StripFences(raw)
	repaired = NormalizeQuotes(repaired)
	repaired = RepairTruncation(repaired)
	repaired = NormalizeBooleans(repaired)
	repaired = RenameLegacyColumns(repaired)
	repaired = ResolveSeasonConflict(repaired)
	repaired = ReorderClauses(repaired)
	repaired = ForceSeason(repaired, season)
	repaired = EnsureTerminated(repaired)

	if warnings := Validate(repaired); len(warnings) > 0 {
		p.logger.Warn("repaired SQL failed advisory validation",
			zap.Strings("warnings", warnings),
			zap.String("sql", repaired))
	}

	return repaired
}

// StripFences removes markdown code-fence markers and collapses all
// whitespace runs (including newlines) to single spaces, yielding one-line
// SQL.
func StripFences(s string) string {
	s = strings.ReplaceAll(s, "```sql", "")
	s = strings.ReplaceAll(s, "```", "")
	return strings.Join(strings.Fields(s), " ")
}

var (
	eqDoubleQuotePattern = regexp.MustCompile(`=\s*"([^"]*)"`)
	inListPattern        = regexp.MustCompile(`(?i)\bIN\s*\(([^)]*)\)`)
	doubleQuotedElement  = regexp.MustCompile(`"([^"]*)"`)
)

// NormalizeQuotes rewrites double-quoted string literals to single-quoted
// ones. The target engine treats double quotes as identifier quoting, so a
// generated `team = "Arsenal"` would reference a nonexistent column instead
// of comparing against a string.
func NormalizeQuotes(s string) string {
	s = eqDoubleQuotePattern.ReplaceAllString(s, `= '$1'`)
	s = inListPattern.ReplaceAllStringFunc(s, func(group string) string {
		return doubleQuotedElement.ReplaceAllString(group, `'$1'`)
	})
	return s
}

// knownColumns is the fix list for truncated identifier repair. A trailing
// token that is an unambiguous prefix of exactly one entry is restored to
// the full name.
var knownColumns = []string{
	"goals_scored",
	"goals_conceded",
	"expected_goals",
	"expected_assists",
	"minutes_played",
	"total_points",
	"clean_sheets",
	"yellow_cards",
	"red_cards",
	"home_score",
	"away_score",
	"home_team",
	"away_team",
	"kickoff_time",
	"gameweek",
	"assists",
	"season",
}

var (
	sumCaseWhenPattern = regexp.MustCompile(`(?i)SUM\s*\(\s*CASE\s+WHEN\b`)
	endTokenPattern    = regexp.MustCompile(`(?i)\bEND\s*\)`)
	trailingIdentifier = regexp.MustCompile(`([A-Za-z_][A-Za-z0-9_]*)\s*;?\s*$`)
)

// RepairTruncation patches known truncation patterns in generator output:
// an unclosed SUM(CASE WHEN ...) expression gains the missing "END)" tokens,
// and a trailing token that is an unambiguous prefix of a known column name
// is restored to the full name. Unrecognized truncations are left as-is and
// surface later as validation warnings.
func RepairTruncation(s string) string {
	s = restoreTruncatedColumn(s)

	open := strings.Count(s, "(")
	closed := strings.Count(s, ")")
	if open > closed && sumCaseWhenPattern.MatchString(s) && !endTokenPattern.MatchString(s) {
		s = strings.TrimRight(s, " ;") + " END)"
	}

	return s
}

func restoreTruncatedColumn(s string) string {
	m := trailingIdentifier.FindStringSubmatchIndex(s)
	if m == nil {
		return s
	}
	token := s[m[2]:m[3]]
	if len(token) < 4 {
		return s
	}

	lower := strings.ToLower(token)
	var full string
	for _, col := range knownColumns {
		if col != lower && strings.HasPrefix(col, lower) {
			if full != "" {
				return s // ambiguous prefix, leave for validation
			}
			full = col
		}
	}
	if full == "" {
		return s
	}
	return s[:m[2]] + full + s[m[3]:]
}

var (
	finishedTruePattern  = regexp.MustCompile(`(?i)\bfinished\s*=\s*1\b`)
	finishedFalsePattern = regexp.MustCompile(`(?i)\bfinished\s*=\s*0\b`)
	dateColumnPattern    = regexp.MustCompile(`(?i)\bdate\b`)
)

// NormalizeBooleans rewrites integer comparisons against the finished flag.
// The stored column is a boolean, so `finished = 1` is a type error on the
// target engine.
func NormalizeBooleans(s string) string {
	s = finishedTruePattern.ReplaceAllString(s, "finished = true")
	s = finishedFalsePattern.ReplaceAllString(s, "finished = false")
	return s
}

// RenameLegacyColumns rewrites column names the generator knows from older
// schema versions. Only `date` is affected; the stored column is
// kickoff_time.
func RenameLegacyColumns(s string) string {
	return dateColumnPattern.ReplaceAllString(s, "kickoff_time")
}

var (
	seasonEqPattern     = regexp.MustCompile(`(?i)\bseason\s*=\s*'([^']*)'`)
	andSeasonPattern    = regexp.MustCompile(`(?i)\s+AND\s+season\s*=\s*'[^']*'`)
	seasonAndPattern    = regexp.MustCompile(`(?i)\bseason\s*=\s*'[^']*'\s+AND\s+`)
	bareSeasonPattern   = regexp.MustCompile(`(?i)\bseason\s*=\s*'[^']*'`)
	whereAndArtifact    = regexp.MustCompile(`(?i)\bWHERE\s+AND\b`)
	andAndArtifact      = regexp.MustCompile(`(?i)\bAND\s+AND\b`)
	emptyWhereArtifact  = regexp.MustCompile(`(?i)\bWHERE\s+(GROUP\s+BY|ORDER\s+BY|HAVING|LIMIT)\b`)
	trailingWhere       = regexp.MustCompile(`(?i)\s*\bWHERE\s*;?\s*$`)
	whereKeywordPattern = regexp.MustCompile(`(?i)\bWHERE\b`)
)

// ResolveSeasonConflict collapses conflicting season predicates. A generated
// query sometimes binds season to two different literals; a row cannot match
// both, so the query would return nothing. Resolution keeps the
// first-encountered value: all season predicates are stripped together with
// any dangling AND artifacts, then a single canonical clause is reinserted
// after WHERE if one survives, else as a new WHERE before the earliest of
// GROUP BY, ORDER BY, or LIMIT.
func ResolveSeasonConflict(s string) string {
	matches := seasonEqPattern.FindAllStringSubmatch(s, -1)
	if len(matches) < 2 {
		return s
	}
	distinct := make(map[string]struct{}, len(matches))
	for _, m := range matches {
		distinct[strings.ToLower(m[1])] = struct{}{}
	}
	if len(distinct) < 2 {
		return s
	}
	first := matches[0][1]

	out := andSeasonPattern.ReplaceAllString(s, "")
	out = seasonAndPattern.ReplaceAllString(out, "")
	out = bareSeasonPattern.ReplaceAllString(out, "")
	out = whereAndArtifact.ReplaceAllString(out, "WHERE")
	out = andAndArtifact.ReplaceAllString(out, "AND")
	out = emptyWhereArtifact.ReplaceAllString(out, "$1")
	out = trailingWhere.ReplaceAllString(out, "")
	out = strings.Join(strings.Fields(out), " ")

	return insertSeasonClause(out, first)
}

// insertSeasonClause places a single season predicate into a query that has
// none.
func insertSeasonClause(s, season string) string {
	clause := "season = '" + season + "'"

	if loc := whereKeywordPattern.FindStringIndex(s); loc != nil {
		return s[:loc[1]] + " " + clause + " AND" + s[loc[1]:]
	}

	if span := earliestClause(s, clauseGroupBy, clauseOrderBy, clauseLimit); span != nil {
		return strings.TrimRight(s[:span.Start], " ") + " WHERE " + clause + " " + s[span.Start:]
	}

	return strings.TrimRight(s, " ;") + " WHERE " + clause
}

// ReorderClauses relocates a WHERE clause that appears after GROUP BY. The
// target engine requires WHERE before GROUP BY; the generator occasionally
// appends a late filter instead of merging it into the existing WHERE.
func ReorderClauses(s string) string {
	group := clauseGroupBy.pattern.FindStringIndex(s)
	where := whereKeywordPattern.FindStringIndex(s)
	if group == nil || where == nil || where[0] < group[0] {
		return s
	}

	// WHERE span ends at the earliest following ORDER BY / LIMIT / HAVING,
	// or end of string.
	whereEnd := len(s)
	for _, c := range []clauseKind{clauseOrderBy, clauseLimit, clauseHaving} {
		if loc := c.pattern.FindStringIndex(s); loc != nil && loc[0] > where[0] && loc[0] < whereEnd {
			whereEnd = loc[0]
		}
	}
	whereClause := strings.TrimSpace(s[where[0]:whereEnd])

	remainder := strings.TrimRight(s[:where[0]], " ") + " " + strings.TrimLeft(s[whereEnd:], " ")
	remainder = strings.Join(strings.Fields(remainder), " ")

	group = clauseGroupBy.pattern.FindStringIndex(remainder)
	if group == nil {
		return s
	}
	return strings.TrimRight(remainder[:group[0]], " ") + " " + whereClause + " " + remainder[group[0]:]
}

// ForceSeason rewrites every season predicate to the requested scoping
// value when none of the existing predicates match it. A result row cannot
// belong to two seasons, so a query scoped to the wrong season is corrected
// wholesale rather than merged.
func ForceSeason(s string, season string) string {
	if season == "" {
		return s
	}
	matches := seasonEqPattern.FindAllStringSubmatch(s, -1)
	if len(matches) == 0 {
		return s
	}
	for _, m := range matches {
		if m[1] == season {
			return s
		}
	}
	return seasonEqPattern.ReplaceAllString(s, "season = '"+season+"'")
}

// EnsureTerminated strips any trailing semicolons and appends exactly one.
func EnsureTerminated(s string) string {
	s = strings.TrimRight(s, " \t\n\r;")
	if s == "" {
		return s
	}
	return s + ";"
}

// EnsureSeasonFilter adds a season predicate when the query has none.
// Queries that already carry one are returned unchanged.
func EnsureSeasonFilter(s string, season string) string {
	if season == "" || s == "" {
		return s
	}
	if seasonEqPattern.MatchString(s) {
		return s
	}
	terminated := strings.HasSuffix(s, ";")
	out := insertSeasonClause(strings.TrimRight(s, " ;"), season)
	if terminated {
		out = EnsureTerminated(out)
	}
	return out
}

var limitPattern = regexp.MustCompile(`(?i)\bLIMIT\s+\d+`)

// ApplyLimit appends a LIMIT clause when the query has none. n <= 0 leaves
// the query unchanged.
func ApplyLimit(s string, n int) string {
	if n <= 0 || s == "" {
		return s
	}
	if limitPattern.MatchString(s) {
		return s
	}
	terminated := strings.HasSuffix(s, ";")
	out := strings.TrimRight(s, " ;") + " LIMIT " + strconv.Itoa(n)
	if terminated {
		out = EnsureTerminated(out)
	}
	return out
}
