package sql

import (
	"testing"

	"go.uber.org/zap"
)

func newTestPipeline() *Pipeline {
	return NewPipeline(zap.NewNop())
}

func TestStripFences(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "sql fence with language tag",
			input:    "```sql\nSELECT * FROM matches\n```",
			expected: "SELECT * FROM matches",
		},
		{
			name:     "bare fence",
			input:    "```\nSELECT 1\n```",
			expected: "SELECT 1",
		},
		{
			name:     "multiline query collapsed to one line",
			input:    "SELECT *\nFROM matches\n  WHERE season = '2024-2025'",
			expected: "SELECT * FROM matches WHERE season = '2024-2025'",
		},
		{
			name:     "no fences is a no-op",
			input:    "SELECT 1",
			expected: "SELECT 1",
		},
		{
			name:     "empty input",
			input:    "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StripFences(tt.input); got != tt.expected {
				t.Errorf("StripFences(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestNormalizeQuotes(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "equality literal",
			input:    `SELECT * FROM matches WHERE team = "Arsenal"`,
			expected: `SELECT * FROM matches WHERE team = 'Arsenal'`,
		},
		{
			name:     "IN list",
			input:    `SELECT * FROM matches WHERE team IN ("Arsenal", "Chelsea", "Spurs")`,
			expected: `SELECT * FROM matches WHERE team IN ('Arsenal', 'Chelsea', 'Spurs')`,
		},
		{
			name:     "single quotes untouched",
			input:    `SELECT * FROM matches WHERE team = 'Arsenal'`,
			expected: `SELECT * FROM matches WHERE team = 'Arsenal'`,
		},
		{
			name:     "mixed equality and IN",
			input:    `WHERE season = "2024-2025" AND team IN ("Arsenal", "Everton")`,
			expected: `WHERE season = '2024-2025' AND team IN ('Arsenal', 'Everton')`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeQuotes(tt.input)
			if got != tt.expected {
				t.Errorf("NormalizeQuotes(%q) = %q, want %q", tt.input, got, tt.expected)
			}
			// Idempotence: a normalized string must not change again.
			if again := NormalizeQuotes(got); again != got {
				t.Errorf("NormalizeQuotes not idempotent: %q -> %q", got, again)
			}
		})
	}
}

func TestRepairTruncation(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "unclosed SUM CASE WHEN gains END)",
			input:    "SELECT SUM(CASE WHEN home_score > away_score THEN 1 ELSE 0 FROM matches",
			expected: "SELECT SUM(CASE WHEN home_score > away_score THEN 1 ELSE 0 FROM matches END)",
		},
		{
			name:     "truncated trailing column restored",
			input:    "SELECT web_name, goals_sco",
			expected: "SELECT web_name, goals_scored",
		},
		{
			name:     "truncated minutes column restored",
			input:    "SELECT player_id, minutes_pl",
			expected: "SELECT player_id, minutes_played",
		},
		{
			name:     "ambiguous prefix left alone",
			input:    "SELECT web_name, goals_",
			expected: "SELECT web_name, goals_",
		},
		{
			name:     "balanced query untouched",
			input:    "SELECT SUM(goals_scored) FROM player_stats",
			expected: "SELECT SUM(goals_scored) FROM player_stats",
		},
		{
			name:     "unrecognized truncation left as-is",
			input:    "SELECT COUNT( FROM matches",
			expected: "SELECT COUNT( FROM matches",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RepairTruncation(tt.input)
			if got != tt.expected {
				t.Errorf("RepairTruncation(%q) = %q, want %q", tt.input, got, tt.expected)
			}
			if again := RepairTruncation(got); again != got {
				t.Errorf("RepairTruncation not idempotent: %q -> %q", got, again)
			}
		})
	}
}

func TestResolveSeasonConflict(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "two conflicting seasons keep first and no dangling AND",
			input:    "SELECT * FROM matches WHERE season = '2023-2024' AND season = '2024-2025'",
			expected: "SELECT * FROM matches WHERE season = '2023-2024'",
		},
		{
			name:     "conflict across two WHERE clauses",
			input:    "SELECT * FROM matches WHERE season = '2023-2024' GROUP BY home_team WHERE season = '2024-2025'",
			expected: "SELECT * FROM matches WHERE season = '2023-2024' GROUP BY home_team",
		},
		{
			name:     "other predicates survive",
			input:    "SELECT * FROM matches WHERE team = 'Arsenal' AND season = '2023-2024' AND season = '2024-2025' ORDER BY gameweek",
			expected: "SELECT * FROM matches WHERE season = '2023-2024' AND team = 'Arsenal' ORDER BY gameweek",
		},
		{
			name:     "duplicate identical seasons are not a conflict",
			input:    "SELECT * FROM matches WHERE season = '2024-2025' AND season = '2024-2025'",
			expected: "SELECT * FROM matches WHERE season = '2024-2025' AND season = '2024-2025'",
		},
		{
			name:     "single season is a no-op",
			input:    "SELECT * FROM matches WHERE season = '2024-2025'",
			expected: "SELECT * FROM matches WHERE season = '2024-2025'",
		},
		{
			name:     "no season is a no-op",
			input:    "SELECT * FROM matches",
			expected: "SELECT * FROM matches",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolveSeasonConflict(tt.input)
			if got != tt.expected {
				t.Errorf("ResolveSeasonConflict(%q) = %q, want %q", tt.input, got, tt.expected)
			}
			if again := ResolveSeasonConflict(got); again != got {
				t.Errorf("ResolveSeasonConflict not idempotent: %q -> %q", got, again)
			}
		})
	}
}

func TestReorderClauses(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "WHERE after GROUP BY is relocated",
			input:    "SELECT a FROM t GROUP BY a WHERE a > 1",
			expected: "SELECT a FROM t WHERE a > 1 GROUP BY a",
		},
		{
			name:     "WHERE span bounded by ORDER BY",
			input:    "SELECT a, COUNT(*) FROM t GROUP BY a WHERE a > 1 ORDER BY a",
			expected: "SELECT a, COUNT(*) FROM t WHERE a > 1 GROUP BY a ORDER BY a",
		},
		{
			name:     "WHERE span bounded by LIMIT",
			input:    "SELECT a FROM t GROUP BY a WHERE a > 1 LIMIT 5",
			expected: "SELECT a FROM t WHERE a > 1 GROUP BY a LIMIT 5",
		},
		{
			name:     "correct ordering untouched",
			input:    "SELECT a FROM t WHERE a > 1 GROUP BY a",
			expected: "SELECT a FROM t WHERE a > 1 GROUP BY a",
		},
		{
			name:     "no GROUP BY is a no-op",
			input:    "SELECT a FROM t WHERE a > 1",
			expected: "SELECT a FROM t WHERE a > 1",
		},
		{
			name:     "no WHERE is a no-op",
			input:    "SELECT a FROM t GROUP BY a",
			expected: "SELECT a FROM t GROUP BY a",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ReorderClauses(tt.input)
			if got != tt.expected {
				t.Errorf("ReorderClauses(%q) = %q, want %q", tt.input, got, tt.expected)
			}
			if again := ReorderClauses(got); again != got {
				t.Errorf("ReorderClauses not idempotent: %q -> %q", got, again)
			}
		})
	}
}

func TestForceSeason(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		season   string
		expected string
	}{
		{
			name:     "wrong season rewritten",
			input:    "SELECT * FROM matches WHERE season = '2023-2024'",
			season:   "2024-2025",
			expected: "SELECT * FROM matches WHERE season = '2024-2025'",
		},
		{
			name:     "all occurrences forced to one value",
			input:    "WHERE season = '2022-2023' AND season = '2023-2024'",
			season:   "2024-2025",
			expected: "WHERE season = '2024-2025' AND season = '2024-2025'",
		},
		{
			name:     "matching season untouched",
			input:    "SELECT * FROM matches WHERE season = '2024-2025' AND team = 'Arsenal'",
			season:   "2024-2025",
			expected: "SELECT * FROM matches WHERE season = '2024-2025' AND team = 'Arsenal'",
		},
		{
			name:     "no season predicate is a no-op",
			input:    "SELECT * FROM matches",
			season:   "2024-2025",
			expected: "SELECT * FROM matches",
		},
		{
			name:     "empty requested season is a no-op",
			input:    "SELECT * FROM matches WHERE season = '2023-2024'",
			season:   "",
			expected: "SELECT * FROM matches WHERE season = '2023-2024'",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ForceSeason(tt.input, tt.season)
			if got != tt.expected {
				t.Errorf("ForceSeason(%q, %q) = %q, want %q", tt.input, tt.season, got, tt.expected)
			}
			if again := ForceSeason(got, tt.season); again != got {
				t.Errorf("ForceSeason not idempotent: %q -> %q", got, again)
			}
		})
	}
}

func TestEnsureTerminated(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "missing semicolon appended", input: "SELECT 1", expected: "SELECT 1;"},
		{name: "single semicolon preserved", input: "SELECT 1;", expected: "SELECT 1;"},
		{name: "multiple semicolons reduced to one", input: "SELECT 1;;;", expected: "SELECT 1;"},
		{name: "trailing whitespace stripped", input: "SELECT 1 ;  ", expected: "SELECT 1;"},
		{name: "empty stays empty", input: "", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EnsureTerminated(tt.input)
			if got != tt.expected {
				t.Errorf("EnsureTerminated(%q) = %q, want %q", tt.input, got, tt.expected)
			}
			if again := EnsureTerminated(got); again != got {
				t.Errorf("EnsureTerminated not idempotent: %q -> %q", got, again)
			}
		})
	}
}

func TestPipelineRepair_FullScenario(t *testing.T) {
	p := newTestPipeline()

	raw := `SELECT * FROM matches WHERE season = "2023-2024" GROUP BY home_team WHERE season = "2024-2025"`
	expected := `SELECT * FROM matches WHERE season = '2024-2025' GROUP BY home_team;`

	got := p.Repair(raw, "2024-2025")
	if got != expected {
		t.Errorf("Repair() = %q, want %q", got, expected)
	}
}

func TestPipelineRepair_Idempotence(t *testing.T) {
	p := newTestPipeline()

	inputs := []string{
		"```sql\nSELECT * FROM matches WHERE team = \"Arsenal\"\nORDER BY gameweek\n```",
		`SELECT * FROM matches WHERE season = "2023-2024" GROUP BY home_team WHERE season = "2024-2025"`,
		"SELECT a FROM t GROUP BY a WHERE a > 1;;;",
		"SELECT web_name, total_points FROM player_stats WHERE season = '2024-2025' ORDER BY total_points DESC LIMIT 10",
	}

	for _, raw := range inputs {
		once := p.Repair(raw, "2024-2025")
		twice := p.Repair(once, "2024-2025")
		if once != twice {
			t.Errorf("pipeline not idempotent for %q:\n once=%q\ntwice=%q", raw, once, twice)
		}
	}
}

func TestPipelineRepair_CleanQueryUnchanged(t *testing.T) {
	p := newTestPipeline()

	clean := "SELECT web_name FROM players WHERE season = '2024-2025' LIMIT 10;"
	if got := p.Repair(clean, "2024-2025"); got != clean {
		t.Errorf("Repair() modified an already-valid query: %q -> %q", clean, got)
	}
}

func TestPipelineRepair_TotalOnMalformedInput(t *testing.T) {
	p := newTestPipeline()

	// None of these may panic; absence of a target pattern is a no-op.
	inputs := []string{
		"",
		";;;",
		"garbage (((",
		"WHERE",
		"SELECT",
		"DROP TABLE matches",
	}
	for _, raw := range inputs {
		_ = p.Repair(raw, "2024-2025")
	}
}

func TestEnsureSeasonFilter(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "already filtered",
			in:   "SELECT * FROM matches WHERE season = '2023-2024';",
			want: "SELECT * FROM matches WHERE season = '2023-2024';",
		},
		{
			name: "existing where",
			in:   "SELECT * FROM matches WHERE home_team = 'Arsenal';",
			want: "SELECT * FROM matches WHERE season = '2024-2025' AND home_team = 'Arsenal';",
		},
		{
			name: "no where, order by",
			in:   "SELECT * FROM matches ORDER BY gameweek;",
			want: "SELECT * FROM matches WHERE season = '2024-2025' ORDER BY gameweek;",
		},
		{
			name: "no where, no trailing clause",
			in:   "SELECT * FROM matches;",
			want: "SELECT * FROM matches WHERE season = '2024-2025';",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EnsureSeasonFilter(tt.in, "2024-2025"); got != tt.want {
				t.Errorf("EnsureSeasonFilter() = %q, want %q", got, tt.want)
			}
			// Idempotent
			if got := EnsureSeasonFilter(tt.want, "2024-2025"); got != tt.want {
				t.Errorf("second application changed output: %q", got)
			}
		})
	}
}

func TestApplyLimit(t *testing.T) {
	tests := []struct {
		name string
		in   string
		n    int
		want string
	}{
		{
			name: "appends limit",
			in:   "SELECT * FROM matches;",
			n:    10,
			want: "SELECT * FROM matches LIMIT 10;",
		},
		{
			name: "existing limit kept",
			in:   "SELECT * FROM matches LIMIT 5;",
			n:    10,
			want: "SELECT * FROM matches LIMIT 5;",
		},
		{
			name: "zero is no-op",
			in:   "SELECT * FROM matches;",
			n:    0,
			want: "SELECT * FROM matches;",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ApplyLimit(tt.in, tt.n); got != tt.want {
				t.Errorf("ApplyLimit() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNormalizeBooleans(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "one rewritten to true",
			input:    "SELECT * FROM matches WHERE finished = 1",
			expected: "SELECT * FROM matches WHERE finished = true",
		},
		{
			name:     "zero rewritten to false",
			input:    "SELECT * FROM matches WHERE finished = 0",
			expected: "SELECT * FROM matches WHERE finished = false",
		},
		{
			name:     "case insensitive with loose spacing",
			input:    "SELECT * FROM matches WHERE FINISHED=1",
			expected: "SELECT * FROM matches WHERE finished = true",
		},
		{
			name:     "other columns untouched",
			input:    "SELECT * FROM matches WHERE gameweek = 1",
			expected: "SELECT * FROM matches WHERE gameweek = 1",
		},
		{
			name:     "longer literal untouched",
			input:    "SELECT * FROM matches WHERE finished = 10",
			expected: "SELECT * FROM matches WHERE finished = 10",
		},
		{
			name:     "already boolean is a no-op",
			input:    "SELECT * FROM matches WHERE finished = true",
			expected: "SELECT * FROM matches WHERE finished = true",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeBooleans(tt.input); got != tt.expected {
				t.Errorf("NormalizeBooleans(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestRenameLegacyColumns(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "order by date",
			input:    "SELECT * FROM matches ORDER BY date DESC",
			expected: "SELECT * FROM matches ORDER BY kickoff_time DESC",
		},
		{
			name:     "date in select list",
			input:    "SELECT date, home_team FROM matches",
			expected: "SELECT kickoff_time, home_team FROM matches",
		},
		{
			name:     "case insensitive",
			input:    "SELECT * FROM matches WHERE DATE > '2025-01-01'",
			expected: "SELECT * FROM matches WHERE kickoff_time > '2025-01-01'",
		},
		{
			name:     "compound identifiers untouched",
			input:    "SELECT update_date FROM matches",
			expected: "SELECT update_date FROM matches",
		},
		{
			name:     "kickoff_time is a no-op",
			input:    "SELECT kickoff_time FROM matches",
			expected: "SELECT kickoff_time FROM matches",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RenameLegacyColumns(tt.input); got != tt.expected {
				t.Errorf("RenameLegacyColumns(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestPipelineRepair_AppliesEngineFixes(t *testing.T) {
	p := newTestPipeline()

	got := p.Repair("SELECT * FROM matches WHERE finished = 1 ORDER BY date DESC", "2024-2025")
	want := "SELECT * FROM matches WHERE finished = true ORDER BY kickoff_time DESC;"
	if got != want {
		t.Errorf("Repair() = %q, want %q", got, want)
	}
}
