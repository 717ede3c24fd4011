package prompts

import (
	"strings"
	"testing"
)

func TestBuildSQLGenerationPrompt(t *testing.T) {
	mappings := map[string]string{
		"position_striker": "position = 'FWD'",
		"metric_top scorer": "ORDER BY goals_scored DESC",
	}
	context := []string{
		"players table contains player information",
		"striker or forward players have position = 'FWD'",
	}

	prompt := BuildSQLGenerationPrompt("show me the top strikers", mappings, context, "2024-2025")

	for _, want := range []string{
		"position_striker: position = 'FWD'",
		"players table contains player information",
		"season '2024-2025'",
		"Question: show me the top strikers",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestBuildSQLGenerationPrompt_MinimalInputs(t *testing.T) {
	prompt := BuildSQLGenerationPrompt("list all teams", nil, nil, "")

	if !strings.HasPrefix(prompt, "Question: list all teams") {
		t.Errorf("expected bare question prompt, got %q", prompt)
	}
}

func TestBuildSQLGenerationPrompt_Deterministic(t *testing.T) {
	mappings := map[string]string{
		"a": "1", "b": "2", "c": "3", "d": "4",
	}

	first := BuildSQLGenerationPrompt("q", mappings, nil, "")
	for i := 0; i < 10; i++ {
		if got := BuildSQLGenerationPrompt("q", mappings, nil, ""); got != first {
			t.Fatal("expected identical prompts for identical inputs")
		}
	}
}

func TestSQLGenerationSystem_CarriesClauseOrderRules(t *testing.T) {
	if !strings.Contains(SQLGenerationSystem, "NEVER put WHERE after GROUP BY") {
		t.Error("system message missing clause-order rule")
	}
	if !strings.Contains(SQLGenerationSystem, "matches:") {
		t.Error("system message missing schema summary")
	}
}

func TestSQLGenerationSystem_UsesMapperPositionCodes(t *testing.T) {
	if !strings.Contains(SQLGenerationSystem, "'GK', 'DEF', 'MID', 'FWD'") {
		t.Error("system message missing position codes")
	}
	if strings.Contains(SQLGenerationSystem, "GKP") {
		t.Error("system message contradicts the terminology mapper's goalkeeper code")
	}
}

func TestBuildExplanationPrompt(t *testing.T) {
	prompt := BuildExplanationPrompt(
		"top scorers",
		"SELECT web_name FROM players;",
		map[string]string{"metric_top scorer": "ORDER BY goals_scored DESC"},
	)

	for _, want := range []string{
		"Question: top scorers",
		"SELECT web_name FROM players;",
		"metric_top scorer",
		"beginner-friendly",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestBuildOptimizationPrompt(t *testing.T) {
	prompt := BuildOptimizationPrompt(
		"SELECT * FROM matches",
		[]string{"Consider selecting specific columns instead of *"},
	)

	if !strings.Contains(prompt, "Original SQL: SELECT * FROM matches") {
		t.Error("prompt missing original SQL")
	}
	if !strings.Contains(prompt, "Consider selecting specific columns") {
		t.Error("prompt missing suggestions")
	}
}
