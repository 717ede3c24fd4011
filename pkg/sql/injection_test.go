package sql

import "testing"

func TestCheckLiteral(t *testing.T) {
	t.Run("clean season value", func(t *testing.T) {
		if result := CheckLiteral("season", "2024-2025"); result != nil {
			t.Errorf("expected clean value, got %+v", result)
		}
	})

	t.Run("clean team name", func(t *testing.T) {
		if result := CheckLiteral("team", "Nottm Forest"); result != nil {
			t.Errorf("expected clean value, got %+v", result)
		}
	})

	t.Run("injection attempt detected", func(t *testing.T) {
		result := CheckLiteral("season", "' OR '1'='1")
		if result == nil {
			t.Fatal("expected injection to be detected")
		}
		if !result.IsSQLi {
			t.Error("expected IsSQLi to be true")
		}
		if result.Name != "season" {
			t.Errorf("expected name 'season', got %q", result.Name)
		}
		if result.Fingerprint == "" {
			t.Error("expected non-empty fingerprint")
		}
	})

	t.Run("stacked statement detected", func(t *testing.T) {
		if result := CheckLiteral("team", "'; DROP TABLE matches--"); result == nil {
			t.Error("expected stacked statement to be detected")
		}
	})
}

func TestCheckLiterals(t *testing.T) {
	results := CheckLiterals(map[string]string{
		"season": "2024-2025",
		"team":   "' UNION SELECT password FROM users--",
	})
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if results[0].Name != "team" {
		t.Errorf("expected failing value to be 'team', got %q", results[0].Name)
	}
}
