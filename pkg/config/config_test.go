package config

import (
	"strings"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("test")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Version != "test" {
		t.Errorf("expected version test, got %s", cfg.Version)
	}
	if cfg.Port != "8000" {
		t.Errorf("expected default port 8000, got %s", cfg.Port)
	}
	if cfg.Query.DefaultSeason != "2024-2025" {
		t.Errorf("expected default season 2024-2025, got %s", cfg.Query.DefaultSeason)
	}
	if cfg.Query.ContextSnippets != 3 {
		t.Errorf("expected 3 context snippets, got %d", cfg.Query.ContextSnippets)
	}
	if cfg.OpenAI.Model != "gpt-4" {
		t.Errorf("expected default model gpt-4, got %s", cfg.OpenAI.Model)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9100")
	t.Setenv("PGHOST", "db.example.com")
	t.Setenv("PGPASSWORD", "secret")
	t.Setenv("DEFAULT_SEASON", "2023-2024")

	cfg, err := Load("test")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Port != "9100" {
		t.Errorf("expected port 9100, got %s", cfg.Port)
	}
	if cfg.Database.Host != "db.example.com" {
		t.Errorf("expected host db.example.com, got %s", cfg.Database.Host)
	}
	if cfg.Query.DefaultSeason != "2023-2024" {
		t.Errorf("expected season 2023-2024, got %s", cfg.Query.DefaultSeason)
	}
}

func TestConnectionString(t *testing.T) {
	db := DatabaseConfig{
		Host:     "localhost",
		Port:     5432,
		User:     "sqlball",
		Password: "pw",
		Database: "football",
		SSLMode:  "disable",
	}

	cs := db.ConnectionString()
	for _, want := range []string{"host=localhost", "port=5432", "user=sqlball", "password=pw", "dbname=football", "sslmode=disable"} {
		if !strings.Contains(cs, want) {
			t.Errorf("connection string missing %q: %s", want, cs)
		}
	}
}
