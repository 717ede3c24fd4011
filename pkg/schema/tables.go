package schema

// Table describes one table of the analytics database.
type Table struct {
	Name        string   `json:"name"`
	Columns     []string `json:"columns"`
	Description string   `json:"description"`
}

// Relationship describes a foreign key between tables.
type Relationship struct {
	From string `json:"from"`
	To   string `json:"to"`
	Type string `json:"type"`
}

// Info is the full schema reference returned by the schema endpoint.
type Info struct {
	Tables        []Table        `json:"tables"`
	Relationships []Relationship `json:"relationships"`
	Seasons       []string       `json:"seasons"`
}

// GetInfo returns the schema reference for the analytics database.
func GetInfo() Info {
	return Info{
		Tables: []Table{
			{
				Name:        "teams",
				Columns:     []string{"id", "code", "name", "short_name", "season", "elo", "strength"},
				Description: "Premier League teams data",
			},
			{
				Name:        "players",
				Columns:     []string{"id", "player_id", "web_name", "position", "team_code", "season"},
				Description: "Player information",
			},
			{
				Name:        "matches",
				Columns:     []string{"id", "gameweek", "div", "home_team", "away_team", "home_score", "away_score", "home_xg", "away_xg", "season"},
				Description: "Match results and statistics",
			},
			{
				Name:        "player_stats",
				Columns:     []string{"id", "player_id", "gameweek", "total_points", "goals_scored", "assists", "season"},
				Description: "FPL player statistics",
			},
			{
				Name:        "player_match_stats",
				Columns:     []string{"id", "player_id", "gameweek", "minutes_played", "goals", "assists", "xg", "season"},
				Description: "Individual match performance",
			},
		},
		Relationships: []Relationship{
			{From: "players.team_code", To: "teams.code", Type: "many_to_one"},
			{From: "player_stats.player_id", To: "players.player_id", Type: "many_to_one"},
			{From: "player_match_stats.player_id", To: "players.player_id", Type: "many_to_one"},
		},
		Seasons: []string{"2024-2025", "2025-2026"},
	}
}
