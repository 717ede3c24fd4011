package models

import "time"

// DashboardStats holds headline statistics across the stored matches.
type DashboardStats struct {
	TotalMatches       int     `json:"total_matches"`
	TotalGoals         int     `json:"total_goals"`
	HomeWinPercentage  float64 `json:"home_win_percentage"`
	AwayWinPercentage  float64 `json:"away_win_percentage"`
	DrawPercentage     float64 `json:"draw_percentage"`
	AvgGoalsPerMatch   float64 `json:"avg_goals_per_match"`
	TotalTeams         int     `json:"total_teams"`
	HighScoringMatches int     `json:"high_scoring_matches"`
	CleanSheets        int     `json:"clean_sheets"`
}

// ChartDataset is one series of a chart in Chart.js shape.
type ChartDataset struct {
	Label           string    `json:"label,omitempty"`
	Data            []float64 `json:"data"`
	BorderColor     any       `json:"borderColor,omitempty"`
	BackgroundColor any       `json:"backgroundColor,omitempty"`
}

// ChartData is a ready-to-render chart payload.
type ChartData struct {
	Labels   []string       `json:"labels"`
	Datasets []ChartDataset `json:"datasets"`
	Type     string         `json:"type"`
}

// DashboardResponse bundles everything the dashboard needs in one call.
type DashboardResponse struct {
	Stats         DashboardStats       `json:"stats"`
	RecentMatches []map[string]any     `json:"recent_matches"`
	Charts        map[string]ChartData `json:"charts"`
	LastUpdated   time.Time            `json:"last_updated"`
}
