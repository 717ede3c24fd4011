package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/sql-ball/sqlball-engine/pkg/apperrors"
	"github.com/sql-ball/sqlball-engine/pkg/cache"
	"github.com/sql-ball/sqlball-engine/pkg/models"
	sqlrepair "github.com/sql-ball/sqlball-engine/pkg/sql"
)

// ChartTypes lists the supported dashboard chart identifiers.
var ChartTypes = []string{
	"goals_trend",
	"results_distribution",
	"league_table",
	"goal_distribution",
	"team_performance",
}

// DashboardService serves cached aggregate views over the matches table.
// The league argument is an optional division filter; empty means all.
type DashboardService interface {
	Matches(ctx context.Context, limit int, league string) ([]map[string]any, error)
	Stats(ctx context.Context, league string) (*models.DashboardStats, error)
	Chart(ctx context.Context, chartType, league string) (*models.ChartData, error)
	Complete(ctx context.Context, league string) (*models.DashboardResponse, error)
}

type dashboardService struct {
	executor Executor
	store    cache.Store
	ttl      time.Duration
	logger   *zap.Logger
}

// NewDashboardService creates the dashboard service.
func NewDashboardService(executor Executor, store cache.Store, ttl time.Duration, logger *zap.Logger) DashboardService {
	return &dashboardService{
		executor: executor,
		store:    store,
		ttl:      ttl,
		logger:   logger.Named("dashboard"),
	}
}

const dashboardMatchLimit = 1000

// screenLeague rejects a division value that looks like an injection
// attempt; the value is interpolated into the match query.
func screenLeague(league string) error {
	if league == "" {
		return nil
	}
	if check := sqlrepair.CheckLiteral("league", league); check != nil {
		return fmt.Errorf("invalid league parameter")
	}
	return nil
}

// Matches returns recent matches, newest gameweek first, optionally
// restricted to one division.
func (s *dashboardService) Matches(ctx context.Context, limit int, league string) ([]map[string]any, error) {
	if limit <= 0 || limit > dashboardMatchLimit {
		limit = dashboardMatchLimit
	}
	if err := screenLeague(league); err != nil {
		return nil, err
	}

	key := fmt.Sprintf("dashboard:matches:%d:%s", limit, league)
	if cached, ok := s.store.Get(ctx, key); ok {
		var rows []map[string]any
		if err := json.Unmarshal(cached, &rows); err == nil {
			return rows, nil
		}
	}

	query := "SELECT * FROM matches"
	if league != "" {
		query += fmt.Sprintf(" WHERE div = '%s'", league)
	}
	query += fmt.Sprintf(" ORDER BY gameweek DESC LIMIT %d;", limit)

	result, err := s.executor.Run(ctx, query)
	if err != nil {
		return nil, err
	}

	s.cachePut(ctx, key, result.Rows)
	return result.Rows, nil
}

// Stats reduces the stored matches into headline numbers.
func (s *dashboardService) Stats(ctx context.Context, league string) (*models.DashboardStats, error) {
	key := "dashboard:stats:" + league
	if cached, ok := s.store.Get(ctx, key); ok {
		var stats models.DashboardStats
		if err := json.Unmarshal(cached, &stats); err == nil {
			return &stats, nil
		}
	}

	matches, err := s.Matches(ctx, dashboardMatchLimit, league)
	if err != nil {
		return nil, err
	}

	stats := computeStats(matches)
	s.cachePut(ctx, key, stats)
	return stats, nil
}

func computeStats(matches []map[string]any) *models.DashboardStats {
	stats := &models.DashboardStats{TotalMatches: len(matches)}

	teams := make(map[string]struct{})
	var homeWins, awayWins, draws int

	for _, m := range matches {
		home := asInt(m["home_score"])
		away := asInt(m["away_score"])
		total := home + away

		stats.TotalGoals += total
		switch {
		case home > away:
			homeWins++
		case away > home:
			awayWins++
		default:
			draws++
		}
		if total > 4 {
			stats.HighScoringMatches++
		}
		if home == 0 || away == 0 {
			stats.CleanSheets++
		}
		if name := asString(m["home_team"]); name != "" {
			teams[name] = struct{}{}
		}
		if name := asString(m["away_team"]); name != "" {
			teams[name] = struct{}{}
		}
	}

	stats.TotalTeams = len(teams)
	if stats.TotalMatches > 0 {
		n := float64(stats.TotalMatches)
		stats.HomeWinPercentage = float64(homeWins) / n * 100
		stats.AwayWinPercentage = float64(awayWins) / n * 100
		stats.DrawPercentage = float64(draws) / n * 100
		stats.AvgGoalsPerMatch = float64(stats.TotalGoals) / n
	}
	return stats
}

// Chart builds the chart payload for one visualization type.
func (s *dashboardService) Chart(ctx context.Context, chartType, league string) (*models.ChartData, error) {
	key := "dashboard:chart:" + chartType + ":" + league
	if cached, ok := s.store.Get(ctx, key); ok {
		var chart models.ChartData
		if err := json.Unmarshal(cached, &chart); err == nil {
			return &chart, nil
		}
	}

	matches, err := s.Matches(ctx, dashboardMatchLimit, league)
	if err != nil {
		return nil, err
	}

	var chart *models.ChartData
	switch chartType {
	case "goals_trend":
		chart = goalsTrendChart(matches)
	case "results_distribution":
		chart = resultsDistributionChart(matches)
	case "league_table":
		chart = leagueTableChart(matches)
	case "goal_distribution":
		chart = goalDistributionChart(matches)
	case "team_performance":
		chart = teamPerformanceChart(matches)
	default:
		return nil, fmt.Errorf("%w: %s", apperrors.ErrUnknownChartType, chartType)
	}

	s.cachePut(ctx, key, chart)
	return chart, nil
}

// Complete bundles stats, recent matches, and every chart in one payload.
func (s *dashboardService) Complete(ctx context.Context, league string) (*models.DashboardResponse, error) {
	stats, err := s.Stats(ctx, league)
	if err != nil {
		return nil, err
	}

	matches, err := s.Matches(ctx, 100, league)
	if err != nil {
		return nil, err
	}

	charts := make(map[string]models.ChartData, len(ChartTypes))
	for _, chartType := range ChartTypes {
		chart, err := s.Chart(ctx, chartType, league)
		if err != nil {
			return nil, err
		}
		charts[chartType] = *chart
	}

	return &models.DashboardResponse{
		Stats:         *stats,
		RecentMatches: matches,
		Charts:        charts,
		LastUpdated:   time.Now().UTC(),
	}, nil
}

func (s *dashboardService) cachePut(ctx context.Context, key string, value any) {
	blob, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := s.store.Set(ctx, key, blob, s.ttl); err != nil {
		s.logger.Debug("cache write skipped", zap.String("key", key), zap.Error(err))
	}
}

// goalsTrendChart plots goals over the 30 most recent matches in
// chronological order.
func goalsTrendChart(matches []map[string]any) *models.ChartData {
	recent := matches
	if len(recent) > 30 {
		recent = recent[:30]
	}

	n := len(recent)
	labels := make([]string, n)
	homeGoals := make([]float64, n)
	awayGoals := make([]float64, n)
	totalGoals := make([]float64, n)

	// Matches arrive newest first; fill backwards for chronological order.
	for i, m := range recent {
		j := n - 1 - i
		labels[j] = fmt.Sprintf("GW %d", asInt(m["gameweek"]))
		homeGoals[j] = float64(asInt(m["home_score"]))
		awayGoals[j] = float64(asInt(m["away_score"]))
		totalGoals[j] = homeGoals[j] + awayGoals[j]
	}

	return &models.ChartData{
		Labels: labels,
		Datasets: []models.ChartDataset{
			{Label: "Home Goals", Data: homeGoals, BorderColor: "#4ade80"},
			{Label: "Away Goals", Data: awayGoals, BorderColor: "#f97316"},
			{Label: "Total Goals", Data: totalGoals, BorderColor: "#ef4444"},
		},
		Type: "line",
	}
}

func resultsDistributionChart(matches []map[string]any) *models.ChartData {
	var homeWins, awayWins, draws float64
	for _, m := range matches {
		home := asInt(m["home_score"])
		away := asInt(m["away_score"])
		switch {
		case home > away:
			homeWins++
		case away > home:
			awayWins++
		default:
			draws++
		}
	}

	return &models.ChartData{
		Labels: []string{"Home Wins", "Away Wins", "Draws"},
		Datasets: []models.ChartDataset{{
			Data:            []float64{homeWins, awayWins, draws},
			BackgroundColor: []string{"#4ade80", "#f97316", "#60a5fa"},
		}},
		Type: "doughnut",
	}
}

type teamRecord struct {
	name         string
	wins         int
	points       int
	goals        int
	goalsAgainst int
	matches      int
}

func reduceTeams(matches []map[string]any) []*teamRecord {
	byName := make(map[string]*teamRecord)
	get := func(name string) *teamRecord {
		if name == "" {
			return nil
		}
		rec, ok := byName[name]
		if !ok {
			rec = &teamRecord{name: name}
			byName[name] = rec
		}
		return rec
	}

	for _, m := range matches {
		homeScore := asInt(m["home_score"])
		awayScore := asInt(m["away_score"])

		if home := get(asString(m["home_team"])); home != nil {
			home.matches++
			home.goals += homeScore
			home.goalsAgainst += awayScore
			switch {
			case homeScore > awayScore:
				home.wins++
				home.points += 3
			case homeScore == awayScore:
				home.points++
			}
		}
		if away := get(asString(m["away_team"])); away != nil {
			away.matches++
			away.goals += awayScore
			away.goalsAgainst += homeScore
			switch {
			case awayScore > homeScore:
				away.wins++
				away.points += 3
			case awayScore == homeScore:
				away.points++
			}
		}
	}

	records := make([]*teamRecord, 0, len(byName))
	for _, rec := range byName {
		records = append(records, rec)
	}
	sort.Slice(records, func(i, j int) bool {
		if records[i].points != records[j].points {
			return records[i].points > records[j].points
		}
		return records[i].name < records[j].name
	})
	return records
}

func leagueTableChart(matches []map[string]any) *models.ChartData {
	records := reduceTeams(matches)
	if len(records) > 10 {
		records = records[:10]
	}

	labels := make([]string, len(records))
	points := make([]float64, len(records))
	for i, rec := range records {
		labels[i] = rec.name
		points[i] = float64(rec.points)
	}

	return &models.ChartData{
		Labels: labels,
		Datasets: []models.ChartDataset{{
			Label:           "Points",
			Data:            points,
			BackgroundColor: "#4ade80",
		}},
		Type: "bar",
	}
}

func goalDistributionChart(matches []map[string]any) *models.ChartData {
	distribution := make(map[string]float64)
	for _, m := range matches {
		total := asInt(m["home_score"]) + asInt(m["away_score"])
		key := fmt.Sprintf("%d", total)
		if total >= 6 {
			key = "6+"
		}
		distribution[key]++
	}

	labels := []string{"0", "1", "2", "3", "4", "5", "6+"}
	data := make([]float64, len(labels))
	for i, label := range labels {
		data[i] = distribution[label]
	}

	return &models.ChartData{
		Labels: labels,
		Datasets: []models.ChartDataset{{
			Label:           "Number of Matches",
			Data:            data,
			BackgroundColor: "rgba(16, 185, 129, 0.6)",
			BorderColor:     "rgba(16, 185, 129, 1)",
		}},
		Type: "bar",
	}
}

var radarColors = []string{"#10b981", "#f59e0b", "#ef4444", "#8b5cf6", "#06b6d4", "#f97316"}

func teamPerformanceChart(matches []map[string]any) *models.ChartData {
	records := reduceTeams(matches)
	if len(records) > 6 {
		records = records[:6]
	}

	datasets := make([]models.ChartDataset, 0, len(records))
	for i, rec := range records {
		played := rec.matches
		if played < 1 {
			played = 1
		}
		goalDiff := rec.goals - rec.goalsAgainst

		defense := 20 - float64(rec.goalsAgainst)/float64(played)*10
		if defense < 0 {
			defense = 0
		}
		form := float64(goalDiff) * 2
		if form < 0 {
			form = 0
		} else if form > 20 {
			form = 20
		}

		datasets = append(datasets, models.ChartDataset{
			Label: rec.name,
			Data: []float64{
				float64(rec.wins) * 2,
				float64(rec.points) / float64(played) * 10,
				float64(rec.goals) / float64(played) * 15,
				defense,
				form,
			},
			BorderColor:     radarColors[i],
			BackgroundColor: radarColors[i] + "30",
		})
	}

	return &models.ChartData{
		Labels:   []string{"Wins", "Points/Game", "Goals/Game", "Defense", "Form"},
		Datasets: datasets,
		Type:     "radar",
	}
}

// asInt coerces driver integer values, and the float64 values a cache
// round trip produces, to int.
func asInt(v any) int {
	switch n := v.(type) {
	case int:
		return n
	case int16:
		return int(n)
	case int32:
		return int(n)
	case int64:
		return int(n)
	case float32:
		return int(n)
	case float64:
		return int(n)
	default:
		return 0
	}
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}
