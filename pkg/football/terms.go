package football

// Fixed vocabulary tables mapping football phrasing to SQL fragments. These
// are surfaced to the generator as hints, not spliced into SQL directly;
// the one exception is the season filter, which the orchestrator may inject.

// positionTerms maps position vocabulary to position predicates.
var positionTerms = map[string]string{
	"goalkeeper":  "position = 'GK'",
	"keeper":      "position = 'GK'",
	"gk":          "position = 'GK'",
	"defender":    "position = 'DEF'",
	"defence":     "position = 'DEF'",
	"center back": "position = 'DEF'",
	"full back":   "position = 'DEF'",
	"midfielder":  "position = 'MID'",
	"midfield":    "position = 'MID'",
	"striker":     "position = 'FWD'",
	"forward":     "position = 'FWD'",
	"attacker":    "position = 'FWD'",
	"winger":      "position IN ('MID', 'FWD')",
}

// teamGroups maps informal team groupings to their member teams, stored as
// they appear in the database.
var teamGroups = map[string][]string{
	"big six":          {"Arsenal", "Chelsea", "Liverpool", "Man City", "Man Utd", "Tottenham"},
	"big 6":            {"Arsenal", "Chelsea", "Liverpool", "Man City", "Man Utd", "Tottenham"},
	"london clubs":     {"Arsenal", "Chelsea", "Tottenham", "Fulham", "Brentford", "West Ham"},
	"manchester clubs": {"Man City", "Man Utd"},
	"north london":     {"Arsenal", "Tottenham"},
	"merseyside":       {"Liverpool", "Everton"},
	"promoted":         {"Leicester", "Ipswich", "Southampton"},
	"relegated":        {"Luton", "Burnley", "Sheffield Utd"},
}

// conceptTerms maps statistical concepts to filter fragments.
var conceptTerms = map[string]string{
	"clean sheet":        "goals_conceded = 0",
	"clean sheets":       "clean_sheets > 0",
	"hat trick":          "goals >= 3",
	"hattrick":           "goals >= 3",
	"brace":              "goals = 2",
	"double":             "goals = 2",
	"assist":             "assists > 0",
	"goal contribution":  "(goals + assists)",
	"goal involvement":   "(goals + assists)",
	"double digit haul":  "total_points >= 10",
	"blank":              "total_points <= 2",
	"benched":            "minutes_played = 0",
	"starter":            "minutes_played > 0",
	"full 90":            "minutes_played >= 90",
	"substitute":         "minutes_played > 0 AND minutes_played < 60",
	"red card":           "red_cards > 0",
	"yellow card":        "yellow_cards > 0",
	"booking":            "yellow_cards > 0",
	"sent off":           "red_cards > 0",
}

// timePeriodTerms maps time phrasing to season or kickoff filters.
var timePeriodTerms = map[string]string{
	"this season":     "season = '2024-2025'",
	"current season":  "season = '2024-2025'",
	"last season":     "season = '2023-2024'",
	"previous season": "season = '2023-2024'",
	"this year":       "season = '2024-2025'",
	"last year":       "season = '2023-2024'",
	"december":        "EXTRACT(MONTH FROM kickoff_time) = 12",
	"january":         "EXTRACT(MONTH FROM kickoff_time) = 1",
	"festive period":  "EXTRACT(MONTH FROM kickoff_time) IN (12, 1)",
	"last 5 games":    "gameweek >= (SELECT MAX(gameweek) - 4 FROM matches WHERE finished = true)",
	"last 10 games":   "gameweek >= (SELECT MAX(gameweek) - 9 FROM matches WHERE finished = true)",
}

// metricTerms maps ranking vocabulary to ordering fragments.
var metricTerms = map[string]string{
	"top scorer":         "ORDER BY goals_scored DESC",
	"top scorers":        "ORDER BY goals_scored DESC",
	"golden boot":        "ORDER BY goals_scored DESC LIMIT 1",
	"most assists":       "ORDER BY assists DESC",
	"best form":          "ORDER BY form DESC",
	"worst form":         "ORDER BY form ASC",
	"highest xg":         "ORDER BY expected_goals DESC",
	"overperforming xg":  "(goals_scored - expected_goals) DESC",
	"underperforming xg": "(expected_goals - goals_scored) DESC",
	"most minutes":       "ORDER BY minutes DESC",
	"most points":        "ORDER BY total_points DESC",
	"best value":         "ORDER BY (total_points / (now_cost / 10.0)) DESC",
}

// aggregationTerms maps aggregation vocabulary to SQL functions.
var aggregationTerms = map[string]string{
	"total":     "SUM",
	"average":   "AVG",
	"mean":      "AVG",
	"maximum":   "MAX",
	"minimum":   "MIN",
	"count":     "COUNT",
	"number of": "COUNT",
}

// knownTeams lists team names exactly as stored in the database.
var knownTeams = []string{
	"Arsenal", "Aston Villa", "Bournemouth", "Brentford", "Brighton",
	"Chelsea", "Crystal Palace", "Everton", "Fulham", "Ipswich",
	"Leicester", "Liverpool", "Man City", "Man Utd", "Newcastle",
	"Nottm Forest", "Southampton", "Tottenham", "West Ham", "Wolves",
}

// teamAliases expands common long-form team names to their stored form.
var teamAliases = map[string]string{
	"manchester united": "Man Utd",
	"manchester city":   "Man City",
	"nottingham forest": "Nottm Forest",
}

// nameStoplist holds words that look like player names (capitalized) but are
// interrogatives or SQL keywords.
var nameStoplist = map[string]struct{}{
	"which":  {},
	"what":   {},
	"show":   {},
	"find":   {},
	"select": {},
	"from":   {},
	"where":  {},
}
