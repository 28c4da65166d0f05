package models

// BoxScoreLine is one player's traditional box score row for a game,
// extended with the computed xPTS column. xPTS is derived on every
// request and never stored.
type BoxScoreLine struct {
	PlayerID   int    `json:"player_id"`
	TeamID     int    `json:"team_id"`
	TeamAbbrev string `json:"team_abbreviation"`
	PlayerName string `json:"player_name"`

	Points int     `json:"pts"`
	XPTS   float64 `json:"xpts"`

	FGM     int    `json:"fgm"`
	FGA     int    `json:"fga"`
	FG3M    int    `json:"fg3m"`
	FG3A    int    `json:"fg3a"`
	FTM     int    `json:"ftm"`
	FTA     int    `json:"fta"`
	Minutes string `json:"min"`
}

// GameSummary is one scoreboard card: the matchup, the actual score,
// the expected score, and both team box scores sorted for display.
type GameSummary struct {
	GameID       string         `json:"game_id"`
	HomeTeam     string         `json:"home_team"`
	AwayTeam     string         `json:"away_team"`
	HomeLogoURL  string         `json:"home_logo_url,omitempty"`
	AwayLogoURL  string         `json:"away_logo_url,omitempty"`
	Score        string         `json:"score"`   // "PTS - PTS"
	XScore       string         `json:"x_score"` // "xPTS - xPTS"
	HomeBoxScore []BoxScoreLine `json:"home_boxscore"`
	AwayBoxScore []BoxScoreLine `json:"away_boxscore"`
}

// Scoreboard is the full dashboard payload for one date.
type Scoreboard struct {
	Date   string        `json:"date"`
	Games  []GameSummary `json:"games"`
	Failed []string      `json:"failed_game_ids,omitempty"`
}
