package models

import (
	"time"

	"gorm.io/datatypes"

	"github.com/jstittsworth/nba-xpts/internal/xpts"
)

// SeasonShot is one archived shot-detail row for a season. The table is
// bulk-loaded from the play-by-play archive once per season and read
// back as per-player profiles; rows are never mutated afterwards.
type SeasonShot struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	Season     int    `gorm:"index:idx_season_player" json:"season"`
	PlayerID   int    `gorm:"index:idx_season_player" json:"player_id"`
	PlayerName string `json:"player_name"`
	PointValue int    `gorm:"not null" json:"point_value"`
	ActionType string `gorm:"not null" json:"action_type"`
	ZoneBasic  string `gorm:"not null" json:"zone_basic"`
	ZoneArea   string `gorm:"not null" json:"zone_area"`
	Made       bool   `json:"made"`
	LocX       int    `json:"loc_x"`
	LocY       int    `json:"loc_y"`
}

func (SeasonShot) TableName() string {
	return "season_shots"
}

// ToShot converts an archived row to the estimator's shot type.
func (s SeasonShot) ToShot() xpts.Shot {
	return xpts.Shot{
		PlayerID:   s.PlayerID,
		PlayerName: s.PlayerName,
		PointValue: s.PointValue,
		ActionType: s.ActionType,
		ZoneBasic:  s.ZoneBasic,
		ZoneArea:   s.ZoneArea,
		Made:       s.Made,
		LocX:       s.LocX,
		LocY:       s.LocY,
	}
}

// PlayerSeasonStat holds the per-player season aggregates the xPTS
// computation needs beyond the shot profile. Free-throw percentage is
// the load-bearing column.
type PlayerSeasonStat struct {
	PlayerID   int       `gorm:"primaryKey" json:"player_id"`
	Season     string    `gorm:"primaryKey" json:"season"`
	PlayerName string    `json:"player_name"`
	FTPct      float64   `json:"ft_pct"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (PlayerSeasonStat) TableName() string {
	return "player_season_stats"
}

// GameLogEntry is one game from the league game log; it drives the
// date picker and the date-to-games lookup. The log lists one row per
// team per game, so GameID is not unique on its own.
type GameLogEntry struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	GameID     string    `gorm:"index" json:"game_id"`
	GameDate   string    `gorm:"index" json:"game_date"` // YYYY-MM-DD
	TeamAbbrev string    `json:"team_abbreviation"`
	Matchup    string    `json:"matchup"`
	SeasonType string    `json:"season_type"` // "Regular Season" or "Playoffs"
	UpdatedAt  time.Time `json:"updated_at"`
}

func (GameLogEntry) TableName() string {
	return "game_log_entries"
}

// SyncRun records one background refresh cycle for the admin status
// endpoint. Detail carries provider-specific counts as JSON.
type SyncRun struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	Kind       string         `gorm:"index" json:"kind"` // "game_log", "season_stats", "shot_archive"
	StartedAt  time.Time      `json:"started_at"`
	FinishedAt time.Time      `json:"finished_at"`
	Success    bool           `json:"success"`
	Detail     datatypes.JSON `json:"detail,omitempty"`
}

func (SyncRun) TableName() string {
	return "sync_runs"
}
