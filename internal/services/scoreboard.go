package services

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/jstittsworth/nba-xpts/internal/models"
	"github.com/jstittsworth/nba-xpts/internal/xpts"
	"github.com/jstittsworth/nba-xpts/pkg/database"
	"github.com/jstittsworth/nba-xpts/pkg/utils"
)

// statsAPI is the slice of the stats client the scoreboard needs.
type statsAPI interface {
	BoxScoreTraditional(ctx context.Context, gameID string) ([]models.BoxScoreLine, error)
	ShotChartDetail(ctx context.Context, gameID, season, seasonType string) ([]xpts.Shot, error)
}

// ProfileSource resolves the season-long lookups behind the xPTS
// computation. SeasonStore is the production implementation.
type ProfileSource interface {
	PlayerProfile(ctx context.Context, playerID int) ([]xpts.Shot, error)
	FreeThrowPct(ctx context.Context, playerID int) (float64, error)
}

// ScoreboardService assembles the per-date dashboard: for every game
// on a date it fetches the box score and shot log, scores each player
// against their season profile and produces a scoreboard card.
type ScoreboardService struct {
	db      *database.DB
	cache   *CacheService
	stats   statsAPI
	seasons ProfileSource
	breaker *CircuitBreakerService
	logger  *logrus.Logger
	season  string
}

func NewScoreboardService(
	db *database.DB,
	cache *CacheService,
	stats statsAPI,
	seasons ProfileSource,
	breaker *CircuitBreakerService,
	logger *logrus.Logger,
	season string,
) *ScoreboardService {
	return &ScoreboardService{
		db:      db,
		cache:   cache,
		stats:   stats,
		seasons: seasons,
		breaker: breaker,
		logger:  logger,
		season:  season,
	}
}

// GameDates returns every date with at least one game, newest first.
func (s *ScoreboardService) GameDates(ctx context.Context) ([]string, error) {
	cacheKey := GameDatesCacheKey()
	var cached []string
	if err := s.cache.Get(ctx, cacheKey, &cached); err == nil {
		return cached, nil
	}

	var dates []string
	err := s.db.WithContext(ctx).
		Model(&models.GameLogEntry{}).
		Distinct("game_date").
		Order("game_date DESC").
		Pluck("game_date", &dates).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load game dates: %w", err)
	}

	if len(dates) > 0 {
		s.cache.Set(ctx, cacheKey, dates, 10*time.Minute)
	}

	return dates, nil
}

// gameIDsForDate resolves a date to its game IDs via the game log.
func (s *ScoreboardService) gameIDsForDate(ctx context.Context, date string) ([]string, error) {
	var ids []string
	err := s.db.WithContext(ctx).
		Model(&models.GameLogEntry{}).
		Distinct("game_id").
		Where("game_date = ?", date).
		Order("game_id").
		Pluck("game_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("failed to look up games for date: %w", err)
	}
	return ids, nil
}

// GamesForDate computes the scoreboard for one date. Games are fetched
// concurrently and failures are isolated: one broken game never
// suppresses the rest of the date. The returned error is non-nil only
// when the date itself cannot be served.
func (s *ScoreboardService) GamesForDate(ctx context.Context, date string) (*models.Scoreboard, error) {
	cacheKey := ScoreboardCacheKey(date)
	var cached models.Scoreboard
	if err := s.cache.Get(ctx, cacheKey, &cached); err == nil {
		return &cached, nil
	}

	gameIDs, err := s.gameIDsForDate(ctx, date)
	if err != nil {
		return nil, err
	}
	if len(gameIDs) == 0 {
		return nil, fmt.Errorf("%w: no games on %s", utils.ErrNotFound, date)
	}

	type gameResult struct {
		gameID  string
		summary *models.GameSummary
		err     error
	}

	var wg sync.WaitGroup
	results := make(chan gameResult, len(gameIDs))
	for _, gameID := range gameIDs {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			summary, err := s.GameSummary(ctx, id)
			results <- gameResult{gameID: id, summary: summary, err: err}
		}(gameID)
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	board := &models.Scoreboard{Date: date}
	for res := range results {
		if res.err != nil {
			s.logger.WithFields(logrus.Fields{
				"game_id": res.gameID,
				"date":    date,
			}).Errorf("Failed to compute game: %v", res.err)
			board.Failed = append(board.Failed, res.gameID)
			continue
		}
		board.Games = append(board.Games, *res.summary)
	}

	if len(board.Games) == 0 {
		return nil, fmt.Errorf("%w: no games could be computed for %s", utils.ErrUpstreamFetch, date)
	}

	sort.Slice(board.Games, func(i, j int) bool {
		return board.Games[i].GameID < board.Games[j].GameID
	})
	sort.Strings(board.Failed)

	s.cache.SetWithRetry(ctx, cacheKey, board, 5*time.Minute, 3)

	return board, nil
}

// GameSummary fetches one game's box score and shot log and computes
// the xPTS card.
func (s *ScoreboardService) GameSummary(ctx context.Context, gameID string) (*models.GameSummary, error) {
	cacheKey := GameSummaryCacheKey(gameID)
	var cached models.GameSummary
	if err := s.cache.Get(ctx, cacheKey, &cached); err == nil {
		return &cached, nil
	}

	linesResult, err := s.breaker.Execute("nbastats", func() (interface{}, error) {
		return s.stats.BoxScoreTraditional(ctx, gameID)
	})
	if err != nil {
		return nil, fmt.Errorf("box score for game %s: %w", gameID, err)
	}
	lines := linesResult.([]models.BoxScoreLine)

	// The shot chart endpoint filters by season type, so regular
	// season and playoffs are fetched and concatenated; the wrong one
	// comes back empty.
	var shots []xpts.Shot
	for _, seasonType := range []string{"Regular Season", "Playoffs"} {
		st := seasonType
		result, err := s.breaker.Execute("nbastats", func() (interface{}, error) {
			return s.stats.ShotChartDetail(ctx, gameID, s.season, st)
		})
		if err != nil {
			return nil, fmt.Errorf("shot chart for game %s: %w", gameID, err)
		}
		shots = append(shots, result.([]xpts.Shot)...)
	}

	summary, err := s.buildGameSummary(ctx, gameID, lines, shots)
	if err != nil {
		return nil, err
	}

	s.cache.Set(ctx, cacheKey, summary, 5*time.Minute)

	return summary, nil
}

// ComputeGameXPTS returns the per-player xPTS map for one game.
func (s *ScoreboardService) ComputeGameXPTS(ctx context.Context, gameID string) (map[int]float64, error) {
	summary, err := s.GameSummary(ctx, gameID)
	if err != nil {
		return nil, err
	}

	result := make(map[int]float64)
	for _, line := range summary.HomeBoxScore {
		result[line.PlayerID] = line.XPTS
	}
	for _, line := range summary.AwayBoxScore {
		result[line.PlayerID] = line.XPTS
	}
	return result, nil
}

// buildGameSummary scores every box score line against the season
// profiles and assembles the card. Players with no field-goal and no
// free-throw attempts short-circuit to zero without touching the
// season store.
func (s *ScoreboardService) buildGameSummary(ctx context.Context, gameID string, lines []models.BoxScoreLine, shots []xpts.Shot) (*models.GameSummary, error) {
	if len(lines) == 0 {
		return nil, fmt.Errorf("%w: empty box score for game %s", utils.ErrUpstreamFetch, gameID)
	}

	for i := range lines {
		line := &lines[i]
		if line.FGA+line.FTA == 0 {
			line.XPTS = 0
			continue
		}

		profile, err := s.seasons.PlayerProfile(ctx, line.PlayerID)
		if err != nil {
			return nil, err
		}
		ftPct, err := s.seasons.FreeThrowPct(ctx, line.PlayerID)
		if err != nil {
			return nil, fmt.Errorf("game %s, player %s: %w", gameID, line.PlayerName, err)
		}

		line.XPTS = xpts.GamePoints(line.PlayerID, profile, shots, line.FTA, ftPct)
	}

	// The box score lists the two teams in home, away order.
	homeTeam := lines[0].TeamAbbrev
	awayTeam := ""
	for _, line := range lines {
		if line.TeamAbbrev != homeTeam {
			awayTeam = line.TeamAbbrev
			break
		}
	}

	summary := &models.GameSummary{
		GameID:      gameID,
		HomeTeam:    homeTeam,
		AwayTeam:    awayTeam,
		HomeLogoURL: models.LogoURL(homeTeam),
		AwayLogoURL: models.LogoURL(awayTeam),
	}

	var homePts, awayPts int
	var homeX, awayX float64
	for _, line := range lines {
		if line.TeamAbbrev == homeTeam {
			summary.HomeBoxScore = append(summary.HomeBoxScore, line)
			homePts += line.Points
			homeX += line.XPTS
		} else {
			summary.AwayBoxScore = append(summary.AwayBoxScore, line)
			awayPts += line.Points
			awayX += line.XPTS
		}
	}

	sortBoxScore(summary.HomeBoxScore)
	sortBoxScore(summary.AwayBoxScore)

	summary.Score = fmt.Sprintf("%d - %d", homePts, awayPts)
	summary.XScore = fmt.Sprintf("%.1f - %.1f", roundTenth(homeX), roundTenth(awayX))

	return summary, nil
}

func sortBoxScore(lines []models.BoxScoreLine) {
	sort.SliceStable(lines, func(i, j int) bool {
		if lines[i].Points != lines[j].Points {
			return lines[i].Points > lines[j].Points
		}
		return lines[i].XPTS > lines[j].XPTS
	})
}

func roundTenth(v float64) float64 {
	return math.Round(v*10) / 10
}
