package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/jstittsworth/nba-xpts/internal/models"
	"github.com/jstittsworth/nba-xpts/internal/providers"
	"github.com/jstittsworth/nba-xpts/internal/xpts"
	"github.com/jstittsworth/nba-xpts/pkg/database"
	"github.com/jstittsworth/nba-xpts/pkg/utils"
)

// SeasonStore owns the season-long data the estimator consumes: the
// archived shot profiles and the free-throw percentage table. Profiles
// are handed out as plain shot slices so the estimator stays a pure
// function of its arguments.
type SeasonStore struct {
	db         *database.DB
	cache      *CacheService
	archive    *providers.ShotArchiveClient
	stats      *providers.NBAStatsClient
	breaker    *CircuitBreakerService
	logger     *logrus.Logger
	season     string // "2024-25"
	seasonYear int    // 2024
}

func NewSeasonStore(
	db *database.DB,
	cache *CacheService,
	archive *providers.ShotArchiveClient,
	stats *providers.NBAStatsClient,
	breaker *CircuitBreakerService,
	logger *logrus.Logger,
	season string,
	seasonYear int,
) *SeasonStore {
	return &SeasonStore{
		db:         db,
		cache:      cache,
		archive:    archive,
		stats:      stats,
		breaker:    breaker,
		logger:     logger,
		season:     season,
		seasonYear: seasonYear,
	}
}

// LoadSeasonShots pulls the season shot archive (regular season plus
// playoffs when published) and replaces the season's rows. Returns the
// number of rows loaded.
func (s *SeasonStore) LoadSeasonShots(ctx context.Context) (int, error) {
	var all []models.SeasonShot
	for _, seasonType := range []string{"Regular Season", "Playoffs"} {
		result, err := s.breaker.Execute("shotarchive", func() (interface{}, error) {
			return s.archive.SeasonShots(ctx, s.seasonYear, seasonType)
		})
		if err != nil {
			// Playoff archives don't exist until the postseason.
			if seasonType == "Playoffs" {
				s.logger.WithField("season", s.seasonYear).Warnf("Playoff shot archive unavailable: %v", err)
				continue
			}
			return 0, fmt.Errorf("failed to load season shots: %w", err)
		}
		all = append(all, result.([]models.SeasonShot)...)
	}

	if len(all) == 0 {
		return 0, fmt.Errorf("%w: season %d shot archive is empty", utils.ErrUpstreamFetch, s.seasonYear)
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("season = ?", s.seasonYear).Delete(&models.SeasonShot{}).Error; err != nil {
			return err
		}
		return tx.CreateInBatches(all, 1000).Error
	})
	if err != nil {
		return 0, fmt.Errorf("failed to store season shots: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"season": s.seasonYear,
		"shots":  len(all),
	}).Info("Season shot archive loaded")

	return len(all), nil
}

// RefreshPlayerStats pulls the league player stats table and upserts
// the free-throw percentages.
func (s *SeasonStore) RefreshPlayerStats(ctx context.Context) (int, error) {
	result, err := s.breaker.Execute("nbastats", func() (interface{}, error) {
		return s.stats.LeagueDashPlayerStats(ctx, s.season)
	})
	if err != nil {
		return 0, fmt.Errorf("failed to fetch player stats: %w", err)
	}
	stats := result.([]models.PlayerSeasonStat)

	if len(stats) == 0 {
		return 0, fmt.Errorf("%w: empty player stats for season %s", utils.ErrUpstreamFetch, s.season)
	}

	err = s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "player_id"}, {Name: "season"}},
		UpdateAll: true,
	}).CreateInBatches(stats, 500).Error
	if err != nil {
		return 0, fmt.Errorf("failed to store player stats: %w", err)
	}

	return len(stats), nil
}

// HasSeasonShots reports whether the season archive has been loaded.
func (s *SeasonStore) HasSeasonShots() bool {
	var count int64
	s.db.Model(&models.SeasonShot{}).Where("season = ?", s.seasonYear).Count(&count)
	return count > 0
}

// PlayerProfile returns a player's full-season shot profile as a
// read-only slice. A player with no archived attempts gets an empty
// profile, not an error; the estimator treats it as all-empty buckets.
func (s *SeasonStore) PlayerProfile(ctx context.Context, playerID int) ([]xpts.Shot, error) {
	cacheKey := ProfileCacheKey(s.seasonYear, playerID)
	var cached []xpts.Shot
	if err := s.cache.Get(ctx, cacheKey, &cached); err == nil {
		return cached, nil
	}

	var rows []models.SeasonShot
	if err := s.db.WithContext(ctx).
		Where("season = ? AND player_id = ?", s.seasonYear, playerID).
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to load player profile: %w", err)
	}

	profile := make([]xpts.Shot, 0, len(rows))
	for _, row := range rows {
		profile = append(profile, row.ToShot())
	}

	if len(profile) > 0 {
		s.cache.Set(ctx, cacheKey, profile, 6*time.Hour)
	}

	return profile, nil
}

// FreeThrowPct returns a player's season free-throw percentage. A
// missing entry is a hard lookup failure: defaulting to zero would
// silently understate the expectation.
func (s *SeasonStore) FreeThrowPct(ctx context.Context, playerID int) (float64, error) {
	var stat models.PlayerSeasonStat
	err := s.db.WithContext(ctx).
		Where("player_id = ? AND season = ?", playerID, s.season).
		First(&stat).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, fmt.Errorf("%w: no free-throw percentage for player %d", utils.ErrMissingPlayerStat, playerID)
		}
		return 0, fmt.Errorf("failed to look up free-throw percentage: %w", err)
	}
	return stat.FTPct, nil
}

// ReplaceGameLog swaps in a freshly fetched game log.
func (s *SeasonStore) ReplaceGameLog(entries []models.GameLogEntry) error {
	if len(entries) == 0 {
		return fmt.Errorf("%w: empty game log", utils.ErrUpstreamFetch)
	}
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&models.GameLogEntry{}).Error; err != nil {
			return err
		}
		return tx.CreateInBatches(entries, 1000).Error
	})
}
