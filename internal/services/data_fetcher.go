package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"

	"github.com/jstittsworth/nba-xpts/internal/models"
	"github.com/jstittsworth/nba-xpts/internal/providers"
	"github.com/jstittsworth/nba-xpts/pkg/database"
)

// DataFetcherService keeps the upstream snapshots fresh: the league
// game log on a short interval, the season stat table nightly, and the
// season shot archive once on startup when absent.
type DataFetcherService struct {
	db            *database.DB
	cache         *CacheService
	stats         *providers.NBAStatsClient
	seasons       *SeasonStore
	breaker       *CircuitBreakerService
	hub           *WebSocketHub
	logger        *logrus.Logger
	cron          *cron.Cron
	mu            sync.Mutex
	isRunning     bool
	fetchInterval time.Duration
	season        string
}

func NewDataFetcherService(
	db *database.DB,
	cache *CacheService,
	stats *providers.NBAStatsClient,
	seasons *SeasonStore,
	breaker *CircuitBreakerService,
	hub *WebSocketHub,
	logger *logrus.Logger,
	fetchInterval time.Duration,
	season string,
) *DataFetcherService {
	return &DataFetcherService{
		db:            db,
		cache:         cache,
		stats:         stats,
		seasons:       seasons,
		breaker:       breaker,
		hub:           hub,
		logger:        logger,
		cron:          cron.New(),
		fetchInterval: fetchInterval,
		season:        season,
	}
}

// Start begins the scheduled refresh cycles.
func (s *DataFetcherService) Start(skipInitialFetch bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("data fetcher is already running")
	}

	schedule := fmt.Sprintf("@every %s", s.fetchInterval.String())
	if _, err := s.cron.AddFunc(schedule, s.refreshGameLog); err != nil {
		return fmt.Errorf("failed to schedule game log refresh: %w", err)
	}

	// Season stat aggregates move slowly; refresh overnight.
	if _, err := s.cron.AddFunc("0 5 * * *", s.refreshSeasonStats); err != nil {
		return fmt.Errorf("failed to schedule season stats refresh: %w", err)
	}

	if _, err := s.cron.AddFunc("0 3 * * *", s.cleanup); err != nil {
		return fmt.Errorf("failed to schedule cleanup: %w", err)
	}

	s.cron.Start()
	s.isRunning = true

	if !skipInitialFetch {
		go func() {
			if !s.seasons.HasSeasonShots() {
				s.loadSeasonArchive()
			}
			s.refreshSeasonStats()
			s.refreshGameLog()
		}()
	}

	s.logger.Info("Data fetcher service started")
	return nil
}

// Stop halts the scheduled refresh cycles.
func (s *DataFetcherService) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}

	ctx := s.cron.Stop()
	<-ctx.Done()

	s.isRunning = false
	s.logger.Info("Data fetcher service stopped")
}

// refreshGameLog pulls the regular season and playoff game logs and
// swaps the date index.
func (s *DataFetcherService) refreshGameLog() {
	started := time.Now()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	var entries []models.GameLogEntry
	var err error
	for _, seasonType := range []string{"Regular Season", "Playoffs"} {
		st := seasonType
		var result interface{}
		result, err = s.breaker.Execute("nbastats", func() (interface{}, error) {
			return s.stats.LeagueGameLog(ctx, s.season, st)
		})
		if err != nil {
			// No playoff log before the postseason.
			if st == "Playoffs" {
				err = nil
				continue
			}
			break
		}
		entries = append(entries, result.([]models.GameLogEntry)...)
	}

	if err == nil {
		err = s.seasons.ReplaceGameLog(entries)
	}

	s.recordRun("game_log", started, err, map[string]interface{}{"entries": len(entries)})
	if err != nil {
		s.logger.Errorf("Game log refresh failed: %v", err)
		return
	}

	s.cache.Delete(context.Background(), GameDatesCacheKey())
	s.hub.NotifyScoreboardRefresh()
	s.logger.WithField("entries", len(entries)).Info("Game log refreshed")
}

// refreshSeasonStats pulls the free-throw percentage table.
func (s *DataFetcherService) refreshSeasonStats() {
	started := time.Now()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	count, err := s.seasons.RefreshPlayerStats(ctx)
	s.recordRun("season_stats", started, err, map[string]interface{}{"players": count})
	if err != nil {
		s.logger.Errorf("Season stats refresh failed: %v", err)
		return
	}
	s.logger.WithField("players", count).Info("Season stats refreshed")
}

// loadSeasonArchive performs the one-time bulk load of the season shot
// archive.
func (s *DataFetcherService) loadSeasonArchive() {
	started := time.Now()
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Minute)
	defer cancel()

	count, err := s.seasons.LoadSeasonShots(ctx)
	s.recordRun("shot_archive", started, err, map[string]interface{}{"shots": count})
	if err != nil {
		s.logger.Errorf("Season shot archive load failed: %v", err)
	}
}

// cleanup drops stale cache entries and prunes old sync history.
func (s *DataFetcherService) cleanup() {
	s.logger.Info("Starting daily cleanup")

	cutoff := time.Now().AddDate(0, 0, -14)
	result := s.db.Where("started_at < ?", cutoff).Delete(&models.SyncRun{})
	if result.Error != nil {
		s.logger.Errorf("Failed to prune sync runs: %v", result.Error)
	} else if result.RowsAffected > 0 {
		s.logger.Infof("Pruned %d old sync runs", result.RowsAffected)
	}

	s.cache.Flush()
}

// FetchOnDemand triggers a full refresh in the background. Used by the
// admin sync endpoint.
func (s *DataFetcherService) FetchOnDemand(reloadArchive bool) {
	go func() {
		if reloadArchive {
			s.loadSeasonArchive()
		}
		s.refreshSeasonStats()
		s.refreshGameLog()
	}()
}

// recordRun persists one refresh cycle for the admin status endpoint.
func (s *DataFetcherService) recordRun(kind string, started time.Time, runErr error, detail map[string]interface{}) {
	if runErr != nil {
		detail["error"] = runErr.Error()
	}
	payload, err := json.Marshal(detail)
	if err != nil {
		payload = []byte("{}")
	}

	run := models.SyncRun{
		Kind:       kind,
		StartedAt:  started,
		FinishedAt: time.Now(),
		Success:    runErr == nil,
		Detail:     datatypes.JSON(payload),
	}
	if err := s.db.Create(&run).Error; err != nil {
		s.logger.Errorf("Failed to record sync run: %v", err)
	}
}

// GetFetchStatus returns the scheduler state and recent sync history.
func (s *DataFetcherService) GetFetchStatus() map[string]interface{} {
	s.mu.Lock()
	isRunning := s.isRunning
	entries := s.cron.Entries()
	s.mu.Unlock()

	nextRuns := make([]time.Time, 0, len(entries))
	for _, entry := range entries {
		nextRuns = append(nextRuns, entry.Next)
	}

	var recent []models.SyncRun
	s.db.Order("started_at DESC").Limit(10).Find(&recent)

	return map[string]interface{}{
		"is_running":     isRunning,
		"fetch_interval": s.fetchInterval.String(),
		"next_runs":      nextRuns,
		"cron_jobs":      len(entries),
		"recent_runs":    recent,
	}
}
