package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jstittsworth/nba-xpts/internal/models"
	"github.com/jstittsworth/nba-xpts/internal/xpts"
	"github.com/jstittsworth/nba-xpts/pkg/utils"
)

// stubProfileSource serves canned season data for summary tests.
type stubProfileSource struct {
	profiles map[int][]xpts.Shot
	ftPcts   map[int]float64
}

func (s *stubProfileSource) PlayerProfile(_ context.Context, playerID int) ([]xpts.Shot, error) {
	return s.profiles[playerID], nil
}

func (s *stubProfileSource) FreeThrowPct(_ context.Context, playerID int) (float64, error) {
	pct, ok := s.ftPcts[playerID]
	if !ok {
		return 0, fmt.Errorf("%w: no free-throw percentage for player %d", utils.ErrMissingPlayerStat, playerID)
	}
	return pct, nil
}

func profileOf(n, made int, playerID int) []xpts.Shot {
	shots := make([]xpts.Shot, 0, n)
	for i := 0; i < n; i++ {
		shots = append(shots, xpts.Shot{
			PlayerID:   playerID,
			PointValue: 2,
			ActionType: "Jump Shot",
			ZoneBasic:  "Mid-Range",
			ZoneArea:   "Center(C)",
			Made:       i < made,
		})
	}
	return shots
}

func newTestScoreboard(seasons ProfileSource) *ScoreboardService {
	return &ScoreboardService{
		seasons: seasons,
		logger:  logrus.New(),
		season:  "2024-25",
	}
}

func TestBuildGameSummarySplitsTeams(t *testing.T) {
	seasons := &stubProfileSource{
		profiles: map[int][]xpts.Shot{
			1: profileOf(10, 6, 1),
			2: profileOf(10, 6, 2),
		},
		ftPcts: map[int]float64{1: 0.8, 2: 0.9},
	}
	svc := newTestScoreboard(seasons)

	lines := []models.BoxScoreLine{
		{PlayerID: 1, TeamAbbrev: "BOS", PlayerName: "Home Guy", Points: 20, FGA: 1, FTA: 0},
		{PlayerID: 2, TeamAbbrev: "LAL", PlayerName: "Away Guy", Points: 15, FGA: 1, FTA: 2},
	}
	shots := []xpts.Shot{
		{PlayerID: 1, PointValue: 2, ActionType: "Jump Shot", ZoneBasic: "Mid-Range", ZoneArea: "Center(C)"},
		{PlayerID: 2, PointValue: 2, ActionType: "Jump Shot", ZoneBasic: "Mid-Range", ZoneArea: "Center(C)"},
	}

	summary, err := svc.buildGameSummary(context.Background(), "0022400001", lines, shots)
	require.NoError(t, err)

	assert.Equal(t, "BOS", summary.HomeTeam)
	assert.Equal(t, "LAL", summary.AwayTeam)
	assert.Len(t, summary.HomeBoxScore, 1)
	assert.Len(t, summary.AwayBoxScore, 1)
	assert.Equal(t, "20 - 15", summary.Score)
	// Both players share the 10/6 bucket: 2*0.6667 = 1.3 each, away
	// adds 2*0.9 free throws.
	assert.Equal(t, "1.3 - 3.1", summary.XScore)
	assert.NotEmpty(t, summary.HomeLogoURL)
	assert.NotEmpty(t, summary.AwayLogoURL)
}

func TestBuildGameSummaryShortCircuitsBenchPlayers(t *testing.T) {
	// No profile or FT% registered for player 3: a zero-attempt line
	// must not trigger any season lookup.
	seasons := &stubProfileSource{
		profiles: map[int][]xpts.Shot{},
		ftPcts:   map[int]float64{},
	}
	svc := newTestScoreboard(seasons)

	lines := []models.BoxScoreLine{
		{PlayerID: 3, TeamAbbrev: "BOS", PlayerName: "Bench Guy", Points: 0, FGA: 0, FTA: 0},
		{PlayerID: 4, TeamAbbrev: "LAL", PlayerName: "Other Guy", Points: 0, FGA: 0, FTA: 0},
	}

	summary, err := svc.buildGameSummary(context.Background(), "0022400002", lines, nil)
	require.NoError(t, err)
	assert.Equal(t, 0.0, summary.HomeBoxScore[0].XPTS)
	assert.Equal(t, "0.0 - 0.0", summary.XScore)
}

func TestBuildGameSummaryMissingFreeThrowPct(t *testing.T) {
	seasons := &stubProfileSource{
		profiles: map[int][]xpts.Shot{5: profileOf(10, 6, 5)},
		ftPcts:   map[int]float64{},
	}
	svc := newTestScoreboard(seasons)

	lines := []models.BoxScoreLine{
		{PlayerID: 5, TeamAbbrev: "BOS", PlayerName: "No FT Entry", Points: 10, FGA: 4, FTA: 2},
	}

	_, err := svc.buildGameSummary(context.Background(), "0022400003", lines, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, utils.ErrMissingPlayerStat)
}

func TestBuildGameSummaryEmptyBoxScore(t *testing.T) {
	svc := newTestScoreboard(&stubProfileSource{})

	_, err := svc.buildGameSummary(context.Background(), "0022400004", nil, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, utils.ErrUpstreamFetch)
}

func TestBuildGameSummarySortsByPoints(t *testing.T) {
	seasons := &stubProfileSource{
		profiles: map[int][]xpts.Shot{},
		ftPcts:   map[int]float64{10: 0.8, 11: 0.8, 12: 0.8},
	}
	svc := newTestScoreboard(seasons)

	lines := []models.BoxScoreLine{
		{PlayerID: 10, TeamAbbrev: "DEN", PlayerName: "Role Player", Points: 8, FTA: 2},
		{PlayerID: 11, TeamAbbrev: "DEN", PlayerName: "Star", Points: 30, FTA: 10},
		{PlayerID: 12, TeamAbbrev: "DEN", PlayerName: "Sixth Man", Points: 18, FTA: 4},
		{PlayerID: 13, TeamAbbrev: "MIN", PlayerName: "Opponent", Points: 0, FGA: 0, FTA: 0},
	}

	summary, err := svc.buildGameSummary(context.Background(), "0022400005", lines, nil)
	require.NoError(t, err)

	require.Len(t, summary.HomeBoxScore, 3)
	assert.Equal(t, "Star", summary.HomeBoxScore[0].PlayerName)
	assert.Equal(t, "Sixth Man", summary.HomeBoxScore[1].PlayerName)
	assert.Equal(t, "Role Player", summary.HomeBoxScore[2].PlayerName)
}

func TestSortBoxScoreBreaksTiesOnXPTS(t *testing.T) {
	lines := []models.BoxScoreLine{
		{PlayerName: "Lower", Points: 10, XPTS: 8.2},
		{PlayerName: "Higher", Points: 10, XPTS: 12.4},
	}

	sortBoxScore(lines)

	assert.Equal(t, "Higher", lines[0].PlayerName)
	assert.Equal(t, "Lower", lines[1].PlayerName)
}
