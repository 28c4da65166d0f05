package xpts

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGamePointsEmptyGame(t *testing.T) {
	profile := makeBucketShots(50, 25, "Jump Shot", "Mid-Range", "Center(C)")

	assert.Equal(t, 0.0, GamePoints(203999, profile, nil, 0, 0.85))
}

func TestGamePointsSingleShot(t *testing.T) {
	// Bucket at 10/6: probability 0.6 + 10/150 = 0.6667, so one
	// two-point attempt is worth 1.3 expected points after rounding.
	profile := makeBucketShots(10, 6, "Jump Shot", "Mid-Range", "Center(C)")
	game := []Shot{{
		PlayerID:   203999,
		PointValue: 2,
		ActionType: "Jump Shot",
		ZoneBasic:  "Mid-Range",
		ZoneArea:   "Center(C)",
	}}

	assert.InDelta(t, 1.3, GamePoints(203999, profile, game, 0, 0.85), 1e-9)
}

func TestGamePointsThreePointValue(t *testing.T) {
	profile := makeBucketShots(20, 10, "Jump Shot", "Above the Break 3", "Center(C)")
	game := []Shot{{
		PlayerID:   203999,
		PointValue: 3,
		ActionType: "Jump Shot",
		ZoneBasic:  "Above the Break 3",
		ZoneArea:   "Center(C)",
	}}

	// 3 * (0.5 + 20/150) rounded to one decimal
	assert.InDelta(t, 1.9, GamePoints(203999, profile, game, 0, 0.85), 1e-9)
}

func TestGamePointsAddsFreeThrowExpectation(t *testing.T) {
	assert.InDelta(t, 6.8, GamePoints(203999, nil, nil, 8, 0.85), 1e-9)
}

func TestGamePointsMonotonicInFreeThrowAttempts(t *testing.T) {
	profile := makeBucketShots(10, 6, "Jump Shot", "Mid-Range", "Center(C)")
	game := []Shot{{
		PlayerID:   203999,
		PointValue: 2,
		ActionType: "Jump Shot",
		ZoneBasic:  "Mid-Range",
		ZoneArea:   "Center(C)",
	}}

	prev := GamePoints(203999, profile, game, 0, 0.8)
	for fta := 1; fta <= 15; fta++ {
		got := GamePoints(203999, profile, game, fta, 0.8)
		assert.GreaterOrEqual(t, got, prev, "fta=%d", fta)
		prev = got
	}
}

func TestGamePointsIgnoresOtherPlayersShots(t *testing.T) {
	profile := makeBucketShots(10, 6, "Jump Shot", "Mid-Range", "Center(C)")
	game := []Shot{
		{PlayerID: 1628369, PointValue: 3, ActionType: "Jump Shot", ZoneBasic: "Above the Break 3", ZoneArea: "Center(C)"},
		{PlayerID: 203999, PointValue: 2, ActionType: "Jump Shot", ZoneBasic: "Mid-Range", ZoneArea: "Center(C)"},
	}

	assert.InDelta(t, 1.3, GamePoints(203999, profile, game, 0, 0.85), 1e-9)
}

func TestGamePointsRoundsToOneDecimal(t *testing.T) {
	// 7 of 14 with a 14/150 bonus: two shots at 2 * 0.59333... plus
	// 3 * 0.72 of free throws = 4.533..., displayed as 4.5.
	profile := makeBucketShots(14, 7, "Layup", "Restricted Area", "Center(C)")
	game := []Shot{
		{PlayerID: 203999, PointValue: 2, ActionType: "Layup", ZoneBasic: "Restricted Area", ZoneArea: "Center(C)"},
		{PlayerID: 203999, PointValue: 2, ActionType: "Layup", ZoneBasic: "Restricted Area", ZoneArea: "Center(C)"},
	}

	got := GamePoints(203999, profile, game, 3, 0.72)
	assert.InDelta(t, 4.5, got, 1e-9)
}
