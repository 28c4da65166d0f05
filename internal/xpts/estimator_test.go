package xpts

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func makeBucketShots(n, made int, actionType, zoneBasic, zoneArea string) []Shot {
	shots := make([]Shot, 0, n)
	for i := 0; i < n; i++ {
		shots = append(shots, Shot{
			PlayerID:   203999,
			PointValue: 2,
			ActionType: actionType,
			ZoneBasic:  zoneBasic,
			ZoneArea:   zoneArea,
			Made:       i < made,
		})
	}
	return shots
}

func TestEstimateEstablishedBucket(t *testing.T) {
	// 10 attempts, 6 makes: 0.6 + 10/150 volume bonus
	profile := makeBucketShots(10, 6, "Jump Shot", "Mid-Range", "Center(C)")

	p := EstimateMakeProbability(profile, "Jump Shot", "Mid-Range", "Center(C)")
	assert.InDelta(t, 0.6+10.0/150.0, p, 1e-9)
}

func TestEstimateVolumeBonusCaps(t *testing.T) {
	tests := []struct {
		name     string
		attempts int
		makes    int
		expected float64
	}{
		{
			name:     "bonus below cap",
			attempts: 30,
			makes:    15,
			expected: 0.5 + 30.0/150.0,
		},
		{
			name:     "bonus capped at 0.25",
			attempts: 300,
			makes:    150,
			expected: 0.5 + 0.25,
		},
		{
			name:     "probability capped at 0.95",
			attempts: 200,
			makes:    180,
			expected: 0.95,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			profile := makeBucketShots(tt.attempts, tt.makes, "Layup", "Restricted Area", "Center(C)")
			p := EstimateMakeProbability(profile, "Layup", "Restricted Area", "Center(C)")
			assert.InDelta(t, tt.expected, p, 1e-9)
		})
	}
}

func TestEstimateSparseBucketFallsBackToZone(t *testing.T) {
	// 3 jump shots (2 made) in the zone plus 17 other attempts in the
	// same zone under a different action type: 20 zone attempts, 12
	// zone makes. The sparse exact bucket must be scored against the
	// zone rate, with the smaller n/250 bonus driven by the exact
	// bucket's 3 attempts.
	profile := makeBucketShots(3, 2, "Jump Shot", "Mid-Range", "Left Side(L)")
	profile = append(profile, makeBucketShots(17, 10, "Pullup Jump Shot", "Mid-Range", "Left Side(L)")...)

	p := EstimateMakeProbability(profile, "Jump Shot", "Mid-Range", "Left Side(L)")
	assert.InDelta(t, 12.0/20.0+3.0/250.0, p, 1e-9)
}

func TestEstimateSparseNumeratorUsesZoneMakes(t *testing.T) {
	// All 4 exact-bucket attempts missed, but the surrounding zone
	// still converts. The zone rate must count zone makes, not just
	// makes from the exact bucket.
	profile := makeBucketShots(4, 0, "Fadeaway Jump Shot", "Mid-Range", "Right Side(R)")
	profile = append(profile, makeBucketShots(16, 8, "Jump Shot", "Mid-Range", "Right Side(R)")...)

	p := EstimateMakeProbability(profile, "Fadeaway Jump Shot", "Mid-Range", "Right Side(R)")
	assert.InDelta(t, 8.0/20.0+4.0/250.0, p, 1e-9)
}

func TestEstimateEmptyZoneReturnsZero(t *testing.T) {
	profile := makeBucketShots(20, 10, "Jump Shot", "Mid-Range", "Center(C)")

	// No attempts anywhere in the requested zone.
	p := EstimateMakeProbability(profile, "Jump Shot", "Above the Break 3", "Center(C)")
	assert.Equal(t, 0.0, p)
}

func TestEstimateEmptyProfileReturnsZero(t *testing.T) {
	assert.Equal(t, 0.0, EstimateMakeProbability(nil, "Jump Shot", "Mid-Range", "Center(C)"))
}

func TestEstimateAlwaysWithinBounds(t *testing.T) {
	profiles := [][]Shot{
		nil,
		makeBucketShots(1, 1, "Dunk", "Restricted Area", "Center(C)"),
		makeBucketShots(6, 6, "Dunk", "Restricted Area", "Center(C)"),
		makeBucketShots(500, 500, "Dunk", "Restricted Area", "Center(C)"),
		makeBucketShots(500, 0, "Dunk", "Restricted Area", "Center(C)"),
		append(makeBucketShots(2, 2, "Dunk", "Restricted Area", "Center(C)"),
			makeBucketShots(400, 395, "Layup", "Restricted Area", "Center(C)")...),
	}

	for _, profile := range profiles {
		p := EstimateMakeProbability(profile, "Dunk", "Restricted Area", "Center(C)")
		assert.GreaterOrEqual(t, p, 0.0)
		assert.LessOrEqual(t, p, 0.95)
	}
}

func TestEstimateIgnoresOtherZones(t *testing.T) {
	// Attempts outside the requested zone must not leak into either
	// branch.
	profile := makeBucketShots(100, 90, "Layup", "Restricted Area", "Center(C)")
	profile = append(profile, makeBucketShots(10, 4, "Jump Shot", "Mid-Range", "Center(C)")...)

	p := EstimateMakeProbability(profile, "Jump Shot", "Mid-Range", "Center(C)")
	assert.InDelta(t, 0.4+10.0/150.0, p, 1e-9)
}
