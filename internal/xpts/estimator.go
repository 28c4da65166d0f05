package xpts

const (
	// maxProbability caps every estimate; no shot is treated as a
	// guaranteed make regardless of sample.
	maxProbability = 0.95

	// minBucketSize is the attempt count above which the exact bucket
	// is trusted on its own.
	minBucketSize = 5

	// Volume bonus: extra credit for well-established tendencies,
	// scaled by attempt count and capped so high-volume shooters don't
	// run away with it. The sparse branch uses the gentler divisor.
	volumeBonusCap      = 0.25
	exactVolumeDivisor  = 150
	coarseVolumeDivisor = 250
)

// EstimateMakeProbability estimates the probability that a shot from
// the given bucket is made, based on the player's season profile.
//
// Attempts matching the full (actionType, zoneBasic, zoneArea) bucket
// are used when there are more than minBucketSize of them. Otherwise
// the estimate falls back to the coarser zoneBasic-only bucket, trading
// specificity for sample size. An empty coarse bucket yields 0; it is
// valid input, not an error. The result is always within
// [0, maxProbability].
func EstimateMakeProbability(profile []Shot, actionType, zoneBasic, zoneArea string) float64 {
	var exactAttempts, exactMakes int
	var zoneAttempts, zoneMakes int
	for _, s := range profile {
		if s.ZoneBasic != zoneBasic {
			continue
		}
		zoneAttempts++
		if s.Made {
			zoneMakes++
		}
		if s.ActionType == actionType && s.ZoneArea == zoneArea {
			exactAttempts++
			if s.Made {
				exactMakes++
			}
		}
	}

	if exactAttempts > minBucketSize {
		p := float64(exactMakes) / float64(exactAttempts)
		return clampProbability(p + volumeBonus(exactAttempts, exactVolumeDivisor))
	}

	if zoneAttempts == 0 {
		return 0
	}

	// Sparse exact bucket: score against the whole zone. Makes and
	// attempts both come from the zone bucket so numerator and
	// denominator describe the same population.
	p := float64(zoneMakes) / float64(zoneAttempts)
	return clampProbability(p + volumeBonus(exactAttempts, coarseVolumeDivisor))
}

func volumeBonus(attempts int, divisor float64) float64 {
	bonus := float64(attempts) / divisor
	if bonus > volumeBonusCap {
		return volumeBonusCap
	}
	return bonus
}

func clampProbability(p float64) float64 {
	if p > maxProbability {
		return maxProbability
	}
	if p < 0 {
		return 0
	}
	return p
}
