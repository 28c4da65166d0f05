package xpts

import "math"

// GamePoints computes a player's expected points for one game: the sum
// over their field-goal attempts of point value times estimated make
// probability, plus the free-throw expectation (attempts times season
// free-throw percentage). The result is rounded to one decimal place.
//
// Shots in gameShots belonging to other players are ignored, so the
// full game shot log can be passed as-is. The caller is responsible for
// resolving ftPct; a missing season entry must be surfaced before this
// point, never defaulted to zero.
func GamePoints(playerID int, profile []Shot, gameShots []Shot, ftAttempts int, ftPct float64) float64 {
	total := 0.0
	for _, shot := range gameShots {
		if shot.PlayerID != playerID {
			continue
		}
		p := EstimateMakeProbability(profile, shot.ActionType, shot.ZoneBasic, shot.ZoneArea)
		total += float64(shot.PointValue) * p
	}

	total += float64(ftAttempts) * ftPct

	return math.Round(total*10) / 10
}
