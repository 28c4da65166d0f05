package xpts

// Shot is a single recorded field-goal attempt. The same type carries
// both season-profile attempts and in-game attempts; a season profile
// is just the slice of a player's shots across a season, used as a
// read-only lookup table.
type Shot struct {
	PlayerID   int    `json:"player_id"`
	PlayerName string `json:"player_name,omitempty"`
	PointValue int    `json:"point_value"` // 2 or 3
	ActionType string `json:"action_type"` // shot category, e.g. "Jump Shot"
	ZoneBasic  string `json:"zone_basic"`  // coarse court region
	ZoneArea   string `json:"zone_area"`   // fine court region
	Made       bool   `json:"made"`
	LocX       int    `json:"loc_x"`
	LocY       int    `json:"loc_y"`
}
