package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/jstittsworth/nba-xpts/internal/models"
	"github.com/jstittsworth/nba-xpts/internal/xpts"
	"github.com/jstittsworth/nba-xpts/pkg/utils"
)

const nbaStatsBaseURL = "https://stats.nba.com/stats"

// NBAStatsClient talks to the stats.nba.com JSON endpoints. The API is
// unauthenticated but rejects requests without browser-ish headers and
// throttles hard, so every call goes through a shared rate limiter.
type NBAStatsClient struct {
	baseURL     string
	httpClient  *http.Client
	logger      *logrus.Logger
	rateLimiter *rate.Limiter
}

// NewNBAStatsClient creates a stats.nba.com client. minInterval is the
// minimum spacing between requests.
func NewNBAStatsClient(minInterval time.Duration, timeout time.Duration, logger *logrus.Logger) *NBAStatsClient {
	return &NBAStatsClient{
		baseURL: nbaStatsBaseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger:      logger,
		rateLimiter: rate.NewLimiter(rate.Every(minInterval), 1),
	}
}

// statsResponse is the envelope every stats.nba.com endpoint returns:
// named result sets of header-labelled rows.
type statsResponse struct {
	ResultSets []resultSet `json:"resultSets"`
}

type resultSet struct {
	Name    string          `json:"name"`
	Headers []string        `json:"headers"`
	RowSet  [][]interface{} `json:"rowSet"`
}

// columns maps header names to row indices for one result set.
func (rs resultSet) columns() map[string]int {
	cols := make(map[string]int, len(rs.Headers))
	for i, h := range rs.Headers {
		cols[h] = i
	}
	return cols
}

// requireColumns rejects a result set missing any of the named
// headers. Without the check a renamed upstream column would read
// column 0 through the zero-value map lookup.
func requireColumns(cols map[string]int, names ...string) error {
	for _, name := range names {
		if _, ok := cols[name]; !ok {
			return fmt.Errorf("%w: result set missing column %s", utils.ErrUpstreamFetch, name)
		}
	}
	return nil
}

func (c *NBAStatsClient) get(ctx context.Context, endpoint string, params url.Values, dest *statsResponse) error {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return err
	}

	reqURL := fmt.Sprintf("%s/%s?%s", c.baseURL, endpoint, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Referer", "https://www.nba.com/")
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", utils.ErrUpstreamFetch, endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: %s: unexpected status code %d", utils.ErrUpstreamFetch, endpoint, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("%w: %s: decode: %v", utils.ErrUpstreamFetch, endpoint, err)
	}

	return nil
}

// findResultSet returns the named result set, falling back to the
// first one when the endpoint returns a single unnamed set.
func findResultSet(resp *statsResponse, name string) (resultSet, error) {
	for _, rs := range resp.ResultSets {
		if rs.Name == name {
			return rs, nil
		}
	}
	if len(resp.ResultSets) > 0 {
		return resp.ResultSets[0], nil
	}
	return resultSet{}, fmt.Errorf("%w: empty result sets", utils.ErrUpstreamFetch)
}

// LeagueGameLog fetches the team game log for one season type, one row
// per team per game.
func (c *NBAStatsClient) LeagueGameLog(ctx context.Context, season, seasonType string) ([]models.GameLogEntry, error) {
	params := url.Values{}
	params.Set("LeagueID", "00")
	params.Set("Season", season)
	params.Set("SeasonType", seasonType)
	params.Set("PlayerOrTeam", "T")
	params.Set("Counter", "0")
	params.Set("Direction", "ASC")
	params.Set("Sorter", "DATE")

	var resp statsResponse
	if err := c.get(ctx, "leaguegamelog", params, &resp); err != nil {
		return nil, err
	}

	rs, err := findResultSet(&resp, "LeagueGameLog")
	if err != nil {
		return nil, err
	}
	cols := rs.columns()
	if err := requireColumns(cols, "GAME_ID", "GAME_DATE", "TEAM_ABBREVIATION", "MATCHUP"); err != nil {
		return nil, err
	}

	entries := make([]models.GameLogEntry, 0, len(rs.RowSet))
	for _, row := range rs.RowSet {
		entries = append(entries, models.GameLogEntry{
			GameID:     rowString(row, cols["GAME_ID"]),
			GameDate:   rowString(row, cols["GAME_DATE"]),
			TeamAbbrev: rowString(row, cols["TEAM_ABBREVIATION"]),
			Matchup:    rowString(row, cols["MATCHUP"]),
			SeasonType: seasonType,
		})
	}

	return entries, nil
}

// BoxScoreTraditional fetches the traditional box score for a game.
// Players without recorded minutes (DNPs) are dropped, matching what
// the dashboard displays.
func (c *NBAStatsClient) BoxScoreTraditional(ctx context.Context, gameID string) ([]models.BoxScoreLine, error) {
	params := url.Values{}
	params.Set("GameID", gameID)
	params.Set("StartPeriod", "1")
	params.Set("EndPeriod", "10")
	params.Set("StartRange", "0")
	params.Set("EndRange", "0")
	params.Set("RangeType", "0")

	var resp statsResponse
	if err := c.get(ctx, "boxscoretraditionalv2", params, &resp); err != nil {
		return nil, err
	}

	rs, err := findResultSet(&resp, "PlayerStats")
	if err != nil {
		return nil, err
	}
	cols := rs.columns()
	if err := requireColumns(cols, "PLAYER_ID", "TEAM_ID", "TEAM_ABBREVIATION", "PLAYER_NAME", "MIN", "FGM", "FGA", "FG3M", "FG3A", "FTM", "FTA", "PTS"); err != nil {
		return nil, err
	}

	lines := make([]models.BoxScoreLine, 0, len(rs.RowSet))
	for _, row := range rs.RowSet {
		min := rowString(row, cols["MIN"])
		if min == "" {
			continue
		}
		lines = append(lines, models.BoxScoreLine{
			PlayerID:   rowInt(row, cols["PLAYER_ID"]),
			TeamID:     rowInt(row, cols["TEAM_ID"]),
			TeamAbbrev: rowString(row, cols["TEAM_ABBREVIATION"]),
			PlayerName: rowString(row, cols["PLAYER_NAME"]),
			Points:     rowInt(row, cols["PTS"]),
			FGM:        rowInt(row, cols["FGM"]),
			FGA:        rowInt(row, cols["FGA"]),
			FG3M:       rowInt(row, cols["FG3M"]),
			FG3A:       rowInt(row, cols["FG3A"]),
			FTM:        rowInt(row, cols["FTM"]),
			FTA:        rowInt(row, cols["FTA"]),
			Minutes:    normalizeMinutes(min),
		})
	}

	return lines, nil
}

// ShotChartDetail fetches every field-goal attempt recorded for a game.
func (c *NBAStatsClient) ShotChartDetail(ctx context.Context, gameID, season, seasonType string) ([]xpts.Shot, error) {
	params := url.Values{}
	params.Set("ContextMeasure", "FGA")
	params.Set("GameID", gameID)
	params.Set("PlayerID", "0")
	params.Set("TeamID", "0")
	params.Set("LeagueID", "00")
	params.Set("Season", season)
	params.Set("SeasonType", seasonType)

	var resp statsResponse
	if err := c.get(ctx, "shotchartdetail", params, &resp); err != nil {
		return nil, err
	}

	rs, err := findResultSet(&resp, "Shot_Chart_Detail")
	if err != nil {
		return nil, err
	}
	cols := rs.columns()
	if err := requireColumns(cols, "PLAYER_ID", "PLAYER_NAME", "ACTION_TYPE", "SHOT_TYPE", "SHOT_ZONE_BASIC", "SHOT_ZONE_AREA", "SHOT_MADE_FLAG", "LOC_X", "LOC_Y"); err != nil {
		return nil, err
	}

	shots := make([]xpts.Shot, 0, len(rs.RowSet))
	for _, row := range rs.RowSet {
		shots = append(shots, xpts.Shot{
			PlayerID:   rowInt(row, cols["PLAYER_ID"]),
			PlayerName: rowString(row, cols["PLAYER_NAME"]),
			PointValue: shotPointValue(rowString(row, cols["SHOT_TYPE"])),
			ActionType: rowString(row, cols["ACTION_TYPE"]),
			ZoneBasic:  rowString(row, cols["SHOT_ZONE_BASIC"]),
			ZoneArea:   rowString(row, cols["SHOT_ZONE_AREA"]),
			Made:       rowInt(row, cols["SHOT_MADE_FLAG"]) == 1,
			// The feed mirrors court x relative to the archive data.
			LocX: -rowInt(row, cols["LOC_X"]),
			LocY: rowInt(row, cols["LOC_Y"]),
		})
	}

	return shots, nil
}

// LeagueDashPlayerStats fetches per-player season aggregates; only the
// free-throw percentage is kept.
func (c *NBAStatsClient) LeagueDashPlayerStats(ctx context.Context, season string) ([]models.PlayerSeasonStat, error) {
	params := url.Values{}
	params.Set("LeagueID", "00")
	params.Set("Season", season)
	params.Set("SeasonType", "Regular Season")
	params.Set("PerMode", "PerGame")
	params.Set("MeasureType", "Base")

	var resp statsResponse
	if err := c.get(ctx, "leaguedashplayerstats", params, &resp); err != nil {
		return nil, err
	}

	rs, err := findResultSet(&resp, "LeagueDashPlayerStats")
	if err != nil {
		return nil, err
	}
	cols := rs.columns()
	if err := requireColumns(cols, "PLAYER_ID", "PLAYER_NAME", "FT_PCT"); err != nil {
		return nil, err
	}

	stats := make([]models.PlayerSeasonStat, 0, len(rs.RowSet))
	for _, row := range rs.RowSet {
		stats = append(stats, models.PlayerSeasonStat{
			PlayerID:   rowInt(row, cols["PLAYER_ID"]),
			Season:     season,
			PlayerName: rowString(row, cols["PLAYER_NAME"]),
			FTPct:      rowFloat(row, cols["FT_PCT"]),
		})
	}

	return stats, nil
}

// shotPointValue normalizes the SHOT_TYPE label ("3PT Field Goal") to
// its integer point value.
func shotPointValue(shotType string) int {
	if strings.HasPrefix(shotType, "3") {
		return 3
	}
	return 2
}

// normalizeMinutes strips the fractional-minute noise the box score
// endpoint emits ("34.000000:12" -> "34").
func normalizeMinutes(min string) string {
	if i := strings.Index(min, "."); i >= 0 {
		return min[:i]
	}
	return min
}

// Row accessors: stats.nba.com rows are heterogeneous JSON arrays, so
// every cell comes back as interface{}.

func rowString(row []interface{}, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	if s, ok := row[i].(string); ok {
		return s
	}
	return ""
}

func rowFloat(row []interface{}, i int) float64 {
	if i < 0 || i >= len(row) {
		return 0
	}
	if f, ok := row[i].(float64); ok {
		return f
	}
	return 0
}

func rowInt(row []interface{}, i int) int {
	return int(rowFloat(row, i))
}
