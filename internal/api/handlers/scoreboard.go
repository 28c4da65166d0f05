package handlers

import (
	"errors"
	"regexp"

	"github.com/gin-gonic/gin"

	"github.com/jstittsworth/nba-xpts/internal/models"
	"github.com/jstittsworth/nba-xpts/internal/services"
	"github.com/jstittsworth/nba-xpts/pkg/utils"
)

var dateRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

type ScoreboardHandler struct {
	scoreboard *services.ScoreboardService
}

func NewScoreboardHandler(scoreboard *services.ScoreboardService) *ScoreboardHandler {
	return &ScoreboardHandler{
		scoreboard: scoreboard,
	}
}

// GetDates returns every date with games, newest first.
func (h *ScoreboardHandler) GetDates(c *gin.Context) {
	dates, err := h.scoreboard.GameDates(c.Request.Context())
	if err != nil {
		utils.SendInternalError(c, "Failed to load game dates")
		return
	}
	if len(dates) == 0 {
		utils.SendNoData(c, "No game dates available yet")
		return
	}

	utils.SendSuccess(c, dates)
}

// GetScoreboard returns the xPTS scoreboard for one date.
func (h *ScoreboardHandler) GetScoreboard(c *gin.Context) {
	date := c.Query("date")
	if !dateRe.MatchString(date) {
		utils.SendValidationError(c, "Invalid date", "expected YYYY-MM-DD")
		return
	}

	board, err := h.scoreboard.GamesForDate(c.Request.Context(), date)
	if err != nil {
		switch {
		case errors.Is(err, utils.ErrNotFound):
			utils.SendNoData(c, "No games on "+date)
		case errors.Is(err, utils.ErrUpstreamFetch):
			utils.SendUpstreamFailure(c, "No data available for "+date, err.Error())
		default:
			utils.SendInternalError(c, "Failed to compute scoreboard")
		}
		return
	}

	utils.SendSuccess(c, board)
}

// GetGameXPTS returns the per-player xPTS map for one game.
func (h *ScoreboardHandler) GetGameXPTS(c *gin.Context) {
	gameID := c.Param("id")
	if gameID == "" {
		utils.SendValidationError(c, "Game ID required", "")
		return
	}

	result, err := h.scoreboard.ComputeGameXPTS(c.Request.Context(), gameID)
	if err != nil {
		switch {
		case errors.Is(err, utils.ErrMissingPlayerStat):
			utils.SendMissingPlayerStat(c, "Season stats missing for a player in this game", err.Error())
		case errors.Is(err, utils.ErrUpstreamFetch):
			utils.SendUpstreamFailure(c, "No data available for this game", err.Error())
		default:
			utils.SendInternalError(c, "Failed to compute xPTS")
		}
		return
	}

	utils.SendSuccess(c, result)
}

// GetGameSummary returns the full scoreboard card for one game.
func (h *ScoreboardHandler) GetGameSummary(c *gin.Context) {
	gameID := c.Param("id")
	if gameID == "" {
		utils.SendValidationError(c, "Game ID required", "")
		return
	}

	summary, err := h.scoreboard.GameSummary(c.Request.Context(), gameID)
	if err != nil {
		switch {
		case errors.Is(err, utils.ErrMissingPlayerStat):
			utils.SendMissingPlayerStat(c, "Season stats missing for a player in this game", err.Error())
		case errors.Is(err, utils.ErrUpstreamFetch):
			utils.SendUpstreamFailure(c, "No data available for this game", err.Error())
		default:
			utils.SendInternalError(c, "Failed to compute game summary")
		}
		return
	}

	utils.SendSuccess(c, summary)
}

// GetTeams returns the team abbreviation to logo URL map.
func (h *ScoreboardHandler) GetTeams(c *gin.Context) {
	utils.SendSuccess(c, models.TeamLogos)
}
