package api

import (
	"github.com/gin-gonic/gin"

	"github.com/jstittsworth/nba-xpts/internal/api/handlers"
	"github.com/jstittsworth/nba-xpts/internal/api/middleware"
	"github.com/jstittsworth/nba-xpts/internal/services"
	"github.com/jstittsworth/nba-xpts/pkg/config"
)

// SetupRoutes configures all API routes on the given router group.
func SetupRoutes(group *gin.RouterGroup, cfg *config.Config, scoreboard *services.ScoreboardService, dataFetcher *services.DataFetcherService) {
	scoreboardHandler := handlers.NewScoreboardHandler(scoreboard)
	adminHandler := handlers.NewAdminHandler(dataFetcher)

	// Dashboard endpoints
	group.GET("/dates", scoreboardHandler.GetDates)
	group.GET("/scoreboard", scoreboardHandler.GetScoreboard)
	group.GET("/games/:id", scoreboardHandler.GetGameSummary)
	group.GET("/games/:id/xpts", scoreboardHandler.GetGameXPTS)
	group.GET("/teams", scoreboardHandler.GetTeams)

	// Admin endpoints
	admin := group.Group("/admin")
	admin.Use(middleware.AuthRequired(cfg.JWTSecret))
	{
		admin.POST("/season/sync", adminHandler.SyncSeason)
		admin.GET("/fetch-status", adminHandler.GetFetchStatus)
	}
}
