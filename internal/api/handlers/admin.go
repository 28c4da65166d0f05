package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/jstittsworth/nba-xpts/internal/services"
	"github.com/jstittsworth/nba-xpts/pkg/utils"
)

type AdminHandler struct {
	dataFetcher *services.DataFetcherService
}

func NewAdminHandler(dataFetcher *services.DataFetcherService) *AdminHandler {
	return &AdminHandler{
		dataFetcher: dataFetcher,
	}
}

// SyncSeason triggers a background refresh of the upstream snapshots.
// Pass reload_archive=true to re-download the season shot archive.
func (h *AdminHandler) SyncSeason(c *gin.Context) {
	reloadArchive := c.Query("reload_archive") == "true"

	h.dataFetcher.FetchOnDemand(reloadArchive)

	utils.SendSuccess(c, gin.H{
		"message":        "Sync started",
		"reload_archive": reloadArchive,
	})
}

// GetFetchStatus returns scheduler state and recent sync history.
func (h *AdminHandler) GetFetchStatus(c *gin.Context) {
	utils.SendSuccess(c, h.dataFetcher.GetFetchStatus())
}
