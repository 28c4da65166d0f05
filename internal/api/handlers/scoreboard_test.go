package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestGetScoreboardRejectsBadDate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewScoreboardHandler(nil)
	router := gin.New()
	router.GET("/scoreboard", handler.GetScoreboard)

	for _, date := range []string{"", "11/01/2024", "2024-1-1", "not-a-date"} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/scoreboard?date="+date, nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code, "date %q", date)
	}
}

func TestGetTeamsReturnsLogoMap(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewScoreboardHandler(nil)
	router := gin.New()
	router.GET("/teams", handler.GetTeams)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/teams", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "BOS")
	assert.Contains(t, w.Body.String(), "loodibee")
}
