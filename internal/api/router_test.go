package api

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"

	"github.com/stitts-dev/dfs-lineups/internal/api/handlers"
	"github.com/stitts-dev/dfs-lineups/internal/lineup"
)

func TestNewRouter_Routes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	log := logrus.New()
	log.SetOutput(io.Discard)

	lineupHandler := handlers.NewLineupHandler(nil, lineup.DraftKingsNBA(), lineup.DefaultOptions(), log)
	router := NewRouter(lineupHandler, handlers.NewHealthHandler(nil, log), log)

	registered := make(map[string]bool)
	for _, route := range router.Routes() {
		registered[route.Method+" "+route.Path] = true
	}
	for _, want := range []string{
		"GET /health",
		"POST /api/v1/lineups/search",
		"GET /api/v1/slates",
		"POST /api/v1/slates/:slate",
		"GET /api/v1/slates/:slate/values",
	} {
		assert.True(t, registered[want], "route %s", want)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/unknown", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}
