package api

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/stitts-dev/dfs-lineups/internal/api/handlers"
	"github.com/stitts-dev/dfs-lineups/internal/api/middleware"
)

// NewRouter builds the gin engine with every route registered.
func NewRouter(lineupHandler *handlers.LineupHandler, healthHandler *handlers.HealthHandler, logger *logrus.Logger) *gin.Engine {
	router := gin.New()
	router.Use(middleware.RequestLogger(logger), gin.Recovery())

	router.GET("/health", healthHandler.GetHealth)

	apiV1 := router.Group("/api/v1")
	SetupRoutes(apiV1, lineupHandler)

	return router
}

// SetupRoutes configures the lineup and slate routes on the given group
func SetupRoutes(group *gin.RouterGroup, lineupHandler *handlers.LineupHandler) {
	group.POST("/lineups/search", lineupHandler.SearchLineups)

	group.GET("/slates", lineupHandler.ListSlates)
	group.POST("/slates/:slate", lineupHandler.ImportSlate)
	group.GET("/slates/:slate/values", lineupHandler.GetSlateValues)
}
