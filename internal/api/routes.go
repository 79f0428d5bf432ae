package api

import (
	"github.com/JustJay7/court-case-lookup/internal/config"
	"github.com/JustJay7/court-case-lookup/internal/lookup"
	"github.com/JustJay7/court-case-lookup/pkg/logger"
	"github.com/gin-gonic/gin"
)

// SetupRoutes configures all application routes
func SetupRoutes(router *gin.Engine, svc *lookup.Service, logger *logger.Logger, cfg *config.Config) {
	h := NewHandlers(svc, logger, cfg)

	api := router.Group("/api")
	{
		api.GET("/health", h.HealthCheck)
		api.GET("/case-types", h.CaseTypes)

		// Searches
		api.POST("/search", h.SearchCase)
		api.GET("/queries", h.ListQueries)
		api.GET("/queries/:id", h.GetQuery)
		api.GET("/queries/:id/downloads", h.ListDownloads)
		api.GET("/queries/:id/document", h.DownloadDocument)
		api.GET("/recent", h.RecentSearches)

		// Cache stats
		api.GET("/cache/stats", h.CacheStats)
	}
}
