package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// NewRouter builds the HTTP router with both workflow variants mounted
func NewRouter(activities, taskRequests *Handler, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := router.Group("/api/v1")
	activities.RegisterRoutes(v1.Group("/activities"))
	taskRequests.RegisterRoutes(v1.Group("/task-requests"))

	logger.Info("Routes registered")
	return router
}
