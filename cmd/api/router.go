package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"artfolio-backend/internal/shared/middleware"
	"artfolio-backend/pkg/container"
)

func SetupRouter(c *container.Container) *gin.Engine {
	router := gin.New()

	router.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
		middleware.CORS(),
	)

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", healthCheckHandler(c))

		setupContentRoutes(v1, c)
	}

	return router
}

func setupContentRoutes(v1 *gin.RouterGroup, c *container.Container) {
	state := v1.Group("/content-state")
	state.Use(middleware.AuthMiddleware(c.JWTManager))
	{
		state.GET("", c.ContentHandler.GetState)
		state.PATCH("/survey", c.ContentHandler.ReplaceSurvey)
		state.POST("/compile", c.ContentHandler.Compile)
		state.POST("/update-content-batch", c.ContentHandler.UpdateContentBatch)
		state.POST("/publish", c.ContentHandler.Publish)
		state.POST("/start-over", c.ContentHandler.StartOver)
		state.GET("/compiled", c.ContentHandler.GetCompiled)
		state.GET("/preview/:page", c.ContentHandler.Preview)
	}
}

func healthCheckHandler(appCtx *container.Container) gin.HandlerFunc {
	return func(c *gin.Context) {
		health := gin.H{
			"status":    "ok",
			"timestamp": time.Now().Format(time.RFC3339),
			"version":   appCtx.Config.App.Version,
		}

		dbStatus := "ok"
		if err := appCtx.DB.HealthCheck(c.Request.Context()); err != nil {
			dbStatus = fmt.Sprintf("error: %v", err)
			health["status"] = "degraded"
		}

		redisStatus := "ok"
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := appCtx.Cache.Ping(ctx); err != nil {
			// the cache is optional; a down redis does not fail the check
			redisStatus = fmt.Sprintf("error: %v", err)
		}

		health["services"] = gin.H{
			"database": dbStatus,
			"redis":    redisStatus,
		}

		statusCode := http.StatusOK
		if dbStatus != "ok" {
			statusCode = http.StatusServiceUnavailable
		}

		c.JSON(statusCode, health)
	}
}
