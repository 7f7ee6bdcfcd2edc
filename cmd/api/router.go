package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	blogHandler "blog-api/internal/domains/blog/handler"
	"blog-api/internal/shared/middleware"
	"blog-api/pkg/container"
)

func SetupRouter(c *container.Container) *gin.Engine {
	router := gin.New()

	// Global middlewares
	router.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
		middleware.CORS(c.Config.App.CORSOrigins),
		c.Metrics.Middleware(),
	)

	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(c.Registry, promhttp.HandlerOpts{})))

	v1 := router.Group(c.Config.App.BaseURL)
	{
		v1.GET("/health", healthCheckHandler(c))

		blogHandler.Register(v1, blogHandler.Operations(c.UserHandler, c.ArticleHandler))
	}

	return router
}

// ========================================
// HEALTH CHECK
// ========================================

func healthCheckHandler(appCtx *container.Container) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		status := http.StatusOK
		services := gin.H{}

		if err := appCtx.DB.Ping(ctx); err != nil {
			services["database"] = gin.H{"status": "down", "error": err.Error()}
			status = http.StatusServiceUnavailable
		} else {
			services["database"] = gin.H{"status": "ok"}
		}

		// cache lỗi chỉ làm degraded, API vẫn chạy được
		cacheStatus := "disabled"
		if appCtx.Redis != nil {
			cacheStatus = "ok"
			if err := appCtx.Redis.HealthCheck(ctx); err != nil {
				cacheStatus = "degraded"
			}
		}
		services["cache"] = gin.H{"status": cacheStatus}

		overall := "ok"
		if status != http.StatusOK {
			overall = "down"
		}

		c.JSON(status, gin.H{
			"status":    overall,
			"timestamp": time.Now().Format(time.RFC3339),
			"version":   appCtx.Config.App.Version,
			"services":  services,
		})
	}
}
