// Package server wires the prediction API onto a gin engine.
package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/Skufu/healthrisk/internal/database"
)

const maxBodyBytes = 1 << 20

// SetupRouter builds the engine. db may be nil when no database is configured; staticRoot
// may be empty when no frontend is bundled.
func SetupRouter(h *Handler, db database.HealthChecker, staticRoot string) *gin.Engine {
	useJSONFieldNames()

	router := gin.New()
	router.Use(
		requestLogger(h.logger),
		recovery(h.logger),
		limitBodySize(maxBodyBytes),
		cors.New(cors.Config{
			AllowAllOrigins: true,
			AllowMethods:    []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
			AllowHeaders:    []string{"*"},
			MaxAge:          12 * time.Hour,
		}),
	)

	if staticRoot != "" {
		router.Static("/app", staticRoot)
	}

	router.GET("/", h.Home)
	router.POST("/predict", h.Predict)

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	router.GET("/readyz", func(c *gin.Context) {
		if db == nil {
			c.JSON(http.StatusOK, gin.H{"status": "ok", "models": "loaded", "db": "disabled"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := db.Ping(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "degraded",
				"models": "loaded",
				"db":     fmt.Sprintf("unhealthy: %v", err),
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{"status": "ok", "models": "loaded", "db": "ok"})
	})

	return router
}

// DetectStaticRoot looks for a bundled frontend (an index.html) in dir, or near the
// working directory when dir is empty. It returns "" when nothing is found.
func DetectStaticRoot(dir string) string {
	if dir != "" {
		if fileExists(filepath.Join(dir, "index.html")) {
			return dir
		}
		return ""
	}

	startDir, err := os.Getwd()
	if err != nil {
		return ""
	}

	candidates := []string{
		filepath.Join(startDir, "web"),
		filepath.Join(startDir, "frontend"),
		filepath.Join(filepath.Dir(startDir), "frontend"),
	}

	for _, dir := range candidates {
		if fileExists(filepath.Join(dir, "index.html")) {
			return dir
		}
	}

	return ""
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}
