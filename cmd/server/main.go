package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Skufu/healthrisk/internal/config"
	"github.com/Skufu/healthrisk/internal/database"
	"github.com/Skufu/healthrisk/internal/logging"
	"github.com/Skufu/healthrisk/internal/model"
	"github.com/Skufu/healthrisk/internal/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	gin.SetMode(cfg.GinMode)

	logger, err := logging.New(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	store, err := loadModels(cfg)
	if err != nil {
		logger.Fatal("model load failed", zap.Error(err))
	}
	logger.Info("models loaded", zap.String("dir", cfg.ModelDir))

	ctx := context.Background()
	var db database.HealthChecker
	if cfg.EnableDB {
		pool, err := database.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Fatal("database connection failed", zap.Error(err))
		}
		defer pool.Close()
		db = pool
	}

	staticRoot := server.DetectStaticRoot(cfg.StaticDir)
	if staticRoot != "" {
		logger.Info("serving frontend", zap.String("root", staticRoot))
	}

	router := server.SetupRouter(server.NewHandler(store, logger), db, staticRoot)
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	logger.Info("server listening", zap.String("addr", srv.Addr))
	waitForShutdown(srv, logger)
}

func loadModels(cfg *config.Config) (*model.Store, error) {
	paths, err := cfg.ArtifactPaths()
	if err != nil {
		return nil, err
	}
	return model.Load(paths)
}

func waitForShutdown(srv *http.Server, logger *zap.Logger) {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
}
