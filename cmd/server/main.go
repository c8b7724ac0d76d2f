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
	"github.com/sirupsen/logrus"

	"github.com/stitts-dev/dfs-lineups/internal/api"
	"github.com/stitts-dev/dfs-lineups/internal/api/handlers"
	"github.com/stitts-dev/dfs-lineups/internal/services"
	"github.com/stitts-dev/dfs-lineups/pkg/config"
	"github.com/stitts-dev/dfs-lineups/pkg/database"
	"github.com/stitts-dev/dfs-lineups/pkg/logger"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}

	structuredLogger := logger.InitLogger(cfg.LogLevel, cfg.IsDevelopment())
	logger.WithService("lineup-service").WithFields(logrus.Fields{
		"environment": cfg.Env,
		"port":        cfg.Port,
	}).Info("Starting Lineup Service")

	rules, err := cfg.Rules()
	if err != nil {
		logger.WithService("lineup-service").Fatalf("Invalid contest rules: %v", err)
	}
	opts, err := cfg.SearchOptions()
	if err != nil {
		logger.WithService("lineup-service").Fatalf("Invalid search options: %v", err)
	}

	if cfg.IsDevelopment() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewConnection(cfg.DatabaseURL, cfg.IsDevelopment())
	if err != nil {
		logger.WithService("lineup-service").Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	slateService := services.NewSlateService(db, structuredLogger)
	lineupHandler := handlers.NewLineupHandler(slateService, rules, opts, structuredLogger)
	healthHandler := handlers.NewHealthHandler(db, structuredLogger)
	router := api.NewRouter(lineupHandler, healthHandler, structuredLogger)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Port),
		Handler: router,
	}

	go func() {
		logger.WithService("lineup-service").WithField("port", cfg.Port).Info("Lineup service started")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.WithService("lineup-service").Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.WithService("lineup-service").Info("Shutting down lineup service...")

	// In-flight searches get the configured search timeout to finish.
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout(cfg.SearchTimeout))
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.WithService("lineup-service").Fatalf("Lineup service forced to shutdown: %v", err)
	}

	logger.WithService("lineup-service").Info("Lineup service exited")
}

func shutdownTimeout(searchTimeout time.Duration) time.Duration {
	if searchTimeout < 5*time.Second {
		return 5 * time.Second
	}
	return searchTimeout
}
