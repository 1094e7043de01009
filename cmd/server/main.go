package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"codeberg.org/collabboard/server/internal/config"
	"codeberg.org/collabboard/server/internal/logger"
)

func main() {
	// load configuration from environment
	cfg, err := config.LoadEnvironmentVariables()
	if err != nil {
		logger.FatalErr(err, "failed to load configuration")
	}

	// .env may have changed the environment after the logger was first built
	logger.SetDefault(logger.New(cfg.Environment, cfg.LogLevel, nil))

	logger.Info("starting collabboard server", "environment", cfg.Environment)

	// create server with all dependencies
	srv, err := NewServer(cfg)
	if err != nil {
		logger.FatalErr(err, "failed to create server")
	}

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      srv.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// start websocket hub
	go srv.hub.Run()

	// start stroke writer (persists behind the fan-out)
	srv.writer.Start()

	// start server in goroutine
	go func() {
		logger.Info("server listening", "port", cfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.FatalErr(err, "server failed to start")
		}
	}()

	// wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")

	// notify websocket clients and close connections first
	srv.hub.Shutdown()

	// let in-flight history replays finish before the store goes away
	srv.rooms.Wait()

	// stop writer (applies queued strokes before stopping)
	srv.writer.Stop()

	if dropped, failed := srv.writer.Stats(); dropped > 0 || failed > 0 {
		logger.Warn("stroke writes lost during this run", "dropped", dropped, "failed", failed)
	}

	// graceful shutdown with 10 second timeout
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
	}

	// close stroke log connection
	srv.log.Close() //nolint:errcheck,gosec // best-effort cleanup on shutdown

	logger.Info("server stopped")
}
