package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/xiaoyuanzhu-com/ai-session-hub/api"
	"github.com/xiaoyuanzhu-com/ai-session-hub/config"
	"github.com/xiaoyuanzhu-com/ai-session-hub/db"
	"github.com/xiaoyuanzhu-com/ai-session-hub/log"
	"github.com/xiaoyuanzhu-com/ai-session-hub/resolve"
	"github.com/xiaoyuanzhu-com/ai-session-hub/workers/sessions"
	"github.com/xiaoyuanzhu-com/ai-session-hub/workers/transcripts"
)

func main() {
	cfg := config.Get()

	// Initialize database
	_ = db.GetDB()

	// Resolution rule tables: built-in defaults, optionally overridden by a
	// YAML file.
	rules := resolve.DefaultRules()
	if cfg.RulesPath != "" {
		loaded, err := resolve.LoadRules(cfg.RulesPath)
		if err != nil {
			log.Fatal().Err(err).Str("path", cfg.RulesPath).Msg("failed to load resolution rules")
		}
		rules = loaded
		log.Info().Str("path", cfg.RulesPath).Msg("resolution rules loaded")
	}
	resolver := resolve.New(rules)

	// Session worker: scheduled passes plus the on-demand API trigger.
	sessionWorker := sessions.NewWorker(sessions.Config{
		Interval:     cfg.ProcessInterval,
		StartupDelay: cfg.StartupDelay,
		BatchSize:    cfg.ProcessBatch,
	}, sessions.NewDBStore(), resolver)
	sessionWorker.Start()

	// Optional transcript-file ingestion.
	var transcriptWorker *transcripts.Worker
	if cfg.TranscriptsDir != "" {
		transcriptWorker = transcripts.NewWorker(cfg.TranscriptsDir)
		if err := transcriptWorker.Start(); err != nil {
			log.Fatal().Err(err).Str("dir", cfg.TranscriptsDir).Msg("failed to start transcript watcher")
		}
	}

	// Gin uses our zerolog-based request logger instead of its own.
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(log.GinLogger())

	// Gzip compression (skip the WebSocket ingest endpoint)
	r.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{
		"/api/ingest/terminal",
	})))

	r.SetTrustedProxies(nil)

	api.SetupRoutes(r, api.NewHandlers(sessionWorker))

	// Create HTTP server
	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	srv := &http.Server{
		Addr:     addr,
		Handler:  r,
		ErrorLog: log.StdErrorLogger(),
	}

	go func() {
		log.Info().
			Str("addr", addr).
			Str("env", cfg.Env).
			Msg("server starting")

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")

	// Stop workers first (they hold db connections)
	if transcriptWorker != nil {
		transcriptWorker.Stop()
	}
	sessionWorker.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("server shutdown error")
	}

	if err := db.Close(); err != nil {
		log.Error().Err(err).Msg("database close error")
	}

	log.Info().Msg("server stopped")
}
