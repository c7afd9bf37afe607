package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/haemilia/Ybigta-HDMedi/internal/api"
	"github.com/haemilia/Ybigta-HDMedi/internal/config"
	"github.com/haemilia/Ybigta-HDMedi/internal/keywords"
	"github.com/haemilia/Ybigta-HDMedi/internal/pipeline"
	"github.com/haemilia/Ybigta-HDMedi/internal/sink"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	// Load the keyword configuration. The built-in defaults cover the
	// standard importance and topic vocabulary when no file is given.
	var kw keywords.Config
	if cfg.KeywordsPath != "" {
		loaded, err := keywords.Load(cfg.KeywordsPath)
		if err != nil {
			log.Error("failed to load keywords", "path", cfg.KeywordsPath, "error", err)
			os.Exit(1)
		}
		kw = loaded
	} else {
		kw = keywords.Default()
	}
	if err := kw.Validate(); err != nil {
		log.Error("invalid keyword configuration", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Downstream delivery is optional.
	var sc *sink.Client
	if cfg.SinkURL != "" {
		sc = sink.NewClient(cfg.SinkURL, cfg.SinkAPIKey)
	}

	// Initialize pipeline.
	orch := pipeline.NewOrchestrator(cfg, kw, sc, log)
	orch.Start(ctx)

	// Initialize HTTP server.
	srv := api.NewServer(orch, kw, log, cfg)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown.
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")

		orch.Stop()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		httpServer.Shutdown(shutdownCtx)

		if sc != nil {
			sc.Close()
		}
	}()

	log.Info("starting hdmedi", "port", cfg.Port, "topics", len(kw.Topics))
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}
