package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/sashakarcz/ouija-board/internal/config"
	"github.com/sashakarcz/ouija-board/internal/history"
	"github.com/sashakarcz/ouija-board/internal/llm"
	"github.com/sashakarcz/ouija-board/internal/observability"
	"github.com/sashakarcz/ouija-board/internal/scheduler"
	"github.com/sashakarcz/ouija-board/internal/web"
)

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Warning: .env file not found: %v", err)
	}

	cfg := config.New()

	store, err := history.Open(cfg.HistoryFilePath)
	if err != nil {
		log.Fatalf("failed to open history store: %v", err)
	}

	client, err := llm.NewClient(cfg)
	if err != nil {
		log.Fatalf("failed to create llm client: %v", err)
	}

	var handler http.Handler = web.NewServer(store, client, cfg.RateLimit).Router()

	if cfg.EnableOTEL {
		shutdown, err := observability.Setup(context.Background(), cfg.OTELEndpoint)
		if err != nil {
			log.Fatalf("failed to set up telemetry: %v", err)
		}
		defer func() {
			if err := shutdown(context.Background()); err != nil {
				log.Printf("telemetry shutdown: %v", err)
			}
		}()
		handler = otelhttp.NewHandler(handler, "ouija-board")
	}

	if cfg.HistoryBackupSchedule != "" {
		backup := scheduler.NewBackup(store.Path())
		if err := backup.Start(cfg.HistoryBackupSchedule); err != nil {
			log.Fatalf("failed to start history backup: %v", err)
		}
		defer backup.Stop()
	}

	srv := &http.Server{
		Addr:        cfg.ServerAddr,
		Handler:     handler,
		ReadTimeout: 15 * time.Second,
		// The write timeout must outlast the backend call.
		WriteTimeout: cfg.BackendTimeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Starting server on %s", cfg.ServerAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}
	log.Println("Server exited")
}
