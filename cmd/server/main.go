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

	"github.com/ayush/study-search-analyzer/internal/analyze"
	"github.com/ayush/study-search-analyzer/internal/config"
	"github.com/ayush/study-search-analyzer/internal/server"
)

func main() {
	log.SetOutput(os.Stdout)

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config: %v", err)
	}
	timeout, _ := cfg.Timeout()

	// ── Provider client ──────────────────────────────────────
	provider, err := analyze.NewProviderClient(cfg.ProviderAPIKey, cfg.ProviderBaseURL, cfg.ProviderModel, timeout)
	if err != nil {
		log.Fatalf("provider client: %v", err)
	}

	// ── Router ───────────────────────────────────────────────
	r := server.NewRouter(cfg.CORSOrigin, analyze.NewHandler(provider))

	// ── Server ───────────────────────────────────────────────
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      timeout + 15*time.Second,
	}

	go func() {
		log.Printf("Analyzer listening on :%s (model %s)", cfg.Port, cfg.ProviderModel)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down...")
	shutCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	srv.Shutdown(shutCtx)
}
