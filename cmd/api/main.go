package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"chronicle/history/internal/app"
	"chronicle/history/internal/config"
	"chronicle/history/internal/gitrepo"
	"chronicle/history/internal/presence"
	"chronicle/history/internal/store"
)

func main() {
	cfg := config.Load()
	ctx := context.Background()

	if err := os.MkdirAll(cfg.ReposDir, 0o755); err != nil {
		log.Fatalf("failed to create repos dir: %v", err)
	}
	gitService := gitrepo.New(cfg.ReposDir)

	var rangeStore *store.PostgresStore
	if strings.TrimSpace(cfg.DatabaseURL) != "" {
		db, err := store.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("database connection failed: %v", err)
		}
		defer db.Close()

		applied, err := store.ApplyMigrations(ctx, db, cfg.MigrationsDir)
		if err != nil {
			log.Fatalf("migrations failed: %v", err)
		}
		if len(applied) > 0 {
			log.Printf("Applied migrations: %s", strings.Join(applied, ", "))
		}
		rangeStore = store.NewPostgresStore(db)
	} else {
		log.Printf("DATABASE_URL not set, seeding attribution from git blame only")
	}

	var roster *presence.RedisRoster
	if strings.TrimSpace(cfg.RedisURL) != "" {
		redisRoster, err := presence.NewRedisRoster(cfg.RedisURL, cfg.PresenceTTL)
		if err != nil {
			log.Fatalf("redis connection failed: %v", err)
		}
		defer redisRoster.Close()
		roster = redisRoster
	} else {
		log.Printf("REDIS_URL not set, remote changes will be attributed to an unknown collaborator")
	}

	service := app.New(cfg, gitService, rangeStore, roster)

	httpServer := app.NewHTTPServer(service, cfg.CORSOrigin)
	server := &http.Server{
		Addr:              cfg.Addr,
		Handler:           httpServer.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Printf("Chronicle history listening on %s", cfg.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server failed: %v", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown error: %v", err)
	}
}
