// main.go
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gewnthar/flighttracker/airports"
	"github.com/gewnthar/flighttracker/aviation"
	"github.com/gewnthar/flighttracker/cache"
	"github.com/gewnthar/flighttracker/config"
	"github.com/gewnthar/flighttracker/database"
	"github.com/gewnthar/flighttracker/handlers"
	"github.com/gewnthar/flighttracker/services"
)

type closableStore interface {
	services.FlightStore
	Close() error
}

func main() {
	log.Println("Starting Flight Tracker...")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.LoadConfig(os.Getenv("FLIGHTTRACKER_CONFIG"))
	if err != nil {
		log.Fatalf("Error loading configuration: %v", err)
	}
	log.Printf("Configuration loaded. Server port: %s, store: %s, tracking limit: %d",
		cfg.Server.Port, cfg.Database.Driver, cfg.Tracking.MaxTracked)

	table, err := airports.Load(cfg.Airports.ExtraCSV)
	if err != nil {
		log.Fatalf("Error loading airports: %v", err)
	}

	var fetcher services.FlightFetcher = aviation.NewClient(
		cfg.Aviation.AccessKey,
		aviation.NewNormalizer(table),
		aviation.WithBaseURL(cfg.Aviation.BaseURL),
		aviation.WithTimeout(cfg.Aviation.Timeout),
	)

	if cfg.Cache.RedisAddr != "" {
		redisCache, err := cache.NewRedisCache(ctx, cfg.Cache)
		if err != nil {
			log.Printf("WARN Cache: %v; continuing without cache", err)
		} else {
			defer redisCache.Close()
			fetcher = cache.NewCachedFetcher(redisCache, fetcher)
		}
	}

	store, err := openStore(ctx, cfg.Database)
	if err != nil {
		log.Fatalf("Error initializing database: %v", err)
	}
	defer store.Close()

	svc := services.NewTrackingService(store, fetcher, cfg.Tracking.MaxTracked)
	go svc.RunPoller(ctx, cfg.Tracking.PollInterval)

	server := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           handlers.NewRouter(svc, table),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("Server starting on http://localhost%s", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Error starting server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("ERROR Server shutdown: %v", err)
	}
}

func openStore(ctx context.Context, cfg config.DatabaseConfig) (closableStore, error) {
	if cfg.Driver == config.DriverMemory {
		log.Println("Database: Using in-memory store; tracked flights are lost on restart.")
		return database.NewMemoryStore(), nil
	}

	store, err := database.Open(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if cfg.AutoMigrate {
		if err := store.EnsureSchema(ctx); err != nil {
			store.Close()
			return nil, err
		}
	}
	return store, nil
}
