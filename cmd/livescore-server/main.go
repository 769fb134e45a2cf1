package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Tejas0041/Dangal-4.0-sub001/internal/cache"
	"github.com/Tejas0041/Dangal-4.0-sub001/internal/config"
	"github.com/Tejas0041/Dangal-4.0-sub001/internal/consumer"
	"github.com/Tejas0041/Dangal-4.0-sub001/internal/handlers"
	"github.com/Tejas0041/Dangal-4.0-sub001/internal/hub"
	"github.com/Tejas0041/Dangal-4.0-sub001/internal/middleware"
	"github.com/Tejas0041/Dangal-4.0-sub001/internal/processor"
	"github.com/Tejas0041/Dangal-4.0-sub001/internal/publisher"
	"github.com/Tejas0041/Dangal-4.0-sub001/internal/ratelimit"
	"github.com/Tejas0041/Dangal-4.0-sub001/internal/registry"
	"github.com/Tejas0041/Dangal-4.0-sub001/internal/store"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/redis/go-redis/v9"
)

func main() {
	fmt.Println("🚀 Starting Dangal Live Score Server...")

	cfg := config.LoadConfig()

	// Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Connect to Postgres
	matchStore, err := store.NewClient(cfg.Database.DSN)
	if err != nil {
		fmt.Printf("❌ Failed to connect to database: %v\n", err)
		os.Exit(1)
	}
	defer matchStore.Close()
	fmt.Println("✓ Connected to Postgres")

	// Connect to Redis
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.URL,
		Password: cfg.Redis.Password,
		DB:       0,
	})

	if err := redisClient.Ping(ctx).Err(); err != nil {
		fmt.Printf("❌ Failed to connect to Redis: %v\n", err)
		os.Exit(1)
	}
	defer redisClient.Close()
	fmt.Println("✓ Connected to Redis")

	// Create hub and stream consumer
	h := hub.NewHub()
	go h.Run(ctx)

	streamConsumer := consumer.NewStreamConsumer(redisClient, h, cfg.Stream)
	go streamConsumer.Start(ctx)

	// Wire up the score pipeline
	matchCache := cache.NewWriter(redisClient)
	streamPublisher := publisher.NewStreamPublisher(redisClient, cfg.Stream.LiveScoresStream)
	gameRegistry := registry.New()
	proc := processor.New(matchStore, gameRegistry, streamPublisher, matchCache)
	limiter := ratelimit.NewTokenBucket(redisClient, cfg.Admin.ScoreUpdatesPerMinute)

	handler := handlers.NewHandler(matchStore, proc, matchCache, limiter)
	wsHandler := handlers.NewWSHandler(h, ctx)

	if cfg.Admin.Token == "" {
		fmt.Println("⚠️  ADMIN_TOKEN not set, score endpoints are unprotected")
	}

	// Setup router
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(30 * time.Second))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.Server.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", handler.HealthCheck)
	r.Get("/metrics", wsHandler.HandleMetrics)
	r.Get("/ws", wsHandler.HandleWebSocket)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/schedule", handler.GetSchedule)
		r.Get("/schedule/{matchID}", handler.GetMatch)

		r.Group(func(r chi.Router) {
			r.Use(middleware.AdminOnly(cfg.Admin.Token))
			r.Patch("/schedule/{matchID}/score", handler.UpdateScore)
			r.Patch("/schedule/{matchID}/status", handler.UpdateStatus)
		})
	})

	// Start HTTP server
	server := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: r,
	}

	go func() {
		fmt.Printf("✓ Server listening on %s\n", cfg.Server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			fmt.Printf("❌ Server error: %v\n", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	fmt.Println("\n🛑 Shutting down...")

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		fmt.Printf("⚠️  Server shutdown error: %v\n", err)
	}

	fmt.Println("✓ Shutdown complete")
}
