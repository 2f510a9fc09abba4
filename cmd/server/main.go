package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hedgex/hedgex/backend/internal/api"
	"github.com/hedgex/hedgex/backend/internal/auth"
	"github.com/hedgex/hedgex/backend/internal/config"
	"github.com/hedgex/hedgex/backend/internal/database"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize database
	if err := database.Initialize(cfg.DBPath); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	// Populate demo fixtures on first run
	if cfg.SeedOnStartup {
		if err := database.Seed(); err != nil {
			log.Fatalf("Failed to seed sample data: %v", err)
		}
	}

	// Token manager with the process-wide signing secret
	tokens, err := auth.NewManager(cfg.JWTSecret)
	if err != nil {
		log.Fatalf("Failed to initialize auth: %v", err)
	}

	// Setup router
	router := api.SetupRouter(cfg, tokens)

	// Create HTTP server for graceful shutdown
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Starting server on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	// Give outstanding requests a deadline to complete
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}
