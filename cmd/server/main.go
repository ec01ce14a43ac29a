package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jharper/crmsync/internal/api"
	"github.com/jharper/crmsync/internal/config"
	"github.com/jharper/crmsync/internal/db"
	"github.com/jharper/crmsync/internal/gong"
	"github.com/jharper/crmsync/internal/ingestion"
	"github.com/jharper/crmsync/internal/middleware"
	"github.com/jharper/crmsync/internal/repository"

	"github.com/rs/cors"
)

func main() {
	// Create context
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Load configuration
	cfg, err := config.Load(os.Getenv("CRM_CONFIG"))
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Setup database connection
	conn, err := db.NewConnection(ctx, cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer conn.Close()

	// Run migrations
	if err := db.RunMigrations(ctx, conn.Pool); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Create repositories
	userRepo := repository.NewUserRepository(conn.Pool)
	companyRepo := repository.NewCompanyRepository(conn.Pool)
	contactRepo := repository.NewContactRepository(conn.Pool)
	dealRepo := repository.NewDealRepository(conn.Pool)
	leadRepo := repository.NewLeadRepository(conn.Pool)

	// Create the outbound sync service
	gongClient := gong.NewClient(cfg.Gong.APIURL, cfg.Gong.AccessKey, cfg.Gong.AccessKeySecret)
	gongService := gong.NewService(gongClient, cfg.Server.BaseURL,
		userRepo, companyRepo, contactRepo, dealRepo, leadRepo)

	// Create the bulk import service
	importService := ingestion.NewService(contactRepo, leadRepo, companyRepo)

	// Setup CORS
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.Server.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
	})

	mux := http.NewServeMux()
	mount := func(pattern string, h http.Handler) {
		wrapped := corsHandler.Handler(middleware.LoggingMiddleware(
			api.RequireToken(cfg.Server.AuthToken, h)))
		mux.Handle(pattern, wrapped)
		mux.Handle(pattern+"/", wrapped)
	}

	mount("/api/users", api.NewUsersHandler("/api/users", userRepo))
	mount("/api/companies", api.NewCompaniesHandler("/api/companies", companyRepo))
	mount("/api/contacts", api.NewContactsHandler("/api/contacts", contactRepo))
	mount("/api/deals", api.NewDealsHandler("/api/deals", dealRepo))
	mount("/api/leads", api.NewLeadsHandler("/api/leads", leadRepo))
	mount("/api/sync", gong.NewHTTPHandler(gongService))
	mount("/api/imports", ingestion.NewHTTPHandler(importService))

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Starting CRM server on %s", cfg.Server.Addr)

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}
