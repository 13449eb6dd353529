package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpapi "agrimarket-backend/internal/api/http"
	"agrimarket-backend/internal/config"
	"agrimarket-backend/internal/logger"
	"agrimarket-backend/internal/repository/postgres"
	"agrimarket-backend/internal/service"
	"agrimarket-backend/internal/utils"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting Agrimarket Backend...", "log_level", cfg.Log.Level, "log_format", cfg.Log.Format)
	logger.Info("Server configuration", "address", cfg.GetServerAddress())
	logger.Info("Database configuration", "host", cfg.Database.Host, "port", cfg.Database.Port, "database", cfg.Database.Database, "user", cfg.Database.User)
	logger.Info("Analytics configuration", "top_n", cfg.Analytics.TopN, "active_rental_statuses", cfg.Analytics.ActiveRentalStatuses, "timezone", cfg.Analytics.Timezone)

	policy, err := cfg.Analytics.Policy()
	if err != nil {
		log.Fatalf("Invalid analytics configuration: %v", err)
	}
	quoteOpts, err := cfg.Analytics.QuoteOptions()
	if err != nil {
		log.Fatalf("Invalid analytics configuration: %v", err)
	}
	loc, err := cfg.Analytics.Location()
	if err != nil {
		log.Fatalf("Invalid analytics configuration: %v", err)
	}
	calculator, err := utils.NewQuoteCalculator(quoteOpts)
	if err != nil {
		log.Fatalf("Invalid analytics configuration: %v", err)
	}

	// Initialize Database
	db, err := postgres.Open(context.Background(), cfg.GetDatabaseConnectionString())
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Initialize Repositories
	store := postgres.NewStore(db)
	defer store.Close()

	// Initialize Services
	dashboardSvc := service.NewDashboardService(
		store.Transactions,
		store.Leases,
		store.Assets,
		service.DashboardOptions{
			Policy:        policy,
			ActivityLimit: cfg.Analytics.RecentActivityLimit,
			Location:      loc,
		},
	)
	quoteSvc := service.NewQuoteService(store.Assets, calculator, loc)

	// Set up HTTP server
	router := httpapi.NewRouter(httpapi.NewHandler(dashboardSvc, quoteSvc, time.Now))
	srv := &http.Server{
		Addr:         cfg.GetServerAddress(),
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeoutSeconds) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeoutSeconds) * time.Second,
	}

	go func() {
		logger.Info("HTTP server listening", "address", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server error", "error", err)
			log.Fatalf("Failed to serve: %v", err)
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	// Graceful shutdown
	logger.Info("Shutting down HTTP server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("HTTP server shutdown failed", "error", err)
	}
	logger.Info("HTTP server stopped. Goodbye!")
}
