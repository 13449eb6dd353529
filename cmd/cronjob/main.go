package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"agrimarket-backend/internal/config"
	"agrimarket-backend/internal/jobs"
	"agrimarket-backend/internal/logger"
	"agrimarket-backend/internal/repository/postgres"
	"agrimarket-backend/internal/scheduler"
	"agrimarket-backend/internal/service"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	runOnce := flag.String("run-once", "", "Run a specific job once and exit (e.g., 'earnings-digest', 'all-weekly')")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting Agrimarket Cronjob Runner...", "log_level", cfg.Log.Level)

	policy, err := cfg.Analytics.Policy()
	if err != nil {
		log.Fatalf("Invalid analytics configuration: %v", err)
	}
	loc, err := cfg.Analytics.Location()
	if err != nil {
		log.Fatalf("Invalid analytics configuration: %v", err)
	}

	// Initialize Database
	logger.Info("Connecting to database...", "host", cfg.Database.Host, "port", cfg.Database.Port)
	db, err := postgres.Open(context.Background(), cfg.GetDatabaseConnectionString())
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Initialize Repositories
	store := postgres.NewStore(db)
	defer store.Close()

	// Initialize Services
	if cfg.Email.SendGridAPIKey == "" {
		logger.Warn("SENDGRID_API_KEY is not set, digests will be rejected by SendGrid")
	}
	emailService := service.NewEmailService(cfg.Email.SendGridAPIKey, cfg.Email.From, cfg.Email.FromName)

	dashboardService := service.NewDashboardService(
		store.Transactions,
		store.Leases,
		store.Assets,
		service.DashboardOptions{
			Policy:        policy,
			ActivityLimit: cfg.Analytics.RecentActivityLimit,
			Location:      loc,
		},
	)

	jobServices := &jobs.Services{
		Dashboard: dashboardService,
		Email:     emailService,
	}

	// Initialize Job Runner
	jobRunner := jobs.NewJobRunner(store.Users, jobServices, cfg)

	// Check if running a single job
	if *runOnce != "" {
		logger.Info("Running job once", "job", *runOnce)
		runJobOnce(jobRunner, *runOnce)
		logger.Info("Job execution completed", "job", *runOnce)
		return
	}

	// Initialize Scheduler
	cronScheduler, err := scheduler.NewScheduler(jobRunner)
	if err != nil {
		log.Fatalf("Failed to create scheduler: %v", err)
	}

	// Start scheduler
	cronScheduler.Start()
	logger.Info("Cronjob scheduler is running. Press Ctrl+C to stop.", "next_digest", cronScheduler.Next())

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	// Graceful shutdown
	logger.Info("Shutting down cronjob scheduler...")
	cronScheduler.Stop()
	logger.Info("Cronjob scheduler stopped. Goodbye!")
}

// runJobOnce runs a specific job once and exits
func runJobOnce(jobRunner *jobs.JobRunner, jobName string) {
	switch jobName {
	case "earnings-digest":
		jobRunner.SendEarningsDigests()
	case "all-weekly":
		jobRunner.RunAllWeeklyJobs()
	default:
		logger.Error("Unknown job name", "job", jobName)
		fmt.Printf("Available jobs:\n")
		fmt.Printf("  - earnings-digest\n")
		fmt.Printf("  - all-weekly\n")
		os.Exit(1)
	}
}
