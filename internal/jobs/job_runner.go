package jobs

import (
	"time"

	"agrimarket-backend/internal/config"
	"agrimarket-backend/internal/logger"
	"agrimarket-backend/internal/repository"
	"agrimarket-backend/internal/service"
)

// JobRunner coordinates all scheduled jobs
type JobRunner struct {
	users    repository.UserRepository
	services *Services
	config   *config.Config
	now      func() time.Time
}

// Services holds all service dependencies needed by jobs
type Services struct {
	Dashboard service.DashboardService
	Email     service.EmailService
}

// NewJobRunner creates a new job runner with all dependencies
func NewJobRunner(users repository.UserRepository, services *Services, cfg *config.Config) *JobRunner {
	return &JobRunner{
		users:    users,
		services: services,
		config:   cfg,
		now:      time.Now,
	}
}

// Config returns the configuration the runner was built with
func (jr *JobRunner) Config() *config.Config {
	return jr.config
}

// runWithRecovery wraps job execution with panic recovery
func (jr *JobRunner) runWithRecovery(jobName string, jobFunc func()) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Job panicked", "job", jobName, "panic", r)
		}
	}()

	logger.Info("Starting job", "job", jobName)
	jobFunc()
	logger.Info("Job completed", "job", jobName)
}

// RunAllWeeklyJobs runs all weekly jobs (for manual execution)
func (jr *JobRunner) RunAllWeeklyJobs() {
	jr.SendEarningsDigests()
}
