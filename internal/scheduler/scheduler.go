package scheduler

import (
	"context"
	"fmt"
	"time"

	"burim-estate/internal/cleanup"
	"burim-estate/internal/config"
	"burim-estate/internal/logger"

	"github.com/robfig/cron/v3"
)

// Cleaner purges stale rows
type Cleaner interface {
	PhysicallyDelete(ctx context.Context, config cleanup.CleanupConfig) (*cleanup.CleanupResult, error)
}

// Pruner drops idle rate limiter state
type Pruner interface {
	Prune() int
}

// Scheduler handles scheduled maintenance tasks
type Scheduler struct {
	cron      *cron.Cron
	cleaner   Cleaner
	pruner    Pruner
	config    config.CleanupConfig
	log       *logger.Logger
	isRunning bool
}

// NewScheduler creates a new scheduler running in loc
func NewScheduler(cleaner Cleaner, cfg config.CleanupConfig, loc *time.Location, log *logger.Logger) *Scheduler {
	if loc == nil {
		loc = time.UTC
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Scheduler{
		cron:    cron.New(cron.WithLocation(loc)),
		cleaner: cleaner,
		config:  cfg,
		log:     log,
	}
}

// WithPruner registers an in-memory limiter to prune hourly
func (s *Scheduler) WithPruner(p Pruner) *Scheduler {
	s.pruner = p
	return s
}

// Start starts the scheduler
func (s *Scheduler) Start() error {
	jobs := 0

	if s.config.DailyRunEnabled {
		// Parse daily run time (HH:MM format in config)
		cronSpec := s.parseDailyRunTime(s.config.DailyRunTime)

		_, err := s.cron.AddFunc(cronSpec, func() {
			s.log.Info("Scheduler: Starting daily cleanup job...")
			if _, err := s.runDailyCleanup(context.Background()); err != nil {
				s.log.Error("Scheduler: Daily cleanup failed: %v", err)
			} else {
				s.log.Info("Scheduler: Daily cleanup completed successfully")
			}
		})
		if err != nil {
			return err
		}
		jobs++
		s.log.Info("Scheduler: Daily cleanup at %s (cron: %s)", s.config.DailyRunTime, cronSpec)
	} else {
		s.log.Info("Scheduler: Daily cleanup is disabled in configuration")
	}

	if s.pruner != nil {
		if _, err := s.cron.AddFunc("@hourly", func() {
			if n := s.pruner.Prune(); n > 0 {
				s.log.Debug("Scheduler: Pruned %d idle rate limit clients", n)
			}
		}); err != nil {
			return err
		}
		jobs++
	}

	if jobs == 0 {
		return nil
	}

	s.cron.Start()
	s.isRunning = true
	s.log.Info("Scheduler: Started with %d jobs", jobs)

	return nil
}

// Stop stops the scheduler and waits for running jobs
func (s *Scheduler) Stop() {
	if s.isRunning {
		<-s.cron.Stop().Done()
		s.isRunning = false
		s.log.Info("Scheduler: Stopped")
	}
}

// IsRunning reports whether the cron loop was started
func (s *Scheduler) IsRunning() bool {
	return s.isRunning
}

// runDailyCleanup executes the stale draft cleanup
func (s *Scheduler) runDailyCleanup(ctx context.Context) (*cleanup.CleanupResult, error) {
	result, err := s.cleaner.PhysicallyDelete(ctx, cleanup.CleanupConfig{
		RetentionDays:    s.config.RetentionDays,
		MaxDeletionCount: s.config.MaxDeletionCount,
	})
	if err != nil {
		return nil, fmt.Errorf("cleanup failed: %w", err)
	}

	s.log.Info("Scheduler: Cleanup deleted %d/%d drafts, %d errors",
		result.DeletedCount, result.TargetCount, result.ErrorCount)
	return result, nil
}

// RunNow immediately executes the daily cleanup job (for manual trigger)
func (s *Scheduler) RunNow(ctx context.Context) (*cleanup.CleanupResult, error) {
	s.log.Info("Scheduler: Manual trigger - starting cleanup job...")
	return s.runDailyCleanup(ctx)
}

// parseDailyRunTime converts HH:MM format to cron specification
// Example: "03:00" -> "0 3 * * *"
func (s *Scheduler) parseDailyRunTime(timeStr string) string {
	var hour, minute int
	n, _ := fmt.Sscanf(timeStr, "%d:%d", &hour, &minute)
	if n == 2 && hour >= 0 && hour < 24 && minute >= 0 && minute < 60 {
		return fmt.Sprintf("%d %d * * *", minute, hour)
	}

	// Default to 3:00 AM if parsing fails
	s.log.Warn("Scheduler: Failed to parse time '%s', using default 03:00", timeStr)
	return "0 3 * * *"
}
