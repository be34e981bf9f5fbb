// Package scheduler manages periodic re-analysis runs for watch mode.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// Job is one scheduled unit of work, typically a full roster analysis.
type Job func(ctx context.Context) error

// Scheduler runs analysis jobs on cron schedules.
type Scheduler struct {
	cron            *cron.Cron
	logger          *logrus.Logger
	mu              sync.RWMutex
	isRunning       bool
	jobIDs          []cron.EntryID
	jobTimeout      time.Duration
	gracefulTimeout time.Duration
}

// NewScheduler creates a new scheduler. jobTimeout bounds each run; zero
// means one hour.
func NewScheduler(logger *logrus.Logger, jobTimeout time.Duration) *Scheduler {
	if jobTimeout <= 0 {
		jobTimeout = time.Hour
	}
	return &Scheduler{
		cron:            cron.New(cron.WithLocation(time.UTC)),
		logger:          logger,
		jobIDs:          make([]cron.EntryID, 0),
		jobTimeout:      jobTimeout,
		gracefulTimeout: 30 * time.Second,
	}
}

// ScheduleAnalysis schedules a recurring analysis run.
func (s *Scheduler) ScheduleAnalysis(cronExpression, name string, job Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("cannot schedule job while scheduler is running")
	}

	jobFunc := func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.jobTimeout)
		defer cancel()

		s.logger.WithField("job", name).Info("Starting scheduled analysis run")
		start := time.Now()
		if err := job(ctx); err != nil {
			s.logger.WithField("job", name).WithError(err).Error("Scheduled analysis run failed")
			return
		}
		s.logger.WithFields(logrus.Fields{
			"job":        name,
			"duration_s": time.Since(start).Seconds(),
		}).Info("Scheduled analysis run completed")
	}

	entryID, err := s.cron.AddFunc(cronExpression, jobFunc)
	if err != nil {
		return fmt.Errorf("failed to add job: %w", err)
	}

	s.jobIDs = append(s.jobIDs, entryID)
	s.logger.WithFields(logrus.Fields{
		"job":  name,
		"cron": cronExpression,
	}).Info("Scheduled analysis job")

	return nil
}

// Start starts the scheduler
func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("scheduler is already running")
	}
	if len(s.jobIDs) == 0 {
		return fmt.Errorf("no jobs scheduled")
	}

	s.cron.Start()
	s.isRunning = true
	s.logger.Infof("Scheduler started with %d jobs", len(s.jobIDs))

	return nil
}

// Stop gracefully stops the scheduler
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.gracefulTimeout)
	defer cancel()

	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
		s.logger.Warn("Scheduler stop timed out waiting for running jobs")
	}
	s.isRunning = false
	s.logger.Info("Scheduler stopped")

	return nil
}

// IsRunning returns whether the scheduler is currently running
func (s *Scheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// NextRun returns the time of the next scheduled job run
func (s *Scheduler) NextRun() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning || len(s.jobIDs) == 0 {
		return time.Time{}
	}

	nextRun := time.Time{}
	for _, jobID := range s.jobIDs {
		entry := s.cron.Entry(jobID)
		if entry.Valid() {
			if nextRun.IsZero() || entry.Next.Before(nextRun) {
				nextRun = entry.Next
			}
		}
	}

	return nextRun
}
