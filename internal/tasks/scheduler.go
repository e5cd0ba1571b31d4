package tasks

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/Riyasingh139/DigitalReviverBackend/internal/utils/logger"
)

// Job is a periodic unit of work. Each run gets its own deadline.
type Job func(ctx context.Context) error

// Scheduler runs periodic jobs in process.
type Scheduler struct {
	cron    *cron.Cron
	timeout time.Duration
	logger  *logger.Logger
}

// NewScheduler creates a scheduler whose jobs are cut off after timeout.
func NewScheduler(timeout time.Duration) *Scheduler {
	return &Scheduler{
		cron:    cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		timeout: timeout,
		logger:  logger.New("SCHEDULER"),
	}
}

// Register adds job under a standard cron spec or a descriptor such as
// "@every 15m".
func (s *Scheduler) Register(spec, name string, job Job) error {
	id, err := s.cron.AddFunc(spec, func() { s.run(name, job) })
	if err != nil {
		return fmt.Errorf("failed to register %s: %w", name, err)
	}
	s.logger.Debug("registered %s (%s) as entry %d", name, spec, id)
	return nil
}

func (s *Scheduler) run(name string, job Job) {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	if err := job(ctx); err != nil {
		s.logger.Error("scheduled job "+name+" failed", err)
	}
}

// Start starts the scheduler
func (s *Scheduler) Start() {
	s.logger.Info("starting scheduler with %d jobs", len(s.cron.Entries()))
	s.cron.Start()
}

// Stop stops scheduling and waits for running jobs, up to ctx.
func (s *Scheduler) Stop(ctx context.Context) {
	select {
	case <-s.cron.Stop().Done():
		s.logger.Info("scheduler stopped")
	case <-ctx.Done():
		s.logger.Warn("scheduler stop timed out")
	}
}
