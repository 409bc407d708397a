package cron

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/brightvolt/backoffice-backend/pkg/logger"
	"github.com/brightvolt/backoffice-backend/pkg/metrics"
)

// Service drives the registered jobs, each on its own fixed-interval ticker.
// Every tick attempts the distributed lock first so a multi-instance
// deployment runs each job once per interval cluster-wide.
type Service struct {
	registry *Registry
	locker   Locker
	logg     *logger.Logger
	metrics  *metrics.CronJobMetrics

	wg     sync.WaitGroup
	cancel context.CancelFunc
}

// NewService constructs the scheduler.
func NewService(registry *Registry, locker Locker, logg *logger.Logger, m *metrics.CronJobMetrics) (*Service, error) {
	if registry == nil {
		return nil, fmt.Errorf("job registry required")
	}
	if locker == nil {
		locker = NoopLocker{}
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &Service{registry: registry, locker: locker, logg: logg, metrics: m}, nil
}

// Start launches one ticker goroutine per job and returns immediately. Each
// job also runs once at startup.
func (s *Service) Start(ctx context.Context) {
	ctx, s.cancel = context.WithCancel(ctx)
	for _, job := range s.registry.Jobs() {
		s.wg.Add(1)
		go s.runLoop(ctx, job)
	}
}

// Stop cancels all job loops and waits for in-flight runs to finish.
func (s *Service) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
	s.wg.Wait()
}

func (s *Service) runLoop(ctx context.Context, job Job) {
	defer s.wg.Done()

	s.runOnce(ctx, job)

	ticker := time.NewTicker(job.Interval())
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.runOnce(ctx, job)
		}
	}
}

func (s *Service) runOnce(ctx context.Context, job Job) {
	jobCtx := s.logg.WithField(ctx, "job", job.Name())

	acquired, err := s.locker.Acquire(jobCtx, job.Name())
	if err != nil {
		s.logg.Error(jobCtx, "cron lock acquisition failed", err)
		return
	}
	if !acquired {
		s.logg.Info(jobCtx, "cron job skipped, lock held elsewhere")
		return
	}
	defer func() {
		if err := s.locker.Release(jobCtx, job.Name()); err != nil {
			s.logg.Error(jobCtx, "cron lock release failed", err)
		}
	}()

	started := time.Now()
	runErr := job.Run(jobCtx)
	elapsed := time.Since(started)

	s.metrics.ObserveDuration(job.Name(), elapsed)
	if runErr != nil {
		s.metrics.IncFailure(job.Name())
		s.logg.Error(jobCtx, fmt.Sprintf("cron job failed after %s", elapsed), runErr)
		return
	}
	s.metrics.IncSuccess(job.Name())
	s.logg.Info(jobCtx, fmt.Sprintf("cron job finished in %s", elapsed))
}
