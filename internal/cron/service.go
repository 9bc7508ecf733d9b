// Package cron runs storefront maintenance jobs on a fixed cadence.
package cron

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Jcpastelariagourmet/jcpastelariagourmet-sub000/pkg/logger"
	"github.com/Jcpastelariagourmet/jcpastelariagourmet-sub000/pkg/metrics"
)

const defaultInterval = 15 * time.Minute

// Job is one unit of scheduled work.
type Job interface {
	Name() string
	Run(ctx context.Context) error
}

type ServiceParams struct {
	Logger   *logger.Logger
	Lock     Lock
	Metrics  *metrics.StorefrontMetrics
	Interval time.Duration
	Jobs     []Job
}

// Service runs every job once per interval while holding the lock.
type Service struct {
	logg     *logger.Logger
	lock     Lock
	metrics  *metrics.StorefrontMetrics
	interval time.Duration
	jobs     []Job
}

func NewService(params ServiceParams) (*Service, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Lock == nil {
		return nil, fmt.Errorf("lock required")
	}
	interval := params.Interval
	if interval <= 0 {
		interval = defaultInterval
	}
	jobs := make([]Job, 0, len(params.Jobs))
	for _, job := range params.Jobs {
		if job != nil {
			jobs = append(jobs, job)
		}
	}
	return &Service{
		logg:     params.Logger,
		lock:     params.Lock,
		metrics:  params.Metrics,
		interval: interval,
		jobs:     jobs,
	}, nil
}

// Run executes a cycle immediately and then on every tick until ctx is done.
func (s *Service) Run(ctx context.Context) error {
	s.cycle(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.cycle(ctx)
		}
	}
}

func (s *Service) cycle(ctx context.Context) {
	if err := s.RunOnce(ctx); err != nil && !errors.Is(err, context.Canceled) {
		s.logg.Error(ctx, "maintenance.cycle.failed", err)
	}
}

// RunOnce runs all jobs a single time. A failing job does not stop the others.
func (s *Service) RunOnce(ctx context.Context) error {
	locked, err := s.lock.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("lock acquire: %w", err)
	}
	if !locked {
		s.logg.Info(ctx, "maintenance.cycle.skipped")
		return nil
	}
	defer func() {
		if err := s.lock.Release(context.WithoutCancel(ctx)); err != nil {
			s.logg.Error(ctx, "maintenance.lock.release_failed", err)
		}
	}()

	for _, job := range s.jobs {
		s.runJob(ctx, job)
	}
	return nil
}

func (s *Service) runJob(ctx context.Context, job Job) {
	ctx = s.logg.WithField(ctx, "job", job.Name())
	start := time.Now()
	err := job.Run(ctx)
	elapsed := time.Since(start)
	s.metrics.ObserveJob(job.Name(), elapsed, err)

	ctx = s.logg.WithField(ctx, "duration_ms", elapsed.Milliseconds())
	if err != nil {
		s.logg.Error(ctx, "maintenance.job.failed", err)
		return
	}
	s.logg.Info(ctx, "maintenance.job.done")
}
