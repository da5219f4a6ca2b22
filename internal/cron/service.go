package cron

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/carewell/carebook-backend/pkg/logger"
	"github.com/carewell/carebook-backend/pkg/metrics"
)

const defaultInterval = time.Hour

// ServiceParams configure the worker scheduler.
type ServiceParams struct {
	Logger   *logger.Logger
	Registry *Registry
	Metrics  *metrics.JobMetrics
}

// Service executes registered jobs, each on its own cadence and under its
// own distributed lock.
type Service struct {
	logg     *logger.Logger
	registry *Registry
	metrics  *metrics.JobMetrics
}

// NewService builds a worker scheduler.
func NewService(params ServiceParams) (*Service, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	registry := params.Registry
	if registry == nil {
		registry = NewRegistry()
	}
	for _, entry := range registry.Entries() {
		if entry.Lock == nil {
			return nil, fmt.Errorf("job %s registered without a lock", entry.Job.Name())
		}
	}
	return &Service{
		logg:     params.Logger,
		registry: registry,
		metrics:  params.Metrics,
	}, nil
}

// Run starts every job loop and blocks until the context is canceled.
func (s *Service) Run(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	var wg sync.WaitGroup
	for _, entry := range s.registry.Entries() {
		wg.Add(1)
		go func(entry Entry) {
			defer wg.Done()
			s.runLoop(ctx, entry)
		}(entry)
	}
	wg.Wait()

	s.logg.Info(ctx, "worker scheduler stopped")
	return ctx.Err()
}

func (s *Service) runLoop(ctx context.Context, entry Entry) {
	interval := entry.Every
	if interval <= 0 {
		interval = defaultInterval
	}

	s.runLocked(ctx, entry)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.runLocked(ctx, entry)
		}
	}
}

func (s *Service) runLocked(ctx context.Context, entry Entry) {
	jobCtx := s.logg.WithJob(ctx, entry.Job.Name())

	locked, err := entry.Lock.Acquire(jobCtx)
	if err != nil {
		s.logg.Error(jobCtx, "lock acquire failed", err)
		s.metrics.IncFailure(entry.Job.Name())
		return
	}
	if !locked {
		s.logg.Info(jobCtx, "another worker holds the job lock; skipping")
		s.metrics.IncSkipped(entry.Job.Name())
		return
	}
	defer func() {
		if relErr := entry.Lock.Release(jobCtx); relErr != nil {
			s.logg.Error(jobCtx, "failed to release job lock", relErr)
		}
	}()

	s.runJob(jobCtx, entry.Job)
}

func (s *Service) runJob(ctx context.Context, job Job) {
	s.logg.Info(ctx, "job start")
	start := time.Now()
	err := job.Run(ctx)
	duration := time.Since(start)
	s.metrics.ObserveDuration(job.Name(), duration)
	ctx = s.logg.WithField(ctx, "duration_ms", duration.Milliseconds())
	if err != nil {
		s.logg.Error(ctx, "job failed", err)
		s.metrics.IncFailure(job.Name())
		return
	}
	s.logg.Info(ctx, "job completed")
	s.metrics.IncSuccess(job.Name())
}
