package scheduler

import (
	"context"
	"sync"
	"time"

	"arrivalcard-service/pkg/logger"
)

// SweepFunc is one execution of the due-work discovery-and-processing cycle
type SweepFunc func(ctx context.Context) error

// Scheduler fires a sweep on a fixed cadence. A single-slot lock
// guarantees at most one in-flight sweep: a tick or manual invocation
// arriving while a sweep is still running is a no-op. Missed ticks are
// not replayed; eligibility is a query over current time.
type Scheduler struct {
	interval time.Duration
	sweep    SweepFunc
	logger   logger.Logger

	running sync.Mutex
	cancel  context.CancelFunc
	done    chan struct{}
}

// New creates a scheduler that invokes sweep every interval
func New(interval time.Duration, sweep SweepFunc, logger logger.Logger) *Scheduler {
	return &Scheduler{
		interval: interval,
		sweep:    sweep,
		logger:   logger,
	}
}

// Start begins periodic sweeping until Stop is called or ctx is cancelled
func (s *Scheduler) Start(ctx context.Context) {
	ctx, s.cancel = context.WithCancel(ctx)
	s.done = make(chan struct{})

	go s.run(ctx)
}

func (s *Scheduler) run(ctx context.Context) {
	defer close(s.done)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.logger.Info("Submission scheduler started", "interval", s.interval)

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("Submission scheduler stopped")
			return
		case <-ticker.C:
			ran, err := s.RunNow(ctx)
			if err != nil {
				s.logger.Error("Sweep finished with errors", "error", err)
			}
			if !ran {
				s.logger.Warn("Previous sweep still running, skipping tick")
			}
		}
	}
}

// RunNow invokes one sweep immediately, for the periodic trigger and for
// manual or administrative invocation alike. It reports false without
// running when another sweep is already in flight.
func (s *Scheduler) RunNow(ctx context.Context) (bool, error) {
	if !s.running.TryLock() {
		return false, nil
	}
	defer s.running.Unlock()

	return true, s.sweep(ctx)
}

// Stop halts the periodic trigger and waits for the loop to exit. A
// sweep already in flight is left to finish.
func (s *Scheduler) Stop() {
	if s.cancel == nil {
		return
	}
	s.cancel()
	<-s.done
}
