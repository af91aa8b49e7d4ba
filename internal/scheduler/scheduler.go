package scheduler

import (
	"context"
	"sync"
	"time"

	"lingovibe/backend/internal/logger"
	"lingovibe/backend/internal/repository"
)

// Scheduler runs storage maintenance on a fixed interval.
type Scheduler struct {
	target     repository.Maintainer
	interval   time.Duration
	stopCh     chan struct{}
	wg         sync.WaitGroup
	cancelFunc context.CancelFunc // cancels the current run
	mu         sync.Mutex         // protects cancelFunc
}

func New(target repository.Maintainer, interval time.Duration) *Scheduler {
	return &Scheduler{
		target:   target,
		interval: interval,
		stopCh:   make(chan struct{}),
	}
}

func (s *Scheduler) Start() {
	s.wg.Add(1)
	go s.run()
	logger.Info("scheduler started", "module", "scheduler", "action", "maintain", "resource", "store", "result", "ok", "interval_ms", s.interval.Milliseconds())
}

func (s *Scheduler) Stop() {
	s.mu.Lock()
	if s.cancelFunc != nil {
		s.cancelFunc()
	}
	s.mu.Unlock()

	close(s.stopCh)
	s.wg.Wait()
	logger.Info("scheduler stopped", "module", "scheduler", "action", "maintain", "resource", "store", "result", "ok")
}

func (s *Scheduler) run() {
	defer s.wg.Done()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.maintain()
		case <-s.stopCh:
			return
		}
	}
}

func (s *Scheduler) maintain() {
	ctx, cancel := context.WithTimeout(context.Background(), s.interval)

	s.mu.Lock()
	s.cancelFunc = cancel
	s.mu.Unlock()

	defer func() {
		cancel()
		s.mu.Lock()
		s.cancelFunc = nil
		s.mu.Unlock()
	}()

	start := time.Now()
	if err := s.target.Maintain(ctx); err != nil {
		if ctx.Err() != nil {
			logger.Warn("store maintenance cancelled", "module", "scheduler", "action", "maintain", "resource", "store", "result", "cancelled")
			return
		}
		logger.Error("store maintenance failed", "module", "scheduler", "action", "maintain", "resource", "store", "result", "failed", "error", err)
		return
	}
	logger.Debug("store maintenance completed", "module", "scheduler", "action", "maintain", "resource", "store", "result", "ok", "duration_ms", time.Since(start).Milliseconds())
}
