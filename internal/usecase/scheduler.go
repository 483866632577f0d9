package usecase

import (
	"context"
	"time"

	"tsescan/pkg/logger"
)

// Scheduler runs the configured universe scan on a fixed interval.
type Scheduler struct {
	svc      *ScanService
	interval time.Duration
	log      *logger.Logger

	cancel context.CancelFunc
	done   chan struct{}
}

// NewScheduler creates a scheduler. interval <= 0 disables it.
func NewScheduler(svc *ScanService, interval time.Duration, log *logger.Logger) *Scheduler {
	return &Scheduler{svc: svc, interval: interval, log: log}
}

// Start launches the scan loop. The first scan fires after one interval,
// not immediately, so startup stays fast.
func (s *Scheduler) Start() {
	if s.interval <= 0 {
		s.log.Info("scan scheduler disabled")
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.done = make(chan struct{})

	s.log.Info("scan scheduler started", logger.Duration("interval", s.interval))
	go func() {
		defer close(s.done)
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if _, err := s.svc.RunOnce(ctx, nil, 0); err != nil {
					if ctx.Err() != nil {
						return
					}
					s.log.Error("scheduled scan failed", logger.Error(err))
				}
			}
		}
	}()
}

// Shutdown stops the loop and waits for an in-flight scan to finish or the
// context to expire.
func (s *Scheduler) Shutdown(ctx context.Context) error {
	if s.cancel == nil {
		return nil
	}
	s.cancel()
	select {
	case <-s.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
