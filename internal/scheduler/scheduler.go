// Package scheduler is the periodic trigger for the expiry sweep. The engine
// owns no timer; this is the external task runner the binary wires up.
package scheduler

import (
	"context"
	"time"

	"github.com/mvallespi/cargobid/internal/auction/application"
	"github.com/mvallespi/cargobid/internal/auction/infra/dispatch"
	"github.com/mvallespi/cargobid/internal/shared/logger"
	"go.uber.org/zap"
)

var log = logger.GetLogger()

type Scheduler struct {
	service    application.AuctionService
	dispatcher dispatch.Dispatcher
	interval   time.Duration
	attempts   int
	backoff    time.Duration
}

func New(service application.AuctionService, dispatcher dispatch.Dispatcher,
	interval time.Duration, attempts int, backoff time.Duration) *Scheduler {
	return &Scheduler{
		service:    service,
		dispatcher: dispatcher,
		interval:   interval,
		attempts:   attempts,
		backoff:    backoff,
	}
}

// Run ticks until the context ends. Sweep failures are retried with bounded
// backoff inside the tick; whatever still fails waits for the next tick,
// which is safe because closure is idempotent.
func (s *Scheduler) Run(ctx context.Context) {
	log.Info("Scheduler started", zap.Duration("interval", s.interval))
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info("Scheduler shutting down")
			return
		case <-ticker.C:
			s.tick(ctx)
		}
	}
}

func (s *Scheduler) tick(ctx context.Context) {
	result, err := s.sweepWithRetry(ctx)
	if err != nil {
		log.Error("Sweep failed after retries", zap.Error(err))
		return
	}
	s.dispatcher.Dispatch(result.Intents)
}

func (s *Scheduler) sweepWithRetry(ctx context.Context) (*application.SweepResult, error) {
	backoff := s.backoff
	var lastErr error

	for attempt := 1; attempt <= s.attempts; attempt++ {
		result, err := s.service.Sweep(ctx)
		if err == nil {
			return result, nil
		}
		lastErr = err
		log.Warn("Sweep attempt failed",
			zap.Int("attempt", attempt),
			zap.Error(err),
		)

		if attempt == s.attempts {
			break
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoff):
			backoff *= 2
		}
	}
	return nil, lastErr
}
