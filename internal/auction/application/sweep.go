package application

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/mvallespi/cargobid/internal/auction/domain"
	"go.uber.org/zap"
)

// SweepResult summarizes one expiry pass.
type SweepResult struct {
	Processed     int
	Closed        int
	AlreadyClosed int
	Failed        int
	Intents       []domain.NotificationIntent
}

// SweepUseCase closes every expired Active auction, at most batchSize per
// pass. Auctions are closed independently: one failure is logged and skipped,
// and because closure is idempotent the next sweep retries it safely.
type SweepUseCase struct {
	store     domain.Store
	clock     domain.Clock
	closeUC   *CloseAuctionUseCase
	batchSize int
}

func NewSweepUseCase(store domain.Store, clock domain.Clock, closeUC *CloseAuctionUseCase, batchSize int) *SweepUseCase {
	return &SweepUseCase{
		store:     store,
		clock:     clock,
		closeUC:   closeUC,
		batchSize: batchSize,
	}
}

func (uc *SweepUseCase) Execute(ctx context.Context) (*SweepResult, error) {
	now := uc.clock.Now()

	expired, err := uc.store.ListExpired(ctx, now, uc.batchSize)
	if err != nil {
		return nil, fmt.Errorf("sweep: failed to list expired auctions: %w", err)
	}

	result := &SweepResult{}
	for _, id := range expired {
		result.Processed++
		closure, err := uc.closeAuction(ctx, id)
		if err != nil {
			result.Failed++
			log.Error("Sweep: closing auction failed, will retry next pass",
				zap.String("auctionID", id.String()),
				zap.Error(err),
			)
			continue
		}
		if closure.Outcome == OutcomeAlreadyClosed {
			result.AlreadyClosed++
			continue
		}
		result.Closed++
		result.Intents = append(result.Intents, closure.Intents...)
	}

	if result.Processed > 0 {
		log.Info("Sweep completed",
			zap.Int("processed", result.Processed),
			zap.Int("closed", result.Closed),
			zap.Int("alreadyClosed", result.AlreadyClosed),
			zap.Int("failed", result.Failed),
		)
	}

	return result, nil
}

func (uc *SweepUseCase) closeAuction(ctx context.Context, id uuid.UUID) (*ClosureResult, error) {
	return uc.closeUC.Execute(ctx, id, nil)
}
