package application

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/mvallespi/cargobid/internal/auction/domain"
	"go.uber.org/zap"
)

// ClosureOutcome tells the caller whether this invocation did the work or
// found it already done.
type ClosureOutcome string

const (
	OutcomeClosed        ClosureOutcome = "closed"
	OutcomeAlreadyClosed ClosureOutcome = "already_closed"
)

// ClosureResult is what Close returns. On the AlreadyClosed path Winner is
// nil and Intents is empty: the race loser must not re-notify anyone.
type ClosureResult struct {
	Outcome ClosureOutcome
	Winner  *domain.Bid
	Intents []domain.NotificationIntent
}

// CloseAuctionUseCase transitions Active -> Completed exactly once per
// epoch. The bid snapshot and the status compare-and-swap share one
// transaction, so a bid committed after the CAS lands in no snapshot and a
// concurrent closer observes AlreadyClosed instead of double-resolving.
type CloseAuctionUseCase struct {
	store  domain.Store
	clock  domain.Clock
	policy domain.ResolvePolicy
}

func NewCloseAuctionUseCase(store domain.Store, clock domain.Clock, policy domain.ResolvePolicy) *CloseAuctionUseCase {
	return &CloseAuctionUseCase{store: store, clock: clock, policy: policy}
}

// Execute closes the auction. actorID nil marks a system trigger; a non-nil
// actor must be the consignor (manual early close).
func (uc *CloseAuctionUseCase) Execute(ctx context.Context, auctionID uuid.UUID, actorID *uuid.UUID) (*ClosureResult, error) {
	now := uc.clock.Now()
	result := &ClosureResult{Outcome: OutcomeClosed}

	err := runTx(ctx, uc.store, func(tx domain.Tx) error {
		auction, err := tx.GetAuctionForUpdate(ctx, auctionID)
		if err != nil {
			return fmt.Errorf("close auction: failed to get auction %s: %w", auctionID, err)
		}
		if auction.Status != domain.StatusActive {
			return domain.ErrAlreadyClosed
		}
		if actorID != nil && *actorID != auction.CreatedBy {
			return fmt.Errorf("close auction: auction %s: %w", auctionID, domain.ErrNotAuthorized)
		}

		bids, err := tx.ListBids(ctx, auctionID)
		if err != nil {
			return fmt.Errorf("close auction: failed to list bids for auction %s: %w", auctionID, err)
		}

		winner := domain.ResolveWinner(bids, uc.policy)

		auction.Status = domain.StatusCompleted
		auction.UpdatedAt = now
		if winner != nil {
			auction.SetWinner(winner.BidderID, winner.ID)
		} else {
			auction.ClearWinner()
		}

		ok, err := tx.UpdateAuction(ctx, auction, domain.StatusActive)
		if err != nil {
			return fmt.Errorf("close auction: failed to update auction %s: %w", auctionID, err)
		}
		if !ok {
			return domain.ErrAlreadyClosed
		}

		var winningBidID *uuid.UUID
		if winner != nil {
			winningBidID = &winner.ID
		}
		if err := tx.MarkWinningBid(ctx, auctionID, winningBidID); err != nil {
			return fmt.Errorf("close auction: failed to mark winning bid for auction %s: %w", auctionID, err)
		}

		result.Winner = winner
		result.Intents = closureIntents(auction, bids, winner)

		details := map[string]any{"bid_count": len(bids)}
		if winner != nil {
			details["winner_id"] = winner.BidderID
			details["winning_amount"] = winner.Amount
		}
		entry := domain.NewSystemAuditEntry(auctionID, domain.ActionAuctionCompleted, details, now)
		if actorID != nil {
			entry.ActorID = actorID
		}
		if err := tx.AppendAudit(ctx, entry); err != nil {
			return fmt.Errorf("close auction: failed to append audit entry: %w", err)
		}
		return nil
	})
	if err != nil {
		// A lost race is a normal outcome for the caller, not an error.
		if errors.Is(err, domain.ErrAlreadyClosed) {
			log.Debug("Close skipped, auction already closed",
				zap.String("auctionID", auctionID.String()))
			return &ClosureResult{Outcome: OutcomeAlreadyClosed}, nil
		}
		return nil, err
	}

	fields := []zap.Field{
		zap.String("auctionID", auctionID.String()),
	}
	if result.Winner != nil {
		fields = append(fields,
			zap.String("winnerID", result.Winner.BidderID.String()),
			zap.Float64("winningAmount", result.Winner.Amount),
		)
	}
	log.Info("Auction closed", fields...)

	return result, nil
}

func closureIntents(auction *domain.Auction, bids []*domain.Bid, winner *domain.Bid) []domain.NotificationIntent {
	var intents []domain.NotificationIntent

	if winner == nil {
		intents = append(intents, domain.NewIntent(auction.CreatedBy, auction.ID, domain.IntentAuctionEndedNoWin, nil))
		return intents
	}

	intents = append(intents, domain.NewIntent(winner.BidderID, auction.ID, domain.IntentWinnerDetermined, map[string]any{
		"amount": winner.Amount,
	}))
	intents = append(intents, domain.NewIntent(auction.CreatedBy, auction.ID, domain.IntentAuctionCompleted, map[string]any{
		"winner_id": winner.BidderID,
		"amount":    winner.Amount,
	}))
	for _, b := range bids {
		if b.BidderID == winner.BidderID {
			continue
		}
		intents = append(intents, domain.NewIntent(b.BidderID, auction.ID, domain.IntentAuctionEndedNotWon, nil))
	}
	return intents
}
