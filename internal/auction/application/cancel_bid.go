package application

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/mvallespi/cargobid/internal/auction/domain"
	"go.uber.org/zap"
)

// CancelBidUseCase withdraws a non-winning bid from an Active auction.
// Winning bids go through CancelByWinner instead, because withdrawing one
// requires the reassignment cascade.
type CancelBidUseCase struct {
	store domain.Store
	clock domain.Clock
}

func NewCancelBidUseCase(store domain.Store, clock domain.Clock) *CancelBidUseCase {
	return &CancelBidUseCase{store: store, clock: clock}
}

func (uc *CancelBidUseCase) Execute(ctx context.Context, bidID, requesterID uuid.UUID) ([]domain.NotificationIntent, error) {
	now := uc.clock.Now()
	var intents []domain.NotificationIntent

	err := runTx(ctx, uc.store, func(tx domain.Tx) error {
		bid, err := tx.GetBid(ctx, bidID)
		if err != nil {
			return fmt.Errorf("cancel bid: failed to get bid %s: %w", bidID, err)
		}
		if bid.BidderID != requesterID {
			return fmt.Errorf("cancel bid: bid %s: %w", bidID, domain.ErrNotAuthorized)
		}

		auction, err := tx.GetAuctionForUpdate(ctx, bid.AuctionID)
		if err != nil {
			return fmt.Errorf("cancel bid: failed to get auction %s: %w", bid.AuctionID, err)
		}
		if auction.Status != domain.StatusActive || auction.IsExpired(now) {
			return fmt.Errorf("cancel bid: auction %s: %w", bid.AuctionID, domain.ErrAuctionNotActive)
		}
		if bid.IsWinningBid {
			return fmt.Errorf("cancel bid: bid %s: %w", bidID, domain.ErrCannotCancelWinningBid)
		}

		if err := tx.DeleteBid(ctx, bidID); err != nil {
			return fmt.Errorf("cancel bid: failed to delete bid %s: %w", bidID, err)
		}

		intents = append(intents, domain.NewIntent(auction.CreatedBy, auction.ID, domain.IntentBidCancelled, map[string]any{
			"bidder_id": bid.BidderID,
			"amount":    bid.Amount,
		}))

		entry := domain.NewAuditEntry(auction.ID, requesterID, domain.ActionBidCancelled, map[string]any{
			"bid_id": bidID,
			"amount": bid.Amount,
		}, now)
		if err := tx.AppendAudit(ctx, entry); err != nil {
			return fmt.Errorf("cancel bid: failed to append audit entry: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info("Bid cancelled",
		zap.String("bidID", bidID.String()),
		zap.String("requesterID", requesterID.String()),
	)

	return intents, nil
}
