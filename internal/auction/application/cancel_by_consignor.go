package application

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/mvallespi/cargobid/internal/auction/domain"
	"go.uber.org/zap"
)

// CancelByConsignorUseCase withdraws an Active auction entirely. No winner
// fields exist yet, so there is nothing to cascade; every live bidder is
// told the job is gone.
type CancelByConsignorUseCase struct {
	store domain.Store
	clock domain.Clock
}

func NewCancelByConsignorUseCase(store domain.Store, clock domain.Clock) *CancelByConsignorUseCase {
	return &CancelByConsignorUseCase{store: store, clock: clock}
}

func (uc *CancelByConsignorUseCase) Execute(ctx context.Context, auctionID, requesterID uuid.UUID) ([]domain.NotificationIntent, error) {
	now := uc.clock.Now()
	var intents []domain.NotificationIntent

	err := runTx(ctx, uc.store, func(tx domain.Tx) error {
		auction, err := tx.GetAuctionForUpdate(ctx, auctionID)
		if err != nil {
			return fmt.Errorf("cancel auction: failed to get auction %s: %w", auctionID, err)
		}
		if auction.CreatedBy != requesterID {
			return fmt.Errorf("cancel auction: auction %s: %w", auctionID, domain.ErrNotAuthorized)
		}
		if auction.Status != domain.StatusActive {
			return fmt.Errorf("cancel auction: auction %s: %w", auctionID, domain.ErrAuctionNotActive)
		}

		bids, err := tx.ListBids(ctx, auctionID)
		if err != nil {
			return fmt.Errorf("cancel auction: failed to list bids for auction %s: %w", auctionID, err)
		}

		auction.Status = domain.StatusCancelled
		auction.UpdatedAt = now
		ok, err := tx.UpdateAuction(ctx, auction, domain.StatusActive)
		if err != nil {
			return fmt.Errorf("cancel auction: failed to update auction %s: %w", auctionID, err)
		}
		if !ok {
			return fmt.Errorf("cancel auction: auction %s: %w", auctionID, domain.ErrAuctionNotActive)
		}

		for _, b := range bids {
			intents = append(intents, domain.NewIntent(b.BidderID, auctionID, domain.IntentAuctionCancelled, nil))
		}

		entry := domain.NewAuditEntry(auctionID, requesterID, domain.ActionAuctionCancelled, map[string]any{
			"bid_count": len(bids),
		}, now)
		if err := tx.AppendAudit(ctx, entry); err != nil {
			return fmt.Errorf("cancel auction: failed to append audit entry: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info("Auction cancelled by consignor",
		zap.String("auctionID", auctionID.String()),
		zap.String("consignorID", requesterID.String()),
	)

	return intents, nil
}
