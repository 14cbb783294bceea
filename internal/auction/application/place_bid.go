package application

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/mvallespi/cargobid/internal/auction/domain"
	"go.uber.org/zap"
)

// PlaceBidDTO is the input for a driver's bid on a transport job.
type PlaceBidDTO struct {
	AuctionID uuid.UUID
	BidderID  uuid.UUID
	Amount    float64
}

// PlaceBidUseCase records or replaces the bidder's live bid on an Active
// auction and works out who got undercut by it.
type PlaceBidUseCase struct {
	store domain.Store
	clock domain.Clock
}

func NewPlaceBidUseCase(store domain.Store, clock domain.Clock) *PlaceBidUseCase {
	return &PlaceBidUseCase{store: store, clock: clock}
}

func (uc *PlaceBidUseCase) Execute(ctx context.Context, cmd PlaceBidDTO) (*domain.Bid, []domain.NotificationIntent, error) {
	if cmd.Amount <= 0 {
		log.Warn("PlaceBid: invalid amount",
			zap.String("auctionID", cmd.AuctionID.String()),
			zap.String("bidderID", cmd.BidderID.String()),
			zap.Float64("amount", cmd.Amount),
		)
		return nil, nil, fmt.Errorf("place bid: %w", domain.ErrInvalidAmount)
	}

	now := uc.clock.Now()
	var (
		bid     *domain.Bid
		intents []domain.NotificationIntent
	)

	err := runTx(ctx, uc.store, func(tx domain.Tx) error {
		auction, err := tx.GetAuctionForUpdate(ctx, cmd.AuctionID)
		if err != nil {
			return fmt.Errorf("place bid: failed to get auction %s: %w", cmd.AuctionID, err)
		}
		if auction.Status != domain.StatusActive || auction.IsExpired(now) {
			return fmt.Errorf("place bid: auction %s: %w", cmd.AuctionID, domain.ErrAuctionNotActive)
		}

		bids, err := tx.ListBids(ctx, cmd.AuctionID)
		if err != nil {
			return fmt.Errorf("place bid: failed to list bids for auction %s: %w", cmd.AuctionID, err)
		}

		// Replace-in-place: a bidder holds at most one live bid per auction.
		var prior *domain.Bid
		for _, b := range bids {
			if b.BidderID == cmd.BidderID {
				prior = b
				break
			}
		}

		action := domain.ActionBidPlaced
		details := map[string]any{"amount": cmd.Amount}
		if prior != nil {
			bid = domain.NewBid(prior.ID, cmd.AuctionID, cmd.BidderID, cmd.Amount, now)
			action = domain.ActionBidReplaced
			details["previous_amount"] = prior.Amount
		} else {
			bid = domain.NewBid(uuid.New(), cmd.AuctionID, cmd.BidderID, cmd.Amount, now)
		}

		if err := tx.UpsertBid(ctx, bid); err != nil {
			return fmt.Errorf("place bid: failed to save bid for auction %s: %w", cmd.AuctionID, err)
		}

		// Lowest wins, so everyone sitting on a strictly greater amount just
		// got undercut. The placer never outbids themselves.
		for _, b := range bids {
			if b.BidderID == cmd.BidderID {
				continue
			}
			if b.Amount > cmd.Amount {
				intents = append(intents, domain.NewIntent(b.BidderID, cmd.AuctionID, domain.IntentOutbid, map[string]any{
					"leading_amount": cmd.Amount,
					"your_amount":    b.Amount,
				}))
			}
		}
		intents = append(intents, domain.NewIntent(auction.CreatedBy, cmd.AuctionID, domain.IntentNewBid, map[string]any{
			"bidder_id": cmd.BidderID,
			"amount":    cmd.Amount,
		}))

		entry := domain.NewAuditEntry(cmd.AuctionID, cmd.BidderID, action, details, now)
		if err := tx.AppendAudit(ctx, entry); err != nil {
			return fmt.Errorf("place bid: failed to append audit entry: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	log.Info("Bid placed",
		zap.String("auctionID", cmd.AuctionID.String()),
		zap.String("bidderID", cmd.BidderID.String()),
		zap.String("bidID", bid.ID.String()),
		zap.Float64("amount", cmd.Amount),
	)

	return bid, intents, nil
}
