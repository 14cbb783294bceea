package application

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mvallespi/cargobid/internal/auction/domain"
	"go.uber.org/zap"
)

// ReassignResult is what CancelByWinner returns: either a new winner was
// promoted, or the auction reopened with an extended deadline.
type ReassignResult struct {
	Reopened   bool
	NewWinner  *domain.Bid
	NewEndTime time.Time
	Intents    []domain.NotificationIntent
}

// CancelByWinnerUseCase handles the cascade after a winner withdraws from a
// Completed auction: promote the next-lowest bid, or reopen the auction with
// a grace window when no backup exists. Completed -> Active -> Completed is
// a legal cycle through this path.
type CancelByWinnerUseCase struct {
	store  domain.Store
	clock  domain.Clock
	policy domain.ResolvePolicy
	grace  time.Duration
}

func NewCancelByWinnerUseCase(store domain.Store, clock domain.Clock, policy domain.ResolvePolicy, grace time.Duration) *CancelByWinnerUseCase {
	return &CancelByWinnerUseCase{store: store, clock: clock, policy: policy, grace: grace}
}

func (uc *CancelByWinnerUseCase) Execute(ctx context.Context, auctionID, requesterID uuid.UUID) (*ReassignResult, error) {
	now := uc.clock.Now()
	result := &ReassignResult{}

	err := runTx(ctx, uc.store, func(tx domain.Tx) error {
		auction, err := tx.GetAuctionForUpdate(ctx, auctionID)
		if err != nil {
			return fmt.Errorf("cancel by winner: failed to get auction %s: %w", auctionID, err)
		}
		if auction.Status != domain.StatusCompleted {
			return fmt.Errorf("cancel by winner: auction %s: %w", auctionID, domain.ErrAuctionNotCompleted)
		}
		if auction.WinnerID == nil || *auction.WinnerID != requesterID {
			return fmt.Errorf("cancel by winner: auction %s: %w", auctionID, domain.ErrNotAuthorized)
		}

		withdrawnBidID := *auction.WinningBidID
		if err := tx.DeleteBid(ctx, withdrawnBidID); err != nil {
			return fmt.Errorf("cancel by winner: failed to delete bid %s: %w", withdrawnBidID, err)
		}

		remaining, err := tx.ListBids(ctx, auctionID)
		if err != nil {
			return fmt.Errorf("cancel by winner: failed to list bids for auction %s: %w", auctionID, err)
		}

		newWinner := domain.ResolveWinner(remaining, uc.policy)
		auction.UpdatedAt = now

		if newWinner != nil {
			auction.SetWinner(newWinner.BidderID, newWinner.ID)
			ok, err := tx.UpdateAuction(ctx, auction, domain.StatusCompleted)
			if err != nil {
				return fmt.Errorf("cancel by winner: failed to update auction %s: %w", auctionID, err)
			}
			if !ok {
				return fmt.Errorf("cancel by winner: auction %s: %w", auctionID, domain.ErrAuctionNotCompleted)
			}
			if err := tx.MarkWinningBid(ctx, auctionID, &newWinner.ID); err != nil {
				return fmt.Errorf("cancel by winner: failed to mark winning bid for auction %s: %w", auctionID, err)
			}

			result.NewWinner = newWinner
			result.Intents = append(result.Intents,
				domain.NewIntent(newWinner.BidderID, auctionID, domain.IntentWinnerDetermined, map[string]any{
					"amount": newWinner.Amount,
				}),
				domain.NewIntent(auction.CreatedBy, auctionID, domain.IntentWinnerChanged, map[string]any{
					"previous_winner_id": requesterID,
					"winner_id":          newWinner.BidderID,
					"amount":             newWinner.Amount,
				}),
			)

			entry := domain.NewAuditEntry(auctionID, requesterID, domain.ActionWinnerReassigned, map[string]any{
				"previous_winner_id": requesterID,
				"winner_id":          newWinner.BidderID,
				"winning_amount":     newWinner.Amount,
			}, now)
			if err := tx.AppendAudit(ctx, entry); err != nil {
				return fmt.Errorf("cancel by winner: failed to append audit entry: %w", err)
			}
			return nil
		}

		// No backup bid: reopen with a grace window so drivers can bid again.
		auction.Status = domain.StatusActive
		auction.ClearWinner()
		auction.EndTime = now.Add(uc.grace)
		ok, err := tx.UpdateAuction(ctx, auction, domain.StatusCompleted)
		if err != nil {
			return fmt.Errorf("cancel by winner: failed to reopen auction %s: %w", auctionID, err)
		}
		if !ok {
			return fmt.Errorf("cancel by winner: auction %s: %w", auctionID, domain.ErrAuctionNotCompleted)
		}
		if err := tx.MarkWinningBid(ctx, auctionID, nil); err != nil {
			return fmt.Errorf("cancel by winner: failed to clear winning bid for auction %s: %w", auctionID, err)
		}

		result.Reopened = true
		result.NewEndTime = auction.EndTime
		result.Intents = append(result.Intents,
			domain.NewIntent(auction.CreatedBy, auctionID, domain.IntentAuctionReopened, map[string]any{
				"new_end_time": auction.EndTime,
			}),
		)

		entry := domain.NewAuditEntry(auctionID, requesterID, domain.ActionAuctionReopened, map[string]any{
			"previous_winner_id": requesterID,
			"new_end_time":       auction.EndTime,
		}, now)
		if err := tx.AppendAudit(ctx, entry); err != nil {
			return fmt.Errorf("cancel by winner: failed to append audit entry: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info("Winner cancellation processed",
		zap.String("auctionID", auctionID.String()),
		zap.String("previousWinnerID", requesterID.String()),
		zap.Bool("reopened", result.Reopened),
	)

	return result, nil
}
