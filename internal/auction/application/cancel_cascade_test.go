package application

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/mvallespi/cargobid/internal/auction/domain"
	"github.com/stretchr/testify/require"
)

func TestCancelByConsignor(t *testing.T) {
	f := newFixture(t)
	auction := f.createAuction(t)

	driverA := uuid.New()
	driverB := uuid.New()
	f.placeBid(t, auction.ID, driverA, 500)
	f.placeBid(t, auction.ID, driverB, 400)

	t.Run("creator_only", func(t *testing.T) {
		_, err := f.svc.CancelByConsignor(context.Background(), auction.ID, uuid.New())
		require.ErrorIs(t, err, domain.ErrNotAuthorized)
	})

	t.Run("cancels_and_notifies_all_bidders", func(t *testing.T) {
		intents, err := f.svc.CancelByConsignor(context.Background(), auction.ID, f.consignor)
		require.NoError(t, err)

		cancelled := intentsOfType(intents, domain.IntentAuctionCancelled)
		require.Len(t, cancelled, 2)
		require.ElementsMatch(t, []uuid.UUID{driverA, driverB}, recipientsOf(cancelled))

		stored, err := f.store.GetAuction(context.Background(), auction.ID)
		require.NoError(t, err)
		require.Equal(t, domain.StatusCancelled, stored.Status)
		require.Nil(t, stored.WinnerID)
	})

	t.Run("not_active_afterwards", func(t *testing.T) {
		_, err := f.svc.CancelByConsignor(context.Background(), auction.ID, f.consignor)
		require.ErrorIs(t, err, domain.ErrAuctionNotActive)
	})
}

// The §8 example scenario continued: Y won at 300, withdraws; X at 500 is
// promoted and the consignor learns the winner changed.
func TestCancelByWinner_PromotesNextLowestBid(t *testing.T) {
	f := newFixture(t)
	auction := f.createAuction(t)

	driverX := uuid.New()
	driverY := uuid.New()
	f.placeBid(t, auction.ID, driverX, 500)
	f.clock.Advance(time.Minute)
	f.placeBid(t, auction.ID, driverY, 300)

	f.clock.Advance(2 * time.Hour)
	_, err := f.svc.Close(context.Background(), auction.ID, nil)
	require.NoError(t, err)

	result, err := f.svc.CancelByWinner(context.Background(), auction.ID, driverY)
	require.NoError(t, err)
	require.False(t, result.Reopened)
	require.NotNil(t, result.NewWinner)
	require.Equal(t, driverX, result.NewWinner.BidderID)
	require.Equal(t, float64(500), result.NewWinner.Amount)

	changed := intentsOfType(result.Intents, domain.IntentWinnerChanged)
	require.Len(t, changed, 1)
	require.Equal(t, f.consignor, changed[0].RecipientID)

	determined := intentsOfType(result.Intents, domain.IntentWinnerDetermined)
	require.Len(t, determined, 1)
	require.Equal(t, driverX, determined[0].RecipientID)

	stored, err := f.store.GetAuction(context.Background(), auction.ID)
	require.NoError(t, err)
	require.Equal(t, domain.StatusCompleted, stored.Status)
	require.Equal(t, driverX, *stored.WinnerID)

	bids, err := f.store.ListBids(context.Background(), auction.ID)
	require.NoError(t, err)
	require.Len(t, bids, 1, "withdrawn winning bid is removed")
	require.True(t, bids[0].IsWinningBid)
}

func TestCancelByWinner_ReopensWithoutBackup(t *testing.T) {
	f := newFixture(t)
	auction := f.createAuction(t)

	driver := uuid.New()
	f.placeBid(t, auction.ID, driver, 300)

	f.clock.Advance(2 * time.Hour)
	_, err := f.svc.Close(context.Background(), auction.ID, nil)
	require.NoError(t, err)

	result, err := f.svc.CancelByWinner(context.Background(), auction.ID, driver)
	require.NoError(t, err)
	require.True(t, result.Reopened)
	require.Nil(t, result.NewWinner)
	require.Equal(t, f.clock.Now().Add(testGrace), result.NewEndTime)

	reopened := intentsOfType(result.Intents, domain.IntentAuctionReopened)
	require.Len(t, reopened, 1)
	require.Equal(t, f.consignor, reopened[0].RecipientID)

	stored, err := f.store.GetAuction(context.Background(), auction.ID)
	require.NoError(t, err)
	require.Equal(t, domain.StatusActive, stored.Status)
	require.Nil(t, stored.WinnerID)
	require.Nil(t, stored.WinningBidID)
	require.Equal(t, result.NewEndTime, stored.EndTime)
}

// Completed -> Active -> Completed is a legal cycle: a reopened auction can
// take new bids and close again.
func TestCancelByWinner_ReopenedAuctionIsBiddableAndClosable(t *testing.T) {
	f := newFixture(t)
	auction := f.createAuction(t)

	first := uuid.New()
	f.placeBid(t, auction.ID, first, 300)
	f.clock.Advance(2 * time.Hour)

	_, err := f.svc.Close(context.Background(), auction.ID, nil)
	require.NoError(t, err)

	_, err = f.svc.CancelByWinner(context.Background(), auction.ID, first)
	require.NoError(t, err)

	second := uuid.New()
	f.placeBid(t, auction.ID, second, 450)

	f.clock.Advance(testGrace)
	result, err := f.svc.Close(context.Background(), auction.ID, nil)
	require.NoError(t, err)
	require.Equal(t, OutcomeClosed, result.Outcome)
	require.Equal(t, second, result.Winner.BidderID)
}

func TestCancelByWinner_Preconditions(t *testing.T) {
	f := newFixture(t)
	auction := f.createAuction(t)
	driver := uuid.New()
	f.placeBid(t, auction.ID, driver, 300)

	t.Run("active_auction_rejected", func(t *testing.T) {
		_, err := f.svc.CancelByWinner(context.Background(), auction.ID, driver)
		require.ErrorIs(t, err, domain.ErrAuctionNotCompleted)
	})

	f.clock.Advance(2 * time.Hour)
	_, err := f.svc.Close(context.Background(), auction.ID, nil)
	require.NoError(t, err)

	t.Run("only_the_winner", func(t *testing.T) {
		_, err := f.svc.CancelByWinner(context.Background(), auction.ID, uuid.New())
		require.ErrorIs(t, err, domain.ErrNotAuthorized)
	})

	t.Run("unknown_auction", func(t *testing.T) {
		_, err := f.svc.CancelByWinner(context.Background(), uuid.New(), driver)
		require.ErrorIs(t, err, domain.ErrAuctionNotFound)
	})
}
