package application

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/mvallespi/cargobid/internal/auction/domain"
	"github.com/stretchr/testify/require"
)

func TestCancelBid_OwnerOnly(t *testing.T) {
	f := newFixture(t)
	auction := f.createAuction(t)
	driver := uuid.New()
	bid := f.placeBid(t, auction.ID, driver, 500)

	_, err := f.svc.CancelBid(context.Background(), bid.ID, uuid.New())
	require.ErrorIs(t, err, domain.ErrNotAuthorized)

	intents, err := f.svc.CancelBid(context.Background(), bid.ID, driver)
	require.NoError(t, err)

	cancelled := intentsOfType(intents, domain.IntentBidCancelled)
	require.Len(t, cancelled, 1)
	require.Equal(t, f.consignor, cancelled[0].RecipientID)

	bids, err := f.store.ListBids(context.Background(), auction.ID)
	require.NoError(t, err)
	require.Empty(t, bids)
}

func TestCancelBid_UnknownBid(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.CancelBid(context.Background(), uuid.New(), uuid.New())
	require.ErrorIs(t, err, domain.ErrBidNotFound)
}

func TestCancelBid_RejectedAfterDeadline(t *testing.T) {
	f := newFixture(t)
	auction := f.createAuction(t)
	driver := uuid.New()
	bid := f.placeBid(t, auction.ID, driver, 500)

	f.clock.Advance(2 * time.Hour)

	_, err := f.svc.CancelBid(context.Background(), bid.ID, driver)
	require.ErrorIs(t, err, domain.ErrAuctionNotActive)
}

func TestCancelBid_WinningBidGuard(t *testing.T) {
	f := newFixture(t)
	auction := f.createAuction(t)
	driver := uuid.New()
	bid := f.placeBid(t, auction.ID, driver, 500)

	// Force the winning flag directly: the guard must hold even if a flag
	// survives into an Active auction.
	tx, err := f.store.Begin(context.Background())
	require.NoError(t, err)
	require.NoError(t, tx.MarkWinningBid(context.Background(), auction.ID, &bid.ID))
	require.NoError(t, tx.Commit(context.Background()))

	_, err = f.svc.CancelBid(context.Background(), bid.ID, driver)
	require.ErrorIs(t, err, domain.ErrCannotCancelWinningBid)
}
