package memory

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/mvallespi/cargobid/internal/auction/domain"
	"github.com/stretchr/testify/require"
)

func seedAuction(t *testing.T, s *Store, status domain.AuctionStatus, endTime time.Time) *domain.Auction {
	t.Helper()
	a := &domain.Auction{
		ID:        uuid.New(),
		CreatedBy: uuid.New(),
		Title:     "job",
		StartTime: endTime.Add(-time.Hour),
		EndTime:   endTime,
		Status:    status,
	}
	tx, err := s.Begin(context.Background())
	require.NoError(t, err)
	require.NoError(t, tx.InsertAuction(context.Background(), a))
	require.NoError(t, tx.Commit(context.Background()))
	return a
}

func TestStore_StatusGuardIsCompareAndSwap(t *testing.T) {
	s := NewStore()
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	a := seedAuction(t, s, domain.StatusActive, now)

	// First transition wins.
	tx, err := s.Begin(context.Background())
	require.NoError(t, err)
	a.Status = domain.StatusCompleted
	ok, err := tx.UpdateAuction(context.Background(), a, domain.StatusActive)
	require.NoError(t, err)
	require.True(t, ok)
	require.NoError(t, tx.Commit(context.Background()))

	// Second transition expecting Active misses the guard.
	tx, err = s.Begin(context.Background())
	require.NoError(t, err)
	a.Status = domain.StatusCancelled
	ok, err = tx.UpdateAuction(context.Background(), a, domain.StatusActive)
	require.NoError(t, err)
	require.False(t, ok)
	require.NoError(t, tx.Rollback(context.Background()))

	stored, err := s.GetAuction(context.Background(), a.ID)
	require.NoError(t, err)
	require.Equal(t, domain.StatusCompleted, stored.Status)
}

func TestStore_RollbackRestoresPreImage(t *testing.T) {
	s := NewStore()
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	a := seedAuction(t, s, domain.StatusActive, now)

	bid := domain.NewBid(uuid.New(), a.ID, uuid.New(), 300, now)

	tx, err := s.Begin(context.Background())
	require.NoError(t, err)
	require.NoError(t, tx.UpsertBid(context.Background(), bid))
	require.NoError(t, tx.AppendAudit(context.Background(), domain.NewSystemAuditEntry(
		a.ID, domain.ActionBidPlaced, nil, now)))
	require.NoError(t, tx.Rollback(context.Background()))

	bids, err := s.ListBids(context.Background(), a.ID)
	require.NoError(t, err)
	require.Empty(t, bids)

	entries, err := s.ListAuditLog(context.Background(), a.ID)
	require.NoError(t, err)
	require.Empty(t, entries)
}

func TestStore_ListExpired(t *testing.T) {
	s := NewStore()
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	past1 := seedAuction(t, s, domain.StatusActive, now.Add(-2*time.Hour))
	past2 := seedAuction(t, s, domain.StatusActive, now.Add(-time.Hour))
	seedAuction(t, s, domain.StatusActive, now.Add(time.Hour))       // not yet due
	seedAuction(t, s, domain.StatusCompleted, now.Add(-3*time.Hour)) // wrong status

	ids, err := s.ListExpired(context.Background(), now, 50)
	require.NoError(t, err)
	require.Equal(t, []uuid.UUID{past1.ID, past2.ID}, ids, "oldest deadline first")

	ids, err = s.ListExpired(context.Background(), now, 1)
	require.NoError(t, err)
	require.Equal(t, []uuid.UUID{past1.ID}, ids)
}

func TestStore_UpsertBidReplaces(t *testing.T) {
	s := NewStore()
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	a := seedAuction(t, s, domain.StatusActive, now.Add(time.Hour))

	bid := domain.NewBid(uuid.New(), a.ID, uuid.New(), 500, now)

	tx, err := s.Begin(context.Background())
	require.NoError(t, err)
	require.NoError(t, tx.UpsertBid(context.Background(), bid))
	replacement := *bid
	replacement.Amount = 450
	require.NoError(t, tx.UpsertBid(context.Background(), &replacement))
	require.NoError(t, tx.Commit(context.Background()))

	bids, err := s.ListBids(context.Background(), a.ID)
	require.NoError(t, err)
	require.Len(t, bids, 1)
	require.Equal(t, float64(450), bids[0].Amount)
}

func TestStore_MarkWinningBid(t *testing.T) {
	s := NewStore()
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	a := seedAuction(t, s, domain.StatusActive, now.Add(time.Hour))

	b1 := domain.NewBid(uuid.New(), a.ID, uuid.New(), 500, now)
	b2 := domain.NewBid(uuid.New(), a.ID, uuid.New(), 300, now)

	tx, err := s.Begin(context.Background())
	require.NoError(t, err)
	require.NoError(t, tx.UpsertBid(context.Background(), b1))
	require.NoError(t, tx.UpsertBid(context.Background(), b2))
	require.NoError(t, tx.MarkWinningBid(context.Background(), a.ID, &b2.ID))
	require.NoError(t, tx.Commit(context.Background()))

	bids, err := s.ListBids(context.Background(), a.ID)
	require.NoError(t, err)
	for _, b := range bids {
		require.Equal(t, b.ID == b2.ID, b.IsWinningBid)
	}

	// nil clears every flag.
	tx, err = s.Begin(context.Background())
	require.NoError(t, err)
	require.NoError(t, tx.MarkWinningBid(context.Background(), a.ID, nil))
	require.NoError(t, tx.Commit(context.Background()))

	bids, err = s.ListBids(context.Background(), a.ID)
	require.NoError(t, err)
	for _, b := range bids {
		require.False(t, b.IsWinningBid)
	}
}
