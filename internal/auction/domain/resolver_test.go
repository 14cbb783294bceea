package domain

import (
	"math/rand"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func mkBid(amount float64, createdAt time.Time) *Bid {
	return &Bid{
		ID:        uuid.New(),
		AuctionID: uuid.New(),
		BidderID:  uuid.New(),
		Amount:    amount,
		CreatedAt: createdAt,
	}
}

func TestResolveWinner_Lowest(t *testing.T) {
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	b500 := mkBid(500, base)
	b300 := mkBid(300, base.Add(time.Minute))
	b900 := mkBid(900, base.Add(2*time.Minute))

	tests := []struct {
		name   string
		bids   []*Bid
		winner *Bid
	}{
		{
			name:   "empty",
			bids:   nil,
			winner: nil,
		},
		{
			name:   "single",
			bids:   []*Bid{b500},
			winner: b500,
		},
		{
			name:   "lowest_wins",
			bids:   []*Bid{b500, b300, b900},
			winner: b300,
		},
		{
			name:   "non_positive_ignored",
			bids:   []*Bid{mkBid(0, base), mkBid(-10, base), b500},
			winner: b500,
		},
		{
			name:   "all_non_positive",
			bids:   []*Bid{mkBid(0, base), mkBid(-1, base)},
			winner: nil,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := ResolveWinner(tc.bids, PolicyLowest)
			if tc.winner == nil {
				require.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			require.Equal(t, tc.winner.ID, got.ID)
		})
	}
}

func TestResolveWinner_TieBreakByTimestamp(t *testing.T) {
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	early := mkBid(300, base)
	late := mkBid(300, base.Add(time.Second))
	other := mkBid(400, base)

	got := ResolveWinner([]*Bid{late, other, early}, PolicyLowest)
	require.NotNil(t, got)
	require.Equal(t, early.ID, got.ID)
}

func TestResolveWinner_DeterministicUnderShuffling(t *testing.T) {
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	bids := []*Bid{
		mkBid(500, base),
		mkBid(300, base.Add(time.Minute)),
		mkBid(300, base.Add(time.Minute)), // exact tie, falls through to id
		mkBid(700, base.Add(2*time.Minute)),
		mkBid(450, base.Add(3*time.Minute)),
	}

	first := ResolveWinner(bids, PolicyLowest)
	require.NotNil(t, first)

	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 50; i++ {
		shuffled := append([]*Bid(nil), bids...)
		rng.Shuffle(len(shuffled), func(a, b int) {
			shuffled[a], shuffled[b] = shuffled[b], shuffled[a]
		})
		got := ResolveWinner(shuffled, PolicyLowest)
		require.NotNil(t, got)
		require.Equal(t, first.ID, got.ID, "winner changed under input reordering")
	}
}

func TestResolveWinner_LowestUnique(t *testing.T) {
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	tied1 := mkBid(300, base)
	tied2 := mkBid(300, base.Add(time.Second))
	unique := mkBid(450, base.Add(2*time.Second))

	t.Run("tied_lowest_disqualified", func(t *testing.T) {
		got := ResolveWinner([]*Bid{tied1, tied2, unique}, PolicyLowestUnique)
		require.NotNil(t, got)
		require.Equal(t, unique.ID, got.ID)
	})

	t.Run("no_unique_amount", func(t *testing.T) {
		other1 := mkBid(450, base)
		got := ResolveWinner([]*Bid{tied1, tied2, unique, other1}, PolicyLowestUnique)
		require.Nil(t, got)
	})

	t.Run("lowest_already_unique", func(t *testing.T) {
		got := ResolveWinner([]*Bid{mkBid(200, base), tied1, tied2}, PolicyLowestUnique)
		require.NotNil(t, got)
		require.Equal(t, float64(200), got.Amount)
	})
}
