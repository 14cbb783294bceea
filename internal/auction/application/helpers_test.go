package application

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/mvallespi/cargobid/internal/auction/domain"
	"github.com/mvallespi/cargobid/internal/auction/infra/repository/memory"
	"github.com/stretchr/testify/require"
)

// testClock is a settable domain.Clock.
type testClock struct {
	mu sync.Mutex
	t  time.Time
}

func newTestClock(t time.Time) *testClock {
	return &testClock{t: t}
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

var testBase = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

const testGrace = 24 * time.Hour

func newTestService(store domain.Store, clock domain.Clock) AuctionService {
	return NewAuctionService(store, clock, Config{
		MinAuctionDuration: 5 * time.Minute,
		MaxAuctionDuration: 7 * 24 * time.Hour,
		ReopenGraceWindow:  testGrace,
		SweepBatchSize:     50,
		Policy:             domain.PolicyLowest,
	})
}

type fixture struct {
	svc       AuctionService
	store     *memory.Store
	clock     *testClock
	consignor uuid.UUID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	clock := newTestClock(testBase)
	return &fixture{
		svc:       newTestService(store, clock),
		store:     store,
		clock:     clock,
		consignor: uuid.New(),
	}
}

// createAuction posts a one-hour job starting now.
func (f *fixture) createAuction(t *testing.T) *domain.Auction {
	t.Helper()
	now := f.clock.Now()
	auction, _, err := f.svc.CreateAuction(context.Background(), CreateAuctionDTO{
		CreatedBy:       f.consignor,
		VehicleType:     "flatbed",
		Title:           "Pallets to Rotterdam",
		Description:     "12 pallets, dock delivery",
		ConsignmentDate: now.Add(72 * time.Hour),
		StartTime:       now,
		EndTime:         now.Add(time.Hour),
	})
	require.NoError(t, err)
	return auction
}

func (f *fixture) placeBid(t *testing.T, auctionID, bidderID uuid.UUID, amount float64) *domain.Bid {
	t.Helper()
	bid, _, err := f.svc.PlaceBid(context.Background(), PlaceBidDTO{
		AuctionID: auctionID,
		BidderID:  bidderID,
		Amount:    amount,
	})
	require.NoError(t, err)
	return bid
}

func intentsOfType(intents []domain.NotificationIntent, it domain.IntentType) []domain.NotificationIntent {
	var out []domain.NotificationIntent
	for _, i := range intents {
		if i.Type == it {
			out = append(out, i)
		}
	}
	return out
}

func recipientsOf(intents []domain.NotificationIntent) []uuid.UUID {
	out := make([]uuid.UUID, 0, len(intents))
	for _, i := range intents {
		out = append(out, i.RecipientID)
	}
	return out
}
