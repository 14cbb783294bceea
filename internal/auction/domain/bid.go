package domain

import (
	"time"

	"github.com/google/uuid"
)

// Bid is a driver's price offer for an auction. A bidder holds at most one
// live bid per auction; bidding again replaces the amount and timestamp in
// place. IsWinningBid is derived, recomputed on every closure.
type Bid struct {
	ID           uuid.UUID
	AuctionID    uuid.UUID
	BidderID     uuid.UUID
	Amount       float64
	IsWinningBid bool
	CreatedAt    time.Time
}

// NewBid creates a new Bid instance.
func NewBid(id, auctionID, bidderID uuid.UUID, amount float64, createdAt time.Time) *Bid {
	return &Bid{
		ID:        id,
		AuctionID: auctionID,
		BidderID:  bidderID,
		Amount:    amount,
		CreatedAt: createdAt,
	}
}
