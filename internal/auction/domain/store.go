package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Store is the persistence port of the engine. Mutations go through a Tx;
// the auction row plus its bid set is the unit of mutual exclusion, enforced
// by GetAuctionForUpdate (row lock for the life of the tx) and by the status
// guard on UpdateAuction (compare-and-swap).
type Store interface {
	Begin(ctx context.Context) (Tx, error)

	GetAuction(ctx context.Context, id uuid.UUID) (*Auction, error)
	ListAuctions(ctx context.Context, status AuctionStatus) ([]*Auction, error)
	// ListExpired returns ids of Active auctions with EndTime <= now, at most
	// limit of them, oldest deadline first.
	ListExpired(ctx context.Context, now time.Time, limit int) ([]uuid.UUID, error)
	ListBids(ctx context.Context, auctionID uuid.UUID) ([]*Bid, error)
	ListAuditLog(ctx context.Context, auctionID uuid.UUID) ([]*AuditEntry, error)
}

// Tx is a single transaction against the store. Exactly one of Commit or
// Rollback must be called.
type Tx interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error

	// GetAuctionForUpdate loads the auction and locks its row until the tx
	// finishes. Returns ErrAuctionNotFound when absent.
	GetAuctionForUpdate(ctx context.Context, id uuid.UUID) (*Auction, error)
	InsertAuction(ctx context.Context, a *Auction) error
	// UpdateAuction writes the full auction row only while the stored status
	// still equals expect. Returns false when the guard misses, meaning a
	// concurrent transition already won.
	UpdateAuction(ctx context.Context, a *Auction, expect AuctionStatus) (bool, error)

	GetBid(ctx context.Context, id uuid.UUID) (*Bid, error)
	ListBids(ctx context.Context, auctionID uuid.UUID) ([]*Bid, error)
	// UpsertBid inserts the bid or, when the bidder already holds a live bid
	// on the auction, replaces its amount and timestamp in place.
	UpsertBid(ctx context.Context, b *Bid) error
	DeleteBid(ctx context.Context, id uuid.UUID) error
	// MarkWinningBid sets IsWinningBid on exactly the given bid and clears it
	// on every other bid of the auction; nil clears all flags.
	MarkWinningBid(ctx context.Context, auctionID uuid.UUID, winningBidID *uuid.UUID) error

	AppendAudit(ctx context.Context, e *AuditEntry) error
}
