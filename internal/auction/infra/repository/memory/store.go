// Package memory provides an in-memory domain.Store used by the engine
// tests and the memory backend of the server binary. A transaction holds the
// store lock from Begin until Commit or Rollback, which gives the same
// single-writer-per-auction guarantee the postgres row CAS gives.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/mvallespi/cargobid/internal/auction/domain"
)

type Store struct {
	mu       sync.Mutex
	auctions map[uuid.UUID]*domain.Auction
	bids     map[uuid.UUID]*domain.Bid
	audit    []*domain.AuditEntry
}

func NewStore() *Store {
	return &Store{
		auctions: make(map[uuid.UUID]*domain.Auction),
		bids:     make(map[uuid.UUID]*domain.Bid),
	}
}

func (s *Store) Begin(ctx context.Context) (domain.Tx, error) {
	s.mu.Lock()
	return &tx{
		store:    s,
		auctions: copyAuctions(s.auctions),
		bids:     copyBids(s.bids),
		auditLen: len(s.audit),
	}, nil
}

func (s *Store) GetAuction(ctx context.Context, id uuid.UUID) (*domain.Auction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.auctions[id]
	if !ok {
		return nil, domain.ErrAuctionNotFound
	}
	return copyAuction(a), nil
}

func (s *Store) ListAuctions(ctx context.Context, status domain.AuctionStatus) ([]*domain.Auction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []*domain.Auction
	for _, a := range s.auctions {
		if status == "" || a.Status == status {
			out = append(out, copyAuction(a))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (s *Store) ListExpired(ctx context.Context, now time.Time, limit int) ([]uuid.UUID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var expired []*domain.Auction
	for _, a := range s.auctions {
		if a.Status == domain.StatusActive && a.IsExpired(now) {
			expired = append(expired, a)
		}
	}
	sort.Slice(expired, func(i, j int) bool { return expired[i].EndTime.Before(expired[j].EndTime) })

	if limit > 0 && len(expired) > limit {
		expired = expired[:limit]
	}
	ids := make([]uuid.UUID, 0, len(expired))
	for _, a := range expired {
		ids = append(ids, a.ID)
	}
	return ids, nil
}

func (s *Store) ListBids(ctx context.Context, auctionID uuid.UUID) ([]*domain.Bid, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return listBids(s.bids, auctionID), nil
}

func (s *Store) ListAuditLog(ctx context.Context, auctionID uuid.UUID) ([]*domain.AuditEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []*domain.AuditEntry
	for _, e := range s.audit {
		if e.AuctionID == auctionID {
			out = append(out, e)
		}
	}
	return out, nil
}

// tx mutates the store maps directly and keeps a pre-image for rollback.
type tx struct {
	store    *Store
	auctions map[uuid.UUID]*domain.Auction
	bids     map[uuid.UUID]*domain.Bid
	auditLen int
	done     bool
}

func (t *tx) finish() error {
	if t.done {
		return fmt.Errorf("memory store: transaction already finished")
	}
	t.done = true
	t.store.mu.Unlock()
	return nil
}

func (t *tx) Commit(ctx context.Context) error {
	return t.finish()
}

func (t *tx) Rollback(ctx context.Context) error {
	if t.done {
		return fmt.Errorf("memory store: transaction already finished")
	}
	t.store.auctions = t.auctions
	t.store.bids = t.bids
	t.store.audit = t.store.audit[:t.auditLen]
	return t.finish()
}

func (t *tx) GetAuctionForUpdate(ctx context.Context, id uuid.UUID) (*domain.Auction, error) {
	a, ok := t.store.auctions[id]
	if !ok {
		return nil, domain.ErrAuctionNotFound
	}
	return copyAuction(a), nil
}

func (t *tx) InsertAuction(ctx context.Context, a *domain.Auction) error {
	if _, exists := t.store.auctions[a.ID]; exists {
		return fmt.Errorf("memory store: auction %s already exists", a.ID)
	}
	t.store.auctions[a.ID] = copyAuction(a)
	return nil
}

func (t *tx) UpdateAuction(ctx context.Context, a *domain.Auction, expect domain.AuctionStatus) (bool, error) {
	current, ok := t.store.auctions[a.ID]
	if !ok {
		return false, domain.ErrAuctionNotFound
	}
	if current.Status != expect {
		return false, nil
	}
	t.store.auctions[a.ID] = copyAuction(a)
	return true, nil
}

func (t *tx) GetBid(ctx context.Context, id uuid.UUID) (*domain.Bid, error) {
	b, ok := t.store.bids[id]
	if !ok {
		return nil, domain.ErrBidNotFound
	}
	cp := *b
	return &cp, nil
}

func (t *tx) ListBids(ctx context.Context, auctionID uuid.UUID) ([]*domain.Bid, error) {
	return listBids(t.store.bids, auctionID), nil
}

func (t *tx) UpsertBid(ctx context.Context, b *domain.Bid) error {
	// Mirror the postgres unique index on (auction_id, bidder_id).
	for id, existing := range t.store.bids {
		if existing.AuctionID == b.AuctionID && existing.BidderID == b.BidderID && id != b.ID {
			delete(t.store.bids, id)
		}
	}
	cp := *b
	t.store.bids[b.ID] = &cp
	return nil
}

func (t *tx) DeleteBid(ctx context.Context, id uuid.UUID) error {
	if _, ok := t.store.bids[id]; !ok {
		return domain.ErrBidNotFound
	}
	delete(t.store.bids, id)
	return nil
}

func (t *tx) MarkWinningBid(ctx context.Context, auctionID uuid.UUID, winningBidID *uuid.UUID) error {
	for _, b := range t.store.bids {
		if b.AuctionID != auctionID {
			continue
		}
		b.IsWinningBid = winningBidID != nil && b.ID == *winningBidID
	}
	return nil
}

func (t *tx) AppendAudit(ctx context.Context, e *domain.AuditEntry) error {
	cp := *e
	t.store.audit = append(t.store.audit, &cp)
	return nil
}

func listBids(bids map[uuid.UUID]*domain.Bid, auctionID uuid.UUID) []*domain.Bid {
	var out []*domain.Bid
	for _, b := range bids {
		if b.AuctionID == auctionID {
			cp := *b
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}

func copyAuction(a *domain.Auction) *domain.Auction {
	cp := *a
	if a.WinnerID != nil {
		w := *a.WinnerID
		cp.WinnerID = &w
	}
	if a.WinningBidID != nil {
		w := *a.WinningBidID
		cp.WinningBidID = &w
	}
	return &cp
}

func copyAuctions(src map[uuid.UUID]*domain.Auction) map[uuid.UUID]*domain.Auction {
	dst := make(map[uuid.UUID]*domain.Auction, len(src))
	for id, a := range src {
		dst[id] = copyAuction(a)
	}
	return dst
}

func copyBids(src map[uuid.UUID]*domain.Bid) map[uuid.UUID]*domain.Bid {
	dst := make(map[uuid.UUID]*domain.Bid, len(src))
	for id, b := range src {
		cp := *b
		dst[id] = &cp
	}
	return dst
}
