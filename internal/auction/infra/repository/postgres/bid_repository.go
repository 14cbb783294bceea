package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/mvallespi/cargobid/internal/auction/domain"
)

const bidColumns = `id, auction_id, bidder_id, amount, is_winning_bid, created_at`

func (s *Store) ListBids(ctx context.Context, auctionID uuid.UUID) ([]*domain.Bid, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+bidColumns+` FROM bids WHERE auction_id = $1 ORDER BY created_at ASC`, auctionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectBids(rows)
}

func (t *tx) ListBids(ctx context.Context, auctionID uuid.UUID) ([]*domain.Bid, error) {
	rows, err := t.tx.Query(ctx,
		`SELECT `+bidColumns+` FROM bids WHERE auction_id = $1 ORDER BY created_at ASC`, auctionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectBids(rows)
}

func (t *tx) GetBid(ctx context.Context, id uuid.UUID) (*domain.Bid, error) {
	bid := &domain.Bid{}
	err := t.tx.QueryRow(ctx,
		`SELECT `+bidColumns+` FROM bids WHERE id = $1`, id).Scan(
		&bid.ID,
		&bid.AuctionID,
		&bid.BidderID,
		&bid.Amount,
		&bid.IsWinningBid,
		&bid.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrBidNotFound
		}
		return nil, err
	}
	return bid, nil
}

// UpsertBid relies on the unique index on (auction_id, bidder_id): a repeat
// bid from the same bidder replaces the live row in place.
func (t *tx) UpsertBid(ctx context.Context, b *domain.Bid) error {
	_, err := t.tx.Exec(ctx, `
        INSERT INTO bids (id, auction_id, bidder_id, amount, is_winning_bid, created_at)
        VALUES ($1, $2, $3, $4, $5, $6)
        ON CONFLICT (auction_id, bidder_id) DO UPDATE
        SET amount = EXCLUDED.amount,
            is_winning_bid = EXCLUDED.is_winning_bid,
            created_at = EXCLUDED.created_at
    `,
		b.ID, b.AuctionID, b.BidderID, b.Amount, b.IsWinningBid, b.CreatedAt,
	)
	return err
}

func (t *tx) DeleteBid(ctx context.Context, id uuid.UUID) error {
	ct, err := t.tx.Exec(ctx, `DELETE FROM bids WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return domain.ErrBidNotFound
	}
	return nil
}

func (t *tx) MarkWinningBid(ctx context.Context, auctionID uuid.UUID, winningBidID *uuid.UUID) error {
	if winningBidID == nil {
		_, err := t.tx.Exec(ctx,
			`UPDATE bids SET is_winning_bid = FALSE WHERE auction_id = $1`, auctionID)
		return err
	}
	_, err := t.tx.Exec(ctx,
		`UPDATE bids SET is_winning_bid = (id = $2) WHERE auction_id = $1`, auctionID, *winningBidID)
	return err
}

func collectBids(rows pgx.Rows) ([]*domain.Bid, error) {
	var bids []*domain.Bid
	for rows.Next() {
		bid := &domain.Bid{}
		err := rows.Scan(
			&bid.ID,
			&bid.AuctionID,
			&bid.BidderID,
			&bid.Amount,
			&bid.IsWinningBid,
			&bid.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		bids = append(bids, bid)
	}
	return bids, rows.Err()
}
