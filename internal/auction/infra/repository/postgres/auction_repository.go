package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/mvallespi/cargobid/internal/auction/domain"
)

const auctionColumns = `id, created_by, vehicle_type, title, description, consignment_date,
       start_time, end_time, status, winner_id, winning_bid_id, created_at, updated_at`

func (s *Store) GetAuction(ctx context.Context, id uuid.UUID) (*domain.Auction, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+auctionColumns+` FROM auctions WHERE id = $1`, id)
	return scanAuction(row)
}

func (s *Store) ListAuctions(ctx context.Context, status domain.AuctionStatus) ([]*domain.Auction, error) {
	query := `SELECT ` + auctionColumns + ` FROM auctions ORDER BY created_at`
	args := []any{}
	if status != "" {
		query = `SELECT ` + auctionColumns + ` FROM auctions WHERE status = $1 ORDER BY created_at`
		args = append(args, status)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var auctions []*domain.Auction
	for rows.Next() {
		a, err := scanAuction(rows)
		if err != nil {
			return nil, err
		}
		auctions = append(auctions, a)
	}
	return auctions, rows.Err()
}

func (s *Store) ListExpired(ctx context.Context, now time.Time, limit int) ([]uuid.UUID, error) {
	rows, err := s.pool.Query(ctx, `
        SELECT id FROM auctions
        WHERE status = $1 AND end_time <= $2
        ORDER BY end_time ASC
        LIMIT $3
    `, domain.StatusActive, now, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (t *tx) GetAuctionForUpdate(ctx context.Context, id uuid.UUID) (*domain.Auction, error) {
	row := t.tx.QueryRow(ctx,
		`SELECT `+auctionColumns+` FROM auctions WHERE id = $1 FOR UPDATE`, id)
	return scanAuction(row)
}

func (t *tx) InsertAuction(ctx context.Context, a *domain.Auction) error {
	_, err := t.tx.Exec(ctx, `
        INSERT INTO auctions (id, created_by, vehicle_type, title, description, consignment_date,
                              start_time, end_time, status, winner_id, winning_bid_id, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
    `,
		a.ID, a.CreatedBy, a.VehicleType, a.Title, a.Description, a.ConsignmentDate,
		a.StartTime, a.EndTime, a.Status, a.WinnerID, a.WinningBidID, a.CreatedAt, a.UpdatedAt,
	)
	return err
}

// UpdateAuction writes the mutable fields guarded by the expected status.
// RowsAffected == 0 means another caller transitioned the row first.
func (t *tx) UpdateAuction(ctx context.Context, a *domain.Auction, expect domain.AuctionStatus) (bool, error) {
	ct, err := t.tx.Exec(ctx, `
        UPDATE auctions
        SET status = $1, winner_id = $2, winning_bid_id = $3, end_time = $4, updated_at = $5
        WHERE id = $6 AND status = $7
    `,
		a.Status, a.WinnerID, a.WinningBidID, a.EndTime, a.UpdatedAt,
		a.ID, expect,
	)
	if err != nil {
		return false, err
	}
	return ct.RowsAffected() > 0, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAuction(row rowScanner) (*domain.Auction, error) {
	a := &domain.Auction{}
	err := row.Scan(
		&a.ID,
		&a.CreatedBy,
		&a.VehicleType,
		&a.Title,
		&a.Description,
		&a.ConsignmentDate,
		&a.StartTime,
		&a.EndTime,
		&a.Status,
		&a.WinnerID,
		&a.WinningBidID,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAuctionNotFound
		}
		return nil, err
	}
	return a, nil
}
