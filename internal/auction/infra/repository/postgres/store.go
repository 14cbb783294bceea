// Package postgres implements domain.Store on pgx. The status guard on
// UpdateAuction is a conditional UPDATE checked through RowsAffected, and
// GetAuctionForUpdate locks the auction row for the life of the transaction,
// so concurrent transitions on the same auction serialize at the database.
package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mvallespi/cargobid/internal/auction/domain"
)

type Store struct {
	pool *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

func (s *Store) Begin(ctx context.Context) (domain.Tx, error) {
	pgtx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, fmt.Errorf("postgres store: failed to begin transaction: %w", err)
	}
	return &tx{tx: pgtx}, nil
}

type tx struct {
	tx pgx.Tx
}

func (t *tx) Commit(ctx context.Context) error {
	return t.tx.Commit(ctx)
}

func (t *tx) Rollback(ctx context.Context) error {
	return t.tx.Rollback(ctx)
}
