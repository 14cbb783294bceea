package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/mvallespi/cargobid/internal/auction/domain"
)

// AppendAudit inserts an audit row; the table has no update or delete paths.
func (t *tx) AppendAudit(ctx context.Context, e *domain.AuditEntry) error {
	_, err := t.tx.Exec(ctx, `
        INSERT INTO audit_log (auction_id, actor_id, action, details, created_at)
        VALUES ($1, $2, $3, $4, $5)
    `,
		e.AuctionID, e.ActorID, e.Action, e.Details, e.CreatedAt,
	)
	return err
}

func (s *Store) ListAuditLog(ctx context.Context, auctionID uuid.UUID) ([]*domain.AuditEntry, error) {
	rows, err := s.pool.Query(ctx, `
        SELECT auction_id, actor_id, action, details, created_at
        FROM audit_log
        WHERE auction_id = $1
        ORDER BY created_at ASC, id ASC
    `, auctionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*domain.AuditEntry
	for rows.Next() {
		e := &domain.AuditEntry{}
		err := rows.Scan(
			&e.AuctionID,
			&e.ActorID,
			&e.Action,
			&e.Details,
			&e.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
