package application

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mvallespi/cargobid/internal/auction/domain"
	"go.uber.org/zap"
)

// CreateAuctionDTO is the input for posting a transport job.
type CreateAuctionDTO struct {
	CreatedBy       uuid.UUID
	VehicleType     string
	Title           string
	Description     string
	ConsignmentDate time.Time
	StartTime       time.Time
	EndTime         time.Time
}

type CreateAuctionUseCase struct {
	store       domain.Store
	clock       domain.Clock
	minDuration time.Duration
	maxDuration time.Duration
}

func NewCreateAuctionUseCase(store domain.Store, clock domain.Clock, minDuration, maxDuration time.Duration) *CreateAuctionUseCase {
	return &CreateAuctionUseCase{
		store:       store,
		clock:       clock,
		minDuration: minDuration,
		maxDuration: maxDuration,
	}
}

func (uc *CreateAuctionUseCase) Execute(ctx context.Context, cmd CreateAuctionDTO) (*domain.Auction, []domain.NotificationIntent, error) {
	now := uc.clock.Now()

	auction, err := domain.NewAuction(uuid.New(), cmd.CreatedBy,
		cmd.VehicleType, cmd.Title, cmd.Description,
		cmd.ConsignmentDate, cmd.StartTime, cmd.EndTime,
		uc.minDuration, uc.maxDuration)
	if err != nil {
		return nil, nil, fmt.Errorf("create auction: %w", err)
	}
	auction.CreatedAt = now
	auction.UpdatedAt = now

	err = runTx(ctx, uc.store, func(tx domain.Tx) error {
		if err := tx.InsertAuction(ctx, auction); err != nil {
			return fmt.Errorf("create auction: failed to insert auction: %w", err)
		}
		entry := domain.NewAuditEntry(auction.ID, cmd.CreatedBy, domain.ActionAuctionCreated, map[string]any{
			"title":    auction.Title,
			"end_time": auction.EndTime,
		}, now)
		if err := tx.AppendAudit(ctx, entry); err != nil {
			return fmt.Errorf("create auction: failed to append audit entry: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	log.Info("Auction created",
		zap.String("auctionID", auction.ID.String()),
		zap.String("consignorID", cmd.CreatedBy.String()),
		zap.Time("endTime", auction.EndTime),
	)

	return auction, nil, nil
}
