package application

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mvallespi/cargobid/internal/auction/domain"
)

// AuctionStateDTO exposes an auction with its live bid set to the API layer.
type AuctionStateDTO struct {
	ID              uuid.UUID            `json:"id"`
	CreatedBy       uuid.UUID            `json:"created_by"`
	VehicleType     string               `json:"vehicle_type"`
	Title           string               `json:"title"`
	Description     string               `json:"description"`
	ConsignmentDate time.Time            `json:"consignment_date"`
	StartTime       time.Time            `json:"start_time"`
	EndTime         time.Time            `json:"end_time"`
	Status          domain.AuctionStatus `json:"status"`
	WinnerID        *uuid.UUID           `json:"winner_id,omitempty"`
	WinningBidID    *uuid.UUID           `json:"winning_bid_id,omitempty"`
	Bids            []*domain.Bid        `json:"bids"`
	CreatedAt       time.Time            `json:"created_at"`
	UpdatedAt       time.Time            `json:"updated_at"`
}

// GetAuctionUseCase serves the read side: single auction with bids, listing
// by status, and the audit trail.
type GetAuctionUseCase struct {
	store domain.Store
}

func NewGetAuctionUseCase(store domain.Store) *GetAuctionUseCase {
	return &GetAuctionUseCase{store: store}
}

func (uc *GetAuctionUseCase) Execute(ctx context.Context, auctionID uuid.UUID) (*AuctionStateDTO, error) {
	auction, err := uc.store.GetAuction(ctx, auctionID)
	if err != nil {
		return nil, fmt.Errorf("get auction: failed to get auction %s: %w", auctionID, err)
	}
	bids, err := uc.store.ListBids(ctx, auctionID)
	if err != nil {
		return nil, fmt.Errorf("get auction: failed to list bids for auction %s: %w", auctionID, err)
	}

	return &AuctionStateDTO{
		ID:              auction.ID,
		CreatedBy:       auction.CreatedBy,
		VehicleType:     auction.VehicleType,
		Title:           auction.Title,
		Description:     auction.Description,
		ConsignmentDate: auction.ConsignmentDate,
		StartTime:       auction.StartTime,
		EndTime:         auction.EndTime,
		Status:          auction.Status,
		WinnerID:        auction.WinnerID,
		WinningBidID:    auction.WinningBidID,
		Bids:            bids,
		CreatedAt:       auction.CreatedAt,
		UpdatedAt:       auction.UpdatedAt,
	}, nil
}

func (uc *GetAuctionUseCase) List(ctx context.Context, status domain.AuctionStatus) ([]*domain.Auction, error) {
	return uc.store.ListAuctions(ctx, status)
}

func (uc *GetAuctionUseCase) AuditLog(ctx context.Context, auctionID uuid.UUID) ([]*domain.AuditEntry, error) {
	return uc.store.ListAuditLog(ctx, auctionID)
}
