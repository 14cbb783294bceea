package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// AuctionStatus represents the lifecycle state of a transport job auction.
type AuctionStatus string

const (
	StatusActive    AuctionStatus = "active"
	StatusCompleted AuctionStatus = "completed"
	StatusCancelled AuctionStatus = "cancelled"
)

// Auction is a transport job open for reverse bidding: the consignor posts
// it, drivers underbid each other, the lowest live bid at closure wins.
// WinnerID and WinningBidID are set together or not at all.
type Auction struct {
	ID              uuid.UUID
	CreatedBy       uuid.UUID // consignor
	VehicleType     string
	Title           string
	Description     string
	ConsignmentDate time.Time
	StartTime       time.Time
	EndTime         time.Time
	Status          AuctionStatus
	WinnerID        *uuid.UUID
	WinningBidID    *uuid.UUID
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// NewAuction creates an Active auction after validating the bidding window
// against the configured duration bounds.
func NewAuction(id, createdBy uuid.UUID, vehicleType, title, description string,
	consignmentDate, startTime, endTime time.Time, minDuration, maxDuration time.Duration) (*Auction, error) {

	duration := endTime.Sub(startTime)
	if duration <= 0 {
		return nil, fmt.Errorf("end time %s is not after start time %s: %w", endTime, startTime, ErrInvalidDuration)
	}
	if duration < minDuration || duration > maxDuration {
		return nil, fmt.Errorf("duration %s outside [%s, %s]: %w", duration, minDuration, maxDuration, ErrInvalidDuration)
	}

	return &Auction{
		ID:              id,
		CreatedBy:       createdBy,
		VehicleType:     vehicleType,
		Title:           title,
		Description:     description,
		ConsignmentDate: consignmentDate,
		StartTime:       startTime,
		EndTime:         endTime,
		Status:          StatusActive,
	}, nil
}

// IsExpired is the single expiry predicate for the whole engine; nothing
// else compares EndTime against a clock.
func (a *Auction) IsExpired(now time.Time) bool {
	return !now.Before(a.EndTime)
}

// SetWinner points the auction at its winning bid.
func (a *Auction) SetWinner(winnerID, winningBidID uuid.UUID) {
	a.WinnerID = &winnerID
	a.WinningBidID = &winningBidID
}

// ClearWinner removes both winner fields together, preserving the invariant
// that they are only ever set as a pair.
func (a *Auction) ClearWinner() {
	a.WinnerID = nil
	a.WinningBidID = nil
}
