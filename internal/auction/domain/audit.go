package domain

import (
	"time"

	"github.com/google/uuid"
)

// AuditAction tags an audit entry with the transition it records.
type AuditAction string

const (
	ActionAuctionCreated   AuditAction = "auction_created"
	ActionBidPlaced        AuditAction = "bid_placed"
	ActionBidReplaced      AuditAction = "bid_replaced"
	ActionBidCancelled     AuditAction = "bid_cancelled"
	ActionAuctionCompleted AuditAction = "auction_completed"
	ActionAuctionCancelled AuditAction = "auction_cancelled"
	ActionWinnerReassigned AuditAction = "winner_reassigned"
	ActionAuctionReopened  AuditAction = "auction_reopened"
)

// AuditEntry is an append-only record of a state transition. ActorID is nil
// for system-triggered transitions (the expiry sweep).
type AuditEntry struct {
	AuctionID uuid.UUID
	ActorID   *uuid.UUID
	Action    AuditAction
	Details   map[string]any
	CreatedAt time.Time
}

// NewAuditEntry builds an entry for a user-initiated transition.
func NewAuditEntry(auctionID, actorID uuid.UUID, action AuditAction, details map[string]any, at time.Time) *AuditEntry {
	return &AuditEntry{
		AuctionID: auctionID,
		ActorID:   &actorID,
		Action:    action,
		Details:   details,
		CreatedAt: at,
	}
}

// NewSystemAuditEntry builds an entry with no actor.
func NewSystemAuditEntry(auctionID uuid.UUID, action AuditAction, details map[string]any, at time.Time) *AuditEntry {
	return &AuditEntry{
		AuctionID: auctionID,
		Action:    action,
		Details:   details,
		CreatedAt: at,
	}
}
