package domain

import "github.com/google/uuid"

// IntentType tags a notification intent.
type IntentType string

const (
	IntentNewBid              IntentType = "new_bid"
	IntentOutbid              IntentType = "outbid"
	IntentBidCancelled        IntentType = "bid_cancelled"
	IntentWinnerDetermined    IntentType = "winner_determined"
	IntentWinnerChanged       IntentType = "winner_changed"
	IntentAuctionCompleted    IntentType = "auction_completed"
	IntentAuctionEndedNoWin   IntentType = "auction_ended_no_winner"
	IntentAuctionEndedNotWon  IntentType = "auction_ended_not_won"
	IntentAuctionCancelled    IntentType = "auction_cancelled"
	IntentAuctionReopened     IntentType = "auction_reopened"
)

// NotificationIntent describes who should be told what. The engine emits
// these; delivery belongs entirely to the external dispatcher and is never
// awaited or retried here.
type NotificationIntent struct {
	RecipientID uuid.UUID      `json:"recipient_id"`
	AuctionID   uuid.UUID      `json:"auction_id"`
	Type        IntentType     `json:"type"`
	Payload     map[string]any `json:"payload,omitempty"`
}

// NewIntent is a small constructor to keep call sites one line.
func NewIntent(recipientID, auctionID uuid.UUID, t IntentType, payload map[string]any) NotificationIntent {
	return NotificationIntent{
		RecipientID: recipientID,
		AuctionID:   auctionID,
		Type:        t,
		Payload:     payload,
	}
}
