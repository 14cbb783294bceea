// Package dispatch carries notification intents across the engine boundary.
// The engine never retries delivery and never observes its outcome.
package dispatch

import (
	"github.com/mvallespi/cargobid/internal/auction/domain"
	"github.com/mvallespi/cargobid/internal/shared/logger"
	"go.uber.org/zap"
)

var log = logger.GetLogger()

// Dispatcher accepts notification intents for delivery.
type Dispatcher interface {
	Dispatch(intents []domain.NotificationIntent)
}

// LogDispatcher records every intent in the log. Useful on its own in the
// memory backend and as a fallback delivery record.
type LogDispatcher struct{}

func NewLogDispatcher() *LogDispatcher {
	return &LogDispatcher{}
}

func (d *LogDispatcher) Dispatch(intents []domain.NotificationIntent) {
	for _, intent := range intents {
		log.Info("Notification intent",
			zap.String("recipientID", intent.RecipientID.String()),
			zap.String("auctionID", intent.AuctionID.String()),
			zap.String("type", string(intent.Type)),
			zap.Any("payload", intent.Payload),
		)
	}
}
