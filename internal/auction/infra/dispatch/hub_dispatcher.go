package dispatch

import (
	"encoding/json"

	"github.com/mvallespi/cargobid/internal/auction/domain"
	"github.com/mvallespi/cargobid/internal/shared/websocket"
	"go.uber.org/zap"
)

// HubDispatcher pushes intents to the recipient's websocket connections.
// Delivery is best effort; users without a connection simply miss the push.
type HubDispatcher struct {
	hub *websocket.Hub
}

func NewHubDispatcher(hub *websocket.Hub) *HubDispatcher {
	return &HubDispatcher{hub: hub}
}

func (d *HubDispatcher) Dispatch(intents []domain.NotificationIntent) {
	for _, intent := range intents {
		data, err := json.Marshal(intent)
		if err != nil {
			log.Error("Failed to marshal notification intent",
				zap.String("recipientID", intent.RecipientID.String()),
				zap.String("type", string(intent.Type)),
				zap.Error(err),
			)
			continue
		}
		d.hub.SendToUser(intent.RecipientID.String(), data)
	}
}
