package websocket

import (
	"context"
	"time"

	"github.com/gofiber/websocket/v2"
	"github.com/mvallespi/cargobid/internal/shared/logger"
	"go.uber.org/zap"
)

var log = logger.GetLogger()

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	maxMessageSize = 512
)

// Hub keeps the client registry and pushes notifications. Clients are
// grouped by the user id they authenticated as; the engine addresses every
// intent to one recipient, so delivery is a per-user broadcast.
type Hub struct {
	clients    map[string]map[*Client]bool
	broadcast  chan *Message
	register   chan *Client
	unregister chan *Client
}

// Client represents one websocket connection for one user.
type Client struct {
	Hub  *Hub
	Conn *websocket.Conn
	// Buffered channel of outbound messages.
	Send   chan []byte
	UserID string
	ID     string
}

type Message struct {
	UserID string
	Data   []byte
}

func NewHub() *Hub {
	return &Hub{
		broadcast:  make(chan *Message, 64),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[string]map[*Client]bool),
	}
}

// Run starts the hub listening on its channels until the context ends.
func (h *Hub) Run(ctx context.Context) {
	log.Info("WebSocket hub started")
	for {
		select {
		case <-ctx.Done():
			log.Info("WebSocket hub shutting down")
			return

		case client := <-h.register:
			if _, ok := h.clients[client.UserID]; !ok {
				h.clients[client.UserID] = make(map[*Client]bool)
			}
			h.clients[client.UserID][client] = true
			log.Info("Client registered",
				zap.String("clientID", client.ID),
				zap.String("userID", client.UserID),
			)

		case client := <-h.unregister:
			if clients, ok := h.clients[client.UserID]; ok {
				if _, ok := clients[client]; ok {
					delete(clients, client)
					close(client.Send)
					if len(clients) == 0 {
						delete(h.clients, client.UserID)
					}
					log.Info("Client unregistered",
						zap.String("clientID", client.ID),
						zap.String("userID", client.UserID),
					)
				}
			}

		case message := <-h.broadcast:
			for client := range h.clients[message.UserID] {
				select {
				case client.Send <- message.Data:
				default:
					// Client is not draining its queue; drop it.
					close(client.Send)
					delete(h.clients[message.UserID], client)
					log.Warn("Failed to send message to client, unregistering",
						zap.String("clientID", client.ID),
						zap.String("userID", client.UserID),
					)
				}
			}
		}
	}
}

// RegisterClient registers a new client in the hub.
func (h *Hub) RegisterClient(client *Client) {
	select {
	case h.register <- client:
	default:
		log.Error("Register channel is full, client registration failed",
			zap.String("clientID", client.ID),
			zap.String("userID", client.UserID),
		)
		_ = client.Conn.Close()
	}
}

// UnregisterClient removes a client from the hub.
func (h *Hub) UnregisterClient(client *Client) {
	select {
	case h.unregister <- client:
	default:
		log.Error("Unregister channel is full, client unregistration failed",
			zap.String("clientID", client.ID),
			zap.String("userID", client.UserID),
		)
	}
}

// SendToUser queues data for every connection the user holds. Fire and
// forget: a full broadcast channel drops the message rather than blocking
// the caller.
func (h *Hub) SendToUser(userID string, data []byte) {
	select {
	case h.broadcast <- &Message{UserID: userID, Data: data}:
	default:
		log.Error("Broadcast channel is full, message dropped", zap.String("userID", userID))
	}
}

// ReadPump drains the connection so pongs are processed and disconnects are
// noticed. Clients only listen; inbound payloads are discarded.
func (c *Client) ReadPump(ctx context.Context) {
	defer func() {
		c.Hub.UnregisterClient(c)
		c.Conn.Close()
	}()
	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error { c.Conn.SetReadDeadline(time.Now().Add(pongWait)); return nil })

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		if _, _, err := c.Conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Error("WebSocket read error",
					zap.String("clientID", c.ID),
					zap.String("userID", c.UserID),
					zap.Error(err),
				)
			}
			return
		}
	}
}

// WritePump pumps messages from the hub to the websocket connection. One
// goroutine per connection keeps writes single-writer.
func (c *Client) WritePump(ctx context.Context) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Hub.UnregisterClient(c)
		c.Conn.Close()
	}()

	for {
		select {
		case <-ctx.Done():
			_ = c.Conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(writeWait))
			return

		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				log.Error("Failed to write message to client",
					zap.String("clientID", c.ID),
					zap.String("userID", c.UserID),
					zap.Error(err),
				)
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		}
	}
}
