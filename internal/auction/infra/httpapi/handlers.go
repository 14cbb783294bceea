// Package httpapi exposes the engine operations over HTTP. It is a thin
// boundary: identity arrives pre-resolved in the X-User-ID header (the
// identity provider is an external collaborator), and every batch of
// notification intents the engine returns is handed straight to the
// dispatcher.
package httpapi

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	fiberws "github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
	"github.com/mvallespi/cargobid/internal/auction/application"
	"github.com/mvallespi/cargobid/internal/auction/domain"
	"github.com/mvallespi/cargobid/internal/auction/infra/dispatch"
	"github.com/mvallespi/cargobid/internal/shared/logger"
	"github.com/mvallespi/cargobid/internal/shared/websocket"
)

var log = logger.GetLogger()

type Handler struct {
	service    application.AuctionService
	dispatcher dispatch.Dispatcher
	hub        *websocket.Hub
}

func NewHandler(service application.AuctionService, dispatcher dispatch.Dispatcher, hub *websocket.Hub) *Handler {
	return &Handler{service: service, dispatcher: dispatcher, hub: hub}
}

// Register mounts every route on the app.
func (h *Handler) Register(app *fiber.App) {
	app.Post("/auctions", h.createAuction)
	app.Get("/auctions", h.listAuctions)
	app.Get("/auctions/:id", h.getAuction)
	app.Get("/auctions/:id/audit", h.getAuditLog)
	app.Post("/auctions/:id/bids", h.placeBid)
	app.Delete("/bids/:id", h.cancelBid)
	app.Post("/auctions/:id/close", h.closeAuction)
	app.Post("/auctions/:id/cancel", h.cancelAuction)
	app.Post("/auctions/:id/cancel-win", h.cancelByWinner)

	if h.hub != nil {
		app.Use("/ws", func(c *fiber.Ctx) error {
			if fiberws.IsWebSocketUpgrade(c) {
				return c.Next()
			}
			return fiber.ErrUpgradeRequired
		})
		app.Get("/ws", fiberws.New(h.serveWS))
	}
}

func (h *Handler) createAuction(c *fiber.Ctx) error {
	userID, err := callerID(c)
	if err != nil {
		return writeError(c, err)
	}

	var req createAuctionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(errorResponse{Error: "invalid request body"})
	}

	auction, intents, err := h.service.CreateAuction(c.Context(), application.CreateAuctionDTO{
		CreatedBy:       userID,
		VehicleType:     req.VehicleType,
		Title:           req.Title,
		Description:     req.Description,
		ConsignmentDate: req.ConsignmentDate,
		StartTime:       req.StartTime,
		EndTime:         req.EndTime,
	})
	if err != nil {
		return writeError(c, err)
	}
	h.dispatcher.Dispatch(intents)

	return c.Status(fiber.StatusCreated).JSON(auction)
}

func (h *Handler) listAuctions(c *fiber.Ctx) error {
	status := domain.AuctionStatus(c.Query("status"))
	auctions, err := h.service.ListAuctions(c.Context(), status)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(auctions)
}

func (h *Handler) getAuction(c *fiber.Ctx) error {
	auctionID, err := pathID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	state, err := h.service.GetAuction(c.Context(), auctionID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(state)
}

func (h *Handler) getAuditLog(c *fiber.Ctx) error {
	auctionID, err := pathID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	entries, err := h.service.GetAuditLog(c.Context(), auctionID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(entries)
}

func (h *Handler) placeBid(c *fiber.Ctx) error {
	userID, err := callerID(c)
	if err != nil {
		return writeError(c, err)
	}
	auctionID, err := pathID(c, "id")
	if err != nil {
		return writeError(c, err)
	}

	var req placeBidRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(errorResponse{Error: "invalid request body"})
	}

	bid, intents, err := h.service.PlaceBid(c.Context(), application.PlaceBidDTO{
		AuctionID: auctionID,
		BidderID:  userID,
		Amount:    req.Amount,
	})
	if err != nil {
		return writeError(c, err)
	}
	h.dispatcher.Dispatch(intents)

	return c.Status(fiber.StatusCreated).JSON(bid)
}

func (h *Handler) cancelBid(c *fiber.Ctx) error {
	userID, err := callerID(c)
	if err != nil {
		return writeError(c, err)
	}
	bidID, err := pathID(c, "id")
	if err != nil {
		return writeError(c, err)
	}

	intents, err := h.service.CancelBid(c.Context(), bidID, userID)
	if err != nil {
		return writeError(c, err)
	}
	h.dispatcher.Dispatch(intents)

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *Handler) closeAuction(c *fiber.Ctx) error {
	userID, err := callerID(c)
	if err != nil {
		return writeError(c, err)
	}
	auctionID, err := pathID(c, "id")
	if err != nil {
		return writeError(c, err)
	}

	result, err := h.service.Close(c.Context(), auctionID, &userID)
	if err != nil {
		return writeError(c, err)
	}
	h.dispatcher.Dispatch(result.Intents)

	resp := closeResponse{AlreadyClosed: result.Outcome == application.OutcomeAlreadyClosed}
	if result.Winner != nil {
		winnerID := result.Winner.BidderID.String()
		resp.WinnerID = &winnerID
		resp.WinningAmount = &result.Winner.Amount
	}
	return c.JSON(resp)
}

func (h *Handler) cancelAuction(c *fiber.Ctx) error {
	userID, err := callerID(c)
	if err != nil {
		return writeError(c, err)
	}
	auctionID, err := pathID(c, "id")
	if err != nil {
		return writeError(c, err)
	}

	intents, err := h.service.CancelByConsignor(c.Context(), auctionID, userID)
	if err != nil {
		return writeError(c, err)
	}
	h.dispatcher.Dispatch(intents)

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *Handler) cancelByWinner(c *fiber.Ctx) error {
	userID, err := callerID(c)
	if err != nil {
		return writeError(c, err)
	}
	auctionID, err := pathID(c, "id")
	if err != nil {
		return writeError(c, err)
	}

	result, err := h.service.CancelByWinner(c.Context(), auctionID, userID)
	if err != nil {
		return writeError(c, err)
	}
	h.dispatcher.Dispatch(result.Intents)

	return c.JSON(result)
}

func (h *Handler) serveWS(conn *fiberws.Conn) {
	userID := conn.Query("user_id")
	if userID == "" {
		_ = conn.Close()
		return
	}

	client := &websocket.Client{
		Hub:    h.hub,
		Conn:   conn,
		Send:   make(chan []byte, 16),
		UserID: userID,
		ID:     uuid.New().String(),
	}
	h.hub.RegisterClient(client)

	go client.WritePump(context.Background())
	client.ReadPump(context.Background())
}

var errMissingIdentity = errors.New("missing X-User-ID header")

func callerID(c *fiber.Ctx) (uuid.UUID, error) {
	raw := c.Get("X-User-ID")
	if raw == "" {
		return uuid.Nil, errMissingIdentity
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, errMissingIdentity
	}
	return id, nil
}

var errBadID = errors.New("malformed id in path")

func pathID(c *fiber.Ctx, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params(name))
	if err != nil {
		return uuid.Nil, errBadID
	}
	return id, nil
}
