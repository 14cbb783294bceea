package httpapi

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/mvallespi/cargobid/internal/auction/domain"
	"go.uber.org/zap"
)

// writeError maps domain errors onto HTTP statuses. State-precondition and
// authorization failures get specific messages; anything unrecognized is a
// transient failure the client may retry.
func writeError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, errMissingIdentity):
		return c.Status(fiber.StatusUnauthorized).JSON(errorResponse{Error: "caller identity required"})
	case errors.Is(err, domain.ErrNotAuthorized):
		return c.Status(fiber.StatusForbidden).JSON(errorResponse{Error: "not authorized for this operation"})
	case errors.Is(err, domain.ErrAuctionNotFound), errors.Is(err, domain.ErrBidNotFound), errors.Is(err, errBadID):
		return c.Status(fiber.StatusNotFound).JSON(errorResponse{Error: "resource not found"})
	case errors.Is(err, domain.ErrAuctionNotActive):
		return c.Status(fiber.StatusConflict).JSON(errorResponse{Error: "this job has already ended"})
	case errors.Is(err, domain.ErrAuctionNotCompleted):
		return c.Status(fiber.StatusConflict).JSON(errorResponse{Error: "auction has no winner to withdraw"})
	case errors.Is(err, domain.ErrCannotCancelWinningBid):
		return c.Status(fiber.StatusConflict).JSON(errorResponse{Error: "winning bid must be withdrawn through winner cancellation"})
	case errors.Is(err, domain.ErrInvalidAmount), errors.Is(err, domain.ErrInvalidDuration):
		return c.Status(fiber.StatusBadRequest).JSON(errorResponse{Error: err.Error()})
	default:
		log.Error("Unhandled error in HTTP handler", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(errorResponse{Error: "temporary failure, please retry"})
	}
}
