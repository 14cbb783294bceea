package domain

import "errors"

var (
	ErrAuctionNotFound        = errors.New("auction not found")
	ErrBidNotFound            = errors.New("bid not found")
	ErrNotAuthorized          = errors.New("requester is not authorized for this operation")
	ErrAuctionNotActive       = errors.New("auction is not active or has already ended")
	ErrAuctionNotCompleted    = errors.New("auction is not completed")
	ErrAlreadyClosed          = errors.New("auction was already closed by another caller")
	ErrInvalidAmount          = errors.New("bid amount must be greater than zero")
	ErrCannotCancelWinningBid = errors.New("winning bid cannot be cancelled through bid cancellation")
	ErrInvalidDuration        = errors.New("auction duration is outside the allowed bounds")
)
