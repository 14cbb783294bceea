package httpapi

import "time"

type createAuctionRequest struct {
	VehicleType     string    `json:"vehicle_type"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	ConsignmentDate time.Time `json:"consignment_date"`
	StartTime       time.Time `json:"start_time"`
	EndTime         time.Time `json:"end_time"`
}

type placeBidRequest struct {
	Amount float64 `json:"amount"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type closeResponse struct {
	AlreadyClosed bool     `json:"already_closed"`
	WinnerID      *string  `json:"winner_id,omitempty"`
	WinningAmount *float64 `json:"winning_amount,omitempty"`
}
