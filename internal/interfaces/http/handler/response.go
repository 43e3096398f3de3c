package handler

import (
	"github.com/prodsheet/backend/internal/application/orderview"
	"github.com/prodsheet/backend/internal/interfaces/http/dto"
)

// Concrete envelopes for the swag annotations; the handlers write dto.Response.

// OrderViewResponse wraps the order summary view
// @Description Order summary with list-precision CBM
type OrderViewResponse struct {
	Success bool                `json:"success" example:"true"`
	Data    orderview.OrderView `json:"data"`
}

// ShareLinkResponse wraps a WhatsApp share link
type ShareLinkResponse struct {
	Success bool                `json:"success" example:"true"`
	Data    orderview.ShareLink `json:"data"`
}

// SystemInfoEnvelope wraps the service info
type SystemInfoEnvelope struct {
	Success bool               `json:"success" example:"true"`
	Data    SystemInfoResponse `json:"data"`
}

// PingEnvelope wraps the ping reply
type PingEnvelope struct {
	Success bool         `json:"success" example:"true"`
	Data    PingResponse `json:"data"`
}

// LoadFailureResponse is returned when an order cannot be loaded. The error
// carries the user notice, the list URL to return to and the view state.
// @Description Failed order load
type LoadFailureResponse struct {
	Success bool           `json:"success" example:"false"`
	Error   *dto.ErrorInfo `json:"error"`
}
