package handlers

import (
	"phonexchange_backend/services"

	"github.com/gofiber/fiber/v2"
)

type QuoteHandler struct {
	Quotes *services.QuoteService
}

func NewQuoteHandler(quotes *services.QuoteService) *QuoteHandler {
	return &QuoteHandler{Quotes: quotes}
}

// CalculatePriceRequest is the body of POST /api/calculate-price. Answers
// may be empty but must be present.
type CalculatePriceRequest struct {
	ModelID *string         `json:"model_id" validate:"required"`
	Answers map[string]bool `json:"answers" validate:"required"`
}

// CalculatePrice - POST /api/calculate-price
func (h *QuoteHandler) CalculatePrice(c *fiber.Ctx) error {
	var req CalculatePriceRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}

	quote, err := h.Quotes.Quote(c.UserContext(), *req.ModelID, req.Answers)
	if err != nil {
		return err
	}
	return c.JSON(quote)
}
