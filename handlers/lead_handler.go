package handlers

import (
	"phonexchange_backend/models"
	"phonexchange_backend/services"

	"github.com/gofiber/fiber/v2"
)

type LeadHandler struct {
	Leads *services.LeadService
}

func NewLeadHandler(leads *services.LeadService) *LeadHandler {
	return &LeadHandler{Leads: leads}
}

// SubmitLeadRequest is the body of POST /api/submit-lead. Required fields
// must be present; their content is not checked.
type SubmitLeadRequest struct {
	Name          *string `json:"name" validate:"required"`
	Phone         *string `json:"phone" validate:"required"`
	Area          *string `json:"area" validate:"required"`
	PreferredTime *string `json:"preferred_time" validate:"required"`
	PhoneModel    *string `json:"phone_model"`
	OfferedPrice  *int    `json:"offered_price"`
	Remarks       *string `json:"remarks"`
	LeadType      *string `json:"lead_type" validate:"required"`
}

func (r SubmitLeadRequest) toLead() models.Lead {
	return models.Lead{
		Name:          *r.Name,
		Phone:         *r.Phone,
		Area:          *r.Area,
		PreferredTime: *r.PreferredTime,
		PhoneModel:    r.PhoneModel,
		OfferedPrice:  r.OfferedPrice,
		Remarks:       r.Remarks,
		LeadType:      *r.LeadType,
	}
}

// SubmitLead - POST /api/submit-lead
func (h *LeadHandler) SubmitLead(c *fiber.Ctx) error {
	var req SubmitLeadRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}

	lead, err := h.Leads.Submit(c.UserContext(), req.toLead())
	if err != nil {
		return err
	}
	return c.JSON(lead.Receipt())
}
