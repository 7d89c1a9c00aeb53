package handlers

import (
	"phonexchange_backend/internal/ws"
	"phonexchange_backend/models"
	"phonexchange_backend/services"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
)

// AdminHandler serves the shop staff: the lead list and the live lead feed.
// Routes are mounted behind utils.AdminAuth.
type AdminHandler struct {
	Leads *services.LeadService
	Hub   *ws.Hub
}

func NewAdminHandler(leads *services.LeadService, hub *ws.Hub) *AdminHandler {
	return &AdminHandler{Leads: leads, Hub: hub}
}

// GetLeads - GET /api/admin/leads?lead_type=
func (h *AdminHandler) GetLeads(c *fiber.Ctx) error {
	leads, err := h.Leads.List(c.UserContext(), models.LeadFilter{LeadType: c.Query("lead_type")})
	if err != nil {
		return err
	}
	return c.JSON(leads)
}

// WebSocketUpgradeMiddleware ensures the client is trying to upgrade to WebSocket
func (h *AdminHandler) WebSocketUpgradeMiddleware(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		c.Locals("allowed", true)
		return c.Next()
	}
	return fiber.ErrUpgradeRequired
}

// LeadFeed - GET /api/admin/leads/feed (websocket)
func (h *AdminHandler) LeadFeed() fiber.Handler {
	return websocket.New(func(c *websocket.Conn) {
		subject, _ := c.Locals("admin_subject").(string)

		client := ws.NewClient(h.Hub, c, subject)
		if !h.Hub.Subscribe(client) {
			c.Close()
			return
		}

		go client.WritePump()
		client.ReadPump()
	})
}
