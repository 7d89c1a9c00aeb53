// Package ws pushes newly submitted leads to connected admin dashboards.
package ws

import (
	"context"
	"encoding/json"
	"sync"

	"phonexchange_backend/models"
	"phonexchange_backend/utils"
)

// Event is the envelope of every message sent to feed subscribers.
type Event struct {
	Type string       `json:"type"`
	Lead *models.Lead `json:"lead,omitempty"`
}

const EventLeadCreated = "lead_created"

// Hub maintains the set of connected feed clients and fans events out to
// them. Run owns delivery; a client whose buffer is full is dropped.
type Hub struct {
	clients map[*Client]bool

	Register   chan *Client
	Unregister chan *Client
	Broadcast  chan []byte

	mutex sync.Mutex
	done  chan struct{}
	log   utils.Logger
}

func NewHub(log utils.Logger) *Hub {
	return &Hub{
		Broadcast:  make(chan []byte),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		clients:    make(map[*Client]bool),
		done:       make(chan struct{}),
		log:        log.WithFields(map[string]interface{}{"component": "lead_feed"}),
	}
}

// Run delivers events until ctx is done, then closes every client.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.mutex.Lock()
			for client := range h.clients {
				delete(h.clients, client)
				close(client.Send)
			}
			h.mutex.Unlock()
			return
		case client := <-h.Register:
			h.mutex.Lock()
			h.clients[client] = true
			count := len(h.clients)
			h.mutex.Unlock()
			h.log.Info("feed client connected", map[string]interface{}{
				"subject":     client.Subject,
				"connections": count,
			})
		case client := <-h.Unregister:
			h.mutex.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.Send)
			}
			h.mutex.Unlock()
			h.log.Info("feed client disconnected", map[string]interface{}{"subject": client.Subject})
		case message := <-h.Broadcast:
			h.mutex.Lock()
			for client := range h.clients {
				select {
				case client.Send <- message:
				default:
					close(client.Send)
					delete(h.clients, client)
				}
			}
			h.mutex.Unlock()
		}
	}
}

// Subscribe registers client. It reports false once the hub has stopped.
func (h *Hub) Subscribe(client *Client) bool {
	select {
	case h.Register <- client:
		return true
	case <-h.done:
		return false
	}
}

func (h *Hub) unsubscribe(client *Client) {
	select {
	case h.Unregister <- client:
	case <-h.done:
	}
}

func (h *Hub) ClientCount() int {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	return len(h.clients)
}

func (h *Hub) Name() string {
	return "lead_feed"
}

// NotifyLead broadcasts a lead_created event. It is a no-op once the hub has
// stopped, and gives up when ctx is done before Run picks the event up.
func (h *Hub) NotifyLead(ctx context.Context, lead models.Lead) error {
	payload, err := json.Marshal(Event{Type: EventLeadCreated, Lead: &lead})
	if err != nil {
		return err
	}

	select {
	case h.Broadcast <- payload:
		return nil
	case <-h.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
