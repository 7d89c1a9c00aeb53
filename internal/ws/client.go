package ws

import (
	"time"

	"github.com/gofiber/contrib/websocket"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Subscribers only send keepalives.
	maxMessageSize = 512

	sendBuffer = 64

	feedClosedReason = "lead feed closed"
)

// Client is a middleman between one admin websocket connection and the hub.
type Client struct {
	Hub  *Hub
	Conn *websocket.Conn
	Send chan []byte

	// Subject is the admin token's sub claim, for logs.
	Subject string
}

func NewClient(hub *Hub, conn *websocket.Conn, subject string) *Client {
	return &Client{
		Hub:     hub,
		Conn:    conn,
		Send:    make(chan []byte, sendBuffer),
		Subject: subject,
	}
}

// ReadPump drains the connection so control frames are processed and
// unregisters on close. Subscribers have nothing to say; payloads are dropped.
func (c *Client) ReadPump() {
	defer func() {
		c.Hub.unsubscribe(c)
		c.Conn.Close()
	}()
	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error { c.Conn.SetReadDeadline(time.Now().Add(pongWait)); return nil })
	for {
		_, _, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.Hub.log.Warn("feed connection closed unexpectedly", map[string]interface{}{
					"subject": c.Subject,
					"error":   err.Error(),
				})
			}
			return
		}
	}
}

// frameWriter is the write half of a feed connection.
type frameWriter interface {
	SetWriteDeadline(t time.Time) error
	WriteMessage(messageType int, data []byte) error
}

// WritePump owns every write on the connection: lead events, keepalive pings
// and the final close frame once the hub lets go of the client.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()
	if err := c.forward(c.Conn, ticker.C); err != nil {
		c.Hub.log.Debug("feed write failed", map[string]interface{}{
			"subject": c.Subject,
			"error":   err.Error(),
		})
	}
}

// forward runs until Send is closed or a write fails. Leads that queue up
// behind the one being written go out back to back, one frame per event.
func (c *Client) forward(w frameWriter, pings <-chan time.Time) error {
	for {
		select {
		case event, ok := <-c.Send:
			if !ok {
				// Best effort; the peer may already be gone.
				_ = writeFrame(w, websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, feedClosedReason))
				return nil
			}
			if err := writeFrame(w, websocket.TextMessage, event); err != nil {
				return err
			}
			for queued := len(c.Send); queued > 0; queued-- {
				if err := writeFrame(w, websocket.TextMessage, <-c.Send); err != nil {
					return err
				}
			}
		case <-pings:
			if err := writeFrame(w, websocket.PingMessage, nil); err != nil {
				return err
			}
		}
	}
}

func writeFrame(w frameWriter, messageType int, payload []byte) error {
	if err := w.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return w.WriteMessage(messageType, payload)
}
