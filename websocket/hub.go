package websocket

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"lizze-booking-server/models"
)

// Client represents one connected admin dashboard
type Client struct {
	Hub  *Hub
	Send chan []byte
}

// BookingEvent is the wire format for feed events
type BookingEvent struct {
	Type      string                 `json:"type"`
	Timestamp time.Time              `json:"timestamp"`
	Booking   models.BookingResponse `json:"booking"`
}

// Hub fans booking lifecycle events out to connected admin dashboards.
type Hub struct {
	// Registered clients
	Clients map[*Client]bool

	// Broadcast channel for events to all clients
	Broadcast chan []byte

	// Register requests from clients
	Register chan *Client

	// Unregister requests from clients
	Unregister chan *Client

	mu sync.RWMutex
}

// NewHub creates a new admin feed hub
func NewHub() *Hub {
	return &Hub{
		Clients:    make(map[*Client]bool),
		Broadcast:  make(chan []byte, 64),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
	}
}

// Run starts the hub's main loop
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.Register:
			h.mu.Lock()
			h.Clients[client] = true
			h.mu.Unlock()
			log.Printf("🔌 Admin feed client connected (%d total)", h.clientCount())

		case client := <-h.Unregister:
			h.mu.Lock()
			if _, ok := h.Clients[client]; ok {
				delete(h.Clients, client)
				close(client.Send)
			}
			h.mu.Unlock()
			log.Printf("🔌 Admin feed client disconnected (%d total)", h.clientCount())

		case message := <-h.Broadcast:
			h.mu.Lock()
			for client := range h.Clients {
				select {
				case client.Send <- message:
				default:
					// Slow client: drop it rather than blocking the hub
					delete(h.Clients, client)
					close(client.Send)
				}
			}
			h.mu.Unlock()
		}
	}
}

func (h *Hub) clientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.Clients)
}

// PublishBookingEvent queues a booking event for broadcast. Satisfies the
// booking workflow's event sink; never blocks the caller.
func (h *Hub) PublishBookingEvent(event string, booking *models.Booking) {
	payload, err := json.Marshal(BookingEvent{
		Type:      event,
		Timestamp: time.Now().UTC(),
		Booking:   booking.ToResponse(),
	})
	if err != nil {
		log.Printf("⚠️ Failed to marshal booking event: %v", err)
		return
	}

	select {
	case h.Broadcast <- payload:
	default:
		log.Printf("⚠️ Admin feed broadcast channel is full, dropping %s for booking %s", event, booking.Reference)
	}
}
