package ws

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/google/uuid"
)

// Event types pushed to connected POS devices.
const (
	EventKitchenTicket  = "kitchen_ticket"
	EventOrderUpdated   = "order_updated"
	EventOrderCompleted = "order_completed"
	EventTableUpdated   = "table_updated"
)

// Event represents a WebSocket message to be broadcast
type Event struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// NewEvent marshals the payload into an Event. Marshal failures are logged
// and produce an event with a null payload rather than dropping the event.
func NewEvent(eventType string, payload interface{}) Event {
	data, err := json.Marshal(payload)
	if err != nil {
		log.Printf("ERROR: failed to marshal %s event payload: %v", eventType, err)
		data = []byte("null")
	}
	return Event{Type: eventType, Payload: data}
}

// businessEvent is an internal struct for routing events to a business room
type businessEvent struct {
	BusinessID uuid.UUID
	Event      Event
}

// Hub maintains the set of active clients and broadcasts messages to them.
// Clients are grouped into rooms by business, so a kitchen display only
// receives tickets for its own restaurant.
type Hub struct {
	// Registered clients by business ID
	rooms map[uuid.UUID]map[*Client]bool

	// Inbound messages from clients (register/unregister)
	register   chan *Client
	unregister chan *Client

	// Outbound messages to broadcast
	broadcast chan *businessEvent

	// Mutex for thread-safe room access
	mu sync.RWMutex
}

// NewHub creates a new Hub instance
func NewHub() *Hub {
	return &Hub{
		rooms:      make(map[uuid.UUID]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan *businessEvent, 256),
	}
}

// Run starts the hub's main loop
// This should be called as a goroutine: go hub.Run()
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			if h.rooms[client.businessID] == nil {
				h.rooms[client.businessID] = make(map[*Client]bool)
			}
			h.rooms[client.businessID][client] = true
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()
			if clients, ok := h.rooms[client.businessID]; ok {
				if _, exists := clients[client]; exists {
					delete(clients, client)
					close(client.send)
					// Clean up empty rooms
					if len(clients) == 0 {
						delete(h.rooms, client.businessID)
					}
				}
			}
			h.mu.Unlock()

		case event := <-h.broadcast:
			h.mu.Lock()
			clients := h.rooms[event.BusinessID]

			// Marshal event to JSON once
			message, err := json.Marshal(event.Event)
			if err != nil {
				h.mu.Unlock()
				continue
			}

			// Send to all clients in this business's room
			for client := range clients {
				select {
				case client.send <- message:
				default:
					// Client's send buffer is full, close and unregister
					close(client.send)
					delete(h.rooms[event.BusinessID], client)
					if len(h.rooms[event.BusinessID]) == 0 {
						delete(h.rooms, event.BusinessID)
					}
				}
			}
			h.mu.Unlock()
		}
	}
}

// BroadcastToBusiness sends an event to all clients subscribed to a business.
// This is the public API for handlers to broadcast events.
func (h *Hub) BroadcastToBusiness(businessID uuid.UUID, event Event) {
	h.broadcast <- &businessEvent{
		BusinessID: businessID,
		Event:      event,
	}
}
