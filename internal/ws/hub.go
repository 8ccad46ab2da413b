package ws

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/kiwari-pos/kds/internal/enum"
	"github.com/kiwari-pos/kds/internal/service"
)

// Event is the envelope written to every websocket client.
type Event struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// roomEvent routes an event to one room; an empty room means every room.
type roomEvent struct {
	Room  string
	Event Event
}

// Hub maintains the set of active clients and broadcasts messages to them.
type Hub struct {
	// Registered clients by category room
	rooms map[string]map[*Client]bool

	register   chan *Client
	unregister chan *Client
	broadcast  chan *roomEvent

	// closed once Run returns; sends after that are dropped
	done chan struct{}

	log *slog.Logger
	mu  sync.RWMutex
}

func NewHub(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		rooms:      make(map[string]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan *roomEvent, 256),
		done:       make(chan struct{}),
		log:        logger.With("component", "ws"),
	}
}

// Run starts the hub's main loop and returns when ctx is cancelled, closing
// every client's send channel on the way out.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)

	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			for room, clients := range h.rooms {
				for client := range clients {
					close(client.send)
				}
				delete(h.rooms, room)
			}
			h.mu.Unlock()
			return

		case client := <-h.register:
			h.mu.Lock()
			if h.rooms[client.room] == nil {
				h.rooms[client.room] = make(map[*Client]bool)
			}
			h.rooms[client.room][client] = true
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()
			h.removeLocked(client)
			h.mu.Unlock()

		case ev := <-h.broadcast:
			message, err := json.Marshal(ev.Event)
			if err != nil {
				h.log.Error("marshal event", "type", ev.Event.Type, "error", err)
				continue
			}

			h.mu.Lock()
			for room, clients := range h.rooms {
				if ev.Room != "" && ev.Room != room {
					continue
				}
				for client := range clients {
					select {
					case client.send <- message:
					default:
						// Slow consumer: drop it rather than stall the board.
						h.log.Warn("dropping slow client", "room", room)
						h.removeLocked(client)
					}
				}
			}
			h.mu.Unlock()
		}
	}
}

func (h *Hub) removeLocked(client *Client) {
	clients, ok := h.rooms[client.room]
	if !ok {
		return
	}
	if _, exists := clients[client]; !exists {
		return
	}
	delete(clients, client)
	close(client.send)
	if len(clients) == 0 {
		delete(h.rooms, client.room)
	}
}

// BroadcastToRoom sends an event to every client watching room. An empty
// room reaches every client.
func (h *Hub) BroadcastToRoom(room string, event Event) {
	select {
	case h.broadcast <- &roomEvent{Room: room, Event: event}:
	case <-h.done:
	}
}

// Notify forwards store events: order events go to the "all" room and the
// order's category room, ticks go everywhere.
func (h *Hub) Notify(ev service.Event) {
	if ev.Order == nil {
		payload, err := json.Marshal(map[string]int{"ticked": ev.Ticked})
		if err != nil {
			h.log.Error("marshal tick", "ticked", ev.Ticked, "error", err)
			return
		}
		h.BroadcastToRoom("", Event{Type: ev.Type, Payload: payload})
		return
	}

	payload, err := json.Marshal(ev.Order)
	if err != nil {
		h.log.Error("marshal order", "order_number", ev.Order.OrderNumber, "error", err)
		return
	}
	event := Event{Type: ev.Type, Payload: payload}
	h.BroadcastToRoom(enum.CategoryAll, event)
	h.BroadcastToRoom(string(ev.Order.Category), event)
}

// Clients reports how many clients are connected to room.
func (h *Hub) Clients(room string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[room])
}

func (h *Hub) registerClient(c *Client) bool {
	select {
	case h.register <- c:
		return true
	case <-h.done:
		return false
	}
}

func (h *Hub) unregisterClient(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}
