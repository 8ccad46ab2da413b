package ws

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/kiwari-pos/kds/internal/auth"
	"github.com/kiwari-pos/kds/internal/enum"
	"github.com/kiwari-pos/kds/internal/order"
	"github.com/kiwari-pos/kds/internal/service"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Must be less than pongWait
	pingPeriod = (pongWait * 9) / 10

	maxMessageSize = 512

	sendBuffer = 256
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // stations authenticate with a token, not an origin
	},
}

// Snapshotter provides the board state sent to a client when it connects.
type Snapshotter interface {
	Snapshot() service.Snapshot
}

// Client represents a single WebSocket connection
type Client struct {
	hub  *Hub
	conn *websocket.Conn
	room string
	send chan []byte

	// written before anything queued on send
	initial []byte
}

// ReadPump only watches for disconnects; boards never send commands over
// the socket.
func (c *Client) ReadPump() {
	defer func() {
		c.hub.unregisterClient(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.log.Warn("websocket read", "room", c.room, "error", err)
			}
			break
		}
	}
}

// WritePump pumps messages from the hub to the WebSocket connection
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	if c.initial != nil {
		c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteMessage(websocket.TextMessage, c.initial); err != nil {
			return
		}
	}

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			// Coalesce whatever queued up while we were writing.
			n := len(c.send)
			for i := 0; i < n; i++ {
				w.Write([]byte{'\n'})
				w.Write(<-c.send)
			}

			if err := w.Close(); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// SnapshotEvent builds the "snapshot" message for a station filter. Order
// lists are narrowed to the category; counts and stats stay board-wide.
func SnapshotEvent(snap service.Snapshot, category string) (Event, error) {
	snap.ActiveOrders = order.ByCategory(snap.ActiveOrders, category)
	snap.CompletedOrders = order.ByCategory(snap.CompletedOrders, category)
	payload, err := json.Marshal(snap)
	if err != nil {
		return Event{}, err
	}
	return Event{Type: enum.EventSnapshot, Payload: payload}, nil
}

// ServeWS handles WebSocket requests from boards.
// Endpoint: WS /ws/orders?category=grill&token=JWT
//
// A token is only demanded when jwtSecret is non-empty.
func ServeWS(hub *Hub, boards Snapshotter, jwtSecret string, w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	if jwtSecret != "" {
		tokenStr := q.Get("token")
		if tokenStr == "" {
			http.Error(w, "missing token", http.StatusUnauthorized)
			return
		}
		if _, err := auth.ValidateToken(jwtSecret, tokenStr); err != nil {
			http.Error(w, "invalid token", http.StatusUnauthorized)
			return
		}
	}

	room := q.Get("category")
	if room == "" {
		room = enum.CategoryAll
	}
	if !order.ValidFilter(room) {
		http.Error(w, "invalid category", http.StatusBadRequest)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		hub.log.Warn("websocket upgrade", "error", err)
		return
	}

	client := &Client{
		hub:  hub,
		conn: conn,
		room: room,
		send: make(chan []byte, sendBuffer),
	}
	if !hub.registerClient(client) {
		closeConn(conn, websocket.CloseGoingAway, "shutting down")
		return
	}

	// The snapshot is taken after registration, so any change it misses is
	// already queued on send. A change it includes may also arrive as an
	// event; boards apply events as upserts.
	message, err := snapshotMessage(boards, room)
	if err != nil {
		hub.log.Error("build snapshot", "room", room, "error", err)
		hub.unregisterClient(client)
		closeConn(conn, websocket.CloseInternalServerErr, "snapshot failed")
		return
	}
	client.initial = message
	hub.log.Debug("client connected", "room", room, "remote", r.RemoteAddr)

	go client.WritePump()
	go client.ReadPump()
}

func snapshotMessage(boards Snapshotter, room string) ([]byte, error) {
	ev, err := SnapshotEvent(boards.Snapshot(), room)
	if err != nil {
		return nil, err
	}
	return json.Marshal(ev)
}

func closeConn(conn *websocket.Conn, code int, reason string) {
	conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(code, reason))
	conn.Close()
}

// compile-time check
var _ service.Notifier = (*Hub)(nil)
