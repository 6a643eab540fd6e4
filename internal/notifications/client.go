package notifications

import (
	"log/slog"
	"time"

	"wiseadvice/internal/observability"

	"github.com/gofiber/websocket/v2"
)

// Keepalive timings. The server pings every pingEvery; a peer that has
// not answered within idleTimeout is dropped.
const (
	writeTimeout = 10 * time.Second
	idleTimeout  = time.Minute
	pingEvery    = idleTimeout * 9 / 10

	// Peers only ever send control frames.
	maxInboundFrame = 1 << 10

	sendBuffer = 64
)

var droppedNotice = []byte(`{"type":"messages_dropped","payload":null}`)

// Client is one notification socket of a user. Send is owned by the hub,
// which closes it on unregister or shutdown.
type Client struct {
	Hub    *Hub
	Conn   *websocket.Conn
	Send   chan []byte
	UserID uint
}

func NewClient(hub *Hub, conn *websocket.Conn, userID uint) *Client {
	return &Client{Hub: hub, Conn: conn, UserID: userID, Send: make(chan []byte, sendBuffer)}
}

func (c *Client) extendReadDeadline(string) error {
	return c.Conn.SetReadDeadline(time.Now().Add(idleTimeout))
}

func (c *Client) write(kind int, data []byte) error {
	_ = c.Conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return c.Conn.WriteMessage(kind, data)
}

// ReadPump blocks until the peer disconnects, then unregisters the client.
// Inbound data frames are discarded; pongs keep the connection alive.
func (c *Client) ReadPump() {
	defer func() {
		c.Hub.UnregisterClient(c)
		_ = c.Conn.Close()
	}()

	c.Conn.SetReadLimit(maxInboundFrame)
	_ = c.extendReadDeadline("")
	c.Conn.SetPongHandler(c.extendReadDeadline)

	for {
		_, _, err := c.Conn.ReadMessage()
		if err == nil {
			continue
		}
		if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
			slog.Warn("notification socket closed unexpectedly",
				slog.Uint64("user_id", uint64(c.UserID)),
				slog.String("error", err.Error()))
		}
		return
	}
}

// WritePump drains Send onto the socket until Send is closed or a write
// fails. A closed Send ends the stream with a going-away close frame.
func (c *Client) WritePump() {
	ping := time.NewTicker(pingEvery)
	defer ping.Stop()
	defer func() { _ = c.Conn.Close() }()

	for {
		var err error
		select {
		case msg, open := <-c.Send:
			if !open {
				_ = c.write(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseGoingAway, "server closing"))
				return
			}
			err = c.write(websocket.TextMessage, msg)
		case <-ping.C:
			err = c.write(websocket.PingMessage, nil)
		}
		if err != nil {
			return
		}
	}
}

// TrySend queues msg without blocking. When the buffer is full msg is
// dropped and, space permitting, a messages_dropped event tells the client
// to refetch its notification list.
func (c *Client) TrySend(msg []byte) {
	select {
	case c.Send <- msg:
		return
	default:
	}

	observability.WebSocketBackpressureDrops.WithLabelValues(c.Hub.Name(), "full").Inc()
	slog.Warn("notification dropped, send buffer full", slog.Uint64("user_id", uint64(c.UserID)))
	select {
	case c.Send <- droppedNotice:
	default:
	}
}
