// Package chat implements the storefront's live support channel: a
// persistent websocket joined by user id, carrying named JSON events.
// Messages are kept in receipt order; there is no reordering or
// de-duplication.
package chat

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/go-faster/errors"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Event names on the chat channel.
const (
	EventJoin         = "joinChat"
	EventSend         = "sendMessage"
	EventReceive      = "receiveMessage"
	EventReceiveAdmin = "receiveMessageAdmin"
	EventHistory      = "chatHistory"
)

// Message is a single chat message.
type Message struct {
	From string    `json:"from"`
	To   string    `json:"to"`
	Body string    `json:"body"`
	Sent time.Time `json:"sent"`
}

// envelope is the wire frame: an event name plus its payload.
type envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

type joinPayload struct {
	UserID string `json:"userId"`
}

// Client maintains the chat connection and the local message log.
// OnMessage, when set before Connect, is invoked for every inbound message
// from the read pump goroutine.
type Client struct {
	url string
	lg  *zap.Logger

	OnMessage func(Message)

	// connMu guards conn and done, and serializes writes to the socket.
	connMu sync.Mutex
	conn   *websocket.Conn
	done   chan struct{}

	mu       sync.RWMutex
	messages []Message
}

// New creates a disconnected Client for the given websocket URL.
func New(url string, lg *zap.Logger) *Client {
	return &Client{url: url, lg: lg}
}

// Connect dials the channel, announces the user id with a join event, and
// starts the read pump.
func (c *Client) Connect(ctx context.Context, userID string) error {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, c.url, nil)
	if err != nil {
		return errors.Wrap(err, "dial chat channel")
	}
	done := make(chan struct{})

	c.connMu.Lock()
	c.conn = conn
	c.done = done
	c.connMu.Unlock()

	if err := c.emit(EventJoin, joinPayload{UserID: userID}); err != nil {
		_ = conn.Close()
		return errors.Wrap(err, "join chat")
	}

	go c.readPump(conn, done)
	return nil
}

// Send emits a sendMessage event to the given recipient.
func (c *Client) Send(to, body string) error {
	return c.emit(EventSend, Message{To: to, Body: body, Sent: time.Now()})
}

func (c *Client) emit(event string, data any) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return errors.Wrap(err, "encode event payload")
	}
	c.connMu.Lock()
	defer c.connMu.Unlock()
	if c.conn == nil {
		return errors.New("chat not connected")
	}
	return c.conn.WriteJSON(envelope{Event: event, Data: payload})
}

// readPump appends inbound messages in arrival order until the connection
// drops.
func (c *Client) readPump(conn *websocket.Conn, done chan struct{}) {
	defer close(done)
	for {
		var env envelope
		if err := conn.ReadJSON(&env); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				c.lg.Warn("Chat connection lost", zap.Error(err))
			}
			return
		}

		switch env.Event {
		case EventReceive, EventReceiveAdmin:
			var m Message
			if err := json.Unmarshal(env.Data, &m); err != nil {
				c.lg.Warn("Malformed chat message", zap.Error(err))
				continue
			}
			c.append(m)
		case EventHistory:
			var history []Message
			if err := json.Unmarshal(env.Data, &history); err != nil {
				c.lg.Warn("Malformed chat history", zap.Error(err))
				continue
			}
			for _, m := range history {
				c.append(m)
			}
		default:
			c.lg.Debug("Ignoring chat event", zap.String("event", env.Event))
		}
	}
}

func (c *Client) append(m Message) {
	c.mu.Lock()
	c.messages = append(c.messages, m)
	cb := c.OnMessage
	c.mu.Unlock()
	if cb != nil {
		cb(m)
	}
}

// Alive reports whether the connection is up and the read pump running.
func (c *Client) Alive() bool {
	c.connMu.Lock()
	conn, done := c.conn, c.done
	c.connMu.Unlock()
	if conn == nil || done == nil {
		return false
	}
	select {
	case <-done:
		return false
	default:
		return true
	}
}

// Messages returns a copy of the local message log in receipt order.
func (c *Client) Messages() []Message {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Message, len(c.messages))
	copy(out, c.messages)
	return out
}

// Close tears down the connection and waits for the read pump to exit.
func (c *Client) Close() error {
	c.connMu.Lock()
	conn, done := c.conn, c.done
	if conn == nil {
		c.connMu.Unlock()
		return nil
	}
	_ = conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	c.connMu.Unlock()

	err := conn.Close()
	select {
	case <-done:
	case <-time.After(time.Second):
	}
	return err
}
