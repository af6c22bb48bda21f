package notification

import (
	"context"
	"encoding/json"
	"strconv"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"trocagames/internal/domain/entity"
	"trocagames/pkg/logger"
)

const (
	EventJoin         = "join"
	EventLeave        = "leave"
	EventNotification = "notification"

	writeWait = 5 * time.Second
	pongWait  = 60 * time.Second
)

// Envelope is the frame exchanged with the push server.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

type Handler func(entity.Notification)

// Channel is the push subscription of one signed-in user. It reconnects on its own until
// Close is called.
type Channel struct {
	url     string
	userID  int64
	handler Handler
	dialer  *websocket.Dialer

	MinBackoff time.Duration
	MaxBackoff time.Duration
	// PongWait is how long the connection may stay silent before it is dropped. A ping
	// goes out every nine tenths of it.
	PongWait time.Duration

	mu     sync.Mutex
	conn   *websocket.Conn
	cancel context.CancelFunc
	done   chan struct{}
}

func NewChannel(url string, userID int64, handler Handler) *Channel {
	return &Channel{
		url:        url,
		userID:     userID,
		handler:    handler,
		dialer:     websocket.DefaultDialer,
		MinBackoff: time.Second,
		MaxBackoff: 30 * time.Second,
		PongWait:   pongWait,
	}
}

// Start connects in the background. Calling it twice is a no-op.
func (c *Channel) Start(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.done != nil {
		return
	}

	ctx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	c.done = make(chan struct{})
	go c.run(ctx)
}

func (c *Channel) run(ctx context.Context) {
	defer close(c.done)

	backoff := c.MinBackoff
	for {
		conn, _, err := c.dialer.DialContext(ctx, c.url, nil)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			logger.Debug("Notification channel for user %d: dial failed: %v", c.userID, err)
			if !sleep(ctx, backoff) {
				return
			}
			backoff *= 2
			if backoff > c.MaxBackoff {
				backoff = c.MaxBackoff
			}
			continue
		}

		if !c.attach(ctx, conn) {
			return
		}
		backoff = c.MinBackoff

		if err := c.send(EventJoin); err != nil {
			logger.Warn("Notification channel for user %d: join failed: %v", c.userID, err)
		} else {
			logger.Info("Notification channel joined for user %d", c.userID)
		}

		c.readLoop(conn)
		c.detach(conn)

		if ctx.Err() != nil {
			return
		}
		logger.Debug("Notification channel for user %d dropped, reconnecting", c.userID)
		if !sleep(ctx, backoff) {
			return
		}
	}
}

// attach publishes conn unless the channel was closed while dialing.
func (c *Channel) attach(ctx context.Context, conn *websocket.Conn) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if ctx.Err() != nil {
		conn.Close()
		return false
	}
	c.conn = conn
	return true
}

func (c *Channel) detach(conn *websocket.Conn) {
	c.mu.Lock()
	if c.conn == conn {
		c.conn = nil
	}
	c.mu.Unlock()
	conn.Close()
}

func (c *Channel) readLoop(conn *websocket.Conn) {
	wait := c.PongWait
	if wait <= 0 {
		wait = pongWait
	}

	stop := make(chan struct{})
	defer close(stop)
	go c.heartbeat(conn, wait*9/10, stop)

	conn.SetReadDeadline(time.Now().Add(wait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(wait))
	})

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Debug("Notification channel for user %d: read error: %v", c.userID, err)
			}
			return
		}
		conn.SetReadDeadline(time.Now().Add(wait))

		var env Envelope
		if err := json.Unmarshal(message, &env); err != nil {
			logger.Warn("Notification channel for user %d: malformed frame: %v", c.userID, err)
			continue
		}
		if env.Event != EventNotification {
			continue
		}

		n, err := DecodeNotification(env.Data)
		if err != nil {
			logger.Warn("Notification channel for user %d: malformed notification: %v", c.userID, err)
			continue
		}
		if c.handler != nil {
			c.handler(n)
		}
	}
}

// heartbeat pings conn until stop is closed. A peer that stops answering lets the read
// deadline expire, which ends readLoop and triggers a reconnect.
func (c *Channel) heartbeat(conn *websocket.Conn, period time.Duration, stop <-chan struct{}) {
	ticker := time.NewTicker(period)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				logger.Debug("Notification channel for user %d: ping failed: %v", c.userID, err)
				return
			}
		}
	}
}

func (c *Channel) send(event string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn == nil {
		return websocket.ErrCloseSent
	}
	frame, err := json.Marshal(Envelope{Event: event, Data: json.RawMessage(strconv.FormatInt(c.userID, 10))})
	if err != nil {
		return err
	}
	c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteMessage(websocket.TextMessage, frame)
}

// Close leaves the room, closes the connection and waits for the reconnect loop to stop.
func (c *Channel) Close() {
	c.mu.Lock()
	cancel, done := c.cancel, c.done
	c.mu.Unlock()

	if cancel == nil {
		return
	}

	if err := c.send(EventLeave); err == nil {
		logger.Info("Notification channel left for user %d", c.userID)
	}

	cancel()

	c.mu.Lock()
	if c.conn != nil {
		c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		c.conn.Close()
	}
	c.mu.Unlock()

	<-done
}

type wireNotification struct {
	ID         int64           `json:"id"`
	Type       string          `json:"type"`
	AnuncioID  int64           `json:"anuncioId"`
	PropostaID int64           `json:"propostaId"`
	Title      string          `json:"title"`
	TitleGame  string          `json:"titleGame"`
	Message    string          `json:"message"`
	Timestamp  json.RawMessage `json:"timestamp"`
}

// DecodeNotification reads a pushed payload. The timestamp may be an RFC 3339 string or
// epoch milliseconds; when absent or unreadable the arrival time is used.
func DecodeNotification(data []byte) (entity.Notification, error) {
	var w wireNotification
	if err := json.Unmarshal(data, &w); err != nil {
		return entity.Notification{}, err
	}

	return entity.Notification{
		ID:         w.ID,
		Type:       w.Type,
		AnuncioID:  w.AnuncioID,
		PropostaID: w.PropostaID,
		Title:      w.Title,
		TitleGame:  w.TitleGame,
		Message:    w.Message,
		Timestamp:  parseTimestamp(w.Timestamp),
	}, nil
}

func parseTimestamp(raw json.RawMessage) time.Time {
	if len(raw) == 0 {
		return time.Now()
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
			return t
		}
		return time.Now()
	}

	var ms int64
	if err := json.Unmarshal(raw, &ms); err == nil && ms > 0 {
		return time.UnixMilli(ms)
	}
	return time.Now()
}

func sleep(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
