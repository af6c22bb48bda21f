package websocket

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"trocagames/internal/domain/entity"
	"trocagames/pkg/logger"
)

const (
	sendBuffer = 32
	writeWait  = 10 * time.Second
)

// Client is one browser tab connected to /ws
type Client struct {
	ID        string
	SessionID string
	UserID    int64
	Conn      *websocket.Conn
	Send      chan []byte
}

func NewClient(conn *websocket.Conn, sessionID string, userID int64) *Client {
	return &Client{
		ID:        uuid.New().String(),
		SessionID: sessionID,
		UserID:    userID,
		Conn:      conn,
		Send:      make(chan []byte, sendBuffer),
	}
}

// SessionActions is what browsers may ask of their session's notification feed.
type SessionActions interface {
	List(sessionID string) ([]entity.Notification, int)
	MarkRead(sessionID string)
}

// Manager tracks the browser connections of every session
type Manager struct {
	clients    map[string]map[string]*Client // session id -> client id -> client
	Register   chan *Client
	Unregister chan *Client
	actions    SessionActions
	done       chan struct{}
	mutex      sync.RWMutex
}

func NewManager(actions SessionActions) *Manager {
	return &Manager{
		clients:    make(map[string]map[string]*Client),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		actions:    actions,
		done:       make(chan struct{}),
	}
}

// Start runs the manager's main loop in a goroutine
func (m *Manager) Start(ctx context.Context) {
	go func() {
		for {
			select {
			case client := <-m.Register:
				m.mutex.Lock()
				if m.clients[client.SessionID] == nil {
					m.clients[client.SessionID] = make(map[string]*Client)
				}
				m.clients[client.SessionID][client.ID] = client
				m.mutex.Unlock()
				logger.Debug("WebSocket: client %s registered for user %d", client.ID, client.UserID)
				m.sendSnapshot(client)

			case client := <-m.Unregister:
				m.mutex.Lock()
				m.removeLocked(client)
				m.mutex.Unlock()
				logger.Debug("WebSocket: client %s unregistered", client.ID)

			case <-ctx.Done():
				close(m.done)
				m.closeAll()
				return
			}
		}
	}()
}

// Attach registers client. It returns false once the manager has stopped.
func (m *Manager) Attach(client *Client) bool {
	select {
	case m.Register <- client:
		return true
	case <-m.done:
		return false
	}
}

// removeLocked drops client and closes its send channel once. m.mutex must be held.
func (m *Manager) removeLocked(client *Client) {
	session, ok := m.clients[client.SessionID]
	if !ok {
		return
	}
	if _, ok := session[client.ID]; !ok {
		return
	}
	delete(session, client.ID)
	close(client.Send)
	if len(session) == 0 {
		delete(m.clients, client.SessionID)
	}
}

func (m *Manager) closeAll() {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	for _, session := range m.clients {
		for _, client := range session {
			m.removeLocked(client)
		}
	}
}

// SendToSession queues message for every tab of sessionID. A tab that is not keeping up
// misses the message; the notification stays in the feed.
func (m *Manager) SendToSession(sessionID string, message []byte) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	for _, client := range m.clients[sessionID] {
		select {
		case client.Send <- message:
		default:
			logger.Warn("WebSocket: client %s send buffer full, dropping message", client.ID)
		}
	}
}

// NotifySession pushes a notification to the browsers of sessionID.
func (m *Manager) NotifySession(sessionID string, n entity.Notification) {
	message, err := encode(WSMessage{Type: MessageTypeNotification, Data: n})
	if err != nil {
		logger.Error("WebSocket: failed to encode notification %d: %v", n.ID, err)
		return
	}
	m.SendToSession(sessionID, message)
}

// CloseSession disconnects every browser tab of sessionID.
func (m *Manager) CloseSession(sessionID string) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	for _, client := range m.clients[sessionID] {
		m.removeLocked(client)
	}
}

// ConnectionCount returns how many tabs sessionID has open.
func (m *Manager) ConnectionCount(sessionID string) int {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return len(m.clients[sessionID])
}

// ReadPump reads messages from the WebSocket connection
func (c *Client) ReadPump(m *Manager) {
	defer func() {
		select {
		case m.Unregister <- c:
		case <-m.done:
		}
		c.Conn.Close()
	}()

	for {
		_, message, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Warn("WebSocket: read error for client %s: %v", c.ID, err)
			}
			break
		}

		m.HandleClientMessage(c, message)
	}
}

// WritePump sends messages to the WebSocket connection
func (c *Client) WritePump() {
	defer c.Conn.Close()

	for {
		message, ok := <-c.Send
		c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
		if !ok {
			c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
			return
		}

		if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
			logger.Warn("WebSocket: write error for client %s: %v", c.ID, err)
			return
		}
	}
}
