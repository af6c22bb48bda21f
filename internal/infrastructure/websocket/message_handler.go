package websocket

import (
	"encoding/json"
	"time"

	"trocagames/internal/domain/entity"
	"trocagames/pkg/logger"
)

// WebSocket Message Types
const (
	MessageTypePing         = "ping"
	MessageTypePong         = "pong"
	MessageTypeMarkRead     = "mark_read"
	MessageTypeSnapshot     = "snapshot"
	MessageTypeNotification = "notification"
	MessageTypeRead         = "read"
	MessageTypeError        = "error"
)

// WSMessage is the frame exchanged with browsers
type WSMessage struct {
	Type      string      `json:"type"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp string      `json:"timestamp"`
}

type SnapshotData struct {
	Items  []entity.Notification `json:"items"`
	Unread int                   `json:"unread"`
}

type ReadData struct {
	Unread int `json:"unread"`
}

// HandleClientMessage processes incoming WebSocket messages
func (m *Manager) HandleClientMessage(client *Client, messageBytes []byte) {
	var wsMessage WSMessage

	if err := json.Unmarshal(messageBytes, &wsMessage); err != nil {
		logger.Debug("WebSocket: failed to unmarshal message from client %s: %v", client.ID, err)
		m.sendErrorToClient(client, "Invalid message format")
		return
	}

	switch wsMessage.Type {
	case MessageTypePing:
		m.handlePing(client)

	case MessageTypeMarkRead:
		m.handleMarkRead(client)

	default:
		m.sendErrorToClient(client, "Unknown message type")
	}
}

func (m *Manager) handlePing(client *Client) {
	m.sendToClient(client, WSMessage{
		Type: MessageTypePong,
		Data: map[string]string{"status": "alive"},
	})
}

// handleMarkRead resets the unread counter and tells every tab of the session.
func (m *Manager) handleMarkRead(client *Client) {
	if m.actions == nil {
		return
	}
	m.actions.MarkRead(client.SessionID)

	message, err := encode(WSMessage{Type: MessageTypeRead, Data: ReadData{Unread: 0}})
	if err != nil {
		return
	}
	m.SendToSession(client.SessionID, message)
}

func (m *Manager) sendSnapshot(client *Client) {
	if m.actions == nil {
		return
	}
	items, unread := m.actions.List(client.SessionID)
	m.sendToClient(client, WSMessage{
		Type: MessageTypeSnapshot,
		Data: SnapshotData{Items: items, Unread: unread},
	})
}

func (m *Manager) sendToClient(client *Client, message WSMessage) {
	messageBytes, err := encode(message)
	if err != nil {
		logger.Error("WebSocket: failed to marshal message for client %s: %v", client.ID, err)
		return
	}

	m.mutex.RLock()
	defer m.mutex.RUnlock()

	// The client may have been removed, and its channel closed, in the meantime.
	if _, ok := m.clients[client.SessionID][client.ID]; !ok {
		return
	}

	select {
	case client.Send <- messageBytes:
	default:
		logger.Warn("WebSocket: client %s send channel full, dropping message", client.ID)
	}
}

func (m *Manager) sendErrorToClient(client *Client, errorMsg string) {
	m.sendToClient(client, WSMessage{
		Type: MessageTypeError,
		Data: map[string]string{"error": errorMsg},
	})
}

func encode(message WSMessage) ([]byte, error) {
	if message.Timestamp == "" {
		message.Timestamp = time.Now().Format(time.RFC3339)
	}
	return json.Marshal(message)
}
