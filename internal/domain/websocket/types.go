// internal/domain/websocket/types.go
package websocket

import (
	"encoding/json"
	"time"

	"github.com/oklog/ulid/v2"
)

// EventType represents different real-time event types
type EventType string

const (
	// Connection events
	EventTypePing         EventType = "ping"
	EventTypePong         EventType = "pong"
	EventTypeConnected    EventType = "connected"
	EventTypeDisconnected EventType = "disconnected"
	EventTypeError        EventType = "error"

	// Developer panel stream (server -> client)
	EventTypeAPILog     EventType = "api:log"
	EventTypeStepChange EventType = "flow:step"

	// Developer panel overrides (client -> server, echoed back)
	EventTypeOverridesGet EventType = "dev:overrides:get"
	EventTypeOverridesSet EventType = "dev:overrides:set"
	EventTypeOverrides    EventType = "dev:overrides"

	// Subscription events
	EventTypeSubscribe   EventType = "subscribe"
	EventTypeUnsubscribe EventType = "unsubscribe"
)

// WSMessage is the universal message format
type WSMessage struct {
	Type      EventType              `json:"type"`
	Data      interface{}            `json:"data,omitempty"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
	ID        string                 `json:"id,omitempty"`
}

// ChannelType is a stream a client can subscribe to.
type ChannelType string

const (
	ChannelAPILogs ChannelType = "api_logs"
	ChannelFlow    ChannelType = "flow"
	ChannelSystem  ChannelType = "system"
)

type SubscribeRequest struct {
	Channels []ChannelType `json:"channels"`
}

type UnsubscribeRequest struct {
	Channels []ChannelType `json:"channels"`
}

// ErrorData for error events
type ErrorData struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// StepChangeData tells the panel which step a case is on.
type StepChangeData struct {
	CaseID   string `json:"case_id"`
	Flow     string `json:"flow"`
	Step     string `json:"step"`
	Redirect bool   `json:"redirect"`
	Reason   string `json:"reason,omitempty"`
}

// Helper to create messages
func NewMessage(eventType EventType, data interface{}) *WSMessage {
	return &WSMessage{
		Type:      eventType,
		Data:      data,
		Timestamp: time.Now(),
		ID:        ulid.Make().String(),
	}
}

func (m *WSMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func ParseMessage(data []byte) (*WSMessage, error) {
	var msg WSMessage
	err := json.Unmarshal(data, &msg)
	return &msg, err
}
