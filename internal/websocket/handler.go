// internal/websocket/handler.go
package websocket

import (
	"context"
	"sort"

	wstypes "signup-service/internal/domain/websocket"
)

// MessageHandler serves client-initiated events for one concern.
type MessageHandler interface {
	HandleMessage(ctx context.Context, client *Client, msg *wstypes.WSMessage) error
	SupportedEvents() []wstypes.EventType
}

// HandlerRegistry routes event types to handlers. The last registration for
// an event wins.
type HandlerRegistry struct {
	handlers map[wstypes.EventType]MessageHandler
}

func NewHandlerRegistry() *HandlerRegistry {
	return &HandlerRegistry{
		handlers: make(map[wstypes.EventType]MessageHandler),
	}
}

func (r *HandlerRegistry) Register(handler MessageHandler) {
	for _, eventType := range handler.SupportedEvents() {
		r.handlers[eventType] = handler
	}
}

func (r *HandlerRegistry) GetHandler(eventType wstypes.EventType) (MessageHandler, bool) {
	handler, exists := r.handlers[eventType]
	return handler, exists
}

// Events lists the registered event types, sorted.
func (r *HandlerRegistry) Events() []wstypes.EventType {
	out := make([]wstypes.EventType, 0, len(r.handlers))
	for e := range r.handlers {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
