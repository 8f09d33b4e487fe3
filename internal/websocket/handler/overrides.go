// internal/websocket/handler/overrides.go
package handlers

import (
	"context"
	"fmt"

	"signup-service/internal/domain/signup"
	wstypes "signup-service/internal/domain/websocket"
	"signup-service/internal/service/devpanel"
	ws "signup-service/internal/websocket"
)

// OverridesHandler lets the developer panel read and change a case's demo
// overrides over the socket.
type OverridesHandler struct {
	store *devpanel.Store
}

func NewOverridesHandler(store *devpanel.Store) *OverridesHandler {
	return &OverridesHandler{store: store}
}

func (h *OverridesHandler) SupportedEvents() []wstypes.EventType {
	return []wstypes.EventType{
		wstypes.EventTypeOverridesGet,
		wstypes.EventTypeOverridesSet,
	}
}

func (h *OverridesHandler) HandleMessage(ctx context.Context, client *ws.Client, msg *wstypes.WSMessage) error {
	switch msg.Type {
	case wstypes.EventTypeOverridesGet:
		client.SendMessage(wstypes.NewMessage(wstypes.EventTypeOverrides, h.store.Get(ctx, client.CaseID())))
		return nil

	case wstypes.EventTypeOverridesSet:
		return h.handleSet(ctx, client, msg)

	default:
		return fmt.Errorf("unsupported event type: %s", msg.Type)
	}
}

func (h *OverridesHandler) handleSet(ctx context.Context, client *ws.Client, msg *wstypes.WSMessage) error {
	var req signup.DevOverrides
	if err := ws.DecodeData(msg.Data, &req); err != nil {
		client.SendError("invalid_request", "Invalid overrides", err.Error())
		return nil
	}

	saved, err := h.store.Set(ctx, client.CaseID(), req)
	if err != nil {
		client.SendError("overrides_rejected", "Failed to save overrides", err.Error())
		return nil
	}

	client.SendMessage(wstypes.NewMessage(wstypes.EventTypeOverrides, saved))
	return nil
}
