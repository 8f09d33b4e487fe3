// internal/websocket/hub.go
package websocket

import (
	"context"
	"sync"

	wstypes "signup-service/internal/domain/websocket"
	"signup-service/internal/pkg/jwt"

	"go.uber.org/zap"
)

type Hub struct {
	// Registered clients by case ID
	clients map[string]map[*Client]bool
	mu      sync.RWMutex

	// Registration/unregistration
	Register   chan *Client
	unregister chan *Client

	// Broadcasting
	broadcast chan *BroadcastMessage

	// Handler registry for modular message handling
	handlerRegistry *HandlerRegistry

	jwtVerifier *jwt.Verifier
	devPanel    bool
	logger      *zap.Logger
}

// BroadcastMessage targets the clients of the listed cases, or every client
// when CaseIDs is nil.
type BroadcastMessage struct {
	CaseIDs []string
	Channel wstypes.ChannelType
	Message *wstypes.WSMessage
}

func NewHub(jwtVerifier *jwt.Verifier, devPanel bool, logger *zap.Logger) *Hub {
	return &Hub{
		clients:         make(map[string]map[*Client]bool),
		Register:        make(chan *Client),
		unregister:      make(chan *Client),
		broadcast:       make(chan *BroadcastMessage, 256),
		handlerRegistry: NewHandlerRegistry(),
		jwtVerifier:     jwtVerifier,
		devPanel:        devPanel,
		logger:          logger,
	}
}

// AuthenticateClient validates a case token.
func (h *Hub) AuthenticateClient(_ context.Context, token string) (*ClientAuth, error) {
	if token == "" {
		return nil, ErrUnauthorized
	}
	claims, err := h.jwtVerifier.VerifyCaseToken(token)
	if err != nil {
		return nil, ErrInvalidToken
	}

	return &ClientAuth{
		CaseID:  claims.CaseID,
		TokenID: claims.ID,
	}, nil
}

// DevPanelEnabled reports whether the developer streams are open.
func (h *Hub) DevPanelEnabled() bool {
	return h.devPanel
}

// RegisterHandler registers a message handler
func (h *Hub) RegisterHandler(handler MessageHandler) {
	h.handlerRegistry.Register(handler)
}

// HandleClientMessage processes a message from a client using registered handlers
func (h *Hub) HandleClientMessage(ctx context.Context, client *Client, msg *wstypes.WSMessage) error {
	handler, exists := h.handlerRegistry.GetHandler(msg.Type)
	if !exists {
		return nil // Will be handled by client's default handler
	}

	return handler.HandleMessage(ctx, client, msg)
}

func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.shutdown()
			return

		case client := <-h.Register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case msg := <-h.broadcast:
			h.BroadcastMessage(msg)
		}
	}
}

func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.clients[client.caseID] == nil {
		h.clients[client.caseID] = make(map[*Client]bool)
	}
	h.clients[client.caseID][client] = true

	h.logger.Info("websocket client connected",
		zap.String("case_id", client.caseID),
		zap.String("token_id", client.tokenID),
		zap.Int("total", h.totalClients()),
	)

	client.SendMessage(wstypes.NewMessage(wstypes.EventTypeConnected, map[string]interface{}{
		"case_id":   client.caseID,
		"dev_panel": h.devPanel,
		"events":    h.handlerRegistry.Events(),
	}))
}

func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if clients, ok := h.clients[client.caseID]; ok {
		if _, exists := clients[client]; exists {
			delete(clients, client)
			client.Close()

			if len(clients) == 0 {
				delete(h.clients, client.caseID)
			}

			h.logger.Info("websocket client disconnected",
				zap.String("case_id", client.caseID),
				zap.Int("total", h.totalClients()),
			)
		}
	}
}

func (h *Hub) BroadcastMessage(msg *BroadcastMessage) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if msg.CaseIDs == nil {
		for _, clients := range h.clients {
			for client := range clients {
				if client.IsSubscribed(msg.Channel) {
					client.SendMessage(msg.Message)
				}
			}
		}
		return
	}

	for _, caseID := range msg.CaseIDs {
		for client := range h.clients[caseID] {
			if client.IsSubscribed(msg.Channel) {
				client.SendMessage(msg.Message)
			}
		}
	}
}

// BroadcastToCase queues a message for one case's subscribers. It never
// blocks the caller; a full queue drops the message.
func (h *Hub) BroadcastToCase(caseID string, channel wstypes.ChannelType, msg *wstypes.WSMessage) {
	select {
	case h.broadcast <- &BroadcastMessage{CaseIDs: []string{caseID}, Channel: channel, Message: msg}:
	default:
		h.logger.Warn("websocket broadcast queue full, dropping message",
			zap.String("case_id", caseID),
			zap.String("type", string(msg.Type)),
		)
	}
}

// BroadcastAPILog streams a backend call record to the developer panel.
func (h *Hub) BroadcastAPILog(caseID string, entry interface{}) {
	if !h.devPanel || caseID == "" {
		return
	}
	h.BroadcastToCase(caseID, wstypes.ChannelAPILogs, wstypes.NewMessage(wstypes.EventTypeAPILog, entry))
}

// BroadcastStepChange tells the case's clients which step is shown.
func (h *Hub) BroadcastStepChange(data wstypes.StepChangeData) {
	if data.CaseID == "" {
		return
	}
	h.BroadcastToCase(data.CaseID, wstypes.ChannelFlow, wstypes.NewMessage(wstypes.EventTypeStepChange, data))
}

func (h *Hub) GetConnectedClients(caseID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[caseID])
}

func (h *Hub) TotalClients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.totalClients()
}

// DisconnectCase closes every connection of a case, e.g. after a restart.
func (h *Hub) DisconnectCase(caseID string, reason string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	clients, ok := h.clients[caseID]
	if !ok {
		return
	}

	disconnectMsg := wstypes.NewMessage(wstypes.EventTypeDisconnected, map[string]interface{}{
		"reason": reason,
	})
	for client := range clients {
		client.SendMessage(disconnectMsg)
		client.Close()
	}

	delete(h.clients, caseID)
	h.logger.Info("disconnected case clients", zap.String("case_id", caseID), zap.String("reason", reason))
}

func (h *Hub) totalClients() int {
	total := 0
	for _, clients := range h.clients {
		total += len(clients)
	}
	return total
}

func (h *Hub) shutdown() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, clients := range h.clients {
		for client := range clients {
			client.Close()
		}
	}
	h.clients = make(map[string]map[*Client]bool)
}
