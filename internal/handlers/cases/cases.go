// internal/handlers/cases/cases.go
package cases

import (
	"net/http"

	"signup-service/internal/domain/signup"
	"signup-service/internal/middleware"
	xerrors "signup-service/internal/pkg/errors"
	"signup-service/internal/pkg/request"
	"signup-service/internal/pkg/response"
	"signup-service/internal/service/flow"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// TokenIssuer signs case tokens.
type TokenIssuer interface {
	GenerateCaseToken(caseID, customerType string) (string, string, error)
}

type CaseHandler struct {
	engine     *flow.Engine
	tokens     TokenIssuer
	orders     signup.OrderRepository
	selections signup.SelectionRepository
	logger     *zap.Logger
}

func NewCaseHandler(engine *flow.Engine, tokens TokenIssuer, orders signup.OrderRepository, selections signup.SelectionRepository, logger *zap.Logger) *CaseHandler {
	return &CaseHandler{
		engine:     engine,
		tokens:     tokens,
		orders:     orders,
		selections: selections,
		logger:     logger,
	}
}

type caseView struct {
	CaseID string           `json:"caseId"`
	Found  bool             `json:"found"`
	State  signup.CaseState `json:"state"`
}

// CreateCase starts a case and returns the token that grants access to it.
func (h *CaseHandler) CreateCase(c *gin.Context) {
	var req signup.CreateCaseRequest
	if err := request.BindJSON(c, &req); err != nil {
		response.FromError(c, err)
		return
	}

	cs, err := h.engine.CreateCase(c.Request.Context(), req.CustomerType)
	if err != nil {
		h.logger.Error("failed to create case", zap.Error(err))
		response.FromError(c, err)
		return
	}

	state := cs.State()
	token, _, err := h.tokens.GenerateCaseToken(cs.ID, string(state.CustomerType))
	if err != nil {
		h.logger.Error("failed to sign case token", zap.String("case_id", cs.ID), zap.Error(err))
		response.Error(c, http.StatusInternalServerError, "failed to issue case token", err)
		return
	}

	c.Header("X-Case-Token", token)
	response.Success(c, http.StatusCreated, "case created", signup.CreateCaseResponse{
		CaseID: cs.ID,
		Token:  token,
		State:  state,
	})
}

// GetCurrent returns the case of the token. An expired case comes back as a
// fresh private case with found=false.
func (h *CaseHandler) GetCurrent(c *gin.Context) {
	cs, ok := h.open(c)
	if !ok {
		return
	}
	response.Success(c, http.StatusOK, "case retrieved", caseView{CaseID: cs.ID, Found: cs.Found, State: cs.State()})
}

func (h *CaseHandler) SetCustomerType(c *gin.Context) {
	var req signup.SetCustomerTypeRequest
	if err := request.BindJSON(c, &req); err != nil {
		response.FromError(c, err)
		return
	}

	cs, ok := h.open(c)
	if !ok {
		return
	}
	state, err := h.engine.SetCustomerType(c.Request.Context(), cs, req.CustomerType)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "customer type updated", caseView{CaseID: cs.ID, Found: true, State: state})
}

// ResetCase returns the case to its initial state.
func (h *CaseHandler) ResetCase(c *gin.Context) {
	cs, ok := h.open(c)
	if !ok {
		return
	}
	state, err := h.engine.ResetCase(c.Request.Context(), cs)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "case reset", caseView{CaseID: cs.ID, Found: true, State: state})
}

// ListOrders returns the orders signed within the case.
func (h *CaseHandler) ListOrders(c *gin.Context) {
	caseID := middleware.MustGetCaseID(c)
	orders, err := h.orders.ListByCase(c.Request.Context(), caseID)
	if err != nil {
		h.logger.Error("failed to list orders", zap.String("case_id", caseID), zap.Error(err))
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "orders retrieved", orders)
}

type orderView struct {
	Order     *signup.Order          `json:"order"`
	Selection *signup.SavedSelection `json:"selection,omitempty"`
}

// GetOrder returns one order of the case with its extra services, if any
// were saved.
func (h *CaseHandler) GetOrder(c *gin.Context) {
	caseID := middleware.MustGetCaseID(c)
	ctx := c.Request.Context()

	order, err := h.orders.FindByID(ctx, c.Param("orderId"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	if order.CaseID != caseID {
		response.NotFound(c, "order not found")
		return
	}

	view := orderView{Order: order}
	sel, err := h.selections.FindSelection(ctx, order.ID)
	switch {
	case err == nil:
		view.Selection = sel
	case !xerrors.Is(err, xerrors.ErrNotFound):
		h.logger.Warn("failed to load extra services selection", zap.String("order_id", order.ID), zap.Error(err))
	}
	response.Success(c, http.StatusOK, "order retrieved", view)
}

func (h *CaseHandler) open(c *gin.Context) (*flow.Case, bool) {
	cs, err := h.engine.Open(c.Request.Context(), middleware.MustGetCaseID(c))
	if err != nil {
		response.FromError(c, err)
		return nil, false
	}
	return cs, true
}
