// internal/handlers/flow/flow_handler.go
package flow

import (
	"net/http"

	"signup-service/internal/middleware"
	"signup-service/internal/pkg/request"
	"signup-service/internal/pkg/response"
	service "signup-service/internal/service/flow"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type FlowHandler struct {
	engine  *service.Engine
	private *service.Private
	company *service.Company
	logger  *zap.Logger
}

func NewFlowHandler(engine *service.Engine, private *service.Private, company *service.Company, logger *zap.Logger) *FlowHandler {
	return &FlowHandler{
		engine:  engine,
		private: private,
		company: company,
		logger:  logger,
	}
}

// ViewPrivate resolves ?step= against the case and renders the screen the
// customer may see. Redirects are part of the outcome, never an error.
func (h *FlowHandler) ViewPrivate(c *gin.Context) {
	cs, ok := h.open(c)
	if !ok {
		return
	}
	out, err := h.private.View(c.Request.Context(), cs, c.Query("step"), c.ClientIP())
	h.respond(c, cs, "", out, err)
}

// PrivateAction runs POST /flow/private/actions/:action.
func (h *FlowHandler) PrivateAction(c *gin.Context) {
	cs, ok := h.open(c)
	if !ok {
		return
	}
	action := c.Param("action")
	out, err := h.private.Do(c.Request.Context(), cs, action, request.Decoder(c))
	h.respond(c, cs, action, out, err)
}

func (h *FlowHandler) ViewCompany(c *gin.Context) {
	cs, ok := h.open(c)
	if !ok {
		return
	}
	out, err := h.company.View(c.Request.Context(), cs, c.Query("companyStep"))
	h.respond(c, cs, "", out, err)
}

func (h *FlowHandler) CompanyAction(c *gin.Context) {
	cs, ok := h.open(c)
	if !ok {
		return
	}
	action := c.Param("action")
	out, err := h.company.Do(c.Request.Context(), cs, action, request.Decoder(c))
	h.respond(c, cs, action, out, err)
}

func (h *FlowHandler) open(c *gin.Context) (*service.Case, bool) {
	cs, err := h.engine.Open(c.Request.Context(), middleware.MustGetCaseID(c))
	if err != nil {
		h.logger.Error("failed to open case", zap.Error(err))
		response.FromError(c, err)
		return nil, false
	}
	return cs, true
}

// respond sends the outcome. Validation failures keep the customer on the
// current step and carry the case state along.
func (h *FlowHandler) respond(c *gin.Context, cs *service.Case, action string, out service.Outcome, err error) {
	if err != nil {
		h.logger.Info("flow action rejected",
			zap.String("case_id", cs.ID),
			zap.String("action", action),
			zap.Error(err),
		)
		response.FromError(c, err, gin.H{"state": cs.State()})
		return
	}
	response.Success(c, http.StatusOK, out.Message, out)
}
