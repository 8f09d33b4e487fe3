// internal/handlers/dev/dev_handler.go
package dev

import (
	"errors"
	"net/http"

	"signup-service/internal/domain/signup"
	"signup-service/internal/middleware"
	"signup-service/internal/pkg/request"
	"signup-service/internal/pkg/response"
	"signup-service/internal/service/apilog"
	"signup-service/internal/service/devpanel"

	"github.com/gin-gonic/gin"
)

// DevHandler serves the developer panel: demo overrides and the backend
// call log of the case. Everything answers 404 while the panel is disabled.
type DevHandler struct {
	overrides *devpanel.Store
	logs      *apilog.RingRecorder
}

func NewDevHandler(overrides *devpanel.Store, logs *apilog.RingRecorder) *DevHandler {
	return &DevHandler{
		overrides: overrides,
		logs:      logs,
	}
}

func (h *DevHandler) enabled(c *gin.Context) bool {
	if !h.overrides.Enabled() {
		response.NotFound(c, devpanel.ErrDisabled.Error())
		return false
	}
	return true
}

func (h *DevHandler) GetOverrides(c *gin.Context) {
	if !h.enabled(c) {
		return
	}
	o := h.overrides.Get(c.Request.Context(), middleware.MustGetCaseID(c))
	response.Success(c, http.StatusOK, "overrides retrieved", o)
}

func (h *DevHandler) SetOverrides(c *gin.Context) {
	if !h.enabled(c) {
		return
	}
	var req signup.DevOverrides
	if err := request.BindJSON(c, &req); err != nil {
		response.FromError(c, err)
		return
	}
	o, err := h.overrides.Set(c.Request.Context(), middleware.MustGetCaseID(c), req)
	if err != nil {
		if errors.Is(err, devpanel.ErrDisabled) {
			response.NotFound(c, err.Error())
			return
		}
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "overrides updated", o)
}

// GetLogs returns the latest backend calls of the case, newest first.
func (h *DevHandler) GetLogs(c *gin.Context) {
	if !h.enabled(c) {
		return
	}
	response.Success(c, http.StatusOK, "api logs", h.logs.Entries(middleware.MustGetCaseID(c)))
}

func (h *DevHandler) ClearLogs(c *gin.Context) {
	if !h.enabled(c) {
		return
	}
	h.logs.Clear(middleware.MustGetCaseID(c))
	response.Success(c, http.StatusOK, "api logs cleared", nil)
}
