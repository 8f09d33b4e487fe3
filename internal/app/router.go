// internal/app/router.go
package app

import (
	"net/http"

	casesHandler "signup-service/internal/handlers/cases"
	devHandler "signup-service/internal/handlers/dev"
	flowHandler "signup-service/internal/handlers/flow"
	lookupHandler "signup-service/internal/handlers/lookup"
	wsHandler "signup-service/internal/handlers/websocket"
	"signup-service/internal/middleware"

	"github.com/gin-gonic/gin"
)

type Handlers struct {
	CaseHandler    *casesHandler.CaseHandler
	FlowHandler    *flowHandler.FlowHandler
	LookupHandler  *lookupHandler.LookupHandler
	DevHandler     *devHandler.DevHandler
	WSHandler      *wsHandler.WebSocketHandler
	AuthMiddleware *middleware.AuthMiddleware
	Metrics        http.Handler
}

func SetupRouter(r *gin.Engine, h *Handlers) {
	api := r.Group("/api/v1")

	// ==================== Health Check ====================
	api.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "version": "1.0.0"})
	})

	// ==================== Metrics ====================
	r.GET("/metrics", gin.WrapH(h.Metrics))

	// ==================== WebSocket ====================
	r.GET("/ws", h.WSHandler.HandleConnection)
	api.GET("/ws/stats", h.WSHandler.GetStats)

	// ==================== Cases ====================
	api.POST("/cases", h.CaseHandler.CreateCase)

	current := api.Group("/cases/current")
	current.Use(h.AuthMiddleware.Auth())
	{
		current.GET("", h.CaseHandler.GetCurrent)
		current.PUT("/customer-type", h.CaseHandler.SetCustomerType)
		current.DELETE("", h.CaseHandler.ResetCase)
		current.GET("/orders", h.CaseHandler.ListOrders)
		current.GET("/orders/:orderId", h.CaseHandler.GetOrder)
	}

	// ==================== Flows ====================
	flows := api.Group("/flow")
	flows.Use(h.AuthMiddleware.Auth())
	{
		flows.GET("/private", h.FlowHandler.ViewPrivate)
		flows.POST("/private/actions/:action", h.FlowHandler.PrivateAction)
		flows.GET("/company", h.FlowHandler.ViewCompany)
		flows.POST("/company/actions/:action", h.FlowHandler.CompanyAction)
	}

	// ==================== Lookups ====================
	api.GET("/products", h.LookupHandler.ListProducts)
	api.GET("/advisor/questions", h.LookupHandler.AdvisorQuestions)
	api.POST("/advisor/recommend", h.LookupHandler.Recommend)

	lookups := api.Group("")
	lookups.Use(h.AuthMiddleware.OptionalAuth())
	{
		lookups.GET("/addresses/search", h.LookupHandler.SearchAddresses)
		lookups.POST("/addresses/apartments", h.LookupHandler.Apartments)
		lookups.GET("/companies/:orgNr", h.LookupHandler.LookupCompany)
	}
	api.GET("/region/detect", h.AuthMiddleware.Auth(), h.LookupHandler.DetectRegion)

	// ==================== Developer Panel ====================
	dev := api.Group("/dev")
	dev.Use(h.AuthMiddleware.Auth())
	{
		dev.GET("/overrides", h.DevHandler.GetOverrides)
		dev.PUT("/overrides", h.DevHandler.SetOverrides)
		dev.GET("/logs", h.DevHandler.GetLogs)
		dev.DELETE("/logs", h.DevHandler.ClearLogs)
	}
}
