// internal/handlers/lookup/lookup.go
package lookup

import (
	"net/http"
	"strconv"

	"signup-service/internal/domain/signup"
	"signup-service/internal/middleware"
	xerrors "signup-service/internal/pkg/errors"
	"signup-service/internal/pkg/request"
	"signup-service/internal/pkg/response"
	"signup-service/internal/service/advisor"
	"signup-service/internal/service/backend"
	"signup-service/internal/service/flow"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type LookupHandler struct {
	engine  *flow.Engine
	lookup  *flow.Lookup
	private *flow.Private
	logger  *zap.Logger
}

func NewLookupHandler(engine *flow.Engine, lookup *flow.Lookup, private *flow.Private, logger *zap.Logger) *LookupHandler {
	return &LookupHandler{
		engine:  engine,
		lookup:  lookup,
		private: private,
		logger:  logger,
	}
}

// ListProducts returns the catalog. ?region= picks the prices, ?company=true
// the company view and ?includeFast=true shows the fixed price in SE1/SE2.
func (h *LookupHandler) ListProducts(c *gin.Context) {
	region := signup.Elomrade(c.Query("region"))
	if region != "" && !region.Valid() {
		response.BadRequest(c, "unknown price region", nil)
		return
	}
	company, _ := strconv.ParseBool(c.DefaultQuery("company", "false"))
	includeFast, _ := strconv.ParseBool(c.DefaultQuery("includeFast", "false"))

	response.Success(c, http.StatusOK, "products retrieved", h.lookup.Products(region, company, includeFast))
}

// SearchAddresses runs ?q= against the address service. A failing service
// answers 502 with the message to show under the search field.
func (h *LookupHandler) SearchAddresses(c *gin.Context) {
	caseID, _ := middleware.GetCaseID(c)
	res, err := h.lookup.SearchAddresses(c.Request.Context(), caseID, c.Query("q"))
	if err != nil {
		if xerrors.Is(err, xerrors.ErrBackendUnavailable) {
			response.Error(c, http.StatusBadGateway, backend.ErrAddressLookup.Error(), err)
			return
		}
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "addresses retrieved", res)
}

func (h *LookupHandler) Apartments(c *gin.Context) {
	var addr signup.Address
	if err := request.BindJSON(c, &addr); err != nil {
		response.FromError(c, err)
		return
	}
	caseID, _ := middleware.GetCaseID(c)
	numbers, err := h.lookup.Apartments(c.Request.Context(), caseID, addr)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "apartments retrieved", numbers)
}

// DetectRegion sets the price region of the case from the client IP, once.
func (h *LookupHandler) DetectRegion(c *gin.Context) {
	cs, err := h.engine.Open(c.Request.Context(), middleware.MustGetCaseID(c))
	if err != nil {
		response.FromError(c, err)
		return
	}
	region := h.private.EnsureRegion(c.Request.Context(), cs, c.ClientIP())
	response.Success(c, http.StatusOK, "region", gin.H{"elomrade": region, "detected": region != ""})
}

func (h *LookupHandler) LookupCompany(c *gin.Context) {
	caseID, _ := middleware.GetCaseID(c)
	info, err := h.lookup.Company(c.Request.Context(), caseID, c.Param("orgNr"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "company retrieved", info)
}

func (h *LookupHandler) AdvisorQuestions(c *gin.Context) {
	response.Success(c, http.StatusOK, "advisor questions", advisor.Questions)
}

type recommendRequest struct {
	Answers []string `json:"answers" binding:"required,len=5,dive,oneof=A B C"`
}

// Recommend scores the five advisor answers.
func (h *LookupHandler) Recommend(c *gin.Context) {
	var req recommendRequest
	if err := request.BindJSON(c, &req); err != nil {
		response.FromError(c, err)
		return
	}
	rec, err := advisor.Recommend(req.Answers)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, rec.Label, rec)
}
