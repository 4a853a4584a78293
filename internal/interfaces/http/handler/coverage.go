package handler

import (
	"context"
	"strconv"

	"github.com/gin-gonic/gin"
	coverageapp "github.com/insurance/coverage/internal/application/coverage"
	"github.com/insurance/coverage/internal/domain/coverage"
	"github.com/shopspring/decimal"
)

// CoverageCreator creates coverages; implemented by coverageapp.CoverageService
type CoverageCreator interface {
	CreateCoverage(ctx context.Context, contractID, coverageTypeID int64, amount decimal.Decimal) (*coverage.Coverage, error)
}

// CoverageHandler handles coverage API endpoints
type CoverageHandler struct {
	BaseHandler
	coverageService CoverageCreator
}

// NewCoverageHandler creates a new CoverageHandler
func NewCoverageHandler(coverageService CoverageCreator) *CoverageHandler {
	return &CoverageHandler{
		coverageService: coverageService,
	}
}

// RegisterRoutes implements router.RouteRegistrar
func (h *CoverageHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/contracts/:contractId/coverages", h.Create)
}

// Create handles POST /contracts/:contractId/coverages
func (h *CoverageHandler) Create(c *gin.Context) {
	contractID, err := strconv.ParseInt(c.Param("contractId"), 10, 64)
	if err != nil {
		h.BadRequest(c, "Invalid contract ID")
		return
	}

	var req coverageapp.CreateCoverageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	created, err := h.coverageService.CreateCoverage(c.Request.Context(), contractID, req.CoverageTypeID, *req.Amount)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, coverageapp.ToCoverageResponse(created))
}
