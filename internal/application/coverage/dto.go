package coverage

import (
	"github.com/insurance/coverage/internal/domain/coverage"
	"github.com/shopspring/decimal"
)

// CreateCoverageRequest is the body of a create coverage call. The contract
// id comes from the path.
type CreateCoverageRequest struct {
	CoverageTypeID int64            `json:"coverage_type_id" binding:"required"`
	Amount         *decimal.Decimal `json:"amount" binding:"required"`
}

// CoverageResponse represents a coverage in API responses
type CoverageResponse struct {
	ID             int64           `json:"id"`
	ContractID     int64           `json:"contract_id"`
	CoverageTypeID int64           `json:"coverage_type_id"`
	Amount         decimal.Decimal `json:"amount"`
}

// ToCoverageResponse converts a domain Coverage to its response
func ToCoverageResponse(c *coverage.Coverage) CoverageResponse {
	return CoverageResponse{
		ID:             c.ID,
		ContractID:     c.ContractID,
		CoverageTypeID: c.CoverageTypeID,
		Amount:         c.Amount,
	}
}
