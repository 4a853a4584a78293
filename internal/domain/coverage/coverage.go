package coverage

import "github.com/shopspring/decimal"

// Coverage is a single coverage (Deckung) attached to a contract.
// Rows are only ever created; they are never updated or deleted.
type Coverage struct {
	ID             int64
	ContractID     int64
	CoverageTypeID int64
	Amount         decimal.Decimal
}

// NewCoverage creates an unsaved coverage. ID is assigned by the store on insert.
func NewCoverage(contractID, coverageTypeID int64, amount decimal.Decimal) *Coverage {
	return &Coverage{
		ContractID:     contractID,
		CoverageTypeID: coverageTypeID,
		Amount:         amount,
	}
}

// IsPersisted reports whether the store has assigned an id.
func (c *Coverage) IsPersisted() bool {
	return c.ID > 0
}
