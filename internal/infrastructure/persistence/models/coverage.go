package models

import (
	"github.com/insurance/coverage/internal/domain/coverage"
	"github.com/shopspring/decimal"
)

// CoverageModel maps the deckung table. The Vertrag and Deckungsart fields
// only declare the foreign keys (fk_deckung_vertrag, fk_deckung_deckungsart);
// they are never loaded or saved.
type CoverageModel struct {
	ID             int64             `gorm:"column:id;primaryKey;autoIncrement"`
	ContractID     int64             `gorm:"column:vertrag_fk;not null"`
	CoverageTypeID int64             `gorm:"column:deckungsart_fk;not null"`
	Amount         decimal.Decimal   `gorm:"column:deckungsbetrag;type:decimal(18,2);not null"`
	Vertrag        ContractModel     `gorm:"foreignKey:ContractID;references:ID"`
	Deckungsart    CoverageTypeModel `gorm:"foreignKey:CoverageTypeID;references:ID"`
}

func (CoverageModel) TableName() string {
	return "deckung"
}

// ToDomain converts the model to a domain Coverage
func (m *CoverageModel) ToDomain() *coverage.Coverage {
	return &coverage.Coverage{
		ID:             m.ID,
		ContractID:     m.ContractID,
		CoverageTypeID: m.CoverageTypeID,
		Amount:         m.Amount,
	}
}

// CoverageModelFromDomain converts a domain Coverage to its model
func CoverageModelFromDomain(c *coverage.Coverage) *CoverageModel {
	return &CoverageModel{
		ID:             c.ID,
		ContractID:     c.ContractID,
		CoverageTypeID: c.CoverageTypeID,
		Amount:         c.Amount,
	}
}
