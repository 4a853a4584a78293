package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// CustomerModel maps the kunde table.
type CustomerModel struct {
	ID          int64     `gorm:"column:id;primaryKey;autoIncrement"`
	BirthDate   time.Time `gorm:"column:geburtsdatum;type:date;not null"`
	DisplayName string    `gorm:"column:name;type:varchar(200)"`
}

func (CustomerModel) TableName() string {
	return "kunde"
}

// ContractModel maps the vertrag table.
type ContractModel struct {
	ID             int64         `gorm:"column:id;primaryKey;autoIncrement"`
	ProductID      int64         `gorm:"column:produkt_fk;not null"`
	CustomerID     int64         `gorm:"column:kunde_fk;not null"`
	InsuranceStart time.Time     `gorm:"column:versicherungsbeginn;type:date;not null"`
	Kunde          CustomerModel `gorm:"foreignKey:CustomerID;references:ID"`
}

func (ContractModel) TableName() string {
	return "vertrag"
}

// CoverageTypeModel maps the deckungsart table.
type CoverageTypeModel struct {
	ID        int64  `gorm:"column:id;primaryKey;autoIncrement"`
	ProductID int64  `gorm:"column:produkt_fk;not null"`
	Name      string `gorm:"column:bezeichnung;type:varchar(100)"`
}

func (CoverageTypeModel) TableName() string {
	return "deckungsart"
}

// CoverageAmountModel maps the deckungsbetrag table, the allow-list of
// amounts offered per coverage type.
type CoverageAmountModel struct {
	ID             int64             `gorm:"column:id;primaryKey;autoIncrement"`
	CoverageTypeID int64             `gorm:"column:deckungsart_fk;not null"`
	Amount         decimal.Decimal   `gorm:"column:deckungsbetrag;type:decimal(18,2);not null"`
	Deckungsart    CoverageTypeModel `gorm:"foreignKey:CoverageTypeID;references:ID"`
}

func (CoverageAmountModel) TableName() string {
	return "deckungsbetrag"
}

// CoveragePriceModel maps the deckungspreis table. ValidFrom and ValidTo are
// both inclusive.
type CoveragePriceModel struct {
	ID               int64               `gorm:"column:id;primaryKey;autoIncrement"`
	CoverageAmountID int64               `gorm:"column:deckungsbetrag_fk;not null"`
	ValidFrom        time.Time           `gorm:"column:gueltig_von;type:date;not null"`
	ValidTo          time.Time           `gorm:"column:gueltig_bis;type:date;not null"`
	Price            decimal.Decimal     `gorm:"column:preis;type:decimal(18,2);not null;default:0"`
	Deckungsbetrag   CoverageAmountModel `gorm:"foreignKey:CoverageAmountID;references:ID"`
}

func (CoveragePriceModel) TableName() string {
	return "deckungspreis"
}

// ReferenceModels lists all models in dependency order, for AutoMigrate in tests.
func ReferenceModels() []any {
	return []any{
		&CustomerModel{},
		&ContractModel{},
		&CoverageTypeModel{},
		&CoverageAmountModel{},
		&CoveragePriceModel{},
		&CoverageModel{},
	}
}
