package coverage

import (
	"fmt"

	"github.com/insurance/coverage/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Error codes raised by coverage creation
const (
	CodeContractNotFound            = "CONTRACT_NOT_FOUND"
	CodeCoverageTypeNotFound        = "COVERAGE_TYPE_NOT_FOUND"
	CodeCustomerNotFound            = "CUSTOMER_NOT_FOUND"
	CodeCoverageTypeProductMismatch = "COVERAGE_TYPE_PRODUCT_MISMATCH"
	CodeInvalidCoverageAmount       = "INVALID_COVERAGE_AMOUNT"
	CodeCoveragePriceNotAvailable   = "COVERAGE_PRICE_NOT_AVAILABLE"
	CodeCoverageTypeRuleViolation   = "COVERAGE_TYPE_RULE_VIOLATION"
	CodeStorageFailure              = "STORAGE_FAILURE"
)

// Sentinels for errors.Is. Matching is by code, so errors built by the
// constructors below match regardless of their details.
var (
	ErrContractNotFound            = shared.NewCategorizedError(shared.CategoryNotFound, CodeContractNotFound, "Contract not found")
	ErrCoverageTypeNotFound        = shared.NewCategorizedError(shared.CategoryNotFound, CodeCoverageTypeNotFound, "Coverage type not found")
	ErrCustomerNotFound            = shared.NewCategorizedError(shared.CategoryNotFound, CodeCustomerNotFound, "Customer not found")
	ErrCoverageTypeProductMismatch = shared.NewCategorizedError(shared.CategoryInvalidValue, CodeCoverageTypeProductMismatch, "Coverage type does not belong to the contract's product")
	ErrInvalidCoverageAmount       = shared.NewCategorizedError(shared.CategoryInvalidValue, CodeInvalidCoverageAmount, "Coverage amount is not offered for this coverage type")
	ErrCoveragePriceNotAvailable   = shared.NewCategorizedError(shared.CategoryInvalidValue, CodeCoveragePriceNotAvailable, "No coverage price is valid at the contract start date")
	ErrCoverageTypeRuleViolation   = shared.NewCategorizedError(shared.CategoryRuleViolation, CodeCoverageTypeRuleViolation, "Customer does not satisfy the coverage type rules")
	ErrStorageFailure              = shared.NewCategorizedError(shared.CategoryStorage, CodeStorageFailure, "Storage failure")
)

func NewContractNotFoundError(contractID int64) *shared.DomainError {
	e := shared.NewCategorizedError(shared.CategoryNotFound, CodeContractNotFound,
		fmt.Sprintf("contract %d not found", contractID))
	return e.WithDetail("contract_id", contractID)
}

func NewCoverageTypeNotFoundError(coverageTypeID int64) *shared.DomainError {
	e := shared.NewCategorizedError(shared.CategoryNotFound, CodeCoverageTypeNotFound,
		fmt.Sprintf("coverage type %d not found", coverageTypeID))
	return e.WithDetail("coverage_type_id", coverageTypeID)
}

func NewCustomerNotFoundError(customerID int64) *shared.DomainError {
	e := shared.NewCategorizedError(shared.CategoryNotFound, CodeCustomerNotFound,
		fmt.Sprintf("customer %d not found", customerID))
	return e.WithDetail("customer_id", customerID)
}

// NewCoverageTypeProductMismatchError reports both product ids, coverage type first.
func NewCoverageTypeProductMismatchError(coverageTypeProductID, contractProductID int64) *shared.DomainError {
	e := shared.NewCategorizedError(shared.CategoryInvalidValue, CodeCoverageTypeProductMismatch,
		fmt.Sprintf("coverage type belongs to product %d, contract to product %d", coverageTypeProductID, contractProductID))
	return e.WithDetail("coverage_type_product_id", coverageTypeProductID).
		WithDetail("contract_product_id", contractProductID)
}

func NewInvalidCoverageAmountError(amount decimal.Decimal) *shared.DomainError {
	e := shared.NewCategorizedError(shared.CategoryInvalidValue, CodeInvalidCoverageAmount,
		fmt.Sprintf("coverage amount %s is not valid for this coverage type", amount.String()))
	return e.WithDetail("amount", amount.String())
}

func NewCoveragePriceNotAvailableError(amount decimal.Decimal) *shared.DomainError {
	e := shared.NewCategorizedError(shared.CategoryInvalidValue, CodeCoveragePriceNotAvailable,
		fmt.Sprintf("no price available for coverage amount %s at contract start", amount.String()))
	return e.WithDetail("amount", amount.String())
}

func NewCoverageTypeRuleViolationError(coverageTypeID int64) *shared.DomainError {
	e := shared.NewCategorizedError(shared.CategoryRuleViolation, CodeCoverageTypeRuleViolation,
		fmt.Sprintf("rules of coverage type %d are not satisfied", coverageTypeID))
	return e.WithDetail("coverage_type_id", coverageTypeID)
}

// NewStorageFailureError wraps an unexpected store error.
func NewStorageFailureError(msg string, err error) *shared.DomainError {
	return shared.WrapStorageError(CodeStorageFailure, msg, err)
}
