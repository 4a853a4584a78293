package coverage

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// ReferenceStore gives the coverage service read access to contract reference
// data and the ability to insert coverages.
//
// Single-row lookups return shared.ErrNotFound when the row does not exist.
// Any other error is a storage failure.
type ReferenceStore interface {
	ContractProductID(ctx context.Context, contractID int64) (int64, error)
	CoverageTypeProductID(ctx context.Context, coverageTypeID int64) (int64, error)
	// CoverageAmountExists reports whether amount is in the allow-list of the coverage type.
	CoverageAmountExists(ctx context.Context, coverageTypeID int64, amount decimal.Decimal) (bool, error)
	ContractStartDate(ctx context.Context, contractID int64) (time.Time, error)
	// CoveragePriceAvailable reports whether a price window for the pair
	// contains date. Both window bounds are inclusive.
	CoveragePriceAvailable(ctx context.Context, coverageTypeID int64, amount decimal.Decimal, date time.Time) (bool, error)
	ContractCustomerID(ctx context.Context, contractID int64) (int64, error)
	CustomerBirthDate(ctx context.Context, customerID int64) (time.Time, error)
	// InsertCoverage persists c and sets its ID. Foreign key violations are
	// returned as *ConstraintViolationError.
	InsertCoverage(ctx context.Context, c *Coverage) error
}

// Reference identifies which foreign key of a coverage row was violated.
type Reference string

const (
	ReferenceContract     Reference = "contract"
	ReferenceCoverageType Reference = "coverage_type"
	ReferenceUnknown      Reference = "unknown"
)

// ConstraintViolationError is returned by InsertCoverage when the store rejects
// the row because of a foreign key.
type ConstraintViolationError struct {
	Reference  Reference
	Constraint string
	Err        error
}

func (e *ConstraintViolationError) Error() string {
	return fmt.Sprintf("foreign key violation on %s reference (constraint %q): %v", e.Reference, e.Constraint, e.Err)
}

func (e *ConstraintViolationError) Unwrap() error {
	return e.Err
}
