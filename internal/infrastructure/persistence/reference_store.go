package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/insurance/coverage/internal/domain/coverage"
	"github.com/insurance/coverage/internal/domain/shared"
	"github.com/insurance/coverage/internal/infrastructure/persistence/models"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SQLSTATE for foreign_key_violation
const pgForeignKeyViolation = "23503"

// Reference lookups. Each is one parameterized statement.
const (
	sqlContractProduct     = `SELECT produkt_fk FROM vertrag WHERE id = ?`
	sqlCoverageTypeProduct = `SELECT produkt_fk FROM deckungsart WHERE id = ?`
	sqlCoverageAmount      = `SELECT 1 FROM deckungsbetrag WHERE deckungsart_fk = ? AND deckungsbetrag = ?`
	sqlContractStart       = `SELECT versicherungsbeginn FROM vertrag WHERE id = ?`
	sqlCoveragePrice       = `SELECT 1 FROM deckungspreis dp JOIN deckungsbetrag db ON dp.deckungsbetrag_fk = db.id ` +
		`WHERE db.deckungsart_fk = ? AND db.deckungsbetrag = ? AND ? BETWEEN dp.gueltig_von AND dp.gueltig_bis`
	sqlContractCustomer = `SELECT kunde_fk FROM vertrag WHERE id = ?`
	sqlCustomerBirth    = `SELECT geburtsdatum FROM kunde WHERE id = ?`
)

var _ coverage.ReferenceStore = (*GormReferenceStore)(nil)

// GormReferenceStore implements coverage.ReferenceStore using GORM
type GormReferenceStore struct {
	db           *gorm.DB
	queryTimeout time.Duration
	constraints  map[string]coverage.Reference
}

// ReferenceStoreOption configures a GormReferenceStore
type ReferenceStoreOption func(*GormReferenceStore)

// WithQueryTimeout bounds every statement. Zero means only the caller's
// context applies.
func WithQueryTimeout(d time.Duration) ReferenceStoreOption {
	return func(s *GormReferenceStore) {
		s.queryTimeout = d
	}
}

// WithConstraintNames replaces the foreign key constraint names used to
// classify insert failures.
func WithConstraintNames(contract, coverageType []string) ReferenceStoreOption {
	return func(s *GormReferenceStore) {
		s.constraints = make(map[string]coverage.Reference, len(contract)+len(coverageType))
		for _, name := range contract {
			s.constraints[name] = coverage.ReferenceContract
		}
		for _, name := range coverageType {
			s.constraints[name] = coverage.ReferenceCoverageType
		}
	}
}

// NewGormReferenceStore creates a new GormReferenceStore
func NewGormReferenceStore(db *gorm.DB, opts ...ReferenceStoreOption) *GormReferenceStore {
	s := &GormReferenceStore{db: db}
	WithConstraintNames(
		[]string{"deckung_vertrag_fk_fkey", "fk_deckung_vertrag"},
		[]string{"deckung_deckungsart_fk_fkey", "fk_deckung_deckungsart"},
	)(s)
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *GormReferenceStore) session(ctx context.Context) (*gorm.DB, context.CancelFunc) {
	if s.queryTimeout > 0 {
		ctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
		return s.db.WithContext(ctx), cancel
	}
	return s.db.WithContext(ctx), func() {}
}

// fetchScalar runs a single-column query and returns the first value, or
// shared.ErrNotFound when the query yields no row.
func fetchScalar[T any](ctx context.Context, s *GormReferenceStore, query string, args ...any) (T, error) {
	var value T
	db, cancel := s.session(ctx)
	defer cancel()

	result := db.Raw(query, args...).Scan(&value)
	if result.Error != nil {
		return value, fmt.Errorf("query %q: %w", query, result.Error)
	}
	if result.RowsAffected == 0 {
		return value, shared.ErrNotFound
	}
	return value, nil
}

// exists reports whether query yields at least one row.
func exists(ctx context.Context, s *GormReferenceStore, query string, args ...any) (bool, error) {
	_, err := fetchScalar[int64](ctx, s, query, args...)
	if errors.Is(err, shared.ErrNotFound) {
		return false, nil
	}
	return err == nil, err
}

func (s *GormReferenceStore) ContractProductID(ctx context.Context, contractID int64) (int64, error) {
	return fetchScalar[int64](ctx, s, sqlContractProduct, contractID)
}

func (s *GormReferenceStore) CoverageTypeProductID(ctx context.Context, coverageTypeID int64) (int64, error) {
	return fetchScalar[int64](ctx, s, sqlCoverageTypeProduct, coverageTypeID)
}

func (s *GormReferenceStore) CoverageAmountExists(ctx context.Context, coverageTypeID int64, amount decimal.Decimal) (bool, error) {
	return exists(ctx, s, sqlCoverageAmount, coverageTypeID, amount)
}

func (s *GormReferenceStore) ContractStartDate(ctx context.Context, contractID int64) (time.Time, error) {
	return fetchScalar[time.Time](ctx, s, sqlContractStart, contractID)
}

func (s *GormReferenceStore) CoveragePriceAvailable(ctx context.Context, coverageTypeID int64, amount decimal.Decimal, date time.Time) (bool, error) {
	return exists(ctx, s, sqlCoveragePrice, coverageTypeID, amount, date)
}

func (s *GormReferenceStore) ContractCustomerID(ctx context.Context, contractID int64) (int64, error) {
	return fetchScalar[int64](ctx, s, sqlContractCustomer, contractID)
}

func (s *GormReferenceStore) CustomerBirthDate(ctx context.Context, customerID int64) (time.Time, error) {
	return fetchScalar[time.Time](ctx, s, sqlCustomerBirth, customerID)
}

// InsertCoverage inserts c and sets its generated ID.
func (s *GormReferenceStore) InsertCoverage(ctx context.Context, c *coverage.Coverage) error {
	db, cancel := s.session(ctx)
	defer cancel()

	model := models.CoverageModelFromDomain(c)
	if err := db.Omit(clause.Associations).Create(model).Error; err != nil {
		return s.classifyInsertError(err)
	}
	c.ID = model.ID
	return nil
}

// classifyInsertError maps foreign key violations to a
// ConstraintViolationError using the driver's structured error fields.
func (s *GormReferenceStore) classifyInsertError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgForeignKeyViolation {
		ref, ok := s.constraints[pgErr.ConstraintName]
		if !ok {
			ref = coverage.ReferenceUnknown
		}
		return &coverage.ConstraintViolationError{
			Reference:  ref,
			Constraint: pgErr.ConstraintName,
			Err:        err,
		}
	}
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return &coverage.ConstraintViolationError{Reference: coverage.ReferenceUnknown, Err: err}
	}
	return fmt.Errorf("insert coverage: %w", err)
}
