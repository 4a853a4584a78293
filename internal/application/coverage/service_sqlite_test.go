package coverage

import (
	"context"
	"testing"
	"time"

	"github.com/insurance/coverage/internal/domain/coverage"
	"github.com/insurance/coverage/internal/infrastructure/persistence"
	"github.com/insurance/coverage/internal/infrastructure/persistence/testdb"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newSQLiteService(t *testing.T) (*CoverageService, *testdb.TestDB) {
	tdb := testdb.NewSQLite(t)
	tdb.StandardFixture()
	return NewCoverageService(persistence.NewGormReferenceStore(tdb.DB), zap.NewNop()), tdb
}

func TestCreateCoverage_SQLite(t *testing.T) {
	ctx := context.Background()

	t.Run("end to end", func(t *testing.T) {
		svc, tdb := newSQLiteService(t)

		c, err := svc.CreateCoverage(ctx, 10, 2, decimal.NewFromInt(50000))
		require.NoError(t, err)
		assert.True(t, c.IsPersisted())

		rows := tdb.Coverages()
		require.Len(t, rows, 1)
		assert.Equal(t, c.ID, rows[0].ID)
		assert.Equal(t, int64(10), rows[0].ContractID)
		assert.Equal(t, int64(2), rows[0].CoverageTypeID)
		assert.True(t, rows[0].Amount.Equal(decimal.NewFromInt(50000)))
	})

	t.Run("identical calls insert two rows", func(t *testing.T) {
		svc, tdb := newSQLiteService(t)

		_, err := svc.CreateCoverage(ctx, 10, 2, decimal.NewFromInt(50000))
		require.NoError(t, err)
		_, err = svc.CreateCoverage(ctx, 10, 2, decimal.NewFromInt(50000))
		require.NoError(t, err)

		assert.Len(t, tdb.Coverages(), 2)
	})

	t.Run("unknown contract and type report the contract", func(t *testing.T) {
		svc, tdb := newSQLiteService(t)

		_, err := svc.CreateCoverage(ctx, 999, 888, decimal.NewFromInt(50000))
		assert.ErrorIs(t, err, coverage.ErrContractNotFound)
		assert.Empty(t, tdb.Coverages())
	})

	t.Run("unknown type", func(t *testing.T) {
		svc, _ := newSQLiteService(t)

		_, err := svc.CreateCoverage(ctx, 10, 888, decimal.NewFromInt(50000))
		assert.ErrorIs(t, err, coverage.ErrCoverageTypeNotFound)
	})

	t.Run("type of another product", func(t *testing.T) {
		svc, tdb := newSQLiteService(t)

		_, err := svc.CreateCoverage(ctx, 10, 4, decimal.NewFromInt(50000))
		assert.ErrorIs(t, err, coverage.ErrCoverageTypeProductMismatch)
		assert.Empty(t, tdb.Coverages())
	})

	t.Run("amount not offered", func(t *testing.T) {
		svc, tdb := newSQLiteService(t)

		_, err := svc.CreateCoverage(ctx, 10, 2, decimal.NewFromInt(75000))
		assert.ErrorIs(t, err, coverage.ErrInvalidCoverageAmount)
		assert.Empty(t, tdb.Coverages())
	})

	t.Run("no price at contract start", func(t *testing.T) {
		svc, tdb := newSQLiteService(t)
		tdb.CoverageAmount(2, 80000)

		_, err := svc.CreateCoverage(ctx, 10, 2, decimal.NewFromInt(80000))
		assert.ErrorIs(t, err, coverage.ErrCoveragePriceNotAvailable)
		assert.Empty(t, tdb.Coverages())
	})

	t.Run("age rule", func(t *testing.T) {
		svc, tdb := newSQLiteService(t)
		tdb.Customer(6, testdb.Date(2008, time.January, 1))
		tdb.Contract(11, 1, 6, testdb.Date(2025, time.June, 1))
		tdb.CoverageType(1, 1)
		tdb.PricedAmount(1, 50000, testdb.Date(2024, time.January, 1), testdb.Date(2026, time.January, 1))

		_, err := svc.CreateCoverage(ctx, 11, 1, decimal.NewFromInt(50000))
		assert.ErrorIs(t, err, coverage.ErrCoverageTypeRuleViolation)

		_, err = svc.CreateCoverage(ctx, 10, 1, decimal.NewFromInt(50000))
		assert.NoError(t, err)
		assert.Len(t, tdb.Coverages(), 1)
	})
}
