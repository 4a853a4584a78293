//go:build integration

package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/insurance/coverage/internal/domain/coverage"
	"github.com/insurance/coverage/internal/infrastructure/persistence/testdb"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormReferenceStore_Postgres(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ctx := context.Background()
	tdb := testdb.NewPostgres(t)
	tdb.StandardFixture()
	store := NewGormReferenceStore(tdb.DB)

	t.Run("price window on date column", func(t *testing.T) {
		ok, err := store.CoveragePriceAvailable(ctx, 2, decimal.NewFromInt(50000), testdb.Date(2026, time.January, 1))
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = store.CoveragePriceAvailable(ctx, 2, decimal.NewFromInt(50000), testdb.Date(2026, time.January, 2))
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("insert", func(t *testing.T) {
		c := coverage.NewCoverage(10, 2, decimal.NewFromInt(50000))
		require.NoError(t, store.InsertCoverage(ctx, c))
		assert.True(t, c.IsPersisted())
	})

	t.Run("missing contract is classified by constraint", func(t *testing.T) {
		err := store.InsertCoverage(ctx, coverage.NewCoverage(777, 2, decimal.NewFromInt(50000)))
		var cv *coverage.ConstraintViolationError
		require.ErrorAs(t, err, &cv)
		assert.Equal(t, coverage.ReferenceContract, cv.Reference)
		assert.Equal(t, "fk_deckung_vertrag", cv.Constraint)
	})

	t.Run("missing coverage type is classified by constraint", func(t *testing.T) {
		err := store.InsertCoverage(ctx, coverage.NewCoverage(10, 888, decimal.NewFromInt(50000)))
		var cv *coverage.ConstraintViolationError
		require.ErrorAs(t, err, &cv)
		assert.Equal(t, coverage.ReferenceCoverageType, cv.Reference)
	})
}
