// Package testdb provides seeded databases for tests: a file-backed SQLite
// database for fast end-to-end tests and a PostgreSQL container for
// integration tests.
package testdb

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/insurance/coverage/internal/infrastructure/persistence/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// TestDB is a migrated database with seeding helpers
type TestDB struct {
	DB *gorm.DB
	t  *testing.T
}

// Date returns midnight UTC of the given day. Seeded dates must be UTC so
// that SQLite's text comparison orders them correctly.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func gormConfig() *gorm.Config {
	cfg := &gorm.Config{
		Logger:                 logger.Default.LogMode(logger.Silent),
		SkipDefaultTransaction: true,
	}
	if os.Getenv("TEST_DB_DEBUG") != "" {
		cfg.Logger = logger.Default.LogMode(logger.Info)
	}
	return cfg
}

// NewSQLite creates a SQLite database in a temp dir with foreign keys
// enforced and the schema created.
func NewSQLite(t *testing.T) *TestDB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "coverage.db")
	db, err := gorm.Open(sqlite.Open(path+"?_foreign_keys=on"), gormConfig())
	require.NoError(t, err, "Failed to open SQLite database")

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	require.NoError(t, db.AutoMigrate(models.ReferenceModels()...), "Failed to create schema")
	return &TestDB{DB: db, t: t}
}

// NewPostgres starts a PostgreSQL container and creates the schema in it.
// The container is terminated on test cleanup.
func NewPostgres(t *testing.T) *TestDB {
	t.Helper()

	ctx := context.Background()
	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("versicherung_test"),
		tcpostgres.WithUsername("postgres"),
		tcpostgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err, "Failed to start PostgreSQL container")
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("Warning: Failed to terminate container: %v", err)
		}
	})

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err, "Failed to get connection string")

	db, err := gorm.Open(gormpostgres.Open(dsn), gormConfig())
	require.NoError(t, err, "Failed to connect to database")

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(5)
	sqlDB.SetMaxIdleConns(2)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	require.NoError(t, db.AutoMigrate(models.ReferenceModels()...), "Failed to create schema")
	return &TestDB{DB: db, t: t}
}

func (tdb *TestDB) create(value any) {
	tdb.t.Helper()
	require.NoError(tdb.t, tdb.DB.Omit(clause.Associations).Create(value).Error)
}

// Customer inserts a kunde row
func (tdb *TestDB) Customer(id int64, birthDate time.Time) {
	tdb.t.Helper()
	tdb.create(&models.CustomerModel{ID: id, BirthDate: birthDate})
}

// Contract inserts a vertrag row
func (tdb *TestDB) Contract(id, productID, customerID int64, start time.Time) {
	tdb.t.Helper()
	tdb.create(&models.ContractModel{
		ID:             id,
		ProductID:      productID,
		CustomerID:     customerID,
		InsuranceStart: start,
	})
}

// CoverageType inserts a deckungsart row
func (tdb *TestDB) CoverageType(id, productID int64) {
	tdb.t.Helper()
	tdb.create(&models.CoverageTypeModel{ID: id, ProductID: productID})
}

// CoverageAmount adds amount to the allow-list of a coverage type and
// returns the new row id.
func (tdb *TestDB) CoverageAmount(coverageTypeID int64, amount int64) int64 {
	tdb.t.Helper()
	m := &models.CoverageAmountModel{
		CoverageTypeID: coverageTypeID,
		Amount:         decimal.NewFromInt(amount),
	}
	tdb.create(m)
	return m.ID
}

// PriceWindow inserts a deckungspreis row valid from..to, both inclusive.
func (tdb *TestDB) PriceWindow(coverageAmountID int64, from, to time.Time) {
	tdb.t.Helper()
	tdb.create(&models.CoveragePriceModel{
		CoverageAmountID: coverageAmountID,
		ValidFrom:        from,
		ValidTo:          to,
		Price:            decimal.NewFromInt(100),
	})
}

// PricedAmount adds an allow-listed amount with one price window.
func (tdb *TestDB) PricedAmount(coverageTypeID, amount int64, from, to time.Time) {
	tdb.t.Helper()
	tdb.PriceWindow(tdb.CoverageAmount(coverageTypeID, amount), from, to)
}

// Coverages returns all deckung rows ordered by id
func (tdb *TestDB) Coverages() []models.CoverageModel {
	tdb.t.Helper()
	var rows []models.CoverageModel
	require.NoError(tdb.t, tdb.DB.Order("id").Find(&rows).Error)
	return rows
}

// StandardFixture seeds customer 5 born 1990-01-01, contract 10 for product 1
// starting 2025-06-01, coverage type 2 of product 1 with amount 50000 priced
// over [2024-01-01, 2026-01-01], and coverage type 4 of product 2.
func (tdb *TestDB) StandardFixture() {
	tdb.t.Helper()
	tdb.Customer(5, Date(1990, time.January, 1))
	tdb.Contract(10, 1, 5, Date(2025, time.June, 1))
	tdb.CoverageType(2, 1)
	tdb.PricedAmount(2, 50000, Date(2024, time.January, 1), Date(2026, time.January, 1))
	tdb.CoverageType(4, 2)
}
