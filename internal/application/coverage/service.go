package coverage

import (
	"context"
	"errors"
	"time"

	"github.com/insurance/coverage/internal/domain/coverage"
	"github.com/insurance/coverage/internal/domain/shared"
	"github.com/insurance/coverage/internal/infrastructure/logger"
	"github.com/insurance/coverage/internal/infrastructure/telemetry"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// Validation steps, in the order CreateCoverage runs them
const (
	StepProduct   = "product"
	StepAmount    = "amount"
	StepStartDate = "start_date"
	StepPrice     = "price"
	StepAgeRule   = "age_rule"
	StepInsert    = "insert"
)

// CoverageService validates and persists coverages
type CoverageService struct {
	store   coverage.ReferenceStore
	rules   coverage.RuleSet
	logger  *zap.Logger
	metrics *telemetry.CoverageMetrics
}

// ServiceOption configures a CoverageService
type ServiceOption func(*CoverageService)

// WithRules replaces the default age rules
func WithRules(rules coverage.RuleSet) ServiceOption {
	return func(s *CoverageService) {
		s.rules = rules
	}
}

// WithMetrics records every call on m
func WithMetrics(m *telemetry.CoverageMetrics) ServiceOption {
	return func(s *CoverageService) {
		s.metrics = m
	}
}

// NewCoverageService creates a new CoverageService
func NewCoverageService(store coverage.ReferenceStore, log *zap.Logger, opts ...ServiceOption) *CoverageService {
	if log == nil {
		log = zap.NewNop()
	}
	s := &CoverageService{
		store:  store,
		rules:  coverage.DefaultRules(),
		logger: log.Named("coverage"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateCoverage validates a new coverage for a contract and inserts it.
// The checks run in a fixed order and the first failing one decides the
// error: product consistency, amount allow-list, price window at the
// contract start, age rules, then the insert itself.
func (s *CoverageService) CreateCoverage(ctx context.Context, contractID, coverageTypeID int64, amount decimal.Decimal) (*coverage.Coverage, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "CoverageService", "CreateCoverage",
		telemetry.WithAttribute(telemetry.SpanAttrContractID, contractID),
		telemetry.WithAttribute(telemetry.SpanAttrCoverageTypeID, coverageTypeID),
		telemetry.WithAttribute(telemetry.SpanAttrAmount, amount.String()),
	)
	defer span.End()

	started := time.Now()
	log := logger.ForContext(ctx, s.logger).With(
		zap.Int64("contract_id", contractID),
		zap.Int64("coverage_type_id", coverageTypeID),
		zap.String("amount", amount.String()),
	)
	log.Debug("create coverage")

	c, step, err := s.create(ctx, contractID, coverageTypeID, amount)
	s.finish(ctx, span, log, coverageTypeID, step, c, err, time.Since(started))
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (s *CoverageService) create(ctx context.Context, contractID, coverageTypeID int64, amount decimal.Decimal) (*coverage.Coverage, string, error) {
	if s.store == nil {
		return nil, StepProduct, coverage.NewStorageFailureError("store not configured", nil)
	}

	// 1. Product consistency. Contract first, then coverage type.
	contractProduct, err := s.store.ContractProductID(ctx, contractID)
	if err != nil {
		return nil, StepProduct, lookupError(err, coverage.NewContractNotFoundError(contractID), "contract product")
	}
	typeProduct, err := s.store.CoverageTypeProductID(ctx, coverageTypeID)
	if err != nil {
		return nil, StepProduct, lookupError(err, coverage.NewCoverageTypeNotFoundError(coverageTypeID), "coverage type product")
	}
	if typeProduct != contractProduct {
		return nil, StepProduct, coverage.NewCoverageTypeProductMismatchError(typeProduct, contractProduct)
	}

	// 2. Amount allow-list
	ok, err := s.store.CoverageAmountExists(ctx, coverageTypeID, amount)
	if err != nil {
		return nil, StepAmount, coverage.NewStorageFailureError("failed to check coverage amount", err)
	}
	if !ok {
		return nil, StepAmount, coverage.NewInvalidCoverageAmountError(amount)
	}

	// 3. Contract start
	startDate, err := s.store.ContractStartDate(ctx, contractID)
	if err != nil {
		return nil, StepStartDate, lookupError(err, coverage.NewContractNotFoundError(contractID), "contract start date")
	}

	// 4. Price window
	ok, err = s.store.CoveragePriceAvailable(ctx, coverageTypeID, amount, startDate)
	if err != nil {
		return nil, StepPrice, coverage.NewStorageFailureError("failed to check coverage price", err)
	}
	if !ok {
		return nil, StepPrice, coverage.NewCoveragePriceNotAvailableError(amount)
	}

	// 5. Age rules
	customerID, err := s.store.ContractCustomerID(ctx, contractID)
	if err != nil {
		return nil, StepAgeRule, lookupError(err, coverage.NewContractNotFoundError(contractID), "contract customer")
	}
	birthDate, err := s.store.CustomerBirthDate(ctx, customerID)
	if err != nil {
		return nil, StepAgeRule, lookupError(err, coverage.NewCustomerNotFoundError(customerID), "customer birth date")
	}
	if err := s.rules.Check(coverageTypeID, amount, coverage.AgeAtStart(birthDate, startDate)); err != nil {
		return nil, StepAgeRule, err
	}

	// 6. Insert
	c := coverage.NewCoverage(contractID, coverageTypeID, amount)
	if err := s.store.InsertCoverage(ctx, c); err != nil {
		return nil, StepInsert, insertError(err, contractID, coverageTypeID)
	}
	return c, StepInsert, nil
}

// lookupError maps a failed single-row lookup: a missing row becomes
// notFound, anything else a storage failure.
func lookupError(err error, notFound *shared.DomainError, what string) error {
	if errors.Is(err, shared.ErrNotFound) {
		return notFound
	}
	return coverage.NewStorageFailureError("failed to load "+what, err)
}

func insertError(err error, contractID, coverageTypeID int64) error {
	var cv *coverage.ConstraintViolationError
	if errors.As(err, &cv) {
		switch cv.Reference {
		case coverage.ReferenceContract:
			return coverage.NewContractNotFoundError(contractID)
		case coverage.ReferenceCoverageType:
			return coverage.NewCoverageTypeNotFoundError(coverageTypeID)
		}
	}
	return coverage.NewStorageFailureError("failed to insert coverage", err)
}

func (s *CoverageService) finish(ctx context.Context, span trace.Span, log *zap.Logger, coverageTypeID int64, step string, c *coverage.Coverage, err error, elapsed time.Duration) {
	if err == nil {
		telemetry.SetAttributes(span, telemetry.SpanAttrCoverageID, c.ID)
		telemetry.SetOK(span)
		s.metrics.RecordCreate(ctx, coverageTypeID, telemetry.OutcomeCreated, "", elapsed)
		log.Info("coverage created", zap.Int64("coverage_id", c.ID), zap.Duration("elapsed", elapsed))
		return
	}

	code := coverage.CodeStorageFailure
	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		code = domainErr.Code
	}
	telemetry.SetAttributes(span, telemetry.SpanAttrStep, step, telemetry.SpanAttrErrorCode, code)
	telemetry.RecordError(span, err)

	if errors.Is(err, shared.ErrStorage) {
		s.metrics.RecordCreate(ctx, coverageTypeID, telemetry.OutcomeFailed, code, elapsed)
		log.Error("coverage storage failure", zap.String("step", step), zap.Error(err))
		return
	}
	s.metrics.RecordCreate(ctx, coverageTypeID, telemetry.OutcomeRejected, code, elapsed)
	log.Info("coverage rejected", zap.String("step", step), zap.String("code", code), zap.Error(err))
}
