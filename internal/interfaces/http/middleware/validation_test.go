package middleware

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type validationProbe struct {
	CoverageTypeID int64            `json:"coverage_type_id" validate:"required"`
	Amount         *decimal.Decimal `json:"amount" validate:"required"`
	Limit          decimal.Decimal  `json:"limit" validate:"numeric"`
}

func newTestValidator() *validator.Validate {
	v := validator.New()
	configureValidator(v)
	return v
}

func TestSetupValidator(t *testing.T) {
	assert.NotPanics(t, SetupValidator)
}

func TestValidationDetails(t *testing.T) {
	v := newTestValidator()

	t.Run("missing fields use json names", func(t *testing.T) {
		err := v.Struct(validationProbe{Limit: decimal.NewFromInt(1)})
		require.Error(t, err)

		details := ValidationDetails(err)
		require.Len(t, details, 2)
		fields := []string{details[0].Field, details[1].Field}
		assert.ElementsMatch(t, []string{"coverage_type_id", "amount"}, fields)
		assert.Equal(t, "This field is required", details[0].Message)
	})

	t.Run("decimal validates as its string form", func(t *testing.T) {
		amount := decimal.NewFromInt(50000)
		err := v.Struct(validationProbe{CoverageTypeID: 2, Amount: &amount, Limit: decimal.RequireFromString("12.5")})
		assert.NoError(t, err)
	})

	t.Run("other errors have no details", func(t *testing.T) {
		assert.Nil(t, ValidationDetails(assert.AnError))
	})
}
