package coverage

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestAgeAtStart(t *testing.T) {
	tests := []struct {
		name  string
		birth time.Time
		start time.Time
		want  int
	}{
		{"birthday already passed", date(1990, 1, 1), date(2025, 6, 1), 35},
		{"birthday on start date", date(2007, 6, 1), date(2025, 6, 1), 18},
		{"day before birthday", date(2007, 6, 2), date(2025, 6, 1), 17},
		{"same year", date(2025, 1, 1), date(2025, 12, 31), 0},
		// 2000-03-01 is day 61, 2025-03-01 is day 60: counted as not yet had birthday.
		{"leap year birth day-of-year drift", date(2000, 3, 1), date(2025, 3, 1), 24},
		// 2001-03-01 is day 60, 2024-02-29 is day 60: counted as birthday reached.
		{"leap year start day-of-year drift", date(2001, 3, 1), date(2024, 2, 29), 23},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AgeAtStart(tt.birth, tt.start))
		})
	}
}

func TestRuleSet_Check(t *testing.T) {
	rules := DefaultRules()

	tests := []struct {
		name    string
		typeID  int64
		amount  string
		age     int
		violate bool
	}{
		{"type 1 age 17 rejected", 1, "50000", 17, true},
		{"type 1 age 18 accepted", 1, "50000", 18, false},
		{"type 1 age 90 accepted", 1, "50000", 90, false},
		{"type 3 100000 age 90 accepted", 3, "100000", 90, false},
		{"type 3 100000 age 91 rejected", 3, "100000", 91, true},
		{"type 3 200000 age 70 accepted", 3, "200000", 70, false},
		{"type 3 200000 age 71 rejected", 3, "200000", 71, true},
		{"type 3 300000 age 60 accepted", 3, "300000", 60, false},
		{"type 3 300000 age 61 rejected", 3, "300000", 61, true},
		{"type 3 fractional amount uses integer part", 3, "300000.75", 61, true},
		{"type 3 other amount has no cap", 3, "400000", 99, false},
		{"type 3 has no minimum age", 3, "100000", 5, false},
		{"type 2 has no rules", 2, "50000", 1, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := rules.Check(tt.typeID, decimal.RequireFromString(tt.amount), tt.age)
			if !tt.violate {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrCoverageTypeRuleViolation))
		})
	}
}

func TestRuleSet_CustomRules(t *testing.T) {
	t.Run("empty rule set accepts everything", func(t *testing.T) {
		assert.NoError(t, RuleSet{}.Check(1, decimal.NewFromInt(1), 0))
	})

	t.Run("bounded rule checks both ends", func(t *testing.T) {
		rules := RuleSet{{CoverageTypeID: 7, MinAge: 21, MaxAge: 65}}

		assert.Error(t, rules.Check(7, decimal.NewFromInt(1), 20))
		assert.NoError(t, rules.Check(7, decimal.NewFromInt(1), 21))
		assert.NoError(t, rules.Check(7, decimal.NewFromInt(1), 65))
		assert.Error(t, rules.Check(7, decimal.NewFromInt(1), 66))
	})
}
