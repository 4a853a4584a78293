package coverage

import (
	"time"

	"github.com/shopspring/decimal"
)

// Coverage type ids that carry age rules.
const (
	CoverageTypeAdultOnly int64 = 1
	CoverageTypeAgeCapped int64 = 3
)

const noAgeLimit = -1

// AgeAtStart returns the customer's age in whole years at the contract start.
//
// The year difference is reduced by one when the start date's day of year is
// before the birth date's day of year. This is an approximation: around
// February 29th in leap years the result can be off by one day.
func AgeAtStart(birthDate, startDate time.Time) int {
	age := startDate.Year() - birthDate.Year()
	if startDate.YearDay() < birthDate.YearDay() {
		age--
	}
	return age
}

// AgeRule restricts the customer's age for a coverage type. A nil Amount
// applies the rule to every amount; otherwise only to that amount (compared by
// integer part). MinAge and MaxAge are inclusive; negative means unbounded.
type AgeRule struct {
	CoverageTypeID int64
	Amount         *int64
	MinAge         int
	MaxAge         int
}

func (r AgeRule) appliesTo(coverageTypeID int64, amount decimal.Decimal) bool {
	if r.CoverageTypeID != coverageTypeID {
		return false
	}
	return r.Amount == nil || *r.Amount == amount.IntPart()
}

func (r AgeRule) allows(age int) bool {
	if r.MinAge >= 0 && age < r.MinAge {
		return false
	}
	if r.MaxAge >= 0 && age > r.MaxAge {
		return false
	}
	return true
}

// RuleSet is an ordered list of age rules. Combinations without a matching
// rule pass.
type RuleSet []AgeRule

// Check returns CoverageTypeRuleViolation if any applicable rule rejects age.
func (rs RuleSet) Check(coverageTypeID int64, amount decimal.Decimal, age int) error {
	for _, r := range rs {
		if r.appliesTo(coverageTypeID, amount) && !r.allows(age) {
			return NewCoverageTypeRuleViolationError(coverageTypeID)
		}
	}
	return nil
}

// DefaultRules returns the age rules in effect for the product catalogue.
func DefaultRules() RuleSet {
	return RuleSet{
		{CoverageTypeID: CoverageTypeAdultOnly, MinAge: 18, MaxAge: noAgeLimit},
		{CoverageTypeID: CoverageTypeAgeCapped, Amount: amountOf(100000), MinAge: noAgeLimit, MaxAge: 90},
		{CoverageTypeID: CoverageTypeAgeCapped, Amount: amountOf(200000), MinAge: noAgeLimit, MaxAge: 70},
		{CoverageTypeID: CoverageTypeAgeCapped, Amount: amountOf(300000), MinAge: noAgeLimit, MaxAge: 60},
	}
}

func amountOf(v int64) *int64 {
	return &v
}
