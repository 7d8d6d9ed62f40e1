package domain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// SumTolerance is the rounding tolerance allowed when checking that a
// complete distribution sums to 100.00.
var SumTolerance = decimal.NewFromFloat(0.01)

var hundred = decimal.NewFromInt(100)

// Distribution maps every council to its influence percentage.
// A complete distribution carries all seven councils with values in
// [0, 100] summing to 100.00 within SumTolerance.
type Distribution map[Council]decimal.Decimal

// ValidationError reports the councils whose values failed validation.
type ValidationError struct {
	Councils []Council
}

func (e *ValidationError) Error() string {
	labels := make([]string, len(e.Councils))
	for i, c := range e.Councils {
		labels[i] = string(c)
	}
	return fmt.Sprintf("invalid percentage values for: %s", strings.Join(labels, ", "))
}

// Validate ensures the distribution adheres to domain rules
// Returns an error if validation fails
// CRITICAL: Every council must be present with a value in [0, 100],
// and the values must sum to 100.00 within SumTolerance.
func (d Distribution) Validate() error {
	var invalid []Council
	for _, c := range Councils() {
		value, ok := d[c]
		if !ok {
			invalid = append(invalid, c)
			continue
		}
		if value.LessThan(decimal.Zero) || value.GreaterThan(hundred) {
			invalid = append(invalid, c)
		}
	}
	if len(invalid) > 0 {
		return &ValidationError{Councils: invalid}
	}

	if diff := d.Total().Sub(hundred).Abs(); diff.GreaterThan(SumTolerance) {
		return errors.New("distribution must sum to 100.00")
	}

	return nil
}

// Total sums all council values, rounded to 2 decimal places.
func (d Distribution) Total() decimal.Decimal {
	total := decimal.Zero
	for _, value := range d {
		total = total.Add(value)
	}
	return total.Round(2)
}

// Shares converts the distribution to the float form used for
// per-point attribution metadata.
func (d Distribution) Shares() map[Council]float64 {
	shares := make(map[Council]float64, len(d))
	for c, value := range d {
		shares[c] = value.InexactFloat64()
	}
	return shares
}
