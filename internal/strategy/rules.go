package strategy

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Rules holds the constants of the open-high / open-low rule.
type Rules struct {
	// Tolerance is the largest difference at which two prices count as equal.
	Tolerance decimal.Decimal
	// StopLossPct and TargetPct are percentage offsets from the current price.
	StopLossPct decimal.Decimal
	TargetPct   decimal.Decimal
}

// DefaultRules: ε = 0.01, stop-loss 2%, target 4%.
func DefaultRules() Rules {
	return Rules{
		Tolerance:   decimal.RequireFromString("0.01"),
		StopLossPct: decimal.NewFromInt(2),
		TargetPct:   decimal.NewFromInt(4),
	}
}

// NewRules builds Rules from float configuration values.
func NewRules(tolerance, stopLossPct, targetPct float64) (Rules, error) {
	r := Rules{
		Tolerance:   decimal.NewFromFloat(tolerance),
		StopLossPct: decimal.NewFromFloat(stopLossPct),
		TargetPct:   decimal.NewFromFloat(targetPct),
	}
	return r, r.Validate()
}

// Validate checks that the offsets keep the level ordering intact.
func (r Rules) Validate() error {
	if r.Tolerance.IsNegative() {
		return fmt.Errorf("tolerance must not be negative, got %s", r.Tolerance)
	}
	if !r.StopLossPct.IsPositive() || r.StopLossPct.GreaterThanOrEqual(decimal.NewFromInt(100)) {
		return fmt.Errorf("stop loss pct must be in (0, 100), got %s", r.StopLossPct)
	}
	if !r.TargetPct.IsPositive() || r.TargetPct.GreaterThanOrEqual(decimal.NewFromInt(100)) {
		return fmt.Errorf("target pct must be in (0, 100), got %s", r.TargetPct)
	}
	return nil
}
