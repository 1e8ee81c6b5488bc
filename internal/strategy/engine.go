package strategy

import (
	"errors"
	"fmt"

	"NiftyScreener/internal/calculator"
	"NiftyScreener/internal/model"

	"github.com/shopspring/decimal"
)

// ErrAnalysis is returned for bars that cannot be classified.
var ErrAnalysis = errors.New("analysis error")

// Classifier applies the open-high / open-low rule to a single bar.
type Classifier struct {
	Rules Rules
}

// NewClassifier creates a Classifier with the given rules.
func NewClassifier(rules Rules) *Classifier {
	return &Classifier{Rules: rules}
}

// Classify turns a bar into a Signal. Rules are checked in order and the
// first match wins, so a flat bar (open = high = low) is a Sell:
//
//  1. open ≈ high → Sell, stop above and target below the price
//  2. open ≈ low  → Buy, stop below and target above the price
//  3. otherwise   → Neutral, no levels
//
// Levels are offsets from the current price, which is the close rounded to
// two places. Rounding is half away from zero. A missing open, high or low
// never matches, so only a missing close is an error.
func (c *Classifier) Classify(inst model.Instrument, bar model.Bar) (*model.Signal, error) {
	if !bar.Has(model.FieldClose) {
		return nil, fmt.Errorf("%w: close is not a finite number", ErrAnalysis)
	}
	if !bar.Close.IsPositive() {
		return nil, fmt.Errorf("%w: close must be positive, got %s", ErrAnalysis, bar.Close)
	}

	price := calculator.RoundPrice(bar.Close)
	sig := &model.Signal{
		Instrument:     inst,
		CurrentPrice:   price,
		Recommendation: model.Neutral,
		BarTime:        bar.Time,
	}

	switch {
	case bar.Has(model.FieldOpen|model.FieldHigh) &&
		calculator.WithinTolerance(bar.Open, bar.High, c.Rules.Tolerance):
		sig.Recommendation = model.Sell
		sig.StopLoss = level(price, c.Rules.StopLossPct)
		sig.Target = level(price, c.Rules.TargetPct.Neg())
	case bar.Has(model.FieldOpen|model.FieldLow) &&
		calculator.WithinTolerance(bar.Open, bar.Low, c.Rules.Tolerance):
		sig.Recommendation = model.Buy
		sig.StopLoss = level(price, c.Rules.StopLossPct.Neg())
		sig.Target = level(price, c.Rules.TargetPct)
	}
	sig.Condition = model.ConditionFor(sig.Recommendation)
	return sig, nil
}

func level(price, pct decimal.Decimal) decimal.NullDecimal {
	return decimal.NewNullDecimal(calculator.ApplyOffset(price, pct))
}
