package model

import (
	"time"

	"NiftyScreener/internal/calculator"

	"github.com/shopspring/decimal"
)

// Recommendation is the trading action suggested for an instrument.
type Recommendation string

const (
	Buy     Recommendation = "Buy"
	Sell    Recommendation = "Sell"
	Neutral Recommendation = "Neutral"
)

// Condition describes the market posture behind a recommendation.
type Condition string

const (
	Bullish          Condition = "Bullish"
	Bearish          Condition = "Bearish"
	NeutralCondition Condition = "Neutral"
)

// ConditionFor mirrors a recommendation into its condition.
func ConditionFor(r Recommendation) Condition {
	switch r {
	case Sell:
		return Bearish
	case Buy:
		return Bullish
	default:
		return NeutralCondition
	}
}

// Signal is the classification result for one instrument.
//
// StopLoss and Target are either both valid or both invalid, and both are
// invalid exactly when Recommendation is Neutral.
type Signal struct {
	Instrument     Instrument
	CurrentPrice   decimal.Decimal
	Recommendation Recommendation
	StopLoss       decimal.NullDecimal
	Target         decimal.NullDecimal
	Condition      Condition
	BarTime        time.Time
}

// Symbol returns the exchange-qualified display symbol.
func (s *Signal) Symbol() string { return s.Instrument.DisplaySymbol() }

// IsActionable reports whether the signal is a Buy or a Sell.
func (s *Signal) IsActionable() bool {
	return s.Recommendation == Buy || s.Recommendation == Sell
}

// StopLossPct is the stop-loss distance from the current price in percent.
func (s *Signal) StopLossPct() decimal.NullDecimal {
	return distancePct(s.CurrentPrice, s.StopLoss)
}

// TargetPct is the target distance from the current price in percent.
func (s *Signal) TargetPct() decimal.NullDecimal {
	return distancePct(s.CurrentPrice, s.Target)
}

func distancePct(price decimal.Decimal, level decimal.NullDecimal) decimal.NullDecimal {
	if !level.Valid {
		return decimal.NullDecimal{}
	}
	pct, err := calculator.PercentDistance(price, level.Decimal)
	if err != nil {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(pct)
}
