package model

import (
	"math"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Field identifies one OHLC value of a Bar. Fields combine as a bit set.
type Field uint8

const (
	FieldOpen Field = 1 << iota
	FieldHigh
	FieldLow
	FieldClose
)

func (f Field) String() string {
	var names []string
	for _, n := range []struct {
		f    Field
		name string
	}{{FieldOpen, "open"}, {FieldHigh, "high"}, {FieldLow, "low"}, {FieldClose, "close"}} {
		if f&n.f != 0 {
			names = append(names, n.name)
		}
	}
	if len(names) == 0 {
		return "none"
	}
	return strings.Join(names, "|")
}

// Bar represents a single session's OHLC values for one instrument.
type Bar struct {
	Time  time.Time
	Open  decimal.Decimal
	High  decimal.Decimal
	Low   decimal.Decimal
	Close decimal.Decimal

	// Missing holds the fields that were null or not finite upstream.
	// Their decimal values are zero and must not be used.
	Missing Field
}

// NewBarFromFloat converts raw float quotes into a Bar. Non-finite values
// are left as zero and recorded in Bar.Missing.
func NewBarFromFloat(t time.Time, open, high, low, close float64) Bar {
	bar := Bar{Time: t}
	fields := []struct {
		field Field
		v     float64
		dst   *decimal.Decimal
	}{
		{FieldOpen, open, &bar.Open},
		{FieldHigh, high, &bar.High},
		{FieldLow, low, &bar.Low},
		{FieldClose, close, &bar.Close},
	}
	for _, f := range fields {
		if math.IsNaN(f.v) || math.IsInf(f.v, 0) {
			bar.Missing |= f.field
			continue
		}
		*f.dst = decimal.NewFromFloat(f.v)
	}
	return bar
}

// Valid reports whether every OHLC value is a finite number.
func (b Bar) Valid() bool { return b.Missing == 0 }

// Has reports whether all the given fields hold finite values.
func (b Bar) Has(f Field) bool { return b.Missing&f == 0 }

// Instrument is a tradable symbol from the configured universe.
type Instrument struct {
	Symbol        string
	DisplayPrefix string // exchange tag, e.g. "NSE"
}

// DisplaySymbol returns the exchange-qualified name, e.g. "NSE:RELIANCE".
func (i Instrument) DisplaySymbol() string {
	if i.DisplayPrefix == "" {
		return i.Symbol
	}
	return i.DisplayPrefix + ":" + i.Symbol
}
