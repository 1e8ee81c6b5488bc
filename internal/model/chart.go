package model

import "github.com/shopspring/decimal"

// LineStyle is the stroke used for a horizontal price line.
type LineStyle string

const (
	Solid  LineStyle = "solid"
	Dashed LineStyle = "dashed"
)

// PriceLine is a provider-neutral horizontal chart annotation.
type PriceLine struct {
	Price decimal.Decimal
	Color string
	Style LineStyle
	Width int
	Label string
}

// AnnotationSet is the ordered set of lines for one signal:
// current price, then stop-loss and target when present.
type AnnotationSet []PriceLine
