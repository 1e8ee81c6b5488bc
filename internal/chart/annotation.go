package chart

import (
	"encoding/json"
	"fmt"
	"io"

	"NiftyScreener/internal/model"
)

// Line colors.
const (
	CurrentColor = "#2962FF"
	RiskColor    = "#F44336"
	RewardColor  = "#4CAF50"
)

// Build returns the price lines for a signal: the current price always,
// then the stop-loss and target lines when those levels are present.
func Build(sig *model.Signal) model.AnnotationSet {
	set := make(model.AnnotationSet, 0, 3)
	set = append(set, model.PriceLine{
		Price: sig.CurrentPrice,
		Color: CurrentColor,
		Style: model.Solid,
		Width: 1,
		Label: fmt.Sprintf("Current: %s", sig.CurrentPrice.StringFixed(2)),
	})
	if sig.StopLoss.Valid {
		set = append(set, model.PriceLine{
			Price: sig.StopLoss.Decimal,
			Color: RiskColor,
			Style: model.Dashed,
			Width: 2,
			Label: fmt.Sprintf("SL: %s", sig.StopLoss.Decimal.StringFixed(2)),
		})
	}
	if sig.Target.Valid {
		set = append(set, model.PriceLine{
			Price: sig.Target.Decimal,
			Color: RewardColor,
			Style: model.Dashed,
			Width: 2,
			Label: fmt.Sprintf("Target: %s", sig.Target.Decimal.StringFixed(2)),
		})
	}
	return set
}

// Descriptor is the serialized form of a price line handed to a charting
// widget. Price is a JSON number.
type Descriptor struct {
	Price json.Number `json:"price"`
	Color string      `json:"color"`
	Style string      `json:"style"`
	Width int         `json:"width"`
	Label string      `json:"label"`
}

// Descriptors converts an annotation set into its serialized form.
func Descriptors(set model.AnnotationSet) []Descriptor {
	out := make([]Descriptor, len(set))
	for i, l := range set {
		out[i] = Descriptor{
			Price: json.Number(l.Price.StringFixed(2)),
			Color: l.Color,
			Style: string(l.Style),
			Width: l.Width,
			Label: l.Label,
		}
	}
	return out
}

// Document is the chart payload for one symbol.
type Document struct {
	Symbol         string       `json:"symbol"`
	Interval       string       `json:"interval"`
	Recommendation string       `json:"recommendation"`
	Lines          []Descriptor `json:"lines"`
}

// NewDocument builds the chart payload for a signal on the daily interval.
func NewDocument(sig *model.Signal) Document {
	return Document{
		Symbol:         sig.Symbol(),
		Interval:       "D",
		Recommendation: string(sig.Recommendation),
		Lines:          Descriptors(Build(sig)),
	}
}

// WriteJSON writes chart documents as an indented JSON array.
func WriteJSON(w io.Writer, docs []Document) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(docs); err != nil {
		return fmt.Errorf("encode chart documents: %w", err)
	}
	return nil
}
