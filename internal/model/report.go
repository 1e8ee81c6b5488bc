package model

import "time"

// Failure records an instrument that could not be analyzed.
type Failure struct {
	Symbol string
	Reason string
	Err    error
}

// Report is the outcome of one scan over the universe.
//
// len(Signals)+len(Failures) always equals the universe size, and both
// slices keep universe order.
type Report struct {
	Period     string
	Signals    []*Signal
	Failures   []Failure
	StartedAt  time.Time
	FinishedAt time.Time
}

// Total is the number of instruments the report covers.
func (r *Report) Total() int { return len(r.Signals) + len(r.Failures) }

// Actionable returns the Buy and Sell signals in universe order.
func (r *Report) Actionable() []*Signal {
	var out []*Signal
	for _, s := range r.Signals {
		if s.IsActionable() {
			out = append(out, s)
		}
	}
	return out
}

// Neutral returns the signals with no actionable recommendation.
func (r *Report) Neutral() []*Signal {
	var out []*Signal
	for _, s := range r.Signals {
		if !s.IsActionable() {
			out = append(out, s)
		}
	}
	return out
}

// Duration is how long the scan took.
func (r *Report) Duration() time.Duration {
	if r.FinishedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}
