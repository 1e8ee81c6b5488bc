package scanner

import "go.uber.org/zap"

// Observer is notified after each instrument is processed, whether it
// succeeded or failed. index is 1-based.
type Observer interface {
	OnProgress(index, total int, symbol string)
}

// ObserverFunc adapts a plain function to Observer.
type ObserverFunc func(index, total int, symbol string)

func (f ObserverFunc) OnProgress(index, total int, symbol string) { f(index, total, symbol) }

// MultiObserver fans a notification out to several observers in order.
type MultiObserver []Observer

func (m MultiObserver) OnProgress(index, total int, symbol string) {
	for _, o := range m {
		if o != nil {
			o.OnProgress(index, total, symbol)
		}
	}
}

// LogObserver writes one debug line per processed instrument.
type LogObserver struct{}

func (LogObserver) OnProgress(index, total int, symbol string) {
	zap.L().Debug("processed instrument",
		zap.String("symbol", symbol),
		zap.Int("index", index),
		zap.Int("total", total))
}
