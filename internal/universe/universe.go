package universe

import (
	"fmt"
	"strings"

	"NiftyScreener/internal/model"
)

// DefaultPrefix is the exchange tag shown in front of every symbol.
const DefaultPrefix = "NSE"

// nifty50 lists the NIFTY50 constituents in screening order.
var nifty50 = []string{
	"ADANIENT", "ADANIPORTS", "APOLLOHOSP", "ASIANPAINT", "AXISBANK",
	"BAJAJ-AUTO", "BAJFINANCE", "BAJAJFINSV", "BEL", "BPCL",
	"BHARTIARTL", "BRITANNIA", "CIPLA", "COALINDIA", "DRREDDY",
	"EICHERMOT", "GRASIM", "HCLTECH", "HDFCBANK", "HDFCLIFE",
	"HEROMOTOCO", "HINDALCO", "HINDUNILVR", "ICICIBANK", "ITC",
	"INDUSINDBK", "INFY", "JSWSTEEL", "KOTAKBANK", "LT",
	"M&M", "MARUTI", "NTPC", "NESTLEIND", "ONGC",
	"POWERGRID", "RELIANCE", "SBILIFE", "SHRIRAMFIN", "SBIN",
	"SUNPHARMA", "TCS", "TATACONSUM", "TATAMOTORS", "TATASTEEL",
	"TECHM", "TITAN", "TRENT", "ULTRACEMCO", "WIPRO",
}

// Universe is an immutable, ordered list of instruments.
type Universe struct {
	instruments []model.Instrument
}

// New builds a universe from raw symbols. Symbols are trimmed and
// upper-cased; blanks and duplicates are rejected.
func New(prefix string, symbols []string) (Universe, error) {
	seen := make(map[string]bool, len(symbols))
	list := make([]model.Instrument, 0, len(symbols))
	for i, raw := range symbols {
		sym := strings.ToUpper(strings.TrimSpace(raw))
		if sym == "" {
			return Universe{}, fmt.Errorf("universe: empty symbol at position %d", i)
		}
		if seen[sym] {
			return Universe{}, fmt.Errorf("universe: duplicate symbol %q", sym)
		}
		seen[sym] = true
		list = append(list, model.Instrument{Symbol: sym, DisplayPrefix: prefix})
	}
	return Universe{instruments: list}, nil
}

// NIFTY50 returns the default universe.
func NIFTY50() Universe {
	u, _ := New(DefaultPrefix, nifty50)
	return u
}

// DefaultSymbols returns a copy of the NIFTY50 symbol list.
func DefaultSymbols() []string {
	return append([]string(nil), nifty50...)
}

// Len is the number of instruments.
func (u Universe) Len() int { return len(u.instruments) }

// At returns the i-th instrument.
func (u Universe) At(i int) model.Instrument { return u.instruments[i] }

// Instruments returns a copy of the ordered instrument list.
func (u Universe) Instruments() []model.Instrument {
	return append([]model.Instrument(nil), u.instruments...)
}

// Lookup finds an instrument by symbol, accepting an optional "PREFIX:" tag.
func (u Universe) Lookup(symbol string) (model.Instrument, bool) {
	sym := strings.ToUpper(strings.TrimSpace(symbol))
	if i := strings.Index(sym, ":"); i >= 0 {
		sym = sym[i+1:]
	}
	for _, inst := range u.instruments {
		if inst.Symbol == sym {
			return inst, true
		}
	}
	return model.Instrument{}, false
}
