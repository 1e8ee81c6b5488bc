package export

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"NiftyScreener/internal/model"

	"github.com/shopspring/decimal"
)

func signals() []*model.Signal {
	return []*model.Signal{
		{
			Instrument:     model.Instrument{Symbol: "M&M", DisplayPrefix: "NSE"},
			CurrentPrice:   decimal.NewFromInt(98),
			Recommendation: model.Sell,
			StopLoss:       decimal.NewNullDecimal(decimal.RequireFromString("99.96")),
			Target:         decimal.NewNullDecimal(decimal.RequireFromString("94.08")),
			Condition:      model.Bearish,
		},
		{
			Instrument:     model.Instrument{Symbol: "TCS", DisplayPrefix: "NSE"},
			CurrentPrice:   decimal.RequireFromString("3850.5"),
			Recommendation: model.Neutral,
			Condition:      model.NeutralCondition,
		},
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, signals()); err != nil {
		t.Fatal(err)
	}
	want := strings.Join([]string{
		"Symbol,Current Price,Recommendation,Stop Loss,Target,Condition",
		"NSE:M&M,98.00,Sell,99.96,94.08,Bearish",
		"NSE:TCS,3850.50,Neutral,,,Neutral",
		"",
	}, "\n")
	if buf.String() != want {
		t.Errorf("unexpected csv:\n%s\nwant:\n%s", buf.String(), want)
	}
}

func TestSaveCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", DefaultFileName)
	if err := SaveCSV(path, signals()[:1]); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if lines := strings.Split(strings.TrimSpace(string(data)), "\n"); len(lines) != 2 {
		t.Errorf("expected header + 1 row, got %d lines", len(lines))
	}
}
