package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"NiftyScreener/internal/model"

	"github.com/shopspring/decimal"
)

// DefaultFileName is the name used when no export path is configured.
const DefaultFileName = "nifty50_recommendations.csv"

// Header is the column order of the exported table.
var Header = []string{"Symbol", "Current Price", "Recommendation", "Stop Loss", "Target", "Condition"}

// Row flattens a signal into table cells. Absent levels are empty cells.
func Row(s *model.Signal) []string {
	return []string{
		s.Symbol(),
		s.CurrentPrice.StringFixed(2),
		string(s.Recommendation),
		nullable(s.StopLoss),
		nullable(s.Target),
		string(s.Condition),
	}
}

func nullable(v decimal.NullDecimal) string {
	if !v.Valid {
		return ""
	}
	return v.Decimal.StringFixed(2)
}

// WriteCSV writes the header and one row per signal.
func WriteCSV(w io.Writer, signals []*model.Signal) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, s := range signals {
		if err := cw.Write(Row(s)); err != nil {
			return fmt.Errorf("write %s: %w", s.Symbol(), err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// SaveCSV writes signals to path, creating parent directories.
func SaveCSV(path string, signals []*model.Signal) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create export dir: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := WriteCSV(f, signals); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
