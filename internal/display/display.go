package display

import (
	"fmt"
	"io"
	"strings"
	"time"

	"NiftyScreener/internal/export"
	"NiftyScreener/internal/model"
	"NiftyScreener/internal/notifier"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#7C3AED")).
			MarginBottom(1)

	sectionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#3B82F6"))

	buyStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981")).Bold(true)
	sellStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444")).Bold(true)
	neutralStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#F59E0B"))
	headerStyle  = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle    = lipgloss.NewStyle().Padding(0, 1)
)

func recommendationStyle(r string) lipgloss.Style {
	switch model.Recommendation(r) {
	case model.Buy:
		return buyStyle
	case model.Sell:
		return sellStyle
	default:
		return neutralStyle
	}
}

// Table renders signals with the export columns.
func Table(signals []*model.Signal) string {
	rows := make([][]string, len(signals))
	for i, s := range signals {
		rows[i] = export.Row(s)
	}
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("#3B82F6"))).
		Headers(export.Header...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			if col == 2 && row >= 0 && row < len(rows) {
				return recommendationStyle(rows[row][2]).Padding(0, 1)
			}
			return cellStyle
		})
	return t.String()
}

// Actionable renders the detail block for one actionable signal.
func Actionable(s *model.Signal) string {
	var b strings.Builder
	b.WriteString(recommendationStyle(string(s.Recommendation)).Render(fmt.Sprintf("%s - %s", s.Symbol(), s.Recommendation)))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("  - Current Price: ₹%s\n", s.CurrentPrice.StringFixed(2)))
	if s.StopLoss.Valid && s.Target.Valid {
		b.WriteString(fmt.Sprintf("  - Stop Loss: ₹%s (%s%%)\n", s.StopLoss.Decimal.StringFixed(2), s.StopLossPct().Decimal.StringFixed(2)))
		b.WriteString(fmt.Sprintf("  - Target: ₹%s (%s%%)\n", s.Target.Decimal.StringFixed(2), s.TargetPct().Decimal.StringFixed(2)))
	}
	b.WriteString(fmt.Sprintf("  - Condition: %s\n", s.Condition))
	return b.String()
}

// Report writes the full terminal report.
func Report(w io.Writer, r *model.Report) {
	fmt.Fprintln(w, titleStyle.Render("NIFTY50 Stock Analyzer"))

	if len(r.Signals) == 0 {
		fmt.Fprintln(w, warnStyle.Render(notifier.AllFailedMsg))
		writeFailures(w, r)
		return
	}

	fmt.Fprintln(w, sectionStyle.Render("Actionable Recommendations"))
	actionable := r.Actionable()
	if len(actionable) == 0 {
		fmt.Fprintln(w, notifier.NoSignalsMsg)
	}
	for _, s := range actionable {
		fmt.Fprintln(w, Actionable(s))
	}

	fmt.Fprintln(w, sectionStyle.Render("All Stocks Analysis"))
	fmt.Fprintln(w, Table(r.Signals))
	writeFailures(w, r)

	fmt.Fprintf(w, "\nAnalyzed %d/%d | Buy/Sell %d | Neutral %d | %s\n",
		len(r.Signals), r.Total(), len(actionable), len(r.Neutral()), r.Duration().Round(time.Millisecond))
}

func writeFailures(w io.Writer, r *model.Report) {
	if len(r.Failures) == 0 {
		return
	}
	fmt.Fprintln(w, warnStyle.Render(fmt.Sprintf("Failed (%d):", len(r.Failures))))
	for _, f := range r.Failures {
		fmt.Fprintf(w, "  %s: %s\n", f.Symbol, f.Reason)
	}
}

// Progress prints "Processing SYM (i/n)" lines, overwriting the previous
// one when the writer is a terminal.
type Progress struct {
	W        io.Writer
	Inline   bool
	lastSize int
}

func (p *Progress) OnProgress(index, total int, symbol string) {
	line := fmt.Sprintf("Processing %s (%d/%d)", symbol, index, total)
	if !p.Inline {
		fmt.Fprintln(p.W, line)
		return
	}
	pad := ""
	if n := p.lastSize - len(line); n > 0 {
		pad = strings.Repeat(" ", n)
	}
	fmt.Fprintf(p.W, "\r%s%s", line, pad)
	p.lastSize = len(line)
	if index == total {
		fmt.Fprintln(p.W)
	}
}
