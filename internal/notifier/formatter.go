package notifier

import (
	"fmt"
	"html"
	"strings"

	"NiftyScreener/internal/model"

	"github.com/shopspring/decimal"
)

// MaxMessageLen is the Telegram limit for a single message.
const MaxMessageLen = 4096

// Messages shared with the terminal report.
const (
	NoSignalsMsg   = "No strong Buy/Sell signals found today."
	AllFailedMsg   = "Failed to fetch data for all stocks. Please try again later."
	currencySymbol = "₹"
)

// FormatReport formats a scan report into a Telegram message.
func FormatReport(r *model.Report) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("📊 <b>NIFTY50 Screener</b> | %s\n", r.FinishedAt.Format("2006-01-02 15:04")))
	b.WriteString(fmt.Sprintf("Period: %s | Analyzed: %d/%d\n\n", r.Period, len(r.Signals), r.Total()))

	if len(r.Signals) == 0 {
		b.WriteString("❌ " + AllFailedMsg + "\n")
		return b.String()
	}

	actionable := r.Actionable()
	if len(actionable) == 0 {
		b.WriteString("ℹ️ " + NoSignalsMsg + "\n")
	} else {
		b.WriteString("🎯 <b>Actionable Recommendations</b>\n")
		for _, s := range actionable {
			b.WriteString(FormatSignal(s))
			b.WriteString("\n")
		}
	}

	if n := len(r.Neutral()); n > 0 {
		b.WriteString(fmt.Sprintf("\nNeutral: %d\n", n))
	}
	if len(r.Failures) > 0 {
		names := make([]string, len(r.Failures))
		for i, f := range r.Failures {
			names[i] = f.Symbol
		}
		b.WriteString(fmt.Sprintf("⚠️ Failed (%d): %s\n", len(r.Failures), html.EscapeString(strings.Join(names, ", "))))
	}
	return b.String()
}

// FormatSignal formats one actionable signal with its levels.
func FormatSignal(s *model.Signal) string {
	icon := "🟢"
	if s.Recommendation == model.Sell {
		icon = "🔴"
	}
	var b strings.Builder
	b.WriteString(fmt.Sprintf("%s <b>%s</b> - %s\n", icon, html.EscapeString(s.Symbol()), s.Recommendation))
	b.WriteString(fmt.Sprintf("  Current Price: %s%s\n", currencySymbol, s.CurrentPrice.StringFixed(2)))
	if s.StopLoss.Valid && s.Target.Valid {
		b.WriteString(fmt.Sprintf("  Stop Loss: %s%s (%s%%)\n", currencySymbol, s.StopLoss.Decimal.StringFixed(2), pct(s.StopLossPct())))
		b.WriteString(fmt.Sprintf("  Target: %s%s (%s%%)\n", currencySymbol, s.Target.Decimal.StringFixed(2), pct(s.TargetPct())))
	}
	b.WriteString(fmt.Sprintf("  Condition: %s\n", s.Condition))
	return b.String()
}

func pct(v decimal.NullDecimal) string {
	if !v.Valid {
		return "-"
	}
	return v.Decimal.StringFixed(2)
}

// HelpText lists the supported bot commands.
func HelpText() string {
	return "Available commands:\n• /scan - run a scan now\n• /report - show the last report\n• /help - this message"
}

// SplitMessage breaks text into chunks of at most limit bytes, cutting at
// line boundaries where possible.
func SplitMessage(text string, limit int) []string {
	if len(text) <= limit {
		return []string{text}
	}
	var parts []string
	var cur strings.Builder
	for _, line := range strings.SplitAfter(text, "\n") {
		for len(line) > limit {
			if cur.Len() > 0 {
				parts = append(parts, cur.String())
				cur.Reset()
			}
			cut := limit
			for cut > 0 && !isRuneStart(line[cut]) {
				cut--
			}
			parts = append(parts, line[:cut])
			line = line[cut:]
		}
		if cur.Len()+len(line) > limit {
			parts = append(parts, cur.String())
			cur.Reset()
		}
		cur.WriteString(line)
	}
	if cur.Len() > 0 {
		parts = append(parts, cur.String())
	}
	return parts
}

func isRuneStart(b byte) bool { return b&0xC0 != 0x80 }
