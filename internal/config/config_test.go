package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.DataSource.Provider != "yahoo" || cfg.DataSource.Period != "1d" {
		t.Errorf("data source defaults: %+v", cfg.DataSource)
	}
	if cfg.DataSource.Timeout != 30*time.Second {
		t.Errorf("timeout default: %s", cfg.DataSource.Timeout)
	}
	if *cfg.Rules.Tolerance != 0.01 || cfg.Rules.StopLossPct != 2 || cfg.Rules.TargetPct != 4 {
		t.Errorf("rule defaults: %+v", cfg.Rules)
	}
	if len(cfg.Universe.Symbols) != 50 || cfg.Universe.Prefix != "NSE" || cfg.Universe.Suffix != ".NS" {
		t.Errorf("universe defaults: %+v", cfg.Universe)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
	if cfg.TelegramEnabled() {
		t.Error("telegram should be disabled by default")
	}
}

func TestLoad_ZeroToleranceKept(t *testing.T) {
	path := writeConfig(t, `
rules:
  tolerance: 0
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Rules.Tolerance == nil || *cfg.Rules.Tolerance != 0 {
		t.Fatalf("explicit zero tolerance replaced: %v", cfg.Rules.Tolerance)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("zero tolerance should validate: %v", err)
	}
}

func TestLoad_FileAndEnv(t *testing.T) {
	path := writeConfig(t, `
universe:
  symbols: [INFY, TCS]
data_source:
  provider: rest
  base_url: http://localhost:9000
  period: 5d
  timeout: 5s
rules:
  tolerance: 0.05
`)
	t.Setenv("TELEGRAM_BOT_TOKEN", "token")
	t.Setenv("TELEGRAM_CHAT_ID", "42")
	t.Setenv("SCAN_PERIOD", "1mo")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if strings.Join(cfg.Universe.Symbols, ",") != "INFY,TCS" {
		t.Errorf("symbols: %v", cfg.Universe.Symbols)
	}
	if cfg.DataSource.Period != "1mo" {
		t.Errorf("env override ignored: period %s", cfg.DataSource.Period)
	}
	if cfg.DataSource.Timeout != 5*time.Second || *cfg.Rules.Tolerance != 0.05 || cfg.Rules.TargetPct != 4 {
		t.Errorf("unexpected values %+v %+v", cfg.DataSource, cfg.Rules)
	}
	if !cfg.TelegramEnabled() {
		t.Error("telegram should be enabled")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("validate: %v", err)
	}
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"unknown provider", "data_source:\n  provider: bloomberg\n"},
		{"rest without url", "data_source:\n  provider: rest\n"},
		{"bad period", "data_source:\n  period: 2w\n"},
		{"negative tolerance", "rules:\n  tolerance: -0.5\n"},
		{"stop loss too large", "rules:\n  stop_loss_pct: 150\n"},
		{"duplicate symbols", "universe:\n  symbols: [INFY, INFY]\n"},
		{"bad log level", "log:\n  level: loud\n"},
		{"bad timezone", "schedule:\n  timezone: Mars/Olympus\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load(writeConfig(t, tt.body))
			if err != nil {
				t.Fatalf("load: %v", err)
			}
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestLoad_BadYAML(t *testing.T) {
	if _, err := Load(writeConfig(t, "universe: [")); err == nil {
		t.Error("expected parse error")
	}
}

func TestExportPath(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	want := filepath.Join("exports", "nifty50_recommendations.csv")
	if got := cfg.ExportPath(); got != want {
		t.Errorf("ExportPath() = %q, want %q", got, want)
	}
}
