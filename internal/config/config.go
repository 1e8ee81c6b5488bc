package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	_ "time/tzdata"

	"NiftyScreener/internal/universe"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultPath is read when CONFIG_PATH is not set.
const DefaultPath = "configs/config.yaml"

// Config holds all application configuration.
type Config struct {
	Universe struct {
		Prefix  string   `yaml:"prefix" default:"NSE" validate:"required"`
		Suffix  string   `yaml:"suffix" default:".NS"`
		Symbols []string `yaml:"symbols" validate:"min=1,dive,required"`
	} `yaml:"universe"`
	DataSource struct {
		Provider string        `yaml:"provider" default:"yahoo" validate:"oneof=yahoo financego rest mock"`
		BaseURL  string        `yaml:"base_url" validate:"required_if=Provider rest"`
		APIKey   string        `yaml:"api_key"`
		Period   string        `yaml:"period" default:"1d" validate:"oneof=1d 5d 1mo 3mo 6mo 1y"`
		Timeout  time.Duration `yaml:"timeout" default:"30s" validate:"gt=0"`
	} `yaml:"data_source"`
	Rules struct {
		// Pointer so an explicit 0 (exact equality) survives defaults.
		Tolerance   *float64 `yaml:"tolerance" default:"0.01" validate:"required,gte=0"`
		StopLossPct float64  `yaml:"stop_loss_pct" default:"2" validate:"gt=0,lt=100"`
		TargetPct   float64  `yaml:"target_pct" default:"4" validate:"gt=0,lt=100"`
	} `yaml:"rules"`
	Schedule struct {
		// Seconds-first cron spec, evaluated in Timezone.
		ScanCron string `yaml:"scan_cron" default:"0 45 15 * * 1-5" validate:"required"`
		Timezone string `yaml:"timezone" default:"Asia/Kolkata" validate:"required"`
	} `yaml:"schedule"`
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id" validate:"required_with=BotToken"`
	} `yaml:"telegram"`
	Export struct {
		Dir  string `yaml:"dir" default:"exports"`
		File string `yaml:"file" default:"nifty50_recommendations.csv" validate:"required"`
	} `yaml:"export"`
	Log struct {
		Level      string `yaml:"level" default:"info" validate:"oneof=debug info warn error"`
		File       string `yaml:"file"`
		MaxSize    int    `yaml:"max_size" default:"100" validate:"gt=0"`
		MaxAge     int    `yaml:"max_age" default:"30" validate:"gte=0"`
		MaxBackups int    `yaml:"max_backups" default:"7" validate:"gte=0"`
		Compress   bool   `yaml:"compress"`
	} `yaml:"log"`
	Metrics struct {
		Addr string `yaml:"addr" validate:"omitempty,hostname_port"`
	} `yaml:"metrics"`
	Proxy string `yaml:"proxy" validate:"omitempty,url"`
}

// Path returns CONFIG_PATH or DefaultPath.
func Path() string {
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		return v
	}
	return DefaultPath
}

// Load reads config from a YAML file, then applies environment variable
// overrides and defaults. A missing file is not an error.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	applyEnv(cfg)

	if err := defaults.Set(cfg); err != nil {
		return nil, fmt.Errorf("apply defaults: %w", err)
	}
	if len(cfg.Universe.Symbols) == 0 {
		cfg.Universe.Symbols = universe.DefaultSymbols()
	}
	return cfg, nil
}

// Environment variable overrides
func applyEnv(cfg *Config) {
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		cfg.Telegram.ChatID = v
	}
	if v := os.Getenv("DATA_PROVIDER"); v != "" {
		cfg.DataSource.Provider = v
	}
	if v := os.Getenv("DATA_BASE_URL"); v != "" {
		cfg.DataSource.BaseURL = v
	}
	if v := os.Getenv("DATA_API_KEY"); v != "" {
		cfg.DataSource.APIKey = v
	}
	if v := os.Getenv("SCAN_PERIOD"); v != "" {
		cfg.DataSource.Period = v
	}
	if v := os.Getenv("SCAN_SYMBOLS"); v != "" {
		cfg.Universe.Symbols = strings.Split(v, ",")
	}
	if v := os.Getenv("CRON_SCAN"); v != "" {
		cfg.Schedule.ScanCron = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("METRICS_ADDR"); v != "" {
		cfg.Metrics.Addr = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}
}

var validate = validator.New()

// Validate checks field constraints and builds the universe once to catch
// blank or duplicate symbols.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s failed %q", fe.Namespace(), fe.Tag()))
			}
			return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	if _, err := c.BuildUniverse(); err != nil {
		return err
	}
	if _, err := time.LoadLocation(c.Schedule.Timezone); err != nil {
		return fmt.Errorf("schedule.timezone: %w", err)
	}
	return nil
}

// BuildUniverse returns the configured instrument universe.
func (c *Config) BuildUniverse() (universe.Universe, error) {
	return universe.New(c.Universe.Prefix, c.Universe.Symbols)
}

// TelegramEnabled reports whether Telegram delivery is configured.
func (c *Config) TelegramEnabled() bool {
	return c.Telegram.BotToken != "" && c.Telegram.ChatID != ""
}

// ExportPath is the CSV export destination.
func (c *Config) ExportPath() string {
	return filepath.Join(c.Export.Dir, c.Export.File)
}
