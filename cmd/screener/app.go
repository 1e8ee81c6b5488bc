package main

import (
	"fmt"

	"NiftyScreener/internal/collector"
	"NiftyScreener/internal/config"
	"NiftyScreener/internal/logger"
	"NiftyScreener/internal/scanner"
	"NiftyScreener/internal/strategy"
	"NiftyScreener/internal/universe"

	"go.uber.org/zap"
)

// app holds the wired components shared by all commands.
type app struct {
	cfg        *config.Config
	universe   universe.Universe
	fetcher    collector.Fetcher
	classifier *strategy.Classifier
	flush      func()
}

func newApp(cfgPath, logLevel, provider string) (*app, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	if provider != "" {
		cfg.DataSource.Provider = provider
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	flush, err := logger.Init(logger.Options{
		Level:      cfg.Log.Level,
		File:       cfg.Log.File,
		MaxSize:    cfg.Log.MaxSize,
		MaxAge:     cfg.Log.MaxAge,
		MaxBackups: cfg.Log.MaxBackups,
		Compress:   cfg.Log.Compress,
	})
	if err != nil {
		return nil, err
	}

	u, err := cfg.BuildUniverse()
	if err != nil {
		flush()
		return nil, err
	}
	rules, err := strategy.NewRules(*cfg.Rules.Tolerance, cfg.Rules.StopLossPct, cfg.Rules.TargetPct)
	if err != nil {
		flush()
		return nil, fmt.Errorf("rules: %w", err)
	}
	fetcher := newFetcher(cfg)
	zap.L().Debug("app initialised",
		zap.String("config", cfgPath),
		zap.String("source", fetcher.Name()),
		zap.Int("instruments", u.Len()))

	return &app{
		cfg:        cfg,
		universe:   u,
		fetcher:    fetcher,
		classifier: strategy.NewClassifier(rules),
		flush:      flush,
	}, nil
}

func newFetcher(cfg *config.Config) collector.Fetcher {
	ds := cfg.DataSource
	switch ds.Provider {
	case "financego":
		return collector.NewFinanceGoFetcher(cfg.Universe.Suffix)
	case "rest":
		return collector.NewRestFetcher(ds.BaseURL, ds.APIKey, cfg.Proxy, ds.Timeout)
	case "mock":
		return collector.NewMockFetcher()
	default:
		return collector.NewYahooFetcher(ds.BaseURL, cfg.Universe.Suffix, cfg.Proxy, ds.Timeout)
	}
}

func (a *app) scanner(obs scanner.Observer) *scanner.Scanner {
	return scanner.NewScanner(a.universe, a.fetcher, a.classifier, obs)
}

func (a *app) close() {
	if a != nil && a.flush != nil {
		a.flush()
	}
}
