package main

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/jonathan/sponsor-finder/internal/agent"
	"github.com/jonathan/sponsor-finder/internal/business"
	"github.com/jonathan/sponsor-finder/internal/config"
	"github.com/jonathan/sponsor-finder/internal/db"
	"github.com/jonathan/sponsor-finder/internal/fetch"
	"github.com/jonathan/sponsor-finder/internal/llm"
	"github.com/jonathan/sponsor-finder/internal/logger"
)

// app holds the wired components shared by the commands.
type app struct {
	cfg        *config.Config
	logger     *zap.Logger
	source     business.Source
	controller *agent.Controller
	closers    []func()
}

// Close releases every opened resource in reverse order.
func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	_ = a.logger.Sync()
}

// controllerMode selects whether and how loadApp builds the controller.
type controllerMode int

const (
	// withoutController skips the LLM entirely.
	withoutController controllerMode = iota
	// requireController fails when the LLM key is missing.
	requireController
	// optionalController builds a controller without a completer when the
	// LLM key is missing; its evaluations then fail with a config error.
	optionalController
)

// loadApp reads the configuration and builds the logger, the business source
// and, depending on mode, the controller.
func loadApp(ctx context.Context, mode controllerMode) (*app, error) {
	cfg, err := config.Load(settings, configFile)
	if err != nil {
		return nil, err
	}

	log, err := logger.New(cfg.LogJSON, cfg.Debug)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	a := &app{cfg: cfg, logger: log}
	source, err := newSource(ctx, cfg, log)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.source = source.Source
	a.closers = append(a.closers, source.close...)

	if mode == withoutController {
		return a, nil
	}

	var completer agent.Completer
	client, err := newLLMClient(ctx, cfg)
	var cfgErr *config.Error
	switch {
	case err == nil:
		a.closers = append(a.closers, func() { _ = client.Close() })
		completer = client
	case mode == optionalController && errors.As(err, &cfgErr):
		log.Warn("LLM is not configured; evaluations will fail until a key is set", zap.Error(err))
	default:
		a.Close()
		return nil, err
	}
	a.controller = agent.New(completer, a.source,
		agent.WithMaxSteps(cfg.MaxSteps),
		agent.WithLogger(log))

	return a, nil
}

// wiredSource is a business source plus the cleanup of what it opened.
type wiredSource struct {
	business.Source
	close []func()
}

// newSource builds the extractor, searcher and, when redis_url is set, the cache.
func newSource(ctx context.Context, cfg *config.Config, log *zap.Logger) (*wiredSource, error) {
	fetchOpts := fetch.DefaultOptions()
	fetchOpts.Timeout = cfg.FetchTimeout

	extractorOpts := []business.ExtractorOption{
		business.WithFetchOptions(fetchOpts),
		business.WithExtractorLogger(log),
	}
	if cfg.UseBrowser {
		extractorOpts = append(extractorOpts, business.WithRenderer(fetch.BrowserRenderer(cfg.FetchTimeout)))
	}

	searcher, err := business.NewSearcher(ctx, cfg.CSEAPIKey, cfg.CSEID, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create search client: %w", err)
	}

	resolver := business.NewResolver(business.NewExtractor(extractorOpts...), searcher)
	if cfg.RedisURL == "" {
		return &wiredSource{Source: resolver}, nil
	}

	client, err := business.ConnectRedis(ctx, cfg.RedisURL)
	if err != nil {
		return nil, err
	}
	log.Info("business info cache enabled", zap.Duration("ttl", cfg.CacheTTL))
	return &wiredSource{
		Source: business.NewCachedResolver(resolver, client, cfg.CacheTTL, log),
		close:  []func(){func() { _ = client.Close() }},
	}, nil
}

// newLLMClient builds the controller's LLM client for the configured provider.
func newLLMClient(ctx context.Context, cfg *config.Config) (llm.Client, error) {
	if err := cfg.RequireLLM(); err != nil {
		return nil, err
	}
	provider, err := llm.ParseProvider(cfg.LLMProvider)
	if err != nil {
		return nil, err
	}

	llmConfig := llm.ConfigFor(provider)
	if cfg.ControllerModel != "" {
		llmConfig = llmConfig.WithModel(llm.TierStandard, cfg.ControllerModel)
	}
	return llm.NewClient(ctx, llmConfig, cfg.LLMAPIKey())
}

// openStore connects to PostgreSQL when database_url is set. A nil DB means
// persistence is disabled.
func openStore(ctx context.Context, cfg *config.Config, log *zap.Logger) (*db.DB, error) {
	if cfg.DatabaseURL == "" {
		return nil, nil
	}
	database, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	if err := database.InitSchema(ctx); err != nil {
		database.Close()
		return nil, err
	}
	log.Info("evaluation persistence enabled")
	return database, nil
}
