package main

import (
	"context"
	"fmt"
	"log"

	"github.com/jonathan/career-assistant/internal/assistant"
	"github.com/jonathan/career-assistant/internal/config"
	"github.com/jonathan/career-assistant/internal/extraction"
	"github.com/jonathan/career-assistant/internal/fetch"
	"github.com/jonathan/career-assistant/internal/gateway"
	"github.com/jonathan/career-assistant/internal/llm"
)

// app holds the collaborators shared by the serve and ask commands.
type app struct {
	cfg       *config.Config
	responder *llm.Responder
	assistant *assistant.Assistant
	gateway   *gateway.Gateway
}

// loadConfig reads the environment and the optional --config file.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if verbose {
		cfg.Verbose = true
	}
	return cfg, nil
}

// newApp wires the model client, extractor, gateway and assistant from cfg.
func newApp(ctx context.Context, cfg *config.Config) (*app, error) {
	client, err := llm.NewClient(ctx, cfg.LLM())
	if err != nil {
		return nil, fmt.Errorf("failed to create model client: %w", err)
	}
	responder := llm.NewResponder(client)

	fetchOpts := fetch.DefaultOptions()
	fetchOpts.Timeout = cfg.Timeout()
	gw := gateway.New(cfg.Gateway(), fetch.NewClient(fetchOpts))

	var opts []assistant.Option
	if cfg.Source() == assistant.JobSourceAdzuna {
		opts = append(opts, assistant.WithJobSearcher(gw.Adzuna))
	}
	a := assistant.New(responder, extraction.New(cfg.Policy()), opts...)

	if cfg.Verbose {
		log.Printf("[app] Provider %s, model %s, policy %s, job source %s",
			cfg.LLM().Provider, cfg.LLM().Model, cfg.Policy(), cfg.Source())
	}

	return &app{cfg: cfg, responder: responder, assistant: a, gateway: gw}, nil
}

// Close releases the model client.
func (a *app) Close() {
	if err := a.responder.Close(); err != nil {
		log.Printf("[app] Failed to close model client: %v", err)
	}
}
