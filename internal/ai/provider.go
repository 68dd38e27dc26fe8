// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package ai writes hero copy with an LLM. Each provider implements the
// Provider interface, and the Registry selects the active one by name.
package ai

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// Provider defines the interface that all AI providers must implement.
type Provider interface {
	// Generate sends a prompt using the provider's default model and
	// returns the generated text.
	Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error)

	// GenerateWithModel is Generate with an explicit model. An empty
	// model selects the default.
	GenerateWithModel(ctx context.Context, model, systemPrompt, userPrompt string) (string, error)

	// Name returns the provider identifier (e.g., "openai", "claude").
	Name() string
}

// ProviderConfig holds the credentials and settings for a single provider.
type ProviderConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

// Registry manages available AI providers and selects the active one.
// All methods are safe for concurrent use.
type Registry struct {
	mu        sync.RWMutex
	providers map[string]Provider
	configs   map[string]ProviderConfig
	active    string
}

// NewRegistry creates a registry and initialises providers for every config
// that has a non-empty API key. Providers without keys are skipped but
// their settings are kept for WithKey.
func NewRegistry(active string, configs map[string]ProviderConfig) *Registry {
	r := &Registry{
		providers: make(map[string]Provider),
		configs:   make(map[string]ProviderConfig),
		active:    active,
	}

	for name, cfg := range configs {
		r.configs[name] = cfg
		if cfg.APIKey == "" {
			continue
		}
		if p := newProvider(name, cfg); p != nil {
			r.providers[name] = p
		}
	}
	return r
}

func newProvider(name string, cfg ProviderConfig) Provider {
	switch name {
	case "openai":
		return newOpenAI(cfg)
	case "claude":
		return newClaude(cfg)
	}
	return nil
}

// Generate calls the active provider's Generate method.
func (r *Registry) Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	p, err := r.Active()
	if err != nil {
		return "", err
	}
	return p.Generate(ctx, systemPrompt, userPrompt)
}

// Active returns the currently active provider.
func (r *Registry) Active() (Provider, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.providers[r.active]
	if !ok {
		return nil, fmt.Errorf("ai: no provider configured for %q", r.active)
	}
	return p, nil
}

// WithKey returns a one-off provider of the given kind using apiKey in
// place of the configured key. Base URL and model settings carry over.
func (r *Registry) WithKey(name, apiKey string) (Provider, error) {
	r.mu.RLock()
	cfg := r.configs[name]
	r.mu.RUnlock()

	cfg.APIKey = apiKey
	p := newProvider(name, cfg)
	if p == nil {
		return nil, fmt.Errorf("ai: unknown provider %q", name)
	}
	return p, nil
}

// Model returns the configured default model of a provider.
func (r *Registry) Model(name string) string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.configs[name].Model
}

// SetActive switches the active provider at runtime. Returns an error if
// the named provider has no API key configured.
func (r *Registry) SetActive(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.providers[name]; !ok {
		return fmt.Errorf("ai: provider %q is not available (no API key?)", name)
	}
	r.active = name
	return nil
}

// ActiveName returns the name of the currently active provider.
func (r *Registry) ActiveName() string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.active
}

// Available returns the sorted names of all providers with API keys.
func (r *Registry) Available() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.providers))
	for name := range r.providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Register adds or replaces a provider in the registry.
func (r *Registry) Register(name string, p Provider) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.providers[name] = p
}

// HasProvider checks whether a named provider is configured and available.
func (r *Registry) HasProvider(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.providers[name]
	return ok
}
