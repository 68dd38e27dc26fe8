// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"webtg/internal/fallback"
	"webtg/internal/models"
)

// MsgUnparsable answers a model reply that is not a JSON object.
const MsgUnparsable = "AI response parsing failed."

// Request defaults applied to blank assist fields.
const (
	DefaultBrand    = "Code Sanskriti"
	DefaultCategory = "Landing"
	DefaultStyle    = "Modern"
	DefaultTheme    = "dark"
	DefaultAccent   = "#0ea5e9"
)

// maxErrorMessage bounds the provider error text returned in error mode.
const maxErrorMessage = 240

// openAIModelFallbacks follow the configured model, in order.
var openAIModelFallbacks = []string{"gpt-4.1-mini", "gpt-4o"}

const assistSystemPrompt = "You write concise, professional marketing copy for website hero sections."

const assistPromptFormat = `Create short website copy for a landing hero. Return ONLY valid JSON with keys: headline, subheadline, primaryCta, secondaryCta, cardTitle, cardNote.

Brand: %s
Category: %s
Style: %s
Theme: %s
Accent: %s

Constraints:
- headline max 60 chars
- subheadline max 120 chars
- CTA labels 1-3 words
- professional tone`

// errorModeCopy is returned when every provider call failed.
var errorModeCopy = models.CopyContent{
	Headline:     "Smart template for your project",
	Subheadline:  "Readable, conversion-focused section blocks with balanced spacing.",
	PrimaryCTA:   "Get Started",
	SecondaryCTA: "Contact",
	CardTitle:    "Animated Card",
	CardNote:     "Fallback copy mode enabled",
}

// Assistant answers assist requests with a provider from the registry.
type Assistant struct {
	registry *Registry
}

// NewAssistant creates an assistant over registry.
func NewAssistant(registry *Registry) *Assistant {
	return &Assistant{registry: registry}
}

// WithDefaults fills blank request fields.
func WithDefaults(req models.AssistRequest) models.AssistRequest {
	def := func(v, d string) string {
		if strings.TrimSpace(v) == "" {
			return d
		}
		return v
	}
	return models.AssistRequest{
		Brand:    def(req.Brand, DefaultBrand),
		Category: def(req.Category, DefaultCategory),
		Style:    def(req.Style, DefaultStyle),
		Theme:    def(req.Theme, DefaultTheme),
		Accent:   def(req.Accent, DefaultAccent),
	}
}

// ConfigMissingCopy is the copy served when no provider key is set.
func ConfigMissingCopy(req models.AssistRequest) models.CopyContent {
	sub := "Professional light-mode layout with clear hierarchy and high readability."
	if req.Theme == "dark" {
		sub = "Professional dark-mode layout with clear contrast and strong CTA focus."
	}
	return models.CopyContent{
		Headline:     fmt.Sprintf("%s: %s %s experience", req.Brand, req.Style, req.Category),
		Subheadline:  sub,
		PrimaryCTA:   "Get Started",
		SecondaryCTA: "Learn More",
		CardTitle:    req.Style + " UI",
		CardNote:     "Accent: " + req.Accent,
	}
}

// Assist writes copy for req. apiKey, when set, overrides the configured
// OpenAI key for this request. The returned status is the HTTP status to
// answer with; provider failures still answer 200 in error mode.
func (a *Assistant) Assist(ctx context.Context, req models.AssistRequest, apiKey string) (models.AssistResponse, int) {
	req = WithDefaults(req)

	provider, mode, candidates := a.resolve(strings.TrimSpace(apiKey))
	if provider == nil {
		return respond(models.ModeConfigMissing, "OpenAI API key missing on the server.", ConfigMissingCopy(req)), http.StatusOK
	}

	prompt := fmt.Sprintf(assistPromptFormat, req.Brand, req.Category, req.Style, req.Theme, req.Accent)
	attempts := make([]fallback.Attempt[string], len(candidates))
	for i, model := range candidates {
		attempts[i] = func(ctx context.Context) (string, error) {
			return provider.GenerateWithModel(ctx, model, assistSystemPrompt, prompt)
		}
	}

	raw, err := fallback.First(ctx, attempts...)
	if err != nil {
		last := fallback.Last(err)
		slog.Warn("assist provider failed", "provider", provider.Name(), "error", last)
		return respond(models.ModeError, collapse(last.Error()), errorModeCopy), http.StatusOK
	}

	parsed, err := parseCopy(raw)
	if err != nil {
		slog.Warn("assist reply not json", "provider", provider.Name(), "error", err)
		return models.AssistResponse{Message: MsgUnparsable}, http.StatusBadGateway
	}
	return models.AssistResponse{OK: true, Mode: mode, Copy: parsed}, http.StatusOK
}

// resolve picks the provider, the mode it reports, and the models to try.
func (a *Assistant) resolve(apiKey string) (Provider, string, []string) {
	if apiKey != "" {
		p, err := a.registry.WithKey("openai", apiKey)
		if err == nil {
			return p, models.ModeOpenAI, a.openAIModels()
		}
	}

	p, err := a.registry.Active()
	if err != nil {
		return nil, "", nil
	}
	if p.Name() == "openai" {
		return p, models.ModeOpenAI, a.openAIModels()
	}
	return p, models.ModeClaude, []string{""}
}

// openAIModels lists the configured model followed by the fallbacks,
// without duplicates.
func (a *Assistant) openAIModels() []string {
	first := a.registry.Model("openai")
	if first == "" {
		first = DefaultOpenAIModel
	}
	out := []string{first}
	for _, m := range openAIModelFallbacks {
		if m != first {
			out = append(out, m)
		}
	}
	return out
}

// parseCopy checks that raw is a JSON object. The fields are normalized
// by the client.
func parseCopy(raw string) (json.RawMessage, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		raw = "{}"
	}
	var obj map[string]any
	if err := json.Unmarshal([]byte(raw), &obj); err != nil {
		return nil, err
	}
	return json.RawMessage(raw), nil
}

func respond(mode, message string, c models.CopyContent) models.AssistResponse {
	raw, _ := json.Marshal(c)
	return models.AssistResponse{OK: true, Mode: mode, Message: message, Copy: raw}
}

// collapse folds whitespace runs and bounds the message length.
func collapse(msg string) string {
	msg = strings.Join(strings.Fields(msg), " ")
	if msg == "" {
		return "OpenAI request failed"
	}
	if r := []rune(msg); len(r) > maxErrorMessage {
		msg = string(r[:maxErrorMessage])
	}
	return msg
}
