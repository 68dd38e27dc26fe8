// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package workspace

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"webtg/internal/aiclient"
	"webtg/internal/export"
	"webtg/internal/metrics"
	"webtg/internal/models"
	"webtg/internal/preview"
	"webtg/internal/statestore"
)

// Options configures a Session.
type Options struct {
	// Origin is the public origin the host page is served from.
	Origin string
	// APIBase is the configured assist API base. A stored override wins.
	APIBase string
	// FallbackPort is the local port probed for the assist API.
	FallbackPort string
	Now          func() time.Time
	NewID        func() uuid.UUID
	Metrics      *metrics.Metrics
}

// Outcome is what a command hands back to the host page.
type Outcome struct {
	State State         `json:"state"`
	Files []export.File `json:"files,omitempty"`

	enhance *models.GenerationPayload
}

// Session owns one user's workspace state and applies command effects.
type Session struct {
	mu      sync.Mutex
	state   State
	cmds    *Commands
	store   statestore.Store
	preview *preview.Controller
	ai      *aiclient.Client
	opts    Options
}

// NewSession creates a session. Call Load before the first command.
func NewSession(a Assembler, store statestore.Store, pc *preview.Controller, ai *aiclient.Client, opts Options) *Session {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.NewID == nil {
		opts.NewID = uuid.New
	}
	return &Session{
		cmds:    NewCommands(a),
		store:   store,
		preview: pc,
		ai:      ai,
		opts:    opts,
	}
}

// Load restores the last generated site and the saved list.
func (s *Session) Load(ctx context.Context) (Outcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	last := statestore.GetJSON[*models.GeneratedSite](ctx, s.store, statestore.KeyLastGenerated, nil)
	saved := statestore.GetJSON[[]models.SavedEntry](ctx, s.store, statestore.KeySavedTemplates, nil)
	if s.opts.Origin != "" {
		if err := statestore.SetJSON(ctx, s.store, statestore.KeyLastOrigin, s.opts.Origin); err != nil {
			slog.Warn("remember origin failed", "error", err)
		}
	}

	st, effects := s.cmds.OnLoad(s.state, last, saved)
	return s.run(ctx, st, effects)
}

// Snapshot returns the current state.
func (s *Session) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Last returns the last generated site, or nil.
func (s *Session) Last() *models.GeneratedSite {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Last
}

// Select applies new form values.
func (s *Session) Select(ctx context.Context, sel Selection) (Outcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, effects := s.cmds.OnSelectionChanged(s.state, sel, s.opts.Now())
	return s.run(ctx, st, effects)
}

// PickPalette applies a preset swatch.
func (s *Session) PickPalette(ctx context.Context, swatch string) (Outcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, effects := s.cmds.OnPalettePicked(s.state, swatch)
	return s.run(ctx, st, effects)
}

// Generate assembles and previews a site.
func (s *Session) Generate(ctx context.Context) (Outcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, effects := s.cmds.OnGenerateRequested(s.state, s.opts.Now())
	return s.run(ctx, st, effects)
}

// Enhance fetches AI copy and regenerates with it. The session lock is
// released while the assist endpoints are probed, so other commands keep
// working; a result for selections that changed meanwhile is discarded.
func (s *Session) Enhance(ctx context.Context) (Outcome, error) {
	s.mu.Lock()
	st, effects := s.cmds.OnEnhanceRequested(s.state, s.opts.Now())
	out, err := s.run(ctx, st, effects)
	s.mu.Unlock()
	if err != nil || out.enhance == nil {
		return out, err
	}

	requested := *out.enhance
	endpoints, key := s.assistTarget(ctx)
	res := s.ai.Enhance(ctx, endpoints, key, requested)
	s.opts.Metrics.Enhancement(res.Mode)

	s.mu.Lock()
	defer s.mu.Unlock()
	st, effects = s.cmds.OnEnhanceCompleted(s.state, requested, res, s.opts.Now())
	return s.run(ctx, st, effects)
}

// assistTarget reads the endpoint list and API key overrides.
func (s *Session) assistTarget(ctx context.Context) ([]string, string) {
	base := statestore.GetString(ctx, s.store, statestore.KeyAPIBase)
	if base == "" {
		base = s.opts.APIBase
	}
	if base == "" {
		base = aiclient.DefaultAPIBase(s.opts.Origin)
	}
	key := statestore.GetString(ctx, s.store, statestore.KeyOpenAIKey)
	return aiclient.Candidates(base, s.opts.Origin, s.opts.FallbackPort), key
}

// Save adds the last generated site to the saved list.
func (s *Session) Save(ctx context.Context) (Outcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	before := len(s.state.Saved)
	st, effects := s.cmds.OnSaveRequested(s.state, s.opts.NewID(), s.opts.Now())
	switch {
	case len(st.Saved) > before:
		s.opts.Metrics.Save("ok")
	case st.Last == nil:
		s.opts.Metrics.Save("empty")
	default:
		s.opts.Metrics.Save("duplicate")
	}
	return s.run(ctx, st, effects)
}

// Download lists the files of the last generated site.
func (s *Session) Download(ctx context.Context) (Outcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, effects := s.cmds.OnDownloadRequested(s.state)
	return s.run(ctx, st, effects)
}

// Saved lists saved entries matching query.
func (s *Session) Saved(query string) []models.SavedEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return FilterSaved(s.state, query)
}

// SavedEntry returns one saved entry.
func (s *Session) SavedEntry(id uuid.UUID) (models.SavedEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return export.Find(s.state.Saved, id)
}

// PreviewSaved shows a saved entry in the preview frame.
func (s *Session) PreviewSaved(ctx context.Context, id uuid.UUID) (Outcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, effects := s.cmds.OnPreviewSaved(s.state, id)
	return s.run(ctx, st, effects)
}

// DownloadSaved lists the files of a saved entry.
func (s *Session) DownloadSaved(ctx context.Context, id uuid.UUID) (Outcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, effects := s.cmds.OnDownloadSaved(s.state, id)
	return s.run(ctx, st, effects)
}

// DeleteSaved removes a saved entry.
func (s *Session) DeleteSaved(ctx context.Context, id uuid.UUID) (Outcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, effects := s.cmds.OnDeleteSaved(s.state, id)
	return s.run(ctx, st, effects)
}

// ClearSaved removes every saved entry.
func (s *Session) ClearSaved(ctx context.Context) (Outcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, effects := s.cmds.OnClearSaved(s.state)
	return s.run(ctx, st, effects)
}

// run installs st and applies effects in order. Callers hold s.mu.
func (s *Session) run(ctx context.Context, st State, effects []Effect) (Outcome, error) {
	s.state = st
	var out Outcome
	for _, e := range effects {
		switch e := e.(type) {
		case SetStatus:
			s.state.Status = e.Status
		case ShowPreview:
			s.preview.Show(e.Site)
		case ShowIdle:
			s.preview.Clear()
		case StoreLast:
			s.opts.Metrics.SiteGenerated(len(e.Site.Pages))
			if err := statestore.SetJSON(ctx, s.store, statestore.KeyLastGenerated, e.Site); err != nil {
				return s.outcome(out), fmt.Errorf("workspace store last: %w", err)
			}
		case StoreSaved:
			if err := statestore.SetJSON(ctx, s.store, statestore.KeySavedTemplates, e.Entries); err != nil {
				return s.outcome(out), fmt.Errorf("workspace store saved: %w", err)
			}
		case EnableDownload:
			s.state.CanDownload = true
		case DownloadFiles:
			out.Files = e.Files
		case RequestEnhancement:
			p := e.Payload
			out.enhance = &p
		case EnhancementApplied:
			slog.Info("ai enhancement applied", "mode", e.Result.Mode)
		default:
			slog.Warn("unhandled workspace effect", "effect", fmt.Sprintf("%T", e))
		}
	}
	return s.outcome(out), nil
}

func (s *Session) outcome(out Outcome) Outcome {
	out.State = s.state
	return out
}
