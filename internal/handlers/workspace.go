// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"webtg/internal/catalog"
	"webtg/internal/export"
	"webtg/internal/metrics"
	"webtg/internal/models"
	"webtg/internal/palette"
	"webtg/internal/slug"
	"webtg/internal/statestore"
	"webtg/internal/storage"
	"webtg/internal/workspace"
)

// Workspace serves the generator command API used by the host page.
type Workspace struct {
	session *workspace.Session
	store   statestore.Store
	storage *storage.Client
	metrics *metrics.Metrics
	now     func() time.Time
}

// NewWorkspace creates the workspace handler group. storageClient may be
// nil if S3 is not configured; publishing then answers 503.
func NewWorkspace(session *workspace.Session, store statestore.Store, storageClient *storage.Client, m *metrics.Metrics) *Workspace {
	return &Workspace{
		session: session,
		store:   store,
		storage: storageClient,
		metrics: m,
		now:     time.Now,
	}
}

// catalogResponse feeds the host page's selectors.
type catalogResponse struct {
	Templates  []models.TemplateDescriptor `json:"templates"`
	Categories []string                    `json:"categories"`
	Styles     []string                    `json:"styles"`
	Presets    []palette.Preset            `json:"presets"`
}

// Catalog lists the templates matching ?category, ?style and ?q.
func (h *Workspace) Catalog(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	templates := catalog.Filter(q.Get("category"), q.Get("style"), q.Get("q"))
	if templates == nil {
		templates = []models.TemplateDescriptor{}
	}
	writeJSON(w, http.StatusOK, catalogResponse{
		Templates:  templates,
		Categories: catalog.Categories(),
		Styles:     catalog.Styles(),
		Presets:    palette.Presets,
	})
}

// State returns the current workspace state.
func (h *Workspace) State(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, workspace.Outcome{State: h.session.Snapshot()})
}

// Select applies the form selections.
func (h *Workspace) Select(w http.ResponseWriter, r *http.Request) {
	var sel workspace.Selection
	if err := decodeJSON(w, r, &sel); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body.")
		return
	}
	h.outcome(w, r)(h.session.Select(r.Context(), sel))
}

// Palette applies a preset swatch.
func (h *Workspace) Palette(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Swatch string `json:"swatch"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body.")
		return
	}
	h.outcome(w, r)(h.session.PickPalette(r.Context(), req.Swatch))
}

// Generate assembles a site from the current selections.
func (h *Workspace) Generate(w http.ResponseWriter, r *http.Request) {
	h.outcome(w, r)(h.session.Generate(r.Context()))
}

// Enhance fetches AI copy and regenerates.
func (h *Workspace) Enhance(w http.ResponseWriter, r *http.Request) {
	h.outcome(w, r)(h.session.Enhance(r.Context()))
}

// Save stores the last generated site in My Templates.
func (h *Workspace) Save(w http.ResponseWriter, r *http.Request) {
	h.outcome(w, r)(h.session.Save(r.Context()))
}

// Download returns the staggered file manifest of the last site.
func (h *Workspace) Download(w http.ResponseWriter, r *http.Request) {
	h.outcome(w, r)(h.session.Download(r.Context()))
}

// DownloadZip bundles the last site into a zip archive.
func (h *Workspace) DownloadZip(w http.ResponseWriter, r *http.Request) {
	h.archive(w, h.session.Last())
}

// Publish uploads the last site to the configured bucket.
func (h *Workspace) Publish(w http.ResponseWriter, r *http.Request) {
	if h.storage == nil {
		writeMessage(w, http.StatusServiceUnavailable, "Publishing is not configured.")
		return
	}
	last := h.session.Last()
	files, err := export.Files(last)
	if err != nil {
		writeMessage(w, http.StatusConflict, "Generate a template before publishing.")
		return
	}

	prefix := slug.ForSite(last.Payload.Brand, last.Payload.TemplateID, h.now())
	url, err := h.storage.PublishSite(r.Context(), prefix, files)
	if err != nil {
		slog.Error("publish site failed", "error", err, "prefix", prefix)
		h.metrics.Publish("error")
		writeMessage(w, http.StatusBadGateway, "Publishing failed. Please retry.")
		return
	}
	h.metrics.Publish("ok")
	writeJSON(w, http.StatusOK, map[string]any{"url": url, "files": len(files)})
}

// ListSaved lists saved templates matching ?q.
func (h *Workspace) ListSaved(w http.ResponseWriter, r *http.Request) {
	saved := h.session.Saved(r.URL.Query().Get("q"))
	if saved == nil {
		saved = []models.SavedEntry{}
	}
	writeJSON(w, http.StatusOK, saved)
}

// PreviewSaved shows a saved template in the preview frame.
func (h *Workspace) PreviewSaved(w http.ResponseWriter, r *http.Request) {
	id, ok := savedID(w, r)
	if !ok {
		return
	}
	h.outcome(w, r)(h.session.PreviewSaved(r.Context(), id))
}

// DownloadSaved returns the file manifest of a saved template.
func (h *Workspace) DownloadSaved(w http.ResponseWriter, r *http.Request) {
	id, ok := savedID(w, r)
	if !ok {
		return
	}
	h.outcome(w, r)(h.session.DownloadSaved(r.Context(), id))
}

// DownloadSavedZip bundles a saved template into a zip archive.
func (h *Workspace) DownloadSavedZip(w http.ResponseWriter, r *http.Request) {
	id, ok := savedID(w, r)
	if !ok {
		return
	}
	entry, err := h.session.SavedEntry(id)
	if err != nil {
		writeMessage(w, http.StatusNotFound, "Saved template not found.")
		return
	}
	h.archive(w, entry.Site())
}

// DeleteSaved removes one saved template.
func (h *Workspace) DeleteSaved(w http.ResponseWriter, r *http.Request) {
	id, ok := savedID(w, r)
	if !ok {
		return
	}
	h.outcome(w, r)(h.session.DeleteSaved(r.Context(), id))
}

// ClearSaved removes every saved template.
func (h *Workspace) ClearSaved(w http.ResponseWriter, r *http.Request) {
	h.outcome(w, r)(h.session.ClearSaved(r.Context()))
}

// Settings returns the user-settable overrides. The API key is masked.
func (h *Workspace) Settings(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.settings(r.Context()))
}

// UpdateSettings sets or, for empty values, removes overrides.
func (h *Workspace) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var req map[string]string
	if err := decodeJSON(w, r, &req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body.")
		return
	}
	for key := range req {
		if !statestore.IsOverrideKey(key) {
			writeMessage(w, http.StatusBadRequest, fmt.Sprintf("Unknown setting %q.", key))
			return
		}
	}

	ctx := r.Context()
	for key, value := range req {
		value = strings.TrimSpace(value)
		var err error
		if value == "" {
			err = h.store.Delete(ctx, key)
		} else {
			err = statestore.SetJSON(ctx, h.store, key, value)
		}
		if err != nil {
			slog.Error("update setting failed", "error", err, "key", key)
			writeMessage(w, http.StatusInternalServerError, "Failed to save settings.")
			return
		}
	}
	writeJSON(w, http.StatusOK, h.settings(ctx))
}

func (h *Workspace) settings(ctx context.Context) map[string]string {
	out := make(map[string]string, len(statestore.OverrideKeys))
	for _, key := range statestore.OverrideKeys {
		v := statestore.GetString(ctx, h.store, key)
		if key == statestore.KeyOpenAIKey {
			v = maskSecret(v)
		}
		out[key] = v
	}
	return out
}

// maskSecret keeps only the last four characters of a secret.
func maskSecret(s string) string {
	if s == "" {
		return ""
	}
	if len(s) <= 4 {
		return "****"
	}
	return "****" + s[len(s)-4:]
}

// outcome returns a writer for a session command result.
func (h *Workspace) outcome(w http.ResponseWriter, r *http.Request) func(workspace.Outcome, error) {
	return func(out workspace.Outcome, err error) {
		if err != nil {
			slog.Error("workspace command failed", "error", err, "path", r.URL.Path)
			writeMessage(w, http.StatusInternalServerError, "Failed to update workspace state.")
			return
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func (h *Workspace) archive(w http.ResponseWriter, gen *models.GeneratedSite) {
	files, err := export.Files(gen)
	if err != nil {
		writeMessage(w, http.StatusConflict, "Generate a template before downloading.")
		return
	}

	now := h.now()
	var buf bytes.Buffer
	if err := export.Archive(&buf, files, now); err != nil {
		slog.Error("archive site failed", "error", err)
		writeMessage(w, http.StatusInternalServerError, "Failed to build archive.")
		return
	}
	name := slug.ForSite(gen.Payload.Brand, gen.Payload.TemplateID, now) + ".zip"
	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	w.Write(buf.Bytes())
}

func savedID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid saved template id.")
		return uuid.Nil, false
	}
	return id, true
}
