// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package workspace

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"webtg/internal/aiclient"
	"webtg/internal/catalog"
	"webtg/internal/export"
	"webtg/internal/models"
	"webtg/internal/palette"
	"webtg/internal/site"
)

// Assembler builds a site from a payload and optional index copy.
type Assembler interface {
	Assemble(p models.GenerationPayload, override *models.CopyContent) (*models.GeneratedSite, error)
}

// Commands holds the command handlers. Handlers never touch the store,
// the preview, or the network; they only return effects.
type Commands struct {
	assembler Assembler
}

// NewCommands creates the handlers around an assembler.
func NewCommands(a Assembler) *Commands {
	return &Commands{assembler: a}
}

// Payload resolves the state's selections into a generation payload.
func Payload(s State, now time.Time) models.GenerationPayload {
	sel := s.Selection
	return site.NewPayload(site.Input{
		TemplateID: sel.TemplateID,
		Category:   sel.Category,
		Style:      sel.Style,
		Theme:      sel.Theme,
		Accent:     sel.Accent,
		Brand:      sel.Brand,
		Pages:      sel.Pages,
		Palette:    s.PalettePick,
	}, now)
}

// sameInputs reports whether a and b would generate the same site. The
// template id only matters through the category and style it resolves to.
func sameInputs(a, b models.GenerationPayload) bool {
	return a.Category == b.Category &&
		a.Style == b.Style &&
		a.Theme == b.Theme &&
		a.Accent == b.Accent &&
		a.Brand == b.Brand &&
		a.PageCount == b.PageCount &&
		a.Palette == b.Palette
}

// OnSelectionChanged applies new form values. The template selection is
// reconciled against the filtered catalog; a changed accent drops the
// palette pick and any changed generation input drops cached AI copy.
func (c *Commands) OnSelectionChanged(s State, sel Selection, now time.Time) (State, []Effect) {
	before := Payload(s, now)

	filtered := catalog.Filter(sel.Category, sel.Style, sel.Query)
	sel.TemplateID = catalog.Reconcile(filtered, sel.TemplateID)

	if palette.NormalizeHex(sel.Accent) != palette.NormalizeHex(s.Selection.Accent) {
		s.PalettePick = nil
	}
	s.Selection = sel

	if !sameInputs(before, Payload(s, now)) {
		s.AICopy = nil
	}

	var effects []Effect
	if len(filtered) == 0 {
		effects = append(effects, status(StatusWarn, msgNoTemplates))
	}
	return s, effects
}

// OnPalettePicked applies a preset swatch "#a,#b,#c". The first color
// becomes the accent.
func (c *Commands) OnPalettePicked(s State, swatch string) (State, []Effect) {
	p, ok := palette.ParsePick(swatch)
	if !ok {
		return s, []Effect{status(StatusWarn, msgBadPalette)}
	}
	s.PalettePick = &p
	s.Selection.Accent = p[0]
	s.AICopy = nil
	return s, []Effect{status(StatusInfo, "3-color palette applied: "+p.Join(", "))}
}

// OnGenerateRequested assembles a site from the current selections and
// cached AI copy.
func (c *Commands) OnGenerateRequested(s State, now time.Time) (State, []Effect) {
	s, effects, err := c.generate(s, now)
	if err != nil {
		return s, []Effect{status(StatusError, "Generation failed: "+err.Error())}
	}
	return s, append(effects, status(StatusSuccess,
		fmt.Sprintf("Generated %d-page website: %s", s.Last.Payload.PageCount, s.Last.Payload.TemplateName)))
}

func (c *Commands) generate(s State, now time.Time) (State, []Effect, error) {
	gen, err := c.assembler.Assemble(Payload(s, now), s.AICopy)
	if err != nil {
		return s, nil, err
	}
	s.Last = gen
	s.CanDownload = true
	return s, []Effect{ShowPreview{Site: gen}, EnableDownload{}, StoreLast{Site: gen}}, nil
}

// OnEnhanceRequested starts an enhancement unless one is in flight.
func (c *Commands) OnEnhanceRequested(s State, now time.Time) (State, []Effect) {
	if s.Enhancing {
		return s, []Effect{status(StatusInfo, msgEnhanceBusy)}
	}
	s.Enhancing = true
	return s, []Effect{
		status(StatusInfo, msgEnhancing),
		RequestEnhancement{Payload: Payload(s, now)},
	}
}

// OnEnhanceCompleted installs the enhancement result for requested and
// regenerates. A result whose inputs no longer match the selections is
// discarded.
func (c *Commands) OnEnhanceCompleted(s State, requested models.GenerationPayload, res aiclient.Result, now time.Time) (State, []Effect) {
	s.Enhancing = false
	if !sameInputs(requested, Payload(s, now)) {
		return s, []Effect{status(StatusWarn, msgStaleEnhancement)}
	}

	cp := res.Copy
	s.AICopy = &cp
	s, effects, err := c.generate(s, now)
	if err != nil {
		return s, []Effect{status(StatusError, "Generation failed: "+err.Error())}
	}
	effects = append(effects, EnhancementApplied{Result: res})

	switch res.Mode {
	case models.ModeFallback:
		effects = append(effects, status(StatusWarn, "AI server unavailable. Fallback enhancement applied. "+aiErrorMessage(res.Message)))
	case models.ModeConfigMissing:
		effects = append(effects, status(StatusWarn, msgConfigMissing))
	case models.ModeError:
		effects = append(effects, status(StatusError, "AI provider error: "+aiErrorMessage(res.Message)+" Fallback copy applied."))
	default:
		effects = append(effects, status(StatusSuccess, msgEnhanced))
	}
	return s, effects
}

// OnSaveRequested stores the last generated site under id.
func (c *Commands) OnSaveRequested(s State, id uuid.UUID, now time.Time) (State, []Effect) {
	saved, _, err := export.Save(s.Saved, s.Last, id, now)
	switch {
	case errors.Is(err, export.ErrNothingGenerated):
		return s, []Effect{status(StatusWarn, msgNothingToSave)}
	case errors.Is(err, export.ErrDuplicate):
		return s, []Effect{status(StatusWarn, msgDuplicate)}
	case err != nil:
		return s, []Effect{status(StatusError, err.Error())}
	}
	s.Saved = saved
	return s, []Effect{StoreSaved{Entries: saved}, status(StatusSuccess, msgSaved)}
}

// OnDownloadRequested hands every page of the last site to the browser.
func (c *Commands) OnDownloadRequested(s State) (State, []Effect) {
	return s, download(s.Last)
}

func download(gen *models.GeneratedSite) []Effect {
	files, err := export.Files(gen)
	if err != nil {
		return []Effect{status(StatusWarn, msgNothingToDownload)}
	}
	return []Effect{
		DownloadFiles{Files: files},
		status(StatusInfo, fmt.Sprintf("Download started for %d page(s).", len(files))),
	}
}

// OnLoad restores the persisted last site and saved list. The form is
// set back to the restored site's selections.
func (c *Commands) OnLoad(s State, last *models.GeneratedSite, saved []models.SavedEntry) (State, []Effect) {
	s.Saved = saved
	if last == nil || len(last.Pages) == 0 {
		s.Last = nil
		s.CanDownload = false
		return s, []Effect{ShowIdle{}, status(StatusInfo, msgIdle)}
	}

	p := last.Payload
	s.Last = last
	s.CanDownload = true
	s.Selection = Selection{
		TemplateID: p.TemplateID,
		Category:   p.Category,
		Style:      p.Style,
		Theme:      string(p.Theme),
		Accent:     p.Accent,
		Brand:      p.Brand,
		Pages:      p.PageCount,
	}
	if p.Palette != palette.Resolve(p.Category, p.Accent) {
		pick := p.Palette
		s.PalettePick = &pick
	}
	return s, []Effect{ShowPreview{Site: last}, EnableDownload{}, status(StatusInfo, msgRestored)}
}

// OnPreviewSaved shows a saved entry without replacing the last site.
func (c *Commands) OnPreviewSaved(s State, id uuid.UUID) (State, []Effect) {
	entry, err := export.Find(s.Saved, id)
	if err != nil {
		return s, []Effect{status(StatusWarn, msgSavedMissing)}
	}
	return s, []Effect{
		ShowPreview{Site: entry.Site()},
		status(StatusInfo, "Previewing saved template: "+entry.Payload.Label()),
	}
}

// OnDownloadSaved downloads every page of a saved entry.
func (c *Commands) OnDownloadSaved(s State, id uuid.UUID) (State, []Effect) {
	entry, err := export.Find(s.Saved, id)
	if err != nil {
		return s, []Effect{status(StatusWarn, msgSavedMissing)}
	}
	return s, download(entry.Site())
}

// OnDeleteSaved removes one saved entry.
func (c *Commands) OnDeleteSaved(s State, id uuid.UUID) (State, []Effect) {
	saved, err := export.Remove(s.Saved, id)
	if err != nil {
		return s, []Effect{status(StatusWarn, msgSavedMissing)}
	}
	s.Saved = saved
	return s, []Effect{StoreSaved{Entries: saved}, status(StatusInfo, msgSavedRemoved)}
}

// OnClearSaved removes every saved entry.
func (c *Commands) OnClearSaved(s State) (State, []Effect) {
	s.Saved = nil
	return s, []Effect{StoreSaved{Entries: nil}, status(StatusInfo, msgSavedCleared)}
}

// FilterSaved lists saved entries matching query.
func FilterSaved(s State, query string) []models.SavedEntry {
	return export.Filter(s.Saved, strings.TrimSpace(query))
}
