// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package site assembles a complete multi-page site from one generation
// payload: it plans the page set, resolves copy per page, renders every
// document, wires the shared navigation, and installs filename aliases.
package site

import (
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"webtg/internal/catalog"
	"webtg/internal/copywriter"
	"webtg/internal/engine"
	"webtg/internal/models"
	"webtg/internal/pageplan"
	"webtg/internal/palette"
)

// DefaultBrand is used when the brand field is left blank.
const DefaultBrand = "Code Sanskriti"

// MaxBrandLength bounds the brand name, in runes.
const MaxBrandLength = 40

// Alias maps a secondary filename onto a canonical page.
type Alias struct {
	Name   string
	Target string
}

// Aliases are installed into every site whose canonical target exists.
var Aliases = []Alias{
	{Name: "product.html", Target: "products.html"},
	{Name: "about-us.html", Target: "about.html"},
}

// LinkAliases are the link spellings resolved during navigation. It is a
// superset of Aliases.
var LinkAliases = map[string]string{
	"product.html":  "products.html",
	"aboutus.html":  "about.html",
	"about-us.html": "about.html",
}

// Input is the raw selection state a payload is built from.
type Input struct {
	TemplateID string          `json:"templateId"`
	Category   string          `json:"category"`
	Style      string          `json:"style"`
	Theme      string          `json:"theme"`
	Accent     string          `json:"accent"`
	Brand      string          `json:"brand"`
	Pages      int             `json:"pages"`
	Palette    *models.Palette `json:"palette,omitempty"`
}

// NewPayload resolves raw selections into a GenerationPayload. Blank
// category and style fall back to the template's own; an explicit palette
// pick wins over the category palette.
func NewPayload(in Input, now time.Time) models.GenerationPayload {
	t := catalog.Lookup(in.TemplateID)

	p := models.GenerationPayload{
		TemplateID:   t.ID,
		TemplateName: t.Name,
		Category:     orDefault(in.Category, t.Category),
		Style:        orDefault(in.Style, t.Style),
		Theme:        models.ParseTheme(in.Theme),
		Accent:       palette.NormalizeHex(in.Accent),
		Brand:        CleanBrand(in.Brand),
		PageCount:    pageplan.Clamp(in.Pages),
		CreatedAt:    now,
	}

	if in.Palette != nil && palette.Valid(*in.Palette) {
		p.Palette = *in.Palette
	} else {
		p.Palette = palette.Resolve(p.Category, p.Accent)
	}
	return p
}

// CleanBrand trims the brand, defaults it, and bounds its length.
func CleanBrand(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return DefaultBrand
	}
	if utf8.RuneCountInString(s) > MaxBrandLength {
		s = copywriter.Truncate(s, MaxBrandLength)
	}
	return s
}

// Assembler builds GeneratedSites using a document engine.
type Assembler struct {
	engine *engine.Engine
}

// NewAssembler creates an assembler rendering through eng.
func NewAssembler(eng *engine.Engine) *Assembler {
	return &Assembler{engine: eng}
}

// Assemble renders every planned page for p. The index page takes the
// category copy overlaid with override; other pages get derived copy.
// The result has passed Verify.
func (a *Assembler) Assemble(p models.GenerationPayload, override *models.CopyContent) (*models.GeneratedSite, error) {
	plan := pageplan.Plan(p.PageCount)
	hero := copywriter.Merge(copywriter.Resolve(p.Category, p.Brand), override)

	nav, err := a.engine.RenderNav(plan)
	if err != nil {
		return nil, fmt.Errorf("assemble nav: %w", err)
	}

	s := &models.GeneratedSite{
		Payload: p,
		Copy:    hero,
		Plan:    plan,
		Pages:   make(map[string]string, len(plan)+len(Aliases)),
	}

	for i, name := range plan {
		pageCopy := hero
		if i > 0 {
			pageCopy = copywriter.ForPage(name, p)
		}

		doc, err := a.engine.Render(engine.Document{
			Brand:   p.Brand,
			Label:   p.Label(),
			Palette: p.Palette,
			Theme:   p.Theme,
			Glass:   p.IsGlass(),
			Copy:    pageCopy,
		})
		if err != nil {
			return nil, fmt.Errorf("assemble page %s: %w", name, err)
		}

		file := pageplan.Filename(name)
		s.Pages[file] = engine.InjectNav(doc, nav)
		s.Order = append(s.Order, file)
	}

	InstallAliases(s)

	if err := Verify(s); err != nil {
		return nil, err
	}

	slog.Debug("site assembled", "template", p.TemplateID, "pages", len(s.Pages))
	return s, nil
}

// InstallAliases adds each alias whose canonical page exists and whose slot
// is free.
func InstallAliases(s *models.GeneratedSite) {
	for _, al := range Aliases {
		target, ok := s.Pages[al.Target]
		if !ok {
			continue
		}
		if _, taken := s.Pages[al.Name]; taken {
			continue
		}
		s.Pages[al.Name] = target
		s.Order = append(s.Order, al.Name)
	}
}

// Resolve maps a link target to a filename present in pages, checking the
// alias table first and then the page map. The bool is false when the link
// leads nowhere.
func Resolve(pages map[string]string, href string) (string, bool) {
	href = strings.TrimSpace(href)
	if target, ok := LinkAliases[href]; ok {
		if _, exists := pages[target]; exists {
			return target, true
		}
	}
	if _, ok := pages[href]; ok {
		return href, true
	}
	return "", false
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}
