// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package engine synthesizes the standalone documents of a generated site.
// Pages are rendered from an embedded html/template, so every interpolated
// value is escaped for its context. The only trusted fragments are the
// internally chosen panel CSS strings.
package engine

import (
	"bytes"
	"crypto/sha256"
	"embed"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"html/template"
	"strings"

	"webtg/internal/models"
	"webtg/internal/pageplan"
	"webtg/internal/palette"
)

//go:embed templates/*.html
var templateFS embed.FS

// WrapperOpen is the opening tag of every document's top-level wrapper.
// The shared navigation bar is injected right after it.
const WrapperOpen = `<div class="wrap" id="top">`

// AdvicePool holds the tips the in-page "Get Advice" button draws from.
var AdvicePool = []string{
	"Use one clear CTA in hero and keep the nav simple.",
	"Add social proof near the first fold to improve trust.",
	"Keep headline outcome-focused and under 12 words.",
	"Highlight your top service card first for faster decisions.",
	"Use consistent spacing and section rhythm across pages.",
}

// Panel treatments per style variant and theme. These are the only raw CSS
// fragments written into a document.
var (
	panelGlassDark  = template.CSS("background: rgba(15,23,42,.52); backdrop-filter: blur(14px); border: 1px solid rgba(148,163,184,.25);")
	panelGlassLight = template.CSS("background: rgba(255,255,255,.74); backdrop-filter: blur(10px); border: 1px solid rgba(148,163,184,.25);")
	panelSolidDark  = template.CSS("background: linear-gradient(160deg, rgba(30,41,59,.96), rgba(15,23,42,.98)); border: 1px solid rgba(148,163,184,.20);")
	panelSolidLight = template.CSS("background: linear-gradient(160deg, rgba(255,255,255,.96), rgba(241,245,249,.98)); border: 1px solid rgba(148,163,184,.22);")
)

// Document describes one page to synthesize.
type Document struct {
	Brand   string             `json:"brand"`
	Label   string             `json:"label"`
	Palette models.Palette     `json:"palette"`
	Theme   models.Theme       `json:"theme"`
	Glass   bool               `json:"glass"`
	Copy    models.CopyContent `json:"copy"`
}

// pageView is the data handed to the page template.
type pageView struct {
	Brand      string
	Label      string
	P1, P2, P3 string
	Background string
	Foreground string
	Panel      template.CSS
	Copy       models.CopyContent
	Advice     []string
}

// navLink is one entry of the shared navigation bar.
type navLink struct {
	File  string
	Title string
}

// Engine renders documents from the embedded templates. Rendered documents
// are memoized by content fingerprint, so regenerating an unchanged site
// skips template execution. Safe for concurrent use.
type Engine struct {
	page  *template.Template
	nav   *template.Template
	cache *docCache
}

// New parses the embedded templates.
func New() (*Engine, error) {
	page, err := template.ParseFS(templateFS, "templates/page.html")
	if err != nil {
		return nil, fmt.Errorf("parse page template: %w", err)
	}
	nav, err := template.ParseFS(templateFS, "templates/nav.html")
	if err != nil {
		return nil, fmt.Errorf("parse nav template: %w", err)
	}
	return &Engine{page: page, nav: nav, cache: newDocCache(defaultCacheSize)}, nil
}

// Render produces one complete, self-contained document.
func (e *Engine) Render(doc Document) (string, error) {
	key := fingerprint(doc)
	if html, ok := e.cache.get(key); ok {
		return html, nil
	}

	var buf bytes.Buffer
	if err := e.page.Execute(&buf, newPageView(doc)); err != nil {
		return "", fmt.Errorf("execute page template: %w", err)
	}

	html := buf.String()
	e.cache.put(key, html)
	return html, nil
}

// RenderNav renders the shared navigation bar linking every planned page.
func (e *Engine) RenderNav(plan []string) (string, error) {
	links := make([]navLink, len(plan))
	for i, name := range plan {
		links[i] = navLink{File: pageplan.Filename(name), Title: pageplan.Title(name)}
	}

	var buf bytes.Buffer
	if err := e.nav.Execute(&buf, links); err != nil {
		return "", fmt.Errorf("execute nav template: %w", err)
	}
	return strings.TrimSpace(buf.String()), nil
}

// InjectNav inserts nav immediately inside the document's wrapper element.
// Documents without the wrapper are returned unchanged.
func InjectNav(doc, nav string) string {
	return strings.Replace(doc, WrapperOpen, WrapperOpen+nav, 1)
}

// ClearCache drops every memoized document.
func (e *Engine) ClearCache() {
	e.cache.invalidateAll()
}

func newPageView(doc Document) pageView {
	pal := doc.Palette
	if !palette.Valid(pal) {
		pal = palette.Resolve("", pal[0])
	}

	v := pageView{
		Brand:  orDefault(doc.Brand, "Generated Template"),
		Label:  orDefault(doc.Label, "CS webTG export"),
		P1:     pal[0],
		P2:     pal[1],
		P3:     pal[2],
		Copy:   withDefaults(doc.Copy, pal),
		Advice: AdvicePool,
	}

	if doc.Theme == models.ThemeLight {
		v.Background, v.Foreground = "#f6f8fc", "#0f172a"
		v.Panel = panelSolidLight
		if doc.Glass {
			v.Panel = panelGlassLight
		}
	} else {
		v.Background, v.Foreground = "#0a1020", "#e5e7eb"
		v.Panel = panelSolidDark
		if doc.Glass {
			v.Panel = panelGlassDark
		}
	}
	return v
}

// withDefaults fills blank copy fields so a document never renders empty
// hero text.
func withDefaults(c models.CopyContent, pal models.Palette) models.CopyContent {
	c.Headline = orDefault(c.Headline, "A clean, fast template for your project.")
	c.Subheadline = orDefault(c.Subheadline, "This export is plain HTML and can be deployed on GitHub Pages or Netlify.")
	c.PrimaryCTA = orDefault(c.PrimaryCTA, "Download")
	c.SecondaryCTA = orDefault(c.SecondaryCTA, "Preview")
	c.CardTitle = orDefault(c.CardTitle, "Animated Card")
	c.CardNote = orDefault(c.CardNote, "Palette: "+pal.Join(", "))
	return c
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}

func fingerprint(doc Document) string {
	raw, _ := json.Marshal(doc)
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:])
}
