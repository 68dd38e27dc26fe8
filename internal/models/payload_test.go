package models

import (
	"testing"
	"time"
)

func TestParseTheme(t *testing.T) {
	tests := []struct {
		in   string
		want Theme
	}{
		{"light", ThemeLight},
		{" LIGHT ", ThemeLight},
		{"dark", ThemeDark},
		{"", ThemeDark},
		{"sepia", ThemeDark},
	}
	for _, tt := range tests {
		if got := ParseTheme(tt.in); got != tt.want {
			t.Errorf("ParseTheme(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSameConfig(t *testing.T) {
	base := GenerationPayload{
		TemplateID: "gym-zen", TemplateName: "Tan & Green Minimal Gym",
		Category: "GYM", Style: "Minimal", Theme: ThemeDark, Accent: "#22c55e",
		Brand: "Acme", PageCount: 4, Palette: Palette{"#22c55e", "#14b8a6", "#0f172a"},
		CreatedAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}

	other := base
	other.CreatedAt = base.CreatedAt.Add(time.Hour)
	other.TemplateName = "renamed"
	if !base.SameConfig(other) {
		t.Error("timestamp and display name should not affect identity")
	}

	tests := []struct {
		name   string
		mutate func(*GenerationPayload)
	}{
		{"brand", func(p *GenerationPayload) { p.Brand = "Other" }},
		{"pages", func(p *GenerationPayload) { p.PageCount = 5 }},
		{"theme", func(p *GenerationPayload) { p.Theme = ThemeLight }},
		{"palette", func(p *GenerationPayload) { p.Palette[2] = "#000000" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := base
			tt.mutate(&p)
			if base.SameConfig(p) {
				t.Errorf("changed %s should differ", tt.name)
			}
		})
	}
}

func TestGeneratedSiteIndex(t *testing.T) {
	s := &GeneratedSite{
		Order: []string{"about.html", "index.html"},
		Pages: map[string]string{"about.html": "about", "index.html": "home"},
	}
	if got := s.Index(); got != "home" {
		t.Errorf("Index = %q, want home", got)
	}

	delete(s.Pages, "index.html")
	if got := s.Index(); got != "about" {
		t.Errorf("Index without index.html = %q, want about", got)
	}
}

func TestSavedEntrySite(t *testing.T) {
	e := SavedEntry{
		Payload: GenerationPayload{Category: "GYM", Style: "Bold"},
		Order:   []string{"index.html"},
		Pages:   map[string]string{"index.html": "<html></html>"},
	}
	s := e.Site()
	if s.Payload.Label() != "GYM - Bold" || len(s.Pages) != 1 {
		t.Errorf("site = %+v", s)
	}
}
