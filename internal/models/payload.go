// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"strings"
	"time"
)

// Theme selects the dark or light background/foreground pair.
type Theme string

const (
	ThemeDark  Theme = "dark"
	ThemeLight Theme = "light"
)

// ParseTheme maps free-form input to a Theme. Anything but "light" is dark,
// matching the generator's default.
func ParseTheme(s string) Theme {
	if strings.EqualFold(strings.TrimSpace(s), string(ThemeLight)) {
		return ThemeLight
	}
	return ThemeDark
}

// Palette is the ordered 3-color triple every generated page is styled with.
type Palette [3]string

// Join renders the palette as "a / b / c" for copy that lists the colors.
func (p Palette) Join(sep string) string {
	return strings.Join(p[:], sep)
}

// GenerationPayload is the resolved input set for one generate action.
// It is built fresh per generation and never mutated afterwards.
type GenerationPayload struct {
	TemplateID   string    `json:"id"`
	TemplateName string    `json:"name"`
	Category     string    `json:"category"`
	Style        string    `json:"style"`
	Theme        Theme     `json:"theme"`
	Accent       string    `json:"accent"`
	Brand        string    `json:"brand"`
	PageCount    int       `json:"pages"`
	Palette      Palette   `json:"palette"`
	CreatedAt    time.Time `json:"created_at"`
}

// IsGlass reports whether the payload's style selects the glass panel.
func (p GenerationPayload) IsGlass() bool {
	return p.Style == StyleGlass
}

// Label is the "{category} - {style}" tag shown on the brand card.
func (p GenerationPayload) Label() string {
	return p.Category + " - " + p.Style
}

// SameConfig reports whether two payloads describe the same configuration.
// CreatedAt and the display name are not part of the identity.
func (p GenerationPayload) SameConfig(o GenerationPayload) bool {
	return p.TemplateID == o.TemplateID &&
		p.Brand == o.Brand &&
		p.Theme == o.Theme &&
		p.Accent == o.Accent &&
		p.Style == o.Style &&
		p.Category == o.Category &&
		p.Palette == o.Palette &&
		p.PageCount == o.PageCount
}
