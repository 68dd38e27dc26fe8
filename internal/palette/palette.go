// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package palette resolves the 3-color palette a site is styled with.
package palette

import (
	"regexp"
	"strings"

	"webtg/internal/models"
)

// DefaultAccent is used whenever no valid accent color was supplied.
const DefaultAccent = "#0ea5e9"

const (
	secondaryBlue = "#2563eb"
	nearBlack     = "#0f172a"
)

var hexColorRe = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

var byCategory = map[string]models.Palette{
	"GYM":         {"#22c55e", "#14b8a6", "#0f172a"},
	"Portfolio":   {"#8b5cf6", "#6366f1", "#111827"},
	"Restaurant":  {"#f97316", "#ef4444", "#7c2d12"},
	"Landing":     {"#0ea5e9", "#2563eb", "#0f172a"},
	"Banking":     {"#1d4ed8", "#0ea5e9", "#0f172a"},
	"Education":   {"#06b6d4", "#3b82f6", "#1e293b"},
	"Healthcare":  {"#14b8a6", "#22c55e", "#0f172a"},
	"Ecommerce":   {"#f43f5e", "#f97316", "#111827"},
	"Real Estate": {"#a855f7", "#6366f1", "#1f2937"},
	"Travel":      {"#0ea5e9", "#22c55e", "#1e293b"},
}

// Preset is a named swatch offered by the host page's palette bar.
type Preset struct {
	Name   string         `json:"name"`
	Colors models.Palette `json:"colors"`
}

// Presets lists the swatches shown in the palette bar.
var Presets = []Preset{
	{Name: "Emerald", Colors: byCategory["GYM"]},
	{Name: "Violet", Colors: byCategory["Portfolio"]},
	{Name: "Ember", Colors: byCategory["Restaurant"]},
	{Name: "Ocean", Colors: byCategory["Landing"]},
	{Name: "Cobalt", Colors: byCategory["Banking"]},
	{Name: "Rose", Colors: byCategory["Ecommerce"]},
	{Name: "Amethyst", Colors: byCategory["Real Estate"]},
	{Name: "Lagoon", Colors: byCategory["Travel"]},
}

// Resolve returns the category palette, or [accent, blue, near-black] for
// categories without a table entry.
func Resolve(category, fallbackAccent string) models.Palette {
	if p, ok := byCategory[category]; ok {
		return p
	}
	return models.Palette{NormalizeHex(fallbackAccent), secondaryBlue, nearBlack}
}

// IsHex reports whether s is a #rgb or #rrggbb color.
func IsHex(s string) bool {
	return hexColorRe.MatchString(s)
}

// NormalizeHex lowercases a valid hex color and replaces anything else with
// DefaultAccent.
func NormalizeHex(s string) string {
	s = strings.TrimSpace(s)
	if !IsHex(s) {
		return DefaultAccent
	}
	return strings.ToLower(s)
}

// ParsePick parses a comma-separated swatch ("#a,#b,#c"). It needs at least
// three valid colors; extras are ignored.
func ParsePick(s string) (models.Palette, bool) {
	var colors []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		colors = append(colors, part)
	}
	if len(colors) < 3 {
		return models.Palette{}, false
	}
	var p models.Palette
	for i := range p {
		if !IsHex(colors[i]) {
			return models.Palette{}, false
		}
		p[i] = strings.ToLower(colors[i])
	}
	return p, true
}

// Valid reports whether every color in p is a hex color.
func Valid(p models.Palette) bool {
	for _, c := range p {
		if !IsHex(c) {
			return false
		}
	}
	return true
}
