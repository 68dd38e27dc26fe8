// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package catalog is the static, read-only registry of selectable templates.
package catalog

import (
	"strings"

	"webtg/internal/models"
)

var templates = []models.TemplateDescriptor{
	{ID: "gym-zen", Name: "Tan & Green Minimal Gym", Category: "GYM", Style: "Minimal", Badge: "Balanced"},
	{ID: "gym-bold", Name: "Power Gym Dark", Category: "GYM", Style: "Bold", Badge: "High Impact"},
	{ID: "portfolio-glass", Name: "Glass Portfolio", Category: "Portfolio", Style: "Glass", Badge: "Premium Look"},
	{ID: "resto-modern", Name: "Restaurant Modern", Category: "Restaurant", Style: "Modern", Badge: "Clean UI"},
	{ID: "landing-saas", Name: "SaaS Landing", Category: "Landing", Style: "Modern", Badge: "Startup Ready"},
	{ID: "bank-core", Name: "Digital Banking Core", Category: "Banking", Style: "Corporate", Badge: "Enterprise"},
	{ID: "bank-neobank", Name: "Neo Bank Smart", Category: "Banking", Style: "Neo", Badge: "Fintech"},
	{ID: "bank-credit", Name: "Credit Union Trust", Category: "Banking", Style: "Classic", Badge: "Trust UI"},
	{ID: "egdu-campus", Name: "Smart Campus", Category: "Education", Style: "Modern", Badge: "Academic"},
	{ID: "health-care", Name: "Care Hospital", Category: "Healthcare", Style: "Corporate", Badge: "Secure"},
	{ID: "shop-elite", Name: "Elite Shop", Category: "Ecommerce", Style: "Bold", Badge: "Conversion"},
	{ID: "estate-prime", Name: "Prime Estate", Category: "Real Estate", Style: "Classic", Badge: "Luxury"},
	{ID: "travel-orbit", Name: "Orbit Travel", Category: "Travel", Style: "Glass", Badge: "Immersive"},
}

// All returns a copy of every registered descriptor in catalog order.
func All() []models.TemplateDescriptor {
	out := make([]models.TemplateDescriptor, len(templates))
	copy(out, templates)
	return out
}

// Lookup returns the descriptor with the given id. Unknown ids resolve to
// the first catalog entry; Lookup never fails.
func Lookup(id string) models.TemplateDescriptor {
	for _, t := range templates {
		if t.ID == id {
			return t
		}
	}
	return templates[0]
}

// Exists reports whether id names a registered template.
func Exists(id string) bool {
	for _, t := range templates {
		if t.ID == id {
			return true
		}
	}
	return false
}

// Filter returns the descriptors matching every non-empty filter. Category
// and style match exactly; query matches case-insensitively as a substring
// of the name, category, or style.
func Filter(category, style, query string) []models.TemplateDescriptor {
	q := strings.ToLower(strings.TrimSpace(query))

	var out []models.TemplateDescriptor
	for _, t := range templates {
		if category != "" && t.Category != category {
			continue
		}
		if style != "" && t.Style != style {
			continue
		}
		if q != "" &&
			!strings.Contains(strings.ToLower(t.Name), q) &&
			!strings.Contains(strings.ToLower(t.Category), q) &&
			!strings.Contains(strings.ToLower(t.Style), q) {
			continue
		}
		out = append(out, t)
	}
	return out
}

// Reconcile keeps selectedID when it is still in filtered, otherwise falls
// back to the first filtered entry. An empty filter result clears the
// selection.
func Reconcile(filtered []models.TemplateDescriptor, selectedID string) string {
	if len(filtered) == 0 {
		return ""
	}
	for _, t := range filtered {
		if t.ID == selectedID {
			return selectedID
		}
	}
	return filtered[0].ID
}

// Categories lists the distinct categories in first-seen order.
func Categories() []string {
	return distinct(func(t models.TemplateDescriptor) string { return t.Category })
}

// Styles lists the distinct styles in first-seen order.
func Styles() []string {
	return distinct(func(t models.TemplateDescriptor) string { return t.Style })
}

func distinct(field func(models.TemplateDescriptor) string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, t := range templates {
		v := field(t)
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}
