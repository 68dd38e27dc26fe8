// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package models defines the plain data types shared by the generator:
// catalog descriptors, generation payloads, copy blocks, and generated sites.
// Every type here round-trips through JSON so it can live in the state store.
package models

// TemplateDescriptor is one selectable entry in the static template catalog.
type TemplateDescriptor struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category"`
	Style    string `json:"style"`
	Badge    string `json:"badge"`
}

// StyleGlass is the only style that changes the synthesized panel treatment.
const StyleGlass = "Glass"

// IsGlass reports whether the descriptor uses the translucent panel variant.
func (t TemplateDescriptor) IsGlass() bool {
	return t.Style == StyleGlass
}
