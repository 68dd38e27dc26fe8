// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package copywriter derives marketing copy for generated pages and
// normalizes copy supplied by untrusted sources such as the AI assist
// endpoint.
package copywriter

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"webtg/internal/models"
	"webtg/internal/pageplan"
)

// Maximum field lengths, in runes.
const (
	MaxHeadline     = 140
	MaxSubheadline  = 220
	MaxPrimaryCTA   = 20
	MaxSecondaryCTA = 24
	MaxCardTitle    = 60
	MaxCardNote     = 120
)

// DefaultCategory supplies copy for categories missing from the table.
const DefaultCategory = "Landing"

type categoryCopy struct {
	headline    string
	subheadline string
}

var byCategory = map[string]categoryCopy{
	"GYM": {
		"Train smarter with a high-performance digital gym platform.",
		"Membership plans, trainer showcases, and progress-first pages built for conversion.",
	},
	"Portfolio": {
		"Show your work with a premium portfolio that wins trust fast.",
		"Elegant case studies, proof blocks, and strong CTAs to convert visitors into clients.",
	},
	"Restaurant": {
		"A modern restaurant site crafted to increase bookings and orders.",
		"Menus, chef highlights, and reservation actions optimized for mobile users.",
	},
	"Landing": {
		"Launch faster with a conversion-first landing website.",
		"Clear value proposition, concise copy, and a layout tuned for campaign traffic.",
	},
	"Banking": {
		"Secure digital banking experience for modern customers.",
		"Trusted UI patterns for accounts, cards, loans, and service onboarding journeys.",
	},
	"Education": {
		"Education platform designed for admissions, courses, and learner growth.",
		"Program discovery, faculty sections, and CTA flows aligned to student decisions.",
	},
	"Healthcare": {
		"Healthcare website focused on trust, care pathways, and clarity.",
		"Service departments, appointment journeys, and compliance-friendly communication blocks.",
	},
	"Ecommerce": {
		"Ecommerce storefront engineered for product discovery and sales.",
		"Catalog-ready sections, offer banners, and checkout-focused conversion components.",
	},
	"Real Estate": {
		"Real estate website built to showcase listings and drive qualified leads.",
		"Property cards, agent profiles, and inquiry actions tailored for high intent traffic.",
	},
	"Travel": {
		"Travel website layout that inspires discovery and drives bookings.",
		"Destination showcases, itinerary highlights, and booking prompts with premium visuals.",
	},
}

// Resolve returns the category-default copy for brand.
func Resolve(category, brand string) models.CopyContent {
	base, ok := byCategory[category]
	if !ok {
		base = byCategory[DefaultCategory]
	}
	title := category
	if title == "" {
		title = "Business"
	}
	return models.CopyContent{
		Headline:     brand + ": " + base.headline,
		Subheadline:  base.subheadline,
		PrimaryCTA:   "Get Started",
		SecondaryCTA: "Browse Templates",
		CardTitle:    title + " Experience",
		CardNote:     "Designed for trust and conversion",
	}
}

// Normalize coerces untrusted copy into a complete, length-bounded block.
// raw may be nil, a decoded JSON object, json.RawMessage, or a CopyContent.
// Fields that are missing, blank, or not scalar take the Resolve default.
// Normalize never fails.
func Normalize(raw any, p models.GenerationPayload) models.CopyContent {
	def := Resolve(p.Category, p.Brand)
	fields := asFields(raw)

	pick := func(key, fallback string, limit int) string {
		v, ok := scalarString(fields[key])
		if !ok {
			v = fallback
		}
		return Truncate(v, limit)
	}

	return models.CopyContent{
		Headline:     pick("headline", def.Headline, MaxHeadline),
		Subheadline:  pick("subheadline", def.Subheadline, MaxSubheadline),
		PrimaryCTA:   pick("primaryCta", def.PrimaryCTA, MaxPrimaryCTA),
		SecondaryCTA: pick("secondaryCta", def.SecondaryCTA, MaxSecondaryCTA),
		CardTitle:    pick("cardTitle", def.CardTitle, MaxCardTitle),
		CardNote:     pick("cardNote", def.CardNote, MaxCardNote),
	}
}

// ForPage derives the deterministic copy of a non-index page.
func ForPage(name string, p models.GenerationPayload) models.CopyContent {
	title := pageplan.Title(name)
	return models.CopyContent{
		Headline:     p.Brand + " " + title,
		Subheadline:  fmt.Sprintf("Professional %s page for %s websites.", name, strings.ToLower(p.Category)),
		PrimaryCTA:   "Get Started",
		SecondaryCTA: "Contact",
		CardTitle:    title + " Section",
		CardNote:     fmt.Sprintf("%s | %s | %s", p.Label(), p.Theme, p.Palette.Join(" / ")),
	}
}

// Merge overlays the non-empty fields of override onto base.
func Merge(base models.CopyContent, override *models.CopyContent) models.CopyContent {
	if override == nil {
		return base
	}
	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	set(&base.Headline, override.Headline)
	set(&base.Subheadline, override.Subheadline)
	set(&base.PrimaryCTA, override.PrimaryCTA)
	set(&base.SecondaryCTA, override.SecondaryCTA)
	set(&base.CardTitle, override.CardTitle)
	set(&base.CardNote, override.CardNote)
	return base
}

// Truncate cuts s to at most limit runes.
func Truncate(s string, limit int) string {
	n := 0
	for i := range s {
		if n == limit {
			return s[:i]
		}
		n++
	}
	return s
}

func asFields(raw any) map[string]any {
	switch v := raw.(type) {
	case map[string]any:
		return v
	case json.RawMessage:
		var m map[string]any
		if err := json.Unmarshal(v, &m); err != nil {
			return nil
		}
		return m
	case models.CopyContent:
		return contentFields(v)
	case *models.CopyContent:
		if v == nil {
			return nil
		}
		return contentFields(*v)
	}
	return nil
}

func contentFields(c models.CopyContent) map[string]any {
	return map[string]any{
		"headline":     c.Headline,
		"subheadline":  c.Subheadline,
		"primaryCta":   c.PrimaryCTA,
		"secondaryCta": c.SecondaryCTA,
		"cardTitle":    c.CardTitle,
		"cardNote":     c.CardNote,
	}
}

// scalarString renders a JSON scalar as trimmed text. Blank strings,
// objects, arrays, false and null are treated as absent.
func scalarString(v any) (string, bool) {
	var s string
	switch x := v.(type) {
	case string:
		s = x
	case float64:
		s = strconv.FormatFloat(x, 'f', -1, 64)
	case json.Number:
		s = x.String()
	case int:
		s = strconv.Itoa(x)
	case bool:
		if !x {
			return "", false
		}
		s = "true"
	default:
		return "", false
	}
	s = strings.TrimSpace(s)
	return s, s != ""
}
