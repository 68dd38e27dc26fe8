// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package slug builds filesystem- and URL-safe names for exported sites:
// archive filenames, output directories, and object-storage prefixes.
package slug

import (
	"regexp"
	"strings"
	"time"
)

var (
	// nonAlphanumeric matches anything that isn't a letter, digit, space or hyphen.
	nonAlphanumeric = regexp.MustCompile(`[^a-z0-9\s-]`)
	// whitespace runs become a single hyphen.
	whitespace      = regexp.MustCompile(`\s+`)
	multipleHyphens = regexp.MustCompile(`-{2,}`)
)

// MaxLength bounds a generated slug.
const MaxLength = 64

// Generate creates a lowercase hyphenated slug, at most MaxLength bytes.
// Example: "Acme Fitness & Co." → "acme-fitness-co"
func Generate(s string) string {
	result := strings.ToLower(strings.TrimSpace(s))
	result = nonAlphanumeric.ReplaceAllString(result, "")
	result = whitespace.ReplaceAllString(result, "-")
	result = multipleHyphens.ReplaceAllString(result, "-")
	result = strings.Trim(result, "-")
	if len(result) > MaxLength {
		result = strings.TrimRight(result[:MaxLength], "-")
	}
	return result
}

// ForSite names an exported site from its brand and template id, stamped
// with the generation time so repeated exports do not collide.
// Example: ("Acme", "gym-zen", t) → "acme-gym-zen-20260301-120000"
func ForSite(brand, templateID string, at time.Time) string {
	base := Generate(brand + " " + templateID)
	if base == "" {
		base = "site"
	}
	return base + "-" + at.UTC().Format("20060102-150405")
}
