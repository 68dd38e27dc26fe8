// Package pageplan fixes the ordered page set of a generated site.
package pageplan

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	MinPages = 4
	MaxPages = 9
)

// Catalog is the priority-ordered page name list a plan is sliced from.
var Catalog = []string{
	"index",
	"about",
	"services",
	"products",
	"pricing",
	"blog",
	"careers",
	"contact",
	"faq",
}

// Clamp bounds a requested page count to [MinPages, MaxPages].
func Clamp(n int) int {
	return max(MinPages, min(MaxPages, n))
}

// Plan returns the first Clamp(n) names of Catalog. "index" is always first.
func Plan(n int) []string {
	out := make([]string, Clamp(n))
	copy(out, Catalog)
	return out
}

// Filename maps a page name to its exported file.
func Filename(name string) string {
	return name + ".html"
}

// Title capitalizes the first letter of a page name for link labels.
func Title(name string) string {
	r, size := utf8.DecodeRuneInString(name)
	if r == utf8.RuneError {
		return name
	}
	return string(unicode.ToUpper(r)) + name[size:]
}

// Name strips the .html suffix from a filename.
func Name(filename string) string {
	return strings.TrimSuffix(filename, ".html")
}
