package copywriter

import (
	"encoding/json"
	"strings"
	"testing"
	"unicode/utf8"

	"webtg/internal/models"
)

func testPayload() models.GenerationPayload {
	return models.GenerationPayload{
		TemplateID: "gym-zen",
		Category:   "GYM",
		Style:      "Minimal",
		Theme:      models.ThemeDark,
		Accent:     "#22c55e",
		Brand:      "Acme",
		PageCount:  4,
		Palette:    models.Palette{"#22c55e", "#14b8a6", "#0f172a"},
	}
}

func TestResolve(t *testing.T) {
	c := Resolve("GYM", "Acme")
	if !strings.HasPrefix(c.Headline, "Acme: ") {
		t.Errorf("headline %q lacks brand prefix", c.Headline)
	}
	if c.Headline != "Acme: Train smarter with a high-performance digital gym platform." {
		t.Errorf("headline = %q", c.Headline)
	}
	if c.PrimaryCTA != "Get Started" || c.SecondaryCTA != "Browse Templates" {
		t.Errorf("CTAs = %q / %q", c.PrimaryCTA, c.SecondaryCTA)
	}
	if c.CardTitle != "GYM Experience" {
		t.Errorf("cardTitle = %q", c.CardTitle)
	}
	if !c.Complete() {
		t.Error("resolved copy should be complete")
	}
}

func TestResolveUnknownCategory(t *testing.T) {
	landing := Resolve("Landing", "X")
	got := Resolve("Bakery", "X")
	if got.Headline != landing.Headline || got.Subheadline != landing.Subheadline {
		t.Errorf("unknown category should use Landing copy, got %q", got.Headline)
	}
	if got.CardTitle != "Bakery Experience" {
		t.Errorf("cardTitle = %q", got.CardTitle)
	}
	if Resolve("", "X").CardTitle != "Business Experience" {
		t.Error("empty category should title as Business")
	}
}

func TestNormalizeNilEqualsResolve(t *testing.T) {
	p := testPayload()
	want := Resolve(p.Category, p.Brand)
	for _, raw := range []any{nil, "a string", 42.0, []any{"x"}, (*models.CopyContent)(nil)} {
		if got := Normalize(raw, p); got != want {
			t.Errorf("Normalize(%#v) = %+v, want %+v", raw, got, want)
		}
	}
}

func TestNormalizeFields(t *testing.T) {
	p := testPayload()
	def := Resolve(p.Category, p.Brand)
	raw := map[string]any{
		"headline":     strings.Repeat("h", 300),
		"subheadline":  "   ",
		"primaryCta":   12.0,
		"secondaryCta": map[string]any{"nested": true},
		"cardTitle":    "  Custom title  ",
	}

	got := Normalize(raw, p)
	if utf8.RuneCountInString(got.Headline) != MaxHeadline {
		t.Errorf("headline length = %d, want %d", utf8.RuneCountInString(got.Headline), MaxHeadline)
	}
	if got.Subheadline != def.Subheadline {
		t.Errorf("blank subheadline should fall back, got %q", got.Subheadline)
	}
	if got.PrimaryCTA != "12" {
		t.Errorf("numeric primaryCta = %q, want 12", got.PrimaryCTA)
	}
	if got.SecondaryCTA != def.SecondaryCTA {
		t.Errorf("object secondaryCta should fall back, got %q", got.SecondaryCTA)
	}
	if got.CardTitle != "Custom title" {
		t.Errorf("cardTitle = %q", got.CardTitle)
	}
	if got.CardNote != def.CardNote {
		t.Errorf("missing cardNote should fall back, got %q", got.CardNote)
	}
}

func TestNormalizeRawMessage(t *testing.T) {
	p := testPayload()
	got := Normalize(json.RawMessage(`{"headline":"From AI","cardNote":null}`), p)
	if got.Headline != "From AI" {
		t.Errorf("headline = %q", got.Headline)
	}
	if got.CardNote != Resolve(p.Category, p.Brand).CardNote {
		t.Errorf("null cardNote should fall back, got %q", got.CardNote)
	}

	if got := Normalize(json.RawMessage(`not json`), p); got != Resolve(p.Category, p.Brand) {
		t.Error("malformed raw message should yield defaults")
	}
}

func TestNormalizeTruncatesRunes(t *testing.T) {
	p := testPayload()
	got := Normalize(map[string]any{"primaryCta": strings.Repeat("é", 30)}, p)
	if n := utf8.RuneCountInString(got.PrimaryCTA); n != MaxPrimaryCTA {
		t.Errorf("rune count = %d, want %d", n, MaxPrimaryCTA)
	}
	if !utf8.ValidString(got.PrimaryCTA) {
		t.Error("truncation split a rune")
	}
}

func TestForPage(t *testing.T) {
	p := testPayload()
	c := ForPage("services", p)
	want := models.CopyContent{
		Headline:     "Acme Services",
		Subheadline:  "Professional services page for gym websites.",
		PrimaryCTA:   "Get Started",
		SecondaryCTA: "Contact",
		CardTitle:    "Services Section",
		CardNote:     "GYM - Minimal | dark | #22c55e / #14b8a6 / #0f172a",
	}
	if c != want {
		t.Errorf("ForPage = %+v, want %+v", c, want)
	}
}

func TestMerge(t *testing.T) {
	base := Resolve("GYM", "Acme")
	if got := Merge(base, nil); got != base {
		t.Error("nil override should leave base untouched")
	}

	got := Merge(base, &models.CopyContent{Headline: "AI headline"})
	if got.Headline != "AI headline" {
		t.Errorf("headline = %q", got.Headline)
	}
	if got.Subheadline != base.Subheadline {
		t.Errorf("empty override field replaced base: %q", got.Subheadline)
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in    string
		limit int
		want  string
	}{
		{"hello", 10, "hello"},
		{"hello", 5, "hello"},
		{"hello", 3, "hel"},
		{"héllo", 2, "hé"},
		{"", 3, ""},
	}
	for _, tc := range tests {
		if got := Truncate(tc.in, tc.limit); got != tc.want {
			t.Errorf("Truncate(%q, %d) = %q, want %q", tc.in, tc.limit, got, tc.want)
		}
	}
}
