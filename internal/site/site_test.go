package site

import (
	"errors"
	"sort"
	"strings"
	"testing"
	"time"

	"webtg/internal/copywriter"
	"webtg/internal/engine"
	"webtg/internal/models"
)

var fixedNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func newTestAssembler(t *testing.T) *Assembler {
	t.Helper()
	eng, err := engine.New()
	if err != nil {
		t.Fatalf("engine.New: %v", err)
	}
	return NewAssembler(eng)
}

func gymPayload(pages int) models.GenerationPayload {
	return NewPayload(Input{
		TemplateID: "gym-zen",
		Category:   "GYM",
		Style:      "Minimal",
		Theme:      "dark",
		Accent:     "#22c55e",
		Brand:      "Acme",
		Pages:      pages,
	}, fixedNow)
}

func keys(m map[string]string) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func TestAssembleGymFourPages(t *testing.T) {
	a := newTestAssembler(t)
	s, err := a.Assemble(gymPayload(4), nil)
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}

	got := keys(s.Pages)
	want := []string{"about-us.html", "about.html", "index.html", "product.html", "products.html", "services.html"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Fatalf("pages = %v, want %v", got, want)
	}

	if !strings.Contains(s.Pages["index.html"], `id="hero">Acme: `) {
		t.Error("index headline should start with the brand prefix")
	}
	if s.Pages["product.html"] != s.Pages["products.html"] {
		t.Error("product.html alias should carry products.html content")
	}
	if s.Pages["about-us.html"] != s.Pages["about.html"] {
		t.Error("about-us.html alias should carry about.html content")
	}
	wantOrder := "index.html,about.html,services.html,products.html,product.html,about-us.html"
	if strings.Join(s.Order, ",") != wantOrder {
		t.Errorf("order = %v", s.Order)
	}
}

func TestAssemblePageCounts(t *testing.T) {
	a := newTestAssembler(t)

	tests := []struct {
		requested   int
		wantPlanned int
		wantAliases int
	}{
		{2, 4, 2},
		{4, 4, 2},
		{6, 6, 2},
		{9, 9, 2},
		{15, 9, 2},
	}

	for _, tc := range tests {
		s, err := a.Assemble(gymPayload(tc.requested), nil)
		if err != nil {
			t.Fatalf("Assemble(%d): %v", tc.requested, err)
		}
		if len(s.Plan) != tc.wantPlanned {
			t.Errorf("requested %d: planned %d, want %d", tc.requested, len(s.Plan), tc.wantPlanned)
		}
		if len(s.Pages) != tc.wantPlanned+tc.wantAliases {
			t.Errorf("requested %d: %d pages, want %d", tc.requested, len(s.Pages), tc.wantPlanned+tc.wantAliases)
		}
		if _, ok := s.Pages[models.IndexPage]; !ok {
			t.Errorf("requested %d: missing index.html", tc.requested)
		}
		if len(s.Order) != len(s.Pages) {
			t.Errorf("order has %d entries, pages %d", len(s.Order), len(s.Pages))
		}
	}
}

func TestAssembleNavigation(t *testing.T) {
	a := newTestAssembler(t)
	s, err := a.Assemble(gymPayload(5), nil)
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}

	for _, file := range s.Plan {
		doc := s.Pages[file+".html"]
		idx := strings.Index(doc, engine.WrapperOpen)
		if idx < 0 {
			t.Fatalf("%s: wrapper missing", file)
		}
		after := doc[idx+len(engine.WrapperOpen):]
		if !strings.HasPrefix(after, `<div style="margin-bottom:14px`) {
			t.Errorf("%s: nav not injected right after wrapper", file)
		}

		links, err := Links(doc)
		if err != nil {
			t.Fatalf("Links: %v", err)
		}
		want := []string{"index.html", "about.html", "services.html", "products.html", "pricing.html"}
		if strings.Join(links, ",") != strings.Join(want, ",") {
			t.Errorf("%s: links = %v, want %v", file, links, want)
		}
	}
}

func TestAssembleOverrideOnlyTouchesIndex(t *testing.T) {
	a := newTestAssembler(t)
	override := &models.CopyContent{Headline: "AI Headline Here"}
	s, err := a.Assemble(gymPayload(4), override)
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}

	if !strings.Contains(s.Pages["index.html"], "AI Headline Here") {
		t.Error("index should carry the override headline")
	}
	if s.Copy.Subheadline != copywriter.Resolve("GYM", "Acme").Subheadline {
		t.Error("fields absent from override should keep category defaults")
	}
	for _, f := range []string{"about.html", "services.html", "products.html"} {
		if strings.Contains(s.Pages[f], "AI Headline Here") {
			t.Errorf("%s should not receive AI copy", f)
		}
	}
	if !strings.Contains(s.Pages["about.html"], "Acme About") {
		t.Error("about page should carry derived copy")
	}
}

func TestAssembleIdempotent(t *testing.T) {
	a := newTestAssembler(t)
	p := gymPayload(6)
	first, err := a.Assemble(p, nil)
	if err != nil {
		t.Fatal(err)
	}
	second, err := a.Assemble(p, nil)
	if err != nil {
		t.Fatal(err)
	}
	for name, doc := range first.Pages {
		if second.Pages[name] != doc {
			t.Errorf("%s differs between identical generations", name)
		}
	}
}

func TestAssembleEscapesBrand(t *testing.T) {
	a := newTestAssembler(t)
	p := gymPayload(4)
	p.Brand = `<i>"Bad" & 'Co'</i>`
	s, err := a.Assemble(p, nil)
	if err != nil {
		t.Fatal(err)
	}
	for name, doc := range s.Pages {
		if strings.Contains(doc, `<i>"Bad"`) {
			t.Errorf("%s contains unescaped brand", name)
		}
		if !strings.Contains(doc, "&lt;i&gt;&#34;Bad&#34; &amp; &#39;Co&#39;&lt;/i&gt;") {
			t.Errorf("%s missing escaped brand", name)
		}
	}
}

func TestInstallAliases(t *testing.T) {
	s := &models.GeneratedSite{
		Pages: map[string]string{
			"about.html":    "ABOUT",
			"about-us.html": "CUSTOM",
		},
		Order: []string{"about.html", "about-us.html"},
	}
	InstallAliases(s)

	if s.Pages["about-us.html"] != "CUSTOM" {
		t.Error("occupied alias slot was overwritten")
	}
	if _, ok := s.Pages["product.html"]; ok {
		t.Error("product.html installed without products.html")
	}
	if len(s.Order) != 2 {
		t.Errorf("order = %v", s.Order)
	}
}

func TestResolve(t *testing.T) {
	pages := map[string]string{"about.html": "A", "products.html": "P", "index.html": "I"}

	tests := []struct {
		href   string
		want   string
		wantOK bool
	}{
		{"index.html", "index.html", true},
		{"product.html", "products.html", true},
		{"aboutus.html", "about.html", true},
		{"about-us.html", "about.html", true},
		{" about.html ", "about.html", true},
		{"faq.html", "", false},
		{"", "", false},
	}
	for _, tc := range tests {
		got, ok := Resolve(pages, tc.href)
		if got != tc.want || ok != tc.wantOK {
			t.Errorf("Resolve(%q) = (%q, %v), want (%q, %v)", tc.href, got, ok, tc.want, tc.wantOK)
		}
	}
}

func TestVerifyDetectsBrokenLinks(t *testing.T) {
	s := &models.GeneratedSite{
		Pages: map[string]string{
			"index.html": `<html><body><a href="about.html">x</a><a href="#top">y</a></body></html>`,
		},
		Order: []string{"index.html"},
	}
	err := Verify(s)
	if !errors.Is(err, ErrBrokenLink) {
		t.Fatalf("Verify = %v, want ErrBrokenLink", err)
	}

	s.Pages["about.html"] = `<a href="index.html">home</a>`
	s.Order = append(s.Order, "about.html")
	if err := Verify(s); err != nil {
		t.Errorf("Verify after fix: %v", err)
	}
}

func TestNewPayload(t *testing.T) {
	pick := models.Palette{"#f43f5e", "#f97316", "#111827"}

	tests := []struct {
		name  string
		in    Input
		check func(t *testing.T, p models.GenerationPayload)
	}{
		{
			name: "defaults from template",
			in:   Input{TemplateID: "travel-orbit"},
			check: func(t *testing.T, p models.GenerationPayload) {
				if p.Category != "Travel" || p.Style != "Glass" || !p.IsGlass() {
					t.Errorf("category/style = %s/%s", p.Category, p.Style)
				}
				if p.Brand != DefaultBrand {
					t.Errorf("brand = %q", p.Brand)
				}
				if p.Theme != models.ThemeDark || p.PageCount != 4 || p.Accent != "#0ea5e9" {
					t.Errorf("theme/pages/accent = %s/%d/%s", p.Theme, p.PageCount, p.Accent)
				}
				if p.Palette != (models.Palette{"#0ea5e9", "#22c55e", "#1e293b"}) {
					t.Errorf("palette = %v", p.Palette)
				}
			},
		},
		{
			name: "unknown template falls back",
			in:   Input{TemplateID: "missing", Pages: 20},
			check: func(t *testing.T, p models.GenerationPayload) {
				if p.TemplateID != "gym-zen" || p.PageCount != 9 {
					t.Errorf("id/pages = %s/%d", p.TemplateID, p.PageCount)
				}
			},
		},
		{
			name: "explicit palette wins",
			in:   Input{TemplateID: "gym-zen", Palette: &pick},
			check: func(t *testing.T, p models.GenerationPayload) {
				if p.Palette != pick {
					t.Errorf("palette = %v", p.Palette)
				}
			},
		},
		{
			name: "brand trimmed and bounded",
			in:   Input{Brand: "   " + strings.Repeat("b", 60) + "  ", Theme: "LIGHT"},
			check: func(t *testing.T, p models.GenerationPayload) {
				if len(p.Brand) != MaxBrandLength {
					t.Errorf("brand length = %d", len(p.Brand))
				}
				if p.Theme != models.ThemeLight {
					t.Errorf("theme = %s", p.Theme)
				}
			},
		},
		{
			name: "unknown category uses accent",
			in:   Input{Category: "Bakery", Accent: "#123456"},
			check: func(t *testing.T, p models.GenerationPayload) {
				if p.Palette != (models.Palette{"#123456", "#2563eb", "#0f172a"}) {
					t.Errorf("palette = %v", p.Palette)
				}
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p := NewPayload(tc.in, fixedNow)
			if !p.CreatedAt.Equal(fixedNow) {
				t.Errorf("CreatedAt = %v", p.CreatedAt)
			}
			tc.check(t, p)
		})
	}
}
