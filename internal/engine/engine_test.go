package engine

import (
	"strings"
	"testing"

	"webtg/internal/models"
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	e, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return e
}

func sampleDoc() Document {
	return Document{
		Brand:   "Acme",
		Label:   "GYM - Minimal",
		Palette: models.Palette{"#22c55e", "#14b8a6", "#0f172a"},
		Theme:   models.ThemeDark,
		Copy: models.CopyContent{
			Headline:     "Acme: Train smarter",
			Subheadline:  "Membership plans",
			PrimaryCTA:   "Get Started",
			SecondaryCTA: "Browse Templates",
			CardTitle:    "GYM Experience",
			CardNote:     "Designed for trust and conversion",
		},
	}
}

func TestRenderStructure(t *testing.T) {
	e := newTestEngine(t)
	html, err := e.Render(sampleDoc())
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	for _, want := range []string{
		"<!doctype html>",
		WrapperOpen,
		"<title>Acme</title>",
		"--p:#22c55e; --p2:#14b8a6; --p3:#0f172a;",
		"#0a1020",
		`id="hero">Acme: Train smarter</h1>`,
		`id="primaryCtaBtn" type="button">Get Started</button>`,
		"Brand Layer</strong><span>GYM - Minimal</span>",
		`src="assets/logo.png"`,
		"Use consistent spacing and section rhythm across pages.",
		"linear-gradient(160deg, rgba(30,41,59,.96)",
	} {
		if !strings.Contains(html, want) {
			t.Errorf("rendered document missing %q", want)
		}
	}

	if n := strings.Count(html, `class="card"`); n != 4 {
		t.Errorf("card count = %d, want 4", n)
	}
}

func TestRenderThemeAndGlass(t *testing.T) {
	e := newTestEngine(t)

	tests := []struct {
		name  string
		theme models.Theme
		glass bool
		want  []string
	}{
		{"dark solid", models.ThemeDark, false, []string{"#0a1020", "color:#e5e7eb", "rgba(30,41,59,.96)"}},
		{"light solid", models.ThemeLight, false, []string{"#f6f8fc", "color:#0f172a", "rgba(241,245,249,.98)"}},
		{"dark glass", models.ThemeDark, true, []string{"rgba(15,23,42,.52); backdrop-filter: blur(14px)"}},
		{"light glass", models.ThemeLight, true, []string{"rgba(255,255,255,.74); backdrop-filter: blur(10px)"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			doc := sampleDoc()
			doc.Theme, doc.Glass = tc.theme, tc.glass
			html, err := e.Render(doc)
			if err != nil {
				t.Fatalf("Render: %v", err)
			}
			for _, w := range tc.want {
				if !strings.Contains(html, w) {
					t.Errorf("missing %q", w)
				}
			}
		})
	}
}

func TestGlassKeepsStructure(t *testing.T) {
	e := newTestEngine(t)
	solid, _ := e.Render(sampleDoc())
	doc := sampleDoc()
	doc.Glass = true
	glass, _ := e.Render(doc)

	for _, marker := range []string{`class="card"`, `id="advicePanel"`, `id="cards"`, "<script>"} {
		if strings.Count(solid, marker) != strings.Count(glass, marker) {
			t.Errorf("glass changed structure around %q", marker)
		}
	}
}

func TestRenderEscapesUserText(t *testing.T) {
	e := newTestEngine(t)
	doc := sampleDoc()
	doc.Brand = `<script>alert("x")</script>&'`
	doc.Label = `<b>label</b>`
	doc.Copy.Headline = `Tom & Jerry's "best" <deal>`
	doc.Copy.CardNote = `<img src=x onerror=alert(1)>`

	html, err := e.Render(doc)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	for _, raw := range []string{
		`<script>alert(`,
		`<b>label</b>`,
		`Tom & Jerry's`,
		`"best"`,
		`<deal>`,
		`<img src=x`,
	} {
		if strings.Contains(html, raw) {
			t.Errorf("unescaped user text %q in output", raw)
		}
	}

	for _, escaped := range []string{
		"&lt;script&gt;alert(&#34;x&#34;)&lt;/script&gt;&amp;&#39;",
		"Tom &amp; Jerry&#39;s &#34;best&#34; &lt;deal&gt;",
		"&lt;b&gt;label&lt;/b&gt;",
	} {
		if !strings.Contains(html, escaped) {
			t.Errorf("expected escaped text %q", escaped)
		}
	}
}

func TestRenderRejectsHostilePalette(t *testing.T) {
	e := newTestEngine(t)
	doc := sampleDoc()
	doc.Palette = models.Palette{"red;}</style><script>x()</script>", "#fff", "#000"}

	html, err := e.Render(doc)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if strings.Contains(html, "<script>x()") {
		t.Error("palette value broke out of style context")
	}
	if !strings.Contains(html, "--p:#0ea5e9; --p2:#2563eb; --p3:#0f172a;") {
		t.Error("invalid palette should be replaced by the fallback palette")
	}
}

func TestRenderFillsBlankCopy(t *testing.T) {
	e := newTestEngine(t)
	html, err := e.Render(Document{Palette: models.Palette{"#111111", "#222222", "#333333"}})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	for _, want := range []string{
		"<title>Generated Template</title>",
		"A clean, fast template for your project.",
		"Palette: #111111, #222222, #333333",
		"CS webTG export",
	} {
		if !strings.Contains(html, want) {
			t.Errorf("missing default %q", want)
		}
	}
}

func TestRenderIsDeterministicAndCached(t *testing.T) {
	e := newTestEngine(t)
	a, _ := e.Render(sampleDoc())
	b, _ := e.Render(sampleDoc())
	if a != b {
		t.Error("same document rendered differently")
	}
	if e.cache.len() != 1 {
		t.Errorf("cache size = %d, want 1", e.cache.len())
	}

	e.ClearCache()
	if e.cache.len() != 0 {
		t.Errorf("cache size after clear = %d", e.cache.len())
	}
}

func TestRenderNav(t *testing.T) {
	e := newTestEngine(t)
	nav, err := e.RenderNav([]string{"index", "about", "faq"})
	if err != nil {
		t.Fatalf("RenderNav: %v", err)
	}

	for _, want := range []string{
		`<a href="index.html" style="color:inherit;text-decoration:none;font-weight:700">Index</a> | `,
		`<a href="about.html"`,
		`>Faq</a></div>`,
	} {
		if !strings.Contains(nav, want) {
			t.Errorf("nav missing %q:\n%s", want, nav)
		}
	}
	if strings.Count(nav, " | ") != 2 {
		t.Errorf("separator count = %d, want 2", strings.Count(nav, " | "))
	}
}

func TestInjectNav(t *testing.T) {
	doc := "<body>" + WrapperOpen + "<section></section></div></body>"
	got := InjectNav(doc, "<nav/>")
	if !strings.Contains(got, WrapperOpen+"<nav/><section>") {
		t.Errorf("nav not injected after wrapper: %s", got)
	}

	if got := InjectNav("<body></body>", "<nav/>"); got != "<body></body>" {
		t.Errorf("document without wrapper changed: %s", got)
	}
}

func TestDocCacheBound(t *testing.T) {
	c := newDocCache(2)
	c.put("a", "1")
	c.put("b", "2")
	c.put("c", "3")
	if c.len() != 1 {
		t.Errorf("len after overflow = %d, want 1", c.len())
	}
	if _, ok := c.get("c"); !ok {
		t.Error("latest entry missing after reset")
	}
}
