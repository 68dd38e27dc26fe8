// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package preview keeps the document shown in the host page's embedded
// frame and rewrites in-frame navigation so links swap documents of the
// current site instead of leaving the host page.
package preview

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"webtg/internal/models"
	"webtg/internal/site"
)

// BoundAttr marks a document whose click interceptor is already attached.
const BoundAttr = "data-preview-nav-bound"

// ErrNoSite is returned when navigating before any site was shown.
var ErrNoSite = errors.New("no site in preview")

// Controller holds the site currently displayed in the preview frame.
// Safe for concurrent use.
type Controller struct {
	mu      sync.RWMutex
	site    *models.GeneratedSite
	current string
}

// NewController creates an idle controller.
func NewController() *Controller {
	return &Controller{}
}

// Show replaces the displayed site and resets the frame to its index page.
func (c *Controller) Show(s *models.GeneratedSite) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.site = s
	c.current = ""
	if s == nil {
		return
	}
	if _, ok := s.Pages[models.IndexPage]; ok {
		c.current = models.IndexPage
	} else if len(s.Order) > 0 {
		c.current = s.Order[0]
	}
}

// Clear returns the controller to the idle state.
func (c *Controller) Clear() {
	c.Show(nil)
}

// Site returns the displayed site, or nil when idle.
func (c *Controller) Site() *models.GeneratedSite {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.site
}

// Resolve maps an in-frame link target to a filename of the displayed site.
func (c *Controller) Resolve(href string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.site == nil {
		return "", false
	}
	return site.Resolve(c.site.Pages, href)
}

// Current returns the displayed filename and its bound document. ok is
// false when no site is shown.
func (c *Controller) Current() (file, doc string, ok bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.site == nil || c.current == "" {
		return "", "", false
	}
	doc, err := Bind(c.site.Pages[c.current], targets(c.site.Pages))
	if err != nil {
		return "", "", false
	}
	return c.current, doc, true
}

// Navigate swaps the frame to href. It returns ok=false, leaving the
// current document in place, when href does not resolve.
func (c *Controller) Navigate(href string) (file, doc string, ok bool, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.site == nil {
		return "", "", false, ErrNoSite
	}

	target, found := site.Resolve(c.site.Pages, href)
	if !found {
		return "", "", false, nil
	}

	bound, err := Bind(c.site.Pages[target], targets(c.site.Pages))
	if err != nil {
		return "", "", false, err
	}
	c.current = target
	return target, bound, true, nil
}

// targets maps every resolvable link spelling to its canonical filename.
func targets(pages map[string]string) map[string]string {
	out := make(map[string]string, len(pages)+len(site.LinkAliases))
	for name := range pages {
		out[name] = name
	}
	for alias := range site.LinkAliases {
		if target, ok := site.Resolve(pages, alias); ok {
			out[alias] = target
		}
	}
	return out
}

// Bind attaches the click interceptor to doc. Documents already carrying
// BoundAttr are returned unchanged, so rebinding is a no-op.
func Bind(doc string, targets map[string]string) (string, error) {
	root, err := html.Parse(strings.NewReader(doc))
	if err != nil {
		return "", fmt.Errorf("parse preview document: %w", err)
	}

	htmlNode := findElement(root, atom.Html)
	body := findElement(root, atom.Body)
	if htmlNode == nil || body == nil {
		return doc, nil
	}
	for _, a := range htmlNode.Attr {
		if a.Key == BoundAttr && a.Val == "1" {
			return doc, nil
		}
	}

	script, err := interceptorScript(targets)
	if err != nil {
		return "", err
	}

	htmlNode.Attr = append(htmlNode.Attr, html.Attribute{Key: BoundAttr, Val: "1"})
	scriptNode := &html.Node{Type: html.ElementNode, DataAtom: atom.Script, Data: "script"}
	scriptNode.AppendChild(&html.Node{Type: html.TextNode, Data: script})
	body.AppendChild(scriptNode)

	var sb strings.Builder
	if err := html.Render(&sb, root); err != nil {
		return "", fmt.Errorf("render preview document: %w", err)
	}
	return sb.String(), nil
}

// IsBound reports whether doc already carries the interceptor marker.
func IsBound(doc string) bool {
	root, err := html.Parse(strings.NewReader(doc))
	if err != nil {
		return false
	}
	n := findElement(root, atom.Html)
	if n == nil {
		return false
	}
	for _, a := range n.Attr {
		if a.Key == BoundAttr && a.Val == "1" {
			return true
		}
	}
	return false
}

// interceptorScript builds the in-frame click handler. Known targets load
// through the preview route; unknown .html links are swallowed so the host
// page never navigates.
func interceptorScript(targets map[string]string) (string, error) {
	// json.Marshal escapes <, > and &, so the payload cannot close the
	// script element.
	raw, err := json.Marshal(targets)
	if err != nil {
		return "", fmt.Errorf("encode preview targets: %w", err)
	}

	return `(function () {
  var targets = ` + string(raw) + `;
  document.addEventListener("click", function (ev) {
    var anchor = ev.target && ev.target.closest ? ev.target.closest("a[href]") : null;
    if (!anchor) return;
    var href = String(anchor.getAttribute("href") || "").trim();
    if (!href || href.slice(-5) !== ".html") return;
    ev.preventDefault();
    var page = targets[href];
    if (!page) return;
    window.location.assign(page);
  });
})();`, nil
}

func findElement(n *html.Node, a atom.Atom) *html.Node {
	if n.Type == html.ElementNode && n.DataAtom == a {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findElement(c, a); found != nil {
			return found
		}
	}
	return nil
}
