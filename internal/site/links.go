package site

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/net/html"

	"webtg/internal/models"
)

// ErrBrokenLink reports a page linking to a file the site does not contain.
var ErrBrokenLink = errors.New("broken page link")

// Links returns the href of every anchor in doc that points at an .html
// file, in document order.
func Links(doc string) ([]string, error) {
	root, err := html.Parse(strings.NewReader(doc))
	if err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}

	var out []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "a" {
			for _, attr := range n.Attr {
				if attr.Key != "href" {
					continue
				}
				href := strings.TrimSpace(attr.Val)
				if strings.HasSuffix(href, ".html") {
					out = append(out, href)
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
	return out, nil
}

// Verify checks that every .html link in every page resolves to a page of
// the site, directly or through an alias.
func Verify(s *models.GeneratedSite) error {
	for _, file := range s.Order {
		links, err := Links(s.Pages[file])
		if err != nil {
			return fmt.Errorf("verify %s: %w", file, err)
		}
		for _, href := range links {
			if _, ok := Resolve(s.Pages, href); !ok {
				return fmt.Errorf("%w: %s -> %s", ErrBrokenLink, file, href)
			}
		}
	}
	return nil
}
