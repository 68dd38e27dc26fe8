// Package web provides the embedded host page: a thin HTML/JS shell that
// drives the workspace API and shows the preview frame. It is served at /
// and /static/.
package web

import "embed"

// StaticFS embeds the web/static/ directory tree.
//
//go:embed all:static
var StaticFS embed.FS
