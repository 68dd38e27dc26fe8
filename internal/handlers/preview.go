// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	qrcode "github.com/skip2/go-qrcode"

	"webtg/internal/preview"
)

// idleDocument fills the frame before anything is generated.
const idleDocument = `<!doctype html><html><head><meta charset="utf-8"><title>Preview</title>` +
	`<style>body{margin:0;display:grid;place-items:center;min-height:100vh;font-family:system-ui,sans-serif;background:#0f172a;color:#94a3b8}</style>` +
	`</head><body><p>Select a template and click Generate.</p></body></html>`

// Preview serves the documents shown in the preview frame.
type Preview struct {
	controller *preview.Controller
	origin     string
}

// NewPreview creates the preview handler group. origin is the public base
// URL encoded into the QR code.
func NewPreview(c *preview.Controller, origin string) *Preview {
	return &Preview{controller: c, origin: strings.TrimRight(origin, "/")}
}

// Current serves the displayed page, or the idle document.
func (p *Preview) Current(w http.ResponseWriter, r *http.Request) {
	_, doc, ok := p.controller.Current()
	if !ok {
		writeDocument(w, idleDocument)
		return
	}
	writeDocument(w, doc)
}

// Navigate swaps the frame to {file}. Targets that match no page answer
// 204 so the frame keeps its current document.
func (p *Preview) Navigate(w http.ResponseWriter, r *http.Request) {
	file, doc, ok, err := p.controller.Navigate(chi.URLParam(r, "file"))
	switch {
	case errors.Is(err, preview.ErrNoSite):
		w.WriteHeader(http.StatusNoContent)
		return
	case err != nil:
		slog.Error("preview navigate failed", "error", err)
		http.Error(w, "Preview unavailable", http.StatusInternalServerError)
		return
	case !ok:
		w.WriteHeader(http.StatusNoContent)
		return
	}
	slog.Debug("preview navigated", "file", file)
	writeDocument(w, doc)
}

// QRCode renders a PNG QR code linking to the preview.
func (p *Preview) QRCode(w http.ResponseWriter, r *http.Request) {
	origin := p.origin
	if origin == "" {
		scheme := "http"
		if r.TLS != nil {
			scheme = "https"
		}
		origin = scheme + "://" + r.Host
	}

	png, err := qrcode.Encode(origin+"/preview/", qrcode.Medium, 256)
	if err != nil {
		slog.Error("preview qr code failed", "error", err)
		http.Error(w, "Failed to generate QR code", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	w.Write(png)
}

func writeDocument(w http.ResponseWriter, doc string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.Write([]byte(doc))
}
