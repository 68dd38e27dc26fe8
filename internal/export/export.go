// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package export saves generated sites to the saved-templates list and
// turns sites into downloadable files.
package export

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"webtg/internal/models"
)

// Stagger separates consecutive file downloads so the browser treats each
// as its own download.
const Stagger = 120 * time.Millisecond

var (
	ErrNothingGenerated  = errors.New("nothing generated to save")
	ErrDuplicate         = errors.New("configuration already saved")
	ErrNothingToDownload = errors.New("nothing generated to download")
	ErrNotFound          = errors.New("saved template not found")
)

// Save prepends last to saved. It fails with ErrNothingGenerated when
// last is nil and ErrDuplicate when an entry with the same configuration
// already exists; saved is never modified in place.
func Save(saved []models.SavedEntry, last *models.GeneratedSite, id uuid.UUID, now time.Time) ([]models.SavedEntry, models.SavedEntry, error) {
	if last == nil || len(last.Pages) == 0 {
		return saved, models.SavedEntry{}, ErrNothingGenerated
	}
	for _, s := range saved {
		if s.Payload.SameConfig(last.Payload) {
			return saved, models.SavedEntry{}, ErrDuplicate
		}
	}

	entry := models.SavedEntry{
		ID:      id,
		Payload: last.Payload,
		Order:   append([]string(nil), last.Order...),
		Pages:   make(map[string]string, len(last.Pages)),
		SavedAt: now,
	}
	for k, v := range last.Pages {
		entry.Pages[k] = v
	}

	out := make([]models.SavedEntry, 0, len(saved)+1)
	out = append(out, entry)
	out = append(out, saved...)
	return out, entry, nil
}

// File is one downloadable page.
type File struct {
	Name    string        `json:"name"`
	Content string        `json:"content"`
	Delay   time.Duration `json:"delay"`
}

// Files lists every page of s in export order, each delayed by its index
// times Stagger. Pages missing from Order are appended in name order.
func Files(s *models.GeneratedSite) ([]File, error) {
	if s == nil || len(s.Pages) == 0 {
		return nil, ErrNothingToDownload
	}

	names := make([]string, 0, len(s.Pages))
	listed := make(map[string]bool, len(s.Pages))
	for _, name := range s.Order {
		if _, ok := s.Pages[name]; ok && !listed[name] {
			listed[name] = true
			names = append(names, name)
		}
	}
	var rest []string
	for name := range s.Pages {
		if !listed[name] {
			rest = append(rest, name)
		}
	}
	slices.Sort(rest)
	names = append(names, rest...)

	files := make([]File, len(names))
	for i, name := range names {
		files[i] = File{Name: name, Content: s.Pages[name], Delay: time.Duration(i) * Stagger}
	}
	return files, nil
}

// Archive writes files into a zip bundle.
func Archive(w io.Writer, files []File, modified time.Time) error {
	zw := zip.NewWriter(w)
	for _, f := range files {
		hdr := &zip.FileHeader{Name: f.Name, Method: zip.Deflate, Modified: modified}
		fw, err := zw.CreateHeader(hdr)
		if err != nil {
			return fmt.Errorf("archive %s: %w", f.Name, err)
		}
		if _, err := io.WriteString(fw, f.Content); err != nil {
			return fmt.Errorf("archive %s: %w", f.Name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("archive close: %w", err)
	}
	return nil
}

// Filter returns entries whose template name, category, style, or brand
// contains query, case-insensitively. An empty query matches everything.
func Filter(saved []models.SavedEntry, query string) []models.SavedEntry {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return saved
	}
	var out []models.SavedEntry
	for _, s := range saved {
		p := s.Payload
		if strings.Contains(strings.ToLower(p.TemplateName), q) ||
			strings.Contains(strings.ToLower(p.Category), q) ||
			strings.Contains(strings.ToLower(p.Style), q) ||
			strings.Contains(strings.ToLower(p.Brand), q) {
			out = append(out, s)
		}
	}
	return out
}

// Find returns the entry with the given id.
func Find(saved []models.SavedEntry, id uuid.UUID) (models.SavedEntry, error) {
	for _, s := range saved {
		if s.ID == id {
			return s, nil
		}
	}
	return models.SavedEntry{}, ErrNotFound
}

// Remove returns saved without the entry with the given id.
func Remove(saved []models.SavedEntry, id uuid.UUID) ([]models.SavedEntry, error) {
	for i, s := range saved {
		if s.ID == id {
			out := make([]models.SavedEntry, 0, len(saved)-1)
			out = append(out, saved[:i]...)
			return append(out, saved[i+1:]...), nil
		}
	}
	return saved, ErrNotFound
}
