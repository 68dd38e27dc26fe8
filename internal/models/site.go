// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// IndexPage is the filename of the hero page every site starts with.
const IndexPage = "index.html"

// GeneratedSite is one assembled multi-page site. Pages maps filenames to
// complete standalone documents; Order lists the filenames in export order
// (planned pages first, then installed aliases).
type GeneratedSite struct {
	Payload GenerationPayload `json:"payload"`
	Copy    CopyContent       `json:"copy"`
	Plan    []string          `json:"plan"`
	Order   []string          `json:"order"`
	Pages   map[string]string `json:"pages"`
}

// Index returns the index document, or the first page in export order when
// the site somehow lacks one.
func (s *GeneratedSite) Index() string {
	if doc, ok := s.Pages[IndexPage]; ok {
		return doc
	}
	for _, name := range s.Order {
		if doc, ok := s.Pages[name]; ok {
			return doc
		}
	}
	return ""
}

// SavedEntry is a generated site appended to the saved-templates list.
type SavedEntry struct {
	ID      uuid.UUID         `json:"id"`
	Payload GenerationPayload `json:"payload"`
	Order   []string          `json:"order"`
	Pages   map[string]string `json:"pages"`
	SavedAt time.Time         `json:"saved_at"`
}

// Site rebuilds a GeneratedSite view of the saved entry for preview/export.
func (e SavedEntry) Site() *GeneratedSite {
	return &GeneratedSite{
		Payload: e.Payload,
		Order:   e.Order,
		Pages:   e.Pages,
	}
}

// AuthState is the persisted signed-in flag.
type AuthState struct {
	LoggedIn bool      `json:"loggedIn"`
	At       time.Time `json:"at"`
	Provider string    `json:"provider,omitempty"`
}

// UserProfile is the current (or pending) user identity.
type UserProfile struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone,omitempty"`
}
