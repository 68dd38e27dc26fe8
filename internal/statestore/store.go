// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package statestore is the single persistence boundary of the generator.
// Every persisted entity (auth flag, profiles, saved templates, the last
// generated site, endpoint overrides) is a JSON value under a namespaced key.
package statestore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
)

// Namespaced keys. The prefix keeps entries from colliding with anything
// else sharing the backend.
const (
	KeyAuth           = "cswebtg_auth"
	KeyUser           = "cswebtg_user"
	KeyPendingUser    = "cswebtg_pending_user"
	KeySavedTemplates = "cswebtg_saved_templates"
	KeyLastGenerated  = "cswebtg_last_generated"
	KeyAPIBase        = "cswebtg_api_base"
	KeyGoogleClientID = "cswebtg_google_client_id"
	KeyAuthOrigin     = "cswebtg_auth_origin"
	KeyOpenAIKey      = "cswebtg_openai_key"
	KeyLastOrigin     = "cswebtg_last_origin"
)

// OverrideKeys are the configuration overrides that may be set through the
// settings API. Other keys are owned by their components.
var OverrideKeys = []string{KeyAPIBase, KeyGoogleClientID, KeyAuthOrigin, KeyOpenAIKey}

// IsOverrideKey reports whether key is a user-settable override.
func IsOverrideKey(key string) bool {
	for _, k := range OverrideKeys {
		if k == key {
			return true
		}
	}
	return false
}

// ErrEmptyKey is returned by backends when asked to write an empty key.
var ErrEmptyKey = errors.New("statestore: empty key")

// Store is a key-value store of raw JSON documents.
type Store interface {
	// Get returns the stored bytes and whether the key exists.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}

// GetJSON decodes the value under key into a T. A missing key, a backend
// error, or a corrupt document all yield fallback; the latter two are logged.
func GetJSON[T any](ctx context.Context, s Store, key string, fallback T) T {
	raw, ok, err := s.Get(ctx, key)
	if err != nil {
		slog.Warn("state read failed", "key", key, "error", err)
		return fallback
	}
	if !ok || len(raw) == 0 {
		return fallback
	}

	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		slog.Warn("state entry corrupt, using default", "key", key, "error", err)
		return fallback
	}
	return v
}

// SetJSON encodes v and stores it under key.
func SetJSON[T any](ctx context.Context, s Store, key string, v T) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("statestore encode %s: %w", key, err)
	}
	if err := s.Set(ctx, key, raw); err != nil {
		return fmt.Errorf("statestore set %s: %w", key, err)
	}
	return nil
}

// GetString reads a plain string override. Missing or corrupt entries
// return "".
func GetString(ctx context.Context, s Store, key string) string {
	return GetJSON(ctx, s, key, "")
}
