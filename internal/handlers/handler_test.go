// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// handler_test.go provides shared test infrastructure for the handler
// tests. Everything runs in memory; no external services are needed.
package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"webtg/internal/aiclient"
	"webtg/internal/engine"
	"webtg/internal/metrics"
	"webtg/internal/preview"
	"webtg/internal/site"
	"webtg/internal/statestore"
	"webtg/internal/workspace"
)

// stubProvider implements ai.Provider with a canned reply.
type stubProvider struct {
	name  string
	reply string
	err   error
}

func (s *stubProvider) Name() string { return s.name }
func (s *stubProvider) Generate(ctx context.Context, system, user string) (string, error) {
	return s.reply, s.err
}
func (s *stubProvider) GenerateWithModel(_ context.Context, _, _, _ string) (string, error) {
	return s.reply, s.err
}

// stubVerifier implements verify.Verifier.
type stubVerifier struct {
	sendErr  error
	approved bool
	checkErr error
	sent     []string
}

func (s *stubVerifier) Send(_ context.Context, phone string) (string, error) {
	s.sent = append(s.sent, phone)
	if s.sendErr != nil {
		return "", s.sendErr
	}
	return "pending", nil
}

func (s *stubVerifier) Check(_ context.Context, _, _ string) (bool, error) {
	return s.approved, s.checkErr
}

// workspaceFixture wires a session over an in-memory store.
type workspaceFixture struct {
	session *workspace.Session
	store   *statestore.MemoryStore
	preview *preview.Controller
	metrics *metrics.Metrics
}

func newWorkspaceFixture(t *testing.T) workspaceFixture {
	t.Helper()
	eng, err := engine.New()
	if err != nil {
		t.Fatalf("engine.New: %v", err)
	}
	store := statestore.NewMemoryStore()
	pc := preview.NewController()
	m := metrics.New()
	s := workspace.NewSession(site.NewAssembler(eng), store, pc, aiclient.New(nil, time.Second), workspace.Options{
		Now:     func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) },
		Metrics: m,
	})
	if _, err := s.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	return workspaceFixture{session: s, store: store, preview: pc, metrics: m}
}

// jsonRequest builds a request with a JSON body.
func jsonRequest(method, target, body string) *http.Request {
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, rd)
	req.Header.Set("Content-Type", "application/json")
	return req
}

// withURLParam attaches a chi route parameter to r.
func withURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// serve runs h and returns the recorder.
func serve(h http.HandlerFunc, r *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	h(rr, r)
	return rr
}

// decodeBody decodes a JSON response body into T.
func decodeBody[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(rr.Body).Decode(&v); err != nil {
		t.Fatalf("decode body %q: %v", rr.Body.String(), err)
	}
	return v
}
