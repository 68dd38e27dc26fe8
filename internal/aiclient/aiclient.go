// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package aiclient requests AI copy from the assist endpoint. It probes an
// ordered list of candidate endpoints, one at a time, and falls back to
// derived copy when none answers. Enhance never fails.
package aiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"webtg/internal/copywriter"
	"webtg/internal/fallback"
	"webtg/internal/models"
)

// AssistPath is the assist endpoint path on every candidate host.
const AssistPath = "/api/templates/assist"

// DefaultTimeout bounds each endpoint attempt.
const DefaultTimeout = 6500 * time.Millisecond

// DefaultFallbackPort is the port probed on local hosts.
const DefaultFallbackPort = "5000"

// KeyHeader carries a per-user provider key to the assist endpoint.
const KeyHeader = "x-openai-key"

// maxResponseBytes bounds how much of a response body is read.
const maxResponseBytes = 1 << 20

// Result is the outcome of one enhancement. Copy is always complete.
type Result struct {
	Copy    models.CopyContent `json:"copy"`
	Mode    string             `json:"mode"`
	Message string             `json:"message,omitempty"`
}

// DefaultAPIBase is the API base used when no override is stored.
func DefaultAPIBase(origin string) string {
	if u, err := url.Parse(origin); err == nil && u.Hostname() == "localhost" {
		return "http://localhost:" + DefaultFallbackPort
	}
	return "http://127.0.0.1:" + DefaultFallbackPort
}

// Candidates lists assist endpoints in probe order: the API base, the
// current origin, the origin host and its localhost/127.0.0.1 twin on
// fallbackPort, fixed local fallbacks, and the relative path resolved
// against the origin. Duplicates keep their first position.
func Candidates(apiBase, origin, fallbackPort string) []string {
	if fallbackPort == "" {
		fallbackPort = DefaultFallbackPort
	}

	host := "localhost"
	var originURL *url.URL
	if u, err := url.Parse(origin); err == nil && u.Host != "" {
		originURL = u
		host = u.Hostname()
	}
	alt := "localhost"
	if host == "localhost" {
		alt = "127.0.0.1"
	}

	raw := []string{
		strings.TrimRight(apiBase, "/") + AssistPath,
		strings.TrimRight(origin, "/") + AssistPath,
		"http://" + host + ":" + fallbackPort + AssistPath,
		"http://" + alt + ":" + fallbackPort + AssistPath,
		"http://localhost:" + fallbackPort + AssistPath,
		"http://127.0.0.1:" + fallbackPort + AssistPath,
		AssistPath,
	}

	seen := make(map[string]bool, len(raw))
	out := make([]string, 0, len(raw))
	for _, c := range raw {
		u, err := url.Parse(c)
		if err != nil {
			continue
		}
		if !u.IsAbs() {
			if originURL == nil {
				continue
			}
			u = originURL.ResolveReference(u)
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			continue
		}
		s := u.String()
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}

// Client posts assist requests.
type Client struct {
	http    *http.Client
	timeout time.Duration
}

// New creates a client. A zero timeout selects DefaultTimeout.
func New(httpClient *http.Client, timeout time.Duration) *Client {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{http: httpClient, timeout: timeout}
}

// Enhance asks each endpoint in turn for copy. The first successful reply
// wins and its copy is normalized; when all fail the derived copy is
// returned with ModeFallback and the last error text.
func (c *Client) Enhance(ctx context.Context, endpoints []string, apiKey string, p models.GenerationPayload) Result {
	body, err := json.Marshal(models.AssistRequestFor(p))
	if err != nil {
		return fallbackResult(p, err)
	}

	attempts := make([]fallback.Attempt[*models.AssistResponse], len(endpoints))
	for i, endpoint := range endpoints {
		attempts[i] = func(ctx context.Context) (*models.AssistResponse, error) {
			resp, err := c.post(ctx, endpoint, apiKey, body)
			if err != nil {
				slog.Debug("assist endpoint failed", "endpoint", endpoint, "error", err)
			}
			return resp, err
		}
	}

	resp, err := fallback.First(ctx, attempts...)
	if err != nil {
		slog.Warn("ai enhancement fell back to derived copy", "endpoints", len(endpoints), "error", fallback.Last(err))
		return fallbackResult(p, err)
	}

	mode := resp.Mode
	if mode == "" {
		mode = models.ModeOpenAI
	}
	return Result{
		Copy:    copywriter.Normalize(resp.Copy, p),
		Mode:    mode,
		Message: resp.Message,
	}
}

// post runs one attempt under its own timeout.
func (c *Client) post(ctx context.Context, endpoint, apiKey string, body []byte) (*models.AssistResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if apiKey = strings.TrimSpace(apiKey); apiKey != "" {
		req.Header.Set(KeyHeader, apiKey)
	}

	res, err := c.http.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("AI request timed out after %s", c.timeout)
		}
		return nil, fmt.Errorf("AI request failed: %w", err)
	}
	defer res.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(res.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("read AI response: %w", err)
	}

	var data models.AssistResponse
	decodeErr := json.Unmarshal(raw, &data)

	if res.StatusCode < 200 || res.StatusCode > 299 {
		if decodeErr == nil && data.Message != "" {
			return nil, errors.New(data.Message)
		}
		return nil, fmt.Errorf("AI request failed (%d)", res.StatusCode)
	}
	if decodeErr != nil {
		return nil, fmt.Errorf("malformed AI response: %w", decodeErr)
	}
	return &data, nil
}

func fallbackResult(p models.GenerationPayload, err error) Result {
	msg := "request failed"
	if last := fallback.Last(err); last != nil {
		msg = last.Error()
	}
	return Result{
		Copy:    copywriter.Resolve(p.Category, p.Brand),
		Mode:    models.ModeFallback,
		Message: msg,
	}
}
