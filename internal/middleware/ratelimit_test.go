// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"
)

// fakeClock lets tests move the limiter's notion of time.
type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

func newTestLimiter(t *testing.T, limit int, window time.Duration, msg string) (*RateLimiter, *fakeClock) {
	t.Helper()
	clock := &fakeClock{t: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	rl := NewRateLimiter(limit, window, msg)
	rl.now = clock.now
	t.Cleanup(rl.Stop)
	return rl, clock
}

func TestRateLimiterAllow(t *testing.T) {
	rl, _ := newTestLimiter(t, 3, time.Minute, "")

	for i := range 3 {
		ok, remaining, _ := rl.allow("test-ip")
		if !ok {
			t.Fatalf("request %d should be allowed", i+1)
		}
		if remaining != 2-i {
			t.Errorf("request %d: remaining = %d, want %d", i+1, remaining, 2-i)
		}
	}

	ok, remaining, reset := rl.allow("test-ip")
	if ok {
		t.Error("4th request should be denied")
	}
	if remaining != 0 {
		t.Errorf("remaining = %d, want 0", remaining)
	}
	if reset != time.Minute {
		t.Errorf("reset = %v, want 1m", reset)
	}

	if ok, _, _ := rl.allow("other-ip"); !ok {
		t.Error("a different key should have its own budget")
	}
}

func TestRateLimiterSlidingWindow(t *testing.T) {
	rl, clock := newTestLimiter(t, 2, 10*time.Minute, "")

	rl.allow("ip")
	clock.advance(4 * time.Minute)
	rl.allow("ip")

	if ok, _, reset := rl.allow("ip"); ok || reset != 6*time.Minute {
		t.Fatalf("allow = %v, reset %v; want denied with 6m reset", ok, reset)
	}

	// The first request leaves the window; one slot frees up.
	clock.advance(6*time.Minute + time.Second)
	if ok, remaining, _ := rl.allow("ip"); !ok || remaining != 0 {
		t.Errorf("allow = %v, remaining %d; want allowed with 0 left", ok, remaining)
	}
}

func TestRateLimiterZeroLimit(t *testing.T) {
	rl, _ := newTestLimiter(t, 0, time.Second, "")
	if ok, _, reset := rl.allow("ip"); ok || reset != time.Second {
		t.Errorf("allow = %v, reset %v; want denied with full window", ok, reset)
	}
}

func TestRateLimiterMiddleware(t *testing.T) {
	const msg = "Too many OTP requests. Please wait and try again."
	rl, _ := newTestLimiter(t, 2, 10*time.Minute, msg)

	var calls int
	handler := rl.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusOK)
	}))

	send := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/auth/send-otp", nil)
		req.RemoteAddr = "10.0.0.9:5555"
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		return rr
	}

	rr := send()
	if rr.Code != http.StatusOK {
		t.Fatalf("first status = %d", rr.Code)
	}
	tests := []struct {
		header string
		want   string
	}{
		{"RateLimit-Limit", "2"},
		{"RateLimit-Remaining", "1"},
		{"RateLimit-Reset", "600"},
	}
	for _, tt := range tests {
		if got := rr.Header().Get(tt.header); got != tt.want {
			t.Errorf("%s = %q, want %q", tt.header, got, tt.want)
		}
	}
	if rr.Header().Get("Retry-After") != "" {
		t.Error("Retry-After should only be set on 429")
	}

	send()
	rr = send()
	if rr.Code != http.StatusTooManyRequests {
		t.Fatalf("third status = %d, want 429", rr.Code)
	}
	if calls != 2 {
		t.Errorf("next handler calls = %d, want 2", calls)
	}
	if got := rr.Header().Get("Retry-After"); got != "600" {
		t.Errorf("Retry-After = %q, want 600", got)
	}
	if ct := rr.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}
	var body map[string]string
	if err := json.NewDecoder(rr.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["message"] != msg {
		t.Errorf("message = %q, want %q", body["message"], msg)
	}
}

func TestRateLimiterDefaultMessage(t *testing.T) {
	rl, _ := newTestLimiter(t, 1, time.Minute, "")
	if rl.message == "" {
		t.Error("empty message should fall back to a default")
	}
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		name       string
		xff        string
		xri        string
		remoteAddr string
		want       string
	}{
		{
			name:       "x-forwarded-for single",
			xff:        "10.0.0.1",
			remoteAddr: "192.168.1.1:1234",
			want:       "10.0.0.1",
		},
		{
			name:       "x-forwarded-for multiple",
			xff:        "10.0.0.1, 172.16.0.1, 192.168.1.1",
			remoteAddr: "192.168.1.1:1234",
			want:       "10.0.0.1",
		},
		{
			name:       "x-real-ip",
			xri:        "10.0.0.2",
			remoteAddr: "192.168.1.1:1234",
			want:       "10.0.0.2",
		},
		{
			name:       "remote addr only",
			remoteAddr: "192.168.1.1:1234",
			want:       "192.168.1.1",
		},
		{
			name:       "ipv6 remote addr",
			remoteAddr: "[::1]:8080",
			want:       "::1",
		},
		{
			name:       "remote addr no port",
			remoteAddr: "192.168.1.1",
			want:       "192.168.1.1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remoteAddr
			if tt.xff != "" {
				req.Header.Set("X-Forwarded-For", tt.xff)
			}
			if tt.xri != "" {
				req.Header.Set("X-Real-IP", tt.xri)
			}
			if got := clientIP(req); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRateLimiterCleanup(t *testing.T) {
	rl, clock := newTestLimiter(t, 10, time.Minute, "")

	rl.allow("ip-old")
	clock.advance(50 * time.Second)
	rl.allow("ip-fresh")
	clock.advance(20 * time.Second)

	rl.cleanup()

	rl.mu.RLock()
	_, oldExists := rl.clients["ip-old"]
	_, freshExists := rl.clients["ip-fresh"]
	count := len(rl.clients)
	rl.mu.RUnlock()

	if oldExists {
		t.Error("ip-old should have been cleaned up")
	}
	if !freshExists {
		t.Error("ip-fresh should still exist")
	}
	if count != 1 {
		t.Errorf("remaining clients = %d, want 1", count)
	}
}
