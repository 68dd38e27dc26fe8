// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package account

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Backend paths of the verification endpoints.
const (
	SendOTPPath   = "/api/auth/send-otp"
	VerifyOTPPath = "/api/auth/verify-otp"
)

// Gateway is the verification backend as seen by the account flow.
type Gateway interface {
	SendOTP(ctx context.Context, phone string) (string, error)
	VerifyOTP(ctx context.Context, phone, code string) error
}

// APIError is a non-2xx reply from the backend.
type APIError struct {
	Status  int
	Message string
	Code    string
}

func (e *APIError) Error() string { return e.Message }

// HTTPGateway calls the verification backend over HTTP.
type HTTPGateway struct {
	baseURL string
	client  *http.Client
}

// NewHTTPGateway creates a gateway against baseURL.
func NewHTTPGateway(baseURL string, client *http.Client) *HTTPGateway {
	if client == nil {
		client = &http.Client{Timeout: 20 * time.Second}
	}
	return &HTTPGateway{baseURL: strings.TrimRight(baseURL, "/"), client: client}
}

// SendOTP asks the backend to text a code to phone.
func (g *HTTPGateway) SendOTP(ctx context.Context, phone string) (string, error) {
	var out struct {
		Status  string `json:"status"`
		Message string `json:"message"`
	}
	if err := g.postJSON(ctx, SendOTPPath, map[string]string{"phone": phone}, &out); err != nil {
		return "", err
	}
	return out.Message, nil
}

// VerifyOTP checks code for phone.
func (g *HTTPGateway) VerifyOTP(ctx context.Context, phone, code string) error {
	return g.postJSON(ctx, VerifyOTPPath, map[string]string{"phone": phone, "code": code}, nil)
}

func (g *HTTPGateway) postJSON(ctx context.Context, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("account marshal: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("account request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return fmt.Errorf("account http: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("account read body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var data struct {
			Message   string `json:"message"`
			ErrorCode string `json:"error_code"`
		}
		_ = json.Unmarshal(raw, &data)
		if data.Message == "" {
			data.Message = "Request failed"
		}
		return &APIError{Status: resp.StatusCode, Message: data.Message, Code: data.ErrorCode}
	}

	if out != nil && len(raw) > 0 {
		if err := json.Unmarshal(raw, out); err != nil {
			return fmt.Errorf("account unmarshal: %w", err)
		}
	}
	return nil
}
