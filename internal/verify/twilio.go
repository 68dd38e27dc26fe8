// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package verify

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultTwilioBaseURL is the Verify v2 API root.
const DefaultTwilioBaseURL = "https://verify.twilio.com/v2"

// TwilioConfig holds Verify service credentials.
type TwilioConfig struct {
	AccountSID string
	AuthToken  string
	ServiceSID string
	BaseURL    string
}

// Configured reports whether every credential is present.
func (c TwilioConfig) Configured() bool {
	return c.AccountSID != "" && c.AuthToken != "" && c.ServiceSID != ""
}

// TwilioVerifier implements Verifier with the Twilio Verify v2 REST API.
type TwilioVerifier struct {
	config TwilioConfig
	client *http.Client
}

// NewTwilio creates a Twilio verifier.
func NewTwilio(cfg TwilioConfig) *TwilioVerifier {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultTwilioBaseURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return &TwilioVerifier{
		config: cfg,
		client: &http.Client{Timeout: 15 * time.Second},
	}
}

// Send starts an SMS verification.
func (v *TwilioVerifier) Send(ctx context.Context, phone string) (string, error) {
	var result twilioVerification
	err := v.post(ctx, "Verifications", url.Values{"To": {phone}, "Channel": {"sms"}}, &result)
	if err != nil {
		return "", err
	}
	return result.Status, nil
}

// Check submits a code for the phone's pending verification.
func (v *TwilioVerifier) Check(ctx context.Context, phone, code string) (bool, error) {
	var result twilioVerification
	err := v.post(ctx, "VerificationCheck", url.Values{"To": {phone}, "Code": {code}}, &result)
	if err != nil {
		return false, err
	}
	return result.Status == "approved", nil
}

func (v *TwilioVerifier) post(ctx context.Context, resource string, form url.Values, out any) error {
	if !v.config.Configured() {
		return ErrNotConfigured
	}

	endpoint := fmt.Sprintf("%s/Services/%s/%s", v.config.BaseURL, url.PathEscape(v.config.ServiceSID), resource)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("twilio request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(v.config.AccountSID, v.config.AuthToken)

	resp, err := v.client.Do(req)
	if err != nil {
		return fmt.Errorf("twilio http: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("twilio read body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		pe := &ProviderError{Status: resp.StatusCode}
		if err := json.Unmarshal(body, pe); err != nil || pe.Message == "" {
			pe.Message = strings.TrimSpace(string(body))
		}
		pe.Status = resp.StatusCode
		return pe
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("twilio unmarshal: %w", err)
	}
	return nil
}

// --- Twilio Verify API types ---

type twilioVerification struct {
	SID    string `json:"sid"`
	Status string `json:"status"`
}
