// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"webtg/internal/ai"
	"webtg/internal/aiclient"
	"webtg/internal/metrics"
	"webtg/internal/models"
	"webtg/internal/verify"
)

const msgVerifierNotReady = "Twilio client not ready. Install/configure Twilio."

// Backend serves the collaborator endpoints: health, OTP and AI assist.
type Backend struct {
	verifier  verify.Verifier
	assistant *ai.Assistant
	metrics   *metrics.Metrics
}

// NewBackend creates the backend handler group. verifier may be nil when
// phone verification is not configured.
func NewBackend(verifier verify.Verifier, assistant *ai.Assistant, m *metrics.Metrics) *Backend {
	return &Backend{verifier: verifier, assistant: assistant, metrics: m}
}

// Health reports that the server is up.
func (b *Backend) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "message": "Server is running"})
}

type otpRequest struct {
	Phone string `json:"phone"`
	Code  string `json:"code"`
}

// SendOTP starts a phone verification.
func (b *Backend) SendOTP(w http.ResponseWriter, r *http.Request) {
	var req otpRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body.")
		return
	}
	phone := strings.TrimSpace(req.Phone)
	if phone == "" {
		writeMessage(w, http.StatusBadRequest, "phone required")
		return
	}
	if !verify.IsE164(phone) {
		writeMessage(w, http.StatusBadRequest, "Invalid phone format. Use +countrycodeXXXXXXXXXX")
		return
	}
	if b.verifier == nil {
		b.metrics.OTP("send", "unconfigured")
		writeMessage(w, http.StatusInternalServerError, msgVerifierNotReady)
		return
	}

	status, err := b.verifier.Send(r.Context(), phone)
	if errors.Is(err, verify.ErrNotConfigured) {
		b.metrics.OTP("send", "unconfigured")
		writeMessage(w, http.StatusInternalServerError, msgVerifierNotReady)
		return
	}
	if err != nil {
		f := verify.MapSendError(err)
		slog.Warn("otp send failed", "error", err, "error_code", f.Code)
		b.metrics.OTP("send", strings.ToLower(f.Code))
		writeJSON(w, f.Status, f)
		return
	}

	b.metrics.OTP("send", "ok")
	writeJSON(w, http.StatusOK, map[string]string{"status": status, "message": "OTP sent successfully"})
}

// VerifyOTP checks a code for a phone.
func (b *Backend) VerifyOTP(w http.ResponseWriter, r *http.Request) {
	var req otpRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body.")
		return
	}
	phone, code := strings.TrimSpace(req.Phone), strings.TrimSpace(req.Code)
	if phone == "" || code == "" {
		writeMessage(w, http.StatusBadRequest, "phone and code required")
		return
	}
	if !verify.IsE164(phone) {
		writeMessage(w, http.StatusBadRequest, "Invalid phone format.")
		return
	}
	if !verify.ValidCode(code) {
		writeMessage(w, http.StatusBadRequest, "Invalid OTP code format.")
		return
	}
	if b.verifier == nil {
		b.metrics.OTP("verify", "unconfigured")
		writeMessage(w, http.StatusInternalServerError, msgVerifierNotReady)
		return
	}

	approved, err := b.verifier.Check(r.Context(), phone, code)
	if err != nil {
		slog.Warn("otp verify failed", "error", err)
		b.metrics.OTP("verify", "error")
		writeMessage(w, http.StatusInternalServerError, "Failed to verify OTP. Please retry.")
		return
	}
	if !approved {
		b.metrics.OTP("verify", "rejected")
		writeJSON(w, http.StatusBadRequest, map[string]any{"verified": false, "message": "Invalid OTP"})
		return
	}
	b.metrics.OTP("verify", "ok")
	writeJSON(w, http.StatusOK, map[string]any{"verified": true, "message": "OTP verified"})
}

// Assist writes hero copy with the configured AI provider. A key sent in
// the x-openai-key header overrides the server's key for this request.
func (b *Backend) Assist(w http.ResponseWriter, r *http.Request) {
	var req models.AssistRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body.")
		return
	}
	resp, status := b.assistant.Assist(r.Context(), req, r.Header.Get(aiclient.KeyHeader))
	writeJSON(w, status, resp)
}
