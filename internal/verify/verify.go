// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package verify sends and checks one-time phone verification codes. The
// Twilio backend talks to the Verify v2 API; the local backend derives
// codes with TOTP for development.
package verify

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strings"
)

var (
	e164Re = regexp.MustCompile(`^\+[1-9]\d{7,14}$`)
	codeRe = regexp.MustCompile(`^\d{4,8}$`)
)

// IsE164 reports whether phone is an E.164 number such as +14155550123.
func IsE164(phone string) bool {
	return e164Re.MatchString(strings.TrimSpace(phone))
}

// ValidCode reports whether code has the shape of an OTP code.
func ValidCode(code string) bool {
	return codeRe.MatchString(strings.TrimSpace(code))
}

// Verifier sends codes to a phone and checks them.
type Verifier interface {
	// Send starts a verification and returns the provider's status.
	Send(ctx context.Context, phone string) (string, error)
	// Check reports whether code is approved for phone.
	Check(ctx context.Context, phone, code string) (bool, error)
}

// Error codes reported to clients when sending fails.
const (
	CodeTrialUnverified = "TRIAL_UNVERIFIED_NUMBER"
	CodeInvalidPhone    = "INVALID_PHONE_NUMBER"
	CodeSendFailed      = "TWILIO_SEND_FAILED"
)

// twilioInvalidNumber is Twilio's error code for a malformed "To" number.
const twilioInvalidNumber = 21211

// ErrNotConfigured is returned when the verifier lacks credentials.
var ErrNotConfigured = errors.New("verify: provider not configured")

// ProviderError is an error reply from the verification provider.
type ProviderError struct {
	Status  int    `json:"status"`
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("verify provider error %d (status %d): %s", e.Code, e.Status, e.Message)
}

// Failure is the client-facing form of a send error.
type Failure struct {
	Status  int    `json:"-"`
	Code    string `json:"error_code"`
	Message string `json:"message"`
}

func (f Failure) Error() string { return f.Message }

// MapSendError classifies a Send error into a client-facing Failure.
func MapSendError(err error) Failure {
	raw := strings.ToLower(err.Error())
	var code int
	var pe *ProviderError
	if errors.As(err, &pe) {
		raw = strings.ToLower(pe.Message)
		code = pe.Code
	}

	switch {
	case strings.Contains(raw, "unverified") || strings.Contains(raw, "trial accounts cannot send"):
		return Failure{
			Status:  http.StatusBadRequest,
			Code:    CodeTrialUnverified,
			Message: "Twilio trial account can send OTP only to verified numbers. Verify this number in Twilio Console.",
		}
	case code == twilioInvalidNumber || strings.Contains(raw, "not a valid phone number"):
		return Failure{
			Status:  http.StatusBadRequest,
			Code:    CodeInvalidPhone,
			Message: "Invalid phone number. Use format +countrycodeXXXXXXXXXX",
		}
	}
	return Failure{
		Status:  http.StatusInternalServerError,
		Code:    CodeSendFailed,
		Message: "Failed to send OTP. Check Twilio configuration and phone format.",
	}
}
