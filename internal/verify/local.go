// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package verify

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
)

// LocalPeriod is how long a locally issued code stays valid.
const LocalPeriod = 600

// LocalVerifier issues TOTP codes per phone and logs them instead of
// sending an SMS. Codes last one LocalPeriod window.
type LocalVerifier struct {
	mu      sync.Mutex
	secrets map[string]string
	now     func() time.Time
	// Deliver receives each issued code. Defaults to logging it.
	Deliver func(phone, code string)
}

// NewLocal creates a local verifier.
func NewLocal() *LocalVerifier {
	return &LocalVerifier{
		secrets: make(map[string]string),
		now:     time.Now,
		Deliver: func(phone, code string) {
			slog.Info("local otp issued", "phone", phone, "code", code)
		},
	}
}

func localOpts() totp.ValidateOpts {
	return totp.ValidateOpts{
		Period:    LocalPeriod,
		Digits:    otp.DigitsSix,
		Algorithm: otp.AlgorithmSHA1,
	}
}

// Send issues a fresh secret for phone and delivers the current code.
func (v *LocalVerifier) Send(_ context.Context, phone string) (string, error) {
	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      "webtg",
		AccountName: phone,
		Period:      LocalPeriod,
	})
	if err != nil {
		return "", fmt.Errorf("local otp generate: %w", err)
	}

	code, err := totp.GenerateCodeCustom(key.Secret(), v.now(), localOpts())
	if err != nil {
		return "", fmt.Errorf("local otp code: %w", err)
	}

	v.mu.Lock()
	v.secrets[phone] = key.Secret()
	v.mu.Unlock()

	v.Deliver(phone, code)
	return "pending", nil
}

// Check validates code against phone's secret. An approved code is
// consumed.
func (v *LocalVerifier) Check(_ context.Context, phone, code string) (bool, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	secret, ok := v.secrets[phone]
	if !ok {
		return false, nil
	}
	valid, err := totp.ValidateCustom(code, secret, v.now(), localOpts())
	if err != nil {
		return false, nil
	}
	if valid {
		delete(v.secrets, phone)
	}
	return valid, nil
}
