// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package account implements the demo sign-in flows: email login, local
// signup, and phone signup confirmed by a one-time code. Identity lives
// in the state store; there is no server-side account database.
package account

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"webtg/internal/models"
	"webtg/internal/statestore"
	"webtg/internal/verify"
)

// InputError is a validation failure shown to the user as is.
type InputError string

func (e InputError) Error() string { return string(e) }

const (
	errLogin          InputError = "Enter valid email & password (min 4)."
	errSignup         InputError = "Fill valid name, email and password."
	errPhone          InputError = "Invalid phone format. Use +countrycodeXXXXXXXXXX"
	errSessionExpired InputError = "Session expired. Please signup again."
	errNoCode         InputError = "Enter OTP code."
)

// Providers recorded in AuthState.
const (
	ProviderLocal = "local"
	ProviderPhone = "phone"
)

// SignupInput is the signup form.
type SignupInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Phone    string `json:"phone"`
}

// Flow runs the account commands against a state store.
type Flow struct {
	store   statestore.Store
	gateway Gateway
	now     func() time.Time
}

// NewFlow creates a flow. gateway may be nil when phone signup is off.
func NewFlow(store statestore.Store, gateway Gateway) *Flow {
	return &Flow{store: store, gateway: gateway, now: time.Now}
}

// NormalizePhone keeps the digits of input behind a single leading "+".
func NormalizePhone(input string) string {
	s := strings.TrimSpace(input)
	if s == "" {
		return ""
	}
	var b strings.Builder
	b.WriteByte('+')
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Login signs in with any well-formed email and password.
func (f *Flow) Login(ctx context.Context, email, password string) (models.UserProfile, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	password = strings.TrimSpace(password)
	if !strings.Contains(email, "@") || len(password) < 4 {
		return models.UserProfile{}, errLogin
	}

	user := models.UserProfile{Name: email[:strings.Index(email, "@")], Email: email}
	if err := f.signIn(ctx, user, ProviderLocal); err != nil {
		return models.UserProfile{}, err
	}
	return user, nil
}

// Signup creates an account. Without a phone number the account is
// active immediately. With one, a code is sent and the profile waits
// in the pending slot until VerifyOTP; sent reports which happened and
// message carries the backend's reply.
func (f *Flow) Signup(ctx context.Context, in SignupInput) (sent bool, message string, err error) {
	name := strings.TrimSpace(in.Name)
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if utf8.RuneCountInString(name) < 2 || !strings.Contains(email, "@") || len(strings.TrimSpace(in.Password)) < 4 {
		return false, "", errSignup
	}
	user := models.UserProfile{Name: name, Email: email}

	if strings.TrimSpace(in.Phone) == "" {
		if err := f.signIn(ctx, user, ProviderLocal); err != nil {
			return false, "", err
		}
		return false, "Account created.", nil
	}

	phone := NormalizePhone(in.Phone)
	if !verify.IsE164(phone) {
		return false, "", errPhone
	}
	if f.gateway == nil {
		return false, "", errors.New("account: phone signup unavailable")
	}

	message, err = f.gateway.SendOTP(ctx, phone)
	if err != nil {
		return false, "", err
	}
	user.Phone = phone
	if err := statestore.SetJSON(ctx, f.store, statestore.KeyPendingUser, user); err != nil {
		return false, "", err
	}
	if message == "" {
		message = "OTP sent successfully"
	}
	return true, message, nil
}

// VerifyOTP confirms the pending signup with code.
func (f *Flow) VerifyOTP(ctx context.Context, code string) (models.UserProfile, error) {
	pending := statestore.GetJSON[*models.UserProfile](ctx, f.store, statestore.KeyPendingUser, nil)
	if pending == nil || pending.Phone == "" {
		return models.UserProfile{}, errSessionExpired
	}
	code = strings.TrimSpace(code)
	if code == "" {
		return models.UserProfile{}, errNoCode
	}
	if f.gateway == nil {
		return models.UserProfile{}, errors.New("account: phone signup unavailable")
	}

	if err := f.gateway.VerifyOTP(ctx, pending.Phone, code); err != nil {
		return models.UserProfile{}, err
	}

	if err := f.signIn(ctx, *pending, ProviderPhone); err != nil {
		return models.UserProfile{}, err
	}
	if err := f.store.Delete(ctx, statestore.KeyPendingUser); err != nil {
		return models.UserProfile{}, fmt.Errorf("account clear pending: %w", err)
	}
	return *pending, nil
}

// Logout clears the signed-in flag. The profile is kept.
func (f *Flow) Logout(ctx context.Context) error {
	return statestore.SetJSON(ctx, f.store, statestore.KeyAuth, models.AuthState{At: f.now()})
}

// IsAuthed reports whether someone is signed in.
func (f *Flow) IsAuthed(ctx context.Context) bool {
	return statestore.GetJSON(ctx, f.store, statestore.KeyAuth, models.AuthState{}).LoggedIn
}

// CurrentUser returns the stored profile, named "User" when absent.
func (f *Flow) CurrentUser(ctx context.Context) models.UserProfile {
	u := statestore.GetJSON(ctx, f.store, statestore.KeyUser, models.UserProfile{})
	if u.Name == "" {
		u.Name = "User"
	}
	return u
}

func (f *Flow) signIn(ctx context.Context, user models.UserProfile, provider string) error {
	if err := statestore.SetJSON(ctx, f.store, statestore.KeyUser, user); err != nil {
		return err
	}
	return statestore.SetJSON(ctx, f.store, statestore.KeyAuth, models.AuthState{
		LoggedIn: true,
		At:       f.now(),
		Provider: provider,
	})
}
