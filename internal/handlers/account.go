package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"webtg/internal/account"
	"webtg/internal/models"
)

// Account serves the demo login/signup flow.
type Account struct {
	flow *account.Flow
}

// NewAccount creates the account handler group.
func NewAccount(flow *account.Flow) *Account {
	return &Account{flow: flow}
}

type meResponse struct {
	Authenticated bool               `json:"authenticated"`
	User          models.UserProfile `json:"user"`
}

// Me reports who is signed in.
func (a *Account) Me(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	writeJSON(w, http.StatusOK, meResponse{
		Authenticated: a.flow.IsAuthed(ctx),
		User:          a.flow.CurrentUser(ctx),
	})
}

// Login signs in with email and password.
func (a *Account) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body.")
		return
	}
	user, err := a.flow.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		a.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, meResponse{Authenticated: true, User: user})
}

// Signup creates an account, or starts phone verification when a phone
// number is given.
func (a *Account) Signup(w http.ResponseWriter, r *http.Request) {
	var in account.SignupInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body.")
		return
	}
	sent, message, err := a.flow.Signup(r.Context(), in)
	if err != nil {
		a.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"otpSent":       sent,
		"authenticated": !sent,
		"message":       message,
	})
}

// Verify confirms a pending phone signup.
func (a *Account) Verify(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Code string `json:"code"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body.")
		return
	}
	user, err := a.flow.VerifyOTP(r.Context(), req.Code)
	if err != nil {
		a.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, meResponse{Authenticated: true, User: user})
}

// Logout clears the signed-in flag.
func (a *Account) Logout(w http.ResponseWriter, r *http.Request) {
	if err := a.flow.Logout(r.Context()); err != nil {
		slog.Error("logout failed", "error", err)
		writeMessage(w, http.StatusInternalServerError, "Logout failed.")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Logged out."})
}

type apiErrorResponse struct {
	Message string `json:"message"`
	Code    string `json:"error_code,omitempty"`
}

// fail maps flow errors onto responses. Input errors and backend replies
// are shown as is; anything else is logged.
func (a *Account) fail(w http.ResponseWriter, err error) {
	var input account.InputError
	if errors.As(err, &input) {
		writeMessage(w, http.StatusBadRequest, input.Error())
		return
	}
	var apiErr *account.APIError
	if errors.As(err, &apiErr) {
		status := apiErr.Status
		if status < 400 {
			status = http.StatusBadGateway
		}
		writeJSON(w, status, apiErrorResponse{Message: apiErr.Message, Code: apiErr.Code})
		return
	}
	slog.Error("account request failed", "error", err)
	writeMessage(w, http.StatusInternalServerError, "Request failed. Please retry.")
}
