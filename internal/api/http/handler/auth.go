package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/sethvargo/go-retry"

	"github.com/credisim/credisim-server/internal/api/http/httpctx"
	"github.com/credisim/credisim-server/internal/logger"
	"github.com/credisim/credisim-server/internal/model"
	"github.com/credisim/credisim-server/internal/service"
)

// registerRetryDelay is the fixed pause before the single register retry.
const registerRetryDelay = time.Second

// Auth exposes registration, login and session endpoints.
type Auth struct {
	auth         *service.Auth
	tokenManager model.TokenManager
	logger       *logger.Logger
}

// NewAuth creates a new Auth handler instance.
func NewAuth(auth *service.Auth, tokenManager model.TokenManager, logger *logger.Logger) *Auth {
	return &Auth{auth: auth, tokenManager: tokenManager, logger: logger}
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userResponse struct {
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email"`
}

// Register creates a new user. A transient store failure is retried exactly
// once after a fixed delay; the retry's outcome is final.
func (h *Auth) Register(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, model.NewValidationError("invalid request body"))
		return
	}

	var userID uuid.UUID
	attempt := 0

	// Single-shot recovery for transient store failures: one retry after a
	// fixed delay, then whatever that attempt produced is final.
	backoff := retry.WithMaxRetries(1, retry.NewConstant(registerRetryDelay))
	err := retry.Do(r.Context(), backoff, func(ctx context.Context) error {
		attempt++
		id, registerErr := h.auth.Register(ctx, req.Email, req.Password)
		if model.IsConnectionError(registerErr) {
			h.logger.Warn("Auth handler: register attempt hit connection error",
				"attempt", attempt,
				"error", registerErr.Error())
			return retry.RetryableError(registerErr)
		}
		userID = id
		return registerErr
	})
	if err != nil {
		writeError(w, err)
		return
	}

	h.logger.Info("Auth handler: user registered",
		"user_id", userID,
		"attempts", attempt)

	writeJSON(w, http.StatusOK, struct {
		Success bool      `json:"success"`
		ID      uuid.UUID `json:"id"`
	}{
		Success: true,
		ID:      userID,
	})
}

// Login verifies credentials and issues the session cookie.
func (h *Auth) Login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, model.NewValidationError("invalid request body"))
		return
	}

	identity, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		// The source surfaces every login failure, validation included, as a
		// server error with the error name and message.
		writeJSON(w, http.StatusInternalServerError, errorResponse{
			Error:   model.KindOf(err).String(),
			Message: err.Error(),
		})
		return
	}

	token, err := h.tokenManager.GenerateSessionToken(identity)
	if err != nil {
		h.logger.Error("Auth handler: failed to issue session token",
			"user_id", identity.UserID,
			"error", err.Error())
		writeJSON(w, http.StatusInternalServerError, errorResponse{
			Error:   model.KindUnexpected.String(),
			Message: "An unexpected error occurred.",
		})
		return
	}

	setSessionCookie(w, token)
	writeJSON(w, http.StatusOK, struct {
		Success bool         `json:"success"`
		User    userResponse `json:"user"`
	}{
		Success: true,
		User:    userResponse{ID: identity.UserID, Email: identity.Email},
	})
}

// Logout clears the session cookie.
func (h *Auth) Logout(w http.ResponseWriter, r *http.Request) {
	clearSessionCookie(w)
	writeJSON(w, http.StatusOK, struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}{
		Success: true,
		Message: "Logged out successfully",
	})
}

// Protected renders the authenticated view for a valid session cookie.
func (h *Auth) Protected(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(httpctx.SessionCookieName)
	if err != nil {
		writeJSON(w, http.StatusForbidden, struct {
			Message string `json:"message"`
		}{Message: "No token provided"})
		return
	}

	identity, err := h.tokenManager.ParseSessionToken(cookie.Value)
	if err != nil {
		writeJSON(w, http.StatusForbidden, struct {
			Message string `json:"message"`
		}{Message: "Failed to authenticate token"})
		return
	}

	writeJSON(w, http.StatusOK, struct {
		Success bool         `json:"success"`
		User    userResponse `json:"user"`
	}{
		Success: true,
		User:    userResponse{ID: identity.UserID, Email: identity.Email},
	})
}

func setSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     httpctx.SessionCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
		MaxAge:   int(time.Hour.Seconds()),
	})
}

func clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     httpctx.SessionCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
		MaxAge:   -1,
	})
}
