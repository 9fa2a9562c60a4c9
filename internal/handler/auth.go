package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/sakif/tutorial-hub/internal/auth"
	"github.com/sakif/tutorial-hub/internal/model"
	"github.com/sakif/tutorial-hub/internal/service"
)

// AuthHandler manages account registration, login, and profile access.
//
// HANDLER RESPONSIBILITIES:
//   - HandleRegister      → create an account, issue a JWT
//   - HandleLogin         → verify credentials, issue a JWT
//   - HandleMe            → return the caller's account
//   - HandleUpdateProfile → partial-update the caller's account
//
// The handler translates HTTP to service calls and back. All business rules
// (validation, uniqueness, credential checks) live in service.AuthService.
type AuthHandler struct {
	accounts *service.AuthService
	logger   *slog.Logger
}

// NewAuthHandler creates an AuthHandler. All dependencies are injected here;
// the handler has no knowledge of how they're constructed.
func NewAuthHandler(accounts *service.AuthService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{accounts: accounts, logger: logger}
}

// registerRequest is the body for POST /api/auth/register.
type registerRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

// loginRequest is the body for POST /api/auth/login.
type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// tokenResponse is the envelope returned by register and login.
//
// TokenType is always "bearer" — it tells the client how to present the
// token on subsequent requests (Authorization: Bearer <token>).
type tokenResponse struct {
	AccessToken string      `json:"access_token"`
	TokenType   string      `json:"token_type"`
	User        *model.User `json:"user"`
}

func newTokenResponse(result *service.AuthResult) tokenResponse {
	return tokenResponse{
		AccessToken: result.Token,
		TokenType:   "bearer",
		User:        result.User,
	}
}

// HandleRegister creates a new account and returns a token for it.
//
// HTTP: POST /api/auth/register
// REQUEST BODY: {"email": "a@x.com", "name": "Alice", "password": "secret1"}
//
// The response logs the user straight in — no separate login round-trip
// after registration.
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("invalid register JSON", slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "invalid JSON body",
		})
		return
	}

	result, err := h.accounts.Register(r.Context(), req.Email, req.Name, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, newTokenResponse(result))
}

// HandleLogin verifies credentials and returns a token.
//
// HTTP: POST /api/auth/login
// REQUEST BODY: {"email": "a@x.com", "password": "secret1"}
//
// A wrong password and an unknown email both come back as the same 401 —
// the service collapses them so the response can't be used to probe which
// emails have accounts.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("invalid login JSON", slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "invalid JSON body",
		})
		return
	}

	result, err := h.accounts.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, newTokenResponse(result))
}

// HandleMe returns the authenticated caller's account.
//
// HTTP: GET /api/auth/me
// Auth: Required
//
// The identity middleware has already loaded the full user record into the
// request context, so this handler is a straight read.
func (h *AuthHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		// Should never happen on a RequireAuth-protected route, but be safe.
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{
			Error:   "unauthorized",
			Message: "authentication required",
		})
		return
	}

	writeJSON(w, http.StatusOK, user)
}

// profileUpdateRequest is the body for PUT /api/auth/profile.
//
// POINTER FIELDS:
// Fields absent from the JSON stay nil and are left unchanged by the
// service. A field present with a zero value ("", [], false) is an explicit
// update. This is what gives the endpoint partial-merge semantics.
type profileUpdateRequest struct {
	Name       *string   `json:"name"`
	Role       *string   `json:"role"`
	Interests  *[]string `json:"interests"`
	SkillLevel *string   `json:"skill_level"`
	Onboarded  *bool     `json:"onboarded"`
}

// HandleUpdateProfile partially updates the caller's account.
//
// HTTP: PUT /api/auth/profile
// Auth: Required
// REQUEST BODY: any subset of {"name", "role", "interests", "skill_level", "onboarded"}
func (h *AuthHandler) HandleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{
			Error:   "unauthorized",
			Message: "authentication required",
		})
		return
	}

	var req profileUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("invalid profile JSON", slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "invalid JSON body",
		})
		return
	}

	updated, err := h.accounts.UpdateProfile(r.Context(), user.ID, service.ProfileUpdate{
		Name:       req.Name,
		Role:       req.Role,
		Interests:  req.Interests,
		SkillLevel: req.SkillLevel,
		Onboarded:  req.Onboarded,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, updated)
}
