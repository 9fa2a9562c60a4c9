package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/sakif/tutorial-hub/internal/apperror"
	"github.com/sakif/tutorial-hub/internal/model"
)

// contextKey is an unexported type used for context keys in this package.
//
// WHY A CUSTOM TYPE FOR CONTEXT KEYS?
// context.WithValue uses any as the key type. If you use a plain string like
// context.WithValue(ctx, "user", u), ANY package that knows the string "user"
// can read or shadow your value. Using a package-private type prevents
// collisions: only THIS package can create a key of type contextKey.
type contextKey string

const userKey contextKey = "user"

// UserLoader is the slice of the user repository the resolver needs.
// Declaring the interface here (at the point of use, not the point of
// implementation) keeps this package independent of the repository package's
// full surface.
type UserLoader interface {
	GetByID(ctx context.Context, id string) (*model.User, error)
}

// Resolver turns a bearer token into the account it identifies.
//
// Every authenticated request goes through Resolve exactly once: validate
// the token, then load the account the subject claim points at. The account
// load matters — a token can outlive its account, and a request from a
// deleted account must not be treated as authenticated.
type Resolver struct {
	tokens *TokenService
	users  UserLoader
}

// NewResolver creates a Resolver from its two dependencies.
func NewResolver(tokens *TokenService, users UserLoader) *Resolver {
	return &Resolver{tokens: tokens, users: users}
}

// Resolve validates tokenStr and returns the account it belongs to.
//
// All failures come back as apperror.ErrUnauthorized — an expired token, a
// forged token, and a vanished account all mean the same thing to the
// caller: not authenticated. The messages differ so the client can tell an
// expired session (re-login fixes it) from a broken one.
func (r *Resolver) Resolve(ctx context.Context, tokenStr string) (*model.User, error) {
	userID, err := r.tokens.Validate(tokenStr)
	if err != nil {
		if errors.Is(err, ErrTokenExpired) {
			return nil, apperror.Unauthorized("token expired")
		}
		return nil, apperror.Unauthorized("invalid token")
	}

	user, err := r.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, apperror.Unauthorized("user not found")
		}
		return nil, err
	}

	return user, nil
}

// RequireAuth is a middleware that enforces authentication on protected routes.
//
// It reads the JWT from the "Authorization: Bearer <token>" header, resolves
// it to a full account, and stores the account in the request context. If
// the token is missing, invalid, expired, or orphaned, it returns 401 and
// stops the request chain.
//
// MIDDLEWARE PATTERN IN GO:
// A middleware is a function that takes an http.Handler and returns a new
// http.Handler that "wraps" the original. Chi applies middlewares in a
// chain: req → M1 → M2 → Handler → M2 → M1 → resp
func RequireAuth(resolver *Resolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenStr, err := bearerToken(r)
			if err != nil {
				writeUnauthorized(w, "valid authentication required")
				return
			}

			user, err := resolver.Resolve(r.Context(), tokenStr)
			if err != nil {
				var appErr *apperror.AppError
				if errors.As(err, &appErr) {
					writeUnauthorized(w, appErr.Message)
				} else {
					writeUnauthorized(w, "valid authentication required")
				}
				return
			}

			// Store the resolved account in context so handlers can read it
			ctx := context.WithValue(r.Context(), userKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserFromContext retrieves the authenticated account from the request context.
//
// Returns (nil, false) on an unauthenticated request — which on a
// RequireAuth-protected route should never happen, but handlers still check
// rather than risk a nil dereference.
func UserFromContext(ctx context.Context) (*model.User, bool) {
	user, ok := ctx.Value(userKey).(*model.User)
	return user, ok && user != nil
}

// bearerToken extracts the JWT from the Authorization header.
//
// HEADER FORMAT: "Authorization: Bearer eyJhbGciOi..."
// The scheme comparison is case-insensitive per RFC 7235.
func bearerToken(r *http.Request) (string, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", errors.New("auth: missing Authorization header")
	}

	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", errors.New("auth: Authorization header is not a bearer token")
	}

	token = strings.TrimSpace(token)
	if token == "" {
		return "", errors.New("auth: empty bearer token")
	}

	return token, nil
}

// writeUnauthorized sends a 401 in the same JSON error shape the handlers use.
// Duplicated here (rather than importing the handler package) to keep the
// dependency direction handler → auth, never the reverse.
func writeUnauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"error":   "unauthorized",
		"message": message,
	})
}
