// Package service contains the business logic layer of the application.
//
// THE THREE-LAYER ARCHITECTURE:
//
//	Handler (HTTP layer)     → parses requests, writes responses
//	Service (Business layer) → validates, enforces rules, orchestrates
//	Repository (Data layer)  → reads/writes the document store
//
// Handlers only know about HTTP. Services only know about business rules.
// Neither knows about Mongo filters. Each service takes repository
// INTERFACES, not concrete types, so tests inject in-memory fakes and the
// store can be swapped in one place (server.go).
package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sakif/tutorial-hub/internal/apperror"
	"github.com/sakif/tutorial-hub/internal/auth"
	"github.com/sakif/tutorial-hub/internal/model"
	"github.com/sakif/tutorial-hub/internal/repository"
)

// Validation limits for account fields.
const (
	MaxNameLength     = 100
	MinPasswordLength = 6
)

// AuthService handles registration, login, and profile management.
//
// DEPENDENCIES (injected via NewAuthService):
//   - users     repository.UserRepository → read/write account records
//   - tokens    *auth.TokenService        → issue JWTs
//   - passwords *auth.PasswordService     → bcrypt hashing
//   - logger    *slog.Logger              → structured logging
type AuthService struct {
	users     repository.UserRepository
	tokens    *auth.TokenService
	passwords *auth.PasswordService
	logger    *slog.Logger
}

// NewAuthService creates an AuthService with all required dependencies.
// Call this in server.go when wiring the dependency graph.
func NewAuthService(
	users repository.UserRepository,
	tokens *auth.TokenService,
	passwords *auth.PasswordService,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		users:     users,
		tokens:    tokens,
		passwords: passwords,
		logger:    logger,
	}
}

// AuthResult is returned by Register and Login.
// It bundles the account and the issued JWT so the handler can build the
// token response in one step.
type AuthResult struct {
	User  *model.User
	Token string
}

// ProfileUpdate carries the optional profile deltas.
//
// POINTER FIELDS AS "OPTIONAL":
// nil means "the client didn't send this field — leave it unchanged".
// A non-nil pointer to a zero value ("", empty slice, false) is still an
// explicit update. This is how partial-merge semantics stay statically
// checked instead of living in a map[string]any.
type ProfileUpdate struct {
	Name       *string
	Role       *string
	Interests  *[]string
	SkillLevel *string
	Onboarded  *bool
}

// Register creates a new account and issues a token for it.
//
// New accounts always start as role "student", no interests, skill level
// "beginner", not onboarded — the onboarding flow fills those in later via
// UpdateProfile.
//
// Fails with apperror.ErrConflict if the email is already registered.
// The existence check is an exact match on the stored email: the source of
// truth is whatever string the user registered with, case included.
func (s *AuthService) Register(ctx context.Context, email, name, password string) (*AuthResult, error) {
	email = strings.TrimSpace(email)
	name = strings.TrimSpace(name)

	if email == "" || !strings.Contains(email, "@") {
		return nil, apperror.ValidationFailed("email", "a valid email address is required")
	}
	if name == "" {
		return nil, apperror.ValidationFailed("name", "name is required")
	}
	if len(name) > MaxNameLength {
		return nil, apperror.ValidationFailed("name",
			fmt.Sprintf("name must be %d characters or less", MaxNameLength))
	}
	if len(password) < MinPasswordLength {
		return nil, apperror.ValidationFailed("password",
			fmt.Sprintf("password must be at least %d characters", MinPasswordLength))
	}

	// Check-then-insert. Not race-proof without a unique index, but the
	// window is tiny and losing it produces a duplicate email, not
	// corruption. See DESIGN.md.
	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, apperror.Conflict("user", "email already registered")
	}

	hash, err := s.passwords.Hash(password)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Email:        email,
		Name:         name,
		PasswordHash: hash,
		Role:         model.RoleStudent,
		Interests:    []string{},
		SkillLevel:   model.SkillBeginner,
		Onboarded:    false,
	}

	if err := s.users.Create(ctx, user); err != nil {
		s.logger.Error("failed to create user",
			slog.String("email", email),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("registering user: %w", err)
	}

	token, err := s.tokens.Generate(user.ID)
	if err != nil {
		return nil, fmt.Errorf("issuing token for user %s: %w", user.ID, err)
	}

	s.logger.Info("user registered",
		slog.String("userID", user.ID),
		slog.String("email", user.Email),
	)

	return &AuthResult{User: user, Token: token}, nil
}

// Login authenticates an email+password pair and issues a token.
//
// DELIBERATE ERROR COLLAPSE:
// "no such email" and "wrong password" return the exact same Unauthorized
// error. Distinguishing them would let anyone probe which emails have
// accounts here.
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	email = strings.TrimSpace(email)

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, apperror.Unauthorized("invalid email or password")
	}

	if err := s.passwords.Verify(user.PasswordHash, password); err != nil {
		return nil, apperror.Unauthorized("invalid email or password")
	}

	token, err := s.tokens.Generate(user.ID)
	if err != nil {
		return nil, fmt.Errorf("issuing token for user %s: %w", user.ID, err)
	}

	s.logger.Info("user logged in", slog.String("userID", user.ID))

	return &AuthResult{User: user, Token: token}, nil
}

// GetUserByID returns the account for the given internal ID.
// Used by the identity resolver and the /auth/me handler.
func (s *AuthService) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	if id == "" {
		return nil, apperror.ValidationFailed("id", "user ID is required")
	}
	return s.users.GetByID(ctx, id)
}

// UpdateProfile applies the non-nil fields of update to the account.
//
// STRATEGY: fetch then update. Fetch the current account, merge the deltas
// onto it, write the merged record back. Two concurrent merges can lose one
// side's fields — there's no versioning, same caveat as every other write
// in this app.
//
// An update with no fields set is a no-op that returns the current account
// without touching the store.
func (s *AuthService) UpdateProfile(ctx context.Context, userID string, update ProfileUpdate) (*model.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	changed := false

	if update.Name != nil {
		name := strings.TrimSpace(*update.Name)
		if name == "" {
			return nil, apperror.ValidationFailed("name", "name must not be empty")
		}
		if len(name) > MaxNameLength {
			return nil, apperror.ValidationFailed("name",
				fmt.Sprintf("name must be %d characters or less", MaxNameLength))
		}
		user.Name = name
		changed = true
	}
	if update.Role != nil {
		if !model.ValidRole(*update.Role) {
			return nil, apperror.ValidationFailed("role", "role must be student or creator")
		}
		user.Role = *update.Role
		changed = true
	}
	if update.Interests != nil {
		interests := *update.Interests
		if interests == nil {
			interests = []string{}
		}
		user.Interests = interests
		changed = true
	}
	if update.SkillLevel != nil {
		if !model.ValidSkillLevel(*update.SkillLevel) {
			return nil, apperror.ValidationFailed("skill_level",
				"skill_level must be beginner, intermediate, or advanced")
		}
		user.SkillLevel = *update.SkillLevel
		changed = true
	}
	if update.Onboarded != nil {
		user.Onboarded = *update.Onboarded
		changed = true
	}

	if !changed {
		return user, nil
	}

	if err := s.users.Update(ctx, user); err != nil {
		s.logger.Error("failed to update profile",
			slog.String("userID", userID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("updating profile: %w", err)
	}

	s.logger.Info("profile updated", slog.String("userID", userID))

	return user, nil
}
