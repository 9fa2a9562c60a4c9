// Package repository defines the persistence interfaces the services depend on.
//
// The services are written against these interfaces, never against a concrete
// database type. The mongo subpackage provides the production implementation;
// tests use hand-written in-memory fakes. Swapping the store means changing
// one line in server.go.
package repository

import (
	"context"

	"github.com/sakif/tutorial-hub/internal/model"
)

// TutorialFilter narrows a tutorial listing.
//
// Zero values mean "no constraint": an empty Category matches every
// category, an empty Search skips text matching. Category is an exact
// match; Search matches case-insensitively as a substring of either the
// title or the description.
type TutorialFilter struct {
	Category string
	Search   string
}

// UserRepository stores account records in the "users" collection.
type UserRepository interface {
	// Create inserts a new user. The implementation assigns ID and
	// CreatedAt if they're unset.
	Create(ctx context.Context, user *model.User) error
	// GetByID returns the user with the given application-level ID, or
	// apperror.ErrNotFound.
	GetByID(ctx context.Context, id string) (*model.User, error)
	// GetByEmail is an exact, case-sensitive match on the stored email.
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	// Update writes back the user's mutable profile fields.
	Update(ctx context.Context, user *model.User) error
}

// TutorialRepository stores tutorials in the "tutorials" collection.
// All listings are ordered newest-created-first.
type TutorialRepository interface {
	Create(ctx context.Context, tutorial *model.Tutorial) error
	GetByID(ctx context.Context, id string) (*model.Tutorial, error)
	// GetByIDs batch-loads tutorials whose IDs are in the given set.
	// Missing IDs are silently skipped; order is unspecified.
	GetByIDs(ctx context.Context, ids []string) ([]model.Tutorial, error)
	List(ctx context.Context, filter TutorialFilter) ([]model.Tutorial, error)
	ListByCreator(ctx context.Context, creatorID string) ([]model.Tutorial, error)
	Update(ctx context.Context, tutorial *model.Tutorial) error
	Delete(ctx context.Context, id string) error
}

// BookmarkRepository stores bookmarks in the "bookmarks" collection.
type BookmarkRepository interface {
	Create(ctx context.Context, bookmark *model.Bookmark) error
	// Get returns the bookmark for the (userID, tutorialID) pair, or
	// apperror.ErrNotFound.
	Get(ctx context.Context, userID, tutorialID string) (*model.Bookmark, error)
	// ListByUser returns the user's bookmarks, newest first.
	ListByUser(ctx context.Context, userID string) ([]model.Bookmark, error)
	// Delete removes the bookmark for the pair; apperror.ErrNotFound if
	// nothing matched.
	Delete(ctx context.Context, userID, tutorialID string) error
	// DeleteByTutorial removes every bookmark referencing the tutorial,
	// across all users. Used by the tutorial delete cascade.
	DeleteByTutorial(ctx context.Context, tutorialID string) error
}
