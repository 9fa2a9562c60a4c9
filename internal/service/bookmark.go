package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sakif/tutorial-hub/internal/apperror"
	"github.com/sakif/tutorial-hub/internal/model"
	"github.com/sakif/tutorial-hub/internal/repository"
)

// BookmarkService lets users save tutorials and read them back.
type BookmarkService struct {
	bookmarks repository.BookmarkRepository
	tutorials repository.TutorialRepository
	logger    *slog.Logger
}

// NewBookmarkService creates a BookmarkService. The tutorial repository is
// used to resolve saved tutorial IDs into full records when listing.
func NewBookmarkService(
	bookmarks repository.BookmarkRepository,
	tutorials repository.TutorialRepository,
	logger *slog.Logger,
) *BookmarkService {
	return &BookmarkService{
		bookmarks: bookmarks,
		tutorials: tutorials,
		logger:    logger,
	}
}

// Create bookmarks a tutorial for the user.
//
// IDEMPOTENT BY CONTRACT:
// Bookmarking something already bookmarked returns the existing record with
// its original ID and timestamp — no duplicate, no error. The frontend's
// bookmark button can fire twice without consequence.
//
// The tutorial ID is NOT validated against the tutorials collection. A
// bookmark created in a race with the tutorial's deletion dangles until
// nothing resolves it; the listing path skips it harmlessly.
func (s *BookmarkService) Create(ctx context.Context, userID, tutorialID string) (*model.Bookmark, error) {
	tutorialID = strings.TrimSpace(tutorialID)
	if tutorialID == "" {
		return nil, apperror.ValidationFailed("tutorial_id", "tutorial ID is required")
	}

	existing, err := s.bookmarks.Get(ctx, userID, tutorialID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, apperror.ErrNotFound) {
		return nil, fmt.Errorf("checking existing bookmark: %w", err)
	}

	bookmark := &model.Bookmark{
		UserID:     userID,
		TutorialID: tutorialID,
	}

	if err := s.bookmarks.Create(ctx, bookmark); err != nil {
		s.logger.Error("failed to create bookmark",
			slog.String("userID", userID),
			slog.String("tutorialID", tutorialID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("creating bookmark: %w", err)
	}

	s.logger.Info("bookmark created",
		slog.String("id", bookmark.ID),
		slog.String("userID", userID),
		slog.String("tutorialID", tutorialID),
	)

	return bookmark, nil
}

// ListTutorials returns the full tutorial records the user has bookmarked.
//
// Two steps: load the user's bookmark records, then batch-load the
// referenced tutorials in one $in query. No bookmarks short-circuits to an
// empty slice without touching the tutorials collection at all.
func (s *BookmarkService) ListTutorials(ctx context.Context, userID string) ([]model.Tutorial, error) {
	bookmarks, err := s.bookmarks.ListByUser(ctx, userID)
	if err != nil {
		s.logger.Error("failed to list bookmarks",
			slog.String("userID", userID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("listing bookmarks: %w", err)
	}

	if len(bookmarks) == 0 {
		return []model.Tutorial{}, nil
	}

	ids := make([]string, 0, len(bookmarks))
	for _, b := range bookmarks {
		ids = append(ids, b.TutorialID)
	}

	tutorials, err := s.tutorials.GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("loading bookmarked tutorials: %w", err)
	}

	return tutorials, nil
}

// Remove deletes the user's bookmark for the tutorial.
// Returns apperror.ErrNotFound if no such bookmark exists.
func (s *BookmarkService) Remove(ctx context.Context, userID, tutorialID string) error {
	tutorialID = strings.TrimSpace(tutorialID)
	if tutorialID == "" {
		return apperror.ValidationFailed("tutorial_id", "tutorial ID is required")
	}

	if err := s.bookmarks.Delete(ctx, userID, tutorialID); err != nil {
		return err
	}

	s.logger.Info("bookmark removed",
		slog.String("userID", userID),
		slog.String("tutorialID", tutorialID),
	)

	return nil
}

// Exists reports whether the user has bookmarked the tutorial.
// Absence is a normal false, never an error.
func (s *BookmarkService) Exists(ctx context.Context, userID, tutorialID string) (bool, error) {
	_, err := s.bookmarks.Get(ctx, userID, tutorialID)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("checking bookmark: %w", err)
	}
	return true, nil
}
