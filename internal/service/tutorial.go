package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sakif/tutorial-hub/internal/apperror"
	"github.com/sakif/tutorial-hub/internal/model"
	"github.com/sakif/tutorial-hub/internal/repository"
)

// Validation limits for tutorial fields.
const (
	MaxTitleLength       = 200
	MaxDescriptionLength = 5000
	MaxCategoryLength    = 50
)

// TutorialService handles tutorial creation, browsing, and the
// ownership-checked mutation paths.
type TutorialService struct {
	tutorials repository.TutorialRepository
	bookmarks repository.BookmarkRepository
	logger    *slog.Logger
}

// NewTutorialService creates a TutorialService.
// The bookmark repository is needed for the delete cascade only.
func NewTutorialService(
	tutorials repository.TutorialRepository,
	bookmarks repository.BookmarkRepository,
	logger *slog.Logger,
) *TutorialService {
	return &TutorialService{
		tutorials: tutorials,
		bookmarks: bookmarks,
		logger:    logger,
	}
}

// CreateTutorial carries the fields for a new tutorial. All but
// PreviewImage are required.
type CreateTutorial struct {
	Title        string
	Description  string
	YouTubeURL   string
	Category     string
	PreviewImage string
}

// TutorialUpdate carries optional tutorial deltas; nil means "leave
// unchanged" (same pointer-field convention as ProfileUpdate).
type TutorialUpdate struct {
	Title        *string
	Description  *string
	YouTubeURL   *string
	Category     *string
	PreviewImage *string
}

// Create publishes a new tutorial owned by creator.
//
// The creator's ID and display name are stamped onto the tutorial at this
// moment. The name is a denormalized snapshot — later renames don't
// propagate (accepted staleness, see model.Tutorial).
func (s *TutorialService) Create(ctx context.Context, creator *model.User, in CreateTutorial) (*model.Tutorial, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	in.Category = strings.TrimSpace(in.Category)

	if in.Title == "" {
		return nil, apperror.ValidationFailed("title", "title is required")
	}
	if len(in.Title) > MaxTitleLength {
		return nil, apperror.ValidationFailed("title",
			fmt.Sprintf("title must be %d characters or less", MaxTitleLength))
	}
	if in.Description == "" {
		return nil, apperror.ValidationFailed("description", "description is required")
	}
	if len(in.Description) > MaxDescriptionLength {
		return nil, apperror.ValidationFailed("description",
			fmt.Sprintf("description must be %d characters or less", MaxDescriptionLength))
	}
	if strings.TrimSpace(in.YouTubeURL) == "" {
		return nil, apperror.ValidationFailed("youtube_url", "youtube_url is required")
	}
	if in.Category == "" {
		return nil, apperror.ValidationFailed("category", "category is required")
	}
	if len(in.Category) > MaxCategoryLength {
		return nil, apperror.ValidationFailed("category",
			fmt.Sprintf("category must be %d characters or less", MaxCategoryLength))
	}

	tutorial := &model.Tutorial{
		Title:        in.Title,
		Description:  in.Description,
		YouTubeURL:   strings.TrimSpace(in.YouTubeURL),
		Category:     in.Category,
		PreviewImage: in.PreviewImage,
		CreatorID:    creator.ID,
		CreatorName:  creator.Name,
	}

	if err := s.tutorials.Create(ctx, tutorial); err != nil {
		s.logger.Error("failed to create tutorial",
			slog.String("creatorID", creator.ID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("creating tutorial: %w", err)
	}

	s.logger.Info("tutorial created",
		slog.String("id", tutorial.ID),
		slog.String("creatorID", creator.ID),
	)

	return tutorial, nil
}

// List returns tutorials matching the filter, newest first. Every
// authenticated account sees all tutorials — listing is not owner-scoped.
func (s *TutorialService) List(ctx context.Context, filter repository.TutorialFilter) ([]model.Tutorial, error) {
	filter.Category = strings.TrimSpace(filter.Category)
	filter.Search = strings.TrimSpace(filter.Search)

	tutorials, err := s.tutorials.List(ctx, filter)
	if err != nil {
		s.logger.Error("failed to list tutorials", slog.String("error", err.Error()))
		return nil, fmt.Errorf("listing tutorials: %w", err)
	}
	return tutorials, nil
}

// ListByCreator returns the creator's own tutorials, newest first.
func (s *TutorialService) ListByCreator(ctx context.Context, creatorID string) ([]model.Tutorial, error) {
	tutorials, err := s.tutorials.ListByCreator(ctx, creatorID)
	if err != nil {
		s.logger.Error("failed to list tutorials",
			slog.String("creatorID", creatorID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("listing tutorials for creator %s: %w", creatorID, err)
	}
	return tutorials, nil
}

// GetByID retrieves a tutorial. Returns apperror.ErrNotFound if absent.
func (s *TutorialService) GetByID(ctx context.Context, id string) (*model.Tutorial, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, apperror.ValidationFailed("id", "tutorial ID is required")
	}
	return s.tutorials.GetByID(ctx, id)
}

// Update applies the non-nil fields of update to the tutorial.
//
// ORDER OF CHECKS:
// NotFound before Forbidden — the ownership check needs the record, and a
// missing tutorial is a 404 regardless of who asks. Forbidden before field
// validation — a non-owner gets 403 even if their payload is garbage, so
// the error never depends on request contents.
func (s *TutorialService) Update(ctx context.Context, id, callerID string, update TutorialUpdate) (*model.Tutorial, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, apperror.ValidationFailed("id", "tutorial ID is required")
	}

	tutorial, err := s.tutorials.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if tutorial.CreatorID != callerID {
		return nil, apperror.Forbidden("not authorized to update this tutorial")
	}

	changed := false

	if update.Title != nil {
		title := strings.TrimSpace(*update.Title)
		if title == "" {
			return nil, apperror.ValidationFailed("title", "title must not be empty")
		}
		if len(title) > MaxTitleLength {
			return nil, apperror.ValidationFailed("title",
				fmt.Sprintf("title must be %d characters or less", MaxTitleLength))
		}
		tutorial.Title = title
		changed = true
	}
	if update.Description != nil {
		description := strings.TrimSpace(*update.Description)
		if description == "" {
			return nil, apperror.ValidationFailed("description", "description must not be empty")
		}
		if len(description) > MaxDescriptionLength {
			return nil, apperror.ValidationFailed("description",
				fmt.Sprintf("description must be %d characters or less", MaxDescriptionLength))
		}
		tutorial.Description = description
		changed = true
	}
	if update.YouTubeURL != nil {
		url := strings.TrimSpace(*update.YouTubeURL)
		if url == "" {
			return nil, apperror.ValidationFailed("youtube_url", "youtube_url must not be empty")
		}
		tutorial.YouTubeURL = url
		changed = true
	}
	if update.Category != nil {
		category := strings.TrimSpace(*update.Category)
		if category == "" {
			return nil, apperror.ValidationFailed("category", "category must not be empty")
		}
		tutorial.Category = category
		changed = true
	}
	if update.PreviewImage != nil {
		tutorial.PreviewImage = *update.PreviewImage
		changed = true
	}

	if !changed {
		return tutorial, nil
	}

	if err := s.tutorials.Update(ctx, tutorial); err != nil {
		s.logger.Error("failed to update tutorial",
			slog.String("id", id),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("updating tutorial: %w", err)
	}

	s.logger.Info("tutorial updated", slog.String("id", id))

	return tutorial, nil
}

// Delete removes a tutorial and every bookmark referencing it.
//
// CASCADE, NOT TRANSACTION:
// The tutorial delete and the bookmark sweep are two separate store calls.
// A crash between them leaves bookmarks pointing at a dead tutorial — a
// known, accepted weakness. Multi-document transactions would close the
// window but force a replica-set deployment. The bookmark listing tolerates
// the orphans: the $in load simply doesn't find the dead tutorial.
func (s *TutorialService) Delete(ctx context.Context, id, callerID string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return apperror.ValidationFailed("id", "tutorial ID is required")
	}

	tutorial, err := s.tutorials.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if tutorial.CreatorID != callerID {
		return apperror.Forbidden("not authorized to delete this tutorial")
	}

	if err := s.tutorials.Delete(ctx, id); err != nil {
		return err
	}

	if err := s.bookmarks.DeleteByTutorial(ctx, id); err != nil {
		// The tutorial is already gone; surface the failure so the orphaned
		// bookmarks don't vanish silently from the logs too.
		s.logger.Error("failed to cascade bookmark delete",
			slog.String("tutorialID", id),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("deleting bookmarks for tutorial %s: %w", id, err)
	}

	s.logger.Info("tutorial deleted",
		slog.String("id", id),
		slog.String("creatorID", callerID),
	)

	return nil
}
