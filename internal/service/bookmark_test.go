package service

import (
	"context"
	"errors"
	"testing"

	"github.com/sakif/tutorial-hub/internal/apperror"
	"github.com/sakif/tutorial-hub/internal/model"
)

// =========================================================================
// CREATE TESTS
// =========================================================================

func TestBookmarkCreate_Success(t *testing.T) {
	svc, _, _ := newTestBookmarkService(t)

	bookmark, err := svc.Create(context.Background(), "user-a", "tut-1")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if bookmark.ID == "" {
		t.Error("expected bookmark to have an ID")
	}
	if bookmark.UserID != "user-a" || bookmark.TutorialID != "tut-1" {
		t.Errorf("bookmark = %+v, want user-a/tut-1", bookmark)
	}
}

func TestBookmarkCreate_Idempotent(t *testing.T) {
	svc, _, _ := newTestBookmarkService(t)

	first, err := svc.Create(context.Background(), "user-a", "tut-1")
	if err != nil {
		t.Fatalf("first Create() error = %v", err)
	}

	second, err := svc.Create(context.Background(), "user-a", "tut-1")
	if err != nil {
		t.Fatalf("second Create() error = %v", err)
	}

	// Same identifier both times — the second call returned the existing
	// record instead of duplicating or erroring.
	if first.ID != second.ID {
		t.Errorf("idempotent create returned different IDs: %q vs %q", first.ID, second.ID)
	}
	if !first.CreatedAt.Equal(second.CreatedAt) {
		t.Error("idempotent create should not refresh CreatedAt")
	}
}

func TestBookmarkCreate_DistinctPerUser(t *testing.T) {
	svc, _, _ := newTestBookmarkService(t)

	a, _ := svc.Create(context.Background(), "user-a", "tut-1")
	b, _ := svc.Create(context.Background(), "user-b", "tut-1")

	// Different users bookmarking the same tutorial get separate records
	if a.ID == b.ID {
		t.Error("two users' bookmarks of the same tutorial must be distinct records")
	}
}

func TestBookmarkCreate_DoesNotValidateTutorialExists(t *testing.T) {
	svc, _, _ := newTestBookmarkService(t)

	// "ghost" was never created in the tutorial repo — creation still
	// succeeds; dangling references are an accepted gap.
	if _, err := svc.Create(context.Background(), "user-a", "ghost"); err != nil {
		t.Errorf("Create() should not validate tutorial existence, got %v", err)
	}
}

func TestBookmarkCreate_EmptyTutorialID(t *testing.T) {
	svc, _, _ := newTestBookmarkService(t)

	_, err := svc.Create(context.Background(), "user-a", "")
	if !errors.Is(err, apperror.ErrValidation) {
		t.Errorf("error = %v, want ErrValidation", err)
	}
}

// =========================================================================
// LIST TESTS
// =========================================================================

func TestListTutorials_EmptyWithoutBookmarks(t *testing.T) {
	svc, _, _ := newTestBookmarkService(t)

	got, err := svc.ListTutorials(context.Background(), "user-a")
	if err != nil {
		t.Fatalf("ListTutorials() error = %v", err)
	}
	if got == nil {
		t.Error("ListTutorials() should return an empty slice, not nil")
	}
	if len(got) != 0 {
		t.Errorf("ListTutorials() = %v, want empty", got)
	}
}

func TestListTutorials_ResolvesFullRecords(t *testing.T) {
	svc, _, tutorialRepo := newTestBookmarkService(t)

	tut := &model.Tutorial{Title: "Saved one", Description: "d", Category: "Tech", CreatorID: "user-x"}
	tutorialRepo.Create(context.Background(), tut)

	svc.Create(context.Background(), "user-a", tut.ID)

	got, err := svc.ListTutorials(context.Background(), "user-a")
	if err != nil {
		t.Fatalf("ListTutorials() error = %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("ListTutorials() returned %d tutorials, want 1", len(got))
	}
	if got[0].Title != "Saved one" {
		t.Errorf("Title = %q, want the resolved tutorial record", got[0].Title)
	}
}

func TestListTutorials_SkipsDanglingReferences(t *testing.T) {
	svc, _, tutorialRepo := newTestBookmarkService(t)

	tut := &model.Tutorial{Title: "Real", Description: "d", Category: "Tech", CreatorID: "user-x"}
	tutorialRepo.Create(context.Background(), tut)

	svc.Create(context.Background(), "user-a", tut.ID)
	svc.Create(context.Background(), "user-a", "deleted-tutorial")

	got, err := svc.ListTutorials(context.Background(), "user-a")
	if err != nil {
		t.Fatalf("ListTutorials() error = %v", err)
	}
	// The dangling bookmark resolves to nothing and is silently dropped
	if len(got) != 1 {
		t.Errorf("ListTutorials() returned %d tutorials, want 1 (dangling ref skipped)", len(got))
	}
}

// =========================================================================
// REMOVE TESTS
// =========================================================================

func TestBookmarkRemove_Success(t *testing.T) {
	svc, _, _ := newTestBookmarkService(t)

	svc.Create(context.Background(), "user-a", "tut-1")

	if err := svc.Remove(context.Background(), "user-a", "tut-1"); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}

	exists, _ := svc.Exists(context.Background(), "user-a", "tut-1")
	if exists {
		t.Error("bookmark should be gone after Remove()")
	}
}

func TestBookmarkRemove_NotFound(t *testing.T) {
	svc, _, _ := newTestBookmarkService(t)

	err := svc.Remove(context.Background(), "user-a", "never-bookmarked")
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

func TestBookmarkRemove_OnlyTouchesCallersBookmark(t *testing.T) {
	svc, _, _ := newTestBookmarkService(t)

	svc.Create(context.Background(), "user-a", "tut-1")
	svc.Create(context.Background(), "user-b", "tut-1")

	svc.Remove(context.Background(), "user-a", "tut-1")

	exists, _ := svc.Exists(context.Background(), "user-b", "tut-1")
	if !exists {
		t.Error("removing user-a's bookmark must not touch user-b's")
	}
}

// =========================================================================
// EXISTS TESTS
// =========================================================================

func TestBookmarkExists(t *testing.T) {
	svc, _, _ := newTestBookmarkService(t)

	exists, err := svc.Exists(context.Background(), "user-a", "tut-1")
	if err != nil {
		t.Fatalf("Exists() on absent bookmark should not error, got %v", err)
	}
	if exists {
		t.Error("Exists() = true for a bookmark that was never created")
	}

	svc.Create(context.Background(), "user-a", "tut-1")

	exists, err = svc.Exists(context.Background(), "user-a", "tut-1")
	if err != nil {
		t.Fatalf("Exists() error = %v", err)
	}
	if !exists {
		t.Error("Exists() = false for a bookmark that was just created")
	}
}

// =========================================================================
// SCENARIO: bookmark, then the tutorial is deleted by its owner
// =========================================================================

func TestScenario_BookmarkedTutorialDeletedByOwner(t *testing.T) {
	// Wire a tutorial service and a bookmark service over the SAME repos,
	// the way server.go does it.
	tutorialRepo := newMockTutorialRepo()
	bookmarkRepo := newMockBookmarkRepo()
	logger := testLogger()
	tutorials := NewTutorialService(tutorialRepo, bookmarkRepo, logger)
	bookmarksSvc := NewBookmarkService(bookmarkRepo, tutorialRepo, logger)

	owner := &model.User{ID: "user-owner", Name: "Owner"}
	created, err := tutorials.Create(context.Background(), owner, validTutorial())
	if err != nil {
		t.Fatalf("setup: Create() error = %v", err)
	}

	// Account B bookmarks the tutorial
	if _, err := bookmarksSvc.Create(context.Background(), "user-b", created.ID); err != nil {
		t.Fatalf("setup: bookmark Create() error = %v", err)
	}

	// The owner deletes it
	if err := tutorials.Delete(context.Background(), created.ID, owner.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	// B's bookmark list is now empty — both the record and its resolution
	got, err := bookmarksSvc.ListTutorials(context.Background(), "user-b")
	if err != nil {
		t.Fatalf("ListTutorials() error = %v", err)
	}
	if len(got) != 0 {
		t.Errorf("ListTutorials() = %v, want empty after the cascade", got)
	}

	exists, _ := bookmarksSvc.Exists(context.Background(), "user-b", created.ID)
	if exists {
		t.Error("Exists() should be false after the cascade")
	}
}
