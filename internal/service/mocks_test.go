package service

// In-memory fakes for the three repositories, shared by the service tests.
//
// WHY HAND-WRITTEN MOCKS?
// The repositories are small interfaces, and a map-backed fake exercises
// the services exactly the way the Mongo implementation does — including
// returning apperror.ErrNotFound for absences — without a database. Each
// fake stores COPIES of the records so a test can't accidentally mutate
// the "stored" state through a returned pointer.

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strings"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/sakif/tutorial-hub/internal/apperror"
	"github.com/sakif/tutorial-hub/internal/auth"
	"github.com/sakif/tutorial-hub/internal/model"
	"github.com/sakif/tutorial-hub/internal/repository"
)

// =========================================================================
// USER REPO FAKE
// =========================================================================

type mockUserRepo struct {
	users  map[string]*model.User
	nextID int
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*model.User)}
}

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	m.nextID++
	user.ID = fmt.Sprintf("user-%d", m.nextID)
	user.CreatedAt = time.Now().UTC()
	if user.Interests == nil {
		user.Interests = []string{}
	}
	stored := *user
	m.users[user.ID] = &stored
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	user, ok := m.users[id]
	if !ok {
		return nil, apperror.NotFound("user", id)
	}
	result := *user
	return &result, nil
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for _, user := range m.users {
		// Exact match — the case-sensitivity of the contract lives here too.
		if user.Email == email {
			result := *user
			return &result, nil
		}
	}
	return nil, apperror.NotFound("user", email)
}

func (m *mockUserRepo) Update(_ context.Context, user *model.User) error {
	if _, ok := m.users[user.ID]; !ok {
		return apperror.NotFound("user", user.ID)
	}
	stored := *user
	m.users[user.ID] = &stored
	return nil
}

// =========================================================================
// TUTORIAL REPO FAKE
// =========================================================================

type mockTutorialRepo struct {
	tutorials map[string]*model.Tutorial
	nextID    int
	// clock hands out strictly increasing creation times so "newest first"
	// ordering is deterministic in tests.
	clock time.Time
}

func newMockTutorialRepo() *mockTutorialRepo {
	return &mockTutorialRepo{
		tutorials: make(map[string]*model.Tutorial),
		clock:     time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (m *mockTutorialRepo) Create(_ context.Context, tutorial *model.Tutorial) error {
	m.nextID++
	m.clock = m.clock.Add(time.Second)
	tutorial.ID = fmt.Sprintf("tut-%d", m.nextID)
	tutorial.CreatedAt = m.clock
	stored := *tutorial
	m.tutorials[tutorial.ID] = &stored
	return nil
}

func (m *mockTutorialRepo) GetByID(_ context.Context, id string) (*model.Tutorial, error) {
	tutorial, ok := m.tutorials[id]
	if !ok {
		return nil, apperror.NotFound("tutorial", id)
	}
	result := *tutorial
	return &result, nil
}

func (m *mockTutorialRepo) GetByIDs(_ context.Context, ids []string) ([]model.Tutorial, error) {
	result := []model.Tutorial{}
	for _, id := range ids {
		if tutorial, ok := m.tutorials[id]; ok {
			result = append(result, *tutorial)
		}
	}
	return result, nil
}

func (m *mockTutorialRepo) List(_ context.Context, filter repository.TutorialFilter) ([]model.Tutorial, error) {
	result := []model.Tutorial{}
	for _, tut := range m.tutorials {
		if filter.Category != "" && tut.Category != filter.Category {
			continue
		}
		if filter.Search != "" {
			needle := strings.ToLower(filter.Search)
			title := strings.ToLower(tut.Title)
			description := strings.ToLower(tut.Description)
			if !strings.Contains(title, needle) && !strings.Contains(description, needle) {
				continue
			}
		}
		result = append(result, *tut)
	}
	sortNewestFirst(result)
	return result, nil
}

func (m *mockTutorialRepo) ListByCreator(_ context.Context, creatorID string) ([]model.Tutorial, error) {
	result := []model.Tutorial{}
	for _, tut := range m.tutorials {
		if tut.CreatorID == creatorID {
			result = append(result, *tut)
		}
	}
	sortNewestFirst(result)
	return result, nil
}

func (m *mockTutorialRepo) Update(_ context.Context, tutorial *model.Tutorial) error {
	existing, ok := m.tutorials[tutorial.ID]
	if !ok {
		return apperror.NotFound("tutorial", tutorial.ID)
	}
	stored := *tutorial
	// The real store never rewrites these fields.
	stored.CreatorID = existing.CreatorID
	stored.CreatorName = existing.CreatorName
	stored.CreatedAt = existing.CreatedAt
	m.tutorials[tutorial.ID] = &stored
	return nil
}

func (m *mockTutorialRepo) Delete(_ context.Context, id string) error {
	if _, ok := m.tutorials[id]; !ok {
		return apperror.NotFound("tutorial", id)
	}
	delete(m.tutorials, id)
	return nil
}

func sortNewestFirst(tutorials []model.Tutorial) {
	sort.Slice(tutorials, func(i, j int) bool {
		return tutorials[i].CreatedAt.After(tutorials[j].CreatedAt)
	})
}

// =========================================================================
// BOOKMARK REPO FAKE
// =========================================================================

type mockBookmarkRepo struct {
	bookmarks map[string]*model.Bookmark // keyed by userID+"/"+tutorialID
	nextID    int
}

func newMockBookmarkRepo() *mockBookmarkRepo {
	return &mockBookmarkRepo{bookmarks: make(map[string]*model.Bookmark)}
}

func bookmarkKey(userID, tutorialID string) string {
	return userID + "/" + tutorialID
}

func (m *mockBookmarkRepo) Create(_ context.Context, bookmark *model.Bookmark) error {
	m.nextID++
	bookmark.ID = fmt.Sprintf("bm-%d", m.nextID)
	bookmark.CreatedAt = time.Now().UTC()
	stored := *bookmark
	m.bookmarks[bookmarkKey(bookmark.UserID, bookmark.TutorialID)] = &stored
	return nil
}

func (m *mockBookmarkRepo) Get(_ context.Context, userID, tutorialID string) (*model.Bookmark, error) {
	bookmark, ok := m.bookmarks[bookmarkKey(userID, tutorialID)]
	if !ok {
		return nil, apperror.NotFound("bookmark", tutorialID)
	}
	result := *bookmark
	return &result, nil
}

func (m *mockBookmarkRepo) ListByUser(_ context.Context, userID string) ([]model.Bookmark, error) {
	result := []model.Bookmark{}
	for _, bookmark := range m.bookmarks {
		if bookmark.UserID == userID {
			result = append(result, *bookmark)
		}
	}
	return result, nil
}

func (m *mockBookmarkRepo) Delete(_ context.Context, userID, tutorialID string) error {
	key := bookmarkKey(userID, tutorialID)
	if _, ok := m.bookmarks[key]; !ok {
		return apperror.NotFound("bookmark", tutorialID)
	}
	delete(m.bookmarks, key)
	return nil
}

func (m *mockBookmarkRepo) DeleteByTutorial(_ context.Context, tutorialID string) error {
	for key, bookmark := range m.bookmarks {
		if bookmark.TutorialID == tutorialID {
			delete(m.bookmarks, key)
		}
	}
	return nil
}

// =========================================================================
// SHARED HELPERS
// =========================================================================

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

// newTestAuthService builds an AuthService with fast bcrypt and a fixed
// token secret.
func newTestAuthService(t *testing.T) (*AuthService, *mockUserRepo) {
	t.Helper()

	users := newMockUserRepo()
	tokens, err := auth.NewTokenService("test-secret-at-least-16-chars!!")
	if err != nil {
		t.Fatalf("NewTokenService: %v", err)
	}
	passwords := auth.NewPasswordServiceWithCost(bcrypt.MinCost)
	return NewAuthService(users, tokens, passwords, testLogger()), users
}

func newTestTutorialService(t *testing.T) (*TutorialService, *mockTutorialRepo, *mockBookmarkRepo) {
	t.Helper()

	tutorials := newMockTutorialRepo()
	bookmarks := newMockBookmarkRepo()
	return NewTutorialService(tutorials, bookmarks, testLogger()), tutorials, bookmarks
}

func newTestBookmarkService(t *testing.T) (*BookmarkService, *mockBookmarkRepo, *mockTutorialRepo) {
	t.Helper()

	tutorials := newMockTutorialRepo()
	bookmarks := newMockBookmarkRepo()
	return NewBookmarkService(bookmarks, tutorials, testLogger()), bookmarks, tutorials
}
