package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/xid"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/sakif/tutorial-hub/internal/apperror"
	"github.com/sakif/tutorial-hub/internal/model"
)

// BookmarkRepo implements repository.BookmarkRepository on the "bookmarks"
// collection.
type BookmarkRepo struct {
	coll *mongo.Collection
}

// NewBookmarkRepository creates a BookmarkRepo backed by db's bookmarks
// collection.
func NewBookmarkRepository(db *DB) *BookmarkRepo {
	return &BookmarkRepo{coll: db.bookmarks()}
}

// Create inserts a new bookmark, assigning ID and CreatedAt if unset.
//
// Uniqueness of the (user_id, tutorial_id) pair is the bookmark service's
// check-then-insert responsibility; the collection itself carries no unique
// index, same as the rest of the schema-less store.
func (r *BookmarkRepo) Create(ctx context.Context, bookmark *model.Bookmark) error {
	if bookmark.ID == "" {
		bookmark.ID = xid.New().String()
	}
	if bookmark.CreatedAt.IsZero() {
		bookmark.CreatedAt = time.Now().UTC()
	}

	if _, err := r.coll.InsertOne(ctx, bookmark); err != nil {
		return fmt.Errorf("mongo: inserting bookmark: %w", err)
	}
	return nil
}

// Get returns the bookmark for the (userID, tutorialID) pair.
func (r *BookmarkRepo) Get(ctx context.Context, userID, tutorialID string) (*model.Bookmark, error) {
	var bookmark model.Bookmark
	err := r.coll.FindOne(ctx, bson.M{
		"user_id":     userID,
		"tutorial_id": tutorialID,
	}).Decode(&bookmark)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperror.NotFound("bookmark", tutorialID)
		}
		return nil, fmt.Errorf("mongo: fetching bookmark: %w", err)
	}
	return &bookmark, nil
}

// ListByUser returns the user's bookmarks, newest first.
func (r *BookmarkRepo) ListByUser(ctx context.Context, userID string) ([]model.Bookmark, error) {
	cursor, err := r.coll.Find(ctx, bson.M{"user_id": userID},
		options.Find().SetSort(newestFirst).SetLimit(listLimit))
	if err != nil {
		return nil, fmt.Errorf("mongo: listing bookmarks for user %s: %w", userID, err)
	}

	bookmarks := []model.Bookmark{}
	if err := cursor.All(ctx, &bookmarks); err != nil {
		return nil, fmt.Errorf("mongo: decoding bookmarks: %w", err)
	}
	return bookmarks, nil
}

// Delete removes the bookmark for the (userID, tutorialID) pair.
// Returns apperror.ErrNotFound if nothing matched — the HTTP layer turns
// that into a 404 so clients learn the bookmark was never there.
func (r *BookmarkRepo) Delete(ctx context.Context, userID, tutorialID string) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{
		"user_id":     userID,
		"tutorial_id": tutorialID,
	})
	if err != nil {
		return fmt.Errorf("mongo: deleting bookmark: %w", err)
	}
	if res.DeletedCount == 0 {
		return apperror.NotFound("bookmark", tutorialID)
	}
	return nil
}

// DeleteByTutorial removes every bookmark referencing tutorialID, across
// all users. Zero deletions is not an error — a tutorial nobody bookmarked
// still deletes cleanly.
func (r *BookmarkRepo) DeleteByTutorial(ctx context.Context, tutorialID string) error {
	if _, err := r.coll.DeleteMany(ctx, bson.M{"tutorial_id": tutorialID}); err != nil {
		return fmt.Errorf("mongo: deleting bookmarks for tutorial %s: %w", tutorialID, err)
	}
	return nil
}
