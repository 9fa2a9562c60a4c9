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
	"github.com/sakif/tutorial-hub/internal/repository"
)

// newestFirst sorts by creation time, descending. Ties at the same instant
// come back in unspecified order, which is fine — xid IDs make true ties
// vanishingly rare and the contract doesn't order them.
var newestFirst = bson.D{{Key: "created_at", Value: -1}}

// TutorialRepo implements repository.TutorialRepository on the "tutorials"
// collection.
type TutorialRepo struct {
	coll *mongo.Collection
}

// NewTutorialRepository creates a TutorialRepo backed by db's tutorials
// collection.
func NewTutorialRepository(db *DB) *TutorialRepo {
	return &TutorialRepo{coll: db.tutorials()}
}

// Create inserts a new tutorial, assigning ID and CreatedAt if unset.
func (r *TutorialRepo) Create(ctx context.Context, tutorial *model.Tutorial) error {
	if tutorial.ID == "" {
		tutorial.ID = xid.New().String()
	}
	if tutorial.CreatedAt.IsZero() {
		tutorial.CreatedAt = time.Now().UTC()
	}

	if _, err := r.coll.InsertOne(ctx, tutorial); err != nil {
		return fmt.Errorf("mongo: inserting tutorial: %w", err)
	}
	return nil
}

// GetByID returns a single tutorial or apperror.ErrNotFound.
func (r *TutorialRepo) GetByID(ctx context.Context, id string) (*model.Tutorial, error) {
	var tutorial model.Tutorial
	err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&tutorial)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperror.NotFound("tutorial", id)
		}
		return nil, fmt.Errorf("mongo: fetching tutorial %s: %w", id, err)
	}
	return &tutorial, nil
}

// GetByIDs batch-loads the tutorials whose IDs appear in ids.
//
// A single $in query instead of N point lookups — this is the app's only
// cross-collection reference (bookmarks → tutorials) and resolving it in
// one round trip keeps the bookmark listing at O(1) queries.
func (r *TutorialRepo) GetByIDs(ctx context.Context, ids []string) ([]model.Tutorial, error) {
	if len(ids) == 0 {
		return []model.Tutorial{}, nil
	}

	return r.find(ctx, bson.M{"id": bson.M{"$in": ids}})
}

// List returns tutorials matching the filter, newest first.
//
// Category is an exact match on the stored tag. Search is a
// case-insensitive substring test ($regex with the "i" option) against
// title OR description.
func (r *TutorialRepo) List(ctx context.Context, filter repository.TutorialFilter) ([]model.Tutorial, error) {
	query := bson.M{}

	if filter.Category != "" {
		query["category"] = filter.Category
	}
	if filter.Search != "" {
		pattern := bson.M{"$regex": filter.Search, "$options": "i"}
		query["$or"] = bson.A{
			bson.M{"title": pattern},
			bson.M{"description": pattern},
		}
	}

	return r.find(ctx, query)
}

// ListByCreator returns the creator's tutorials, newest first.
func (r *TutorialRepo) ListByCreator(ctx context.Context, creatorID string) ([]model.Tutorial, error) {
	return r.find(ctx, bson.M{"creator_id": creatorID})
}

// Update writes back a tutorial's mutable fields.
// CreatorID, CreatorName, and CreatedAt never change after creation, so
// they're excluded from the $set.
func (r *TutorialRepo) Update(ctx context.Context, tutorial *model.Tutorial) error {
	res, err := r.coll.UpdateOne(ctx,
		bson.M{"id": tutorial.ID},
		bson.M{"$set": bson.M{
			"title":         tutorial.Title,
			"description":   tutorial.Description,
			"youtube_url":   tutorial.YouTubeURL,
			"category":      tutorial.Category,
			"preview_image": tutorial.PreviewImage,
		}},
	)
	if err != nil {
		return fmt.Errorf("mongo: updating tutorial %s: %w", tutorial.ID, err)
	}
	if res.MatchedCount == 0 {
		return apperror.NotFound("tutorial", tutorial.ID)
	}
	return nil
}

// Delete removes a tutorial by ID.
func (r *TutorialRepo) Delete(ctx context.Context, id string) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return fmt.Errorf("mongo: deleting tutorial %s: %w", id, err)
	}
	if res.DeletedCount == 0 {
		return apperror.NotFound("tutorial", id)
	}
	return nil
}

// find runs a query with the shared sort and limit and decodes the cursor
// into a slice. An empty result is an empty slice, not nil, so handlers
// serialize [] rather than null.
func (r *TutorialRepo) find(ctx context.Context, query bson.M) ([]model.Tutorial, error) {
	cursor, err := r.coll.Find(ctx, query,
		options.Find().SetSort(newestFirst).SetLimit(listLimit))
	if err != nil {
		return nil, fmt.Errorf("mongo: listing tutorials: %w", err)
	}

	tutorials := []model.Tutorial{}
	if err := cursor.All(ctx, &tutorials); err != nil {
		return nil, fmt.Errorf("mongo: decoding tutorials: %w", err)
	}
	return tutorials, nil
}
