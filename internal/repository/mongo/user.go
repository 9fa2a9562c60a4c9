package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/xid"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/sakif/tutorial-hub/internal/apperror"
	"github.com/sakif/tutorial-hub/internal/model"
)

// UserRepo implements repository.UserRepository on the "users" collection.
type UserRepo struct {
	coll *mongo.Collection
}

// NewUserRepository creates a UserRepo backed by db's users collection.
func NewUserRepository(db *DB) *UserRepo {
	return &UserRepo{coll: db.users()}
}

// Create inserts a new user document.
//
// ID GENERATION:
// The repository — not the service — assigns IDs, so every caller gets the
// same scheme. xid gives short, sortable, globally unique strings without
// coordinating with the database.
//
// Email uniqueness is enforced by the service's check-then-insert, matching
// the rest of the app's "filters on application fields" model. The _id
// Mongo assigns is ignored everywhere; `id` is the only identifier.
func (r *UserRepo) Create(ctx context.Context, user *model.User) error {
	if user.ID == "" {
		user.ID = xid.New().String()
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}
	if user.Interests == nil {
		user.Interests = []string{}
	}

	if _, err := r.coll.InsertOne(ctx, user); err != nil {
		return fmt.Errorf("mongo: inserting user: %w", err)
	}
	return nil
}

// GetByID returns the user with the given application-level ID.
func (r *UserRepo) GetByID(ctx context.Context, id string) (*model.User, error) {
	var user model.User
	err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperror.NotFound("user", id)
		}
		return nil, fmt.Errorf("mongo: fetching user %s: %w", id, err)
	}
	return &user, nil
}

// GetByEmail looks a user up by exact email match.
// The match is case-sensitive: "A@x.com" and "a@x.com" are different keys.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	err := r.coll.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperror.NotFound("user", email)
		}
		return nil, fmt.Errorf("mongo: fetching user by email: %w", err)
	}
	return &user, nil
}

// Update writes back the user's mutable profile fields.
//
// ID, email, password hash, and created_at are deliberately absent from the
// $set — they are immutable through this path (password changes would be a
// separate, not-yet-existing flow).
func (r *UserRepo) Update(ctx context.Context, user *model.User) error {
	res, err := r.coll.UpdateOne(ctx,
		bson.M{"id": user.ID},
		bson.M{"$set": bson.M{
			"name":        user.Name,
			"role":        user.Role,
			"interests":   user.Interests,
			"skill_level": user.SkillLevel,
			"onboarded":   user.Onboarded,
		}},
	)
	if err != nil {
		return fmt.Errorf("mongo: updating user %s: %w", user.ID, err)
	}
	if res.MatchedCount == 0 {
		return apperror.NotFound("user", user.ID)
	}
	return nil
}
