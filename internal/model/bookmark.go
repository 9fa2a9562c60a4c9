package model

import "time"

// Bookmark links a user to a tutorial they saved.
//
// At most one bookmark exists per (UserID, TutorialID) pair — creating the
// same bookmark twice returns the existing record instead of a duplicate.
// TutorialID is not validated against the tutorials collection; a bookmark
// can briefly reference a tutorial deleted under race, which the cascade in
// the tutorial service cleans up.
type Bookmark struct {
	ID         string    `json:"id" bson:"id"`
	UserID     string    `json:"user_id" bson:"user_id"`
	TutorialID string    `json:"tutorial_id" bson:"tutorial_id"`
	CreatedAt  time.Time `json:"created_at" bson:"created_at"`
}
