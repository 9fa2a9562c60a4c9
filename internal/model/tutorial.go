package model

import "time"

// Tutorial represents a published video tutorial.
//
// CreatorName is denormalized from the creator's account at creation time.
// If the creator later renames themselves, existing tutorials keep the old
// name. That staleness is accepted — it saves a join on every list request,
// and cross-collection joins aren't available in a document store anyway.
type Tutorial struct {
	ID           string    `json:"id" bson:"id"`
	Title        string    `json:"title" bson:"title"`
	Description  string    `json:"description" bson:"description"`
	YouTubeURL   string    `json:"youtube_url" bson:"youtube_url"`
	Category     string    `json:"category" bson:"category"` // free-text tag, e.g. "Tech", "Science"
	PreviewImage string    `json:"preview_image,omitempty" bson:"preview_image,omitempty"`
	CreatorID    string    `json:"creator_id" bson:"creator_id"` // immutable after creation
	CreatorName  string    `json:"creator_name" bson:"creator_name"`
	CreatedAt    time.Time `json:"created_at" bson:"created_at"`
}
