// Package model defines the data structures used throughout the application.
// In Go, we use structs to represent our data — similar to classes in other languages,
// but without inheritance. Go favours composition over inheritance.
package model

import "time"

// Role values a user account can have. Both roles currently share all
// capabilities; the distinction only drives the frontend experience.
const (
	RoleStudent = "student"
	RoleCreator = "creator"
)

// Skill levels a user can declare during onboarding.
const (
	SkillBeginner     = "beginner"
	SkillIntermediate = "intermediate"
	SkillAdvanced     = "advanced"
)

// User represents a registered account.
//
// STRUCT TAGS, TWICE:
// Each field carries two tags — `json` controls how the API serializes the
// user, `bson` controls how the Mongo driver stores the document. They are
// independent, but we keep both in snake_case so a filter like
// {"email": ...} lines up with what's actually on disk.
//
// WHY PasswordHash IS `json:"-"`:
// The dash tells encoding/json to NEVER serialize this field. The hash is an
// internal credential — it must not appear in any API response, even by
// accident. The bson tag still persists it.
type User struct {
	ID           string    `json:"id" bson:"id"`
	Email        string    `json:"email" bson:"email"`
	Name         string    `json:"name" bson:"name"`
	PasswordHash string    `json:"-" bson:"password"`
	Role         string    `json:"role" bson:"role"`               // "student" or "creator"
	Interests    []string  `json:"interests" bson:"interests"`     // free-form topic tags
	SkillLevel   string    `json:"skill_level" bson:"skill_level"` // beginner/intermediate/advanced
	Onboarded    bool      `json:"onboarded" bson:"onboarded"`
	CreatedAt    time.Time `json:"created_at" bson:"created_at"`
}

// ValidRole reports whether r is one of the allowed role values.
func ValidRole(r string) bool {
	return r == RoleStudent || r == RoleCreator
}

// ValidSkillLevel reports whether s is one of the allowed skill levels.
func ValidSkillLevel(s string) bool {
	return s == SkillBeginner || s == SkillIntermediate || s == SkillAdvanced
}
