package model

import "github.com/google/uuid"

// Tag labels a split with a category. Identity is the numeric id; two tags
// are the same tag iff their ids are equal, regardless of name.
type Tag struct {
	ID   int
	Name string
}

// Rule maps a description substring to a set of tags for one account.
// Matching is case-insensitive.
type Rule struct {
	ID        int
	AccountID uuid.UUID
	Contains  string
	Tags      []Tag
}
