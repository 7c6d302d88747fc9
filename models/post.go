package models

import (
	"encoding/json"
	"time"
)

const (
	StatusDraft     = "DRAFT"
	StatusPublished = "PUBLISHED"
	StatusArchived  = "ARCHIVED"
)

var ValidStatuses = []string{StatusDraft, StatusPublished, StatusArchived}

func StatusValid(s string) bool {
	for _, v := range ValidStatuses {
		if v == s {
			return true
		}
	}
	return false
}

type Post struct {
	ID          string          `bson:"_id" json:"id"`
	AuthorID    string          `bson:"authorId" json:"authorId"`
	Title       string          `bson:"title" json:"title"`
	Slug        string          `bson:"slug" json:"slug"`
	Description string          `bson:"description" json:"description"`
	Content     json.RawMessage `bson:"-" json:"content"` // editor document, converted by each store
	Thumbnail   string          `bson:"thumbnail,omitempty" json:"thumbnail,omitempty"`
	ImageURL    string          `bson:"imageUrl,omitempty" json:"imageUrl,omitempty"`
	VideoURL    string          `bson:"videoUrl,omitempty" json:"videoUrl,omitempty"`
	Tags        []string        `bson:"tags" json:"tags"`
	CategoryIDs []string        `bson:"categoryIds" json:"categoryIds"`
	Status      string          `bson:"status" json:"status"`
	CreatedAt   time.Time       `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time       `bson:"updatedAt" json:"updatedAt"`

	// Filled by the store on reads.
	Author     *AuthorSummary    `bson:"-" json:"author,omitempty"`
	Categories []CategorySummary `bson:"-" json:"categories"`
}

type AuthorSummary struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	FullName string `json:"fullName"`
}

type CategorySummary struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// PostFilter narrows List; zero values match everything.
type PostFilter struct {
	Status   string
	AuthorID string
}

type PostUpdate struct {
	Title       *string
	Slug        *string
	Description *string
	Content     *json.RawMessage
	Thumbnail   *string
	ImageURL    *string
	VideoURL    *string
	Tags        *[]string
	CategoryIDs *[]string
	Status      *string
}
