package dto

import "encoding/json"

type CreatePostRequest struct {
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Content     json.RawMessage `json:"content"`
	Thumbnail   string          `json:"thumbnail"`
	ImageURL    string          `json:"imageUrl"`
	VideoURL    string          `json:"videoUrl"`
	Tags        []string        `json:"tags"`
	CategoryIDs []string        `json:"categoryIds"`
	Status      string          `json:"status"`
}

type UpdatePostRequest struct {
	Title       *string          `json:"title"`
	Slug        *string          `json:"slug"`
	Description *string          `json:"description"`
	Content     *json.RawMessage `json:"content"`
	Thumbnail   *string          `json:"thumbnail"`
	ImageURL    *string          `json:"imageUrl"`
	VideoURL    *string          `json:"videoUrl"`
	Tags        *[]string        `json:"tags"`
	CategoryIDs *[]string        `json:"categoryIds"`
	Status      *string          `json:"status"`
}

type CategoryRequest struct {
	Name string `json:"name"`
}
