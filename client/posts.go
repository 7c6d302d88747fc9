package client

import (
	"context"
	"net/http"
	"net/url"

	"github.com/kevinaaaquil/compro/dto"
	"github.com/kevinaaaquil/compro/models"
)

type PostSlice struct {
	c *Client
	listSlice[models.Post]
}

func NewPostSlice(c *Client) *PostSlice {
	return &PostSlice{c: c, listSlice: listSlice[models.Post]{id: func(p models.Post) string { return p.ID }}}
}

// FetchAll replaces the cached list. Empty filter fields match everything.
func (s *PostSlice) FetchAll(ctx context.Context, filter models.PostFilter) ([]models.Post, error) {
	s.pending()
	q := url.Values{}
	if filter.Status != "" {
		q.Set("status", filter.Status)
	}
	if filter.AuthorID != "" {
		q.Set("author", filter.AuthorID)
	}
	path := "/post"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}
	var out []models.Post
	if err := s.c.do(ctx, http.MethodGet, path, nil, &out, "Failed to fetch posts"); err != nil {
		return nil, s.rejected(err)
	}
	s.replace(out)
	return out, nil
}

func (s *PostSlice) FetchBySlug(ctx context.Context, slug string) (*models.Post, error) {
	s.pending()
	var out models.Post
	if err := s.c.do(ctx, http.MethodGet, "/post/"+url.PathEscape(slug), nil, &out, "Failed to fetch post"); err != nil {
		return nil, s.rejected(err)
	}
	s.upsert(out, false)
	return &out, nil
}

func (s *PostSlice) Create(ctx context.Context, req dto.CreatePostRequest) (*models.Post, error) {
	s.pending()
	var out models.Post
	if err := s.c.do(ctx, http.MethodPost, "/post", req, &out, "Failed to create post"); err != nil {
		return nil, s.rejected(err)
	}
	s.upsert(out, true)
	return &out, nil
}

func (s *PostSlice) Update(ctx context.Context, id string, req dto.UpdatePostRequest) (*models.Post, error) {
	s.pending()
	var out models.Post
	if err := s.c.do(ctx, http.MethodPut, "/post/"+url.PathEscape(id), req, &out, "Failed to update post"); err != nil {
		return nil, s.rejected(err)
	}
	s.upsert(out, false)
	return &out, nil
}

func (s *PostSlice) Delete(ctx context.Context, id string) error {
	s.pending()
	if err := s.c.do(ctx, http.MethodDelete, "/post/"+url.PathEscape(id), nil, nil, "Failed to delete post"); err != nil {
		return s.rejected(err)
	}
	s.remove(id)
	return nil
}
