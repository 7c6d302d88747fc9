package client

import (
	"context"
	"net/http"
	"net/url"

	"github.com/kevinaaaquil/compro/dto"
)

type UserSlice struct {
	c *Client
	listSlice[dto.UserResponse]
}

func NewUserSlice(c *Client) *UserSlice {
	return &UserSlice{c: c, listSlice: listSlice[dto.UserResponse]{id: func(u dto.UserResponse) string { return u.ID }}}
}

func (s *UserSlice) FetchAll(ctx context.Context) ([]dto.UserResponse, error) {
	s.pending()
	var out []dto.UserResponse
	if err := s.c.do(ctx, http.MethodGet, "/user", nil, &out, "Failed to fetch users"); err != nil {
		return nil, s.rejected(err)
	}
	s.replace(out)
	return out, nil
}

// FetchByKey loads a user by id or username.
func (s *UserSlice) FetchByKey(ctx context.Context, key string) (*dto.UserResponse, error) {
	s.pending()
	var out dto.UserResponse
	if err := s.c.do(ctx, http.MethodGet, "/user/"+url.PathEscape(key), nil, &out, "Failed to fetch user"); err != nil {
		return nil, s.rejected(err)
	}
	s.upsert(out, false)
	return &out, nil
}

func (s *UserSlice) Create(ctx context.Context, req dto.CreateUserRequest) (*dto.UserResponse, error) {
	s.pending()
	var out dto.UserResponse
	if err := s.c.do(ctx, http.MethodPost, "/user", req, &out, "Failed to create user"); err != nil {
		return nil, s.rejected(err)
	}
	s.upsert(out, true)
	return &out, nil
}

func (s *UserSlice) Update(ctx context.Context, id string, req dto.UpdateUserRequest) (*dto.UserResponse, error) {
	s.pending()
	var out dto.UserResponse
	if err := s.c.do(ctx, http.MethodPut, "/user/"+url.PathEscape(id), req, &out, "Failed to update user"); err != nil {
		return nil, s.rejected(err)
	}
	s.upsert(out, false)
	return &out, nil
}

func (s *UserSlice) Delete(ctx context.Context, id string) error {
	s.pending()
	if err := s.c.do(ctx, http.MethodDelete, "/user/"+url.PathEscape(id), nil, nil, "Failed to delete user"); err != nil {
		return s.rejected(err)
	}
	s.remove(id)
	return nil
}
