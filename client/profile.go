package client

import (
	"context"
	"net/http"
	"sync"

	"github.com/kevinaaaquil/compro/dto"
	"github.com/kevinaaaquil/compro/models"
)

type ProfileState struct {
	Data    *models.WebsiteProfile
	Loading bool
	Error   string
}

// ProfileSlice caches the website profile.
type ProfileSlice struct {
	c     *Client
	mu    sync.Mutex
	state ProfileState
}

func NewProfileSlice(c *Client) *ProfileSlice {
	return &ProfileSlice{c: c}
}

func (s *ProfileSlice) State() ProfileState {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.state
	if st.Data != nil {
		d := *st.Data
		st.Data = &d
	}
	return st
}

func (s *ProfileSlice) run(ctx context.Context, method string, in interface{}, fallback string) (*models.WebsiteProfile, error) {
	s.mu.Lock()
	s.state.Loading = true
	s.state.Error = ""
	s.mu.Unlock()

	var out models.WebsiteProfile
	err := s.c.do(ctx, method, "/website", in, &out, fallback)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Loading = false
	if err != nil {
		s.state.Error = errorMessage(err)
		return nil, err
	}
	s.state.Data = &out
	return &out, nil
}

func (s *ProfileSlice) Fetch(ctx context.Context) (*models.WebsiteProfile, error) {
	return s.run(ctx, http.MethodGet, nil, "Failed to fetch website profile")
}

func (s *ProfileSlice) Create(ctx context.Context, req dto.WebsiteProfileRequest) (*models.WebsiteProfile, error) {
	return s.run(ctx, http.MethodPost, req, "Failed to create website profile")
}

func (s *ProfileSlice) Update(ctx context.Context, req dto.WebsiteProfileRequest) (*models.WebsiteProfile, error) {
	return s.run(ctx, http.MethodPut, req, "Failed to update website profile")
}
