package client

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kevinaaaquil/compro/dto"
	"github.com/kevinaaaquil/compro/models"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// postServer serves a tiny in-memory /post API.
func postServer(t *testing.T) *httptest.Server {
	t.Helper()
	var mu sync.Mutex
	posts := []models.Post{{ID: "p1", Title: "One", Slug: "one"}, {ID: "p2", Title: "Two", Slug: "two"}}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /post", func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		defer mu.Unlock()
		if r.URL.Query().Get("status") == "BROKEN" {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, posts)
	})
	mux.HandleFunc("GET /post/{slug}", func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		defer mu.Unlock()
		for _, p := range posts {
			if p.Slug == r.PathValue("slug") {
				writeJSON(w, http.StatusOK, p)
				return
			}
		}
		writeJSON(w, http.StatusNotFound, dto.ErrorResponse{Error: "post not found"})
	})
	mux.HandleFunc("POST /post", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok" {
			writeJSON(w, http.StatusUnauthorized, dto.ErrorResponse{Error: "unauthorized"})
			return
		}
		var req dto.CreatePostRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		writeJSON(w, http.StatusCreated, models.Post{ID: "p3", Title: req.Title, Slug: "three"})
	})
	mux.HandleFunc("PUT /post/{id}", func(w http.ResponseWriter, r *http.Request) {
		var req dto.UpdatePostRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		writeJSON(w, http.StatusOK, models.Post{ID: r.PathValue("id"), Title: *req.Title, Slug: "two"})
	})
	mux.HandleFunc("DELETE /post/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	mux.HandleFunc("POST /auth/login", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, dto.LoginResponse{Token: "tok"})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func ids(items []models.Post) []string {
	out := make([]string, 0, len(items))
	for _, p := range items {
		out = append(out, p.ID)
	}
	return out
}

func TestPostSlice_Lifecycle(t *testing.T) {
	srv := postServer(t)
	c := New(srv.URL, srv.Client())
	s := NewPostSlice(c)
	ctx := t.Context()

	_, err := s.FetchAll(ctx, models.PostFilter{})
	require.NoError(t, err)
	if diff := cmp.Diff([]string{"p1", "p2"}, ids(s.State().Items)); diff != "" {
		t.Fatalf("after fetchAll (-want +got):\n%s", diff)
	}

	_, err = s.Create(ctx, dto.CreatePostRequest{Title: "Three"})
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
	assert.Equal(t, "unauthorized", s.State().Error)

	_, err = c.Login(ctx, "a@example.com", "pw")
	require.NoError(t, err)

	_, err = s.Create(ctx, dto.CreatePostRequest{Title: "Three"})
	require.NoError(t, err)
	st := s.State()
	assert.Empty(t, st.Error)
	assert.False(t, st.Loading)
	if diff := cmp.Diff([]string{"p3", "p1", "p2"}, ids(st.Items)); diff != "" {
		t.Fatalf("after create (-want +got):\n%s", diff)
	}

	title := "Two v2"
	_, err = s.Update(ctx, "p2", dto.UpdatePostRequest{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, "Two v2", s.State().Items[2].Title)

	require.NoError(t, s.Delete(ctx, "p1"))
	if diff := cmp.Diff([]string{"p3", "p2"}, ids(s.State().Items)); diff != "" {
		t.Fatalf("after delete (-want +got):\n%s", diff)
	}
}

func TestPostSlice_NotFoundKeepsItems(t *testing.T) {
	srv := postServer(t)
	s := NewPostSlice(New(srv.URL, srv.Client()))
	ctx := t.Context()

	_, err := s.FetchAll(ctx, models.PostFilter{})
	require.NoError(t, err)
	before := s.State().Items

	_, err = s.FetchBySlug(ctx, "missing")
	require.Error(t, err)
	st := s.State()
	assert.Equal(t, "post not found", st.Error)
	assert.False(t, st.Loading)
	if diff := cmp.Diff(before, st.Items); diff != "" {
		t.Fatalf("items changed (-want +got):\n%s", diff)
	}

	_, err = s.FetchBySlug(ctx, "one")
	require.NoError(t, err)
	assert.Empty(t, s.State().Error)
	assert.Len(t, s.State().Items, 2)
}

func TestPostSlice_FallbackMessage(t *testing.T) {
	srv := postServer(t)
	s := NewPostSlice(New(srv.URL, srv.Client()))

	_, err := s.FetchAll(t.Context(), models.PostFilter{Status: "BROKEN"})
	require.Error(t, err)
	assert.Equal(t, "Failed to fetch posts", s.State().Error)
	assert.Equal(t, "500: Failed to fetch posts", err.Error())
}

func TestProfileSlice(t *testing.T) {
	var profile *models.WebsiteProfile
	mux := http.NewServeMux()
	mux.HandleFunc("GET /website", func(w http.ResponseWriter, r *http.Request) {
		if profile == nil {
			writeJSON(w, http.StatusNotFound, dto.ErrorResponse{Error: "website profile not found"})
			return
		}
		writeJSON(w, http.StatusOK, profile)
	})
	mux.HandleFunc("POST /website", func(w http.ResponseWriter, r *http.Request) {
		var req dto.WebsiteProfileRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		profile = models.NewWebsiteProfile(*req.Name)
		writeJSON(w, http.StatusCreated, profile)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	s := NewProfileSlice(New(srv.URL, srv.Client()))
	_, err := s.Fetch(t.Context())
	require.Error(t, err)
	assert.Equal(t, "website profile not found", s.State().Error)
	assert.Nil(t, s.State().Data)

	name := "Acme"
	_, err = s.Create(t.Context(), dto.WebsiteProfileRequest{Name: &name})
	require.NoError(t, err)
	st := s.State()
	assert.Empty(t, st.Error)
	require.NotNil(t, st.Data)
	assert.Equal(t, "Acme", st.Data.Name)
}

func TestUserSlice_Upsert(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /user/{key}", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, dto.UserResponse{ID: "u-" + r.PathValue("key"), Username: r.PathValue("key")})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	s := NewUserSlice(New(srv.URL, srv.Client()))
	for _, key := range []string{"ann", "bob", "ann"} {
		_, err := s.FetchByKey(t.Context(), key)
		require.NoError(t, err)
	}
	got := s.State().Items
	require.Len(t, got, 2)
	assert.Equal(t, "u-ann", got[0].ID)
	assert.Equal(t, "u-bob", got[1].ID)
}

func TestNew_DefaultsToDefaultClient(t *testing.T) {
	c := New("http://localhost:8080/api/", nil)
	assert.Same(t, http.DefaultClient, c.http)
	assert.Zero(t, c.http.Timeout)
	assert.Equal(t, "http://localhost:8080/api", c.baseURL)
}
