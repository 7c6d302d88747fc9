package handlers

import (
	"encoding/json"
	"net/http"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kevinaaaquil/compro/dto"
	"github.com/kevinaaaquil/compro/models"
)

const docContent = `{"type":"doc","content":[{"type":"heading","attrs":{"level":1},"content":[{"type":"text","text":"Launch"}]},{"type":"paragraph","content":[{"type":"text","text":"We ship."}]}]}`

func (e *testEnv) createPost(t *testing.T, token, title string, categoryIDs ...string) models.Post {
	t.Helper()
	rec := e.do(t, http.MethodPost, "/api/post", token, dto.CreatePostRequest{
		Title:       title,
		Content:     json.RawMessage(docContent),
		Tags:        []string{"news", " news ", ""},
		CategoryIDs: categoryIDs,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var p models.Post
	decode(t, rec, &p)
	return p
}

func TestPosts_Create(t *testing.T) {
	env := newTestEnv(t, false)
	manager, managerTok := env.seedUser(t, "manager", models.RoleManager)
	_, memberTok := env.seedUser(t, "member", models.RoleMember)
	cat := &models.Category{ID: "c1", Name: "News", Slug: "news"}
	require.NoError(t, env.store.CreateCategory(t.Context(), cat))

	assert.Equal(t, http.StatusUnauthorized, env.do(t, http.MethodPost, "/api/post", "", dto.CreatePostRequest{Title: "x"}).Code)
	assert.Equal(t, http.StatusForbidden, env.do(t, http.MethodPost, "/api/post", memberTok, dto.CreatePostRequest{Title: "x"}).Code)

	p := env.createPost(t, managerTok, "Hello World!!", cat.ID)
	assert.Regexp(t, regexp.MustCompile(`^\d+-hello-world$`), p.Slug)
	assert.Equal(t, models.StatusDraft, p.Status)
	assert.Equal(t, manager.ID, p.AuthorID)
	assert.Equal(t, []string{"news"}, p.Tags)
	require.NotNil(t, p.Author)
	assert.Equal(t, "manager", p.Author.Username)
	assert.Equal(t, []models.CategorySummary{{ID: "c1", Name: "News"}}, p.Categories)

	tests := []struct {
		name string
		req  dto.CreatePostRequest
	}{
		{"missing title", dto.CreatePostRequest{Title: "  "}},
		{"bad content", dto.CreatePostRequest{Title: "t", Content: json.RawMessage(`[1]`)}},
		{"bad status", dto.CreatePostRequest{Title: "t", Status: "LIVE"}},
		{"unknown category", dto.CreatePostRequest{Title: "t", CategoryIDs: []string{"nope"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, http.StatusBadRequest, env.do(t, http.MethodPost, "/api/post", managerTok, tt.req).Code)
		})
	}
}

func TestPosts_ListAndGet(t *testing.T) {
	env := newTestEnv(t, false)
	_, tok := env.seedUser(t, "manager", models.RoleManager)
	p := env.createPost(t, tok, "First")

	rec := env.do(t, http.MethodGet, "/api/post", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var list []models.Post
	decode(t, rec, &list)
	require.Len(t, list, 1)

	rec = env.do(t, http.MethodGet, "/api/post?status=published", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())

	assert.Equal(t, http.StatusBadRequest, env.do(t, http.MethodGet, "/api/post?status=bogus", "", nil).Code)

	rec = env.do(t, http.MethodGet, "/api/post/"+p.Slug, "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, http.StatusNotFound, env.do(t, http.MethodGet, "/api/post/missing", "", nil).Code)
}

func TestPosts_Export(t *testing.T) {
	env := newTestEnv(t, false)
	_, tok := env.seedUser(t, "manager", models.RoleManager)
	p := env.createPost(t, tok, "Export me")

	rec := env.do(t, http.MethodGet, "/api/post/"+p.Slug+"/export?format=markdown", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "# Launch")
	assert.Equal(t, `attachment; filename="`+p.Slug+`.md"`, rec.Header().Get("Content-Disposition"))

	rec = env.do(t, http.MethodGet, "/api/post/"+p.Slug+"/export", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "<h1>Launch</h1><p>We ship.</p>", rec.Body.String())

	rec = env.do(t, http.MethodGet, "/api/post/"+p.Slug+"/export?format=docx", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "PK", rec.Body.String()[:2])

	assert.Equal(t, http.StatusBadRequest, env.do(t, http.MethodGet, "/api/post/"+p.Slug+"/export?format=pdf", "", nil).Code)
}

func TestPosts_UpdateAndDelete(t *testing.T) {
	env := newTestEnv(t, false)
	_, authorTok := env.seedUser(t, "author", models.RoleManager)
	_, memberTok := env.seedUser(t, "member", models.RoleMember)
	_, adminTok := env.seedUser(t, "root", models.RoleSuperAdmin)
	p := env.createPost(t, authorTok, "Original")
	other := env.createPost(t, authorTok, "Other")

	rec := env.do(t, http.MethodPut, "/api/post/"+p.ID, memberTok, dto.UpdatePostRequest{Title: strPtr("x")})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	cat := &models.Category{ID: "c9", Name: "Events", Slug: "events"}
	require.NoError(t, env.store.CreateCategory(t.Context(), cat))
	status := models.StatusPublished
	content := json.RawMessage(`{"type":"doc","content":[{"type":"paragraph","content":[{"type":"text","text":"Updated."}]}]}`)
	rec = env.do(t, http.MethodPut, "/api/post/"+p.ID, authorTok, dto.UpdatePostRequest{
		Title:       strPtr("Renamed"),
		Slug:        strPtr("  My Custom Slug "),
		Description: strPtr("Short summary"),
		Content:     &content,
		Thumbnail:   strPtr("/media/images/thumb.png"),
		ImageURL:    strPtr("/media/images/cover.png"),
		VideoURL:    strPtr("https://video.example.com/v/1"),
		Tags:        &[]string{"launch", " launch", "press"},
		CategoryIDs: &[]string{cat.ID},
		Status:      &status,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var got models.Post
	decode(t, rec, &got)
	assert.Equal(t, "my-custom-slug", got.Slug)

	rec = env.do(t, http.MethodGet, "/api/post/my-custom-slug", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var stored models.Post
	decode(t, rec, &stored)
	assert.Equal(t, p.ID, stored.ID)
	assert.Equal(t, "Renamed", stored.Title)
	assert.Equal(t, "Short summary", stored.Description)
	assert.JSONEq(t, string(content), string(stored.Content))
	assert.Equal(t, "/media/images/thumb.png", stored.Thumbnail)
	assert.Equal(t, "/media/images/cover.png", stored.ImageURL)
	assert.Equal(t, "https://video.example.com/v/1", stored.VideoURL)
	assert.Equal(t, []string{"launch", "press"}, stored.Tags)
	assert.Equal(t, []string{cat.ID}, stored.CategoryIDs)
	assert.Equal(t, []models.CategorySummary{{ID: cat.ID, Name: "Events"}}, stored.Categories)
	assert.Equal(t, models.StatusPublished, stored.Status)

	rec = env.do(t, http.MethodPut, "/api/post/"+other.ID, adminTok, dto.UpdatePostRequest{Slug: strPtr("my-custom-slug")})
	assert.Equal(t, http.StatusConflict, rec.Code)

	assert.Equal(t, http.StatusNotFound, env.do(t, http.MethodPut, "/api/post/missing", adminTok, dto.UpdatePostRequest{}).Code)
	assert.Equal(t, http.StatusUnauthorized, env.do(t, http.MethodDelete, "/api/post/"+p.ID, memberTok, nil).Code)
	assert.Equal(t, http.StatusNoContent, env.do(t, http.MethodDelete, "/api/post/"+p.ID, adminTok, nil).Code)
	assert.Equal(t, http.StatusNotFound, env.do(t, http.MethodGet, "/api/post/my-custom-slug", "", nil).Code)
}

func TestCategories(t *testing.T) {
	env := newTestEnv(t, false)
	_, managerTok := env.seedUser(t, "manager", models.RoleManager)
	_, memberTok := env.seedUser(t, "member", models.RoleMember)

	assert.Equal(t, http.StatusForbidden, env.do(t, http.MethodPost, "/api/category", memberTok, dto.CategoryRequest{Name: "News"}).Code)

	rec := env.do(t, http.MethodPost, "/api/category", managerTok, dto.CategoryRequest{Name: "Company News"})
	require.Equal(t, http.StatusCreated, rec.Code)
	var c models.Category
	decode(t, rec, &c)
	assert.Equal(t, "company-news", c.Slug)

	assert.Equal(t, http.StatusConflict, env.do(t, http.MethodPost, "/api/category", managerTok, dto.CategoryRequest{Name: "Company News"}).Code)
	assert.Equal(t, http.StatusBadRequest, env.do(t, http.MethodPost, "/api/category", managerTok, dto.CategoryRequest{Name: "!!"}).Code)

	rec = env.do(t, http.MethodGet, "/api/category", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var list []models.Category
	decode(t, rec, &list)
	assert.Len(t, list, 1)

	assert.Equal(t, http.StatusNoContent, env.do(t, http.MethodDelete, "/api/category/"+c.ID, managerTok, nil).Code)
	assert.Equal(t, http.StatusNotFound, env.do(t, http.MethodDelete, "/api/category/"+c.ID, managerTok, nil).Code)
}
