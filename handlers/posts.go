package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/kevinaaaquil/compro/dto"
	"github.com/kevinaaaquil/compro/middleware"
	"github.com/kevinaaaquil/compro/models"
	"github.com/kevinaaaquil/compro/richtext"
	"github.com/kevinaaaquil/compro/store"
	"github.com/kevinaaaquil/compro/utils"
)

type PostsHandler struct {
	Store store.Store
	Log   *zap.SugaredLogger
}

func cleanTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := map[string]bool{}
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}

// checkCategories dedupes ids and reports false when any of them does not exist.
func (h *PostsHandler) checkCategories(r *http.Request, ids []string) ([]string, bool, error) {
	ids = cleanTags(ids)
	if len(ids) == 0 {
		return ids, true, nil
	}
	found, err := h.Store.CategoriesByIDs(r.Context(), ids)
	if err != nil {
		return nil, false, err
	}
	return ids, len(found) == len(ids), nil
}

func canEditPost(claims *middleware.Claims, p *models.Post) bool {
	return claims != nil && (claims.UserID == p.AuthorID || claims.HasAnyRole(models.PostEditorRoles...))
}

// List returns posts newest first, optionally filtered by ?status= and ?author=.
func (h *PostsHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := models.PostFilter{
		Status:   strings.ToUpper(strings.TrimSpace(r.URL.Query().Get("status"))),
		AuthorID: strings.TrimSpace(r.URL.Query().Get("author")),
	}
	if filter.Status != "" && !models.StatusValid(filter.Status) {
		writeError(w, http.StatusBadRequest, "invalid status")
		return
	}
	posts, err := h.Store.ListPosts(r.Context(), filter)
	if err != nil {
		storeError(w, h.Log, err, "failed to list posts")
		return
	}
	if posts == nil {
		posts = []models.Post{}
	}
	writeJSON(w, http.StatusOK, posts)
}

func (h *PostsHandler) Get(w http.ResponseWriter, r *http.Request) {
	post, err := h.Store.PostBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		storeError(w, h.Log, err, "failed to load post")
		return
	}
	writeJSON(w, http.StatusOK, post)
}

// Export streams the post content as a download in the requested format.
func (h *PostsHandler) Export(w http.ResponseWriter, r *http.Request) {
	format, err := richtext.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	post, err := h.Store.PostBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		storeError(w, h.Log, err, "failed to load post")
		return
	}
	doc, err := richtext.Parse(post.Content)
	if err != nil {
		nopIfNil(h.Log).Errorw("stored post content is invalid", "post_id", post.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to export post")
		return
	}
	out, err := richtext.NewBuffer(doc).Export(format)
	if err != nil {
		nopIfNil(h.Log).Errorw("export post", "post_id", post.ID, "format", format, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to export post")
		return
	}
	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s%s"`, post.Slug, format.Extension()))
	w.WriteHeader(http.StatusOK)
	w.Write(out)
}

func (h *PostsHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromContext(r.Context())
	if claims == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req dto.CreatePostRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	title := strings.TrimSpace(req.Title)
	if title == "" {
		writeError(w, http.StatusBadRequest, "title required")
		return
	}
	if err := richtext.Validate(req.Content); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	status := strings.ToUpper(strings.TrimSpace(req.Status))
	if status == "" {
		status = models.StatusDraft
	}
	if !models.StatusValid(status) {
		writeError(w, http.StatusBadRequest, "invalid status")
		return
	}
	categoryIDs, ok, err := h.checkCategories(r, req.CategoryIDs)
	if err != nil {
		storeError(w, h.Log, err, "failed to create post")
		return
	}
	if !ok {
		writeError(w, http.StatusBadRequest, "unknown category")
		return
	}

	now := time.Now().UTC()
	post := &models.Post{
		ID:          utils.NewID(),
		AuthorID:    claims.UserID,
		Title:       title,
		Slug:        utils.NewPostSlug(title),
		Description: strings.TrimSpace(req.Description),
		Content:     req.Content,
		Thumbnail:   req.Thumbnail,
		ImageURL:    req.ImageURL,
		VideoURL:    req.VideoURL,
		Tags:        cleanTags(req.Tags),
		CategoryIDs: categoryIDs,
		Status:      status,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if len(post.Content) == 0 {
		post.Content = json.RawMessage("null")
	}
	if err := h.Store.CreatePost(r.Context(), post); err != nil {
		storeError(w, h.Log, err, "failed to create post")
		return
	}
	if created, err := h.Store.PostBySlug(r.Context(), post.Slug); err == nil {
		post = created
	}
	writeJSON(w, http.StatusCreated, post)
}

// loadEditable fetches post id and checks the session may change it.
func (h *PostsHandler) loadEditable(w http.ResponseWriter, r *http.Request) (*models.Post, bool) {
	post, err := h.Store.PostByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		storeError(w, h.Log, err, "failed to load post")
		return nil, false
	}
	if !canEditPost(middleware.ClaimsFromContext(r.Context()), post) {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return nil, false
	}
	return post, true
}

// Update applies a partial update. A supplied slug is normalized; the title never
// rewrites the slug.
func (h *PostsHandler) Update(w http.ResponseWriter, r *http.Request) {
	post, ok := h.loadEditable(w, r)
	if !ok {
		return
	}
	var req dto.UpdatePostRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	upd := models.PostUpdate{
		Description: req.Description,
		Thumbnail:   req.Thumbnail,
		ImageURL:    req.ImageURL,
		VideoURL:    req.VideoURL,
	}
	if req.Title != nil {
		t := strings.TrimSpace(*req.Title)
		if t == "" {
			writeError(w, http.StatusBadRequest, "title cannot be empty")
			return
		}
		upd.Title = &t
	}
	if req.Slug != nil {
		s := utils.Slugify(*req.Slug)
		if s == "" {
			writeError(w, http.StatusBadRequest, "invalid slug")
			return
		}
		upd.Slug = &s
	}
	if req.Content != nil {
		if err := richtext.Validate(*req.Content); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		upd.Content = req.Content
	}
	if req.Status != nil {
		s := strings.ToUpper(strings.TrimSpace(*req.Status))
		if !models.StatusValid(s) {
			writeError(w, http.StatusBadRequest, "invalid status")
			return
		}
		upd.Status = &s
	}
	if req.Tags != nil {
		tags := cleanTags(*req.Tags)
		upd.Tags = &tags
	}
	if req.CategoryIDs != nil {
		ids, ok, err := h.checkCategories(r, *req.CategoryIDs)
		if err != nil {
			storeError(w, h.Log, err, "failed to update post")
			return
		}
		if !ok {
			writeError(w, http.StatusBadRequest, "unknown category")
			return
		}
		upd.CategoryIDs = &ids
	}

	if err := h.Store.UpdatePost(r.Context(), post.ID, upd); err != nil {
		storeError(w, h.Log, err, "failed to update post")
		return
	}
	updated, err := h.Store.PostByID(r.Context(), post.ID)
	if err != nil {
		storeError(w, h.Log, err, "failed to update post")
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *PostsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	post, ok := h.loadEditable(w, r)
	if !ok {
		return
	}
	if err := h.Store.DeletePost(r.Context(), post.ID); err != nil {
		storeError(w, h.Log, err, "failed to delete post")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
