package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/kevinaaaquil/compro/dto"
	"github.com/kevinaaaquil/compro/models"
	"github.com/kevinaaaquil/compro/store"
	"github.com/kevinaaaquil/compro/utils"
)

type CategoriesHandler struct {
	Store store.Store
	Log   *zap.SugaredLogger
}

func (h *CategoriesHandler) List(w http.ResponseWriter, r *http.Request) {
	cats, err := h.Store.ListCategories(r.Context())
	if err != nil {
		storeError(w, h.Log, err, "failed to list categories")
		return
	}
	if cats == nil {
		cats = []models.Category{}
	}
	writeJSON(w, http.StatusOK, cats)
}

func (h *CategoriesHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CategoryRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	name := strings.TrimSpace(req.Name)
	slug := utils.Slugify(name)
	if slug == "" {
		writeError(w, http.StatusBadRequest, "name required")
		return
	}
	c := &models.Category{
		ID:        utils.NewID(),
		Name:      name,
		Slug:      slug,
		CreatedAt: time.Now().UTC(),
	}
	if err := h.Store.CreateCategory(r.Context(), c); err != nil {
		storeError(w, h.Log, err, "failed to create category")
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

// Delete removes the category and unlinks it from posts.
func (h *CategoriesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.DeleteCategory(r.Context(), chi.URLParam(r, "id")); err != nil {
		storeError(w, h.Log, err, "failed to delete category")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
