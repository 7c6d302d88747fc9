package handlers

import (
	"bytes"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/kevinaaaquil/compro/dto"
	"github.com/kevinaaaquil/compro/models"
	"github.com/kevinaaaquil/compro/service"
	"github.com/kevinaaaquil/compro/store"
)

type WebsiteHandler struct {
	Store    store.Store
	Media    MediaStorage
	MaxBytes int64
	Log      *zap.SugaredLogger
}

func toProfileUpdate(req dto.WebsiteProfileRequest) models.WebsiteProfileUpdate {
	return models.WebsiteProfileUpdate{
		Name:                      req.Name,
		Description:               req.Description,
		LogoURL:                   req.LogoURL,
		Address:                   req.Address,
		Phone:                     req.Phone,
		Email:                     req.Email,
		SocialLinks:               req.SocialLinks,
		Gallery:                   req.Gallery,
		IsUserRegistrationEnabled: req.IsUserRegistrationEnabled,
		IsBlogEnabled:             req.IsBlogEnabled,
		IsProductEnabled:          req.IsProductEnabled,
		IsCommentEnabled:          req.IsCommentEnabled,
		IsLikeEnabled:             req.IsLikeEnabled,
		IsReviewEnabled:           req.IsReviewEnabled,
	}
}

// applyProfile copies the supplied fields of upd onto p.
func applyProfile(p *models.WebsiteProfile, upd models.WebsiteProfileUpdate) {
	setString := func(dst *string, v *string) {
		if v != nil {
			*dst = *v
		}
	}
	setBool := func(dst *bool, v *bool) {
		if v != nil {
			*dst = *v
		}
	}
	setString(&p.Name, upd.Name)
	setString(&p.Description, upd.Description)
	setString(&p.LogoURL, upd.LogoURL)
	setString(&p.Address, upd.Address)
	setString(&p.Phone, upd.Phone)
	setString(&p.Email, upd.Email)
	if upd.SocialLinks != nil && *upd.SocialLinks != nil {
		p.SocialLinks = *upd.SocialLinks
	}
	if upd.Gallery != nil && *upd.Gallery != nil {
		p.Gallery = *upd.Gallery
	}
	setBool(&p.IsUserRegistrationEnabled, upd.IsUserRegistrationEnabled)
	setBool(&p.IsBlogEnabled, upd.IsBlogEnabled)
	setBool(&p.IsProductEnabled, upd.IsProductEnabled)
	setBool(&p.IsCommentEnabled, upd.IsCommentEnabled)
	setBool(&p.IsLikeEnabled, upd.IsLikeEnabled)
	setBool(&p.IsReviewEnabled, upd.IsReviewEnabled)
}

func (h *WebsiteHandler) Get(w http.ResponseWriter, r *http.Request) {
	p, err := h.Store.WebsiteProfile(r.Context())
	if err != nil {
		storeError(w, h.Log, err, "failed to load website profile")
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// Create stores the profile once; later calls conflict.
func (h *WebsiteHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.WebsiteProfileRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Name == nil || strings.TrimSpace(*req.Name) == "" {
		writeError(w, http.StatusBadRequest, "name required")
		return
	}
	p := models.NewWebsiteProfile(strings.TrimSpace(*req.Name))
	req.Name = nil
	applyProfile(p, toProfileUpdate(req))
	if err := h.Store.CreateWebsiteProfile(r.Context(), p); err != nil {
		if store.IsUnique(err) {
			writeError(w, http.StatusConflict, "website profile already exists")
			return
		}
		storeError(w, h.Log, err, "failed to create website profile")
		return
	}
	if created, err := h.Store.WebsiteProfile(r.Context()); err == nil {
		p = created
	}
	writeJSON(w, http.StatusCreated, p)
}

func (h *WebsiteHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req dto.WebsiteProfileRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Name != nil {
		n := strings.TrimSpace(*req.Name)
		if n == "" {
			writeError(w, http.StatusBadRequest, "name cannot be empty")
			return
		}
		req.Name = &n
	}
	if err := h.Store.UpdateWebsiteProfile(r.Context(), toProfileUpdate(req)); err != nil {
		storeError(w, h.Log, err, "failed to update website profile")
		return
	}
	h.Get(w, r)
}

// Gallery uploads an image and appends its media URL to the profile gallery.
func (h *WebsiteHandler) Gallery(w http.ResponseWriter, r *http.Request) {
	if h.Media == nil {
		writeError(w, http.StatusServiceUnavailable, "upload not configured (missing S3)")
		return
	}
	if _, err := h.Store.WebsiteProfile(r.Context()); err != nil {
		storeError(w, h.Log, err, "failed to load website profile")
		return
	}
	img, ok := readImage(w, r, h.MaxBytes)
	if !ok {
		return
	}
	log := nopIfNil(h.Log)
	key, err := h.Media.Upload(r.Context(), service.ImagePrefix, img.filename, bytes.NewReader(img.data), img.contentType)
	if err != nil {
		log.Errorw("upload gallery image", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to upload to storage")
		return
	}
	if err := h.Store.AppendGalleryImage(r.Context(), service.MediaURL(key)); err != nil {
		if derr := h.Media.Delete(r.Context(), key); derr != nil {
			log.Warnw("remove orphaned gallery image", "key", key, "error", derr)
		}
		storeError(w, h.Log, err, "failed to update gallery")
		return
	}
	p, err := h.Store.WebsiteProfile(r.Context())
	if err != nil {
		storeError(w, h.Log, err, "failed to load website profile")
		return
	}
	writeJSON(w, http.StatusCreated, p)
}
