package handlers

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"path"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/kevinaaaquil/compro/dto"
	"github.com/kevinaaaquil/compro/service"
)

var imageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

type uploadedImage struct {
	data        []byte
	filename    string
	contentType string
}

// readImage parses the multipart "file" field and sniffs its type. It writes the
// error response itself and returns false on failure.
func readImage(w http.ResponseWriter, r *http.Request, maxBytes int64) (*uploadedImage, bool) {
	if maxBytes <= 0 {
		maxBytes = 10 << 20
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
	if err := r.ParseMultipartForm(maxBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "file too large")
			return nil, false
		}
		writeError(w, http.StatusBadRequest, "failed to parse multipart form")
		return nil, false
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing file")
		return nil, false
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read file")
		return nil, false
	}
	ct := http.DetectContentType(data)
	if !imageTypes[ct] {
		writeError(w, http.StatusBadRequest, "only jpeg, png, gif and webp images are allowed")
		return nil, false
	}
	return &uploadedImage{data: data, filename: header.Filename, contentType: ct}, true
}

type UploadHandler struct {
	Media    MediaStorage // nil when storage is not configured
	MaxBytes int64
	Log      *zap.SugaredLogger
}

func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	if h.Media == nil {
		writeError(w, http.StatusServiceUnavailable, "upload not configured (missing S3)")
		return
	}
	img, ok := readImage(w, r, h.MaxBytes)
	if !ok {
		return
	}
	key, err := h.Media.Upload(r.Context(), service.ImagePrefix, img.filename, bytes.NewReader(img.data), img.contentType)
	if err != nil {
		nopIfNil(h.Log).Errorw("upload image", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to upload to storage")
		return
	}
	writeJSON(w, http.StatusCreated, dto.UploadResponse{Key: key, URL: service.MediaURL(key)})
}

// validMediaKey admits only clean keys below the image prefix.
func validMediaKey(key string) bool {
	return strings.HasPrefix(key, service.ImagePrefix) &&
		path.Clean("/"+key) == "/"+key &&
		len(key) > len(service.ImagePrefix)
}

// ServeMedia streams an uploaded object.
func (h *UploadHandler) ServeMedia(w http.ResponseWriter, r *http.Request) {
	if h.Media == nil {
		writeError(w, http.StatusServiceUnavailable, "media not configured (missing S3)")
		return
	}
	key := chi.URLParam(r, "*")
	if !validMediaKey(key) {
		writeError(w, http.StatusNotFound, "media not found")
		return
	}
	body, ct, err := h.Media.GetObject(r.Context(), key)
	if errors.Is(err, service.ErrObjectNotFound) {
		writeError(w, http.StatusNotFound, "media not found")
		return
	}
	if err != nil {
		nopIfNil(h.Log).Errorw("get media", "key", key, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load media")
		return
	}
	defer body.Close()
	if ct == "" {
		ct = "application/octet-stream"
	}
	w.Header().Set("Content-Type", ct)
	w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
	w.WriteHeader(http.StatusOK)
	io.Copy(w, body)
}
