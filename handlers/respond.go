package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/kevinaaaquil/compro/dto"
	"github.com/kevinaaaquil/compro/store"
)

// MediaStorage is the object store behind uploads and /media.
type MediaStorage interface {
	Upload(ctx context.Context, prefix, filename string, body io.Reader, contentType string) (string, error)
	GetObject(ctx context.Context, key string) (io.ReadCloser, string, error)
	Delete(ctx context.Context, key string) error
}

type WelcomeMailer interface {
	SendWelcome(to, name string) error
}

const maxJSONBody = 1 << 20

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, dto.ErrorResponse{Error: msg})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return false
		}
		writeError(w, http.StatusBadRequest, "invalid json")
		return false
	}
	return true
}

func nopIfNil(log *zap.SugaredLogger) *zap.SugaredLogger {
	if log == nil {
		return zap.NewNop().Sugar()
	}
	return log
}

// storeError maps a store failure to its HTTP status. Internal failures are logged
// and answered with msg.
func storeError(w http.ResponseWriter, log *zap.SugaredLogger, err error, msg string) {
	switch store.KindOf(err) {
	case store.KindNotFound:
		var se *store.Error
		entity := "record"
		if errors.As(err, &se) && se.Entity != "" {
			entity = se.Entity
		}
		writeError(w, http.StatusNotFound, entity+" not found")
	case store.KindUnique:
		if field := store.UniqueField(err); field != "" {
			writeError(w, http.StatusConflict, field+" already in use")
			return
		}
		writeError(w, http.StatusConflict, "already exists")
	case store.KindReference:
		writeError(w, http.StatusBadRequest, "invalid reference")
	default:
		nopIfNil(log).Errorw(msg, "error", err)
		writeError(w, http.StatusInternalServerError, msg)
	}
}
