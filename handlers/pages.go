package handlers

import (
	"context"
	"embed"
	"io/fs"
	"net/http"
	"os"
	"path"
	"strings"
	"time"
)

//go:embed web/index.html
var placeholder embed.FS

// Pages serves the dashboard single-page app. Unknown paths fall back to index.html.
type Pages struct {
	fsys fs.FS
}

// NewPages serves dir, or the embedded placeholder page when dir is empty.
func NewPages(dir string) (*Pages, error) {
	if dir == "" {
		sub, err := fs.Sub(placeholder, "web")
		if err != nil {
			return nil, err
		}
		return &Pages{fsys: sub}, nil
	}
	if fi, err := os.Stat(dir); err != nil {
		return nil, err
	} else if !fi.IsDir() {
		return nil, &fs.PathError{Op: "open", Path: dir, Err: fs.ErrInvalid}
	}
	return &Pages{fsys: os.DirFS(dir)}, nil
}

func (p *Pages) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimPrefix(path.Clean("/"+r.URL.Path), "/")
	if name != "" && name != "index.html" {
		if fi, err := fs.Stat(p.fsys, name); err == nil && !fi.IsDir() {
			http.ServeFileFS(w, r, p.fsys, name)
			return
		}
	}
	b, err := fs.ReadFile(p.fsys, "index.html")
	if err != nil {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

type Pinger interface {
	Ping(ctx context.Context) error
}

// Health reports ok once the store answers a ping.
func Health(db Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := db.Ping(ctx); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
