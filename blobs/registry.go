// Package blobs keeps binary payloads in process memory behind opaque "blob:<uuid>"
// handles, so they can be passed around, served over the local viewer and released
// explicitly.
package blobs

import (
	"net/http"
	"strconv"
	"strings"
	"sync"

	"github.com/google/uuid"
	apperrors "github.com/jrsteele09/go-efact-client/internal/errors"
)

const scheme = "blob:"

// Handle is a reference into a Registry. The zero value refers to nothing.
type Handle string

// ID returns the uuid part of the handle.
func (h Handle) ID() string {
	return strings.TrimPrefix(string(h), scheme)
}

func (h Handle) String() string {
	return string(h)
}

// Blob is a registered payload.
type Blob struct {
	Data        []byte
	ContentType string
}

type Registry struct {
	blobs map[string]Blob
	lock  sync.RWMutex
}

func NewRegistry() *Registry {
	return &Registry{blobs: make(map[string]Blob)}
}

// Create registers data and returns a fresh handle for it. data is not copied.
func (r *Registry) Create(data []byte, contentType string) Handle {
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	id := uuid.NewString()

	r.lock.Lock()
	defer r.lock.Unlock()
	r.blobs[id] = Blob{Data: data, ContentType: contentType}
	return Handle(scheme + id)
}

func (r *Registry) Open(h Handle) (Blob, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()
	blob, ok := r.blobs[h.ID()]
	if !ok {
		return Blob{}, apperrors.Wrapf(apperrors.ErrHandleNotFound, "[Registry Open] %s", h)
	}
	return blob, nil
}

// Revoke releases the payload behind h. Revoking an unknown handle is a no-op.
func (r *Registry) Revoke(h Handle) {
	r.lock.Lock()
	defer r.lock.Unlock()
	delete(r.blobs, h.ID())
}

func (r *Registry) Len() int {
	r.lock.RLock()
	defer r.lock.RUnlock()
	return len(r.blobs)
}

// ServeHTTP serves the payload named by the {id} path value (or the last path segment
// when the handler is not mounted on a pattern). Unknown or revoked ids are 404.
func (r *Registry) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	id := req.PathValue("id")
	if id == "" {
		id = req.URL.Path[strings.LastIndex(req.URL.Path, "/")+1:]
	}

	blob, err := r.Open(Handle(scheme + id))
	if err != nil {
		http.NotFound(w, req)
		return
	}

	w.Header().Set("Content-Type", blob.ContentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(blob.Data)))
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	if req.Method != http.MethodHead {
		_, _ = w.Write(blob.Data)
	}
}
