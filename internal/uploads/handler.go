package uploads

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/onairhq/onair/internal/domain"
	"github.com/onairhq/onair/internal/server/middleware"
)

// Handler exposes the multipart upload surface. These routes stay plain
// net/http because the typed API layer does not model multipart bodies.
type Handler struct {
	store *FileStore
}

func NewHandler(store *FileStore) *Handler {
	return &Handler{store: store}
}

// ResourceExtractor reports the stored file name for the activity log. Upload
// names are generated during the request, so the handler publishes them
// through the request meta.
func ResourceExtractor(r *http.Request) string {
	if meta, ok := middleware.MetaFromContext(r.Context()); ok {
		return meta.ResourceID
	}
	return ""
}

// Upload handles POST /{kind} with an "image" multipart field.
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	kind := chi.URLParam(r, "kind")

	// Bound the multipart reader before parsing.
	r.Body = http.MaxBytesReader(w, r.Body, h.store.maxBytes+1024)

	file, header, err := r.FormFile("image")
	if err != nil {
		writeError(w, http.StatusBadRequest, "image file is required")
		return
	}
	defer func() { _ = file.Close() }()

	name, err := h.store.Save(kind, header.Filename, file)
	if err != nil {
		h.writeSaveError(w, err)
		return
	}

	if meta, ok := middleware.MetaFromContext(r.Context()); ok {
		meta.ResourceID = name
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"filename": name,
		"url":      "/uploads/" + kind + "/" + name,
	})
}

// Remove handles DELETE /{kind}/{filename}.
func (h *Handler) Remove(w http.ResponseWriter, r *http.Request) {
	kind := chi.URLParam(r, "kind")
	name := chi.URLParam(r, "filename")

	err := h.store.Delete(kind, name)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "file not found")
		return
	case errors.Is(err, ErrUnsupportedKind), errors.Is(err, ErrBadFilename):
		writeError(w, http.StatusBadRequest, "invalid upload path")
		return
	case err != nil:
		log.Error().Err(err).Str("kind", kind).Str("filename", name).Msg("uploads: delete failed")
		writeError(w, http.StatusInternalServerError, "could not delete file")
		return
	}

	if meta, ok := middleware.MetaFromContext(r.Context()); ok {
		meta.ResourceID = name
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]string{"deleted": name})
}

func (h *Handler) writeSaveError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrUnsupportedKind):
		writeError(w, http.StatusBadRequest, "unknown upload kind")
	case errors.Is(err, ErrUnsupportedType):
		writeError(w, http.StatusBadRequest, "unsupported image type")
	case errors.Is(err, ErrTooLarge):
		writeError(w, http.StatusRequestEntityTooLarge, "file exceeds size limit")
	default:
		log.Error().Err(err).Msg("uploads: save failed")
		writeError(w, http.StatusInternalServerError, "could not store file")
	}
}

func writeError(w http.ResponseWriter, status int, detail string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"title":  http.StatusText(status),
		"status": status,
		"detail": detail,
	})
}
