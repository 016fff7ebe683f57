package uploads_test

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/onairhq/onair/internal/domain"
	"github.com/onairhq/onair/internal/uploads"
)

func newStore(t *testing.T, maxBytes int64) *uploads.FileStore {
	t.Helper()
	store, err := uploads.NewFileStore(t.TempDir(), maxBytes)
	require.NoError(t, err)
	return store
}

func TestFileStore_Save(t *testing.T) {
	t.Parallel()

	t.Run("stores with generated name and keeps extension", func(t *testing.T) {
		t.Parallel()

		store := newStore(t, 1024)
		name, err := store.Save("programs", "Cover Photo.PNG", strings.NewReader("fakepng"))
		require.NoError(t, err)

		assert.True(t, strings.HasSuffix(name, ".png"), "name %q", name)
		assert.NotContains(t, name, "Cover")

		data, err := os.ReadFile(filepath.Join(store.Dir(), "programs", name))
		require.NoError(t, err)
		assert.Equal(t, "fakepng", string(data))
	})

	t.Run("rejects unknown kind", func(t *testing.T) {
		t.Parallel()

		store := newStore(t, 1024)
		_, err := store.Save("banners", "a.png", strings.NewReader("x"))
		assert.ErrorIs(t, err, uploads.ErrUnsupportedKind)
	})

	t.Run("rejects disallowed extension", func(t *testing.T) {
		t.Parallel()

		store := newStore(t, 1024)
		for _, name := range []string{"script.sh", "page.html", "noext", "double.png.exe"} {
			_, err := store.Save("news", name, strings.NewReader("x"))
			assert.ErrorIs(t, err, uploads.ErrUnsupportedType, "name %q", name)
		}
	})

	t.Run("enforces size limit", func(t *testing.T) {
		t.Parallel()

		store := newStore(t, 10)

		_, err := store.Save("news", "big.jpg", strings.NewReader(strings.Repeat("x", 11)))
		assert.ErrorIs(t, err, uploads.ErrTooLarge)

		// Exactly at the limit is fine.
		name, err := store.Save("news", "ok.jpg", strings.NewReader(strings.Repeat("x", 10)))
		require.NoError(t, err)
		assert.NotEmpty(t, name)
	})
}

func TestFileStore_Delete(t *testing.T) {
	t.Parallel()

	t.Run("removes stored file", func(t *testing.T) {
		t.Parallel()

		store := newStore(t, 1024)
		name, err := store.Save("news", "a.gif", strings.NewReader("gif"))
		require.NoError(t, err)

		require.NoError(t, store.Delete("news", name))
		_, statErr := os.Stat(filepath.Join(store.Dir(), "news", name))
		assert.True(t, os.IsNotExist(statErr))
	})

	t.Run("missing file is not found", func(t *testing.T) {
		t.Parallel()

		store := newStore(t, 1024)
		err := store.Delete("news", "nope.png")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("rejects traversal attempts", func(t *testing.T) {
		t.Parallel()

		store := newStore(t, 1024)

		// Plant a file outside the kind directories.
		secret := filepath.Join(store.Dir(), "secret.txt")
		require.NoError(t, os.WriteFile(secret, []byte("x"), 0o644))

		for _, name := range []string{"../secret.txt", "..\\secret.txt", "a/../../secret.txt", ".hidden", ""} {
			err := store.Delete("news", name)
			assert.ErrorIs(t, err, uploads.ErrBadFilename, "name %q", name)
		}

		_, statErr := os.Stat(secret)
		assert.NoError(t, statErr, "file outside the store must survive")
	})
}

func multipartBody(t *testing.T, field, filename, content string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = fw.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func newUploadRouter(store *uploads.FileStore) *chi.Mux {
	h := uploads.NewHandler(store)
	r := chi.NewRouter()
	r.Post("/{kind}", h.Upload)
	r.Delete("/{kind}/{filename}", h.Remove)
	return r
}

func TestHandler_Upload(t *testing.T) {
	t.Parallel()

	t.Run("accepts image and reports url", func(t *testing.T) {
		t.Parallel()

		store := newStore(t, 1024)
		router := newUploadRouter(store)

		body, contentType := multipartBody(t, "image", "logo.webp", "webpdata")
		req := httptest.NewRequest(http.MethodPost, "/programs", body)
		req.Header.Set("Content-Type", contentType)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		assert.Contains(t, w.Body.String(), "/uploads/programs/")
	})

	t.Run("missing field rejected", func(t *testing.T) {
		t.Parallel()

		store := newStore(t, 1024)
		router := newUploadRouter(store)

		body, contentType := multipartBody(t, "photo", "logo.png", "x")
		req := httptest.NewRequest(http.MethodPost, "/programs", body)
		req.Header.Set("Content-Type", contentType)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("wrong type rejected", func(t *testing.T) {
		t.Parallel()

		store := newStore(t, 1024)
		router := newUploadRouter(store)

		body, contentType := multipartBody(t, "image", "payload.exe", "x")
		req := httptest.NewRequest(http.MethodPost, "/news", body)
		req.Header.Set("Content-Type", contentType)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("oversized file rejected", func(t *testing.T) {
		t.Parallel()

		store := newStore(t, 4)
		router := newUploadRouter(store)

		body, contentType := multipartBody(t, "image", "big.jpg", "12345")
		req := httptest.NewRequest(http.MethodPost, "/news", body)
		req.Header.Set("Content-Type", contentType)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	})
}

func TestHandler_Remove(t *testing.T) {
	t.Parallel()

	store := newStore(t, 1024)
	router := newUploadRouter(store)

	name, err := store.Save("news", "a.jpeg", strings.NewReader("x"))
	require.NoError(t, err)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/news/"+name, nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/news/"+name, nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}
