package middleware_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/onairhq/onair/internal/auth"
	"github.com/onairhq/onair/internal/domain"
	"github.com/onairhq/onair/internal/server/middleware"
)

const mwSecret = "middleware-test-secret"

func TestAuth(t *testing.T) {
	t.Parallel()

	user := &domain.User{
		ID:       uuid.New(),
		Username: "carla",
		Email:    "carla@station.example",
		Role:     domain.RoleAdmin,
	}
	token, err := auth.IssueToken(mwSecret, user, time.Minute)
	require.NoError(t, err)

	var gotIdent *auth.Identity
	handler := middleware.Auth(mwSecret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotIdent, _ = middleware.IdentityFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	t.Run("valid bearer token admitted with identity", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, r)

		require.Equal(t, http.StatusOK, w.Code)
		require.NotNil(t, gotIdent)
		assert.Equal(t, user.ID, gotIdent.ID)
		assert.Equal(t, domain.RoleAdmin, gotIdent.Role)
	})

	t.Run("missing header rejected", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, r)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("garbage token rejected", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.Header.Set("Authorization", "Bearer not-a-token")
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, r)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("wrong scheme rejected", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.Header.Set("Authorization", "Basic "+token)
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, r)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestCaptureMeta(t *testing.T) {
	t.Parallel()

	t.Run("records method, url and client ip", func(t *testing.T) {
		t.Parallel()

		var meta *middleware.RequestMeta
		handler := middleware.CaptureMeta(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
			meta, _ = middleware.MetaFromContext(r.Context())
		}))

		r := httptest.NewRequest(http.MethodGet, "/api/v1/news?page=2", nil)
		r.RemoteAddr = "203.0.113.9:54321"
		handler.ServeHTTP(httptest.NewRecorder(), r)

		require.NotNil(t, meta)
		assert.Equal(t, http.MethodGet, meta.Method)
		assert.Equal(t, "/api/v1/news?page=2", meta.URL)
		assert.Equal(t, "203.0.113.9", meta.ClientIP)
		assert.Nil(t, meta.DeleteBody)
	})

	t.Run("delete body captured and still readable downstream", func(t *testing.T) {
		t.Parallel()

		var meta *middleware.RequestMeta
		var downstream []byte
		handler := middleware.CaptureMeta(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
			meta, _ = middleware.MetaFromContext(r.Context())
			downstream, _ = io.ReadAll(r.Body)
		}))

		body := `{"reason":"duplicate entry"}`
		r := httptest.NewRequest(http.MethodDelete, "/api/v1/news/42", strings.NewReader(body))
		handler.ServeHTTP(httptest.NewRecorder(), r)

		require.NotNil(t, meta)
		assert.Equal(t, body, string(meta.DeleteBody))
		assert.Equal(t, body, string(downstream))
	})

	t.Run("post body not captured", func(t *testing.T) {
		t.Parallel()

		var meta *middleware.RequestMeta
		handler := middleware.CaptureMeta(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
			meta, _ = middleware.MetaFromContext(r.Context())
		}))

		r := httptest.NewRequest(http.MethodPost, "/api/v1/news", strings.NewReader(`{"title":"x"}`))
		handler.ServeHTTP(httptest.NewRecorder(), r)

		require.NotNil(t, meta)
		assert.Nil(t, meta.DeleteBody)
	})
}

func TestRateLimitByIP(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	handler := middleware.RateLimitByIP(ctx, 1, 2)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	send := func(addr string) int {
		r := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", nil)
		r.RemoteAddr = addr
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, r)
		return w.Code
	}

	// Burst of 2 allowed, third rejected.
	assert.Equal(t, http.StatusOK, send("198.51.100.1:1000"))
	assert.Equal(t, http.StatusOK, send("198.51.100.1:1001"))
	assert.Equal(t, http.StatusTooManyRequests, send("198.51.100.1:1002"))

	// Different IP has its own bucket.
	assert.Equal(t, http.StatusOK, send("198.51.100.2:1000"))
}
