package middleware

import (
	"bytes"
	"context"
	"io"
	"net"
	"net/http"
)

// maxCapturedBody bounds how much of a DELETE body is retained for the
// activity log.
const maxCapturedBody = 32 * 1024

// CaptureMeta snapshots request facts into the context before any handler
// consumes the body. Runs after chi's RealIP so RemoteAddr already reflects
// X-Forwarded-For when present. DELETE bodies are captured (and restored for
// the handler) because the activity log keeps them as the only record of
// what was removed.
func CaptureMeta(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		meta := &RequestMeta{
			Method:   r.Method,
			URL:      r.URL.RequestURI(),
			ClientIP: clientIP(r.RemoteAddr),
		}

		if r.Method == http.MethodDelete && r.Body != nil {
			body, err := io.ReadAll(io.LimitReader(r.Body, maxCapturedBody))
			if err == nil && len(body) > 0 {
				meta.DeleteBody = body
				r.Body = io.NopCloser(io.MultiReader(bytes.NewReader(body), r.Body))
			}
		}

		ctx := context.WithValue(r.Context(), ContextKeyRequestMeta, meta)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func clientIP(remoteAddr string) string {
	if host, _, err := net.SplitHostPort(remoteAddr); err == nil {
		return host
	}
	return remoteAddr
}
