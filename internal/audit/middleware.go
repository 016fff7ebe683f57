package audit

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/onairhq/onair/internal/domain"
	"github.com/onairhq/onair/internal/server/middleware"
)

// Extractor pulls the resource id out of a finished request. Returning ""
// falls back to the "id" URL parameter.
type Extractor func(*http.Request) string

// Middleware wraps a plain http.Handler and records an activity entry after
// it completes with a success status. The response bytes are passed through
// untouched; only the final status code is observed. Client and server
// errors produce no entry here (server errors are logged separately by the
// recovery path).
func Middleware(rec *Recorder, action, resource string, extract Extractor) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				// Handler wrote a body without an explicit WriteHeader.
				status = http.StatusOK
			}
			if status >= 400 {
				return
			}

			rec.Record(buildEntry(r.Context(), action, resource, resolveID(extract, r)))
		})
	}
}

// resolveID runs the extractor with panic containment. A panicking extractor
// must not take down a request that already succeeded.
func resolveID(extract Extractor, r *http.Request) (id string) {
	defer func() {
		if recover() != nil {
			id = chi.URLParam(r, "id")
		}
	}()

	if extract != nil {
		if v := extract(r); v != "" {
			return v
		}
	}
	return chi.URLParam(r, "id")
}

// buildEntry assembles an activity entry from the request context. DELETE
// request bodies are kept in the details because after a successful delete
// the entry is the only remaining record of the payload.
func buildEntry(ctx context.Context, action, resource, resourceID string) *domain.AuditEntry {
	entry := &domain.AuditEntry{
		Action:     action,
		Resource:   resource,
		ResourceID: resourceID,
	}

	details := map[string]any{}
	if meta, ok := middleware.MetaFromContext(ctx); ok {
		details["method"] = meta.Method
		details["url"] = meta.URL
		entry.OriginIP = meta.ClientIP

		if isDelete(action) && len(meta.DeleteBody) > 0 {
			if json.Valid(meta.DeleteBody) {
				details["body"] = json.RawMessage(meta.DeleteBody)
			} else {
				details["body"] = string(meta.DeleteBody)
			}
		}
	}
	entry.Details = details

	if ident, ok := middleware.IdentityFromContext(ctx); ok {
		id := ident.ID
		entry.ActorID = &id
		entry.ActorName = ident.Username
	}

	return entry
}

func isDelete(action string) bool {
	return strings.Contains(action, "delete")
}
