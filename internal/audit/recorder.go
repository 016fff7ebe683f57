// Package audit records who did what to which resource. Entries are written
// off the request path: a slow or failing log store never delays or fails the
// operation it describes.
package audit

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/onairhq/onair/internal/domain"
	"github.com/onairhq/onair/internal/server/middleware"
)

// Recorder persists activity entries asynchronously. Each Record call spawns
// a goroutine detached from the request context so cancellation of the
// request cannot abort the write.
type Recorder struct {
	repo domain.AuditRepository
	wg   sync.WaitGroup
}

func NewRecorder(repo domain.AuditRepository) *Recorder {
	return &Recorder{repo: repo}
}

// Record persists the entry in the background, filling in the id and
// timestamp. Storage failures are logged and swallowed; the caller's
// response has already been decided.
func (rec *Recorder) Record(entry *domain.AuditEntry) {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}

	rec.wg.Add(1)
	go func() {
		defer rec.wg.Done()
		if err := rec.repo.Record(context.Background(), entry); err != nil {
			log.Warn().
				Err(err).
				Str("action", entry.Action).
				Str("resource", entry.Resource).
				Msg("audit: failed to record activity")
		}
	}()
}

// RecordFault logs a server-side failure as an activity entry with action
// "error" and resource "server", mirroring how handler panics and 5xx
// responses show up in the activity log.
func (rec *Recorder) RecordFault(ctx context.Context, message string) {
	entry := &domain.AuditEntry{
		Action:   "error",
		Resource: "server",
		Details:  map[string]any{"message": message},
	}

	if meta, ok := middleware.MetaFromContext(ctx); ok {
		entry.Details["method"] = meta.Method
		entry.Details["url"] = meta.URL
		entry.OriginIP = meta.ClientIP
	}
	if ident, ok := middleware.IdentityFromContext(ctx); ok {
		id := ident.ID
		entry.ActorID = &id
		entry.ActorName = ident.Username
	}

	rec.Record(entry)
}

// Drain blocks until all in-flight writes finish or the context expires.
// Called once at shutdown; requests never wait on it.
func (rec *Recorder) Drain(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		rec.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
