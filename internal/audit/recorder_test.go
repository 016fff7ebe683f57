package audit_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/onairhq/onair/internal/audit"
	"github.com/onairhq/onair/internal/auth"
	"github.com/onairhq/onair/internal/domain"
	"github.com/onairhq/onair/internal/server/middleware"
)

func TestRecorder_RecordFillsDefaults(t *testing.T) {
	t.Parallel()

	repo := &mockAuditRepo{}
	rec := audit.NewRecorder(repo)

	rec.Record(&domain.AuditEntry{Action: "create", Resource: "news"})
	require.NoError(t, rec.Drain(context.Background()))

	entries := repo.recorded()
	require.Len(t, entries, 1)
	assert.NotEqual(t, uuid.Nil, entries[0].ID)
	assert.False(t, entries[0].CreatedAt.IsZero())
	assert.Equal(t, "create", entries[0].Action)
	assert.Equal(t, "news", entries[0].Resource)
}

func TestRecorder_StorageFailureSwallowed(t *testing.T) {
	t.Parallel()

	repo := &mockAuditRepo{err: errors.New("pg: connection reset")}
	rec := audit.NewRecorder(repo)

	// Must not panic and must not block the caller.
	rec.Record(&domain.AuditEntry{Action: "update", Resource: "programs"})
	require.NoError(t, rec.Drain(context.Background()))
	assert.Empty(t, repo.recorded())
}

func TestRecorder_DrainHonorsDeadline(t *testing.T) {
	t.Parallel()

	block := make(chan struct{})
	repo := &mockAuditRepo{block: block}
	rec := audit.NewRecorder(repo)

	rec.Record(&domain.AuditEntry{Action: "create", Resource: "news"})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err := rec.Drain(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	// Unblock and confirm the write still completes.
	close(block)
	require.NoError(t, rec.Drain(context.Background()))
	assert.Len(t, repo.recorded(), 1)
}

func TestRecorder_RecordFault(t *testing.T) {
	t.Parallel()

	repo := &mockAuditRepo{}
	rec := audit.NewRecorder(repo)

	actor := &auth.Identity{ID: uuid.New(), Username: "carla", Role: domain.RoleAdmin}
	ctx := ctxWith(actor, &middleware.RequestMeta{
		Method:   "POST",
		URL:      "/api/v1/programs",
		ClientIP: "203.0.113.7",
	})

	rec.RecordFault(ctx, "store: out of disk")
	require.NoError(t, rec.Drain(context.Background()))

	entries := repo.recorded()
	require.Len(t, entries, 1)
	e := entries[0]
	assert.Equal(t, "error", e.Action)
	assert.Equal(t, "server", e.Resource)
	assert.Equal(t, "store: out of disk", e.Details["message"])
	assert.Equal(t, "POST", e.Details["method"])
	assert.Equal(t, "/api/v1/programs", e.Details["url"])
	assert.Equal(t, "203.0.113.7", e.OriginIP)
	require.NotNil(t, e.ActorID)
	assert.Equal(t, actor.ID, *e.ActorID)
}
