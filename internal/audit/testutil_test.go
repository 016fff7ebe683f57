package audit_test

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/onairhq/onair/internal/auth"
	"github.com/onairhq/onair/internal/domain"
	"github.com/onairhq/onair/internal/server/middleware"
)

// mockAuditRepo collects recorded entries under a mutex so tests can inspect
// them after draining the recorder.
type mockAuditRepo struct {
	mu      sync.Mutex
	entries []*domain.AuditEntry
	err     error
	block   chan struct{} // when set, Record waits until closed
}

func (m *mockAuditRepo) Record(_ context.Context, e *domain.AuditEntry) error {
	if m.block != nil {
		<-m.block
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.entries = append(m.entries, e)
	return nil
}

func (m *mockAuditRepo) List(_ context.Context, _, _ int) ([]*domain.AuditEntry, error) {
	return nil, nil
}

func (m *mockAuditRepo) ListByActor(_ context.Context, _ uuid.UUID, _ int) ([]*domain.AuditEntry, error) {
	return nil, nil
}

func (m *mockAuditRepo) Stats(_ context.Context, _ int) ([]*domain.ActivityStats, error) {
	return nil, nil
}

func (m *mockAuditRepo) recorded() []*domain.AuditEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*domain.AuditEntry, len(m.entries))
	copy(out, m.entries)
	return out
}

// ctxWith builds a request context carrying an identity and request meta the
// way the server middleware chain would.
func ctxWith(ident *auth.Identity, meta *middleware.RequestMeta) context.Context {
	ctx := context.Background()
	if ident != nil {
		ctx = context.WithValue(ctx, middleware.ContextKeyIdentity, ident)
	}
	if meta != nil {
		ctx = context.WithValue(ctx, middleware.ContextKeyRequestMeta, meta)
	}
	return ctx
}
