package v1_test

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/onairhq/onair/internal/auth"
	"github.com/onairhq/onair/internal/domain"
	"github.com/onairhq/onair/internal/server/middleware"
)

// Mock repositories with pluggable behavior per test.

type mockUserRepo struct {
	create         func(ctx context.Context, u *domain.User) error
	getByID        func(ctx context.Context, id uuid.UUID) (*domain.User, error)
	getByUsername  func(ctx context.Context, username string) (*domain.User, error)
	list           func(ctx context.Context) ([]*domain.User, error)
	update         func(ctx context.Context, u *domain.User) error
	updatePassword func(ctx context.Context, id uuid.UUID, hash string) error
	setActive      func(ctx context.Context, id uuid.UUID, active bool) error
	countActive    func(ctx context.Context) (int64, error)
}

func (m *mockUserRepo) Create(ctx context.Context, u *domain.User) error { return m.create(ctx, u) }
func (m *mockUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return m.getByID(ctx, id)
}
func (m *mockUserRepo) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return m.getByUsername(ctx, username)
}
func (m *mockUserRepo) List(ctx context.Context) ([]*domain.User, error) { return m.list(ctx) }
func (m *mockUserRepo) Update(ctx context.Context, u *domain.User) error { return m.update(ctx, u) }
func (m *mockUserRepo) UpdatePassword(ctx context.Context, id uuid.UUID, hash string) error {
	return m.updatePassword(ctx, id, hash)
}
func (m *mockUserRepo) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	return m.setActive(ctx, id, active)
}
func (m *mockUserRepo) CountActive(ctx context.Context) (int64, error) { return m.countActive(ctx) }

type mockProgramRepo struct {
	create      func(ctx context.Context, p *domain.Program) error
	getByID     func(ctx context.Context, id uuid.UUID) (*domain.Program, error)
	list        func(ctx context.Context) ([]*domain.Program, error)
	listActive  func(ctx context.Context) ([]*domain.Program, error)
	update      func(ctx context.Context, p *domain.Program) error
	setActive   func(ctx context.Context, id uuid.UUID, active bool) error
	delete      func(ctx context.Context, id uuid.UUID) error
	countActive func(ctx context.Context) (int64, error)
}

func (m *mockProgramRepo) Create(ctx context.Context, p *domain.Program) error {
	return m.create(ctx, p)
}
func (m *mockProgramRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Program, error) {
	return m.getByID(ctx, id)
}
func (m *mockProgramRepo) List(ctx context.Context) ([]*domain.Program, error) { return m.list(ctx) }
func (m *mockProgramRepo) ListActive(ctx context.Context) ([]*domain.Program, error) {
	return m.listActive(ctx)
}
func (m *mockProgramRepo) Update(ctx context.Context, p *domain.Program) error {
	return m.update(ctx, p)
}
func (m *mockProgramRepo) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	return m.setActive(ctx, id, active)
}
func (m *mockProgramRepo) Delete(ctx context.Context, id uuid.UUID) error { return m.delete(ctx, id) }
func (m *mockProgramRepo) CountActive(ctx context.Context) (int64, error) {
	return m.countActive(ctx)
}

type mockNewsRepo struct {
	create         func(ctx context.Context, n *domain.News) error
	getByID        func(ctx context.Context, id uuid.UUID) (*domain.News, error)
	list           func(ctx context.Context) ([]*domain.News, error)
	listPublished  func(ctx context.Context, limit, offset int) ([]*domain.News, error)
	update         func(ctx context.Context, n *domain.News) error
	setPublished   func(ctx context.Context, id uuid.UUID, published bool) error
	delete         func(ctx context.Context, id uuid.UUID) error
	countPublished func(ctx context.Context) (int64, error)
}

func (m *mockNewsRepo) Create(ctx context.Context, n *domain.News) error { return m.create(ctx, n) }
func (m *mockNewsRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.News, error) {
	return m.getByID(ctx, id)
}
func (m *mockNewsRepo) List(ctx context.Context) ([]*domain.News, error) { return m.list(ctx) }
func (m *mockNewsRepo) ListPublished(ctx context.Context, limit, offset int) ([]*domain.News, error) {
	return m.listPublished(ctx, limit, offset)
}
func (m *mockNewsRepo) Update(ctx context.Context, n *domain.News) error { return m.update(ctx, n) }
func (m *mockNewsRepo) SetPublished(ctx context.Context, id uuid.UUID, published bool) error {
	return m.setPublished(ctx, id, published)
}
func (m *mockNewsRepo) Delete(ctx context.Context, id uuid.UUID) error { return m.delete(ctx, id) }
func (m *mockNewsRepo) CountPublished(ctx context.Context) (int64, error) {
	return m.countPublished(ctx)
}

// mockAuditRepo collects entries under a lock so tests can assert on them
// after draining the recorder.
type mockAuditRepo struct {
	mu      sync.Mutex
	entries []*domain.AuditEntry

	list        func(ctx context.Context, limit, offset int) ([]*domain.AuditEntry, error)
	listByActor func(ctx context.Context, actorID uuid.UUID, limit int) ([]*domain.AuditEntry, error)
	stats       func(ctx context.Context, days int) ([]*domain.ActivityStats, error)
}

func (m *mockAuditRepo) Record(_ context.Context, e *domain.AuditEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, e)
	return nil
}

func (m *mockAuditRepo) List(ctx context.Context, limit, offset int) ([]*domain.AuditEntry, error) {
	return m.list(ctx, limit, offset)
}

func (m *mockAuditRepo) ListByActor(ctx context.Context, actorID uuid.UUID, limit int) ([]*domain.AuditEntry, error) {
	return m.listByActor(ctx, actorID, limit)
}

func (m *mockAuditRepo) Stats(ctx context.Context, days int) ([]*domain.ActivityStats, error) {
	return m.stats(ctx, days)
}

func (m *mockAuditRepo) recorded() []*domain.AuditEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*domain.AuditEntry, len(m.entries))
	copy(out, m.entries)
	return out
}

// mockStore satisfies v1.DataStore.
type mockStore struct {
	users    *mockUserRepo
	programs *mockProgramRepo
	news     *mockNewsRepo
	audit    *mockAuditRepo
}

func newMockStore() *mockStore {
	return &mockStore{
		users:    &mockUserRepo{},
		programs: &mockProgramRepo{},
		news:     &mockNewsRepo{},
		audit:    &mockAuditRepo{},
	}
}

func (s *mockStore) Users() domain.UserRepository       { return s.users }
func (s *mockStore) Programs() domain.ProgramRepository { return s.programs }
func (s *mockStore) News() domain.NewsRepository        { return s.news }
func (s *mockStore) Audit() domain.AuditRepository      { return s.audit }

type mockAuthService struct {
	login          func(ctx context.Context, username, password string) (string, *domain.User, error)
	createUser     func(ctx context.Context, username, email, password, fullName string, role domain.Role) (*domain.User, error)
	changePassword func(ctx context.Context, userID uuid.UUID, current, next string) error
}

func (m *mockAuthService) Login(ctx context.Context, username, password string) (string, *domain.User, error) {
	return m.login(ctx, username, password)
}

func (m *mockAuthService) CreateUser(ctx context.Context, username, email, password, fullName string, role domain.Role) (*domain.User, error) {
	return m.createUser(ctx, username, email, password, fullName, role)
}

func (m *mockAuthService) ChangePassword(ctx context.Context, userID uuid.UUID, current, next string) error {
	return m.changePassword(ctx, userID, current, next)
}

type mockLiveService struct {
	current func(ctx context.Context) (*domain.LiveStatus, error)
	update  func(ctx context.Context, status *domain.LiveStatus, updatedBy string) (*domain.LiveStatus, error)
}

func (m *mockLiveService) Current(ctx context.Context) (*domain.LiveStatus, error) {
	return m.current(ctx)
}

func (m *mockLiveService) Update(ctx context.Context, status *domain.LiveStatus, updatedBy string) (*domain.LiveStatus, error) {
	return m.update(ctx, status, updatedBy)
}

// identCtx builds a request context the way the auth and meta middleware
// would: identity plus captured request facts.
func identCtx(ident *auth.Identity) context.Context {
	ctx := context.Background()
	if ident != nil {
		ctx = context.WithValue(ctx, middleware.ContextKeyIdentity, ident)
	}
	return context.WithValue(ctx, middleware.ContextKeyRequestMeta, &middleware.RequestMeta{
		Method:   "TEST",
		URL:      "/test",
		ClientIP: "203.0.113.9",
	})
}

func editorIdent() *auth.Identity {
	return &auth.Identity{
		ID:       uuid.New(),
		Username: "editor1",
		Email:    "editor1@onair.local",
		Role:     domain.RoleEditor,
	}
}

func adminIdent() *auth.Identity {
	return &auth.Identity{
		ID:       uuid.New(),
		Username: "admin1",
		Email:    "admin1@onair.local",
		Role:     domain.RoleAdmin,
	}
}

func sampleProgram(createdBy uuid.UUID) *domain.Program {
	now := time.Now()
	return &domain.Program{
		ID:        uuid.New(),
		Title:     "Mañanas Sentidas",
		Host:      "Lucía Torres",
		Schedule:  "Lun-Vie 06:00-09:00",
		IsActive:  true,
		CreatedBy: createdBy,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func sampleNews(authorID uuid.UUID) *domain.News {
	now := time.Now()
	return &domain.News{
		ID:        uuid.New(),
		Title:     "Nueva programación de verano",
		Content:   "La emisora estrena su parrilla de verano con tres programas nuevos.",
		Excerpt:   "La emisora estrena su parrilla de verano.",
		Category:  domain.DefaultNewsCategory,
		AuthorID:  authorID,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
