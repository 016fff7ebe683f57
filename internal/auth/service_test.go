package auth_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/onairhq/onair/internal/auth"
	"github.com/onairhq/onair/internal/domain"
)

// mockUserRepo implements domain.UserRepository with overridable func fields.
type mockUserRepo struct {
	createFunc         func(ctx context.Context, u *domain.User) error
	getByIDFunc        func(ctx context.Context, id uuid.UUID) (*domain.User, error)
	getByUsernameFunc  func(ctx context.Context, username string) (*domain.User, error)
	listFunc           func(ctx context.Context) ([]*domain.User, error)
	updateFunc         func(ctx context.Context, u *domain.User) error
	updatePasswordFunc func(ctx context.Context, id uuid.UUID, hash string) error
	setActiveFunc      func(ctx context.Context, id uuid.UUID, active bool) error
	countActiveFunc    func(ctx context.Context) (int64, error)
}

func (m *mockUserRepo) Create(ctx context.Context, u *domain.User) error {
	return m.createFunc(ctx, u)
}

func (m *mockUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return m.getByIDFunc(ctx, id)
}

func (m *mockUserRepo) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return m.getByUsernameFunc(ctx, username)
}

func (m *mockUserRepo) List(ctx context.Context) ([]*domain.User, error) {
	return m.listFunc(ctx)
}

func (m *mockUserRepo) Update(ctx context.Context, u *domain.User) error {
	return m.updateFunc(ctx, u)
}

func (m *mockUserRepo) UpdatePassword(ctx context.Context, id uuid.UUID, hash string) error {
	return m.updatePasswordFunc(ctx, id, hash)
}

func (m *mockUserRepo) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	return m.setActiveFunc(ctx, id, active)
}

func (m *mockUserRepo) CountActive(ctx context.Context) (int64, error) {
	return m.countActiveFunc(ctx)
}

const testSecret = "service-test-secret-key-0123456789abcdef"

// registerUser creates a user through the service so the stored hash is a
// real argon2id hash, then returns it for lookup stubs.
func registerUser(t *testing.T, username, password string, role domain.Role) *domain.User {
	t.Helper()

	var created *domain.User
	repo := &mockUserRepo{
		getByUsernameFunc: func(_ context.Context, _ string) (*domain.User, error) {
			return nil, domain.ErrNotFound
		},
		createFunc: func(_ context.Context, u *domain.User) error {
			created = u
			return nil
		},
	}

	svc := auth.NewService(repo, testSecret, 0)
	_, err := svc.CreateUser(context.Background(), username, username+"@station.example", password, "Test User", role)
	require.NoError(t, err)
	require.NotNil(t, created)
	require.NotEmpty(t, created.PasswordHash)
	require.NotEqual(t, password, created.PasswordHash)

	return created
}

func TestService_Login(t *testing.T) {
	t.Parallel()

	user := registerUser(t, "paula", "s3cret-pass", domain.RoleAdmin)

	repo := &mockUserRepo{
		getByUsernameFunc: func(_ context.Context, username string) (*domain.User, error) {
			if username == "paula" {
				return user, nil
			}
			return nil, domain.ErrNotFound
		},
	}
	svc := auth.NewService(repo, testSecret, 0)

	t.Run("valid credentials issue a verifiable token", func(t *testing.T) {
		t.Parallel()

		token, got, err := svc.Login(context.Background(), "paula", "s3cret-pass")
		require.NoError(t, err)
		require.NotEmpty(t, token)
		assert.Equal(t, user.ID, got.ID)

		claims, err := auth.VerifyToken(testSecret, token)
		require.NoError(t, err)
		assert.Equal(t, user.ID.String(), claims.UserID)
		assert.Equal(t, "admin", claims.Role)
	})

	t.Run("wrong password rejected", func(t *testing.T) {
		t.Parallel()

		_, _, err := svc.Login(context.Background(), "paula", "wrong")
		assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
	})

	t.Run("unknown user rejected identically", func(t *testing.T) {
		t.Parallel()

		_, _, err := svc.Login(context.Background(), "ghost", "s3cret-pass")
		assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
	})
}

func TestService_CreateUser_DuplicateRejected(t *testing.T) {
	t.Parallel()

	existing := &domain.User{ID: uuid.New(), Username: "paula"}
	repo := &mockUserRepo{
		getByUsernameFunc: func(_ context.Context, _ string) (*domain.User, error) {
			return existing, nil
		},
	}
	svc := auth.NewService(repo, testSecret, 0)

	_, err := svc.CreateUser(context.Background(), "paula", "p@station.example", "pw123456", "", domain.RoleOperator)
	assert.ErrorIs(t, err, auth.ErrUserAlreadyExists)
}

func TestService_ChangePassword(t *testing.T) {
	t.Parallel()

	user := registerUser(t, "diego", "old-password", domain.RoleOperator)

	t.Run("happy path stores a new hash", func(t *testing.T) {
		t.Parallel()

		var storedHash string
		repo := &mockUserRepo{
			getByIDFunc: func(_ context.Context, id uuid.UUID) (*domain.User, error) {
				require.Equal(t, user.ID, id)
				return user, nil
			},
			updatePasswordFunc: func(_ context.Context, _ uuid.UUID, hash string) error {
				storedHash = hash
				return nil
			},
		}
		svc := auth.NewService(repo, testSecret, 0)

		err := svc.ChangePassword(context.Background(), user.ID, "old-password", "new-password")
		require.NoError(t, err)
		assert.NotEmpty(t, storedHash)
		assert.NotEqual(t, user.PasswordHash, storedHash)
	})

	t.Run("wrong current password rejected", func(t *testing.T) {
		t.Parallel()

		repo := &mockUserRepo{
			getByIDFunc: func(_ context.Context, _ uuid.UUID) (*domain.User, error) {
				return user, nil
			},
		}
		svc := auth.NewService(repo, testSecret, 0)

		err := svc.ChangePassword(context.Background(), user.ID, "nope", "new-password")
		assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
	})

	t.Run("unknown user rejected", func(t *testing.T) {
		t.Parallel()

		repo := &mockUserRepo{
			getByIDFunc: func(_ context.Context, _ uuid.UUID) (*domain.User, error) {
				return nil, domain.ErrNotFound
			},
		}
		svc := auth.NewService(repo, testSecret, 0)

		err := svc.ChangePassword(context.Background(), uuid.New(), "x", "y")
		assert.ErrorIs(t, err, auth.ErrUserNotFound)
	})
}

func TestService_EnsureDefaultAdmin(t *testing.T) {
	t.Parallel()

	t.Run("creates super_admin when missing", func(t *testing.T) {
		t.Parallel()

		var created *domain.User
		repo := &mockUserRepo{
			getByUsernameFunc: func(_ context.Context, _ string) (*domain.User, error) {
				return nil, domain.ErrNotFound
			},
			createFunc: func(_ context.Context, u *domain.User) error {
				created = u
				return nil
			},
		}
		svc := auth.NewService(repo, testSecret, 0)

		require.NoError(t, svc.EnsureDefaultAdmin(context.Background()))
		require.NotNil(t, created)
		assert.Equal(t, "admin", created.Username)
		assert.Equal(t, domain.RoleSuperAdmin, created.Role)
		assert.True(t, created.IsActive)
	})

	t.Run("no-op when admin exists", func(t *testing.T) {
		t.Parallel()

		repo := &mockUserRepo{
			getByUsernameFunc: func(_ context.Context, _ string) (*domain.User, error) {
				return &domain.User{ID: uuid.New(), Username: "admin"}, nil
			},
			createFunc: func(_ context.Context, _ *domain.User) error {
				t.Fatal("create must not be called")
				return nil
			},
		}
		svc := auth.NewService(repo, testSecret, 0)

		require.NoError(t, svc.EnsureDefaultAdmin(context.Background()))
	})

	t.Run("lookup failure surfaces", func(t *testing.T) {
		t.Parallel()

		repo := &mockUserRepo{
			getByUsernameFunc: func(_ context.Context, _ string) (*domain.User, error) {
				return nil, errors.New("db: connection refused")
			},
		}
		svc := auth.NewService(repo, testSecret, 0)

		assert.Error(t, svc.EnsureDefaultAdmin(context.Background()))
	})
}
