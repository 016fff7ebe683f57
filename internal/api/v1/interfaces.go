package v1

import (
	"context"

	"github.com/google/uuid"

	"github.com/onairhq/onair/internal/domain"
)

// DataStore abstracts the repository accessor pattern for handler testing.
// *postgres.Store satisfies this interface.
type DataStore interface {
	Users() domain.UserRepository
	Programs() domain.ProgramRepository
	News() domain.NewsRepository
	Audit() domain.AuditRepository
}

// AuthService abstracts credential operations for handler testing.
// *auth.Service satisfies this interface.
type AuthService interface {
	Login(ctx context.Context, username, password string) (token string, user *domain.User, err error)
	CreateUser(ctx context.Context, username, email, password, fullName string, role domain.Role) (*domain.User, error)
	ChangePassword(ctx context.Context, userID uuid.UUID, current, next string) error
}

// LiveService abstracts the on-air status for handler testing.
// *live.Service satisfies this interface.
type LiveService interface {
	Current(ctx context.Context) (*domain.LiveStatus, error)
	Update(ctx context.Context, status *domain.LiveStatus, updatedBy string) (*domain.LiveStatus, error)
}
