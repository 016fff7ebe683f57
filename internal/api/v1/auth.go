package v1

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/onairhq/onair/internal/audit"
	"github.com/onairhq/onair/internal/auth"
	"github.com/onairhq/onair/internal/domain"
	"github.com/onairhq/onair/internal/server/middleware"
)

type LoginInput struct {
	Body struct {
		Username string `json:"username" minLength:"1" maxLength:"64" doc:"Account username"`
		Password string `json:"password" minLength:"1" maxLength:"128" doc:"Password"` //nolint:gosec // G117: login credential DTO
	}
}

type LoginOutput struct {
	Body struct {
		Token string       `json:"token"` //nolint:gosec // G117: auth response DTO
		User  *domain.User `json:"user"`
	}
}

type VerifyInput struct{}

type VerifyOutput struct {
	Body struct {
		User *domain.User `json:"user"`
	}
}

type LogoutInput struct{}

type LogoutOutput struct {
	Body struct {
		Message string `json:"message"`
	}
}

type ChangePasswordInput struct {
	Body struct {
		CurrentPassword string `json:"current_password" minLength:"1" maxLength:"128" doc:"Current password"` //nolint:gosec // G117: credential DTO
		NewPassword     string `json:"new_password" minLength:"6" maxLength:"128" doc:"New password"`         //nolint:gosec // G117: credential DTO
	}
}

type ChangePasswordOutput struct {
	Body struct {
		Message string `json:"message"`
	}
}

// RegisterAuthPublicRoutes mounts login on the unauthenticated surface.
func RegisterAuthPublicRoutes(api huma.API, authSvc AuthService, rec *audit.Recorder) {
	huma.Register(api, huma.Operation{
		OperationID: "login",
		Method:      http.MethodPost,
		Path:        "/auth/login",
		Summary:     "Login with username and password",
		Tags:        []string{"Auth"},
	}, func(ctx context.Context, input *LoginInput) (*LoginOutput, error) {
		token, user, err := authSvc.Login(ctx, input.Body.Username, input.Body.Password)
		if err != nil {
			if errors.Is(err, auth.ErrInvalidCredentials) {
				return nil, huma.Error401Unauthorized("invalid username or password")
			}
			return nil, huma.Error500InternalServerError("login failed", err)
		}

		// Logins are recorded by hand: the request carries no identity yet,
		// so the generic decorator would log an anonymous event.
		recordLogin(ctx, rec, user)

		user.PasswordHash = ""

		out := &LoginOutput{}
		out.Body.Token = token
		out.Body.User = user
		return out, nil
	})
}

// RegisterAuthRoutes mounts the session endpoints for authenticated users of
// any role.
func RegisterAuthRoutes(api huma.API, store DataStore, authSvc AuthService, rec *audit.Recorder) {
	huma.Register(api, huma.Operation{
		OperationID: "verify-token",
		Method:      http.MethodGet,
		Path:        "/auth/verify",
		Summary:     "Verify the session token and return the account",
		Tags:        []string{"Auth"},
	}, func(ctx context.Context, _ *VerifyInput) (*VerifyOutput, error) {
		ident, ok := middleware.IdentityFromContext(ctx)
		if !ok {
			return nil, huma.Error401Unauthorized("authentication required")
		}

		user, err := store.Users().GetByID(ctx, ident.ID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error401Unauthorized("account no longer exists")
			}
			return nil, huma.Error500InternalServerError("failed to load account", err)
		}

		user.PasswordHash = ""

		out := &VerifyOutput{}
		out.Body.User = user
		return out, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "logout",
		Method:      http.MethodPost,
		Path:        "/auth/logout",
		Summary:     "Logout",
		Description: "Tokens are stateless; logout records the event and the client discards the token.",
		Tags:        []string{"Auth"},
	}, audit.Logged[LogoutInput, LogoutOutput](rec, "logout", "auth", nil,
		func(_ context.Context, _ *LogoutInput) (*LogoutOutput, error) {
			out := &LogoutOutput{}
			out.Body.Message = "logged out"
			return out, nil
		}))

	huma.Register(api, huma.Operation{
		OperationID: "change-password",
		Method:      http.MethodPut,
		Path:        "/auth/password",
		Summary:     "Change the current user's password",
		Tags:        []string{"Auth"},
	}, audit.Logged(rec, "change_password", "auth",
		func(ctx context.Context, _ *ChangePasswordInput, _ *ChangePasswordOutput) string {
			if ident, ok := middleware.IdentityFromContext(ctx); ok {
				return ident.ID.String()
			}
			return ""
		},
		func(ctx context.Context, input *ChangePasswordInput) (*ChangePasswordOutput, error) {
			ident, ok := middleware.IdentityFromContext(ctx)
			if !ok {
				return nil, huma.Error401Unauthorized("authentication required")
			}

			err := authSvc.ChangePassword(ctx, ident.ID, input.Body.CurrentPassword, input.Body.NewPassword)
			if err != nil {
				switch {
				case errors.Is(err, auth.ErrInvalidCredentials):
					return nil, huma.Error401Unauthorized("current password is incorrect")
				case errors.Is(err, auth.ErrUserNotFound):
					return nil, huma.Error401Unauthorized("account no longer exists")
				default:
					return nil, huma.Error500InternalServerError("failed to change password", err)
				}
			}

			out := &ChangePasswordOutput{}
			out.Body.Message = "password updated"
			return out, nil
		}))
}

func recordLogin(ctx context.Context, rec *audit.Recorder, user *domain.User) {
	entry := &domain.AuditEntry{
		ActorID:    &user.ID,
		ActorName:  user.Username,
		Action:     "login",
		Resource:   "auth",
		ResourceID: user.ID.String(),
		Details:    map[string]any{},
	}
	if meta, ok := middleware.MetaFromContext(ctx); ok {
		entry.Details["method"] = meta.Method
		entry.Details["url"] = meta.URL
		entry.OriginIP = meta.ClientIP
	}
	rec.Record(entry)
}
