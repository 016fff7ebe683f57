package v1

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"

	"github.com/onairhq/onair/internal/audit"
	"github.com/onairhq/onair/internal/auth"
	"github.com/onairhq/onair/internal/domain"
)

type CreateUserInput struct {
	Body struct {
		Username string      `json:"username" minLength:"3" maxLength:"64" doc:"Account username"`
		Email    string      `json:"email" format:"email" doc:"Account email"`
		Password string      `json:"password" minLength:"6" maxLength:"128" doc:"Initial password"` //nolint:gosec // G117: admin-created credential DTO
		FullName string      `json:"full_name,omitempty" maxLength:"255" doc:"Display name"`
		Role     domain.Role `json:"role" doc:"One of operator, editor, admin, super_admin"`
	}
}

type CreateUserOutput struct {
	Body *domain.User
}

type ListUsersInput struct{}

type ListUsersOutput struct {
	Body []*domain.User
}

type UpdateUserInput struct {
	ID   uuid.UUID `path:"id" doc:"User ID"`
	Body struct {
		Email    string      `json:"email" format:"email" doc:"Account email"`
		FullName string      `json:"full_name,omitempty" maxLength:"255" doc:"Display name"`
		Role     domain.Role `json:"role" doc:"One of operator, editor, admin, super_admin"`
	}
}

type UpdateUserOutput struct {
	Body *domain.User
}

type SetUserActiveInput struct {
	ID uuid.UUID `path:"id" doc:"User ID"`
}

type SetUserActiveOutput struct {
	Body *domain.User
}

// RegisterUserRoutes mounts account management for super_admin only.
func RegisterUserRoutes(api huma.API, store DataStore, authSvc AuthService, rec *audit.Recorder) {
	huma.Register(api, huma.Operation{
		OperationID: "list-users",
		Method:      http.MethodGet,
		Path:        "/users",
		Summary:     "List all user accounts",
		Tags:        []string{"Users"},
	}, func(ctx context.Context, _ *ListUsersInput) (*ListUsersOutput, error) {
		users, err := store.Users().List(ctx)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to list users", err)
		}

		return &ListUsersOutput{Body: users}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "create-user",
		Method:      http.MethodPost,
		Path:        "/users",
		Summary:     "Create a user account",
		Tags:        []string{"Users"},
	}, audit.Logged(rec, "create", "users",
		func(_ context.Context, _ *CreateUserInput, out *CreateUserOutput) string {
			return out.Body.ID.String()
		},
		func(ctx context.Context, input *CreateUserInput) (*CreateUserOutput, error) {
			if !input.Body.Role.Valid() {
				return nil, huma.Error400BadRequest("unknown role")
			}

			user, err := authSvc.CreateUser(ctx, input.Body.Username, input.Body.Email,
				input.Body.Password, input.Body.FullName, input.Body.Role)
			if err != nil {
				switch {
				case errors.Is(err, auth.ErrUserAlreadyExists), errors.Is(err, domain.ErrConflict):
					return nil, huma.Error409Conflict("username or email already in use")
				default:
					return nil, huma.Error500InternalServerError("failed to create user", err)
				}
			}

			return &CreateUserOutput{Body: user}, nil
		}))

	huma.Register(api, huma.Operation{
		OperationID: "update-user",
		Method:      http.MethodPut,
		Path:        "/users/{id}",
		Summary:     "Update a user account",
		Description: "Changes profile fields and role. Passwords and the active flag have their own endpoints.",
		Tags:        []string{"Users"},
	}, audit.Logged[UpdateUserInput, UpdateUserOutput](rec, "update", "users", nil,
		func(ctx context.Context, input *UpdateUserInput) (*UpdateUserOutput, error) {
			if !input.Body.Role.Valid() {
				return nil, huma.Error400BadRequest("unknown role")
			}

			user, err := store.Users().GetByID(ctx, input.ID)
			if err != nil {
				if errors.Is(err, domain.ErrNotFound) {
					return nil, huma.Error404NotFound("user not found")
				}
				return nil, huma.Error500InternalServerError("failed to load user", err)
			}

			user.Email = input.Body.Email
			user.FullName = input.Body.FullName
			user.Role = input.Body.Role

			if updateErr := store.Users().Update(ctx, user); updateErr != nil {
				switch {
				case errors.Is(updateErr, domain.ErrNotFound):
					return nil, huma.Error404NotFound("user not found")
				case errors.Is(updateErr, domain.ErrConflict):
					return nil, huma.Error409Conflict("email already in use")
				default:
					return nil, huma.Error500InternalServerError("failed to update user", updateErr)
				}
			}

			return &UpdateUserOutput{Body: user}, nil
		}))

	huma.Register(api, huma.Operation{
		OperationID: "activate-user",
		Method:      http.MethodPatch,
		Path:        "/users/{id}/activate",
		Summary:     "Reactivate a user account",
		Tags:        []string{"Users"},
	}, audit.Logged[SetUserActiveInput, SetUserActiveOutput](rec, "update", "users", nil,
		setUserActiveHandler(store, true)))

	huma.Register(api, huma.Operation{
		OperationID: "deactivate-user",
		Method:      http.MethodPatch,
		Path:        "/users/{id}/deactivate",
		Summary:     "Deactivate a user account",
		Description: "Deactivated accounts can no longer log in. Existing tokens expire on their own.",
		Tags:        []string{"Users"},
	}, audit.Logged[SetUserActiveInput, SetUserActiveOutput](rec, "update", "users", nil,
		setUserActiveHandler(store, false)))
}

func setUserActiveHandler(store DataStore, active bool) func(context.Context, *SetUserActiveInput) (*SetUserActiveOutput, error) {
	return func(ctx context.Context, input *SetUserActiveInput) (*SetUserActiveOutput, error) {
		if err := store.Users().SetActive(ctx, input.ID, active); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("user not found")
			}
			return nil, huma.Error500InternalServerError("failed to update account state", err)
		}

		user, err := store.Users().GetByID(ctx, input.ID)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to load user", err)
		}

		return &SetUserActiveOutput{Body: user}, nil
	}
}
