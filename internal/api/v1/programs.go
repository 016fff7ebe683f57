package v1

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"

	"github.com/onairhq/onair/internal/audit"
	"github.com/onairhq/onair/internal/domain"
	"github.com/onairhq/onair/internal/server/middleware"
)

type CreateProgramInput struct {
	Body struct {
		Title       string `json:"title" minLength:"1" maxLength:"255" doc:"Program title"`
		Description string `json:"description,omitempty" doc:"Program description"`
		Host        string `json:"host,omitempty" maxLength:"255" doc:"Host name"`
		Schedule    string `json:"schedule" minLength:"1" maxLength:"255" doc:"Broadcast schedule"`
		ImageURL    string `json:"image_url,omitempty" doc:"Cover image URL"`
	}
}

type CreateProgramOutput struct {
	Body *domain.Program
}

type ListProgramsInput struct{}

type ListProgramsOutput struct {
	Body []*domain.Program
}

type GetProgramInput struct {
	ID uuid.UUID `path:"id" doc:"Program ID"`
}

type GetProgramOutput struct {
	Body *domain.Program
}

type UpdateProgramInput struct {
	ID   uuid.UUID `path:"id" doc:"Program ID"`
	Body struct {
		Title       string `json:"title" minLength:"1" maxLength:"255" doc:"Program title"`
		Description string `json:"description,omitempty" doc:"Program description"`
		Host        string `json:"host,omitempty" maxLength:"255" doc:"Host name"`
		Schedule    string `json:"schedule" minLength:"1" maxLength:"255" doc:"Broadcast schedule"`
		ImageURL    string `json:"image_url,omitempty" doc:"Cover image URL"`
	}
}

type UpdateProgramOutput struct {
	Body *domain.Program
}

type SetProgramActiveInput struct {
	ID uuid.UUID `path:"id" doc:"Program ID"`
}

type SetProgramActiveOutput struct {
	Body *domain.Program
}

type DeleteProgramInput struct {
	ID uuid.UUID `path:"id" doc:"Program ID"`
}

type DeleteProgramOutput struct {
	Body struct {
		Message string `json:"message"`
	}
}

// RegisterProgramReadRoutes mounts the read endpoints for any authenticated
// role.
func RegisterProgramReadRoutes(api huma.API, store DataStore) {
	huma.Register(api, huma.Operation{
		OperationID: "list-programs",
		Method:      http.MethodGet,
		Path:        "/programs",
		Summary:     "List all programs",
		Tags:        []string{"Programs"},
	}, func(ctx context.Context, _ *ListProgramsInput) (*ListProgramsOutput, error) {
		programs, err := store.Programs().List(ctx)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to list programs", err)
		}

		return &ListProgramsOutput{Body: programs}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-program",
		Method:      http.MethodGet,
		Path:        "/programs/{id}",
		Summary:     "Get a program by ID",
		Tags:        []string{"Programs"},
	}, func(ctx context.Context, input *GetProgramInput) (*GetProgramOutput, error) {
		p, err := store.Programs().GetByID(ctx, input.ID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("program not found")
			}
			return nil, huma.Error500InternalServerError("failed to load program", err)
		}

		return &GetProgramOutput{Body: p}, nil
	})
}

// RegisterProgramWriteRoutes mounts the mutating endpoints for the content
// roles (editor and up). Every success lands in the activity log.
func RegisterProgramWriteRoutes(api huma.API, store DataStore, rec *audit.Recorder) {
	huma.Register(api, huma.Operation{
		OperationID: "create-program",
		Method:      http.MethodPost,
		Path:        "/programs",
		Summary:     "Create a program",
		Tags:        []string{"Programs"},
	}, audit.Logged(rec, "create", "programs",
		func(_ context.Context, _ *CreateProgramInput, out *CreateProgramOutput) string {
			return out.Body.ID.String()
		},
		func(ctx context.Context, input *CreateProgramInput) (*CreateProgramOutput, error) {
			ident, ok := middleware.IdentityFromContext(ctx)
			if !ok {
				return nil, huma.Error401Unauthorized("authentication required")
			}

			p, err := domain.NewProgram(input.Body.Title, input.Body.Description, input.Body.Host,
				input.Body.Schedule, input.Body.ImageURL, ident.ID)
			if err != nil {
				return nil, huma.Error400BadRequest(err.Error())
			}

			if createErr := store.Programs().Create(ctx, p); createErr != nil {
				return nil, huma.Error500InternalServerError("failed to create program", createErr)
			}

			return &CreateProgramOutput{Body: p}, nil
		}))

	huma.Register(api, huma.Operation{
		OperationID: "update-program",
		Method:      http.MethodPut,
		Path:        "/programs/{id}",
		Summary:     "Update a program",
		Tags:        []string{"Programs"},
	}, audit.Logged[UpdateProgramInput, UpdateProgramOutput](rec, "update", "programs", nil,
		func(ctx context.Context, input *UpdateProgramInput) (*UpdateProgramOutput, error) {
			p, err := store.Programs().GetByID(ctx, input.ID)
			if err != nil {
				if errors.Is(err, domain.ErrNotFound) {
					return nil, huma.Error404NotFound("program not found")
				}
				return nil, huma.Error500InternalServerError("failed to load program", err)
			}

			p.Title = input.Body.Title
			p.Description = input.Body.Description
			p.Host = input.Body.Host
			p.Schedule = input.Body.Schedule
			p.ImageURL = input.Body.ImageURL

			if p.Title == "" || p.Schedule == "" {
				return nil, huma.Error400BadRequest(domain.ErrProgramInvalid.Error())
			}

			if updateErr := store.Programs().Update(ctx, p); updateErr != nil {
				if errors.Is(updateErr, domain.ErrNotFound) {
					return nil, huma.Error404NotFound("program not found")
				}
				return nil, huma.Error500InternalServerError("failed to update program", updateErr)
			}

			return &UpdateProgramOutput{Body: p}, nil
		}))

	huma.Register(api, huma.Operation{
		OperationID: "activate-program",
		Method:      http.MethodPatch,
		Path:        "/programs/{id}/activate",
		Summary:     "Put a program back on the schedule",
		Tags:        []string{"Programs"},
	}, audit.Logged[SetProgramActiveInput, SetProgramActiveOutput](rec, "update", "programs", nil,
		setProgramActiveHandler(store, true)))

	huma.Register(api, huma.Operation{
		OperationID: "deactivate-program",
		Method:      http.MethodPatch,
		Path:        "/programs/{id}/deactivate",
		Summary:     "Take a program off the schedule",
		Tags:        []string{"Programs"},
	}, audit.Logged[SetProgramActiveInput, SetProgramActiveOutput](rec, "update", "programs", nil,
		setProgramActiveHandler(store, false)))
}

// RegisterProgramAdminRoutes mounts destructive endpoints for admin and up.
func RegisterProgramAdminRoutes(api huma.API, store DataStore, rec *audit.Recorder) {
	huma.Register(api, huma.Operation{
		OperationID: "delete-program",
		Method:      http.MethodDelete,
		Path:        "/programs/{id}",
		Summary:     "Delete a program",
		Tags:        []string{"Programs"},
	}, audit.Logged[DeleteProgramInput, DeleteProgramOutput](rec, "delete", "programs", nil,
		func(ctx context.Context, input *DeleteProgramInput) (*DeleteProgramOutput, error) {
			if err := store.Programs().Delete(ctx, input.ID); err != nil {
				if errors.Is(err, domain.ErrNotFound) {
					return nil, huma.Error404NotFound("program not found")
				}
				return nil, huma.Error500InternalServerError("failed to delete program", err)
			}

			out := &DeleteProgramOutput{}
			out.Body.Message = "program deleted"
			return out, nil
		}))
}

func setProgramActiveHandler(store DataStore, active bool) func(context.Context, *SetProgramActiveInput) (*SetProgramActiveOutput, error) {
	return func(ctx context.Context, input *SetProgramActiveInput) (*SetProgramActiveOutput, error) {
		if err := store.Programs().SetActive(ctx, input.ID, active); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("program not found")
			}
			return nil, huma.Error500InternalServerError("failed to update program state", err)
		}

		p, err := store.Programs().GetByID(ctx, input.ID)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to load program", err)
		}

		return &SetProgramActiveOutput{Body: p}, nil
	}
}
