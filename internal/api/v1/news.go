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

type CreateNewsInput struct {
	Body struct {
		Title    string `json:"title" minLength:"1" maxLength:"255" doc:"Story title"`
		Content  string `json:"content" minLength:"1" doc:"Story body"`
		Excerpt  string `json:"excerpt,omitempty" maxLength:"500" doc:"Short preview, derived from content when empty"`
		Category string `json:"category,omitempty" maxLength:"64" doc:"Story category"`
		ImageURL string `json:"image_url,omitempty" doc:"Cover image URL"`
	}
}

type CreateNewsOutput struct {
	Body *domain.News
}

type ListNewsInput struct{}

type ListNewsOutput struct {
	Body []*domain.News
}

type GetNewsInput struct {
	ID uuid.UUID `path:"id" doc:"Story ID"`
}

type GetNewsOutput struct {
	Body *domain.News
}

type UpdateNewsInput struct {
	ID   uuid.UUID `path:"id" doc:"Story ID"`
	Body struct {
		Title    string `json:"title" minLength:"1" maxLength:"255" doc:"Story title"`
		Content  string `json:"content" minLength:"1" doc:"Story body"`
		Excerpt  string `json:"excerpt,omitempty" maxLength:"500" doc:"Short preview, derived from content when empty"`
		Category string `json:"category,omitempty" maxLength:"64" doc:"Story category"`
		ImageURL string `json:"image_url,omitempty" doc:"Cover image URL"`
	}
}

type UpdateNewsOutput struct {
	Body *domain.News
}

type SetNewsPublishedInput struct {
	ID uuid.UUID `path:"id" doc:"Story ID"`
}

type SetNewsPublishedOutput struct {
	Body *domain.News
}

type DeleteNewsInput struct {
	ID uuid.UUID `path:"id" doc:"Story ID"`
}

type DeleteNewsOutput struct {
	Body struct {
		Message string `json:"message"`
	}
}

// RegisterNewsReadRoutes mounts the read endpoints for any authenticated role.
func RegisterNewsReadRoutes(api huma.API, store DataStore) {
	huma.Register(api, huma.Operation{
		OperationID: "list-news",
		Method:      http.MethodGet,
		Path:        "/news",
		Summary:     "List all news stories",
		Tags:        []string{"News"},
	}, func(ctx context.Context, _ *ListNewsInput) (*ListNewsOutput, error) {
		stories, err := store.News().List(ctx)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to list news", err)
		}

		return &ListNewsOutput{Body: stories}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-news",
		Method:      http.MethodGet,
		Path:        "/news/{id}",
		Summary:     "Get a news story by ID",
		Tags:        []string{"News"},
	}, func(ctx context.Context, input *GetNewsInput) (*GetNewsOutput, error) {
		n, err := store.News().GetByID(ctx, input.ID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("news story not found")
			}
			return nil, huma.Error500InternalServerError("failed to load news story", err)
		}

		return &GetNewsOutput{Body: n}, nil
	})
}

// RegisterNewsWriteRoutes mounts the mutating endpoints for the content roles
// (editor and up). Publication state changes through dedicated endpoints so
// the activity log distinguishes publish from edit.
func RegisterNewsWriteRoutes(api huma.API, store DataStore, rec *audit.Recorder) {
	huma.Register(api, huma.Operation{
		OperationID: "create-news",
		Method:      http.MethodPost,
		Path:        "/news",
		Summary:     "Create a news story",
		Tags:        []string{"News"},
	}, audit.Logged(rec, "create", "news",
		func(_ context.Context, _ *CreateNewsInput, out *CreateNewsOutput) string {
			return out.Body.ID.String()
		},
		func(ctx context.Context, input *CreateNewsInput) (*CreateNewsOutput, error) {
			ident, ok := middleware.IdentityFromContext(ctx)
			if !ok {
				return nil, huma.Error401Unauthorized("authentication required")
			}

			n, err := domain.NewNews(input.Body.Title, input.Body.Content, input.Body.Excerpt,
				input.Body.Category, ident.ID)
			if err != nil {
				return nil, huma.Error400BadRequest(err.Error())
			}
			n.ImageURL = input.Body.ImageURL

			if createErr := store.News().Create(ctx, n); createErr != nil {
				return nil, huma.Error500InternalServerError("failed to create news story", createErr)
			}

			return &CreateNewsOutput{Body: n}, nil
		}))

	huma.Register(api, huma.Operation{
		OperationID: "update-news",
		Method:      http.MethodPut,
		Path:        "/news/{id}",
		Summary:     "Update a news story",
		Tags:        []string{"News"},
	}, audit.Logged[UpdateNewsInput, UpdateNewsOutput](rec, "update", "news", nil,
		func(ctx context.Context, input *UpdateNewsInput) (*UpdateNewsOutput, error) {
			n, err := store.News().GetByID(ctx, input.ID)
			if err != nil {
				if errors.Is(err, domain.ErrNotFound) {
					return nil, huma.Error404NotFound("news story not found")
				}
				return nil, huma.Error500InternalServerError("failed to load news story", err)
			}

			n.Title = input.Body.Title
			n.Content = input.Body.Content
			n.Excerpt = input.Body.Excerpt
			n.Category = input.Body.Category
			n.ImageURL = input.Body.ImageURL

			if n.Title == "" || n.Content == "" {
				return nil, huma.Error400BadRequest(domain.ErrNewsInvalid.Error())
			}
			if n.Excerpt == "" {
				n.Excerpt = domain.Excerpt(n.Content)
			}
			if n.Category == "" {
				n.Category = domain.DefaultNewsCategory
			}

			if updateErr := store.News().Update(ctx, n); updateErr != nil {
				if errors.Is(updateErr, domain.ErrNotFound) {
					return nil, huma.Error404NotFound("news story not found")
				}
				return nil, huma.Error500InternalServerError("failed to update news story", updateErr)
			}

			return &UpdateNewsOutput{Body: n}, nil
		}))

	huma.Register(api, huma.Operation{
		OperationID: "publish-news",
		Method:      http.MethodPatch,
		Path:        "/news/{id}/publish",
		Summary:     "Publish a news story",
		Tags:        []string{"News"},
	}, audit.Logged[SetNewsPublishedInput, SetNewsPublishedOutput](rec, "publish", "news", nil,
		setNewsPublishedHandler(store, true)))

	huma.Register(api, huma.Operation{
		OperationID: "unpublish-news",
		Method:      http.MethodPatch,
		Path:        "/news/{id}/unpublish",
		Summary:     "Take a news story off the public site",
		Tags:        []string{"News"},
	}, audit.Logged[SetNewsPublishedInput, SetNewsPublishedOutput](rec, "unpublish", "news", nil,
		setNewsPublishedHandler(store, false)))
}

// RegisterNewsAdminRoutes mounts destructive endpoints for admin and up.
func RegisterNewsAdminRoutes(api huma.API, store DataStore, rec *audit.Recorder) {
	huma.Register(api, huma.Operation{
		OperationID: "delete-news",
		Method:      http.MethodDelete,
		Path:        "/news/{id}",
		Summary:     "Delete a news story",
		Tags:        []string{"News"},
	}, audit.Logged[DeleteNewsInput, DeleteNewsOutput](rec, "delete", "news", nil,
		func(ctx context.Context, input *DeleteNewsInput) (*DeleteNewsOutput, error) {
			if err := store.News().Delete(ctx, input.ID); err != nil {
				if errors.Is(err, domain.ErrNotFound) {
					return nil, huma.Error404NotFound("news story not found")
				}
				return nil, huma.Error500InternalServerError("failed to delete news story", err)
			}

			out := &DeleteNewsOutput{}
			out.Body.Message = "news story deleted"
			return out, nil
		}))
}

func setNewsPublishedHandler(store DataStore, published bool) func(context.Context, *SetNewsPublishedInput) (*SetNewsPublishedOutput, error) {
	return func(ctx context.Context, input *SetNewsPublishedInput) (*SetNewsPublishedOutput, error) {
		if err := store.News().SetPublished(ctx, input.ID, published); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("news story not found")
			}
			return nil, huma.Error500InternalServerError("failed to update publication state", err)
		}

		n, err := store.News().GetByID(ctx, input.ID)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to load news story", err)
		}

		return &SetNewsPublishedOutput{Body: n}, nil
	}
}
