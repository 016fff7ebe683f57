package v1

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/onairhq/onair/internal/audit"
	"github.com/onairhq/onair/internal/domain"
	"github.com/onairhq/onair/internal/server/middleware"
)

type GetLiveInput struct{}

type GetLiveOutput struct {
	Body *domain.LiveStatus
}

type UpdateLiveInput struct {
	Body struct {
		Program string `json:"program" minLength:"1" maxLength:"255" doc:"Program currently on air"`
		Host    string `json:"host,omitempty" maxLength:"255" doc:"Host currently on air"`
		Track   string `json:"track,omitempty" maxLength:"255" doc:"Track currently playing"`
	}
}

type UpdateLiveOutput struct {
	Body *domain.LiveStatus
}

// RegisterLiveReadRoutes mounts the status read for any authenticated role.
func RegisterLiveReadRoutes(api huma.API, liveSvc LiveService) {
	huma.Register(api, huma.Operation{
		OperationID: "get-live-status",
		Method:      http.MethodGet,
		Path:        "/live",
		Summary:     "Current on-air status",
		Tags:        []string{"Live"},
	}, func(ctx context.Context, _ *GetLiveInput) (*GetLiveOutput, error) {
		status, err := liveSvc.Current(ctx)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to load live status", err)
		}

		return &GetLiveOutput{Body: status}, nil
	})
}

// RegisterLiveWriteRoutes mounts the status update. Operators run the booth,
// so this is the one mutation open to every staff role.
func RegisterLiveWriteRoutes(api huma.API, liveSvc LiveService, rec *audit.Recorder) {
	huma.Register(api, huma.Operation{
		OperationID: "update-live-status",
		Method:      http.MethodPatch,
		Path:        "/live",
		Summary:     "Update the on-air status",
		Tags:        []string{"Live"},
	}, audit.Logged[UpdateLiveInput, UpdateLiveOutput](rec, "update", "live_status", nil,
		func(ctx context.Context, input *UpdateLiveInput) (*UpdateLiveOutput, error) {
			ident, ok := middleware.IdentityFromContext(ctx)
			if !ok {
				return nil, huma.Error401Unauthorized("authentication required")
			}

			status := &domain.LiveStatus{
				Program: input.Body.Program,
				Host:    input.Body.Host,
				Track:   input.Body.Track,
			}

			updated, err := liveSvc.Update(ctx, status, ident.Username)
			if err != nil {
				return nil, huma.Error500InternalServerError("failed to update live status", err)
			}

			return &UpdateLiveOutput{Body: updated}, nil
		}))
}
