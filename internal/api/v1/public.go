package v1

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/onairhq/onair/internal/config"
	"github.com/onairhq/onair/internal/domain"
)

type PublicNewsListInput struct {
	Limit  int `query:"limit" default:"10" minimum:"1" maximum:"50" doc:"Page size"`
	Offset int `query:"offset" default:"0" minimum:"0" doc:"Page offset"`
}

type PublicNewsListOutput struct {
	Body struct {
		News  []*domain.News `json:"news"`
		Total int64          `json:"total"`
	}
}

type PublicNewsGetInput struct {
	ID uuid.UUID `path:"id" doc:"Story ID"`
}

type PublicNewsGetOutput struct {
	Body *domain.News
}

type PublicProgramsInput struct{}

type PublicProgramsOutput struct {
	Body []*domain.Program
}

type PublicStatsInput struct{}

type PublicStatsOutput struct {
	Body struct {
		ActivePrograms int64 `json:"active_programs"`
		PublishedNews  int64 `json:"published_news"`
	}
}

type StationInfoInput struct{}

type StationInfoOutput struct {
	Body struct {
		Name        string `json:"name"`
		Frequency   string `json:"frequency"`
		Location    string `json:"location"`
		Description string `json:"description"`
	}
}

type StreamInfoInput struct{}

type StreamInfoOutput struct {
	Body struct {
		URL  string             `json:"url"`
		Live *domain.LiveStatus `json:"live"`
	}
}

// RegisterPublicRoutes mounts the unauthenticated read-only surface for the
// station website. Only published stories and active programs are visible
// here.
func RegisterPublicRoutes(api huma.API, store DataStore, liveSvc LiveService, cfg *config.Config) {
	huma.Register(api, huma.Operation{
		OperationID: "public-list-news",
		Method:      http.MethodGet,
		Path:        "/public/news",
		Summary:     "List published news, newest first",
		Tags:        []string{"Public"},
	}, func(ctx context.Context, input *PublicNewsListInput) (*PublicNewsListOutput, error) {
		stories, err := store.News().ListPublished(ctx, input.Limit, input.Offset)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to list news", err)
		}

		total, err := store.News().CountPublished(ctx)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to count news", err)
		}

		out := &PublicNewsListOutput{}
		out.Body.News = stories
		out.Body.Total = total
		return out, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "public-get-news",
		Method:      http.MethodGet,
		Path:        "/public/news/{id}",
		Summary:     "Get a published news story",
		Tags:        []string{"Public"},
	}, func(ctx context.Context, input *PublicNewsGetInput) (*PublicNewsGetOutput, error) {
		n, err := store.News().GetByID(ctx, input.ID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("news story not found")
			}
			return nil, huma.Error500InternalServerError("failed to load news story", err)
		}

		// Unpublished stories do not exist as far as the public is concerned.
		if !n.IsPublished {
			return nil, huma.Error404NotFound("news story not found")
		}

		return &PublicNewsGetOutput{Body: n}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "public-list-programs",
		Method:      http.MethodGet,
		Path:        "/public/programs",
		Summary:     "List active programs ordered by schedule",
		Tags:        []string{"Public"},
	}, func(ctx context.Context, _ *PublicProgramsInput) (*PublicProgramsOutput, error) {
		programs, err := store.Programs().ListActive(ctx)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to list programs", err)
		}

		return &PublicProgramsOutput{Body: programs}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "public-stats",
		Method:      http.MethodGet,
		Path:        "/public/stats",
		Summary:     "Public station counters",
		Tags:        []string{"Public"},
	}, func(ctx context.Context, _ *PublicStatsInput) (*PublicStatsOutput, error) {
		programs, err := store.Programs().CountActive(ctx)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to count programs", err)
		}

		news, err := store.News().CountPublished(ctx)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to count news", err)
		}

		out := &PublicStatsOutput{}
		out.Body.ActivePrograms = programs
		out.Body.PublishedNews = news
		return out, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "station-info",
		Method:      http.MethodGet,
		Path:        "/public/station",
		Summary:     "Station profile",
		Tags:        []string{"Public"},
	}, func(_ context.Context, _ *StationInfoInput) (*StationInfoOutput, error) {
		out := &StationInfoOutput{}
		out.Body.Name = cfg.Station.Name
		out.Body.Frequency = cfg.Station.Frequency
		out.Body.Location = cfg.Station.Location
		out.Body.Description = cfg.Station.Description
		return out, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "stream-info",
		Method:      http.MethodGet,
		Path:        "/public/stream",
		Summary:     "Audio stream URL and current on-air status",
		Tags:        []string{"Public"},
	}, func(ctx context.Context, _ *StreamInfoInput) (*StreamInfoOutput, error) {
		status, err := liveSvc.Current(ctx)
		if err != nil {
			// The stream endpoint stays up when the status cache is down.
			log.Warn().Err(err).Msg("public: live status unavailable")
			status = nil
		}

		out := &StreamInfoOutput{}
		out.Body.URL = cfg.Stream.URL
		out.Body.Live = status
		return out, nil
	})
}
