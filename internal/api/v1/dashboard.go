package v1

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/onairhq/onair/internal/domain"
)

type DashboardInput struct{}

type DashboardOutput struct {
	Body struct {
		ActiveUsers    int64                `json:"active_users"`
		ActivePrograms int64                `json:"active_programs"`
		PublishedNews  int64                `json:"published_news"`
		RecentActivity []*domain.AuditEntry `json:"recent_activity"`
	}
}

const dashboardRecentLimit = 10

// RegisterDashboardRoutes mounts the station overview for admin and up.
func RegisterDashboardRoutes(api huma.API, store DataStore) {
	huma.Register(api, huma.Operation{
		OperationID: "dashboard",
		Method:      http.MethodGet,
		Path:        "/dashboard",
		Summary:     "Station overview counts and recent activity",
		Tags:        []string{"Dashboard"},
	}, func(ctx context.Context, _ *DashboardInput) (*DashboardOutput, error) {
		users, err := store.Users().CountActive(ctx)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to count users", err)
		}

		programs, err := store.Programs().CountActive(ctx)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to count programs", err)
		}

		news, err := store.News().CountPublished(ctx)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to count news", err)
		}

		recent, err := store.Audit().List(ctx, dashboardRecentLimit, 0)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to load recent activity", err)
		}

		out := &DashboardOutput{}
		out.Body.ActiveUsers = users
		out.Body.ActivePrograms = programs
		out.Body.PublishedNews = news
		out.Body.RecentActivity = recent
		return out, nil
	})
}
