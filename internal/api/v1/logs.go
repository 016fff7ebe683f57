package v1

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"

	"github.com/onairhq/onair/internal/domain"
)

type ListLogsInput struct {
	Limit  int `query:"limit" default:"50" minimum:"1" maximum:"500" doc:"Page size"`
	Offset int `query:"offset" default:"0" minimum:"0" doc:"Page offset"`
}

type ListLogsOutput struct {
	Body []*domain.AuditEntry
}

type LogStatsInput struct {
	Days int `query:"days" default:"7" minimum:"1" maximum:"90" doc:"How many days back to aggregate"`
}

type LogStatsOutput struct {
	Body []*domain.ActivityStats
}

type UserLogsInput struct {
	ID    uuid.UUID `path:"id" doc:"Actor user ID"`
	Limit int       `query:"limit" default:"50" minimum:"1" maximum:"500" doc:"Page size"`
}

type UserLogsOutput struct {
	Body []*domain.AuditEntry
}

// RegisterLogRoutes mounts the activity log read endpoints for admin and up.
// The log is read-only over the API; entries are appended only by the
// recorder.
func RegisterLogRoutes(api huma.API, store DataStore) {
	huma.Register(api, huma.Operation{
		OperationID: "list-logs",
		Method:      http.MethodGet,
		Path:        "/logs",
		Summary:     "List activity log entries, newest first",
		Tags:        []string{"Logs"},
	}, func(ctx context.Context, input *ListLogsInput) (*ListLogsOutput, error) {
		entries, err := store.Audit().List(ctx, input.Limit, input.Offset)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to list activity log", err)
		}

		return &ListLogsOutput{Body: entries}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "log-stats",
		Method:      http.MethodGet,
		Path:        "/logs/stats",
		Summary:     "Daily activity aggregates",
		Tags:        []string{"Logs"},
	}, func(ctx context.Context, input *LogStatsInput) (*LogStatsOutput, error) {
		stats, err := store.Audit().Stats(ctx, input.Days)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to aggregate activity log", err)
		}

		return &LogStatsOutput{Body: stats}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "user-logs",
		Method:      http.MethodGet,
		Path:        "/logs/user/{id}",
		Summary:     "List activity by one actor",
		Tags:        []string{"Logs"},
	}, func(ctx context.Context, input *UserLogsInput) (*UserLogsOutput, error) {
		entries, err := store.Audit().ListByActor(ctx, input.ID, input.Limit)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to list activity log", err)
		}

		return &UserLogsOutput{Body: entries}, nil
	})
}
