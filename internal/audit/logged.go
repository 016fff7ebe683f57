package audit

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/go-chi/chi/v5"
)

// Resolver maps a finished operation to the id of the resource it touched.
// It sees the input and the finalized output, so handlers that create
// resources can report the generated id.
type Resolver[I, O any] func(ctx context.Context, in *I, out *O) string

// Logged decorates a typed operation handler with activity recording. The
// handler runs to completion first; the decorator then inspects the outcome
// as a settled value:
//
//   - success: one entry with the given action and resource
//   - client error (4xx): no entry
//   - server error (5xx): a fault entry instead
//
// The decorator never alters the handler's result.
func Logged[I, O any](rec *Recorder, action, resource string, resolve Resolver[I, O], handler func(ctx context.Context, in *I) (*O, error)) func(ctx context.Context, in *I) (*O, error) {
	return func(ctx context.Context, in *I) (*O, error) {
		out, err := handler(ctx, in)

		switch status := statusOf(err); {
		case status >= http.StatusInternalServerError:
			rec.RecordFault(ctx, err.Error())
		case status >= http.StatusBadRequest:
			// Rejected requests changed nothing worth recording.
		default:
			rec.Record(buildEntry(ctx, action, resource, resolveTyped(resolve, ctx, in, out)))
		}

		return out, err
	}
}

// statusOf maps a handler error to the HTTP status the framework will send.
// Errors that carry no status are treated as internal.
func statusOf(err error) int {
	if err == nil {
		return http.StatusOK
	}
	var se huma.StatusError
	if errors.As(err, &se) {
		return se.GetStatus()
	}
	return http.StatusInternalServerError
}

func resolveTyped[I, O any](resolve Resolver[I, O], ctx context.Context, in *I, out *O) (id string) {
	defer func() {
		if recover() != nil {
			id = pathParamID(ctx)
		}
	}()

	if resolve != nil {
		if v := resolve(ctx, in, out); v != "" {
			return v
		}
	}
	return pathParamID(ctx)
}

// pathParamID reads the "id" URL parameter from the routing context, which
// survives into the handler's context.
func pathParamID(ctx context.Context) string {
	if rctx := chi.RouteContext(ctx); rctx != nil {
		return rctx.URLParam("id")
	}
	return ""
}
