package server

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"

	v1 "github.com/onairhq/onair/internal/api/v1"
	"github.com/onairhq/onair/internal/audit"
	"github.com/onairhq/onair/internal/domain"
	"github.com/onairhq/onair/internal/obs"
	"github.com/onairhq/onair/internal/server/middleware"
	"github.com/onairhq/onair/internal/uploads"
)

// Role sets per API group. Authorization is exact membership; super_admin is
// always named explicitly.
var (
	allStaff   = []domain.Role{domain.RoleOperator, domain.RoleEditor, domain.RoleAdmin, domain.RoleSuperAdmin}
	contentSet = []domain.Role{domain.RoleEditor, domain.RoleAdmin, domain.RoleSuperAdmin}
	adminSet   = []domain.Role{domain.RoleAdmin, domain.RoleSuperAdmin}
	superSet   = []domain.Role{domain.RoleSuperAdmin}
)

// apiConfig builds one huma config per role group. Docs paths get a distinct
// prefix because the groups share the /api/v1 routing tree.
func apiConfig(title, docsPrefix string) huma.Config {
	cfg := huma.DefaultConfig(title, "1.0.0")
	cfg.Servers = []*huma.Server{{URL: "/api/v1"}}
	cfg.OpenAPIPath = docsPrefix + "/openapi"
	cfg.DocsPath = docsPrefix + "/docs"
	cfg.SchemasPath = docsPrefix + "/schemas"
	return cfg
}

func (s *Server) registerRoutes(fileStore *uploads.FileStore) {
	s.router.Route("/api/v1", func(r chi.Router) {
		// Unauthenticated group: login and the public site surface.
		r.Group(func(r chi.Router) {
			api := humachi.New(r, apiConfig("OnAir Public API", "/public-api"))
			v1.RegisterAuthPublicRoutes(api, s.auth, s.recorder)
			v1.RegisterPublicRoutes(api, s.store, s.live, s.cfg)
		})

		// Authenticated groups, one per role set.
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(s.cfg.JWT.Secret))

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireRole(allStaff...))
				api := humachi.New(r, apiConfig("OnAir Staff API", "/staff-api"))
				v1.RegisterAuthRoutes(api, s.store, s.auth, s.recorder)
				v1.RegisterLiveReadRoutes(api, s.live)
				v1.RegisterLiveWriteRoutes(api, s.live, s.recorder)
			})

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireRole(contentSet...))
				api := humachi.New(r, apiConfig("OnAir Content API", "/content-api"))
				v1.RegisterProgramReadRoutes(api, s.store)
				v1.RegisterProgramWriteRoutes(api, s.store, s.recorder)
				v1.RegisterNewsReadRoutes(api, s.store)
				v1.RegisterNewsWriteRoutes(api, s.store, s.recorder)

				s.registerUploadRoutes(r, fileStore)
			})

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireRole(adminSet...))
				api := humachi.New(r, apiConfig("OnAir Admin API", "/admin-api"))
				v1.RegisterProgramAdminRoutes(api, s.store, s.recorder)
				v1.RegisterNewsAdminRoutes(api, s.store, s.recorder)
				v1.RegisterLogRoutes(api, s.store)
				v1.RegisterDashboardRoutes(api, s.store)
			})

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireRole(superSet...))
				api := humachi.New(r, apiConfig("OnAir User Management API", "/user-api"))
				v1.RegisterUserRoutes(api, s.store, s.auth, s.recorder)
			})
		})
	})

	// WebSocket feed for the public site player.
	s.router.Get("/ws/live", s.wsHub.ServeLive)

	// Stored images, served as-is.
	s.router.Handle("/uploads/*", http.StripPrefix("/uploads/",
		http.FileServer(http.Dir(fileStore.Dir()))))

	// Health check (unauthenticated).
	s.router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	// Prometheus scrape endpoint.
	s.router.Method(http.MethodGet, "/metrics", obs.Handler())
}

// registerUploadRoutes mounts the multipart endpoints inside the content
// group. They are plain chi handlers, so the activity log is attached as
// route middleware rather than a handler decorator.
func (s *Server) registerUploadRoutes(r chi.Router, fileStore *uploads.FileStore) {
	h := uploads.NewHandler(fileStore)

	r.With(audit.Middleware(s.recorder, "upload", "uploads", uploads.ResourceExtractor)).
		Post("/uploads/{kind}", h.Upload)
	r.With(audit.Middleware(s.recorder, "delete_upload", "uploads", uploads.ResourceExtractor)).
		Delete("/uploads/{kind}/{filename}", h.Remove)
}
