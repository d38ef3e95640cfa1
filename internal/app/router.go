package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/anitrack/anitrack/internal/admins"
	"github.com/anitrack/anitrack/internal/analytics"
	"github.com/anitrack/anitrack/internal/anime"
	"github.com/anitrack/anitrack/internal/audit"
	"github.com/anitrack/anitrack/internal/auth"
	"github.com/anitrack/anitrack/internal/community"
	"github.com/anitrack/anitrack/internal/lists"
	"github.com/anitrack/anitrack/internal/notifications"
	"github.com/anitrack/anitrack/internal/observability"
	"github.com/anitrack/anitrack/internal/users"
	"github.com/anitrack/anitrack/web"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger               *slog.Logger
	Config               *Config
	Metrics              *observability.Metrics
	Guard                *auth.Guard
	AuthHandler          *auth.Handler
	UsersHandler         *users.Handler
	AdminsHandler        *admins.Handler
	AuditHandler         *audit.Handler
	AnimeHandler         *anime.Handler
	ListsHandler         *lists.Handler
	CommunityHandler     *community.Handler
	AnalyticsHandler     *analytics.Handler
	NotificationsHandler *notifications.Handler
}

// NewRouter constructs the chi.Router with AniTrack defaults.
//
// Route guarding policy: /auth and catalog/community reads are public;
// everything under /me requires an authenticated identity; the /admin
// subtree declares per-route role and permission requirements which the
// guard enforces before any handler runs.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger: params.Logger,
		Config: params.Config,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)
	r.Use(params.Metrics.Middleware)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		data, err := web.Static.ReadFile("static/index.html")
		if err != nil {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write(data)
	})
	r.Handle("/static/*", http.FileServer(http.FS(web.Static)))

	r.Route("/auth", params.AuthHandler.MountRoutes)

	r.Route("/anime", params.AnimeHandler.MountRoutes)

	r.Route("/communities", func(r chi.Router) {
		params.CommunityHandler.MountPublicRoutes(r)
		r.Group(func(r chi.Router) {
			r.Use(params.Guard.Authenticate())
			params.CommunityHandler.MountMemberRoutes(r)
		})
	})

	r.Route("/me", func(r chi.Router) {
		r.Use(params.Guard.Authenticate())
		params.UsersHandler.MountRoutes(r)
		r.Route("/list", params.ListsHandler.MountRoutes)
		r.Route("/notifications", params.NotificationsHandler.MountInbox)
	})

	r.Route("/admin", func(r chi.Router) {
		// Bootstrap is open to any authenticated identity; the policy
		// decides whether the one-time path is still available.
		r.Group(func(r chi.Router) {
			r.Use(params.Guard.Authenticate())
			r.Use(params.Guard.Sensitive("admin.bootstrap", "admin"))
			params.AdminsHandler.MountBootstrap(r)
		})

		r.Group(func(r chi.Router) {
			r.Use(params.Guard.Require(auth.RoleSuperAdmin, auth.PermissionAdmin))
			r.Use(params.Guard.Sensitive("admin.provision", "admin"))
			params.AdminsHandler.MountProvision(r)
		})

		r.Group(func(r chi.Router) {
			r.Use(params.Guard.Require(auth.RoleAdmin, auth.PermissionRead))
			r.Route("/analytics", params.AnalyticsHandler.MountRoutes)
			r.Route("/audit", params.AuditHandler.MountRoutes)
		})

		r.Group(func(r chi.Router) {
			r.Use(params.Guard.Require(auth.RoleAdmin, auth.PermissionWrite))
			r.Use(params.Guard.Sensitive("notification.broadcast", "notification"))
			params.NotificationsHandler.MountBroadcast(r)
		})
	})

	return r
}
