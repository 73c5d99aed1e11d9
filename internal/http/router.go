package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

type RouterConfig struct {
	Auth      *AuthHandler
	Users     *UserHandler
	Resources *ResourceHandler
	Bookings  *BookingHandler
	Session   *SessionHandler
	Health    *HealthHandler
	// Metrics is mounted at /metrics when set.
	Metrics http.Handler
	// SessionMiddleware guards the /api/session routes. Without it those
	// routes are not registered.
	SessionMiddleware func(http.Handler) http.Handler
	// Middleware wraps every route, outermost first.
	Middleware []func(http.Handler) http.Handler
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	for _, mw := range cfg.Middleware {
		if mw != nil {
			r.Use(mw)
		}
	}
	r.Use(middleware.Recoverer)

	fallback := newResponder(nil)
	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		fallback.writeError(req.Context(), w, http.StatusNotFound, "Not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, req *http.Request) {
		fallback.writeError(req.Context(), w, http.StatusMethodNotAllowed, http.StatusText(http.StatusMethodNotAllowed))
	})

	if cfg.Health != nil {
		r.Get("/healthz", cfg.Health.Check)
	}
	if cfg.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", cfg.Metrics)
	}

	r.Route("/api", func(api chi.Router) {
		if cfg.Users != nil {
			api.Route("/users", func(users chi.Router) {
				users.Get("/", cfg.Users.List)
				users.Post("/", cfg.Users.Create)
				users.Get("/{id}", cfg.Users.Get)
				users.Put("/{id}", cfg.Users.Update)
				users.Delete("/{id}", cfg.Users.Delete)
			})
		}

		if cfg.Auth != nil {
			api.Post("/login", cfg.Auth.Login)
		}

		if cfg.Resources != nil {
			api.Route("/resources", func(resources chi.Router) {
				resources.Get("/", cfg.Resources.List)
				resources.Post("/", cfg.Resources.Create)
				resources.Get("/type/{type}", cfg.Resources.ByType)
				resources.Get("/{id}", cfg.Resources.Get)
				resources.Put("/{id}", cfg.Resources.Update)
				resources.Delete("/{id}", cfg.Resources.Delete)
			})
		}

		if cfg.Bookings != nil {
			api.Route("/bookings", func(bookings chi.Router) {
				bookings.Get("/", cfg.Bookings.List)
				bookings.Post("/", cfg.Bookings.Create)
				bookings.Get("/user/{userId}", cfg.Bookings.ByUser)
				bookings.Get("/resource/{resourceId}", cfg.Bookings.ByResource)
				bookings.Get("/{id}", cfg.Bookings.Get)
				bookings.Put("/{id}", cfg.Bookings.Update)
				bookings.Delete("/{id}", cfg.Bookings.Cancel)
			})
		}

		if cfg.Session != nil && cfg.SessionMiddleware != nil {
			api.Route("/session", func(session chi.Router) {
				session.Use(cfg.SessionMiddleware)
				session.Get("/", cfg.Session.Current)
				session.Get("/bookings", cfg.Session.Bookings)
			})
		}
	})

	return r
}
