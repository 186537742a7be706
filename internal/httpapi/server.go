package httpapi

import (
	"context"
	"log/slog"
	"net/http"
	"slices"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"movemate-admin/internal/auth"
	"movemate-admin/internal/config"
	"movemate-admin/internal/fleet"
	"movemate-admin/internal/session"
)

// Deps are the collaborators the HTTP layer needs.
type Deps struct {
	Controller *auth.Controller
	Storage    session.Store
	Catalog    *fleet.Catalog
	Logger     *slog.Logger
	// Gatherer backs /metrics. Nil disables the endpoint.
	Gatherer prometheus.Gatherer
	// Checks are run by /health, keyed by dependency name.
	Checks map[string]func(context.Context) error
}

type Server struct {
	cfg      config.Config
	deps     Deps
	logger   *slog.Logger
	signer   *clientSigner
	sessions *sessionRegistry
	router   chi.Router
}

func NewServer(cfg config.Config, deps Deps) *Server {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if deps.Catalog == nil {
		deps.Catalog = fleet.NewDefaultCatalog()
	}

	s := &Server{
		cfg:      cfg,
		deps:     deps,
		logger:   logger,
		signer:   newClientSigner(cfg.JWTSecret),
		sessions: newSessionRegistry(deps.Controller, deps.Storage),
	}
	s.registerRoutes()
	return s
}

func (s *Server) Handler() http.Handler {
	return s.router
}

// SweepSessions drops in-process sessions idle longer than idle.
func (s *Server) SweepSessions(idle time.Duration) int {
	return s.sessions.Sweep(idle)
}

func (s *Server) registerRoutes() {
	r := chi.NewRouter()

	// Cross-origin access is off unless origins are configured. Cookies are
	// never shared with a wildcard origin.
	if origins := s.cfg.CORSOrigins; len(origins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   origins,
			AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-Id"},
			ExposedHeaders:   []string{"X-Request-Id"},
			AllowCredentials: !slices.Contains(origins, "*"),
			MaxAge:           300,
		}))
	}
	r.Use(chimw.RequestID)
	r.Use(s.clientMiddleware)
	r.Use(loggingMiddleware(s.logger))
	r.Use(chimw.Recoverer)

	r.Get("/health", s.handleHealth)
	if s.deps.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.deps.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Group(func(r chi.Router) {
		r.Use(s.sessionMiddleware)

		r.Get("/admin-login", s.handleLoginPage)
		r.Post("/admin-login", s.handleLogin)
		r.Post("/admin-logout", s.handleLogout)

		r.Get("/admin-forgot-password", s.handleForgotPage)
		r.Post("/admin-forgot-password", s.handleForgot)
		r.Get("/admin-reset-security", s.handleSecurityPage)
		r.Post("/admin-reset-security", s.handleSecurity)
		r.Get("/admin-reset-password", s.handleResetPage)
		r.Post("/admin-reset-password", s.handleReset)

		r.Route("/admin", func(r chi.Router) {
			r.Use(requireLogin)

			r.Get("/", s.handleDashboard)
			r.Get("/me", s.handleMe)
			r.Get("/orders", s.handleOrders)
			r.Get("/orders/{id}", s.handleOrder)
			r.Get("/drivers", s.handleDrivers)
			r.Get("/drivers/{id}", s.handleDriver)
			r.NotFound(func(w http.ResponseWriter, r *http.Request) {
				http.Redirect(w, r, "/admin", http.StatusSeeOther)
			})
		})
	})

	s.router = r
}
