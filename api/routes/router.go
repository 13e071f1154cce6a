package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/homio-app/homio-backend/api/controllers"
	"github.com/homio-app/homio-backend/api/middleware"
	"github.com/homio-app/homio-backend/internal/auth"
	"github.com/homio-app/homio-backend/internal/connections"
	"github.com/homio-app/homio-backend/internal/feed"
	"github.com/homio-app/homio-backend/internal/users"
	"github.com/homio-app/homio-backend/pkg/auth/session"
	"github.com/homio-app/homio-backend/pkg/config"
	"github.com/homio-app/homio-backend/pkg/logger"
	"github.com/homio-app/homio-backend/pkg/redis"
)

// RouterParams carries everything the HTTP surface depends on.
type RouterParams struct {
	Config      *config.Config
	Logger      *logger.Logger
	DB          controllers.Pinger
	Redis       controllers.Pinger
	Idempotency redis.IdempotencyStore
	Sessions    session.AccessSessionChecker
	Auth        auth.Service
	Users       users.Service
	Connections connections.Service
	Feed        feed.Generator
	// Metrics defaults to the global prometheus gatherer.
	Metrics prometheus.Gatherer
}

func NewRouter(p RouterParams) http.Handler {
	cfg := p.Config
	logg := p.Logger

	gatherer := p.Metrics
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	cookie := controllers.CookieOptions{Secure: cfg.App.IsProd()}
	idempotent := middleware.Idempotency(p.Idempotency, logg)

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.CORS),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, map[string]controllers.Pinger{
			"db":    p.DB,
			"redis": p.Redis,
		}))
	})
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(idempotent).Post("/signup", controllers.AuthSignup(p.Auth, logg))
		r.Post("/login", controllers.AuthLogin(p.Auth, cookie, logg))
		r.Post("/logout", controllers.AuthLogout(p.Auth, cfg.JWT, cookie, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, p.Sessions, logg))

		r.Route("/profile", func(r chi.Router) {
			r.Get("/", controllers.ProfileView(p.Users, logg))
			r.Patch("/", controllers.ProfileEdit(p.Users, logg))
			r.With(idempotent).Post("/photo-upload-url", controllers.ProfilePhotoUploadURL(p.Users, logg))
		})
		r.Get("/users/{userId}", controllers.UserPublicProfile(p.Users, logg))

		r.Route("/requests", func(r chi.Router) {
			r.With(idempotent).Post("/send/{status}/{toUserId}", controllers.RequestSend(p.Connections, logg))
			r.With(idempotent).Post("/review/{decision}/{requestId}", controllers.RequestReview(p.Connections, logg))
			r.Get("/received", controllers.RequestsReceived(p.Connections, logg))
		})
		r.Get("/connections", controllers.ConnectionsList(p.Connections, logg))
		r.Get("/feed", controllers.Feed(p.Feed, logg))
	})

	return r
}
