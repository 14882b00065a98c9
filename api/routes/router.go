package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/angelmondragon/reelhouse-backend/api/controllers"
	"github.com/angelmondragon/reelhouse-backend/api/middleware"
	"github.com/angelmondragon/reelhouse-backend/internal/accounts"
	"github.com/angelmondragon/reelhouse-backend/internal/auth"
	"github.com/angelmondragon/reelhouse-backend/internal/comments"
	"github.com/angelmondragon/reelhouse-backend/internal/movies"
	"github.com/angelmondragon/reelhouse-backend/pkg/auth/session"
	"github.com/angelmondragon/reelhouse-backend/pkg/config"
	"github.com/angelmondragon/reelhouse-backend/pkg/logger"
	"github.com/angelmondragon/reelhouse-backend/pkg/metrics"
	"github.com/angelmondragon/reelhouse-backend/pkg/redis"
)

// Params collects everything the HTTP surface needs. Optional dependencies
// (metrics, redis) may be nil.
type Params struct {
	Config          *config.Config
	Logger          *logger.Logger
	DBPinger        controllers.Pinger
	RedisClient     *redis.Client
	SessionChecker  session.AccessSessionChecker
	HTTPMetrics     *metrics.HTTPMetrics
	MetricsGatherer prometheus.Gatherer

	AuthService     auth.Service
	AccountsService accounts.Service
	MoviesService   movies.Service
	CommentsService comments.Service
}

func NewRouter(p Params) http.Handler {
	cfg := p.Config
	logg := p.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.CORS(),
		middleware.Logging(logg, p.HTTPMetrics),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, map[string]controllers.Pinger{
			"db":    p.DBPinger,
			"redis": redisPinger(p.RedisClient),
		}))
	})

	if p.MetricsGatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(p.MetricsGatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(loginPolicy, p.RedisClient, logg)).Post("/login", controllers.AuthLogin(p.AuthService, logg))
		r.Post("/logout", controllers.AuthLogout(p.AuthService, cfg.JWT, logg))
		r.Post("/refresh", controllers.AuthRefresh(p.AuthService, logg))
	})

	r.Route("/api/v1/users", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(registerPolicy, p.RedisClient, logg)).Post("/", controllers.UsersRegister(p.AccountsService, logg))
		r.Get("/create/confirm/{uid}/{token}", controllers.UsersActivate(p.AccountsService, logg))
		r.Get("/{id}", controllers.UsersGet(p.AccountsService, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, p.SessionChecker, logg))
			r.Patch("/{id}", controllers.UsersUpdate(p.AccountsService, logg))
			r.Post("/me/email", controllers.UsersRequestEmailChange(p.AccountsService, logg))
			r.Get("/email/confirm/{token}/{newEmail}", controllers.UsersConfirmEmailChange(p.AccountsService, logg))
			r.Delete("/me", controllers.UsersDelete(p.AccountsService, logg))
		})
	})

	r.Route("/api/v1/movies", func(r chi.Router) {
		r.Get("/", controllers.MoviesList(p.MoviesService, logg))
		r.Get("/{id}", controllers.MoviesGet(p.MoviesService, logg))
		r.Get("/{id}/comments", controllers.CommentsList(p.CommentsService, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, p.SessionChecker, logg))
			r.Post("/", controllers.MoviesUpload(p.MoviesService, cfg.Media.MaxUploadBytes(), logg))
			r.Patch("/{id}", controllers.MoviesUpdate(p.MoviesService, logg))
			r.Delete("/{id}", controllers.MoviesDelete(p.MoviesService, logg))
			r.Post("/{id}/comments", controllers.CommentsCreate(p.CommentsService, logg))
		})
	})

	return r
}

// redisPinger keeps a typed-nil redis client from masquerading as a live
// Pinger in the readiness map.
func redisPinger(client *redis.Client) controllers.Pinger {
	if client == nil {
		return nil
	}
	return client
}
