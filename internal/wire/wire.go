package wire

import (
	"net/http"

	"book-review/internal/adaptor"
	"book-review/internal/data/repository"
	"book-review/internal/usecase"
	"book-review/pkg/metrics"
	"book-review/pkg/middleware"
	"book-review/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// App holds the router and the background resources it owns.
type App struct {
	Router  *chi.Mux
	Service *usecase.Service

	closers []func()
}

// Close stops cache janitors started during wiring.
func (a *App) Close() {
	for _, fn := range a.closers {
		fn()
	}
}

// Wiring builds services, handlers and routes. rdb may be nil, in which case
// rate-limit counters are kept in process.
func Wiring(repo *repository.Repository, rdb *redis.Client, config *utils.Config, logger *zap.Logger) *App {
	tokens := utils.NewTokenManager(config.JWT.Secret, config.JWT.Expiry)

	service := usecase.NewService(repo, config, tokens, logger)
	handler := adaptor.NewHandler(service, config, logger)

	app := &App{Service: service}
	app.closers = append(app.closers, service.Rating.Stop)

	var store middleware.RateStore
	if rdb != nil {
		store = middleware.NewRedisStore(rdb)
	} else {
		mem := middleware.NewMemoryStore()
		app.closers = append(app.closers, mem.Stop)
		store = mem
	}

	app.Router = setupRouter(handler, repo, tokens, store, config, logger)
	return app
}

func setupRouter(
	handler *adaptor.Handler,
	repo *repository.Repository,
	tokens *utils.TokenManager,
	store middleware.RateStore,
	config *utils.Config,
	logger *zap.Logger,
) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recover(logger))
	r.Use(middleware.SecureHeaders)
	r.Use(middleware.CORS(config.CORS.Origins))
	r.Use(middleware.BodyLimit(config.App.BodyLimit))

	// set before mounting so sub-routers inherit them
	r.NotFound(handler.System.NotFound)
	r.MethodNotAllowed(handler.System.NotFound)

	r.Get("/", handler.System.Root)
	r.Get("/health", handler.System.Health)
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	protect := middleware.Auth(tokens, repo.User, logger)

	r.Route("/api", func(api chi.Router) {
		api.Use(middleware.RateLimit(store, config.RateLimit.MaxRequests, config.RateLimit.Window, logger))

		wireAuth(api, handler.Auth, protect)
		wireBook(api, handler.Book, protect)
		wireReview(api, handler.Review, protect)
	})

	return r
}
