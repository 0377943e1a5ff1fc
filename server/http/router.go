package serverhttp

import (
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	bmHnd "brandmatch-service/internal/brandmatch/handler"
	"brandmatch-service/internal/config"
	"brandmatch-service/internal/middleware"
	"brandmatch-service/server/http/handlers"
)

// Deps: то, что роутер раздаёт обработчикам.
type Deps struct {
	Service  bmHnd.Runner
	Keywords bmHnd.KeywordStore
	Catalog  bmHnd.CatalogStore
}

func NewRouter(cfg config.Config, deps Deps, logger zerolog.Logger) *chi.Mux {
	r := chi.NewRouter()

	// порядок важен: recover -> requestID -> logging -> cors -> limit
	r.Use(middleware.Recover(logger))
	r.Use(middleware.RequestID())
	r.Use(middleware.Logging(logger))
	r.Use(middleware.CORS(cfg.AllowOrigins))
	r.Use(middleware.LimitBytes(int64(cfg.MaxUploadMB) * 1024 * 1024))

	// health-check
	r.Get("/health", handlers.Health)

	// основной эндпоинт
	r.With(middleware.RateLimit(cfg.RateLimit.PerSecond, cfg.RateLimit.Burst)).
		Post("/match", bmHnd.Match(deps.Service, cfg.MaxUploadMB, logger))

	r.Route("/keywords", func(r chi.Router) {
		r.Get("/", bmHnd.ListKeywords(deps.Keywords, logger))
		r.Post("/", bmHnd.AddKeyword(deps.Keywords, logger))
		r.Delete("/{keyword}", bmHnd.RemoveKeyword(deps.Keywords, logger))
	})

	r.Get("/catalog", bmHnd.Catalog(deps.Catalog, logger))
	r.Post("/catalog/refresh", bmHnd.RefreshCatalog(deps.Catalog, logger))

	return r
}
