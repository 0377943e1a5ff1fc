package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"brandmatch-service/internal/brandmatch/catalog"
)

// CatalogStore: текущий снимок справочника и его перезагрузка.
type CatalogStore interface {
	Stats() catalog.Stats
	Reload(ctx context.Context) *catalog.Snapshot
}

// Catalog: GET /catalog.
func Catalog(store CatalogStore, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, store.Stats(), requestLogger(r, logger))
	}
}

// RefreshCatalog: POST /catalog/refresh. Источник недоступен, встроенный набор, не ошибка.
func RefreshCatalog(store CatalogStore, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := requestLogger(r, logger)
		start := time.Now()
		snap := store.Reload(r.Context())
		log.Info().
			Str("source", snap.Source).
			Int("rows", len(snap.Rows)).
			Dur("elapsed", time.Since(start)).
			Msg("catalog refreshed")
		writeJSON(w, http.StatusOK, store.Stats(), log)
	}
}
