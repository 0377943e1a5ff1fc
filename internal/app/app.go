// Package app собирает зависимости сервиса из конфигурации.
package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"brandmatch-service/internal/brandmatch/catalog"
	"brandmatch-service/internal/brandmatch/keywords"
	"brandmatch-service/internal/brandmatch/service"
	"brandmatch-service/internal/config"
)

type App struct {
	Config   config.Config
	Keywords *keywords.Registry
	Catalog  *catalog.Store
	Service  *service.Service

	watcher *keywords.Watcher
	log     zerolog.Logger
}

// New загружает ключевые слова и справочник. Ошибка чтения ключевых слов
// не фатальна: работаем с пустым списком, как и при недоступном справочнике.
func New(ctx context.Context, cfg config.Config, logger zerolog.Logger) (*App, error) {
	reg := keywords.NewRegistry(keywords.NewXLSXRepository(cfg.Keywords.File), logger.With().Str("component", "keywords").Logger())
	if err := reg.Load(ctx); err != nil {
		logger.Warn().Err(err).Str("file", cfg.Keywords.File).Msg("continuing without keywords")
	}

	store := catalog.NewStore(catalog.Loader{
		Primary: CatalogSource(cfg.Catalog),
		Log:     logger.With().Str("component", "catalog").Logger(),
	})
	store.Reload(ctx)

	svc, err := service.New(store, reg, cfg.Options(), logger)
	if err != nil {
		return nil, fmt.Errorf("service: %w", err)
	}

	a := &App{Config: cfg, Keywords: reg, Catalog: store, Service: svc, log: logger}
	if cfg.Keywords.Watch {
		if err := a.watch(); err != nil {
			logger.Warn().Err(err).Str("file", cfg.Keywords.File).Msg("keyword watcher disabled")
		}
	}
	return a, nil
}

// CatalogSource: url важнее файла; ни того ни другого, встроенный набор.
func CatalogSource(c config.CatalogConfig) catalog.Source {
	switch {
	case c.URL != "":
		return catalog.NewHTTPSource(c.URL, c.Timeout, c.RefreshRate)
	case c.File != "":
		return catalog.FileSource{Path: c.File}
	}
	return nil
}

func (a *App) watch() error {
	w, err := keywords.NewWatcher()
	if err != nil {
		return err
	}
	if err := w.Watch(a.Config.Keywords.File, a.Keywords, a.log); err != nil {
		return errors.Join(err, w.Stop())
	}
	a.watcher = w
	return nil
}

func (a *App) Close() error {
	if a.watcher == nil {
		return nil
	}
	return a.watcher.Stop()
}
