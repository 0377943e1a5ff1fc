package service

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"brandmatch-service/internal/brandmatch/catalog"
	"brandmatch-service/internal/brandmatch/keywords"
	"brandmatch-service/internal/brandmatch/model"
)

// mutableKeywords: набор ключевых слов, который тест может подменить.
type mutableKeywords struct {
	mu  sync.Mutex
	set keywords.Set
}

func (m *mutableKeywords) Snapshot() keywords.Set {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.set
}

func (m *mutableKeywords) replace(set keywords.Set) {
	m.mu.Lock()
	m.set = set
	m.mu.Unlock()
}

func staticKeywords(literals, wildcards []string) *mutableKeywords {
	return &mutableKeywords{set: keywords.Set{Literals: literals, Wildcards: wildcards, Version: 1}}
}

func newStore(rows []model.CatalogRow) *catalog.Store {
	s := catalog.NewStore(catalog.Loader{Log: zerolog.Nop()})
	s.Set(rows, "test")
	return s
}

func newTestEngine(rows []model.CatalogRow, opt model.Options) *Engine {
	metric, err := NewMetric(opt.Metric)
	if err != nil {
		panic(err)
	}
	norm := NewNormalizer(staticKeywords(nil, nil), opt.MemoSize, zerolog.Nop())
	return NewEngine(newStore(rows), norm, metric, opt, zerolog.Nop())
}

// fakeMatcher: Matcher из функции.
type fakeMatcher func(ctx context.Context, brand, product, size, color string) (model.Match, error)

func (f fakeMatcher) Match(ctx context.Context, brand, product, size, color string) (model.Match, error) {
	return f(ctx, brand, product, size, color)
}
