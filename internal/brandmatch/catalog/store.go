package catalog

import (
	"context"
	"sync/atomic"
	"time"

	"brandmatch-service/internal/brandmatch/model"
)

// Snapshot: неизменяемый загруженный справочник вместе с индексом.
type Snapshot struct {
	Rows     []model.CatalogRow
	Index    *Index
	Source   string
	LoadedAt time.Time
}

// NewSnapshot копирует rows и строит индекс.
func NewSnapshot(rows []model.CatalogRow, source string) *Snapshot {
	own := make([]model.CatalogRow, len(rows))
	copy(own, rows)
	return &Snapshot{
		Rows:     own,
		Index:    BuildIndex(own),
		Source:   source,
		LoadedAt: time.Now(),
	}
}

// Stats: сводка по справочнику для /catalog.
type Stats struct {
	Brands   int       `json:"brands"`
	Rows     int       `json:"rows"`
	Source   string    `json:"source"`
	LoadedAt time.Time `json:"loadedAt"`
}

// Store: текущий снимок; перезагрузка подменяет его целиком.
type Store struct {
	loader Loader
	cur    atomic.Pointer[Snapshot]
}

func NewStore(loader Loader) *Store {
	return &Store{loader: loader}
}

// Reload строит новый снимок полностью и только потом публикует его.
func (s *Store) Reload(ctx context.Context) *Snapshot {
	rows, src := s.loader.Load(ctx)
	snap := NewSnapshot(rows, src)
	s.cur.Store(snap)
	return snap
}

// Set: опубликовать готовый набор строк (тесты, офлайн-режим).
func (s *Store) Set(rows []model.CatalogRow, source string) *Snapshot {
	snap := NewSnapshot(rows, source)
	s.cur.Store(snap)
	return snap
}

// Current: текущий снимок или nil, если ничего не загружено.
func (s *Store) Current() *Snapshot {
	return s.cur.Load()
}

func (s *Store) Stats() Stats {
	snap := s.cur.Load()
	if snap == nil {
		return Stats{}
	}
	return Stats{
		Brands:   snap.Index.Len(),
		Rows:     len(snap.Rows),
		Source:   snap.Source,
		LoadedAt: snap.LoadedAt,
	}
}
