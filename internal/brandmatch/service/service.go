package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"brandmatch-service/internal/brandmatch/model"
	"brandmatch-service/internal/fileio"
)

// Имена листов выходной книги.
const (
	SheetOrders  = "Sheet2"
	SheetSimilar = "유사도매칭결과"
)

// Service: конвейер: раскладка строк → индексный матчинг → проход по похожести.
type Service struct {
	Normalizer    *Normalizer
	Engine        *Engine
	Canonicalizer *Canonicalizer
	Orchestrator  *Orchestrator
	Fallback      *FallbackMatcher

	log zerolog.Logger
}

// New собирает конвейер над справочником src и набором ключевых слов kw.
func New(src SnapshotSource, kw KeywordSource, opt model.Options, logger zerolog.Logger) (*Service, error) {
	metric, err := NewMetric(opt.Metric)
	if err != nil {
		return nil, err
	}
	norm := NewNormalizer(kw, opt.MemoSize, logger)
	engine := NewEngine(src, norm, metric, opt, logger)
	return &Service{
		Normalizer:    norm,
		Engine:        engine,
		Canonicalizer: NewCanonicalizer(norm, logger),
		Orchestrator:  NewOrchestrator(engine, opt, logger),
		Fallback:      NewFallbackMatcher(src, norm, metric, opt.Fallback, logger),
		log:           logger,
	}, nil
}

// Result: итог обработки листа заказов.
type Result struct {
	Columns []string                 `json:"columns"`
	Rows    []model.OrderRow         `json:"rows"`
	Tiers   []model.MatchTier        `json:"tiers"`
	Similar []model.SimilarityResult `json:"similar"`
	Stats   model.BatchStats         `json:"stats"`
}

// Run: полный проход по таблице. Ошибка только если раскладка прервана ctx.
func (s *Service) Run(ctx context.Context, tbl fileio.Table) (Result, error) {
	start := time.Now()
	rows, err := s.Canonicalizer.Convert(ctx, tbl.Rows, tbl.Width())
	if err != nil {
		return Result{}, fmt.Errorf("convert: %w", err)
	}

	batch := s.Orchestrator.ProcessMatching(ctx, rows)
	res := Result{
		Columns: model.OrderColumns,
		Rows:    batch.Rows,
		Tiers:   batch.Tiers,
		Stats:   batch.Stats,
	}
	if len(batch.Failed) > 0 {
		s.log.Info().Int("failed", len(batch.Failed)).Msg("similarity matching for failed rows")
		res.Similar = s.Fallback.MatchFailed(ctx, batch.Failed)
		// строки, найденные только по похожести, получают свой уровень
		for _, r := range res.Similar {
			if r.Status == model.TierSimilar && r.Source.RowIndex < len(res.Tiers) {
				res.Tiers[r.Source.RowIndex] = model.TierSimilar
			}
		}
	}
	res.Stats.Elapsed = time.Since(start)
	return res, nil
}

// Sheets: листы выходной книги: канонические строки и результаты похожести.
func (r Result) Sheets() []fileio.Sheet {
	orders := fileio.Sheet{Name: SheetOrders, Header: model.OrderColumns}
	for _, row := range r.Rows {
		orders.Rows = append(orders.Rows, row.Values())
	}
	sheets := []fileio.Sheet{orders}
	if len(r.Similar) > 0 {
		sim := fileio.Sheet{Name: SheetSimilar, Header: model.SimilarityColumns, Width: 20}
		for _, s := range r.Similar {
			sim.Rows = append(sim.Rows, s.Values())
		}
		sheets = append(sheets, sim)
	}
	return sheets
}
