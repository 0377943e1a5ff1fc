package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"brandmatch-service/internal/brandmatch/catalog"
	"brandmatch-service/internal/brandmatch/model"
)

// SnapshotSource: текущий снимок справочника (catalog.Store).
type SnapshotSource interface {
	Current() *catalog.Snapshot
}

// Engine: индексный матчинг: кандидаты только из корзины бренда.
type Engine struct {
	catalog SnapshotSource
	norm    *Normalizer
	metric  Metric
	opt     model.Options
	log     zerolog.Logger
}

func NewEngine(src SnapshotSource, norm *Normalizer, metric Metric, opt model.Options, logger zerolog.Logger) *Engine {
	return &Engine{catalog: src, norm: norm, metric: metric, opt: opt, log: logger}
}

// Match подбирает строку справочника для запроса. Первый кандидат с оценкой
// не ниже EarlyExit возвращается сразу; иначе лучший (при равенстве, первый)
// с оценкой не ниже Accept. Истёкший ctx даёт ErrRowTimeout.
func (e *Engine) Match(ctx context.Context, brand, product, size, color string) (model.Match, error) {
	brand = strings.TrimSpace(brand)
	product = strings.TrimSpace(product)
	if brand == "" || product == "" {
		return model.Match{}, model.ErrEmptyQuery
	}
	snap := e.catalog.Current()
	if snap == nil || len(snap.Rows) == 0 {
		return model.Match{}, model.ErrNoCatalog
	}
	cands := snap.Index.Lookup(brand)
	if len(cands) == 0 {
		return model.Match{}, fmt.Errorf("%q: %w", brand, model.ErrBrandNotIndexed)
	}

	size = strings.ToLower(strings.TrimSpace(size))
	color = strings.ToLower(strings.TrimSpace(color))
	query := e.norm.Normalize(product)

	limit := len(cands)
	if e.opt.MaxCandidates > 0 && limit > e.opt.MaxCandidates {
		e.log.Debug().Str("brand", brand).Int("candidates", len(cands)).Msg("candidate limit reached")
		limit = e.opt.MaxCandidates
	}

	var best *model.Candidate
	for _, row := range cands[:limit] {
		if err := ctx.Err(); err != nil {
			return model.Match{}, rowContextErr(err)
		}
		c, ok := e.score(query, size, color, row)
		if !ok {
			continue
		}
		if c.Score >= e.opt.EarlyExit {
			return toMatch(c, true), nil
		}
		if best == nil || c.Score > best.Score {
			best = &c
		}
	}
	if best == nil || best.Score < e.opt.Accept {
		return model.Match{}, model.ErrNoMatch
	}
	return toMatch(*best, false), nil
}

// score: оценка одного кандидата; ok=false, если он отсеян порогами.
func (e *Engine) score(query, size, color string, row *model.CatalogRow) (model.Candidate, bool) {
	name := e.norm.Normalize(row.Product)
	ps := e.metric.Percent(query, name)
	if ps < e.opt.ProductMin {
		return model.Candidate{}, false
	}
	// отсекаем "티" против "반팔티"
	if lengthRatio(query, name) < e.opt.LengthRatio {
		return model.Candidate{}, false
	}

	ss := e.fieldScore(size, ExtractSize(row.Options))
	cs := e.fieldScore(color, ExtractColor(row.Options))
	total := ps*e.opt.WeightProduct + ss*e.opt.WeightSize + cs*e.opt.WeightColor
	if total < e.opt.Accept {
		return model.Candidate{}, false
	}
	return model.Candidate{Row: row, Score: total, ProductScore: ps, SizeScore: ss, ColorScore: cs}, true
}

// fieldScore: нет значения в запросе, 100; нет тега у кандидата, 0.
func (e *Engine) fieldScore(query, catalogValue string) float64 {
	if query == "" {
		return 100
	}
	if catalogValue == "" {
		return 0
	}
	return e.metric.Percent(query, catalogValue)
}

// MatchRow: форма (поставщик, цена, "бренд товар", успех) без контекста:
// строка получает собственный бюджет RowTimeout.
func (e *Engine) MatchRow(brand, product, size, color string) (string, float64, string, bool) {
	ctx := context.Background()
	if e.opt.RowTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.opt.RowTimeout)
		defer cancel()
	}
	m, err := e.Match(ctx, brand, product, size, color)
	if err != nil {
		return "", 0, "", false
	}
	return m.Distributor, m.Price, m.Label, true
}

func toMatch(c model.Candidate, early bool) model.Match {
	return model.Match{
		Distributor:  c.Row.Distributor,
		Price:        c.Row.Price,
		Label:        c.Row.Label(),
		Score:        c.Score,
		ProductScore: c.ProductScore,
		SizeScore:    c.SizeScore,
		ColorScore:   c.ColorScore,
		EarlyExit:    early,
	}
}

func rowContextErr(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %w", model.ErrRowTimeout, err)
	}
	return err
}
