package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"brandmatch-service/internal/brandmatch/model"
)

// Matcher: индексный матчинг одной строки (Engine).
type Matcher interface {
	Match(ctx context.Context, brand, product, size, color string) (model.Match, error)
}

// BatchResult: строки после матчинга, уровень каждой строки и не найденные товары.
type BatchResult struct {
	Rows   []model.OrderRow     `json:"rows"`
	Tiers  []model.MatchTier    `json:"tiers"`
	Failed []model.FailedProduct `json:"failed"`
	Stats  model.BatchStats     `json:"stats"`
}

// Orchestrator прогоняет пакет строк через Matcher с бюджетами времени
// на строку и на весь пакет.
type Orchestrator struct {
	matcher Matcher
	opt     model.Options
	log     zerolog.Logger
}

func NewOrchestrator(m Matcher, opt model.Options, logger zerolog.Logger) *Orchestrator {
	return &Orchestrator{matcher: m, opt: opt, log: logger}
}

type outcome struct {
	tier     model.MatchTier
	failed   *model.FailedProduct
	timedOut bool
}

// ProcessMatching: строки с брендом и товаром матчатся; успех заполняет поставщика,
// цену и сумму, неудача очищает их и попадает в Failed. После дедлайна пакета
// оставшиеся строки помечаются unprocessed, уже обработанные не трогаются.
func (o *Orchestrator) ProcessMatching(ctx context.Context, rows []model.OrderRow) BatchResult {
	start := time.Now()
	res := BatchResult{Rows: rows, Tiers: make([]model.MatchTier, len(rows))}
	if len(rows) == 0 {
		o.log.Warn().Msg("nothing to match")
		return res
	}

	batchCtx, cancel := contextWithBudget(ctx, o.opt.BatchTimeout)
	defer cancel()

	outcomes := make([]outcome, len(rows))
	var done atomic.Int64
	step := func(i int) {
		outcomes[i] = o.processRow(batchCtx, i, &rows[i])
		if n := int(done.Add(1)); n == 1 || n%10 == 0 {
			o.logProgress(n, len(rows), start)
		}
	}

	workers := o.opt.Workers
	if workers <= 1 {
		for i := range rows {
			step(i)
		}
	} else {
		// строки независимы: снимок справочника только читается
		sem := make(chan struct{}, workers)
		var wg sync.WaitGroup
		for i := range rows {
			wg.Add(1)
			sem <- struct{}{}
			go func(i int) {
				defer wg.Done()
				defer func() { <-sem }()
				step(i)
			}(i)
		}
		wg.Wait()
	}

	for i, oc := range outcomes {
		res.Tiers[i] = oc.tier
		switch oc.tier {
		case model.TierIndexed:
			res.Stats.Matched++
		case model.TierSkipped:
			res.Stats.Skipped++
		case model.TierUnprocessed:
			res.Stats.Unprocessed++
		default:
			res.Stats.Failed++
		}
		if oc.timedOut {
			res.Stats.TimedOut++
		}
		if oc.failed != nil {
			res.Failed = append(res.Failed, *oc.failed)
		}
	}
	res.Stats.Total = len(rows)
	res.Stats.Elapsed = time.Since(start)

	o.log.Info().
		Int("matched", res.Stats.Matched).
		Int("total", res.Stats.Total).
		Int("failed", res.Stats.Failed).
		Int("skipped", res.Stats.Skipped).
		Int("unprocessed", res.Stats.Unprocessed).
		Dur("elapsed", res.Stats.Elapsed).
		Msg("matching done")
	return res
}

func (o *Orchestrator) processRow(batchCtx context.Context, i int, row *model.OrderRow) outcome {
	if batchCtx.Err() != nil {
		row.ClearMatch()
		return outcome{tier: model.TierUnprocessed}
	}
	if strings.TrimSpace(row.Brand) == "" || strings.TrimSpace(row.Product) == "" {
		row.ClearMatch()
		return outcome{tier: model.TierSkipped}
	}

	rowStart := time.Now()
	m, err := o.matchWithDeadline(batchCtx, *row)
	if err == nil {
		row.ApplyMatch(m)
		return outcome{tier: model.TierIndexed}
	}

	row.ClearMatch()
	timedOut := errors.Is(err, model.ErrRowTimeout)
	ev := o.log.Debug()
	if timedOut {
		ev = o.log.Warn()
	} else if !isMiss(err) {
		ev = o.log.Error()
	}
	ev.Err(err).
		Int("row", i+1).
		Str("brand", row.Brand).
		Str("product", prefix(row.Product, 30)).
		Dur("elapsed", time.Since(rowStart)).
		Msg("row not matched")

	fp := row.Snapshot(i, err.Error())
	return outcome{tier: model.TierFailed, failed: &fp, timedOut: timedOut}
}

// matchWithDeadline: сопоставление не блокирует пакет дольше RowTimeout:
// по истечении строка проваливается, даже если Matcher ещё работает.
func (o *Orchestrator) matchWithDeadline(batchCtx context.Context, row model.OrderRow) (model.Match, error) {
	ctx, cancel := contextWithBudget(batchCtx, o.opt.RowTimeout)
	defer cancel()

	type result struct {
		m   model.Match
		err error
	}
	ch := make(chan result, 1)
	go func() {
		m, err := o.safeMatch(ctx, row)
		ch <- result{m, err}
	}()

	select {
	case r := <-ch:
		return r.m, r.err
	case <-ctx.Done():
		return model.Match{}, rowContextErr(ctx.Err())
	}
}

func (o *Orchestrator) safeMatch(ctx context.Context, row model.OrderRow) (m model.Match, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("match panic: %v", rec)
		}
	}()
	return o.matcher.Match(ctx, row.Brand, row.Product, row.Size, row.Color)
}

func (o *Orchestrator) logProgress(n, total int, start time.Time) {
	elapsed := time.Since(start)
	eta := time.Duration(0)
	if n > 0 {
		eta = elapsed / time.Duration(n) * time.Duration(total-n)
	}
	o.log.Info().
		Int("row", n).
		Int("total", total).
		Float64("percent", float64(n)*100/float64(total)).
		Dur("elapsed", elapsed).
		Dur("eta", eta).
		Msg("matching progress")
}

// isMiss: обычный промах, а не сбой.
func isMiss(err error) bool {
	return errors.Is(err, model.ErrNoMatch) ||
		errors.Is(err, model.ErrBrandNotIndexed) ||
		errors.Is(err, model.ErrEmptyQuery)
}

// contextWithBudget: WithTimeout, только если бюджет задан.
func contextWithBudget(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}
