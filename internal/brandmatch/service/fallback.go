package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"brandmatch-service/internal/brandmatch/catalog"
	"brandmatch-service/internal/brandmatch/model"
)

// FallbackMatcher: проход по похожести для строк, не найденных индексным матчингом.
// Результаты идут отдельным уровнем (유사매칭/매칭실패), строки заказа не меняются.
type FallbackMatcher struct {
	catalog SnapshotSource
	norm    *Normalizer
	metric  Metric
	opt     model.FallbackOptions
	log     zerolog.Logger
}

func NewFallbackMatcher(src SnapshotSource, norm *Normalizer, metric Metric, opt model.FallbackOptions, logger zerolog.Logger) *FallbackMatcher {
	return &FallbackMatcher{catalog: src, norm: norm, metric: metric, opt: opt, log: logger}
}

// MatchFailed: лучший похожий товар для каждого не найденного, по убыванию оценки.
// Товары, до которых не дошли из-за дедлайна, возвращаются со статусом 매칭실패.
func (f *FallbackMatcher) MatchFailed(ctx context.Context, failed []model.FailedProduct) []model.SimilarityResult {
	if len(failed) == 0 {
		return nil
	}
	snap := f.catalog.Current()
	if snap == nil || len(snap.Rows) == 0 {
		f.log.Error().Err(model.ErrNoCatalog).Int("products", len(failed)).Msg("similarity matching skipped")
		return nil
	}

	start := time.Now()
	batchCtx, cancel := contextWithBudget(ctx, f.opt.BatchTimeout)
	defer cancel()

	results := make([]model.SimilarityResult, 0, len(failed))
	similar := 0
	for i, fp := range failed {
		if i%10 == 0 && i > 0 {
			f.log.Info().Int("product", i).Int("total", len(failed)).Dur("elapsed", time.Since(start)).Msg("similarity progress")
		}
		if batchCtx.Err() != nil {
			f.log.Error().Int("remaining", len(failed)-i).Msg("similarity matching deadline exceeded")
			for _, rest := range failed[i:] {
				results = append(results, model.SimilarityResult{Source: rest, Status: model.TierFailed})
			}
			break
		}
		r := f.matchOne(batchCtx, snap, fp)
		if r.Status == model.TierSimilar {
			similar++
		}
		results = append(results, r)
	}

	sort.SliceStable(results, func(a, b int) bool { return results[a].Score > results[b].Score })

	f.log.Info().
		Int("results", len(results)).
		Int("similar", similar).
		Dur("elapsed", time.Since(start)).
		Msg("similarity matching done")
	return results
}

func (f *FallbackMatcher) matchOne(batchCtx context.Context, snap *catalog.Snapshot, fp model.FailedProduct) model.SimilarityResult {
	res := model.SimilarityResult{Source: fp, Status: model.TierFailed}

	ctx, cancel := contextWithBudget(batchCtx, f.opt.ItemTimeout)
	defer cancel()

	query := f.norm.Normalize(fp.Product)
	color := strings.TrimSpace(fp.Color)
	size := strings.TrimSpace(fp.Size)
	colorVars := Expand(color, ColorVariants)
	sizeVars := Expand(size, SizeVariants)

	var best *model.SimilarityResult
	for n, row := range f.candidates(snap, fp.Brand) {
		if n >= f.opt.ProcessLimit && f.opt.ProcessLimit > 0 {
			f.log.Debug().Str("brand", fp.Brand).Str("product", prefix(fp.Product, 30)).Msg("similarity candidate limit")
			break
		}
		if ctx.Err() != nil {
			f.log.Warn().Str("brand", fp.Brand).Str("product", prefix(fp.Product, 30)).Int("processed", n).Msg("similarity item timeout")
			break
		}

		ps := Ratio(f.metric, query, f.norm.Normalize(row.Product))
		if ps < f.opt.ProductMin {
			continue
		}
		var cs, ss float64
		if c := ExtractColor(row.Options); color != "" && c != "" {
			cs = bestVariantScore(colorVars, Expand(c, ColorVariants), func(a, b string) float64 {
				return colorSimilarity(f.metric, a, b)
			})
		}
		if s := ExtractSize(row.Options); size != "" && s != "" {
			ss = bestVariantScore(sizeVars, Expand(s, SizeVariants), func(a, b string) float64 {
				return sizeSimilarity(f.metric, a, b)
			})
		}
		total := f.total(ps, cs, ss, color != "", size != "")

		if best == nil || total > best.Score {
			best = &model.SimilarityResult{
				Brand:        row.Brand,
				Product:      row.Product,
				Distributor:  row.Distributor,
				Price:        row.Price,
				Options:      row.Options,
				ProductScore: ps,
				ColorScore:   cs,
				SizeScore:    ss,
				Score:        total,
			}
		}
	}
	if best == nil || best.Score <= 0 {
		return res
	}
	best.Source = fp
	best.Status = model.TierFailed
	if best.Score >= f.opt.Accept {
		best.Status = model.TierSimilar
	}
	return *best
}

// total: 0.6/0.2/0.2; без цвета или размера вес переходит к названию.
func (f *FallbackMatcher) total(ps, cs, ss float64, hasColor, hasSize bool) float64 {
	rest := 1 - f.opt.ReweightProduct
	switch {
	case !hasColor && !hasSize:
		return ps
	case !hasColor:
		return ps*f.opt.ReweightProduct + ss*rest
	case !hasSize:
		return ps*f.opt.ReweightProduct + cs*rest
	}
	return ps*f.opt.WeightProduct + cs*f.opt.WeightColor + ss*f.opt.WeightSize
}

// candidates: корзина бренда; без бренда, первые PrefixLimit строк справочника.
func (f *FallbackMatcher) candidates(snap *catalog.Snapshot, brand string) []*model.CatalogRow {
	var out []*model.CatalogRow
	if strings.TrimSpace(brand) != "" {
		out = snap.Index.Lookup(brand)
	}
	if len(out) == 0 {
		n := len(snap.Rows)
		if f.opt.PrefixLimit > 0 && n > f.opt.PrefixLimit {
			n = f.opt.PrefixLimit
		}
		out = make([]*model.CatalogRow, n)
		for i := range out {
			out[i] = &snap.Rows[i]
		}
	}
	if f.opt.CandidateCap > 0 && len(out) > f.opt.CandidateCap {
		out = out[:f.opt.CandidateCap]
	}
	return out
}
