package service

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"brandmatch-service/internal/brandmatch/catalog"
	"brandmatch-service/internal/brandmatch/model"
)

func newTestFallback(rows []model.CatalogRow) *FallbackMatcher {
	opt := model.DefaultOptions()
	metric, _ := NewMetric(opt.Metric)
	norm := NewNormalizer(staticKeywords(nil, nil), 100, zerolog.Nop())
	return NewFallbackMatcher(newStore(rows), norm, metric, opt.Fallback, zerolog.Nop())
}

func TestMatchFailed_SimilarTier(t *testing.T) {
	f := newTestFallback(catalog.FallbackRows())
	res := f.MatchFailed(context.Background(), []model.FailedProduct{
		{RowIndex: 0, Brand: "없는브랜드", Product: "zzzz"},
		{RowIndex: 4, Brand: "소예", Product: "헤어밴드", Size: "M"},
	})
	require.Len(t, res, 2)

	// по убыванию оценки
	hit := res[0]
	assert.Equal(t, 4, hit.Source.RowIndex)
	assert.Equal(t, model.TierSimilar, hit.Status)
	assert.Equal(t, "테리헤어밴드", hit.Product)
	assert.Equal(t, "소예패션", hit.Distributor)
	assert.InDelta(t, 4.0/6, hit.ProductScore, 1e-9)
	assert.Equal(t, 1.0, hit.SizeScore)
	assert.InDelta(t, 0.8*4.0/6+0.2, hit.Score, 1e-9)

	miss := res[1]
	assert.Equal(t, model.TierFailed, miss.Status)
	assert.Equal(t, "zzzz", miss.Source.Product)
	assert.Zero(t, miss.Score)
	assert.Empty(t, miss.Product)
}

func TestMatchFailed_NoBrandScansCatalogPrefix(t *testing.T) {
	f := newTestFallback(catalog.FallbackRows())
	res := f.MatchFailed(context.Background(), []model.FailedProduct{{Product: "래쉬가드"}})
	require.Len(t, res, 1)
	assert.Equal(t, "바비", res[0].Brand, "first of equal scores wins")
	assert.Equal(t, 1.0, res[0].Score)
}

func TestMatchFailed_ColorSynonyms(t *testing.T) {
	rows := []model.CatalogRow{{
		Brand: "린도", Product: "바디수트", Options: "색상{블랙,화이트}//사이즈{S,M}", Distributor: "린도키즈", Price: 15000,
	}}
	f := newTestFallback(rows)
	res := f.MatchFailed(context.Background(), []model.FailedProduct{
		{Brand: "린도", Product: "바디수트", Color: "black", Size: "M"},
	})
	require.Len(t, res, 1)
	assert.Equal(t, synonymScore, res[0].ColorScore)
	assert.Equal(t, 1.0, res[0].SizeScore)
	assert.InDelta(t, 0.6+0.2*0.95+0.2, res[0].Score, 1e-9)
	assert.Equal(t, model.TierSimilar, res[0].Status)
}

func TestMatchFailed_Reweighting(t *testing.T) {
	f := newTestFallback(nil)
	assert.Equal(t, 0.5, f.total(0.5, 0.9, 0.9, false, false))
	assert.InDelta(t, 0.8*0.5+0.2*0.9, f.total(0.5, 0, 0.9, false, true), 1e-9)
	assert.InDelta(t, 0.8*0.5+0.2*0.7, f.total(0.5, 0.7, 0, true, false), 1e-9)
	assert.InDelta(t, 0.6*0.5+0.2*0.7+0.2*0.9, f.total(0.5, 0.7, 0.9, true, true), 1e-9)
}

func TestMatchFailed_DeadlineMarksRestFailed(t *testing.T) {
	f := newTestFallback(catalog.FallbackRows())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res := f.MatchFailed(ctx, []model.FailedProduct{
		{RowIndex: 1, Brand: "소예", Product: "테리헤어밴드"},
		{RowIndex: 2, Brand: "바비", Product: "래쉬가드"},
	})
	require.Len(t, res, 2)
	for _, r := range res {
		assert.Equal(t, model.TierFailed, r.Status)
	}
}

func TestMatchFailed_NoCatalog(t *testing.T) {
	f := newTestFallback(nil)
	assert.Nil(t, f.MatchFailed(context.Background(), []model.FailedProduct{{Product: "x"}}))
	assert.Nil(t, f.MatchFailed(context.Background(), nil))
}
