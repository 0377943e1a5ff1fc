package service

import (
	"bytes"
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"brandmatch-service/internal/brandmatch/catalog"
	"brandmatch-service/internal/brandmatch/model"
	"brandmatch-service/internal/fileio"
)

func TestService_Run(t *testing.T) {
	svc, err := New(newStore(catalog.FallbackRows()), staticKeywords(nil, nil), model.DefaultOptions(), zerolog.Nop())
	require.NoError(t, err)

	tbl := fileio.Table{
		Header: []string{"주문일", "주문번호", "주문자", "위탁자", "상품", "옵션", "수량"},
		Rows: [][]string{
			{"2024-05-01", "A-1", "김", "이", "소예 테리헤어밴드", "사이즈=M", "2"},
			{"2024-05-01", "A-2", "김", "이", "소예 헤어밴드", "", "1"},
			{"2024-05-01", "A-3", "김", "이", "", "", "1"},
			{"2024-05-01", "A-4", "김", "이", "없는브랜드 상품", "", "1"},
		},
	}
	res, err := svc.Run(context.Background(), tbl)
	require.NoError(t, err)

	assert.Equal(t, []model.MatchTier{
		model.TierIndexed, model.TierSimilar, model.TierSkipped, model.TierFailed,
	}, res.Tiers)
	assert.Equal(t, 16000.0, res.Rows[0].Amount)
	assert.Empty(t, res.Rows[1].Distributor, "similar matches do not fill the order row")
	require.Len(t, res.Similar, 2)
	assert.Equal(t, 1, res.Similar[0].Source.RowIndex)
	assert.Equal(t, 1, res.Stats.Matched)
	assert.Equal(t, 2, res.Stats.Failed)

	sheets := res.Sheets()
	require.Len(t, sheets, 2)
	assert.Equal(t, SheetOrders, sheets[0].Name)
	require.Len(t, sheets[0].Rows, 4)
	for _, r := range sheets[0].Rows {
		assert.Len(t, r, 23)
	}
	assert.Equal(t, SheetSimilar, sheets[1].Name)
	assert.Len(t, sheets[1].Rows[0], len(model.SimilarityColumns))

	var buf bytes.Buffer
	require.NoError(t, fileio.WriteXLSX(&buf, sheets...))
	assert.NotZero(t, buf.Len())
}

func TestNew_RejectsUnknownMetric(t *testing.T) {
	opt := model.DefaultOptions()
	opt.Metric = "cosine"
	_, err := New(newStore(nil), nil, opt, zerolog.Nop())
	assert.Error(t, err)
}
