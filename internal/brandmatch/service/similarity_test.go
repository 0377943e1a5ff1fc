package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics(t *testing.T) {
	lev, err := NewMetric("levenshtein")
	require.NoError(t, err)
	dam, err := NewMetric(MetricDamerau)
	require.NoError(t, err)
	swg, err := NewMetric(MetricAlignment)
	require.NoError(t, err)

	assert.Equal(t, 70.0, lev.Percent("abcdefg", "abcdefghij"))
	assert.Equal(t, 20.0, lev.Percent("m", "s,m,l"))
	assert.Equal(t, 100.0, lev.Percent("테리헤어밴드", "테리헤어밴드"))
	assert.Equal(t, 100.0, lev.Percent("ABC", "abc"))
	assert.Zero(t, lev.Percent("", "abc"))
	assert.Zero(t, lev.Percent("ab", "ba"))

	assert.Equal(t, 50.0, dam.Percent("ab", "ba"))
	assert.Equal(t, 100.0, swg.Percent("abcdef", "abcdefghij"))

	_, err = NewMetric("jaccard")
	assert.Error(t, err)

	assert.InDelta(t, 0.7, Ratio(lev, "abcdefg", "abcdefghij"), 1e-9)
}

func TestLengthRatio(t *testing.T) {
	assert.Equal(t, 0.7, lengthRatio("abcdefg", "abcdefghij"))
	assert.Equal(t, 0.5, lengthRatio("티셔츠", "반팔티셔츠티"))
	assert.Zero(t, lengthRatio("", ""))
}

func TestColorSimilarity(t *testing.T) {
	m, _ := NewMetric("")
	assert.Equal(t, 1.0, colorSimilarity(m, "블랙", "블랙"))
	assert.Equal(t, synonymScore, colorSimilarity(m, "블랙", "black"))
	assert.Equal(t, synonymScore, colorSimilarity(m, "navy", "남색"))
	assert.Equal(t, synonymScore, colorSimilarity(m, "메렌지", "melange"))
	assert.Zero(t, colorSimilarity(m, "", "black"))
	assert.Less(t, colorSimilarity(m, "블랙", "white"), 0.5)
}

func TestSizeSimilarity(t *testing.T) {
	m, _ := NewMetric("")
	assert.Equal(t, 1.0, sizeSimilarity(m, "m", "M"))
	assert.Equal(t, 0.8, sizeSimilarity(m, "90", "95"))
	assert.Equal(t, 0.6, sizeSimilarity(m, "90", "100"))
	assert.InDelta(t, 1.0/3, sizeSimilarity(m, "90", "120"), 1e-9)
	assert.Equal(t, synonymScore, sizeSimilarity(m, "m", "미디움"))
	assert.Equal(t, synonymScore, sizeSimilarity(m, "free", "프리사이즈"))
	assert.Equal(t, synonymScore, sizeSimilarity(m, "2xl", "xxl"))
}

func TestBestVariantScore(t *testing.T) {
	m, _ := NewMetric("")
	score := func(a, b string) float64 { return sizeSimilarity(m, a, b) }
	assert.Equal(t, 1.0, bestVariantScore(
		Expand("M", SizeVariants),
		Expand("s,m,l", SizeVariants),
		score,
	))
	assert.Zero(t, bestVariantScore(nil, []string{"m"}, score))
}

func TestExtractTags(t *testing.T) {
	opts := `색상{블랙|화이트}//사이즈{S|M\L}`
	assert.Equal(t, "s m l", ExtractSize(opts))
	assert.Equal(t, "블랙 화이트", ExtractColor(opts))
	assert.Equal(t, "s,m,l", ExtractSize("사이즈{S,M,L}"))
	assert.Empty(t, ExtractColor("사이즈{S,M,L}"))
	assert.Empty(t, ExtractSize(""))
}
