package service

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/unicode/norm"

	"brandmatch-service/internal/brandmatch/keywords"
)

func TestNormalize(t *testing.T) {
	n := NewNormalizer(staticKeywords(
		[]string{"세트", "new", "_"},
		[]string{"s~xl", "free"},
	), 100, zerolog.Nop())

	cases := []struct {
		name, in, want string
	}{
		{"brackets", "[특가] 테리 헤어밴드 (기획) {NEW}", "테리 헤어밴드"},
		{"word keywords", "테리헤어밴드 세트 NEW", "테리헤어밴드"},
		{"keyword inside word kept", "래쉬가드세트", "래쉬가드세트"},
		{"latin inside word kept", "newborn 바디수트", "newborn 바디수트"},
		{"wildcard range", "코코넛슈트 S~XL", "코코넛슈트"},
		{"wildcard plain", "클래식썸머셔츠 FREE", "클래식썸머셔츠"},
		{"wildcard inside word kept", "freestyle 슈트", "freestyle 슈트"},
		{"raw substring keyword", "카고_롱스커트", "카고롱스커트"},
		{"commas collapsed", "티셔츠 , , 반바지", "티셔츠 반바지"},
		{"guard keeps original", "세트", "세트"},
		{"guard on punctuation only", "★", "★"},
		{"empty", "   ", ""},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, n.Normalize(c.in))
		})
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	n := NewNormalizer(staticKeywords([]string{"세트", "베스트"}, []string{"13~15"}), 100, zerolog.Nop())
	for _, in := range []string{
		"[베스트] 래쉬가드 세트 13~15",
		"소예 테리헤어밴드(S~XL)",
		"세트",
		"Cargo Long Skirt!!",
	} {
		once := n.Normalize(in)
		assert.Equal(t, once, n.Normalize(once), in)
	}
}

func TestNormalize_ComposesHangul(t *testing.T) {
	n := NewNormalizer(nil, 10, zerolog.Nop())
	decomposed := norm.NFD.String("테리헤어밴드")
	require.NotEqual(t, "테리헤어밴드", decomposed)
	assert.Equal(t, "테리헤어밴드", n.Normalize(decomposed))
}

func TestNormalize_MemoResetsOnKeywordChange(t *testing.T) {
	kw := staticKeywords(nil, nil)
	n := NewNormalizer(kw, 10, zerolog.Nop())

	assert.Equal(t, "테리 세트", n.Normalize("테리 세트"))
	assert.Equal(t, 1, n.memo.len())

	kw.replace(keywords.Set{Literals: []string{"세트"}, Version: 2})
	assert.Equal(t, "테리", n.Normalize("테리 세트"))
}

type panickyKeywords struct{}

func (panickyKeywords) Snapshot() keywords.Set { panic("broken registry") }

func TestNormalize_SurvivesBrokenKeywordSource(t *testing.T) {
	n := NewNormalizer(panickyKeywords{}, 10, zerolog.Nop())
	assert.Equal(t, "abc 세트", n.Normalize("ABC 세트"))
}

func TestNormalize_WithDefaultRegistry(t *testing.T) {
	reg := keywords.NewRegistry(keywords.NewMemoryRepository(nil), zerolog.Nop())
	require.NoError(t, reg.Load(context.Background()))
	n := NewNormalizer(reg, 100, zerolog.Nop())

	assert.Equal(t, "래쉬가드", n.Normalize("[무료배송] 래쉬가드 세트 (13~15)"))
	assert.Equal(t, "테리헤어밴드", n.Normalize("테리헤어밴드"))
	assert.Equal(t, "freedom 원피스", n.Normalize("freedom 원피스"))
	assert.Equal(t, "원피스", n.Normalize("원피스 FREE"))
}

func TestLightClean(t *testing.T) {
	n := NewNormalizer(staticKeywords([]string{"세트", "new"}, nil), 10, zerolog.Nop())
	assert.Equal(t, "테리 밴드", collapseSpaces(n.LightClean("테리(세트) 밴드 (S~XL)")))
	assert.Equal(t, "밴드", collapseSpaces(n.LightClean("(NEW) 밴드 (13-15)")))
}

func TestMemo_EvictsOldestHalf(t *testing.T) {
	m := newMemo(4)
	for _, k := range []string{"a", "b", "c", "d"} {
		m.put(1, k, k)
	}
	assert.Equal(t, 4, m.len())

	m.put(1, "e", "e")
	assert.Equal(t, 3, m.len())
	_, ok := m.get(1, "a")
	assert.False(t, ok)
	_, ok = m.get(1, "b")
	assert.False(t, ok)
	v, ok := m.get(1, "c")
	assert.True(t, ok)
	assert.Equal(t, "c", v)

	// новое поколение, кэш пуст
	_, ok = m.get(2, "e")
	assert.False(t, ok)
	assert.Zero(t, m.len())
}
