package keywords

import (
	"context"
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"brandmatch-service/internal/brandmatch/model"
)

func TestRegistry_LoadDefaultsWhenMissing(t *testing.T) {
	reg := NewRegistry(NewMemoryRepository(nil), zerolog.Nop())
	require.NoError(t, reg.Load(context.Background()))

	list := reg.List()
	require.NotEmpty(t, list)

	// длинные слова первыми, без дублей по регистру
	seen := map[string]bool{}
	for i, kw := range list {
		low := strings.ToLower(kw)
		assert.False(t, seen[low], "duplicate %q", kw)
		seen[low] = true
		if i > 0 {
			assert.GreaterOrEqual(t, utf8.RuneCountInString(list[i-1]), utf8.RuneCountInString(kw))
		}
	}
	assert.True(t, seen["set"])
}

func TestRegistry_SnapshotSplitsWildcards(t *testing.T) {
	reg := NewRegistry(NewMemoryRepository([]string{"*S~XL*", "세트", "*", "NEW"}), zerolog.Nop())
	require.NoError(t, reg.Load(context.Background()))

	s := reg.Snapshot()
	assert.Equal(t, []string{"s~xl"}, s.Wildcards)
	assert.Equal(t, []string{"세트", "*", "new"}, s.Literals)
}

func TestRegistry_AddRemove(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository([]string{"세트"})
	reg := NewRegistry(repo, zerolog.Nop())
	require.NoError(t, reg.Load(ctx))
	v0 := reg.Version()

	t.Run("add persists and bumps version", func(t *testing.T) {
		require.NoError(t, reg.Add(ctx, "  특가 "))
		assert.Equal(t, []string{"세트", "특가"}, reg.List())
		assert.Equal(t, 1, repo.Saves())
		assert.Greater(t, reg.Version(), v0)
	})

	t.Run("add rejects duplicates case-insensitively", func(t *testing.T) {
		require.NoError(t, reg.Add(ctx, "Hot"))
		err := reg.Add(ctx, "HOT")
		assert.True(t, errors.Is(err, model.ErrKeywordExists))
	})

	t.Run("add rejects empty", func(t *testing.T) {
		assert.ErrorIs(t, reg.Add(ctx, "   "), model.ErrKeywordEmpty)
	})

	t.Run("remove missing", func(t *testing.T) {
		assert.ErrorIs(t, reg.Remove(ctx, "없음"), model.ErrKeywordNotFound)
	})

	t.Run("remove persists", func(t *testing.T) {
		saves := repo.Saves()
		require.NoError(t, reg.Remove(ctx, "세트"))
		assert.NotContains(t, reg.List(), "세트")
		assert.Equal(t, saves+1, repo.Saves())
	})

	t.Run("failed save keeps previous list", func(t *testing.T) {
		before := reg.List()
		repo.FailSaves(errors.New("disk full"))
		defer repo.FailSaves(nil)

		assert.Error(t, reg.Add(ctx, "신상"))
		assert.Equal(t, before, reg.List())
	})
}

func TestRegistry_ReloadKeepsVersionWhenUnchanged(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository([]string{"세트", "특가"})
	reg := NewRegistry(repo, zerolog.Nop())
	require.NoError(t, reg.Load(ctx))

	v := reg.Version()
	require.NoError(t, reg.Reload(ctx))
	assert.Equal(t, v, reg.Version())

	require.NoError(t, repo.Save(ctx, []string{"세트"}))
	require.NoError(t, reg.Reload(ctx))
	assert.Greater(t, reg.Version(), v)
	assert.Equal(t, []string{"세트"}, reg.List())
}
