package keywords

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"brandmatch-service/internal/brandmatch/model"
)

// Set: снимок реестра для нормализатора. Всё в нижнем регистре.
type Set struct {
	Wildcards []string // "*S~XL*" → "s~xl"
	Literals  []string
	Version   uint64
}

// Registry: изменяемый список шумовых ключевых слов.
// Каждое изменение сохраняется в репозиторий целиком и увеличивает версию.
type Registry struct {
	repo Repository
	log  zerolog.Logger

	mu      sync.RWMutex
	list    []string
	set     Set
	version uint64
}

func NewRegistry(repo Repository, logger zerolog.Logger) *Registry {
	r := &Registry{repo: repo, log: logger}
	r.apply(nil)
	return r
}

// Load: читает репозиторий. Нет файла → список по умолчанию;
// ошибка чтения → пустой список (нормализация без удаления слов) и ошибка наружу.
func (r *Registry) Load(ctx context.Context) error {
	list, err := r.repo.Load(ctx)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		list = Defaults()
		r.log.Info().Int("count", len(list)).Msg("keyword file not found, using defaults")
		err = nil
	case err != nil:
		r.log.Error().Err(err).Msg("keyword load failed")
		list = nil
		err = fmt.Errorf("load keywords: %w", err)
	default:
		list = dedupe(list, false)
		r.log.Info().Int("count", len(list)).Msg("keywords loaded")
	}

	r.mu.Lock()
	r.apply(list)
	r.mu.Unlock()
	return err
}

// Reload: повторное чтение (вызывается watcher'ом). Версия не меняется,
// если содержимое совпало с текущим.
func (r *Registry) Reload(ctx context.Context) error {
	list, err := r.repo.Load(ctx)
	if err != nil {
		return fmt.Errorf("reload keywords: %w", err)
	}
	list = dedupe(list, false)

	r.mu.Lock()
	defer r.mu.Unlock()
	if equalLists(list, r.list) {
		return nil
	}
	r.apply(list)
	r.log.Info().Int("count", len(list)).Uint64("version", r.version).Msg("keywords reloaded")
	return nil
}

// List: копия текущего списка.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, len(r.list))
	copy(out, r.list)
	return out
}

// Snapshot: текущий набор для нормализации.
func (r *Registry) Snapshot() Set {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.set
}

// Version: счётчик изменений.
func (r *Registry) Version() uint64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.version
}

// Add: добавляет слово и сохраняет список. Регистр не учитывается.
func (r *Registry) Add(ctx context.Context, keyword string) error {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return model.ErrKeywordEmpty
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if indexFold(r.list, keyword) >= 0 {
		return fmt.Errorf("%q: %w", keyword, model.ErrKeywordExists)
	}
	next := append(append([]string(nil), r.list...), keyword)
	if err := r.repo.Save(ctx, next); err != nil {
		return fmt.Errorf("save keywords: %w", err)
	}
	r.apply(next)
	r.log.Info().Str("keyword", keyword).Int("count", len(next)).Msg("keyword added")
	return nil
}

// Remove: удаляет слово и сохраняет список.
func (r *Registry) Remove(ctx context.Context, keyword string) error {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return model.ErrKeywordEmpty
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	i := indexFold(r.list, keyword)
	if i < 0 {
		return fmt.Errorf("%q: %w", keyword, model.ErrKeywordNotFound)
	}
	next := make([]string, 0, len(r.list)-1)
	next = append(next, r.list[:i]...)
	next = append(next, r.list[i+1:]...)
	if err := r.repo.Save(ctx, next); err != nil {
		return fmt.Errorf("save keywords: %w", err)
	}
	r.apply(next)
	r.log.Info().Str("keyword", keyword).Int("count", len(next)).Msg("keyword removed")
	return nil
}

// apply: вызывается под r.mu (или из конструктора).
func (r *Registry) apply(list []string) {
	r.list = list
	r.version++
	r.set = buildSet(list, r.version)
}

// buildSet: разделяет wildcard- и обычные слова. Wildcard'ы идут первыми
// при нормализации, поэтому хранятся отдельно.
func buildSet(list []string, version uint64) Set {
	s := Set{Version: version}
	for _, kw := range list {
		if kw == "" {
			continue
		}
		low := strings.ToLower(kw)
		if IsWildcard(kw) {
			s.Wildcards = append(s.Wildcards, low[1:len(low)-1])
			continue
		}
		s.Literals = append(s.Literals, low)
	}
	return s
}

// IsWildcard: "*pattern*" с непустым pattern.
func IsWildcard(kw string) bool {
	return len(kw) > 2 && strings.HasPrefix(kw, "*") && strings.HasSuffix(kw, "*")
}

// dedupe: убирает пустые и повторы без учёта регистра (первый побеждает).
// byLength: сортировка по длине, длинные первыми.
func dedupe(in []string, byLength bool) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, kw := range in {
		kw = strings.TrimSpace(kw)
		if kw == "" {
			continue
		}
		k := strings.ToLower(kw)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, kw)
	}
	if byLength {
		sort.SliceStable(out, func(i, j int) bool {
			return utf8.RuneCountInString(out[i]) > utf8.RuneCountInString(out[j])
		})
	}
	return out
}

func indexFold(list []string, kw string) int {
	for i, v := range list {
		if strings.EqualFold(v, kw) {
			return i
		}
	}
	return -1
}

func equalLists(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
