package service

import (
	"regexp"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"golang.org/x/text/unicode/norm"

	"brandmatch-service/internal/brandmatch/keywords"
)

// KeywordSource: откуда нормализатор берёт текущий набор ключевых слов.
type KeywordSource interface {
	Snapshot() keywords.Set
}

// Normalizer: канонизация названий товаров с мемоизацией.
type Normalizer struct {
	kw   KeywordSource
	memo *memo
	log  zerolog.Logger

	reMu      sync.Mutex
	reParen   *regexp.Regexp
	reVersion uint64
}

func NewNormalizer(kw KeywordSource, memoSize int, logger zerolog.Logger) *Normalizer {
	return &Normalizer{kw: kw, memo: newMemo(memoSize), log: logger}
}

// Normalize: нижний регистр, без скобок и шумовых слов, разделители схлопнуты.
// Если очистка съела всё полезное, возвращается исходник в нижнем регистре.
func (n *Normalizer) Normalize(name string) string {
	raw := strings.TrimSpace(name)
	if raw == "" {
		return ""
	}
	set := n.keywords()
	if v, ok := n.memo.get(set.Version, raw); ok {
		return v
	}
	out := n.safeNormalize(raw, set)
	n.memo.put(set.Version, raw, out)
	return out
}

func (n *Normalizer) keywords() (set keywords.Set) {
	if n.kw == nil {
		return keywords.Set{}
	}
	defer func() {
		if rec := recover(); rec != nil {
			n.log.Error().Interface("panic", rec).Msg("keyword snapshot failed")
			set = keywords.Set{}
		}
	}()
	return n.kw.Snapshot()
}

func (n *Normalizer) safeNormalize(raw string, set keywords.Set) (out string) {
	defer func() {
		if rec := recover(); rec != nil {
			n.log.Error().Interface("panic", rec).Str("name", prefix(raw, 30)).Msg("normalize failed")
			out = strings.ToLower(raw)
		}
	}()
	return normalizeName(raw, set)
}

func normalizeName(raw string, set keywords.Set) string {
	lower := strings.ToLower(norm.NFC.String(raw))

	// 1) скобки, 2) спецсимволы → пробел
	s := reParens.ReplaceAllString(lower, "")
	s = reBrackets.ReplaceAllString(s, "")
	s = reBraces.ReplaceAllString(s, "")
	s = reSpecial.ReplaceAllString(s, " ")
	s = collapseSpaces(s)

	if len(set.Wildcards)+len(set.Literals) > 0 {
		// 3) шаблоны-диапазоны раньше обычных слов
		for _, w := range set.Wildcards {
			s = removeWildcard(s, w)
		}
		// 4) обычные слова
		for _, kw := range set.Literals {
			s = removeLiteral(s, kw)
		}
		// 5) разделители
		s = reCommaSpaces.ReplaceAllString(s, ",")
		s = reCommas.ReplaceAllString(s, ",")
		s = reSpaces.ReplaceAllString(s, " ")
		s = strings.TrimSpace(strings.Trim(s, ","))
	}

	if utf8.RuneCountInString(s) < 2 || !reUsable.MatchString(s) {
		return lower
	}
	return s
}

// removeWildcard: пробует варианты с ~ и - (в скобках и без), удаляет первый найденный.
// Последний вариант, с пробелом: спецсимволы к этому шагу уже заменены пробелами.
func removeWildcard(s, pattern string) string {
	tilde := strings.ReplaceAll(pattern, "-", "~")
	dash := strings.ReplaceAll(pattern, "~", "-")
	spaced := strings.NewReplacer("~", " ", "-", " ").Replace(pattern)
	for _, v := range []string{"(" + pattern + ")", "(" + dash + ")", "(" + tilde + ")"} {
		if strings.Contains(s, v) {
			return strings.ReplaceAll(s, v, "")
		}
	}
	// без скобок: "free" не должен резать "freedom"
	for _, v := range []string{pattern, dash, tilde} {
		if v == "" || !strings.Contains(s, v) {
			continue
		}
		if !reBoundaryKeyword.MatchString(v) {
			return strings.ReplaceAll(s, v, "")
		}
		if r := removeWord(s, v); r != s {
			return r
		}
	}
	// "5 7" не должен резать "15 70"
	if spaced != pattern && reBoundaryKeyword.MatchString(spaced) {
		return removeWord(s, spaced)
	}
	return s
}

func removeLiteral(s, kw string) string {
	if kw == "" {
		return s
	}
	s = strings.ReplaceAll(s, "("+kw+")", "")
	if reBoundaryKeyword.MatchString(kw) {
		return removeWord(s, kw)
	}
	return strings.ReplaceAll(s, kw, "")
}

// removeWord удаляет вхождения kw, ограниченные границами слова.
// Граница: смена "словесного" символа (буква, цифра, '_') на не словесный,
// включая хангыль: регулярное \b в RE2 понимает только ASCII.
func removeWord(s, kw string) string {
	var b strings.Builder
	first, _ := utf8.DecodeRuneInString(kw)
	last, _ := utf8.DecodeLastRuneInString(kw)

	i := 0
	for {
		j := strings.Index(s[i:], kw)
		if j < 0 {
			b.WriteString(s[i:])
			return b.String()
		}
		start := i + j
		end := start + len(kw)

		before := rune(-1)
		if start > 0 {
			before, _ = utf8.DecodeLastRuneInString(s[:start])
		}
		after := rune(-1)
		if end < len(s) {
			after, _ = utf8.DecodeRuneInString(s[end:])
		}

		if isWordRune(before) != isWordRune(first) && isWordRune(last) != isWordRune(after) {
			b.WriteString(s[i:start])
			i = end
			continue
		}
		// не на границе: сдвигаемся на одну руну
		_, size := utf8.DecodeRuneInString(s[start:])
		b.WriteString(s[i : start+size])
		i = start + size
	}
}

func isWordRune(r rune) bool {
	if r < 0 {
		return false
	}
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// LightClean: щадящая очистка: только "(ключевое слово)" и диапазоны размеров в скобках.
func (n *Normalizer) LightClean(s string) string {
	if re := n.parenKeywords(); re != nil {
		s = re.ReplaceAllString(s, "")
	}
	return stripSizeRanges(s)
}

// parenKeywords: один регэксп "(kw1|kw2|…)" на версию набора.
func (n *Normalizer) parenKeywords() *regexp.Regexp {
	set := n.keywords()
	n.reMu.Lock()
	defer n.reMu.Unlock()
	if n.reParen != nil && n.reVersion == set.Version {
		return n.reParen
	}
	if len(set.Literals) == 0 {
		n.reParen, n.reVersion = nil, set.Version
		return nil
	}
	quoted := make([]string, 0, len(set.Literals))
	for _, kw := range set.Literals {
		if kw != "" {
			quoted = append(quoted, regexp.QuoteMeta(kw))
		}
	}
	n.reParen = regexp.MustCompile(`(?i)\((?:` + strings.Join(quoted, "|") + `)\)`)
	n.reVersion = set.Version
	return n.reParen
}

// prefix: первые n рун для логов.
func prefix(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n])
}
