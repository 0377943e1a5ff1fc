package service

import (
	"sort"
	"strings"
)

// VariantKind: что разворачиваем: для размеров интерьер скобок режется ещё и по '~'.
type VariantKind int

const (
	ColorVariants VariantKind = iota
	SizeVariants
)

// Expand: все эквивалентные записи токена цвета/размера, отсортированные.
// "18M(75cm~80cm)" → 18m, 18m(75cm~80cm), 75cm, 75cm~80cm, 80cm.
func Expand(token string, kind VariantKind) []string {
	token = strings.ToLower(strings.TrimSpace(token))
	if token == "" {
		return nil
	}
	set := map[string]struct{}{}
	add := func(v string) {
		if v = strings.TrimSpace(v); v != "" {
			set[v] = struct{}{}
		}
	}
	addSplit := func(v string, seps string) {
		add(v)
		for _, p := range strings.FieldsFunc(v, func(r rune) bool { return strings.ContainsRune(seps, r) }) {
			add(p)
		}
	}

	add(token)

	// снаружи скобок
	outside := collapseSpaces(reParens.ReplaceAllString(token, " "))
	addSplit(outside, ",/")

	// внутри скобок
	interiorSeps := ",/"
	if kind == SizeVariants {
		interiorSeps = ",/~"
	}
	for _, m := range reParens.FindAllString(token, -1) {
		addSplit(strings.Trim(m, "()"), interiorSeps)
	}

	out := make([]string, 0, len(set))
	for v := range set {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
