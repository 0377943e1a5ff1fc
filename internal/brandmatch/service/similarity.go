package service

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/adrg/strutil"
	"github.com/adrg/strutil/metrics"
	edlib "github.com/hbollon/go-edlib"
)

// Метрики схожести строк.
const (
	MetricLevenshtein = "levenshtein"
	MetricDamerau     = "damerau"
	MetricAlignment   = "alignment"
)

// Metric: схожесть двух строк в процентах 0..100.
type Metric interface {
	Percent(a, b string) float64
}

// NewMetric: метрика по имени; пустое имя, levenshtein.
func NewMetric(name string) (Metric, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", MetricLevenshtein:
		return distanceMetric{distance: edlib.LevenshteinDistance}, nil
	case MetricDamerau:
		return distanceMetric{distance: edlib.OSADamerauLevenshteinDistance}, nil
	case MetricAlignment:
		return alignmentMetric{swg: metrics.NewSmithWatermanGotoh()}, nil
	}
	return nil, fmt.Errorf("unknown similarity metric %q", name)
}

// distanceMetric: 1 - d/max(len) по рунам, в целых процентах-долях без потерь:
// 7 из 10 совпавших символов дают ровно 70.
type distanceMetric struct {
	distance func(a, b string) int
}

func (m distanceMetric) Percent(a, b string) float64 {
	a, b, same, ok := prepare(a, b)
	if !ok {
		return 0
	}
	if same {
		return 100
	}
	mx := utf8.RuneCountInString(a)
	if lb := utf8.RuneCountInString(b); lb > mx {
		mx = lb
	}
	d := m.distance(a, b)
	if d > mx {
		d = mx
	}
	return float64(100*(mx-d)) / float64(mx)
}

// alignmentMetric: локальное выравнивание Smith-Waterman-Gotoh.
type alignmentMetric struct {
	swg *metrics.SmithWatermanGotoh
}

func (m alignmentMetric) Percent(a, b string) float64 {
	a, b, same, ok := prepare(a, b)
	if !ok {
		return 0
	}
	if same {
		return 100
	}
	return 100 * strutil.Similarity(a, b, m.swg)
}

func prepare(a, b string) (string, string, bool, bool) {
	a = strings.ToLower(strings.TrimSpace(a))
	b = strings.ToLower(strings.TrimSpace(b))
	if a == "" || b == "" {
		return a, b, false, false
	}
	return a, b, a == b, true
}

// Ratio: та же схожесть на шкале 0..1.
func Ratio(m Metric, a, b string) float64 {
	return m.Percent(a, b) / 100
}

// lengthRatio: короткое/длинное по рунам.
func lengthRatio(a, b string) float64 {
	la, lb := utf8.RuneCountInString(a), utf8.RuneCountInString(b)
	if la > lb {
		la, lb = lb, la
	}
	if lb == 0 {
		return 0
	}
	return float64(la) / float64(lb)
}

// группы синонимов: одна группа, одно значение
var colorGroups = [][]string{
	{"메란지", "멜란지", "melange", "메렌지"},
	{"블랙", "black", "검정", "검은색"},
	{"화이트", "white", "흰색", "하얀색"},
	{"레드", "red", "빨강", "빨간색"},
	{"블루", "blue", "파랑", "파란색"},
	{"그린", "green", "초록", "초록색"},
	{"옐로우", "yellow", "노랑", "노란색"},
	{"핑크", "pink", "분홍", "분홍색"},
	{"그레이", "gray", "grey", "회색"},
	{"베이지", "beige", "베이지색"},
	{"네이비", "navy", "남색"},
}

var sizeGroups = [][]string{
	{"xs", "엑스에스", "x-small", "extra small"},
	{"s", "에스", "small", "소"},
	{"m", "엠", "medium", "중", "미디움"},
	{"l", "엘", "large", "대", "라지"},
	{"xl", "엑스엘", "x-large", "extra large"},
	{"xxl", "더블엑스엘", "2xl", "xx-large"},
	{"xxxl", "트리플엑스엘", "3xl", "xxx-large"},
	{"free", "프리", "프리사이즈", "one size"},
}

// synonymScore: оценка для записей одного значения разными словами.
const synonymScore = 0.95

func groupIndex(groups [][]string) map[string]int {
	idx := make(map[string]int)
	for i, g := range groups {
		for _, v := range g {
			idx[v] = i
		}
	}
	return idx
}

var (
	colorSynonyms = groupIndex(colorGroups)
	sizeSynonyms  = groupIndex(sizeGroups)
)

func sameGroup(idx map[string]int, a, b string) bool {
	ga, ok := idx[a]
	if !ok {
		return false
	}
	gb, ok := idx[b]
	return ok && ga == gb
}

// colorSimilarity: 0..1, синонимы дают 0.95.
func colorSimilarity(m Metric, a, b string) float64 {
	a, b, same, ok := prepare(a, b)
	if !ok {
		return 0
	}
	if same {
		return 1
	}
	if sameGroup(colorSynonyms, a, b) {
		return synonymScore
	}
	return Ratio(m, a, b)
}

// sizeSimilarity: 0..1: числовые размеры по близости, буквенные по синонимам.
func sizeSimilarity(m Metric, a, b string) float64 {
	a, b, same, ok := prepare(a, b)
	if !ok {
		return 0
	}
	if same {
		return 1
	}
	base := Ratio(m, a, b)
	if na, errA := strconv.Atoi(a); errA == nil {
		if nb, errB := strconv.Atoi(b); errB == nil {
			switch d := abs(na - nb); {
			case d == 0:
				return 1
			case d <= 5:
				return 0.8
			case d <= 10:
				return 0.6
			default:
				return base
			}
		}
	}
	if sameGroup(sizeSynonyms, a, b) {
		return synonymScore
	}
	return base
}

// bestVariantScore: максимум по всем парам вариантов.
func bestVariantScore(query, catalog []string, score func(a, b string) float64) float64 {
	best := 0.0
	for _, q := range query {
		for _, c := range catalog {
			if s := score(q, c); s > best {
				best = s
			}
		}
	}
	return best
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// ExtractSize: содержимое 사이즈{…}: нижний регистр, '|' и '\' → пробел.
func ExtractSize(options string) string { return extractTag(reSizeTag, options) }

// ExtractColor: содержимое 색상{…}.
func ExtractColor(options string) string { return extractTag(reColorTag, options) }

func extractTag(re *regexp.Regexp, options string) string {
	m := re.FindStringSubmatch(options)
	if m == nil {
		return ""
	}
	v := strings.ToLower(strings.TrimSpace(m[1]))
	return strings.NewReplacer("|", " ", `\`, " ").Replace(v)
}
