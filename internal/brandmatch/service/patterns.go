package service

import (
	"regexp"
	"strings"
)

// Общие предкомпилированные шаблоны.
var (
	// скобочные аннотации в названиях
	reParens   = regexp.MustCompile(`\([^)]*\)`)
	reBrackets = regexp.MustCompile(`\[[^\]]*\]`)
	reBraces   = regexp.MustCompile(`\{[^}]*\}`)

	// всё, кроме букв (включая хангыль), цифр, '_' и пробелов
	reSpecial = regexp.MustCompile(`[^\p{L}\p{N}_\s]`)
	reSpaces  = regexp.MustCompile(`\s+`)

	reCommaSpaces = regexp.MustCompile(`\s*,\s*`)
	reCommas      = regexp.MustCompile(`,+`)

	// хотя бы один полезный символ после очистки
	reUsable = regexp.MustCompile(`[가-힣a-zA-Z0-9]`)

	// ключевое слово удаляется по границам слова только если состоит из этих символов
	reBoundaryKeyword = regexp.MustCompile(`^[a-zA-Z0-9가-힣\s]+$`)

	// размерные диапазоны в скобках: (S~XL), (XS-XL), (M~JXL), (13~15), (JS-JM)
	reSizeRanges = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\(s[~-]xl\)`),
		regexp.MustCompile(`(?i)\(xs[~-]xl\)`),
		regexp.MustCompile(`(?i)\(m[~-]jxl\)`),
		regexp.MustCompile(`\([0-9]+[~-][0-9]+\)`),
		regexp.MustCompile(`(?i)\(js[~-]j[xlm]+\)`),
	}

	// опции: ключ=значение / ключ:значение
	reColorEq    = regexp.MustCompile(`(?i)(?:색상|컬러|color)\s*=\s*([^,/]+?)(?:\s*[,/]|\s*(?:사이즈|size)|$)`)
	reSizeEq     = regexp.MustCompile(`(?i)(?:사이즈|size)\s*[=:]\s*([^,/]+?)(?:\s*[,/]|\s*(?:색상|컬러|color)|$)`)
	reColorColon = regexp.MustCompile(`(?i)(?:색상|컬러|color)\s*:\s*([^,/]+?)(?:\s*[,/]|\s*(?:사이즈|size)|$)`)
	reSizeColon  = regexp.MustCompile(`(?i)(?:사이즈|size)\s*:\s*([^,/]+?)(?:\s*[,/]|\s*(?:색상|컬러|color)|$)`)

	reSlashPair = regexp.MustCompile(`^([^/]+)/([^/]+)$`)
	reDashPair  = regexp.MustCompile(`^([^-]+)-([^-]+)$`)

	// похоже на размер: есть цифра или S/M/L/X
	reSizeLike = regexp.MustCompile(`(?i)[0-9]|[smlx]`)
	// точно размер: S, M, L, X, XL…XXXL, 2XL, FREE или одни цифры
	reExactSize = regexp.MustCompile(`(?i)^(?:[0-9]+|[smlx]|x{1,3}[sl]|[2-4]xl|free|프리)$`)

	reTrailingSep = regexp.MustCompile(`\s*[/\\|]+\s*$`)

	// теги опций справочника: 색상{…}//사이즈{…}
	reSizeTag  = regexp.MustCompile(`사이즈\{([^}]*)\}`)
	reColorTag = regexp.MustCompile(`색상\{([^}]*)\}`)

	// бренд с уточнением в скобках: "클라레오(기린) 상품명"
	reBrandParen = regexp.MustCompile(`^([^)]+\)[^)]*?)\s+(.+)$`)
)

// stripSizeRanges: убирает скобочные размерные диапазоны.
func stripSizeRanges(s string) string {
	for _, re := range reSizeRanges {
		s = re.ReplaceAllString(s, "")
	}
	return collapseSpaces(s)
}

func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
