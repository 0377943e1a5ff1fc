package utils

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

var rxKeepNums = regexp.MustCompile(`[^\d\.\-]`)

// ParseAmount парсит цены из выгрузок: "8,000", "8,000원", "₩ 12 000", "15000.0".
// Запятая здесь, разделитель тысяч.
func ParseAmount(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	repl := strings.NewReplacer("\u00A0", "", "\u202F", "", " ", "", "\t", "", ",", "", "원", "", "₩", "")
	s = repl.Replace(s)
	// оставить только цифры, точку и минус (на случай мусора)
	s = rxKeepNums.ReplaceAllString(s, "")
	if s == "" || s == "-" || s == "." {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// ParseQuantity: целое количество: "2", "2개", "3.0". Дробная часть отбрасывается.
// Отрицательное или больше MaxInt32 не принимается.
func ParseQuantity(s string) (int, bool) {
	s = strings.TrimSuffix(strings.TrimSpace(s), "개")
	f, ok := ParseAmount(s)
	if !ok || f < 0 || f > math.MaxInt32 {
		return 0, false
	}
	return int(f), true
}
