package service

import (
	"regexp"
	"strings"
)

// optionRule: одно соглашение записи опций. Возвращает найденные цвет и размер
// (любое из значений может быть пустым).
type optionRule struct {
	name string
	// onlyIfEmpty: правило применяется, только если оба поля ещё пусты
	onlyIfEmpty bool
	parse       func(text string) (color, size string)
}

// optionRules: порядок важен: ключ=значение, ключ:значение, "цвет/размер", "цвет-размер".
var optionRules = []optionRule{
	{name: "equals", parse: keyValue(reColorEq, reSizeEq)},
	{name: "colon", parse: keyValue(reColorColon, reSizeColon)},
	{name: "slash", onlyIfEmpty: true, parse: slashPair},
	{name: "dash", onlyIfEmpty: true, parse: dashPair},
}

// ParseOptions извлекает (цвет, размер) из свободной строки опций.
// Ничего не нашли, ("", ""), это не ошибка.
func ParseOptions(text string) (color, size string) {
	text = strings.TrimSpace(text)
	if text == "" || strings.EqualFold(text, "nan") {
		return "", ""
	}
	for _, r := range optionRules {
		if r.onlyIfEmpty && (color != "" || size != "") {
			break
		}
		c, s := r.parse(text)
		// поля заполняются независимо: первое правило, давшее значение, выигрывает
		if color == "" {
			color = c
		}
		if size == "" {
			size = s
		}
	}
	return trimSeparators(color), trimSeparators(size)
}

func keyValue(colorRe, sizeRe *regexp.Regexp) func(string) (string, string) {
	return func(text string) (color, size string) {
		if m := colorRe.FindStringSubmatch(text); m != nil {
			color = strings.TrimSpace(m[1])
		}
		if m := sizeRe.FindStringSubmatch(text); m != nil {
			size = strings.TrimSpace(m[1])
		}
		return color, size
	}
}

// "블랙/XL": справа должен быть размер
func slashPair(text string) (string, string) {
	m := reSlashPair.FindStringSubmatch(text)
	if m == nil {
		return "", ""
	}
	left, right := strings.TrimSpace(m[1]), strings.TrimSpace(m[2])
	if reSizeLike.MatchString(right) || reExactSize.MatchString(right) {
		return left, right
	}
	return "", ""
}

// "네이비-FREE", "M-블랙". Обе стороны, размеры ("13-15") → неоднозначно, ничего.
func dashPair(text string) (string, string) {
	m := reDashPair.FindStringSubmatch(text)
	if m == nil {
		return "", ""
	}
	left, right := strings.TrimSpace(m[1]), strings.TrimSpace(m[2])
	leftExact, rightExact := reExactSize.MatchString(left), reExactSize.MatchString(right)
	switch {
	case leftExact && rightExact:
		return "", ""
	case leftExact:
		return right, left
	case rightExact || reSizeLike.MatchString(right):
		return left, right
	}
	return "", ""
}

func trimSeparators(s string) string {
	return strings.TrimSpace(reTrailingSep.ReplaceAllString(s, ""))
}
