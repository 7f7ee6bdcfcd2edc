package utils

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	nonSlugChars   = regexp.MustCompile(`[^a-z0-9-]+`)
	repeatedHyphen = regexp.MustCompile(`-+`)
)

// Ký tự không tách được bằng NFD
var specialLetters = strings.NewReplacer(
	"đ", "d", "Đ", "D",
	"ø", "o", "Ø", "O",
	"ł", "l", "Ł", "L",
	"ß", "ss",
	"æ", "ae", "Æ", "AE",
	"œ", "oe", "Œ", "OE",
)

// GenerateSlug: "L'été à Paris!" -> "l-ete-a-paris"
func GenerateSlug(input string) string {
	ascii := RemoveDiacritics(input)
	lower := strings.ToLower(ascii)

	// khoảng trắng, dấu nháy, gạch dưới -> hyphen
	hyphenated := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) || r == '\'' || r == '_' || r == '/' {
			return '-'
		}
		return r
	}, lower)

	cleaned := nonSlugChars.ReplaceAllString(hyphenated, "")
	normalized := repeatedHyphen.ReplaceAllString(cleaned, "-")

	return strings.Trim(normalized, "-")
}

// RemoveDiacritics bỏ dấu: tách NFD rồi xóa các nonspacing mark ("é" -> "e")
func RemoveDiacritics(input string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, specialLetters.Replace(input))
	if err != nil {
		return input
	}
	return out
}
