package service

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	tagPattern      = regexp.MustCompile(`<[^>]*>`)
	slugSeparatorRe = regexp.MustCompile(`[^a-z0-9]+`)
)

// StripTags 去除 HTML tag 並 trim
func StripTags(s string) string {
	return strings.TrimSpace(tagPattern.ReplaceAllString(strings.TrimSpace(s), ""))
}

func stripTagsPtr(s *string) *string {
	if s == nil {
		return nil
	}
	v := StripTags(*s)
	if v == "" {
		return nil
	}
	return &v
}

func stripTagsAll(values []string) []string {
	if values == nil {
		return nil
	}
	out := make([]string, 0, len(values))
	for _, v := range values {
		out = append(out, StripTags(v))
	}
	return out
}

// Slugify 轉成小寫 ASCII，非英數字元以 "-" 連接，例如 "Jakarta Marathon 2026" -> "jakarta-marathon-2026"
func Slugify(title string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	ascii, _, err := transform.String(t, title)
	if err != nil {
		ascii = title
	}
	slug := slugSeparatorRe.ReplaceAllString(strings.ToLower(ascii), "-")
	return strings.Trim(slug, "-")
}
