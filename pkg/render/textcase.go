package render

import (
	"unicode"
	"unicode/utf8"
)

// CapitalizeFirst upper-cases the first character of s and leaves the rest
// untouched. The empty string is returned unchanged.
func CapitalizeFirst(s string) string {
	return mapFirst(s, unicode.ToUpper)
}

// LowercaseFirst lower-cases the first character of s and leaves the rest
// untouched. The empty string is returned unchanged.
func LowercaseFirst(s string) string {
	return mapFirst(s, unicode.ToLower)
}

func mapFirst(s string, fn func(rune) rune) string {
	if s == "" {
		return s
	}
	first, size := utf8.DecodeRuneInString(s)
	if first == utf8.RuneError && size <= 1 {
		return s
	}
	mapped := fn(first)
	if mapped == first {
		return s
	}
	return string(mapped) + s[size:]
}
