package utils

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var nonAlnum = regexp.MustCompile(`[^A-Za-z0-9]+`)

// RemoveAccents removes accents from a string, converting accented characters to their base forms
func RemoveAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	result, _, _ := transform.String(t, s)
	return result
}

// Capitalize upper-cases the first rune and leaves the rest untouched.
func Capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

// CapitalizeCamelCase capitalizes every word of s and joins them, keeping the
// inner casing of each word: "createPets" and "create-pets" both become
// "CreatePets".
func CapitalizeCamelCase(s string) string {
	parts := nonAlnum.Split(RemoveAccents(strings.TrimSpace(s)), -1)
	var b strings.Builder
	for _, part := range parts {
		for _, word := range SplitCamelCase(part) {
			b.WriteString(Capitalize(word))
		}
	}
	return b.String()
}

// SplitCamelCase splits a camelCase or PascalCase string into words
func SplitCamelCase(s string) []string {
	if s == "" {
		return nil
	}

	var parts []string
	var current strings.Builder

	runes := []rune(s)
	for i, r := range runes {
		// Check if this is the start of a new word
		isNewWord := false
		if i > 0 && isUppercase(r) {
			if !isUppercase(runes[i-1]) {
				isNewWord = true
			} else if i < len(runes)-1 && !isUppercase(runes[i+1]) {
				// "XMLHttp" -> "XML", "Http"
				isNewWord = true
			}
		}

		if isNewWord && current.Len() > 0 {
			parts = append(parts, current.String())
			current.Reset()
		}

		current.WriteRune(r)
	}

	if current.Len() > 0 {
		parts = append(parts, current.String())
	}

	return parts
}

func isUppercase(r rune) bool {
	return r >= 'A' && r <= 'Z'
}

// ToPascalCaseAdvanced converts a string to PascalCase, lower-casing the tail
// of every word.
func ToPascalCaseAdvanced(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}

	s = RemoveAccents(s)

	parts := nonAlnum.Split(s, -1)
	var allParts []string

	for _, part := range parts {
		if part == "" {
			continue
		}
		allParts = append(allParts, SplitCamelCase(part)...)
	}

	var result strings.Builder
	for _, part := range allParts {
		if part == "" {
			continue
		}
		if len(part) == 1 {
			result.WriteString(strings.ToUpper(part))
		} else {
			result.WriteString(strings.ToUpper(part[:1]) + strings.ToLower(part[1:]))
		}
	}
	return result.String()
}

// ToCamelCaseAdvanced converts a string to camelCase
func ToCamelCaseAdvanced(s string) string {
	p := ToPascalCaseAdvanced(s)
	if p == "" {
		return ""
	}
	return strings.ToLower(p[:1]) + p[1:]
}
