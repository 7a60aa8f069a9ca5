package services

import (
	"sort"
	"strings"
	"unicode"

	"github.com/vncsmyrnk/elections/internal/core/domain"
)

// InferSchemes returns the explicitly selected codes together with every
// catalog code the manifesto mentions. Matching is recall-biased: an entry
// qualifies when its code or title occurs in the manifesto, when a manifesto
// token longer than two runes occurs in the title, or when a title word
// equals a manifesto token. The result is sorted and free of duplicates.
func InferSchemes(manifesto string, catalog []domain.Scheme, explicit []string) []string {
	selected := make(map[string]struct{}, len(explicit))
	for _, code := range explicit {
		if code = strings.TrimSpace(code); code != "" {
			selected[code] = struct{}{}
		}
	}

	lowered := strings.ToLower(manifesto)
	normalized := stripPunctuation(lowered)
	tokens := tokenSet(normalized)

	for _, scheme := range catalog {
		code := strings.TrimSpace(scheme.Code)
		if code == "" {
			continue
		}
		if _, ok := selected[code]; ok {
			continue
		}
		if schemeMatches(scheme, lowered, normalized, tokens) {
			selected[code] = struct{}{}
		}
	}

	result := make([]string, 0, len(selected))
	for code := range selected {
		result = append(result, code)
	}
	sort.Strings(result)
	return result
}

func schemeMatches(scheme domain.Scheme, lowered, normalized string, tokens map[string]struct{}) bool {
	code := strings.ToLower(strings.TrimSpace(scheme.Code))
	title := strings.ToLower(strings.TrimSpace(scheme.Title))

	if code != "" && (strings.Contains(lowered, code) || strings.Contains(normalized, code)) {
		return true
	}
	if title != "" && (strings.Contains(lowered, title) || strings.Contains(normalized, stripPunctuation(title))) {
		return true
	}
	if title == "" {
		return false
	}

	for token := range tokens {
		if len([]rune(token)) > 2 && strings.Contains(title, token) {
			return true
		}
	}
	for _, word := range strings.Fields(stripPunctuation(title)) {
		if _, ok := tokens[word]; ok {
			return true
		}
	}
	return false
}

func stripPunctuation(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			return r
		}
		return -1
	}, s)
}

func tokenSet(s string) map[string]struct{} {
	fields := strings.Fields(s)
	set := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		set[f] = struct{}{}
	}
	return set
}
