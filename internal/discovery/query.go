package discovery

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	// DefaultQueryTokens bounds the composed recommendation query
	DefaultQueryTokens = 5
	// minTokenLen is exclusive: tokens must be longer than this
	minTokenLen = 2
)

var nonWord = regexp.MustCompile(`\W`)

func keepToken(tok string) bool {
	return utf8.RuneCountInString(tok) > minTokenLen
}

// ComposeQuery turns sampled names into one search query: every whitespace
// separated word longer than two characters, first maxTokens of them, space
// joined. Punctuation is left in place on this path. ok is false when no word survives.
func ComposeQuery(names []string, maxTokens int) (query string, ok bool) {
	if maxTokens <= 0 {
		maxTokens = DefaultQueryTokens
	}

	tokens := make([]string, 0, maxTokens)
	for _, word := range strings.Fields(strings.Join(names, " ")) {
		if !keepToken(word) {
			continue
		}
		tokens = append(tokens, word)
		if len(tokens) == maxTokens {
			break
		}
	}

	if len(tokens) == 0 {
		return "", false
	}
	return strings.Join(tokens, " "), true
}

// SimilarityTokens extracts the search tokens of a focal recipe name: each
// word stripped of non-word characters, lower-cased, kept when longer than two
// characters. There is no upper bound; every qualifying word is searched.
func SimilarityTokens(name string) []string {
	var tokens []string
	for _, word := range strings.Fields(name) {
		tok := strings.ToLower(nonWord.ReplaceAllString(word, ""))
		if keepToken(tok) {
			tokens = append(tokens, tok)
		}
	}
	return tokens
}
