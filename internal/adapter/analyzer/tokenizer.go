package analyzer

import (
	"strings"
	"unicode"
)

// Tokenizer lowercases text, splits it on non-word runes and drops stopwords.
type Tokenizer struct {
	stopwords map[string]struct{}
	minLen    int
}

func NewTokenizer() *Tokenizer {
	return &Tokenizer{
		stopwords: englishStopwords(),
		minLen:    2,
	}
}

func (t *Tokenizer) Tokenize(text string) []string {
	words := strings.FieldsFunc(strings.ToLower(text), isSeparator)
	tokens := make([]string, 0, len(words))

	for _, word := range words {
		if len([]rune(word)) < t.minLen {
			continue
		}
		if _, stop := t.stopwords[word]; stop {
			continue
		}
		tokens = append(tokens, word)
	}

	return tokens
}

// CountTokens estimates LLM tokens at roughly 1.3 per word.
func (t *Tokenizer) CountTokens(text string) int {
	words := strings.FieldsFunc(text, isSeparator)
	return int(float64(len(words)) * 1.3)
}

func isSeparator(r rune) bool {
	return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_'
}

func englishStopwords() map[string]struct{} {
	stops := []string{
		"a", "an", "and", "are", "as", "at", "be", "by", "for",
		"from", "has", "in", "is", "it", "its", "of", "on", "or",
		"that", "the", "to", "was", "were", "will", "with", "this",
		"have", "had", "but", "not", "you", "your", "we", "our",
		"if", "so", "no", "can", "do", "does", "did", "been",
		"what", "when", "where", "why", "how", "which", "who",
		"me", "my", "i", "some", "any", "about", "please",
	}
	m := make(map[string]struct{}, len(stops))
	for _, s := range stops {
		m[s] = struct{}{}
	}
	return m
}
