package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokenizer_Tokenize(t *testing.T) {
	tok := NewTokenizer()

	assert.Equal(t, []string{"preheat", "oven", "350", "175"},
		tok.Tokenize("Preheat the oven to 350 (175)"))
}

func TestTokenizer_StopwordsAndShortWords(t *testing.T) {
	tok := NewTokenizer()

	assert.Empty(t, tok.Tokenize(""))
	assert.Equal(t, []string{"go"}, tok.Tokenize("a I go to the"))
}

func TestTokenizer_Unicode(t *testing.T) {
	tok := NewTokenizer()

	assert.Equal(t, []string{"jalapeño", "pepper"}, tok.Tokenize("1 jalapeño pepper"))
}

func TestTokenizer_CountTokens(t *testing.T) {
	tok := NewTokenizer()

	assert.Equal(t, 0, tok.CountTokens(""))
	assert.Equal(t, 13, tok.CountTokens("one two three four five six seven eight nine ten"))
}
