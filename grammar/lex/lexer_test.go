package lex

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func kinds(tokens []Token) []string {
	out := make([]string, len(tokens))
	for i, t := range tokens {
		out[i] = t.Kind
	}
	return out
}

func TestTokenize_Production(t *testing.T) {
	tokens, err := Tokenize("S(uv) -> NP(u) VP(v)")
	require.NoError(t, err)

	assert.Equal(t, []string{
		KindWord, KindLParen, KindWord, KindRParen,
		KindArrow,
		KindWord, KindLParen, KindWord, KindRParen,
		KindWord, KindLParen, KindWord, KindRParen,
		KindEOF,
	}, kinds(tokens))
	assert.Equal(t, "uv", tokens[2].Literal)
	assert.Equal(t, 6, tokens[4].Offset)
}

func TestTokenize_ArrowWithoutSpaces(t *testing.T) {
	tokens, err := Tokenize("A(u)->B(u)")
	require.NoError(t, err)
	assert.Equal(t, KindArrow, tokens[4].Kind)
	assert.Equal(t, "->", tokens[4].Literal)
}

func TestTokenize_LexicalWord(t *testing.T) {
	tokens, err := Tokenize("Aux(don't)")
	require.NoError(t, err)
	require.Len(t, tokens, 5)
	assert.Equal(t, "don't", tokens[2].Literal)
}

func TestTokenize_UnexpectedCharacter(t *testing.T) {
	_, err := Tokenize("S(u) \f NP(u)")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnexpectedChar))

	var lexErr *Error
	require.True(t, errors.As(err, &lexErr))
	assert.Equal(t, 5, lexErr.Offset)
	assert.Equal(t, "\f", lexErr.Char)
}

func TestTokenize_SingleCharacterWords(t *testing.T) {
	tokens, err := Tokenize("A(u)")
	require.NoError(t, err)
	assert.Equal(t, []string{KindWord, KindLParen, KindWord, KindRParen, KindEOF}, kinds(tokens))
	assert.Equal(t, "A", tokens[0].Literal)
	assert.Equal(t, "u", tokens[2].Literal)
}

func TestTokenize_NonASCIIWords(t *testing.T) {
	for _, word := range []string{"Mädchen", "café", "日本語", "naïve-ish"} {
		tokens, err := Tokenize("N(" + word + ")")
		require.NoError(t, err, word)
		require.Len(t, tokens, 5, word)
		assert.Equal(t, KindWord, tokens[2].Kind)
		assert.Equal(t, word, tokens[2].Literal)
	}
}

func TestTokenize_InvalidUTF8IsPartOfWord(t *testing.T) {
	tokens, err := Tokenize("N(a\xffb)")
	require.NoError(t, err)
	assert.Equal(t, "a\xffb", tokens[2].Literal)
}

func TestTokenize_PunctuationWords(t *testing.T) {
	for _, word := range []string{"?", "!", ".", "...", "=>", "\"", "-", "-x", "a->b", ">", "%", "`"} {
		tokens, err := Tokenize("P(" + word + ")")
		require.NoError(t, err, word)
		require.Len(t, tokens, 5, word)
		assert.Equal(t, KindWord, tokens[2].Kind, word)
		assert.Equal(t, word, tokens[2].Literal)
	}
}

func TestTokenize_ArrowBeatsDashWord(t *testing.T) {
	tokens, err := Tokenize("A(u)->B(u) -> C(u)")
	require.NoError(t, err)
	assert.Equal(t, KindArrow, tokens[4].Kind)
	assert.Equal(t, KindWord, tokens[5].Kind)
	assert.Equal(t, "B", tokens[5].Literal)
	assert.Equal(t, KindArrow, tokens[9].Kind)
}

func TestTokenize_Empty(t *testing.T) {
	tokens, err := Tokenize("   ")
	require.NoError(t, err)
	assert.Equal(t, []string{KindEOF}, kinds(tokens))
}

func TestTokenKindsAreSortedAndExcludeHelpers(t *testing.T) {
	assert.Equal(t, []string{KindArrow, KindComma, KindLParen, KindRParen, KindWhiteSpace, KindWord}, tokenKinds)
}
