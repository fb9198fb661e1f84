package spore

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func tokenStrings(src string) []struct {
	typ TokenType
	str string
} {
	var out []struct {
		typ TokenType
		str string
	}
	for _, tok := range Tokenize(src) {
		out = append(out, struct {
			typ TokenType
			str string
		}{tok.Type, tok.AsString(src)})
	}
	return out
}

func TestTokenizeEmptyStringReturnsNoTokens(t *testing.T) {
	assert.Nil(t, Tokenize(""))
}

func TestTokenizeWhitespaceOnlyReturnsNoTokens(t *testing.T) {
	assert.Nil(t, Tokenize(" \n\t"))
}

func TestTokenizeWhitespaceSeparatedValues(t *testing.T) {
	src := "\t1  two\n3.0\n"
	got := tokenStrings(src)
	require := []string{"1", "two", "3.0"}
	assert.Len(t, got, len(require))
	for i, want := range require {
		assert.Equal(t, TokenOther, got[i].typ)
		assert.Equal(t, want, got[i].str)
	}
}

func TestTokenizePhraseInQuotesIsString(t *testing.T) {
	got := tokenStrings(`"hello world!"not-text`)
	assert.Equal(t, TokenString, got[0].typ)
	assert.Equal(t, `"hello world!"`, got[0].str)
	assert.Equal(t, TokenOther, got[1].typ)
	assert.Equal(t, "not-text", got[1].str)
}

func TestTokenizeBackslashQuoteEscapesQuote(t *testing.T) {
	got := tokenStrings(` \" "\"quotes\""   `)
	assert.Equal(t, TokenOther, got[0].typ)
	assert.Equal(t, `\"`, got[0].str)
	assert.Equal(t, TokenString, got[1].typ)
	assert.Equal(t, `"\"quotes\""`, got[1].str)
}

func TestTokenizeUnclosedStringIsUnterminated(t *testing.T) {
	got := tokenStrings(`"I am not closed`)
	assert.Equal(t, TokenUnterminatedString, got[0].typ)
	assert.Equal(t, `"I am not closed`, got[0].str)
}

func TestTokenizeParenthesisAreOwnTokens(t *testing.T) {
	got := tokenStrings("(left right)")
	assert.Equal(t, TokenOpenParen, got[0].typ)
	assert.Equal(t, TokenOther, got[1].typ)
	assert.Equal(t, "left", got[1].str)
	assert.Equal(t, TokenOther, got[2].typ)
	assert.Equal(t, "right", got[2].str)
	assert.Equal(t, TokenCloseParen, got[3].typ)
}

func TestTokenizeSemicolonStartsLineComment(t *testing.T) {
	got := tokenStrings("(code) ; comment\n;other comment")
	want := []struct {
		typ TokenType
		str string
	}{
		{TokenOpenParen, "("},
		{TokenOther, "code"},
		{TokenCloseParen, ")"},
		{TokenComment, "; comment\n"},
		{TokenComment, ";other comment"},
	}
	assert.Equal(t, want, got)
}
