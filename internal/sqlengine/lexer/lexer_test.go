package lexer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"myco/internal/sqlengine/token"
)

func collectTypes(input string) []token.Type {
	l := New(input)
	var types []token.Type
	for {
		tok := l.NextToken()
		types = append(types, tok.Type)
		if tok.Type == token.EOF {
			break
		}
	}
	return types
}

func TestNextTokenBasicSelect(t *testing.T) {
	types := collectTypes(`SELECT name FROM users WHERE id = 5;`)
	assert.Equal(t, []token.Type{
		token.SELECT, token.IDENT, token.FROM, token.IDENT,
		token.WHERE, token.IDENT, token.EQ, token.INT, token.SEMI, token.EOF,
	}, types)
}

func TestNextTokenOperators(t *testing.T) {
	l := New(`!= <> <= >= < >`)
	want := []token.Type{token.NEQ, token.NEQ, token.LTE, token.GTE, token.LT, token.GT, token.EOF}
	for _, w := range want {
		tok := l.NextToken()
		assert.Equal(t, w, tok.Type)
	}
}

func TestNextTokenQuotedStringWithEscapedQuote(t *testing.T) {
	l := New(`'it''s'`)
	tok := l.NextToken()
	require.Equal(t, token.STRING, tok.Type)
	assert.Equal(t, "it's", tok.Literal)
}

func TestNextTokenNumbers(t *testing.T) {
	l := New(`42 3.14 .5`)
	tok := l.NextToken()
	assert.Equal(t, token.INT, tok.Type)
	assert.Equal(t, "42", tok.Literal)

	tok = l.NextToken()
	assert.Equal(t, token.FLOAT, tok.Type)
	assert.Equal(t, "3.14", tok.Literal)

	tok = l.NextToken()
	assert.Equal(t, token.FLOAT, tok.Type)
	assert.Equal(t, ".5", tok.Literal)
}

func TestNextTokenKeywordIsCaseInsensitive(t *testing.T) {
	l := New(`select Select SELECT`)
	for i := 0; i < 3; i++ {
		tok := l.NextToken()
		assert.Equal(t, token.SELECT, tok.Type)
	}
}

func TestNextTokenSkipsLineAndBlockComments(t *testing.T) {
	types := collectTypes("SELECT -- trailing comment\n1 /* block */ + 2;")
	assert.Contains(t, types, token.SELECT)
	assert.Contains(t, types, token.INT)
}

func TestNextTokenDotPath(t *testing.T) {
	types := collectTypes(`a.b`)
	assert.Equal(t, []token.Type{token.IDENT, token.DOT, token.IDENT, token.EOF}, types)
}
