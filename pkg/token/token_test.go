package token

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokenTypeString(t *testing.T) {
	tests := []struct {
		typ  TokenType
		want string
	}{
		{EOF, "EOF"},
		{NUMBER, "NUMBER"},
		{POW, "**"},
		{LPAREN, "("},
		{TokenType(500), "TOKEN(500)"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.typ.String())
		})
	}
}

func TestIsOperator(t *testing.T) {
	for _, op := range []TokenType{PLUS, MINUS, STAR, SLASH, POW} {
		assert.True(t, op.IsOperator(), op.String())
	}
	for _, other := range []TokenType{IDENT, NUMBER, LPAREN, COMMA, EOF} {
		assert.False(t, other.IsOperator(), other.String())
	}
}

func TestSpan(t *testing.T) {
	s := Span{Start: Position{Column: 1, Offset: 0}, End: Position{Column: 4, Offset: 3}}
	assert.True(t, s.IsValid())
	assert.True(t, s.Contains(0))
	assert.True(t, s.Contains(2))
	assert.False(t, s.Contains(3))
	assert.False(t, Span{}.IsValid())
	assert.Equal(t, "col 4", s.End.String())
	assert.Equal(t, "-", Position{}.String())
}
