package parser

import "github.com/leapstack-labs/leapplot/pkg/token"

// Lexer tokenizes canonical arithmetic expressions.
type Lexer struct {
	input   string
	pos     int  // current position in input
	readPos int  // reading position (after current char)
	ch      byte // current char under examination
}

// NewLexer creates a new Lexer for the given input.
func NewLexer(input string) *Lexer {
	l := &Lexer{input: input}
	l.readChar()
	return l
}

// readChar advances to the next character.
func (l *Lexer) readChar() {
	if l.readPos >= len(l.input) {
		l.ch = 0 // ASCII NUL = EOF
	} else {
		l.ch = l.input[l.readPos]
	}
	l.pos = l.readPos
	l.readPos++
}

// peekChar returns the next character without advancing.
func (l *Lexer) peekChar() byte {
	if l.readPos >= len(l.input) {
		return 0
	}
	return l.input[l.readPos]
}

func (l *Lexer) currentPos() token.Position {
	return token.Position{Column: l.pos + 1, Offset: l.pos}
}

// NextToken returns the next token.
func (l *Lexer) NextToken() token.Token {
	for l.ch == ' ' || l.ch == '\t' || l.ch == '\n' || l.ch == '\r' {
		l.readChar()
	}

	pos := l.currentPos()

	switch l.ch {
	case 0:
		if l.pos >= len(l.input) {
			return token.Token{Type: token.EOF, Pos: pos}
		}
		// embedded NUL byte
	case '+':
		return l.single(token.PLUS, pos)
	case '-':
		return l.single(token.MINUS, pos)
	case '/':
		return l.single(token.SLASH, pos)
	case ',':
		return l.single(token.COMMA, pos)
	case '(':
		return l.single(token.LPAREN, pos)
	case ')':
		return l.single(token.RPAREN, pos)
	case '*':
		if l.peekChar() == '*' {
			l.readChar()
			l.readChar()
			return token.Token{Type: token.POW, Literal: "**", Pos: pos}
		}
		return l.single(token.STAR, pos)
	default:
		if isDigit(l.ch) || (l.ch == '.' && isDigit(l.peekChar())) {
			return token.Token{Type: token.NUMBER, Literal: l.readNumber(), Pos: pos}
		}
		if isIdentStart(l.ch) {
			return token.Token{Type: token.IDENT, Literal: l.readIdentifier(), Pos: pos}
		}
	}

	lit := string(l.ch)
	l.readChar()
	return token.Token{Type: token.ILLEGAL, Literal: lit, Pos: pos}
}

func (l *Lexer) single(t token.TokenType, pos token.Position) token.Token {
	lit := string(l.ch)
	l.readChar()
	return token.Token{Type: t, Literal: lit, Pos: pos}
}

// readNumber reads `digits[.digits]`, `digits.` or `.digits`.
func (l *Lexer) readNumber() string {
	start := l.pos
	for isDigit(l.ch) {
		l.readChar()
	}
	if l.ch == '.' {
		l.readChar()
		for isDigit(l.ch) {
			l.readChar()
		}
	}
	return l.input[start:l.pos]
}

func (l *Lexer) readIdentifier() string {
	start := l.pos
	for isIdentStart(l.ch) || isDigit(l.ch) {
		l.readChar()
	}
	return l.input[start:l.pos]
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isIdentStart(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || ch == '_'
}

// Tokenize returns every token of input up to and including EOF.
func Tokenize(input string) []token.Token {
	l := NewLexer(input)
	var toks []token.Token
	for {
		tok := l.NextToken()
		toks = append(toks, tok)
		if tok.Type == token.EOF {
			return toks
		}
	}
}
