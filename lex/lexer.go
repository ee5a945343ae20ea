// Package lex turns source text into a flat token stream over a closed,
// regex-driven token set: whitespace, booleans, symbols, identifiers,
// floats and integers. Every byte of the input must belong to some lexeme.
package lex

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// One master expression, one capturing group per token kind. Floats are
// tried before integers so "1.5" does not lex as Integer Symbol Integer.
var tokenPattern = regexp.MustCompile(
	`\A(?:([ \t\r\n]+)` + // 1: whitespace
		`|([a-zA-Z_][a-zA-Z_0-9]*)` + // 2: identifier (true/false promote to Boolean)
		`|([0-9]+\.[0-9]*)` + // 3: float
		`|([0-9]+)` + // 4: integer
		`|([-+*/=>\\_.:,;<>!$%&?@]+))`, // 5: symbol
)

var groupKinds = []TokenKind{
	1: TokenWhitespace,
	2: TokenIdentifier,
	3: TokenFloat,
	4: TokenInteger,
	5: TokenSymbol,
}

// Lexer scans one source string. It is a throwaway value; use Tokenize for
// the common whole-input case.
type Lexer struct {
	input string
	pos   int
	line  int
	col   int
}

func NewLexer(input string) *Lexer {
	return &Lexer{input: input, line: 1, col: 1}
}

// Position returns the current position in the input.
func (l *Lexer) Position() Position {
	return Position{Offset: l.pos, Line: l.line, Column: l.col}
}

// NextToken returns the next token, a TokenEOF token at end of input, or an
// error when no token pattern matches at the current position.
func (l *Lexer) NextToken() (Token, error) {
	start := l.Position()
	if l.pos >= len(l.input) {
		return Token{Kind: TokenEOF, Pos: start}, nil
	}

	match := tokenPattern.FindStringSubmatch(l.input[l.pos:])
	if match == nil {
		r := []rune(l.input[l.pos:])[0]
		return Token{}, fmt.Errorf("%s: unexpected character %q", start, r)
	}

	group := 0
	for i := 1; i < len(match); i++ {
		if match[i] != "" {
			group = i
			break
		}
	}
	lexeme := match[group]
	kind := groupKinds[group]

	tok := Token{Kind: kind, Literal: lexeme, Pos: start}
	switch kind {
	case TokenIdentifier:
		if lexeme == "true" || lexeme == "false" {
			tok.Kind = TokenBoolean
		}
	case TokenInteger:
		n, err := strconv.ParseInt(lexeme, 10, 64)
		if err != nil {
			return Token{}, fmt.Errorf("%s: invalid integer %q: %w", start, lexeme, err)
		}
		tok.Int = n
	case TokenFloat:
		f, err := strconv.ParseFloat(lexeme, 64)
		if err != nil {
			return Token{}, fmt.Errorf("%s: invalid float %q: %w", start, lexeme, err)
		}
		tok.Float = f
	}

	l.advance(lexeme)
	return tok, nil
}

func (l *Lexer) advance(lexeme string) {
	l.pos += len(lexeme)
	if n := strings.Count(lexeme, "\n"); n > 0 {
		l.line += n
		l.col = len(lexeme) - strings.LastIndexByte(lexeme, '\n')
	} else {
		l.col += len(lexeme)
	}
}

// Tokenize scans the whole input. Whitespace tokens are kept interleaved;
// no EOF token is appended.
func Tokenize(input string) ([]Token, error) {
	l := NewLexer(input)
	var tokens []Token
	for {
		tok, err := l.NextToken()
		if err != nil {
			return nil, err
		}
		if tok.Kind == TokenEOF {
			return tokens, nil
		}
		tokens = append(tokens, tok)
	}
}
