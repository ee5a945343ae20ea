package lex

import "fmt"

type TokenKind int

const (
	TokenEOF TokenKind = iota
	TokenWhitespace
	TokenBoolean
	TokenSymbol
	TokenIdentifier
	TokenFloat
	TokenInteger
)

var tokenKindNames = map[TokenKind]string{
	TokenEOF:        "EOF",
	TokenWhitespace: "Whitespace",
	TokenBoolean:    "Boolean",
	TokenSymbol:     "Symbol",
	TokenIdentifier: "Identifier",
	TokenFloat:      "Float",
	TokenInteger:    "Integer",
}

func (k TokenKind) String() string {
	if name, ok := tokenKindNames[k]; ok {
		return name
	}
	return "Unknown"
}

// Position is a location in the source text, 1-based line and column.
type Position struct {
	Offset int
	Line   int
	Column int
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Token is one classified lexeme. Integer and Float tokens carry their
// parsed value in addition to the literal text.
type Token struct {
	Kind    TokenKind
	Literal string
	Int     int64
	Float   float64
	Pos     Position
}

func (t Token) String() string {
	return fmt.Sprintf("%s %s %q", t.Pos, t.Kind, t.Literal)
}

// Significant reports whether the token takes part in parsing. Whitespace
// is interleaved in the stream but transparently skipped by the cursor.
func (t Token) Significant() bool {
	return t.Kind != TokenWhitespace && t.Kind != TokenEOF
}
