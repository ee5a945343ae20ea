package parse

import "github.com/dhamidi/grampa/lex"

// Cursor tracks a read position over the significant tokens of a stream.
// Whitespace is filtered once up front so peeking and advancing are O(1),
// and a mark is a plain index, cheap to take and restore for backtracking.
type Cursor struct {
	tokens []lex.Token
	pos    int
}

// NewCursor builds a cursor over the significant subsequence of tokens.
// The underlying token slice must not be mutated while the cursor is in use.
func NewCursor(tokens []lex.Token) *Cursor {
	significant := make([]lex.Token, 0, len(tokens))
	for _, tok := range tokens {
		if tok.Significant() {
			significant = append(significant, tok)
		}
	}
	return &Cursor{tokens: significant}
}

// Peek returns the current significant token without moving. The second
// result is false at end of input.
func (c *Cursor) Peek() (lex.Token, bool) {
	if c.pos >= len(c.tokens) {
		return lex.Token{}, false
	}
	return c.tokens[c.pos], true
}

// Advance returns the current significant token and moves past it.
func (c *Cursor) Advance() (lex.Token, bool) {
	tok, ok := c.Peek()
	if ok {
		c.pos++
	}
	return tok, ok
}

// Mark returns a snapshot of the current position.
func (c *Cursor) Mark() int { return c.pos }

// Restore resets the position to a prior snapshot.
func (c *Cursor) Restore(mark int) { c.pos = mark }

// Pos returns the current index into the significant-token view.
func (c *Cursor) Pos() int { return c.pos }

// Len returns the number of significant tokens.
func (c *Cursor) Len() int { return len(c.tokens) }

// AtEnd reports whether all significant tokens have been consumed.
func (c *Cursor) AtEnd() bool { return c.pos >= len(c.tokens) }

// Token returns the significant token at index i.
func (c *Cursor) Token(i int) lex.Token { return c.tokens[i] }
