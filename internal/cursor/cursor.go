// Package cursor provides a read-only, lookahead-capable view over a
// token slice. It is the single seam through which the parser reads
// tokens, kept separate from the parser itself so the grammar code
// never touches raw slice indices.
package cursor

import "lolcode/internal/token"

// Cursor walks a fixed token slice produced by the scanner. It never
// mutates the slice and never reads past its end: once positioned on
// the final EOF token, Advance is a no-op.
type Cursor struct {
	tokens []token.Token
	pos    int
}

// New creates a Cursor over tokens. tokens must end with an EOF token.
func New(tokens []token.Token) *Cursor {
	return &Cursor{tokens: tokens}
}

// Current returns the token at the cursor's position.
func (c *Cursor) Current() token.Token {
	return c.tokens[c.pos]
}

// Peek returns the token n positions ahead of the cursor without
// moving it. Peek(0) is equivalent to Current. Past the end of the
// stream it keeps returning the final EOF token.
func (c *Cursor) Peek(n int) token.Token {
	i := c.pos + n
	if i >= len(c.tokens) {
		i = len(c.tokens) - 1
	}
	return c.tokens[i]
}

// Advance moves the cursor forward by one token and returns the token
// it was positioned on before moving.
func (c *Cursor) Advance() token.Token {
	t := c.Current()
	if t.Kind != token.EOF {
		c.pos++
	}
	return t
}

// Check reports whether the current token has the given kind, without
// consuming it.
func (c *Cursor) Check(kind token.Kind) bool {
	return c.Current().Kind == kind
}

// Accept consumes and returns the current token if it has the given
// kind, reporting whether it matched. The cursor does not move on a
// mismatch.
func (c *Cursor) Accept(kind token.Kind) (token.Token, bool) {
	if c.Check(kind) {
		return c.Advance(), true
	}
	return token.Token{}, false
}

// SkipNewlines advances past any run of NEWLINE tokens at the current
// position.
func (c *Cursor) SkipNewlines() {
	for c.Check(token.NEWLINE) {
		c.Advance()
	}
}
