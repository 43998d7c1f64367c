// Package jsonscan is a byte-cursor recognizer for the small JSON subset found in
// ClearKey license documents. It locates value boundaries without building a tree:
// no escape decoding, no number interpretation, no Unicode validation.
//
// The grammar is LL(1): every decision is made on a single peeked symbol and the
// cursor only ever moves forward.
package jsonscan

import (
	"fmt"

	"github.com/deploymenttheory/go-clearkey/internal/interfaces"
	"github.com/deploymenttheory/go-clearkey/internal/types"
)

// EOF is returned by PeekSymbol and NextSymbol once the data is exhausted.
const EOF byte = 0

// Cursor is a forward-only position within a borrowed byte slice.
type Cursor struct {
	data []byte
	pos  int
	log  interfaces.Logger
}

// NewCursor returns a cursor at the start of data. A nil logger discards diagnostics.
func NewCursor(data []byte, log interfaces.Logger) *Cursor {
	return &Cursor{
		data: data,
		log:  interfaces.OrNop(log),
	}
}

// Offset returns the current position.
func (c *Cursor) Offset() int {
	return c.pos
}

// Remaining returns the number of unconsumed bytes.
func (c *Cursor) Remaining() int {
	return len(c.data) - c.pos
}

// PeekSymbol skips whitespace and returns the next byte without consuming it.
func (c *Cursor) PeekSymbol() byte {
	for ; c.pos < len(c.data); c.pos++ {
		if !isSpace(c.data[c.pos]) {
			return c.data[c.pos]
		}
	}
	return EOF
}

// NextSymbol consumes and returns the symbol PeekSymbol would return.
func (c *Cursor) NextSymbol() byte {
	sym := c.PeekSymbol()
	if c.pos < len(c.data) {
		c.pos++
	}
	return sym
}

// ExpectSymbol consumes the next symbol and fails unless it is want.
func (c *Cursor) ExpectSymbol(want byte) error {
	at := c.pos
	if got := c.NextSymbol(); got != want {
		c.log.Logf("unexpected symbol %q near offset %d, want %q", got, at, want)
		return fmt.Errorf("%w: expected %q near offset %d, got %q", types.ErrMalformed, want, at, got)
	}
	return nil
}

// SkipString consumes a quoted string. A backslash consumes the following symbol unconditionally.
func (c *Cursor) SkipString() error {
	_, err := c.scanString()
	return err
}

// ReadLabel consumes a quoted string and returns the raw bytes between the quotes.
// Escapes are skipped over, not decoded.
func (c *Cursor) ReadLabel() (string, error) {
	return c.scanString()
}

func (c *Cursor) scanString() (string, error) {
	if err := c.ExpectSymbol('"'); err != nil {
		return "", err
	}

	start := c.pos
	for sym := c.NextSymbol(); sym != EOF; sym = c.NextSymbol() {
		switch sym {
		case '\\':
			c.NextSymbol()
		case '"':
			return string(c.data[start : c.pos-1]), nil
		}
	}

	return "", fmt.Errorf("%w: unterminated string starting at offset %d", types.ErrMalformed, start-1)
}

// SkipObject consumes a balanced {...}, skipping every member value.
func (c *Cursor) SkipObject() error {
	if err := c.ExpectSymbol('{'); err != nil {
		return err
	}

	if c.PeekSymbol() == '}' {
		c.NextSymbol()
		return nil
	}

	for {
		if err := c.SkipString(); err != nil {
			return err
		}
		if err := c.ExpectSymbol(':'); err != nil {
			return err
		}
		if err := c.SkipToken(); err != nil {
			return err
		}

		if c.PeekSymbol() == '}' {
			c.NextSymbol()
			return nil
		}
		if err := c.ExpectSymbol(','); err != nil {
			return err
		}
	}
}

// SkipArray consumes a balanced [...], skipping every element.
func (c *Cursor) SkipArray() error {
	if err := c.ExpectSymbol('['); err != nil {
		return err
	}

	if c.PeekSymbol() == ']' {
		c.NextSymbol()
		return nil
	}

	for {
		if err := c.SkipToken(); err != nil {
			return err
		}

		if c.PeekSymbol() == ']' {
			c.NextSymbol()
			return nil
		}
		if err := c.ExpectSymbol(','); err != nil {
			return err
		}
	}
}

// SkipLiteral consumes a run of alphanumerics, '.', '-' and '+'. This covers numbers,
// true, false and null. A literal must be followed by some other byte; one that runs
// to the end of the data cannot be part of a complete document.
func (c *Cursor) SkipLiteral() error {
	for ; c.pos < len(c.data); c.pos++ {
		if !isLiteral(c.data[c.pos]) {
			return nil
		}
	}
	return fmt.Errorf("%w: literal runs to end of data", types.ErrMalformed)
}

// SkipToken consumes one value of any kind.
func (c *Cursor) SkipToken() error {
	switch c.PeekSymbol() {
	case '"':
		c.log.Logf("skipping string at offset %d", c.pos)
		return c.SkipString()
	case '{':
		c.log.Logf("skipping object at offset %d", c.pos)
		return c.SkipObject()
	case '[':
		c.log.Logf("skipping array at offset %d", c.pos)
		return c.SkipArray()
	default:
		c.log.Logf("skipping literal at offset %d", c.pos)
		return c.SkipLiteral()
	}
}

// isSpace matches ASCII whitespace, vertical tab and form feed included.
func isSpace(b byte) bool {
	switch b {
	case ' ', '\t', '\n', '\v', '\f', '\r':
		return true
	}
	return false
}

func isLiteral(b byte) bool {
	switch {
	case b >= 'a' && b <= 'z', b >= 'A' && b <= 'Z', b >= '0' && b <= '9':
		return true
	case b == '.', b == '-', b == '+':
		return true
	}
	return false
}
