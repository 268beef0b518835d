package glossa

import "fmt"

// --- Tokens -----------------------------------------------------------------

// TokType is a category type for a Token. Terminals of a grammar carry a
// TokType as their identity towards the scanner. Applications are free to
// choose their own values, except for EOF, which is reserved.
type TokType int

// EOF is the token type of the end-of-input pseudo terminal. Every scanner
// produces exactly one EOF token after the input is exhausted, and every
// grammar implicitly knows about it.
const EOF TokType = -1

// TokTypeStringer is provided by a scanner/parser combination to print out
// token categories in a human readable way.
type TokTypeStringer func(TokType) string

// Token is a terminal-tagged lexeme, together with the span of input it was
// matched from. Tokens are produced by a scanner and consumed by a parser.
//
// An example would be a token for a string literal in a JSON-like language:
//
//	TokType = STRING     // terminal identity (application specific)
//	Lexeme  = `"hello"`  // lexeme as it appeared in the input
//	Span    = 4…11       // byte positions in the input text
type Token interface {
	TokType() TokType
	Lexeme() string
	Value() interface{}
	Span() Span
}

// --- Spans ------------------------------------------------------------------

// Span is a byte range of input text, denoting a start position and the
// position just behind the end. Every token and every parse tree node covers
// a span of input.
type Span [2]uint64 // (x…y)

// From returns the start position of a span.
func (s Span) From() uint64 {
	return s[0]
}

// To returns the position just behind the end of a span.
func (s Span) To() uint64 {
	return s[1]
}

// Len returns the length of (x…y).
func (s Span) Len() uint64 {
	return s[1] - s[0]
}

// IsNull is true for the zero span.
func (s Span) IsNull() bool {
	return s == Span{}
}

// Extend returns the smallest span covering both s and other.
func (s Span) Extend(other Span) Span {
	if other[0] < s[0] {
		s[0] = other[0]
	}
	if other[1] > s[1] {
		s[1] = other[1]
	}
	return s
}

func (s Span) String() string {
	return fmt.Sprintf("(%d…%d)", s[0], s[1])
}
