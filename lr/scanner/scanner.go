/*
Package scanner provides grammar-driven lexing for parsers of package lr.

A GrammarScanner is built from a grammar together with a set of lexical
rules, one per terminal plus optional skip rules for whitespace and
comments. It compiles the rules into a DFA (using lexmachine) and hands
out Scanner instances for concrete inputs. Scanners implement the
Tokenizer interface, which is what the parser consumes.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.
*/
package scanner

import (
	"fmt"

	"github.com/glossa-dev/glossa"
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'glossa.scanner'.
func tracer() tracing.Trace {
	return tracing.Select("glossa.scanner")
}

// Tokenizer is a scanner interface. NextToken returns the tokens of an
// input text one by one, terminated by a single token of type glossa.EOF.
type Tokenizer interface {
	NextToken() glossa.Token
	SetErrorHandler(func(error))
}

// Default error reporting function for scanners
func logError(e error) {
	tracer().Errorf("scanner error: " + e.Error())
}

// A Rule describes the lexical form of a terminal. Exactly one of Literal
// and Pattern must be set: Literal matches a verbatim string, Pattern is a
// regular expression. Rules with Skip set match and discard input
// (whitespace, comments); they carry no terminal name.
//
// When more than one rule matches at some input position, the longest
// match wins; among matches of equal length, the rule with the highest
// Priority wins, and declaration order breaks remaining ties.
type Rule struct {
	Terminal string // name of a grammar terminal; empty for skip rules
	Literal  string // verbatim lexeme to match
	Pattern  string // regular expression to match
	Priority int
	Skip     bool
}

// LexError is returned when no rule matches the input at some position.
type LexError struct {
	Offset    uint64 // byte position of the failed match
	Remainder string // input text from the failed position on
}

func (e LexError) Error() string {
	r := e.Remainder
	if len(r) > 20 {
		r = r[:20] + "…"
	}
	return fmt.Sprintf("no token matches input at position %d: %q", e.Offset, r)
}

// --- Tokens -----------------------------------------------------------------

// Token is an unsophisticated token type, produced by grammar scanners.
type Token struct {
	kind   glossa.TokType
	lexeme string
	Val    interface{}
	span   glossa.Span
}

// MakeToken wraps a token type, a lexeme and a span into a Token.
func MakeToken(typ glossa.TokType, lexeme string, span glossa.Span) Token {
	return Token{
		kind:   typ,
		lexeme: lexeme,
		span:   span,
	}
}

func (t Token) TokType() glossa.TokType {
	return t.kind
}

func (t Token) Value() interface{} {
	return t.Val
}

func (t Token) Lexeme() string {
	return t.lexeme
}

func (t Token) Span() glossa.Span {
	return t.span
}

func (t Token) String() string {
	return fmt.Sprintf("(%q:%d)", t.lexeme, t.kind)
}
