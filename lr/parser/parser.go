/*
Package parser provides a table-driven LR(1) shift-reduce parser.
Clients have to use the tools of package lr to prepare the necessary
parse tables. The parser utilizes these tables to create a rightmost
derivation for a given input, provided through a scanner interface, and
builds a parse tree for accepted input.

This parser is intended for small to moderate grammars, e.g. for
configuration input or small domain-specific languages. The main focus
is adaptability and on-the-fly usage: clients construct the parse tables
from a grammar and use the parser directly, without a code-generation or
compile step.

Usage

Clients construct a grammar, usually by using a grammar builder:

	b := lr.NewGrammarBuilder("Signed Variables Grammar")
	b.LHS("Var").N("Sign").T("id", 10).End()   // Var  --> Sign id
	b.LHS("Sign").T("+", '+').End()            // Sign --> +
	b.LHS("Sign").T("-", '-').End()            // Sign --> -
	b.LHS("Sign").Epsilon()                    // Sign -->
	g, err := b.Grammar()

This grammar is subjected to grammar analysis and table generation.
Finally parse some input:

	tables, err := lr.BuildTables(g)
	p := parser.NewParser(tables)
	tree, err := p.Parse(tokens)

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.
*/
package parser

import (
	"fmt"
	"strings"

	"github.com/glossa-dev/glossa"
	"github.com/glossa-dev/glossa/lr"
	"github.com/glossa-dev/glossa/lr/scanner"
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'glossa.parser'.
func tracer() tracing.Trace {
	return tracing.Select("glossa.parser")
}

// Parser is an LR(1) parser type. Create and initialize one with
// parser.NewParser(…). A parser may be re-used for any number of inputs,
// but is not safe for concurrent use; the tables it runs on are.
type Parser struct {
	tables         *lr.ParserTables
	stack          []stackitem // parser stack
	skipEpsilon    bool
	collapseSingle bool
}

// We store triples of state-IDs, symbol-IDs and tree nodes on the parse
// stack.
type stackitem struct {
	stateID uint  // ID of a CFSM state
	symID   int   // ID of a grammar symbol (terminal or non-terminal)
	node    *Node // parse tree built for this symbol
	span    glossa.Span
}

// Option configures a parser.
type Option func(p *Parser)

// SkipEpsilon sets or clears option SkipEpsilon: drop sub-trees derived
// from epsilon rules instead of keeping them as empty nodes.
func SkipEpsilon(b bool) Option {
	return func(p *Parser) {
		p.skipEpsilon = b
	}
}

// CollapseSingle sets or clears option CollapseSingle: replace inner
// nodes having exactly one child by that child, flattening derivation
// chains like Expr → Term → Factor → id.
func CollapseSingle(b bool) Option {
	return func(p *Parser) {
		p.collapseSingle = b
	}
}

// NewParser creates an LR(1) parser from previously built parser tables.
func NewParser(tables *lr.ParserTables, opts ...Option) *Parser {
	p := &Parser{
		tables: tables,
		stack:  make([]stackitem, 0, 512),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// ParseError is returned when the input is not a sentence of the
// grammar: the parser hit a token for which the current state has no
// action. Acceptable lists the terminals the parser would have accepted
// instead.
type ParseError struct {
	Token      glossa.Token
	State      uint
	Acceptable []glossa.TokType
}

func (e *ParseError) Error() string {
	if e.Token.TokType() == glossa.EOF {
		return fmt.Sprintf("syntax error: unexpected end of input (state %d)", e.State)
	}
	return fmt.Sprintf("syntax error at position %d: unexpected token %q (state %d)",
		e.Token.Span().From(), e.Token.Lexeme(), e.State)
}

// Parse starts a new parse, reading tokens from a scanner. It returns
// the root node of the parse tree for accepted input, and a ParseError
// otherwise.
func (p *Parser) Parse(scan scanner.Tokenizer) (*Node, error) {
	tracer().Debugf("~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~")
	G := p.tables.Grammar()
	p.stack = p.stack[:0]
	p.stack = append(p.stack, stackitem{p.tables.StartState, 0, nil, glossa.Span{0, 0}})
	token := scan.NextToken()
	tokval := token.TokType()
	for {
		tracer().Debugf("got token %q/%d from scanner", token.Lexeme(), tokval)
		state := p.stack[len(p.stack)-1] // TOS
		if tokval != glossa.EOF && G.Terminal(tokval) == nil {
			return nil, p.syntaxError(token, state.stateID)
		}
		action := p.tables.Action.Value(state.stateID, tokval)
		tracer().Debugf("action(%d,%d)=%s", state.stateID, tokval, valstring(action, p.tables.Action))
		switch {
		case action == p.tables.Action.NullValue():
			return nil, p.syntaxError(token, state.stateID)
		case action == lr.AcceptAction:
			root := p.stack[len(p.stack)-1].node
			tracer().Infof("accepted input, span %v", root.Span())
			return root, nil
		case action == lr.ShiftAction:
			nextstate := uint(p.tables.Goto.Value(state.stateID, tokval))
			tracer().Debugf("shifting, next state = %d", nextstate)
			p.stack = append(p.stack, // push a terminal state onto stack
				stackitem{nextstate, int(tokval), leaf(G.Terminal(tokval), token), token.Span()})
			token = scan.NextToken()
			tokval = token.TokType()
		default: // reduce action
			rule := G.Rule(int(action))
			nextstate, node := p.reduce(rule, token)
			tracer().Debugf("reduced with rule %d to next state = %d", rule.Serial, nextstate)
			p.stack = append(p.stack, // push a non-terminal state onto stack
				stackitem{nextstate, rule.LHS.Value, node, node.Span()})
		}
	}
}

// ParseTokens parses a pre-scanned token sequence, e.g. the output of
// GrammarScanner.ScanAll. A trailing EOF token is optional.
func (p *Parser) ParseTokens(tokens []glossa.Token) (*Node, error) {
	return p.Parse(&sliceTokenizer{tokens: tokens})
}

// reduce performs a reduce action for a rule
//
//	LHS --> X1 ... Xn   (with X being terminals or non-terminals)
//
// Symbols X1 to Xn are represented on the stack as the topmost n states.
// They are popped, their tree nodes become the children of a new node
// for LHS, and the GOTO table determines the successor state.
//
// The lookahead token is needed to give nodes of epsilon rules a
// position: a zero-length span just before the lookahead.
func (p *Parser) reduce(rule *lr.Rule, lookahead glossa.Token) (uint, *Node) {
	tracer().Infof("reduce %v", rule)
	n := len(rule.RHS())
	handle := p.stack[len(p.stack)-n:]
	var node *Node
	if rule.IsEpsilon() {
		pos := lookahead.Span().From()
		node = empty(rule, glossa.Span{pos, pos})
	} else {
		children := make([]*Node, 0, n)
		span := handle[0].span
		for _, item := range handle {
			span = span.Extend(item.span)
			if p.skipEpsilon && item.node.Kind == Empty {
				continue
			}
			children = append(children, item.node)
		}
		node = inner(rule, children, span)
		if p.collapseSingle && len(children) == 1 {
			node = children[0]
		}
	}
	p.stack = p.stack[:len(p.stack)-n] // pop the handle
	tos := p.stack[len(p.stack)-1]
	nextstate := p.tables.Goto.Value(tos.stateID, rule.LHS.TokenType())
	return uint(nextstate), node
}

func (p *Parser) syntaxError(token glossa.Token, stateID uint) *ParseError {
	acceptable := p.tables.Action.TokensInRow(stateID)
	tracer().Infof("syntax error in state %d, acceptable terminals: %s",
		stateID, acceptableNames(p.tables.Grammar(), acceptable))
	return &ParseError{
		Token:      token,
		State:      stateID,
		Acceptable: acceptable,
	}
}

// --- Convenience -------------------------------------------------------------

// ParseText is a one-stop convenience: it builds parser tables and a
// scanner for a grammar, tokenizes an input text and parses it. For
// repeated parses clients should build tables and scanner once and keep
// a Parser around instead.
func ParseText(g *lr.Grammar, rules []scanner.Rule, text string, opts ...Option) (*Node, error) {
	tables, err := lr.BuildTables(g)
	if err != nil {
		return nil, err
	}
	gs, err := scanner.NewGrammarScanner(g, rules)
	if err != nil {
		return nil, err
	}
	tokens, err := gs.ScanAll(text)
	if err != nil {
		return nil, err
	}
	return NewParser(tables, opts...).ParseTokens(tokens)
}

// --- Helpers -----------------------------------------------------------------

// sliceTokenizer adapts a token slice to the Tokenizer interface.
type sliceTokenizer struct {
	tokens []glossa.Token
	pos    int
}

func (s *sliceTokenizer) NextToken() glossa.Token {
	if s.pos >= len(s.tokens) {
		var end uint64
		if len(s.tokens) > 0 {
			end = s.tokens[len(s.tokens)-1].Span().To()
		}
		return scanner.MakeToken(glossa.EOF, "", glossa.Span{end, end})
	}
	tok := s.tokens[s.pos]
	s.pos++
	return tok
}

func (s *sliceTokenizer) SetErrorHandler(func(error)) {}

// valstring is a short helper to stringify an action table entry.
func valstring(v int32, m *lr.Table) string {
	if v == m.NullValue() {
		return "<none>"
	} else if v == lr.AcceptAction {
		return "<accept>"
	} else if v == lr.ShiftAction {
		return "<shift>"
	}
	return fmt.Sprintf("<reduce %d>", v)
}

func acceptableNames(g *lr.Grammar, tts []glossa.TokType) string {
	names := make([]string, 0, len(tts))
	for _, tt := range tts {
		if sym := g.Terminal(tt); sym != nil {
			names = append(names, sym.Name)
		}
	}
	return strings.Join(names, ", ")
}
