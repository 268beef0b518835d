package parser

import (
	"fmt"
	"strings"

	"github.com/glossa-dev/glossa"
	"github.com/glossa-dev/glossa/lr"
)

// NodeKind distinguishes the kinds of parse tree nodes.
type NodeKind int8

// The three kinds of parse tree nodes.
const (
	Empty NodeKind = iota // derived from an epsilon rule
	Leaf                  // a shifted terminal
	Inner                 // a reduced rule
)

// Node is a parse tree node. Leaf nodes carry the token a terminal was
// scanned from; inner and empty nodes carry the serial number of the
// rule they were reduced with. Trees are immutable once the parse
// returned them.
type Node struct {
	Kind       NodeKind
	Sym        *lr.Symbol   // terminal for leaves, rule LHS otherwise
	RuleSerial int          // serial of the reduced rule, -1 for leaves
	Token      glossa.Token // token for leaves, nil otherwise
	Children   []*Node      // children of inner nodes, in input order
	span       glossa.Span
}

func leaf(sym *lr.Symbol, token glossa.Token) *Node {
	return &Node{
		Kind:       Leaf,
		Sym:        sym,
		RuleSerial: -1,
		Token:      token,
		span:       token.Span(),
	}
}

func inner(rule *lr.Rule, children []*Node, span glossa.Span) *Node {
	return &Node{
		Kind:       Inner,
		Sym:        rule.LHS,
		RuleSerial: rule.Serial,
		Children:   children,
		span:       span,
	}
}

func empty(rule *lr.Rule, span glossa.Span) *Node {
	return &Node{
		Kind:       Empty,
		Sym:        rule.LHS,
		RuleSerial: rule.Serial,
		span:       span,
	}
}

// Span returns the input span this node covers. Empty nodes cover a
// zero-length span at the position of their derivation.
func (n *Node) Span() glossa.Span {
	return n.span
}

// IsLeaf is true for terminal nodes.
func (n *Node) IsLeaf() bool {
	return n.Kind == Leaf
}

func (n *Node) String() string {
	switch n.Kind {
	case Leaf:
		return fmt.Sprintf("(%s %q)", n.Sym.Name, n.Token.Lexeme())
	case Empty:
		return fmt.Sprintf("(%s ε)", n.Sym.Name)
	}
	return fmt.Sprintf("(%s |%d|)", n.Sym.Name, len(n.Children))
}

// Sexpr returns a bracketed single-line representation of the sub-tree
// rooted at this node, handy for tests and debugging.
func (n *Node) Sexpr() string {
	var b strings.Builder
	n.sexpr(&b)
	return b.String()
}

func (n *Node) sexpr(b *strings.Builder) {
	switch n.Kind {
	case Leaf:
		fmt.Fprintf(b, "%q", n.Token.Lexeme())
	case Empty:
		fmt.Fprintf(b, "(%s)", n.Sym.Name)
	default:
		fmt.Fprintf(b, "(%s", n.Sym.Name)
		for _, ch := range n.Children {
			b.WriteString(" ")
			ch.sexpr(b)
		}
		b.WriteString(")")
	}
}

// --- Tree walker -------------------------------------------------------------

// Listener is a type for walking a parse tree bottom-up.
type Listener interface {
	Reduce(sym *lr.Symbol, rule int, rhs []interface{}, span glossa.Span, level int) interface{}
	Terminal(token glossa.Token, level int) interface{}
}

// Walk walks the sub-tree rooted at a node bottom-up, applying listener
// methods for every node: Terminal for leaves, Reduce for inner and
// empty nodes, with the values its children produced. Walk returns the
// value produced for the root node.
func (n *Node) Walk(listener Listener) interface{} {
	return n.walk(listener, 0)
}

func (n *Node) walk(listener Listener, level int) interface{} {
	if n.Kind == Leaf {
		return listener.Terminal(n.Token, level)
	}
	values := make([]interface{}, len(n.Children))
	for i, ch := range n.Children {
		values[i] = ch.walk(listener, level+1)
	}
	return listener.Reduce(n.Sym, n.RuleSerial, values, n.span, level)
}
