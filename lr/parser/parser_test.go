package parser

import (
	"strconv"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/glossa-dev/glossa"
	"github.com/glossa-dev/glossa/lr"
	"github.com/glossa-dev/glossa/lr/scanner"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

const tokNum = 5
const tokID = 10

// E → E + T | T,  T → T * F | F,  F → ( E ) | num
func exprGrammar(t *testing.T) (*lr.Grammar, []scanner.Rule) {
	b := lr.NewGrammarBuilder("Expr")
	b.LHS("E").N("E").T("+", '+').N("T").End()
	b.LHS("E").N("T").End()
	b.LHS("T").N("T").T("*", '*').N("F").End()
	b.LHS("T").N("F").End()
	b.LHS("F").T("(", '(').N("E").T(")", ')').End()
	b.LHS("F").T("num", tokNum).End()
	g, err := b.Grammar()
	if err != nil {
		t.Fatal(err)
	}
	rules := []scanner.Rule{
		{Terminal: "num", Pattern: `[0-9]+`},
		{Terminal: "+", Literal: "+"},
		{Terminal: "*", Literal: "*"},
		{Terminal: "(", Literal: "("},
		{Terminal: ")", Literal: ")"},
		{Skip: true, Pattern: "( |\t)+"},
	}
	return g, rules
}

// Var → Sign id,  Sign → + | - | ε
func signVarGrammar(t *testing.T) (*lr.Grammar, []scanner.Rule) {
	b := lr.NewGrammarBuilder("Signed Variables")
	b.LHS("Var").N("Sign").T("id", tokID).End()
	b.LHS("Sign").T("+", '+').End()
	b.LHS("Sign").T("-", '-').End()
	b.LHS("Sign").Epsilon()
	g, err := b.Grammar()
	if err != nil {
		t.Fatal(err)
	}
	rules := []scanner.Rule{
		{Terminal: "id", Pattern: `[a-z]+`},
		{Terminal: "+", Literal: "+"},
		{Terminal: "-", Literal: "-"},
		{Skip: true, Pattern: "( |\t)+"},
	}
	return g, rules
}

func parse(t *testing.T, g *lr.Grammar, rules []scanner.Rule, input string, opts ...Option) (*Node, error) {
	tables, err := lr.BuildTables(g)
	if err != nil {
		t.Fatal(err)
	}
	if tables.HasConflicts() {
		t.Fatalf("grammar %q is not LR(1): %v", g.Name, tables.Conflicts)
	}
	gs, err := scanner.NewGrammarScanner(g, rules)
	if err != nil {
		t.Fatal(err)
	}
	s, err := gs.Scanner(input)
	if err != nil {
		t.Fatal(err)
	}
	return NewParser(tables, opts...).Parse(s)
}

func TestParseSimple(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "glossa.parser")
	defer teardown()
	g, rules := signVarGrammar(t)
	tree, err := parse(t, g, rules, "-x")
	if err != nil {
		t.Fatal(err)
	}
	want := `(Var (Sign "-") "x")`
	if diff := cmp.Diff(want, tree.Sexpr()); diff != "" {
		t.Errorf("parse tree mismatch (-want +got):\n%s", diff)
	}
}

func TestParseEpsilon(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "glossa.parser")
	defer teardown()
	g, rules := signVarGrammar(t)
	tree, err := parse(t, g, rules, "x")
	if err != nil {
		t.Fatal(err)
	}
	want := `(Var (Sign) "x")`
	if diff := cmp.Diff(want, tree.Sexpr()); diff != "" {
		t.Errorf("parse tree mismatch (-want +got):\n%s", diff)
	}
}

func TestParseSkipEpsilon(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "glossa.parser")
	defer teardown()
	g, rules := signVarGrammar(t)
	tree, err := parse(t, g, rules, "x", SkipEpsilon(true))
	if err != nil {
		t.Fatal(err)
	}
	want := `(Var "x")`
	if diff := cmp.Diff(want, tree.Sexpr()); diff != "" {
		t.Errorf("parse tree mismatch (-want +got):\n%s", diff)
	}
}

func TestParseCollapseSingle(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "glossa.parser")
	defer teardown()
	g, rules := exprGrammar(t)
	tree, err := parse(t, g, rules, "1+2*3", CollapseSingle(true))
	if err != nil {
		t.Fatal(err)
	}
	want := `(E "1" "+" (T "2" "*" "3"))`
	if diff := cmp.Diff(want, tree.Sexpr()); diff != "" {
		t.Errorf("parse tree mismatch (-want +got):\n%s", diff)
	}
}

func TestParseSpans(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "glossa.parser")
	defer teardown()
	g, rules := exprGrammar(t)
	tree, err := parse(t, g, rules, "(1+2)*3")
	if err != nil {
		t.Fatal(err)
	}
	if tree.Span() != (glossa.Span{0, 7}) {
		t.Errorf("expected root span 0…7, got %v", tree.Span())
	}
}

func TestParseSyntaxError(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "glossa.parser")
	defer teardown()
	g, rules := exprGrammar(t)
	_, err := parse(t, g, rules, "2 + * 3")
	if err == nil {
		t.Fatal("expected a syntax error, got none")
	}
	perr, ok := err.(*ParseError)
	if !ok {
		t.Fatalf("expected a ParseError, got %T", err)
	}
	if perr.Token.Lexeme() != "*" {
		t.Errorf("expected the error to point at \"*\", got %q", perr.Token.Lexeme())
	}
	if len(perr.Acceptable) == 0 {
		t.Error("expected a non-empty set of acceptable terminals")
	}
}

func TestParseUnexpectedEOF(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "glossa.parser")
	defer teardown()
	g, rules := exprGrammar(t)
	_, err := parse(t, g, rules, "1+")
	if err == nil {
		t.Fatal("expected a syntax error, got none")
	}
	perr, ok := err.(*ParseError)
	if !ok {
		t.Fatalf("expected a ParseError, got %T", err)
	}
	if perr.Token.TokType() != glossa.EOF {
		t.Errorf("expected the error to point at end of input, got %q", perr.Token.Lexeme())
	}
}

func TestParseTokens(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "glossa.parser")
	defer teardown()
	g, rules := signVarGrammar(t)
	tables, err := lr.BuildTables(g)
	if err != nil {
		t.Fatal(err)
	}
	gs, err := scanner.NewGrammarScanner(g, rules)
	if err != nil {
		t.Fatal(err)
	}
	tokens, err := gs.ScanAll("+abc")
	if err != nil {
		t.Fatal(err)
	}
	tree, err := NewParser(tables).ParseTokens(tokens[:len(tokens)-1]) // without EOF
	if err != nil {
		t.Fatal(err)
	}
	want := `(Var (Sign "+") "abc")`
	if diff := cmp.Diff(want, tree.Sexpr()); diff != "" {
		t.Errorf("parse tree mismatch (-want +got):\n%s", diff)
	}
}

func TestParseText(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "glossa.parser")
	defer teardown()
	g, rules := exprGrammar(t)
	tree, err := ParseText(g, rules, "7", CollapseSingle(true))
	if err != nil {
		t.Fatal(err)
	}
	if tree.Kind != Leaf || tree.Token.Lexeme() != "7" {
		t.Errorf("expected the tree to collapse to a leaf, got %v", tree)
	}
}

func TestParseIdempotent(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "glossa.parser")
	defer teardown()
	g, rules := exprGrammar(t)
	first, err := parse(t, g, rules, "2+3*(4+1)")
	if err != nil {
		t.Fatal(err)
	}
	second, err := parse(t, g, rules, "2+3*(4+1)")
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(first.Sexpr(), second.Sexpr()); diff != "" {
		t.Errorf("repeated parses disagree (-first +second):\n%s", diff)
	}
	if first.Span() != second.Span() {
		t.Errorf("repeated parses disagree on spans: %v vs %v", first.Span(), second.Span())
	}
}

// --- Expression listener for testing ----------------------------------------

type ExprListener struct {
	t *testing.T
}

func (el *ExprListener) Terminal(token glossa.Token, level int) interface{} {
	if token.TokType() == tokNum {
		n, err := strconv.Atoi(token.Lexeme())
		if err != nil {
			el.t.Fatal(err)
		}
		return n
	}
	return token.Lexeme()
}

func (el *ExprListener) Reduce(sym *lr.Symbol, rule int, rhs []interface{}, span glossa.Span, level int) interface{} {
	el.t.Logf("reduce rule %d for %s", rule, sym.Name)
	switch rule {
	case 1: // E → E + T
		return rhs[0].(int) + rhs[2].(int)
	case 3: // T → T * F
		return rhs[0].(int) * rhs[2].(int)
	case 5: // F → ( E )
		return rhs[1]
	}
	return rhs[0]
}

func TestWalkExpression(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "glossa.parser")
	defer teardown()
	g, rules := exprGrammar(t)
	tree, err := parse(t, g, rules, "2+3*(4+1)")
	if err != nil {
		t.Fatal(err)
	}
	v := tree.Walk(&ExprListener{t: t})
	if v != 17 {
		t.Errorf("expected expression to evaluate to 17, got %v", v)
	}
}
