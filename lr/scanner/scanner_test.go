package scanner

import (
	"testing"

	"github.com/glossa-dev/glossa"
	"github.com/glossa-dev/glossa/lr"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

const (
	tokIdent = 10
	tokEq    = 11
	tokEqEq  = 12
	tokIf    = 13
)

func testGrammar(t *testing.T) *lr.Grammar {
	b := lr.NewGrammarBuilder("T")
	b.LHS("S").T("ident", tokIdent).T("=", tokEq).T("==", tokEqEq).T("if", tokIf).End()
	g, err := b.Grammar()
	if err != nil {
		t.Fatal(err)
	}
	return g
}

func testRules() []Rule {
	return []Rule{
		{Terminal: "ident", Pattern: `[a-zA-Z_][a-zA-Z0-9_]*`},
		{Terminal: "=", Literal: "="},
		{Terminal: "==", Literal: "=="},
		{Terminal: "if", Literal: "if", Priority: 1},
		{Skip: true, Pattern: "( |\t|\n)+"},
	}
}

func TestScanSimple(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "glossa.scanner")
	defer teardown()
	gs, err := NewGrammarScanner(testGrammar(t), testRules())
	if err != nil {
		t.Fatal(err)
	}
	tokens, err := gs.ScanAll("alpha = beta")
	if err != nil {
		t.Fatal(err)
	}
	want := []glossa.TokType{tokIdent, tokEq, tokIdent, glossa.EOF}
	if len(tokens) != len(want) {
		t.Fatalf("expected %d tokens, got %d", len(want), len(tokens))
	}
	for i, tok := range tokens {
		if tok.TokType() != want[i] {
			t.Errorf("token #%d: expected type %d, got %d", i, want[i], tok.TokType())
		}
	}
	if tokens[0].Lexeme() != "alpha" {
		t.Errorf("expected lexeme \"alpha\", got %q", tokens[0].Lexeme())
	}
	if tokens[2].Span() != (glossa.Span{8, 12}) {
		t.Errorf("expected span 8…12 for \"beta\", got %v", tokens[2].Span())
	}
}

func TestScanLongestMatch(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "glossa.scanner")
	defer teardown()
	gs, err := NewGrammarScanner(testGrammar(t), testRules())
	if err != nil {
		t.Fatal(err)
	}
	tokens, err := gs.ScanAll("a == b")
	if err != nil {
		t.Fatal(err)
	}
	if len(tokens) != 4 {
		t.Fatalf("expected 4 tokens, got %d", len(tokens))
	}
	if tokens[1].TokType() != tokEqEq {
		t.Errorf("expected \"==\" to scan as a single token, got type %d", tokens[1].TokType())
	}
}

func TestScanKeywordPriority(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "glossa.scanner")
	defer teardown()
	gs, err := NewGrammarScanner(testGrammar(t), testRules())
	if err != nil {
		t.Fatal(err)
	}
	tokens, err := gs.ScanAll("if iffy")
	if err != nil {
		t.Fatal(err)
	}
	if tokens[0].TokType() != tokIf {
		t.Errorf("expected keyword token for \"if\", got type %d", tokens[0].TokType())
	}
	if tokens[1].TokType() != tokIdent || tokens[1].Lexeme() != "iffy" {
		t.Errorf("expected identifier \"iffy\", got %v", tokens[1])
	}
}

func TestScanEOF(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "glossa.scanner")
	defer teardown()
	gs, err := NewGrammarScanner(testGrammar(t), testRules())
	if err != nil {
		t.Fatal(err)
	}
	s, err := gs.Scanner("x")
	if err != nil {
		t.Fatal(err)
	}
	if tok := s.NextToken(); tok.TokType() != tokIdent {
		t.Fatalf("expected identifier, got type %d", tok.TokType())
	}
	eof := s.NextToken()
	if eof.TokType() != glossa.EOF {
		t.Fatalf("expected EOF token, got type %d", eof.TokType())
	}
	if eof.Span() != (glossa.Span{1, 1}) {
		t.Errorf("expected EOF span at end of input, got %v", eof.Span())
	}
	if tok := s.NextToken(); tok.TokType() != glossa.EOF {
		t.Errorf("expected EOF to repeat, got type %d", tok.TokType())
	}
}

func TestScanAlphabeticLiteral(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "glossa.scanner")
	defer teardown()
	b := lr.NewGrammarBuilder("K")
	b.LHS("S").T("true", 20).T("WHERE", 21).T("(", 22).T("ident", tokIdent).End()
	g, err := b.Grammar()
	if err != nil {
		t.Fatal(err)
	}
	rules := []Rule{
		{Terminal: "ident", Pattern: `[a-zA-Z_][a-zA-Z0-9_]*`},
		{Terminal: "true", Literal: "true", Priority: 1},
		{Terminal: "WHERE", Literal: "WHERE", Priority: 1},
		{Terminal: "(", Literal: "("},
		{Skip: true, Pattern: "( |\t|\n)+"},
	}
	gs, err := NewGrammarScanner(g, rules)
	if err != nil {
		t.Fatal(err)
	}
	// keywords must survive escaping verbatim: \t\r\u\e or \W\H\E\R\E
	// would match tabs resp. non-word characters instead
	tokens, err := gs.ScanAll("true WHERE ( trueish")
	if err != nil {
		t.Fatal(err)
	}
	want := []glossa.TokType{20, 21, 22, tokIdent, glossa.EOF}
	if len(tokens) != len(want) {
		t.Fatalf("expected %d tokens, got %d", len(want), len(tokens))
	}
	for i, tok := range tokens {
		if tok.TokType() != want[i] {
			t.Errorf("token #%d (%q): expected type %d, got %d", i, tok.Lexeme(), want[i], tok.TokType())
		}
	}
}

func TestScanError(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "glossa.scanner")
	defer teardown()
	gs, err := NewGrammarScanner(testGrammar(t), testRules())
	if err != nil {
		t.Fatal(err)
	}
	_, err = gs.ScanAll("a ? b")
	if err == nil {
		t.Fatal("expected a lexing error, got none")
	}
	lexerr, ok := err.(LexError)
	if !ok {
		t.Fatalf("expected a LexError, got %T", err)
	}
	if lexerr.Offset != 2 {
		t.Errorf("expected error at position 2, got %d", lexerr.Offset)
	}
}

func TestScannerRuleValidation(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "glossa.scanner")
	defer teardown()
	g := testGrammar(t)
	if _, err := NewGrammarScanner(g, testRules()[:3]); err == nil {
		t.Error("expected an error for uncovered terminals, got none")
	}
	bad := append(testRules(), Rule{Terminal: "nosuch", Literal: "!"})
	if _, err := NewGrammarScanner(g, bad); err == nil {
		t.Error("expected an error for an unknown terminal, got none")
	}
}
