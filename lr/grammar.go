package lr

import (
	"fmt"
	"strings"

	"github.com/glossa-dev/glossa"
)

// --- Symbols ----------------------------------------------------------------

// NonTermBase is the lowest symbol value assigned to non-terminals.
// Terminal token values must be lower than NonTermBase.
const NonTermBase = 1000

// EpsilonType is a reserved token value, used in FIRST sets to signal that a
// non-terminal derives the empty string.
const EpsilonType glossa.TokType = 0

// Symbol is a grammar symbol: either a terminal, carrying a token value the
// scanner will report for it, or a non-terminal, expanded via rules.
// Symbol identity within a grammar is its name; symbols are interned by the
// grammar builder and shared by reference, so cyclic rule structures need no
// special-casing. Symbols are immutable once the grammar is built.
type Symbol struct {
	Name  string
	Value int // token value for terminals, generated ID >= NonTermBase otherwise
}

// IsTerminal is true for terminal symbols.
func (A *Symbol) IsTerminal() bool {
	return A.Value < NonTermBase
}

// TokenType returns the token value of a symbol. For non-terminals this is
// the generated symbol ID, usable as a column index into parser tables.
func (A *Symbol) TokenType() glossa.TokType {
	return glossa.TokType(A.Value)
}

// IsEOF is true for the end-of-input pseudo terminal.
func (A *Symbol) IsEOF() bool {
	return A.Value == int(glossa.EOF)
}

func (A *Symbol) String() string {
	return A.Name
}

// --- Rules ------------------------------------------------------------------

// Rule is a production of a grammar: a non-terminal on the left-hand side
// and a sequence of symbols on the right-hand side. The right-hand side may
// be empty (epsilon rule). Every rule carries a stable serial number, which
// reduce actions in parser tables refer to. Serial 0 is reserved for the
// augmented start rule S' → S, which the grammar builder adds internally.
type Rule struct {
	Serial int
	LHS    *Symbol
	rhs    []*Symbol
}

// RHS returns the right-hand side symbols of a rule.
// Callers must not mutate the returned slice.
func (r *Rule) RHS() []*Symbol {
	return r.rhs
}

// IsEpsilon is true for rules with an empty right-hand side.
func (r *Rule) IsEpsilon() bool {
	return len(r.rhs) == 0
}

func (r *Rule) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d: [%s] ::= [", r.Serial, r.LHS.Name)
	for i, sym := range r.rhs {
		if i > 0 {
			b.WriteString(" ")
		}
		b.WriteString(sym.Name)
	}
	b.WriteString("]")
	return b.String()
}

// --- Grammar ----------------------------------------------------------------

// Grammar is the in-memory representation of a context-free grammar: an
// arena of interned symbols, a list of rules, and a designated start symbol.
// Grammars are built once with a GrammarBuilder, validated on construction
// and immutable afterwards, so analysis, table construction and scanning may
// share a grammar without synchronization.
type Grammar struct {
	Name           string
	rules          []*Rule // rule 0 is the augmented start rule
	symbols        map[string]*Symbol
	terminals      []*Symbol // in declaration order
	nonterminals   []*Symbol // in declaration order, starting with S'
	terminalsByTok map[glossa.TokType]*Symbol
	eof            *Symbol
	start          *Symbol // the client's start symbol, i.e. RHS of rule 0
}

// Rule returns the rule with a given serial number, or nil.
func (g *Grammar) Rule(serial int) *Rule {
	if serial < 0 || serial >= len(g.rules) {
		return nil
	}
	return g.rules[serial]
}

// Size returns the number of rules, including the augmented start rule.
func (g *Grammar) Size() int {
	return len(g.rules)
}

// Start returns the start symbol the client declared.
func (g *Grammar) Start() *Symbol {
	return g.start
}

// EOFSymbol returns the end-of-input pseudo terminal of this grammar.
func (g *Grammar) EOFSymbol() *Symbol {
	return g.eof
}

// SymbolByName looks up a symbol by its name, returning nil if the grammar
// does not declare it.
func (g *Grammar) SymbolByName(name string) *Symbol {
	return g.symbols[name]
}

// Terminal returns the terminal with a given token value, or nil.
func (g *Grammar) Terminal(tt glossa.TokType) *Symbol {
	return g.terminalsByTok[tt]
}

// RulesFor returns all rules with a given non-terminal as their left-hand
// side, in declaration order.
func (g *Grammar) RulesFor(A *Symbol) []*Rule {
	var rules []*Rule
	for _, r := range g.rules {
		if r.LHS == A {
			rules = append(rules, r)
		}
	}
	return rules
}

// EachSymbol applies a mapper function to all symbols of a grammar,
// non-terminals first. Iteration order is deterministic.
func (g *Grammar) EachSymbol(f func(A *Symbol) interface{}) []interface{} {
	var results []interface{}
	for _, A := range g.nonterminals {
		results = append(results, f(A))
	}
	for _, A := range g.terminals {
		results = append(results, f(A))
	}
	return results
}

// EachNonTerminal applies a mapper function to all non-terminals.
func (g *Grammar) EachNonTerminal(f func(A *Symbol) interface{}) []interface{} {
	var results []interface{}
	for _, A := range g.nonterminals {
		results = append(results, f(A))
	}
	return results
}

// EachTerminal applies a mapper function to all terminals, including the
// end-of-input pseudo terminal.
func (g *Grammar) EachTerminal(f func(A *Symbol) interface{}) []interface{} {
	var results []interface{}
	for _, A := range g.terminals {
		results = append(results, f(A))
	}
	return results
}

// Dump logs the rules of a grammar, for debugging purposes.
func (g *Grammar) Dump() {
	tracer().Debugf("--- grammar %s ----------", g.Name)
	for _, r := range g.rules {
		tracer().Debugf("%v", r)
	}
	tracer().Debugf("-------------------------")
}

// --- Grammar builder --------------------------------------------------------

// GrammarBuilder is used to construct a Grammar from declarative rule
// specifications. Clients add one rule at a time:
//
//	b := lr.NewGrammarBuilder("G")
//	b.LHS("S").N("A").T("a", 1).End()   // S  →  A a
//	b.LHS("A").T("b", 2).End()          // A  →  b
//	b.LHS("A").Epsilon()                // A  →
//	g, err := b.Grammar()
//
// The left-hand side of the first rule becomes the start symbol, unless
// SetStart selects a different one. Grammar() validates the rule set and
// returns a GrammarError for inconsistent input.
type GrammarBuilder struct {
	name      string
	rules     []*Rule
	symbols   map[string]*Symbol
	seq       []*Symbol // declaration order of all symbols
	startName string
	nontermID int
	err       *GrammarError
	grammar   *Grammar // set once Grammar() has augmented the rule set
}

// NewGrammarBuilder creates a GrammarBuilder for a grammar with a given name.
func NewGrammarBuilder(name string) *GrammarBuilder {
	return &GrammarBuilder{
		name:      name,
		symbols:   make(map[string]*Symbol),
		nontermID: NonTermBase,
	}
}

func (gb *GrammarBuilder) newNonTermSymbol(name string) *Symbol {
	sym := &Symbol{Name: name, Value: gb.nontermID}
	gb.nontermID++
	gb.symbols[name] = sym
	gb.seq = append(gb.seq, sym)
	return sym
}

// "S'" and "#eof" are interned during augmentation and are off-limits
// for client symbols.
func (gb *GrammarBuilder) checkReserved(name string) {
	if name == "S'" || name == "#eof" {
		gb.fail(grammarError(gb.name, name, -1, "symbol name is reserved"))
	}
}

func (gb *GrammarBuilder) nonterminal(name string) *Symbol {
	gb.checkReserved(name)
	if sym, ok := gb.symbols[name]; ok {
		if sym.IsTerminal() {
			gb.fail(grammarError(gb.name, name, -1, "symbol is declared both as terminal and as non-terminal"))
		}
		return sym
	}
	return gb.newNonTermSymbol(name)
}

func (gb *GrammarBuilder) terminal(name string, tokval int) *Symbol {
	gb.checkReserved(name)
	if sym, ok := gb.symbols[name]; ok {
		if !sym.IsTerminal() {
			gb.fail(grammarError(gb.name, name, -1, "symbol is declared both as terminal and as non-terminal"))
		} else if sym.Value != tokval {
			gb.fail(grammarError(gb.name, name, -1,
				fmt.Sprintf("terminal re-declared with token value %d, already has %d", tokval, sym.Value)))
		}
		return sym
	}
	if tokval >= NonTermBase {
		gb.fail(grammarError(gb.name, name, -1,
			fmt.Sprintf("terminal token value %d exceeds maximum of %d", tokval, NonTermBase-1)))
	} else if glossa.TokType(tokval) == EpsilonType || glossa.TokType(tokval) == glossa.EOF {
		gb.fail(grammarError(gb.name, name, -1,
			fmt.Sprintf("terminal token value %d is reserved", tokval)))
	}
	sym := &Symbol{Name: name, Value: tokval}
	gb.symbols[name] = sym
	gb.seq = append(gb.seq, sym)
	return sym
}

// first error wins; subsequent builder calls are no-ops for error reporting
func (gb *GrammarBuilder) fail(err *GrammarError) {
	if gb.err == nil {
		gb.err = err
	}
}

// LHS starts a new rule, given the name of its left-hand side non-terminal.
func (gb *GrammarBuilder) LHS(name string) *RuleBuilder {
	sym := gb.nonterminal(name)
	if gb.startName == "" {
		gb.startName = name
	}
	return &RuleBuilder{gb: gb, lhs: sym}
}

// SetStart designates a start symbol different from the LHS of the first rule.
func (gb *GrammarBuilder) SetStart(name string) *GrammarBuilder {
	gb.startName = name
	return gb
}

// Grammar validates the accumulated rules and returns the finished grammar.
// Validation enforces that at least one rule exists, that the start symbol
// is a declared non-terminal, and that every non-terminal referenced in a
// rule body has at least one rule of its own. Violations are reported as a
// GrammarError naming the offending symbol or rule.
//
// On success the grammar is augmented with a fresh start rule S' → S at
// serial 0 and an end-of-input pseudo terminal; neither is ever part of
// client rule bodies, and their names may not be declared by clients.
// Repeated calls return the same grammar.
func (gb *GrammarBuilder) Grammar() (*Grammar, error) {
	if gb.err != nil {
		return nil, gb.err
	}
	if gb.grammar != nil { // already augmented, do not augment twice
		return gb.grammar, nil
	}
	if len(gb.rules) == 0 {
		return nil, grammarError(gb.name, "", -1, "grammar has no rules")
	}
	start, ok := gb.symbols[gb.startName]
	if !ok {
		return nil, grammarError(gb.name, gb.startName, -1, "start symbol is not declared")
	}
	if start.IsTerminal() {
		return nil, grammarError(gb.name, gb.startName, -1, "start symbol is a terminal")
	}
	hasRule := make(map[*Symbol]bool)
	for _, r := range gb.rules {
		hasRule[r.LHS] = true
	}
	for _, r := range gb.rules {
		for _, sym := range r.rhs {
			if !sym.IsTerminal() && !hasRule[sym] {
				return nil, grammarError(gb.name, sym.Name, r.Serial, "non-terminal has no rule")
			}
		}
	}
	if !hasRule[start] {
		return nil, grammarError(gb.name, gb.startName, -1, "start symbol has no rule")
	}
	g := &Grammar{
		Name:           gb.name,
		symbols:        gb.symbols,
		terminalsByTok: make(map[glossa.TokType]*Symbol),
		start:          start,
	}
	// augment with S' → S and the #eof terminal
	topsym := gb.newNonTermSymbol("S'")
	g.eof = &Symbol{Name: "#eof", Value: int(glossa.EOF)}
	g.symbols[g.eof.Name] = g.eof
	toprule := &Rule{Serial: 0, LHS: topsym, rhs: []*Symbol{start}}
	g.rules = append([]*Rule{toprule}, gb.rules...)
	g.nonterminals = append(g.nonterminals, topsym)
	for _, sym := range gb.seq {
		if sym == topsym {
			continue
		}
		if sym.IsTerminal() {
			g.terminals = append(g.terminals, sym)
			g.terminalsByTok[sym.TokenType()] = sym
		} else {
			g.nonterminals = append(g.nonterminals, sym)
		}
	}
	g.terminals = append(g.terminals, g.eof)
	g.terminalsByTok[glossa.EOF] = g.eof
	tracer().Infof("grammar %q has %d rules, %d terminals, %d non-terminals",
		g.Name, len(g.rules), len(g.terminals), len(g.nonterminals))
	gb.grammar = g
	return g, nil
}

// RuleBuilder accumulates the right-hand side of a single rule.
// It is created by GrammarBuilder.LHS and finished with End or Epsilon.
type RuleBuilder struct {
	gb  *GrammarBuilder
	lhs *Symbol
	rhs []*Symbol
}

// N appends a non-terminal to the right-hand side of the rule under
// construction.
func (rb *RuleBuilder) N(name string) *RuleBuilder {
	rb.rhs = append(rb.rhs, rb.gb.nonterminal(name))
	return rb
}

// T appends a terminal, given its name and the token value the scanner will
// report for it.
func (rb *RuleBuilder) T(name string, tokval int) *RuleBuilder {
	rb.rhs = append(rb.rhs, rb.gb.terminal(name, tokval))
	return rb
}

// End finishes the rule and hands it over to the grammar builder.
func (rb *RuleBuilder) End() *Rule {
	r := &Rule{
		Serial: len(rb.gb.rules) + 1, // serial 0 is reserved for S' → S
		LHS:    rb.lhs,
		rhs:    rb.rhs,
	}
	rb.gb.rules = append(rb.gb.rules, r)
	return r
}

// Epsilon finishes the rule with an empty right-hand side.
func (rb *RuleBuilder) Epsilon() *Rule {
	if len(rb.rhs) > 0 {
		rb.gb.fail(grammarError(rb.gb.name, rb.lhs.Name, -1, "epsilon rule must have an empty RHS"))
		rb.rhs = nil
	}
	return rb.End()
}
