package lr

import "fmt"

// GrammarError signals a malformed or inconsistent grammar. It is always
// fatal and carries the name of the offending symbol and/or the serial of
// the offending rule, so that clients can point users to the defect.
type GrammarError struct {
	Grammar string // name of the grammar
	Symbol  string // name of the offending symbol, if any
	Rule    int    // serial of the offending rule, or -1
	Reason  string
}

func (e *GrammarError) Error() string {
	switch {
	case e.Symbol != "" && e.Rule >= 0:
		return fmt.Sprintf("grammar %q: symbol %q in rule %d: %s", e.Grammar, e.Symbol, e.Rule, e.Reason)
	case e.Symbol != "":
		return fmt.Sprintf("grammar %q: symbol %q: %s", e.Grammar, e.Symbol, e.Reason)
	case e.Rule >= 0:
		return fmt.Sprintf("grammar %q: rule %d: %s", e.Grammar, e.Rule, e.Reason)
	}
	return fmt.Sprintf("grammar %q: %s", e.Grammar, e.Reason)
}

func grammarError(g string, sym string, rule int, reason string) *GrammarError {
	return &GrammarError{Grammar: g, Symbol: sym, Rule: rule, Reason: reason}
}

// BuildError signals an internal invariant violation during parse table
// construction. It indicates a defect in the table builder rather than in
// the grammar or the input, and is checked for defensively.
type BuildError struct {
	Grammar string
	Reason  string
}

func (e *BuildError) Error() string {
	return fmt.Sprintf("table construction for grammar %q failed: %s", e.Grammar, e.Reason)
}
