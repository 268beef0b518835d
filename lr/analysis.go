package lr

import (
	"fmt"
	"strings"

	"github.com/glossa-dev/glossa"
	"golang.org/x/exp/slices"
)

// --- Terminal sets ----------------------------------------------------------

// TerminalSet is a set of terminal token values. FIRST and FOLLOW sets as
// well as item lookaheads are terminal sets. The special member EpsilonType
// marks a FIRST set of an epsilon-derivable symbol.
type TerminalSet struct {
	m map[glossa.TokType]struct{}
}

// NewTerminalSet creates a terminal set from a list of token values.
func NewTerminalSet(tts ...glossa.TokType) *TerminalSet {
	ts := &TerminalSet{m: make(map[glossa.TokType]struct{}, len(tts))}
	for _, tt := range tts {
		ts.m[tt] = struct{}{}
	}
	return ts
}

// Add inserts a token value, returning true if the set changed.
func (ts *TerminalSet) Add(tt glossa.TokType) bool {
	if _, ok := ts.m[tt]; ok {
		return false
	}
	ts.m[tt] = struct{}{}
	return true
}

// Union inserts all members of other, returning true if the set changed.
func (ts *TerminalSet) Union(other *TerminalSet) bool {
	changed := false
	for tt := range other.m {
		if ts.Add(tt) {
			changed = true
		}
	}
	return changed
}

// Contains checks membership of a token value.
func (ts *TerminalSet) Contains(tt glossa.TokType) bool {
	if ts == nil {
		return false
	}
	_, ok := ts.m[tt]
	return ok
}

// Size returns the number of members.
func (ts *TerminalSet) Size() int {
	return len(ts.m)
}

// Copy returns an independent copy of a set.
func (ts *TerminalSet) Copy() *TerminalSet {
	c := &TerminalSet{m: make(map[glossa.TokType]struct{}, len(ts.m))}
	for tt := range ts.m {
		c.m[tt] = struct{}{}
	}
	return c
}

// Equals compares two sets for equal content.
func (ts *TerminalSet) Equals(other *TerminalSet) bool {
	if len(ts.m) != len(other.m) {
		return false
	}
	for tt := range ts.m {
		if _, ok := other.m[tt]; !ok {
			return false
		}
	}
	return true
}

// Values returns the members of a set in ascending order.
func (ts *TerminalSet) Values() []glossa.TokType {
	vals := make([]glossa.TokType, 0, len(ts.m))
	for tt := range ts.m {
		vals = append(vals, tt)
	}
	slices.Sort(vals)
	return vals
}

func (ts *TerminalSet) String() string {
	var b strings.Builder
	b.WriteString("{")
	for i, tt := range ts.Values() {
		if i > 0 {
			b.WriteString(" ")
		}
		fmt.Fprintf(&b, "%d", tt)
	}
	b.WriteString("}")
	return b.String()
}

// --- Grammar analysis -------------------------------------------------------

// LRAnalysis is the static analysis of a grammar which table construction
// builds on: epsilon-derivability of non-terminals, FIRST sets and FOLLOW
// sets. The analysis is computed once per grammar and is read-only
// afterwards.
type LRAnalysis struct {
	g          *Grammar
	derivesEps map[*Symbol]bool
	first      map[*Symbol]*TerminalSet
	follow     map[*Symbol]*TerminalSet
}

// Analysis analyses a grammar, computing epsilon-derivability, FIRST and
// FOLLOW sets for all non-terminals.
func Analysis(g *Grammar) *LRAnalysis {
	ga := &LRAnalysis{
		g:          g,
		derivesEps: make(map[*Symbol]bool),
		first:      make(map[*Symbol]*TerminalSet),
		follow:     make(map[*Symbol]*TerminalSet),
	}
	ga.markEps()
	ga.initFirstSets()
	ga.initFollowSets()
	return ga
}

// Grammar returns the grammar this analysis is for.
func (ga *LRAnalysis) Grammar() *Grammar {
	return ga.g
}

// DerivesEpsilon is true if a symbol derives the empty string.
func (ga *LRAnalysis) DerivesEpsilon(A *Symbol) bool {
	return ga.derivesEps[A]
}

// First returns FIRST(A) for a symbol of the grammar. For epsilon-derivable
// non-terminals the set contains EpsilonType.
func (ga *LRAnalysis) First(A *Symbol) *TerminalSet {
	if A.IsTerminal() {
		return NewTerminalSet(A.TokenType())
	}
	return ga.first[A]
}

// Follow returns FOLLOW(A) for a non-terminal of the grammar.
func (ga *LRAnalysis) Follow(A *Symbol) *TerminalSet {
	return ga.follow[A]
}

// Fixed-point computation of epsilon-derivability.
func (ga *LRAnalysis) markEps() {
	changed := true
	for changed {
		changed = false
		for _, r := range ga.g.rules {
			if ga.derivesEps[r.LHS] {
				continue
			}
			eps := true
			for _, sym := range r.rhs {
				if sym.IsTerminal() || !ga.derivesEps[sym] {
					eps = false
					break
				}
			}
			if eps {
				ga.derivesEps[r.LHS] = true
				changed = true
			}
		}
	}
}

// Fixed-point computation of the FIRST sets for all non-terminals.
func (ga *LRAnalysis) initFirstSets() {
	for _, A := range ga.g.nonterminals {
		ga.first[A] = NewTerminalSet()
		if ga.derivesEps[A] {
			ga.first[A].Add(EpsilonType)
		}
	}
	changed := true
	for changed {
		changed = false
		for _, r := range ga.g.rules {
			f := ga.firstOfSeq(r.rhs)
			if ga.first[r.LHS].Union(f) {
				changed = true
			}
		}
	}
}

// firstOfSeq computes FIRST for a sequence of symbols. EpsilonType is a
// member iff the whole sequence is epsilon-derivable.
func (ga *LRAnalysis) firstOfSeq(seq []*Symbol) *TerminalSet {
	f := NewTerminalSet()
	for _, sym := range seq {
		if sym.IsTerminal() {
			f.Add(sym.TokenType())
			return f
		}
		for tt := range ga.first[sym].m {
			if tt != EpsilonType {
				f.Add(tt)
			}
		}
		if !ga.derivesEps[sym] {
			return f
		}
	}
	f.Add(EpsilonType)
	return f
}

// FirstOfSeq computes FIRST(seq · la) for a sequence of symbols followed by
// a set of lookahead terminals: the terminals which may start an expansion
// of seq, plus all of la if seq is epsilon-derivable. This is the lookahead
// computation for LR(1) closure items.
func (ga *LRAnalysis) FirstOfSeq(seq []*Symbol, la *TerminalSet) *TerminalSet {
	f := ga.firstOfSeq(seq)
	if f.Contains(EpsilonType) {
		delete(f.m, EpsilonType)
		f.Union(la)
	}
	return f
}

// Fixed-point computation of the FOLLOW sets for all non-terminals.
func (ga *LRAnalysis) initFollowSets() {
	for _, A := range ga.g.nonterminals {
		ga.follow[A] = NewTerminalSet()
	}
	ga.follow[ga.g.rules[0].LHS].Add(glossa.EOF)
	changed := true
	for changed {
		changed = false
		for _, r := range ga.g.rules {
			for i, sym := range r.rhs {
				if sym.IsTerminal() {
					continue
				}
				rest := r.rhs[i+1:]
				f := ga.firstOfSeq(rest)
				for tt := range f.m {
					if tt != EpsilonType && ga.follow[sym].Add(tt) {
						changed = true
					}
				}
				if f.Contains(EpsilonType) {
					if ga.follow[sym].Union(ga.follow[r.LHS]) {
						changed = true
					}
				}
			}
		}
	}
}
