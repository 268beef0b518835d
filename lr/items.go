package lr

import (
	"bytes"
	"fmt"
)

// --- LR(1) items ------------------------------------------------------------

// Item is the core of an LR(1) item: a grammar rule together with a dot
// position marking how much of the right-hand side has been matched.
// The lookahead set belonging to an item is kept separately by the item set
// containing it, so that Item itself stays a small comparable value type.
type Item struct {
	rule *Rule
	dot  int
}

// StartItem returns the item S' → ∘S for the augmented start rule of a
// grammar.
func StartItem(r *Rule) Item {
	return Item{rule: r, dot: 0}
}

// Rule returns the rule of an item.
func (i Item) Rule() *Rule {
	return i.rule
}

// PeekSymbol returns the symbol right after the dot, or nil if the dot is
// at the end of the right-hand side.
func (i Item) PeekSymbol() *Symbol {
	if i.dot >= len(i.rule.rhs) {
		return nil
	}
	return i.rule.rhs[i.dot]
}

// Advance returns the item with the dot moved one position to the right.
// Advancing an item with the dot at the end is illegal.
func (i Item) Advance() Item {
	if i.dot >= len(i.rule.rhs) {
		panic(fmt.Sprintf("cannot advance item %v past end of RHS", i))
	}
	return Item{rule: i.rule, dot: i.dot + 1}
}

// Suffix returns the symbols after the dotted symbol, i.e. β for an item
// A → α ∘Xβ. This is the sequence the LR(1) lookahead computation is based
// on.
func (i Item) Suffix() []*Symbol {
	if i.dot >= len(i.rule.rhs) {
		return nil
	}
	return i.rule.rhs[i.dot+1:]
}

func (i Item) String() string {
	var b bytes.Buffer
	fmt.Fprintf(&b, "%s ::= ", i.rule.LHS.Name)
	for k, sym := range i.rule.rhs {
		if k == i.dot {
			b.WriteString("∘")
		}
		b.WriteString(sym.Name)
		b.WriteString(" ")
	}
	if i.dot == len(i.rule.rhs) {
		b.WriteString("∘")
	}
	return b.String()
}

// --- Item sets --------------------------------------------------------------

// itemSet holds LR(1) items: item cores mapped to their lookahead sets.
// Insertion order is preserved, so that iteration over an item set, and with
// it state numbering and table construction, is deterministic.
//
// Two item sets are equal only if they agree on cores and on the exact
// lookahead sets. This full comparison is what makes the canonical
// collection LR(1) rather than LALR(1).
type itemSet struct {
	lookahead map[Item]*TerminalSet
	order     []Item
}

func newItemSet() *itemSet {
	return &itemSet{lookahead: make(map[Item]*TerminalSet)}
}

// add unions la into the lookahead set of an item, inserting the item if
// not yet present. It returns true if the set changed.
func (S *itemSet) add(i Item, la *TerminalSet) bool {
	if existing, ok := S.lookahead[i]; ok {
		return existing.Union(la)
	}
	S.lookahead[i] = la.Copy()
	S.order = append(S.order, i)
	return true
}

func (S *itemSet) size() int {
	return len(S.order)
}

func (S *itemSet) empty() bool {
	return len(S.order) == 0
}

func (S *itemSet) copy() *itemSet {
	c := newItemSet()
	for _, i := range S.order {
		c.add(i, S.lookahead[i])
	}
	return c
}

// each calls f for every item, in insertion order.
func (S *itemSet) each(f func(i Item, la *TerminalSet)) {
	for _, i := range S.order {
		f(i, S.lookahead[i])
	}
}

func (S *itemSet) equals(other *itemSet) bool {
	if len(S.order) != len(other.order) {
		return false
	}
	for i, la := range S.lookahead {
		otherla, ok := other.lookahead[i]
		if !ok || !la.Equals(otherla) {
			return false
		}
	}
	return true
}

// signature is a canonical projection of an item set, used for content
// hashing during state deduplication. Cores are listed in rule-serial/dot
// order with their lookaheads sorted.
type signature struct {
	Items []itemSignature
}

type itemSignature struct {
	Serial     int
	Dot        int
	Lookaheads []int
}

func (S *itemSet) signature() signature {
	sig := signature{Items: make([]itemSignature, 0, len(S.order))}
	for _, i := range sortedItems(S.order) {
		la := S.lookahead[i]
		isig := itemSignature{Serial: i.rule.Serial, Dot: i.dot}
		for _, tt := range la.Values() {
			isig.Lookaheads = append(isig.Lookaheads, int(tt))
		}
		sig.Items = append(sig.Items, isig)
	}
	return sig
}

func sortedItems(items []Item) []Item {
	sorted := append([]Item(nil), items...)
	for i := 1; i < len(sorted); i++ { // insertion sort, item counts are small
		for j := i; j > 0 && itemLess(sorted[j], sorted[j-1]); j-- {
			sorted[j], sorted[j-1] = sorted[j-1], sorted[j]
		}
	}
	return sorted
}

func itemLess(a, b Item) bool {
	if a.rule.Serial != b.rule.Serial {
		return a.rule.Serial < b.rule.Serial
	}
	return a.dot < b.dot
}

func (S *itemSet) String() string {
	var b bytes.Buffer
	b.WriteString("{")
	first := true
	S.each(func(i Item, la *TerminalSet) {
		if first {
			b.WriteString(" ")
			first = false
		} else {
			b.WriteString(", ")
		}
		b.WriteString(i.String())
		b.WriteString(la.String())
	})
	b.WriteString(" }")
	return b.String()
}

// Dump logs the items of an item set, for debugging purposes.
func (S *itemSet) Dump() {
	n := 0
	S.each(func(i Item, la *TerminalSet) {
		tracer().Debugf("[%2d] %s %s", n, i, la)
		n++
	})
}

// --- Closure and goto-set operations ----------------------------------------

// Refer to "Compilers — Principles, Techniques & Tools" by Aho, Lam, Sethi
// and Ullman, section 4.7.2: Construction of LR(1) Sets of Items.

// closure computes the LR(1) closure of an item set: for every item
// A → α ∘Bβ with lookahead set L and every rule B → γ, the item B → ∘γ is
// added with lookahead FIRST(β·L). Items gaining new lookaheads are
// re-processed until a fixed point is reached.
func (ga *LRAnalysis) closure(S *itemSet) *itemSet {
	C := S.copy()
	stack := append([]Item(nil), C.order...)
	for len(stack) > 0 {
		i := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		B := i.PeekSymbol()
		if B == nil || B.IsTerminal() {
			continue
		}
		la := ga.FirstOfSeq(i.Suffix(), C.lookahead[i])
		for _, r := range ga.g.RulesFor(B) {
			closed := Item{rule: r, dot: 0}
			if C.add(closed, la) {
				stack = append(stack, closed)
			}
		}
	}
	return C
}

// gotoSet computes GOTO(S, A): all items of S with the dot before symbol A,
// with the dot advanced and lookaheads carried over.
func (ga *LRAnalysis) gotoSet(S *itemSet, A *Symbol) *itemSet {
	gotoset := newItemSet()
	S.each(func(i Item, la *TerminalSet) {
		if i.PeekSymbol() == A {
			ii := i.Advance()
			tracer().Debugf("goto(%s) -%s-> %s", i, A, ii)
			gotoset.add(ii, la)
		}
	})
	return gotoset
}

// gotoSetClosure computes the closure of GOTO(S, A), i.e. the item set of
// the target state of a transition on A.
func (ga *LRAnalysis) gotoSetClosure(S *itemSet, A *Symbol) *itemSet {
	gotoset := ga.gotoSet(S, A)
	if gotoset.empty() {
		return gotoset
	}
	gclosure := ga.closure(gotoset)
	tracer().Debugf("goto(%s) --%s--> %s", S, A, gclosure)
	return gclosure
}
