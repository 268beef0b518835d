package lr

import (
	"fmt"
	"io"
	"os"

	"github.com/cnf/structhash"
	"github.com/emirpasic/gods/lists/arraylist"
	"github.com/emirpasic/gods/sets/treeset"
	"github.com/emirpasic/gods/utils"
	"github.com/glossa-dev/glossa"
	"github.com/glossa-dev/glossa/lr/sparse"
)

// Actions for parser action tables.
const (
	ShiftAction  = -1
	AcceptAction = -2
)

// === CFSM Construction =====================================================

// CFSMState is a state within the CFSM for a grammar: one item set of the
// canonical LR(1) collection.
type CFSMState struct {
	ID     uint     // serial ID of this state
	items  *itemSet // LR(1) items within this state
	Accept bool     // is this an accepting state?
}

// CFSM edge between 2 states, directed and with a symbol label
type cfsmEdge struct {
	from  *CFSMState
	to    *CFSMState
	label *Symbol
}

// Dump is a debugging helper
func (s *CFSMState) Dump() {
	tracer().Debugf("--- state %03d -----------", s.ID)
	s.items.Dump()
	tracer().Debugf("-------------------------")
}

func (s *CFSMState) String() string {
	return fmt.Sprintf("(state %d | [%d])", s.ID, s.items.size())
}

// containsCompletedStartRule checks for the item S' → S∘ with end-of-input
// in its lookahead, which makes a state accepting.
func (s *CFSMState) containsCompletedStartRule() bool {
	accept := false
	s.items.each(func(i Item, la *TerminalSet) {
		if i.rule.Serial == 0 && i.PeekSymbol() == nil && la.Contains(glossa.EOF) {
			accept = true
		}
	})
	return accept
}

// Create a state from an item set
func state(id uint, iset *itemSet) *CFSMState {
	s := &CFSMState{ID: id}
	if iset == nil {
		s.items = newItemSet()
	} else {
		s.items = iset
	}
	return s
}

// Create an edge
func edge(from, to *CFSMState, label *Symbol) *cfsmEdge {
	return &cfsmEdge{
		from:  from,
		to:    to,
		label: label,
	}
}

// We need this for the set of states. It sorts states by serial ID.
func stateComparator(s1, s2 interface{}) int {
	c1 := s1.(*CFSMState)
	c2 := s2.(*CFSMState)
	return utils.IntComparator(int(c1.ID), int(c2.ID))
}

// CFSM is the characteristic finite state machine for an LR(1) grammar,
// i.e. the canonical collection of LR(1) item sets with its transitions.
// It will be constructed by a TableGenerator. Clients normally do not use
// it directly, but it is handy for debugging and may be exported to
// Graphviz's Dot format.
type CFSM struct {
	g       *Grammar                // this CFSM is for Grammar g
	states  *treeset.Set            // all the states
	edges   *arraylist.List         // all the edges between states
	byHash  map[string][]*CFSMState // content hash → candidate states
	S0      *CFSMState              // start state
	cfsmIds uint                    // serial IDs for CFSM states
}

// create an empty (initial) CFSM automata.
func emptyCFSM(g *Grammar) *CFSM {
	c := &CFSM{g: g}
	c.states = treeset.NewWith(stateComparator)
	c.edges = arraylist.New()
	c.byHash = make(map[string][]*CFSMState)
	return c
}

// Add a state to the CFSM. Checks first if an equal state is present.
func (c *CFSM) addState(iset *itemSet) *CFSMState {
	hash, s := c.findStateByItems(iset)
	if s == nil {
		s = state(c.cfsmIds, iset)
		c.cfsmIds++
		c.states.Add(s)
		c.byHash[hash] = append(c.byHash[hash], s)
	}
	return s
}

// Find a CFSM state by the contained item set. Item sets are deduplicated
// by their exact (rule, dot, lookahead) content; a content hash narrows the
// candidates, then full item set comparison decides.
func (c *CFSM) findStateByItems(iset *itemSet) (string, *CFSMState) {
	hash := string(structhash.Md5(iset.signature(), 1))
	for _, s := range c.byHash[hash] {
		if s.items.equals(iset) {
			return hash, s
		}
	}
	return hash, nil
}

func (c *CFSM) addEdge(s0, s1 *CFSMState, sym *Symbol) *cfsmEdge {
	e := edge(s0, s1, sym)
	c.edges.Add(e)
	return e
}

func (c *CFSM) allEdges(s *CFSMState) []*cfsmEdge {
	it := c.edges.Iterator()
	r := make([]*cfsmEdge, 0, 2)
	for it.Next() {
		e := it.Value().(*cfsmEdge)
		if e.from == s {
			r = append(r, e)
		}
	}
	return r
}

// === Table Generation ======================================================

// ConflictKind classifies a parser table conflict.
type ConflictKind int8

// The kinds of LR conflicts. AcceptReduce can only occur on end-of-input
// in a state that contains the completed start rule.
const (
	ShiftReduce ConflictKind = iota
	ReduceReduce
	AcceptReduce
)

func (k ConflictKind) String() string {
	switch k {
	case ShiftReduce:
		return "shift/reduce"
	case AcceptReduce:
		return "accept/reduce"
	}
	return "reduce/reduce"
}

// Conflict records a parser table conflict: a (state, terminal) position
// where the grammar is not LR(1) and more than one action applies. The
// table builder resolves every conflict deterministically (shift and accept
// win over reduce, the earliest-declared rule wins among reduces) but
// records it, so
// that clients can detect ambiguous grammars even though parsing proceeds
// with a usable table.
type Conflict struct {
	State    uint
	Terminal glossa.TokType
	Kind     ConflictKind
	Rules    []int // contending reduce rule serials
	Resolved int32 // the table entry the conflict was resolved to
}

func (c Conflict) String() string {
	return fmt.Sprintf("%s conflict in state %d on terminal %d, resolved to %s",
		c.Kind, c.State, c.Terminal, valstring(c.Resolved, nil))
}

// ParserTables is the immutable output of table construction: the ACTION
// and GOTO tables, the start state, the size of the canonical collection,
// and all recorded conflicts. Built tables are read-only and may be shared
// by any number of concurrent parses.
type ParserTables struct {
	Action     *Table
	Goto       *Table
	StartState uint
	StateCount int
	Conflicts  []Conflict
	grammar    *Grammar
}

// Grammar returns the grammar the tables were built for.
func (pt *ParserTables) Grammar() *Grammar {
	return pt.grammar
}

// HasConflicts is true if the grammar is not LR(1), i.e. at least one
// conflict was recorded during table construction.
func (pt *ParserTables) HasConflicts() bool {
	return len(pt.Conflicts) > 0
}

// TableGenerator is a generator object to construct LR(1) parser tables.
// Clients usually create a Grammar G, then an LRAnalysis-object for G, and
// then a table generator. TableGenerator.CreateTables() constructs the CFSM
// and the parser tables for an LR(1)-parser recognizing grammar G.
type TableGenerator struct {
	g            *Grammar
	ga           *LRAnalysis
	dfa          *CFSM
	gototable    *Table
	actiontable  *Table
	conflicts    []Conflict
	HasConflicts bool
}

// NewTableGenerator creates a new TableGenerator for a (previously
// analysed) grammar.
func NewTableGenerator(ga *LRAnalysis) *TableGenerator {
	lrgen := &TableGenerator{}
	lrgen.g = ga.Grammar()
	lrgen.ga = ga
	return lrgen
}

// CFSM returns the characteristic finite state machine (CFSM) for a
// grammar. Usually clients call lrgen.CreateTables() beforehand, but it is
// possible to call lrgen.CFSM() directly. The CFSM will be created, if it
// has not been constructed previously.
func (lrgen *TableGenerator) CFSM() *CFSM {
	if lrgen.dfa == nil {
		lrgen.dfa = lrgen.buildCFSM()
	}
	return lrgen.dfa
}

// GotoTable returns the GOTO table for LR-parsing a grammar. The tables
// have to be built by calling CreateTables() previously.
func (lrgen *TableGenerator) GotoTable() *Table {
	if lrgen.gototable == nil {
		tracer().Errorf("tables not yet initialized")
	}
	return lrgen.gototable
}

// ActionTable returns the ACTION table for LR-parsing a grammar. The tables
// have to be built by calling CreateTables() previously.
func (lrgen *TableGenerator) ActionTable() *Table {
	if lrgen.actiontable == nil {
		tracer().Errorf("tables not yet initialized")
	}
	return lrgen.actiontable
}

// Conflicts returns all conflicts recorded during table construction.
func (lrgen *TableGenerator) Conflicts() []Conflict {
	return lrgen.conflicts
}

// CreateTables creates the necessary data structures for an LR(1) parser.
// It returns a BuildError if the construction reaches no accepting state;
// given a validated grammar this cannot occur and is checked defensively.
func (lrgen *TableGenerator) CreateTables() error {
	lrgen.dfa = lrgen.buildCFSM()
	accepting := false
	it := lrgen.dfa.states.Iterator()
	for it.Next() {
		if it.Value().(*CFSMState).Accept {
			accepting = true
			break
		}
	}
	if !accepting {
		return &BuildError{Grammar: lrgen.g.Name, Reason: "no accepting state is reachable"}
	}
	lrgen.gototable = lrgen.buildGotoTable()
	lrgen.actiontable = lrgen.buildActionTable()
	lrgen.HasConflicts = len(lrgen.conflicts) > 0
	return nil
}

// BuildTables constructs the parser tables for a grammar and bundles them
// into an immutable ParserTables value, ready to be handed to a parser.
func (lrgen *TableGenerator) BuildTables() (*ParserTables, error) {
	if err := lrgen.CreateTables(); err != nil {
		return nil, err
	}
	return &ParserTables{
		Action:     lrgen.actiontable,
		Goto:       lrgen.gototable,
		StartState: lrgen.dfa.S0.ID,
		StateCount: lrgen.dfa.states.Size(),
		Conflicts:  lrgen.conflicts,
		grammar:    lrgen.g,
	}, nil
}

// BuildTables is a convenience for the common sequence of analysing a
// grammar, creating a table generator and building the tables.
func BuildTables(g *Grammar) (*ParserTables, error) {
	return NewTableGenerator(Analysis(g)).BuildTables()
}

// Construct the characteristic finite state machine CFSM for a grammar:
// the canonical collection of LR(1) item sets, computed as a fixed point
// over closure and goto-set operations.
func (lrgen *TableGenerator) buildCFSM() *CFSM {
	tracer().Debugf("=== build CFSM ==================================================")
	G := lrgen.g
	cfsm := emptyCFSM(G)
	closure0 := newItemSet()
	closure0.add(StartItem(G.rules[0]), NewTerminalSet(glossa.EOF))
	closure0 = lrgen.ga.closure(closure0)
	cfsm.S0 = cfsm.addState(closure0)
	cfsm.S0.Accept = cfsm.S0.containsCompletedStartRule()
	cfsm.S0.Dump()
	S := treeset.NewWith(stateComparator)
	S.Add(cfsm.S0)
	for S.Size() > 0 {
		s := S.Values()[0].(*CFSMState)
		S.Remove(s)
		G.EachSymbol(func(A *Symbol) interface{} {
			gotoset := lrgen.ga.gotoSetClosure(s.items, A)
			if gotoset.empty() {
				return nil
			}
			_, snew := cfsm.findStateByItems(gotoset)
			if snew == nil {
				snew = cfsm.addState(gotoset)
				if snew.containsCompletedStartRule() {
					snew.Accept = true
				}
				S.Add(snew)
				snew.Dump()
			}
			cfsm.addEdge(s, snew, A)
			return nil
		})
	}
	tracer().Infof("CFSM of grammar %q has %d states", G.Name, cfsm.states.Size())
	return cfsm
}

// tableExtent determines the column range of the parser tables: the lowest
// and highest token value over all symbols of the grammar.
func (lrgen *TableGenerator) tableExtent() (glossa.TokType, glossa.TokType) {
	var maxtok, mintok glossa.TokType
	lrgen.g.EachSymbol(func(A *Symbol) interface{} {
		if A.TokenType() > maxtok {
			maxtok = A.TokenType()
		} else if A.TokenType() < mintok {
			mintok = A.TokenType()
		}
		return nil
	})
	return mintok, maxtok
}

// buildGotoTable builds the GOTO table from the edges of the CFSM. Entries
// for non-terminals drive reduce gotos; entries for terminals are the shift
// targets of the ACTION table.
func (lrgen *TableGenerator) buildGotoTable() *Table {
	statescnt := lrgen.dfa.states.Size()
	mintok, maxtok := lrgen.tableExtent()
	extent := int(maxtok-mintok) + 1
	tracer().Debugf("GOTO table of size %d x %d", statescnt, extent)
	gototable := &Table{
		matrix: sparse.NewMatrix(statescnt, extent, sparse.DefaultNullValue),
		mincol: mintok,
	}
	states := lrgen.dfa.states.Iterator()
	for states.Next() {
		state := states.Value().(*CFSMState)
		for _, e := range lrgen.dfa.allEdges(state) {
			gototable.set(state.ID, e.label.TokenType(), int32(e.to.ID))
		}
	}
	return gototable
}

// For building the ACTION table we iterate over all the states of the CFSM.
// An inner loop iterates over all the LR(1) items within a CFSM-state.
// If an item has a terminal immediately after the dot, we produce a shift
// entry. If an item's dot is behind the complete RHS of its rule, we
// produce a reduce-entry for the rule for each terminal of the item's
// lookahead set; for the augmented start rule we produce an accept-entry on
// end-of-input instead.
//
// Shift entries are represented as -1, accept entries as -2. Reduce entries
// are encoded as the serial no. of the grammar rule to reduce.
//
// Conflicting actions at the same table position are resolved here and
// recorded: shift beats reduce, and the earliest-declared rule beats later
// ones. The losing action is kept as the secondary value of the table cell.
func (lrgen *TableGenerator) buildActionTable() *Table {
	statescnt := lrgen.dfa.states.Size()
	mintok, maxtok := lrgen.tableExtent()
	extent := int(maxtok-mintok) + 1
	tracer().Debugf("ACTION table of size %d x %d", statescnt, extent)
	actions := &Table{
		matrix: sparse.NewMatrix(statescnt, extent, sparse.DefaultNullValue),
		mincol: mintok,
	}
	states := lrgen.dfa.states.Iterator()
	for states.Next() {
		state := states.Value().(*CFSMState)
		tracer().Debugf("--- state %d --------------------------------", state.ID)
		state.items.each(func(i Item, la *TerminalSet) {
			A := i.PeekSymbol()
			if A != nil && A.IsTerminal() { // create a shift entry
				lrgen.addShift(actions, state, A)
			}
			if A == nil { // dot is at the end of the rule
				if i.rule.Serial == 0 { // completed S' → S: accept on $end
					if la.Contains(glossa.EOF) {
						lrgen.addAccept(actions, state)
					}
					return
				}
				for _, tt := range la.Values() {
					lrgen.addReduce(actions, state, tt, i.rule)
				}
			}
		})
	}
	return actions
}

func (lrgen *TableGenerator) addShift(actions *Table, state *CFSMState, A *Symbol) {
	tt := A.TokenType()
	a := actions.Value(state.ID, tt)
	switch {
	case a == actions.NullValue():
		actions.add(state.ID, tt, ShiftAction)
	case a == ShiftAction || a == AcceptAction:
		// same action twice, nothing to do
	default: // a reduce entry is present: shift wins, reduce is demoted
		actions.set(state.ID, tt, ShiftAction)
		actions.add(state.ID, tt, a)
		lrgen.recordConflict(Conflict{
			State:    state.ID,
			Terminal: tt,
			Kind:     ShiftReduce,
			Rules:    []int{int(a)},
			Resolved: ShiftAction,
		})
	}
	tracer().Debugf("    shift entry at (%d,%d)", state.ID, tt)
}

// addAccept enters the accept action for end-of-input. A reduce entry can
// already be present on $end when the start symbol derives itself; accept
// wins and the reduce is demoted.
func (lrgen *TableGenerator) addAccept(actions *Table, state *CFSMState) {
	a := actions.Value(state.ID, glossa.EOF)
	switch {
	case a == actions.NullValue():
		actions.add(state.ID, glossa.EOF, AcceptAction)
	case a == AcceptAction:
		// same action twice, nothing to do
	default:
		actions.set(state.ID, glossa.EOF, AcceptAction)
		actions.add(state.ID, glossa.EOF, a)
		lrgen.recordConflict(Conflict{
			State:    state.ID,
			Terminal: glossa.EOF,
			Kind:     AcceptReduce,
			Rules:    []int{int(a)},
			Resolved: AcceptAction,
		})
	}
}

func (lrgen *TableGenerator) addReduce(actions *Table, state *CFSMState, tt glossa.TokType, rule *Rule) {
	a := actions.Value(state.ID, tt)
	switch {
	case a == actions.NullValue():
		actions.add(state.ID, tt, int32(rule.Serial))
	case a == ShiftAction || a == AcceptAction: // shift resp. accept wins over reduce
		actions.add(state.ID, tt, int32(rule.Serial))
		kind := ShiftReduce
		if a == AcceptAction {
			kind = AcceptReduce
		}
		lrgen.recordConflict(Conflict{
			State:    state.ID,
			Terminal: tt,
			Kind:     kind,
			Rules:    []int{rule.Serial},
			Resolved: a,
		})
	case int(a) == rule.Serial:
		// same reduce twice, nothing to do
	default: // two reduce entries: the earliest-declared rule wins
		chosen := a
		if int32(rule.Serial) < a {
			chosen = int32(rule.Serial)
			actions.set(state.ID, tt, chosen)
			actions.add(state.ID, tt, a)
		} else {
			actions.add(state.ID, tt, int32(rule.Serial))
		}
		lrgen.recordConflict(Conflict{
			State:    state.ID,
			Terminal: tt,
			Kind:     ReduceReduce,
			Rules:    []int{int(a), rule.Serial},
			Resolved: chosen,
		})
	}
	tracer().Debugf("    reduce_%d entry at (%d,%d)", rule.Serial, state.ID, tt)
}

func (lrgen *TableGenerator) recordConflict(c Conflict) {
	tracer().Infof("grammar %q is not LR(1): %v", lrgen.g.Name, c)
	lrgen.conflicts = append(lrgen.conflicts, c)
	lrgen.HasConflicts = true
}

// === Tables ================================================================

// Table is a parser table: a read-only sparse matrix of action or goto
// entries, indexed by state and token value.
type Table struct {
	matrix *sparse.Matrix
	mincol glossa.TokType // lowest token value => offset for column access
}

func (t *Table) add(i uint, tt glossa.TokType, val int32) {
	j := tt - t.mincol
	if j < 0 {
		panic(fmt.Sprintf("lr.Table.add() with index < 0: %d", j))
	}
	t.matrix.Add(int(i), int(j), val)
}

func (t *Table) set(i uint, tt glossa.TokType, val int32) {
	j := tt - t.mincol
	if j < 0 {
		panic(fmt.Sprintf("lr.Table.set() with index < 0: %d", j))
	}
	t.matrix.Set(int(i), int(j), val)
}

// NullValue returns the empty-cell marker of the table.
func (t *Table) NullValue() int32 {
	return t.matrix.NullValue()
}

// Value returns the (primary) table entry for a state and a token value.
func (t *Table) Value(i uint, tt glossa.TokType) int32 {
	j := tt - t.mincol
	if j < 0 {
		panic(fmt.Sprintf("lr.Table.Value() with index < 0: %d", j))
	}
	return t.matrix.Value(int(i), int(j))
}

// Values returns the pair of table entries for a state and a token value.
// The secondary entry is the losing action of a resolved conflict.
func (t *Table) Values(i uint, tt glossa.TokType) (int32, int32) {
	j := tt - t.mincol
	if j < 0 {
		panic(fmt.Sprintf("lr.Table.Values() with index < 0: %d", j))
	}
	return t.matrix.Values(int(i), int(j))
}

// TokensInRow returns all token values with a non-empty entry in the row of
// a given state, in ascending order. For an ACTION table row this is the
// set of terminals acceptable in that state, which parsers report in their
// syntax error diagnostics.
func (t *Table) TokensInRow(i uint) []glossa.TokType {
	var tts []glossa.TokType
	t.matrix.EachInRow(int(i), func(j int, value int32) {
		tts = append(tts, glossa.TokType(j)+t.mincol)
	})
	return tts
}

// === Exports ===============================================================

// CFSM2GraphViz exports a CFSM to the Graphviz Dot format, given a filename.
func (c *CFSM) CFSM2GraphViz(filename string) {
	f, err := os.Create(filename)
	if err != nil {
		panic(fmt.Sprintf("file open error: %v", err.Error()))
	}
	defer f.Close()
	f.WriteString(`digraph {
graph [splines=true, fontname=Helvetica, fontsize=10];
node [shape=Mrecord, style=filled, fontname=Helvetica, fontsize=10];
edge [fontname=Helvetica, fontsize=10];

`)
	it := c.states.Iterator()
	for it.Next() {
		s := it.Value().(*CFSMState)
		f.WriteString(fmt.Sprintf("s%03d [fillcolor=%s label=\"{%03d | %s}\"]\n",
			s.ID, nodecolor(s), s.ID, s.items))
	}
	eit := c.edges.Iterator()
	for eit.Next() {
		edge := eit.Value().(*cfsmEdge)
		f.WriteString(fmt.Sprintf("s%03d -> s%03d [label=\"%s\"]\n", edge.from.ID, edge.to.ID, edge.label))
	}
	f.WriteString("}\n")
}

func nodecolor(state *CFSMState) string {
	if state.Accept {
		return "lightgray"
	}
	return "white"
}

// GotoTableAsHTML exports a GOTO-table in HTML-format.
func GotoTableAsHTML(lrgen *TableGenerator, w io.Writer) {
	if lrgen.gototable == nil {
		tracer().Errorf("GOTO table not yet created, cannot export to HTML")
		return
	}
	parserTableAsHTML(lrgen, "GOTO", lrgen.gototable, w)
}

// ActionTableAsHTML exports the LR(1) ACTION-table in HTML-format.
func ActionTableAsHTML(lrgen *TableGenerator, w io.Writer) {
	if lrgen.actiontable == nil {
		tracer().Errorf("ACTION table not yet created, cannot export to HTML")
		return
	}
	parserTableAsHTML(lrgen, "ACTION", lrgen.actiontable, w)
}

func parserTableAsHTML(lrgen *TableGenerator, tname string, table *Table, w io.Writer) {
	var symvec []*Symbol
	io.WriteString(w, "<html><body>\n")
	io.WriteString(w, fmt.Sprintf("%s table of size = %d<p>", tname, table.matrix.ValueCount()))
	io.WriteString(w, "<table border=1 cellspacing=0 cellpadding=5>\n")
	io.WriteString(w, "<tr bgcolor=#cccccc><td></td>\n")
	lrgen.g.EachSymbol(func(A *Symbol) interface{} {
		io.WriteString(w, fmt.Sprintf("<td>%s</td>", A))
		symvec = append(symvec, A)
		return nil
	})
	io.WriteString(w, "</tr>\n")
	states := lrgen.dfa.states.Iterator()
	var td string // table cell
	for states.Next() {
		state := states.Value().(*CFSMState)
		io.WriteString(w, fmt.Sprintf("<tr><td>state %d</td>\n", state.ID))
		for _, A := range symvec {
			v1, v2 := table.Values(state.ID, A.TokenType())
			if v1 == table.NullValue() {
				td = "&nbsp;"
			} else if v2 == table.NullValue() {
				td = fmt.Sprintf("%d", v1)
			} else {
				td = fmt.Sprintf("%d/%d", v1, v2)
			}
			io.WriteString(w, "<td>")
			io.WriteString(w, td)
			io.WriteString(w, "</td>\n")
		}
		io.WriteString(w, "</tr>\n")
	}
	io.WriteString(w, "</table></body></html>\n")
}

// valstring is a short helper to stringify an action table entry.
func valstring(v int32, m *Table) string {
	if m != nil && v == m.NullValue() {
		return "<none>"
	} else if v == AcceptAction {
		return "<accept>"
	} else if v == ShiftAction {
		return "<shift>"
	}
	return fmt.Sprintf("<reduce %d>", v)
}
