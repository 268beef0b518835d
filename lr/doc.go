/*
Package lr implements prerequisites for LR(1) parsing: a grammar model,
grammar analysis, and the construction of LR(1) parser tables.

Building a Grammar

Grammars are specified using a grammar builder object. Clients add
rules, consisting of non-terminal symbols and terminals. Terminals
carry a token value of type int. Grammars may contain epsilon-rules.

Example:

    b := lr.NewGrammarBuilder("G")
    b.LHS("S").N("A").T("a", 1).End()  // S  ->  A a
    b.LHS("A").N("B").N("D").End()     // A  ->  B D
    b.LHS("B").T("b", 2).End()         // B  ->  b
    b.LHS("B").Epsilon()               // B  ->
    b.LHS("D").T("d", 3).End()         // D  ->  d
    b.LHS("D").Epsilon()               // D  ->

The builder validates the rule set on Grammar() and augments the result
with a start rule S' → S at serial 0 together with an end-of-input
pseudo terminal.

Static Grammar Analysis

After the grammar is complete, it has to be analysed. For this end, the
grammar is subjected to an LRAnalysis object, which computes FIRST and
FOLLOW sets for the grammar and determines all epsilon-derivable
symbols.

Although FIRST and FOLLOW-sets are mainly intended to be used for
internal purposes of constructing the parser tables, methods for getting
FIRST(N) and FOLLOW(N) of non-terminals are defined to be public.

    ga := lr.Analysis(g)  // analyser for grammar above
    ga.Grammar().EachNonTerminal(
        func(N *lr.Symbol) interface{} {
            fmt.Printf("FIRST(%s) = %v", N.Name, ga.First(N))
            return nil
        })

Parser Construction

Using grammar analysis as input, a bottom-up parser can be constructed.
First a characteristic finite state machine (CFSM) is built from the
canonical collection of LR(1) item sets of the grammar. Item sets are
deduplicated by their exact (rule, dot, lookahead) content. This is what
distinguishes the canonical LR(1) construction from LALR(1) and
determines the table size. The CFSM is then transformed into a GOTO
table and an ACTION table. The CFSM will not be thrown away, but is made
available to the client. This is intended for debugging purposes, and it
can be exported to Graphviz's Dot-format.

Example:

    lrgen := lr.NewTableGenerator(ga)   // ga is an LRAnalysis, see above
    tables, err := lrgen.BuildTables()  // construct LR(1) parser tables
    if tables.HasConflicts() { ... }    // grammar is not LR(1)

Conflicts, i.e. positions where the grammar is not LR(1), are resolved
deterministically (shift over reduce, earliest rule among reduces) and
recorded on the resulting tables, so clients may inspect them.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.
*/
package lr

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'glossa.lr'.
func tracer() tracing.Trace {
	return tracing.Select("glossa.lr")
}
