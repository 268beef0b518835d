/*
Package glossa is an LR(1) parsing engine for context-free grammars.

Glossa turns source text of an arbitrary defined language into a parse
tree, without a code-generation step. Clients define a grammar at
run-time, have parse tables constructed for it, and use those tables for
any number of parses. Package structure is as follows:

■ lr: Package lr implements the grammar model, grammar analysis and the
construction of LR(1) parse tables (canonical item sets, ACTION/GOTO).

■ lr/scanner: Package scanner segments raw input text into tokens, driven
by terminal matching rules derived from a grammar.

■ lr/parser: Package parser implements the table-driven shift-reduce
algorithm and produces parse trees.

■ langdef: Package langdef reads declarative grammar+lexer definitions
(TOML) and ships definitions for a JSON-like and a SPARQL-like language.

The base package contains data types which are used throughout all the
other packages.
*/
package glossa
