/*
Package langdef loads language definitions: declarative descriptions of
a grammar together with its lexical rules, stored as TOML. A language
definition is everything needed to parse a language on the fly; clients
turn it into a grammar and scanner rules and hand those to the tools of
packages lr, lr/scanner and lr/parser.

A definition looks like this:

	name  = "signed variables"
	start = "Var"

	[[terminals]]
	name    = "id"
	pattern = '[a-z]+'

	[[terminals]]
	name    = "+"
	literal = "+"

	[[skip]]
	pattern = '( |\t)+'

	[[productions]]
	lhs = "Var"
	rhs = ["Sign", "id"]

	[[productions]]
	lhs = "Sign"
	rhs = ["+"]

	[[productions]]
	lhs = "Sign"
	rhs = []

Symbols in rule bodies are terminals if a terminal of that name is
declared, non-terminals otherwise. Token values for terminals are
assigned automatically in declaration order.

A couple of ready-made definitions ship with the package, see Builtin.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.
*/
package langdef

import (
	"embed"
	"fmt"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/glossa-dev/glossa/lr"
	"github.com/glossa-dev/glossa/lr/scanner"
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'glossa.langdef'.
func tracer() tracing.Trace {
	return tracing.Select("glossa.langdef")
}

// LanguageDef is a declarative description of a language: a name, a
// start symbol, terminals with their lexical form, skip rules and
// productions.
type LanguageDef struct {
	Name        string          `toml:"name"`
	Start       string          `toml:"start"`
	Terminals   []TerminalDef   `toml:"terminals"`
	Skip        []SkipDef       `toml:"skip"`
	Productions []ProductionDef `toml:"productions"`
}

// TerminalDef declares a terminal symbol and its lexical form. Exactly
// one of Literal and Pattern must be set.
type TerminalDef struct {
	Name     string `toml:"name"`
	Literal  string `toml:"literal"`
	Pattern  string `toml:"pattern"`
	Priority int    `toml:"priority"`
}

// SkipDef declares input to match and discard, e.g. whitespace.
type SkipDef struct {
	Pattern string `toml:"pattern"`
}

// ProductionDef declares a production of the grammar. An empty RHS
// declares an epsilon rule.
type ProductionDef struct {
	LHS string   `toml:"lhs"`
	RHS []string `toml:"rhs"`
}

// Decode reads a language definition from TOML input.
func Decode(data string) (*LanguageDef, error) {
	ld := &LanguageDef{}
	if _, err := toml.Decode(data, ld); err != nil {
		return nil, err
	}
	return ld, ld.check()
}

// Load reads a language definition from a TOML file.
func Load(path string) (*LanguageDef, error) {
	ld := &LanguageDef{}
	if _, err := toml.DecodeFile(path, ld); err != nil {
		return nil, err
	}
	return ld, ld.check()
}

func (ld *LanguageDef) check() error {
	if len(ld.Productions) == 0 {
		return fmt.Errorf("language %q declares no productions", ld.Name)
	}
	seen := make(map[string]bool)
	for _, td := range ld.Terminals {
		if td.Name == "" {
			return fmt.Errorf("language %q declares a terminal without a name", ld.Name)
		}
		if seen[td.Name] {
			return fmt.Errorf("language %q declares terminal %q twice", ld.Name, td.Name)
		}
		seen[td.Name] = true
	}
	return nil
}

// Grammar builds the grammar and the scanner rules from a language
// definition. Token values for terminals are assigned sequentially in
// declaration order. Inconsistent definitions are reported as an error,
// either directly or as a GrammarError from the grammar builder.
func (ld *LanguageDef) Grammar() (*lr.Grammar, []scanner.Rule, error) {
	tokval := make(map[string]int)
	for i, td := range ld.Terminals {
		tokval[td.Name] = i + 1 // 0 is reserved
	}
	b := lr.NewGrammarBuilder(ld.Name)
	for _, pd := range ld.Productions {
		if _, isterm := tokval[pd.LHS]; isterm {
			return nil, nil, fmt.Errorf("LHS %q of a production is a terminal", pd.LHS)
		}
		rb := b.LHS(pd.LHS)
		for _, name := range pd.RHS {
			if tv, isterm := tokval[name]; isterm {
				rb.T(name, tv)
			} else {
				rb.N(name)
			}
		}
		rb.End()
	}
	if ld.Start != "" {
		b.SetStart(ld.Start)
	}
	g, err := b.Grammar()
	if err != nil {
		return nil, nil, err
	}
	rules := make([]scanner.Rule, 0, len(ld.Terminals)+len(ld.Skip))
	for _, td := range ld.Terminals {
		if g.SymbolByName(td.Name) == nil {
			tracer().Infof("terminal %q is declared but not used in any production", td.Name)
			continue
		}
		rules = append(rules, scanner.Rule{
			Terminal: td.Name,
			Literal:  td.Literal,
			Pattern:  td.Pattern,
			Priority: td.Priority,
		})
	}
	for _, sd := range ld.Skip {
		rules = append(rules, scanner.Rule{Skip: true, Pattern: sd.Pattern})
	}
	tracer().Infof("language %q: %d terminals, %d productions",
		ld.Name, len(ld.Terminals), len(ld.Productions))
	return g, rules, nil
}

// --- Built-in language definitions -------------------------------------------

//go:embed grammars/*.toml
var builtins embed.FS

// Builtin loads one of the language definitions shipping with the
// package, currently "json" and "sparql".
func Builtin(name string) (*LanguageDef, error) {
	data, err := builtins.ReadFile("grammars/" + name + ".toml")
	if err != nil {
		return nil, fmt.Errorf("no built-in language %q (have %s)", name, strings.Join(BuiltinNames(), ", "))
	}
	return Decode(string(data))
}

// BuiltinNames returns the names of all built-in language definitions,
// in alphabetical order.
func BuiltinNames() []string {
	entries, err := builtins.ReadDir("grammars")
	if err != nil {
		return nil
	}
	var names []string
	for _, e := range entries {
		names = append(names, strings.TrimSuffix(e.Name(), ".toml"))
	}
	sort.Strings(names)
	return names
}
