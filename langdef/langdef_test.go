package langdef

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glossa-dev/glossa/lr"
	"github.com/glossa-dev/glossa/lr/parser"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

const signedVarsDef = `
name  = "signed variables"
start = "Var"

[[terminals]]
name    = "id"
pattern = '[a-z]+'

[[terminals]]
name    = "+"
literal = "+"

[[terminals]]
name    = "-"
literal = "-"

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
rhs = ["-"]

[[productions]]
lhs = "Sign"
rhs = []
`

func TestDecode(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "glossa.langdef")
	defer teardown()
	ld, err := Decode(signedVarsDef)
	require.NoError(t, err)
	assert.Equal(t, "signed variables", ld.Name)
	assert.Equal(t, "Var", ld.Start)
	assert.Len(t, ld.Terminals, 3)
	assert.Len(t, ld.Skip, 1)
	assert.Len(t, ld.Productions, 4)
}

func TestDecodeErrors(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "glossa.langdef")
	defer teardown()
	_, err := Decode(`name = "empty"`)
	assert.Error(t, err, "no productions")
	dup := signedVarsDef + `
[[terminals]]
name    = "id"
pattern = '[A-Z]+'
`
	_, err = Decode(dup)
	assert.Error(t, err, "duplicate terminal")
}

func TestGrammarFromDef(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "glossa.langdef")
	defer teardown()
	ld, err := Decode(signedVarsDef)
	require.NoError(t, err)
	g, rules, err := ld.Grammar()
	require.NoError(t, err)
	assert.Equal(t, "Var", g.Start().Name)
	require.NotNil(t, g.SymbolByName("id"))
	assert.True(t, g.SymbolByName("id").IsTerminal())
	assert.Len(t, rules, 4) // 3 terminals + 1 skip
	tree, err := parser.ParseText(g, rules, "-abc")
	require.NoError(t, err)
	assert.Equal(t, `(Var (Sign "-") "abc")`, tree.Sexpr())
}

func TestGrammarRejectsTerminalLHS(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "glossa.langdef")
	defer teardown()
	ld, err := Decode(signedVarsDef + `
[[productions]]
lhs = "id"
rhs = ["+"]
`)
	require.NoError(t, err)
	_, _, err = ld.Grammar()
	assert.Error(t, err)
}

func TestBuiltinNames(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "glossa.langdef")
	defer teardown()
	assert.Equal(t, []string{"json", "sparql"}, BuiltinNames())
	_, err := Builtin("nosuch")
	assert.Error(t, err)
}

func TestBuiltinJSON(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "glossa.langdef")
	defer teardown()
	ld, err := Builtin("json")
	require.NoError(t, err)
	g, rules, err := ld.Grammar()
	require.NoError(t, err)
	tables, err := lr.BuildTables(g)
	require.NoError(t, err)
	assert.False(t, tables.HasConflicts(), "JSON grammar should be LR(1)")
	tree, err := parser.ParseText(g, rules, `{"a": [1, true, null], "b": {"c": -2.5e3}}`)
	require.NoError(t, err)
	assert.Equal(t, "value", tree.Sym.Name)

	_, err = parser.ParseText(g, rules, `{"a": }`)
	assert.Error(t, err)
	assert.IsType(t, &parser.ParseError{}, err)
}

func TestBuiltinSPARQL(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "glossa.langdef")
	defer teardown()
	ld, err := Builtin("sparql")
	require.NoError(t, err)
	g, rules, err := ld.Grammar()
	require.NoError(t, err)
	tables, err := lr.BuildTables(g)
	require.NoError(t, err)
	assert.False(t, tables.HasConflicts(), "SPARQL grammar should be LR(1)")
	query := `SELECT ?name ?age WHERE { ?p foaf:name ?name . ?p <http://xmlns.com/foaf/0.1/age> ?age }`
	tree, err := parser.ParseText(g, rules, query, parser.CollapseSingle(true))
	require.NoError(t, err)
	assert.Equal(t, "query", tree.Sym.Name)

	_, err = parser.ParseText(g, rules, `SELECT WHERE { ?a ?b ?c }`)
	assert.Error(t, err)
}

func leafText(n *parser.Node, b *strings.Builder) {
	if n.Kind == parser.Leaf {
		b.WriteString(n.Token.Lexeme())
		return
	}
	for _, ch := range n.Children {
		leafText(ch, b)
	}
}

func stripSpace(s string) string {
	return strings.Map(func(r rune) rune {
		if r == ' ' || r == '\t' || r == '\n' {
			return -1
		}
		return r
	}, s)
}

func TestBuiltinRoundTrip(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "glossa.langdef")
	defer teardown()
	inputs := map[string]string{
		"json":   `{"a": [1, true, null], "b": {"c": -2.5e3}}`,
		"sparql": `SELECT ?name ?age WHERE { ?p foaf:name ?name . ?p <http://xmlns.com/foaf/0.1/age> ?age }`,
	}
	for lang, input := range inputs {
		ld, err := Builtin(lang)
		require.NoError(t, err)
		g, rules, err := ld.Grammar()
		require.NoError(t, err)
		tree, err := parser.ParseText(g, rules, input)
		require.NoError(t, err)
		// whitespace is the only skipped input, so the leaves in order
		// must reconstruct everything else
		var b strings.Builder
		leafText(tree, &b)
		assert.Equal(t, stripSpace(input), b.String(), "%s leaves should reconstruct the input", lang)
	}
}
