package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/glossa-dev/glossa/lr/parser"
)

var (
	skipEmpty bool
	collapse  bool
)

var parseCmd = &cobra.Command{
	Use:   "parse [input]",
	Short: "Parse input text and print its parse tree",
	Long: `parse tokenizes and parses its argument (or stdin, if no argument is
given) with the selected language and renders the resulting parse tree.`,
	RunE: runParse,
}

func init() {
	parseCmd.Flags().BoolVar(&skipEmpty, "skip-empty", false, "drop sub-trees derived from epsilon rules")
	parseCmd.Flags().BoolVar(&collapse, "collapse", false, "collapse derivation chains with a single child")
}

func runParse(cmd *cobra.Command, args []string) error {
	ld, err := loadLanguage()
	if err != nil {
		return err
	}
	g, rules, err := ld.Grammar()
	if err != nil {
		return err
	}
	input := strings.TrimSpace(strings.Join(args, " "))
	if input == "" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return err
		}
		input = strings.TrimSpace(string(data))
	}
	tree, err := parser.ParseText(g, rules, input, parseOptions()...)
	if err != nil {
		return err
	}
	pterm.Info.Printf("input is a sentence of language %q\n", ld.Name)
	renderTree(tree)
	return nil
}

func parseOptions() []parser.Option {
	return []parser.Option{
		parser.SkipEpsilon(skipEmpty),
		parser.CollapseSingle(collapse),
	}
}

// renderTree displays a parse tree on the terminal.
func renderTree(root *parser.Node) {
	ll := leveledNodes(root, pterm.LeveledList{}, 0)
	tr := pterm.NewTreeFromLeveledList(ll)
	pterm.DefaultTree.WithRoot(tr).Render()
}

func leveledNodes(n *parser.Node, ll pterm.LeveledList, level int) pterm.LeveledList {
	var text string
	switch n.Kind {
	case parser.Leaf:
		text = fmt.Sprintf("%s %q", n.Sym.Name, n.Token.Lexeme())
	case parser.Empty:
		text = n.Sym.Name + " ε"
	default:
		text = n.Sym.Name
	}
	ll = append(ll, pterm.LeveledListItem{
		Level: level,
		Text:  text,
	})
	for _, ch := range n.Children {
		ll = leveledNodes(ch, ll, level+1)
	}
	return ll
}
