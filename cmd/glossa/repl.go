package main

import (
	"strings"

	"github.com/chzyer/readline"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/glossa-dev/glossa/lr"
	"github.com/glossa-dev/glossa/lr/parser"
	"github.com/glossa-dev/glossa/lr/scanner"
)

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Parse input interactively",
	Long: `repl starts an interactive session for the selected language. Every
line of input is parsed and its parse tree rendered. Besides input
sentences, a few commands are understood:

    :grammar    print the rules of the grammar
    :conflicts  print the conflicts of the parse tables
    :quit       leave the session (as does ctrl-D)`,
	RunE: runRepl,
}

func init() {
	replCmd.Flags().BoolVar(&skipEmpty, "skip-empty", false, "drop sub-trees derived from epsilon rules")
	replCmd.Flags().BoolVar(&collapse, "collapse", false, "collapse derivation chains with a single child")
}

func runRepl(cmd *cobra.Command, args []string) error {
	ld, err := loadLanguage()
	if err != nil {
		return err
	}
	g, rules, err := ld.Grammar()
	if err != nil {
		return err
	}
	tables, err := lr.BuildTables(g)
	if err != nil {
		return err
	}
	gs, err := scanner.NewGrammarScanner(g, rules)
	if err != nil {
		return err
	}
	pterm.Info.Printf("language is %q, quit with :quit or ctrl-D\n", ld.Name)
	repl, err := readline.New("glossa> ")
	if err != nil {
		return err
	}
	defer repl.Close()
	p := parser.NewParser(tables, parseOptions()...)
	for {
		line, err := repl.Readline()
		if err != nil { // io.EOF
			break
		}
		if line = strings.TrimSpace(line); line == "" {
			continue
		}
		if strings.HasPrefix(line, ":") {
			if quit := command(line, g, tables); quit {
				break
			}
			continue
		}
		s, err := gs.Scanner(line)
		if err != nil {
			pterm.Error.Println(err.Error())
			continue
		}
		var lexerr error
		s.SetErrorHandler(func(e error) {
			if lexerr == nil {
				lexerr = e
			}
		})
		tree, err := p.Parse(s)
		if lexerr != nil {
			pterm.Error.Println(lexerr.Error())
			continue
		}
		if err != nil {
			pterm.Error.Println(err.Error())
			continue
		}
		renderTree(tree)
	}
	println("Good bye!")
	return nil
}

func command(line string, g *lr.Grammar, tables *lr.ParserTables) bool {
	switch line {
	case ":quit":
		return true
	case ":grammar":
		for i := 0; i < g.Size(); i++ {
			pterm.Println(g.Rule(i).String())
		}
	case ":conflicts":
		if !tables.HasConflicts() {
			pterm.Info.Println("grammar is LR(1), no conflicts")
			break
		}
		for _, c := range tables.Conflicts {
			pterm.Warning.Println(c.String())
		}
	default:
		pterm.Error.Printf("unknown command %q\n", line)
	}
	return false
}
