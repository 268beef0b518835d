package main

import (
	"os"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/glossa-dev/glossa/lr"
)

var (
	htmlOut string
	dotOut  string
)

var tablesCmd = &cobra.Command{
	Use:   "tables",
	Short: "Build LR(1) parse tables and report on them",
	Long: `tables constructs the LR(1) parse tables for the selected language and
reports their size and all conflicts. The characteristic finite state
machine and the tables may be exported for inspection.`,
	RunE: runTables,
}

func init() {
	tablesCmd.Flags().StringVar(&dotOut, "dot", "", "export the CFSM to a Graphviz Dot file")
	tablesCmd.Flags().StringVar(&htmlOut, "html", "", "export ACTION and GOTO tables to an HTML file")
}

func runTables(cmd *cobra.Command, args []string) error {
	ld, err := loadLanguage()
	if err != nil {
		return err
	}
	g, _, err := ld.Grammar()
	if err != nil {
		return err
	}
	lrgen := lr.NewTableGenerator(lr.Analysis(g))
	tables, err := lrgen.BuildTables()
	if err != nil {
		return err
	}
	pterm.Info.Printf("grammar %q has %d rules\n", g.Name, g.Size())
	pterm.Info.Printf("CFSM has %d states, start state is %d\n", tables.StateCount, tables.StartState)
	if tables.HasConflicts() {
		pterm.Warning.Printf("grammar is not LR(1): %d conflicts\n", len(tables.Conflicts))
		for _, c := range tables.Conflicts {
			pterm.Warning.Println(c.String())
		}
	} else {
		pterm.Info.Println("grammar is LR(1), no conflicts")
	}
	if dotOut != "" {
		lrgen.CFSM().CFSM2GraphViz(dotOut)
		pterm.Info.Printf("CFSM written to %s\n", dotOut)
	}
	if htmlOut != "" {
		f, err := os.Create(htmlOut)
		if err != nil {
			return err
		}
		defer f.Close()
		lr.ActionTableAsHTML(lrgen, f)
		lr.GotoTableAsHTML(lrgen, f)
		pterm.Info.Printf("tables written to %s\n", htmlOut)
	}
	return nil
}
