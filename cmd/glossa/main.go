/*
Command glossa is an interactive playground for LR(1) parsing. It loads
a language definition (built-in or from a TOML file), constructs parse
tables for it on the fly and parses input, either one-shot or in a REPL.

	glossa parse --lang json '{"a": [1, 2, 3]}'
	glossa tables --lang sparql --dot cfsm.dot
	glossa repl --def mylang.toml

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.
*/
package main

import (
	"os"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/glossa-dev/glossa/langdef"
	"github.com/npillmayer/schuko/gtrace"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"
)

// tracer traces with key 'glossa.cli'.
func tracer() tracing.Trace {
	return tracing.Select("glossa.cli")
}

var (
	langName   string
	defFile    string
	traceLevel string
)

var rootCmd = &cobra.Command{
	Use:   "glossa",
	Short: "An LR(1) parsing playground",
	Long: `glossa builds LR(1) parse tables for a language definition and
parses input with them, without a code-generation or compile step.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		tracer().SetTraceLevel(tracing.TraceLevelFromString(traceLevel))
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&langName, "lang", "json", "built-in language definition to use")
	rootCmd.PersistentFlags().StringVar(&defFile, "def", "", "load the language definition from a TOML file")
	rootCmd.PersistentFlags().StringVar(&traceLevel, "trace", "Error", "trace level [Debug|Info|Error]")
	rootCmd.AddCommand(parseCmd)
	rootCmd.AddCommand(tablesCmd)
	rootCmd.AddCommand(replCmd)
}

// loadLanguage loads the language definition selected by the --def and
// --lang flags, with an explicit definition file taking precedence.
func loadLanguage() (*langdef.LanguageDef, error) {
	if defFile != "" {
		return langdef.Load(defFile)
	}
	return langdef.Builtin(langName)
}

// We use pterm for moderately fancy output.
func initDisplay() {
	pterm.Info.Prefix = pterm.Prefix{
		Text:  "  >>",
		Style: pterm.NewStyle(pterm.BgCyan, pterm.FgBlack),
	}
	pterm.Error.Prefix = pterm.Prefix{
		Text:  "  Error",
		Style: pterm.NewStyle(pterm.BgRed, pterm.FgBlack),
	}
}

func main() {
	initDisplay()
	gtrace.SyntaxTracer = gologadapter.New()
	if err := rootCmd.Execute(); err != nil {
		pterm.Error.Println(err.Error())
		os.Exit(1)
	}
}
