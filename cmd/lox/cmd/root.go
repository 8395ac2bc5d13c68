package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version information, set by build flags the way the teacher's CLI does
// (cmd/dwscript/cmd/root.go in the retrieval pack).
var (
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Exit codes per spec §6: a clean run is 0, a lex/parse/resolve failure is
// 65 (EX_DATAERR), and an uncaught runtime exception is 70 (EX_SOFTWARE).
const (
	ExitOK          = 0
	ExitDataError   = 65
	ExitSoftwareErr = 70
)

var exitCode int

var rootCmd = &cobra.Command{
	Use:   "lox",
	Short: "A tree-walking interpreter for Lox",
	Long: `lox is a tree-walking interpreter for the Lox scripting language:
lexer, recursive-descent parser, lexical resolver, and evaluator, with a
small set of host built-ins (lists, dicts, JSON bridging) layered on top.`,
	Version: Version,
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf(`{{with .Name}}{{printf "%%s " .}}{{end}}{{printf "version %%s" .Version}}
Commit: %s
Built:  %s
`, GitCommit, BuildDate))

	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output")
}

// Execute runs the root command and returns the process exit code, so
// callers honor the specific codes in spec §6 instead of a blanket 1.
func Execute() int {
	exitCode = ExitOK
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		if exitCode == ExitOK {
			exitCode = ExitSoftwareErr
		}
	}
	return exitCode
}

func setExitCode(code int) { exitCode = code }
