package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/loxlang/lox/internal/lexer"
	"github.com/loxlang/lox/internal/parser"
)

var parseCmd = &cobra.Command{
	Use:   "parse <file>",
	Short: "Print the parsed AST for a Lox file",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		src, err := os.ReadFile(args[0])
		if err != nil {
			setExitCode(ExitDataError)
			return fmt.Errorf("cannot read %s: %w", args[0], err)
		}

		lx := lexer.New(string(src), args[0])
		toks := lx.Scan()
		if lx.Errors().HasErrors() {
			fmt.Fprint(os.Stderr, lx.Errors().String())
			setExitCode(ExitDataError)
			return fmt.Errorf("parsing failed")
		}

		ps := parser.New(toks, string(src), args[0])
		prog := ps.ParseProgram()
		if ps.Errors().HasErrors() {
			fmt.Fprint(os.Stderr, ps.Errors().String())
			setExitCode(ExitDataError)
			return fmt.Errorf("parsing failed")
		}

		fmt.Print(prog.String())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(parseCmd)
}
