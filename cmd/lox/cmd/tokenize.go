package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/loxlang/lox/internal/lexer"
)

var tokenizeCmd = &cobra.Command{
	Use:   "tokenize <file>",
	Short: "Print the token stream for a Lox file",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		src, err := os.ReadFile(args[0])
		if err != nil {
			setExitCode(ExitDataError)
			return fmt.Errorf("cannot read %s: %w", args[0], err)
		}

		lx := lexer.New(string(src), args[0])
		toks := lx.Scan()
		for _, t := range toks {
			fmt.Println(t.String())
		}
		if lx.Errors().HasErrors() {
			fmt.Fprint(os.Stderr, lx.Errors().String())
			setExitCode(ExitDataError)
			return fmt.Errorf("tokenizing failed")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(tokenizeCmd)
}
