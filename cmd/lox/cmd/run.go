package cmd

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"

	"github.com/kr/pretty"
	"github.com/spf13/cobra"

	"github.com/loxlang/lox/internal/ast"
	"github.com/loxlang/lox/internal/config"
	"github.com/loxlang/lox/internal/interp"
	"github.com/loxlang/lox/internal/lexer"
	"github.com/loxlang/lox/internal/parser"
	"github.com/loxlang/lox/internal/resolver"
	"github.com/loxlang/lox/internal/units"
)

var (
	dumpAST bool
	trace   bool
	dumpEnv bool
)

var runCmd = &cobra.Command{
	Use:   "run [file]",
	Short: "Run a Lox program, or start a REPL with no file",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runLox,
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().BoolVar(&dumpAST, "dump-ast", false, "print the parsed program before running it")
	runCmd.Flags().BoolVar(&trace, "trace", false, "print each top-level statement as it executes")
	runCmd.Flags().BoolVar(&dumpEnv, "dump-env", false, "pretty-print the global environment after running")
}

func runLox(_ *cobra.Command, args []string) error {
	cfg, _ := config.Load("lox.yaml")

	if len(args) == 0 {
		return runREPL(cfg)
	}
	return runFile(args[0], cfg)
}

func runFile(path string, cfg *config.Config) error {
	src, err := os.ReadFile(path)
	if err != nil {
		setExitCode(ExitDataError)
		return fmt.Errorf("cannot read %s: %w", path, err)
	}

	prog, locals, err := compile(string(src), path)
	if err != nil {
		setExitCode(ExitDataError)
		return err
	}
	if dumpAST {
		fmt.Print(prog.String())
	}

	roots := append([]string{filepath.Dir(path)}, cfg.ImportPaths...)
	loader := units.New(roots, locals)

	in := interp.New(locals, os.Stdout, loader)
	if trace {
		for _, stmt := range prog.Stmts {
			fmt.Fprintf(os.Stderr, "trace: %s\n", stmt)
			if err := in.Run(&ast.Program{Stmts: []ast.Stmt{stmt}}); err != nil {
				setExitCode(ExitSoftwareErr)
				return err
			}
		}
	} else if err := in.Run(prog); err != nil {
		setExitCode(ExitSoftwareErr)
		return err
	}

	if dumpEnv {
		fmt.Fprintf(os.Stderr, "%# v\n", pretty.Formatter(in.Globals.Snapshot()))
	}
	return nil
}

func runREPL(cfg *config.Config) error {
	scanner := bufio.NewScanner(os.Stdin)
	locals := make(map[ast.Expr]int)
	loader := units.New(cfg.ImportPaths, locals)
	in := interp.New(locals, os.Stdout, loader)
	in.SetREPLMode(true)

	for {
		fmt.Print(cfg.ReplPrompt)
		if !scanner.Scan() {
			fmt.Println()
			return nil
		}
		line := scanner.Text()
		if line == "" {
			continue
		}

		prog, lineLocals, err := compile(line, "<repl>")
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			continue
		}
		for expr, dist := range lineLocals {
			locals[expr] = dist
		}
		if err := in.Run(prog); err != nil {
			fmt.Fprintln(os.Stderr, err)
		}
	}
}

// compile runs the lex -> parse -> resolve pipeline and halts at the first
// stage that reports an error (spec §7).
func compile(src, file string) (*ast.Program, map[ast.Expr]int, error) {
	lx := lexer.New(src, file)
	toks := lx.Scan()
	if lx.Errors().HasErrors() {
		return nil, nil, fmt.Errorf("%s", lx.Errors().String())
	}

	ps := parser.New(toks, src, file)
	prog := ps.ParseProgram()
	if ps.Errors().HasErrors() {
		return nil, nil, fmt.Errorf("%s", ps.Errors().String())
	}

	res := resolver.New(src, file)
	res.ResolveProgram(prog)
	if res.Errors().HasErrors() {
		return nil, nil, fmt.Errorf("%s", res.Errors().String())
	}

	return prog, res.Locals(), nil
}
