// Package interp is the tree-walking evaluator (spec §4.4): it executes an
// AST directly against a runtime.Environment chain, using the resolver's
// distance map to jump straight to the scope that declares each reference.
//
// The Interpreter struct and its Execute/evaluate split follow the
// teacher's interpreter.go (internal/interp/interpreter.go in the
// retrieval pack); control flow (return/break/continue/throw) is threaded
// through Go error returns instead of panic/recover, per runtime.Interp.
package interp

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/loxlang/lox/internal/ast"
	"github.com/loxlang/lox/internal/diagnostics"
	"github.com/loxlang/lox/internal/interp/runtime"
	"github.com/loxlang/lox/internal/token"
	"github.com/loxlang/lox/internal/units"
)

// Interpreter walks a resolved AST, evaluating expressions and executing
// statements against a chain of runtime.Environment scopes.
type Interpreter struct {
	Globals *runtime.Environment
	env     *runtime.Environment
	locals  map[ast.Expr]int
	out     io.Writer
	in      io.Reader
	loader  *units.Loader

	stdinReader *bufio.Reader

	// replMode controls whether top-level expression statements echo their
	// value, per spec §6's REPL-vs-file distinction.
	replMode bool
}

// New creates an Interpreter with its global scope populated with built-ins
// (spec §4.5 and SPEC_FULL §11) and writing `print`/REPL output to out.
func New(locals map[ast.Expr]int, out io.Writer, loader *units.Loader) *Interpreter {
	if out == nil {
		out = os.Stdout
	}
	globals := runtime.NewEnvironment()
	in := &Interpreter{Globals: globals, env: globals, locals: locals, out: out, in: os.Stdin, loader: loader}
	registerBuiltins(globals, in)
	return in
}

// SetREPLMode toggles expression-statement echoing (spec §6).
func (in *Interpreter) SetREPLMode(v bool) { in.replMode = v }

// Run executes every top-level statement, stopping at the first runtime
// error or uncaught exception.
func (in *Interpreter) Run(prog *ast.Program) error {
	for _, stmt := range prog.Stmts {
		if err := in.execute(stmt); err != nil {
			return in.toDiagnostic(err)
		}
	}
	return nil
}

func (in *Interpreter) toDiagnostic(err error) error {
	switch e := err.(type) {
	case *runtime.ThrowSignal:
		return &diagnostics.Diagnostic{
			Stage:   diagnostics.Runtime,
			Message: fmt.Sprintf("uncaught exception: %s", runtime.Stringify(e.Value)),
		}
	case *diagnostics.Diagnostic:
		return e
	default:
		return &diagnostics.Diagnostic{Stage: diagnostics.Runtime, Message: err.Error()}
	}
}

// ExecuteBlock implements runtime.Interp: it runs stmts in env, satisfying
// the seam runtime.Function/Lambda.Call uses to run a body without the
// runtime package importing interp (breaking the would-be import cycle).
func (in *Interpreter) ExecuteBlock(stmts []ast.Stmt, env *runtime.Environment) error {
	previous := in.env
	in.env = env
	defer func() { in.env = previous }()

	for _, s := range stmts {
		if err := in.execute(s); err != nil {
			return err
		}
	}
	return nil
}

func (in *Interpreter) runtimeErrorf(pos token.Position, format string, args ...any) error {
	return &diagnostics.Diagnostic{Stage: diagnostics.Runtime, Pos: pos, Message: fmt.Sprintf(format, args...)}
}
