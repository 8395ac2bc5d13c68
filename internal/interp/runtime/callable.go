package runtime

import (
	"fmt"

	"github.com/loxlang/lox/internal/ast"
	"github.com/loxlang/lox/internal/token"
)

// Interp is the slice of the interpreter that a Callable needs in order to
// run a function body. Declaring it here (rather than importing the interp
// package directly) breaks what would otherwise be a runtime<->interp
// import cycle, the same seam the teacher draws between its runtime and
// evaluator packages.
type Interp interface {
	ExecuteBlock(stmts []ast.Stmt, env *Environment) error
}

// Callable is any value that can appear as the callee of a Call expression:
// user-defined functions, lambdas, bound methods, classes (as constructors),
// and native functions (spec §4.5).
type Callable interface {
	Arity() int
	Call(interp Interp, args []Value) (Value, error)
	String() string
}

// Function is a user-defined `fun` declaration or method, closing over the
// environment active at its definition site.
type Function struct {
	Name          string
	Params        []token.Token
	Body          []ast.Stmt
	Closure       *Environment
	IsInitializer bool
}

func (f *Function) Arity() int { return len(f.Params) }

func (f *Function) Call(interp Interp, args []Value) (Value, error) {
	env := NewEnclosedEnvironment(f.Closure)
	for i, p := range f.Params {
		env.Define(p.Lexeme, args[i])
	}

	err := interp.ExecuteBlock(f.Body, env)
	if err != nil {
		if ret, ok := err.(*ReturnSignal); ok {
			if f.IsInitializer {
				return f.Closure.GetAt(0, "this"), nil
			}
			return ret.Value, nil
		}
		return nil, err
	}

	if f.IsInitializer {
		return f.Closure.GetAt(0, "this"), nil
	}
	return nil, nil
}

// Bind returns a copy of the method closed over an environment where
// `this` is bound to instance (spec §4.5's method-binding rule).
func (f *Function) Bind(instance *Instance) *Function {
	env := NewEnclosedEnvironment(f.Closure)
	env.Define("this", instance)
	return &Function{Name: f.Name, Params: f.Params, Body: f.Body, Closure: env, IsInitializer: f.IsInitializer}
}

func (f *Function) String() string { return fmt.Sprintf("<fn %s>", f.Name) }

// Lambda is an anonymous function value produced by a `lambda` expression.
type Lambda struct {
	Params  []token.Token
	Body    []ast.Stmt
	Closure *Environment
}

func (l *Lambda) Arity() int { return len(l.Params) }

func (l *Lambda) Call(interp Interp, args []Value) (Value, error) {
	env := NewEnclosedEnvironment(l.Closure)
	for i, p := range l.Params {
		env.Define(p.Lexeme, args[i])
	}
	err := interp.ExecuteBlock(l.Body, env)
	if err != nil {
		if ret, ok := err.(*ReturnSignal); ok {
			return ret.Value, nil
		}
		return nil, err
	}
	return nil, nil
}

func (*Lambda) String() string { return "<lambda>" }

// NativeFunction wraps a Go function as a Lox-callable built-in.
type NativeFunction struct {
	FnName string
	Args   int // -1 means variadic
	Fn     func(args []Value) (Value, error)
}

func (n *NativeFunction) Arity() int { return n.Args }

func (n *NativeFunction) Call(_ Interp, args []Value) (Value, error) {
	return n.Fn(args)
}

func (n *NativeFunction) String() string { return fmt.Sprintf("<native fn %s>", n.FnName) }
