package interp

import (
	"fmt"

	"github.com/loxlang/lox/internal/ast"
	"github.com/loxlang/lox/internal/interp/runtime"
	"github.com/loxlang/lox/internal/token"
)

func (in *Interpreter) execute(s ast.Stmt) error {
	switch st := s.(type) {
	case *ast.Expression:
		val, err := in.evaluate(st.Expr)
		if err != nil {
			return err
		}
		if in.replMode {
			_, isAssign := st.Expr.(*ast.Assign)
			_, isSet := st.Expr.(*ast.Set)
			_, isIndexSet := st.Expr.(*ast.IndexSet)
			if !isAssign && !isSet && !isIndexSet {
				fmt.Fprintln(in.out, runtime.Stringify(val))
			}
		}
		return nil

	case *ast.Print:
		val, err := in.evaluate(st.Expr)
		if err != nil {
			return err
		}
		fmt.Fprintln(in.out, runtime.Stringify(val))
		return nil

	case *ast.Var:
		var val runtime.Value
		if st.Initializer != nil {
			v, err := in.evaluate(st.Initializer)
			if err != nil {
				return err
			}
			val = v
		}
		in.env.Define(st.Name.Lexeme, val)
		return nil

	case *ast.Block:
		return in.ExecuteBlock(st.Stmts, runtime.NewEnclosedEnvironment(in.env))

	case *ast.If:
		cond, err := in.evaluate(st.Cond)
		if err != nil {
			return err
		}
		if runtime.IsTruthy(cond) {
			return in.execute(st.Then)
		} else if st.Else != nil {
			return in.execute(st.Else)
		}
		return nil

	case *ast.While:
		return in.executeWhile(st)

	case *ast.Function:
		fn := &runtime.Function{Name: st.Name.Lexeme, Params: st.Params, Body: st.Body, Closure: in.env}
		in.env.Define(st.Name.Lexeme, fn)
		return nil

	case *ast.Return:
		var val runtime.Value
		if st.Value != nil {
			v, err := in.evaluate(st.Value)
			if err != nil {
				return err
			}
			val = v
		}
		return &runtime.ReturnSignal{Value: val}

	case *ast.Break:
		return &runtime.BreakSignal{}

	case *ast.Continue:
		return &runtime.ContinueSignal{}

	case *ast.Throw:
		val, err := in.evaluate(st.Value)
		if err != nil {
			return err
		}
		return &runtime.ThrowSignal{Value: val}

	case *ast.Try:
		return in.executeTry(st)

	case *ast.Class:
		return in.executeClass(st)

	case *ast.Import:
		return in.executeImport(st)

	default:
		return in.runtimeErrorf(token.Position{}, "unhandled statement type %T", s)
	}
}

// executeWhile implements both plain `while` and desugared `for` loops
// (spec §4.2/§4.4): a `continue` re-enters the loop at the increment step
// (when one was retained by desugaring) rather than skipping straight to
// the condition test, matching C-family for-loop semantics.
func (in *Interpreter) executeWhile(st *ast.While) error {
	for {
		cond, err := in.evaluate(st.Cond)
		if err != nil {
			return err
		}
		if !runtime.IsTruthy(cond) {
			return nil
		}

		err = in.execute(st.Body)
		if err != nil {
			switch err.(type) {
			case *runtime.BreakSignal:
				return nil
			case *runtime.ContinueSignal:
				// fall through to increment + re-test below
			default:
				return err
			}
		}

		if st.Increment != nil {
			if _, err := in.evaluate(st.Increment); err != nil {
				return err
			}
		}
	}
}

func (in *Interpreter) executeTry(st *ast.Try) error {
	err := in.execute(st.TryBlock)

	if thrown, ok := err.(*runtime.ThrowSignal); ok && len(st.ExceptClauses) > 0 {
		clause := st.ExceptClauses[0]
		catchEnv := runtime.NewEnclosedEnvironment(in.env)
		catchEnv.Define(clause.Name.Lexeme, thrown.Value)
		err = in.ExecuteBlock(clause.Body.Stmts, catchEnv)
	}

	if st.Finally != nil {
		if ferr := in.execute(st.Finally); ferr != nil {
			// a control-flow exit from `finally` always wins, matching the
			// spec's "finally always runs, including overriding an
			// in-flight exception or return" rule.
			return ferr
		}
	}

	return err
}

func (in *Interpreter) executeClass(st *ast.Class) error {
	var superclass *runtime.Class
	if st.Superclass != nil {
		val, err := in.evaluate(st.Superclass)
		if err != nil {
			return err
		}
		sc, ok := val.(*runtime.Class)
		if !ok {
			return in.runtimeErrorf(st.Superclass.Name.Pos, "superclass must be a class")
		}
		superclass = sc
	}

	in.env.Define(st.Name.Lexeme, nil)

	classEnv := in.env
	if st.Superclass != nil {
		classEnv = runtime.NewEnclosedEnvironment(in.env)
		classEnv.Define("super", superclass)
	}

	methods := make(map[string]*runtime.Function, len(st.Methods))
	for _, m := range st.Methods {
		methods[m.Name.Lexeme] = &runtime.Function{
			Name:          m.Name.Lexeme,
			Params:        m.Params,
			Body:          m.Body,
			Closure:       classEnv,
			IsInitializer: m.Name.Lexeme == "init",
		}
	}

	class := runtime.NewClass(st.Name.Lexeme, superclass, methods)
	in.env.Assign(st.Name.Lexeme, class)
	return nil
}

func (in *Interpreter) executeImport(st *ast.Import) error {
	if in.loader == nil {
		return in.runtimeErrorf(st.Keyword.Pos, "imports are disabled")
	}
	prog, err := in.loader.Load(st.Path)
	if err != nil {
		return in.runtimeErrorf(st.Keyword.Pos, "%s", err)
	}
	if prog == nil {
		// already loaded by an earlier import; a no-op re-import.
		return nil
	}
	return in.ExecuteBlock(prog.Stmts, in.Globals)
}
