package interp

import (
	"math"
	"strings"

	"github.com/loxlang/lox/internal/ast"
	"github.com/loxlang/lox/internal/interp/runtime"
	"github.com/loxlang/lox/internal/token"
)

func (in *Interpreter) evaluate(e ast.Expr) (runtime.Value, error) {
	switch ex := e.(type) {
	case *ast.Literal:
		return ex.Value, nil

	case *ast.Grouping:
		return in.evaluate(ex.Inner)

	case *ast.Variable:
		return in.lookupVariable(ex.Name, ex)

	case *ast.Assign:
		val, err := in.evaluate(ex.Value)
		if err != nil {
			return nil, err
		}
		if dist, ok := in.locals[ex]; ok {
			in.env.AssignAt(dist, ex.Name.Lexeme, val)
		} else if !in.Globals.Assign(ex.Name.Lexeme, val) {
			return nil, in.runtimeErrorf(ex.Name.Pos, "undefined variable '%s'", ex.Name.Lexeme)
		}
		return val, nil

	case *ast.Unary:
		return in.evalUnary(ex)

	case *ast.Binary:
		return in.evalBinary(ex)

	case *ast.Logical:
		return in.evalLogical(ex)

	case *ast.Call:
		return in.evalCall(ex)

	case *ast.Get:
		return in.evalGet(ex)

	case *ast.Set:
		return in.evalSet(ex)

	case *ast.This:
		return in.lookupVariable(ex.Keyword, ex)

	case *ast.Super:
		return in.evalSuper(ex)

	case *ast.Lambda:
		return &runtime.Lambda{Params: ex.Params, Body: ex.Body, Closure: in.env}, nil

	case *ast.List:
		elems := make([]runtime.Value, len(ex.Elements))
		for i, el := range ex.Elements {
			v, err := in.evaluate(el)
			if err != nil {
				return nil, err
			}
			elems[i] = v
		}
		return runtime.NewList(elems), nil

	case *ast.Dict:
		d := runtime.NewDict()
		for _, entry := range ex.Pairs {
			k, err := in.evaluate(entry.Key)
			if err != nil {
				return nil, err
			}
			v, err := in.evaluate(entry.Value)
			if err != nil {
				return nil, err
			}
			if !runtime.IsHashable(k) {
				return nil, in.runtimeErrorf(ex.Brace.Pos, "dict keys must be numbers, strings, or bools")
			}
			d.Set(k, v)
		}
		return d, nil

	case *ast.Index:
		return in.evalIndex(ex)

	case *ast.IndexSet:
		return in.evalIndexSet(ex)

	default:
		return nil, in.runtimeErrorf(token.Position{}, "unhandled expression type %T", e)
	}
}

func (in *Interpreter) lookupVariable(name token.Token, expr ast.Expr) (runtime.Value, error) {
	if dist, ok := in.locals[expr]; ok {
		return in.env.GetAt(dist, name.Lexeme), nil
	}
	if v, ok := in.Globals.Get(name.Lexeme); ok {
		return v, nil
	}
	return nil, in.runtimeErrorf(name.Pos, "undefined variable '%s'", name.Lexeme)
}

func (in *Interpreter) evalUnary(ex *ast.Unary) (runtime.Value, error) {
	right, err := in.evaluate(ex.Right)
	if err != nil {
		return nil, err
	}
	switch ex.Op.Type {
	case token.MINUS:
		n, ok := right.(float64)
		if !ok {
			return nil, in.runtimeErrorf(ex.Op.Pos, "operand of '-' must be a number")
		}
		return -n, nil
	case token.BANG:
		return !runtime.IsTruthy(right), nil
	default:
		return nil, in.runtimeErrorf(ex.Op.Pos, "unknown unary operator '%s'", ex.Op.Lexeme)
	}
}

func (in *Interpreter) evalLogical(ex *ast.Logical) (runtime.Value, error) {
	left, err := in.evaluate(ex.Left)
	if err != nil {
		return nil, err
	}
	if ex.Op.Type == token.OR {
		if runtime.IsTruthy(left) {
			return left, nil
		}
	} else {
		if !runtime.IsTruthy(left) {
			return left, nil
		}
	}
	return in.evaluate(ex.Right)
}

func (in *Interpreter) evalBinary(ex *ast.Binary) (runtime.Value, error) {
	left, err := in.evaluate(ex.Left)
	if err != nil {
		return nil, err
	}
	right, err := in.evaluate(ex.Right)
	if err != nil {
		return nil, err
	}

	switch ex.Op.Type {
	case token.PLUS:
		if ln, ok := left.(float64); ok {
			if rn, ok := right.(float64); ok {
				return ln + rn, nil
			}
		}
		if ls, ok := left.(string); ok {
			if rs, ok := right.(string); ok {
				return ls + rs, nil
			}
		}
		return nil, in.runtimeErrorf(ex.Op.Pos, "operands of '+' must both be numbers or both be strings")
	case token.MINUS:
		return numBinOp(in, ex.Op, left, right, func(a, b float64) float64 { return a - b })
	case token.STAR:
		return numBinOp(in, ex.Op, left, right, func(a, b float64) float64 { return a * b })
	case token.SLASH:
		rn, rok := right.(float64)
		if rok && rn == 0 {
			return nil, in.runtimeErrorf(ex.Op.Pos, "division by zero")
		}
		return numBinOp(in, ex.Op, left, right, func(a, b float64) float64 { return a / b })
	case token.PERCENT:
		return numBinOp(in, ex.Op, left, right, func(a, b float64) float64 {
			m := a - b*float64(int64(a/b))
			return m
		})
	case token.BACKSLASH:
		ln, lok := left.(float64)
		rn, rok := right.(float64)
		if !lok || !rok {
			return nil, in.runtimeErrorf(ex.Op.Pos, "operands of '\\' must be numbers")
		}
		if ln != math.Trunc(ln) || rn != math.Trunc(rn) {
			return nil, in.runtimeErrorf(ex.Op.Pos, "operands of '\\' must be integral")
		}
		if rn == 0 {
			return nil, in.runtimeErrorf(ex.Op.Pos, "division by zero")
		}
		return math.Floor(ln / rn), nil
	case token.CARET:
		return numBinOp(in, ex.Op, left, right, math.Pow)
	case token.GREATER:
		return numCompare(in, ex.Op, left, right, func(a, b float64) bool { return a > b })
	case token.GREATER_EQUAL:
		return numCompare(in, ex.Op, left, right, func(a, b float64) bool { return a >= b })
	case token.LESS:
		return numCompare(in, ex.Op, left, right, func(a, b float64) bool { return a < b })
	case token.LESS_EQUAL:
		return numCompare(in, ex.Op, left, right, func(a, b float64) bool { return a <= b })
	case token.EQUAL_EQUAL:
		return runtime.Equal(left, right), nil
	case token.BANG_EQUAL:
		return !runtime.Equal(left, right), nil
	default:
		return nil, in.runtimeErrorf(ex.Op.Pos, "unknown binary operator '%s'", ex.Op.Lexeme)
	}
}

func numBinOp(in *Interpreter, op token.Token, left, right runtime.Value, f func(a, b float64) float64) (runtime.Value, error) {
	ln, lok := left.(float64)
	rn, rok := right.(float64)
	if !lok || !rok {
		return nil, in.runtimeErrorf(op.Pos, "operands of '%s' must be numbers", op.Lexeme)
	}
	return f(ln, rn), nil
}

func numCompare(in *Interpreter, op token.Token, left, right runtime.Value, f func(a, b float64) bool) (runtime.Value, error) {
	ln, lok := left.(float64)
	rn, rok := right.(float64)
	if lok && rok {
		return f(ln, rn), nil
	}
	ls, lsok := left.(string)
	rs, rsok := right.(string)
	if lsok && rsok {
		switch op.Type {
		case token.GREATER:
			return strings.Compare(ls, rs) > 0, nil
		case token.GREATER_EQUAL:
			return strings.Compare(ls, rs) >= 0, nil
		case token.LESS:
			return strings.Compare(ls, rs) < 0, nil
		case token.LESS_EQUAL:
			return strings.Compare(ls, rs) <= 0, nil
		}
	}
	return nil, in.runtimeErrorf(op.Pos, "operands of '%s' must both be numbers or both be strings", op.Lexeme)
}

func (in *Interpreter) evalCall(ex *ast.Call) (runtime.Value, error) {
	callee, err := in.evaluate(ex.Callee)
	if err != nil {
		return nil, err
	}

	args := make([]runtime.Value, len(ex.Args))
	for i, a := range ex.Args {
		v, err := in.evaluate(a)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}

	fn, ok := callee.(runtime.Callable)
	if !ok {
		return nil, in.runtimeErrorf(ex.ClosingParen.Pos, "can only call functions and classes")
	}
	if fn.Arity() >= 0 && len(args) != fn.Arity() {
		return nil, in.runtimeErrorf(ex.ClosingParen.Pos, "expected %d arguments but got %d", fn.Arity(), len(args))
	}
	return fn.Call(in, args)
}

func (in *Interpreter) evalGet(ex *ast.Get) (runtime.Value, error) {
	obj, err := in.evaluate(ex.Object)
	if err != nil {
		return nil, err
	}
	switch o := obj.(type) {
	case *runtime.Instance:
		if v, ok := o.Get(ex.Name.Lexeme); ok {
			return v, nil
		}
		return nil, in.runtimeErrorf(ex.Name.Pos, "undefined property '%s'", ex.Name.Lexeme)
	case *runtime.List:
		return listMethod(in, o, ex.Name)
	case *runtime.Dict:
		return dictMethod(in, o, ex.Name)
	case string:
		return stringMethod(in, o, ex.Name)
	default:
		return nil, in.runtimeErrorf(ex.Name.Pos, "only instances, lists, dicts, and strings have properties")
	}
}

func (in *Interpreter) evalSet(ex *ast.Set) (runtime.Value, error) {
	obj, err := in.evaluate(ex.Object)
	if err != nil {
		return nil, err
	}
	inst, ok := obj.(*runtime.Instance)
	if !ok {
		return nil, in.runtimeErrorf(ex.Name.Pos, "only instances have settable fields")
	}
	val, err := in.evaluate(ex.Value)
	if err != nil {
		return nil, err
	}
	inst.Set(ex.Name.Lexeme, val)
	return val, nil
}

func (in *Interpreter) evalSuper(ex *ast.Super) (runtime.Value, error) {
	dist, ok := in.locals[ex]
	if !ok {
		return nil, in.runtimeErrorf(ex.Keyword.Pos, "'super' used outside of a subclass method")
	}
	superVal := in.env.GetAt(dist, "super")
	super, ok := superVal.(*runtime.Class)
	if !ok {
		return nil, in.runtimeErrorf(ex.Keyword.Pos, "'super' did not resolve to a class")
	}
	thisVal := in.env.GetAt(dist-1, "this")
	instance, ok := thisVal.(*runtime.Instance)
	if !ok {
		return nil, in.runtimeErrorf(ex.Keyword.Pos, "'this' did not resolve to an instance")
	}
	method, ok := super.FindMethod(ex.Method.Lexeme)
	if !ok {
		return nil, in.runtimeErrorf(ex.Method.Pos, "undefined property '%s'", ex.Method.Lexeme)
	}
	return method.Bind(instance), nil
}

func (in *Interpreter) evalIndex(ex *ast.Index) (runtime.Value, error) {
	obj, err := in.evaluate(ex.Object)
	if err != nil {
		return nil, err
	}
	key, err := in.evaluate(ex.Key)
	if err != nil {
		return nil, err
	}

	switch o := obj.(type) {
	case *runtime.List:
		idx, ok := key.(float64)
		if !ok {
			return nil, in.runtimeErrorf(ex.Bracket.Pos, "list index must be a number")
		}
		i := int(idx)
		if i < 0 || i >= len(o.Elements) {
			return nil, in.runtimeErrorf(ex.Bracket.Pos, "list index out of range")
		}
		return o.Elements[i], nil
	case *runtime.Dict:
		if !runtime.IsHashable(key) {
			return nil, in.runtimeErrorf(ex.Bracket.Pos, "dict key must be a number, string, or bool")
		}
		v, ok := o.Get(key)
		if !ok {
			return nil, in.runtimeErrorf(ex.Bracket.Pos, "undefined key '%s'", runtime.Stringify(key))
		}
		return v, nil
	case string:
		idx, ok := key.(float64)
		if !ok {
			return nil, in.runtimeErrorf(ex.Bracket.Pos, "string index must be a number")
		}
		i := int(idx)
		if i < 0 || i >= len(o) {
			return nil, in.runtimeErrorf(ex.Bracket.Pos, "string index out of range")
		}
		return string(o[i]), nil
	default:
		return nil, in.runtimeErrorf(ex.Bracket.Pos, "only lists, dicts, and strings can be indexed")
	}
}

func (in *Interpreter) evalIndexSet(ex *ast.IndexSet) (runtime.Value, error) {
	obj, err := in.evaluate(ex.Object)
	if err != nil {
		return nil, err
	}
	key, err := in.evaluate(ex.Key)
	if err != nil {
		return nil, err
	}
	val, err := in.evaluate(ex.Value)
	if err != nil {
		return nil, err
	}

	switch o := obj.(type) {
	case *runtime.List:
		idx, ok := key.(float64)
		if !ok {
			return nil, in.runtimeErrorf(ex.Bracket.Pos, "list index must be a number")
		}
		i := int(idx)
		if i < 0 || i >= len(o.Elements) {
			return nil, in.runtimeErrorf(ex.Bracket.Pos, "list index out of range")
		}
		o.Elements[i] = val
		return val, nil
	case *runtime.Dict:
		if !runtime.IsHashable(key) {
			return nil, in.runtimeErrorf(ex.Bracket.Pos, "dict key must be a number, string, or bool")
		}
		o.Set(key, val)
		return val, nil
	default:
		return nil, in.runtimeErrorf(ex.Bracket.Pos, "only lists and dicts support index assignment")
	}
}
