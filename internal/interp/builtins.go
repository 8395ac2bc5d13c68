package interp

import (
	"bufio"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/loxlang/lox/internal/interp/runtime"
	"github.com/loxlang/lox/internal/token"
)

// registerBuiltins installs the native global functions (spec §4.5) plus
// the domain-stack additions wired in SPEC_FULL §11 (json_encode/decode,
// str_compare).
func registerBuiltins(env *runtime.Environment, in *Interpreter) {
	def := func(name string, arity int, fn func(args []runtime.Value) (runtime.Value, error)) {
		env.Define(name, &runtime.NativeFunction{FnName: name, Args: arity, Fn: fn})
	}

	def("clock", 0, func(args []runtime.Value) (runtime.Value, error) {
		return float64(time.Now().UnixNano()) / 1e9, nil
	})

	def("len", 1, func(args []runtime.Value) (runtime.Value, error) {
		switch v := args[0].(type) {
		case string:
			return float64(len(v)), nil
		case *runtime.List:
			return float64(len(v.Elements)), nil
		case *runtime.Dict:
			return float64(v.Len()), nil
		default:
			return nil, fmt.Errorf("len() requires a string, list, or dict")
		}
	})

	def("int", 1, func(args []runtime.Value) (runtime.Value, error) {
		switch v := args[0].(type) {
		case float64:
			return math.Trunc(v), nil
		case string:
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return nil, fmt.Errorf("int(): can't convert %q to a number", v)
			}
			return math.Trunc(f), nil
		default:
			return nil, fmt.Errorf("int() requires a number or string")
		}
	})

	def("float", 1, func(args []runtime.Value) (runtime.Value, error) {
		switch v := args[0].(type) {
		case float64:
			return v, nil
		case string:
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return nil, fmt.Errorf("float(): can't convert %q to a number", v)
			}
			return f, nil
		default:
			return nil, fmt.Errorf("float() requires a number or string")
		}
	})

	def("str", 1, func(args []runtime.Value) (runtime.Value, error) {
		return runtime.Stringify(args[0]), nil
	})

	def("input", -1, func(args []runtime.Value) (runtime.Value, error) {
		if len(args) > 0 {
			fmt.Fprint(in.out, runtime.Stringify(args[0]))
		}
		line, err := in.stdin().ReadString('\n')
		if err != nil && line == "" {
			return nil, nil
		}
		return trimNewline(line), nil
	})

	def("min", -1, func(args []runtime.Value) (runtime.Value, error) {
		return minMax(args, false)
	})
	def("max", -1, func(args []runtime.Value) (runtime.Value, error) {
		return minMax(args, true)
	})

	def("abs", 1, func(args []runtime.Value) (runtime.Value, error) {
		n, ok := args[0].(float64)
		if !ok {
			return nil, fmt.Errorf("abs() requires a number")
		}
		return math.Abs(n), nil
	})

	def("floor", 1, func(args []runtime.Value) (runtime.Value, error) {
		n, ok := args[0].(float64)
		if !ok {
			return nil, fmt.Errorf("floor() requires a number")
		}
		return math.Floor(n), nil
	})

	def("ceil", 1, func(args []runtime.Value) (runtime.Value, error) {
		n, ok := args[0].(float64)
		if !ok {
			return nil, fmt.Errorf("ceil() requires a number")
		}
		return math.Ceil(n), nil
	})

	def("array", -1, func(args []runtime.Value) (runtime.Value, error) {
		elems := make([]runtime.Value, len(args))
		copy(elems, args)
		return runtime.NewList(elems), nil
	})

	def("hash", 0, func(args []runtime.Value) (runtime.Value, error) {
		return runtime.NewDict(), nil
	})

	def("type", 1, func(args []runtime.Value) (runtime.Value, error) {
		return runtime.TypeName(args[0]), nil
	})

	def("json_encode", 1, func(args []runtime.Value) (runtime.Value, error) {
		return jsonEncode(args[0])
	})
	def("json_decode", 1, func(args []runtime.Value) (runtime.Value, error) {
		s, ok := args[0].(string)
		if !ok {
			return nil, fmt.Errorf("json_decode() requires a string")
		}
		return jsonDecode(s)
	})
	def("str_compare", 2, func(args []runtime.Value) (runtime.Value, error) {
		a, aok := args[0].(string)
		b, bok := args[1].(string)
		if !aok || !bok {
			return nil, fmt.Errorf("str_compare() requires two strings")
		}
		return float64(collatedCompare(a, b)), nil
	})
}

func minMax(args []runtime.Value, wantMax bool) (runtime.Value, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("expected at least one argument")
	}
	best, ok := args[0].(float64)
	if !ok {
		return nil, fmt.Errorf("arguments must be numbers")
	}
	for _, a := range args[1:] {
		n, ok := a.(float64)
		if !ok {
			return nil, fmt.Errorf("arguments must be numbers")
		}
		if (wantMax && n > best) || (!wantMax && n < best) {
			best = n
		}
	}
	return best, nil
}

func trimNewline(s string) string {
	for len(s) > 0 && (s[len(s)-1] == '\n' || s[len(s)-1] == '\r') {
		s = s[:len(s)-1]
	}
	return s
}

// listMethod dispatches the host methods exposed on List values (spec §4.5,
// SPEC_FULL §12): get/set/append/pop/copy/len.
func listMethod(in *Interpreter, l *runtime.List, name token.Token) (runtime.Value, error) {
	method := func(fn func(args []runtime.Value) (runtime.Value, error), arity int) runtime.Value {
		return &runtime.NativeFunction{FnName: name.Lexeme, Args: arity, Fn: fn}
	}

	switch name.Lexeme {
	case "get":
		return method(func(args []runtime.Value) (runtime.Value, error) {
			i, ok := args[0].(float64)
			if !ok || int(i) < 0 || int(i) >= len(l.Elements) {
				return nil, fmt.Errorf("list.get(): index out of range")
			}
			return l.Elements[int(i)], nil
		}, 1), nil
	case "set":
		return method(func(args []runtime.Value) (runtime.Value, error) {
			i, ok := args[0].(float64)
			if !ok || int(i) < 0 || int(i) >= len(l.Elements) {
				return nil, fmt.Errorf("list.set(): index out of range")
			}
			l.Elements[int(i)] = args[1]
			return args[1], nil
		}, 2), nil
	case "append":
		return method(func(args []runtime.Value) (runtime.Value, error) {
			l.Elements = append(l.Elements, args[0])
			return nil, nil
		}, 1), nil
	case "pop":
		return method(func(args []runtime.Value) (runtime.Value, error) {
			if len(l.Elements) == 0 {
				return nil, fmt.Errorf("list.pop(): list is empty")
			}
			last := l.Elements[len(l.Elements)-1]
			l.Elements = l.Elements[:len(l.Elements)-1]
			return last, nil
		}, 0), nil
	case "copy":
		return method(func(args []runtime.Value) (runtime.Value, error) {
			cp := make([]runtime.Value, len(l.Elements))
			copy(cp, l.Elements)
			return runtime.NewList(cp), nil
		}, 0), nil
	case "len":
		return method(func(args []runtime.Value) (runtime.Value, error) {
			return float64(len(l.Elements)), nil
		}, 0), nil
	default:
		return nil, in.runtimeErrorf(name.Pos, "lists have no method '%s'", name.Lexeme)
	}
}

// dictMethod dispatches the host methods exposed on Dict values: get/set/
// keys/values/has/len (spec §4.5, SPEC_FULL §12).
func dictMethod(in *Interpreter, d *runtime.Dict, name token.Token) (runtime.Value, error) {
	method := func(fn func(args []runtime.Value) (runtime.Value, error), arity int) runtime.Value {
		return &runtime.NativeFunction{FnName: name.Lexeme, Args: arity, Fn: fn}
	}

	switch name.Lexeme {
	case "get":
		return method(func(args []runtime.Value) (runtime.Value, error) {
			if !runtime.IsHashable(args[0]) {
				return nil, fmt.Errorf("dict.get(): key must be a number, string, or bool")
			}
			v, _ := d.Get(args[0])
			return v, nil
		}, 1), nil
	case "set":
		return method(func(args []runtime.Value) (runtime.Value, error) {
			if !runtime.IsHashable(args[0]) {
				return nil, fmt.Errorf("dict.set(): key must be a number, string, or bool")
			}
			d.Set(args[0], args[1])
			return args[1], nil
		}, 2), nil
	case "keys":
		return method(func(args []runtime.Value) (runtime.Value, error) {
			keys := d.Keys()
			elems := make([]runtime.Value, len(keys))
			for i, k := range keys {
				elems[i] = k
			}
			return runtime.NewList(elems), nil
		}, 0), nil
	case "values":
		return method(func(args []runtime.Value) (runtime.Value, error) {
			keys := d.Keys()
			elems := make([]runtime.Value, len(keys))
			for i, k := range keys {
				v, _ := d.Get(k)
				elems[i] = v
			}
			return runtime.NewList(elems), nil
		}, 0), nil
	case "has":
		return method(func(args []runtime.Value) (runtime.Value, error) {
			if !runtime.IsHashable(args[0]) {
				return nil, fmt.Errorf("dict.has(): key must be a number, string, or bool")
			}
			return d.Has(args[0]), nil
		}, 1), nil
	case "len":
		return method(func(args []runtime.Value) (runtime.Value, error) {
			return float64(d.Len()), nil
		}, 0), nil
	default:
		return nil, in.runtimeErrorf(name.Pos, "dicts have no method '%s'", name.Lexeme)
	}
}

// stringMethod exposes a small set of string helpers the same way lists and
// dicts expose host methods, kept consistent with spec §4.5's "strings
// behave like other built-in objects for host method dispatch" note.
func stringMethod(in *Interpreter, s string, name token.Token) (runtime.Value, error) {
	method := func(fn func(args []runtime.Value) (runtime.Value, error), arity int) runtime.Value {
		return &runtime.NativeFunction{FnName: name.Lexeme, Args: arity, Fn: fn}
	}

	switch name.Lexeme {
	case "len":
		return method(func(args []runtime.Value) (runtime.Value, error) {
			return float64(len(s)), nil
		}, 0), nil
	default:
		return nil, in.runtimeErrorf(name.Pos, "strings have no method '%s'", name.Lexeme)
	}
}

func (in *Interpreter) stdin() *bufio.Reader {
	if in.stdinReader == nil {
		in.stdinReader = bufio.NewReader(in.in)
	}
	return in.stdinReader
}
