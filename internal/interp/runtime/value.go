// Package runtime defines the Lox runtime value model (spec §3) and the
// Environment used to store bindings. The tagged-interface value shape and
// the nested-environment scope chain follow the teacher's runtime package
// (internal/interp/runtime/value_interfaces.go, environment.go in the
// retrieval pack); unlike the teacher, Lox is case-sensitive, so Environment
// stores bindings in a plain map rather than the teacher's case-insensitive
// pkg/ident.Map.
package runtime

import (
	"fmt"
	"strconv"
	"strings"
)

// Value is any runtime Lox value: Nil, a Go bool, a Go float64 (Number), a
// Go string, *List, *Dict, Callable, or *Instance.
type Value any

// IsTruthy implements Lox's truthiness rule: nil and false are falsey,
// everything else (including 0 and "") is truthy (spec §4.4).
func IsTruthy(v Value) bool {
	if v == nil {
		return false
	}
	if b, ok := v.(bool); ok {
		return b
	}
	return true
}

// Equal implements Lox's `==`: nil equals only nil, numbers/strings/bools
// compare by value, and everything else (lists, dicts, callables,
// instances) compares by reference identity (spec §4.4).
func Equal(a, b Value) bool {
	if a == nil && b == nil {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	switch av := a.(type) {
	case float64:
		bv, ok := b.(float64)
		return ok && av == bv
	case string:
		bv, ok := b.(string)
		return ok && av == bv
	case bool:
		bv, ok := b.(bool)
		return ok && av == bv
	default:
		return a == b
	}
}

// Stringify renders a value the way `print` and `str()` do.
func Stringify(v Value) string {
	switch val := v.(type) {
	case nil:
		return "nil"
	case bool:
		return strconv.FormatBool(val)
	case float64:
		return formatNumber(val)
	case string:
		return val
	case *List:
		return val.String()
	case *Dict:
		return val.String()
	case *Instance:
		return val.String()
	case *Class:
		return val.String()
	case Callable:
		return val.String()
	default:
		return fmt.Sprintf("%v", val)
	}
}

func formatNumber(f float64) string {
	s := strconv.FormatFloat(f, 'g', -1, 64)
	return s
}

// TypeName reports the Lox type name used by the `type()` builtin.
func TypeName(v Value) string {
	switch v.(type) {
	case nil:
		return "nil"
	case bool:
		return "bool"
	case float64:
		return "number"
	case string:
		return "string"
	case *List:
		return "list"
	case *Dict:
		return "dict"
	case *Instance:
		return "instance"
	case *Class:
		return "class"
	case Callable:
		return "function"
	default:
		return "unknown"
	}
}

// List is Lox's mutable, dynamically-sized array value (spec §4.5).
type List struct {
	Elements []Value
}

func NewList(elems []Value) *List { return &List{Elements: elems} }

func (l *List) String() string {
	parts := make([]string, len(l.Elements))
	for i, e := range l.Elements {
		if s, ok := e.(string); ok {
			parts[i] = strconv.Quote(s)
		} else {
			parts[i] = Stringify(e)
		}
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// IsHashable reports whether v may be used as a Dict key: numbers, strings,
// and bools compare by value and are safe as Go map keys; everything else
// (lists, dicts, callables, instances) compares by reference and is rejected.
func IsHashable(v Value) bool {
	switch v.(type) {
	case float64, string, bool:
		return true
	default:
		return false
	}
}

// Dict is Lox's hash map value, keyed by any hashable value (spec §3, §4.5).
type Dict struct {
	entries map[Value]Value
	// order preserves insertion order for deterministic iteration/printing.
	order []Value
}

func NewDict() *Dict { return &Dict{entries: make(map[Value]Value)} }

func (d *Dict) Get(key Value) (Value, bool) {
	v, ok := d.entries[key]
	return v, ok
}

func (d *Dict) Set(key Value, val Value) {
	if _, exists := d.entries[key]; !exists {
		d.order = append(d.order, key)
	}
	d.entries[key] = val
}

func (d *Dict) Has(key Value) bool {
	_, ok := d.entries[key]
	return ok
}

func (d *Dict) Keys() []Value {
	keys := make([]Value, len(d.order))
	copy(keys, d.order)
	return keys
}

func (d *Dict) Len() int { return len(d.entries) }

func (d *Dict) String() string {
	parts := make([]string, len(d.order))
	for i, k := range d.order {
		var key string
		if s, ok := k.(string); ok {
			key = strconv.Quote(s)
		} else {
			key = Stringify(k)
		}
		parts[i] = fmt.Sprintf("%s: %s", key, Stringify(d.entries[k]))
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
