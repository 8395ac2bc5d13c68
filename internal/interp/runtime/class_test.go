package runtime

import (
	"testing"

	"github.com/loxlang/lox/internal/ast"
	"github.com/loxlang/lox/internal/token"
)

func TestClassFindMethodWalksSuperclassChain(t *testing.T) {
	base := NewClass("Base", nil, map[string]*Function{
		"greet": {Name: "greet", Closure: NewEnvironment()},
	})
	derived := NewClass("Derived", base, map[string]*Function{})

	m, ok := derived.FindMethod("greet")
	if !ok || m.Name != "greet" {
		t.Fatalf("expected to find inherited method greet, got %v, %v", m, ok)
	}

	if _, ok := derived.FindMethod("missing"); ok {
		t.Fatal("expected missing method lookup to fail")
	}
}

func TestClassArityMatchesInitializer(t *testing.T) {
	noInit := NewClass("Plain", nil, map[string]*Function{})
	if noInit.Arity() != 0 {
		t.Fatalf("expected arity 0 with no init, got %d", noInit.Arity())
	}

	params := []token.Token{
		{Type: token.IDENTIFIER, Lexeme: "a"},
		{Type: token.IDENTIFIER, Lexeme: "b"},
	}
	withInit := NewClass("WithInit", nil, map[string]*Function{
		"init": {Name: "init", Closure: NewEnvironment(), Params: params},
	})
	if withInit.Arity() != 2 {
		t.Fatalf("expected arity 2 from init, got %d", withInit.Arity())
	}
}

// setFieldInterp is a stub Interp whose ExecuteBlock just sets "count" on
// `this` directly, enough to exercise Class.Call's init-binding path
// without needing a full expression evaluator in this package's tests.
type setFieldInterp struct{}

func (setFieldInterp) ExecuteBlock(_ []ast.Stmt, env *Environment) error {
	this, _ := env.Get("this")
	if instance, ok := this.(*Instance); ok {
		instance.Set("count", 0.0)
	}
	return nil
}

func TestClassCallInstantiatesAndRunsInit(t *testing.T) {
	class := NewClass("Counter", nil, map[string]*Function{
		"init": {Name: "init", Closure: NewEnvironment(), IsInitializer: true},
	})

	v, err := class.Call(setFieldInterp{}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	instance, ok := v.(*Instance)
	if !ok {
		t.Fatalf("expected *Instance, got %T", v)
	}
	if instance.Class != class {
		t.Fatal("expected instance's class to be the constructing class")
	}
	if count, _ := instance.Get("count"); count != 0.0 {
		t.Fatalf("expected init to set count=0.0, got %v", count)
	}
}

func TestClassStringFormatsAsClassTag(t *testing.T) {
	class := NewClass("SomeClass", nil, map[string]*Function{})
	if got, want := class.String(), "<class SomeClass>"; got != want {
		t.Fatalf("Class.String() = %q, want %q", got, want)
	}
}

func TestInstanceGetFallsBackToBoundMethod(t *testing.T) {
	class := NewClass("C", nil, map[string]*Function{
		"m": {Name: "m", Closure: NewEnvironment()},
	})
	instance := NewInstance(class)
	instance.Set("field", "value")

	if v, ok := instance.Get("field"); !ok || v != "value" {
		t.Fatalf("expected field lookup to succeed, got %v, %v", v, ok)
	}

	v, ok := instance.Get("m")
	if !ok {
		t.Fatal("expected method lookup to succeed")
	}
	bound, ok := v.(*Function)
	if !ok {
		t.Fatalf("expected bound *Function, got %T", v)
	}
	if this, ok := bound.Closure.Get("this"); !ok || this != instance {
		t.Fatal("expected bound method's closure to bind this to the instance")
	}

	if _, ok := instance.Get("missing"); ok {
		t.Fatal("expected missing field/method lookup to fail")
	}
}
