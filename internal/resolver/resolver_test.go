package resolver

import (
	"testing"

	"github.com/loxlang/lox/internal/ast"
	"github.com/loxlang/lox/internal/lexer"
	"github.com/loxlang/lox/internal/parser"
)

func resolveSource(t *testing.T, src string) (*ast.Program, *Resolver) {
	t.Helper()
	lx := lexer.New(src, "test.lox")
	toks := lx.Scan()
	if lx.Errors().HasErrors() {
		t.Fatalf("lex errors: %s", lx.Errors().String())
	}
	p := parser.New(toks, src, "test.lox")
	prog := p.ParseProgram()
	if p.Errors().HasErrors() {
		t.Fatalf("parse errors: %s", p.Errors().String())
	}
	r := New(src, "test.lox")
	r.ResolveProgram(prog)
	return prog, r
}

func TestResolveBlockLocalDistance(t *testing.T) {
	_, r := resolveSource(t, `
var a = 1;
{
  var b = 2;
  print a;
  print b;
}
`)
	if r.Errors().HasErrors() {
		t.Fatalf("unexpected resolve errors: %s", r.Errors().String())
	}
	// `a` is a top-level (global) binding, resolved at runtime by name, so
	// only the block-scoped read of `b` shows up in the distance map.
	dists := make([]int, 0)
	for _, d := range r.Locals() {
		dists = append(dists, d)
	}
	if len(dists) != 1 || dists[0] != 0 {
		t.Fatalf("expected exactly one resolved local at distance 0, got %v", dists)
	}
}

func TestResolveSelfReferenceInInitializerIsAnError(t *testing.T) {
	// The self-read check only fires inside a local scope: a top-level
	// `var a = a;` has no enclosing scope to detect the shadowing read in.
	_, r := resolveSource(t, `{ var a = a; }`)
	if !r.Errors().HasErrors() {
		t.Fatal("expected an error reading a local variable in its own initializer")
	}
}

func TestResolveDuplicateLocalDeclarationIsAnError(t *testing.T) {
	_, r := resolveSource(t, `{ var a = 1; var a = 2; }`)
	if !r.Errors().HasErrors() {
		t.Fatal("expected an error for a duplicate local declaration")
	}
}

func TestResolveReturnOutsideFunctionIsAnError(t *testing.T) {
	_, r := resolveSource(t, `return 1;`)
	if !r.Errors().HasErrors() {
		t.Fatal("expected an error for 'return' outside a function")
	}
}

func TestResolveBreakOutsideLoopIsAnError(t *testing.T) {
	_, r := resolveSource(t, `break;`)
	if !r.Errors().HasErrors() {
		t.Fatal("expected an error for 'break' outside a loop")
	}
}

func TestResolveThisOutsideClassIsAnError(t *testing.T) {
	_, r := resolveSource(t, `print this;`)
	if !r.Errors().HasErrors() {
		t.Fatal("expected an error for 'this' outside a class")
	}
}

func TestResolveSuperWithoutSuperclassIsAnError(t *testing.T) {
	_, r := resolveSource(t, `class C { m() { super.m(); } }`)
	if !r.Errors().HasErrors() {
		t.Fatal("expected an error for 'super' in a class with no superclass")
	}
}

func TestResolveClassInheritingFromItselfIsAnError(t *testing.T) {
	_, r := resolveSource(t, `class C < C {}`)
	if !r.Errors().HasErrors() {
		t.Fatal("expected an error for a class inheriting from itself")
	}
}
