package ast_test

import (
	"testing"

	"github.com/loxlang/lox/internal/ast"
	"github.com/loxlang/lox/internal/lexer"
	"github.com/loxlang/lox/internal/parser"
)

// reparse re-lexes and re-parses a printed AST, the round-trip spec §8
// expects of every node's String() method.
func reparse(t *testing.T, src string) *ast.Program {
	t.Helper()
	lx := lexer.New(src, "test.lox")
	toks := lx.Scan()
	if lx.Errors().HasErrors() {
		t.Fatalf("lex errors re-lexing %q: %s", src, lx.Errors().String())
	}
	p := parser.New(toks, src, "test.lox")
	prog := p.ParseProgram()
	if p.Errors().HasErrors() {
		t.Fatalf("parse errors re-parsing %q: %s", src, p.Errors().String())
	}
	return prog
}

func TestProgramStringRoundTrips(t *testing.T) {
	src := `var x = 1 + 2 * 3;
print x;
if (x > 0) print "positive"; else print "non-positive";
`
	prog := reparse(t, src)
	printed := prog.String()

	// Re-lexing/re-parsing the printed form must not fail and must produce
	// the same number of top-level statements.
	again := reparse(t, printed)
	if len(again.Stmts) != len(prog.Stmts) {
		t.Fatalf("round-trip statement count mismatch: got %d, want %d", len(again.Stmts), len(prog.Stmts))
	}
}

func TestExpressionStringForms(t *testing.T) {
	prog := reparse(t, `1 + 2 * 3;`)
	got := prog.Stmts[0].String()
	want := "(+ 1 (* 2 3));"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestClassWithSuperclassString(t *testing.T) {
	prog := reparse(t, `class Base {} class Derived < Base {}`)
	got := prog.Stmts[1].String()
	if got == "" {
		t.Fatal("expected a non-empty class string form")
	}
}
