package parser

import (
	"testing"

	"github.com/loxlang/lox/internal/ast"
	"github.com/loxlang/lox/internal/lexer"
)

func parseSource(t *testing.T, src string) *ast.Program {
	t.Helper()
	lx := lexer.New(src, "test.lox")
	toks := lx.Scan()
	if lx.Errors().HasErrors() {
		t.Fatalf("lex errors: %s", lx.Errors().String())
	}
	p := New(toks, src, "test.lox")
	prog := p.ParseProgram()
	if p.Errors().HasErrors() {
		t.Fatalf("parse errors: %s", p.Errors().String())
	}
	return prog
}

func TestParseArithmeticPrecedence(t *testing.T) {
	prog := parseSource(t, "print 1 + 2 * 3 - 4 / 2;")
	if len(prog.Stmts) != 1 {
		t.Fatalf("expected 1 statement, got %d", len(prog.Stmts))
	}
	p, ok := prog.Stmts[0].(*ast.Print)
	if !ok {
		t.Fatalf("expected *ast.Print, got %T", prog.Stmts[0])
	}
	bin, ok := p.Expr.(*ast.Binary)
	if !ok || bin.Op.Lexeme != "-" {
		t.Fatalf("expected top-level '-' binary, got %#v", p.Expr)
	}
}

func TestParseFlooredDivisionAndExponentiationOperators(t *testing.T) {
	prog := parseSource(t, "print a \\ b; print a ^ b;")
	if len(prog.Stmts) != 2 {
		t.Fatalf("expected 2 statements, got %d", len(prog.Stmts))
	}
	for i, want := range []string{"\\", "^"} {
		p, ok := prog.Stmts[i].(*ast.Print)
		if !ok {
			t.Fatalf("expected *ast.Print, got %T", prog.Stmts[i])
		}
		bin, ok := p.Expr.(*ast.Binary)
		if !ok || bin.Op.Lexeme != want {
			t.Fatalf("expected top-level %q binary, got %#v", want, p.Expr)
		}
	}
}

func TestParseAssignmentTargets(t *testing.T) {
	parseSource(t, `var x = 1; x = 2;`)
	parseSource(t, `class C { init() { this.y = 1; } } var c = C(); c.y = 2;`)
	parseSource(t, `var xs = [1]; xs[0] = 9;`)
}

func TestParseForDesugarsToWhileWithIncrement(t *testing.T) {
	prog := parseSource(t, `for (var i = 0; i < 3; i = i + 1) print i;`)
	block, ok := prog.Stmts[0].(*ast.Block)
	if !ok {
		t.Fatalf("expected desugared for to produce a Block, got %T", prog.Stmts[0])
	}
	if len(block.Stmts) != 2 {
		t.Fatalf("expected init+while in block, got %d stmts", len(block.Stmts))
	}
	while, ok := block.Stmts[1].(*ast.While)
	if !ok {
		t.Fatalf("expected second statement to be *ast.While, got %T", block.Stmts[1])
	}
	if !while.ForDesugared || while.Increment == nil {
		t.Fatal("expected ForDesugared=true with a retained Increment expression")
	}
}

func TestParseClassWithSuperclass(t *testing.T) {
	prog := parseSource(t, `class Base {} class Derived < Base { init() { super.init(); } }`)
	cls, ok := prog.Stmts[1].(*ast.Class)
	if !ok {
		t.Fatalf("expected *ast.Class, got %T", prog.Stmts[1])
	}
	if cls.Superclass == nil || cls.Superclass.Name.Lexeme != "Base" {
		t.Fatalf("expected superclass Base, got %#v", cls.Superclass)
	}
}

func TestParseTryExceptFinally(t *testing.T) {
	prog := parseSource(t, `try { throw 1; } except (e) { print e; } finally { print "done"; }`)
	tr, ok := prog.Stmts[0].(*ast.Try)
	if !ok {
		t.Fatalf("expected *ast.Try, got %T", prog.Stmts[0])
	}
	if len(tr.ExceptClauses) != 1 || tr.Finally == nil {
		t.Fatal("expected one except clause and a finally block")
	}
}

func TestParseReportsErrorAndSynchronizes(t *testing.T) {
	lx := lexer.New("var ; print 1;", "test.lox")
	toks := lx.Scan()
	p := New(toks, "var ; print 1;", "test.lox")
	prog := p.ParseProgram()
	if !p.Errors().HasErrors() {
		t.Fatal("expected a parse error for the malformed var declaration")
	}
	found := false
	for _, s := range prog.Stmts {
		if _, ok := s.(*ast.Print); ok {
			found = true
		}
	}
	if !found {
		t.Fatal("expected synchronization to recover and still parse the following print statement")
	}
}
