// Package ast defines the statement and expression tree produced by the
// parser (spec §3). Every expression node is a distinct pointer type so its
// identity (the pointer itself) can key the resolver's distance map — see
// the Node-identity design note in spec §9.
package ast

import (
	"fmt"
	"strings"

	"github.com/loxlang/lox/internal/token"
)

// Node is the common interface for every AST node: expressions and
// statements alike can be printed. The printed form is a debug dump
// (operators in prefix position, e.g. `(+ 1 2)`, and `{ ... }` in place of
// function and class bodies); it does not re-parse as Lox source.
type Node interface {
	fmt.Stringer
}

// Expr is any expression node.
type Expr interface {
	Node
	exprNode()
}

// Stmt is any statement node.
type Stmt interface {
	Node
	stmtNode()
}

// ---------------------------------------------------------------------------
// Expressions
// ---------------------------------------------------------------------------

// Literal is a constant value: number, string, boolean, or nil.
type Literal struct {
	Token token.Token
	Value any // float64 | string | bool | nil
}

func (*Literal) exprNode() {}
func (l *Literal) String() string {
	if l.Value == nil {
		return "nil"
	}
	if s, ok := l.Value.(string); ok {
		return fmt.Sprintf("%q", s)
	}
	return fmt.Sprintf("%v", l.Value)
}

// Variable is a reference to a named binding.
type Variable struct {
	Name token.Token
}

func (*Variable) exprNode()    {}
func (v *Variable) String() string { return v.Name.Lexeme }

// Assign assigns a new value to an existing variable binding.
type Assign struct {
	Name  token.Token
	Value Expr
}

func (*Assign) exprNode() {}
func (a *Assign) String() string { return fmt.Sprintf("(%s = %s)", a.Name.Lexeme, a.Value) }

// Unary is a prefix operator application: `-x`, `!x`.
type Unary struct {
	Op    token.Token
	Right Expr
}

func (*Unary) exprNode() {}
func (u *Unary) String() string { return fmt.Sprintf("(%s %s)", u.Op.Lexeme, u.Right) }

// Binary is an infix operator application over arithmetic/comparison operators.
type Binary struct {
	Left  Expr
	Op    token.Token
	Right Expr
}

func (*Binary) exprNode() {}
func (b *Binary) String() string { return fmt.Sprintf("(%s %s %s)", b.Op.Lexeme, b.Left, b.Right) }

// Logical is `and`/`or`, kept distinct from Binary because both
// short-circuit and never coerce their result to bool (spec §4.4).
type Logical struct {
	Left  Expr
	Op    token.Token
	Right Expr
}

func (*Logical) exprNode() {}
func (l *Logical) String() string { return fmt.Sprintf("(%s %s %s)", l.Op.Lexeme, l.Left, l.Right) }

// Grouping is a parenthesized expression, kept distinct so printing can
// mark the grouping explicitly as `(group ...)`.
type Grouping struct {
	Inner Expr
}

func (*Grouping) exprNode() {}
func (g *Grouping) String() string { return fmt.Sprintf("(group %s)", g.Inner) }

// Call invokes a callee with a vector of evaluated arguments.
type Call struct {
	Callee       Expr
	ClosingParen token.Token
	Args         []Expr
}

func (*Call) exprNode() {}
func (c *Call) String() string {
	parts := make([]string, len(c.Args))
	for i, a := range c.Args {
		parts[i] = a.String()
	}
	return fmt.Sprintf("%s(%s)", c.Callee, strings.Join(parts, ", "))
}

// Get reads a property or method off an instance.
type Get struct {
	Object Expr
	Name   token.Token
}

func (*Get) exprNode() {}
func (g *Get) String() string { return fmt.Sprintf("%s.%s", g.Object, g.Name.Lexeme) }

// Set writes a property on an instance.
type Set struct {
	Object Expr
	Name   token.Token
	Value  Expr
}

func (*Set) exprNode() {}
func (s *Set) String() string { return fmt.Sprintf("%s.%s = %s", s.Object, s.Name.Lexeme, s.Value) }

// This refers to the receiver inside a method body.
type This struct {
	Keyword token.Token
}

func (*This) exprNode() {}
func (*This) String() string { return "this" }

// Super accesses a method on the enclosing class's superclass.
type Super struct {
	Keyword token.Token
	Method  token.Token
}

func (*Super) exprNode() {}
func (s *Super) String() string { return fmt.Sprintf("super.%s", s.Method.Lexeme) }

// Lambda is an anonymous function value.
type Lambda struct {
	Keyword token.Token
	Params  []token.Token
	Body    []Stmt
}

func (*Lambda) exprNode() {}
func (l *Lambda) String() string {
	names := make([]string, len(l.Params))
	for i, p := range l.Params {
		names[i] = p.Lexeme
	}
	return fmt.Sprintf("lambda(%s)", strings.Join(names, ", "))
}

// List is a list literal: `[e1, e2, ...]`.
type List struct {
	Bracket  token.Token
	Elements []Expr
}

func (*List) exprNode() {}
func (l *List) String() string {
	parts := make([]string, len(l.Elements))
	for i, e := range l.Elements {
		parts[i] = e.String()
	}
	return fmt.Sprintf("[%s]", strings.Join(parts, ", "))
}

// DictEntry is one key/value pair inside a Dict literal.
type DictEntry struct {
	Key   Expr
	Value Expr
}

// Dict is a dictionary literal: `{k1: v1, ...}`.
type Dict struct {
	Brace token.Token
	Pairs []DictEntry
}

func (*Dict) exprNode() {}
func (d *Dict) String() string {
	parts := make([]string, len(d.Pairs))
	for i, p := range d.Pairs {
		parts[i] = fmt.Sprintf("%s: %s", p.Key, p.Value)
	}
	return fmt.Sprintf("{%s}", strings.Join(parts, ", "))
}

// Index reads an element out of a list, dict, or string by key.
type Index struct {
	Object  Expr
	Bracket token.Token
	Key     Expr
}

func (*Index) exprNode() {}
func (i *Index) String() string { return fmt.Sprintf("%s[%s]", i.Object, i.Key) }

// IndexSet writes an element into a list or dict by key.
type IndexSet struct {
	Object  Expr
	Bracket token.Token
	Key     Expr
	Value   Expr
}

func (*IndexSet) exprNode() {}
func (i *IndexSet) String() string { return fmt.Sprintf("%s[%s] = %s", i.Object, i.Key, i.Value) }

// ---------------------------------------------------------------------------
// Statements
// ---------------------------------------------------------------------------

// Program is the root node: the full sequence of top-level declarations.
type Program struct {
	Stmts []Stmt
}

func (p *Program) String() string {
	var sb strings.Builder
	for _, s := range p.Stmts {
		sb.WriteString(s.String())
		sb.WriteString("\n")
	}
	return sb.String()
}

// Expression is a statement that evaluates an expression for its side effects.
type Expression struct {
	Expr Expr
}

func (*Expression) stmtNode() {}
func (e *Expression) String() string { return e.Expr.String() + ";" }

// Print evaluates an expression and writes its printed form to stdout.
type Print struct {
	Expr Expr
}

func (*Print) stmtNode() {}
func (p *Print) String() string { return "print " + p.Expr.String() + ";" }

// Var declares a new local or global binding, with an optional initializer.
type Var struct {
	Name        token.Token
	Initializer Expr
}

func (*Var) stmtNode() {}
func (v *Var) String() string {
	if v.Initializer == nil {
		return "var " + v.Name.Lexeme + ";"
	}
	return fmt.Sprintf("var %s = %s;", v.Name.Lexeme, v.Initializer)
}

// Block introduces a new lexical scope around a sequence of statements.
type Block struct {
	Stmts []Stmt
}

func (*Block) stmtNode() {}
func (b *Block) String() string {
	var sb strings.Builder
	sb.WriteString("{\n")
	for _, s := range b.Stmts {
		sb.WriteString("  " + s.String() + "\n")
	}
	sb.WriteString("}")
	return sb.String()
}

// If is a conditional with an optional else branch.
type If struct {
	Cond Expr
	Then Stmt
	Else Stmt
}

func (*If) stmtNode() {}
func (i *If) String() string {
	s := fmt.Sprintf("if (%s) %s", i.Cond, i.Then)
	if i.Else != nil {
		s += " else " + i.Else.String()
	}
	return s
}

// While is a loop. ForDesugared/Increment record that this loop was
// produced by desugaring a `for`, so `continue` can still run the
// retained increment expression before re-testing (spec §4.2/§4.4).
type While struct {
	Cond         Expr
	Body         Stmt
	ForDesugared bool
	Increment    Expr
}

func (*While) stmtNode() {}
func (w *While) String() string { return fmt.Sprintf("while (%s) %s", w.Cond, w.Body) }

// Function declares a named function (or method, when nested in a Class).
type Function struct {
	Name   token.Token
	Params []token.Token
	Body   []Stmt
}

func (*Function) stmtNode() {}
func (f *Function) String() string {
	names := make([]string, len(f.Params))
	for i, p := range f.Params {
		names[i] = p.Lexeme
	}
	return fmt.Sprintf("fun %s(%s) { ... }", f.Name.Lexeme, strings.Join(names, ", "))
}

// Return exits the enclosing function, optionally carrying a value.
type Return struct {
	Keyword token.Token
	Value   Expr
}

func (*Return) stmtNode() {}
func (r *Return) String() string {
	if r.Value == nil {
		return "return;"
	}
	return "return " + r.Value.String() + ";"
}

// Break exits the enclosing loop.
type Break struct {
	Keyword token.Token
}

func (*Break) stmtNode() {}
func (*Break) String() string { return "break;" }

// Continue re-tests the enclosing loop's condition, running a desugared
// for-loop's increment first if present.
type Continue struct {
	Keyword token.Token
}

func (*Continue) stmtNode() {}
func (*Continue) String() string { return "continue;" }

// Class declares a class, with an optional superclass and its methods.
type Class struct {
	Name       token.Token
	Superclass *Variable
	Methods    []*Function
}

func (*Class) stmtNode() {}
func (c *Class) String() string {
	s := "class " + c.Name.Lexeme
	if c.Superclass != nil {
		s += " < " + c.Superclass.Name.Lexeme
	}
	s += " { ... }"
	return s
}

// Throw raises a user exception carrying a value.
type Throw struct {
	Keyword token.Token
	Value   Expr
}

func (*Throw) stmtNode() {}
func (t *Throw) String() string { return "throw " + t.Value.String() + ";" }

// ExceptClause binds a caught exception's value to Name for Body's duration.
type ExceptClause struct {
	Name token.Token
	Body *Block
}

// Try runs TryBlock, routes any user exception to the first ExceptClause,
// and always runs Finally (if present) on every exit path (spec §4.4).
type Try struct {
	Keyword       token.Token
	TryBlock      *Block
	ExceptClauses []ExceptClause
	Finally       *Block
}

func (*Try) stmtNode() {}
func (t *Try) String() string {
	s := "try " + t.TryBlock.String()
	for _, c := range t.ExceptClauses {
		s += fmt.Sprintf(" except (%s) %s", c.Name.Lexeme, c.Body)
	}
	if t.Finally != nil {
		s += " finally " + t.Finally.String()
	}
	return s
}

// Import loads and executes a module of Lox source into the globals
// environment, guarded against cycles by the unit loader (spec §4.5/§5).
type Import struct {
	Keyword token.Token
	Path    string
}

func (*Import) stmtNode() {}
func (i *Import) String() string { return fmt.Sprintf("import %q;", i.Path) }
