// Package resolver performs a static lexical-scope pass over the AST
// between parsing and evaluation (spec §4.3), producing a distance map the
// interpreter uses to resolve each Variable/Assign/This/Super reference to
// an exact environment hop count instead of walking the chain at runtime.
//
// The scope-stack and state-tracker shape (currentFunction/currentClass/
// loopDepth-style trackers) follows the teacher's semantic analyzer
// (internal/semantic/analyzer.go in the retrieval pack), narrowed from its
// full type-checking responsibilities down to Lox's purely lexical
// resolution pass.
package resolver

import (
	"github.com/loxlang/lox/internal/ast"
	"github.com/loxlang/lox/internal/diagnostics"
	"github.com/loxlang/lox/internal/token"
)

// FunctionType tracks what kind of function body is currently being
// resolved, so `return` (and a valued `return` in an initializer) can be
// validated contextually.
type FunctionType int

const (
	FunctionNone FunctionType = iota
	FunctionFunction
	FunctionLambda
	FunctionMethod
	FunctionInitializer
)

// ClassType tracks what kind of class body is currently being resolved, so
// `super` can be rejected outside a subclass.
type ClassType int

const (
	ClassNone ClassType = iota
	ClassClass
	ClassSubclass
)

type scope map[string]bool

// Resolver walks the AST once, maintaining a stack of lexical scopes.
type Resolver struct {
	scopes          []scope
	locals          map[ast.Expr]int
	currentFunction FunctionType
	currentClass    ClassType
	loopDepth       int
	errs            diagnostics.Bag
	source          string
	file            string
}

// New creates a Resolver. source and file are used only for diagnostics.
func New(source, file string) *Resolver {
	return &Resolver{
		locals: make(map[ast.Expr]int),
		source: source,
		file:   file,
	}
}

// Errors returns the resolution errors accumulated while resolving.
func (r *Resolver) Errors() *diagnostics.Bag { return &r.errs }

// Locals returns the resolved distance map: for every Variable/Assign/
// This/Super expression that refers to a local binding, the number of
// environment hops from the use site to the scope that declares it.
// Names absent from the map are resolved as globals at runtime.
func (r *Resolver) Locals() map[ast.Expr]int { return r.locals }

// ResolveProgram resolves every top-level statement.
func (r *Resolver) ResolveProgram(prog *ast.Program) {
	r.resolveStmts(prog.Stmts)
}

func (r *Resolver) resolveStmts(stmts []ast.Stmt) {
	for _, s := range stmts {
		r.resolveStmt(s)
	}
}

func (r *Resolver) resolveStmt(s ast.Stmt) {
	switch st := s.(type) {
	case *ast.Block:
		r.beginScope()
		r.resolveStmts(st.Stmts)
		r.endScope()

	case *ast.Var:
		r.declare(st.Name)
		if st.Initializer != nil {
			r.resolveExpr(st.Initializer)
		}
		r.define(st.Name)

	case *ast.Function:
		r.declare(st.Name)
		r.define(st.Name)
		r.resolveFunction(st.Params, st.Body, FunctionFunction)

	case *ast.Class:
		r.resolveClass(st)

	case *ast.Expression:
		r.resolveExpr(st.Expr)

	case *ast.Print:
		r.resolveExpr(st.Expr)

	case *ast.If:
		r.resolveExpr(st.Cond)
		r.resolveStmt(st.Then)
		if st.Else != nil {
			r.resolveStmt(st.Else)
		}

	case *ast.While:
		r.resolveExpr(st.Cond)
		r.loopDepth++
		r.resolveStmt(st.Body)
		if st.Increment != nil {
			r.resolveExpr(st.Increment)
		}
		r.loopDepth--

	case *ast.Return:
		if r.currentFunction == FunctionNone {
			r.errorAt(st.Keyword, "'return' outside of a function")
		}
		if st.Value != nil {
			if r.currentFunction == FunctionInitializer {
				r.errorAt(st.Keyword, "can't return a value from an initializer")
			}
			r.resolveExpr(st.Value)
		}

	case *ast.Break:
		if r.loopDepth == 0 {
			r.errorAt(st.Keyword, "'break' outside of a loop")
		}

	case *ast.Continue:
		if r.loopDepth == 0 {
			r.errorAt(st.Keyword, "'continue' outside of a loop")
		}

	case *ast.Throw:
		r.resolveExpr(st.Value)

	case *ast.Try:
		r.resolveStmt(st.TryBlock)
		for _, c := range st.ExceptClauses {
			r.beginScope()
			r.declare(c.Name)
			r.define(c.Name)
			r.resolveStmts(c.Body.Stmts)
			r.endScope()
		}
		if st.Finally != nil {
			r.resolveStmt(st.Finally)
		}

	case *ast.Import:
		// module paths are resolved by the unit loader at runtime, not here.

	default:
		panic("resolver: unhandled statement type")
	}
}

func (r *Resolver) resolveClass(st *ast.Class) {
	enclosingClass := r.currentClass
	r.currentClass = ClassClass
	defer func() { r.currentClass = enclosingClass }()

	r.declare(st.Name)
	r.define(st.Name)

	if st.Superclass != nil {
		if st.Superclass.Name.Lexeme == st.Name.Lexeme {
			r.errorAt(st.Superclass.Name, "a class can't inherit from itself")
		}
		r.currentClass = ClassSubclass
		r.resolveExpr(st.Superclass)

		r.beginScope()
		r.scopes[len(r.scopes)-1]["super"] = true
	}

	r.beginScope()
	r.scopes[len(r.scopes)-1]["this"] = true

	for _, m := range st.Methods {
		fnType := FunctionMethod
		if m.Name.Lexeme == "init" {
			fnType = FunctionInitializer
		}
		r.resolveFunction(m.Params, m.Body, fnType)
	}

	r.endScope()

	if st.Superclass != nil {
		r.endScope()
	}
}

func (r *Resolver) resolveFunction(params []token.Token, body []ast.Stmt, typ FunctionType) {
	enclosingFunction := r.currentFunction
	r.currentFunction = typ
	enclosingLoopDepth := r.loopDepth
	r.loopDepth = 0

	r.beginScope()
	for _, p := range params {
		r.declare(p)
		r.define(p)
	}
	r.resolveStmts(body)
	r.endScope()

	r.currentFunction = enclosingFunction
	r.loopDepth = enclosingLoopDepth
}

func (r *Resolver) resolveExpr(e ast.Expr) {
	switch ex := e.(type) {
	case *ast.Literal:
		// no bindings to resolve

	case *ast.Variable:
		if len(r.scopes) > 0 {
			if declared, ok := r.scopes[len(r.scopes)-1][ex.Name.Lexeme]; ok && !declared {
				r.errorAt(ex.Name, "can't read local variable in its own initializer")
			}
		}
		r.resolveLocal(ex, ex.Name)

	case *ast.Assign:
		r.resolveExpr(ex.Value)
		r.resolveLocal(ex, ex.Name)

	case *ast.Unary:
		r.resolveExpr(ex.Right)

	case *ast.Binary:
		r.resolveExpr(ex.Left)
		r.resolveExpr(ex.Right)

	case *ast.Logical:
		r.resolveExpr(ex.Left)
		r.resolveExpr(ex.Right)

	case *ast.Grouping:
		r.resolveExpr(ex.Inner)

	case *ast.Call:
		r.resolveExpr(ex.Callee)
		for _, a := range ex.Args {
			r.resolveExpr(a)
		}

	case *ast.Get:
		r.resolveExpr(ex.Object)

	case *ast.Set:
		r.resolveExpr(ex.Value)
		r.resolveExpr(ex.Object)

	case *ast.This:
		if r.currentClass == ClassNone {
			r.errorAt(ex.Keyword, "can't use 'this' outside of a class")
			return
		}
		r.resolveLocal(ex, ex.Keyword)

	case *ast.Super:
		if r.currentClass == ClassNone {
			r.errorAt(ex.Keyword, "can't use 'super' outside of a class")
		} else if r.currentClass != ClassSubclass {
			r.errorAt(ex.Keyword, "can't use 'super' in a class with no superclass")
		}
		r.resolveLocal(ex, ex.Keyword)

	case *ast.Lambda:
		r.resolveFunction(ex.Params, ex.Body, FunctionLambda)

	case *ast.List:
		for _, el := range ex.Elements {
			r.resolveExpr(el)
		}

	case *ast.Dict:
		for _, entry := range ex.Pairs {
			r.resolveExpr(entry.Key)
			r.resolveExpr(entry.Value)
		}

	case *ast.Index:
		r.resolveExpr(ex.Object)
		r.resolveExpr(ex.Key)

	case *ast.IndexSet:
		r.resolveExpr(ex.Object)
		r.resolveExpr(ex.Key)
		r.resolveExpr(ex.Value)

	default:
		panic("resolver: unhandled expression type")
	}
}

func (r *Resolver) resolveLocal(expr ast.Expr, name token.Token) {
	for i := len(r.scopes) - 1; i >= 0; i-- {
		if _, ok := r.scopes[i][name.Lexeme]; ok {
			r.locals[expr] = len(r.scopes) - 1 - i
			return
		}
	}
	// unresolved: treated as global at runtime.
}

func (r *Resolver) beginScope() { r.scopes = append(r.scopes, scope{}) }
func (r *Resolver) endScope()   { r.scopes = r.scopes[:len(r.scopes)-1] }

func (r *Resolver) declare(name token.Token) {
	if len(r.scopes) == 0 {
		return
	}
	s := r.scopes[len(r.scopes)-1]
	if _, ok := s[name.Lexeme]; ok {
		r.errorAt(name, "a variable with this name is already declared in this scope")
	}
	s[name.Lexeme] = false
}

func (r *Resolver) define(name token.Token) {
	if len(r.scopes) == 0 {
		return
	}
	r.scopes[len(r.scopes)-1][name.Lexeme] = true
}

func (r *Resolver) errorAt(tok token.Token, message string) {
	r.errs.Addf(diagnostics.Resolve, tok.Pos, r.source, r.file, "%s", message)
}
