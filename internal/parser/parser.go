// Package parser turns a Lox token stream into an AST via recursive-descent
// precedence climbing (spec §4.2). It follows the teacher's cursor-based
// token access and panic-mode synchronization (internal/parser/parser.go,
// internal/parser/cursor.go, internal/parser/error_recovery.go in the
// retrieval pack), adapted to Lox's smaller, fixed-precedence grammar.
package parser

import (
	"fmt"

	"github.com/loxlang/lox/internal/ast"
	"github.com/loxlang/lox/internal/diagnostics"
	"github.com/loxlang/lox/internal/token"
)

const maxParams = 255

// Parser consumes a fixed token slice produced by the lexer.
type Parser struct {
	toks   []token.Token
	cur    int
	source string
	file   string
	errs   diagnostics.Bag
}

// New creates a Parser over toks. source and file are used only to render
// diagnostics with source context.
func New(toks []token.Token, source, file string) *Parser {
	return &Parser{toks: toks, source: source, file: file}
}

// Errors returns the parse errors accumulated while parsing.
func (p *Parser) Errors() *diagnostics.Bag { return &p.errs }

// ParseProgram parses a full compilation unit: a sequence of declarations
// until EOF. Each top-level parse error triggers synchronization so the
// parser can keep discovering further errors in one pass (spec §7).
func (p *Parser) ParseProgram() *ast.Program {
	prog := &ast.Program{}
	for !p.atEnd() {
		if s := p.declaration(); s != nil {
			prog.Stmts = append(prog.Stmts, s)
		}
	}
	return prog
}

// ---------------------------------------------------------------------------
// Declarations
// ---------------------------------------------------------------------------

func (p *Parser) declaration() (s ast.Stmt) {
	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(parseError); ok {
				p.synchronize()
				s = nil
				return
			}
			panic(r)
		}
	}()

	switch {
	case p.checkKeyword(token.CLASS):
		p.advance()
		return p.classDeclaration()
	case p.checkKeyword(token.FUN):
		p.advance()
		return p.function("function")
	case p.checkKeyword(token.VAR):
		p.advance()
		return p.varDeclaration()
	case p.checkKeyword(token.IMPORT):
		p.advance()
		return p.importStatement()
	default:
		return p.statement()
	}
}

func (p *Parser) classDeclaration() ast.Stmt {
	name := p.consume(token.IDENTIFIER, "expected class name")

	var superclass *ast.Variable
	if p.checkKeyword(token.LESS) {
		p.advance()
		superName := p.consume(token.IDENTIFIER, "expected superclass name")
		superclass = &ast.Variable{Name: superName}
	}

	p.consume(token.LEFT_BRACE, "expected '{' before class body")
	var methods []*ast.Function
	for !p.checkKeyword(token.RIGHT_BRACE) && !p.atEnd() {
		fn := p.function("method")
		methods = append(methods, fn.(*ast.Function))
	}
	p.consume(token.RIGHT_BRACE, "expected '}' after class body")

	return &ast.Class{Name: name, Superclass: superclass, Methods: methods}
}

func (p *Parser) function(kind string) ast.Stmt {
	name := p.consume(token.IDENTIFIER, fmt.Sprintf("expected %s name", kind))
	p.consume(token.LEFT_PAREN, fmt.Sprintf("expected '(' after %s name", kind))

	var params []token.Token
	if !p.checkKeyword(token.RIGHT_PAREN) {
		for {
			if len(params) >= maxParams {
				p.errorAt(p.peek(), fmt.Sprintf("can't have more than %d parameters", maxParams))
			}
			params = append(params, p.consume(token.IDENTIFIER, "expected parameter name"))
			if !p.checkKeyword(token.COMMA) {
				break
			}
			p.advance()
		}
	}
	p.consume(token.RIGHT_PAREN, "expected ')' after parameters")

	p.consume(token.LEFT_BRACE, fmt.Sprintf("expected '{' before %s body", kind))
	body := p.block()
	return &ast.Function{Name: name, Params: params, Body: body}
}

func (p *Parser) varDeclaration() ast.Stmt {
	name := p.consume(token.IDENTIFIER, "expected variable name")
	var init ast.Expr
	if p.checkKeyword(token.EQUAL) {
		p.advance()
		init = p.expression()
	}
	p.consume(token.SEMICOLON, "expected ';' after variable declaration")
	return &ast.Var{Name: name, Initializer: init}
}

func (p *Parser) importStatement() ast.Stmt {
	kw := p.previous()
	path := p.consume(token.STRING, "expected module path string after 'import'")
	p.consume(token.SEMICOLON, "expected ';' after import path")
	return &ast.Import{Keyword: kw, Path: path.Literal}
}

// ---------------------------------------------------------------------------
// Statements
// ---------------------------------------------------------------------------

func (p *Parser) statement() ast.Stmt {
	switch {
	case p.checkKeyword(token.PRINT):
		p.advance()
		return p.printStatement()
	case p.checkKeyword(token.LEFT_BRACE):
		p.advance()
		return &ast.Block{Stmts: p.block()}
	case p.checkKeyword(token.IF):
		p.advance()
		return p.ifStatement()
	case p.checkKeyword(token.WHILE):
		p.advance()
		return p.whileStatement()
	case p.checkKeyword(token.FOR):
		p.advance()
		return p.forStatement()
	case p.checkKeyword(token.RETURN):
		p.advance()
		return p.returnStatement()
	case p.checkKeyword(token.BREAK):
		kw := p.advance()
		p.consume(token.SEMICOLON, "expected ';' after 'break'")
		return &ast.Break{Keyword: kw}
	case p.checkKeyword(token.CONTINUE):
		kw := p.advance()
		p.consume(token.SEMICOLON, "expected ';' after 'continue'")
		return &ast.Continue{Keyword: kw}
	case p.checkKeyword(token.THROW):
		return p.throwStatement()
	case p.checkKeyword(token.TRY):
		p.advance()
		return p.tryStatement()
	default:
		return p.expressionStatement()
	}
}

func (p *Parser) printStatement() ast.Stmt {
	val := p.expression()
	p.consume(token.SEMICOLON, "expected ';' after value")
	return &ast.Print{Expr: val}
}

func (p *Parser) expressionStatement() ast.Stmt {
	expr := p.expression()
	p.consume(token.SEMICOLON, "expected ';' after expression")
	return &ast.Expression{Expr: expr}
}

func (p *Parser) block() []ast.Stmt {
	var stmts []ast.Stmt
	for !p.checkKeyword(token.RIGHT_BRACE) && !p.atEnd() {
		if s := p.declaration(); s != nil {
			stmts = append(stmts, s)
		}
	}
	p.consume(token.RIGHT_BRACE, "expected '}' after block")
	return stmts
}

func (p *Parser) ifStatement() ast.Stmt {
	p.consume(token.LEFT_PAREN, "expected '(' after 'if'")
	cond := p.expression()
	p.consume(token.RIGHT_PAREN, "expected ')' after if condition")

	then := p.statement()
	var els ast.Stmt
	if p.checkKeyword(token.ELSE) {
		p.advance()
		els = p.statement()
	}
	return &ast.If{Cond: cond, Then: then, Else: els}
}

func (p *Parser) whileStatement() ast.Stmt {
	p.consume(token.LEFT_PAREN, "expected '(' after 'while'")
	cond := p.expression()
	p.consume(token.RIGHT_PAREN, "expected ')' after condition")
	body := p.statement()
	return &ast.While{Cond: cond, Body: body}
}

// forStatement desugars `for (init; cond; incr) body` into a While (wrapped
// in a Block together with init, when there is one) whose Increment is
// retained (not inlined at the end of the body) so `continue` can still run
// it before re-testing cond (spec §4.2/§4.4).
func (p *Parser) forStatement() ast.Stmt {
	p.consume(token.LEFT_PAREN, "expected '(' after 'for'")

	var init ast.Stmt
	switch {
	case p.checkKeyword(token.SEMICOLON):
		p.advance()
	case p.checkKeyword(token.VAR):
		p.advance()
		init = p.varDeclaration()
	default:
		init = p.expressionStatement()
	}

	var cond ast.Expr
	if !p.checkKeyword(token.SEMICOLON) {
		cond = p.expression()
	}
	p.consume(token.SEMICOLON, "expected ';' after loop condition")

	var incr ast.Expr
	if !p.checkKeyword(token.RIGHT_PAREN) {
		incr = p.expression()
	}
	p.consume(token.RIGHT_PAREN, "expected ')' after for clauses")

	body := p.statement()

	if cond == nil {
		cond = &ast.Literal{Value: true}
	}
	loop := &ast.While{Cond: cond, Body: body, ForDesugared: true, Increment: incr}

	var result ast.Stmt = loop
	if init != nil {
		result = &ast.Block{Stmts: []ast.Stmt{init, loop}}
	}
	return result
}

func (p *Parser) returnStatement() ast.Stmt {
	kw := p.previous()
	var val ast.Expr
	if !p.checkKeyword(token.SEMICOLON) {
		val = p.expression()
	}
	p.consume(token.SEMICOLON, "expected ';' after return value")
	return &ast.Return{Keyword: kw, Value: val}
}

func (p *Parser) throwStatement() ast.Stmt {
	kw := p.advance()
	val := p.expression()
	p.consume(token.SEMICOLON, "expected ';' after throw value")
	return &ast.Throw{Keyword: kw, Value: val}
}

func (p *Parser) tryStatement() ast.Stmt {
	kw := p.previous()
	p.consume(token.LEFT_BRACE, "expected '{' after 'try'")
	tryBlock := &ast.Block{Stmts: p.block()}

	var clauses []ast.ExceptClause
	for p.checkKeyword(token.EXCEPT) {
		p.advance()
		p.consume(token.LEFT_PAREN, "expected '(' after 'except'")
		name := p.consume(token.IDENTIFIER, "expected exception binding name")
		p.consume(token.RIGHT_PAREN, "expected ')' after exception binding")
		p.consume(token.LEFT_BRACE, "expected '{' after 'except (...)'")
		clauses = append(clauses, ast.ExceptClause{Name: name, Body: &ast.Block{Stmts: p.block()}})
	}

	var finally *ast.Block
	if p.checkKeyword(token.FINALLY) {
		p.advance()
		p.consume(token.LEFT_BRACE, "expected '{' after 'finally'")
		finally = &ast.Block{Stmts: p.block()}
	}

	if len(clauses) == 0 && finally == nil {
		p.errorAt(p.peek(), "expected 'except' or 'finally' after 'try' block")
	}

	return &ast.Try{Keyword: kw, TryBlock: tryBlock, ExceptClauses: clauses, Finally: finally}
}

// ---------------------------------------------------------------------------
// Expressions — precedence climbing, lowest to highest.
// ---------------------------------------------------------------------------

func (p *Parser) expression() ast.Expr { return p.assignment() }

func (p *Parser) assignment() ast.Expr {
	expr := p.or()

	if p.checkKeyword(token.EQUAL) {
		eq := p.advance()
		value := p.assignment()

		switch target := expr.(type) {
		case *ast.Variable:
			return &ast.Assign{Name: target.Name, Value: value}
		case *ast.Get:
			return &ast.Set{Object: target.Object, Name: target.Name, Value: value}
		case *ast.Index:
			return &ast.IndexSet{Object: target.Object, Bracket: target.Bracket, Key: target.Key, Value: value}
		default:
			p.errorAt(eq, "invalid assignment target")
			return expr
		}
	}
	return expr
}

func (p *Parser) or() ast.Expr {
	expr := p.and()
	for p.checkKeyword(token.OR) {
		op := p.advance()
		right := p.and()
		expr = &ast.Logical{Left: expr, Op: op, Right: right}
	}
	return expr
}

func (p *Parser) and() ast.Expr {
	expr := p.equality()
	for p.checkKeyword(token.AND) {
		op := p.advance()
		right := p.equality()
		expr = &ast.Logical{Left: expr, Op: op, Right: right}
	}
	return expr
}

func (p *Parser) equality() ast.Expr {
	expr := p.comparison()
	for p.check(token.BANG_EQUAL, token.EQUAL_EQUAL) {
		op := p.advance()
		right := p.comparison()
		expr = &ast.Binary{Left: expr, Op: op, Right: right}
	}
	return expr
}

func (p *Parser) comparison() ast.Expr {
	expr := p.term()
	for p.check(token.GREATER, token.GREATER_EQUAL, token.LESS, token.LESS_EQUAL) {
		op := p.advance()
		right := p.term()
		expr = &ast.Binary{Left: expr, Op: op, Right: right}
	}
	return expr
}

func (p *Parser) term() ast.Expr {
	expr := p.factor()
	for p.check(token.PLUS, token.MINUS) {
		op := p.advance()
		right := p.factor()
		expr = &ast.Binary{Left: expr, Op: op, Right: right}
	}
	return expr
}

func (p *Parser) factor() ast.Expr {
	expr := p.unary()
	for p.check(token.STAR, token.SLASH, token.PERCENT, token.BACKSLASH, token.CARET) {
		op := p.advance()
		right := p.unary()
		expr = &ast.Binary{Left: expr, Op: op, Right: right}
	}
	return expr
}

func (p *Parser) unary() ast.Expr {
	if p.check(token.BANG, token.MINUS) {
		op := p.advance()
		right := p.unary()
		return &ast.Unary{Op: op, Right: right}
	}
	return p.call()
}

func (p *Parser) call() ast.Expr {
	expr := p.primary()
	for {
		switch {
		case p.checkKeyword(token.LEFT_PAREN):
			p.advance()
			expr = p.finishCall(expr)
		case p.checkKeyword(token.DOT):
			p.advance()
			name := p.consume(token.IDENTIFIER, "expected property name after '.'")
			expr = &ast.Get{Object: expr, Name: name}
		case p.checkKeyword(token.LEFT_BRACKET):
			bracket := p.advance()
			key := p.expression()
			p.consume(token.RIGHT_BRACKET, "expected ']' after index")
			expr = &ast.Index{Object: expr, Bracket: bracket, Key: key}
		default:
			return expr
		}
	}
}

func (p *Parser) finishCall(callee ast.Expr) ast.Expr {
	var args []ast.Expr
	if !p.checkKeyword(token.RIGHT_PAREN) {
		for {
			if len(args) >= maxParams {
				p.errorAt(p.peek(), fmt.Sprintf("can't have more than %d arguments", maxParams))
			}
			args = append(args, p.expression())
			if !p.checkKeyword(token.COMMA) {
				break
			}
			p.advance()
		}
	}
	closing := p.consume(token.RIGHT_PAREN, "expected ')' after arguments")
	return &ast.Call{Callee: callee, ClosingParen: closing, Args: args}
}

func (p *Parser) primary() ast.Expr {
	switch {
	case p.checkKeyword(token.FALSE):
		p.advance()
		return &ast.Literal{Value: false}
	case p.checkKeyword(token.TRUE):
		p.advance()
		return &ast.Literal{Value: true}
	case p.checkKeyword(token.NIL):
		p.advance()
		return &ast.Literal{Value: nil}
	case p.checkKeyword(token.NUMBER):
		tok := p.advance()
		var f float64
		fmt.Sscanf(tok.Literal, "%g", &f)
		return &ast.Literal{Token: tok, Value: f}
	case p.checkKeyword(token.STRING):
		tok := p.advance()
		return &ast.Literal{Token: tok, Value: tok.Literal}
	case p.checkKeyword(token.THIS):
		return &ast.This{Keyword: p.advance()}
	case p.checkKeyword(token.SUPER):
		kw := p.advance()
		p.consume(token.DOT, "expected '.' after 'super'")
		method := p.consume(token.IDENTIFIER, "expected superclass method name")
		return &ast.Super{Keyword: kw, Method: method}
	case p.checkKeyword(token.IDENTIFIER):
		return &ast.Variable{Name: p.advance()}
	case p.checkKeyword(token.LAMBDA):
		return p.lambda()
	case p.checkKeyword(token.LEFT_PAREN):
		p.advance()
		expr := p.expression()
		p.consume(token.RIGHT_PAREN, "expected ')' after expression")
		return &ast.Grouping{Inner: expr}
	case p.checkKeyword(token.LEFT_BRACKET):
		return p.listLiteral()
	case p.checkKeyword(token.LEFT_BRACE):
		return p.dictLiteral()
	default:
		p.errorAt(p.peek(), fmt.Sprintf("expected expression, found %s", p.peek().Type))
		panic(parseError{})
	}
}

func (p *Parser) lambda() ast.Expr {
	kw := p.advance()
	p.consume(token.LEFT_PAREN, "expected '(' after 'lambda'")
	var params []token.Token
	if !p.checkKeyword(token.RIGHT_PAREN) {
		for {
			params = append(params, p.consume(token.IDENTIFIER, "expected parameter name"))
			if !p.checkKeyword(token.COMMA) {
				break
			}
			p.advance()
		}
	}
	p.consume(token.RIGHT_PAREN, "expected ')' after lambda parameters")
	p.consume(token.LEFT_BRACE, "expected '{' before lambda body")
	body := p.block()
	return &ast.Lambda{Keyword: kw, Params: params, Body: body}
}

func (p *Parser) listLiteral() ast.Expr {
	bracket := p.advance()
	var elems []ast.Expr
	if !p.checkKeyword(token.RIGHT_BRACKET) {
		for {
			elems = append(elems, p.expression())
			if !p.checkKeyword(token.COMMA) {
				break
			}
			p.advance()
		}
	}
	p.consume(token.RIGHT_BRACKET, "expected ']' after list elements")
	return &ast.List{Bracket: bracket, Elements: elems}
}

func (p *Parser) dictLiteral() ast.Expr {
	brace := p.advance()
	var pairs []ast.DictEntry
	if !p.checkKeyword(token.RIGHT_BRACE) {
		for {
			key := p.expression()
			p.consume(token.COLON, "expected ':' after dict key")
			val := p.expression()
			pairs = append(pairs, ast.DictEntry{Key: key, Value: val})
			if !p.checkKeyword(token.COMMA) {
				break
			}
			p.advance()
		}
	}
	p.consume(token.RIGHT_BRACE, "expected '}' after dict entries")
	return &ast.Dict{Brace: brace, Pairs: pairs}
}

// ---------------------------------------------------------------------------
// Cursor, error handling, and synchronization
// ---------------------------------------------------------------------------

// parseError is the sentinel panicked on a malformed production; declaration
// recovers it and synchronizes, matching the teacher's panic-mode recovery.
type parseError struct{}

func (p *Parser) peek() token.Token     { return p.toks[p.cur] }
func (p *Parser) previous() token.Token { return p.toks[p.cur-1] }
func (p *Parser) atEnd() bool           { return p.peek().Type == token.EOF }

func (p *Parser) advance() token.Token {
	if !p.atEnd() {
		p.cur++
	}
	return p.previous()
}

func (p *Parser) checkKeyword(t token.Type) bool {
	if p.atEnd() {
		return t == token.EOF
	}
	return p.peek().Type == t
}

func (p *Parser) check(types ...token.Type) bool {
	for _, t := range types {
		if p.checkKeyword(t) {
			return true
		}
	}
	return false
}

func (p *Parser) consume(t token.Type, message string) token.Token {
	if p.checkKeyword(t) {
		return p.advance()
	}
	p.errorAt(p.peek(), message)
	panic(parseError{})
}

func (p *Parser) errorAt(tok token.Token, message string) {
	p.errs.Addf(diagnostics.Parse, tok.Pos, p.source, p.file, "%s", message)
}

// synchronize discards tokens until a likely statement boundary, so a
// single malformed statement doesn't cascade into spurious follow-on errors.
func (p *Parser) synchronize() {
	p.advance()
	for !p.atEnd() {
		if p.previous().Type == token.SEMICOLON {
			return
		}
		switch p.peek().Type {
		case token.CLASS, token.FUN, token.VAR, token.FOR, token.IF, token.WHILE,
			token.PRINT, token.RETURN, token.TRY, token.THROW, token.IMPORT:
			return
		}
		p.advance()
	}
}
