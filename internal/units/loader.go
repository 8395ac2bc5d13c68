// Package units resolves and loads Lox `import` targets (spec §4.5),
// caching already-loaded modules so a module imported from two different
// places is only lexed/parsed/resolved once. A path is marked in progress
// only while Load itself runs; the mark is cleared before the caller
// executes the module, so two modules that import each other are not
// reported as a cycle: the second import of a module is a cached no-op.
//
// The cache-by-resolved-path-plus-in-progress-set shape follows the
// teacher's unit cache and unit registry (internal/units/cache_test.go,
// internal/interp/unit_loader.go in the retrieval pack), narrowed from
// DWScript's unit/interface-section model down to Lox's plain
// "import executes a module's top-level statements into globals" model.
package units

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/loxlang/lox/internal/ast"
	"github.com/loxlang/lox/internal/lexer"
	"github.com/loxlang/lox/internal/parser"
	"github.com/loxlang/lox/internal/resolver"
)

// Loader resolves an import path against a set of search roots, parses and
// resolves it at most once, and rejects a Load of a path that is still being
// loaded.
type Loader struct {
	searchPaths []string
	cache       map[string]*ast.Program
	inProgress  map[string]bool
	locals      map[ast.Expr]int
}

// New creates a Loader consulting roots in order when resolving a bare
// import path (SPEC_FULL §10.2's lox.yaml importPaths). locals is the same
// distance map the interpreter reads from; the loader writes every
// imported module's resolution directly into it (maps are reference types
// in Go, so the interpreter sees the additions without a separate merge
// step) so closures inside imported code resolve correctly too.
func New(roots []string, locals map[ast.Expr]int) *Loader {
	return &Loader{
		searchPaths: roots,
		cache:       make(map[string]*ast.Program),
		inProgress:  make(map[string]bool),
		locals:      locals,
	}
}

// Load resolves path, parses and resolves it if not already cached, and
// returns its Program. A nil Program with a nil error means path was
// already loaded earlier and importing it again is a no-op (spec §4.5).
func (l *Loader) Load(path string) (*ast.Program, error) {
	resolved, err := l.resolve(path)
	if err != nil {
		return nil, err
	}

	if _, ok := l.cache[resolved]; ok {
		return nil, nil
	}
	if l.inProgress[resolved] {
		return nil, fmt.Errorf("import cycle detected: %q is already being loaded", path)
	}

	l.inProgress[resolved] = true
	defer delete(l.inProgress, resolved)

	src, err := os.ReadFile(resolved)
	if err != nil {
		return nil, fmt.Errorf("cannot read module %q: %w", path, err)
	}

	lx := lexer.New(string(src), resolved)
	toks := lx.Scan()
	if lx.Errors().HasErrors() {
		return nil, fmt.Errorf("%s", lx.Errors().String())
	}

	ps := parser.New(toks, string(src), resolved)
	prog := ps.ParseProgram()
	if ps.Errors().HasErrors() {
		return nil, fmt.Errorf("%s", ps.Errors().String())
	}

	res := resolver.New(string(src), resolved)
	res.ResolveProgram(prog)
	if res.Errors().HasErrors() {
		return nil, fmt.Errorf("%s", res.Errors().String())
	}
	for expr, dist := range res.Locals() {
		l.locals[expr] = dist
	}

	l.cache[resolved] = prog
	return prog, nil
}

func (l *Loader) resolve(path string) (string, error) {
	if filepath.IsAbs(path) {
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
		return "", fmt.Errorf("module not found: %q", path)
	}
	for _, root := range l.searchPaths {
		candidate := filepath.Join(root, path)
		if _, err := os.Stat(candidate); err == nil {
			return filepath.Abs(candidate)
		}
	}
	if _, err := os.Stat(path); err == nil {
		return filepath.Abs(path)
	}
	return "", fmt.Errorf("module not found: %q (searched %v)", path, l.searchPaths)
}
