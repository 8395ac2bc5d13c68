// Package diagnostics renders lex, parse, resolve, and runtime errors with
// source context: file:line:column, the offending line, and a caret under
// the exact column (spec §7).
package diagnostics

import (
	"fmt"
	"strings"

	"github.com/loxlang/lox/internal/token"
)

// Stage identifies which pipeline stage produced a Diagnostic.
type Stage int

const (
	Lex Stage = iota
	Parse
	Resolve
	Runtime
)

func (s Stage) String() string {
	switch s {
	case Lex:
		return "lex error"
	case Parse:
		return "parse error"
	case Resolve:
		return "resolution error"
	case Runtime:
		return "runtime error"
	default:
		return "error"
	}
}

// Diagnostic is a single reported problem, with enough context to render a
// caret under the offending source column.
type Diagnostic struct {
	Stage   Stage
	Pos     token.Position
	Message string
	Source  string
	File    string
}

// Error implements the error interface.
func (d *Diagnostic) Error() string { return d.Format() }

// Format renders the diagnostic the way the rest of this package's callers
// expect: a header line, the source line with a line-number gutter, and a
// caret line under the error column.
func (d *Diagnostic) Format() string {
	var sb strings.Builder

	if d.File != "" {
		fmt.Fprintf(&sb, "%s: %s:%d:%d: %s\n", d.Stage, d.File, d.Pos.Line, d.Pos.Column, d.Message)
	} else {
		fmt.Fprintf(&sb, "%s: line %d:%d: %s\n", d.Stage, d.Pos.Line, d.Pos.Column, d.Message)
	}

	line := sourceLine(d.Source, d.Pos.Line)
	if line != "" {
		gutter := fmt.Sprintf("%4d | ", d.Pos.Line)
		sb.WriteString(gutter)
		sb.WriteString(line)
		sb.WriteString("\n")

		col := d.Pos.Column - 1
		if col < 0 {
			col = 0
		}
		sb.WriteString(strings.Repeat(" ", len(gutter)+col))
		sb.WriteString("^\n")
	}

	return sb.String()
}

func sourceLine(source string, lineNum int) string {
	if source == "" || lineNum < 1 {
		return ""
	}
	lines := strings.Split(source, "\n")
	if lineNum > len(lines) {
		return ""
	}
	return lines[lineNum-1]
}

// Bag accumulates diagnostics for one pipeline stage. A stage with a
// non-empty Bag must halt the pipeline before the next stage runs (spec §7).
type Bag struct {
	items []*Diagnostic
}

// Add appends a diagnostic to the bag.
func (b *Bag) Add(d *Diagnostic) { b.items = append(b.items, d) }

// Addf is a convenience constructor-and-add for a Stage/position/message.
func (b *Bag) Addf(stage Stage, pos token.Position, source, file, format string, args ...any) {
	b.Add(&Diagnostic{Stage: stage, Pos: pos, Message: fmt.Sprintf(format, args...), Source: source, File: file})
}

// HasErrors reports whether any diagnostics were recorded.
func (b *Bag) HasErrors() bool { return len(b.items) > 0 }

// Items returns the recorded diagnostics in report order.
func (b *Bag) Items() []*Diagnostic { return b.items }

// String renders every diagnostic in the bag, one after another.
func (b *Bag) String() string {
	var sb strings.Builder
	for _, d := range b.items {
		sb.WriteString(d.Format())
	}
	return sb.String()
}
