// Package diag collects structured diagnostics produced during parsing and
// code generation. It replaces bare error strings with a
// {Stage, Message, Line, Column} value so the CLI can render consistent
// "file:line:col: message" output, while still satisfying spec §7's model
// of "an error list that is inspected after the pass completes".
package diag

import "fmt"

// Stage names which compiler pass produced a Diagnostic.
type Stage string

const (
	StageParse  Stage = "parse"
	StageCompile Stage = "compile"
)

// Diagnostic is a single recorded error.
type Diagnostic struct {
	Stage   Stage
	Message string
	Line    int
	Column  int
}

func (d Diagnostic) Error() string {
	if d.Line > 0 {
		return fmt.Sprintf("%d:%d: %s", d.Line, d.Column, d.Message)
	}
	return d.Message
}

// Bag is an ordered collector of Diagnostics. It never panics; the caller
// inspects Len() after a pass completes and aborts if non-empty, matching
// spec §7's recovery model for both parse and compile errors.
type Bag struct {
	entries []Diagnostic
}

// Add appends a new Diagnostic to the bag.
func (b *Bag) Add(stage Stage, line, col int, format string, args ...interface{}) {
	b.entries = append(b.entries, Diagnostic{
		Stage:   stage,
		Message: fmt.Sprintf(format, args...),
		Line:    line,
		Column:  col,
	})
}

// Len returns the number of diagnostics recorded so far.
func (b *Bag) Len() int { return len(b.entries) }

// All returns the recorded diagnostics in recording order.
func (b *Bag) All() []Diagnostic { return b.entries }

// Errors renders every recorded Diagnostic as an error value.
func (b *Bag) Errors() []error {
	errs := make([]error, len(b.entries))
	for i, d := range b.entries {
		errs[i] = d
	}
	return errs
}

// Merge appends every diagnostic from other into b, useful when an import's
// sub-parse or sub-compile reports its own errors (spec §4.6).
func (b *Bag) Merge(other *Bag) {
	b.entries = append(b.entries, other.entries...)
}
