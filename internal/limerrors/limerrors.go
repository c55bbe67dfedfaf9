// Package limerrors provides the typed, source-positioned diagnostics
// the generator accumulates while processing a grammar.
package limerrors

import (
	"errors"
	"fmt"
)

// ErrInternal is the sentinel wrapped by Internal, for the handful of
// programmer-error invariant violations (an unrecognized emitter
// language, an unexpected associativity combination reaching conflict
// resolution's default branch) that indicate a tool bug rather than a
// malformed grammar file.
var ErrInternal = errors.New("limerrors: internal invariant violation")

// Internal wraps ErrInternal with a formatted message. These are never
// produced by a malformed grammar file and are returned, not panicked.
func Internal(format string, a ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInternal, fmt.Sprintf(format, a...))
}

// Severity classifies a diagnostic for reporting and exit-status
// purposes: Warning and Semantic accumulate but don't by themselves
// halt the pass; Fatal terminates the run.
type Severity int

const (
	Warning Severity = iota
	Semantic
	Fatal
)

func (s Severity) String() string {
	switch s {
	case Warning:
		return "warning"
	case Semantic:
		return "semantic error"
	case Fatal:
		return "fatal error"
	default:
		return "error"
	}
}

// Diagnostic is a single reported problem, always rendered as
// "<source-file>[ (line N)]: <message>".
type Diagnostic struct {
	Severity Severity
	File     string
	Line     int // 0 means no line is known
	msg      string
	wrap     error
}

// New constructs a Diagnostic with a formatted message.
func New(sev Severity, file string, line int, format string, a ...interface{}) *Diagnostic {
	return &Diagnostic{Severity: sev, File: file, Line: line, msg: fmt.Sprintf(format, a...)}
}

// Wrap constructs a Diagnostic that wraps an underlying error.
func Wrap(sev Severity, file string, line int, err error, format string, a ...interface{}) *Diagnostic {
	d := New(sev, file, line, format, a...)
	d.wrap = err
	return d
}

// Error renders the diagnostic as "<source-file>[ (line N)]: <message>".
func (d *Diagnostic) Error() string {
	if d.Line > 0 {
		return fmt.Sprintf("%s (line %d): %s", d.File, d.Line, d.msg)
	}
	return fmt.Sprintf("%s: %s", d.File, d.msg)
}

// Unwrap gives the error d wraps, if any.
func (d *Diagnostic) Unwrap() error {
	return d.wrap
}

// Reporter accumulates diagnostics across a generator run so that all
// errors are surfaced in one invocation rather than stopping at the
// first.
type Reporter struct {
	diagnostics  []*Diagnostic
	conflicts    int
	conflictMsgs []string
}

// Add accumulates a new diagnostic.
func (r *Reporter) Add(d *Diagnostic) {
	r.diagnostics = append(r.diagnostics, d)
}

// Addf is a convenience wrapper around Add/New.
func (r *Reporter) Addf(sev Severity, file string, line int, format string, a ...interface{}) {
	r.Add(New(sev, file, line, format, a...))
}

// AddConflict records one unresolved parsing conflict. Conflicts are
// not reporter errors for exit-status purposes but are counted
// separately so the CLI can use the count as its exit code.
func (r *Reporter) AddConflict() {
	r.conflicts++
}

// AddConflictf records one unresolved conflict along with a description
// of the offending actions, reported to stdout at the end of the run.
func (r *Reporter) AddConflictf(format string, a ...interface{}) {
	r.conflicts++
	r.conflictMsgs = append(r.conflictMsgs, fmt.Sprintf(format, a...))
}

// ConflictCount returns the number of conflicts recorded so far.
func (r *Reporter) ConflictCount() int {
	return r.conflicts
}

// ConflictMessages returns the description of every recorded conflict
// that carried one, in the order the conflicts were found.
func (r *Reporter) ConflictMessages() []string {
	return r.conflictMsgs
}

// Diagnostics returns every accumulated diagnostic, in report order.
func (r *Reporter) Diagnostics() []*Diagnostic {
	return r.diagnostics
}

// HasErrors reports whether any Semantic or Fatal diagnostic was
// recorded; a true result suppresses emitter output.
func (r *Reporter) HasErrors() bool {
	for _, d := range r.diagnostics {
		if d.Severity == Semantic || d.Severity == Fatal {
			return true
		}
	}
	return false
}

// Count returns the total number of accumulated diagnostics.
func (r *Reporter) Count() int {
	return len(r.diagnostics)
}
