// Package diag implements structured diagnostic records: the core never
// aborts a parse or fails a conversion over user content, it accumulates
// diagnostics instead.
package diag

import "fmt"

// Severity classifies a Record.
type Severity int

// Severity levels, from least to most severe.
const (
	Info Severity = iota
	Warning
	Error
)

func (s Severity) String() string {
	switch s {
	case Info:
		return "info"
	case Warning:
		return "warning"
	case Error:
		return "error"
	default:
		return "unknown"
	}
}

// Template identifies the kind of diagnostic without committing to
// literal message text, which callers are free to localize or reword.
type Template string

// Recognized templates.
const (
	UnterminatedBlock    Template = "unterminated-block"
	DanglingAttributes   Template = "dangling-attributes"
	UnresolvedXref       Template = "unresolved-cross-reference"
	CircularInclude      Template = "circular-include"
	IncludeNotFound      Template = "include-not-found"
	IncludeDepthExceeded Template = "include-depth-exceeded"
	IncludePathEscapes   Template = "include-path-escapes-base"
	IncludeIOError       Template = "include-io-error"
	MalformedInline      Template = "malformed-inline-markup"
	DisallowedLinkScheme Template = "disallowed-link-scheme"
	MaxNestingExceeded   Template = "max-nesting-depth-exceeded"
)

// Position locates a diagnostic in the source that produced it.
type Position struct {
	Line   int
	Column int
}

// Record is one diagnostic emitted during parsing or conversion.
type Record struct {
	Severity Severity
	Template Template
	Position Position
	Detail   string // e.g. the unresolved id, the offending path
}

func (r Record) String() string {
	if r.Detail == "" {
		return fmt.Sprintf("%v:%d:%d: %s", r.Severity, r.Position.Line, r.Position.Column, r.Template)
	}
	return fmt.Sprintf("%v:%d:%d: %s: %s", r.Severity, r.Position.Line, r.Position.Column, r.Template, r.Detail)
}

// List accumulates Records in emission order.
type List struct {
	records []Record
}

// Add appends a Record built from its arguments.
func (l *List) Add(sev Severity, tmpl Template, pos Position, detail string) {
	l.records = append(l.records, Record{Severity: sev, Template: tmpl, Position: pos, Detail: detail})
}

// Records returns all accumulated diagnostics in emission order.
func (l *List) Records() []Record {
	return l.records
}

// HasErrors reports whether any accumulated Record is Error severity.
func (l *List) HasErrors() bool {
	for _, r := range l.records {
		if r.Severity == Error {
			return true
		}
	}
	return false
}

// Count returns how many accumulated Records have the given severity.
func (l *List) Count(sev Severity) int {
	n := 0
	for _, r := range l.records {
		if r.Severity == sev {
			n++
		}
	}
	return n
}
