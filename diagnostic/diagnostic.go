// Copyright © 2024 The ELPS authors

// Package diagnostic renders read and evaluation failures as annotated
// source snippets for the elvm command line, REPL and language server.
package diagnostic

// Severity ranks a diagnostic.
type Severity int

const (
	SeverityError Severity = iota
	SeverityNote
)

func (s Severity) String() string {
	if s == SeverityNote {
		return "note"
	}
	return "error"
}

// Span points at a run of columns on one source line.
type Span struct {
	// File names the source.  It is passed to Renderer.SourceReader and
	// shown verbatim when the source cannot be read.
	File string
	// Line and Col are 1-based.
	Line int
	Col  int
	// EndCol is the last underlined column.  Zero extends the underline to
	// the end of the token at Col.
	EndCol int
	Label  string
}

// Diagnostic is one reportable failure.
type Diagnostic struct {
	Severity Severity
	// Code is the condition name, e.g. type-error.
	Code    string
	Message string
	Spans   []Span
	Notes   []string
}
