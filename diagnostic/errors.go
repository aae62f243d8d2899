// Copyright © 2024 The ELPS authors

package diagnostic

import (
	"errors"

	"github.com/luthersystems/elvm/lisp"
	"github.com/luthersystems/elvm/parser"
)

// ReadErrorCode is the Code given to diagnostics for reader failures.
const ReadErrorCode = "read-error"

// FromError converts an error returned by the reader, compiler or engine
// into a Diagnostic.  Read errors carry a source span.  When form is not
// nil it names the top-level form whose evaluation failed and is attached
// as a note.
func FromError(err error, form *lisp.Value) Diagnostic {
	d := Diagnostic{
		Severity: SeverityError,
		Code:     lisp.Condition(err),
		Message:  err.Error(),
	}

	var rerr *parser.ReadError
	if errors.As(err, &rerr) {
		d.Code = ReadErrorCode
		d.Message = rerr.Msg
		if loc := rerr.Source; loc != nil && loc.Pos >= 0 {
			d.Spans = append(d.Spans, Span{
				File:  loc.File,
				Line:  loc.Line,
				Col:   loc.Col,
				Label: "expression starts here",
			})
		}
		return d
	}

	if form != nil {
		d.Notes = append(d.Notes, "while evaluating "+form.String())
	}
	return d
}
