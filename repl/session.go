// Copyright © 2024 The ELPS authors

package repl

import (
	"errors"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/luthersystems/elvm/diagnostic"
	"github.com/luthersystems/elvm/lisp"
	"github.com/luthersystems/elvm/parser"
	"github.com/luthersystems/elvm/vm"
)

// stdinName labels locations within a line of REPL input.
const stdinName = "<stdin>"

// session evaluates lines of input on a single Thread.
type session struct {
	thread   *vm.Thread
	reader   *parser.Reader
	out      io.Writer
	renderer *diagnostic.Renderer
}

// evalLine reads and evaluates every expression in line, printing each
// result.  A read failure is reported and the remainder of the line is
// discarded.  Evaluation failures are reported and do not stop the line.
func (s *session) evalLine(line string) {
	rest := line
	for {
		v, next, err := s.reader.Read(rest)
		if errors.Is(err, io.EOF) {
			return
		}
		if err != nil {
			s.renderError(err, nil, line, len(line)-len(rest))
			return
		}
		rest = next
		result, err := s.thread.Eval(v)
		if err != nil {
			s.renderError(err, v, line, 0)
			continue
		}
		fmt.Fprintln(s.out, result) //nolint:errcheck // best-effort REPL output
	}
}

// renderError reports err.  Read error locations are relative to the text
// following offset, so their columns are shifted to index line.
func (s *session) renderError(err error, form *lisp.Value, line string, offset int) {
	d := diagnostic.FromError(err, form)
	shift := utf8.RuneCountInString(line[:offset])
	for i := range d.Spans {
		d.Spans[i].File = stdinName
		d.Spans[i].Col += shift
	}
	r := *s.renderer
	r.SourceReader = func(string) ([]byte, error) {
		return []byte(line), nil
	}
	if rerr := r.Render(s.out, d); rerr != nil {
		errlnf(s.out, "%v", err)
	}
}
