// Copyright © 2024 The ELPS authors

package cmd

import (
	"io"
	"os"

	"github.com/luthersystems/elvm/compiler"
	"github.com/luthersystems/elvm/diagnostic"
	"github.com/luthersystems/elvm/lisp"
	"github.com/luthersystems/elvm/parser"
	"github.com/luthersystems/elvm/parser/token"
	"github.com/luthersystems/elvm/vm"
	"github.com/spf13/viper"
)

// source is a named unit of program text.
type source struct {
	name string
	text string
}

// session holds a reader and a thread sharing one interner, configured
// from viper.
type session struct {
	reader   *parser.Reader
	compiler *compiler.Compiler
	thread   *vm.Thread
	renderer *diagnostic.Renderer
	sources  map[string]string
}

func newSession(stderr io.Writer, opts ...vm.Option) *session {
	in := lisp.NewInterner()
	c := compiler.New(compiler.WithInterner(in))
	vmOpts := append([]vm.Option{
		vm.WithCompiler(c),
		vm.WithStackCapacity(viper.GetInt(keyStackCapacity)),
	}, threadOptions(stderr)...)
	vmOpts = append(vmOpts, opts...)
	s := &session{
		reader:   parser.NewReader(parser.WithInterner(in)),
		compiler: c,
		thread:   vm.New(vmOpts...),
		sources:  make(map[string]string),
	}
	s.renderer = &diagnostic.Renderer{
		Color: colorMode(),
		SourceReader: func(name string) ([]byte, error) {
			if text, ok := s.sources[name]; ok {
				return []byte(text), nil
			}
			return os.ReadFile(name) //nolint:gosec // reads user-specified source files for display
		},
	}
	return s
}

func threadOptions(stderr io.Writer) []vm.Option {
	var opts []vm.Option
	if viper.GetBool(keyTrace) {
		opts = append(opts, vm.WithTrace(stderr))
	}
	return opts
}

func colorMode() diagnostic.ColorMode {
	return diagnostic.ParseColorMode(viper.GetString(keyColor))
}

// readSource parses every expression in src.  Read failures are rendered
// to w and returned.
func (s *session) readSource(w io.Writer, src source) ([]parser.Form, error) {
	s.sources[src.name] = src.text
	forms, err := s.reader.ReadForms(src.name, src.text)
	if err != nil {
		s.report(w, err, nil, src)
		return nil, err
	}
	return forms, nil
}

// report renders err to w.  When form is not nil the diagnostic points at
// the form's location within src.
func (s *session) report(w io.Writer, err error, form *parser.Form, src source) {
	var v *lisp.Value
	if form != nil {
		v = form.Value
	}
	d := diagnostic.FromError(err, v)
	if form != nil && len(d.Spans) == 0 {
		loc := token.Locate(src.name, src.text, form.Start)
		d.Spans = append(d.Spans, diagnostic.Span{
			File:   loc.File,
			Line:   loc.Line,
			Col:    loc.Col,
			EndCol: endCol(src.text, form, loc),
		})
		d.Notes = nil
	}
	_ = s.renderer.Render(w, d)
}

// endCol returns the last column of form if it ends on its first line.
func endCol(text string, form *parser.Form, start *token.Location) int {
	end := token.Locate(start.File, text, form.End)
	if end.Line != start.Line || end.Col <= start.Col {
		return 0
	}
	return end.Col - 1
}
