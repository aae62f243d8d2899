// Copyright © 2018 The ELPS authors

// Package elpstest runs sequences of expressions through the reader,
// compiler and virtual machine and compares their printed results.
package elpstest

import (
	"bytes"
	"fmt"
	"os"
	"testing"

	"github.com/luthersystems/elvm/compiler"
	"github.com/luthersystems/elvm/lisp"
	"github.com/luthersystems/elvm/parser"
	"github.com/luthersystems/elvm/vm"
)

func BenchmarkParse(path string, r func() *parser.Reader) func(*testing.B) {
	return func(b *testing.B) {
		buf, err := os.ReadFile(path) //#nosec G304
		if err != nil {
			b.Fatalf("Unable to read source file %v: %v", path, err)
		}
		b.SetBytes(int64(len(buf)))
		for i := 0; i < b.N; i++ {
			_, err := r().ReadAll("test", bytes.NewReader(buf))
			if err != nil {
				b.Fatalf("Parse failure: %v", err)
			}
		}
	}
}

// Session pairs a Reader with a Thread whose compiler shares its interner.
type Session struct {
	Reader *parser.Reader
	Thread *vm.Thread
}

// NewSession returns a Session with a fresh interner.  Additional options
// are applied to the Thread after the compiler option.
func NewSession(t testing.TB, opts ...vm.Option) *Session {
	in := lisp.NewInterner()
	opts = append([]vm.Option{
		vm.WithCompiler(compiler.New(compiler.WithInterner(in))),
		vm.WithLogger(StdLogger(t)),
	}, opts...)
	return &Session{
		Reader: parser.NewReader(parser.WithInterner(in)),
		Thread: vm.New(opts...),
	}
}

// EvalString reads exactly one expression from src and evaluates it.
func (s *Session) EvalString(src string) (*lisp.Value, error) {
	forms, err := s.Reader.ReadForms("test", src)
	if err != nil {
		return nil, err
	}
	if len(forms) != 1 {
		return nil, fmt.Errorf("expected one expression (got %d)", len(forms))
	}
	return s.Thread.Eval(forms[0].Value)
}

// Result formats the outcome of an evaluation the way TestSequence expects
// it.  Errors are rendered as their condition name followed by the message.
func Result(v *lisp.Value, err error) string {
	if err != nil {
		return fmt.Sprintf("%s: %v", lisp.Condition(err), err)
	}
	return v.String()
}

// TestSequence is a sequence of lisp expressions which are evaluated
// sequentially by a single vm.Thread.
type TestSequence []struct {
	Expr   string // a lisp expression
	Result string // the evaluated result
	Output string // instruction trace, compared only for traced suites
}

// TestSuite is a set of named TestSequences
type TestSuite []struct {
	Name  string
	Trace bool
	TestSequence
}

// RunTestSuite runs each TestSequence in tests on isolated Threads.  After
// every expression the Thread's operand stack must be empty.
func RunTestSuite(t *testing.T, tests TestSuite) {
	for i, test := range tests {
		t.Logf("test %d -- %s", i, test.Name)
		var traceBuf bytes.Buffer
		var opts []vm.Option
		if test.Trace {
			opts = append(opts, vm.WithTrace(&traceBuf))
		}
		s := NewSession(t, opts...)
		for j, expr := range test.TestSequence {
			traceBuf.Reset()
			result := Result(s.EvalString(expr.Expr))
			if result != expr.Result {
				t.Errorf("test %d %q: expr %d: expected result %s (got %s)", i, test.Name, j, expr.Result, result)
			}
			if test.Trace && traceBuf.String() != expr.Output {
				t.Errorf("test %d %q: expr %d: expected trace %q (got %q)", i, test.Name, j, expr.Output, traceBuf.String())
			}
			if h := s.Thread.Height(); h != 0 {
				t.Errorf("test %d %q: expr %d: operand stack height %d after evaluation", i, test.Name, j, h)
			}
		}
	}
}

// RunBenchmark runs a standard benchmark that evaluates expressions parsed
// from source.
func RunBenchmark(b *testing.B, source string) {
	b.StopTimer()
	s := NewSession(b)
	forms, err := s.Reader.ReadForms("benchmark", source)
	if err != nil {
		b.Fatalf("parse error: %v", err)
	}
	for i := 0; i < b.N; i++ {
		b.StartTimer()
		for j, form := range forms {
			_, err := s.Thread.Eval(form.Value)
			if err != nil {
				b.Fatalf("expr %d: %v", j, err)
			}
		}
		b.StopTimer()
	}
}
