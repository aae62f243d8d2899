// Copyright © 2018 The ELPS authors

// Package repl implements an interactive read-eval-print loop over a single
// vm.Thread.
package repl

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/ergochat/readline"
	"github.com/luthersystems/elvm/compiler"
	"github.com/luthersystems/elvm/diagnostic"
	"github.com/luthersystems/elvm/lisp"
	"github.com/luthersystems/elvm/parser"
	"github.com/luthersystems/elvm/vm"
	"github.com/mattn/go-isatty"
)

// DefaultPrompt is printed before each line of input.
const DefaultPrompt = "? "

type config struct {
	stdin       io.ReadCloser
	stderr      io.WriteCloser
	historyFile string
	color       diagnostic.ColorMode
	vmOpts      []vm.Option
}

func newConfig(opts ...Option) *config {
	config := &config{
		historyFile: historyPath(),
	}
	for _, opt := range opts {
		opt(config)
	}
	return config
}

type Option func(*config)

// WithStdin allows overriding the input to the REPL.
func WithStdin(stdin io.ReadCloser) Option {
	return func(c *config) {
		c.stdin = stdin
	}
}

// WithStderr allows overriding the output to the REPL.
func WithStderr(stderr io.WriteCloser) Option {
	return func(c *config) {
		c.stderr = stderr
	}
}

// WithHistoryFile sets the file used to persist input history.  An empty
// path disables history.
func WithHistoryFile(path string) Option {
	return func(c *config) {
		c.historyFile = path
	}
}

// WithColor controls colored error output.
func WithColor(mode diagnostic.ColorMode) Option {
	return func(c *config) {
		c.color = mode
	}
}

// WithThreadOptions passes opts to the Thread created by RunRepl.
func WithThreadOptions(opts ...vm.Option) Option {
	return func(c *config) {
		c.vmOpts = append(c.vmOpts, opts...)
	}
}

// RunRepl runs a repl on a fresh Thread.  The session ends when input is
// exhausted; a failure reading input is returned as a *lisp.IOError.
func RunRepl(prompt string, opts ...Option) error {
	cfg := newConfig(opts...)
	in := lisp.NewInterner()
	reader := parser.NewReader(parser.WithInterner(in))
	vmOpts := append([]vm.Option{
		vm.WithCompiler(compiler.New(compiler.WithInterner(in))),
	}, cfg.vmOpts...)
	return RunThread(vm.New(vmOpts...), reader, prompt, opts...)
}

// RunThread runs a repl evaluating input on th.  The reader and the
// thread's compiler must share an interner.
func RunThread(th *vm.Thread, reader *parser.Reader, prompt string, opts ...Option) error {
	cfg := newConfig(opts...)
	var stderr io.Writer = os.Stderr
	if cfg.stderr != nil {
		stderr = cfg.stderr
	}
	if cfg.stdin == nil && !isatty.IsTerminal(os.Stdin.Fd()) {
		// Piped input is not echoed so a prompt would only clutter output.
		prompt = ""
	}
	ensureHistoryFilePermissions(cfg.historyFile)

	rlCfg := &readline.Config{
		Stdout:            stderr,
		Stderr:            stderr,
		Prompt:            prompt,
		HistoryFile:       cfg.historyFile,
		HistorySearchFold: true,
		AutoComplete: &symbolCompleter{
			interner:  reader.Interner(),
			operators: compiler.Operators(),
		},
	}
	if cfg.stdin != nil {
		rlCfg.Stdin = cfg.stdin
	}
	rl, err := readline.NewEx(rlCfg)
	if err != nil {
		return &lisp.IOError{Err: err}
	}
	defer rl.Close() //nolint:errcheck // best-effort cleanup

	s := &session{
		thread:   th,
		reader:   reader,
		out:      stderr,
		renderer: &diagnostic.Renderer{Color: cfg.color},
	}
	for {
		line, err := rl.ReadSlice()
		if errors.Is(err, readline.ErrInterrupt) {
			continue
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return &lisp.IOError{Err: err}
		}
		s.evalLine(string(line))
	}
}

func historyPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".elvm_history")
}

// ensureHistoryFilePermissions creates path if necessary and restricts it
// to the current user.
func ensureHistoryFilePermissions(path string) {
	if path == "" {
		return
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDONLY, 0600) //#nosec G304
	if err != nil {
		return
	}
	_ = f.Close()
	_ = os.Chmod(path, 0600)
}

func errlnf(w io.Writer, format string, v ...interface{}) {
	fmt.Fprintf(w, format+"\n", v...) //nolint:errcheck // best-effort REPL output
}
