// Copyright © 2018 The ELPS authors

package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/luthersystems/elvm/vm"
	"github.com/luthersystems/elvm/vm/x/profiler"
	"github.com/spf13/cobra"
)

// errReported is returned by commands whose failure has already been
// rendered to stderr.
var errReported = errors.New("failed")

// RunCommand creates the "run" cobra command.
func RunCommand() *cobra.Command {
	var (
		expression  bool
		printValues bool
		callgrind   string
	)
	cmd := &cobra.Command{
		Use:   "run [flags] [files...]",
		Short: "Run lisp code",
		Long: `Run lisp code supplied via the command line or a file.

Every expression is evaluated in order on a single operand stack machine.
Evaluation stops at the first error.`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			srcs, err := readSources(args, expression)
			if err != nil {
				return err
			}
			var opts []vm.Option
			if callgrind != "" {
				p := profiler.NewCallgrindProfiler(nil, srcs[0].name)
				if err := p.SetFile(callgrind); err != nil {
					return err
				}
				if err := p.Enable(); err != nil {
					return err
				}
				defer p.Complete() //nolint:errcheck // best-effort profile flush
				opts = append(opts, vm.WithProfiler(p))
			}
			return runSources(cmd.OutOrStdout(), cmd.ErrOrStderr(), srcs, printValues, opts...)
		},
	}
	cmd.Flags().BoolVarP(&expression, "expression", "e", false,
		"Interpret arguments as lisp expressions")
	cmd.Flags().BoolVarP(&printValues, "print", "p", false,
		"Print expression values to stdout")
	cmd.Flags().StringVar(&callgrind, "callgrind", "",
		"Write a Callgrind profile of the run to the given file")
	return cmd
}

// runSources evaluates every expression of srcs in order.
func runSources(stdout, stderr io.Writer, srcs []source, printValues bool, opts ...vm.Option) error {
	s := newSession(stderr, opts...)
	for _, src := range srcs {
		forms, err := s.readSource(stderr, src)
		if err != nil {
			return errReported
		}
		for i := range forms {
			v, err := s.thread.Eval(forms[i].Value)
			if err != nil {
				s.report(stderr, err, &forms[i], src)
				return errReported
			}
			if printValues {
				fmt.Fprintln(stdout, v) //nolint:errcheck // best-effort output
			}
		}
	}
	return nil
}

func readSources(args []string, expression bool) ([]source, error) {
	srcs := make([]source, len(args))
	if expression {
		for i := range args {
			srcs[i] = source{name: fmt.Sprintf("<expr %d>", i+1), text: args[i]}
		}
		return srcs, nil
	}
	for i, path := range args {
		b, err := os.ReadFile(path) //#nosec G304
		if err != nil {
			return nil, err
		}
		srcs[i] = source{name: path, text: string(b)}
	}
	return srcs, nil
}

func init() {
	rootCmd.AddCommand(RunCommand())
}
