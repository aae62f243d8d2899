// Copyright © 2024 The ELPS authors

package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

// CompileCommand creates the "compile" cobra command.
func CompileCommand() *cobra.Command {
	var expression bool
	cmd := &cobra.Command{
		Use:   "compile [flags] [files...]",
		Short: "Print the instructions compiled for lisp code",
		Long: `Compile each top-level expression and print its instruction listing
without executing it.

Example:
  $ elvm compile -e '(add 1 (add 2 3))'
  ; (add 0x1 (add 0x2 0x3))
     0  literal 0x1
     1  literal 0x2
     2  literal 0x3
     3  fixnum-add
     4  fixnum-add`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			srcs, err := readSources(args, expression)
			if err != nil {
				return err
			}
			return compileSources(cmd.OutOrStdout(), cmd.ErrOrStderr(), srcs)
		},
	}
	cmd.Flags().BoolVarP(&expression, "expression", "e", false,
		"Interpret arguments as lisp expressions")
	return cmd
}

// compileSources prints the listing of every top-level expression in srcs.
// Literals and declarations are listed too.  Every compile failure is
// reported before an error is returned.
func compileSources(stdout, stderr io.Writer, srcs []source) error {
	s := newSession(stderr)
	failed := false
	for _, src := range srcs {
		forms, err := s.readSource(stderr, src)
		if err != nil {
			failed = true
			continue
		}
		for i := range forms {
			fn, err := s.compiler.CompileTopLevel(forms[i].Value)
			if err != nil {
				s.report(stderr, err, &forms[i], src)
				failed = true
				continue
			}
			fmt.Fprintf(stdout, "; %v\n", forms[i].Value) //nolint:errcheck // best-effort output
			if fn == nil {
				fmt.Fprintln(stdout, ";   declaration") //nolint:errcheck // best-effort output
				continue
			}
			io.WriteString(stdout, fn.String()) //nolint:errcheck // best-effort output
		}
	}
	if failed {
		return errReported
	}
	return nil
}

func init() {
	rootCmd.AddCommand(CompileCommand())
}
