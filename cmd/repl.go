// Copyright © 2018 The ELPS authors

package cmd

import (
	"github.com/luthersystems/elvm/repl"
	"github.com/luthersystems/elvm/vm"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// replCmd represents the repl command
var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Start an interactive elvm REPL",
	Long: `Start an interactive read-eval-print loop.

Line editing, symbol completion and command history are supported via
readline.  Use Ctrl-D to exit.  The prompt may be changed with the
"prompt" configuration key or the ELVM_PROMPT environment variable.

Example REPL session:
  ? (add 1 2)
  0x3
  ? (declare fast)
  nil
  ? (add 1 foo)
  error[type-error]: expected fixnum but got symbol: foo`,
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		var opts []vm.Option
		if n := viper.GetInt(keyStackCapacity); n > 0 {
			opts = append(opts, vm.WithStackCapacity(n))
		}
		opts = append(opts, threadOptions(cmd.ErrOrStderr())...)
		return repl.RunRepl(viper.GetString(keyPrompt),
			repl.WithColor(colorMode()),
			repl.WithThreadOptions(opts...))
	},
}

func init() {
	rootCmd.AddCommand(replCmd)
}
