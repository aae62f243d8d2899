// Copyright © 2024 The ELPS authors

package cmd

import (
	"fmt"

	"github.com/luthersystems/elvm/lsp"
	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"

	// Registers the commonlog backend used by the language server.
	_ "github.com/tliron/commonlog/simple"
)

// LSPCommand creates the "lsp" cobra command.
func LSPCommand() *cobra.Command {
	var (
		stdio   bool
		port    int
		verbose int
	)

	cmd := &cobra.Command{
		Use:   "lsp [flags]",
		Short: "Start the elvm Language Server Protocol server",
		Long: `Start an LSP server for elvm source files.

The language server reports read and evaluation errors as diagnostics and
provides hover, completion, document symbols and folding ranges.

Transport modes:
  --stdio      Use stdin/stdout for LSP communication (default)
  --port N     Listen for an LSP client on TCP port N

Examples:
  elvm lsp                           Start with stdio transport
  elvm lsp --port 7998               Start with TCP on port 7998
  elvm lsp -vv                       Log protocol traffic to stderr`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			commonlog.Configure(verbose, nil)
			srv := lsp.New(lsp.WithDebug(verbose > 1))
			if !stdio && port > 0 {
				addr := fmt.Sprintf("localhost:%d", port)
				commonlog.GetLogger("elvm").Noticef("listening on %s", addr)
				if err := srv.RunTCP(addr); err != nil {
					return fmt.Errorf("lsp server error: %w", err)
				}
				return nil
			}
			if err := srv.RunStdio(); err != nil {
				return fmt.Errorf("lsp server error: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&stdio, "stdio", false,
		"Use stdin/stdout for LSP communication (default behavior)")
	cmd.Flags().IntVar(&port, "port", 0,
		"TCP port for LSP server (use instead of --stdio)")
	cmd.Flags().CountVarP(&verbose, "verbose", "v",
		"Increase log verbosity (repeatable)")

	return cmd
}

func init() {
	rootCmd.AddCommand(LSPCommand())
}
