// Copyright © 2018 The ELPS authors

package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Configuration keys.  Each is also a persistent flag and may be set through
// an ELVM_ prefixed environment variable (e.g. ELVM_STACK_CAPACITY).
const (
	keyStackCapacity = "stack-capacity"
	keyTrace         = "trace"
	keyColor         = "color"
	keyPrompt        = "prompt"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "elvm",
	Short: "elvm: a tiny lisp compiled to a stack machine",
	Long: `elvm reads lisp expressions, compiles them to instructions for a small
operand stack machine and executes them.

Getting started:
  elvm run file.lisp           Evaluate every expression in a file
  elvm run -e '(add 1 2)'      Evaluate an expression
  elvm compile -e '(add 1 2)'  Print the instructions for an expression
  elvm repl                    Start an interactive REPL
  elvm lsp                     Start the language server

Language overview:
  Expressions are numbers, symbols and parenthesized lists.  Numbers are
  32-bit integers written in decimal (42, -7) or hexadecimal (0x2a) and are
  printed in hexadecimal.  (add a b ...) sums its arguments.  (declare ...)
  is accepted at the top level and evaluates to nil.  Symbols and numbers
  evaluate to themselves.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default is $HOME/.elvm.yaml)")
	flags.String(keyColor, "auto",
		`Control colored output: "auto", "always", or "never".`)
	flags.Int(keyStackCapacity, 0,
		"Initial operand stack capacity (0 uses the engine default)")
	flags.Bool(keyTrace, false,
		"Write each executed instruction to stderr")
	for _, key := range []string{keyColor, keyStackCapacity, keyTrace} {
		if err := viper.BindPFlag(key, flags.Lookup(key)); err != nil {
			panic(err)
		}
	}
	viper.SetDefault(keyPrompt, "? ")
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := os.UserHomeDir()
		if err == nil {
			// Search config in home directory with name ".elvm" (without extension).
			viper.AddConfigPath(home)
		}
		viper.SetConfigName(".elvm")
	}

	viper.SetEnvPrefix("elvm")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}
