// Copyright © 2024 The ELPS authors

package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, cmd *cobra.Command, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	var outBuf, errBuf bytes.Buffer
	cmd.SetOut(&outBuf)
	cmd.SetErr(&errBuf)
	cmd.SetArgs(args)
	err = cmd.Execute()
	return outBuf.String(), errBuf.String(), err
}

func TestRunCommand_DefaultFlags(t *testing.T) {
	cmd := RunCommand()
	assert.Equal(t, "run [flags] [files...]", cmd.Use)
	for _, name := range []string{"expression", "print", "callgrind"} {
		assert.NotNil(t, cmd.Flags().Lookup(name), "missing flag: %s", name)
	}
}

func TestRunCommand_PrintExpressions(t *testing.T) {
	stdout, stderr, err := execute(t, RunCommand(), "-p", "-e", "(add 1 2) 0x10", "(declare fast)")
	require.NoError(t, err)
	assert.Equal(t, "0x3\n0x10\nnil\n", stdout)
	assert.Empty(t, stderr)
}

func TestRunCommand_Quiet(t *testing.T) {
	stdout, _, err := execute(t, RunCommand(), "-e", "(add 1 2)")
	require.NoError(t, err)
	assert.Empty(t, stdout)
}

func TestRunCommand_File(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sum.lisp")
	require.NoError(t, os.WriteFile(path, []byte("(declare pure)\n(add 1\n     (add 2 3))\n"), 0o600))

	stdout, _, err := execute(t, RunCommand(), "-p", path)
	require.NoError(t, err)
	assert.Equal(t, "nil\n0x6\n", stdout)
}

func TestRunCommand_MissingFile(t *testing.T) {
	_, _, err := execute(t, RunCommand(), filepath.Join(t.TempDir(), "missing.lisp"))
	assert.Error(t, err)
}

func TestRunCommand_EvalError(t *testing.T) {
	stdout, stderr, err := execute(t, RunCommand(), "-p", "-e", "(add 1 2) (add 1 foo) (add 3 4)")
	require.ErrorIs(t, err, errReported)
	assert.Equal(t, "0x3\n", stdout, "evaluation stops at the first error")
	assert.Contains(t, stderr, "error[type-error]: expected fixnum but got symbol: foo")
	assert.Contains(t, stderr, "--> <expr 1>:1:11")
	assert.Contains(t, stderr, "(add 1 2) (add 1 foo) (add 3 4)")
	assert.Contains(t, stderr, "          ^^^^^^^^^^^\n")
	assert.NotContains(t, stderr, "note:")
}

func TestRunCommand_ReadError(t *testing.T) {
	stdout, stderr, err := execute(t, RunCommand(), "-p", "-e", "(add 1")
	require.ErrorIs(t, err, errReported)
	assert.Empty(t, stdout)
	assert.Contains(t, stderr, "error[read-error]")
	assert.Contains(t, stderr, "--> <expr 1>:1:1")
}

func TestRunCommand_Trace(t *testing.T) {
	viper.Set(keyTrace, true)
	t.Cleanup(func() { viper.Set(keyTrace, false) })

	_, stderr, err := execute(t, RunCommand(), "-e", "(add 1 2)")
	require.NoError(t, err)
	assert.Contains(t, stderr, "   0  literal 0x1")
	assert.Contains(t, stderr, "   2  fixnum-add")
	assert.Contains(t, stderr, "height=1\n")
}

func TestRunCommand_Callgrind(t *testing.T) {
	out := filepath.Join(t.TempDir(), "callgrind.out")
	_, _, err := execute(t, RunCommand(), "--callgrind", out, "-e", "(add 1 2)", "(declare x)")
	require.NoError(t, err)

	b, err := os.ReadFile(out) //#nosec G304
	require.NoError(t, err)
	profile := string(b)
	assert.Contains(t, profile, "version: 1\n")
	assert.Contains(t, profile, "fl=(1) <expr 1>\n")
	assert.Contains(t, profile, "fn=(2) add\n")
	assert.Contains(t, profile, "fn=(3) declare\n")
	assert.Contains(t, profile, "ENTRYPOINT")
	assert.Contains(t, profile, "summary ")
}

func TestCompileCommand_Listing(t *testing.T) {
	stdout, stderr, err := execute(t, CompileCommand(), "-e", "(add 1 (add 2 3))", "(declare fast)", "foo")
	require.NoError(t, err)
	assert.Empty(t, stderr)
	expect := "; (add 0x1 (add 0x2 0x3))\n" +
		"   0  literal 0x1\n" +
		"   1  literal 0x2\n" +
		"   2  literal 0x3\n" +
		"   3  fixnum-add\n" +
		"   4  fixnum-add\n" +
		"; (declare fast)\n" +
		";   declaration\n" +
		"; foo\n" +
		"   0  literal foo\n"
	assert.Equal(t, expect, stdout)
}

func TestCompileCommand_ReportsEveryError(t *testing.T) {
	stdout, stderr, err := execute(t, CompileCommand(), "-e", "(sub 1 2)", "(add)", "(add 1 2)")
	require.ErrorIs(t, err, errReported)
	assert.Contains(t, stderr, "error[unknown-form]")
	assert.Contains(t, stderr, "error[arity-error]")
	assert.Contains(t, stdout, "; (add 0x1 0x2)\n")
}

func TestLSPCommand_Flags(t *testing.T) {
	cmd := LSPCommand()
	for _, name := range []string{"stdio", "port", "verbose"} {
		assert.NotNil(t, cmd.Flags().Lookup(name), "missing flag: %s", name)
	}
}

func TestRootCommand_Subcommands(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, name := range []string{"run", "compile", "repl", "lsp"} {
		assert.True(t, names[name], "missing subcommand: %s", name)
	}
	for _, key := range []string{keyColor, keyStackCapacity, keyTrace} {
		assert.NotNil(t, rootCmd.PersistentFlags().Lookup(key), "missing flag: %s", key)
	}
}
