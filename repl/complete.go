// Copyright © 2018 The ELPS authors

package repl

import (
	"sort"
	"strings"

	"github.com/luthersystems/elvm/lisp"
)

// symbolCompleter implements readline.AutoCompleter by enumerating operator
// names and the symbols interned so far in the session.
type symbolCompleter struct {
	interner  *lisp.Interner
	operators []string
}

func (c *symbolCompleter) Do(line []rune, pos int) ([][]rune, int) {
	// Extract the word being typed (backwards from cursor to whitespace or open paren).
	start := pos
	for start > 0 {
		ch := line[start-1]
		if ch == ' ' || ch == '\t' || ch == '(' || ch == ')' || ch == '\n' {
			break
		}
		start--
	}
	prefix := string(line[start:pos])
	if prefix == "" {
		return nil, 0
	}

	candidates := c.collectSymbols(prefix)
	if len(candidates) == 0 {
		return nil, 0
	}

	// Build completions: each entry is the suffix to append.
	result := make([][]rune, 0, len(candidates))
	for _, sym := range candidates {
		suffix := sym[len(prefix):]
		result = append(result, []rune(suffix))
	}
	return result, len(prefix)
}

func (c *symbolCompleter) collectSymbols(prefix string) []string {
	seen := make(map[string]bool)
	var result []string
	add := func(name string) {
		if name != prefix && strings.HasPrefix(name, prefix) && !seen[name] {
			seen[name] = true
			result = append(result, name)
		}
	}
	for _, op := range c.operators {
		add(op)
	}
	if c.interner != nil {
		for _, name := range c.interner.Names() {
			add(name)
		}
	}
	sort.Strings(result)
	return result
}
