// Copyright © 2024 The ELPS authors

package diagnostic

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/muesli/reflow/indent"
	"github.com/muesli/reflow/wordwrap"
)

// Renderer writes diagnostics in the form
//
//	error[type-error]: expected fixnum but got symbol: foo
//	  --> prog.lisp:1:8
//	   |
//	 1 |  (add 1 foo)
//	   |         ^^^
//	   |
//	   = note: while evaluating (add 0x1 foo)
type Renderer struct {
	Color ColorMode

	// SourceReader returns the contents of a Span's File.  Nil reads the
	// file system.
	SourceReader func(string) ([]byte, error)

	// Width wraps notes at the given column.  Zero disables wrapping.
	Width int
}

const (
	notePrefix = "   = note: "
	tabWidth   = 4
)

// Render writes d to w.
func (r *Renderer) Render(w io.Writer, d Diagnostic) error {
	f, _ := w.(*os.File)
	out := &styledWriter{
		w:   bufio.NewWriter(w),
		pal: choosePalette(r.Color, f),
	}
	out.header(d)
	for _, span := range d.Spans {
		out.snippet(r.snippet(span))
	}
	for _, note := range d.Notes {
		out.printf("   %s=%s note: %s\n", out.pal.boldCyan, out.pal.reset, r.wrapNote(note))
	}
	if out.err != nil {
		return out.err
	}
	return out.w.Flush()
}

// wrapNote wraps note to the renderer width.  Continuation lines are
// aligned with the text following the note prefix.
func (r *Renderer) wrapNote(note string) string {
	limit := r.Width - len(notePrefix)
	if r.Width <= 0 || limit <= 0 {
		return note
	}
	first, rest, found := strings.Cut(wordwrap.String(note, limit), "\n")
	if !found {
		return first
	}
	return first + "\n" + indent.String(rest, uint(len(notePrefix)))
}

// snippet holds the pieces of a rendered Span.
type snippet struct {
	location string
	lineNum  string
	text     string // source line with tabs expanded; empty if unavailable
	offset   int    // display columns before the underline
	width    int    // underline length
	label    string
}

func (r *Renderer) snippet(span Span) snippet {
	sn := snippet{location: span.File, label: span.Label}
	if span.Line > 0 {
		sn.location += ":" + strconv.Itoa(span.Line)
		if span.Col > 0 {
			sn.location += ":" + strconv.Itoa(span.Col)
		}
	}
	line, ok := r.sourceLine(span.File, span.Line)
	if !ok {
		return sn
	}
	col := max(span.Col, 1)
	end := span.EndCol
	if end <= 0 {
		end = tokenEnd(line, col)
	}
	end = max(end, col)
	sn.lineNum = strconv.Itoa(span.Line)
	sn.text = strings.ReplaceAll(line, "\t", strings.Repeat(" ", tabWidth))
	if col-1 <= len(line) {
		sn.offset = displayWidth(line[:col-1])
	}
	sn.width = end - col + 1
	return sn
}

// sourceLine returns the 1-based line n of file.
func (r *Renderer) sourceLine(file string, n int) (string, bool) {
	if n <= 0 || file == "" {
		return "", false
	}
	read := r.SourceReader
	if read == nil {
		read = os.ReadFile
	}
	data, err := read(file)
	if err != nil {
		return "", false
	}
	lines := strings.Split(string(data), "\n")
	if n > len(lines) {
		return "", false
	}
	line := strings.TrimSuffix(lines[n-1], "\r")
	return line, line != ""
}

// tokenEnd returns the last column of the token beginning at col.
func tokenEnd(line string, col int) int {
	if col > len(line) {
		return col
	}
	i := col - 1
	for i < len(line) {
		c, size := utf8.DecodeRuneInString(line[i:])
		if c == ' ' || c == '\t' || c == '(' || c == ')' {
			break
		}
		i += size
	}
	return max(i, col)
}

// displayWidth is the rendered width of s with tabs expanded.
func displayWidth(s string) int {
	n := utf8.RuneCountInString(s)
	return n + strings.Count(s, "\t")*(tabWidth-1)
}

// styledWriter keeps the first write error and drops everything after it.
type styledWriter struct {
	w   *bufio.Writer
	pal palette
	err error
}

func (sw *styledWriter) printf(format string, args ...interface{}) {
	if sw.err == nil {
		_, sw.err = fmt.Fprintf(sw.w, format, args...)
	}
}

func (sw *styledWriter) header(d Diagnostic) {
	color := sw.pal.boldRed
	if d.Severity == SeverityNote {
		color = sw.pal.boldCyan
	}
	tag := d.Severity.String()
	if d.Code != "" {
		tag += "[" + d.Code + "]"
	}
	p := sw.pal
	sw.printf("%s%s%s%s:%s %s%s%s\n", color, p.bold, tag, p.reset, p.reset, p.bold, d.Message, p.reset)
}

func (sw *styledWriter) snippet(sn snippet) {
	p := sw.pal
	sw.printf("  %s-->%s %s\n", p.boldBlue, p.reset, sn.location)
	if sn.text == "" {
		sw.printf("   %s|%s\n", p.boldBlue, p.reset)
		return
	}
	gutter := strings.Repeat(" ", len(sn.lineNum))
	sw.printf(" %s%s |%s\n", p.boldBlue, gutter, p.reset)
	sw.printf(" %s%s |%s  %s\n", p.boldBlue, sn.lineNum, p.reset, sn.text)
	sw.printf(" %s%s |%s  %s%s%s%s", p.boldBlue, gutter, p.reset,
		strings.Repeat(" ", sn.offset), p.boldRed, strings.Repeat("^", sn.width), p.reset)
	if sn.label != "" {
		sw.printf(" %s%s%s", p.boldRed, sn.label, p.reset)
	}
	sw.printf("\n %s%s |%s\n", p.boldBlue, gutter, p.reset)
}
