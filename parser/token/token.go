// Copyright © 2018 The ELPS authors

package token

import (
	"fmt"
	"unicode/utf8"
)

// Location is a position in a named source stream.
type Location struct {
	File string // a name representing the source stream
	Pos  int    // byte offset into the stream
	Line int    // line number (starting at 1 when tracked)
	Col  int    // line column number in runes (starting at 1 when tracked)
}

func (loc *Location) String() string {
	switch {
	case loc.Pos < 0:
		return loc.File
	case loc.Line == 0:
		return fmt.Sprintf("%s[%d]", loc.File, loc.Pos)
	case loc.File == "":
		return fmt.Sprintf("%d:%d", loc.Line, loc.Col)
	case loc.Col == 0:
		return fmt.Sprintf("%s:%d", loc.File, loc.Line)
	default:
		return fmt.Sprintf("%s:%d:%d", loc.File, loc.Line, loc.Col)
	}
}

// Locate returns the Location of byte offset pos in text.  Offsets beyond the
// end of text are clamped to the end.
func Locate(file string, text string, pos int) *Location {
	if pos > len(text) {
		pos = len(text)
	}
	if pos < 0 {
		pos = 0
	}
	loc := &Location{File: file, Pos: pos, Line: 1, Col: 1}
	lineStart := 0
	for i := 0; i < pos; i++ {
		if text[i] == '\n' {
			loc.Line++
			lineStart = i + 1
		}
	}
	loc.Col = utf8.RuneCountInString(text[lineStart:pos]) + 1
	return loc
}
