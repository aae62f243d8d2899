// Copyright © 2024 The ELPS authors

package lsp

import (
	"strings"
	"unicode/utf8"

	protocol "github.com/tliron/glsp/protocol_3_16"
)

// offsetToPosition converts a byte offset in content to a 0-based LSP
// position.  Characters are counted in UTF-16 code units as the protocol
// requires.
func offsetToPosition(content string, offset int) protocol.Position {
	if offset > len(content) {
		offset = len(content)
	}
	var line, char int
	for i, r := range content {
		if i >= offset {
			break
		}
		if r == '\n' {
			line++
			char = 0
			continue
		}
		char += utf16Len(r)
	}
	return protocol.Position{Line: safeUint(line), Character: safeUint(char)}
}

// positionToOffset converts a 0-based LSP position to a byte offset in
// content.  Positions past the end of a line clamp to the line's end.
func positionToOffset(content string, pos protocol.Position) int {
	offset := 0
	for line := 0; line < int(pos.Line); line++ {
		i := strings.IndexByte(content[offset:], '\n')
		if i < 0 {
			return len(content)
		}
		offset += i + 1
	}
	char := 0
	for offset < len(content) && char < int(pos.Character) {
		r, size := utf8.DecodeRuneInString(content[offset:])
		if r == '\n' {
			break
		}
		char += utf16Len(r)
		offset += size
	}
	return offset
}

// offsetRange converts the byte range [start, end) to an LSP range.
func offsetRange(content string, start, end int) protocol.Range {
	return protocol.Range{
		Start: offsetToPosition(content, start),
		End:   offsetToPosition(content, end),
	}
}

// utf16Len returns the number of UTF-16 code units encoding r.
func utf16Len(r rune) int {
	if r >= 0x10000 {
		return 2
	}
	return 1
}

// safeUint converts a non-negative int to protocol.UInteger, clamping
// negative values to zero.
func safeUint(n int) protocol.UInteger {
	if n < 0 {
		return 0
	}
	return protocol.UInteger(n) // #nosec G115 -- line/col are always small positive ints
}

// wordAtPosition returns the symbol prefix ending at byte offset pos.
func wordAtPosition(content string, pos int) string {
	start := pos
	for start > 0 {
		r, size := utf8.DecodeLastRuneInString(content[:start])
		if !isSymbolRune(r) {
			break
		}
		start -= size
	}
	return content[start:pos]
}

func isSymbolRune(r rune) bool {
	return r >= '0' && r <= '9' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z'
}

func uriToPath(uri string) string {
	if path, ok := strings.CutPrefix(uri, "file://"); ok {
		return path
	}
	return uri
}
