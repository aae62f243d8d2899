// Copyright © 2024 The ELPS authors

package lsp

import (
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// textDocumentFoldingRange handles the textDocument/foldingRange request.
// It returns a folding range for each top-level form spanning more than
// one line.
func (s *Server) textDocumentFoldingRange(_ *glsp.Context, params *protocol.FoldingRangeParams) ([]protocol.FoldingRange, error) {
	doc := s.docs.Get(params.TextDocument.URI)
	if doc == nil {
		return nil, nil
	}
	doc.mu.Lock()
	defer doc.mu.Unlock()

	ranges := []protocol.FoldingRange{}
	kind := string(protocol.FoldingRangeKindRegion)
	for _, top := range doc.forms {
		rng := offsetRange(doc.Content, top.Start, top.End)
		if rng.End.Line > rng.Start.Line {
			ranges = append(ranges, protocol.FoldingRange{
				StartLine: rng.Start.Line,
				EndLine:   rng.End.Line,
				Kind:      &kind,
			})
		}
	}
	return ranges, nil
}
