// Copyright © 2024 The ELPS authors

package lsp

import (
	"github.com/luthersystems/elvm/lisp"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// textDocumentDocumentSymbol handles the textDocument/documentSymbol
// request.  Each top-level form is a symbol named by its source text with
// its value as detail.
func (s *Server) textDocumentDocumentSymbol(_ *glsp.Context, params *protocol.DocumentSymbolParams) (any, error) {
	doc := s.docs.Get(params.TextDocument.URI)
	if doc == nil {
		return nil, nil
	}
	doc.mu.Lock()
	defer doc.mu.Unlock()

	symbols := []protocol.DocumentSymbol{}
	for _, top := range doc.forms {
		rng := offsetRange(doc.Content, top.Start, top.End)
		sym := protocol.DocumentSymbol{
			Name:           top.Form.Value.String(),
			Kind:           symbolKind(top.Form.Value),
			Range:          rng,
			SelectionRange: rng,
		}
		if top.Value != nil {
			sym.Detail = strPtr(top.Value.String())
		}
		symbols = append(symbols, sym)
	}
	return symbols, nil
}

func symbolKind(v *lisp.Value) protocol.SymbolKind {
	switch v.Type {
	case lisp.LList:
		return protocol.SymbolKindFunction
	case lisp.LFixnum:
		return protocol.SymbolKindNumber
	default:
		return protocol.SymbolKindConstant
	}
}
