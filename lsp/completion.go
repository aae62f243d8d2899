// Copyright © 2024 The ELPS authors

package lsp

import (
	"sort"
	"strings"

	"github.com/luthersystems/elvm/compiler"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// textDocumentCompletion handles the textDocument/completion request.
// Candidates are the operators followed by the symbols used in the
// document.
func (s *Server) textDocumentCompletion(_ *glsp.Context, params *protocol.CompletionParams) (any, error) {
	doc := s.docs.Get(params.TextDocument.URI)
	if doc == nil {
		return nil, nil
	}
	doc.mu.Lock()
	content := doc.Content
	in := doc.interner
	doc.mu.Unlock()

	prefix := wordAtPosition(content, positionToOffset(content, params.Position))

	items := []protocol.CompletionItem{}
	seen := make(map[string]bool)
	opKind := protocol.CompletionItemKindKeyword
	for _, op := range compiler.Operators() {
		if strings.HasPrefix(op, prefix) {
			seen[op] = true
			items = append(items, protocol.CompletionItem{
				Label:  op,
				Kind:   &opKind,
				Detail: strPtr("operator"),
			})
		}
	}

	var names []string
	if in != nil {
		names = in.Names()
	}
	sort.Strings(names)
	symKind := protocol.CompletionItemKindVariable
	for _, name := range names {
		if seen[name] || name == prefix || !strings.HasPrefix(name, prefix) {
			continue
		}
		items = append(items, protocol.CompletionItem{
			Label: name,
			Kind:  &symKind,
		})
	}
	return items, nil
}
