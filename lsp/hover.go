// Copyright © 2024 The ELPS authors

package lsp

import (
	"fmt"
	"strings"

	"github.com/luthersystems/elvm/lisp"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// textDocumentHover handles the textDocument/hover request.  Hovering a
// top-level form shows its value and its compiled instructions.
func (s *Server) textDocumentHover(_ *glsp.Context, params *protocol.HoverParams) (*protocol.Hover, error) {
	doc := s.docs.Get(params.TextDocument.URI)
	if doc == nil {
		return nil, nil
	}
	doc.mu.Lock()
	defer doc.mu.Unlock()

	top := doc.formAt(positionToOffset(doc.Content, params.Position))
	if top == nil {
		return nil, nil
	}
	rng := offsetRange(doc.Content, top.Start, top.End)
	return &protocol.Hover{
		Contents: protocol.MarkupContent{
			Kind:  protocol.MarkupKindMarkdown,
			Value: buildHoverContent(top),
		},
		Range: &rng,
	}, nil
}

// buildHoverContent builds Markdown hover text for a top-level form.
func buildHoverContent(top *TopLevel) string {
	var sb strings.Builder

	switch {
	case top.Err != nil:
		fmt.Fprintf(&sb, "**%s**: %s", lisp.Condition(top.Err), top.Err)
	case top.Value != nil:
		fmt.Fprintf(&sb, "**value** `%v`", top.Value)
	}

	if top.Fn != nil {
		fmt.Fprintf(&sb, "\n\n```\n%s```", top.Fn)
		fmt.Fprintf(&sb, "\n\n*%d instructions, max stack depth %d*", top.Fn.Len(), top.Fn.MaxDepth())
	}

	return sb.String()
}
