// Copyright © 2024 The ELPS authors

package lsp

import (
	"errors"
	"time"

	"github.com/luthersystems/elvm/diagnostic"
	"github.com/luthersystems/elvm/parser"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

const debounceDelay = 300 * time.Millisecond

const diagnosticSource = "elvm"

func (s *Server) textDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	s.client.capture(ctx)
	item := params.TextDocument
	s.publish(s.docs.Open(item.URI, int32(item.Version), item.Text))
	return nil
}

// textDocumentDidChange reanalyzes the document and publishes its
// diagnostics once edits pause for the debounce delay.
func (s *Server) textDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	s.client.capture(ctx)
	doc := s.docs.Change(params.TextDocument.URI, int32(params.TextDocument.Version), lastContent(params.ContentChanges))
	uri := doc.URI
	s.pending.schedule(uri, func() {
		defer func() {
			if r := recover(); r != nil {
				s.log.Errorf("analysis of %s failed: %v", uri, r)
			}
		}()
		if d := s.docs.Get(uri); d != nil {
			s.publish(d)
		}
	})
	return nil
}

// lastContent returns the text of the final change.  The server requests
// full document sync so every change carries the whole document.
func lastContent(changes []any) string {
	var text string
	for _, change := range changes {
		switch c := change.(type) {
		case protocol.TextDocumentContentChangeEventWhole:
			text = c.Text
		case protocol.TextDocumentContentChangeEvent:
			text = c.Text
		}
	}
	return text
}

func (s *Server) textDocumentDidSave(ctx *glsp.Context, params *protocol.DidSaveTextDocumentParams) error {
	s.client.capture(ctx)
	s.pending.cancel(params.TextDocument.URI)
	if doc := s.docs.Get(params.TextDocument.URI); doc != nil {
		s.publish(doc)
	}
	return nil
}

// textDocumentDidClose forgets the document and clears its diagnostics.
func (s *Server) textDocumentDidClose(_ *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	uri := params.TextDocument.URI
	s.pending.cancel(uri)
	s.docs.Close(uri)
	s.client.send(protocol.ServerTextDocumentPublishDiagnostics, &protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: []protocol.Diagnostic{},
	})
	return nil
}

func (s *Server) publish(doc *Document) {
	doc.mu.Lock()
	params := &protocol.PublishDiagnosticsParams{
		URI:         doc.URI,
		Diagnostics: documentDiagnostics(doc),
	}
	doc.mu.Unlock()

	s.log.Debugf("publishing %d diagnostics for %s", len(params.Diagnostics), params.URI)
	s.client.send(protocol.ServerTextDocumentPublishDiagnostics, params)
}

// documentDiagnostics converts doc's read error and the failures of its
// top-level forms to LSP diagnostics.  The caller must hold doc.mu.
func documentDiagnostics(doc *Document) []protocol.Diagnostic {
	diags := []protocol.Diagnostic{}
	for _, top := range doc.forms {
		if top.Err == nil {
			continue
		}
		diags = append(diags, convertError(top.Err, offsetRange(doc.Content, top.Start, top.End)))
	}
	if doc.readErr != nil {
		diags = append(diags, convertError(doc.readErr, readErrorRange(doc.Content, doc.readErr)))
	}
	return diags
}

func convertError(err error, rng protocol.Range) protocol.Diagnostic {
	d := diagnostic.FromError(err, nil)
	return protocol.Diagnostic{
		Range:    rng,
		Severity: severity(d.Severity),
		Code:     &protocol.IntegerOrString{Value: d.Code},
		Source:   strPtr(diagnosticSource),
		Message:  d.Message,
	}
}

// readErrorRange returns a one character range at the start of the
// expression the reader failed on.
func readErrorRange(content string, err error) protocol.Range {
	var rerr *parser.ReadError
	if !errors.As(err, &rerr) || rerr.Source == nil || rerr.Source.Pos < 0 {
		return protocol.Range{}
	}
	pos := rerr.Source.Pos
	end := pos + 1
	if end > len(content) {
		end = len(content)
	}
	return offsetRange(content, pos, end)
}

func severity(s diagnostic.Severity) *protocol.DiagnosticSeverity {
	sev := protocol.DiagnosticSeverityError
	if s == diagnostic.SeverityNote {
		sev = protocol.DiagnosticSeverityInformation
	}
	return &sev
}

func strPtr(s string) *string {
	return &s
}
