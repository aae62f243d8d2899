// Copyright © 2024 The ELPS authors

// Package lsp implements a Language Server Protocol server for elvm source
// files.  It publishes read and compile diagnostics and provides hover,
// completion, document symbols and folding ranges.
package lsp

import (
	"os"
	"time"

	"github.com/tliron/commonlog"
	"github.com/tliron/glsp"
	glspserver "github.com/tliron/glsp/server"

	protocol "github.com/tliron/glsp/protocol_3_16"
)

const (
	serverName    = "elvm-lsp"
	serverVersion = "0.1.0"
)

// Server is the elvm language server.
type Server struct {
	handler protocol.Handler
	glspSrv *glspserver.Server
	docs    *DocumentStore
	log     commonlog.Logger
	debug   bool
	pending *debouncer
	client  notifier

	// exitFn is called on the exit notification.
	exitFn func(int)
}

// Option configures the LSP server.
type Option func(*Server)

// WithDebug enables glsp protocol debug logging.
func WithDebug(debug bool) Option {
	return func(s *Server) { s.debug = debug }
}

// WithDebounce sets how long the server waits after an edit before
// publishing diagnostics.
func WithDebounce(d time.Duration) Option {
	return func(s *Server) { s.pending.delay = d }
}

// New creates a new elvm LSP server.
func New(opts ...Option) *Server {
	s := &Server{
		docs:    NewDocumentStore(),
		log:     commonlog.GetLogger(serverName),
		pending: newDebouncer(debounceDelay),
		exitFn:  os.Exit,
	}
	for _, o := range opts {
		o(s)
	}

	s.handler = protocol.Handler{
		Initialize: s.initialize,
		Shutdown:   s.shutdown,
		Exit:       s.exit,
		SetTrace:   s.setTrace,

		TextDocumentDidOpen:   s.textDocumentDidOpen,
		TextDocumentDidChange: s.textDocumentDidChange,
		TextDocumentDidSave:   s.textDocumentDidSave,
		TextDocumentDidClose:  s.textDocumentDidClose,

		TextDocumentHover:          s.textDocumentHover,
		TextDocumentCompletion:     s.textDocumentCompletion,
		TextDocumentDocumentSymbol: s.textDocumentDocumentSymbol,
		TextDocumentFoldingRange:   s.textDocumentFoldingRange,
	}

	s.glspSrv = glspserver.NewServer(&s.handler, serverName, s.debug)
	return s
}

// RunStdio starts the server using stdio transport.
func (s *Server) RunStdio() error {
	return s.glspSrv.RunStdio()
}

// RunTCP starts the server listening on the given address.
func (s *Server) RunTCP(addr string) error {
	return s.glspSrv.RunTCP(addr)
}

func (s *Server) initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	s.client.capture(ctx)
	if params.ClientInfo != nil {
		s.log.Infof("initializing for client %s", params.ClientInfo.Name)
	}

	caps := s.handler.CreateServerCapabilities()
	full := protocol.TextDocumentSyncKindFull
	caps.TextDocumentSync = &protocol.TextDocumentSyncOptions{
		OpenClose: boolPtr(true),
		Change:    &full,
		Save:      &protocol.SaveOptions{IncludeText: boolPtr(false)},
	}
	caps.CompletionProvider = &protocol.CompletionOptions{
		TriggerCharacters: []string{"("},
	}

	return protocol.InitializeResult{
		Capabilities: caps,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    serverName,
			Version: strPtr(serverVersion),
		},
	}, nil
}

func (s *Server) shutdown(_ *glsp.Context) error {
	s.pending.stopAll()
	s.log.Info("shutdown")
	return nil
}

func (s *Server) exit(_ *glsp.Context) error {
	s.exitFn(0)
	return nil
}

// setTrace accepts $/setTrace, which some clients send unconditionally.
func (s *Server) setTrace(_ *glsp.Context, _ *protocol.SetTraceParams) error {
	return nil
}

func boolPtr(b bool) *bool {
	return &b
}
