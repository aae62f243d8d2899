// Copyright © 2024 The ELPS authors

package lsp

import (
	"fmt"
	"io"
	"log"
	"sort"
	"sync"

	"github.com/luthersystems/elvm/compiler"
	"github.com/luthersystems/elvm/lisp"
	"github.com/luthersystems/elvm/parser"
	"github.com/luthersystems/elvm/vm"
)

// TopLevel is the analysis of one top-level form of a document.
type TopLevel struct {
	parser.Form
	Fn    *compiler.Function // nil for declarations and failed compiles
	Value *lisp.Value        // result of evaluation, nil on failure
	Err   error              // compile or evaluation failure
}

// Document represents an open text document tracked by the LSP server.
type Document struct {
	mu       sync.Mutex
	URI      string
	Version  int32
	Content  string
	interner *lisp.Interner
	forms    []*TopLevel
	readErr  error
}

// analyze reads, compiles and evaluates every top-level form of the
// document.  Reading stops at the first read error; the forms preceding it
// are still analyzed.  Each document gets a fresh interner so completion
// only offers names that appear in it.
func (d *Document) analyze() {
	in := lisp.NewInterner()
	reader := parser.NewReader(parser.WithInterner(in))
	c := compiler.New(compiler.WithInterner(in))
	th := vm.New(
		vm.WithCompiler(c),
		vm.WithLogger(log.New(io.Discard, "", 0)),
	)

	forms, err := reader.ReadForms(uriToPath(d.URI), d.Content)
	d.interner = in
	d.readErr = err
	d.forms = make([]*TopLevel, len(forms))
	for i, form := range forms {
		top := &TopLevel{Form: form}
		d.forms[i] = top
		if form.Value.Type != lisp.LList {
			top.Value = form.Value
			continue
		}
		top.Fn, top.Err = c.CompileTopLevel(form.Value)
		if top.Err != nil {
			continue
		}
		if top.Fn == nil {
			top.Value = lisp.Nil()
			continue
		}
		top.Value, top.Err = evalSafely(th, top.Fn)
	}
}

// evalSafely invokes fn, converting an engine panic into an error so a
// defective form cannot take the server down.
func evalSafely(th *vm.Thread, fn *compiler.Function) (v *lisp.Value, err error) {
	defer func() {
		if r := recover(); r != nil {
			v, err = nil, &engineError{r}
		}
	}()
	return th.Invoke(fn)
}

type engineError struct {
	cause any
}

func (e *engineError) Error() string {
	return fmt.Sprintf("engine failure: %v", e.cause)
}

// formAt returns the innermost top-level form containing byte offset pos.
// A position just past the closing parenthesis still selects the form.
func (d *Document) formAt(pos int) *TopLevel {
	i := sort.Search(len(d.forms), func(i int) bool {
		return d.forms[i].End >= pos
	})
	if i < len(d.forms) && d.forms[i].Start <= pos {
		return d.forms[i]
	}
	return nil
}

// DocumentStore manages open documents with thread-safe access.
type DocumentStore struct {
	mu   sync.RWMutex
	docs map[string]*Document
}

// NewDocumentStore creates an empty document store.
func NewDocumentStore() *DocumentStore {
	return &DocumentStore{docs: make(map[string]*Document)}
}

// Open adds a document to the store and analyzes it.
func (s *DocumentStore) Open(uri string, version int32, content string) *Document {
	doc := &Document{
		URI:     uri,
		Version: version,
		Content: content,
	}
	doc.analyze()
	s.mu.Lock()
	s.docs[uri] = doc
	s.mu.Unlock()
	return doc
}

// Change updates a document's content (full sync) and re-analyzes it.
func (s *DocumentStore) Change(uri string, version int32, content string) *Document {
	s.mu.Lock()
	doc, ok := s.docs[uri]
	if !ok {
		doc = &Document{URI: uri}
		s.docs[uri] = doc
	}
	s.mu.Unlock()

	doc.mu.Lock()
	doc.Version = version
	doc.Content = content
	doc.analyze()
	doc.mu.Unlock()
	return doc
}

// Close removes a document from the store.
func (s *DocumentStore) Close(uri string) {
	s.mu.Lock()
	delete(s.docs, uri)
	s.mu.Unlock()
}

// Get retrieves a document by URI. Returns nil if not found.
func (s *DocumentStore) Get(uri string) *Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.docs[uri]
}
