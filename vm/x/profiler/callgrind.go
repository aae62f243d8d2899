package profiler

import (
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"
	"sync"
	"time"

	"github.com/luthersystems/elvm/lisp"
	"github.com/luthersystems/elvm/vm"
)

// errWriter wraps an io.Writer and captures the first write error,
// short-circuiting subsequent writes after a failure.
type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) printf(format string, args ...interface{}) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintf(ew.w, format, args...)
}

func (ew *errWriter) print(s string) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprint(ew.w, s)
}

// A profiler implementation that builds Callgrind files.  Every top-level
// form is a call from a synthetic ENTRYPOINT function.  The resulting files
// can be opened in KCacheGrind or QCacheGrind.
type callgrindProfiler struct {
	profiler
	sync.Mutex
	writer    io.Writer
	source    string
	writeErr  error
	startTime time.Time
	refs      map[string]int
	entry     *callRef
	forms     int
}

var _ vm.Profiler = &callgrindProfiler{}

// NewCallgrindProfiler returns a profiler writing to w.  Forms are
// attributed to the file named source, with the form's ordinal standing in
// for its line.
func NewCallgrindProfiler(w io.Writer, source string, opts ...Option) *callgrindProfiler {
	p := &callgrindProfiler{
		writer: w,
		source: source,
	}
	p.applyConfigs(opts...)
	return p
}

// Represents something that got called
type callRef struct {
	start       time.Time
	name        string
	children    []*callRef
	duration    time.Duration
	startMemory uint64
	line        int
}

func (p *callgrindProfiler) Enable() error {
	p.Lock()
	defer p.Unlock()
	if p.writer == nil {
		return errors.New("no output set in profiler")
	}
	w := &errWriter{w: p.writer}
	w.printf("version: 1\ncreator: elvm (Go %s)\n", runtime.Version())
	w.printf("cmd: Eval\npart: 1\npositions: line\n\n")
	w.printf("events: Time_(ns) Memory_(bytes)\n\n")
	if w.err != nil {
		return w.err
	}
	p.startTime = time.Now()
	p.refs = make(map[string]int)
	p.entry = newCallRef("ENTRYPOINT", 0)
	return p.profiler.Enable()
}

// SetFile directs output to a newly created file.  It must be called before
// Enable.
func (p *callgrindProfiler) SetFile(filename string) error {
	p.Lock()
	defer p.Unlock()
	if p.enabled {
		return errors.New("profiler already enabled")
	}
	f, err := os.Create(filename) //#nosec G304
	if err != nil {
		return err
	}
	p.writer = f
	return nil
}

func (p *callgrindProfiler) Complete() error {
	p.Lock()
	defer p.Unlock()
	if !p.enabled {
		return errors.New("profiler not enabled")
	}
	if p.writeErr != nil {
		return p.writeErr
	}
	ref := p.entry
	ref.duration = time.Since(ref.start)
	w := &errWriter{w: p.writer}
	w.printf("fl=%s\n", p.getRef("-"))
	w.printf("fn=%s\n", p.getRef(ref.name))
	w.printf("%d %d %d\n", 0, ref.duration, 0)
	p.writeCalls(w, ref)
	w.print("\n")
	ms := &runtime.MemStats{}
	runtime.ReadMemStats(ms)
	w.printf("summary %d %d\n\n", time.Since(p.startTime).Nanoseconds(), ms.TotalAlloc)
	if w.err != nil {
		return w.err
	}
	if c, ok := p.writer.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

func (p *callgrindProfiler) getRef(name string) string {
	if ref, ok := p.refs[name]; ok {
		return fmt.Sprintf("(%d)", ref)
	}
	id := len(p.refs) + 1
	p.refs[name] = id
	return fmt.Sprintf("(%d) %s", id, name)
}

func newCallRef(name string, line int) *callRef {
	ms := &runtime.MemStats{}
	runtime.ReadMemStats(ms)
	return &callRef{
		name:        name,
		line:        line,
		startMemory: ms.TotalAlloc,
		start:       time.Now(),
	}
}

func (p *callgrindProfiler) Start(form *lisp.Value) func() {
	if p.skipTrace(form) {
		return func() {}
	}
	label, _ := p.prettyLabel(form)
	p.Lock()
	p.forms++
	ref := newCallRef(label, p.forms)
	p.entry.children = append(p.entry.children, ref)
	p.Unlock()
	return func() {
		p.end(ref)
	}
}

func (p *callgrindProfiler) writeCalls(w *errWriter, ref *callRef) {
	for _, entry := range ref.children {
		w.printf("cfl=%s\n", p.getRef(p.source))
		w.printf("cfn=%s\n", p.getRef(entry.name))
		w.print("calls=1 0 0\n")
		w.printf("%d %d %d\n", entry.line, entry.duration, 0)
	}
}

func (p *callgrindProfiler) end(ref *callRef) {
	p.Lock()
	defer p.Unlock()
	if p.writeErr != nil {
		return
	}
	ref.duration = time.Since(ref.start)
	if ref.duration == 0 {
		ref.duration = 1
	}
	ms := &runtime.MemStats{}
	runtime.ReadMemStats(ms)
	memory := ms.TotalAlloc - ref.startMemory
	w := &errWriter{w: p.writer}
	w.printf("fl=%s\n", p.getRef(p.source))
	w.printf("fn=%s\n", p.getRef(ref.name))
	w.printf("%d %d %d\n", ref.line, ref.duration, memory)
	w.print("\n")
	if w.err != nil {
		p.writeErr = w.err
	}
}
