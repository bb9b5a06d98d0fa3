package workspace

import (
	"context"
	"fmt"
	"sync"

	"github.com/tliron/commonlog"

	"github.com/dhamidi/marksense/completion"
)

var log = commonlog.GetLogger("marksense.workspace")

// Document is an open buffer and its completion session.
type Document struct {
	URI     string
	Version int32

	text    string
	session *completion.Session

	// serialises requests on session
	mu sync.Mutex

	reqMu  sync.Mutex
	seq    uint64
	cancel context.CancelFunc
}

// Workspace tracks open documents. Each document gets its own session so
// the incremental cache of one buffer never sees another.
type Workspace struct {
	mu     sync.RWMutex
	engine *completion.Engine
	docs   map[string]*Document
}

func New(engine *completion.Engine) *Workspace {
	if engine == nil {
		engine = completion.NewEngine(nil, completion.Options{})
	}
	return &Workspace{
		engine: engine,
		docs:   make(map[string]*Document),
	}
}

func (w *Workspace) Engine() *completion.Engine {
	return w.engine
}

// Open registers uri with its initial text, replacing any previous
// document under that uri.
func (w *Workspace) Open(uri, text string, version int32) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if old := w.docs[uri]; old != nil {
		old.abort()
	}
	w.docs[uri] = &Document{
		URI:     uri,
		Version: version,
		text:    text,
		session: w.engine.NewSession(uri),
	}
	log.Debugf("opened %s (%d bytes)", uri, len(text))
}

// Update replaces the text of uri and cancels a request running against
// the old text. Unknown documents are opened.
func (w *Workspace) Update(uri, text string, version int32) {
	w.mu.Lock()
	doc := w.docs[uri]
	if doc != nil {
		doc.abort()
		doc.text = text
		doc.Version = version
	}
	w.mu.Unlock()
	if doc == nil {
		w.Open(uri, text, version)
	}
}

// Save replaces the text of an open document and keeps its version.
func (w *Workspace) Save(uri, text string) {
	w.mu.Lock()
	doc := w.docs[uri]
	if doc != nil {
		doc.abort()
		doc.text = text
	}
	w.mu.Unlock()
	if doc == nil {
		w.Open(uri, text, 0)
	}
}

// Version returns the version of uri as last reported by the editor.
func (w *Workspace) Version(uri string) (int32, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if doc := w.docs[uri]; doc != nil {
		return doc.Version, true
	}
	return 0, false
}

func (w *Workspace) Close(uri string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if doc := w.docs[uri]; doc != nil {
		doc.abort()
		delete(w.docs, uri)
		log.Debugf("closed %s", uri)
	}
}

// Text returns the current text of uri.
func (w *Workspace) Text(uri string) (string, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	doc := w.docs[uri]
	if doc == nil {
		return "", false
	}
	return doc.text, true
}

func (w *Workspace) Documents() []string {
	w.mu.RLock()
	defer w.mu.RUnlock()
	uris := make([]string, 0, len(w.docs))
	for uri := range w.docs {
		uris = append(uris, uri)
	}
	return uris
}

// Session returns the completion session of uri, or nil.
func (w *Workspace) Session(uri string) *completion.Session {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if doc := w.docs[uri]; doc != nil {
		return doc.session
	}
	return nil
}

// Complete runs a completion request against the current text of uri. A
// newer request for the same document cancels this one; the superseded
// call returns completion.ErrCancelled.
func (w *Workspace) Complete(ctx context.Context, uri string, offset int) (*completion.Result, error) {
	res, _, err := w.CompleteAt(ctx, uri, func(string) int { return offset })
	return res, err
}

// CompleteAt is Complete with the cursor computed by locate from the text
// the request runs against. It returns that text, so positions in the
// result can be mapped back without reading the document again.
func (w *Workspace) CompleteAt(ctx context.Context, uri string, locate func(text string) int) (*completion.Result, string, error) {
	w.mu.RLock()
	doc := w.docs[uri]
	var text string
	if doc != nil {
		text = doc.text
	}
	w.mu.RUnlock()
	if doc == nil {
		return nil, "", fmt.Errorf("document not open: %s", uri)
	}
	offset := locate(text)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	seq := doc.begin(cancel)
	defer doc.end(seq)

	doc.mu.Lock()
	defer doc.mu.Unlock()
	res, err := doc.session.Complete(ctx, completion.Request{Text: text, Offset: offset})
	return res, text, err
}

func (d *Document) begin(cancel context.CancelFunc) uint64 {
	d.reqMu.Lock()
	defer d.reqMu.Unlock()
	if d.cancel != nil {
		d.cancel()
	}
	d.seq++
	d.cancel = cancel
	return d.seq
}

func (d *Document) end(seq uint64) {
	d.reqMu.Lock()
	defer d.reqMu.Unlock()
	if d.seq == seq {
		d.cancel = nil
	}
}

func (d *Document) abort() {
	d.reqMu.Lock()
	defer d.reqMu.Unlock()
	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
}
