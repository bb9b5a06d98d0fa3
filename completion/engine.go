package completion

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/tliron/commonlog"
	"go.opentelemetry.io/otel/metric"

	"github.com/dhamidi/marksense/markup"
	"github.com/dhamidi/marksense/markup/parser"
	"github.com/dhamidi/marksense/registry"
)

var log = commonlog.GetLogger("marksense.completion")

type Options struct {
	Thresholds     Thresholds
	ImplicitOwners []string
	// MeterProvider receives the cache metrics; nil means otel's global
	// provider.
	MeterProvider metric.MeterProvider
}

// Engine holds what sessions share: the registry store and the ranking
// configuration. It keeps no per-document state.
type Engine struct {
	store          *registry.Store
	ranker         *Ranker
	implicitOwners []string
	instruments    *instruments
}

func NewEngine(store *registry.Store, opts Options) *Engine {
	if store == nil {
		store = registry.NewStore(registry.Empty())
	}
	if opts.Thresholds == (Thresholds{}) {
		opts.Thresholds = DefaultThresholds()
	}
	return &Engine{
		store:          store,
		ranker:         NewRanker(opts.Thresholds),
		implicitOwners: opts.ImplicitOwners,
		instruments:    newInstruments(opts.MeterProvider),
	}
}

func (e *Engine) Store() *registry.Store {
	return e.store
}

// NewSession starts a completion session for one document.
func (e *Engine) NewSession(document string) *Session {
	return &Session{
		ID:       uuid.NewString(),
		document: document,
		engine:   e,
	}
}

type Request struct {
	Text   string
	Offset int
}

// Result is an ordered candidate list. Items replace the text between
// Anchor and Offset.
type Result struct {
	Items     []Item
	Context   markup.CursorContext
	Anchor    int
	Offset    int
	Continued bool
	Problems  []parser.Problem
}

type Stats struct {
	Requests      int
	Continuations int
	Recomputes    int
	Cancellations int
}

// Session completes one document. It owns the incremental cache, so
// calls must be serialised by the caller.
type Session struct {
	ID       string
	document string
	engine   *Engine
	cache    Cache
	stats    Stats
}

func (s *Session) Document() string {
	return s.document
}

func (s *Session) Stats() Stats {
	return s.stats
}

func (s *Session) Cache() *Cache {
	return &s.cache
}

// Reset drops the cached state.
func (s *Session) Reset() {
	s.cache.Reset()
}

// Complete answers one request. When the cursor continues typing the
// token of the previous request only the cached candidates are re-ranked;
// otherwise the document is parsed, the context resolved and candidates
// generated from the current registry snapshot. A cancelled request
// returns ErrCancelled and leaves the cache as it was.
func (s *Session) Complete(ctx context.Context, req Request) (*Result, error) {
	start := time.Now()
	inst := s.engine.instruments
	s.stats.Requests++

	if err := ctx.Err(); err != nil {
		return nil, s.cancel(ctx, start, err)
	}

	offset := min(max(req.Offset, 0), len(req.Text))
	reg := s.engine.store.Snapshot()

	if filter, ok := s.cache.Continue(s.document, req.Text, offset, reg.Generation); ok {
		st := s.cache.State()
		items := Rank(st.Candidates, filter, st.Filter)
		st.FilterPrefix = filter

		s.stats.Continuations++
		inst.record(ctx, inst.continuations, st.Kind.String(), start)
		log.Debugf("session %s: continued %s at %d, %d of %d candidates", s.ID, st.Kind, offset, len(items), len(st.Candidates))
		return &Result{
			Items:     items,
			Context:   continued(st.Context, filter, offset),
			Anchor:    st.Anchor,
			Offset:    offset,
			Continued: true,
		}, nil
	}

	doc := parser.Parse(req.Text, parser.WithFile(s.document))
	if doc.Degraded() {
		log.Debugf("session %s: degraded parse, %d problems", s.ID, len(doc.Problems))
	}
	cc := markup.ContextAt(doc, offset)
	if cc.Kind == markup.KindNone {
		s.cache.Reset()
		return &Result{Context: cc, Anchor: offset, Offset: offset, Problems: doc.Problems}, nil
	}

	candidates, err := NewGenerator(reg, s.engine.implicitOwners).Generate(ctx, cc)
	if err != nil {
		return nil, s.cancel(ctx, start, err)
	}
	if len(candidates) == 0 {
		log.Debugf("session %s: no %s candidates for %q", s.ID, cc.Kind, cc.FullToken)
	}

	filter := s.engine.ranker.FilterFor(cc.Kind)
	items := Rank(candidates, cc.Filter, filter)
	s.cache.Store(&State{
		Document:     s.document,
		Anchor:       cc.Anchor,
		Kind:         cc.Kind,
		Owner:        cc.OwnerTag,
		Parent:       cc.ParentTag,
		Attribute:    cc.Attribute,
		Generation:   reg.Generation,
		Upstream:     fingerprint(req.Text, cc.Anchor),
		FilterPrefix: cc.Filter,
		Candidates:   candidates,
		Filter:       filter,
		Context:      cc,
	})

	s.stats.Recomputes++
	inst.record(ctx, inst.recomputes, cc.Kind.String(), start)
	log.Debugf("session %s: computed %s at %d, %d of %d candidates", s.ID, cc.Kind, offset, len(items), len(candidates))
	return &Result{
		Items:    items,
		Context:  cc,
		Anchor:   cc.Anchor,
		Offset:   offset,
		Problems: doc.Problems,
	}, nil
}

func (s *Session) cancel(ctx context.Context, start time.Time, err error) error {
	s.stats.Cancellations++
	inst := s.engine.instruments
	inst.record(ctx, inst.cancellations, "", start)
	log.Debugf("session %s: cancelled", s.ID)
	if !errors.Is(err, ErrCancelled) {
		err = cancelled(err)
	}
	return err
}

// continued updates a cached context for a filter that grew by appended
// identifier characters.
func continued(cc markup.CursorContext, filter string, offset int) markup.CursorContext {
	suffix := filter[len(cc.Filter):]
	cc.Offset = offset
	cc.Filter = filter
	cc.PartialToken += suffix
	cc.FullToken += suffix
	if cc.Kind == markup.KindTag && cc.Marker == "<" {
		cc.OwnerTag = cc.FullToken
	}
	return cc
}
