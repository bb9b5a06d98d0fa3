package completion

import (
	"strings"

	"github.com/cespare/xxhash/v2"

	"github.com/dhamidi/marksense/markup"
)

// State is the warm cache of one session: the candidates generated for a
// context and everything needed to tell whether a later request is a
// continuation of it.
type State struct {
	Document   string
	Anchor     int
	Kind       markup.Kind
	Owner      string
	Parent     string
	Attribute  string
	Generation uint64
	// Upstream fingerprints the text before Anchor. The owning element,
	// its parent and the attribute name all lie there.
	Upstream uint64

	FilterPrefix string
	Candidates   []Item
	Filter       FilterFunc
	Context      markup.CursorContext
}

// Cache is Cold while state is nil and Warm otherwise. It is not safe for
// concurrent use.
type Cache struct {
	state *State
}

func (c *Cache) Warm() bool {
	return c.state != nil
}

func (c *Cache) State() *State {
	return c.state
}

func (c *Cache) Reset() {
	c.state = nil
}

// Store replaces the state wholesale.
func (c *Cache) Store(s *State) {
	c.state = s
}

// Continue reports whether a request for offset in text continues the
// cached state, and returns the new filter if so. The filter must extend
// the cached one by identifier characters only; typing a separator or a
// delimiter changes what the candidates look like and forces a recompute.
func (c *Cache) Continue(document, text string, offset int, generation uint64) (string, bool) {
	s := c.state
	if s == nil || len(s.Candidates) == 0 {
		return "", false
	}
	if s.Document != document || s.Generation != generation {
		return "", false
	}
	if offset < s.Anchor || offset > len(text) {
		return "", false
	}
	if fingerprint(text, s.Anchor) != s.Upstream {
		return "", false
	}

	filter := text[s.Anchor:offset]
	appended, ok := strings.CutPrefix(filter, s.FilterPrefix)
	if !ok {
		return "", false
	}
	for i := 0; i < len(appended); i++ {
		ch := appended[i]
		if !markup.IsIdentifierByte(ch) || ch == separator(s.Kind) {
			return "", false
		}
	}
	return filter, true
}

// separator is the character that changes how candidates are generated
// for kind once it is typed.
func separator(kind markup.Kind) byte {
	switch kind {
	case markup.KindTag:
		return '.'
	case markup.KindAttribute:
		return ':'
	}
	return 0
}

func fingerprint(text string, anchor int) uint64 {
	if anchor > len(text) {
		anchor = len(text)
	}
	return xxhash.Sum64String(text[:anchor])
}
