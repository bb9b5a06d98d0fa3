package registry

import (
	"strings"
)

// Key identifies an attribute definition.
type Key struct {
	Namespace string
	Name      string
}

func (k Key) String() string {
	if k.Namespace == "" {
		return k.Name
	}
	return k.Namespace + ":" + k.Name
}

// AttributeDefinition describes one attribute: the formats it accepts and,
// for enum and flag attributes, its literal values in declaration order.
type AttributeDefinition struct {
	Name      string
	Namespace string
	Formats   []string
	Values    []string
}

func (d *AttributeDefinition) Key() Key {
	return Key{Namespace: d.Namespace, Name: d.Name}
}

// QualifiedName returns "ns:name", or just the name without a namespace.
func (d *AttributeDefinition) QualifiedName() string {
	return d.Key().String()
}

// HasMetadata reports whether the definition carries formats or values.
// References like <attr name="gravity"/> inside a styleable have neither.
func (d *AttributeDefinition) HasMetadata() bool {
	return len(d.Formats) > 0 || len(d.Values) > 0
}

func (d *AttributeDefinition) HasFormat(format string) bool {
	for _, f := range d.Formats {
		if f == format {
			return true
		}
	}
	return false
}

// IsFlag reports whether values combine with '|'.
func (d *AttributeDefinition) IsFlag() bool {
	return d.HasFormat("flag")
}

// Rule says which tag a style group is keyed on.
type Rule int

const (
	// RuleSelf applies a group to elements whose own tag matches.
	RuleSelf Rule = iota
	// RuleParent applies a group to the children of the matching tag.
	RuleParent
)

func (r Rule) String() string {
	if r == RuleParent {
		return "parent"
	}
	return "self"
}

// StyleGroup is a named set of attribute definitions together with the
// tag it applies to.
type StyleGroup struct {
	Name       string
	Namespace  string
	Tag        string
	Rule       Rule
	Attributes []*AttributeDefinition
}

// TypeEntry is one tag that may appear in a document.
type TypeEntry struct {
	Name  string `yaml:"name"`
	Owner string `yaml:"owner,omitempty"`
	Super string `yaml:"super,omitempty"`
}

// ShortName returns the part of Name after the last '.'.
func (t *TypeEntry) ShortName() string {
	if i := strings.LastIndexByte(t.Name, '.'); i >= 0 {
		return t.Name[i+1:]
	}
	return t.Name
}

// OwnerName returns Owner, or the package part of Name when Owner is unset.
func (t *TypeEntry) OwnerName() string {
	if t.Owner != "" {
		return t.Owner
	}
	if i := strings.LastIndexByte(t.Name, '.'); i >= 0 {
		return t.Name[:i]
	}
	return ""
}

// Registry is one immutable snapshot of all metadata. It is never modified
// after New returns; reloads build a new Registry and swap it in a Store.
type Registry struct {
	Generation uint64

	types    []*TypeEntry
	groups   []*StyleGroup
	fallback map[Key]*AttributeDefinition
	index    *Index
}

// Stats summarises a registry for display.
type Stats struct {
	Generation  uint64
	Types       int
	Groups      int
	Definitions int
	Fallback    int
}

// Empty returns a registry without entries.
func Empty() *Registry {
	return New(nil, nil, nil)
}

func (r *Registry) Types() []*TypeEntry {
	return r.types
}

func (r *Registry) Groups() []*StyleGroup {
	return r.groups
}

func (r *Registry) Index() *Index {
	return r.index
}

// Fallback returns the secondary definition for key, if any.
func (r *Registry) Fallback(key Key) (*AttributeDefinition, bool) {
	def, ok := r.fallback[key]
	return def, ok
}

// Type returns the entry with the given fully qualified name.
func (r *Registry) Type(name string) *TypeEntry {
	for _, t := range r.types {
		if t.Name == name {
			return t
		}
	}
	return nil
}

func (r *Registry) Stats() Stats {
	s := Stats{
		Generation: r.Generation,
		Types:      len(r.types),
		Groups:     len(r.groups),
		Fallback:   len(r.fallback),
	}
	for _, g := range r.groups {
		s.Definitions += len(g.Attributes)
	}
	return s
}
