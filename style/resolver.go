// Package style answers which attribute definitions apply to an element,
// using the applicability index precomputed by the registry.
package style

import (
	"github.com/dhamidi/marksense/markup"
	"github.com/dhamidi/marksense/registry"
)

type Resolver struct {
	reg *registry.Registry
}

func NewResolver(reg *registry.Registry) *Resolver {
	if reg == nil {
		reg = registry.Empty()
	}
	return &Resolver{reg: reg}
}

// Groups returns the groups applying to an element with the given tag
// inside parentTag: the tag's own groups first, then those its parent
// hands down. Each group appears once.
func (r *Resolver) Groups(tag, parentTag string) []*registry.StyleGroup {
	idx := r.reg.Index()
	var groups []*registry.StyleGroup
	for _, name := range names(tag) {
		groups = appendGroups(groups, idx.Self(name))
	}
	for _, name := range names(parentTag) {
		groups = appendGroups(groups, idx.Parent(name))
	}
	return groups
}

// Definitions flattens groups into attribute definitions, first seen wins
// per (namespace, name). Definitions without formats or values are
// replaced by their fallback entry when there is one.
func (r *Resolver) Definitions(groups []*registry.StyleGroup) []*registry.AttributeDefinition {
	seen := make(map[registry.Key]bool)
	var defs []*registry.AttributeDefinition
	for _, g := range groups {
		for _, def := range g.Attributes {
			key := def.Key()
			if seen[key] {
				continue
			}
			seen[key] = true
			defs = append(defs, r.withFallback(def))
		}
	}
	return defs
}

// Lookup returns the definition of ns:name among groups, or nil when no
// group declares it. A declaration without values takes its values from
// the fallback table.
func (r *Resolver) Lookup(groups []*registry.StyleGroup, ns, name string) *registry.AttributeDefinition {
	key := registry.Key{Namespace: ns, Name: name}
	for _, g := range groups {
		for _, def := range g.Attributes {
			if def.Key() != key {
				continue
			}
			if len(def.Values) == 0 {
				if fb, ok := r.reg.Fallback(key); ok && len(fb.Values) > 0 {
					return fb
				}
			}
			return def
		}
	}
	return nil
}

func (r *Resolver) withFallback(def *registry.AttributeDefinition) *registry.AttributeDefinition {
	if def.HasMetadata() {
		return def
	}
	if fb, ok := r.reg.Fallback(def.Key()); ok {
		return fb
	}
	return def
}

// names returns tag as written and its short name, if different.
func names(tag string) []string {
	if tag == "" {
		return nil
	}
	if short := markup.ShortName(tag); short != tag {
		return []string{tag, short}
	}
	return []string{tag}
}

func appendGroups(dst, gs []*registry.StyleGroup) []*registry.StyleGroup {
outer:
	for _, g := range gs {
		for _, have := range dst {
			if have == g {
				continue outer
			}
		}
		dst = append(dst, g)
	}
	return dst
}
