package registry

import (
	"sort"

	"github.com/maruel/natural"
)

// Index is the precomputed applicability index. For every known tag it
// holds the groups that apply to the tag itself and the groups it hands
// down to its children, nearest type first along the super chain.
type Index struct {
	self   map[string][]*StyleGroup
	parent map[string][]*StyleGroup
}

// Self returns the groups keyed on tag with RuleSelf.
func (x *Index) Self(tag string) []*StyleGroup {
	return x.self[tag]
}

// Parent returns the groups tag contributes to its children.
func (x *Index) Parent(tag string) []*StyleGroup {
	return x.parent[tag]
}

func (x *Index) Len() int {
	return len(x.self) + len(x.parent)
}

// BuildIndex walks each type's super chain once and records the groups
// found along it. Groups whose tag is not a known type are still indexed
// under their own tag. Types sharing a short name are merged under that
// short name, in the order of types.
func BuildIndex(types []*TypeEntry, groups []*StyleGroup) *Index {
	direct := map[Rule]map[string][]*StyleGroup{
		RuleSelf:   {},
		RuleParent: {},
	}
	for _, g := range groups {
		direct[g.Rule][g.Tag] = append(direct[g.Rule][g.Tag], g)
	}

	x := &Index{
		self:   make(map[string][]*StyleGroup, len(direct[RuleSelf])),
		parent: make(map[string][]*StyleGroup, len(direct[RuleParent])),
	}
	for tag, gs := range direct[RuleSelf] {
		x.self[tag] = gs
	}
	for tag, gs := range direct[RuleParent] {
		x.parent[tag] = gs
	}

	byName := make(map[string]*TypeEntry, len(types))
	byShort := make(map[string][]*TypeEntry)
	for _, t := range types {
		byName[t.Name] = t
		byShort[t.ShortName()] = append(byShort[t.ShortName()], t)
	}
	lookup := func(name string) *TypeEntry {
		if t, ok := byName[name]; ok {
			return t
		}
		if c := byShort[name]; len(c) == 1 {
			return c[0]
		}
		return nil
	}

	for _, t := range types {
		var self, parent []*StyleGroup
		seen := make(map[*TypeEntry]bool)
		for cur := t; cur != nil && !seen[cur]; cur = lookup(cur.Super) {
			seen[cur] = true
			for _, name := range []string{cur.Name, cur.ShortName()} {
				self = appendUnique(self, direct[RuleSelf][name]...)
				parent = appendUnique(parent, direct[RuleParent][name]...)
			}
			if cur.Super == "" {
				break
			}
		}
		x.self[t.Name] = self
		x.parent[t.Name] = parent
	}

	for short, entries := range byShort {
		var self, parent []*StyleGroup
		for _, t := range entries {
			self = appendUnique(self, x.self[t.Name]...)
			parent = appendUnique(parent, x.parent[t.Name]...)
		}
		x.self[short] = self
		x.parent[short] = parent
	}
	return x
}

func appendUnique(dst []*StyleGroup, gs ...*StyleGroup) []*StyleGroup {
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

// New assembles a registry snapshot. Types are sorted by name in natural
// order; groups keep the order given. Fallback entries keep the first
// definition seen for each key.
func New(types []*TypeEntry, groups []*StyleGroup, fallback []*AttributeDefinition) *Registry {
	sorted := make([]*TypeEntry, len(types))
	copy(sorted, types)
	sort.SliceStable(sorted, func(i, j int) bool {
		return natural.Less(sorted[i].Name, sorted[j].Name)
	})

	fb := make(map[Key]*AttributeDefinition, len(fallback))
	for _, def := range fallback {
		if _, ok := fb[def.Key()]; !ok {
			fb[def.Key()] = def
		}
	}

	return &Registry{
		types:    sorted,
		groups:   groups,
		fallback: fb,
		index:    BuildIndex(sorted, groups),
	}
}
