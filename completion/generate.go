package completion

import (
	"context"
	"strings"

	"github.com/dhamidi/marksense/markup"
	"github.com/dhamidi/marksense/registry"
	"github.com/dhamidi/marksense/style"
)

// checkEvery is how many registry entries are visited between cancellation
// checks.
const checkEvery = 256

// Generator builds the unfiltered candidate list for a cursor context from
// one registry snapshot.
type Generator struct {
	reg            *registry.Registry
	resolver       *style.Resolver
	implicitOwners []string
}

func NewGenerator(reg *registry.Registry, implicitOwners []string) *Generator {
	if reg == nil {
		reg = registry.Empty()
	}
	return &Generator{
		reg:            reg,
		resolver:       style.NewResolver(reg),
		implicitOwners: implicitOwners,
	}
}

// Generate returns the candidates for cc in generation order. It returns
// ErrCancelled, and no items, if ctx is done before it finishes.
func (g *Generator) Generate(ctx context.Context, cc markup.CursorContext) ([]Item, error) {
	if err := ctx.Err(); err != nil {
		return nil, cancelled(err)
	}
	switch cc.Kind {
	case markup.KindTag:
		return g.tags(ctx, cc)
	case markup.KindAttribute:
		return g.attributes(ctx, cc)
	case markup.KindAttributeValue:
		return g.values(ctx, cc)
	}
	return nil, nil
}

type dedup struct {
	seen  map[string]bool
	items []Item
}

func (d *dedup) add(item Item) {
	key := item.dedupKey()
	if d.seen[key] {
		return
	}
	if d.seen == nil {
		d.seen = make(map[string]bool)
	}
	d.seen[key] = true
	d.items = append(d.items, item)
}

func (g *Generator) tags(ctx context.Context, cc markup.CursorContext) ([]Item, error) {
	types := g.reg.Types()

	owners := make(map[string]map[string]bool)
	for _, t := range types {
		short := t.ShortName()
		if owners[short] == nil {
			owners[short] = make(map[string]bool)
		}
		owners[short][t.OwnerName()] = true
	}
	typedPackage := strings.Contains(cc.PartialToken, ".")

	var out dedup
	for i, t := range types {
		if i%checkEvery == 0 {
			if err := ctx.Err(); err != nil {
				return nil, cancelled(err)
			}
		}

		short := t.ShortName()
		owner := t.OwnerName()
		name := short
		if len(owners[short]) > 1 || typedPackage || !g.implicit(owner) {
			name = t.Name
		}

		insert := cc.Marker + name
		out.add(Item{
			Label:        short,
			Detail:       owner,
			InsertText:   insert,
			CursorOffset: len(insert),
			Kind:         markup.KindTag,
		})
	}
	return out.items, nil
}

// implicit reports whether tags of owner may be written by short name.
// Without a configured list every owner may.
func (g *Generator) implicit(owner string) bool {
	if len(g.implicitOwners) == 0 {
		return true
	}
	for _, o := range g.implicitOwners {
		if o == owner {
			return true
		}
	}
	return false
}

func (g *Generator) attributes(ctx context.Context, cc markup.CursorContext) ([]Item, error) {
	groups := g.resolver.Groups(cc.OwnerTag, cc.ParentTag)
	defs := g.resolver.Definitions(groups)
	typedNamespace := strings.Contains(cc.Filter, ":")

	var out dedup
	for i, def := range defs {
		if i%checkEvery == 0 {
			if err := ctx.Err(); err != nil {
				return nil, cancelled(err)
			}
		}

		qualified := def.QualifiedName()
		label := qualified
		if typedNamespace {
			label = def.Name
		}
		insert := qualified + `=""`
		item := Item{
			Label:        label,
			Detail:       strings.Join(def.Formats, "|"),
			InsertText:   insert,
			CursorOffset: len(insert) - 1,
			Kind:         markup.KindAttribute,
			Namespace:    def.Namespace,
		}
		if len(def.Values) > 0 {
			item.OnAccept = retrigger
		}
		out.add(item)
	}
	return out.items, nil
}

func (g *Generator) values(ctx context.Context, cc markup.CursorContext) ([]Item, error) {
	ns, name, _ := markup.SplitQualified(cc.Attribute)
	groups := g.resolver.Groups(cc.OwnerTag, cc.ParentTag)
	def := g.resolver.Lookup(groups, ns, name)
	if def == nil {
		return nil, nil
	}

	var out dedup
	for i, v := range def.Values {
		if i%checkEvery == 0 {
			if err := ctx.Err(); err != nil {
				return nil, cancelled(err)
			}
		}
		out.add(Item{
			Label:        v,
			Detail:       def.QualifiedName(),
			InsertText:   v,
			CursorOffset: len(v),
			Kind:         markup.KindAttributeValue,
			Namespace:    def.Namespace,
		})
	}
	return out.items, nil
}
