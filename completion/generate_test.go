package completion

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/dhamidi/marksense/markup"
	"github.com/dhamidi/marksense/registry"
	"github.com/dhamidi/marksense/registry/registrytest"
)

func generate(t *testing.T, g *Generator, src string) []Item {
	t.Helper()
	req := at(src)
	items, err := g.Generate(context.Background(), markup.Resolve(req.Text, req.Offset))
	if err != nil {
		t.Fatalf("Generate(%q): %v", src, err)
	}
	return items
}

func insertFor(items []Item, label string) []string {
	var out []string
	for _, it := range items {
		if it.Label == label {
			out = append(out, it.InsertText)
		}
	}
	return out
}

func TestGenerateTags(t *testing.T) {
	g := NewGenerator(registrytest.Registry(), nil)
	items := generate(t, g, `<^`)
	if len(items) != 10 {
		t.Fatalf("items = %d, want 10", len(items))
	}
	if got := insertFor(items, "TextView"); len(got) != 1 || got[0] != "<TextView" {
		t.Errorf("TextView insert = %v, want [<TextView]", got)
	}
	if got := insertFor(items, "Button"); strings.Join(got, " ") != "<android.widget.Button <com.example.ui.Button" {
		t.Errorf("Button inserts = %v", got)
	}
	for _, it := range items {
		if it.Kind != markup.KindTag {
			t.Errorf("Kind = %v, want tag", it.Kind)
		}
	}
}

func TestGenerateTagsQualifiedWhenPackageTyped(t *testing.T) {
	g := NewGenerator(registrytest.Registry(), nil)
	items := generate(t, g, `<android.widget.Te^`)
	if got := insertFor(items, "TextView"); len(got) != 1 || got[0] != "<android.widget.TextView" {
		t.Errorf("TextView insert = %v, want [<android.widget.TextView]", got)
	}
}

func TestGenerateTagsImplicitOwners(t *testing.T) {
	g := NewGenerator(registrytest.Registry(), []string{"android.widget", "android.view"})
	items := generate(t, g, `<^`)

	tests := []struct {
		label, insert string
	}{
		{"TextView", "<TextView"},
		{"View", "<View"},
		{"ConstraintLayout", "<androidx.constraintlayout.widget.ConstraintLayout"},
	}
	for _, tt := range tests {
		if got := insertFor(items, tt.label); len(got) != 1 || got[0] != tt.insert {
			t.Errorf("%s insert = %v, want [%s]", tt.label, got, tt.insert)
		}
	}
}

func TestGenerateAttributes(t *testing.T) {
	g := NewGenerator(registrytest.Registry(), nil)

	items := generate(t, g, `<FrameLayout><ImageButton ^`)
	want := []string{
		"android:id", "android:padding", "android:visibility",
		"android:layout_width", "android:layout_height", "android:layout_marginStart",
	}
	if got := labels(items); strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("labels = %v, want %v", got, want)
	}
	for _, it := range items {
		if it.Label == "android:layout_width" && it.Detail != "dimension|enum" {
			t.Errorf("layout_width Detail = %q, want %q", it.Detail, "dimension|enum")
		}
	}

	items = generate(t, g, `<FrameLayout><ImageButton android:^`)
	if items[0].Label != "id" || items[0].InsertText != `android:id=""` {
		t.Errorf("first item = %q %q, want id android:id=\"\"", items[0].Label, items[0].InsertText)
	}
}

func TestGenerateValuesUnknownAttribute(t *testing.T) {
	g := NewGenerator(registrytest.Registry(), nil)
	if items := generate(t, g, `<TextView app:nothing="^"`); len(items) != 0 {
		t.Errorf("items = %v, want none", labels(items))
	}
}

func TestGenerateEmptyRegistry(t *testing.T) {
	g := NewGenerator(nil, nil)
	for _, src := range []string{`<^`, `<TextView ^`, `<TextView android:gravity="^"`} {
		if items := generate(t, g, src); len(items) != 0 {
			t.Errorf("%s: items = %v, want none", src, labels(items))
		}
	}
}

func TestGenerateCancelled(t *testing.T) {
	var types []*registry.TypeEntry
	for i := 0; i < 1000; i++ {
		types = append(types, &registry.TypeEntry{Name: "w.View" + strings.Repeat("x", i%7)})
	}
	g := NewGenerator(registry.New(types, nil, nil), nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	req := at(`<^`)
	items, err := g.Generate(ctx, markup.Resolve(req.Text, req.Offset))
	if !errors.Is(err, ErrCancelled) {
		t.Errorf("err = %v, want ErrCancelled", err)
	}
	if items != nil {
		t.Errorf("items = %d, want nil", len(items))
	}
}

// countdownContext reports cancellation once Err has been called more
// than after times.
type countdownContext struct {
	context.Context
	calls, after int
}

func (c *countdownContext) Err() error {
	c.calls++
	if c.calls > c.after {
		return context.Canceled
	}
	return nil
}

func TestGenerateCancelledMidIteration(t *testing.T) {
	var (
		types  []*registry.TypeEntry
		defs   []*registry.AttributeDefinition
		values []string
	)
	for i := 0; i < 600; i++ {
		types = append(types, &registry.TypeEntry{Name: fmt.Sprintf("w.View%d", i)})
		values = append(values, fmt.Sprintf("v%d", i))
	}
	types = append(types, &registry.TypeEntry{Name: "w.View"})
	for i := 0; i < 600; i++ {
		defs = append(defs, &registry.AttributeDefinition{Name: fmt.Sprintf("attr%d", i), Namespace: "android"})
	}
	defs[0].Values = values
	group := &registry.StyleGroup{Name: "View", Namespace: "android", Tag: "View", Rule: registry.RuleSelf, Attributes: defs}
	g := NewGenerator(registry.New(types, []*registry.StyleGroup{group}, nil), nil)

	tests := []struct {
		name string
		src  string
	}{
		{"tags", `<^`},
		{"attributes", `<View ^`},
		{"values", `<View android:attr0="^"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := at(tt.src)
			cc := markup.Resolve(req.Text, req.Offset)

			// the entry check and the first batch pass, the second batch stops
			ctx := &countdownContext{Context: context.Background(), after: 2}
			items, err := g.Generate(ctx, cc)
			if !errors.Is(err, ErrCancelled) {
				t.Errorf("err = %v, want ErrCancelled", err)
			}
			if items != nil {
				t.Errorf("items = %d, want nil", len(items))
			}
			if ctx.calls != 3 {
				t.Errorf("Err called %d times, want 3", ctx.calls)
			}

			all, err := g.Generate(context.Background(), cc)
			if err != nil || len(all) <= checkEvery {
				t.Errorf("uncancelled Generate = %d items, %v, want more than %d", len(all), err, checkEvery)
			}
		})
	}
}
