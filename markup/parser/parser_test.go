package parser

import (
	"strings"
	"testing"
)

func TestParseWellFormed(t *testing.T) {
	src := `<?xml version="1.0" encoding="utf-8"?>
<LinearLayout android:orientation="vertical">
    <!-- header -->
    <TextView android:text="hi" />
    <Button android:id="@+id/ok"></Button>
</LinearLayout>`

	doc := Parse(src, WithFile("main.xml"))
	if doc.Degraded() {
		t.Fatalf("Degraded = true, problems: %v", doc.Problems)
	}

	roots := doc.Root.ChildElements()
	if len(roots) != 1 {
		t.Fatalf("root elements = %d, want 1", len(roots))
	}
	layout := roots[0]
	if layout.Name != "LinearLayout" {
		t.Errorf("Name = %q, want %q", layout.Name, "LinearLayout")
	}
	if a := layout.Attr("android:orientation"); a == nil || a.Value != "vertical" {
		t.Errorf("orientation attr = %+v, want vertical", a)
	}

	children := layout.ChildElements()
	if len(children) != 2 {
		t.Fatalf("children = %d, want 2", len(children))
	}
	if !children[0].SelfClosing {
		t.Error("TextView SelfClosing = false, want true")
	}
	if children[1].EndTag == nil {
		t.Error("Button EndTag = nil")
	}
	if children[1].ParentElement() != layout {
		t.Error("Button parent is not LinearLayout")
	}
	if len(doc.Tags) != 5 {
		t.Errorf("Tags = %d, want 5", len(doc.Tags))
	}
}

func TestParseRecovers(t *testing.T) {
	tests := []struct {
		name    string
		source  string
		problem string
	}{
		{"unterminated tag at eof", `<LinearLayout><Button android:te`, "not terminated"},
		{"unterminated tag before next", "<LinearLayout>\n<Button \n<TextView/>", "not terminated"},
		{"missing quote", `<Button android:text="hello`, "unterminated value"},
		{"unquoted value", `<Button android:text=hello/>`, "unquoted value"},
		{"missing value", `<Button android:text= />`, "missing value"},
		{"missing name", `<LinearLayout><`, "missing tag name"},
		{"unmatched end", `<a></b></a>`, "unmatched end tag"},
		{"unclosed element", `<a><b></a>`, "<b> is not closed"},
		{"unterminated comment", `<a><!-- x`, "unterminated Comment"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := Parse(tt.source)
			if !doc.Degraded() {
				t.Fatal("Degraded = false, want true")
			}
			found := false
			for _, p := range doc.Problems {
				if strings.Contains(p.Message, tt.problem) {
					found = true
				}
			}
			if !found {
				t.Errorf("problems %v do not mention %q", doc.Problems, tt.problem)
			}
		})
	}
}

func TestParseUnterminatedTagNesting(t *testing.T) {
	doc := Parse("<LinearLayout\n  <Button/>\n</LinearLayout>")
	roots := doc.Root.ChildElements()
	if len(roots) != 1 {
		t.Fatalf("root elements = %d, want 1", len(roots))
	}
	if roots[0].Closed {
		t.Error("LinearLayout Closed = true, want false")
	}
	children := roots[0].ChildElements()
	if len(children) != 1 || children[0].Name != "Button" {
		t.Fatalf("children = %v, want [Button]", children)
	}
}

func TestParseAttrValueSpan(t *testing.T) {
	src := `<a b="xyz"/>`
	doc := Parse(src)
	a := doc.Root.ChildElements()[0].Attr("b")
	if a == nil {
		t.Fatal("attr b missing")
	}
	if got := src[a.ValueSpan.Start.Offset:a.ValueSpan.End.Offset]; got != "xyz" {
		t.Errorf("value span text = %q, want %q", got, "xyz")
	}
	if a.Quote != '"' {
		t.Errorf("Quote = %q, want '\"'", a.Quote)
	}
}

func TestDocumentTagAt(t *testing.T) {
	src := `<a x="1"><b y` // offsets: <a ...> is 0..8, <b starts at 9
	doc := Parse(src)

	tests := []struct {
		offset int
		want   string
	}{
		{0, ""},
		{1, "a"},
		{8, "a"},
		{9, ""},
		{10, "b"},
		{len(src), "b"},
	}
	for _, tt := range tests {
		tag := doc.TagAt(tt.offset)
		got := ""
		if tag != nil {
			got = tag.Name
		}
		if got != tt.want {
			t.Errorf("TagAt(%d) = %q, want %q", tt.offset, got, tt.want)
		}
	}
}

func TestDocumentElementAt(t *testing.T) {
	src := `<a><b>text</b></a>`
	doc := Parse(src)

	if el := doc.ElementAt(7); el == nil || el.Name != "b" {
		t.Errorf("ElementAt(7) = %v, want b", el)
	}
	if el := doc.ElementAt(2); el == nil || el.Name != "a" {
		t.Errorf("ElementAt(2) = %v, want a", el)
	}
	if el := doc.ElementAt(0); el != nil {
		t.Errorf("ElementAt(0) = %v, want nil", el.Name)
	}
}

func TestNodeString(t *testing.T) {
	doc := Parse(`<a b="1"><c/></a>`)
	got := doc.Root.String()
	want := "Document\n  Element a b=\"1\"\n    Element c\n"
	if got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}
