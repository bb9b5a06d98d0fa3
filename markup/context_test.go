package markup

import (
	"strings"
	"testing"
)

// cursor splits src at the '^' marker and returns the text and offset.
func cursor(src string) (string, int) {
	i := strings.IndexByte(src, '^')
	return src[:i] + src[i+1:], i
}

func TestContextAt(t *testing.T) {
	tests := []struct {
		name      string
		source    string
		kind      Kind
		filter    string
		partial   string
		full      string
		owner     string
		parent    string
		attribute string
		marker    string
	}{
		{
			name:    "tag name",
			source:  `<LinearLayout><Butt^`,
			kind:    KindTag,
			filter:  "<Butt",
			partial: "Butt",
			full:    "Butt",
			owner:   "Butt",
			parent:  "LinearLayout",
			marker:  "<",
		},
		{
			name:    "bare opener",
			source:  "<LinearLayout>\n  <^\n</LinearLayout>",
			kind:    KindTag,
			filter:  "<",
			owner:   "",
			parent:  "LinearLayout",
			marker:  "<",
		},
		{
			name:    "qualified tag name",
			source:  `<android.widget.Bu^`,
			kind:    KindTag,
			filter:  "<android.widget.Bu",
			partial: "android.widget.Bu",
			full:    "android.widget.Bu",
			owner:   "android.widget.Bu",
			marker:  "<",
		},
		{
			name:    "closing tag",
			source:  `<LinearLayout><Button/></Lin^`,
			kind:    KindTag,
			filter:  "</Lin",
			partial: "Lin",
			full:    "Lin",
			owner:   "LinearLayout",
			marker:  "</",
		},
		{
			name:    "attribute with namespace",
			source:  `<LinearLayout><Button android:lay^ />`,
			kind:    KindAttribute,
			filter:  "android:lay",
			partial: "lay",
			full:    "android:lay",
			owner:   "Button",
			parent:  "LinearLayout",
		},
		{
			name:    "attribute namespace only",
			source:  `<Button app:^`,
			kind:    KindAttribute,
			filter:  "app:",
			partial: "",
			full:    "app:",
			owner:   "Button",
		},
		{
			name:    "attribute after value",
			source:  `<Button android:text="x" ^>`,
			kind:    KindAttribute,
			filter:  "",
			owner:   "Button",
		},
		{
			name:      "attribute value",
			source:    `<LinearLayout android:orientation="ver^"></LinearLayout>`,
			kind:      KindAttributeValue,
			filter:    "ver",
			partial:   "ver",
			full:      `android:orientation="ver`,
			owner:     "LinearLayout",
			attribute: "android:orientation",
		},
		{
			name:      "attribute value missing quote",
			source:    `<FrameLayout><TextView android:gravity="cen^`,
			kind:      KindAttributeValue,
			filter:    "cen",
			partial:   "cen",
			full:      `android:gravity="cen`,
			owner:     "TextView",
			parent:    "FrameLayout",
			attribute: "android:gravity",
		},
		{
			name:      "flag value after bar",
			source:    `<TextView android:gravity="top|ce^"/>`,
			kind:      KindAttributeValue,
			filter:    "ce",
			partial:   "ce",
			full:      `android:gravity="top|ce`,
			owner:     "TextView",
			attribute: "android:gravity",
		},
		{
			name:      "value with spaces around equals",
			source:    `<TextView android:text = "^"/>`,
			kind:      KindAttributeValue,
			filter:    "",
			full:      `android:text="`,
			owner:     "TextView",
			attribute: "android:text",
		},
		{
			name:   "text content",
			source: `<TextView>hello ^</TextView>`,
			kind:   KindNone,
		},
		{
			name:   "inside comment",
			source: `<!-- <Butt^ -->`,
			kind:   KindNone,
		},
		{
			name:   "attribute on closing tag",
			source: `<a></a ^>`,
			kind:   KindNone,
		},
		{
			name:   "empty document",
			source: `^`,
			kind:   KindNone,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text, offset := cursor(tt.source)
			cc := Resolve(text, offset)

			if cc.Kind != tt.kind {
				t.Fatalf("Kind = %v, want %v", cc.Kind, tt.kind)
			}
			if cc.Offset != offset {
				t.Errorf("Offset = %d, want %d", cc.Offset, offset)
			}
			if tt.kind == KindNone {
				return
			}
			if cc.Filter != tt.filter {
				t.Errorf("Filter = %q, want %q", cc.Filter, tt.filter)
			}
			if got := text[cc.Anchor:cc.Offset]; got != cc.Filter {
				t.Errorf("text[Anchor:Offset] = %q, want %q", got, cc.Filter)
			}
			if cc.PartialToken != tt.partial {
				t.Errorf("PartialToken = %q, want %q", cc.PartialToken, tt.partial)
			}
			if tt.full != "" && cc.FullToken != tt.full {
				t.Errorf("FullToken = %q, want %q", cc.FullToken, tt.full)
			}
			if cc.OwnerTag != tt.owner {
				t.Errorf("OwnerTag = %q, want %q", cc.OwnerTag, tt.owner)
			}
			if cc.ParentTag != tt.parent {
				t.Errorf("ParentTag = %q, want %q", cc.ParentTag, tt.parent)
			}
			if cc.Attribute != tt.attribute {
				t.Errorf("Attribute = %q, want %q", cc.Attribute, tt.attribute)
			}
			if cc.Marker != tt.marker {
				t.Errorf("Marker = %q, want %q", cc.Marker, tt.marker)
			}
		})
	}
}

func TestContextAtClampsOffset(t *testing.T) {
	cc := Resolve(`<Butt`, 99)
	if cc.Kind != KindTag {
		t.Fatalf("Kind = %v, want %v", cc.Kind, KindTag)
	}
	if cc.Offset != 5 {
		t.Errorf("Offset = %d, want 5", cc.Offset)
	}

	cc = Resolve(`<Butt`, -3)
	if cc.Kind != KindNone {
		t.Errorf("Kind = %v, want %v", cc.Kind, KindNone)
	}
}

func TestContextAtIsPure(t *testing.T) {
	text, offset := cursor(`<LinearLayout><Button android:la^ /></LinearLayout>`)
	a := Resolve(text, offset)
	b := Resolve(text, offset)
	if a != b {
		t.Errorf("Resolve not deterministic: %+v != %+v", a, b)
	}
}
