package completion

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/dhamidi/marksense/markup"
	"github.com/dhamidi/marksense/registry/registrytest"
)

// at splits src at the '^' marker into a request.
func at(src string) Request {
	i := strings.IndexByte(src, '^')
	return Request{Text: src[:i] + src[i+1:], Offset: i}
}

func newSession(t *testing.T) *Session {
	t.Helper()
	return NewEngine(registrytest.Store(), Options{}).NewSession("layout.xml")
}

func complete(t *testing.T, s *Session, src string) *Result {
	t.Helper()
	res, err := s.Complete(context.Background(), at(src))
	if err != nil {
		t.Fatalf("Complete(%q): %v", src, err)
	}
	return res
}

func labels(items []Item) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.Label)
	}
	return out
}

func TestCompleteIdempotent(t *testing.T) {
	src := `<LinearLayout><TextView android:la^ /></LinearLayout>`

	a := complete(t, newSession(t), src)
	b := complete(t, newSession(t), src)
	if strings.Join(labels(a.Items), ",") != strings.Join(labels(b.Items), ",") {
		t.Errorf("results differ:\n%v\n%v", labels(a.Items), labels(b.Items))
	}

	s := newSession(t)
	first := complete(t, s, src)
	second := complete(t, s, src)
	if strings.Join(labels(first.Items), ",") != strings.Join(labels(second.Items), ",") {
		t.Errorf("repeated request differs:\n%v\n%v", labels(first.Items), labels(second.Items))
	}
	if len(first.Items) == 0 {
		t.Error("no items")
	}
}

func TestCompleteContinuation(t *testing.T) {
	s := newSession(t)
	first := complete(t, s, `<TextView wid^`)
	if first.Continued {
		t.Fatal("first request Continued = true")
	}
	underlying := make(map[string]bool)
	for _, it := range s.Cache().State().Candidates {
		underlying[it.Label] = true
	}

	second := complete(t, s, `<TextView widt^`)
	if !second.Continued {
		t.Fatal("second request Continued = false")
	}
	stats := s.Stats()
	if stats.Recomputes != 1 || stats.Continuations != 1 {
		t.Errorf("Stats = %+v, want 1 recompute and 1 continuation", stats)
	}
	for _, it := range second.Items {
		if !underlying[it.Label] {
			t.Errorf("label %q not among cached candidates", it.Label)
		}
	}
	if len(second.Items) == 0 || second.Items[0].Label != "android:width" {
		t.Errorf("items = %v, want android:width first", labels(second.Items))
	}
	if second.Context.Filter != "widt" || second.Context.PartialToken != "widt" {
		t.Errorf("Context = %+v, want filter widt", second.Context)
	}
	if got := s.Cache().State().FilterPrefix; got != "widt" {
		t.Errorf("FilterPrefix = %q, want %q", got, "widt")
	}
}

func TestCompleteRecomputes(t *testing.T) {
	tests := []struct {
		name   string
		first  string
		second string
	}{
		{"deleted character", `<TextView wid^`, `<TextView wi^`},
		{"upstream edit", `<TextView android:text="a" wid^`, `<TextView android:text="b" wid^`},
		{"namespace typed", `<TextView android^`, `<TextView android:^`},
		{"package typed", `<android^`, `<android.^`},
		{"different tag", `<TextView wid^`, `<TextView wid /><Button wid^`},
		{"empty candidates", `<Unknown foo^`, `<Unknown foob^`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newSession(t)
			complete(t, s, tt.first)
			res := complete(t, s, tt.second)
			if res.Continued {
				t.Error("Continued = true, want false")
			}
			if got := s.Stats().Recomputes; got != 2 {
				t.Errorf("Recomputes = %d, want 2", got)
			}
		})
	}
}

func TestCompleteRegistrySwapInvalidates(t *testing.T) {
	store := registrytest.Store()
	s := NewEngine(store, Options{}).NewSession("layout.xml")
	complete(t, s, `<TextView wid^`)
	store.Swap(registrytest.Registry())
	if res := complete(t, s, `<TextView widt^`); res.Continued {
		t.Error("Continued = true after registry swap")
	}
}

func TestCompleteNoContextResetsCache(t *testing.T) {
	s := newSession(t)
	complete(t, s, `<TextView wid^></TextView>`)
	if !s.Cache().Warm() {
		t.Fatal("cache is cold after first request")
	}
	res := complete(t, s, `<TextView wid></TextView>^`)
	if res.Context.Kind != markup.KindNone || len(res.Items) != 0 {
		t.Errorf("result = %+v, want empty none", res)
	}
	if s.Cache().Warm() {
		t.Error("cache is warm after none context")
	}
}

func TestCompleteNamespaceHardFilter(t *testing.T) {
	tests := []struct {
		src  string
		want int
	}{
		{`<LinearLayout><Button app:^`, 2},
		{`<androidx.constraintlayout.widget.ConstraintLayout><Button app:^`, 4},
		{`<androidx.constraintlayout.widget.ConstraintLayout><Button app:lay^`, 2},
	}
	for _, tt := range tests {
		res := complete(t, newSession(t), tt.src)
		if len(res.Items) != tt.want {
			t.Errorf("%s: items = %v, want %d", tt.src, labels(res.Items), tt.want)
		}
		for _, it := range res.Items {
			if it.Namespace != "app" {
				t.Errorf("%s: item %q has namespace %q", tt.src, it.Label, it.Namespace)
			}
			if strings.Contains(it.Label, ":") {
				t.Errorf("%s: label %q repeats the namespace", tt.src, it.Label)
			}
		}
	}
}

func TestCompleteExactMatchFirst(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{`<LinearLayout><TextView width^`, "android:width"},
		{`<LinearLayout><TextView android:width^`, "width"},
	}
	for _, tt := range tests {
		res := complete(t, newSession(t), tt.src)
		if len(res.Items) < 2 {
			t.Fatalf("%s: items = %v, want at least 2", tt.src, labels(res.Items))
		}
		if res.Items[0].Label != tt.want || res.Items[0].Score != ExactMatchScore {
			t.Errorf("%s: first = %q (%d), want %q", tt.src, res.Items[0].Label, res.Items[0].Score, tt.want)
		}
	}
}

func TestCompleteTagDisambiguation(t *testing.T) {
	res := complete(t, newSession(t), `<LinearLayout><Button^`)
	if len(res.Items) < 2 {
		t.Fatalf("items = %v, want both Buttons", labels(res.Items))
	}
	want := []string{"<android.widget.Button", "<com.example.ui.Button"}
	for i, w := range want {
		it := res.Items[i]
		if it.Label != "Button" || it.InsertText != w {
			t.Errorf("item %d = %q %q, want Button %q", i, it.Label, it.InsertText, w)
		}
		if it.CursorOffset != len(w) {
			t.Errorf("item %d CursorOffset = %d, want %d", i, it.CursorOffset, len(w))
		}
	}
	if res.Anchor != len("<LinearLayout>") {
		t.Errorf("Anchor = %d, want %d", res.Anchor, len("<LinearLayout>"))
	}
}

func TestCompleteClosingTag(t *testing.T) {
	res := complete(t, newSession(t), `<LinearLayout></Lin^`)
	for _, it := range res.Items {
		if it.Label == "LinearLayout" {
			if it.InsertText != "</LinearLayout" {
				t.Errorf("InsertText = %q, want %q", it.InsertText, "</LinearLayout")
			}
			return
		}
	}
	t.Errorf("items = %v, want LinearLayout", labels(res.Items))
}

func TestCompleteAttributeDedup(t *testing.T) {
	res := complete(t, newSession(t), `<LinearLayout><TextView ^`)
	count := 0
	for _, it := range res.Items {
		if it.Label == "android:layout_width" {
			count++
		}
	}
	if count != 1 {
		t.Errorf("android:layout_width appears %d times, want 1", count)
	}
}

func TestCompleteAttributeInsert(t *testing.T) {
	res := complete(t, newSession(t), `<TextView android:visi^`)
	if len(res.Items) == 0 {
		t.Fatal("no items")
	}
	it := res.Items[0]
	if it.InsertText != `android:visibility=""` {
		t.Errorf("InsertText = %q", it.InsertText)
	}
	if it.CursorOffset != len(`android:visibility="`) {
		t.Errorf("CursorOffset = %d, want %d", it.CursorOffset, len(`android:visibility="`))
	}
	if it.OnAccept == nil || !it.OnAccept(it).Retrigger {
		t.Error("OnAccept does not retrigger for an enum attribute")
	}
	if res.Anchor != len("<TextView ") {
		t.Errorf("Anchor = %d, want %d", res.Anchor, len("<TextView "))
	}
}

func TestCompleteValueFilterStrict(t *testing.T) {
	tests := []struct {
		src  string
		want []string
	}{
		{`<TextView android:gravity="ce^"/>`, []string{"center_vertical", "center"}},
		{`<TextView android:gravity="top|ce^"/>`, []string{"center_vertical", "center"}},
		{`<LinearLayout android:orientation="^"/>`, []string{"horizontal", "vertical"}},
		{`<TextView android:text="^"/>`, nil},
		{`<TextView android:orientation="^"/>`, nil},
		{`<TextView android:layout_width="^"/>`, nil},
		{`<LinearLayout><TextView android:layout_width="^"/></LinearLayout>`, []string{"fill_parent", "match_parent", "wrap_content"}},
	}
	for _, tt := range tests {
		res := complete(t, newSession(t), tt.src)
		got := labels(res.Items)
		if strings.Join(got, ",") != strings.Join(tt.want, ",") {
			t.Errorf("%s: items = %v, want %v", tt.src, got, tt.want)
		}
	}
}

func TestCompleteCancelledKeepsCache(t *testing.T) {
	s := newSession(t)
	complete(t, s, `<TextView wid^`)
	before := s.Cache().State()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	res, err := s.Complete(ctx, at(`<TextView widt^`))
	if res != nil {
		t.Errorf("result = %+v, want nil", res)
	}
	if !errors.Is(err, ErrCancelled) || !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want ErrCancelled", err)
	}
	if s.Cache().State() != before || before.FilterPrefix != "wid" {
		t.Error("cache changed by a cancelled request")
	}
	if s.Stats().Cancellations != 1 {
		t.Errorf("Cancellations = %d, want 1", s.Stats().Cancellations)
	}

	if res := complete(t, s, `<TextView widt^`); !res.Continued {
		t.Error("request after cancellation did not continue")
	}
}
