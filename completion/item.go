package completion

import (
	"github.com/dhamidi/marksense/markup"
)

// Accept tells the host what to do after it inserted an item.
type Accept struct {
	// Retrigger asks for another completion at the new cursor position.
	Retrigger bool
}

// AcceptHook runs when the user picks an item.
type AcceptHook func(item Item) Accept

// Item is one completion candidate. InsertText replaces the range from the
// request's anchor to its offset; CursorOffset is where the cursor lands,
// counted from the start of InsertText.
type Item struct {
	Label        string
	Detail       string
	InsertText   string
	CursorOffset int
	Kind         markup.Kind
	Namespace    string
	FilterText   string
	Score        int
	OnAccept     AcceptHook
}

// dedupKey is the label for values. Tags of different owners may share a
// short label, and attribute labels drop the namespace once one is typed,
// so those are keyed by their insert text.
func (it *Item) dedupKey() string {
	if it.Kind == markup.KindAttributeValue {
		return it.Label
	}
	return it.InsertText
}

func retrigger(Item) Accept {
	return Accept{Retrigger: true}
}
