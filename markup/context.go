package markup

import (
	"github.com/dhamidi/marksense/markup/parser"
)

// Kind is the syntactic region the cursor is in. It doubles as the
// completion kind.
type Kind int

const (
	KindNone Kind = iota
	KindTag
	KindAttribute
	KindAttributeValue
)

var kindNames = map[Kind]string{
	KindNone:           "none",
	KindTag:            "tag",
	KindAttribute:      "attribute",
	KindAttributeValue: "attribute-value",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// CursorContext describes what is being typed at the cursor.
//
// Filter is the text between Anchor and Offset; a completion replaces
// exactly that range. For tags it starts with the marker ("<" or "</"),
// for attributes it carries the namespace segment, for values it is the
// token after the last '|' inside the quotes.
type CursorContext struct {
	Kind   Kind
	Offset int
	Anchor int
	Filter string

	PartialToken string
	FullToken    string

	Marker    string
	OwnerTag  string
	ParentTag string
	// Attribute is the qualified name owning the value in value context.
	Attribute string
}

// Resolve parses text and classifies offset. See ContextAt.
func Resolve(text string, offset int) CursorContext {
	return ContextAt(parser.Parse(text), offset)
}

// ContextAt classifies offset inside doc. The rules apply in order: tag
// name region, quoted attribute value, rest of a start tag, none. It never
// fails; anything it cannot place is KindNone.
func ContextAt(doc *parser.Document, offset int) CursorContext {
	text := doc.Text
	offset = clamp(offset, len(text))
	cc := CursorContext{Kind: KindNone, Offset: offset, Anchor: offset}

	tag := doc.TagAt(offset)
	if tag == nil {
		return cc
	}

	nameStart := tag.NameSpan.Start.Offset
	nameEnd := tag.NameSpan.End.Offset
	if offset >= nameStart && offset <= nameEnd {
		return tagContext(text, offset, tag)
	}

	if tag.Kind != parser.KindElement || tag.Name == "" {
		return cc
	}

	if attr := tag.AttrValueAt(offset); attr != nil {
		return valueContext(text, offset, tag, attr)
	}

	if offset > nameEnd {
		full := FullIdentifier(text, offset)
		return CursorContext{
			Kind:         KindAttribute,
			Offset:       offset,
			Anchor:       offset - len(full),
			Filter:       full,
			PartialToken: PartialIdentifier(text, offset),
			FullToken:    full,
			OwnerTag:     tag.Name,
			ParentTag:    parentName(tag),
		}
	}
	return cc
}

func tagContext(text string, offset int, tag *parser.Node) CursorContext {
	nameStart := tag.NameSpan.Start.Offset
	anchor := tag.TagSpan.Start.Offset
	full := text[nameStart:offset]
	partial := PartialIdentifier(text, offset)
	if len(partial) > len(full) {
		partial = full
	}

	cc := CursorContext{
		Kind:         KindTag,
		Offset:       offset,
		Anchor:       anchor,
		Filter:       text[anchor:offset],
		PartialToken: partial,
		FullToken:    full,
		Marker:       tag.Marker,
		OwnerTag:     tag.Name,
		ParentTag:    parentName(tag),
	}
	if tag.Kind == parser.KindEndTag {
		// the element being closed owns an end tag
		if owner := tag.Parent; owner != nil && owner.Kind == parser.KindElement {
			cc.OwnerTag = owner.Name
			cc.ParentTag = parentName(owner)
		} else {
			cc.OwnerTag = ""
			cc.ParentTag = ""
		}
	}
	return cc
}

func valueContext(text string, offset int, tag *parser.Node, attr *parser.Attr) CursorContext {
	valueStart := attr.ValueSpan.Start.Offset
	partial := PartialIdentifier(text, offset)
	if offset-len(partial) < valueStart {
		partial = text[valueStart:offset]
	}

	name := AttributeNameBefore(text, valueStart-1)
	if name == "" {
		name = attr.Name
	}

	return CursorContext{
		Kind:         KindAttributeValue,
		Offset:       offset,
		Anchor:       offset - len(partial),
		Filter:       partial,
		PartialToken: partial,
		FullToken:    name + "=" + string(attr.Quote) + text[valueStart:offset],
		OwnerTag:     tag.Name,
		ParentTag:    parentName(tag),
		Attribute:    name,
	}
}

func parentName(n *parser.Node) string {
	if p := n.ParentElement(); p != nil {
		return p.Name
	}
	return ""
}
