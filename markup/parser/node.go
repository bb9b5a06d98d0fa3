package parser

import "strings"

type NodeKind int

const (
	KindError NodeKind = iota
	KindDocument
	KindElement
	KindEndTag
	KindText
	KindComment
	KindCDATA
	KindDoctype
	KindProcInst
)

var nodeKindNames = map[NodeKind]string{
	KindError:    "Error",
	KindDocument: "Document",
	KindElement:  "Element",
	KindEndTag:   "EndTag",
	KindText:     "Text",
	KindComment:  "Comment",
	KindCDATA:    "CDATA",
	KindDoctype:  "Doctype",
	KindProcInst: "ProcInst",
}

func (k NodeKind) String() string {
	if name, ok := nodeKindNames[k]; ok {
		return name
	}
	return "Unknown"
}

// Attr is one attribute of a start tag. ValueSpan excludes the quotes.
type Attr struct {
	Name         string
	NameSpan     Span
	Value        string
	ValueSpan    Span
	HasValue     bool
	Quote        byte
	Unterminated bool
}

// Namespace returns the prefix before ':' or "".
func (a *Attr) Namespace() string {
	if i := strings.IndexByte(a.Name, ':'); i >= 0 {
		return a.Name[:i]
	}
	return ""
}

// LocalName returns the name after ':'.
func (a *Attr) LocalName() string {
	if i := strings.IndexByte(a.Name, ':'); i >= 0 {
		return a.Name[i+1:]
	}
	return a.Name
}

// Node is one node of the best-effort tree. Elements and end tags use the
// tag fields; leaf nodes only carry Text.
type Node struct {
	Kind     NodeKind
	Span     Span
	Children []*Node
	Parent   *Node

	// Tag fields
	Marker      string // "<" or "</"
	Name        string
	NameSpan    Span
	Attrs       []*Attr
	TagSpan     Span // from the marker to just past '>' (or the last consumed token)
	CloseOffset int  // offset of '>' or "/>", or TagSpan.End when unterminated
	Closed      bool // the tag has its '>'
	SelfClosing bool
	EndTag      *Node // matching end tag, if any

	Text string
}

func (n *Node) AddChild(child *Node) {
	if child != nil {
		child.Parent = n
		n.Children = append(n.Children, child)
	}
}

func (n *Node) IsElement() bool {
	return n.Kind == KindElement
}

// ParentElement returns the closest enclosing element, skipping the
// document node.
func (n *Node) ParentElement() *Node {
	for p := n.Parent; p != nil; p = p.Parent {
		if p.Kind == KindElement {
			return p
		}
	}
	return nil
}

// InTag reports whether offset lies after the tag marker and at or before
// the tag's closing '>'.
func (n *Node) InTag(offset int) bool {
	return offset > n.TagSpan.Start.Offset && offset <= n.CloseOffset
}

// AttrValueAt returns the attribute whose quoted value contains offset.
func (n *Node) AttrValueAt(offset int) *Attr {
	for _, a := range n.Attrs {
		if a.HasValue && a.Quote != 0 && a.ValueSpan.Contains(offset) {
			return a
		}
	}
	return nil
}

// Attr returns the first attribute named name.
func (n *Node) Attr(name string) *Attr {
	for _, a := range n.Attrs {
		if a.Name == name {
			return a
		}
	}
	return nil
}

func (n *Node) ChildElements() []*Node {
	var result []*Node
	for _, child := range n.Children {
		if child.Kind == KindElement {
			result = append(result, child)
		}
	}
	return result
}

func (n *Node) String() string {
	return n.stringIndent(0, false)
}

func (n *Node) StringWithPositions() string {
	return n.stringIndent(0, true)
}

func (n *Node) stringIndent(indent int, showPositions bool) string {
	var b strings.Builder
	b.WriteString(strings.Repeat("  ", indent))
	b.WriteString(n.Kind.String())
	if showPositions {
		b.WriteString(" [" + n.Span.Start.String() + "-" + n.Span.End.String() + "]")
	}
	switch n.Kind {
	case KindElement, KindEndTag:
		b.WriteString(" " + n.Name)
		for _, a := range n.Attrs {
			b.WriteString(" " + a.Name)
			if a.HasValue {
				b.WriteString("=" + quoteValue(a))
			}
		}
		if !n.Closed {
			b.WriteString(" (unterminated)")
		}
	case KindText:
		if t := strings.TrimSpace(n.Text); t != "" {
			b.WriteString(" " + t)
		}
	}
	b.WriteString("\n")

	for _, child := range n.Children {
		b.WriteString(child.stringIndent(indent+1, showPositions))
	}
	return b.String()
}

func quoteValue(a *Attr) string {
	q := string(a.Quote)
	if a.Quote == 0 {
		q = ""
	}
	if a.Unterminated {
		return q + a.Value
	}
	return q + a.Value + q
}
