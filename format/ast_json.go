package format

import (
	"encoding/json"
	"io"

	"github.com/dhamidi/marksense/markup/parser"
)

type ASTJSONEncoder struct {
	w io.Writer
}

func NewASTJSONEncoder(w io.Writer) *ASTJSONEncoder {
	return &ASTJSONEncoder{w: w}
}

func (e *ASTJSONEncoder) Encode(node *parser.Node) error {
	text, err := e.MarshalText(node)
	if err != nil {
		return err
	}
	_, err = e.w.Write(append(text, '\n'))
	return err
}

func (e *ASTJSONEncoder) MarshalText(node *parser.Node) ([]byte, error) {
	return json.MarshalIndent(nodeToJSON(node), "", "  ")
}

type astJSONNode struct {
	Kind     string         `json:"kind"`
	Span     astJSONSpan    `json:"span"`
	Name     string         `json:"name,omitempty"`
	Attrs    []astJSONAttr  `json:"attrs,omitempty"`
	Text     string         `json:"text,omitempty"`
	Open     bool           `json:"open,omitempty"`
	Children []*astJSONNode `json:"children,omitempty"`
}

type astJSONSpan struct {
	Start astJSONPosition `json:"start"`
	End   astJSONPosition `json:"end"`
}

type astJSONPosition struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

type astJSONAttr struct {
	Name         string `json:"name"`
	Value        string `json:"value,omitempty"`
	Unterminated bool   `json:"unterminated,omitempty"`
}

func spanToJSON(s parser.Span) astJSONSpan {
	return astJSONSpan{
		Start: astJSONPosition{Line: s.Start.Line, Column: s.Start.Column},
		End:   astJSONPosition{Line: s.End.Line, Column: s.End.Column},
	}
}

func nodeToJSON(n *parser.Node) *astJSONNode {
	jn := &astJSONNode{
		Kind: n.Kind.String(),
		Span: spanToJSON(n.Span),
		Name: n.Name,
		Text: n.Text,
	}

	if n.Kind == parser.KindElement || n.Kind == parser.KindEndTag {
		jn.Open = !n.Closed
	}

	for _, a := range n.Attrs {
		jn.Attrs = append(jn.Attrs, astJSONAttr{
			Name:         a.Name,
			Value:        a.Value,
			Unterminated: a.Unterminated,
		})
	}

	if len(n.Children) > 0 {
		jn.Children = make([]*astJSONNode, len(n.Children))
		for i, child := range n.Children {
			jn.Children[i] = nodeToJSON(child)
		}
	}

	return jn
}
