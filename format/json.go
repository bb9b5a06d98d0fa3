package format

import (
	"encoding/json"
	"io"

	"github.com/dhamidi/marksense/completion"
)

type JSONEncoder struct {
	w   io.Writer
	res *completion.Result
}

func NewJSONEncoder(w io.Writer) *JSONEncoder {
	return &JSONEncoder{w: w}
}

func (e *JSONEncoder) Encode(res *completion.Result) error {
	e.res = res
	text, err := e.MarshalText()
	if err != nil {
		return err
	}
	_, err = e.w.Write(append(text, '\n'))
	return err
}

func (e *JSONEncoder) MarshalText() ([]byte, error) {
	return json.MarshalIndent(e.buildResultData(), "", "  ")
}

type jsonResult struct {
	Context   jsonContext   `json:"context"`
	Anchor    int           `json:"anchor"`
	Offset    int           `json:"offset"`
	Continued bool          `json:"continued,omitempty"`
	Items     []jsonItem    `json:"items"`
	Problems  []jsonProblem `json:"problems,omitempty"`
}

type jsonContext struct {
	Kind         string `json:"kind"`
	Filter       string `json:"filter"`
	PartialToken string `json:"partialToken,omitempty"`
	FullToken    string `json:"fullToken,omitempty"`
	OwnerTag     string `json:"ownerTag,omitempty"`
	ParentTag    string `json:"parentTag,omitempty"`
	Attribute    string `json:"attribute,omitempty"`
}

type jsonItem struct {
	Label        string `json:"label"`
	Kind         string `json:"kind"`
	Detail       string `json:"detail,omitempty"`
	InsertText   string `json:"insertText"`
	CursorOffset int    `json:"cursorOffset"`
	Namespace    string `json:"namespace,omitempty"`
	Score        int    `json:"score"`
	Retrigger    bool   `json:"retrigger,omitempty"`
}

type jsonProblem struct {
	Message string          `json:"message"`
	Start   astJSONPosition `json:"start"`
	End     astJSONPosition `json:"end"`
}

func (e *JSONEncoder) buildResultData() jsonResult {
	r := e.res
	cc := r.Context
	data := jsonResult{
		Context: jsonContext{
			Kind:         cc.Kind.String(),
			Filter:       cc.Filter,
			PartialToken: cc.PartialToken,
			FullToken:    cc.FullToken,
			OwnerTag:     cc.OwnerTag,
			ParentTag:    cc.ParentTag,
			Attribute:    cc.Attribute,
		},
		Anchor:    r.Anchor,
		Offset:    r.Offset,
		Continued: r.Continued,
		Items:     make([]jsonItem, len(r.Items)),
	}
	for i, it := range r.Items {
		data.Items[i] = jsonItem{
			Label:        it.Label,
			Kind:         it.Kind.String(),
			Detail:       it.Detail,
			InsertText:   it.InsertText,
			CursorOffset: it.CursorOffset,
			Namespace:    it.Namespace,
			Score:        it.Score,
			Retrigger:    it.OnAccept != nil && it.OnAccept(it).Retrigger,
		}
	}
	for _, p := range r.Problems {
		data.Problems = append(data.Problems, jsonProblem{
			Message: p.Message,
			Start:   astJSONPosition{Line: p.Span.Start.Line, Column: p.Span.Start.Column},
			End:     astJSONPosition{Line: p.Span.End.Line, Column: p.Span.End.Column},
		})
	}
	return data
}
