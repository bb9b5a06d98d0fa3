package format

import (
	"fmt"
	"io"
	"strings"

	"github.com/dhamidi/marksense/completion"
)

// LineEncoder writes one tab separated record per line: a context record
// followed by one item record per candidate, best first.
type LineEncoder struct {
	w   io.Writer
	res *completion.Result
}

func NewLineEncoder(w io.Writer) *LineEncoder {
	return &LineEncoder{w: w}
}

func (e *LineEncoder) Encode(res *completion.Result) error {
	e.res = res
	text, err := e.MarshalText()
	if err != nil {
		return err
	}
	_, err = e.w.Write(text)
	return err
}

func (e *LineEncoder) MarshalText() ([]byte, error) {
	var sb strings.Builder
	r := e.res
	cc := r.Context

	fmt.Fprintf(&sb, "context\t%s\t%q\t%d\t%d\t%s\n",
		cc.Kind,
		cc.Filter,
		r.Anchor,
		r.Offset,
		e.continuedStr(),
	)

	for _, it := range r.Items {
		fmt.Fprintf(&sb, "item\t%d\t%s\t%q\t%s\n",
			it.Score,
			it.Label,
			it.InsertText,
			it.Detail,
		)
	}

	for _, p := range r.Problems {
		fmt.Fprintf(&sb, "problem\t%s\t%s\n", p.Span.Start, p.Message)
	}

	return []byte(sb.String()), nil
}

func (e *LineEncoder) continuedStr() string {
	if e.res.Continued {
		return "continued"
	}
	return "computed"
}
