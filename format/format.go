package format

import (
	"encoding"
	"fmt"
	"io"

	"github.com/dhamidi/marksense/completion"
)

type Encoder interface {
	encoding.TextMarshaler
	Encode(res *completion.Result) error
}

// New returns the encoder registered under name: "json" or "line".
func New(name string, w io.Writer) (Encoder, error) {
	switch name {
	case "json":
		return NewJSONEncoder(w), nil
	case "line":
		return NewLineEncoder(w), nil
	default:
		return nil, fmt.Errorf("unknown format: %s (expected json or line)", name)
	}
}
