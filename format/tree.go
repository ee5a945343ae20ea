package format

import (
	"io"

	"github.com/dhamidi/grampa/parse"
)

// TreeEncoder writes the indented text form of a tree, one field per line.
type TreeEncoder struct {
	w io.Writer
}

func NewTreeEncoder(w io.Writer) *TreeEncoder {
	return &TreeEncoder{w: w}
}

func (e *TreeEncoder) Encode(node *parse.Node) error {
	_, err := io.WriteString(e.w, node.String())
	return err
}
