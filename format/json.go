package format

import (
	"encoding/json"
	"io"

	"github.com/dhamidi/grampa/parse"
)

type JSONEncoder struct {
	w io.Writer
}

func NewJSONEncoder(w io.Writer) *JSONEncoder {
	return &JSONEncoder{w: w}
}

func (e *JSONEncoder) Encode(node *parse.Node) error {
	text, err := json.MarshalIndent(nodeData(node), "", "  ")
	if err != nil {
		return err
	}
	if _, err := e.w.Write(text); err != nil {
		return err
	}
	_, err = io.WriteString(e.w, "\n")
	return err
}
