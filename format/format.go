// Package format renders parse trees for display.
package format

import (
	"encoding"
	"io"

	"github.com/cockroachdb/errors"

	"github.com/dhamidi/mcfg/parse"
)

type Encoder interface {
	encoding.TextMarshaler
	Encode(trees []*parse.Tree) error
}

// New returns the encoder registered under name: "json", "bracket" or "tree".
func New(name string, w io.Writer, tokens []string) (Encoder, error) {
	switch name {
	case "json":
		return NewJSONEncoder(w, tokens), nil
	case "bracket":
		return NewBracketEncoder(w, tokens), nil
	case "tree", "":
		return NewTreeEncoder(w, tokens), nil
	}
	return nil, errors.WithHint(errors.Newf("unknown format: %s", name), "use json, bracket or tree")
}

func write(w io.Writer, m encoding.TextMarshaler) error {
	text, err := m.MarshalText()
	if err != nil {
		return err
	}
	_, err = w.Write(text)
	return err
}
