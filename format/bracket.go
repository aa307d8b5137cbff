package format

import (
	"fmt"
	"io"
	"strings"

	"github.com/dhamidi/mcfg/parse"
)

// BracketEncoder writes one bracketed tree per line, followed by the
// covered text.
type BracketEncoder struct {
	w      io.Writer
	tokens []string
	trees  []*parse.Tree
}

func NewBracketEncoder(w io.Writer, tokens []string) *BracketEncoder {
	return &BracketEncoder{w: w, tokens: tokens}
}

func (e *BracketEncoder) Encode(trees []*parse.Tree) error {
	e.trees = trees
	return write(e.w, e)
}

func (e *BracketEncoder) MarshalText() ([]byte, error) {
	var sb strings.Builder
	for _, t := range e.trees {
		fmt.Fprintf(&sb, "%s\t%s\n", t, t.YieldString(e.tokens))
	}
	return []byte(sb.String()), nil
}
