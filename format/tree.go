package format

import (
	"fmt"
	"io"
	"strings"

	"github.com/pterm/pterm"

	"github.com/dhamidi/mcfg/parse"
)

// TreeEncoder draws each tree with box-drawing characters. Leaves show the
// token they cover.
type TreeEncoder struct {
	w      io.Writer
	tokens []string
	trees  []*parse.Tree
}

func NewTreeEncoder(w io.Writer, tokens []string) *TreeEncoder {
	return &TreeEncoder{w: w, tokens: tokens}
}

func (e *TreeEncoder) Encode(trees []*parse.Tree) error {
	e.trees = trees
	return write(e.w, e)
}

func (e *TreeEncoder) MarshalText() ([]byte, error) {
	var sb strings.Builder
	for i, t := range e.trees {
		if len(e.trees) > 1 {
			fmt.Fprintf(&sb, "parse %d of %d\n", i+1, len(e.trees))
		}
		out, err := pterm.DefaultTree.WithRoot(e.node(t)).Srender()
		if err != nil {
			return nil, err
		}
		sb.WriteString(out)
		if !strings.HasSuffix(out, "\n") {
			sb.WriteByte('\n')
		}
	}
	return []byte(sb.String()), nil
}

func (e *TreeEncoder) node(t *parse.Tree) pterm.TreeNode {
	text := t.Instance().String()
	if t.IsLeaf() {
		text += " " + t.YieldString(e.tokens)
	}
	n := pterm.TreeNode{Text: text}
	for _, c := range t.Children {
		n.Children = append(n.Children, e.node(c))
	}
	return n
}
