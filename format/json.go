package format

import (
	"encoding/json"
	"io"

	"github.com/dhamidi/mcfg/parse"
)

type JSONEncoder struct {
	w      io.Writer
	tokens []string
	trees  []*parse.Tree
}

func NewJSONEncoder(w io.Writer, tokens []string) *JSONEncoder {
	return &JSONEncoder{w: w, tokens: tokens}
}

func (e *JSONEncoder) Encode(trees []*parse.Tree) error {
	e.trees = trees
	return write(e.w, e)
}

func (e *JSONEncoder) MarshalText() ([]byte, error) {
	doc := jsonDocument{
		Tokens: e.tokens,
		Trees:  make([]*jsonTree, len(e.trees)),
	}
	for i, t := range e.trees {
		doc.Trees[i] = e.treeToJSON(t)
	}
	text, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(text, '\n'), nil
}

type jsonDocument struct {
	Tokens []string    `json:"tokens"`
	Trees  []*jsonTree `json:"trees"`
}

type jsonTree struct {
	Label    string      `json:"label"`
	Spans    [][2]int    `json:"spans"`
	Yield    string      `json:"yield"`
	Rule     string      `json:"rule,omitempty"`
	Children []*jsonTree `json:"children,omitempty"`
}

func (e *JSONEncoder) treeToJSON(t *parse.Tree) *jsonTree {
	jt := &jsonTree{
		Label: t.Label,
		Spans: make([][2]int, len(t.Spans)),
		Yield: t.YieldString(e.tokens),
	}
	for i, s := range t.Spans {
		jt.Spans[i] = [2]int{s.Start, s.End}
	}
	if t.Rule != nil {
		jt.Rule = t.Rule.String()
	}
	if len(t.Children) > 0 {
		jt.Children = make([]*jsonTree, len(t.Children))
		for i, c := range t.Children {
			jt.Children[i] = e.treeToJSON(c)
		}
	}
	return jt
}
