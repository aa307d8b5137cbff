package parse

import (
	"strings"

	"github.com/dhamidi/mcfg/grammar"
)

// Tree is one derivation of an instance. Trees built from the same forest
// share subtrees, so treat them as read-only once built.
type Tree struct {
	Label    string
	Spans    []grammar.Span
	Children []*Tree
	Rule     *grammar.Rule // rule applied at this node, nil if unknown
}

// NewTree creates a childless tree.
func NewTree(label string, spans ...grammar.Span) *Tree {
	return &Tree{Label: label, Spans: append([]grammar.Span(nil), spans...)}
}

// AddChild appends a child subtree.
func (t *Tree) AddChild(child *Tree) {
	if child == nil {
		return
	}
	t.Children = append(t.Children, child)
}

// IsLeaf reports whether the tree has no children.
func (t *Tree) IsLeaf() bool {
	return len(t.Children) == 0
}

// Instance returns the chart instance at the root of the tree.
func (t *Tree) Instance() grammar.Instance {
	return grammar.NewInstance(t.Label, t.Spans...)
}

// YieldString reconstructs the covered text: the tokens of each span, in
// span order, joined by single spaces.
func (t *Tree) YieldString(tokens []string) string {
	var segments []string
	for _, s := range t.Spans {
		start, end := clamp(s.Start, len(tokens)), clamp(s.End, len(tokens))
		if start < end {
			segments = append(segments, tokens[start:end]...)
		}
	}
	return strings.Join(segments, " ")
}

func clamp(i, n int) int {
	if i < 0 {
		return 0
	}
	if i > n {
		return n
	}
	return i
}

// Walk calls fn for t and every descendant, parents first. Returning false
// from fn skips the node's children.
func (t *Tree) Walk(fn func(node *Tree, depth int) bool) {
	t.walk(fn, 0)
}

func (t *Tree) walk(fn func(*Tree, int) bool, depth int) {
	if !fn(t, depth) {
		return
	}
	for _, c := range t.Children {
		c.walk(fn, depth+1)
	}
}

// String renders the tree in bracketed form, e.g. (S[0:2] NP[0:1] VP[1:2]).
func (t *Tree) String() string {
	var b strings.Builder
	t.writeTo(&b)
	return b.String()
}

func (t *Tree) writeTo(b *strings.Builder) {
	if t.IsLeaf() {
		b.WriteString(t.Instance().String())
		return
	}
	b.WriteByte('(')
	b.WriteString(t.Instance().String())
	for _, c := range t.Children {
		b.WriteByte(' ')
		c.writeTo(b)
	}
	b.WriteByte(')')
}

// BuildTrees enumerates every tree rooted at inst. An instance whose only
// derivations are lexical, or which has none, becomes a single leaf. For every
// other derivation, the alternatives of each child are combined by cross
// product. Derivations that would revisit an instance already on the current
// path (unary cycles) are skipped, so only finite trees are produced.
func BuildTrees(inst grammar.Instance, forest *Forest) []*Tree {
	b := &treeBuilder{
		forest: forest,
		memo:   make(map[string][]*Tree),
		onPath: make(map[string]bool),
	}
	trees, _ := b.build(inst)
	return trees
}

type treeBuilder struct {
	forest *Forest
	memo   map[string][]*Tree
	onPath map[string]bool
}

// build returns the trees for inst and whether a cycle was cut somewhere
// below it. Results that depend on a cut are not memoized because they
// depend on the path taken to reach inst.
func (b *treeBuilder) build(inst grammar.Instance) ([]*Tree, bool) {
	key := inst.Key()
	if trees, ok := b.memo[key]; ok {
		return trees, false
	}

	derivs := b.forest.Derivations(inst)
	var trees []*Tree
	cut := false

	var lexical *grammar.Rule
	hasLexical := len(derivs) == 0
	for _, d := range derivs {
		if len(d.Children) == 0 {
			if !hasLexical {
				lexical = d.Rule
			}
			hasLexical = true
		}
	}
	if hasLexical {
		leaf := NewTree(inst.Name, inst.Spans...)
		leaf.Rule = lexical
		trees = append(trees, leaf)
	}

	b.onPath[key] = true
	for _, d := range derivs {
		if len(d.Children) == 0 {
			continue
		}
		alternatives := make([][]*Tree, len(d.Children))
		viable := true
		for i, child := range d.Children {
			if b.onPath[child.Key()] {
				cut = true
				viable = false
				break
			}
			sub, subCut := b.build(child)
			cut = cut || subCut
			if len(sub) == 0 {
				viable = false
				break
			}
			alternatives[i] = sub
		}
		if !viable {
			continue
		}
		trees = appendProducts(trees, inst, d.Rule, alternatives, nil)
	}
	delete(b.onPath, key)

	if !cut {
		b.memo[key] = trees
	}
	return trees, cut
}

// appendProducts appends one tree per element of the cross product of
// alternatives. chosen is extended by copy at every level.
func appendProducts(out []*Tree, inst grammar.Instance, rule *grammar.Rule, alternatives [][]*Tree, chosen []*Tree) []*Tree {
	depth := len(chosen)
	if depth == len(alternatives) {
		return append(out, &Tree{
			Label:    inst.Name,
			Spans:    append([]grammar.Span(nil), inst.Spans...),
			Children: chosen,
			Rule:     rule,
		})
	}
	for _, alt := range alternatives[depth] {
		next := make([]*Tree, depth+1)
		copy(next, chosen)
		next[depth] = alt
		out = appendProducts(out, inst, rule, alternatives, next)
	}
	return out
}
