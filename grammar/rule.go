package grammar

import (
	"sort"
	"strings"

	"github.com/cockroachdb/errors"
)

var (
	// ErrNonAdjacent means the right-hand spans bound to a concatenation
	// pattern are not contiguous in the stated order.
	ErrNonAdjacent = errors.New("cannot unify: non-adjacent spans")

	// ErrArity means a right-hand instance does not fit its element.
	ErrArity = errors.New("instance does not match rule element")

	// ErrInvalidRule means a rule violates the variable discipline.
	ErrInvalidRule = errors.New("invalid rule")
)

// varRef locates a variable on the right-hand side of a rule.
type varRef struct {
	elem int
	slot int
}

// Rule is an MCFG production. A rule without right-hand elements is lexical:
// it licenses Left.Name over a single token equal to Terminal.
type Rule struct {
	Left     Element
	Right    []Element
	Terminal string

	// pattern[i] lists, for left slot i, where each concatenated variable
	// is bound on the right-hand side.
	pattern [][]varRef
}

// NewRule validates the variable discipline and builds a rule. Every variable
// in a left-hand pattern must occur in exactly one right-hand slot, and every
// right-hand slot holds exactly one variable.
func NewRule(left Element, right ...Element) (*Rule, error) {
	if len(right) == 0 {
		return nil, errors.Wrapf(ErrInvalidRule, "%s: no right-hand side; use NewLexicalRule", left)
	}
	if left.Name == "" || len(left.Slots) == 0 {
		return nil, errors.Wrapf(ErrInvalidRule, "%s: left-hand element has no slots", left)
	}

	bound := make(map[string]varRef)
	for ei, el := range right {
		if el.Name == "" || len(el.Slots) == 0 {
			return nil, errors.Wrapf(ErrInvalidRule, "right-hand element %d has no slots", ei)
		}
		for si, slot := range el.Slots {
			if len(slot) != 1 {
				return nil, errors.Wrapf(ErrInvalidRule, "%s: slot %d of %s must hold exactly one variable", left, si, el)
			}
			v := slot[0]
			if _, dup := bound[v]; dup {
				return nil, errors.Wrapf(ErrInvalidRule, "%s: variable %q bound twice on the right-hand side", left, v)
			}
			bound[v] = varRef{elem: ei, slot: si}
		}
	}

	used := make(map[string]bool)
	pattern := make([][]varRef, len(left.Slots))
	for li, slot := range left.Slots {
		if len(slot) == 0 {
			return nil, errors.Wrapf(ErrInvalidRule, "%s: left slot %d is empty", left, li)
		}
		for _, v := range slot {
			ref, ok := bound[v]
			if !ok {
				return nil, errors.Wrapf(ErrInvalidRule, "%s: variable %q is not bound on the right-hand side", left, v)
			}
			if used[v] {
				return nil, errors.Wrapf(ErrInvalidRule, "%s: variable %q used twice on the left-hand side", left, v)
			}
			used[v] = true
			pattern[li] = append(pattern[li], ref)
		}
	}

	r := &Rule{Left: left, Right: append([]Element(nil), right...), pattern: pattern}
	return r, nil
}

// NewLexicalRule builds a rule licensing name over the single token terminal.
func NewLexicalRule(name, terminal string) (*Rule, error) {
	if name == "" || terminal == "" {
		return nil, errors.Wrapf(ErrInvalidRule, "lexical rule %s(%s): name and terminal are required", name, terminal)
	}
	return &Rule{
		Left:     Element{Name: name, Slots: [][]string{{terminal}}},
		Terminal: terminal,
	}, nil
}

// IsEpsilon reports whether the rule has no right-hand side.
func (r *Rule) IsEpsilon() bool {
	return len(r.Right) == 0
}

// StringYield returns the left nonterminal of a lexical rule and "" otherwise.
func (r *Rule) StringYield() string {
	if r.IsEpsilon() {
		return r.Left.Name
	}
	return ""
}

// UniqueVariables returns the sorted set of nonterminals named by the rule.
func (r *Rule) UniqueVariables() []string {
	seen := map[string]bool{r.Left.Name: true}
	names := []string{r.Left.Name}
	for _, el := range r.Right {
		if !seen[el.Name] {
			seen[el.Name] = true
			names = append(names, el.Name)
		}
	}
	sort.Strings(names)
	return names
}

// Mentions reports whether name occurs on the right-hand side.
func (r *Rule) Mentions(name string) bool {
	for _, el := range r.Right {
		if el.Name == name {
			return true
		}
	}
	return false
}

// Instantiate derives the left-hand instance from one instance per
// right-hand element, in order. Each left slot becomes the concatenation of
// the spans bound to its variables; consecutive spans must touch.
func (r *Rule) Instantiate(rhs ...Instance) (Instance, error) {
	if len(rhs) != len(r.Right) {
		return Instance{}, errors.Wrapf(ErrArity, "%s: got %d right-hand instances, want %d", r, len(rhs), len(r.Right))
	}
	for i, inst := range rhs {
		el := r.Right[i]
		if inst.Name != el.Name || len(inst.Spans) != len(el.Slots) {
			return Instance{}, errors.Wrapf(ErrArity, "%s: position %d got %s", r, i, inst)
		}
	}

	spans := make([]Span, len(r.pattern))
	for li, refs := range r.pattern {
		first := rhs[refs[0].elem].Spans[refs[0].slot]
		cur := first
		for _, ref := range refs[1:] {
			next := rhs[ref.elem].Spans[ref.slot]
			if cur.End != next.Start {
				return Instance{}, ErrNonAdjacent
			}
			cur = next
		}
		spans[li] = Span{Start: first.Start, End: cur.End}
	}
	return Instance{Name: r.Left.Name, Spans: spans}, nil
}

// Key is the canonical form used for equality and deduplication.
func (r *Rule) Key() string {
	var b strings.Builder
	b.WriteString(r.Left.Key())
	if r.IsEpsilon() {
		b.WriteString(" = ")
		b.WriteString(r.Terminal)
		return b.String()
	}
	b.WriteString(" ->")
	for _, el := range r.Right {
		b.WriteByte(' ')
		b.WriteString(el.Key())
	}
	return b.String()
}

// Equal reports structural equality.
func (r *Rule) Equal(other *Rule) bool {
	return r.Key() == other.Key()
}

// String renders the rule in the text syntax accepted by ParseRule.
func (r *Rule) String() string {
	if r.IsEpsilon() {
		return r.Left.Name + "(" + r.Terminal + ")"
	}
	parts := make([]string, len(r.Right))
	for i, el := range r.Right {
		parts[i] = el.String()
	}
	return r.Left.String() + " -> " + strings.Join(parts, " ")
}
