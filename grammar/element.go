// Package grammar defines the symbolic and ground building blocks of a
// multiple context-free grammar: rule elements, their instances over concrete
// token spans, rules and rule sets.
package grammar

import (
	"fmt"
	"sort"
	"strings"

	"github.com/cockroachdb/errors"
)

// Span is a half-open token range [Start, End).
type Span struct {
	Start int
	End   int
}

func (s Span) String() string {
	return fmt.Sprintf("%d:%d", s.Start, s.End)
}

// Element is a nonterminal paired with an ordered tuple of slots. Each slot is
// a concatenation group of one or more variable symbols.
type Element struct {
	Name  string
	Slots [][]string
}

// NewElement validates and builds an Element.
func NewElement(name string, slots ...[]string) (Element, error) {
	if name == "" {
		return Element{}, errors.New("element: empty nonterminal name")
	}
	if len(slots) == 0 {
		return Element{}, errors.Newf("element %s: at least one slot is required", name)
	}
	copied := make([][]string, len(slots))
	for i, slot := range slots {
		if len(slot) == 0 {
			return Element{}, errors.Newf("element %s: slot %d is empty", name, i)
		}
		copied[i] = append([]string(nil), slot...)
	}
	return Element{Name: name, Slots: copied}, nil
}

// Arity is the number of slots.
func (e Element) Arity() int {
	return len(e.Slots)
}

// Variables returns every variable symbol in slot order, duplicates included.
func (e Element) Variables() []string {
	var vars []string
	for _, slot := range e.Slots {
		vars = append(vars, slot...)
	}
	return vars
}

// UniqueVariables returns the sorted set of variable symbols referenced by
// the element.
func (e Element) UniqueVariables() []string {
	seen := make(map[string]bool)
	var vars []string
	for _, v := range e.Variables() {
		if !seen[v] {
			seen[v] = true
			vars = append(vars, v)
		}
	}
	sort.Strings(vars)
	return vars
}

// Key is the canonical form used for equality and map keys.
func (e Element) Key() string {
	var b strings.Builder
	b.WriteString(e.Name)
	for _, slot := range e.Slots {
		b.WriteByte('|')
		b.WriteString(strings.Join(slot, " "))
	}
	return b.String()
}

// Equal reports whether both elements have the same name and slots.
func (e Element) Equal(other Element) bool {
	return e.Key() == other.Key()
}

// String renders the element the way it is written in rule text.
func (e Element) String() string {
	parts := make([]string, len(e.Slots))
	for i, slot := range e.Slots {
		parts[i] = strings.Join(slot, "")
	}
	return e.Name + "(" + strings.Join(parts, ", ") + ")"
}

// Instance is an element bound to concrete spans, one per slot.
type Instance struct {
	Name  string
	Spans []Span
}

// NewInstance builds an Instance.
func NewInstance(name string, spans ...Span) Instance {
	return Instance{Name: name, Spans: append([]Span(nil), spans...)}
}

// Arity is the number of spans.
func (i Instance) Arity() int {
	return len(i.Spans)
}

// Key is the canonical form used for equality and chart membership.
func (i Instance) Key() string {
	var b strings.Builder
	b.WriteString(i.Name)
	for _, s := range i.Spans {
		fmt.Fprintf(&b, "|%d:%d", s.Start, s.End)
	}
	return b.String()
}

// Equal reports whether both instances have the same name and span tuple.
func (i Instance) Equal(other Instance) bool {
	if i.Name != other.Name || len(i.Spans) != len(other.Spans) {
		return false
	}
	for k := range i.Spans {
		if i.Spans[k] != other.Spans[k] {
			return false
		}
	}
	return true
}

// Covers reports whether the instance is a single span over [0, n).
func (i Instance) Covers(n int) bool {
	return len(i.Spans) == 1 && i.Spans[0] == Span{Start: 0, End: n}
}

func (i Instance) String() string {
	parts := make([]string, len(i.Spans))
	for k, s := range i.Spans {
		parts[k] = s.String()
	}
	return i.Name + "[" + strings.Join(parts, ",") + "]"
}
