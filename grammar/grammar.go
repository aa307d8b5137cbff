package grammar

import (
	"sort"

	"github.com/cockroachdb/errors"
	"github.com/tliron/commonlog"
)

// DefaultStart is the start symbol used when none is given.
const DefaultStart = "S"

// ErrInconsistentArity means a nonterminal is used with different numbers of
// slots in different places.
var ErrInconsistentArity = errors.New("inconsistent nonterminal arity")

var log = commonlog.GetLogger("mcfg.grammar")

// Grammar is an ordered, de-duplicated rule set with a start symbol. It is
// read-only after construction and may be shared by concurrent parsers.
type Grammar struct {
	start   string
	rules   []*Rule
	lexical []*Rule
	arity   map[string]int
	byRHS   map[string][]*Rule
}

// New builds a grammar. Structurally equal rules are kept once. Every
// nonterminal must be used with the same arity everywhere.
func New(start string, rules ...*Rule) (*Grammar, error) {
	if start == "" {
		start = DefaultStart
	}
	g := &Grammar{
		start: start,
		arity: make(map[string]int),
		byRHS: make(map[string][]*Rule),
	}

	seen := make(map[string]bool)
	for _, r := range rules {
		if r == nil {
			continue
		}
		key := r.Key()
		if seen[key] {
			log.Debugf("dropping duplicate rule %s", r)
			continue
		}
		seen[key] = true

		if err := g.checkArity(r.Left); err != nil {
			return nil, errors.Wrapf(err, "rule %s", r)
		}
		for _, el := range r.Right {
			if err := g.checkArity(el); err != nil {
				return nil, errors.Wrapf(err, "rule %s", r)
			}
		}

		g.rules = append(g.rules, r)
		if r.IsEpsilon() {
			g.lexical = append(g.lexical, r)
			continue
		}
		indexed := make(map[string]bool)
		for _, el := range r.Right {
			if !indexed[el.Name] {
				indexed[el.Name] = true
				g.byRHS[el.Name] = append(g.byRHS[el.Name], r)
			}
		}
	}

	if a, ok := g.arity[start]; !ok {
		log.Warningf("start symbol %s does not occur in the grammar", start)
	} else if a != 1 {
		log.Warningf("start symbol %s has arity %d; no parse can complete", start, a)
	}
	return g, nil
}

// FromStrings parses rule texts and builds a grammar from them.
func FromStrings(start string, texts ...string) (*Grammar, error) {
	rules, err := ParseRules(texts...)
	if err != nil {
		return nil, err
	}
	return New(start, rules...)
}

// MustFromStrings is like FromStrings but panics on error.
func MustFromStrings(start string, texts ...string) *Grammar {
	g, err := FromStrings(start, texts...)
	if err != nil {
		panic(err)
	}
	return g
}

func (g *Grammar) checkArity(el Element) error {
	n := len(el.Slots)
	if prev, ok := g.arity[el.Name]; ok && prev != n {
		return errors.WithHintf(
			errors.Wrapf(ErrInconsistentArity, "%s used with %d and %d slots", el.Name, prev, n),
			"every occurrence of %s must have the same number of arguments", el.Name)
	}
	g.arity[el.Name] = n
	return nil
}

// Start returns the start symbol.
func (g *Grammar) Start() string {
	return g.start
}

// Rules returns every rule in insertion order.
func (g *Grammar) Rules() []*Rule {
	return g.rules
}

// Lexical returns the rules without right-hand side.
func (g *Grammar) Lexical() []*Rule {
	return g.lexical
}

// RulesUsing returns the non-lexical rules with name on their right-hand side.
func (g *Grammar) RulesUsing(name string) []*Rule {
	return g.byRHS[name]
}

// Arity returns the slot count declared for name.
func (g *Grammar) Arity(name string) (int, bool) {
	n, ok := g.arity[name]
	return n, ok
}

// Nonterminals returns the sorted nonterminal names.
func (g *Grammar) Nonterminals() []string {
	names := make([]string, 0, len(g.arity))
	for name := range g.arity {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Terminals returns the sorted set of terminals licensed by lexical rules.
func (g *Grammar) Terminals() []string {
	seen := make(map[string]bool)
	var terms []string
	for _, r := range g.lexical {
		if !seen[r.Terminal] {
			seen[r.Terminal] = true
			terms = append(terms, r.Terminal)
		}
	}
	sort.Strings(terms)
	return terms
}
