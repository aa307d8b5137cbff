// Package parse implements bottom-up agenda-driven chart parsing for multiple
// context-free grammars and recovers every derivation as a tree.
//
// A Parser owns its chart, agenda and forest for the duration of one Parse
// call and must not be shared between goroutines. The grammar it reads from
// is immutable and can be shared freely.
package parse

import (
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/tliron/commonlog"

	"github.com/dhamidi/mcfg/grammar"
)

var log = commonlog.GetLogger("mcfg.parse")

// ErrChartLimit is returned when the chart grows past the configured bound.
var ErrChartLimit = errors.New("chart size limit exceeded")

// LexicalMatch selects how lexical rules are matched against input tokens.
type LexicalMatch int

const (
	// MatchExact fires a lexical rule only where the token equals its terminal.
	MatchExact LexicalMatch = iota
	// MatchFold compares tokens and terminals case-insensitively.
	MatchFold
	// MatchAny fires every lexical rule at every position.
	MatchAny
)

func (m LexicalMatch) String() string {
	switch m {
	case MatchExact:
		return "exact"
	case MatchFold:
		return "fold"
	case MatchAny:
		return "any"
	}
	return "unknown"
}

// ParseLexicalMatch converts a mode name back into a LexicalMatch.
func ParseLexicalMatch(s string) (LexicalMatch, error) {
	switch strings.ToLower(s) {
	case "", "exact":
		return MatchExact, nil
	case "fold":
		return MatchFold, nil
	case "any":
		return MatchAny, nil
	}
	return MatchExact, errors.WithHint(errors.Newf("unknown lexical match mode %q", s), "use exact, fold or any")
}

func (m LexicalMatch) matches(terminal, token string) bool {
	switch m {
	case MatchAny:
		return true
	case MatchFold:
		return strings.EqualFold(terminal, token)
	default:
		return terminal == token
	}
}

type Option func(*Parser)

// WithStart overrides the grammar's start symbol.
func WithStart(symbol string) Option {
	return func(p *Parser) {
		p.start = symbol
	}
}

func WithLexicalMatch(m LexicalMatch) Option {
	return func(p *Parser) {
		p.match = m
	}
}

// WithMaxChart bounds the number of chart entries; zero means unbounded.
func WithMaxChart(n int) Option {
	return func(p *Parser) {
		p.maxChart = n
	}
}

// Stats counts the work done by the last Parse call.
type Stats struct {
	Pops        int
	Attempts    int
	Failures    int
	Derivations int
	ChartSize   int
}

// Parser is an MCFG chart parser.
type Parser struct {
	grammar  *grammar.Grammar
	start    string
	match    LexicalMatch
	maxChart int

	tokens    []string
	chart     *Chart
	agenda    agenda
	forest    *Forest
	completed []grammar.Instance
	stats     Stats

	// popped, when set, is called after each agenda item is processed.
	popped func(item grammar.Instance)
}

// NewParser creates a parser for g.
func NewParser(g *grammar.Grammar, opts ...Option) *Parser {
	p := &Parser{
		grammar: g,
		start:   g.Start(),
		chart:   newChart(),
		forest:  NewForest(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Chart returns a copy of the chart entries of the last parse in insertion
// order.
func (p *Parser) Chart() []grammar.Instance {
	return append([]grammar.Instance(nil), p.chart.Items()...)
}

// Forest returns the derivation forest of the last parse.
func (p *Parser) Forest() *Forest {
	return p.forest
}

// Stats returns counters for the last parse.
func (p *Parser) Stats() Stats {
	return p.stats
}

// Start returns the start symbol in effect.
func (p *Parser) Start() string {
	return p.start
}

// Parse runs the closure over tokens and returns every completed instance:
// the start symbol over the single span (0, len(tokens)). An empty result
// means the sentence is not in the language. The only error is ErrChartLimit.
func (p *Parser) Parse(tokens []string) ([]grammar.Instance, error) {
	p.reset(tokens)

	if err := p.initializeLexical(); err != nil {
		return nil, err
	}

	for {
		item, ok := p.agenda.pop()
		if !ok {
			break
		}
		p.stats.Pops++
		if err := p.process(item); err != nil {
			return nil, err
		}
		p.chart.markProcessed(item)
		if p.popped != nil {
			p.popped(item)
		}
	}

	p.stats.ChartSize = p.chart.Len()
	log.Debugf("parsed %d tokens: %d chart entries, %d attempts, %d failures, %d derivations",
		len(tokens), p.stats.ChartSize, p.stats.Attempts, p.stats.Failures, p.stats.Derivations)
	if len(p.completed) == 0 {
		log.Infof("no %s covers %q", p.start, strings.Join(tokens, " "))
	}
	return p.completed, nil
}

func (p *Parser) reset(tokens []string) {
	p.tokens = tokens
	p.chart = newChart()
	p.agenda = agenda{}
	p.forest = NewForest()
	p.completed = nil
	p.stats = Stats{}
}

// initializeLexical seeds the chart with one instance per lexical rule that
// matches the token at each position.
func (p *Parser) initializeLexical() error {
	for i, tok := range p.tokens {
		seeded := 0
		for _, rule := range p.grammar.Lexical() {
			if !p.match.matches(rule.Terminal, tok) {
				continue
			}
			inst := grammar.NewInstance(rule.Left.Name, grammar.Span{Start: i, End: i + 1})
			if err := p.record(inst, Derivation{Rule: rule}); err != nil {
				return err
			}
			seeded++
		}
		if seeded == 0 {
			log.Debugf("no lexical rule covers %q at position %d", tok, i)
		}
	}
	return nil
}

// process combines item with entries that already left the agenda. For every
// rule and every right-hand position k naming item's nonterminal, positions
// before k draw from processed entries, k is item itself, and positions after
// k draw from processed entries plus item. Each combination of chart entries
// is thereby tried exactly once, when its last member is popped.
func (p *Parser) process(item grammar.Instance) error {
	for _, rule := range p.grammar.RulesUsing(item.Name) {
		for k, el := range rule.Right {
			if el.Name != item.Name || len(el.Slots) != item.Arity() {
				continue
			}
			pools := make([][]grammar.Instance, len(rule.Right))
			empty := false
			for j, other := range rule.Right {
				switch {
				case j < k:
					pools[j] = p.chart.processed(other.Name)
				case j == k:
					pools[j] = []grammar.Instance{item}
				default:
					pools[j] = p.chart.processed(other.Name)
					if other.Name == item.Name {
						pools[j] = append(pools[j][:len(pools[j]):len(pools[j])], item)
					}
				}
				if len(pools[j]) == 0 {
					empty = true
					break
				}
			}
			if empty {
				continue
			}
			if err := p.combine(rule, pools, nil); err != nil {
				return err
			}
		}
	}
	return nil
}

// combine walks the cross product of pools depth first. chosen is never
// mutated in place; each level extends a fresh copy.
func (p *Parser) combine(rule *grammar.Rule, pools [][]grammar.Instance, chosen []grammar.Instance) error {
	depth := len(chosen)
	if depth == len(pools) {
		return p.apply(rule, chosen)
	}
	for _, cand := range pools[depth] {
		next := make([]grammar.Instance, depth+1)
		copy(next, chosen)
		next[depth] = cand
		if err := p.combine(rule, pools, next); err != nil {
			return err
		}
	}
	return nil
}

func (p *Parser) apply(rule *grammar.Rule, children []grammar.Instance) error {
	p.stats.Attempts++
	inst, err := rule.Instantiate(children...)
	if err != nil {
		p.stats.Failures++
		return nil
	}
	return p.record(inst, Derivation{Rule: rule, Children: children})
}

// record adds a derivation to the forest and, when inst is new, to the
// chart and agenda.
func (p *Parser) record(inst grammar.Instance, d Derivation) error {
	p.forest.Add(inst, d)
	p.stats.Derivations++

	if !p.chart.Add(inst) {
		return nil
	}
	if p.maxChart > 0 && p.chart.Len() > p.maxChart {
		return errors.WithHint(
			errors.Wrapf(ErrChartLimit, "%d entries after %d agenda pops", p.chart.Len(), p.stats.Pops),
			"raise the chart bound or shorten the input")
	}
	p.agenda.push(inst)

	if inst.Name == p.start && inst.Covers(len(p.tokens)) {
		log.Debugf("completed %s", inst)
		p.completed = append(p.completed, inst)
	}
	return nil
}

// ParseTrees parses tokens with g and builds every tree for every completed
// instance.
func ParseTrees(g *grammar.Grammar, tokens []string, opts ...Option) ([]*Tree, error) {
	p := NewParser(g, opts...)
	roots, err := p.Parse(tokens)
	if err != nil {
		return nil, err
	}
	var trees []*Tree
	for _, root := range roots {
		trees = append(trees, BuildTrees(root, p.Forest())...)
	}
	return trees, nil
}
