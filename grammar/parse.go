package grammar

import (
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/dhamidi/mcfg/grammar/lex"
)

// ErrMalformedRule is the cause of every rule text that cannot be decomposed
// into nonterminals and span variables.
var ErrMalformedRule = errors.New("malformed rule")

// SyntaxError locates a problem inside one line of rule text.
type SyntaxError struct {
	Text   string
	Offset int
	Msg    string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%q at offset %d: %s", e.Text, e.Offset, e.Msg)
}

func (e *SyntaxError) Unwrap() error {
	return ErrMalformedRule
}

// ParseRule parses a single production such as
//
//	S(uv) -> NP(u) VP(v)
//	VPwh(u, v) -> NPwh(u) Vroot(v)
//	N(human)
//
// Left-hand patterns are split into variables, each a letter followed by
// optional digits, so "w1u" concatenates w1 and u. A line without an arrow is
// a lexical rule whose single argument is the terminal.
func ParseRule(text string) (*Rule, error) {
	tokens, err := lex.Tokenize(text)
	if err != nil {
		var lexErr *lex.Error
		offset := 0
		if errors.As(err, &lexErr) {
			offset = lexErr.Offset
		}
		return nil, &SyntaxError{Text: text, Offset: offset, Msg: err.Error()}
	}

	p := &ruleParser{text: text, tokens: tokens}
	return p.parse()
}

// MustParseRule is like ParseRule but panics on error. It simplifies
// building fixed grammars in code and tests.
func MustParseRule(text string) *Rule {
	r, err := ParseRule(text)
	if err != nil {
		panic(err)
	}
	return r
}

type rawElement struct {
	name   string
	args   []string
	offset int
}

type ruleParser struct {
	text   string
	tokens []lex.Token
	pos    int
}

func (p *ruleParser) peek() lex.Token {
	return p.tokens[p.pos]
}

func (p *ruleParser) next() lex.Token {
	tok := p.tokens[p.pos]
	if tok.Kind != lex.KindEOF {
		p.pos++
	}
	return tok
}

func (p *ruleParser) errorf(offset int, format string, args ...any) error {
	return &SyntaxError{Text: p.text, Offset: offset, Msg: fmt.Sprintf(format, args...)}
}

func (p *ruleParser) expect(kind, what string) (lex.Token, error) {
	tok := p.next()
	if tok.Kind != kind {
		if tok.Kind == lex.KindEOF {
			return tok, p.errorf(tok.Offset, "expected %s, got end of rule", what)
		}
		return tok, p.errorf(tok.Offset, "expected %s, got %q", what, tok.Literal)
	}
	return tok, nil
}

// element parses Name "(" Word { "," Word } ")".
func (p *ruleParser) element() (rawElement, error) {
	name, err := p.expect(lex.KindWord, "nonterminal name")
	if err != nil {
		return rawElement{}, err
	}
	if _, err := p.expect(lex.KindLParen, "'('"); err != nil {
		return rawElement{}, err
	}
	el := rawElement{name: name.Literal, offset: name.Offset}
	for {
		arg, err := p.argument()
		if err != nil {
			return rawElement{}, err
		}
		el.args = append(el.args, arg.Literal)

		tok := p.next()
		switch tok.Kind {
		case lex.KindComma:
			continue
		case lex.KindRParen:
			return el, nil
		case lex.KindEOF:
			return rawElement{}, p.errorf(tok.Offset, "expected ',' or ')', got end of rule")
		default:
			return rawElement{}, p.errorf(tok.Offset, "expected ',' or ')', got %q", tok.Literal)
		}
	}
}

// argument reads a word, or a lone "(", ")" or "," directly before the
// closing parenthesis, so punctuation can be a terminal as in Punct(,).
func (p *ruleParser) argument() (lex.Token, error) {
	tok := p.peek()
	switch tok.Kind {
	case lex.KindComma, lex.KindLParen, lex.KindRParen:
		if p.tokens[p.pos+1].Kind == lex.KindRParen {
			return p.next(), nil
		}
	}
	return p.expect(lex.KindWord, "argument")
}

func (p *ruleParser) parse() (*Rule, error) {
	if p.peek().Kind == lex.KindEOF {
		return nil, p.errorf(0, "empty rule")
	}
	left, err := p.element()
	if err != nil {
		return nil, err
	}

	if p.peek().Kind == lex.KindEOF {
		if len(left.args) != 1 {
			return nil, p.errorf(left.offset, "lexical rule %s takes exactly one terminal, got %d", left.name, len(left.args))
		}
		r, err := NewLexicalRule(left.name, left.args[0])
		if err != nil {
			return nil, &SyntaxError{Text: p.text, Offset: left.offset, Msg: err.Error()}
		}
		return r, nil
	}

	if _, err := p.expect(lex.KindArrow, "'->' or end of rule"); err != nil {
		return nil, err
	}

	var right []rawElement
	for p.peek().Kind != lex.KindEOF {
		el, err := p.element()
		if err != nil {
			return nil, err
		}
		right = append(right, el)
	}
	if len(right) == 0 {
		return nil, p.errorf(len(p.text), "expected right-hand side after '->'")
	}

	leftEl, err := p.toElement(left)
	if err != nil {
		return nil, err
	}
	rightEls := make([]Element, len(right))
	for i, raw := range right {
		el, err := p.toElement(raw)
		if err != nil {
			return nil, err
		}
		for si, slot := range el.Slots {
			if len(slot) != 1 {
				return nil, p.errorf(raw.offset, "%s: argument %d must be a single variable, got %q", raw.name, si+1, raw.args[si])
			}
		}
		rightEls[i] = el
	}

	r, err := NewRule(leftEl, rightEls...)
	if err != nil {
		return nil, &SyntaxError{Text: p.text, Offset: left.offset, Msg: err.Error()}
	}
	return r, nil
}

func (p *ruleParser) toElement(raw rawElement) (Element, error) {
	slots := make([][]string, len(raw.args))
	for i, arg := range raw.args {
		vars, ok := splitVariables(arg)
		if !ok {
			return Element{}, p.errorf(raw.offset, "%s: %q is not a sequence of variables", raw.name, arg)
		}
		slots[i] = vars
	}
	return NewElement(raw.name, slots...)
}

// splitVariables breaks a concatenation pattern into variables. A variable
// is one ASCII letter followed by any number of digits.
func splitVariables(pattern string) ([]string, bool) {
	var vars []string
	for i := 0; i < len(pattern); {
		if !isLetter(pattern[i]) {
			return nil, false
		}
		j := i + 1
		for j < len(pattern) && pattern[j] >= '0' && pattern[j] <= '9' {
			j++
		}
		vars = append(vars, pattern[i:j])
		i = j
	}
	return vars, len(vars) > 0
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

// ParseRules parses one rule per entry. Blank entries are skipped.
func ParseRules(texts ...string) ([]*Rule, error) {
	rules := make([]*Rule, 0, len(texts))
	for i, text := range texts {
		if strings.TrimSpace(text) == "" {
			continue
		}
		r, err := ParseRule(text)
		if err != nil {
			return nil, errors.Wrapf(err, "rule %d", i+1)
		}
		rules = append(rules, r)
	}
	return rules, nil
}
