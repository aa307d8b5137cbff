// Package lex tokenizes MCFG rule text. The token classes are themselves
// described by an EBNF grammar and matched longest-first.
package lex

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/cockroachdb/errors"
	"golang.org/x/exp/ebnf"
)

// Token kinds produced by the rule lexer.
const (
	KindWord       = "Word"
	KindArrow      = "Arrow"
	KindLParen     = "LParen"
	KindRParen     = "RParen"
	KindComma      = "Comma"
	KindWhiteSpace = "WhiteSpace"
	KindError      = "ERROR"
	KindEOF        = "EOF"
)

// ruleTokens lists the lexical structure of a rule line. Uppercase
// productions are token kinds, lowercase ones are helpers. A word is any run
// of bytes other than whitespace, parentheses and commas, except that a word
// starting with "-" may not continue with ">" so the arrow always wins.
const ruleTokens = `
Lexeme     = Word | Arrow | LParen | RParen | Comma | WhiteSpace .
Word       = wordStart { wordChar } | "-" [ dashNext { wordChar } ] .
Arrow      = "->" .
LParen     = "(" .
RParen     = ")" .
Comma      = "," .
WhiteSpace = space { space } .

wordStart  = plain | ">" .
wordChar   = wordStart | "-" .
dashNext   = plain | "-" .
plain      = letter | digit | mark | nonASCII .
letter     = "a" … "z" | "A" … "Z" .
digit      = "0" … "9" .
mark       = "!" | "\"" | "#" | "$" | "%" | "&" | "'" | "*" | "+" | "." | "/" |
             ":" | ";" | "<" | "=" | "?" | "@" | "[" | "\\" | "]" | "^" |
             "_" | "\x60" | "{" | "|" | "}" | "~" .
nonASCII   = "\u0080" … "\U0010FFFF" .
space      = " " | "\t" .
`

const startProduction = "Lexeme"

var tokenGrammar ebnf.Grammar
var tokenKinds []string

func init() {
	g, err := ebnf.Parse("rule-tokens", strings.NewReader(ruleTokens))
	if err != nil {
		panic(fmt.Sprintf("rule token grammar: %v", err))
	}
	if err := ebnf.Verify(g, startProduction); err != nil {
		panic(fmt.Sprintf("rule token grammar: %v", err))
	}
	tokenGrammar = g

	for name, prod := range g {
		if prod.Expr == nil || name == startProduction {
			continue
		}
		if name[0] < 'A' || name[0] > 'Z' {
			continue
		}
		tokenKinds = append(tokenKinds, name)
	}
	// Map iteration is random; ties must break the same way every time.
	sort.Strings(tokenKinds)
}

// Token is a lexical token together with its byte offset in the line.
type Token struct {
	Kind    string
	Literal string
	Offset  int
}

func (t Token) String() string {
	return fmt.Sprintf("%d %s %q", t.Offset, t.Kind, t.Literal)
}

// memoKey is used for memoization of match results.
type memoKey struct {
	name   string
	offset int
}

// Lexer tokenizes a single rule line.
type Lexer struct {
	input    []byte
	pos      int
	memo     map[memoKey]int
	visiting map[memoKey]bool
}

// NewLexer creates a lexer over input.
func NewLexer(input string) *Lexer {
	return &Lexer{
		input:    []byte(input),
		memo:     make(map[memoKey]int),
		visiting: make(map[memoKey]bool),
	}
}

// NextToken returns the next token. It tries every token production and
// keeps the longest match; at end of input it returns an EOF token and io.EOF.
func (l *Lexer) NextToken() (Token, error) {
	if l.pos >= len(l.input) {
		return Token{Kind: KindEOF, Offset: l.pos}, io.EOF
	}

	start := l.pos
	l.memo = make(map[memoKey]int)

	var bestKind string
	var bestLen int
	for _, name := range tokenKinds {
		l.visiting = make(map[memoKey]bool)
		n, ok := l.tryMatch(tokenGrammar[name].Expr, start)
		if ok && n > bestLen {
			bestLen = n
			bestKind = name
		}
	}

	if bestLen == 0 {
		l.pos++
		return Token{Kind: KindError, Literal: string(l.input[start]), Offset: start}, nil
	}

	l.pos += bestLen
	return Token{Kind: bestKind, Literal: string(l.input[start:l.pos]), Offset: start}, nil
}

// tryMatch returns the length matched by expr at offset and whether it
// matched at all. Repetitions and options succeed with length zero.
func (l *Lexer) tryMatch(expr ebnf.Expression, offset int) (int, bool) {
	switch e := expr.(type) {
	case *ebnf.Token:
		n := l.tryMatchToken(e.String, offset)
		return n, n > 0

	case *ebnf.Range:
		n := l.tryMatchRange(e.Begin.String, e.End.String, offset)
		return n, n > 0

	case ebnf.Sequence:
		total := 0
		for _, item := range e {
			n, ok := l.tryMatch(item, offset+total)
			if !ok {
				return 0, false
			}
			total += n
		}
		return total, true

	case ebnf.Alternative:
		best, matched := 0, false
		for _, alt := range e {
			if n, ok := l.tryMatch(alt, offset); ok && (!matched || n > best) {
				best, matched = n, true
			}
		}
		return best, matched

	case *ebnf.Repetition:
		total := 0
		for {
			n, ok := l.tryMatch(e.Body, offset+total)
			if !ok || n == 0 {
				return total, true
			}
			total += n
		}

	case *ebnf.Option:
		if n, ok := l.tryMatch(e.Body, offset); ok {
			return n, true
		}
		return 0, true

	case *ebnf.Group:
		return l.tryMatch(e.Body, offset)

	case *ebnf.Name:
		return l.tryMatchName(e.String, offset)

	default:
		return 0, false
	}
}

// tryMatchName matches a named production with memoization and cycle detection.
func (l *Lexer) tryMatchName(name string, offset int) (int, bool) {
	key := memoKey{name: name, offset: offset}
	if result, ok := l.memo[key]; ok {
		return result, result >= 0
	}
	if l.visiting[key] {
		return 0, false
	}

	prod, ok := tokenGrammar[name]
	if !ok || prod.Expr == nil {
		l.memo[key] = -1
		return 0, false
	}

	l.visiting[key] = true
	n, matched := l.tryMatch(prod.Expr, offset)
	delete(l.visiting, key)

	if !matched {
		l.memo[key] = -1
		return 0, false
	}
	l.memo[key] = n
	return n, true
}

// tryMatchToken matches a quoted literal from the token grammar.
func (l *Lexer) tryMatchToken(token string, offset int) int {
	s := unquote(token)
	if offset+len(s) > len(l.input) {
		return 0
	}
	if string(l.input[offset:offset+len(s)]) == s {
		return len(s)
	}
	return 0
}

// tryMatchRange matches a single character in a range such as "a" … "z".
// Invalid UTF-8 decodes to utf8.RuneError and is consumed one byte at a time.
func (l *Lexer) tryMatchRange(begin, end string, offset int) int {
	if offset >= len(l.input) {
		return 0
	}
	lo, _ := utf8.DecodeRuneInString(unquote(begin))
	hi, _ := utf8.DecodeRuneInString(unquote(end))
	ch, size := utf8.DecodeRune(l.input[offset:])
	if ch >= lo && ch <= hi {
		return size
	}
	return 0
}

// unquote decodes a literal that still carries its Go quotes. Literals
// already decoded by the ebnf parser are returned as they are.
func unquote(lit string) string {
	if len(lit) >= 2 && lit[0] == '"' && lit[len(lit)-1] == '"' {
		if s, err := strconv.Unquote(lit); err == nil {
			return s
		}
	}
	return lit
}

// Tokenize returns all tokens except whitespace, terminated by an EOF token.
// The first unrecognized character is reported as an error.
func Tokenize(input string) ([]Token, error) {
	l := NewLexer(input)
	var tokens []Token
	for {
		tok, err := l.NextToken()
		if err == io.EOF {
			tokens = append(tokens, tok)
			return tokens, nil
		}
		if tok.Kind == KindError {
			return tokens, &Error{Offset: tok.Offset, Char: tok.Literal}
		}
		if tok.Kind == KindWhiteSpace {
			continue
		}
		tokens = append(tokens, tok)
	}
}

// ErrUnexpectedChar is the cause of every Error.
var ErrUnexpectedChar = errors.New("unexpected character")

// Error reports a character that starts no token.
type Error struct {
	Offset int
	Char   string
}

func (e *Error) Error() string {
	return fmt.Sprintf("offset %d: %v %q", e.Offset, ErrUnexpectedChar, e.Char)
}

func (e *Error) Unwrap() error {
	return ErrUnexpectedChar
}
