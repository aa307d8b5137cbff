package grammar

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"
)

// LineError is a rule-text problem attributed to a line of a grammar file.
type LineError struct {
	File string
	Line int
	Err  error
}

func (e *LineError) Error() string {
	return fmt.Sprintf("%s:%d: %v", e.File, e.Line, e.Err)
}

func (e *LineError) Unwrap() error {
	return e.Err
}

// document is the shape of YAML and TOML grammar files.
type document struct {
	Start string   `yaml:"start" toml:"start"`
	Rules []string `yaml:"rules" toml:"rules"`
}

// Load reads a grammar file. The format follows the extension: .yaml and
// .yml are YAML, .toml is TOML, anything else is line-oriented rule text.
func Load(path string) (*Grammar, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open grammar")
	}
	defer f.Close()

	g, err := Read(path, f)
	if err != nil {
		return nil, errors.Wrapf(err, "load grammar %s", path)
	}
	return g, nil
}

// Read parses a grammar from r; name selects the format as in Load and is
// used in error messages.
func Read(name string, r io.Reader) (*Grammar, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		var doc document
		if err := yaml.NewDecoder(r).Decode(&doc); err != nil && err != io.EOF {
			return nil, errors.Wrap(err, "decode yaml")
		}
		return fromDocument(name, doc)
	case ".toml":
		var doc document
		if _, err := toml.NewDecoder(r).Decode(&doc); err != nil {
			return nil, errors.Wrap(err, "decode toml")
		}
		return fromDocument(name, doc)
	default:
		return ReadText(name, r)
	}
}

func fromDocument(name string, doc document) (*Grammar, error) {
	var rules []*Rule
	for i, text := range doc.Rules {
		if strings.TrimSpace(text) == "" {
			continue
		}
		rule, err := ParseRule(text)
		if err != nil {
			return nil, errors.Wrapf(err, "%s: rules[%d]", name, i)
		}
		rules = append(rules, rule)
	}
	return New(doc.Start, rules...)
}

// Directive names the start symbol inside rule text files.
const Directive = "%start"

// TextLine is one meaningful line of a rule text file.
type TextLine struct {
	Number int
	Indent int // bytes of leading whitespace removed from Text
	Text   string
}

// ScanText splits rule text into meaningful lines, dropping blank lines and
// comments that start with '#' or '//'. A "%start NAME" line sets start. A
// malformed directive does not stop the scan: every rule line is still
// returned, along with a LineError for the first bad directive.
func ScanText(src []byte) (lines []TextLine, start string, err error) {
	sc := bufio.NewScanner(bytes.NewReader(src))
	n := 0
	for sc.Scan() {
		n++
		raw := sc.Text()
		text := strings.TrimSpace(raw)
		if text == "" || strings.HasPrefix(text, "#") || strings.HasPrefix(text, "//") {
			continue
		}
		if strings.HasPrefix(text, Directive) {
			fields := strings.Fields(text)
			if len(fields) != 2 || fields[0] != Directive {
				if err == nil {
					err = &LineError{Line: n, Err: errors.Wrapf(ErrMalformedRule, "expected %q followed by a nonterminal", Directive)}
				}
				continue
			}
			start = fields[1]
			continue
		}
		indent := len(raw) - len(strings.TrimLeft(raw, " \t"))
		lines = append(lines, TextLine{Number: n, Indent: indent, Text: text})
	}
	if err == nil {
		err = sc.Err()
	}
	return lines, start, err
}

// ReadText parses line-oriented rule text. Errors carry the line number.
func ReadText(name string, r io.Reader) (*Grammar, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "read grammar")
	}
	lines, start, err := ScanText(src)
	if err != nil {
		var lineErr *LineError
		if errors.As(err, &lineErr) {
			lineErr.File = name
		}
		return nil, err
	}

	rules := make([]*Rule, 0, len(lines))
	for _, line := range lines {
		rule, err := ParseRule(line.Text)
		if err != nil {
			return nil, &LineError{File: name, Line: line.Number, Err: err}
		}
		rules = append(rules, rule)
	}
	log.Debugf("%s: %d rules", name, len(rules))
	return New(start, rules...)
}
