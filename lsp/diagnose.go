package lsp

import (
	"fmt"

	"github.com/cockroachdb/errors"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/dhamidi/mcfg/grammar"
)

const diagnosticSource = "mcfg"

// Diagnose checks grammar text and returns one diagnostic per malformed line
// and per nonterminal used with an arity that contradicts its first use. A
// bad %start directive is reported without hiding later problems.
func Diagnose(text string) []protocol.Diagnostic {
	diagnostics := []protocol.Diagnostic{}

	lines, _, err := grammar.ScanText([]byte(text))
	if err != nil {
		line := 0
		var lineErr *grammar.LineError
		if errors.As(err, &lineErr) {
			line = lineErr.Line - 1
		}
		diagnostics = append(diagnostics, newDiagnostic(line, 0, lineLength(text, line), err.Error()))
	}

	type firstUse struct {
		arity int
		line  int
	}
	seen := make(map[string]firstUse)

	for _, line := range lines {
		row := line.Number - 1
		rule, err := grammar.ParseRule(line.Text)
		if err != nil {
			col := line.Indent
			var syn *grammar.SyntaxError
			msg := err.Error()
			if errors.As(err, &syn) {
				col += syn.Offset
				msg = syn.Msg
			}
			diagnostics = append(diagnostics, newDiagnostic(row, col, line.Indent+len(line.Text), msg))
			continue
		}

		elements := append([]grammar.Element{rule.Left}, rule.Right...)
		for _, el := range elements {
			prev, ok := seen[el.Name]
			if !ok {
				seen[el.Name] = firstUse{arity: el.Arity(), line: line.Number}
				continue
			}
			if prev.arity != el.Arity() {
				msg := fmt.Sprintf("%s has %d slots here but %d on line %d", el.Name, el.Arity(), prev.arity, prev.line)
				diagnostics = append(diagnostics, newDiagnostic(row, line.Indent, line.Indent+len(line.Text), msg))
			}
		}
	}
	return diagnostics
}

func newDiagnostic(line, startCol, endCol int, msg string) protocol.Diagnostic {
	if endCol < startCol {
		endCol = startCol
	}
	severity := protocol.DiagnosticSeverityError
	source := diagnosticSource
	return protocol.Diagnostic{
		Range: protocol.Range{
			Start: protocol.Position{Line: protocol.UInteger(line), Character: protocol.UInteger(startCol)},
			End:   protocol.Position{Line: protocol.UInteger(line), Character: protocol.UInteger(endCol)},
		},
		Severity: &severity,
		Source:   &source,
		Message:  msg,
	}
}

func lineLength(text string, line int) int {
	row := 0
	length := 0
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			if row == line {
				return length
			}
			row++
			length = 0
			continue
		}
		length++
	}
	return length
}
