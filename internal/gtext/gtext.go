// Package gtext implements the grammar text format (spec.md section 6): the
// line-oriented adapter that turns plain text into a *grammar.Grammar. One
// production per line, comments and blank lines ignored, LHS and RHS
// separated by "->" or ":".
//
// Grounded on the line-scanning idiom of the teacher's
// internal/ictiobus/fishi.go (Preprocess: bufio.Scanner over the source,
// trimming and skipping lines before further processing); the production
// grammar itself has no teacher analogue since the teacher's grammars are
// always built programmatically (AddRule calls) or through the much richer
// fishi markdown DSL, so the line format is new code grounded only in shape
// on that scanning style.
package gtext

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/corvidlabs/lr1trace/internal/lr1/grammar"
	"github.com/corvidlabs/lr1trace/internal/lr1err"
)

// arrowSep and colonSep are the two accepted LHS/RHS separators, per
// spec.md 6. Whichever appears first in a line is the one used to split it.
const (
	arrowSep = "->"
	colonSep = ":"
)

// epsilonWords are the case-insensitive spellings of the empty sequence.
var epsilonWords = map[string]bool{
	"epsilon": true,
	"ε":       true,
}

// Parse reads one production per line from src and builds a *grammar.Grammar,
// per spec.md section 6's grammar text format. epsilon and endMarker name
// the grammar's reserved symbols; an empty string for either falls back to
// the package default ("ε" and "$").
func Parse(src string, epsilon, endMarker string) (*grammar.Grammar, error) {
	g := grammar.New(epsilon, endMarker)

	scanner := bufio.NewScanner(strings.NewReader(src))
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		lhs, rhs, err := splitProduction(line)
		if err != nil {
			return nil, lr1err.New(
				fmt.Sprintf("line %d: %s", lineNo, err.Error()),
				lr1err.ErrGrammarMalformed,
			)
		}

		g.AddProduction(lhs, rhs)
	}

	if g.Empty() {
		return nil, lr1err.New("no productions found in grammar text", lr1err.ErrGrammarEmpty)
	}

	return g, nil
}

// splitProduction splits one non-empty, non-comment line into (lhs, rhs),
// honoring whichever separator ("->" or ":") occurs first in the line.
func splitProduction(line string) (string, []string, error) {
	arrowIdx := strings.Index(line, arrowSep)
	colonIdx := strings.Index(line, colonSep)

	var sep string
	switch {
	case arrowIdx == -1 && colonIdx == -1:
		return "", nil, fmt.Errorf("no separator (expected %q or %q)", arrowSep, colonSep)
	case arrowIdx == -1:
		sep = colonSep
	case colonIdx == -1:
		sep = arrowSep
	case arrowIdx < colonIdx:
		sep = arrowSep
	default:
		sep = colonSep
	}

	parts := strings.SplitN(line, sep, 2)
	if len(parts) != 2 {
		return "", nil, fmt.Errorf("malformed production")
	}

	lhs := strings.TrimSpace(parts[0])
	if lhs == "" {
		return "", nil, fmt.Errorf("empty lhs")
	}
	if strings.Contains(lhs, arrowSep) || strings.Contains(lhs, colonSep) {
		return "", nil, fmt.Errorf("duplicated separator in lhs")
	}

	rhsText := strings.TrimSpace(parts[1])
	if rhsText == "" || epsilonWords[strings.ToLower(rhsText)] {
		return lhs, nil, nil
	}

	return lhs, strings.Fields(rhsText), nil
}
