// Package lr1 is the top-level orchestrator tying the grammar, automaton,
// and table packages into the single build() pipeline spec.md section 3
// describes, in the manner of the teacher's internal/ictiobus/ictiobus.go
// facade over its grammar/automaton/parse sub-packages.
package lr1

import (
	"github.com/corvidlabs/lr1trace/internal/lr1/automaton"
	"github.com/corvidlabs/lr1trace/internal/lr1/driver"
	"github.com/corvidlabs/lr1trace/internal/lr1/grammar"
	"github.com/corvidlabs/lr1trace/internal/lr1/table"
	"github.com/corvidlabs/lr1trace/internal/lr1err"
)

// Analyzer holds every artifact produced by Build: the augmented grammar,
// its FIRST/FOLLOW analysis, the canonical collection, and the ACTION/GOTO
// table. Once Build returns, all of these are immutable (spec.md section
// 5); a Driver may be created from an Analyzer's Table/Grammar and run any
// number of times, including concurrently.
type Analyzer struct {
	Original  *grammar.Grammar
	Augmented *grammar.Grammar
	Analysis  *grammar.Analysis
	Automaton *automaton.Automaton
	Table     *table.Table
}

// Build runs the full pipeline of spec.md section 2 over g: augmentation,
// FIRST/FOLLOW, the canonical collection, and the ACTION/GOTO table. It
// returns a non-nil error only for ErrGrammarEmpty; a grammar with
// ACTION-table conflicts still builds successfully, with the conflicts
// recorded on Analyzer.Table.Conflicts per spec.md 4.5/7.
func Build(g *grammar.Grammar) (*Analyzer, error) {
	if g.Empty() {
		return nil, lr1err.New("cannot build a parser from a grammar with no productions", lr1err.ErrGrammarEmpty)
	}

	aug := g.Augmented()
	analysis := grammar.Analyze(aug)
	auto := automaton.NewBuilder(aug, analysis).Build()
	tbl := table.Build(aug, auto)

	return &Analyzer{
		Original:  g,
		Augmented: aug,
		Analysis:  analysis,
		Automaton: auto,
		Table:     tbl,
	}, nil
}

// NewDriver creates a Driver over the analyzer's built table and grammar.
func (a *Analyzer) NewDriver() *driver.Driver {
	return driver.New(a.Table, a.Augmented)
}

// NumStates returns the number of states in the canonical collection, used
// by the driver as part of its safety-bound computation.
func (a *Analyzer) NumStates() int {
	return len(a.Automaton.States)
}
