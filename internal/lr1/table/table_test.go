package table

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corvidlabs/lr1trace/internal/lr1/automaton"
	"github.com/corvidlabs/lr1trace/internal/lr1/grammar"
)

func build(g *grammar.Grammar) (*grammar.Grammar, *automaton.Automaton, *Table) {
	aug := g.Augmented()
	a := grammar.Analyze(aug)
	auto := automaton.NewBuilder(aug, a).Build()
	return aug, auto, Build(aug, auto)
}

func TestAcceptOnlyAtEndMarker(t *testing.T) {
	g := grammar.New("", "")
	g.AddProduction("S", []string{"C", "C"})
	g.AddProduction("C", []string{"c", "C"})
	g.AddProduction("C", []string{"d"})
	aug, auto, tbl := build(g)

	acceptCount := 0
	for _, st := range auto.States {
		for _, term := range tbl.ActionTerminals(st.Index) {
			act, _ := tbl.Action(st.Index, term)
			if act.Type == Accept {
				acceptCount++
				assert.Equal(t, aug.EndMarker, term)
			}
		}
	}
	assert.Equal(t, 1, acceptCount)
}

func TestConflictFreeGrammarHasNoConflicts(t *testing.T) {
	// E -> E + T | T ; T -> T * F | F ; F -> ( E ) | id
	g := grammar.New("", "")
	g.AddProduction("E", []string{"E", "+", "T"})
	g.AddProduction("E", []string{"T"})
	g.AddProduction("T", []string{"T", "*", "F"})
	g.AddProduction("T", []string{"F"})
	g.AddProduction("F", []string{"(", "E", ")"})
	g.AddProduction("F", []string{"id"})

	_, _, tbl := build(g)
	assert.Empty(t, tbl.Conflicts)
}

func TestReduceReduceConflictDetected(t *testing.T) {
	// S -> a A; S -> a B; A -> c; B -> c
	g := grammar.New("", "")
	g.AddProduction("S", []string{"a", "A"})
	g.AddProduction("S", []string{"a", "B"})
	g.AddProduction("A", []string{"c"})
	g.AddProduction("B", []string{"c"})

	_, _, tbl := build(g)
	require.NotEmpty(t, tbl.Conflicts)

	foundReduceReduce := false
	for _, c := range tbl.Conflicts {
		if c.Kind == ReduceReduceConflict {
			foundReduceReduce = true
			assert.Equal(t, "$", c.Terminal)
		}
	}
	assert.True(t, foundReduceReduce)
}

func TestLowestIndexProductionUsedOnDuplicateReduce(t *testing.T) {
	g := grammar.New("", "")
	g.AddProduction("S", []string{"a"})
	g.AddProduction("S", []string{"a"}) // duplicate rule
	_, auto, tbl := build(g)

	// every reduce entry pointing at "S -> a" must use production id 1
	// (index 0 is the augmented start production).
	for _, st := range auto.States {
		for _, term := range tbl.ActionTerminals(st.Index) {
			act, _ := tbl.Action(st.Index, term)
			if act.Type == Reduce {
				assert.Equal(t, 1, act.Production)
			}
		}
	}
}
