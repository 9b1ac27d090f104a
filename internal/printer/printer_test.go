package printer

import (
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corvidlabs/lr1trace/internal/lr1"
	"github.com/corvidlabs/lr1trace/internal/lr1/grammar"
)

func arith() *grammar.Grammar {
	g := grammar.New("", "")
	g.AddProduction("E", []string{"E", "+", "T"})
	g.AddProduction("E", []string{"T"})
	g.AddProduction("T", []string{"T", "*", "F"})
	g.AddProduction("T", []string{"F"})
	g.AddProduction("F", []string{"(", "E", ")"})
	g.AddProduction("F", []string{"id"})
	return g
}

func TestGrammarListsEveryProduction(t *testing.T) {
	a, err := lr1.Build(arith())
	require.NoError(t, err)

	out := Grammar(a)
	for _, p := range a.Original.Productions() {
		assert.Contains(t, out, p.LHS+" -> "+p.RHSString(a.Original.Epsilon))
	}
}

func TestFirstFollowMentionsEveryNonTerminal(t *testing.T) {
	a, err := lr1.Build(arith())
	require.NoError(t, err)

	out := FirstFollow(a)
	for _, nt := range a.Original.NonTerminals() {
		assert.True(t, strings.Contains(out, nt))
	}
}

func TestAutomatonRendersEveryState(t *testing.T) {
	a, err := lr1.Build(arith())
	require.NoError(t, err)

	out := Automaton(a)
	assert.Equal(t, len(a.Automaton.States), strings.Count(out, ":\n"))
}

func TestTableRendersWithoutPanicking(t *testing.T) {
	a, err := lr1.Build(arith())
	require.NoError(t, err)
	assert.NotPanics(t, func() { Table(a) })
}

func TestConflictsReportsNoneForConflictFreeGrammar(t *testing.T) {
	a, err := lr1.Build(arith())
	require.NoError(t, err)
	assert.Equal(t, "no conflicts\n", Conflicts(a))
}

func TestClosureTableRendersEveryState(t *testing.T) {
	a, err := lr1.Build(arith())
	require.NoError(t, err)

	out := ClosureTable(a)
	for i := range a.Automaton.States {
		assert.Contains(t, out, "I"+strconv.Itoa(i))
	}
}
