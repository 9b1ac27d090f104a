package lr1

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corvidlabs/lr1trace/internal/lr1/grammar"
	"github.com/corvidlabs/lr1trace/internal/lr1/table"
	"github.com/corvidlabs/lr1trace/internal/lr1err"
)

func danglingCDGrammar() *grammar.Grammar {
	g := grammar.New("", "")
	g.AddProduction("S", []string{"C", "C"})
	g.AddProduction("C", []string{"c", "C"})
	g.AddProduction("C", []string{"d"})
	return g
}

func arithGrammar() *grammar.Grammar {
	g := grammar.New("", "")
	g.AddProduction("E", []string{"E", "+", "T"})
	g.AddProduction("E", []string{"T"})
	g.AddProduction("T", []string{"T", "*", "F"})
	g.AddProduction("T", []string{"F"})
	g.AddProduction("F", []string{"(", "E", ")"})
	g.AddProduction("F", []string{"id"})
	return g
}

func parensWithEpsilonGrammar() *grammar.Grammar {
	g := grammar.New("", "")
	g.AddProduction("S", []string{"(", "S", ")"})
	g.AddProduction("S", nil)
	return g
}

func TestScenario1DanglingCD(t *testing.T) {
	a, err := Build(danglingCDGrammar())
	require.NoError(t, err)
	require.Empty(t, a.Table.Conflicts)

	d := a.NewDriver()
	res := d.Run([]string{"c", "c", "d", "d", "$"}, a.NumStates())

	require.NoError(t, res.Err)
	assert.True(t, res.Accepted)

	last := res.Trace[len(res.Trace)-1]
	assert.Equal(t, "accept", last.ActionKind)

	var lastReduceLHS string
	var lastReduceRHS []string
	for _, step := range res.Trace {
		if step.ActionKind == "reduce" {
			lastReduceLHS = step.ProductionLHS
			lastReduceRHS = step.ProductionRHS
		}
	}
	assert.Equal(t, "S", lastReduceLHS)
	assert.Equal(t, []string{"C", "C"}, lastReduceRHS)
}

func TestScenario2ArithmeticReducesMulBeforeAdd(t *testing.T) {
	a, err := Build(arithGrammar())
	require.NoError(t, err)
	require.Empty(t, a.Table.Conflicts)

	d := a.NewDriver()
	res := d.Run([]string{"id", "+", "id", "*", "id", "$"}, a.NumStates())

	require.NoError(t, res.Err)
	assert.True(t, res.Accepted)

	var mulIdx, addIdx int = -1, -1
	for i, step := range res.Trace {
		if step.ActionKind != "reduce" {
			continue
		}
		if step.ProductionLHS == "T" && len(step.ProductionRHS) == 3 && addIdx == -1 {
			mulIdx = i
		}
		if step.ProductionLHS == "E" && len(step.ProductionRHS) == 3 {
			addIdx = i
		}
	}
	require.NotEqual(t, -1, mulIdx)
	require.NotEqual(t, -1, addIdx)
	assert.Less(t, mulIdx, addIdx)
}

func TestScenario3BalancedParensEmptyInput(t *testing.T) {
	a, err := Build(parensWithEpsilonGrammar())
	require.NoError(t, err)

	d := a.NewDriver()
	res := d.Run([]string{"$"}, a.NumStates())

	require.NoError(t, res.Err)
	assert.True(t, res.Accepted)

	reduceCount := 0
	for _, step := range res.Trace {
		if step.ActionKind == "reduce" {
			reduceCount++
			assert.Equal(t, "S", step.ProductionLHS)
			assert.Empty(t, step.ProductionRHS)
		}
	}
	assert.Equal(t, 1, reduceCount)
}

func TestScenario3BalancedParensNested(t *testing.T) {
	a, err := Build(parensWithEpsilonGrammar())
	require.NoError(t, err)

	d := a.NewDriver()
	res := d.Run([]string{"(", "(", ")", ")", "$"}, a.NumStates())

	require.NoError(t, res.Err)
	assert.True(t, res.Accepted)
}

func TestScenario4TypeDeclarationAccepted(t *testing.T) {
	g := grammar.New("", "")
	g.AddProduction("D", []string{"type", "L", ";"})
	g.AddProduction("L", []string{"L", ",", "id"})
	g.AddProduction("L", []string{"id"})

	a, err := Build(g)
	require.NoError(t, err)
	require.Len(t, a.Automaton.States, 8)

	d := a.NewDriver()
	res := d.Run([]string{"type", "id", ",", "id", ";", "$"}, a.NumStates())
	require.NoError(t, res.Err)
	assert.True(t, res.Accepted)
}

func TestScenario5ConflictDetection(t *testing.T) {
	g := grammar.New("", "")
	g.AddProduction("S", []string{"a", "A"})
	g.AddProduction("S", []string{"a", "B"})
	g.AddProduction("A", []string{"c"})
	g.AddProduction("B", []string{"c"})

	a, err := Build(g)
	require.NoError(t, err)
	assert.NotEmpty(t, a.Table.Conflicts)

	found := false
	for _, c := range a.Table.Conflicts {
		if c.Kind == table.ReduceReduceConflict {
			found = true
		}
	}
	assert.True(t, found)
}

func TestScenario6SyntaxError(t *testing.T) {
	a, err := Build(danglingCDGrammar())
	require.NoError(t, err)

	d := a.NewDriver()
	res := d.Run([]string{"c", "c", "$"}, a.NumStates())

	require.Error(t, res.Err)
	assert.False(t, res.Accepted)
	assert.True(t, errors.Is(res.Err, lr1err.ErrParseSyntax))

	last := res.Trace[len(res.Trace)-1]
	assert.Equal(t, "error", last.ActionKind)
	assert.Equal(t, "$", last.CurrentToken)
}

func TestAppendingEndMarkerAddsExactlyOneTraceStep(t *testing.T) {
	a, err := Build(danglingCDGrammar())
	require.NoError(t, err)

	d := a.NewDriver()
	withoutEOF := d.Run([]string{"c", "c", "d", "d"}, a.NumStates())
	withEOF := d.Run([]string{"c", "c", "d", "d", "$"}, a.NumStates())

	require.NoError(t, withoutEOF.Err)
	require.NoError(t, withEOF.Err)
	assert.True(t, withoutEOF.Accepted)
	assert.True(t, withEOF.Accepted)
	assert.Equal(t, len(withoutEOF.Trace)+1, len(withEOF.Trace))
}

func TestDriverDeterminism(t *testing.T) {
	a, err := Build(arithGrammar())
	require.NoError(t, err)

	d := a.NewDriver()
	input := []string{"id", "+", "id", "*", "id", "$"}
	first := d.Run(input, a.NumStates())
	second := d.Run(input, a.NumStates())

	require.NoError(t, first.Err)
	require.NoError(t, second.Err)
	assert.Equal(t, len(first.Trace), len(second.Trace))
	for i := range first.Trace {
		assert.Equal(t, first.Trace[i].ActionKind, second.Trace[i].ActionKind)
		assert.Equal(t, first.Trace[i].CurrentToken, second.Trace[i].CurrentToken)
	}
}

func TestGrammarEmptyRejected(t *testing.T) {
	g := grammar.New("", "")
	_, err := Build(g)
	require.Error(t, err)
	assert.True(t, errors.Is(err, lr1err.ErrGrammarEmpty))
}
