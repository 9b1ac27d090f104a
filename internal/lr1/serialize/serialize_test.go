package serialize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corvidlabs/lr1trace/internal/lr1"
	"github.com/corvidlabs/lr1trace/internal/lr1/grammar"
)

func danglingCD() *grammar.Grammar {
	g := grammar.New("", "")
	g.AddProduction("S", []string{"C", "C"})
	g.AddProduction("C", []string{"c", "C"})
	g.AddProduction("C", []string{"d"})
	return g
}

func TestFromAnalyzerFieldShape(t *testing.T) {
	a, err := lr1.Build(danglingCD())
	require.NoError(t, err)

	doc := FromAnalyzer(a)

	require.Len(t, doc.Grammar.Productions, 3)
	assert.Equal(t, "S", doc.Grammar.Productions[0].LHS)
	assert.Equal(t, []string{"C", "C"}, doc.Grammar.Productions[0].RHS)

	assert.Equal(t, "$", doc.Symbols.EndMarker)
	assert.Equal(t, "S", doc.Symbols.StartSymbol)
	assert.Equal(t, "S'", doc.Symbols.AugmentedStart)
	assert.NotContains(t, doc.Symbols.NonTerminals, "S'")
	assert.NotContains(t, doc.Symbols.Terminals, "$")
	assert.NotContains(t, doc.Symbols.Terminals, "ε")

	assert.Contains(t, doc.FirstFollow.First, "S")
	assert.Contains(t, doc.FirstFollow.Follow, "S")
	assert.Equal(t, []string{"$"}, doc.FirstFollow.Follow["S"])

	assert.Equal(t, len(a.Automaton.States), doc.Automaton.NumStates)
	assert.Len(t, doc.ClosureTable, len(a.Automaton.States))

	acceptCount := 0
	for _, st := range doc.Automaton.States {
		if st.IsAccept {
			acceptCount++
		}
	}
	assert.Equal(t, 1, acceptCount)
}

func TestFromAnalyzerReduceCellCarriesProduction(t *testing.T) {
	a, err := lr1.Build(danglingCD())
	require.NoError(t, err)
	doc := FromAnalyzer(a)

	found := false
	for _, row := range doc.ParsingTable.Action {
		for _, cell := range row {
			if cell.Type == "reduce" {
				found = true
				require.NotNil(t, cell.Production)
				assert.GreaterOrEqual(t, cell.Production.ID, 0)
			}
		}
	}
	assert.True(t, found)
}

func TestWithTraceTranslatesSteps(t *testing.T) {
	a, err := lr1.Build(danglingCD())
	require.NoError(t, err)

	res := a.NewDriver().Run([]string{"c", "d", "d", "$"}, a.NumStates())
	require.NoError(t, res.Err)

	doc := FromAnalyzer(a).WithTrace(res)
	require.NotNil(t, doc.Trace)
	assert.True(t, doc.Trace.Accepted)
	assert.Len(t, doc.Trace.Steps, len(res.Trace))

	last := doc.Trace.Steps[len(doc.Trace.Steps)-1]
	assert.Equal(t, "accept", last.Action)
}

func TestJSONRoundTripsWithoutError(t *testing.T) {
	a, err := lr1.Build(danglingCD())
	require.NoError(t, err)

	doc := FromAnalyzer(a)
	b, err := doc.JSON()
	require.NoError(t, err)
	assert.Contains(t, string(b), `"productions"`)
	assert.Contains(t, string(b), `"parsing_table"`)
}
