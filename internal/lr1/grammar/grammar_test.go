package grammar

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func arithGrammar() *Grammar {
	g := New("", "")
	g.AddProduction("E", []string{"E", "+", "T"})
	g.AddProduction("E", []string{"T"})
	g.AddProduction("T", []string{"T", "*", "F"})
	g.AddProduction("T", []string{"F"})
	g.AddProduction("F", []string{"(", "E", ")"})
	g.AddProduction("F", []string{"id"})
	return g
}

func TestClassify(t *testing.T) {
	g := arithGrammar()
	g.Classify()

	assert.ElementsMatch(t, []string{"+", "*", "(", ")", "id", "$"}, g.Terminals())
	assert.ElementsMatch(t, []string{"E", "T", "F"}, g.NonTerminals())
	assert.False(t, g.IsTerminal("E"))
	assert.True(t, g.IsTerminal("id"))
	assert.True(t, g.IsTerminal("$"))
	assert.False(t, g.IsNonTerminal("$"))
}

func TestClassifyIdempotent(t *testing.T) {
	g := arithGrammar()
	g.Classify()
	firstPass := g.Terminals()
	g.Classify()
	assert.Equal(t, firstPass, g.Terminals())
}

func TestEpsilonNormalized(t *testing.T) {
	g := New("", "")
	g.AddProduction("S", []string{"ε"})
	p, ok := g.Production(0)
	require.True(t, ok)
	assert.True(t, p.IsEpsilon())
	assert.Equal(t, "ε", p.RHSString("ε"))

	g2 := New("", "")
	g2.AddProduction("S", nil)
	p2, _ := g2.Production(0)
	assert.True(t, p2.IsEpsilon())
}

func TestAugmented(t *testing.T) {
	g := arithGrammar()
	aug := g.Augmented()

	p0, ok := aug.Production(0)
	require.True(t, ok)
	assert.Equal(t, "E'", p0.LHS)
	assert.Equal(t, []string{"E"}, p0.RHS)

	// original productions follow, indices shifted by one, in order.
	p1, _ := aug.Production(1)
	assert.Equal(t, "E", p1.LHS)
	assert.Equal(t, []string{"E", "+", "T"}, p1.RHS)

	assert.Equal(t, len(g.Productions())+1, len(aug.Productions()))
}

func TestGenerateUniqueNameAvoidsCollision(t *testing.T) {
	g := New("", "")
	g.AddProduction("S", []string{"a"})
	g.AddProduction("S'", []string{"b"})
	name := g.GenerateUniqueName("S")
	assert.Equal(t, "S''", name)
}

func TestFirstTerminalsAreThemselves(t *testing.T) {
	g := arithGrammar()
	a := Analyze(g)
	for _, term := range g.Terminals() {
		first := a.First(term)
		assert.True(t, first.Has(term))
		assert.Equal(t, 1, first.Len())
	}
}

func TestFirstArith(t *testing.T) {
	g := arithGrammar()
	a := Analyze(g)

	for _, nt := range []string{"E", "T", "F"} {
		first := a.First(nt)
		assert.ElementsMatch(t, []string{"(", "id"}, first.Sorted())
	}
}

func TestFollowArith(t *testing.T) {
	g := arithGrammar()
	a := Analyze(g)

	assert.ElementsMatch(t, []string{"$", "+", ")"}, a.Follow("E").Sorted())
	assert.ElementsMatch(t, []string{"$", "+", "*", ")"}, a.Follow("T").Sorted())
	assert.ElementsMatch(t, []string{"$", "+", "*", ")"}, a.Follow("F").Sorted())
}

func TestFirstFollowEpsilonGrammar(t *testing.T) {
	// S -> ( S ) | epsilon
	g := New("", "")
	g.AddProduction("S", []string{"(", "S", ")"})
	g.AddProduction("S", nil)
	a := Analyze(g)

	first := a.First("S")
	assert.True(t, first.Has("("))
	assert.True(t, first.Has(g.Epsilon))

	follow := a.Follow("S")
	assert.ElementsMatch(t, []string{"$", ")"}, follow.Sorted())
}

func TestFirstOfSequence(t *testing.T) {
	g := New("", "")
	g.AddProduction("A", nil)
	a := Analyze(g)

	seq := a.FirstOfSequence([]string{"A", "A", "x"})
	assert.True(t, seq.Has("x"))
	assert.False(t, seq.Has(g.Epsilon))

	empty := a.FirstOfSequence(nil)
	assert.True(t, empty.Has(g.Epsilon))
}
