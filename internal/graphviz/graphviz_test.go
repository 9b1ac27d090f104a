package graphviz

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corvidlabs/lr1trace/internal/lr1"
	"github.com/corvidlabs/lr1trace/internal/lr1/grammar"
	"github.com/corvidlabs/lr1trace/internal/lr1err"
)

func danglingCD() *grammar.Grammar {
	g := grammar.New("", "")
	g.AddProduction("S", []string{"C", "C"})
	g.AddProduction("C", []string{"c", "C"})
	g.AddProduction("C", []string{"d"})
	return g
}

func TestDOTContainsOneNodePerStateAndEveryTransition(t *testing.T) {
	a, err := lr1.Build(danglingCD())
	require.NoError(t, err)

	out := DOT(a)
	assert.True(t, len(out) > 0)
	assert.Contains(t, out, "digraph lr1 {")
	for _, st := range a.Automaton.States {
		assert.Contains(t, out, "I"+string(rune('0'+st.Index)))
	}
	for _, tr := range a.Automaton.AllTransitions() {
		assert.Contains(t, out, fmt.Sprintf("I%d -> I%d [label=\"%s\"]", tr.From, tr.To, escapeLabel(tr.Symbol)))
	}
	assert.Contains(t, out, "doublecircle")
}

func TestFullDOTIncludesClosureItemsDOTOmits(t *testing.T) {
	a, err := lr1.Build(danglingCD())
	require.NoError(t, err)

	kernelOnly := DOT(a)
	full := FullDOT(a)

	assert.Contains(t, full, "digraph lr1 {")

	foundClosureOnlyItem := false
	for _, st := range a.Automaton.States {
		for _, it := range a.Automaton.ClosureItems(st.Index) {
			label := escapeLabel(it.String())
			if !strings.Contains(kernelOnly, label) && strings.Contains(full, label) {
				foundClosureOnlyItem = true
			}
		}
	}
	assert.True(t, foundClosureOnlyItem, "FullDOT should render at least one item that DOT (kernel-only) omits")
}

func TestRenderPNGWithMissingBinaryIsVisualizationUnavailable(t *testing.T) {
	err := RenderPNG("definitely-not-a-real-binary-xyz", "digraph{}", "/tmp/out.png")
	require.Error(t, err)
	assert.True(t, errors.Is(err, lr1err.ErrVisualization))
}
