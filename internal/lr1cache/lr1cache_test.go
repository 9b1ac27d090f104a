package lr1cache

import (
	"path/filepath"
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

func TestKeyIsStableForIdenticalText(t *testing.T) {
	text := "S -> C C\nC -> c C\nC -> d\n"
	assert.Equal(t, Key(text), Key(text))
}

func TestKeyDiffersForDifferentText(t *testing.T) {
	assert.NotEqual(t, Key("S -> a"), Key("S -> b"))
}

func TestPutThenGetRoundTrips(t *testing.T) {
	c, err := New(filepath.Join(t.TempDir(), "cache"))
	require.NoError(t, err)

	a, err := lr1.Build(danglingCD())
	require.NoError(t, err)

	key := Key("S -> C C\nC -> c C\nC -> d\n")
	require.NoError(t, c.Put(key, a.Automaton, a.Table))

	auto, tbl, found, err := c.Get(key)
	require.NoError(t, err)
	require.True(t, found)

	assert.Equal(t, len(a.Automaton.States), len(auto.States))
	assert.Equal(t, a.Automaton.AugmentedStart, auto.AugmentedStart)

	for _, st := range a.Automaton.States {
		for _, term := range a.Table.ActionTerminals(st.Index) {
			want, _ := a.Table.Action(st.Index, term)
			got, ok := tbl.Action(st.Index, term)
			require.True(t, ok)
			assert.True(t, want.Equal(got))
		}
	}
}

func TestGetMissingKeyReturnsFalse(t *testing.T) {
	c, err := New(filepath.Join(t.TempDir(), "cache"))
	require.NoError(t, err)

	_, _, found, err := c.Get("does-not-exist")
	require.NoError(t, err)
	assert.False(t, found)
}
