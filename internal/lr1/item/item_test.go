package item

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNextSymbolAndAtEnd(t *testing.T) {
	it := New("S", []string{"a", "B", "c"}, "$")
	sym, ok := it.NextSymbol()
	assert.True(t, ok)
	assert.Equal(t, "a", sym)
	assert.False(t, it.AtEnd())
}

func TestAdvanceThroughToEnd(t *testing.T) {
	it := New("S", []string{"a", "B"}, "$")

	it1 := it.Advance()
	sym, ok := it1.NextSymbol()
	assert.True(t, ok)
	assert.Equal(t, "B", sym)
	assert.Equal(t, []string{"a"}, it1.Left)

	it2 := it1.Advance()
	assert.True(t, it2.AtEnd())
	_, ok = it2.NextSymbol()
	assert.False(t, ok)
}

func TestAdvancePastEndPanics(t *testing.T) {
	it := New("S", nil, "$")
	assert.True(t, it.AtEnd())
	assert.Panics(t, func() { it.Advance() })
}

func TestEqualityUsesAllFourFields(t *testing.T) {
	a := New("S", []string{"a"}, "$")
	b := New("S", []string{"a"}, "$")
	assert.True(t, a.Equal(b))

	c := New("S", []string{"a"}, "x")
	assert.False(t, a.Equal(c))

	d := a.Advance()
	assert.False(t, a.Equal(d))
}

func TestStringRendering(t *testing.T) {
	it := New("A", []string{"x", "y"}, "$").Advance()
	assert.Equal(t, "A -> x . y, $", it.String())

	end := it.Advance()
	assert.Equal(t, "A -> x y ., $", end.String())
}

func TestKeyMatchesEquality(t *testing.T) {
	a := New("S", []string{"a"}, "$")
	b := New("S", []string{"a"}, "$")
	c := New("S", []string{"a"}, "b")

	assert.Equal(t, a.Key(), b.Key())
	assert.NotEqual(t, a.Key(), c.Key())
}
