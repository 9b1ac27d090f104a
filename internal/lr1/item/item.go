// Package item implements the LR(1) item model (spec module 4.3):
// [A -> alpha . beta, a] with equality, dot-advance, and "symbol after the
// dot" queries. Grounded on the teacher's
// internal/ictiobus/grammar/item.go (LR0Item/LR1Item), generalized so an
// item owns its own dot-advance and canonical string rendering rather than
// splitting that behavior across the grammar and automaton packages.
package item

import "strings"

// Item is a value type: two items are equal iff all four fields are equal.
// NonTerminal is the production's lhs (A); Left and Right are the rhs split
// at the dot (alpha, beta); Lookahead is a single terminal, never epsilon.
type Item struct {
	NonTerminal string
	Left        []string
	Right       []string
	Lookahead   string
}

// New creates the initial item for a production (dot at position 0).
func New(nonTerminal string, rhs []string, lookahead string) Item {
	right := make([]string, len(rhs))
	copy(right, rhs)
	return Item{NonTerminal: nonTerminal, Right: right, Lookahead: lookahead}
}

// NextSymbol returns rhs[dot] (i.e. Right[0]) and true, or ("", false) if
// the dot is already at the end of the production.
func (it Item) NextSymbol() (string, bool) {
	if len(it.Right) == 0 {
		return "", false
	}
	return it.Right[0], true
}

// AtEnd reports whether the dot has reached the end of the rhs.
func (it Item) AtEnd() bool {
	return len(it.Right) == 0
}

// Advance returns a new item with the dot moved one position to the right.
// It panics if the item is already at the end; callers must check AtEnd or
// NextSymbol first, per spec.md 4.3's "undefined when already at the end".
func (it Item) Advance() Item {
	if it.AtEnd() {
		panic("item: Advance called on an item with the dot at the end")
	}

	left := make([]string, len(it.Left)+1)
	copy(left, it.Left)
	left[len(it.Left)] = it.Right[0]

	right := make([]string, len(it.Right)-1)
	copy(right, it.Right[1:])

	return Item{NonTerminal: it.NonTerminal, Left: left, Right: right, Lookahead: it.Lookahead}
}

// RHS returns the item's full right-hand side (Left followed by Right), for
// callers that want the underlying production rather than the dot split.
func (it Item) RHS() []string {
	rhs := make([]string, 0, len(it.Left)+len(it.Right))
	rhs = append(rhs, it.Left...)
	rhs = append(rhs, it.Right...)
	return rhs
}

// Dot returns the dot's position within the rhs.
func (it Item) Dot() int {
	return len(it.Left)
}

// Equal reports whether it and o have identical NonTerminal, Left, Right,
// and Lookahead.
func (it Item) Equal(o Item) bool {
	if it.NonTerminal != o.NonTerminal || it.Lookahead != o.Lookahead {
		return false
	}
	if len(it.Left) != len(o.Left) || len(it.Right) != len(o.Right) {
		return false
	}
	for i := range it.Left {
		if it.Left[i] != o.Left[i] {
			return false
		}
	}
	for i := range it.Right {
		if it.Right[i] != o.Right[i] {
			return false
		}
	}
	return true
}

// String renders the canonical textual form "A -> alpha . beta, a", per
// spec.md section 6's item rendering rule. The lookahead is always present;
// callers that need the end-of-production rendering without a lookahead
// should use StringNoLookahead.
func (it Item) String() string {
	return it.StringNoLookahead() + ", " + it.Lookahead
}

// StringNoLookahead renders "A -> alpha . beta" without the trailing
// lookahead. It is not the set key: Key uses String, which includes the
// lookahead.
func (it Item) StringNoLookahead() string {
	var sb strings.Builder
	sb.WriteString(it.NonTerminal)
	sb.WriteString(" -> ")
	for i, s := range it.Left {
		if i > 0 {
			sb.WriteRune(' ')
		}
		sb.WriteString(s)
	}
	if len(it.Left) > 0 {
		sb.WriteRune(' ')
	}
	sb.WriteString(".")
	for _, s := range it.Right {
		sb.WriteRune(' ')
		sb.WriteString(s)
	}
	return sb.String()
}

// Key returns the string used to hash/dedupe an item inside a set; it
// encodes all four fields, matching Equal's semantics exactly.
func (it Item) Key() string {
	return it.String()
}
