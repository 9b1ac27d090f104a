// Package grammar holds the grammar store (spec module 4.1) and the
// FIRST/FOLLOW analyzer built on top of it (spec module 4.2).
//
// Grounded on the teacher's internal/ictiobus/grammar/item.go (Production
// shape) and internal/tunascript/grammar.go (AddRule/GenerateUniqueName,
// FIRST/FOLLOW), adapted to a fixed-point worklist implementation and to the
// role-is-derived-not-declared symbol model spec.md section 3 requires.
package grammar

import (
	"strings"

	"github.com/corvidlabs/lr1trace/internal/util"
)

// DefaultEpsilon and DefaultEndMarker are the conventional spellings for the
// two reserved markers. Both are configurable per Grammar.
const (
	DefaultEpsilon   = "ε"
	DefaultEndMarker = "$"
)

// Production is an ordered pair (LHS, RHS). ID is assigned by the Grammar
// that owns it, in insertion order starting at 0 after augmentation.
type Production struct {
	ID  int
	LHS string
	RHS []string
}

// IsEpsilon reports whether p has an empty right-hand side.
func (p Production) IsEpsilon() bool {
	return len(p.RHS) == 0
}

// Equal compares LHS and RHS only, ignoring ID; used by the table builder
// to find "the production matching (lhs, rhs) exactly" per spec.md 4.5.
func (p Production) Equal(o Production) bool {
	if p.LHS != o.LHS || len(p.RHS) != len(o.RHS) {
		return false
	}
	for i := range p.RHS {
		if p.RHS[i] != o.RHS[i] {
			return false
		}
	}
	return true
}

// RHSString renders the right-hand side as a space-joined string, using eps
// for an empty RHS.
func (p Production) RHSString(eps string) string {
	if p.IsEpsilon() {
		return eps
	}
	return strings.Join(p.RHS, " ")
}

func (p Production) String() string {
	return p.LHS + " -> " + p.RHSString(DefaultEpsilon)
}

// Grammar is an insertion-ordered list of productions together with the
// declared start symbol and the derived terminal/non-terminal sets. The
// zero value is not usable; create one with New.
type Grammar struct {
	Epsilon   string
	EndMarker string

	productions []Production
	start       string

	terminals    util.StringSet
	nonTerminals util.StringSet
	classified   bool
}

// New creates an empty Grammar. An empty epsilon or endMarker falls back to
// the conventional spelling.
func New(epsilon, endMarker string) *Grammar {
	if epsilon == "" {
		epsilon = DefaultEpsilon
	}
	if endMarker == "" {
		endMarker = DefaultEndMarker
	}
	return &Grammar{Epsilon: epsilon, EndMarker: endMarker}
}

// AddProduction appends a production, normalizing an empty or [epsilon]
// RHS to the empty sequence. The first call establishes the start symbol.
// No symbol validation is performed at this stage.
func (g *Grammar) AddProduction(lhs string, rhs []string) int {
	if g.start == "" {
		g.start = lhs
	}

	normalized := rhs
	if len(rhs) == 1 && rhs[0] == g.Epsilon {
		normalized = nil
	}

	p := Production{ID: len(g.productions), LHS: lhs, RHS: normalized}
	g.productions = append(g.productions, p)
	g.classified = false
	return p.ID
}

// StartSymbol returns the lhs of the first production added.
func (g *Grammar) StartSymbol() string {
	return g.start
}

// Productions returns the grammar's productions in insertion order. The
// returned slice is owned by the caller; mutating it does not affect g.
func (g *Grammar) Productions() []Production {
	cp := make([]Production, len(g.productions))
	copy(cp, g.productions)
	return cp
}

// Production returns the production with the given index, and whether it
// exists.
func (g *Grammar) Production(id int) (Production, bool) {
	if id < 0 || id >= len(g.productions) {
		return Production{}, false
	}
	return g.productions[id], true
}

// Classify populates the terminal and non-terminal sets per spec.md 4.1:
// non-terminals are every lhs symbol; terminals are every other symbol
// appearing in a rhs (excluding epsilon), plus the end marker. Idempotent.
func (g *Grammar) Classify() {
	if g.classified {
		return
	}

	g.nonTerminals = util.NewStringSet()
	for _, p := range g.productions {
		g.nonTerminals.Add(p.LHS)
	}

	g.terminals = util.NewStringSet()
	for _, p := range g.productions {
		for _, sym := range p.RHS {
			if sym == g.Epsilon {
				continue
			}
			if !g.nonTerminals.Has(sym) {
				g.terminals.Add(sym)
			}
		}
	}
	g.terminals.Add(g.EndMarker)

	g.classified = true
}

// IsTerminal reports whether sym is classified as a terminal. Classify must
// have been called first.
func (g *Grammar) IsTerminal(sym string) bool {
	return g.terminals.Has(sym)
}

// IsNonTerminal reports whether sym is classified as a non-terminal.
// Classify must have been called first.
func (g *Grammar) IsNonTerminal(sym string) bool {
	return g.nonTerminals.Has(sym)
}

// Terminals returns the classified terminal set sorted alphabetically,
// including the end marker.
func (g *Grammar) Terminals() []string {
	g.Classify()
	return g.terminals.Sorted()
}

// NonTerminals returns the classified non-terminal set sorted
// alphabetically.
func (g *Grammar) NonTerminals() []string {
	g.Classify()
	return g.nonTerminals.Sorted()
}

// GenerateUniqueName returns a non-terminal name derived from original that
// does not already appear in g's non-terminal set, by appending a
// distinguishing suffix until unique. Grounded on the teacher's
// Grammar.GenerateUniqueName (internal/tunascript/grammar.go), which
// appends "-P"; this uses the conventional LR augmentation suffix "'"
// instead since spec.md names the augmented symbol S'.
func (g *Grammar) GenerateUniqueName(original string) string {
	g.Classify()
	name := original + "'"
	for g.nonTerminals.Has(name) {
		name += "'"
	}
	return name
}

// Augmented returns a new Grammar equal to g but with a fresh production 0,
// S' -> S, prepended, where S' is a name generated by GenerateUniqueName and
// S is g's start symbol. g itself is not modified. Per spec.md 3, this is
// the grammar's only mutation point; everything downstream of Build()
// operates on the augmented copy.
func (g *Grammar) Augmented() *Grammar {
	g.Classify()

	aug := New(g.Epsilon, g.EndMarker)
	newStart := g.GenerateUniqueName(g.start)

	aug.AddProduction(newStart, []string{g.start})
	for _, p := range g.productions {
		aug.AddProduction(p.LHS, append([]string(nil), p.RHS...))
	}
	aug.Classify()
	return aug
}

// Empty reports whether the grammar has no productions.
func (g *Grammar) Empty() bool {
	return len(g.productions) == 0
}
