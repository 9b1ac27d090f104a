// Package table implements the ACTION/GOTO table builder (spec module 4.5):
// for every state, project its items into shift/reduce/accept actions and
// goto entries, recording rather than failing on conflicts.
//
// Grounded on the teacher's internal/ictiobus/parse/clr1.go (Action/Goto
// projection) and lraction.go (LRAction/conflict classification), REDESIGNED
// per spec.md 4.5/7: the teacher panics or returns the first error on a
// conflict; here, a conflicting write is recorded on a Conflicts list and
// construction continues, so that callers can still use the (possibly
// ambiguous) tables.
package table

import (
	"fmt"
	"sort"

	"github.com/corvidlabs/lr1trace/internal/lr1/automaton"
	"github.com/corvidlabs/lr1trace/internal/lr1/grammar"
)

// ActionType enumerates the three things a driver can do at a configuration.
type ActionType int

const (
	Shift ActionType = iota
	Reduce
	Accept
)

func (t ActionType) String() string {
	switch t {
	case Shift:
		return "shift"
	case Reduce:
		return "reduce"
	case Accept:
		return "accept"
	default:
		return "unknown"
	}
}

// Action is one ACTION table cell: a Shift carries the destination state, a
// Reduce carries the production index, Accept carries neither.
type Action struct {
	Type       ActionType
	State      int // valid when Type == Shift
	Production int // valid when Type == Reduce
}

func (a Action) String() string {
	switch a.Type {
	case Shift:
		return fmt.Sprintf("shift %d", a.State)
	case Reduce:
		return fmt.Sprintf("reduce %d", a.Production)
	case Accept:
		return "accept"
	default:
		return "error"
	}
}

// Equal reports whether two actions are the same proposal: same type, and
// for Shift/Reduce, the same destination/production.
func (a Action) Equal(o Action) bool {
	if a.Type != o.Type {
		return false
	}
	switch a.Type {
	case Shift:
		return a.State == o.State
	case Reduce:
		return a.Production == o.Production
	default:
		return true
	}
}

// ConflictKind classifies a conflict the way
// internal/ictiobus/parse/lraction.go's makeLRConflictError does, for
// friendlier diagnostics than a bare "two actions" report.
type ConflictKind string

const (
	ShiftReduceConflict  ConflictKind = "shift/reduce"
	ReduceReduceConflict ConflictKind = "reduce/reduce"
	AcceptConflict       ConflictKind = "accept"
	OtherConflict        ConflictKind = "other"
)

// Conflict records a rejected proposal for an ACTION table cell: the
// existing (winning, first-written) action and the proposed (losing,
// discarded) one.
type Conflict struct {
	State    int
	Terminal string
	Existing Action
	Proposed Action
	Kind     ConflictKind
}

func classify(existing, proposed Action) ConflictKind {
	types := map[ActionType]bool{existing.Type: true, proposed.Type: true}
	switch {
	case types[Shift] && types[Reduce] && len(types) == 2:
		return ShiftReduceConflict
	case existing.Type == Reduce && proposed.Type == Reduce:
		return ReduceReduceConflict
	case types[Accept]:
		return AcceptConflict
	default:
		return OtherConflict
	}
}

// Table is the built ACTION/GOTO table for an automaton, plus any conflicts
// discovered while building it.
type Table struct {
	action    map[int]map[string]Action
	goTo      map[int]map[string]int
	Conflicts []Conflict
}

// Restore reconstructs a Table from previously computed fields, for use by
// internal/lr1cache when loading a cached build instead of recomputing one
// with Build.
func Restore(action map[int]map[string]Action, goTo map[int]map[string]int, conflicts []Conflict) *Table {
	return &Table{action: action, goTo: goTo, Conflicts: conflicts}
}

// Action returns ACTION[state, terminal] and whether it is defined.
func (t *Table) Action(state int, terminal string) (Action, bool) {
	row, ok := t.action[state]
	if !ok {
		return Action{}, false
	}
	act, ok := row[terminal]
	return act, ok
}

// Goto returns GOTO[state, nonTerminal] and whether it is defined.
func (t *Table) Goto(state int, nonTerminal string) (int, bool) {
	row, ok := t.goTo[state]
	if !ok {
		return 0, false
	}
	to, ok := row[nonTerminal]
	return to, ok
}

// ActionTerminals returns the terminals with a defined ACTION entry at
// state, sorted alphabetically. Used by the driver to build "expected
// token" messages on a syntax error.
func (t *Table) ActionTerminals(state int) []string {
	row, ok := t.action[state]
	if !ok {
		return nil
	}
	terms := make([]string, 0, len(row))
	for term := range row {
		terms = append(terms, term)
	}
	sort.Strings(terms)
	return terms
}

// GotoNonTerminals returns the non-terminals with a defined GOTO entry at
// state, sorted alphabetically.
func (t *Table) GotoNonTerminals(state int) []string {
	row, ok := t.goTo[state]
	if !ok {
		return nil
	}
	nts := make([]string, 0, len(row))
	for nt := range row {
		nts = append(nts, nt)
	}
	sort.Strings(nts)
	return nts
}

func (t *Table) setAction(state int, terminal string, proposed Action) {
	row, ok := t.action[state]
	if !ok {
		row = map[string]Action{}
		t.action[state] = row
	}

	existing, already := row[terminal]
	if !already {
		row[terminal] = proposed
		return
	}
	if existing.Equal(proposed) {
		return
	}

	t.Conflicts = append(t.Conflicts, Conflict{
		State:    state,
		Terminal: terminal,
		Existing: existing,
		Proposed: proposed,
		Kind:     classify(existing, proposed),
	})
}

func (t *Table) setGoto(state int, nonTerminal string, to int) {
	row, ok := t.goTo[state]
	if !ok {
		row = map[string]int{}
		t.goTo[state] = row
	}
	row[nonTerminal] = to
}

// findProduction returns the lowest-indexed production matching (lhs, rhs)
// exactly, per spec.md 4.5's "if multiple productions match, use the lowest
// index".
func findProduction(g *grammar.Grammar, lhs string, rhs []string) (grammar.Production, bool) {
	target := grammar.Production{LHS: lhs, RHS: rhs}
	for _, p := range g.Productions() {
		if p.Equal(target) {
			return p, true
		}
	}
	return grammar.Production{}, false
}

// Build projects every state's items into ACTION/GOTO entries, per spec.md
// 4.5. g must be the automaton's augmented grammar.
func Build(g *grammar.Grammar, auto *automaton.Automaton) *Table {
	t := &Table{
		action: map[int]map[string]Action{},
		goTo:   map[int]map[string]int{},
	}

	for _, st := range auto.States {
		for _, it := range st.SortedItems() {
			sym, hasNext := it.NextSymbol()

			if !hasNext {
				if it.NonTerminal == auto.AugmentedStart {
					t.setAction(st.Index, g.EndMarker, Action{Type: Accept})
					continue
				}
				prod, ok := findProduction(g, it.NonTerminal, it.RHS())
				if !ok {
					continue
				}
				t.setAction(st.Index, it.Lookahead, Action{Type: Reduce, Production: prod.ID})
				continue
			}

			if !g.IsTerminal(sym) {
				continue
			}
			dest, ok := auto.Next(st.Index, sym)
			if !ok {
				// invariant violation: a terminal after a dot with no
				// transition means the automaton was not built correctly.
				continue
			}
			t.setAction(st.Index, sym, Action{Type: Shift, State: dest})
		}
	}

	for _, tr := range auto.AllTransitions() {
		if tr.Symbol == auto.AugmentedStart || !g.IsNonTerminal(tr.Symbol) {
			continue
		}
		t.setGoto(tr.From, tr.Symbol, tr.To)
	}

	return t
}
