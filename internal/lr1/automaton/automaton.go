// Package automaton implements the canonical collection builder (spec
// module 4.4): closure, goto, and the worklist expansion that enumerates
// every reachable LR(1) state and its transitions.
//
// Grounded on the teacher's internal/ictiobus/automaton/automaton.go
// (NewLR1ViablePrefixDFA), rewritten so states are referenced by small
// integer indices assigned in discovery order (spec.md section 3) instead
// of by a string-encoded item set, and so the worklist and "symbols
// following a dot" set use the same two emirpasic/gods containers
// npillmayer/gorgo's lr/tables.go builds its CFSM with.
package automaton

import (
	"sort"

	"github.com/emirpasic/gods/lists/arraylist"
	"github.com/emirpasic/gods/sets/treeset"
	godsutils "github.com/emirpasic/gods/utils"

	"github.com/corvidlabs/lr1trace/internal/lr1/grammar"
	"github.com/corvidlabs/lr1trace/internal/lr1/item"
)

// ItemSet is a content-addressed set of LR(1) items, keyed by item.Key().
type ItemSet map[string]item.Item

// State is one node of the canonical collection: an index assigned in
// discovery order, plus its (already closed) item set.
type State struct {
	Index int
	Items ItemSet
}

// SortedItems returns the state's items ordered by their canonical key, for
// deterministic printing and serialization.
func (s State) SortedItems() []item.Item {
	keys := make([]string, 0, len(s.Items))
	for k := range s.Items {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	items := make([]item.Item, len(keys))
	for i, k := range keys {
		items[i] = s.Items[k]
	}
	return items
}

// Transition is one recorded (source, symbol) -> destination edge.
type Transition struct {
	From   int
	To     int
	Symbol string
}

// Automaton is the canonical collection of LR(1) item sets together with
// its transition function, i.e. the "states" and "transitions" of spec.md
// section 3.
type Automaton struct {
	AugmentedStart string // lhs of production 0, e.g. "S'"
	Initial        int
	States         []State

	transitions map[int]map[string]int
}

// Restore reconstructs an Automaton from previously computed fields, for use
// by internal/lr1cache when loading a cached build instead of recomputing
// one with Builder.Build.
func Restore(augmentedStart string, initial int, states []State, transitions map[int]map[string]int) *Automaton {
	return &Automaton{
		AugmentedStart: augmentedStart,
		Initial:        initial,
		States:         states,
		transitions:    transitions,
	}
}

// Next returns the destination of the (state, symbol) transition, and
// whether one is defined.
func (a *Automaton) Next(state int, symbol string) (int, bool) {
	row, ok := a.transitions[state]
	if !ok {
		return 0, false
	}
	to, ok := row[symbol]
	return to, ok
}

// AllTransitions returns every recorded transition, ordered by source state
// then symbol, for deterministic serialization.
func (a *Automaton) AllTransitions() []Transition {
	out := make([]Transition, 0)
	for from, row := range a.transitions {
		for sym, to := range row {
			out = append(out, Transition{From: from, To: to, Symbol: sym})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].From != out[j].From {
			return out[i].From < out[j].From
		}
		return out[i].Symbol < out[j].Symbol
	})
	return out
}

// KernelItems returns the items of state i that are kernel items per
// spec.md's glossary: for state 0, the single augmented initial item (lhs
// == AugmentedStart and dot == 0); for every other state, every item whose
// dot is past position zero.
func (a *Automaton) KernelItems(i int) []item.Item {
	st := a.States[i]
	var out []item.Item
	for _, it := range st.SortedItems() {
		if i == 0 {
			if it.NonTerminal == a.AugmentedStart && it.Dot() == 0 {
				out = append(out, it)
			}
			continue
		}
		if it.Dot() > 0 {
			out = append(out, it)
		}
	}
	return out
}

// ClosureItems returns the items of state i that are not kernel items.
func (a *Automaton) ClosureItems(i int) []item.Item {
	kernel := make(map[string]bool)
	for _, it := range a.KernelItems(i) {
		kernel[it.Key()] = true
	}
	var out []item.Item
	for _, it := range a.States[i].SortedItems() {
		if !kernel[it.Key()] {
			out = append(out, it)
		}
	}
	return out
}

// Builder computes closures, gotos, and the canonical collection for an
// augmented grammar.
type Builder struct {
	g          *grammar.Grammar
	analysis   *grammar.Analysis
	prodsByLHS map[string][]grammar.Production
}

// NewBuilder prepares a Builder for the given augmented grammar and its
// FIRST/FOLLOW analysis.
func NewBuilder(g *grammar.Grammar, analysis *grammar.Analysis) *Builder {
	b := &Builder{g: g, analysis: analysis, prodsByLHS: map[string][]grammar.Production{}}
	for _, p := range g.Productions() {
		b.prodsByLHS[p.LHS] = append(b.prodsByLHS[p.LHS], p)
	}
	return b
}

// Closure computes the closure of an item set, per spec.md 4.4: for every
// item [A -> alpha . B beta, a] with B a non-terminal, and every production
// B -> gamma, add [B -> . gamma, b] for every b in FIRST(beta a), using an
// explicit worklist until no new item is added.
func (b *Builder) Closure(items ItemSet) ItemSet {
	closed := make(ItemSet, len(items))
	worklist := arraylist.New()
	for _, it := range items {
		closed[it.Key()] = it
		worklist.Add(it)
	}

	for !worklist.Empty() {
		v, _ := worklist.Get(0)
		worklist.Remove(0)
		it := v.(item.Item)

		sym, ok := it.NextSymbol()
		if !ok || !b.g.IsNonTerminal(sym) {
			continue
		}

		seq := make([]string, 0, len(it.Right)+1)
		seq = append(seq, it.Right[1:]...)
		seq = append(seq, it.Lookahead)
		lookaheads := b.analysis.FirstOfSequence(seq)

		for _, prod := range b.prodsByLHS[sym] {
			for _, la := range lookaheads.Elements() {
				if la == b.g.Epsilon {
					continue
				}
				newItem := item.New(prod.LHS, prod.RHS, la)
				key := newItem.Key()
				if _, exists := closed[key]; !exists {
					closed[key] = newItem
					worklist.Add(newItem)
				}
			}
		}
	}

	return closed
}

// Goto computes GOTO(I, X) per spec.md 4.4: advance every item whose next
// symbol is X, then close the result. An empty advance set returns an empty
// (nil) ItemSet without closing it.
func (b *Builder) Goto(items ItemSet, x string) ItemSet {
	advanced := make(ItemSet)
	for _, it := range items {
		sym, ok := it.NextSymbol()
		if ok && sym == x {
			adv := it.Advance()
			advanced[adv.Key()] = adv
		}
	}
	if len(advanced) == 0 {
		return nil
	}
	return b.Closure(advanced)
}

func stateKey(items ItemSet) string {
	keys := make([]string, 0, len(items))
	for k := range items {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	total := 0
	for _, k := range keys {
		total += len(k) + 1
	}
	buf := make([]byte, 0, total)
	for _, k := range keys {
		buf = append(buf, k...)
		buf = append(buf, '\n')
	}
	return string(buf)
}

// Build enumerates the canonical collection of LR(1) item sets for the
// augmented grammar, per spec.md 4.4: state 0 is closure({[S' -> . S, $]}),
// and the worklist discovers every other reachable state by GOTO on every
// symbol following a dot, assigning indices in discovery order.
func (b *Builder) Build() *Automaton {
	prod0, _ := b.g.Production(0)
	initItem := item.New(prod0.LHS, prod0.RHS, b.g.EndMarker)
	startSet := b.Closure(ItemSet{initItem.Key(): initItem})

	a := &Automaton{
		AugmentedStart: prod0.LHS,
		transitions:    map[int]map[string]int{},
	}

	stateIndex := map[string]int{}
	key := stateKey(startSet)
	stateIndex[key] = 0
	a.States = append(a.States, State{Index: 0, Items: startSet})

	worklist := arraylist.New()
	worklist.Add(0)

	for !worklist.Empty() {
		v, _ := worklist.Get(0)
		worklist.Remove(0)
		i := v.(int)

		symbols := treeset.NewWith(godsutils.StringComparator)
		for _, it := range a.States[i].Items {
			if sym, ok := it.NextSymbol(); ok {
				symbols.Add(sym)
			}
		}

		for _, symVal := range symbols.Values() {
			x := symVal.(string)
			j := b.Goto(a.States[i].Items, x)
			if len(j) == 0 {
				continue
			}

			jKey := stateKey(j)
			jIdx, exists := stateIndex[jKey]
			if !exists {
				jIdx = len(a.States)
				stateIndex[jKey] = jIdx
				a.States = append(a.States, State{Index: jIdx, Items: j})
				worklist.Add(jIdx)
			}

			row, ok := a.transitions[i]
			if !ok {
				row = map[string]int{}
				a.transitions[i] = row
			}
			row[x] = jIdx
		}
	}

	return a
}
