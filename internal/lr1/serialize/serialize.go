// Package serialize implements the serialization surface (spec module 4.7):
// converting a built Analyzer, and optionally a driver trace, into
// structured values with the stable field names spec.md section 6's
// external-interfaces table names as the contract.
//
// Grounded on the teacher's server/result package for the idea of a single
// "assemble then marshal" boundary type, and on
// internal/ictiobus/parse/clr1.go's textual state/table rendering for which
// fields to compute; REDESIGNED into JSON-tagged structs instead of that
// package's ad hoc string builders, since spec.md 6 requires field names to
// be part of the contract rather than embedded in prose output.
package serialize

import (
	"encoding/json"
	"strconv"

	"github.com/corvidlabs/lr1trace/internal/lr1"
	"github.com/corvidlabs/lr1trace/internal/lr1/driver"
	"github.com/corvidlabs/lr1trace/internal/lr1/item"
	"github.com/corvidlabs/lr1trace/internal/lr1/table"
)

// ProductionRecord is one grammar.productions entry.
type ProductionRecord struct {
	ID     int      `json:"id"`
	LHS    string   `json:"lhs"`
	RHS    []string `json:"rhs"`
	RHSStr string   `json:"rhs_str"`
}

// GrammarRecord is the grammar.productions field.
type GrammarRecord struct {
	Productions []ProductionRecord `json:"productions"`
}

// SymbolsRecord is the top-level symbols field.
type SymbolsRecord struct {
	Terminals      []string `json:"terminals"`
	EndMarker      string   `json:"end_marker"`
	NonTerminals   []string `json:"non_terminals"`
	StartSymbol    string   `json:"start_symbol"`
	AugmentedStart string   `json:"augmented_start"`
}

// FirstFollowRecord is the first_follow field: sorted terminal sets keyed by
// non-terminal name, excluding the synthetic augmented start symbol.
type FirstFollowRecord struct {
	First  map[string][]string `json:"first"`
	Follow map[string][]string `json:"follow"`
}

// StateRecord is one automaton.states[i] entry.
type StateRecord struct {
	ID          int      `json:"id"`
	Items       []string `json:"items"`
	KernelItems []string `json:"kernel_items"`
	IsAccept    bool     `json:"is_accept"`
	NumItems    int      `json:"num_items"`
}

// TransitionRecord is one automaton.transitions or closure_table goto_transitions entry.
type TransitionRecord struct {
	From   int    `json:"from"`
	To     int    `json:"to"`
	Symbol string `json:"symbol"`
}

// AutomatonRecord is the top-level automaton field.
type AutomatonRecord struct {
	NumStates   int                `json:"num_states"`
	States      []StateRecord      `json:"states"`
	Transitions []TransitionRecord `json:"transitions"`
}

// TableCell is one parsing_table.action[s][t] or parsing_table.goto[s][N] entry.
type TableCell struct {
	Type       string            `json:"type"`
	Value      int               `json:"value"`
	Display    string            `json:"display"`
	Color      string            `json:"color"`
	Production *ProductionRecord `json:"production,omitempty"`
}

// ParsingTableRecord is the top-level parsing_table field. The outer maps are
// keyed by state index (encoding/json renders an int-keyed map with decimal
// string keys); the inner maps are keyed by terminal or non-terminal name.
type ParsingTableRecord struct {
	Action map[int]map[string]TableCell `json:"action"`
	Goto   map[int]map[string]TableCell `json:"goto"`
}

// ClosureStateRecord is one closure_table[i] entry.
type ClosureStateRecord struct {
	StateID         int                `json:"state_id"`
	GotoLabel       string             `json:"goto_label"`
	KernelItems     []string           `json:"kernel_items"`
	ClosureItems    []string           `json:"closure_items"`
	NumItems        int                `json:"num_items"`
	GotoTransitions []TransitionRecord `json:"goto_transitions"`
}

// TraceStepRecord is one trace.steps[k] entry.
type TraceStepRecord struct {
	Step            int      `json:"step"`
	Stack           []int    `json:"stack"`
	SymbolStack     []string `json:"symbol_stack"`
	RemainingInput  []string `json:"remaining_input"`
	CurrentState    int      `json:"current_state"`
	CurrentToken    string   `json:"current_token"`
	Action          string   `json:"action"`
	ActionDetail    string   `json:"action_detail"`
	ProductionID    *int     `json:"production_id,omitempty"`
	ProductionLHS   string   `json:"production_lhs,omitempty"`
	ProductionRHS   []string `json:"production_rhs,omitempty"`
}

// TraceRecord is the top-level trace field, present only after WithTrace
// has attached a driver Result to the document.
type TraceRecord struct {
	Accepted bool              `json:"accepted"`
	Steps    []TraceStepRecord `json:"steps"`
}

// Document is the full serialization surface of spec.md section 6.
type Document struct {
	Grammar      GrammarRecord      `json:"grammar"`
	Symbols      SymbolsRecord      `json:"symbols"`
	FirstFollow  FirstFollowRecord  `json:"first_follow"`
	Automaton    AutomatonRecord    `json:"automaton"`
	ParsingTable ParsingTableRecord `json:"parsing_table"`
	ClosureTable []ClosureStateRecord `json:"closure_table"`
	Trace        *TraceRecord       `json:"trace,omitempty"`
}

// displayItem renders it with the spec's canonical arrows, independent of
// item.Item.String's internal "->"/"." rendering used for map keys.
func displayItem(it item.Item) string {
	s := it.NonTerminal + " → "
	for i, sym := range it.Left {
		if i > 0 {
			s += " "
		}
		s += sym
	}
	if len(it.Left) > 0 {
		s += " "
	}
	s += "·"
	for _, sym := range it.Right {
		s += " " + sym
	}
	return s + ", " + it.Lookahead
}

func displayItems(items []item.Item) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = displayItem(it)
	}
	return out
}

// surfaceProductionID maps an augmented-grammar production id (0 is the
// synthetic S' -> S production) back to the id space of the original,
// caller-supplied grammar, where production i of the augmented grammar
// (i >= 1) is production i-1 of the original.
func surfaceProductionID(augmentedID int) int {
	return augmentedID - 1
}

func colorFor(t table.ActionType) string {
	switch t {
	case table.Shift:
		return "cyan"
	case table.Reduce:
		return "yellow"
	case table.Accept:
		return "green"
	default:
		return "white"
	}
}

// FromAnalyzer assembles the static portion of the serialization surface:
// everything but trace, which is assembled separately by WithTrace since a
// single Analyzer may be driven over many different inputs.
func FromAnalyzer(a *lr1.Analyzer) *Document {
	doc := &Document{}

	for _, p := range a.Original.Productions() {
		doc.Grammar.Productions = append(doc.Grammar.Productions, ProductionRecord{
			ID:     p.ID,
			LHS:    p.LHS,
			RHS:    append([]string(nil), p.RHS...),
			RHSStr: p.RHSString(a.Original.Epsilon),
		})
	}

	doc.Symbols = SymbolsRecord{
		Terminals:      excluding(a.Original.Terminals(), a.Original.Epsilon, a.Original.EndMarker),
		EndMarker:      a.Original.EndMarker,
		NonTerminals:   excluding(a.Original.NonTerminals(), a.Augmented.StartSymbol()),
		StartSymbol:    a.Original.StartSymbol(),
		AugmentedStart: a.Augmented.StartSymbol(),
	}

	doc.FirstFollow.First = map[string][]string{}
	doc.FirstFollow.Follow = map[string][]string{}
	for _, nt := range a.Original.NonTerminals() {
		doc.FirstFollow.First[nt] = a.Analysis.First(nt).Sorted()
		doc.FirstFollow.Follow[nt] = a.Analysis.Follow(nt).Sorted()
	}

	doc.Automaton.NumStates = len(a.Automaton.States)
	for _, st := range a.Automaton.States {
		all := st.SortedItems()
		kernel := a.Automaton.KernelItems(st.Index)

		doc.Automaton.States = append(doc.Automaton.States, StateRecord{
			ID:          st.Index,
			Items:       displayItems(all),
			KernelItems: displayItems(kernel),
			IsAccept:    hasAcceptAction(a.Table, st.Index, a.Augmented.EndMarker),
			NumItems:    len(all),
		})
	}
	for _, tr := range a.Automaton.AllTransitions() {
		doc.Automaton.Transitions = append(doc.Automaton.Transitions, TransitionRecord{
			From: tr.From, To: tr.To, Symbol: tr.Symbol,
		})
	}

	doc.ParsingTable.Action = map[int]map[string]TableCell{}
	doc.ParsingTable.Goto = map[int]map[string]TableCell{}
	for _, st := range a.Automaton.States {
		row := map[string]TableCell{}
		for _, term := range a.Table.ActionTerminals(st.Index) {
			act, _ := a.Table.Action(st.Index, term)
			row[term] = actionCell(a, act)
		}
		doc.ParsingTable.Action[st.Index] = row

		gotoRow := map[string]TableCell{}
		for _, nt := range a.Table.GotoNonTerminals(st.Index) {
			to, _ := a.Table.Goto(st.Index, nt)
			gotoRow[nt] = TableCell{Type: "goto", Value: to, Display: gotoDisplay(to), Color: "blue"}
		}
		doc.ParsingTable.Goto[st.Index] = gotoRow
	}

	for _, st := range a.Automaton.States {
		kernel := a.Automaton.KernelItems(st.Index)
		closureOnly := a.Automaton.ClosureItems(st.Index)
		var gotoTransitions []TransitionRecord
		var label string
		for _, tr := range a.Automaton.AllTransitions() {
			if tr.To == st.Index && label == "" {
				label = tr.Symbol
			}
			if tr.From == st.Index {
				gotoTransitions = append(gotoTransitions, TransitionRecord{From: tr.From, To: tr.To, Symbol: tr.Symbol})
			}
		}
		doc.ClosureTable = append(doc.ClosureTable, ClosureStateRecord{
			StateID:         st.Index,
			GotoLabel:       label,
			KernelItems:     displayItems(kernel),
			ClosureItems:    displayItems(closureOnly),
			NumItems:        len(kernel) + len(closureOnly),
			GotoTransitions: gotoTransitions,
		})
	}

	return doc
}

func hasAcceptAction(t *table.Table, state int, endMarker string) bool {
	act, ok := t.Action(state, endMarker)
	return ok && act.Type == table.Accept
}

func actionCell(a *lr1.Analyzer, act table.Action) TableCell {
	switch act.Type {
	case table.Shift:
		return TableCell{Type: "shift", Value: act.State, Display: "s" + itoa(act.State), Color: colorFor(table.Shift)}
	case table.Reduce:
		prod, _ := a.Augmented.Production(act.Production)
		rec := ProductionRecord{
			ID:     surfaceProductionID(act.Production),
			LHS:    prod.LHS,
			RHS:    append([]string(nil), prod.RHS...),
			RHSStr: prod.RHSString(a.Augmented.Epsilon),
		}
		return TableCell{
			Type: "reduce", Value: act.Production, Display: "r" + itoa(act.Production),
			Color: colorFor(table.Reduce), Production: &rec,
		}
	case table.Accept:
		return TableCell{Type: "accept", Display: "acc", Color: colorFor(table.Accept)}
	default:
		return TableCell{}
	}
}

func gotoDisplay(to int) string {
	return itoa(to)
}

func itoa(i int) string {
	return strconv.Itoa(i)
}

func excluding(all []string, exclude ...string) []string {
	skip := map[string]bool{}
	for _, e := range exclude {
		skip[e] = true
	}
	out := make([]string, 0, len(all))
	for _, s := range all {
		if !skip[s] {
			out = append(out, s)
		}
	}
	return out
}

// WithTrace attaches a driver run's trace to doc, translating each
// driver.TraceStep into the trace.steps[k] shape of spec.md section 6.
func (doc *Document) WithTrace(res *driver.Result) *Document {
	tr := &TraceRecord{Accepted: res.Accepted}
	for _, step := range res.Trace {
		rec := TraceStepRecord{
			Step:           step.Step,
			Stack:          append([]int(nil), step.StateStack...),
			SymbolStack:    append([]string(nil), step.SymbolStack...),
			RemainingInput: append([]string(nil), step.RemainingInput...),
			CurrentState:   step.CurrentState,
			CurrentToken:   step.CurrentToken,
			Action:         step.ActionKind,
			ActionDetail:   step.ActionDetail,
			ProductionLHS:  step.ProductionLHS,
			ProductionRHS:  step.ProductionRHS,
		}
		if step.ProductionID != nil {
			id := surfaceProductionID(*step.ProductionID)
			rec.ProductionID = &id
		}
		tr.Steps = append(tr.Steps, rec)
	}
	doc.Trace = tr
	return doc
}

// JSON renders the document with a two-space indent, the form every
// CLI/HTTP consumer of this surface is expected to use.
func (doc *Document) JSON() ([]byte, error) {
	return json.MarshalIndent(doc, "", "  ")
}
