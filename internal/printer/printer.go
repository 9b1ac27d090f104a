// Package printer renders an Analyzer's grammar, FIRST/FOLLOW sets,
// automaton, parsing table, and closure table as text for the CLI, using
// github.com/dekarrin/rosed for table layout and github.com/pterm/pterm for
// colorized ACTION/GOTO cells.
//
// Grounded on the teacher's internal/ictiobus/parse/clr1.go String() method
// (rosed.Edit("").InsertTableOpts(0, data, width, rosed.Options{...}), the
// "S | A:t1 A:t2 | G:N1 G:N2" header layout, and the "sJ"/"rA -> prod"/"acc"
// cell text), and on npillmayer/gorgo's trepl/repl.go use of pterm.NewStyle
// for colorizing output by kind.
package printer

import (
	"fmt"
	"strings"

	"github.com/dekarrin/rosed"
	"github.com/pterm/pterm"

	"github.com/corvidlabs/lr1trace/internal/lr1"
	"github.com/corvidlabs/lr1trace/internal/lr1/driver"
	"github.com/corvidlabs/lr1trace/internal/lr1/table"
)

var (
	shiftStyle  = pterm.NewStyle(pterm.FgCyan)
	reduceStyle = pterm.NewStyle(pterm.FgYellow)
	acceptStyle = pterm.NewStyle(pterm.FgGreen)
	gotoStyle   = pterm.NewStyle(pterm.FgBlue)
)

// Grammar renders one production per line, "id: lhs -> rhs".
func Grammar(a *lr1.Analyzer) string {
	var sb strings.Builder
	for _, p := range a.Original.Productions() {
		fmt.Fprintf(&sb, "%d: %s -> %s\n", p.ID, p.LHS, p.RHSString(a.Original.Epsilon))
	}
	return sb.String()
}

// FirstFollow renders a rosed table with one row per non-terminal and
// FIRST/FOLLOW columns, mirroring clr1.go's header-row table shape.
func FirstFollow(a *lr1.Analyzer) string {
	data := [][]string{{"N", "FIRST(N)", "FOLLOW(N)"}}
	for _, nt := range a.Original.NonTerminals() {
		data = append(data, []string{
			nt,
			strings.Join(a.Analysis.First(nt).Sorted(), " "),
			strings.Join(a.Analysis.Follow(nt).Sorted(), " "),
		})
	}
	return rosed.Edit("").
		InsertTableOpts(0, data, 100, rosed.Options{
			TableHeaders:             true,
			NoTrailingLineSeparators: true,
		}).
		String()
}

// Automaton renders one block per state: its index, kernel items, and
// closure items.
func Automaton(a *lr1.Analyzer) string {
	var sb strings.Builder
	for _, st := range a.Automaton.States {
		fmt.Fprintf(&sb, "I%d:\n", st.Index)
		for _, it := range a.Automaton.KernelItems(st.Index) {
			fmt.Fprintf(&sb, "  %s\n", it.String())
		}
		for _, it := range a.Automaton.ClosureItems(st.Index) {
			fmt.Fprintf(&sb, "  %s\n", it.String())
		}
	}
	return sb.String()
}

// Table renders the ACTION/GOTO table as a rosed grid, with cells colorized
// by pterm per their action kind, following clr1.go's "S | A:t... | G:N..."
// column layout.
func Table(a *lr1.Analyzer) string {
	terms := a.Original.Terminals()
	nonTerms := a.Original.NonTerminals()

	headers := []string{"S", "|"}
	for _, t := range terms {
		headers = append(headers, "A:"+t)
	}
	headers = append(headers, "|")
	for _, nt := range nonTerms {
		headers = append(headers, "G:"+nt)
	}
	data := [][]string{headers}

	for _, st := range a.Automaton.States {
		row := []string{fmt.Sprintf("%d", st.Index), "|"}
		for _, t := range terms {
			row = append(row, actionCellText(a.Table, st.Index, t))
		}
		row = append(row, "|")
		for _, nt := range nonTerms {
			cell := ""
			if to, ok := a.Table.Goto(st.Index, nt); ok {
				cell = gotoStyle.Sprintf("%d", to)
			}
			row = append(row, cell)
		}
		data = append(data, row)
	}

	return rosed.Edit("").
		InsertTableOpts(0, data, 120, rosed.Options{
			TableHeaders:             true,
			NoTrailingLineSeparators: true,
		}).
		String()
}

func actionCellText(t *table.Table, state int, terminal string) string {
	act, ok := t.Action(state, terminal)
	if !ok {
		return ""
	}
	switch act.Type {
	case table.Shift:
		return shiftStyle.Sprintf("s%d", act.State)
	case table.Reduce:
		return reduceStyle.Sprintf("r%d", act.Production)
	case table.Accept:
		return acceptStyle.Sprint("acc")
	default:
		return ""
	}
}

// ClosureTable renders one block per state listing its goto-arriving label,
// kernel items, and closure items, per spec.md section 6's closure_table.
func ClosureTable(a *lr1.Analyzer) string {
	var sb strings.Builder
	for _, st := range a.Automaton.States {
		var label string
		for _, tr := range a.Automaton.AllTransitions() {
			if tr.To == st.Index {
				label = tr.Symbol
				break
			}
		}
		fmt.Fprintf(&sb, "I%d", st.Index)
		if label != "" {
			fmt.Fprintf(&sb, " (via %s)", label)
		}
		sb.WriteString(":\n")
		for _, it := range a.Automaton.KernelItems(st.Index) {
			fmt.Fprintf(&sb, "  [kernel]  %s\n", it.String())
		}
		for _, it := range a.Automaton.ClosureItems(st.Index) {
			fmt.Fprintf(&sb, "  [closure] %s\n", it.String())
		}
	}
	return sb.String()
}

// TraceStep renders a single driver trace step as one colorized line,
// following the same shift/reduce/accept styling as actionCellText.
func TraceStep(s driver.TraceStep) string {
	stack := strings.Join(s.SymbolStack, " ")
	remaining := strings.Join(s.RemainingInput, " ")

	var action string
	switch s.ActionKind {
	case "shift":
		action = shiftStyle.Sprintf("%s", s.ActionDetail)
	case "reduce":
		action = reduceStyle.Sprintf("%s", s.ActionDetail)
	case "accept":
		action = acceptStyle.Sprintf("%s", s.ActionDetail)
	default:
		action = s.ActionDetail
	}

	return fmt.Sprintf("%3d | state %-3d | %-30s | %-20s | %s",
		s.Step, s.CurrentState, stack, remaining, action)
}

// Trace renders every step of a driver Result, one line each, followed by
// the final accept/reject outcome.
func Trace(res *driver.Result) string {
	var sb strings.Builder
	for _, step := range res.Trace {
		sb.WriteString(TraceStep(step))
		sb.WriteString("\n")
	}
	if res.Accepted {
		sb.WriteString(acceptStyle.Sprint("input accepted"))
	} else if res.Err != nil {
		sb.WriteString(reduceStyle.Sprintf("input rejected: %s", res.Err.Error()))
	}
	sb.WriteString("\n")
	return sb.String()
}

// Conflicts renders the table's recorded conflicts, one per line, or a
// single "no conflicts" line if there are none.
func Conflicts(a *lr1.Analyzer) string {
	if len(a.Table.Conflicts) == 0 {
		return "no conflicts\n"
	}
	var sb strings.Builder
	for _, c := range a.Table.Conflicts {
		fmt.Fprintf(&sb, "state %d, terminal %s: %s conflict (%s vs %s)\n",
			c.State, c.Terminal, c.Kind, c.Existing.String(), c.Proposed.String())
	}
	return sb.String()
}
