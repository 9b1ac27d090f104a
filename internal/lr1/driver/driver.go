// Package driver implements the shift-reduce parser driver (spec module
// 4.6): given ACTION/GOTO tables, a token sequence, and the production
// list, run the shift-reduce loop and emit an ordered trace.
//
// Grounded on the teacher's internal/ictiobus/parse/lr.go (Parse), which
// implements the same four-case switch over shift/reduce/accept/error;
// REDESIGNED to build a returned trace slice of structured steps instead of
// calling a string-notification callback, per spec.md 3's Trace step record
// and 4.6's "emits an ordered trace of configurations and actions".
// getExpectedString/findExpectedTokens are adapted closely for the
// unexpected-token message on a syntax error.
package driver

import (
	"fmt"
	"strings"

	"github.com/corvidlabs/lr1trace/internal/lr1/grammar"
	"github.com/corvidlabs/lr1trace/internal/lr1/table"
	"github.com/corvidlabs/lr1trace/internal/lr1err"
	"github.com/corvidlabs/lr1trace/internal/util"
)

// TraceStep is one recorded configuration, captured before the action
// listed in it executes, per spec.md section 3.
type TraceStep struct {
	Step            int
	StateStack      []int
	SymbolStack     []string
	RemainingInput  []string
	CurrentState    int
	CurrentToken    string
	ActionKind      string // "shift", "reduce", "accept", or "error"
	ActionDetail    string
	ProductionID    *int
	ProductionLHS   string
	ProductionRHS   []string
}

// Result is the outcome of a single driver run: whether the input was
// accepted, the full trace, and, on failure, the error that stopped it.
type Result struct {
	Accepted bool
	Trace    []TraceStep
	Err      error
}

// Driver runs the shift-reduce loop against a fixed table and grammar. A
// Driver is stateless between runs: it owns only the stacks and trace
// buffer of the single Run call in progress, so multiple Run calls over the
// same Driver may execute concurrently (spec.md section 5).
type Driver struct {
	Table   *table.Table
	Grammar *grammar.Grammar // augmented grammar
}

// New creates a Driver over a built table and its augmented grammar.
func New(tbl *table.Table, g *grammar.Grammar) *Driver {
	return &Driver{Table: tbl, Grammar: g}
}

// safetyBoundMultiplier is the fixed factor in spec.md 4.6's "10x sum of
// input length and state count" safety bound. It is not configurable.
const safetyBoundMultiplier = 10

// Run drives input through the table, per spec.md 4.6. Input normally ends
// with the grammar's end marker; once the input is exhausted, the end marker
// is used as the lookahead, so a trailing end marker may also be omitted. numStates is used only to compute the
// safety bound; pass 0 to fall back to a bound based on input length alone.
func (d *Driver) Run(input []string, numStates int) *Result {
	stateStack := util.Stack[int]{}
	stateStack.Push(0)
	symbolStack := util.Stack[string]{}

	cursor := 0
	step := 0
	bound := safetyBoundMultiplier * (len(input) + numStates + 1)

	result := &Result{}

	for {
		step++
		if step > bound {
			entry := d.snapshot(step, stateStack, symbolStack, input, cursor)
			entry.ActionKind = "error"
			entry.ActionDetail = "exceeded safety bound"
			result.Trace = append(result.Trace, entry)
			result.Err = lr1err.New("parser did not terminate within the safety bound", lr1err.ErrParseRuntimeExceeded)
			return result
		}

		s := stateStack.Peek()
		var a string
		if cursor < len(input) {
			a = input[cursor]
		} else {
			a = d.Grammar.EndMarker
		}

		entry := d.snapshot(step, stateStack, symbolStack, input, cursor)

		act, ok := d.Table.Action(s, a)
		if !ok {
			entry.ActionKind = "error"
			entry.ActionDetail = d.unexpectedTokenMessage(s, a)
			result.Trace = append(result.Trace, entry)
			result.Err = lr1err.New(entry.ActionDetail, lr1err.ErrParseSyntax)
			return result
		}

		switch act.Type {
		case table.Shift:
			entry.ActionKind = "shift"
			entry.ActionDetail = fmt.Sprintf("shift %d", act.State)
			result.Trace = append(result.Trace, entry)

			symbolStack.Push(a)
			stateStack.Push(act.State)
			cursor++

		case table.Reduce:
			prod, _ := d.Grammar.Production(act.Production)
			id := act.Production

			entry.ActionKind = "reduce"
			entry.ActionDetail = fmt.Sprintf("reduce %s", prod.String())
			entry.ProductionID = &id
			entry.ProductionLHS = prod.LHS
			entry.ProductionRHS = append([]string(nil), prod.RHS...)
			result.Trace = append(result.Trace, entry)

			for i := 0; i < len(prod.RHS); i++ {
				stateStack.Pop()
				symbolStack.Pop()
			}

			top := stateStack.Peek()
			gotoState, ok := d.Table.Goto(top, prod.LHS)
			if !ok {
				result.Err = lr1err.New(
					fmt.Sprintf("no GOTO[%d, %s] after reducing %s", top, prod.LHS, prod.String()),
					lr1err.ErrParseMissingGoto,
				)
				return result
			}
			symbolStack.Push(prod.LHS)
			stateStack.Push(gotoState)

		case table.Accept:
			entry.ActionKind = "accept"
			entry.ActionDetail = "accept"
			result.Trace = append(result.Trace, entry)
			result.Accepted = true
			return result
		}
	}
}

func (d *Driver) snapshot(step int, states util.Stack[int], symbols util.Stack[string], input []string, cursor int) TraceStep {
	remaining := append([]string(nil), input[min(cursor, len(input)):]...)
	var current string
	if cursor < len(input) {
		current = input[cursor]
	} else {
		current = d.Grammar.EndMarker
	}
	return TraceStep{
		Step:           step,
		StateStack:     states.Snapshot(),
		SymbolStack:    symbols.Snapshot(),
		RemainingInput: remaining,
		CurrentState:   states.Peek(),
		CurrentToken:   current,
	}
}

// unexpectedTokenMessage builds a human-readable "expected X, Y, or Z"
// message for a syntax error at state s, adapted from
// internal/ictiobus/parse/lr.go's getExpectedString/findExpectedTokens.
func (d *Driver) unexpectedTokenMessage(s int, got string) string {
	expected := d.Table.ActionTerminals(s)
	if len(expected) == 0 {
		return fmt.Sprintf("unexpected %q in state %d", got, s)
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("unexpected %q in state %d; expected ", got, s))

	for i, term := range expected {
		if i > 0 {
			if i == len(expected)-1 {
				if len(expected) > 2 {
					sb.WriteString(", or ")
				} else {
					sb.WriteString(" or ")
				}
			} else {
				sb.WriteString(", ")
			}
		}
		sb.WriteString(term)
	}

	return sb.String()
}
