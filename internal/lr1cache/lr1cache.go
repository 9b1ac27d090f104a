// Package lr1cache is an on-disk cache of a built automaton and ACTION/GOTO
// table, keyed by a grammar's canonical text form. Get returns a stored pair
// without re-running the canonical-collection and table-builder pipeline;
// the CLI and server store entries with Put but do not read them back, so
// they rebuild on every run or request.
//
// Grounded on the teacher's server/dao/sqlite/sqlite.go and sessions.go,
// which use github.com/dekarrin/rezi's EncBinary/DecBinary to persist a
// game's in-memory state as an opaque binary blob; this repurposes the same
// encode/decode calls to persist an automaton+table pair as a blob keyed by
// a file name instead of a SQL column.
package lr1cache

import (
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"

	"github.com/dekarrin/rezi"

	"github.com/corvidlabs/lr1trace/internal/lr1/automaton"
	"github.com/corvidlabs/lr1trace/internal/lr1/item"
	"github.com/corvidlabs/lr1trace/internal/lr1/table"
)

// record is the wire shape persisted to disk. It mirrors automaton.State/
// item.Item/table.Action field-for-field and flattens the transition and
// ACTION/GOTO maps, since automaton.Automaton and table.Table keep those in
// unexported fields and cannot be rezi-encoded directly.
type record struct {
	AugmentedStart string
	Initial        int
	States         []recordState
	Transitions    []recordTransition
	Action         map[int]map[string]recordAction
	Goto           map[int]map[string]int
	Conflicts      []recordConflict
}

type recordItem struct {
	NonTerminal string
	Left        []string
	Right       []string
	Lookahead   string
}

type recordState struct {
	Index int
	Items []recordItem
}

type recordTransition struct {
	From   int
	To     int
	Symbol string
}

type recordAction struct {
	Type       int
	State      int
	Production int
}

type recordConflict struct {
	State    int
	Terminal string
	Existing recordAction
	Proposed recordAction
	Kind     string
}

// Key returns the cache key for a grammar's canonical text form: the hex
// SHA-256 digest of the exact bytes passed in. Callers pass the same text
// they fed to gtext.Parse so that whitespace/comment changes invalidate the
// cache, matching the fact that gtext.Parse is whitespace- and
// comment-sensitive only insofar as it discards them identically either way.
func Key(grammarText string) string {
	sum := sha256.Sum256([]byte(grammarText))
	return hex.EncodeToString(sum[:])
}

// Cache is a directory of cached automaton+table pairs, one file per key.
type Cache struct {
	dir string
}

// New creates a Cache rooted at dir, creating the directory if it does not
// exist.
func New(dir string) (*Cache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &Cache{dir: dir}, nil
}

func (c *Cache) path(key string) string {
	return filepath.Join(c.dir, key+".rezi")
}

// Put persists auto and tbl under key, overwriting any existing entry.
func (c *Cache) Put(key string, auto *automaton.Automaton, tbl *table.Table) error {
	rec := toRecord(auto, tbl)
	data := rezi.EncBinary(rec)
	return os.WriteFile(c.path(key), data, 0o644)
}

// Get loads a previously cached automaton+table pair for key. The third
// return value is false if no entry exists for key.
func (c *Cache) Get(key string) (*automaton.Automaton, *table.Table, bool, error) {
	data, err := os.ReadFile(c.path(key))
	if os.IsNotExist(err) {
		return nil, nil, false, nil
	}
	if err != nil {
		return nil, nil, false, err
	}

	var rec record
	if _, err := rezi.DecBinary(data, &rec); err != nil {
		return nil, nil, false, err
	}

	auto, tbl := fromRecord(rec)
	return auto, tbl, true, nil
}

func toRecord(auto *automaton.Automaton, tbl *table.Table) record {
	rec := record{
		AugmentedStart: auto.AugmentedStart,
		Initial:        auto.Initial,
		Action:         map[int]map[string]recordAction{},
		Goto:           map[int]map[string]int{},
	}

	for _, st := range auto.States {
		rs := recordState{Index: st.Index}
		for _, it := range st.SortedItems() {
			rs.Items = append(rs.Items, recordItem{
				NonTerminal: it.NonTerminal,
				Left:        it.Left,
				Right:       it.Right,
				Lookahead:   it.Lookahead,
			})
		}
		rec.States = append(rec.States, rs)

		row := map[string]recordAction{}
		for _, term := range tbl.ActionTerminals(st.Index) {
			act, _ := tbl.Action(st.Index, term)
			row[term] = recordAction{Type: int(act.Type), State: act.State, Production: act.Production}
		}
		rec.Action[st.Index] = row

		gotoRow := map[string]int{}
		for _, nt := range tbl.GotoNonTerminals(st.Index) {
			to, _ := tbl.Goto(st.Index, nt)
			gotoRow[nt] = to
		}
		rec.Goto[st.Index] = gotoRow
	}

	for _, tr := range auto.AllTransitions() {
		rec.Transitions = append(rec.Transitions, recordTransition{From: tr.From, To: tr.To, Symbol: tr.Symbol})
	}

	for _, c := range tbl.Conflicts {
		rec.Conflicts = append(rec.Conflicts, recordConflict{
			State:    c.State,
			Terminal: c.Terminal,
			Existing: recordAction{Type: int(c.Existing.Type), State: c.Existing.State, Production: c.Existing.Production},
			Proposed: recordAction{Type: int(c.Proposed.Type), State: c.Proposed.State, Production: c.Proposed.Production},
			Kind:     string(c.Kind),
		})
	}

	return rec
}

func fromRecord(rec record) (*automaton.Automaton, *table.Table) {
	transitions := map[int]map[string]int{}
	for _, tr := range rec.Transitions {
		row, ok := transitions[tr.From]
		if !ok {
			row = map[string]int{}
			transitions[tr.From] = row
		}
		row[tr.Symbol] = tr.To
	}

	states := make([]automaton.State, len(rec.States))
	for i, rs := range rec.States {
		items := make(automaton.ItemSet, len(rs.Items))
		for _, ri := range rs.Items {
			it := item.Item{NonTerminal: ri.NonTerminal, Left: ri.Left, Right: ri.Right, Lookahead: ri.Lookahead}
			items[it.Key()] = it
		}
		states[i] = automaton.State{Index: rs.Index, Items: items}
	}

	auto := automaton.Restore(rec.AugmentedStart, rec.Initial, states, transitions)

	action := map[int]map[string]table.Action{}
	for s, row := range rec.Action {
		actionRow := map[string]table.Action{}
		for term, ra := range row {
			actionRow[term] = table.Action{Type: table.ActionType(ra.Type), State: ra.State, Production: ra.Production}
		}
		action[s] = actionRow
	}

	var conflicts []table.Conflict
	for _, rc := range rec.Conflicts {
		conflicts = append(conflicts, table.Conflict{
			State:    rc.State,
			Terminal: rc.Terminal,
			Existing: table.Action{Type: table.ActionType(rc.Existing.Type), State: rc.Existing.State, Production: rc.Existing.Production},
			Proposed: table.Action{Type: table.ActionType(rc.Proposed.Type), State: rc.Proposed.State, Production: rc.Proposed.Production},
			Kind:     table.ConflictKind(rc.Kind),
		})
	}

	tbl := table.Restore(action, rec.Goto, conflicts)
	return auto, tbl
}
