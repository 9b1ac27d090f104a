package grammar

import "github.com/corvidlabs/lr1trace/internal/util"

// Analysis holds the FIRST and FOLLOW tables computed for a grammar. FIRST
// is defined for every terminal, non-terminal, and epsilon; FOLLOW is
// defined only for non-terminals. Per spec.md 9's resolution of the open
// question, FOLLOW here is diagnostic only: closure (internal/lr1/automaton)
// never consults it, using FirstOfSequence directly instead.
type Analysis struct {
	g      *Grammar
	first  map[string]util.StringSet
	follow map[string]util.StringSet
}

// Analyze computes FIRST and FOLLOW for g by fixed-point iteration, per
// spec.md 4.2. g.Classify must have already produced a stable terminal/
// non-terminal split (Analyze calls Classify itself, so this is automatic).
func Analyze(g *Grammar) *Analysis {
	g.Classify()

	a := &Analysis{
		g:      g,
		first:  map[string]util.StringSet{},
		follow: map[string]util.StringSet{},
	}
	a.computeFirst()
	a.computeFollow()
	return a
}

func (a *Analysis) ensureFirst(sym string) util.StringSet {
	s, ok := a.first[sym]
	if !ok {
		s = util.NewStringSet()
		a.first[sym] = s
	}
	return s
}

// computeFirst seeds FIRST(t) = {t} for every terminal, FIRST(epsilon) =
// {epsilon}, then iterates the production rule to a fixed point.
func (a *Analysis) computeFirst() {
	for _, t := range a.g.Terminals() {
		a.ensureFirst(t).Add(t)
	}
	a.ensureFirst(a.g.Epsilon).Add(a.g.Epsilon)
	for _, nt := range a.g.NonTerminals() {
		a.ensureFirst(nt)
	}

	changed := true
	for changed {
		changed = false

		for _, p := range a.g.productions {
			firstA := a.ensureFirst(p.LHS)

			if p.IsEpsilon() {
				if !firstA.Has(a.g.Epsilon) {
					firstA.Add(a.g.Epsilon)
					changed = true
				}
				continue
			}

			allNullable := true
			for _, x := range p.RHS {
				firstX := a.ensureFirst(x)
				for t := range firstX {
					if t == a.g.Epsilon {
						continue
					}
					if !firstA.Has(t) {
						firstA.Add(t)
						changed = true
					}
				}
				if !firstX.Has(a.g.Epsilon) {
					allNullable = false
					break
				}
			}
			if allNullable {
				if !firstA.Has(a.g.Epsilon) {
					firstA.Add(a.g.Epsilon)
					changed = true
				}
			}
		}
	}
}

// FirstOfSequence computes FIRST(X1 X2 ... Xk) by scanning left to right:
// add FIRST(Xi) minus epsilon, stopping as soon as some Xi is not nullable.
// Epsilon is included in the result only if every Xi (including the empty
// sequence) is nullable. This is the routine the canonical collection
// builder's closure step reuses (spec.md 4.2/4.4).
func (a *Analysis) FirstOfSequence(seq []string) util.StringSet {
	result := util.NewStringSet()
	allNullable := true

	for _, x := range seq {
		firstX := a.First(x)
		for t := range firstX {
			if t != a.g.Epsilon {
				result.Add(t)
			}
		}
		if !firstX.Has(a.g.Epsilon) {
			allNullable = false
			break
		}
	}

	if allNullable {
		result.Add(a.g.Epsilon)
	}
	return result
}

// First returns FIRST(sym). A symbol never seen as a production symbol (for
// instance a lookahead token outside the grammar's own alphabet) falls back
// to the terminal seed rule, FIRST(sym) = {sym}.
func (a *Analysis) First(sym string) util.StringSet {
	if s, ok := a.first[sym]; ok {
		return s
	}
	return util.NewStringSet([]string{sym})
}

// computeFollow seeds FOLLOW(start) ⊇ {$} then iterates the production rule
// to a fixed point. Never includes epsilon, per spec.md 4.2.
func (a *Analysis) computeFollow() {
	for _, nt := range a.g.NonTerminals() {
		a.follow[nt] = util.NewStringSet()
	}
	a.follow[a.g.start].Add(a.g.EndMarker)

	changed := true
	for changed {
		changed = false

		for _, p := range a.g.productions {
			for i, b := range p.RHS {
				if !a.g.IsNonTerminal(b) {
					continue
				}
				beta := p.RHS[i+1:]
				firstBeta := a.FirstOfSequence(beta)

				followB := a.follow[b]
				for t := range firstBeta {
					if t == a.g.Epsilon {
						continue
					}
					if !followB.Has(t) {
						followB.Add(t)
						changed = true
					}
				}

				if len(beta) == 0 || firstBeta.Has(a.g.Epsilon) {
					for t := range a.follow[p.LHS] {
						if !followB.Has(t) {
							followB.Add(t)
							changed = true
						}
					}
				}
			}
		}
	}
}

// Follow returns FOLLOW(nt). Unknown or terminal symbols return an empty
// set.
func (a *Analysis) Follow(nt string) util.StringSet {
	if s, ok := a.follow[nt]; ok {
		return s
	}
	return util.NewStringSet()
}
