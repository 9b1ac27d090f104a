// Package util holds small generic containers shared across the lr1
// packages: a map-backed string set (with a sorted view) and a slice-backed
// stack.
package util

import "sort"

// StringSet is a set of strings backed by a map, in the same shape as the
// teacher's set type: zero value is unusable, use NewStringSet or make one
// with make(StringSet).
type StringSet map[string]bool

// NewStringSet creates a StringSet, optionally seeded from the given slices.
func NewStringSet(of ...[]string) StringSet {
	s := StringSet{}
	for _, sl := range of {
		for _, v := range sl {
			s.Add(v)
		}
	}
	return s
}

func (s StringSet) Add(v string) {
	s[v] = true
}

func (s StringSet) AddAll(o StringSet) {
	for v := range o {
		s.Add(v)
	}
}

func (s StringSet) Remove(v string) {
	delete(s, v)
}

func (s StringSet) Has(v string) bool {
	return s[v]
}

func (s StringSet) Len() int {
	return len(s)
}

func (s StringSet) Empty() bool {
	return len(s) == 0
}

// Copy returns a shallow copy of s.
func (s StringSet) Copy() StringSet {
	return NewStringSet(s.Elements())
}

// Elements returns the set's members in unspecified order.
func (s StringSet) Elements() []string {
	elems := make([]string, 0, len(s))
	for v := range s {
		elems = append(elems, v)
	}
	return elems
}

// Sorted returns the set's members sorted alphabetically. This is the form
// the serialization surface and table printers use so that output is
// deterministic.
func (s StringSet) Sorted() []string {
	elems := s.Elements()
	sort.Strings(elems)
	return elems
}

// Union returns a new set containing every element of s and o.
func (s StringSet) Union(o StringSet) StringSet {
	u := s.Copy()
	u.AddAll(o)
	return u
}

// Equal returns whether s and o contain exactly the same elements.
func (s StringSet) Equal(o StringSet) bool {
	if len(s) != len(o) {
		return false
	}
	for v := range s {
		if !o.Has(v) {
			return false
		}
	}
	return true
}
