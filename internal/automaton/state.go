package automaton

import (
	"slices"
	"strconv"
	"strings"
)

// StateID identifies an NFA state. Identifiers are unique within the
// automaton built from one Allocator and carry no other meaning.
type StateID uint32

func (s StateID) String() string { return "q" + strconv.FormatUint(uint64(s), 10) }

// Allocator issues state identifiers for a single automaton build.
// The zero value is ready to use.
type Allocator struct {
	next StateID
}

// NewAllocator returns a fresh allocator starting at q0.
func NewAllocator() *Allocator { return &Allocator{} }

// New returns the next unused identifier.
func (a *Allocator) New() StateID {
	id := a.next
	a.next++
	return id
}

// Issued reports how many identifiers were handed out so far.
func (a *Allocator) Issued() int { return int(a.next) }

// StateSet is an unordered set of NFA states.
type StateSet map[StateID]struct{}

// NewStateSet returns a set holding ids.
func NewStateSet(ids ...StateID) StateSet {
	s := make(StateSet, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

func (s StateSet) Add(id StateID) { s[id] = struct{}{} }

func (s StateSet) Has(id StateID) bool {
	_, ok := s[id]
	return ok
}

func (s StateSet) Len() int { return len(s) }

// Sorted returns the members in ascending order.
func (s StateSet) Sorted() []StateID {
	ids := make([]StateID, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Key is the canonical encoding of the set: equal sets give equal keys
// regardless of insertion or map iteration order.
func (s StateSet) Key() string {
	var b strings.Builder
	for i, id := range s.Sorted() {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.FormatUint(uint64(id), 10))
	}
	return b.String()
}

// Intersects reports whether s and o share a member.
func (s StateSet) Intersects(o StateSet) bool {
	small, big := s, o
	if len(small) > len(big) {
		small, big = big, small
	}
	for id := range small {
		if big.Has(id) {
			return true
		}
	}
	return false
}

func (s StateSet) String() string {
	ids := s.Sorted()
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = id.String()
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
