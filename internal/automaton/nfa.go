package automaton

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// Epsilon labels a transition that consumes no input.
const Epsilon rune = -1

// Accept labels an accepting state with the token type it recognises.
// Lower Priority wins when several token types accept the same input.
type Accept struct {
	Token    string
	Priority int
}

// NFA is a nondeterministic automaton over runes with epsilon edges.
// It is built incrementally and then frozen; a frozen NFA is read-only
// and safe for concurrent readers.
type NFA struct {
	alloc    *Allocator
	states   StateSet
	start    StateID
	hasStart bool
	accept   map[StateID]Accept
	trans    map[StateID]map[rune]StateSet
	frozen   bool
}

// NewNFA returns an empty NFA drawing identifiers from alloc. A nil
// alloc gets a private allocator.
func NewNFA(alloc *Allocator) *NFA {
	if alloc == nil {
		alloc = NewAllocator()
	}
	return &NFA{
		alloc:  alloc,
		states: StateSet{},
		accept: map[StateID]Accept{},
		trans:  map[StateID]map[rune]StateSet{},
	}
}

func (n *NFA) mustBeMutable() {
	if n.frozen {
		panic("automaton: mutating a frozen NFA")
	}
}

// AddState allocates a new state and adds it to the automaton.
func (n *NFA) AddState() StateID {
	n.mustBeMutable()
	id := n.alloc.New()
	n.states.Add(id)
	return id
}

// SetStart designates the start state, which must already belong to n.
func (n *NFA) SetStart(s StateID) {
	n.mustBeMutable()
	if !n.states.Has(s) {
		panic(fmt.Sprintf("automaton: start state %v not in NFA", s))
	}
	n.start = s
	n.hasStart = true
}

// SetAccepting marks s as accepting with label a.
func (n *NFA) SetAccepting(s StateID, a Accept) {
	n.mustBeMutable()
	n.accept[s] = a
}

// AddTransition adds an edge from -> to on sym; sym may be Epsilon.
func (n *NFA) AddTransition(from StateID, sym rune, to StateID) {
	n.mustBeMutable()
	bySym, ok := n.trans[from]
	if !ok {
		bySym = map[rune]StateSet{}
		n.trans[from] = bySym
	}
	dst, ok := bySym[sym]
	if !ok {
		dst = StateSet{}
		bySym[sym] = dst
	}
	dst.Add(to)
}

// Freeze makes n read-only. Freezing twice is harmless.
func (n *NFA) Freeze() { n.frozen = true }

func (n *NFA) Frozen() bool { return n.frozen }

func (n *NFA) Start() StateID { return n.start }

// States returns every state in ascending order.
func (n *NFA) States() []StateID { return n.states.Sorted() }

// Len returns the number of states.
func (n *NFA) Len() int { return len(n.states) }

// Accepting returns the accepting states in ascending order.
func (n *NFA) Accepting() []StateID {
	ids := make([]StateID, 0, len(n.accept))
	for id := range n.accept {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

func (n *NFA) IsAccepting(s StateID) bool {
	_, ok := n.accept[s]
	return ok
}

// AcceptOf returns the label of an accepting state.
func (n *NFA) AcceptOf(s StateID) (Accept, bool) {
	a, ok := n.accept[s]
	return a, ok
}

// Targets returns the destinations of s on sym. The result must not be
// modified.
func (n *NFA) Targets(s StateID, sym rune) StateSet {
	return n.trans[s][sym]
}

// Alphabet returns every non-epsilon symbol used by a transition, sorted.
func (n *NFA) Alphabet() []rune {
	seen := map[rune]struct{}{}
	for _, bySym := range n.trans {
		for sym := range bySym {
			if sym != Epsilon {
				seen[sym] = struct{}{}
			}
		}
	}
	out := make([]rune, 0, len(seen))
	for r := range seen {
		out = append(out, r)
	}
	slices.Sort(out)
	return out
}

// Validate checks that the start state exists and every transition and
// accepting state refers to a member state.
func (n *NFA) Validate() error {
	if !n.hasStart {
		return fmt.Errorf("%w: no start state", ErrMalformedNFA)
	}
	if !n.states.Has(n.start) {
		return fmt.Errorf("%w: start state %v not in NFA", ErrMalformedNFA, n.start)
	}
	for s := range n.accept {
		if !n.states.Has(s) {
			return fmt.Errorf("%w: accepting state %v not in NFA", ErrMalformedNFA, s)
		}
	}
	for from, bySym := range n.trans {
		if !n.states.Has(from) {
			return fmt.Errorf("%w: transition from unknown state %v", ErrMalformedNFA, from)
		}
		for sym, dst := range bySym {
			for to := range dst {
				if !n.states.Has(to) {
					return fmt.Errorf("%w: (%v, %s) leads to unknown state %v",
						ErrMalformedNFA, from, formatSymbol(sym), to)
				}
			}
		}
	}
	return nil
}

// String dumps start, accepting states and every transition as
// "(origin, symbol) -> {destinations}", ordered by origin then symbol.
func (n *NFA) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Start: %v\n", n.start)
	b.WriteString("Accepting: ")
	for i, s := range n.Accepting() {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(s.String())
		if tok := n.accept[s].Token; tok != "" {
			fmt.Fprintf(&b, " [%s]", tok)
		}
	}
	b.WriteString("\nTransitions:\n")
	for _, from := range n.States() {
		bySym := n.trans[from]
		syms := make([]rune, 0, len(bySym))
		for sym := range bySym {
			syms = append(syms, sym)
		}
		slices.Sort(syms)
		for _, sym := range syms {
			fmt.Fprintf(&b, "  (%v, %s) -> %v\n", from, formatSymbol(sym), bySym[sym])
		}
	}
	return b.String()
}

func formatSymbol(sym rune) string {
	if sym == Epsilon {
		return "ε"
	}
	return strconv.QuoteRune(sym)
}
