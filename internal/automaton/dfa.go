package automaton

import (
	"fmt"
	"strconv"
	"strings"
)

// DFA is the deterministic automaton produced by Determinize. Each state
// stands for one epsilon-closed set of NFA states. A DFA is immutable and
// safe for concurrent use.
type DFA struct {
	subsets  [][]StateID
	accept   map[int]Accept
	alphabet []rune
	trans    []map[rune]int
}

// Start returns the start state. It is always 0.
func (d *DFA) Start() int { return 0 }

// Len returns the number of states.
func (d *DFA) Len() int { return len(d.subsets) }

// States returns every state identifier in ascending order.
func (d *DFA) States() []int {
	out := make([]int, len(d.subsets))
	for i := range out {
		out[i] = i
	}
	return out
}

// Accepting returns the accepting states in ascending order.
func (d *DFA) Accepting() []int {
	var out []int
	for i := range d.subsets {
		if _, ok := d.accept[i]; ok {
			out = append(out, i)
		}
	}
	return out
}

func (d *DFA) IsAccepting(s int) bool {
	_, ok := d.accept[s]
	return ok
}

// Token returns the token type recognised by an accepting state.
func (d *DFA) Token(s int) (string, bool) {
	a, ok := d.accept[s]
	return a.Token, ok
}

// AcceptOf returns the full accepting label of s.
func (d *DFA) AcceptOf(s int) (Accept, bool) {
	a, ok := d.accept[s]
	return a, ok
}

// Step follows the transition from s on r. The second result is false
// when no transition is defined.
func (d *DFA) Step(s int, r rune) (int, bool) {
	if s < 0 || s >= len(d.trans) {
		return 0, false
	}
	to, ok := d.trans[s][r]
	return to, ok
}

// Subset returns the NFA states that s stands for, sorted. It returns
// nil when s is not a state of d.
func (d *DFA) Subset(s int) []StateID {
	if s < 0 || s >= len(d.subsets) {
		return nil
	}
	return append([]StateID(nil), d.subsets[s]...)
}

// Alphabet returns the symbols inherited from the source NFA, sorted.
func (d *DFA) Alphabet() []rune {
	return append([]rune(nil), d.alphabet...)
}

// Accepts reports whether the whole of input is accepted.
func (d *DFA) Accepts(input string) bool {
	s := d.Start()
	for _, r := range input {
		var ok bool
		if s, ok = d.Step(s, r); !ok {
			return false
		}
	}
	return d.IsAccepting(s)
}

// String dumps start, accepting states and every transition as
// "(origin, symbol) -> destination".
func (d *DFA) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Start: %s\n", dfaName(d.Start()))
	b.WriteString("Accepting: ")
	for i, s := range d.Accepting() {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(dfaName(s))
		if tok := d.accept[s].Token; tok != "" {
			fmt.Fprintf(&b, " [%s]", tok)
		}
	}
	b.WriteString("\nTransitions:\n")
	for s := range d.trans {
		for _, sym := range d.alphabet {
			if to, ok := d.trans[s][sym]; ok {
				fmt.Fprintf(&b, "  (%s, %s) -> %s\n", dfaName(s), formatSymbol(sym), dfaName(to))
			}
		}
	}
	return b.String()
}

func dfaName(s int) string { return "Q" + strconv.Itoa(s) }
