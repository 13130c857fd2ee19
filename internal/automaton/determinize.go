package automaton

// Determinize converts n into a DFA by subset construction.
//
// DFA states are discovered breadth first from the closure of the NFA
// start state, and the alphabet is walked in ascending order, so the
// same NFA always yields the same numbering. Subsets are keyed by their
// canonical encoding; only reachable subsets get a state. An empty move
// leaves the transition undefined.
//
// n is frozen as a side effect. Determinize never fails on an NFA that
// passes Validate.
func Determinize(n *NFA) *DFA {
	n.Freeze()

	d := &DFA{
		accept:   map[int]Accept{},
		alphabet: n.Alphabet(),
	}
	ids := map[string]int{}
	var queue []StateSet

	name := func(set StateSet) (int, bool) {
		k := set.Key()
		if id, ok := ids[k]; ok {
			return id, false
		}
		id := len(d.subsets)
		ids[k] = id
		d.subsets = append(d.subsets, set.Sorted())
		d.trans = append(d.trans, map[rune]int{})
		if a, ok := n.bestAccept(set); ok {
			d.accept[id] = a
		}
		queue = append(queue, set)
		return id, true
	}

	name(n.Closure(NewStateSet(n.start)))
	for cur := 0; len(queue) > 0; cur++ {
		set := queue[0]
		queue = queue[1:]
		for _, sym := range d.alphabet {
			moved := n.Move(set, sym)
			if len(moved) == 0 {
				continue
			}
			to, _ := name(n.Closure(moved))
			d.trans[cur][sym] = to
		}
	}
	return d
}

// bestAccept picks the winning label among the accepting members of set.
// Ties on priority fall back to the token name so the choice never
// depends on map order.
func (n *NFA) bestAccept(set StateSet) (Accept, bool) {
	var best Accept
	found := false
	for s := range set {
		a, ok := n.accept[s]
		if !ok {
			continue
		}
		if !found || a.Priority < best.Priority ||
			(a.Priority == best.Priority && a.Token < best.Token) {
			best = a
			found = true
		}
	}
	return best, found
}
