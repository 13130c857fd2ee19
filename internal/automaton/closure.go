package automaton

// Closure returns the epsilon-closure of set: every state reachable from
// a member through epsilon edges alone, members included. set itself is
// not modified.
func (n *NFA) Closure(set StateSet) StateSet {
	out := make(StateSet, len(set))
	stack := make([]StateID, 0, len(set))
	for s := range set {
		out.Add(s)
		stack = append(stack, s)
	}
	for len(stack) > 0 {
		s := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for to := range n.trans[s][Epsilon] {
			if !out.Has(to) {
				out.Add(to)
				stack = append(stack, to)
			}
		}
	}
	return out
}

// Move returns the states reached from set by one transition on sym,
// without closing over epsilon edges.
func (n *NFA) Move(set StateSet, sym rune) StateSet {
	out := StateSet{}
	for s := range set {
		for to := range n.trans[s][sym] {
			out.Add(to)
		}
	}
	return out
}
