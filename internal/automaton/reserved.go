package automaton

import "strings"

// ReservedWords extracts the words of a reserved-word list. Words are
// maximal runs of ASCII letters, digits and underscores once any \b
// markers are removed; anything else separates them. Duplicates are
// dropped and the first occurrence keeps its place.
func ReservedWords(list string) []string {
	list = strings.ReplaceAll(list, `\b`, " ")
	fields := strings.FieldsFunc(list, func(r rune) bool { return !isWordRune(r) })
	seen := map[string]bool{}
	out := fields[:0]
	for _, w := range fields {
		if !seen[w] {
			seen[w] = true
			out = append(out, w)
		}
	}
	return out
}

func isWordRune(r rune) bool {
	return r == '_' || ('0' <= r && r <= '9') || ('a' <= r && r <= 'z') || ('A' <= r && r <= 'Z')
}

// CompileReserved compiles a reserved-word list into a fragment whose
// start state has one branch per word. Each word is spelled out one rune
// per transition and ends in its own accepting state, so reserved words
// compete with other token types on equal terms during scanning.
func CompileReserved(alloc *Allocator, list string) (*NFA, error) {
	words := ReservedWords(list)
	if len(words) == 0 {
		return nil, ErrNoWords
	}
	n := NewNFA(alloc)
	start := n.AddState()
	n.SetStart(start)
	for _, w := range words {
		cur := start
		for _, r := range w {
			next := n.AddState()
			n.AddTransition(cur, r, next)
			cur = next
		}
		n.SetAccepting(cur, Accept{})
	}
	return n, nil
}
