package automaton

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
)

// ExportDOT writes a Graphviz rendering of an *NFA or *DFA to w.
func ExportDOT(w io.Writer, g any) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, "digraph G {")
	fmt.Fprintln(bw, "    rankdir=LR;")

	switch t := g.(type) {

	//------------------------------------------------------------------ DFA
	case *DFA:
		for s := range t.trans {
			fmt.Fprintf(bw, "    %s [shape=%s%s];\n", dfaName(s), shape(t.IsAccepting(s)), dfaLabel(t, s))
			for _, sym := range t.alphabet {
				if to, ok := t.trans[s][sym]; ok {
					fmt.Fprintf(bw, "    %s -> %s [label=%s];\n", dfaName(s), dfaName(to), dotSymbol(sym))
				}
			}
		}
		fmt.Fprintf(bw, "    _start [shape=point]; _start -> %s;\n", dfaName(t.Start()))

	//------------------------------------------------------------------ NFA
	case *NFA:
		for _, s := range t.States() {
			label := ""
			if a, ok := t.accept[s]; ok && a.Token != "" {
				label = fmt.Sprintf(", xlabel=%s", strconv.Quote(a.Token))
			}
			fmt.Fprintf(bw, "    %v [shape=%s%s];\n", s, shape(t.IsAccepting(s)), label)
		}
		syms := append([]rune{Epsilon}, t.Alphabet()...)
		for _, from := range t.States() {
			for _, sym := range syms {
				for _, to := range t.trans[from][sym].Sorted() {
					fmt.Fprintf(bw, "    %v -> %v [label=%s];\n", from, to, dotSymbol(sym))
				}
			}
		}
		fmt.Fprintf(bw, "    _start [shape=point]; _start -> %v;\n", t.start)

	default:
		return fmt.Errorf("automaton: cannot export %T as DOT", g)
	}

	fmt.Fprintln(bw, "}")
	return bw.Flush()
}

func shape(accepting bool) string {
	if accepting {
		return "doublecircle"
	}
	return "circle"
}

func dfaLabel(d *DFA, s int) string {
	if tok, ok := d.Token(s); ok && tok != "" {
		return fmt.Sprintf(", xlabel=%s", strconv.Quote(tok))
	}
	return ""
}

func dotSymbol(sym rune) string {
	if sym == Epsilon {
		return `"ε"`
	}
	return strconv.Quote(string(sym))
}
