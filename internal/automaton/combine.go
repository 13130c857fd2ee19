package automaton

import (
	"context"
	"fmt"
	"log/slog"
)

// Rule defines one token type. Pattern is a restricted regular
// expression, or a word list when Reserved is set.
type Rule struct {
	Name     string
	Pattern  string
	Reserved bool
}

// Fragment is a compiled rule waiting to be combined.
type Fragment struct {
	Name     string
	Priority int
	NFA      *NFA
}

// Options configures Build.
type Options struct {
	// Logger receives debug output about the build. Nil disables it.
	Logger *slog.Logger
}

// DefaultOptions returns Options with logging disabled.
func DefaultOptions() Options {
	return Options{}
}

// Combine merges fragments into one NFA with a fresh start state and an
// epsilon edge to each fragment's start. Every accepting state of a
// fragment is labelled with the fragment's name and priority. All
// fragments must have been built with alloc.
func Combine(alloc *Allocator, frags []Fragment) *NFA {
	n := NewNFA(alloc)
	start := n.AddState()
	n.SetStart(start)
	for _, f := range frags {
		if f.NFA.alloc != alloc {
			panic(fmt.Sprintf("automaton: fragment %s built with a different allocator", f.Name))
		}
		n.AddTransition(start, Epsilon, f.NFA.start)
		n.absorb(f.NFA, Accept{Token: f.Name, Priority: f.Priority})
	}
	return n
}

func (n *NFA) absorb(frag *NFA, label Accept) {
	for s := range frag.states {
		n.states.Add(s)
	}
	for from, bySym := range frag.trans {
		for sym, dst := range bySym {
			for to := range dst {
				n.AddTransition(from, sym, to)
			}
		}
	}
	for s := range frag.accept {
		n.SetAccepting(s, label)
	}
}

// Build compiles rules with one allocator and combines them into a
// frozen NFA. The reserved-word rule, if any, outranks every other rule;
// the remaining rules rank in declaration order.
func Build(rules []Rule, opts Options) (*NFA, error) {
	if err := checkRules(rules); err != nil {
		return nil, err
	}
	log := opts.Logger
	if log == nil {
		log = slog.New(discardHandler{})
	}

	alloc := NewAllocator()
	frags := make([]Fragment, 0, len(rules))
	for i, r := range rules {
		var (
			frag *NFA
			err  error
		)
		prio := i + 1
		if r.Reserved {
			frag, err = CompileReserved(alloc, r.Pattern)
			prio = 0
		} else {
			frag, err = CompilePattern(alloc, r.Pattern)
		}
		if err != nil {
			return nil, &RuleError{Rule: r.Name, Err: err}
		}
		log.Debug("compiled rule", "rule", r.Name, "reserved", r.Reserved,
			"priority", prio, "start", frag.start.String(), "states", frag.Len())
		frags = append(frags, Fragment{Name: r.Name, Priority: prio, NFA: frag})
	}

	n := Combine(alloc, frags)
	n.Freeze()
	log.Debug("combined NFA", "states", n.Len(), "accepting", len(n.accept),
		"alphabet", len(n.Alphabet()))
	return n, nil
}

func checkRules(rules []Rule) error {
	seen := map[string]bool{}
	reserved := ""
	for _, r := range rules {
		if r.Name == "" {
			return fmt.Errorf("%w: empty name", ErrInvalidRule)
		}
		if seen[r.Name] {
			return &RuleError{Rule: r.Name, Err: ErrDuplicateRule}
		}
		seen[r.Name] = true
		if r.Reserved {
			if reserved != "" {
				return &RuleError{Rule: r.Name, Err: fmt.Errorf("%w (already %s)", ErrMultipleReserved, reserved)}
			}
			reserved = r.Name
		}
	}
	return nil
}

type discardHandler struct{}

func (discardHandler) Enabled(context.Context, slog.Level) bool { return false }
func (discardHandler) Handle(context.Context, slog.Record) error { return nil }
func (h discardHandler) WithAttrs([]slog.Attr) slog.Handler { return h }
func (h discardHandler) WithGroup(string) slog.Handler { return h }
