package automaton

import "fmt"

// Character classes available as escapes and as the universe of negated
// classes. Classification is ASCII only.
var (
	digitSet = runeRange('0', '9')
	wordSet  = concatRunes(runeRange('a', 'z'), runeRange('A', 'Z'), digitSet, []rune{'_'})
	spaceSet = []rune{'\t', '\n', '\v', '\f', '\r', ' '}
	// printable ASCII plus tab
	universe = append([]rune{'\t'}, runeRange(' ', '~')...)
)

func runeRange(lo, hi rune) []rune {
	out := make([]rune, 0, hi-lo+1)
	for r := lo; r <= hi; r++ {
		out = append(out, r)
	}
	return out
}

func concatRunes(parts ...[]rune) []rune {
	var out []rune
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

// atom is the most recent single step of the chain, kept so that a
// following quantifier can rewire it.
type atom struct {
	entry, exit StateID
	syms        []rune
}

// patternCompiler compiles one pattern in a single left-to-right pass.
// pos is the cursor into the pattern; every construct is handled by its
// own method so failures point at the construct that caused them.
type patternCompiler struct {
	src     string
	pattern []rune
	pos     int

	nfa *NFA
	cur StateID

	last    *atom // nil when no atom may be quantified
	inGroup bool
	symbols int // atoms emitted
}

// CompilePattern compiles a restricted regular expression into a
// fragment with one start and one accepting state. Supported syntax:
// literals, escapes, classes with ranges, (?:...) groups of those, the
// postfix quantifiers *, + and ? on a single atom, and \b as a no-op
// delimiter. Anything else is rejected with ErrUnsupported.
func CompilePattern(alloc *Allocator, pattern string) (*NFA, error) {
	c := &patternCompiler{
		src:     pattern,
		pattern: []rune(pattern),
		nfa:     NewNFA(alloc),
	}
	c.cur = c.nfa.AddState()
	c.nfa.SetStart(c.cur)

	for c.pos < len(c.pattern) {
		if err := c.step(); err != nil {
			return nil, err
		}
	}
	if c.inGroup {
		return nil, c.errorf(len(c.pattern), ErrUnterminatedGroup, "")
	}
	if c.symbols == 0 {
		return nil, c.errorf(0, ErrEmptyPattern, "")
	}
	c.nfa.SetAccepting(c.cur, Accept{})
	return c.nfa, nil
}

func (c *patternCompiler) errorf(offset int, kind error, format string, args ...any) error {
	return &SyntaxError{
		Pattern: c.src,
		Offset:  offset,
		Err:     kind,
		Detail:  fmt.Sprintf(format, args...),
	}
}

func (c *patternCompiler) peek(off int) (rune, bool) {
	if c.pos+off >= len(c.pattern) {
		return 0, false
	}
	return c.pattern[c.pos+off], true
}

func (c *patternCompiler) step() error {
	r := c.pattern[c.pos]
	switch r {
	case '[':
		return c.class()
	case '\\':
		return c.escape()
	case '(':
		return c.openGroup()
	case ')':
		return c.closeGroup()
	case '*', '+', '?':
		return c.quantifier(r)
	case '|', '.', '^', '$', '{':
		return c.errorf(c.pos, ErrUnsupported, "operator %q", r)
	default:
		c.pos++
		c.emit([]rune{r})
		return nil
	}
}

// emit appends one chain step on syms from the current state to a new
// state. All symbols share the same destination.
func (c *patternCompiler) emit(syms []rune) {
	next := c.nfa.AddState()
	for _, s := range syms {
		c.nfa.AddTransition(c.cur, s, next)
	}
	c.last = &atom{entry: c.cur, exit: next, syms: syms}
	c.cur = next
	c.symbols++
}

func (c *patternCompiler) class() error {
	open := c.pos
	c.pos++ // '['
	negate := false
	if r, ok := c.peek(0); ok && r == '^' {
		negate = true
		c.pos++
	}

	set := map[rune]struct{}{}
	var order []rune
	add := func(rs ...rune) {
		for _, r := range rs {
			if _, dup := set[r]; !dup {
				set[r] = struct{}{}
				order = append(order, r)
			}
		}
	}

	for {
		r, ok := c.peek(0)
		if !ok {
			return c.errorf(open, ErrUnterminatedClass, "")
		}
		if r == ']' {
			c.pos++
			break
		}

		lo, shorthand, err := c.classMember()
		if err != nil {
			return err
		}
		if shorthand != nil {
			add(shorthand...)
			continue
		}

		// a '-' directly before ']' is a literal
		if dash, ok := c.peek(0); ok && dash == '-' {
			if end, ok := c.peek(1); ok && end != ']' {
				rangeAt := c.pos
				c.pos++
				hi, sh, err := c.classMember()
				if err != nil {
					return err
				}
				if sh != nil || hi < lo {
					return c.errorf(rangeAt, ErrBadRange, "%q-%q", lo, hi)
				}
				add(runeRange(lo, hi)...)
				continue
			}
		}
		add(lo)
	}

	if negate {
		var kept []rune
		for _, r := range universe {
			if _, ok := set[r]; !ok {
				kept = append(kept, r)
			}
		}
		order = kept
	}
	if len(order) == 0 {
		return c.errorf(open, ErrEmptyClass, "")
	}
	c.emit(order)
	return nil
}

// classMember reads one member of a class: a literal rune, or an escape
// which may expand to a shorthand set.
func (c *patternCompiler) classMember() (rune, []rune, error) {
	r := c.pattern[c.pos]
	c.pos++
	if r != '\\' {
		return r, nil, nil
	}
	esc, ok := c.peek(0)
	if !ok {
		return 0, nil, c.errorf(c.pos-1, ErrTrailingEscape, "")
	}
	c.pos++
	if set := shorthand(esc); set != nil {
		return 0, set, nil
	}
	return unescape(esc), nil, nil
}

func (c *patternCompiler) escape() error {
	at := c.pos
	c.pos++ // '\'
	esc, ok := c.peek(0)
	if !ok {
		return c.errorf(at, ErrTrailingEscape, "")
	}
	c.pos++
	if esc == 'b' {
		// word-boundary marker: nothing to match, nothing to quantify
		c.last = nil
		return nil
	}
	if set := shorthand(esc); set != nil {
		c.emit(set)
		return nil
	}
	c.emit([]rune{unescape(esc)})
	return nil
}

func (c *patternCompiler) openGroup() error {
	at := c.pos
	if c.inGroup {
		return c.errorf(at, ErrUnsupported, "nested group")
	}
	q, ok1 := c.peek(1)
	colon, ok2 := c.peek(2)
	if !ok1 || !ok2 || q != '?' || colon != ':' {
		return c.errorf(at, ErrUnsupported, "capturing group")
	}
	c.pos += 3
	c.inGroup = true
	c.last = nil
	return nil
}

func (c *patternCompiler) closeGroup() error {
	if !c.inGroup {
		return c.errorf(c.pos, ErrUnsupported, "unbalanced )")
	}
	c.pos++
	c.inGroup = false
	if r, ok := c.peek(0); ok && isQuantifier(r) {
		return c.errorf(c.pos, ErrUnsupported, "quantified group")
	}
	c.last = nil
	return nil
}

func (c *patternCompiler) quantifier(q rune) error {
	if c.last == nil {
		if c.pos == 0 {
			// leading quantifier has nothing to repeat; it is the literal
			c.pos++
			c.emit([]rune{q})
			return nil
		}
		return c.errorf(c.pos, ErrUnsupported, "%q without operand", q)
	}
	c.pos++
	a := c.last
	if q == '?' || q == '*' {
		c.nfa.AddTransition(a.entry, Epsilon, a.exit)
	}
	if q == '+' || q == '*' {
		for _, s := range a.syms {
			c.nfa.AddTransition(a.exit, s, a.exit)
		}
	}
	c.last = nil
	return nil
}

func isQuantifier(r rune) bool { return r == '*' || r == '+' || r == '?' }

func shorthand(esc rune) []rune {
	switch esc {
	case 'd':
		return digitSet
	case 'w':
		return wordSet
	case 's':
		return spaceSet
	}
	return nil
}

func unescape(esc rune) rune {
	switch esc {
	case 'n':
		return '\n'
	case 't':
		return '\t'
	case 'r':
		return '\r'
	}
	return esc
}
