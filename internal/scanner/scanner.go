// Package scanner splits input into tokens by running a DFA with the
// maximal-munch rule.
package scanner

import (
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"
	"unicode"
)

// Illegal is the token type emitted for an unmatched rune when Recover
// is set.
const Illegal = "ILLEGAL"

// ErrNoMatch is matched by every *Error.
var ErrNoMatch = errors.New("no token matches")

// Automaton is what the scanner needs from a DFA. *automaton.DFA
// satisfies it.
type Automaton interface {
	// Start returns the initial state.
	Start() int
	// Step returns the next state on r, or false when there is none.
	Step(state int, r rune) (int, bool)
	// Token returns the token type of an accepting state.
	Token(state int) (string, bool)
}

// Position locates a rune in the input. Offset counts runes from zero;
// Line and Column start at one.
type Position struct {
	Offset int
	Line   int
	Column int
}

func (p Position) String() string { return fmt.Sprintf("%d:%d", p.Line, p.Column) }

type Token struct {
	Type string
	Text string
	Pos  Position
}

func (t Token) String() string { return fmt.Sprintf("%s(%q)", t.Type, t.Text) }

// Error reports input that no token type matches.
type Error struct {
	Pos  Position
	Char rune
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %v at %q", e.Pos, ErrNoMatch, e.Char)
}

func (e *Error) Is(target error) bool { return target == ErrNoMatch }

// Options configures a Scanner.
type Options struct {
	// SkipWhitespace drops Unicode white space between tokens.
	SkipWhitespace bool
	// Skip lists token types that are matched but not returned.
	Skip []string
	// Recover turns a failure into an Illegal token covering one rune.
	Recover bool
}

// DefaultOptions skips white space and stops at the first failure.
func DefaultOptions() Options {
	return Options{SkipWhitespace: true}
}

type Scanner struct {
	a     Automaton
	input []rune
	opts  Options

	pos  Position
	done bool
}

func New(a Automaton, input string, opts Options) *Scanner {
	return &Scanner{
		a:     a,
		input: []rune(input),
		opts:  opts,
		pos:   Position{Line: 1, Column: 1},
	}
}

// Next returns the next token, io.EOF once the input is consumed, or an
// *Error at the first position no token matches. After an error the
// scanner stays at that position.
func (s *Scanner) Next() (Token, error) {
	for {
		if s.opts.SkipWhitespace {
			for s.pos.Offset < len(s.input) && unicode.IsSpace(s.input[s.pos.Offset]) {
				s.advance(1)
			}
		}
		if s.pos.Offset >= len(s.input) {
			return Token{}, io.EOF
		}

		start := s.pos
		typ, n := s.longest()
		if n == 0 {
			if !s.opts.Recover {
				return Token{}, &Error{Pos: start, Char: s.input[start.Offset]}
			}
			typ, n = Illegal, 1
		}
		tok := Token{Type: typ, Text: string(s.input[start.Offset : start.Offset+n]), Pos: start}
		s.advance(n)
		if slices.Contains(s.opts.Skip, typ) {
			continue
		}
		return tok, nil
	}
}

// longest runs the automaton from the current offset and returns the
// token type and rune length of the longest accepted prefix. Zero length
// means no prefix was accepted.
func (s *Scanner) longest() (string, int) {
	state := s.a.Start()
	bestType, bestLen := "", 0
	for i := s.pos.Offset; i < len(s.input); i++ {
		next, ok := s.a.Step(state, s.input[i])
		if !ok {
			break
		}
		state = next
		if typ, ok := s.a.Token(state); ok {
			bestType, bestLen = typ, i-s.pos.Offset+1
		}
	}
	return bestType, bestLen
}

func (s *Scanner) advance(n int) {
	for ; n > 0; n-- {
		if s.input[s.pos.Offset] == '\n' {
			s.pos.Line++
			s.pos.Column = 1
		} else {
			s.pos.Column++
		}
		s.pos.Offset++
	}
}

// Tokenize scans all of input.
func Tokenize(a Automaton, input string, opts Options) ([]Token, error) {
	s := New(a, input, opts)
	var out []Token
	for {
		tok, err := s.Next()
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return out, err
		}
		out = append(out, tok)
	}
}

// Lines scans input line by line and returns, per line, the token types
// joined by a space. A final newline does not start another line.
// Failures are always recovered and show up as Illegal.
func Lines(a Automaton, input string, opts Options) ([]string, error) {
	opts.Recover = true
	input = strings.TrimSuffix(input, "\n")
	if input == "" {
		return nil, nil
	}
	var out []string
	for _, line := range strings.Split(input, "\n") {
		toks, err := Tokenize(a, strings.TrimSpace(line), opts)
		if err != nil {
			return out, err
		}
		types := make([]string, len(toks))
		for i, t := range toks {
			types[i] = t.Type
		}
		out = append(out, strings.Join(types, " "))
	}
	return out, nil
}
