package scanner

import (
	"errors"
	"sync"
	"testing"

	"github.com/d4l3k/messagediff"

	"lexfa/internal/automaton"
	"lexfa/internal/lexspec"
)

// ------------------------------------------------------------------- helpers

func compile(t *testing.T, rules ...automaton.Rule) *automaton.DFA {
	t.Helper()
	n, err := automaton.Build(rules, automaton.DefaultOptions())
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	return automaton.Determinize(n)
}

func render(toks []Token) []string {
	out := make([]string, len(toks))
	for i, tok := range toks {
		out[i] = tok.String()
	}
	return out
}

func expectTokens(t *testing.T, a Automaton, input string, opts Options, want []string) {
	t.Helper()
	toks, err := Tokenize(a, input, opts)
	if err != nil {
		t.Fatalf("tokenize %q: %v", input, err)
	}
	if diff, equal := messagediff.PrettyDiff(want, render(toks)); !equal {
		t.Fatalf("tokens of %q:\n%s", input, diff)
	}
}

// ------------------------------------------------------------------- scenarios

func TestRoundTripArithmetic(t *testing.T) {
	d := compile(t,
		automaton.Rule{Name: "NUM", Pattern: `\d+`},
		automaton.Rule{Name: "ADD", Pattern: "+"},
		automaton.Rule{Name: "SEMI", Pattern: ";"},
	)
	expectTokens(t, d, "12+3;", DefaultOptions(),
		[]string{`NUM("12")`, `ADD("+")`, `NUM("3")`, `SEMI(";")`})
}

func TestReservedWordBeatsIdentifier(t *testing.T) {
	for _, rules := range [][]automaton.Rule{
		{
			{Name: "RESERVED", Pattern: "int string", Reserved: true},
			{Name: "IDENT", Pattern: `[a-zA-Z_][a-zA-Z0-9_]*`},
		},
		{
			{Name: "IDENT", Pattern: `[a-zA-Z_][a-zA-Z0-9_]*`},
			{Name: "RESERVED", Pattern: "int string", Reserved: true},
		},
	} {
		d := compile(t, rules...)
		expectTokens(t, d, "int x", DefaultOptions(), []string{`RESERVED("int")`, `IDENT("x")`})
		expectTokens(t, d, "integer int2 string", DefaultOptions(),
			[]string{`IDENT("integer")`, `IDENT("int2")`, `RESERVED("string")`})
	}
}

func TestDefaultLanguage(t *testing.T) {
	d := compile(t, lexspec.Default()...)
	src := "int x = 10;\nstring y = \"hello\";\nint z = x + 20;"
	expectTokens(t, d, src, DefaultOptions(), []string{
		`RESERVED("int")`, `IDENTIFIER("x")`, `OPERATOR("=")`, `INTEGER("10")`, `SEPARATOR(";")`,
		`RESERVED("string")`, `IDENTIFIER("y")`, `OPERATOR("=")`, `STRING("\"hello\"")`, `SEPARATOR(";")`,
		`RESERVED("int")`, `IDENTIFIER("z")`, `OPERATOR("=")`, `IDENTIFIER("x")`, `OPERATOR("+")`,
		`INTEGER("20")`, `SEPARATOR(";")`,
	})
}

func TestFallsBackToLastAccept(t *testing.T) {
	d := compile(t,
		automaton.Rule{Name: "ABC", Pattern: "abc"},
		automaton.Rule{Name: "A", Pattern: "a"},
	)
	s := New(d, "abx", DefaultOptions())
	tok, err := s.Next()
	if err != nil || tok.Type != "A" || tok.Text != "a" {
		t.Fatalf("want A(\"a\") got %v, %v", tok, err)
	}
	_, err = s.Next()
	var se *Error
	if !errors.As(err, &se) {
		t.Fatalf("want *Error got %v", err)
	}
	if se.Char != 'b' || se.Pos != (Position{Offset: 1, Line: 1, Column: 2}) {
		t.Fatalf("error %+v", se)
	}
}

func TestScanFailure(t *testing.T) {
	d := compile(t, automaton.Rule{Name: "NUM", Pattern: `\d+`})
	toks, err := Tokenize(d, "12\n 3@4", DefaultOptions())
	if !errors.Is(err, ErrNoMatch) {
		t.Fatalf("want ErrNoMatch got %v", err)
	}
	var se *Error
	if !errors.As(err, &se) || se.Pos != (Position{Offset: 5, Line: 2, Column: 3}) || se.Char != '@' {
		t.Fatalf("error %+v", err)
	}
	if got := render(toks); len(got) != 2 {
		t.Fatalf("tokens before the failure: %v", got)
	}
	if se.Error() != `2:3: no token matches at '@'` {
		t.Fatalf("message %q", se.Error())
	}
}

func TestNoZeroLengthTokens(t *testing.T) {
	d := compile(t, automaton.Rule{Name: "XS", Pattern: "x*"})
	if !d.IsAccepting(d.Start()) {
		t.Fatal("start should accept the empty string")
	}
	_, err := Tokenize(d, "y", DefaultOptions())
	if !errors.Is(err, ErrNoMatch) {
		t.Fatalf("want ErrNoMatch got %v", err)
	}
	expectTokens(t, d, "xx", DefaultOptions(), []string{`XS("xx")`})
}

func TestRecover(t *testing.T) {
	d := compile(t, automaton.Rule{Name: "NUM", Pattern: `\d+`})
	opts := DefaultOptions()
	opts.Recover = true
	expectTokens(t, d, "1 @@ 2", opts,
		[]string{`NUM("1")`, `ILLEGAL("@")`, `ILLEGAL("@")`, `NUM("2")`})
}

func TestSkipTypesAndPositions(t *testing.T) {
	d := compile(t,
		automaton.Rule{Name: "WS", Pattern: `\s+`},
		automaton.Rule{Name: "ID", Pattern: `[a-z]+`},
	)
	toks, err := Tokenize(d, "ab\n  cd", Options{Skip: []string{"WS"}})
	if err != nil {
		t.Fatal(err)
	}
	want := []Token{
		{Type: "ID", Text: "ab", Pos: Position{Offset: 0, Line: 1, Column: 1}},
		{Type: "ID", Text: "cd", Pos: Position{Offset: 5, Line: 2, Column: 3}},
	}
	if diff, equal := messagediff.PrettyDiff(want, toks); !equal {
		t.Fatalf("tokens:\n%s", diff)
	}

	expectTokens(t, d, "ab cd", Options{}, []string{`ID("ab")`, `WS(" ")`, `ID("cd")`})
}

func TestLines(t *testing.T) {
	d := compile(t, lexspec.Simple()...)
	src := "int a = 0 ;\nin b = 5 + a ;\nstring c = \"teSte\" ;\nint ? ;"
	got, err := Lines(d, src, DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	want := []string{
		"INT VAR EQ NUM SEMICOLON",
		"VAR VAR EQ NUM ADD VAR SEMICOLON",
		"STRING VAR EQ CONST SEMICOLON",
		"INT ILLEGAL SEMICOLON",
	}
	if diff, equal := messagediff.PrettyDiff(want, got); !equal {
		t.Fatalf("lines:\n%s", diff)
	}
}

func TestLinesTrailingNewline(t *testing.T) {
	d := compile(t, lexspec.Simple()...)
	tests := []struct {
		src  string
		want []string
	}{
		{"int a = 0 ;\n", []string{"INT VAR EQ NUM SEMICOLON"}},
		{"int a = 0 ;\r\n", []string{"INT VAR EQ NUM SEMICOLON"}},
		{"a ;\n\nb ;\n", []string{"VAR SEMICOLON", "", "VAR SEMICOLON"}},
		{"\n", nil},
		{"", nil},
	}
	for _, tt := range tests {
		got, err := Lines(d, tt.src, DefaultOptions())
		if err != nil {
			t.Fatalf("%q: %v", tt.src, err)
		}
		if diff, equal := messagediff.PrettyDiff(tt.want, got); !equal {
			t.Errorf("lines of %q:\n%s", tt.src, diff)
		}
	}
}

func TestConcurrentReaders(t *testing.T) {
	d := compile(t, lexspec.Default()...)
	src := "int x = 10; string y = \"s\";"
	want, err := Tokenize(d, src, DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	var wg sync.WaitGroup
	errs := make(chan string, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := Tokenize(d, src, DefaultOptions())
			if err != nil {
				errs <- err.Error()
				return
			}
			if diff, equal := messagediff.PrettyDiff(want, got); !equal {
				errs <- diff
			}
		}()
	}
	wg.Wait()
	close(errs)
	for e := range errs {
		t.Error(e)
	}
}
