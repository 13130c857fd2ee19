package lexspec

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/d4l3k/messagediff"

	"lexfa/internal/automaton"
)

const sampleDefs = "# token definitions\n" +
	"reserved KEYWORD = \"int string\"\n" +
	"IDENT = `[a-zA-Z_][a-zA-Z0-9_]*`;\n" +
	"NUM   = `\\d+`\n" +
	"STR   = \"\\\"[^\\\"]*\\\"\";   # quoted\n"

func TestParse(t *testing.T) {
	rules, err := Parse("defs.lex", sampleDefs)
	if err != nil {
		t.Fatal(err)
	}
	want := []automaton.Rule{
		{Name: "KEYWORD", Pattern: "int string", Reserved: true},
		{Name: "IDENT", Pattern: `[a-zA-Z_][a-zA-Z0-9_]*`},
		{Name: "NUM", Pattern: `\d+`},
		{Name: "STR", Pattern: `"[^"]*"`},
	}
	if diff, equal := messagediff.PrettyDiff(want, rules); !equal {
		t.Fatalf("rules:\n%s", diff)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name, src string
		is        error
		contains  string
	}{
		{"missing pattern", "A = ", nil, "defs.lex:1:"},
		{"missing equals", "A `a`", nil, "defs.lex:1:"},
		{"unterminated", "A = \"abc", nil, "defs.lex:1:"},
		{"duplicate", "A = `a`\nA = `b`\n", automaton.ErrDuplicateRule, "defs.lex:2:1"},
		{"empty", "# nothing here\n", ErrNoRules, "defs.lex"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse("defs.lex", tt.src)
			if err == nil {
				t.Fatal("want error")
			}
			if tt.is != nil && !errors.Is(err, tt.is) {
				t.Fatalf("want %v got %v", tt.is, err)
			}
			if !strings.Contains(err.Error(), tt.contains) {
				t.Fatalf("error %q lacks %q", err, tt.contains)
			}
		})
	}
}

func TestWriteRoundTrip(t *testing.T) {
	sets := map[string][]automaton.Rule{
		"escapes": {
			{Name: "A", Pattern: "`a\\"},
			{Name: "B", Pattern: "`\\\"x"},
			{Name: "C", Pattern: "`\\d+\\\\`"},
			{Name: "kw", Pattern: "`if` else", Reserved: true},
			{Name: "_x9", Pattern: `"[^"]*"`},
		},
	}
	for _, name := range Builtins() {
		rules, err := Lookup(name)
		if err != nil {
			t.Fatal(err)
		}
		sets[name] = rules
	}
	for name, rules := range sets {
		var buf bytes.Buffer
		if err := Write(&buf, rules); err != nil {
			t.Fatal(err)
		}
		back, err := Parse(name, buf.String())
		if err != nil {
			t.Fatalf("%s: %v\n%s", name, err, buf.String())
		}
		if diff, equal := messagediff.PrettyDiff(rules, back); !equal {
			t.Fatalf("%s round trip:\n%s", name, diff)
		}
	}
}

func TestWriteRejectsUnwritableNames(t *testing.T) {
	for _, name := range []string{"my-tok", "reserved", "", "9LIVES", "naïve"} {
		var buf bytes.Buffer
		err := Write(&buf, []automaton.Rule{
			{Name: "OK", Pattern: "a"},
			{Name: name, Pattern: "b"},
		})
		if !errors.Is(err, automaton.ErrInvalidRule) {
			t.Fatalf("%q: want ErrInvalidRule got %v", name, err)
		}
		if buf.Len() != 0 {
			t.Fatalf("%q: partial output %q", name, buf.String())
		}
	}
}

func TestQuoteFallsBackToDoubleQuotes(t *testing.T) {
	rules := []automaton.Rule{{Name: "TICK", Pattern: "`\"`"}}
	var buf bytes.Buffer
	if err := Write(&buf, rules); err != nil {
		t.Fatal(err)
	}
	back, err := Parse("tick", buf.String())
	if err != nil {
		t.Fatalf("%v\n%s", err, buf.String())
	}
	if back[0].Pattern != rules[0].Pattern {
		t.Fatalf("got %q want %q", back[0].Pattern, rules[0].Pattern)
	}
}

func TestParseYAML(t *testing.T) {
	src := `
rules:
  - name: KEYWORD
    pattern: int string
    reserved: true
  - name: NUM
    pattern: '\d+'
  - name: STR
    pattern: '"[^"]*"'
`
	rules, err := ParseYAML([]byte(src))
	if err != nil {
		t.Fatal(err)
	}
	want := []automaton.Rule{
		{Name: "KEYWORD", Pattern: "int string", Reserved: true},
		{Name: "NUM", Pattern: `\d+`},
		{Name: "STR", Pattern: `"[^"]*"`},
	}
	if diff, equal := messagediff.PrettyDiff(want, rules); !equal {
		t.Fatalf("rules:\n%s", diff)
	}

	out, err := MarshalYAML(want)
	if err != nil {
		t.Fatal(err)
	}
	back, err := ParseYAML(out)
	if err != nil {
		t.Fatalf("%v\n%s", err, out)
	}
	if diff, equal := messagediff.PrettyDiff(want, back); !equal {
		t.Fatalf("yaml round trip:\n%s", diff)
	}
}

func TestParseYAMLErrors(t *testing.T) {
	tests := []struct {
		name, src string
		is        error
	}{
		{"unknown field", "rules:\n  - name: A\n    regex: a\n", nil},
		{"missing name", "rules:\n  - pattern: a\n", automaton.ErrInvalidRule},
		{"empty", "rules: []\n", ErrNoRules},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseYAML([]byte(tt.src))
			if err == nil {
				t.Fatal("want error")
			}
			if tt.is != nil && !errors.Is(err, tt.is) {
				t.Fatalf("want %v got %v", tt.is, err)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	lex := filepath.Join(dir, "tokens.lex")
	yml := filepath.Join(dir, "tokens.yaml")
	if err := os.WriteFile(lex, []byte(sampleDefs), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(yml, []byte("rules:\n  - name: NUM\n    pattern: '\\d+'\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	rules, err := Load(lex)
	if err != nil || len(rules) != 4 {
		t.Fatalf("load %s: %v %v", lex, rules, err)
	}
	rules, err = Load(yml)
	if err != nil || len(rules) != 1 || rules[0].Pattern != `\d+` {
		t.Fatalf("load %s: %v %v", yml, rules, err)
	}
	if _, err := Load(filepath.Join(dir, "missing.lex")); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("want not-exist error, got %v", err)
	}
}

func TestBuiltinsBuild(t *testing.T) {
	for _, name := range Builtins() {
		rules, err := Lookup(name)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := automaton.Build(rules, automaton.DefaultOptions()); err != nil {
			t.Fatalf("%s: %v", name, err)
		}
	}
	if _, err := Lookup("nope"); err == nil {
		t.Fatal("want error for unknown set")
	}
}
