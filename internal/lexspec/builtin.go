// Package lexspec loads ordered token rule sets for the automaton builder,
// either from the built-in sets, a definitions file or YAML.
package lexspec

import (
	"fmt"
	"slices"

	"lexfa/internal/automaton"
)

// Default is the token set of the small source language: identifiers,
// integers, strings, operators, separators and the reserved words.
func Default() []automaton.Rule {
	return []automaton.Rule{
		{Name: "IDENTIFIER", Pattern: `[a-zA-Z_][a-zA-Z0-9_]*`},
		{Name: "INTEGER", Pattern: `\d+`},
		{Name: "STRING", Pattern: `"[^"]*"`},
		{Name: "OPERATOR", Pattern: `[+\-*/=<>,]`},
		{Name: "SEPARATOR", Pattern: `[();,]`},
		{Name: "RESERVED", Pattern: `\b(int|string)\b`, Reserved: true},
	}
}

// Simple is the line analyser's ordered pattern list. Keywords win over
// VAR because they are declared first.
func Simple() []automaton.Rule {
	return []automaton.Rule{
		{Name: "INT", Pattern: `\bint\b`},
		{Name: "STRING", Pattern: `\bstring\b`},
		{Name: "EQ", Pattern: `=`},
		{Name: "NUM", Pattern: `\d+`},
		{Name: "CONST", Pattern: `"[^"]*"`},
		{Name: "ADD", Pattern: `\+`},
		{Name: "SEMICOLON", Pattern: `;`},
		{Name: "VAR", Pattern: `[a-zA-Z_][a-zA-Z_0-9]*`},
	}
}

var builtins = map[string]func() []automaton.Rule{
	"default": Default,
	"simple":  Simple,
}

// Builtins lists the names accepted by Lookup.
func Builtins() []string {
	names := make([]string, 0, len(builtins))
	for name := range builtins {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Lookup returns a built-in rule set by name.
func Lookup(name string) ([]automaton.Rule, error) {
	fn, ok := builtins[name]
	if !ok {
		return nil, fmt.Errorf("lexspec: unknown built-in rule set %q (have %v)", name, Builtins())
	}
	return fn(), nil
}
