package lexspec

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"lexfa/internal/automaton"
)

// ErrNoRules is returned for a definitions source without any rule.
var ErrNoRules = errors.New("lexspec: no rules defined")

// A definitions file lists one rule per entry, in priority order:
//
//	# comment
//	reserved KEYWORD = "int string"
//	IDENT = `[a-zA-Z_][a-zA-Z0-9_]*`;
//
// Patterns are back-quoted (verbatim) or double-quoted, where \" and \\
// are unescaped and any other backslash is kept as is. The trailing
// semicolon is optional.

type defsFile struct {
	Entries []*defsEntry `parser:"@@*"`
}

type defsEntry struct {
	Pos      lexer.Position
	Reserved bool   `parser:"@'reserved'?"`
	Name     string `parser:"@Ident '='"`
	Pattern  string `parser:"@(Raw | String) ';'?"`
}

var (
	defsLexer = lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Comment", Pattern: `#[^\n]*`},
		{Name: "Whitespace", Pattern: `[ \t\r\n]+`},
		{Name: "Raw", Pattern: "`[^`]*`"},
		{Name: "String", Pattern: `"(?:\\.|[^"\\])*"`},
		{Name: "Ident", Pattern: `[A-Za-z_][A-Za-z0-9_]*`},
		{Name: "Punct", Pattern: `[=;]`},
	})
	defsParser = participle.MustBuild[defsFile](
		participle.Lexer(defsLexer),
		participle.Elide("Comment", "Whitespace"),
	)
)

// Parse reads a definitions file. filename is used in error positions.
func Parse(filename, src string) ([]automaton.Rule, error) {
	f, err := defsParser.ParseString(filename, src)
	if err != nil {
		return nil, err
	}
	if len(f.Entries) == 0 {
		return nil, fmt.Errorf("%s: %w", filename, ErrNoRules)
	}
	seen := map[string]lexer.Position{}
	rules := make([]automaton.Rule, 0, len(f.Entries))
	for _, e := range f.Entries {
		if prev, dup := seen[e.Name]; dup {
			return nil, fmt.Errorf("%s: rule %s already defined at %s: %w",
				e.Pos, e.Name, prev, automaton.ErrDuplicateRule)
		}
		seen[e.Name] = e.Pos
		rules = append(rules, automaton.Rule{
			Name:     e.Name,
			Pattern:  unquote(e.Pattern),
			Reserved: e.Reserved,
		})
	}
	return rules, nil
}

func unquote(s string) string {
	if strings.HasPrefix(s, "`") {
		return s[1 : len(s)-1]
	}
	body := s[1 : len(s)-1]
	var b strings.Builder
	for i := 0; i < len(body); i++ {
		if body[i] == '\\' && i+1 < len(body) && (body[i+1] == '"' || body[i+1] == '\\') {
			i++
		}
		b.WriteByte(body[i])
	}
	return b.String()
}

// Write renders rules in definitions-file syntax; Parse reads the output
// back to the same rules. Names must be identifiers other than the
// keyword reserved, otherwise nothing is written.
func Write(w io.Writer, rules []automaton.Rule) error {
	for _, r := range rules {
		if !writableName(r.Name) {
			return fmt.Errorf("lexspec: rule %q: %w: not writable as a definitions-file name",
				r.Name, automaton.ErrInvalidRule)
		}
	}
	for _, r := range rules {
		prefix := ""
		if r.Reserved {
			prefix = "reserved "
		}
		if _, err := fmt.Fprintf(w, "%s%s = %s;\n", prefix, r.Name, quote(r.Pattern)); err != nil {
			return err
		}
	}
	return nil
}

func quote(p string) string {
	if !strings.Contains(p, "`") {
		return "`" + p + "`"
	}
	return `"` + strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(p) + `"`
}

// writableName reports whether name lexes as a single Ident that the
// grammar does not take for the reserved keyword.
func writableName(name string) bool {
	if name == "" || name == "reserved" {
		return false
	}
	for i, r := range name {
		switch {
		case r == '_', 'a' <= r && r <= 'z', 'A' <= r && r <= 'Z':
		case i > 0 && '0' <= r && r <= '9':
		default:
			return false
		}
	}
	return true
}
