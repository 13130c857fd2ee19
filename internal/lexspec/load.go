package lexspec

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"sigs.k8s.io/yaml"

	"lexfa/internal/automaton"
)

// yamlFile is the YAML form of a rule set:
//
//	rules:
//	  - name: KEYWORD
//	    pattern: int string
//	    reserved: true
//	  - name: NUM
//	    pattern: '\d+'
type yamlFile struct {
	Rules []yamlRule `json:"rules"`
}

type yamlRule struct {
	Name     string `json:"name"`
	Pattern  string `json:"pattern"`
	Reserved bool   `json:"reserved,omitempty"`
}

// ParseYAML reads a YAML rule set. Unknown fields are rejected.
func ParseYAML(data []byte) ([]automaton.Rule, error) {
	var f yamlFile
	if err := yaml.UnmarshalStrict(data, &f); err != nil {
		return nil, fmt.Errorf("lexspec: %w", err)
	}
	if len(f.Rules) == 0 {
		return nil, ErrNoRules
	}
	rules := make([]automaton.Rule, len(f.Rules))
	for i, r := range f.Rules {
		if r.Name == "" {
			return nil, fmt.Errorf("lexspec: rule #%d: %w: missing name", i+1, automaton.ErrInvalidRule)
		}
		rules[i] = automaton.Rule{Name: r.Name, Pattern: r.Pattern, Reserved: r.Reserved}
	}
	return rules, nil
}

// MarshalYAML renders rules in the form ParseYAML accepts.
func MarshalYAML(rules []automaton.Rule) ([]byte, error) {
	f := yamlFile{Rules: make([]yamlRule, len(rules))}
	for i, r := range rules {
		f.Rules[i] = yamlRule{Name: r.Name, Pattern: r.Pattern, Reserved: r.Reserved}
	}
	return yaml.Marshal(f)
}

// Load reads a rule set from path. Files ending in .yaml or .yml are
// YAML; anything else is a definitions file.
func Load(path string) ([]automaton.Rule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		rules, err := ParseYAML(data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		return rules, nil
	default:
		return Parse(path, string(data))
	}
}
