package automaton

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyPattern      = errors.New("empty pattern")
	ErrUnterminatedClass = errors.New("missing ]")
	ErrUnterminatedGroup = errors.New("missing )")
	ErrTrailingEscape    = errors.New("trailing backslash")
	ErrBadRange          = errors.New("invalid class range")
	ErrEmptyClass        = errors.New("empty character class")
	ErrUnsupported       = errors.New("unsupported syntax")
	ErrNoWords           = errors.New("reserved word list is empty")
	ErrDuplicateRule     = errors.New("duplicate rule name")
	ErrMultipleReserved  = errors.New("more than one reserved-word rule")
	ErrInvalidRule       = errors.New("invalid rule")
	ErrMalformedNFA      = errors.New("malformed NFA")
)

// SyntaxError reports a malformed or unsupported construct in a pattern.
type SyntaxError struct {
	Pattern string
	Offset  int // rune offset of the offending construct
	Err     error
	Detail  string
}

func (e *SyntaxError) Error() string {
	msg := e.Err.Error()
	if e.Detail != "" {
		msg += " " + e.Detail
	}
	return fmt.Sprintf("pattern %q at offset %d: %s", e.Pattern, e.Offset, msg)
}

func (e *SyntaxError) Unwrap() error { return e.Err }

// RuleError ties a compile failure to the token type that caused it.
type RuleError struct {
	Rule string
	Err  error
}

func (e *RuleError) Error() string { return fmt.Sprintf("rule %s: %v", e.Rule, e.Err) }

func (e *RuleError) Unwrap() error { return e.Err }
