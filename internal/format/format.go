// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

// Package format compiles input format specifiers into validation rules.
//
// A specifier is a repeat count followed by a class code: "*N", "3X",
// "12a". The count is "*" (unbounded) or a decimal number; an omitted
// count is unbounded as well, and so is one that overflows an int.
package format

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

// ErrSyntax is returned for specifiers that do not have the count+code shape.
var ErrSyntax = errors.New("malformed format specifier")

// InputMode is a hint for the kind of keyboard a control wants.
type InputMode string

const (
	ModeNone     InputMode = ""
	ModeNumeric  InputMode = "numeric"
	ModeVerbatim InputMode = "verbatim"
)

// Unbounded is the MaxLength of rules compiled from a "*" count.
const Unbounded = -1

// maxRepeat is the largest counted repetition RE2 accepts.
const maxRepeat = 1000

const symbols = "!\"#$%&'()*+,./:;<=>?@\\^_`{|}~-[]"

var shape = regexp.MustCompile(`^(\*|[0-9]*)([NnXxAa])$`)

// Rule is a compiled specifier.
type Rule struct {
	Spec      string
	Pattern   *regexp.Regexp // anchored at both ends
	MaxLength int            // Unbounded or the declared count
	InputMode InputMode
}

// Compile compiles spec into a Rule.
func Compile(spec string) (*Rule, error) {
	m := shape.FindStringSubmatch(spec)
	if m == nil {
		return nil, fmt.Errorf("%w: %q", ErrSyntax, spec)
	}
	count, code := m[1], m[2]

	class, mode := classFor(code[0])

	// A count too large for an int is as good as unbounded.
	max := Unbounded
	if n, err := strconv.Atoi(count); err == nil {
		max = n
	}

	var pattern string
	if max == Unbounded || max > maxRepeat {
		pattern = "^(?:" + class + "*)$"
	} else {
		pattern = fmt.Sprintf("^(?:%s{0,%d})$", class, max)
	}

	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrSyntax, spec, err)
	}
	return &Rule{Spec: spec, Pattern: re, MaxLength: max, InputMode: mode}, nil
}

func classFor(code byte) (string, InputMode) {
	switch code {
	case 'N':
		return "[0-9]", ModeNumeric
	case 'n':
		return "[0-9" + escapeClass(symbols) + "]", ModeNone
	case 'X':
		return "[^a-z]", ModeVerbatim
	case 'x':
		return "[^A-Z]", ModeVerbatim
	case 'A':
		return "[^a-z0-9]", ModeNone
	default: // 'a'
		return "[^A-Z0-9]", ModeNone
	}
}

// escapeClass backslash-escapes every rune so it is literal inside a
// character class.
func escapeClass(s string) string {
	var sb strings.Builder
	for _, r := range s {
		sb.WriteByte('\\')
		sb.WriteRune(r)
	}
	return sb.String()
}

// Match reports whether the whole of value satisfies the rule.
func (r *Rule) Match(value string) bool {
	if r.MaxLength != Unbounded && utf8.RuneCountInString(value) > r.MaxLength {
		return false
	}
	return r.Pattern.MatchString(value)
}

// Validator applies a rule to successive input events. A value that does
// not match is replaced by the last accepted value, so only valid states
// are ever observed.
type Validator struct {
	rule *Rule
	last string
}

// NewValidator creates a validator. The initial value is accepted only if
// it matches the rule; otherwise the validator starts from "".
func NewValidator(rule *Rule, initial string) *Validator {
	v := &Validator{rule: rule}
	if rule.Match(initial) {
		v.last = initial
	}
	return v
}

// Input processes an input event and returns the value the control must
// hold afterwards and whether the new value was accepted.
func (v *Validator) Input(value string) (string, bool) {
	if !v.rule.Match(value) {
		return v.last, false
	}
	v.last = value
	return value, true
}

// Last returns the last accepted value.
func (v *Validator) Last() string { return v.last }
