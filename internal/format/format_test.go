// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

package format

import (
	"errors"
	"strings"
	"testing"
)

func mustCompile(t *testing.T, spec string) *Rule {
	t.Helper()
	r, err := Compile(spec)
	if err != nil {
		t.Fatalf("Compile(%q) failed: %v", spec, err)
	}
	return r
}

func TestCountedNumeric(t *testing.T) {
	r := mustCompile(t, "3N")
	if r.MaxLength != 3 {
		t.Errorf("expected MaxLength 3, got %d", r.MaxLength)
	}
	if r.InputMode != ModeNumeric {
		t.Errorf("expected numeric input mode, got %q", r.InputMode)
	}
	for _, v := range []string{"007", "12", ""} {
		if !r.Match(v) {
			t.Errorf("expected 3N to accept %q", v)
		}
	}
	for _, v := range []string{"12a", "1234"} {
		if r.Match(v) {
			t.Errorf("expected 3N to reject %q", v)
		}
	}
}

func TestUnboundedUppercase(t *testing.T) {
	r := mustCompile(t, "*X")
	if r.MaxLength != Unbounded {
		t.Errorf("expected unbounded, got %d", r.MaxLength)
	}
	if r.InputMode != ModeVerbatim {
		t.Errorf("expected verbatim input mode, got %q", r.InputMode)
	}
	for _, v := range []string{"", "ABC", "A1-B2!", strings.Repeat("Z9.", 500)} {
		if !r.Match(v) {
			t.Errorf("expected *X to accept %q", v)
		}
	}
	if r.Match("ABc") {
		t.Errorf("expected *X to reject lowercase")
	}
}

func TestClassCodes(t *testing.T) {
	tests := []struct {
		spec   string
		accept []string
		reject []string
		mode   InputMode
	}{
		{"*n", []string{"12.5", "+1(555)", "#$%"}, []string{"12a", "A"}, ModeNone},
		{"*x", []string{"abc", "a1-b2", "z!"}, []string{"aBc"}, ModeVerbatim},
		{"*A", []string{"ABC", "A-B!", ""}, []string{"AB1", "Ab"}, ModeNone},
		{"*a", []string{"abc", "a-b!"}, []string{"ab1", "aB"}, ModeNone},
		{"*N", []string{"0123456789"}, []string{"1.5", "-1"}, ModeNumeric},
	}
	for _, tt := range tests {
		r := mustCompile(t, tt.spec)
		if r.InputMode != tt.mode {
			t.Errorf("%s: expected mode %q, got %q", tt.spec, tt.mode, r.InputMode)
		}
		for _, v := range tt.accept {
			if !r.Match(v) {
				t.Errorf("%s: expected to accept %q", tt.spec, v)
			}
		}
		for _, v := range tt.reject {
			if r.Match(v) {
				t.Errorf("%s: expected to reject %q", tt.spec, v)
			}
		}
	}
}

func TestPatternIsAnchored(t *testing.T) {
	r := mustCompile(t, "2N")
	if r.Pattern.MatchString("a12") || r.Pattern.MatchString("12a") {
		t.Errorf("pattern %q is not anchored", r.Pattern)
	}
}

func TestLargeCount(t *testing.T) {
	r := mustCompile(t, "2000N")
	if r.MaxLength != 2000 {
		t.Errorf("expected MaxLength 2000, got %d", r.MaxLength)
	}
	if !r.Match(strings.Repeat("1", 2000)) {
		t.Errorf("expected 2000 digits to match")
	}
	if r.Match(strings.Repeat("1", 2001)) {
		t.Errorf("expected 2001 digits to be rejected")
	}
}

func TestCountOverflowIsUnbounded(t *testing.T) {
	r := mustCompile(t, "99999999999999999999N")
	if r.MaxLength != Unbounded {
		t.Errorf("expected unbounded, got %d", r.MaxLength)
	}
	if !r.Match(strings.Repeat("7", 5000)) || r.Match("7a") {
		t.Errorf("unexpected matching for %s", r.Spec)
	}
}

func TestMalformedSpecifiers(t *testing.T) {
	for _, spec := range []string{"", "N3", "3", "*Z", "**N", "3NN", " 3N"} {
		if _, err := Compile(spec); !errors.Is(err, ErrSyntax) {
			t.Errorf("Compile(%q): expected ErrSyntax, got %v", spec, err)
		}
	}
}

func TestValidatorRatchet(t *testing.T) {
	v := NewValidator(mustCompile(t, "3N"), "")

	steps := []struct {
		input    string
		want     string
		accepted bool
	}{
		{"1", "1", true},
		{"12", "12", true},
		{"12a", "12", false},
		{"123", "123", true},
		{"1234", "123", false},
		{"", "", true},
	}
	for _, s := range steps {
		got, ok := v.Input(s.input)
		if got != s.want || ok != s.accepted {
			t.Errorf("Input(%q): expected (%q, %v), got (%q, %v)", s.input, s.want, s.accepted, got, ok)
		}
	}
}

func TestValidatorInvalidInitialValue(t *testing.T) {
	v := NewValidator(mustCompile(t, "*N"), "abc")
	if v.Last() != "" {
		t.Errorf("expected invalid initial value to be dropped, got %q", v.Last())
	}
	if got, _ := v.Input("x"); got != "" {
		t.Errorf("expected revert to empty, got %q", got)
	}
}
