// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

package scanner

import (
	"testing"

	"nickandperla.net/wmlrt/internal/token"
)

func TestScanReferences(t *testing.T) {
	tests := []struct {
		input  string
		tokens []token.Token
		names  []string
	}{
		{"plain text", []token.Token{token.TEXT}, nil},
		{"$foo", []token.Token{token.VARIABLE}, []string{"foo"}},
		{"x=$(foo:escape)", []token.Token{token.TEXT, token.VARIABLE}, []string{"", "foo"}},
		{"$a$(b)", []token.Token{token.VARIABLE, token.VARIABLE}, []string{"a", "b"}},
		{"$$(x)", []token.Token{token.TEXT, token.VARIABLE}, []string{"", "x"}},
		{"$(foo", []token.Token{token.TEXT}, nil},
		{"$(foo:bad)", []token.Token{token.TEXT}, nil},
		{"cost: $5", []token.Token{token.TEXT}, nil},
		{"$_x1 end", []token.Token{token.VARIABLE, token.TEXT}, []string{"_x1", ""}},
	}

	for _, tt := range tests {
		items := New(tt.input).All()
		if len(items) != len(tt.tokens) {
			t.Errorf("%q: expected %d items, got %d", tt.input, len(tt.tokens), len(items))
			continue
		}
		for i, item := range items {
			if item.Token != tt.tokens[i] {
				t.Errorf("%q item %d: expected %s, got %s", tt.input, i, tt.tokens[i], item.Token)
			}
			if item.Token == token.VARIABLE && item.Name != tt.names[i] {
				t.Errorf("%q item %d: expected name %q, got %q", tt.input, i, tt.names[i], item.Name)
			}
		}
	}
}

func TestScanEscapeModes(t *testing.T) {
	tests := []struct {
		input string
		want  token.Escape
	}{
		{"$(v)", token.EscapeNone},
		{"$(v:e)", token.EscapeEscape},
		{"$(v:ESCAPE)", token.EscapeEscape},
		{"$(v:n)", token.EscapeNoEsc},
		{"$(v:noesc)", token.EscapeNoEsc},
		{"$(v:u)", token.EscapeUnescape},
		{"$(v:unesc)", token.EscapeUnescape},
		{"$(v:Unescape)", token.EscapeUnescape},
	}

	for _, tt := range tests {
		item := New(tt.input).Next()
		if item.Token != token.VARIABLE {
			t.Fatalf("%q: expected VARIABLE, got %s", tt.input, item.Token)
		}
		if item.Escape != tt.want {
			t.Errorf("%q: expected escape %q, got %q", tt.input, tt.want, item.Escape)
		}
	}
}

func TestScanTextIsPreserved(t *testing.T) {
	input := "a $(b:n) c $d e"
	var out string
	for _, item := range New(input).All() {
		out += item.Value
	}
	if out != input {
		t.Errorf("expected %q, got %q", input, out)
	}
}

func TestScanEncodedDollar(t *testing.T) {
	items := NewURL("/p?x=%24(name:e)&y=%24name").All()
	var names []string
	for _, item := range items {
		if item.Token == token.VARIABLE {
			names = append(names, item.Name)
		}
	}
	if len(names) != 1 || names[0] != "name" {
		t.Errorf("expected only the parenthesized encoded reference, got %v", names)
	}

	// Display text never treats %24 as a reference.
	for _, item := range New("%24(name)").All() {
		if item.Token == token.VARIABLE {
			t.Errorf("unexpected reference in display text: %q", item.Value)
		}
	}
}
