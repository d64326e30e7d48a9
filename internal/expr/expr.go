// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

// Package expr defines deferred display values: literal text interleaved
// with placeholders that are resolved on every display.
package expr

import (
	"strings"

	"nickandperla.net/wmlrt/internal/token"
)

// Expr is the interface all display values implement.
type Expr interface {
	// String returns the source form of the value.
	String() string
	// IsEmpty returns true if this is an empty value.
	IsEmpty() bool
}

// Empty represents an empty/absent value.
type Empty struct{}

func (e Empty) String() string { return "" }
func (e Empty) IsEmpty() bool  { return true }

// Text represents literal text content.
type Text struct {
	Value string
}

func (t Text) String() string { return t.Value }
func (t Text) IsEmpty() bool  { return t.Value == "" }

// Placeholder marks where a variable reference was found. It carries the
// variable name and the requested escape mode; the value is looked up
// only when the placeholder is resolved.
type Placeholder struct {
	Name   string
	Escape token.Escape
}

func (p Placeholder) String() string {
	var sb strings.Builder
	sb.WriteRune(token.RuneDollar)
	sb.WriteRune(token.RuneOpen)
	sb.WriteString(p.Name)
	if p.Escape != token.EscapeNone {
		sb.WriteRune(token.RuneEscapeSep)
		sb.WriteString(p.Escape.String())
	}
	sb.WriteRune(token.RuneClose)
	return sb.String()
}
func (p Placeholder) IsEmpty() bool { return false }

// Compound represents a sequence of values.
type Compound struct {
	Parts []Expr
}

// NewCompound creates a compound value, flattening trivial cases.
func NewCompound(parts ...Expr) Expr {
	var filtered []Expr
	for _, p := range parts {
		if p != nil && !p.IsEmpty() {
			filtered = append(filtered, p)
		}
	}
	if len(filtered) == 0 {
		return Empty{}
	}
	if len(filtered) == 1 {
		return filtered[0]
	}
	return Compound{Parts: filtered}
}

func (c Compound) String() string {
	var sb strings.Builder
	for _, p := range c.Parts {
		sb.WriteString(p.String())
	}
	return sb.String()
}

func (c Compound) IsEmpty() bool {
	for _, p := range c.Parts {
		if !p.IsEmpty() {
			return false
		}
	}
	return true
}

// Placeholders returns the placeholders of e in order.
func Placeholders(e Expr) []Placeholder {
	switch v := e.(type) {
	case Placeholder:
		return []Placeholder{v}
	case Compound:
		var out []Placeholder
		for _, p := range v.Parts {
			out = append(out, Placeholders(p)...)
		}
		return out
	}
	return nil
}
